package spaceship_test

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-spaceship/cache"
	"github.com/goliatone/go-spaceship/spaceship"
	otelcodes "go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newCache(t *testing.T, backend cache.Backend) cache.CacheService {
	t.Helper()

	cfg := cache.DefaultConfig()
	cfg.Backend = backend
	cfg.Table = "spaceship-test:" + t.Name()
	svc, err := cache.NewCacheService(cfg)
	if err != nil {
		t.Fatalf("NewCacheService failed: %v", err)
	}
	return svc
}

func enterprise() spaceship.Record {
	return spaceship.Record{ID: 1, Name: "Enterprise"}
}

func richError(t *testing.T, err error) *goerrors.Error {
	t.Helper()

	var e *goerrors.Error
	if !errors.As(err, &e) {
		t.Fatalf("expected *goerrors.Error, got %T: %v", err, err)
	}
	return e
}

func dtoName(d spaceship.DTO) string {
	if d.Name == nil {
		return "<nil>"
	}
	return *d.Name
}

func TestService_GetByID_NotFound(t *testing.T) {
	ids := []int64{0, 2, 999, -1}

	for _, id := range ids {
		t.Run(fmt.Sprint(id), func(t *testing.T) {
			store := newCountingStore(enterprise())
			svc := spaceship.NewService(store)

			_, err := svc.GetByID(context.Background(), id)
			if !spaceship.IsNotFound(err) {
				t.Fatalf("expected not found error, got %v", err)
			}

			e := richError(t, err)
			want := fmt.Sprintf("Spaceship not found with id %d", id)
			if e.Message != want {
				t.Errorf("expected message %q, got %q", want, e.Message)
			}
			if e.Code != 404 {
				t.Errorf("expected code 404, got %d", e.Code)
			}
			if !goerrors.IsNotFound(err) {
				t.Error("expected not_found category")
			}
		})
	}
}

func TestService_GetByID_OtherStoreErrorsPropagate(t *testing.T) {
	boom := errors.New("connection reset")
	store := newCountingStore(enterprise())
	store.failWith("FindByID", boom)
	svc := spaceship.NewService(store)

	_, err := svc.GetByID(context.Background(), 1)
	if !errors.Is(err, boom) {
		t.Fatalf("expected raw store error, got %v", err)
	}
	if spaceship.IsNotFound(err) || spaceship.IsPagination(err) {
		t.Errorf("expected untranslated error, got %v", err)
	}
}

func TestService_CreateThenGetByID(t *testing.T) {
	names := []string{"Enterprise", "Millennium Falcon", "x", "Ünïcödé Ship"}

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			svc := spaceship.NewService(newCountingStore())
			ctx := context.Background()

			created, err := svc.Create(ctx, spaceship.DTO{Name: spaceship.Ptr(name)})
			if err != nil {
				t.Fatalf("Create failed: %v", err)
			}
			if created.ID == nil {
				t.Fatal("expected created DTO to carry an id")
			}

			got, err := svc.GetByID(ctx, *created.ID)
			if err != nil {
				t.Fatalf("GetByID failed: %v", err)
			}
			if dtoName(got) != name {
				t.Errorf("expected name %q, got %q", name, dtoName(got))
			}
		})
	}
}

func TestService_Create_InvalidName(t *testing.T) {
	tests := []struct {
		name string
		dto  spaceship.DTO
	}{
		{"nil name", spaceship.DTO{}},
		{"empty name", spaceship.DTO{Name: spaceship.Ptr("")}},
		{"empty name with id", spaceship.NewDTO(7, "")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newCountingStore()
			svc := spaceship.NewService(store)

			_, err := svc.Create(context.Background(), tt.dto)
			if !spaceship.IsInvalid(err) {
				t.Fatalf("expected invalid spaceship error, got %v", err)
			}

			e := richError(t, err)
			if e.Message != "Spaceship name cannot be null or empty" {
				t.Errorf("unexpected message %q", e.Message)
			}
			if e.TextCode != spaceship.TextCodeInvalidSpaceship || e.Code != 400 {
				t.Errorf("unexpected text code %q / code %d", e.TextCode, e.Code)
			}
			if store.count("Save") != 0 {
				t.Errorf("expected no store save, got %d", store.count("Save"))
			}
		})
	}
}

func TestService_Create_IgnoresIncomingID(t *testing.T) {
	store := newCountingStore(enterprise())
	svc := spaceship.NewService(store)

	created, err := svc.Create(context.Background(), spaceship.NewDTO(1, "Voyager"))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if *created.ID == 1 {
		t.Error("expected the store to assign a fresh id")
	}

	original, err := svc.GetByID(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if dtoName(original) != "Enterprise" {
		t.Errorf("expected record 1 untouched, got %q", dtoName(original))
	}
}

func TestService_Create_DuplicateName(t *testing.T) {
	svc := spaceship.NewService(newCountingStore(enterprise()))

	_, err := svc.Create(context.Background(), spaceship.DTO{Name: spaceship.Ptr("Enterprise")})
	if !spaceship.IsDuplicateName(err) {
		t.Fatalf("expected duplicate name error, got %v", err)
	}
	if !errors.Is(err, spaceship.ErrDuplicateName) {
		t.Error("expected the store sentinel to stay reachable")
	}
	if e := richError(t, err); e.Code != 409 || e.Category != goerrors.CategoryConflict {
		t.Errorf("unexpected code %d / category %s", e.Code, e.Category)
	}
}

func TestService_Update_NameHandling(t *testing.T) {
	tests := []struct {
		name     string
		dto      spaceship.DTO
		wantName string
	}{
		{"nil name keeps stored name", spaceship.DTO{ID: spaceship.Ptr(int64(1))}, "Enterprise"},
		{"empty name overwrites", spaceship.NewDTO(1, ""), ""},
		{"new name replaces", spaceship.NewDTO(1, "Updated Enterprise"), "Updated Enterprise"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newCountingStore(enterprise())
			svc := spaceship.NewService(store)
			ctx := context.Background()

			updated, err := svc.Update(ctx, tt.dto)
			if err != nil {
				t.Fatalf("Update failed: %v", err)
			}
			if dtoName(updated) != tt.wantName {
				t.Errorf("expected returned name %q, got %q", tt.wantName, dtoName(updated))
			}

			stored, err := store.Store.FindByID(ctx, 1)
			if err != nil {
				t.Fatal(err)
			}
			if stored.Name != tt.wantName {
				t.Errorf("expected stored name %q, got %q", tt.wantName, stored.Name)
			}
		})
	}
}

func TestService_Update_NotFound(t *testing.T) {
	tests := []struct {
		name    string
		dto     spaceship.DTO
		message string
	}{
		{"nil id", spaceship.DTO{Name: spaceship.Ptr("Ghost")}, "Spaceship not found with id null"},
		{"absent id", spaceship.NewDTO(99, "Ghost"), "Spaceship not found with id 99"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newCountingStore(enterprise())
			svc := spaceship.NewService(store)

			_, err := svc.Update(context.Background(), tt.dto)
			if !spaceship.IsNotFound(err) {
				t.Fatalf("expected not found error, got %v", err)
			}
			if e := richError(t, err); e.Message != tt.message {
				t.Errorf("expected message %q, got %q", tt.message, e.Message)
			}
			if store.count("Save") != 0 {
				t.Error("expected no save for a missing record")
			}
		})
	}
}

func TestService_Update_DuplicateName(t *testing.T) {
	store := newCountingStore(enterprise(), spaceship.Record{ID: 2, Name: "Voyager"})
	svc := spaceship.NewService(store)

	_, err := svc.Update(context.Background(), spaceship.NewDTO(2, "Enterprise"))
	if !spaceship.IsDuplicateName(err) {
		t.Fatalf("expected duplicate name error, got %v", err)
	}
}

func TestService_Delete(t *testing.T) {
	t.Run("absent id", func(t *testing.T) {
		store := newCountingStore(enterprise())
		svc := spaceship.NewService(store)

		_, err := svc.Delete(context.Background(), 42)
		if !spaceship.IsNotFound(err) {
			t.Fatalf("expected not found error, got %v", err)
		}
		if store.mutations() != 0 {
			t.Errorf("expected no store mutation, got %d", store.mutations())
		}
		if store.Len() != 1 {
			t.Errorf("expected record to remain, got %d records", store.Len())
		}
	})

	t.Run("present id", func(t *testing.T) {
		store := newCountingStore(enterprise())
		svc := spaceship.NewService(store)
		ctx := context.Background()

		deleted, err := svc.Delete(ctx, 1)
		if err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if *deleted.ID != 1 || dtoName(deleted) != "Enterprise" {
			t.Errorf("expected snapshot of the deleted record, got %+v", deleted)
		}
		if _, err := store.Store.FindByID(ctx, 1); !errors.Is(err, spaceship.ErrRecordNotFound) {
			t.Errorf("expected record to be gone, got %v", err)
		}
	})
}

func TestService_GetByID_CacheHitsStoreOnce(t *testing.T) {
	for _, backend := range []cache.Backend{cache.BackendSturdyc, cache.BackendCache2go} {
		t.Run(string(backend), func(t *testing.T) {
			store := newCountingStore(enterprise())
			svc := spaceship.NewService(store, spaceship.WithCache(newCache(t, backend), nil))
			ctx := context.Background()

			for i := 0; i < 5; i++ {
				got, err := svc.GetByID(ctx, 1)
				if err != nil {
					t.Fatalf("GetByID failed: %v", err)
				}
				if dtoName(got) != "Enterprise" {
					t.Errorf("expected Enterprise, got %q", dtoName(got))
				}
			}

			if store.count("FindByID") != 1 {
				t.Errorf("expected 1 store lookup, got %d", store.count("FindByID"))
			}
		})
	}
}

func TestService_GetByID_WithoutCache(t *testing.T) {
	store := newCountingStore(enterprise())
	svc := spaceship.NewService(store)

	for i := 0; i < 3; i++ {
		if _, err := svc.GetByID(context.Background(), 1); err != nil {
			t.Fatal(err)
		}
	}
	if store.count("FindByID") != 3 {
		t.Errorf("expected every call to reach the store, got %d", store.count("FindByID"))
	}
}

func TestService_GetByID_ErrorsAreNotCached(t *testing.T) {
	store := newCountingStore()
	svc := spaceship.NewService(store, spaceship.WithCache(newCache(t, cache.BackendSturdyc), nil))
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := svc.GetByID(ctx, 1); !spaceship.IsNotFound(err) {
			t.Fatalf("expected not found error, got %v", err)
		}
	}
	if store.count("FindByID") != 2 {
		t.Errorf("expected failed lookups to reach the store each time, got %d", store.count("FindByID"))
	}

	if _, err := svc.Create(ctx, spaceship.DTO{Name: spaceship.Ptr("Enterprise")}); err != nil {
		t.Fatal(err)
	}
	got, err := svc.GetByID(ctx, 1)
	if err != nil {
		t.Fatalf("expected record created after a miss to be visible: %v", err)
	}
	if dtoName(got) != "Enterprise" {
		t.Errorf("expected Enterprise, got %q", dtoName(got))
	}
}

func TestService_GetByID_StaleUntilInvalidated(t *testing.T) {
	store := newCountingStore(enterprise())
	svc := spaceship.NewService(store, spaceship.WithCache(newCache(t, cache.BackendSturdyc), nil))
	ctx := context.Background()

	if _, err := svc.GetByID(ctx, 1); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Update(ctx, spaceship.NewDTO(1, "Updated Enterprise")); err != nil {
		t.Fatal(err)
	}

	// writes do not evict cached reads
	stale, err := svc.GetByID(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if dtoName(stale) != "Enterprise" {
		t.Errorf("expected cached name Enterprise, got %q", dtoName(stale))
	}

	if _, err := svc.Delete(ctx, 1); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.GetByID(ctx, 1); err != nil {
		t.Errorf("expected cached read to survive delete, got %v", err)
	}

	if err := svc.InvalidateCache(ctx, 1); err != nil {
		t.Fatalf("InvalidateCache failed: %v", err)
	}
	if _, err := svc.GetByID(ctx, 1); !spaceship.IsNotFound(err) {
		t.Errorf("expected not found after invalidation, got %v", err)
	}
}

func TestService_ListAll(t *testing.T) {
	t.Run("empty store returns empty slice", func(t *testing.T) {
		svc := spaceship.NewService(newCountingStore())

		got, err := svc.ListAll(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		if got == nil || len(got) != 0 {
			t.Errorf("expected empty non-nil slice, got %#v", got)
		}
	})

	t.Run("store errors propagate unwrapped", func(t *testing.T) {
		boom := errors.New("disk on fire")
		store := newCountingStore()
		store.failWith("FindAll", boom)
		svc := spaceship.NewService(store)

		_, err := svc.ListAll(context.Background())
		if err != boom {
			t.Errorf("expected the raw store error, got %v", err)
		}
	})
}

func TestService_ListPaginated(t *testing.T) {
	store := newCountingStore()
	for _, name := range []string{"A", "B", "C", "D", "E"} {
		r := spaceship.Record{Name: name}
		if err := store.Store.Save(context.Background(), &r); err != nil {
			t.Fatal(err)
		}
	}
	svc := spaceship.NewService(store)

	total := 0
	for page := 0; page < 3; page++ {
		got, err := svc.ListPaginated(context.Background(), spaceship.PageRequest{Page: page, Size: 2})
		if err != nil {
			t.Fatalf("ListPaginated failed: %v", err)
		}
		if len(got.Content) > got.PageSize {
			t.Errorf("page %d holds %d items, more than size %d", page, len(got.Content), got.PageSize)
		}
		if got.TotalElements != 5 || got.TotalPages != 3 {
			t.Errorf("unexpected totals %d / %d", got.TotalElements, got.TotalPages)
		}
		if got.PageNumber != page {
			t.Errorf("expected page number %d, got %d", page, got.PageNumber)
		}
		total += len(got.Content)
	}
	if total != 5 {
		t.Errorf("expected pages to add up to 5 elements, got %d", total)
	}

	beyond, err := svc.ListPaginated(context.Background(), spaceship.PageRequest{Page: 9, Size: 2})
	if err != nil {
		t.Fatalf("expected an empty page to be valid, got %v", err)
	}
	if !beyond.Empty || len(beyond.Content) != 0 {
		t.Errorf("expected empty page, got %+v", beyond)
	}
}

func TestService_ListPaginated_InvalidRequest(t *testing.T) {
	tests := []spaceship.PageRequest{
		{Page: -1, Size: 20},
		{Page: 0, Size: 0},
		{Page: 0, Size: -5},
		{Page: 0, Size: spaceship.MaxPageSize + 1},
		{Page: spaceship.MaxPage + 1, Size: 2},
		{Page: math.MaxInt, Size: 2},
		{Page: 1 << 62, Size: 2},
	}

	for _, req := range tests {
		t.Run(fmt.Sprintf("%+v", req), func(t *testing.T) {
			store := newCountingStore()
			svc := spaceship.NewService(store)

			_, err := svc.ListPaginated(context.Background(), req)
			if !spaceship.IsInvalid(err) {
				t.Fatalf("expected invalid page request, got %v", err)
			}
			if e := richError(t, err); e.TextCode != spaceship.TextCodeInvalidPageRequest || len(e.ValidationErrors) == 0 {
				t.Errorf("expected field errors under %s, got %+v", spaceship.TextCodeInvalidPageRequest, e)
			}
			if store.count("FindPage") != 0 {
				t.Error("expected no store call for an invalid request")
			}
		})
	}
}

func TestService_PagedQueriesWrapStoreErrors(t *testing.T) {
	cause := context.DeadlineExceeded
	req := spaceship.PageRequest{Page: 0, Size: 10}

	tests := []struct {
		name   string
		method string
		call   func(*spaceship.Service) error
	}{
		{"ListPaginated", "FindPage", func(s *spaceship.Service) error {
			_, err := s.ListPaginated(context.Background(), req)
			return err
		}},
		{"SearchByFilter", "FindByNameContainingPage", func(s *spaceship.Service) error {
			_, err := s.SearchByFilter(context.Background(), spaceship.Filter{Name: spaceship.Ptr("x")}, req)
			return err
		}},
		{"SearchAll", "FindByNameContaining", func(s *spaceship.Service) error {
			_, err := s.SearchAll(context.Background(), spaceship.Filter{})
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newCountingStore(enterprise())
			store.failWith(tt.method, cause)
			svc := spaceship.NewService(store)

			err := tt.call(svc)
			if !spaceship.IsPagination(err) {
				t.Fatalf("expected pagination error, got %v", err)
			}
			if !errors.Is(err, cause) {
				t.Error("expected the cause to stay reachable")
			}
			e := richError(t, err)
			if e.Message != "Error retrieving paginated spaceships" || e.Code != 500 {
				t.Errorf("unexpected error %q / %d", e.Message, e.Code)
			}
		})
	}
}

func TestService_PaginationErrorKeepsRichCause(t *testing.T) {
	cause := goerrors.New("pool exhausted", goerrors.CategoryExternal).WithTextCode("POOL")
	store := newCountingStore()
	store.failWith("FindPage", cause)
	svc := spaceship.NewService(store)

	_, err := svc.ListPaginated(context.Background(), spaceship.PageRequest{Size: 5})
	if !spaceship.IsPagination(err) {
		t.Fatalf("expected pagination error on top, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Error("expected rich cause to stay reachable")
	}
}

func TestService_SearchByFilter(t *testing.T) {
	store := newCountingStore(
		spaceship.Record{ID: 1, Name: "Enterprise"},
		spaceship.Record{ID: 2, Name: "Voyager"},
		spaceship.Record{ID: 3, Name: "enterprise-d"},
	)
	svc := spaceship.NewService(store)
	req := spaceship.PageRequest{Page: 0, Size: 10}

	tests := []struct {
		name   string
		filter spaceship.Filter
		want   []string
	}{
		{"case insensitive", spaceship.Filter{Name: spaceship.Ptr("ENTER")}, []string{"Enterprise", "enterprise-d"}},
		{"nil name matches all", spaceship.Filter{}, []string{"Enterprise", "Voyager", "enterprise-d"}},
		{"empty name matches all", spaceship.Filter{Name: spaceship.Ptr("")}, []string{"Enterprise", "Voyager", "enterprise-d"}},
		{"no match", spaceship.Filter{Name: spaceship.Ptr("galactica")}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.SearchByFilter(context.Background(), tt.filter, req)
			if err != nil {
				t.Fatal(err)
			}
			if got.TotalElements != len(tt.want) {
				t.Errorf("expected %d matches, got %d", len(tt.want), got.TotalElements)
			}
			var names []string
			for _, d := range got.Content {
				names = append(names, dtoName(d))
			}
			if strings.Join(names, ",") != strings.Join(tt.want, ",") {
				t.Errorf("expected %v, got %v", tt.want, names)
			}
		})
	}
}

func TestService_SearchAll(t *testing.T) {
	svc := spaceship.NewService(newCountingStore(enterprise(), spaceship.Record{ID: 2, Name: "Voyager"}))

	got, err := svc.SearchAll(context.Background(), spaceship.Filter{Name: spaceship.Ptr("voy")})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || dtoName(got[0]) != "Voyager" {
		t.Errorf("expected [Voyager], got %+v", got)
	}

	none, err := svc.SearchAll(context.Background(), spaceship.Filter{Name: spaceship.Ptr("zzz")})
	if err != nil {
		t.Fatal(err)
	}
	if none == nil || len(none) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", none)
	}
}

func TestService_EnterpriseScenario(t *testing.T) {
	tests := []struct {
		name        string
		cachedLists bool
	}{
		{"uncached lists", false},
		{"cached lists", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newCountingStore(enterprise())
			svc := spaceship.NewService(store,
				spaceship.WithCache(newCache(t, cache.BackendSturdyc), cache.NewDefaultKeySerializer()),
				spaceship.WithCachedLists(tt.cachedLists),
			)
			ctx := context.Background()

			all, err := svc.ListAll(ctx)
			if err != nil {
				t.Fatal(err)
			}
			if len(all) != 1 || *all[0].ID != 1 || dtoName(all[0]) != "Enterprise" {
				t.Fatalf("expected [{1 Enterprise}], got %+v", all)
			}

			found, err := svc.SearchByFilter(ctx, spaceship.Filter{Name: spaceship.Ptr("enter")}, spaceship.PageRequest{Size: 20})
			if err != nil {
				t.Fatal(err)
			}
			if len(found.Content) != 1 || dtoName(found.Content[0]) != "Enterprise" {
				t.Fatalf("expected the single Enterprise record, got %+v", found.Content)
			}

			updated, err := svc.Update(ctx, spaceship.NewDTO(1, "Updated Enterprise"))
			if err != nil {
				t.Fatal(err)
			}
			if *updated.ID != 1 || dtoName(updated) != "Updated Enterprise" {
				t.Fatalf("unexpected update result %+v", updated)
			}

			after, err := svc.ListAll(ctx)
			if err != nil {
				t.Fatal(err)
			}

			if !tt.cachedLists {
				if dtoName(after[0]) != "Updated Enterprise" {
					t.Errorf("expected uncached list to reflect the update, got %q", dtoName(after[0]))
				}
				if store.count("FindAll") != 2 {
					t.Errorf("expected 2 list queries, got %d", store.count("FindAll"))
				}
				return
			}

			// cached lists are stale-tolerant until cleared
			if dtoName(after[0]) != "Enterprise" {
				t.Errorf("expected cached list to stay stale, got %q", dtoName(after[0]))
			}
			if store.count("FindAll") != 1 {
				t.Errorf("expected 1 list query, got %d", store.count("FindAll"))
			}

			if err := svc.ClearCache(ctx); err != nil {
				t.Fatalf("ClearCache failed: %v", err)
			}
			fresh, err := svc.ListAll(ctx)
			if err != nil {
				t.Fatal(err)
			}
			if dtoName(fresh[0]) != "Updated Enterprise" {
				t.Errorf("expected cleared list to reflect the update, got %q", dtoName(fresh[0]))
			}
		})
	}
}

func TestService_DeleteThenGetByID(t *testing.T) {
	store := newCountingStore(enterprise())
	svc := spaceship.NewService(store, spaceship.WithCache(newCache(t, cache.BackendCache2go), nil))
	ctx := context.Background()

	if _, err := svc.Delete(ctx, 1); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.GetByID(ctx, 1); !spaceship.IsNotFound(err) {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestService_ListPaginated_CachedLists(t *testing.T) {
	for _, cached := range []bool{false, true} {
		t.Run(fmt.Sprintf("cached=%v", cached), func(t *testing.T) {
			store := newCountingStore(enterprise())
			svc := spaceship.NewService(store,
				spaceship.WithCache(newCache(t, cache.BackendSturdyc), nil),
				spaceship.WithCachedLists(cached),
			)
			ctx := context.Background()
			req := spaceship.PageRequest{Page: 0, Size: 20}

			for i := 0; i < 3; i++ {
				if _, err := svc.ListPaginated(ctx, req); err != nil {
					t.Fatal(err)
				}
			}
			if _, err := svc.ListPaginated(ctx, spaceship.PageRequest{Page: 1, Size: 20}); err != nil {
				t.Fatal(err)
			}

			want := 4
			if cached {
				want = 2
			}
			if store.count("FindPage") != want {
				t.Errorf("expected %d page queries, got %d", want, store.count("FindPage"))
			}

			if err := svc.InvalidateCache(ctx, 1); err != nil {
				t.Fatal(err)
			}
			if _, err := svc.ListPaginated(ctx, req); err != nil {
				t.Fatal(err)
			}
			if store.count("FindPage") != want+1 {
				t.Errorf("expected invalidation to drop cached pages, got %d queries", store.count("FindPage"))
			}
		})
	}
}

func TestService_CacheOperationsWithoutCache(t *testing.T) {
	svc := spaceship.NewService(newCountingStore())

	if err := svc.InvalidateCache(context.Background(), 1); err != nil {
		t.Errorf("expected no-op invalidate, got %v", err)
	}
	if err := svc.ClearCache(context.Background()); err != nil {
		t.Errorf("expected no-op clear, got %v", err)
	}
}

func TestService_RecordsSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	svc := spaceship.NewService(newCountingStore(enterprise()), spaceship.WithTracer(provider.Tracer("test")))
	ctx := context.Background()

	if _, err := svc.GetByID(ctx, 1); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.GetByID(ctx, 2); err == nil {
		t.Fatal("expected not found error")
	}

	spans := recorder.Ended()
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(spans))
	}
	if spans[0].Name() != "spaceship.GetByID" {
		t.Errorf("unexpected span name %q", spans[0].Name())
	}
	if spans[0].Status().Code == otelcodes.Error {
		t.Error("expected successful span")
	}
	if spans[1].Status().Code != otelcodes.Error {
		t.Error("expected failed lookup to mark the span as error")
	}
}
