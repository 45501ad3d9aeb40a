// Package storetest holds the behaviour every spaceship.Store backend must share.
package storetest

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-spaceship/spaceship"
)

// Factory returns an empty store for one subtest.
type Factory func(t *testing.T) spaceship.Store

// Run executes the store conformance suite against stores built by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Helper()

	tests := []struct {
		name string
		fn   func(t *testing.T, s spaceship.Store)
	}{
		{"SaveAssignsID", testSaveAssignsID},
		{"FindByIDMissing", testFindByIDMissing},
		{"SaveUpdatesExisting", testSaveUpdatesExisting},
		{"SaveUpdateMissing", testSaveUpdateMissing},
		{"DuplicateNameOnInsert", testDuplicateNameOnInsert},
		{"DuplicateNameOnUpdate", testDuplicateNameOnUpdate},
		{"FindAllOrderedByID", testFindAllOrderedByID},
		{"FindPage", testFindPage},
		{"FindByNameContaining", testFindByNameContaining},
		{"FindByNameContainingLiteralWildcards", testLiteralWildcards},
		{"FindByNameContainingPage", testFindByNameContainingPage},
		{"Delete", testDelete},
		{"DeleteAll", testDeleteAll},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.fn(t, newStore(t))
		})
	}
}

func seed(t *testing.T, s spaceship.Store, names ...string) []spaceship.Record {
	t.Helper()

	out := make([]spaceship.Record, 0, len(names))
	for _, name := range names {
		r := spaceship.Record{Name: name}
		if err := s.Save(context.Background(), &r); err != nil {
			t.Fatalf("seed %q: %v", name, err)
		}
		out = append(out, r)
	}
	return out
}

func names(records []spaceship.Record) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.Name)
	}
	return out
}

func equalNames(t *testing.T, got []spaceship.Record, want ...string) {
	t.Helper()

	gotNames := names(got)
	if len(gotNames) != len(want) {
		t.Fatalf("expected %v, got %v", want, gotNames)
	}
	for i := range want {
		if gotNames[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, gotNames)
		}
	}
}

func testSaveAssignsID(t *testing.T, s spaceship.Store) {
	ctx := context.Background()
	r := spaceship.Record{Name: "Enterprise"}
	if err := s.Save(ctx, &r); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if r.ID == 0 {
		t.Fatal("expected Save to assign an id")
	}

	got, err := s.FindByID(ctx, r.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if got != r {
		t.Errorf("expected %+v, got %+v", r, got)
	}

	other := seed(t, s, "Voyager")[0]
	if other.ID == r.ID {
		t.Errorf("expected distinct ids, both got %d", r.ID)
	}
}

func testFindByIDMissing(t *testing.T, s spaceship.Store) {
	_, err := s.FindByID(context.Background(), 4242)
	if !errors.Is(err, spaceship.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func testSaveUpdatesExisting(t *testing.T, s spaceship.Store) {
	ctx := context.Background()
	r := seed(t, s, "Enterprise")[0]

	r.Name = "Updated Enterprise"
	if err := s.Save(ctx, &r); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := s.FindByID(ctx, r.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "Updated Enterprise" {
		t.Errorf("expected updated name, got %q", got.Name)
	}

	all, err := s.FindAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 {
		t.Errorf("expected update not to insert, got %d records", len(all))
	}
}

func testSaveUpdateMissing(t *testing.T, s spaceship.Store) {
	r := spaceship.Record{ID: 4242, Name: "Ghost"}
	if err := s.Save(context.Background(), &r); !errors.Is(err, spaceship.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func testDuplicateNameOnInsert(t *testing.T, s spaceship.Store) {
	seed(t, s, "Enterprise")

	r := spaceship.Record{Name: "Enterprise"}
	if err := s.Save(context.Background(), &r); !errors.Is(err, spaceship.ErrDuplicateName) {
		t.Fatalf("expected ErrDuplicateName, got %v", err)
	}
}

func testDuplicateNameOnUpdate(t *testing.T, s spaceship.Store) {
	records := seed(t, s, "Enterprise", "Voyager")

	r := records[1]
	r.Name = "Enterprise"
	if err := s.Save(context.Background(), &r); !errors.Is(err, spaceship.ErrDuplicateName) {
		t.Fatalf("expected ErrDuplicateName, got %v", err)
	}

	same := records[0]
	if err := s.Save(context.Background(), &same); err != nil {
		t.Fatalf("saving a record under its own name failed: %v", err)
	}
}

func testFindAllOrderedByID(t *testing.T, s spaceship.Store) {
	seed(t, s, "Zeta", "Alpha", "Mu")

	all, err := s.FindAll(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	equalNames(t, all, "Zeta", "Alpha", "Mu")
}

func testFindPage(t *testing.T, s spaceship.Store) {
	ctx := context.Background()
	seed(t, s, "A", "B", "C", "D", "E")

	tests := []struct {
		req  spaceship.PageRequest
		want []string
	}{
		{spaceship.PageRequest{Page: 0, Size: 2}, []string{"A", "B"}},
		{spaceship.PageRequest{Page: 1, Size: 2}, []string{"C", "D"}},
		{spaceship.PageRequest{Page: 2, Size: 2}, []string{"E"}},
		{spaceship.PageRequest{Page: 3, Size: 2}, nil},
		{spaceship.PageRequest{Page: 0, Size: 20}, []string{"A", "B", "C", "D", "E"}},
	}

	seen := 0
	for _, tt := range tests[:4] {
		got, total, err := s.FindPage(ctx, tt.req)
		if err != nil {
			t.Fatalf("FindPage(%+v) failed: %v", tt.req, err)
		}
		if total != 5 {
			t.Errorf("FindPage(%+v) total = %d, want 5", tt.req, total)
		}
		equalNames(t, got, tt.want...)
		seen += len(got)
	}
	if seen != 5 {
		t.Errorf("expected pages to cover 5 records, covered %d", seen)
	}

	got, _, err := s.FindPage(ctx, tests[4].req)
	if err != nil {
		t.Fatal(err)
	}
	equalNames(t, got, tests[4].want...)
}

func testFindByNameContaining(t *testing.T, s spaceship.Store) {
	ctx := context.Background()
	seed(t, s, "Enterprise", "Voyager", "Enterprise-D", "Defiant")

	tests := []struct {
		pattern string
		want    []string
	}{
		{"enter", []string{"Enterprise", "Enterprise-D"}},
		{"ENTER", []string{"Enterprise", "Enterprise-D"}},
		{"iant", []string{"Defiant"}},
		{"", []string{"Enterprise", "Voyager", "Enterprise-D", "Defiant"}},
		{"galactica", nil},
	}

	for _, tt := range tests {
		got, err := s.FindByNameContaining(ctx, tt.pattern)
		if err != nil {
			t.Fatalf("FindByNameContaining(%q) failed: %v", tt.pattern, err)
		}
		equalNames(t, got, tt.want...)
	}
}

func testLiteralWildcards(t *testing.T, s spaceship.Store) {
	ctx := context.Background()
	seed(t, s, "100% Falcon", "Falcon", "snake_case", "snakeXcase", `back\slash`)

	tests := []struct {
		pattern string
		want    []string
	}{
		{"%", []string{"100% Falcon"}},
		{"_", []string{"snake_case"}},
		{`\`, []string{`back\slash`}},
	}

	for _, tt := range tests {
		got, err := s.FindByNameContaining(ctx, tt.pattern)
		if err != nil {
			t.Fatalf("FindByNameContaining(%q) failed: %v", tt.pattern, err)
		}
		equalNames(t, got, tt.want...)
	}
}

func testFindByNameContainingPage(t *testing.T, s spaceship.Store) {
	ctx := context.Background()
	seed(t, s, "Ship 1", "Boat", "Ship 2", "Ship 3")

	got, total, err := s.FindByNameContainingPage(ctx, "ship", spaceship.PageRequest{Page: 1, Size: 2})
	if err != nil {
		t.Fatal(err)
	}
	if total != 3 {
		t.Errorf("expected total 3, got %d", total)
	}
	equalNames(t, got, "Ship 3")
}

func testDelete(t *testing.T, s spaceship.Store) {
	ctx := context.Background()
	records := seed(t, s, "Enterprise", "Voyager")

	if err := s.Delete(ctx, records[0]); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := s.FindByID(ctx, records[0].ID); !errors.Is(err, spaceship.ErrRecordNotFound) {
		t.Errorf("expected deleted record to be gone, got %v", err)
	}
	if err := s.Delete(ctx, records[0]); !errors.Is(err, spaceship.ErrRecordNotFound) {
		t.Errorf("expected ErrRecordNotFound deleting twice, got %v", err)
	}

	all, err := s.FindAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	equalNames(t, all, "Voyager")
}

func testDeleteAll(t *testing.T, s spaceship.Store) {
	ctx := context.Background()
	seed(t, s, "Enterprise", "Voyager")

	if err := s.DeleteAll(ctx); err != nil {
		t.Fatalf("DeleteAll failed: %v", err)
	}
	all, err := s.FindAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 0 {
		t.Errorf("expected empty store, got %v", names(all))
	}

	seed(t, s, "Enterprise")
}
