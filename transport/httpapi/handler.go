package httpapi

import (
	"context"
	"log/slog"
	"net/http"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-spaceship/spaceship"
)

// Service is the set of spaceship operations the routes call.
type Service interface {
	ListAll(ctx context.Context) ([]spaceship.DTO, error)
	ListPaginated(ctx context.Context, req spaceship.PageRequest) (spaceship.Page[spaceship.DTO], error)
	GetByID(ctx context.Context, id int64) (spaceship.DTO, error)
	SearchByFilter(ctx context.Context, filter spaceship.Filter, req spaceship.PageRequest) (spaceship.Page[spaceship.DTO], error)
	SearchAll(ctx context.Context, filter spaceship.Filter) ([]spaceship.DTO, error)
	Create(ctx context.Context, dto spaceship.DTO) (spaceship.DTO, error)
	Update(ctx context.Context, dto spaceship.DTO) (spaceship.DTO, error)
	Delete(ctx context.Context, id int64) (spaceship.DTO, error)
}

var _ Service = (*spaceship.Service)(nil)

// TextCodeNoSpaceships marks the 404 returned for an empty listing.
const TextCodeNoSpaceships = "SPACESHIPS_NOT_FOUND"

// webHandler is an http handler that reports failures instead of writing them.
type webHandler func(w http.ResponseWriter, r *http.Request) error

type handler struct {
	svc           Service
	logger        *slog.Logger
	eagerNotFound bool
	mappers       []goerrors.ErrorMapper
	mux           *http.ServeMux
}

// Option configures the handler returned by New.
type Option func(*handler)

// WithLogger sets the logger used for request failures.
func WithLogger(logger *slog.Logger) Option {
	return func(h *handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithEagerNotFound makes GET /spaceships/paginated answer 404 for an empty page.
func WithEagerNotFound(enabled bool) Option {
	return func(h *handler) {
		h.eagerNotFound = enabled
	}
}

// WithErrorMappers appends mappers consulted for errors that are not already *goerrors.Error.
func WithErrorMappers(mappers ...goerrors.ErrorMapper) Option {
	return func(h *handler) {
		h.mappers = append(h.mappers, mappers...)
	}
}

// New returns the spaceship REST API backed by svc.
func New(svc Service, opts ...Option) http.Handler {
	h := &handler{
		svc:     svc,
		logger:  slog.New(slog.DiscardHandler),
		mappers: []goerrors.ErrorMapper{mapRequestErrors},
		mux:     http.NewServeMux(),
	}
	for _, opt := range opts {
		opt(h)
	}

	h.handle("GET /healthz", h.health)
	h.handle("GET /spaceships", h.listAll)
	h.handle("GET /spaceships/paginated", h.listPaginated)
	h.handle("GET /spaceships/{id}", h.getByID)
	h.handle("POST /spaceships/search", h.search)
	h.handle("POST /spaceships/search/all", h.searchAll)
	h.handle("POST /spaceships/create", h.create)
	h.handle("PUT /spaceships/update", h.update)
	h.handle("DELETE /spaceships/delete/{id}", h.delete)

	return requestID(h.mux)
}

func (h *handler) handle(pattern string, fn webHandler) {
	h.mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r); err != nil {
			h.renderError(w, r, err)
		}
	})
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) error {
	return respond(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) listAll(w http.ResponseWriter, r *http.Request) error {
	ships, err := h.svc.ListAll(r.Context())
	if err != nil {
		return err
	}
	return respond(w, http.StatusOK, ships)
}

func (h *handler) listPaginated(w http.ResponseWriter, r *http.Request) error {
	req, err := pageRequest(r)
	if err != nil {
		return err
	}

	page, err := h.svc.ListPaginated(r.Context(), req)
	if err != nil {
		return err
	}
	if h.eagerNotFound && page.Empty {
		return noSpaceships()
	}
	return respond(w, http.StatusOK, page)
}

func (h *handler) getByID(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}

	if id < 0 {
		h.logger.WarnContext(r.Context(), "spaceship requested with negative id",
			"id", id,
			"request_id", RequestIDFrom(r.Context()),
		)
	}

	ship, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		return err
	}
	return respond(w, http.StatusOK, ship)
}

func (h *handler) search(w http.ResponseWriter, r *http.Request) error {
	req, err := pageRequest(r)
	if err != nil {
		return err
	}

	var filter spaceship.Filter
	if err := decodeJSON(r, &filter); err != nil {
		return err
	}

	page, err := h.svc.SearchByFilter(r.Context(), filter, req)
	if err != nil {
		return err
	}
	return respond(w, http.StatusOK, page)
}

func (h *handler) searchAll(w http.ResponseWriter, r *http.Request) error {
	var filter spaceship.Filter
	if err := decodeJSON(r, &filter); err != nil {
		return err
	}

	ships, err := h.svc.SearchAll(r.Context(), filter)
	if err != nil {
		return err
	}
	if len(ships) == 0 {
		return noSpaceships()
	}
	return respond(w, http.StatusOK, ships)
}

func (h *handler) create(w http.ResponseWriter, r *http.Request) error {
	var dto spaceship.DTO
	if err := decodeJSON(r, &dto); err != nil {
		return err
	}

	created, err := h.svc.Create(r.Context(), dto)
	if err != nil {
		return err
	}
	return respond(w, http.StatusCreated, created)
}

func (h *handler) update(w http.ResponseWriter, r *http.Request) error {
	var dto spaceship.DTO
	if err := decodeJSON(r, &dto); err != nil {
		return err
	}

	updated, err := h.svc.Update(r.Context(), dto)
	if err != nil {
		return err
	}
	return respond(w, http.StatusOK, updated)
}

func (h *handler) delete(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}

	deleted, err := h.svc.Delete(r.Context(), id)
	if err != nil {
		return err
	}
	return respond(w, http.StatusOK, deleted)
}

func noSpaceships() *goerrors.Error {
	return goerrors.New("Spaceships not found", goerrors.CategoryNotFound).
		WithCode(http.StatusNotFound).
		WithTextCode(TextCodeNoSpaceships).
		WithSeverity(goerrors.SeverityInfo)
}
