package spaceship

import (
	"context"
	"errors"
	"log/slog"

	"github.com/goliatone/go-spaceship/cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/goliatone/go-spaceship/spaceship"

// Cache region names. Keys inside a region are region::args, so regions never collide.
const (
	RegionByID      = "spaceship"
	RegionAll       = "spaceships"
	RegionPaginated = "spaceshipsPaginated"
)

// Service applies the spaceship business rules on top of a Store.
type Service struct {
	store       Store
	cache       cache.CacheService
	serializer  cache.KeySerializer
	cachedLists bool
	logger      *slog.Logger
	tracer      trace.Tracer

	byID      *cache.Region
	all       *cache.Region
	paginated *cache.Region
}

// Option configures a Service.
type Option func(*Service)

// WithCache puts GetByID, and list reads when enabled, behind svc.
// A nil serializer uses cache.NewDefaultKeySerializer.
func WithCache(svc cache.CacheService, serializer cache.KeySerializer) Option {
	return func(s *Service) {
		s.cache = svc
		s.serializer = serializer
	}
}

// WithCachedLists controls whether ListAll and ListPaginated are cached.
func WithCachedLists(enabled bool) Option {
	return func(s *Service) {
		s.cachedLists = enabled
	}
}

// WithLogger sets the service logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithTracer sets the tracer used for service spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

// NewService creates a Service backed by store.
func NewService(store Store, opts ...Option) *Service {
	s := &Service{
		store:  store,
		logger: slog.New(slog.DiscardHandler),
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.cache != nil {
		s.byID = cache.NewRegion(RegionByID, s.cache, s.serializer)
		if s.cachedLists {
			s.all = cache.NewRegion(RegionAll, s.cache, s.serializer)
			s.paginated = cache.NewRegion(RegionPaginated, s.cache, s.serializer)
		}
	}
	return s
}

// ListAll returns every spaceship. Store errors are returned unwrapped.
func (s *Service) ListAll(ctx context.Context) (result []DTO, err error) {
	ctx, span := s.tracer.Start(ctx, "spaceship.ListAll")
	defer func() { endSpan(span, err) }()

	load := func(ctx context.Context) ([]DTO, error) {
		s.logger.DebugContext(ctx, "loading all spaceships")
		records, err := s.store.FindAll(ctx)
		if err != nil {
			return nil, err
		}
		return ToDTOs(records), nil
	}

	if s.all == nil {
		return load(ctx)
	}
	return cache.Fetch(ctx, s.all, load)
}

// ListPaginated returns one page of spaceships ordered by id.
func (s *Service) ListPaginated(ctx context.Context, req PageRequest) (result Page[DTO], err error) {
	ctx, span := s.tracer.Start(ctx, "spaceship.ListPaginated", trace.WithAttributes(
		attribute.Int("page", req.Page),
		attribute.Int("size", req.Size),
	))
	defer func() { endSpan(span, err) }()

	if err := req.Validate(); err != nil {
		return Page[DTO]{}, NewInvalidPageRequestError(err)
	}

	load := func(ctx context.Context) (Page[DTO], error) {
		s.logger.DebugContext(ctx, "loading spaceship page", "page", req.Page, "size", req.Size)
		records, total, err := s.store.FindPage(ctx, req)
		if err != nil {
			return Page[DTO]{}, err
		}
		return NewPage(ToDTOs(records), req, total), nil
	}

	if s.paginated == nil {
		result, err = load(ctx)
	} else {
		result, err = cache.Fetch(ctx, s.paginated, load, req)
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "paginated query failed", "page", req.Page, "size", req.Size, "error", err)
		return Page[DTO]{}, NewPaginationError(err)
	}
	return result, nil
}

// GetByID returns the spaceship with id, reading through the cache when configured.
func (s *Service) GetByID(ctx context.Context, id int64) (result DTO, err error) {
	ctx, span := s.tracer.Start(ctx, "spaceship.GetByID", trace.WithAttributes(attribute.Int64("id", id)))
	defer func() { endSpan(span, err) }()

	load := func(ctx context.Context) (DTO, error) {
		s.logger.DebugContext(ctx, "loading spaceship", "id", id)
		record, err := s.store.FindByID(ctx, id)
		if errors.Is(err, ErrRecordNotFound) {
			return DTO{}, NewResourceNotFoundError(id)
		}
		if err != nil {
			return DTO{}, err
		}
		return ToDTO(record), nil
	}

	if s.byID == nil {
		return load(ctx)
	}
	return cache.Fetch(ctx, s.byID, load, id)
}

// SearchByFilter returns one page of spaceships whose name contains filter.Name.
func (s *Service) SearchByFilter(ctx context.Context, filter Filter, req PageRequest) (result Page[DTO], err error) {
	ctx, span := s.tracer.Start(ctx, "spaceship.SearchByFilter", trace.WithAttributes(
		attribute.String("filter.name", filter.Pattern()),
		attribute.Int("page", req.Page),
		attribute.Int("size", req.Size),
	))
	defer func() { endSpan(span, err) }()

	if err := req.Validate(); err != nil {
		return Page[DTO]{}, NewInvalidPageRequestError(err)
	}

	records, total, err := s.store.FindByNameContainingPage(ctx, filter.Pattern(), req)
	if err != nil {
		s.logger.ErrorContext(ctx, "filtered query failed", "filter", filter.Pattern(), "error", err)
		return Page[DTO]{}, NewPaginationError(err)
	}
	return NewPage(ToDTOs(records), req, total), nil
}

// SearchAll returns every spaceship whose name contains filter.Name.
func (s *Service) SearchAll(ctx context.Context, filter Filter) (result []DTO, err error) {
	ctx, span := s.tracer.Start(ctx, "spaceship.SearchAll", trace.WithAttributes(
		attribute.String("filter.name", filter.Pattern()),
	))
	defer func() { endSpan(span, err) }()

	records, err := s.store.FindByNameContaining(ctx, filter.Pattern())
	if err != nil {
		s.logger.ErrorContext(ctx, "filtered query failed", "filter", filter.Pattern(), "error", err)
		return nil, NewPaginationError(err)
	}
	return ToDTOs(records), nil
}

// Create stores a new spaceship. Any id in dto is ignored.
func (s *Service) Create(ctx context.Context, dto DTO) (result DTO, err error) {
	ctx, span := s.tracer.Start(ctx, "spaceship.Create")
	defer func() { endSpan(span, err) }()

	if err := validateCreate(dto); err != nil {
		return DTO{}, NewInvalidSpaceshipError(err)
	}

	record := Record{Name: *dto.Name}
	if err := s.save(ctx, &record); err != nil {
		return DTO{}, err
	}

	s.logger.InfoContext(ctx, "spaceship created", "id", record.ID)
	return ToDTO(record), nil
}

// Update replaces the name of an existing spaceship. A nil name leaves the stored
// name untouched; an empty name is stored as given.
func (s *Service) Update(ctx context.Context, dto DTO) (result DTO, err error) {
	ctx, span := s.tracer.Start(ctx, "spaceship.Update")
	defer func() { endSpan(span, err) }()

	if dto.ID == nil {
		return DTO{}, notFound("null")
	}
	span.SetAttributes(attribute.Int64("id", *dto.ID))

	record, err := s.find(ctx, *dto.ID)
	if err != nil {
		return DTO{}, err
	}

	if dto.Name != nil {
		record.Name = *dto.Name
	}

	if err := s.save(ctx, &record); err != nil {
		return DTO{}, err
	}

	s.logger.InfoContext(ctx, "spaceship updated", "id", record.ID)
	return ToDTO(record), nil
}

// Delete removes the spaceship with id and returns it as it was before deletion.
func (s *Service) Delete(ctx context.Context, id int64) (result DTO, err error) {
	ctx, span := s.tracer.Start(ctx, "spaceship.Delete", trace.WithAttributes(attribute.Int64("id", id)))
	defer func() { endSpan(span, err) }()

	record, err := s.find(ctx, id)
	if err != nil {
		return DTO{}, err
	}

	if err := s.store.Delete(ctx, record); err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return DTO{}, NewResourceNotFoundError(id)
		}
		return DTO{}, err
	}

	s.logger.InfoContext(ctx, "spaceship deleted", "id", id)
	return ToDTO(record), nil
}

// InvalidateCache drops the cached entry for id together with every cached list,
// since any of them may contain the record.
func (s *Service) InvalidateCache(ctx context.Context, id int64) error {
	if s.byID == nil {
		return nil
	}

	errs := []error{s.byID.Invalidate(ctx, id)}
	for _, region := range []*cache.Region{s.all, s.paginated} {
		if region != nil {
			errs = append(errs, region.Clear(ctx))
		}
	}
	return errors.Join(errs...)
}

// ClearCache drops every cached spaceship read.
func (s *Service) ClearCache(ctx context.Context) error {
	var errs []error
	for _, region := range []*cache.Region{s.byID, s.all, s.paginated} {
		if region != nil {
			errs = append(errs, region.Clear(ctx))
		}
	}
	return errors.Join(errs...)
}

func (s *Service) find(ctx context.Context, id int64) (Record, error) {
	record, err := s.store.FindByID(ctx, id)
	if errors.Is(err, ErrRecordNotFound) {
		return Record{}, NewResourceNotFoundError(id)
	}
	return record, err
}

func (s *Service) save(ctx context.Context, record *Record) error {
	err := s.store.Save(ctx, record)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrDuplicateName):
		return NewDuplicateNameError(record.Name, err)
	case errors.Is(err, ErrRecordNotFound):
		return NewResourceNotFoundError(record.ID)
	default:
		return err
	}
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
