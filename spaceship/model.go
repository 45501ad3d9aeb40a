package spaceship

import "math"

// Default paging values applied by the transport when a request omits them.
const (
	DefaultPage     = 0
	DefaultPageSize = 20
	MaxPageSize     = 2000

	// MaxPage keeps every valid offset within a 32-bit SQL OFFSET.
	MaxPage = math.MaxInt32 / MaxPageSize
)

// Record is a persisted spaceship row. ID is zero until the store assigns one.
type Record struct {
	ID   int64
	Name string
}

// DTO is the wire representation of a spaceship.
type DTO struct {
	ID   *int64  `json:"id"`
	Name *string `json:"name"`
}

// Filter selects spaceships whose name contains Name, ignoring case.
// A nil or empty Name matches every record.
type Filter struct {
	Name *string `json:"name"`
}

// Pattern returns the substring to match, empty when the filter matches everything.
func (f Filter) Pattern() string {
	if f.Name == nil {
		return ""
	}
	return *f.Name
}

// PageRequest addresses one zero-based page of Size elements.
type PageRequest struct {
	Page int `json:"page"`
	Size int `json:"size"`
}

// Offset returns the number of elements before the requested page. It saturates
// at math.MaxInt instead of overflowing.
func (r PageRequest) Offset() int {
	if r.Page > 0 && r.Size > 0 && r.Page > math.MaxInt/r.Size {
		return math.MaxInt
	}
	return r.Page * r.Size
}

// Page is one slice of an ordered result set plus the totals needed to walk it.
type Page[T any] struct {
	Content       []T  `json:"content"`
	TotalElements int  `json:"totalElements"`
	PageNumber    int  `json:"pageNumber"`
	PageSize      int  `json:"pageSize"`
	TotalPages    int  `json:"totalPages"`
	First         bool `json:"first"`
	Last          bool `json:"last"`
	Empty         bool `json:"empty"`
}

// NewPage builds a Page and derives its navigation fields.
func NewPage[T any](content []T, req PageRequest, total int) Page[T] {
	if content == nil {
		content = []T{}
	}

	totalPages := 1
	if req.Size > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(req.Size)))
	}

	return Page[T]{
		Content:       content,
		TotalElements: total,
		PageNumber:    req.Page,
		PageSize:      req.Size,
		TotalPages:    totalPages,
		First:         req.Page == 0,
		Last:          req.Page+1 >= totalPages,
		Empty:         len(content) == 0,
	}
}

// MapPage converts the content of p with fn, keeping the paging fields.
func MapPage[T, U any](p Page[T], fn func(T) U) Page[U] {
	content := make([]U, 0, len(p.Content))
	for _, item := range p.Content {
		content = append(content, fn(item))
	}

	return Page[U]{
		Content:       content,
		TotalElements: p.TotalElements,
		PageNumber:    p.PageNumber,
		PageSize:      p.PageSize,
		TotalPages:    p.TotalPages,
		First:         p.First,
		Last:          p.Last,
		Empty:         p.Empty,
	}
}

// ToDTO maps a stored record to its wire form. Unsaved records carry a nil id.
func ToDTO(r Record) DTO {
	name := r.Name
	dto := DTO{Name: &name}
	if r.ID != 0 {
		id := r.ID
		dto.ID = &id
	}
	return dto
}

// ToDTOs maps records in order and never returns nil.
func ToDTOs(records []Record) []DTO {
	out := make([]DTO, 0, len(records))
	for _, r := range records {
		out = append(out, ToDTO(r))
	}
	return out
}

// NewDTO is a convenience constructor for tests and callers building requests.
func NewDTO(id int64, name string) DTO {
	return DTO{ID: &id, Name: &name}
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
