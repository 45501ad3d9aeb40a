package spaceship

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

// Text codes carried by the errors the Service returns.
const (
	TextCodeNotFound           = "SPACESHIP_NOT_FOUND"
	TextCodeInvalidSpaceship   = "INVALID_SPACESHIP"
	TextCodeInvalidPageRequest = "INVALID_PAGE_REQUEST"
	TextCodeDuplicateName      = "DUPLICATE_NAME"
	TextCodePagination         = "PAGINATION_ERROR"
)

const (
	msgInvalidSpaceship   = "Spaceship name cannot be null or empty"
	msgInvalidPageRequest = "Invalid page request"
	msgPagination         = "Error retrieving paginated spaceships"
)

// NewResourceNotFoundError reports that no spaceship has the given id.
func NewResourceNotFoundError(id int64) *goerrors.Error {
	return notFound(fmt.Sprintf("%d", id))
}

func notFound(id string) *goerrors.Error {
	return goerrors.New("Spaceship not found with id "+id, goerrors.CategoryNotFound).
		WithCode(http.StatusNotFound).
		WithTextCode(TextCodeNotFound).
		WithSeverity(goerrors.SeverityWarning)
}

// NewInvalidSpaceshipError wraps a validation failure of a DTO.
func NewInvalidSpaceshipError(err error) *goerrors.Error {
	e := goerrors.FromOzzoValidation(err, msgInvalidSpaceship)
	if e == nil {
		e = goerrors.New(msgInvalidSpaceship, goerrors.CategoryValidation)
	}
	return e.WithCode(http.StatusBadRequest).
		WithTextCode(TextCodeInvalidSpaceship).
		WithSeverity(goerrors.SeverityWarning)
}

// NewInvalidPageRequestError wraps a validation failure of a PageRequest.
func NewInvalidPageRequestError(err error) *goerrors.Error {
	e := goerrors.FromOzzoValidation(err, msgInvalidPageRequest)
	if e == nil {
		e = goerrors.New(msgInvalidPageRequest, goerrors.CategoryValidation)
	}
	return e.WithCode(http.StatusBadRequest).
		WithTextCode(TextCodeInvalidPageRequest).
		WithSeverity(goerrors.SeverityWarning)
}

// NewDuplicateNameError reports a unique violation on name.
func NewDuplicateNameError(name string, cause error) *goerrors.Error {
	return &goerrors.Error{
		Category:  goerrors.CategoryConflict,
		Code:      http.StatusConflict,
		TextCode:  TextCodeDuplicateName,
		Message:   fmt.Sprintf("Spaceship with name %q already exists", name),
		Source:    cause,
		Timestamp: time.Now(),
		Severity:  goerrors.SeverityWarning,
	}
}

// NewPaginationError wraps any failure of a paged or filtered query. The cause stays
// reachable through errors.Is and errors.As.
func NewPaginationError(cause error) *goerrors.Error {
	// built directly: goerrors.Wrap would clone a cause that is already a *goerrors.Error
	return &goerrors.Error{
		Category:  goerrors.CategoryInternal,
		Code:      http.StatusInternalServerError,
		TextCode:  TextCodePagination,
		Message:   msgPagination,
		Source:    cause,
		Timestamp: time.Now(),
		Severity:  goerrors.SeverityError,
	}
}

// IsNotFound reports whether err is a SPACESHIP_NOT_FOUND error.
func IsNotFound(err error) bool {
	return hasTextCode(err, TextCodeNotFound)
}

// IsInvalid reports whether err is an INVALID_SPACESHIP or INVALID_PAGE_REQUEST error.
func IsInvalid(err error) bool {
	return hasTextCode(err, TextCodeInvalidSpaceship) || hasTextCode(err, TextCodeInvalidPageRequest)
}

// IsDuplicateName reports whether err is a DUPLICATE_NAME error.
func IsDuplicateName(err error) bool {
	return hasTextCode(err, TextCodeDuplicateName)
}

// IsPagination reports whether err is a PAGINATION_ERROR.
func IsPagination(err error) bool {
	return hasTextCode(err, TextCodePagination)
}

func hasTextCode(err error, code string) bool {
	var e *goerrors.Error
	if !errors.As(err, &e) {
		return false
	}
	return e.TextCode == code
}
