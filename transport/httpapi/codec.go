package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-spaceship/spaceship"
)

const maxBodyBytes = 1 << 20

// requestError is a malformed path, query or body.
type requestError struct {
	field string
	err   error
}

func (e *requestError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.field, e.err)
}

func (e *requestError) Unwrap() error { return e.err }

var errEmptyBody = errors.New("request body is required")

// mapRequestErrors turns a requestError into a bad_input response.
func mapRequestErrors(err error) *goerrors.Error {
	var reqErr *requestError
	if !errors.As(err, &reqErr) {
		return nil
	}
	return goerrors.Wrap(err, goerrors.CategoryBadInput, reqErr.Error()).
		WithCode(http.StatusBadRequest).
		WithTextCode(goerrors.HTTPStatusToTextCode(http.StatusBadRequest)).
		WithSeverity(goerrors.SeverityWarning)
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			err = errEmptyBody
		}
		return &requestError{field: "body", err: err}
	}
	return nil
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		return 0, &requestError{field: "id", err: err}
	}
	return id, nil
}

// pageRequest reads page and size from the query, defaulting each when absent.
// Range checks are left to the service.
func pageRequest(r *http.Request) (spaceship.PageRequest, error) {
	req := spaceship.PageRequest{Page: spaceship.DefaultPage, Size: spaceship.DefaultPageSize}

	query := r.URL.Query()
	for _, p := range []struct {
		name string
		dst  *int
	}{
		{"page", &req.Page},
		{"size", &req.Size},
	} {
		raw := query.Get(p.name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return spaceship.PageRequest{}, &requestError{field: p.name, err: err}
		}
		*p.dst = n
	}
	return req, nil
}

// respond encodes data before touching w, so an encoding failure can still be
// rendered as an error response. Write errors after the header are dropped.
func respond(w http.ResponseWriter, status int, data any) error {
	var body bytes.Buffer
	if data != nil {
		if err := json.NewEncoder(&body).Encode(data); err != nil {
			return fmt.Errorf("failed to encode response data: %w", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = body.WriteTo(w)
	return nil
}

// renderError writes err as a goerrors.ErrorResponse. Errors that are not already
// *goerrors.Error become 500 INTERNAL_ERROR unless a mapper claims them.
func (h *handler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	rich := goerrors.MapToError(err, h.mappers).Clone()
	rich.WithRequestID(RequestIDFrom(r.Context()))
	if rich.Code == 0 {
		rich.Code = http.StatusInternalServerError
	}

	goerrors.LogBySeverity(h.logger, rich)

	// driver messages and call sites stay in the log
	rich.Source = nil
	rich.Location = nil

	if werr := respond(w, rich.Code, rich.ToErrorResponse(false, nil)); werr != nil {
		h.logger.ErrorContext(r.Context(), "failed to encode error response", "error", werr)
	}
}
