package api

import (
	"net/http"

	"github.com/jrsteele09/monitor-dashboard/internal/errors"
)

// Result is the envelope every backend call returns. A failed Result has the zero
// Data and a non-empty Message. Status is the HTTP status, 0 when no response arrived.
type Result[T any] struct {
	Success bool
	Message string
	Data    T
	Status  int
}

func ok[T any](data T, message string, status int) Result[T] {
	return Result[T]{Success: true, Message: message, Data: data, Status: status}
}

func fail[T any](status int, message, fallback string) Result[T] {
	if message == "" {
		message = fallback
	}
	if message == "" {
		message = "Request failed"
	}
	return Result[T]{Message: message, Status: status}
}

// Unauthorized reports a 401 response. Deciding what to do about it is up to the session.
func (r Result[T]) Unauthorized() bool {
	return r.Status == http.StatusUnauthorized
}

// Err converts a failed Result to an error wrapping the matching sentinel.
func (r Result[T]) Err() error {
	if r.Success {
		return nil
	}
	var sentinel error
	switch r.Status {
	case http.StatusUnauthorized:
		sentinel = errors.ErrUnauthorized
	case http.StatusForbidden:
		sentinel = errors.ErrForbidden
	case http.StatusNotFound:
		sentinel = errors.ErrNotFound
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		sentinel = errors.ErrValidation
	case http.StatusConflict:
		sentinel = errors.ErrConflict
	case http.StatusGatewayTimeout, http.StatusRequestTimeout:
		sentinel = errors.ErrTimeout
	default:
		sentinel = errors.ErrRequestFailed
	}
	return errors.Wrapf(sentinel, "%s", r.Message)
}

// Map carries a failed Result over to another data type.
func Map[T, U any](r Result[T], f func(T) U) Result[U] {
	if !r.Success {
		return Result[U]{Message: r.Message, Status: r.Status}
	}
	return Result[U]{Success: true, Message: r.Message, Data: f(r.Data), Status: r.Status}
}

// Page is one page of a server-side paginated collection.
type Page[T any] struct {
	Items      []T
	Total      int
	Page       int
	Limit      int
	TotalPages int
}
