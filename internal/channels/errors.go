package channels

import (
	"errors"
	"net/http"
)

var (
	ErrOutOfRange     = errors.New("channel index out of range")
	ErrDuplicateName  = errors.New("name already registered")
	ErrDuplicateIndex = errors.New("channel index already assigned")
	ErrRegistryFull   = errors.New("no free channel index")
	ErrUnknownName    = errors.New("name not registered")
)

// StatusCode maps a registry or bus error to the HTTP status the REST layer reports.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, ErrUnknownName):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicateName), errors.Is(err, ErrDuplicateIndex), errors.Is(err, ErrRegistryFull):
		return http.StatusConflict
	case errors.Is(err, ErrOutOfRange):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
