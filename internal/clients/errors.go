package clients

import (
	"errors"
	"fmt"

	"github.com/andreasstove999/artisan-marketplace/internal/catalog"
)

// Failure classes returned by ContentClient. NotFound and Validation share
// the catalog sentinels so callers match the same errors whether the cart
// runs against the remote API or an in-process repository.
var (
	ErrNetwork    = errors.New("content api unreachable")
	ErrNotFound   = catalog.ErrNotFound
	ErrValidation = catalog.ErrValidation
	ErrMalformed  = errors.New("malformed content api response")
)

type APIError struct {
	Service    string
	Method     string
	Path       string
	StatusCode int
	Message    string

	kind  error
	cause error
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" && e.cause != nil {
		msg = e.cause.Error()
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s %s: %d %s", e.Service, e.Method, e.Path, e.StatusCode, msg)
	}
	return fmt.Sprintf("%s %s %s: %s", e.Service, e.Method, e.Path, msg)
}

// Unwrap exposes both the failure class and the underlying cause.
func (e *APIError) Unwrap() []error {
	if e.cause == nil {
		return []error{e.kind}
	}
	return []error{e.kind, e.cause}
}

func classify(status int) error {
	switch {
	case status == 404:
		return ErrNotFound
	case status == 400 || status == 422:
		return ErrValidation
	default:
		return ErrNetwork
	}
}
