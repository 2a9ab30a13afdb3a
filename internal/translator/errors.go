package translator

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrMalformed marks a response that could not be used: not JSON, a
	// different key set, non-string values or lost placeholders.
	ErrMalformed = errors.New("malformed translation response")

	// ErrConfig marks an unusable service configuration.
	ErrConfig = errors.New("invalid service configuration")
)

// StatusError is a non-success HTTP answer from a service.
type StatusError struct {
	Service string
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d: %s", e.Service, e.Code, e.Message)
}

type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err as not worth retrying.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// IsPermanent reports whether err must not be retried.
func IsPermanent(err error) bool {
	var p *permanentError
	if errors.As(err, &p) {
		return true
	}
	if errors.Is(err, ErrConfig) || errors.Is(err, context.Canceled) {
		return true
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code == 401 || se.Code == 403
	}
	return false
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformed, fmt.Sprintf(format, args...))
}
