package adapter

import (
	"context"
	"errors"
)

// Sentinel errors produced by [mapHTTPError] from remote store responses.
var (
	ErrBadRequest          = errors.New("bad request")
	ErrUnauthorized        = errors.New("client unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrNotFound            = errors.New("record not found")
	ErrConflict            = errors.New("conflict")
	ErrInternalServerError = errors.New("internal server error")
	ErrBadGateway          = errors.New("bad gateway")
	ErrServiceUnavailable  = errors.New("service unavailable")
)

// terminal rejections: the remote store understood the request and refused
// it, so retrying the same payload cannot succeed.
var terminalErrors = []error{
	ErrBadRequest,
	ErrUnauthorized,
	ErrForbidden,
	ErrConflict,
}

// IsTerminal reports whether err is a terminal remote rejection (validation
// failure or the like). Terminal entries stay queued with an error marker so
// the user can fix and resubmit; they are never retried blindly.
func IsTerminal(err error) bool {
	for _, sentinel := range terminalErrors {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

// IsNotFound reports whether err means the target record does not exist
// remotely. The drainer treats this as success for update/delete replay: the
// effect is already absent, retrying would loop forever.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsRetryable reports whether err is worth retrying on a later drain pass:
// network failures, timeouts, and server-side errors. Anything that is
// neither terminal nor a not-found is assumed transient, which errs on the
// side of keeping data queued.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if IsTerminal(err) || IsNotFound(err) {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	return true
}
