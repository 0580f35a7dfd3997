package domain

import (
	"errors"
	"fmt"
)

var (
	// Common domain errors
	ErrSessionClosed    = errors.New("chat session is closed")
	ErrBusy             = errors.New("another request is already in flight")
	ErrMessageTooLong   = errors.New("message exceeds the allowed length")
	ErrNoCandidate      = errors.New("no file selected")
	ErrUnsupportedMedia = errors.New("unsupported file type")
	ErrFileTooLarge     = errors.New("file exceeds the upload size limit")
	ErrInvalidState     = errors.New("operation not allowed in the current state")
	ErrInvalidArgument  = errors.New("invalid argument")
)

// ServiceError is a completed HTTP exchange the backend answered unhappily:
// a non-2xx status or a 2xx body with success=false. Detail carries the
// server-supplied message when one was present.
type ServiceError struct {
	Status int
	Detail string
}

func (e *ServiceError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("service error: http %d", e.Status)
	}
	return fmt.Sprintf("service error: http %d: %s", e.Status, e.Detail)
}

// IsServiceError distinguishes backend rejections from connectivity
// failures; adapters return wrapped transport errors for the latter.
func IsServiceError(err error) bool {
	var se *ServiceError
	return errors.As(err, &se)
}

// ServiceDetail extracts the server-supplied detail message, if any.
func ServiceDetail(err error) string {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Detail
	}
	return ""
}
