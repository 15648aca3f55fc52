package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrSessionNotFound      = errors.New("session not found")
	ErrNotAuthenticated     = errors.New("not authenticated")
	ErrForbidden            = errors.New("access forbidden")
	ErrInvalidStatus        = errors.New("invalid task status")
	ErrConfirmationRequired = errors.New("confirmation required")
	ErrUnsupported          = errors.New("unsupported operation")
)

// RemoteError is a non-2xx answer from the backend.
type RemoteError struct {
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string { return e.Message }

// TransportError means the backend could not be reached at all.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string { return e.Err.Error() }

func (e *TransportError) Unwrap() error { return e.Err }

// ValidationError lists the required fields a form omitted. It is raised before
// anything is dispatched.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Problems, "; ")
}

// MessageOf reduces any failure to the human-readable text stored in a slice:
// the server's message first, then the transport error, then the error itself.
func MessageOf(err error) string {
	if err == nil {
		return ""
	}
	var re *RemoteError
	if errors.As(err, &re) && re.Message != "" {
		return re.Message
	}
	var te *TransportError
	if errors.As(err, &te) && te.Err != nil {
		return te.Err.Error()
	}
	return fmt.Sprint(err)
}
