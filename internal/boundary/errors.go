package boundary

import (
	"errors"
	"fmt"
	"runtime"
	"time"
)

// Sentinel errors returned by retry operations.
var (
	// ErrRetriesExhausted is returned once a boundary has used all its retries.
	ErrRetriesExhausted = errors.New("boundary: retries exhausted")

	// ErrRetryNotAllowed is returned when the fallback tier offers no retry
	// (app-level and critical failures only offer a reload).
	ErrRetryNotAllowed = errors.New("boundary: retry not allowed for this failure")

	// ErrRetryPending is returned while a backoff delay is still running.
	ErrRetryPending = errors.New("boundary: retry already pending")

	// ErrNotFailed is returned when retry is requested on a healthy boundary.
	ErrNotFailed = errors.New("boundary: nothing to retry")

	// ErrDisposed is returned after Dispose.
	ErrDisposed = errors.New("boundary: disposed")
)

// Named is implemented by errors that carry a type name used for
// classification, e.g. "ChunkLoadError" or "TypeError".
type Named interface {
	Name() string
}

// NamedError is an error with an explicit name.
type NamedError struct {
	ErrName string
	Message string
}

func (e *NamedError) Error() string { return e.Message }

func (e *NamedError) Name() string { return e.ErrName }

// NewNamedError returns an error with the given name and message.
func NewNamedError(name, message string) error {
	return &NamedError{ErrName: name, Message: message}
}

// Common error names.
const (
	NameError          = "Error"
	NameChunkLoadError = "ChunkLoadError"
	NameTypeError      = "TypeError"
	NamePanic          = "PanicError"
)

// PanicError is a panic recovered while rendering.
type PanicError struct {
	Value      any
	StackTrace string
	Timestamp  time.Time
}

// Error returns the message of the panicked error, or the formatted value.
func (e *PanicError) Error() string {
	if err, ok := e.Value.(error); ok {
		return err.Error()
	}
	return fmt.Sprint(e.Value)
}

func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// Name reports the name of the panicked error, or PanicError for
// non-error values.
func (e *PanicError) Name() string {
	if err, ok := e.Value.(error); ok {
		return ErrorName(err)
	}
	return NamePanic
}

// ErrorName returns the classification name of err. Runtime errors (nil
// dereference, nil map writes, bad type assertions) are TypeErrors.
func ErrorName(err error) string {
	if err == nil {
		return ""
	}
	var n Named
	if errors.As(err, &n) {
		return n.Name()
	}
	var re runtime.Error
	if errors.As(err, &re) {
		return NameTypeError
	}
	return NameError
}

// StackOf returns the captured stack of err, if it carries one.
func StackOf(err error) string {
	var p *PanicError
	if errors.As(err, &p) {
		return p.StackTrace
	}
	return ""
}
