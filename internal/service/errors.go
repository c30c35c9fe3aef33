package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/lecturenotes/internal/store"
)

// Sentinel errors returned by the lecture service. Callers check them with
// errors.Is; the API layer maps them to HTTP status codes.
var (
	// ErrJobNotFound indicates that the job does not exist.
	// API layer should map this to HTTP 404 Not Found.
	ErrJobNotFound = errors.New("job not found")

	// ErrInvalidRequest indicates a request that fails validation before any
	// work is done.
	// API layer should map this to HTTP 400 Bad Request.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrArtifactNotFound indicates that a job has no artifact of the
	// requested kind.
	ErrArtifactNotFound = errors.New("artifact not found")
)

// LectureServiceError wraps errors from the lecture service with context.
type LectureServiceError struct {
	// Operation is the operation that failed (e.g., "submit_lecture", "generate")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for LectureServiceError.
func (e *LectureServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("lecture service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("lecture service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *LectureServiceError) Unwrap() error {
	return e.Err
}

// NewLectureServiceError creates a new LectureServiceError.
// It returns known sentinel errors directly without wrapping.
func NewLectureServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, ErrJobNotFound) || store.IsNotFoundError(err) {
		return ErrJobNotFound
	}

	return &LectureServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
