package provider

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors wrapped by *Error.
var (
	ErrUnknownProvider    = errors.New("unsupported provider")
	ErrMissingCredential  = errors.New("missing API key")
	ErrUnsupportedModel   = errors.New("unsupported model")
	ErrEmptyMessages      = errors.New("messages cannot be empty")
	ErrInvalidRole        = errors.New("invalid message role")
	ErrInvalidTemperature = errors.New("temperature out of range")
	ErrInvalidMaxTokens   = errors.New("max tokens cannot be negative")
	ErrEmptyResponse      = errors.New("empty response from provider")
	ErrCapability         = errors.New("capability not supported by provider")
)

// Kind classifies a failure.
type Kind int

const (
	// KindPrecondition is a local failure detected before any network call.
	KindPrecondition Kind = iota + 1
	// KindTransport means the call did not complete: DNS, connection, timeout.
	KindTransport
	// KindBackendRejected means the backend answered with an error or an unusable body.
	KindBackendRejected
	// KindPartialFailure means some inputs of a multi-part operation failed.
	KindPartialFailure
)

func (k Kind) String() string {
	switch k {
	case KindPrecondition:
		return "precondition"
	case KindTransport:
		return "transport"
	case KindBackendRejected:
		return "backend rejected"
	case KindPartialFailure:
		return "partial failure"
	default:
		return "unknown"
	}
}

// Stage names the operation that failed.
type Stage string

const (
	StageLookup     Stage = "lookup"
	StageConfigure  Stage = "configure"
	StageGenerate   Stage = "generate"
	StageTranscribe Stage = "transcribe"
)

// Error is the error type returned by every adapter.
type Error struct {
	Kind     Kind
	Provider Backend
	Stage    Stage
	// StatusCode is the HTTP status returned by the backend, when there was one.
	StatusCode int
	Err        error
}

// NewError builds an *Error without a status code.
func NewError(kind Kind, p Backend, stage Stage, err error) *Error {
	return &Error{Kind: kind, Provider: p, Stage: stage, Err: err}
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s %s: %s", e.Provider, e.Stage, e.Kind)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Retryable reports whether repeating the same call might succeed. The
// adapters never retry on their own; this is advice for callers.
func (e *Error) Retryable() bool {
	switch e.Kind {
	case KindTransport:
		return true
	case KindBackendRejected:
		return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
	default:
		return false
	}
}

// KindOf returns the kind of the first *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return 0
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
