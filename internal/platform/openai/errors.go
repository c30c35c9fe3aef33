package openai

import "errors"

var (
	// ErrUnsupportedBackend is returned when the client is configured for a
	// backend that does not speak the OpenAI API.
	ErrUnsupportedBackend = errors.New("backend is not OpenAI-compatible")

	// ErrNilLogger is returned when no logger is supplied.
	ErrNilLogger = errors.New("logger cannot be nil")

	// ErrMalformedSegments is returned when a verbose transcription body has
	// no usable segments array.
	ErrMalformedSegments = errors.New("transcription response has no segments")
)
