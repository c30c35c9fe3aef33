package gemini

import "errors"

// Error definitions for the gemini package.
var (
	// ErrNilLogger is returned when no logger is supplied.
	ErrNilLogger = errors.New("logger cannot be nil")

	// ErrContentBlocked is returned when the response was withheld by safety filters.
	ErrContentBlocked = errors.New("response blocked by safety filters")

	// ErrUnsupportedAudio is returned when the audio file type has no known MIME type.
	ErrUnsupportedAudio = errors.New("unsupported audio type")

	// ErrMalformedSegments is returned when the timestamped transcript is not a
	// JSON array of segments.
	ErrMalformedSegments = errors.New("transcription response has no segments")
)
