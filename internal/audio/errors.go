package audio

import "errors"

var (
	// ErrUnsupportedFormat is returned for files whose extension is not accepted.
	ErrUnsupportedFormat = errors.New("unsupported audio format")

	// ErrFileTooLarge is returned when a file exceeds the configured size limit.
	ErrFileTooLarge = errors.New("audio file too large")

	// ErrEmptyFile is returned when an upload contains no bytes.
	ErrEmptyFile = errors.New("audio file is empty")

	// ErrFileNotFound is returned when a path does not name a regular file.
	ErrFileNotFound = errors.New("audio file not found")

	// ErrInvalidConfig is returned when the intake is misconfigured.
	ErrInvalidConfig = errors.New("invalid intake configuration")
)
