package generation

import "errors"

// Common errors returned by the generation package
var (
	// ErrGenerationFailed wraps every error returned by the underlying generator.
	// The original *provider.Error stays reachable through errors.As.
	ErrGenerationFailed = errors.New("failed to generate content from transcript")

	// ErrEmptyTranscript is returned before any call when the transcript is blank
	ErrEmptyTranscript = errors.New("transcript cannot be empty")

	// ErrInvalidConfig is returned when the generator configuration is invalid
	ErrInvalidConfig = errors.New("invalid generator configuration")

	// ErrInvalidPrompt is returned when a prompt template is empty or does not parse
	ErrInvalidPrompt = errors.New("invalid prompt template")
)
