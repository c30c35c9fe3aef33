package pipeline

import "errors"

var (
	// ErrNoAudio is returned when a run has neither uploads nor saved files.
	ErrNoAudio = errors.New("no audio to process")

	// ErrNoTranscriber is returned when a run has no transcription backend.
	ErrNoTranscriber = errors.New("no transcriber configured")

	// ErrNoGenerator is returned when an enabled artifact has no generator.
	ErrNoGenerator = errors.New("no generator configured")

	// ErrNilIntake is returned when the pipeline is created without an intake.
	ErrNilIntake = errors.New("intake cannot be nil")

	// ErrNilLogger is returned when the pipeline is created without a logger.
	ErrNilLogger = errors.New("logger cannot be nil")
)
