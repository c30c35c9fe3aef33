package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrEmptyContent is returned when required content is empty.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrInvalidArtifactKind is returned for a kind other than notes, quiz or flashcards.
	ErrInvalidArtifactKind = errors.New("invalid artifact kind")

	// ErrInvalidJobStatus is returned when a job status is not valid.
	ErrInvalidJobStatus = errors.New("invalid job status")

	// ErrInvalidStage is returned for an unknown pipeline stage.
	ErrInvalidStage = errors.New("invalid stage")

	// ErrInvalidStageStatus is returned when a stage status is not valid.
	ErrInvalidStageStatus = errors.New("invalid stage status")

	// ErrEmptyJobID is returned when a job has no ID.
	ErrEmptyJobID = errors.New("job ID cannot be empty")
)
