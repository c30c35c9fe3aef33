package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/phrazzld/lecturenotes/internal/audio"
	"github.com/phrazzld/lecturenotes/internal/domain"
	"github.com/phrazzld/lecturenotes/internal/export"
	"github.com/phrazzld/lecturenotes/internal/generation"
	"github.com/phrazzld/lecturenotes/internal/pipeline"
	"github.com/phrazzld/lecturenotes/internal/provider"
	"github.com/phrazzld/lecturenotes/internal/service"
	"github.com/phrazzld/lecturenotes/internal/task"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, service.ErrJobNotFound),
		errors.Is(err, service.ErrArtifactNotFound),
		errors.Is(err, provider.ErrUnknownProvider):
		return http.StatusNotFound

	// Payload errors
	case errors.Is(err, audio.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge

	// Bad request errors
	case errors.Is(err, service.ErrInvalidRequest),
		errors.Is(err, pipeline.ErrNoAudio),
		errors.Is(err, audio.ErrUnsupportedFormat),
		errors.Is(err, audio.ErrEmptyFile),
		errors.Is(err, generation.ErrEmptyTranscript),
		errors.Is(err, domain.ErrInvalidArtifactKind),
		errors.Is(err, export.ErrUnsupportedFormat):
		return http.StatusBadRequest

	// Capacity errors
	case errors.Is(err, task.ErrQueueFull),
		errors.Is(err, task.ErrRunnerStopped):
		return http.StatusServiceUnavailable
	}

	// Backend errors
	switch provider.KindOf(err) {
	case provider.KindPrecondition:
		return http.StatusBadRequest
	case provider.KindTransport:
		return http.StatusGatewayTimeout
	case provider.KindBackendRejected, provider.KindPartialFailure:
		return http.StatusBadGateway
	}

	// Default: internal server error
	return http.StatusInternalServerError
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	// Handle nil error
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, service.ErrJobNotFound):
		return "Job not found"
	case errors.Is(err, service.ErrArtifactNotFound):
		return "Artifact not found"
	case errors.Is(err, provider.ErrUnknownProvider):
		return "Provider not found"
	case errors.Is(err, audio.ErrFileTooLarge):
		return "Audio file too large"
	case errors.Is(err, audio.ErrUnsupportedFormat):
		return "Unsupported audio format"
	case errors.Is(err, audio.ErrEmptyFile):
		return "Audio file is empty"
	case errors.Is(err, pipeline.ErrNoAudio):
		return "At least one audio file is required"
	case errors.Is(err, generation.ErrEmptyTranscript):
		return "Transcript cannot be empty"
	case errors.Is(err, domain.ErrInvalidArtifactKind):
		return "Invalid artifact kind"
	case errors.Is(err, export.ErrUnsupportedFormat):
		return "Unsupported export format"
	case errors.Is(err, task.ErrQueueFull), errors.Is(err, task.ErrRunnerStopped):
		return "Server is busy, try again later"
	case errors.Is(err, provider.ErrMissingCredential):
		return "Missing API key for provider"
	case errors.Is(err, provider.ErrUnsupportedModel):
		return "Unsupported model for provider"
	case errors.Is(err, provider.ErrCapability):
		return "Provider does not support this operation"
	}

	var pe *provider.Error
	if errors.As(err, &pe) {
		switch pe.Kind {
		case provider.KindTransport:
			return fmt.Sprintf("Provider %s did not respond", pe.Provider)
		case provider.KindBackendRejected:
			return fmt.Sprintf("Provider %s rejected the request", pe.Provider)
		case provider.KindPrecondition:
			return "Invalid provider request"
		}
	}

	if errors.Is(err, service.ErrInvalidRequest) {
		return "Invalid request"
	}
	return "An unexpected error occurred"
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	// Example format: "Key: 'GenerateRequest.Transcript' Error:Field validation for 'Transcript' failed on the 'required' tag"
	if strings.Contains(errMsg, "Field validation") {
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}

				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min", "gte":
		return "too small"
	case "max", "lte":
		return "too large"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}
