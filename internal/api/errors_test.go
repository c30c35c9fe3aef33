package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/lecturenotes/internal/audio"
	"github.com/phrazzld/lecturenotes/internal/domain"
	"github.com/phrazzld/lecturenotes/internal/export"
	"github.com/phrazzld/lecturenotes/internal/generation"
	"github.com/phrazzld/lecturenotes/internal/pipeline"
	"github.com/phrazzld/lecturenotes/internal/provider"
	"github.com/phrazzld/lecturenotes/internal/service"
	"github.com/phrazzld/lecturenotes/internal/task"
	"github.com/stretchr/testify/assert"
)

func TestMapErrorToStatusCode(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
	}{
		{"nil error", nil, http.StatusInternalServerError},
		{"job not found", service.ErrJobNotFound, http.StatusNotFound},
		{"wrapped artifact not found", fmt.Errorf("download: %w", service.ErrArtifactNotFound), http.StatusNotFound},
		{
			"unknown provider",
			provider.NewError(provider.KindPrecondition, "claude", provider.StageLookup, provider.ErrUnknownProvider),
			http.StatusNotFound,
		},
		{"file too large", fmt.Errorf("save a.mp3: %w", audio.ErrFileTooLarge), http.StatusRequestEntityTooLarge},
		{"unsupported audio", audio.ErrUnsupportedFormat, http.StatusBadRequest},
		{"no audio", fmt.Errorf("%w: %w", service.ErrInvalidRequest, pipeline.ErrNoAudio), http.StatusBadRequest},
		{"empty transcript", generation.ErrEmptyTranscript, http.StatusBadRequest},
		{"invalid kind", domain.ErrInvalidArtifactKind, http.StatusBadRequest},
		{"unsupported export", export.ErrUnsupportedFormat, http.StatusBadRequest},
		{"queue full", task.ErrQueueFull, http.StatusServiceUnavailable},
		{
			"missing credential",
			provider.NewError(provider.KindPrecondition, provider.BackendGroq, provider.StageConfigure, provider.ErrMissingCredential),
			http.StatusBadRequest,
		},
		{
			"transport",
			provider.NewError(provider.KindTransport, provider.BackendOpenAI, provider.StageGenerate, errors.New("dial tcp: timeout")),
			http.StatusGatewayTimeout,
		},
		{
			"backend rejected",
			&provider.Error{Kind: provider.KindBackendRejected, Provider: provider.BackendGemini, Stage: provider.StageGenerate, StatusCode: 401},
			http.StatusBadGateway,
		},
		{"unknown error", errors.New("unknown error"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expectedStatus, MapErrorToStatusCode(tt.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	tests := []struct {
		name            string
		err             error
		expectedMessage string
	}{
		{"nil error", nil, "An unexpected error occurred"},
		{"job not found", service.ErrJobNotFound, "Job not found"},
		{"file too large", audio.ErrFileTooLarge, "Audio file too large"},
		{"no audio", fmt.Errorf("%w: %w", service.ErrInvalidRequest, pipeline.ErrNoAudio), "At least one audio file is required"},
		{"queue full", task.ErrQueueFull, "Server is busy, try again later"},
		{
			"missing credential",
			provider.NewError(provider.KindPrecondition, provider.BackendGroq, provider.StageConfigure, provider.ErrMissingCredential),
			"Missing API key for provider",
		},
		{
			"transport",
			provider.NewError(provider.KindTransport, provider.BackendOpenAI, provider.StageGenerate, errors.New("dial tcp 10.0.0.1:443")),
			"Provider openai did not respond",
		},
		{
			"backend rejected",
			provider.NewError(provider.KindBackendRejected, provider.BackendGroq, provider.StageGenerate, errors.New("invalid key gsk_abcdefghijklmnopqrstuvwxyz")),
			"Provider groq rejected the request",
		},
		{"invalid request", fmt.Errorf("%w: id has invalid format", service.ErrInvalidRequest), "Invalid request"},
		{"internal error", errors.New("open /var/lib/lecturenotes/db: permission denied"), "An unexpected error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := GetSafeErrorMessage(tt.err)
			assert.Equal(t, tt.expectedMessage, msg)
			assert.NotContains(t, msg, "gsk_")
			assert.NotContains(t, msg, "/var/lib")
		})
	}
}

func TestSanitizeValidationError(t *testing.T) {
	err := validator.New().Struct(&GenerateRequest{})
	assert.Equal(t, "Invalid Transcript: required field", SanitizeValidationError(err))

	err = validator.New().Struct(&GenerateRequest{Transcript: "x", Count: -1})
	assert.Equal(t, "Invalid Count: too small", SanitizeValidationError(err))

	assert.Equal(t, "Validation error", SanitizeValidationError(errors.New("something else")))
}
