package provider

import (
	"context"
	"fmt"
	"time"
)

// Backend identifies one of the supported remote services.
type Backend string

// Supported backends. The set is closed; adding a backend means adding a
// descriptor to the registry and a case to the adapter factory.
const (
	BackendOpenAI Backend = "openai"
	BackendGroq   Backend = "groq"
	BackendGemini Backend = "gemini"
)

// String returns the registry key of the backend.
func (b Backend) String() string {
	return string(b)
}

// Capability is a unit of functionality a backend can offer.
type Capability string

const (
	CapabilityGeneration    Capability = "generation"
	CapabilityTranscription Capability = "transcription"
)

// Role is the author of a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether r is one of the roles every backend understands.
func (r Role) Valid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	default:
		return false
	}
}

// Message is a single chat turn.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Temperature bounds accepted by every backend.
const (
	MinTemperature = 0.0
	MaxTemperature = 2.0
)

// GenerationRequest is a provider-neutral chat completion request.
type GenerationRequest struct {
	Messages []Message
	// MaxTokens caps the completion length. Zero leaves the backend default.
	MaxTokens   int
	Temperature float64
}

// Validate checks the request preconditions that must hold before any network
// call is made.
func (r GenerationRequest) Validate() error {
	if len(r.Messages) == 0 {
		return ErrEmptyMessages
	}
	for i, m := range r.Messages {
		if !m.Role.Valid() {
			return fmt.Errorf("%w: message %d has role %q", ErrInvalidRole, i, m.Role)
		}
	}
	if r.Temperature < MinTemperature || r.Temperature > MaxTemperature {
		return fmt.Errorf("%w: %v not in [%v, %v]", ErrInvalidTemperature,
			r.Temperature, MinTemperature, MaxTemperature)
	}
	if r.MaxTokens < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidMaxTokens, r.MaxTokens)
	}
	return nil
}

// TranscriptionRequest is a provider-neutral speech-to-text request.
type TranscriptionRequest struct {
	AudioPath string
	// Language is an optional ISO-639-1 hint such as "en".
	Language string
	// Model overrides the model the adapter was constructed with.
	Model string
}

// Segment is a time-aligned slice of a transcript. Start and End are seconds
// from the beginning of the recording.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Generator produces text from a chat-style request.
type Generator interface {
	// Generate issues exactly one completion call and returns the raw text.
	Generate(ctx context.Context, req GenerationRequest) (string, error)
}

// Transcriber turns an audio file into text.
type Transcriber interface {
	Transcribe(ctx context.Context, req TranscriptionRequest) (string, error)
	TranscribeSegments(ctx context.Context, req TranscriptionRequest) ([]Segment, error)
}

// Config selects and configures one backend adapter.
type Config struct {
	Backend Backend
	APIKey  string
	// Model defaults to the descriptor's default model for the requested capability.
	Model string
	// BaseURL overrides the backend endpoint. Used for proxies and tests.
	BaseURL string
	// Timeout bounds a single outbound call. Zero means no client-side timeout.
	Timeout time.Duration
}
