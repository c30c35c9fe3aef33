package config

import (
	"strings"
	"time"

	"github.com/phrazzld/lecturenotes/internal/provider"
)

// Config holds all application configuration.
type Config struct {
	Server        ServerConfig        `mapstructure:"server"        validate:"required"`
	Providers     ProvidersConfig     `mapstructure:"providers"     validate:"required"`
	Transcription TranscriptionConfig `mapstructure:"transcription" validate:"required"`
	Generation    GenerationConfig    `mapstructure:"generation"    validate:"required"`
	Prompts       PromptsConfig       `mapstructure:"prompts"`
	Intake        IntakeConfig        `mapstructure:"intake"        validate:"required"`
	Task          TaskConfig          `mapstructure:"task"          validate:"required"`
	Pipeline      PipelineConfig      `mapstructure:"pipeline"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// Credentials are the per-backend connection settings.
type Credentials struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url" validate:"omitempty,url"`
}

// ProvidersConfig holds the credentials of every backend.
type ProvidersConfig struct {
	OpenAI  Credentials   `mapstructure:"openai"`
	Groq    Credentials   `mapstructure:"groq"`
	Gemini  Credentials   `mapstructure:"gemini"`
	Timeout time.Duration `mapstructure:"timeout" validate:"gt=0"`
}

// For returns the credentials of backend. Unknown names get the zero value.
func (p ProvidersConfig) For(backend string) Credentials {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case provider.BackendOpenAI.String():
		return p.OpenAI
	case provider.BackendGroq.String():
		return p.Groq
	case provider.BackendGemini.String():
		return p.Gemini
	default:
		return Credentials{}
	}
}

// ProviderConfig builds the adapter config for backend and model. apiKey,
// when set, replaces the configured key.
func (p ProvidersConfig) ProviderConfig(backend, model, apiKey string) provider.Config {
	creds := p.For(backend)
	if apiKey != "" {
		creds.APIKey = apiKey
	}
	return provider.Config{
		Backend: provider.Backend(strings.ToLower(strings.TrimSpace(backend))),
		APIKey:  creds.APIKey,
		Model:   model,
		BaseURL: creds.BaseURL,
		Timeout: p.Timeout,
	}
}

// TranscriptionConfig selects the default speech-to-text backend.
type TranscriptionConfig struct {
	Provider string `mapstructure:"provider" validate:"required,oneof=openai groq gemini"`
	Model    string `mapstructure:"model"`
	Language string `mapstructure:"language" validate:"required"`
}

// GenerationConfig selects the default text-generation backend and the
// artifact defaults.
type GenerationConfig struct {
	Provider        string  `mapstructure:"provider"         validate:"required,oneof=openai groq gemini"`
	Model           string  `mapstructure:"model"`
	MaxTokens       int     `mapstructure:"max_tokens"       validate:"gt=0"`
	Temperature     float64 `mapstructure:"temperature"      validate:"gte=0,lte=2"`
	QuizQuestions   int     `mapstructure:"quiz_questions"   validate:"gt=0"`
	FlashcardsCount int     `mapstructure:"flashcards_count" validate:"gt=0"`
	NotesWords      int     `mapstructure:"notes_words"      validate:"gte=0"`
}

// PromptsConfig points at an optional YAML prompt overlay.
type PromptsConfig struct {
	Path string `mapstructure:"path"`
}

// IntakeConfig controls where uploads are stored and how large they may be.
type IntakeConfig struct {
	TempDir       string `mapstructure:"temp_dir"         validate:"required"`
	OutputDir     string `mapstructure:"output_dir"       validate:"required"`
	MaxFileSizeMB int    `mapstructure:"max_file_size_mb" validate:"gt=0"`
}

// MaxFileSizeBytes converts the limit to bytes.
func (c IntakeConfig) MaxFileSizeBytes() int64 {
	return int64(c.MaxFileSizeMB) << 20
}

// TaskConfig sizes the background worker pool.
type TaskConfig struct {
	WorkerCount int           `mapstructure:"worker_count" validate:"gt=0"`
	QueueSize   int           `mapstructure:"queue_size"   validate:"gt=0"`
	Timeout     time.Duration `mapstructure:"timeout"      validate:"gte=0"`
}

// PipelineConfig toggles optional pipeline behavior.
type PipelineConfig struct {
	Parallel bool `mapstructure:"parallel"`
}
