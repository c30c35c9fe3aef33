package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/phrazzld/lecturenotes/internal/provider"
)

// ContentGenerator is implemented by the three artifact generators. count is
// the question count, card count or word budget; zero or less selects the
// generator's default.
type ContentGenerator interface {
	Generate(ctx context.Context, transcript string, count int) (string, error)
}

// Default counts used when a caller passes zero or less.
const (
	DefaultQuizQuestions   = 10
	DefaultFlashcardCount  = 15
	DefaultNotesWordBudget = 0

	DefaultSummaryWords        = 300
	DefaultKeyPoints           = 10
	DefaultMultipleChoiceCount = 10
	DefaultTrueFalseCount      = 10
	DefaultShortAnswerCount    = 5
	DefaultTermCardCount       = 15
	DefaultQACardCount         = 15
	DefaultConceptCardCount    = 10
)

// Fixed token budgets for the secondary note operations.
const (
	SummaryMaxTokens   = 500
	KeyPointsMaxTokens = 800
)

// Settings are the sampling parameters shared by every generator.
type Settings struct {
	// MaxTokens is the base completion budget. Quiz and flashcard operations
	// use twice this value.
	MaxTokens   int
	Temperature float64
}

// DefaultSettings mirrors the configuration defaults.
func DefaultSettings() Settings {
	return Settings{MaxTokens: 2000, Temperature: 0.7}
}

// Validate checks the settings against the ranges every backend accepts.
func (s Settings) Validate() error {
	if s.MaxTokens < 0 {
		return fmt.Errorf("%w: max tokens %d", ErrInvalidConfig, s.MaxTokens)
	}
	if s.Temperature < provider.MinTemperature || s.Temperature > provider.MaxTemperature {
		return fmt.Errorf("%w: temperature %v", ErrInvalidConfig, s.Temperature)
	}
	return nil
}

// engine holds what every generator needs and performs the single call.
type engine struct {
	gen      provider.Generator
	prompts  *Prompts
	settings Settings
	logger   *slog.Logger
}

func newEngine(gen provider.Generator, prompts *Prompts, settings Settings, logger *slog.Logger, component string) (engine, error) {
	if gen == nil {
		return engine{}, fmt.Errorf("%w: generator cannot be nil", ErrInvalidConfig)
	}
	if prompts == nil {
		return engine{}, fmt.Errorf("%w: prompts cannot be nil", ErrInvalidConfig)
	}
	if logger == nil {
		return engine{}, fmt.Errorf("%w: logger cannot be nil", ErrInvalidConfig)
	}
	if err := settings.Validate(); err != nil {
		return engine{}, err
	}
	return engine{
		gen:      gen,
		prompts:  prompts,
		settings: settings,
		logger:   logger.With("component", component),
	}, nil
}

// call renders the prompt and issues one Generate call. leadIn, when set,
// is placed on its own paragraph before the transcript in the user message.
func (e engine) call(
	ctx context.Context,
	op string,
	prompt PromptName,
	count int,
	leadIn string,
	transcript string,
	maxTokens int,
) (string, error) {
	if strings.TrimSpace(transcript) == "" {
		return "", fmt.Errorf("%s: %w", op, ErrEmptyTranscript)
	}

	system, err := e.prompts.Render(prompt, PromptData{Count: count})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	user := transcript
	if leadIn != "" {
		user = leadIn + "\n\n" + transcript
	}

	e.logger.DebugContext(ctx, "generating content",
		"operation", op,
		"count", count,
		"transcript_characters", len(transcript),
		"max_tokens", maxTokens)

	text, err := e.gen.Generate(ctx, provider.GenerationRequest{
		Messages: []provider.Message{
			{Role: provider.RoleSystem, Content: system},
			{Role: provider.RoleUser, Content: user},
		},
		MaxTokens:   maxTokens,
		Temperature: e.settings.Temperature,
	})
	if err != nil {
		var pe *provider.Error
		if errors.As(err, &pe) {
			e.logger.WarnContext(ctx, "content generation failed",
				"operation", op,
				"kind", pe.Kind.String(),
				"provider", string(pe.Provider),
				"retryable", pe.Retryable())
		}
		return "", fmt.Errorf("%w: %s: %w", ErrGenerationFailed, op, err)
	}

	e.logger.InfoContext(ctx, "content generated", "operation", op, "characters", len(text))
	return text, nil
}

func orDefault(n, def int) int {
	if n <= 0 {
		return def
	}
	return n
}
