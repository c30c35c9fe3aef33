package generation

import (
	"context"
	"log/slog"

	"github.com/phrazzld/lecturenotes/internal/provider"
)

const quizLeadIn = "Create a quiz from this lecture:"

// QuizGenerator produces practice questions.
type QuizGenerator struct {
	engine
}

// NewQuizGenerator creates a QuizGenerator.
func NewQuizGenerator(gen provider.Generator, prompts *Prompts, settings Settings, logger *slog.Logger) (*QuizGenerator, error) {
	e, err := newEngine(gen, prompts, settings, logger, "quiz_generator")
	if err != nil {
		return nil, err
	}
	return &QuizGenerator{engine: e}, nil
}

// Generate returns a mixed quiz of questionCount questions.
func (g *QuizGenerator) Generate(ctx context.Context, transcript string, questionCount int) (string, error) {
	return g.call(ctx, "quiz", PromptQuiz, orDefault(questionCount, DefaultQuizQuestions),
		quizLeadIn, transcript, 2*g.settings.MaxTokens)
}

// MultipleChoice returns n four-option questions with answers.
func (g *QuizGenerator) MultipleChoice(ctx context.Context, transcript string, n int) (string, error) {
	return g.call(ctx, "multiple_choice", PromptMultipleChoice, orDefault(n, DefaultMultipleChoiceCount),
		"", transcript, 2*g.settings.MaxTokens)
}

// TrueFalse returns n true/false statements with answers.
func (g *QuizGenerator) TrueFalse(ctx context.Context, transcript string, n int) (string, error) {
	return g.call(ctx, "true_false", PromptTrueFalse, orDefault(n, DefaultTrueFalseCount),
		"", transcript, g.settings.MaxTokens)
}

// ShortAnswer returns n open questions with model answers.
func (g *QuizGenerator) ShortAnswer(ctx context.Context, transcript string, n int) (string, error) {
	return g.call(ctx, "short_answer", PromptShortAnswer, orDefault(n, DefaultShortAnswerCount),
		"", transcript, g.settings.MaxTokens)
}
