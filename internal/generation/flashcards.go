package generation

import (
	"context"
	"log/slog"

	"github.com/phrazzld/lecturenotes/internal/provider"
)

const flashcardsLeadIn = "Create flashcards from this lecture:"

// FlashcardGenerator produces front/back study cards.
type FlashcardGenerator struct {
	engine
}

// NewFlashcardGenerator creates a FlashcardGenerator.
func NewFlashcardGenerator(gen provider.Generator, prompts *Prompts, settings Settings, logger *slog.Logger) (*FlashcardGenerator, error) {
	e, err := newEngine(gen, prompts, settings, logger, "flashcard_generator")
	if err != nil {
		return nil, err
	}
	return &FlashcardGenerator{engine: e}, nil
}

// Generate returns cardCount mixed flashcards.
func (g *FlashcardGenerator) Generate(ctx context.Context, transcript string, cardCount int) (string, error) {
	return g.call(ctx, "flashcards", PromptFlashcards, orDefault(cardCount, DefaultFlashcardCount),
		flashcardsLeadIn, transcript, 2*g.settings.MaxTokens)
}

// TermDefinition returns n vocabulary cards.
func (g *FlashcardGenerator) TermDefinition(ctx context.Context, transcript string, n int) (string, error) {
	return g.call(ctx, "term_definition", PromptTermDefinition, orDefault(n, DefaultTermCardCount),
		"", transcript, 2*g.settings.MaxTokens)
}

// QuestionAnswer returns n question/answer cards.
func (g *FlashcardGenerator) QuestionAnswer(ctx context.Context, transcript string, n int) (string, error) {
	return g.call(ctx, "question_answer", PromptQuestionAnswer, orDefault(n, DefaultQACardCount),
		"", transcript, 2*g.settings.MaxTokens)
}

// Concepts returns n concept-explanation cards.
func (g *FlashcardGenerator) Concepts(ctx context.Context, transcript string, n int) (string, error) {
	return g.call(ctx, "concepts", PromptConcepts, orDefault(n, DefaultConceptCardCount),
		"", transcript, 2*g.settings.MaxTokens)
}
