package generation

import (
	"context"
	"log/slog"

	"github.com/phrazzld/lecturenotes/internal/provider"
)

const notesLeadIn = "Please create structured notes from this lecture:"

// NotesGenerator produces structured markdown notes.
type NotesGenerator struct {
	engine
}

// NewNotesGenerator creates a NotesGenerator.
func NewNotesGenerator(gen provider.Generator, prompts *Prompts, settings Settings, logger *slog.Logger) (*NotesGenerator, error) {
	e, err := newEngine(gen, prompts, settings, logger, "notes_generator")
	if err != nil {
		return nil, err
	}
	return &NotesGenerator{engine: e}, nil
}

// Generate returns study notes. wordBudget of zero or less means no word limit.
func (g *NotesGenerator) Generate(ctx context.Context, transcript string, wordBudget int) (string, error) {
	return g.call(ctx, "notes", PromptNotes, orDefault(wordBudget, DefaultNotesWordBudget),
		notesLeadIn, transcript, g.settings.MaxTokens)
}

// Summary returns a short prose summary of at most maxWords words.
func (g *NotesGenerator) Summary(ctx context.Context, transcript string, maxWords int) (string, error) {
	return g.call(ctx, "summary", PromptSummary, orDefault(maxWords, DefaultSummaryWords),
		"", transcript, SummaryMaxTokens)
}

// KeyPoints returns a numbered list of the n most important points.
func (g *NotesGenerator) KeyPoints(ctx context.Context, transcript string, n int) (string, error) {
	return g.call(ctx, "key_points", PromptKeyPoints, orDefault(n, DefaultKeyPoints),
		"", transcript, KeyPointsMaxTokens)
}
