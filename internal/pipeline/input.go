package pipeline

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/phrazzld/lecturenotes/internal/audio"
	"github.com/phrazzld/lecturenotes/internal/domain"
	"github.com/phrazzld/lecturenotes/internal/generation"
	"github.com/phrazzld/lecturenotes/internal/provider"
	"github.com/phrazzld/lecturenotes/internal/transcription"
)

// Transcriber is the transcription surface the pipeline needs.
// *transcription.Service implements it.
type Transcriber interface {
	Transcribe(ctx context.Context, req provider.TranscriptionRequest) (string, error)
	TranscribeSegments(ctx context.Context, req provider.TranscriptionRequest) ([]provider.Segment, error)
	TranscribeChunks(ctx context.Context, paths []string, language string) (*transcription.ChunkedTranscript, error)
}

var _ Transcriber = (*transcription.Service)(nil)

// Upload is an audio file that has not been saved yet.
type Upload struct {
	Name string
	// Size is the declared size in bytes, or -1 when unknown.
	Size int64
	Body io.Reader
}

// ArtifactOptions selects which artifacts to generate and how large they
// should be. A zero count selects the generator default.
type ArtifactOptions struct {
	Notes      bool `json:"notes"`
	Quiz       bool `json:"quiz"`
	Flashcards bool `json:"flashcards"`

	NotesWords     int `json:"notes_words,omitempty"`
	QuizQuestions  int `json:"quiz_questions,omitempty"`
	FlashcardCount int `json:"flashcards_count,omitempty"`
}

// AllArtifacts enables every artifact with default counts.
func AllArtifacts() ArtifactOptions {
	return ArtifactOptions{Notes: true, Quiz: true, Flashcards: true}
}

// Enabled reports whether kind is requested.
func (o ArtifactOptions) Enabled(kind domain.ArtifactKind) bool {
	switch kind {
	case domain.ArtifactNotes:
		return o.Notes
	case domain.ArtifactQuiz:
		return o.Quiz
	case domain.ArtifactFlashcards:
		return o.Flashcards
	default:
		return false
	}
}

// Count returns the requested size of kind.
func (o ArtifactOptions) Count(kind domain.ArtifactKind) int {
	switch kind {
	case domain.ArtifactNotes:
		return o.NotesWords
	case domain.ArtifactQuiz:
		return o.QuizQuestions
	case domain.ArtifactFlashcards:
		return o.FlashcardCount
	default:
		return 0
	}
}

// Generators holds one generator per artifact kind. Only the enabled kinds
// need to be set.
type Generators struct {
	Notes      generation.ContentGenerator
	Quiz       generation.ContentGenerator
	Flashcards generation.ContentGenerator
}

func (g Generators) forKind(kind domain.ArtifactKind) generation.ContentGenerator {
	switch kind {
	case domain.ArtifactNotes:
		return g.Notes
	case domain.ArtifactQuiz:
		return g.Quiz
	case domain.ArtifactFlashcards:
		return g.Flashcards
	default:
		return nil
	}
}

// Input describes one run.
type Input struct {
	JobID uuid.UUID

	// Uploads are saved by the save stage. When Files is set the save stage
	// has already run and Uploads is ignored.
	Uploads []Upload
	Files   []*audio.SavedFile

	// Language is the transcription hint; empty uses the service default.
	Language string
	// Timestamps requests segments for a single-file run.
	Timestamps bool

	Transcriber Transcriber
	Generators  Generators
	Artifacts   ArtifactOptions
}
