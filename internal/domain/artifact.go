package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// ArtifactKind names a generated artifact.
type ArtifactKind string

// Artifact kinds, in the order the pipeline produces them.
const (
	ArtifactNotes      ArtifactKind = "notes"
	ArtifactQuiz       ArtifactKind = "quiz"
	ArtifactFlashcards ArtifactKind = "flashcards"
)

// ArtifactKinds returns every kind in pipeline order.
func ArtifactKinds() []ArtifactKind {
	return []ArtifactKind{ArtifactNotes, ArtifactQuiz, ArtifactFlashcards}
}

// Valid reports whether k is a known kind.
func (k ArtifactKind) Valid() bool {
	switch k {
	case ArtifactNotes, ArtifactQuiz, ArtifactFlashcards:
		return true
	default:
		return false
	}
}

// Stage returns the pipeline stage that produces k.
func (k ArtifactKind) Stage() Stage {
	return Stage(k)
}

// ParseArtifactKind accepts a kind in any case.
func ParseArtifactKind(s string) (ArtifactKind, error) {
	k := ArtifactKind(strings.ToLower(strings.TrimSpace(s)))
	if !k.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidArtifactKind, s)
	}
	return k, nil
}

// Artifact is generated text. The content is opaque: it is never parsed, and
// its only invariant is that it is not empty.
type Artifact struct {
	Kind      ArtifactKind `json:"kind"`
	Content   string       `json:"content"`
	CreatedAt time.Time    `json:"created_at"`
}

// NewArtifact validates kind and content.
func NewArtifact(kind ArtifactKind, content string) (*Artifact, error) {
	a := &Artifact{
		Kind:      kind,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// Validate checks the artifact invariants.
func (a *Artifact) Validate() error {
	if !a.Kind.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidArtifactKind, a.Kind)
	}
	if strings.TrimSpace(a.Content) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyContent, a.Kind)
	}
	return nil
}

// TextStats holds the word and character counts of a text.
type TextStats struct {
	Words      int `json:"words"`
	Characters int `json:"characters"`
}

// StatsOf counts whitespace-separated words and runes.
func StatsOf(text string) TextStats {
	return TextStats{
		Words:      len(strings.Fields(text)),
		Characters: utf8.RuneCountInString(text),
	}
}
