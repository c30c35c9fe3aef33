package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewArtifact(t *testing.T) {
	t.Parallel()

	a, err := NewArtifact(ArtifactQuiz, "Q1: ...")
	require.NoError(t, err)
	assert.Equal(t, ArtifactQuiz, a.Kind)
	assert.Equal(t, "Q1: ...", a.Content)

	_, err = NewArtifact(ArtifactQuiz, "  \n")
	assert.ErrorIs(t, err, ErrEmptyContent)

	_, err = NewArtifact("essay", "text")
	assert.ErrorIs(t, err, ErrInvalidArtifactKind)
}

func TestParseArtifactKind(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]ArtifactKind{
		"notes":       ArtifactNotes,
		"Quiz":        ArtifactQuiz,
		" FLASHCARDS": ArtifactFlashcards,
	} {
		got, err := ParseArtifactKind(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := ParseArtifactKind("transcript")
	assert.ErrorIs(t, err, ErrInvalidArtifactKind)
}

func TestStatsOf(t *testing.T) {
	t.Parallel()

	assert.Equal(t, TextStats{}, StatsOf(""))
	assert.Equal(t, TextStats{Words: 2, Characters: 12}, StatsOf("hello  world"))
	assert.Equal(t, TextStats{Words: 1, Characters: 4}, StatsOf("café"))
}
