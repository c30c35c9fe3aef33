package generation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPrompts_AllPresentAndCompile(t *testing.T) {
	t.Parallel()

	set := DefaultPrompts()
	for _, name := range promptNames {
		assert.NotEmpty(t, *set.field(name), "prompt %s", name)
	}

	prompts, err := set.Compile()
	require.NoError(t, err)

	out, err := prompts.Render(PromptQuiz, PromptData{Count: 5})
	require.NoError(t, err)
	assert.Contains(t, out, "Create 5 questions from the lecture content.")
}

func TestLoadPrompts_OverlaysFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "prompts.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"quiz: |\n  Write exactly {{.Count}} riddles.\nflashcards: \"\"\n"), 0o600))

	before, err := os.ReadDir(dir)
	require.NoError(t, err)

	set, err := LoadPrompts(path)
	require.NoError(t, err)
	assert.Equal(t, "Write exactly {{.Count}} riddles.\n", set.Quiz)
	assert.Equal(t, DefaultPrompts().Flashcards, set.Flashcards, "empty entries keep the default")
	assert.Equal(t, DefaultPrompts().Notes, set.Notes)

	after, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, after, len(before), "loading prompts never writes files")

	prompts, err := set.Compile()
	require.NoError(t, err)
	out, err := prompts.Render(PromptQuiz, PromptData{Count: 3})
	require.NoError(t, err)
	assert.Equal(t, "Write exactly 3 riddles.", out)
}

func TestLoadPrompts_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	_, err := LoadPrompts(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, ErrInvalidConfig)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("quiz: [unterminated"), 0o600))
	_, err = LoadPrompts(bad)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	set, err := LoadPrompts("")
	require.NoError(t, err)
	assert.Equal(t, DefaultPrompts(), set)
}

func TestCompile_RejectsBadTemplates(t *testing.T) {
	t.Parallel()

	set := DefaultPrompts()
	set.Notes = "{{.Count"
	_, err := set.Compile()
	assert.ErrorIs(t, err, ErrInvalidPrompt)

	set = DefaultPrompts()
	set.Concepts = "  "
	_, err = set.Compile()
	assert.ErrorIs(t, err, ErrInvalidPrompt)

	set = DefaultPrompts()
	set.Summary = "{{.Missing}}"
	prompts, err := set.Compile()
	require.NoError(t, err)
	_, err = prompts.Render(PromptSummary, PromptData{Count: 1})
	assert.ErrorIs(t, err, ErrInvalidPrompt)

	_, err = prompts.Render("nope", PromptData{})
	assert.ErrorIs(t, err, ErrInvalidPrompt)
}
