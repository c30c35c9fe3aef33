package generation

import (
	"bytes"
	"embed"
	"fmt"
	"os"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"
)

//go:embed prompts/*.tmpl
var builtinPrompts embed.FS

// PromptName identifies one template in a PromptSet.
type PromptName string

const (
	PromptNotes          PromptName = "notes"
	PromptSummary        PromptName = "summary"
	PromptKeyPoints      PromptName = "key_points"
	PromptQuiz           PromptName = "quiz"
	PromptMultipleChoice PromptName = "multiple_choice"
	PromptTrueFalse      PromptName = "true_false"
	PromptShortAnswer    PromptName = "short_answer"
	PromptFlashcards     PromptName = "flashcards"
	PromptTermDefinition PromptName = "term_definition"
	PromptQuestionAnswer PromptName = "question_answer"
	PromptConcepts       PromptName = "concepts"
)

var promptNames = []PromptName{
	PromptNotes, PromptSummary, PromptKeyPoints,
	PromptQuiz, PromptMultipleChoice, PromptTrueFalse, PromptShortAnswer,
	PromptFlashcards, PromptTermDefinition, PromptQuestionAnswer, PromptConcepts,
}

// PromptSet holds the system prompt templates. Templates use text/template
// syntax and receive PromptData.
type PromptSet struct {
	Notes          string `yaml:"notes"`
	Summary        string `yaml:"summary"`
	KeyPoints      string `yaml:"key_points"`
	Quiz           string `yaml:"quiz"`
	MultipleChoice string `yaml:"multiple_choice"`
	TrueFalse      string `yaml:"true_false"`
	ShortAnswer    string `yaml:"short_answer"`
	Flashcards     string `yaml:"flashcards"`
	TermDefinition string `yaml:"term_definition"`
	QuestionAnswer string `yaml:"question_answer"`
	Concepts       string `yaml:"concepts"`
}

// PromptData is the value templates are executed with.
type PromptData struct {
	// Count is the number of questions, cards or points requested, or the
	// word budget for notes and summaries. Zero means no limit.
	Count int
}

func (p *PromptSet) field(name PromptName) *string {
	switch name {
	case PromptNotes:
		return &p.Notes
	case PromptSummary:
		return &p.Summary
	case PromptKeyPoints:
		return &p.KeyPoints
	case PromptQuiz:
		return &p.Quiz
	case PromptMultipleChoice:
		return &p.MultipleChoice
	case PromptTrueFalse:
		return &p.TrueFalse
	case PromptShortAnswer:
		return &p.ShortAnswer
	case PromptFlashcards:
		return &p.Flashcards
	case PromptTermDefinition:
		return &p.TermDefinition
	case PromptQuestionAnswer:
		return &p.QuestionAnswer
	case PromptConcepts:
		return &p.Concepts
	default:
		return nil
	}
}

// DefaultPrompts returns the built-in templates.
func DefaultPrompts() PromptSet {
	var set PromptSet
	for _, name := range promptNames {
		data, err := builtinPrompts.ReadFile("prompts/" + string(name) + ".tmpl")
		if err != nil {
			// The templates are embedded at build time.
			panic(fmt.Sprintf("missing built-in prompt %s: %v", name, err))
		}
		*set.field(name) = string(data)
	}
	return set
}

// LoadPrompts reads a YAML file and overlays every non-empty entry on the
// built-in defaults. An empty path returns the defaults. The file is only read.
func LoadPrompts(path string) (PromptSet, error) {
	set := DefaultPrompts()
	if path == "" {
		return set, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return PromptSet{}, fmt.Errorf("%w: read prompts file: %w", ErrInvalidConfig, err)
	}

	var override PromptSet
	if err := yaml.Unmarshal(data, &override); err != nil {
		return PromptSet{}, fmt.Errorf("%w: parse prompts file: %w", ErrInvalidConfig, err)
	}

	for _, name := range promptNames {
		if v := *override.field(name); strings.TrimSpace(v) != "" {
			*set.field(name) = v
		}
	}
	return set, nil
}

// Prompts is a compiled, immutable PromptSet safe for concurrent use.
type Prompts struct {
	templates map[PromptName]*template.Template
}

// Compile parses every template in the set.
func (p PromptSet) Compile() (*Prompts, error) {
	compiled := &Prompts{templates: make(map[PromptName]*template.Template, len(promptNames))}
	for _, name := range promptNames {
		text := *p.field(name)
		if strings.TrimSpace(text) == "" {
			return nil, fmt.Errorf("%w: %s is empty", ErrInvalidPrompt, name)
		}
		tmpl, err := template.New(string(name)).Option("missingkey=error").Parse(text)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidPrompt, name, err)
		}
		compiled.templates[name] = tmpl
	}
	return compiled, nil
}

// MustCompileDefaults compiles the built-in prompts.
func MustCompileDefaults() *Prompts {
	p, err := DefaultPrompts().Compile()
	if err != nil {
		panic(err)
	}
	return p
}

// Render executes the named template.
func (p *Prompts) Render(name PromptName, data PromptData) (string, error) {
	tmpl, ok := p.templates[name]
	if !ok {
		return "", fmt.Errorf("%w: unknown prompt %q", ErrInvalidPrompt, name)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: render %s: %w", ErrInvalidPrompt, name, err)
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}
