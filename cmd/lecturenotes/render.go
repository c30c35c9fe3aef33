package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
	"github.com/phrazzld/lecturenotes/internal/domain"
	"github.com/phrazzld/lecturenotes/internal/export"
)

// renderArtifacts prints every artifact as terminal-formatted markdown. It
// falls back to the raw text when the renderer is unavailable.
func renderArtifacts(w io.Writer, job *domain.Job, width int) {
	if width <= 0 {
		width = 100
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		r = nil
	}

	heading := color.New(color.FgMagenta, color.Bold)
	for _, kind := range domain.ArtifactKinds() {
		a, ok := job.Artifacts[kind]
		if !ok || a == nil {
			continue
		}
		fmt.Fprintf(w, "\n%s\n", heading.Sprint(export.Title(string(kind))))
		fmt.Fprintln(w, renderMarkdown(r, a.Content))
	}
}

func renderMarkdown(r *glamour.TermRenderer, text string) string {
	if r == nil {
		return text
	}
	out, err := r.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(out, "\n")
}
