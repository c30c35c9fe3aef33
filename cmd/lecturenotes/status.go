package main

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/phrazzld/lecturenotes/internal/events"
)

// status prints colored progress lines. It doubles as an event handler so
// pipeline stages are reported as they happen.
type status struct {
	mu  sync.Mutex
	out io.Writer

	green  *color.Color
	yellow *color.Color
	red    *color.Color
	cyan   *color.Color
}

var _ events.EventHandler = (*status)(nil)

func newStatus(out io.Writer) *status {
	return &status{
		out:    out,
		green:  color.New(color.FgGreen),
		yellow: color.New(color.FgYellow),
		red:    color.New(color.FgRed, color.Bold),
		cyan:   color.New(color.FgCyan),
	}
}

func (s *status) line(c *color.Color, prefix, format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.out, "%s %s\n", c.Sprint(prefix), fmt.Sprintf(format, args...))
}

func (s *status) info(format string, args ...any) { s.line(s.cyan, "•", format, args...) }
func (s *status) ok(format string, args ...any)   { s.line(s.green, "✓", format, args...) }
func (s *status) warn(format string, args ...any) { s.line(s.yellow, "!", format, args...) }
func (s *status) fail(format string, args ...any) { s.line(s.red, "✗", format, args...) }

// HandleEvent reports stage transitions.
func (s *status) HandleEvent(_ context.Context, event *events.Event) error {
	var payload events.StageEvent
	switch event.Type {
	case events.TypeStageStarted, events.TypeStageCompleted, events.TypeStageFailed:
		if err := event.UnmarshalPayload(&payload); err != nil {
			return fmt.Errorf("failed to unmarshal payload: %w", err)
		}
	default:
		return nil
	}

	switch event.Type {
	case events.TypeStageStarted:
		s.info("%s...", payload.Stage)
	case events.TypeStageCompleted:
		s.ok("%s", payload.Stage)
		for _, w := range payload.Warnings {
			s.warn("%s: %s", payload.Stage, w)
		}
	case events.TypeStageFailed:
		s.fail("%s: %s", payload.Stage, payload.Error)
	}
	return nil
}
