package task

import (
	"context"
	"log/slog"

	"github.com/phrazzld/lecturenotes/internal/redact"
)

// InlineRunner executes each submitted task synchronously in the caller's
// goroutine. The CLI uses it so a submission returns only once the job is
// finished. Task failures are logged, never returned: the job already
// records them.
type InlineRunner struct {
	logger *slog.Logger
}

// NewInlineRunner creates an InlineRunner.
func NewInlineRunner(logger *slog.Logger) *InlineRunner {
	if logger == nil {
		logger = slog.Default()
	}
	return &InlineRunner{logger: logger.With("component", "inline_runner")}
}

// Submit runs task to completion.
func (r *InlineRunner) Submit(ctx context.Context, task Task) error {
	if err := task.Execute(ctx); err != nil {
		r.logger.WarnContext(ctx, "task finished with error",
			"task_id", task.ID(),
			"task_type", task.Type(),
			"error", redact.Error(err))
	}
	return nil
}
