package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/lecturenotes/internal/domain"
	"github.com/phrazzld/lecturenotes/internal/events"
	"github.com/phrazzld/lecturenotes/internal/store"
)

// ProgressHandler mirrors stage events onto the stored job so that a job
// can be polled while it runs. Warnings and artifacts arrive with the final
// result, not through events.
type ProgressHandler struct {
	jobs   store.JobStore
	logger *slog.Logger
}

// NewProgressHandler creates a ProgressHandler.
func NewProgressHandler(jobs store.JobStore, logger *slog.Logger) *ProgressHandler {
	return &ProgressHandler{
		jobs:   jobs,
		logger: logger.With("component", "progress_handler"),
	}
}

var _ events.EventHandler = (*ProgressHandler)(nil)

// HandleEvent implements events.EventHandler. Events that are not stage
// events, or that name an unknown job, are ignored.
func (h *ProgressHandler) HandleEvent(ctx context.Context, event *events.Event) error {
	status, ok := stageStatusFor(event.Type)
	if !ok {
		return nil
	}

	var payload events.StageEvent
	if err := event.UnmarshalPayload(&payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}
	stage := domain.Stage(payload.Stage)

	_, err := h.jobs.Update(ctx, event.JobID, func(j *domain.Job) error {
		if status == domain.StageFailed {
			return j.FailStage(stage, payload.Error)
		}
		return j.SetStage(stage, status)
	})
	if errors.Is(err, store.ErrJobNotFound) {
		h.logger.Debug("ignoring event for unknown job", "job_id", event.JobID, "event_type", event.Type)
		return nil
	}
	return err
}

func stageStatusFor(eventType string) (domain.StageStatus, bool) {
	switch eventType {
	case events.TypeStageStarted:
		return domain.StageRunning, true
	case events.TypeStageCompleted:
		return domain.StageCompleted, true
	case events.TypeStageFailed:
		return domain.StageFailed, true
	case events.TypeStageSkipped:
		return domain.StageSkipped, true
	default:
		return "", false
	}
}
