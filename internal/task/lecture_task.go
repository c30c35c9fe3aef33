package task

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/lecturenotes/internal/domain"
	"github.com/phrazzld/lecturenotes/internal/pipeline"
	"github.com/phrazzld/lecturenotes/internal/store"
)

// ErrJobFailed is returned by a lecture task whose job ended failed.
var ErrJobFailed = errors.New("lecture job failed")

// PipelineRunner runs a lecture job. *pipeline.Pipeline implements it.
type PipelineRunner interface {
	Run(ctx context.Context, in pipeline.Input) *pipeline.Result
}

// FileCleaner removes temporary files. *audio.Intake implements it.
type FileCleaner interface {
	Cleanup(path string) error
}

// LecturePayload is the serialized description of a lecture task.
type LecturePayload struct {
	JobID     uuid.UUID                `json:"job_id"`
	Files     []string                 `json:"files"`
	Language  string                   `json:"language,omitempty"`
	Artifacts pipeline.ArtifactOptions `json:"artifacts"`
}

// LectureTask runs the pipeline for one stored job, writes the outcome back
// to the job store and removes the job's temp files.
type LectureTask struct {
	id       uuid.UUID
	input    pipeline.Input
	pipeline PipelineRunner
	cleaner  FileCleaner
	jobs     store.JobStore
	payload  []byte
	logger   *slog.Logger

	mu     sync.RWMutex
	status TaskStatus
}

var _ Task = (*LectureTask)(nil)

// NewLectureTask creates a task for input.JobID, which must already be in jobs.
func NewLectureTask(
	input pipeline.Input,
	runner PipelineRunner,
	cleaner FileCleaner,
	jobs store.JobStore,
	logger *slog.Logger,
) (*LectureTask, error) {
	switch {
	case input.JobID == uuid.Nil:
		return nil, domain.ErrEmptyJobID
	case runner == nil:
		return nil, errors.New("pipeline cannot be nil")
	case cleaner == nil:
		return nil, errors.New("cleaner cannot be nil")
	case jobs == nil:
		return nil, errors.New("job store cannot be nil")
	case logger == nil:
		return nil, errors.New("logger cannot be nil")
	}

	files := make([]string, 0, len(input.Files))
	for _, f := range input.Files {
		files = append(files, f.OriginalName)
	}
	payload, err := json.Marshal(LecturePayload{
		JobID:     input.JobID,
		Files:     files,
		Language:  input.Language,
		Artifacts: input.Artifacts,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	return &LectureTask{
		id:       uuid.New(),
		input:    input,
		pipeline: runner,
		cleaner:  cleaner,
		jobs:     jobs,
		payload:  payload,
		status:   TaskStatusPending,
		logger:   logger.With("component", "lecture_task", "job_id", input.JobID),
	}, nil
}

// ID returns the task's unique identifier
func (t *LectureTask) ID() uuid.UUID { return t.id }

// Type returns TaskTypeLecture
func (t *LectureTask) Type() string { return TaskTypeLecture }

// Payload returns the JSON-encoded LecturePayload
func (t *LectureTask) Payload() []byte { return t.payload }

// JobID returns the job this task processes.
func (t *LectureTask) JobID() uuid.UUID { return t.input.JobID }

// Status returns the current task status
func (t *LectureTask) Status() TaskStatus {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.status
}

func (t *LectureTask) setStatus(s TaskStatus) {
	t.mu.Lock()
	t.status = s
	t.mu.Unlock()
}

// Execute runs the pipeline and records the result on the job. It returns
// ErrJobFailed when no transcript could be produced; artifact failures are
// recorded on the job without failing the task.
func (t *LectureTask) Execute(ctx context.Context) error {
	t.setStatus(TaskStatusProcessing)
	defer t.cleanup()

	if _, err := t.jobs.Update(ctx, t.input.JobID, func(j *domain.Job) error {
		return j.UpdateStatus(domain.JobStatusProcessing)
	}); err != nil {
		t.setStatus(TaskStatusFailed)
		return fmt.Errorf("mark job processing: %w", err)
	}

	res := t.pipeline.Run(ctx, t.input)

	// The job outcome must be stored even when ctx was cancelled mid-run.
	job, err := t.jobs.Update(context.WithoutCancel(ctx), t.input.JobID, res.Apply)
	if err != nil {
		t.setStatus(TaskStatusFailed)
		return fmt.Errorf("store job result: %w", err)
	}

	t.logger.InfoContext(ctx, "lecture job finished",
		"status", job.Status,
		"artifacts", len(job.Artifacts),
		"warnings", len(job.Warnings))

	if job.Status == domain.JobStatusFailed {
		t.setStatus(TaskStatusFailed)
		return fmt.Errorf("%w: %s", ErrJobFailed, firstError(job))
	}
	t.setStatus(TaskStatusCompleted)
	return nil
}

func (t *LectureTask) cleanup() {
	for _, f := range t.input.Files {
		if err := t.cleaner.Cleanup(f.Path); err != nil {
			t.logger.Warn("temp file not removed", "file", f.OriginalName, "error", err)
		}
	}
}

func firstError(job *domain.Job) string {
	for _, s := range domain.Stages() {
		if msg, ok := job.Errors[s]; ok {
			return fmt.Sprintf("%s: %s", s, msg)
		}
	}
	return "no transcript"
}
