package domain

import (
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/google/uuid"
)

// JobStatus represents the processing state of a job.
type JobStatus string

// Possible job status values
const (
	JobStatusPending             JobStatus = "pending"
	JobStatusProcessing          JobStatus = "processing"
	JobStatusCompleted           JobStatus = "completed"
	JobStatusCompletedWithErrors JobStatus = "completed_with_errors"
	JobStatusFailed              JobStatus = "failed"
)

// Valid reports whether s is a known status.
func (s JobStatus) Valid() bool {
	switch s {
	case JobStatusPending, JobStatusProcessing, JobStatusCompleted,
		JobStatusCompletedWithErrors, JobStatusFailed:
		return true
	default:
		return false
	}
}

// Stage is one step of the pipeline.
type Stage string

// Pipeline stages. The artifact stages share their names with ArtifactKind.
const (
	StageSave       Stage = "save"
	StageProcess    Stage = "process"
	StageTranscribe Stage = "transcribe"
	StageNotes      Stage = Stage(ArtifactNotes)
	StageQuiz       Stage = Stage(ArtifactQuiz)
	StageFlashcards Stage = Stage(ArtifactFlashcards)
)

// Stages returns all stages in execution order.
func Stages() []Stage {
	return []Stage{StageSave, StageProcess, StageTranscribe, StageNotes, StageQuiz, StageFlashcards}
}

// Valid reports whether s is a known stage.
func (s Stage) Valid() bool {
	return slices.Contains(Stages(), s)
}

// StageStatus is the progress of a single stage.
type StageStatus string

// Stage status values
const (
	StagePending   StageStatus = "pending"
	StageRunning   StageStatus = "running"
	StageCompleted StageStatus = "completed"
	StageFailed    StageStatus = "failed"
	StageSkipped   StageStatus = "skipped"
)

// Valid reports whether s is a known stage status.
func (s StageStatus) Valid() bool {
	switch s {
	case StagePending, StageRunning, StageCompleted, StageFailed, StageSkipped:
		return true
	default:
		return false
	}
}

// Job tracks one lecture upload from intake to generated artifacts.
type Job struct {
	ID         uuid.UUID                  `json:"id"`
	Status     JobStatus                  `json:"status"`
	Sources    []string                   `json:"sources"`
	Stages     map[Stage]StageStatus      `json:"stages"`
	Transcript string                     `json:"transcript,omitempty"`
	Stats      TextStats                  `json:"stats"`
	Artifacts  map[ArtifactKind]*Artifact `json:"artifacts,omitempty"`
	Errors     map[Stage]string           `json:"errors,omitempty"`
	Warnings   []string                   `json:"warnings,omitempty"`
	CreatedAt  time.Time                  `json:"created_at"`
	UpdatedAt  time.Time                  `json:"updated_at"`
}

// NewJob creates a pending job for the named source files. Every stage starts
// pending.
func NewJob(sources ...string) (*Job, error) {
	if len(sources) == 0 {
		return nil, fmt.Errorf("%w: job needs at least one source", ErrValidation)
	}

	now := time.Now().UTC()
	job := &Job{
		ID:        uuid.New(),
		Status:    JobStatusPending,
		Sources:   slices.Clone(sources),
		Stages:    make(map[Stage]StageStatus, len(Stages())),
		Artifacts: make(map[ArtifactKind]*Artifact),
		Errors:    make(map[Stage]string),
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, s := range Stages() {
		job.Stages[s] = StagePending
	}

	if err := job.Validate(); err != nil {
		return nil, err
	}
	return job, nil
}

// Validate checks if the Job has valid data.
func (j *Job) Validate() error {
	if j.ID == uuid.Nil {
		return ErrEmptyJobID
	}
	if !j.Status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidJobStatus, j.Status)
	}
	for stage, status := range j.Stages {
		if !stage.Valid() {
			return fmt.Errorf("%w: %q", ErrInvalidStage, stage)
		}
		if !status.Valid() {
			return fmt.Errorf("%w: %q", ErrInvalidStageStatus, status)
		}
	}
	for _, a := range j.Artifacts {
		if err := a.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// UpdateStatus updates the job status and the UpdatedAt timestamp.
func (j *Job) UpdateStatus(status JobStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidJobStatus, status)
	}
	j.Status = status
	j.touch()
	return nil
}

// SetStage records the progress of a stage.
func (j *Job) SetStage(stage Stage, status StageStatus) error {
	if !stage.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStage, stage)
	}
	if !status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStageStatus, status)
	}
	if j.Stages == nil {
		j.Stages = make(map[Stage]StageStatus)
	}
	j.Stages[stage] = status
	j.touch()
	return nil
}

// FailStage marks a stage failed and records its error message.
func (j *Job) FailStage(stage Stage, msg string) error {
	if err := j.SetStage(stage, StageFailed); err != nil {
		return err
	}
	if j.Errors == nil {
		j.Errors = make(map[Stage]string)
	}
	j.Errors[stage] = msg
	return nil
}

// SetTranscript stores the transcript and its counts.
func (j *Job) SetTranscript(text string) {
	j.Transcript = text
	j.Stats = StatsOf(text)
	j.touch()
}

// AddArtifact stores a, replacing any artifact of the same kind.
func (j *Job) AddArtifact(a *Artifact) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if j.Artifacts == nil {
		j.Artifacts = make(map[ArtifactKind]*Artifact)
	}
	j.Artifacts[a.Kind] = a
	j.touch()
	return nil
}

// AddWarning appends a non-fatal problem.
func (j *Job) AddWarning(msg string) {
	j.Warnings = append(j.Warnings, msg)
	j.touch()
}

// Finish derives the terminal status. A job fails when no transcript was
// produced; any other recorded error or warning completes it with errors.
func (j *Job) Finish() {
	switch {
	case j.Stages[StageTranscribe] != StageCompleted:
		j.Status = JobStatusFailed
	case len(j.Errors) > 0 || len(j.Warnings) > 0:
		j.Status = JobStatusCompletedWithErrors
	default:
		j.Status = JobStatusCompleted
	}
	j.touch()
}

// Done reports whether the job reached a terminal status.
func (j *Job) Done() bool {
	switch j.Status {
	case JobStatusCompleted, JobStatusCompletedWithErrors, JobStatusFailed:
		return true
	default:
		return false
	}
}

// Clone returns a deep copy that shares no maps or slices with j.
func (j *Job) Clone() *Job {
	c := *j
	c.Sources = slices.Clone(j.Sources)
	c.Stages = maps.Clone(j.Stages)
	c.Errors = maps.Clone(j.Errors)
	c.Warnings = slices.Clone(j.Warnings)
	if j.Artifacts != nil {
		c.Artifacts = make(map[ArtifactKind]*Artifact, len(j.Artifacts))
		for k, a := range j.Artifacts {
			cp := *a
			c.Artifacts[k] = &cp
		}
	}
	return &c
}

func (j *Job) touch() {
	j.UpdatedAt = time.Now().UTC()
}
