package pipeline

import (
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/lecturenotes/internal/audio"
	"github.com/phrazzld/lecturenotes/internal/domain"
	"github.com/phrazzld/lecturenotes/internal/provider"
	"github.com/phrazzld/lecturenotes/internal/redact"
)

// Result is everything a run produced, including per-stage failures.
type Result struct {
	JobID      uuid.UUID
	Files      []*audio.SavedFile
	Transcript string
	Segments   []provider.Segment
	Artifacts  map[domain.ArtifactKind]*domain.Artifact
	Stages     map[domain.Stage]domain.StageStatus
	Errors     map[domain.Stage]error
	Warnings   []string

	mu sync.Mutex
}

func newResult(jobID uuid.UUID) *Result {
	r := &Result{
		JobID:     jobID,
		Artifacts: make(map[domain.ArtifactKind]*domain.Artifact),
		Stages:    make(map[domain.Stage]domain.StageStatus),
		Errors:    make(map[domain.Stage]error),
	}
	for _, s := range domain.Stages() {
		r.Stages[s] = domain.StagePending
	}
	return r
}

// Err returns the error recorded for stage, if any.
func (r *Result) Err(stage domain.Stage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Errors[stage]
}

// Artifact returns the generated artifact of kind, if any.
func (r *Result) Artifact(kind domain.ArtifactKind) (*domain.Artifact, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.Artifacts[kind]
	return a, ok
}

// OK reports whether every stage that ran succeeded without warnings.
func (r *Result) OK() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Errors) == 0 && len(r.Warnings) == 0
}

func (r *Result) set(stage domain.Stage, status domain.StageStatus) {
	r.mu.Lock()
	r.Stages[stage] = status
	r.mu.Unlock()
}

func (r *Result) fail(stage domain.Stage, err error) {
	r.mu.Lock()
	r.Stages[stage] = domain.StageFailed
	r.Errors[stage] = err
	r.mu.Unlock()
}

func (r *Result) addArtifact(a *domain.Artifact) {
	r.mu.Lock()
	r.Artifacts[a.Kind] = a
	r.Stages[a.Kind.Stage()] = domain.StageCompleted
	r.mu.Unlock()
}

// Apply copies the result onto job and derives its terminal status. Error
// messages are redacted before they are stored.
func (r *Result) Apply(job *domain.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, stage := range domain.Stages() {
		if err, ok := r.Errors[stage]; ok {
			if ferr := job.FailStage(stage, redact.Error(err)); ferr != nil {
				return ferr
			}
			continue
		}
		if err := job.SetStage(stage, r.Stages[stage]); err != nil {
			return err
		}
	}

	if r.Transcript != "" || r.Stages[domain.StageTranscribe] == domain.StageCompleted {
		job.SetTranscript(r.Transcript)
	}
	for _, kind := range domain.ArtifactKinds() {
		if a, ok := r.Artifacts[kind]; ok {
			if err := job.AddArtifact(a); err != nil {
				return err
			}
		}
	}
	for _, w := range r.Warnings {
		job.AddWarning(w)
	}

	job.Finish()
	return nil
}
