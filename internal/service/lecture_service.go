package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/lecturenotes/internal/audio"
	"github.com/phrazzld/lecturenotes/internal/config"
	"github.com/phrazzld/lecturenotes/internal/domain"
	"github.com/phrazzld/lecturenotes/internal/events"
	"github.com/phrazzld/lecturenotes/internal/generation"
	"github.com/phrazzld/lecturenotes/internal/pipeline"
	"github.com/phrazzld/lecturenotes/internal/redact"
	"github.com/phrazzld/lecturenotes/internal/store"
	"github.com/phrazzld/lecturenotes/internal/task"
	"github.com/phrazzld/lecturenotes/internal/transcription"
)

// TaskRunner defines the interface for submitting background tasks
type TaskRunner interface {
	// Submit adds a task to the processing queue
	Submit(ctx context.Context, task task.Task) error
}

// LectureRequest describes one lecture submission.
type LectureRequest struct {
	Uploads       []pipeline.Upload
	Transcription BackendChoice
	Generation    BackendChoice
	// Language is the transcription hint. Empty selects the configured language.
	Language   string
	Timestamps bool
	// Artifacts selects the outputs. Zero counts select the configured defaults.
	Artifacts pipeline.ArtifactOptions
}

// GenerateRequest asks for one artifact from an existing transcript.
type GenerateRequest struct {
	Kind       domain.ArtifactKind
	Transcript string
	Backend    BackendChoice
	// Count is the question count, card count or word budget. Zero selects
	// the configured default.
	Count int
}

// LectureService provides lecture-related operations
type LectureService interface {
	// Submit stores a new job, saves its audio and enqueues it for processing.
	Submit(ctx context.Context, req LectureRequest) (*domain.Job, error)

	// GetJob retrieves a job by its ID
	GetJob(ctx context.Context, id uuid.UUID) (*domain.Job, error)

	// Generate produces a single artifact synchronously.
	Generate(ctx context.Context, req GenerateRequest) (*domain.Artifact, error)
}

// Option configures the lecture service.
type Option func(*lectureServiceImpl)

// WithBackendFactory replaces the adapter factory.
func WithBackendFactory(f BackendFactory) Option {
	return func(s *lectureServiceImpl) {
		if f != nil {
			s.backends = f
		}
	}
}

// lectureServiceImpl implements the LectureService interface
type lectureServiceImpl struct {
	cfg          *config.Config
	pipeline     *pipeline.Pipeline
	jobs         store.JobStore
	taskRunner   TaskRunner
	eventEmitter events.EventEmitter
	prompts      *generation.Prompts
	backends     BackendFactory
	logger       *slog.Logger
}

// NewLectureService creates a new LectureService
// It returns an error if any of the required dependencies are nil.
func NewLectureService(
	cfg *config.Config,
	pipe *pipeline.Pipeline,
	jobs store.JobStore,
	taskRunner TaskRunner,
	eventEmitter events.EventEmitter,
	prompts *generation.Prompts,
	logger *slog.Logger,
	opts ...Option,
) (LectureService, error) {
	required := []struct {
		name string
		nil  bool
	}{
		{"config", cfg == nil},
		{"pipeline", pipe == nil},
		{"jobs", jobs == nil},
		{"taskRunner", taskRunner == nil},
		{"eventEmitter", eventEmitter == nil},
		{"prompts", prompts == nil},
	}
	for _, r := range required {
		if r.nil {
			return nil, &LectureServiceError{
				Operation: "create_service",
				Message:   r.name + " cannot be nil",
			}
		}
	}

	// Use provided logger or create default
	if logger == nil {
		logger = slog.Default()
	}

	s := &lectureServiceImpl{
		cfg:          cfg,
		pipeline:     pipe,
		jobs:         jobs,
		taskRunner:   taskRunner,
		eventEmitter: eventEmitter,
		prompts:      prompts,
		logger:       logger.With("component", "lecture_service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.backends == nil {
		s.backends = PlatformBackends(logger)
	}
	return s, nil
}

// submittedPayload is the payload of the lecture.submitted event.
type submittedPayload struct {
	TaskID  uuid.UUID `json:"task_id"`
	Sources []string  `json:"sources"`
}

// Submit resolves the backends, creates the job, saves the uploads and
// enqueues the job. Backend and upload problems are returned synchronously;
// everything after that is recorded on the job.
func (s *lectureServiceImpl) Submit(ctx context.Context, req LectureRequest) (*domain.Job, error) {
	if len(req.Uploads) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, pipeline.ErrNoAudio)
	}

	artifacts := s.withDefaultCounts(req.Artifacts)
	transcriber, err := s.transcriber(ctx, req)
	if err != nil {
		return nil, err
	}
	generators, err := s.generators(ctx, req.Generation, artifacts)
	if err != nil {
		return nil, err
	}

	sources := make([]string, 0, len(req.Uploads))
	for _, u := range req.Uploads {
		sources = append(sources, u.Name)
	}

	// 1. Create the job so stage events have somewhere to land
	job, err := domain.NewJob(sources...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		msg := "failed to store job"
		if store.IsDuplicateError(err) {
			msg = "job id already in use"
		}
		s.logger.Error(msg, "error", err, "job_id", job.ID)
		return nil, NewLectureServiceError("submit_lecture", msg, err)
	}

	// 2. Save the uploads while their readers are still valid
	files, err := s.pipeline.Save(ctx, job.ID, req.Uploads)
	if err != nil {
		s.failJob(ctx, job.ID, domain.StageSave, err)
		s.logger.Warn("lecture upload rejected", "error", redact.Error(err), "job_id", job.ID)
		return nil, err
	}

	// 3. Create and submit the processing task
	lectureTask, err := task.NewLectureTask(pipeline.Input{
		JobID:       job.ID,
		Files:       files,
		Language:    s.language(req.Language),
		Timestamps:  req.Timestamps,
		Transcriber: transcriber,
		Generators:  generators,
		Artifacts:   artifacts,
	}, s.pipeline, s.pipeline.Intake(), s.jobs, s.logger)
	if err != nil {
		s.discard(ctx, job.ID, files, err)
		return nil, NewLectureServiceError("submit_lecture", "failed to create task", err)
	}

	if err := s.taskRunner.Submit(ctx, lectureTask); err != nil {
		s.discard(ctx, job.ID, files, err)
		s.logger.Error("failed to submit lecture task",
			"error", err,
			"job_id", job.ID,
			"task_id", lectureTask.ID())
		return nil, NewLectureServiceError("submit_lecture", "failed to enqueue job", err)
	}

	// 4. Announce the submission
	event, err := events.NewEvent(events.TypeLectureSubmitted, job.ID, submittedPayload{
		TaskID:  lectureTask.ID(),
		Sources: sources,
	})
	if err == nil {
		err = s.eventEmitter.EmitEvent(ctx, event)
	}
	if err != nil {
		s.logger.Warn("failed to emit lecture submitted event", "error", err, "job_id", job.ID)
	}

	s.logger.Info("lecture submitted",
		"job_id", job.ID,
		"task_id", lectureTask.ID(),
		"files", len(files),
		"transcription_provider", req.Transcription.resolve(s.cfg.Transcription.Provider, "").Provider)

	return s.GetJob(ctx, job.ID)
}

// GetJob retrieves a job by its ID
func (s *lectureServiceImpl) GetJob(ctx context.Context, id uuid.UUID) (*domain.Job, error) {
	job, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, ErrJobNotFound
		}
		s.logger.Error("failed to retrieve job", "error", err, "job_id", id)
		return nil, NewLectureServiceError("get_job", "failed to retrieve job", err)
	}
	return job, nil
}

// Generate issues exactly one generation call for req.Kind.
func (s *lectureServiceImpl) Generate(ctx context.Context, req GenerateRequest) (*domain.Artifact, error) {
	if !req.Kind.Valid() {
		return nil, fmt.Errorf("%w: %w: %q", ErrInvalidRequest, domain.ErrInvalidArtifactKind, req.Kind)
	}

	opts := pipeline.ArtifactOptions{}
	switch req.Kind {
	case domain.ArtifactNotes:
		opts.Notes, opts.NotesWords = true, req.Count
	case domain.ArtifactQuiz:
		opts.Quiz, opts.QuizQuestions = true, req.Count
	case domain.ArtifactFlashcards:
		opts.Flashcards, opts.FlashcardCount = true, req.Count
	}
	opts = s.withDefaultCounts(opts)

	gens, err := s.generators(ctx, req.Backend, opts)
	if err != nil {
		return nil, err
	}

	var gen generation.ContentGenerator
	switch req.Kind {
	case domain.ArtifactNotes:
		gen = gens.Notes
	case domain.ArtifactQuiz:
		gen = gens.Quiz
	case domain.ArtifactFlashcards:
		gen = gens.Flashcards
	}

	content, err := gen.Generate(ctx, req.Transcript, opts.Count(req.Kind))
	if err != nil {
		return nil, err
	}
	return domain.NewArtifact(req.Kind, content)
}

func (s *lectureServiceImpl) transcriber(ctx context.Context, req LectureRequest) (*transcription.Service, error) {
	choice := req.Transcription.resolve(s.cfg.Transcription.Provider, s.cfg.Transcription.Model)
	pcfg := s.cfg.Providers.ProviderConfig(choice.Provider, choice.Model, choice.APIKey)

	backend, err := s.backends.NewTranscriber(ctx, pcfg)
	if err != nil {
		return nil, err
	}
	return transcription.NewService(backend, s.logger,
		transcription.WithLanguage(s.language(req.Language)),
		transcription.WithProvider(pcfg.Backend))
}

// generators builds one generator per enabled artifact. All of them share
// a single adapter.
func (s *lectureServiceImpl) generators(
	ctx context.Context,
	choice BackendChoice,
	opts pipeline.ArtifactOptions,
) (pipeline.Generators, error) {
	var gens pipeline.Generators
	if !opts.Notes && !opts.Quiz && !opts.Flashcards {
		return gens, nil
	}

	choice = choice.resolve(s.cfg.Generation.Provider, s.cfg.Generation.Model)
	gen, err := s.backends.NewGenerator(ctx, s.cfg.Providers.ProviderConfig(choice.Provider, choice.Model, choice.APIKey))
	if err != nil {
		return gens, err
	}

	settings := generation.Settings{
		MaxTokens:   s.cfg.Generation.MaxTokens,
		Temperature: s.cfg.Generation.Temperature,
	}
	if opts.Notes {
		if gens.Notes, err = generation.NewNotesGenerator(gen, s.prompts, settings, s.logger); err != nil {
			return gens, err
		}
	}
	if opts.Quiz {
		if gens.Quiz, err = generation.NewQuizGenerator(gen, s.prompts, settings, s.logger); err != nil {
			return gens, err
		}
	}
	if opts.Flashcards {
		if gens.Flashcards, err = generation.NewFlashcardGenerator(gen, s.prompts, settings, s.logger); err != nil {
			return gens, err
		}
	}
	return gens, nil
}

func (s *lectureServiceImpl) withDefaultCounts(o pipeline.ArtifactOptions) pipeline.ArtifactOptions {
	if o.QuizQuestions <= 0 {
		o.QuizQuestions = s.cfg.Generation.QuizQuestions
	}
	if o.FlashcardCount <= 0 {
		o.FlashcardCount = s.cfg.Generation.FlashcardsCount
	}
	if o.NotesWords <= 0 {
		o.NotesWords = s.cfg.Generation.NotesWords
	}
	return o
}

func (s *lectureServiceImpl) language(lang string) string {
	if lang != "" {
		return lang
	}
	return s.cfg.Transcription.Language
}

// failJob records err on stage and skips every later stage.
func (s *lectureServiceImpl) failJob(ctx context.Context, id uuid.UUID, stage domain.Stage, err error) {
	_, uerr := s.jobs.Update(context.WithoutCancel(ctx), id, func(j *domain.Job) error {
		if ferr := j.FailStage(stage, redact.Error(err)); ferr != nil {
			return ferr
		}
		after := false
		for _, st := range domain.Stages() {
			if after {
				_ = j.SetStage(st, domain.StageSkipped)
			}
			after = after || st == stage
		}
		j.Finish()
		return nil
	})
	if uerr != nil {
		s.logger.Error("failed to record job failure", "error", uerr, "job_id", id)
	}
}

// discard gives up on a job whose files are already saved.
func (s *lectureServiceImpl) discard(ctx context.Context, id uuid.UUID, files []*audio.SavedFile, err error) {
	for _, f := range files {
		_ = s.pipeline.Intake().Cleanup(f.Path)
	}
	s.failJob(ctx, id, domain.StageProcess, err)
}
