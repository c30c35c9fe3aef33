package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lecturenotes/internal/audio"
	"github.com/phrazzld/lecturenotes/internal/domain"
	"github.com/phrazzld/lecturenotes/internal/events"
	"github.com/phrazzld/lecturenotes/internal/provider"
	"github.com/phrazzld/lecturenotes/internal/redact"
	"golang.org/x/sync/errgroup"
)

// Pipeline sequences the stages of a lecture job.
type Pipeline struct {
	intake    *audio.Intake
	processor *audio.Processor
	emitter   events.EventEmitter
	parallel  bool
	logger    *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithEmitter sends stage events to e.
func WithEmitter(e events.EventEmitter) Option {
	return func(p *Pipeline) {
		if e != nil {
			p.emitter = e
		}
	}
}

// WithParallelArtifacts generates the enabled artifacts concurrently. The
// outputs are the same as a sequential run.
func WithParallelArtifacts(parallel bool) Option {
	return func(p *Pipeline) {
		p.parallel = parallel
	}
}

// New creates a Pipeline.
func New(intake *audio.Intake, logger *slog.Logger, opts ...Option) (*Pipeline, error) {
	if intake == nil {
		return nil, ErrNilIntake
	}
	if logger == nil {
		return nil, ErrNilLogger
	}

	p := &Pipeline{
		intake:    intake,
		processor: audio.NewProcessor(logger),
		emitter:   events.Discard,
		logger:    logger.With("component", "pipeline"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Intake returns the intake used by the save stage.
func (p *Pipeline) Intake() *audio.Intake {
	return p.intake
}

// Save runs the save stage on its own. Files saved before a failure are
// removed again, so an error leaves nothing behind.
func (p *Pipeline) Save(ctx context.Context, jobID uuid.UUID, uploads []Upload) ([]*audio.SavedFile, error) {
	p.emit(ctx, events.TypeStageStarted, jobID, domain.StageSave, nil, nil)

	files, err := p.save(uploads)
	if err != nil {
		p.emit(ctx, events.TypeStageFailed, jobID, domain.StageSave, err, nil)
		return nil, err
	}

	p.emit(ctx, events.TypeStageCompleted, jobID, domain.StageSave, nil, nil)
	return files, nil
}

func (p *Pipeline) save(uploads []Upload) ([]*audio.SavedFile, error) {
	if len(uploads) == 0 {
		return nil, ErrNoAudio
	}

	files := make([]*audio.SavedFile, 0, len(uploads))
	for _, u := range uploads {
		f, err := p.intake.Save(u.Name, u.Size, u.Body)
		if err != nil {
			for _, saved := range files {
				_ = p.intake.Cleanup(saved.Path)
			}
			return nil, fmt.Errorf("save %s: %w", u.Name, err)
		}
		files = append(files, f)
	}
	return files, nil
}

// Run executes every stage in order and never returns a nil Result. Stage
// failures are recorded on the Result rather than returned.
func (p *Pipeline) Run(ctx context.Context, in Input) *Result {
	if in.JobID == uuid.Nil {
		in.JobID = uuid.New()
	}
	res := newResult(in.JobID)
	logger := p.logger.With("job_id", in.JobID)
	start := time.Now()

	if len(in.Files) > 0 {
		res.Files = in.Files
		res.set(domain.StageSave, domain.StageCompleted)
	} else {
		files, err := p.Save(ctx, in.JobID, in.Uploads)
		if err != nil {
			res.fail(domain.StageSave, err)
			p.skipFrom(ctx, res, domain.StageProcess)
			return res
		}
		res.Files = files
		res.set(domain.StageSave, domain.StageCompleted)
	}

	paths, ok := p.process(ctx, res)
	if !ok {
		p.skipFrom(ctx, res, domain.StageTranscribe)
		return res
	}

	if !p.transcribe(ctx, res, in, paths) {
		p.skipFrom(ctx, res, domain.StageNotes)
		return res
	}

	p.generate(ctx, res, in)

	logger.InfoContext(ctx, "pipeline finished",
		"duration_ms", time.Since(start).Milliseconds(),
		"artifacts", len(res.Artifacts),
		"failed_stages", len(res.Errors),
		"warnings", len(res.Warnings))
	return res
}

func (p *Pipeline) process(ctx context.Context, res *Result) ([]string, bool) {
	p.begin(ctx, res, domain.StageProcess)

	paths := make([]string, 0, len(res.Files))
	for _, f := range res.Files {
		path, err := p.processor.Process(f.Path)
		if err != nil {
			p.failStage(ctx, res, domain.StageProcess, err)
			return nil, false
		}
		paths = append(paths, path)
	}

	p.complete(ctx, res, domain.StageProcess, nil)
	return paths, true
}

func (p *Pipeline) transcribe(ctx context.Context, res *Result, in Input, paths []string) bool {
	p.begin(ctx, res, domain.StageTranscribe)

	if in.Transcriber == nil {
		p.failStage(ctx, res, domain.StageTranscribe, ErrNoTranscriber)
		return false
	}

	if len(paths) > 1 {
		chunked, err := in.Transcriber.TranscribeChunks(ctx, paths, in.Language)
		if err != nil {
			p.failStage(ctx, res, domain.StageTranscribe, err)
			return false
		}
		res.Transcript = chunked.Text
		var warnings []string
		if werr := chunked.Err(); werr != nil {
			warnings = append(warnings, redact.Error(werr))
			res.Warnings = append(res.Warnings, warnings...)
		}
		p.complete(ctx, res, domain.StageTranscribe, warnings)
		return true
	}

	req := requestFor(paths[0], in.Language)
	if in.Timestamps {
		segments, err := in.Transcriber.TranscribeSegments(ctx, req)
		if err != nil {
			p.failStage(ctx, res, domain.StageTranscribe, err)
			return false
		}
		res.Segments = segments
		res.Transcript = joinSegments(segments)
	} else {
		text, err := in.Transcriber.Transcribe(ctx, req)
		if err != nil {
			p.failStage(ctx, res, domain.StageTranscribe, err)
			return false
		}
		res.Transcript = text
	}

	p.complete(ctx, res, domain.StageTranscribe, nil)
	return true
}

func (p *Pipeline) generate(ctx context.Context, res *Result, in Input) {
	var enabled []domain.ArtifactKind
	for _, kind := range domain.ArtifactKinds() {
		if in.Artifacts.Enabled(kind) {
			enabled = append(enabled, kind)
		}
	}

	// Sequential runs emit artifact events in stage order.
	if !p.parallel || len(enabled) < 2 {
		for _, kind := range domain.ArtifactKinds() {
			if in.Artifacts.Enabled(kind) {
				p.generateOne(ctx, res, in, kind)
			} else {
				p.skip(ctx, res, kind.Stage())
			}
		}
		return
	}

	for _, kind := range domain.ArtifactKinds() {
		if !in.Artifacts.Enabled(kind) {
			p.skip(ctx, res, kind.Stage())
		}
	}

	// Siblings must keep running when one fails, so goroutines never return
	// an error and the group context is not used.
	var g errgroup.Group
	for _, kind := range enabled {
		g.Go(func() error {
			p.generateOne(ctx, res, in, kind)
			return nil
		})
	}
	_ = g.Wait()
}

func (p *Pipeline) generateOne(ctx context.Context, res *Result, in Input, kind domain.ArtifactKind) {
	stage := kind.Stage()
	p.begin(ctx, res, stage)

	gen := in.Generators.forKind(kind)
	if gen == nil {
		p.failStage(ctx, res, stage, fmt.Errorf("%w: %s", ErrNoGenerator, kind))
		return
	}

	content, err := gen.Generate(ctx, res.Transcript, in.Artifacts.Count(kind))
	if err != nil {
		p.failStage(ctx, res, stage, err)
		return
	}

	artifact, err := domain.NewArtifact(kind, content)
	if err != nil {
		p.failStage(ctx, res, stage, err)
		return
	}

	res.addArtifact(artifact)
	p.emit(ctx, events.TypeStageCompleted, res.JobID, stage, nil, nil)
}

func (p *Pipeline) begin(ctx context.Context, res *Result, stage domain.Stage) {
	res.set(stage, domain.StageRunning)
	p.emit(ctx, events.TypeStageStarted, res.JobID, stage, nil, nil)
}

func (p *Pipeline) complete(ctx context.Context, res *Result, stage domain.Stage, warnings []string) {
	res.set(stage, domain.StageCompleted)
	p.emit(ctx, events.TypeStageCompleted, res.JobID, stage, nil, warnings)
}

func (p *Pipeline) failStage(ctx context.Context, res *Result, stage domain.Stage, err error) {
	res.fail(stage, err)
	p.logger.WarnContext(ctx, "stage failed",
		"job_id", res.JobID,
		"stage", stage,
		"error", redact.Error(err))
	p.emit(ctx, events.TypeStageFailed, res.JobID, stage, err, nil)
}

func (p *Pipeline) skip(ctx context.Context, res *Result, stage domain.Stage) {
	res.set(stage, domain.StageSkipped)
	p.emit(ctx, events.TypeStageSkipped, res.JobID, stage, nil, nil)
}

// skipFrom marks from and every later stage skipped.
func (p *Pipeline) skipFrom(ctx context.Context, res *Result, from domain.Stage) {
	skipping := false
	for _, s := range domain.Stages() {
		if s == from {
			skipping = true
		}
		if skipping {
			p.skip(ctx, res, s)
		}
	}
}

func (p *Pipeline) emit(
	ctx context.Context,
	eventType string,
	jobID uuid.UUID,
	stage domain.Stage,
	err error,
	warnings []string,
) {
	payload := events.StageEvent{Stage: string(stage), Warnings: warnings}
	if err != nil {
		payload.Error = redact.Error(err)
	}
	if emitErr := p.emitter.EmitEvent(ctx, events.NewStageEvent(eventType, jobID, payload)); emitErr != nil {
		p.logger.WarnContext(ctx, "stage event not delivered",
			"job_id", jobID,
			"stage", stage,
			"event_type", eventType,
			"error", emitErr)
	}
}

func requestFor(path, language string) provider.TranscriptionRequest {
	return provider.TranscriptionRequest{AudioPath: path, Language: language}
}

func joinSegments(segments []provider.Segment) string {
	texts := make([]string, 0, len(segments))
	for _, seg := range segments {
		if t := strings.TrimSpace(seg.Text); t != "" {
			texts = append(texts, t)
		}
	}
	return strings.Join(texts, " ")
}
