package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/phrazzld/lecturenotes/internal/audio"
	"github.com/phrazzld/lecturenotes/internal/config"
	"github.com/phrazzld/lecturenotes/internal/domain"
	"github.com/phrazzld/lecturenotes/internal/events"
	"github.com/phrazzld/lecturenotes/internal/export"
	"github.com/phrazzld/lecturenotes/internal/generation"
	"github.com/phrazzld/lecturenotes/internal/pipeline"
	"github.com/phrazzld/lecturenotes/internal/platform/logger"
	"github.com/phrazzld/lecturenotes/internal/service"
	"github.com/phrazzld/lecturenotes/internal/store"
	"github.com/phrazzld/lecturenotes/internal/task"
	"github.com/spf13/pflag"
)

// Exit codes.
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

// options holds the flags that are not configuration keys.
type options struct {
	configFile string
	formats    []string
	noRender   bool
	width      int

	transcriptionKey string
	generationKey    string
	timestamps       bool
	notes            bool
	quiz             bool
	flashcards       bool
}

// flagKeys binds flags to configuration keys.
var flagKeys = map[string]string{
	"transcription-provider": "transcription.provider",
	"transcription-model":    "transcription.model",
	"generation-provider":    "generation.provider",
	"generation-model":       "generation.model",
	"language":               "transcription.language",
	"quiz-questions":         "generation.quiz_questions",
	"flashcards-count":       "generation.flashcards_count",
	"notes-words":            "generation.notes_words",
	"out":                    "intake.output_dir",
	"temp-dir":               "intake.temp_dir",
	"parallel":               "pipeline.parallel",
	"log-level":              "server.log_level",
}

func newFlagSet(opts *options, stderr io.Writer) *pflag.FlagSet {
	flags := pflag.NewFlagSet("lecturenotes", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.Usage = func() {
		fmt.Fprintln(stderr, "Usage: lecturenotes [flags] <audio files...>")
		flags.PrintDefaults()
	}

	flags.StringVar(&opts.configFile, "config", "", "path to a config file")
	flags.StringSliceVarP(&opts.formats, "format", "f", []string{"md"}, "output formats: txt, md, html, pdf, docx")
	flags.BoolVar(&opts.noRender, "no-render", false, "do not print artifacts to the terminal")
	flags.IntVar(&opts.width, "width", 100, "terminal word wrap width")
	flags.StringVar(&opts.transcriptionKey, "transcription-api-key", "", "API key for the transcription provider")
	flags.StringVar(&opts.generationKey, "generation-api-key", "", "API key for the generation provider")
	flags.BoolVar(&opts.timestamps, "timestamps", false, "request timestamped segments (single file only)")
	flags.BoolVar(&opts.notes, "notes", true, "generate lecture notes")
	flags.BoolVar(&opts.quiz, "quiz", true, "generate a quiz")
	flags.BoolVar(&opts.flashcards, "flashcards", true, "generate flashcards")

	flags.String("transcription-provider", "", "transcription provider: openai, groq or gemini")
	flags.String("transcription-model", "", "transcription model")
	flags.String("generation-provider", "", "generation provider: openai, groq or gemini")
	flags.String("generation-model", "", "generation model")
	flags.StringP("language", "l", "", "language of the recording")
	flags.Int("quiz-questions", 0, "number of quiz questions")
	flags.Int("flashcards-count", 0, "number of flashcards")
	flags.Int("notes-words", 0, "notes word budget, 0 for no limit")
	flags.StringP("out", "o", "", "output directory")
	flags.String("temp-dir", "", "directory for temporary audio copies")
	flags.Bool("parallel", false, "generate artifacts concurrently")
	flags.String("log-level", "", "log level: debug, info, warn or error")
	return flags
}

// run executes the command and returns the process exit code. Service options
// are passed to the lecture service.
func run(ctx context.Context, args []string, stdout, stderr io.Writer, svcOpts ...service.Option) int {
	opts := &options{}
	flags := newFlagSet(opts, stderr)
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	st := newStatus(stdout)

	files := flags.Args()
	if len(files) == 0 {
		flags.Usage()
		return exitUsage
	}
	formats, err := parseFormats(opts.formats)
	if err != nil {
		st.fail("%v", err)
		return exitUsage
	}

	cfg, err := loadConfig(flags, opts.configFile)
	if err != nil {
		st.fail("%v", err)
		return exitUsage
	}
	log, err := logger.SetupWithWriter(cfg.Server, stderr)
	if err != nil {
		st.fail("%v", err)
		return exitFailure
	}

	intake, err := audio.NewIntake(audio.IntakeConfig{
		TempDir:          cfg.Intake.TempDir,
		MaxFileSizeBytes: cfg.Intake.MaxFileSizeBytes(),
	}, log)
	if err != nil {
		st.fail("%v", err)
		return exitFailure
	}

	promptSet, err := generation.LoadPrompts(cfg.Prompts.Path)
	if err != nil {
		st.fail("%v", err)
		return exitFailure
	}
	prompts, err := promptSet.Compile()
	if err != nil {
		st.fail("%v", err)
		return exitFailure
	}

	jobs := store.NewMemoryJobStore(log)
	emitter := events.NewInMemoryEventEmitter(log)
	emitter.RegisterHandler(task.NewProgressHandler(jobs, log))
	emitter.RegisterHandler(st)

	pipe, err := pipeline.New(intake, log,
		pipeline.WithEmitter(emitter),
		pipeline.WithParallelArtifacts(cfg.Pipeline.Parallel))
	if err != nil {
		st.fail("%v", err)
		return exitFailure
	}

	svc, err := service.NewLectureService(cfg, pipe, jobs, task.NewInlineRunner(log), emitter, prompts, log, svcOpts...)
	if err != nil {
		st.fail("%v", err)
		return exitFailure
	}

	uploads, closeAll, err := openFiles(files)
	defer closeAll()
	if err != nil {
		st.fail("%v", err)
		return exitFailure
	}

	st.info("Processing %s", strings.Join(files, ", "))
	job, err := svc.Submit(ctx, service.LectureRequest{
		Uploads:       uploads,
		Transcription: service.BackendChoice{APIKey: opts.transcriptionKey},
		Generation:    service.BackendChoice{APIKey: opts.generationKey},
		Timestamps:    opts.timestamps,
		Artifacts: pipeline.ArtifactOptions{
			Notes:      opts.notes,
			Quiz:       opts.quiz,
			Flashcards: opts.flashcards,
		},
	})
	if err != nil {
		st.fail("%v", err)
		return exitFailure
	}

	if job.Status == domain.JobStatusFailed {
		st.fail("No transcript was produced")
		return exitFailure
	}

	written, err := writeOutputs(cfg.Intake.OutputDir, job, formats)
	for _, path := range written {
		st.ok("Wrote %s", path)
	}
	if err != nil {
		st.fail("%v", err)
		return exitFailure
	}

	if !opts.noRender {
		renderArtifacts(stdout, job, opts.width)
	}

	for _, w := range job.Warnings {
		st.warn("%s", w)
	}
	if job.Status == domain.JobStatusCompletedWithErrors {
		st.warn("Finished with errors")
		return exitFailure
	}
	st.ok("Done: %d words transcribed", job.Stats.Words)
	return exitOK
}

func loadConfig(flags *pflag.FlagSet, configFile string) (*config.Config, error) {
	loadOpts := make([]config.Option, 0, len(flagKeys)+1)
	for name, key := range flagKeys {
		loadOpts = append(loadOpts, config.WithFlag(key, flags.Lookup(name)))
	}
	if configFile != "" {
		loadOpts = append(loadOpts, config.WithConfigFile(configFile))
	}
	return config.Load(loadOpts...)
}

func parseFormats(names []string) ([]export.Format, error) {
	formats := make([]export.Format, 0, len(names))
	seen := make(map[export.Format]bool, len(names))
	for _, name := range names {
		f, err := export.ParseFormat(name)
		if err != nil {
			return nil, err
		}
		if !seen[f] {
			seen[f] = true
			formats = append(formats, f)
		}
	}
	return formats, nil
}

// openFiles opens every input. The returned close function is always safe to
// call.
func openFiles(paths []string) ([]pipeline.Upload, func(), error) {
	var opened []*os.File
	closeAll := func() {
		for _, f := range opened {
			_ = f.Close()
		}
	}

	uploads := make([]pipeline.Upload, 0, len(paths))
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return nil, closeAll, fmt.Errorf("%w: %s", audio.ErrFileNotFound, path)
		}
		opened = append(opened, f)

		info, err := f.Stat()
		if err != nil {
			return nil, closeAll, fmt.Errorf("stat %s: %w", path, err)
		}
		if !info.Mode().IsRegular() {
			return nil, closeAll, fmt.Errorf("%w: %s is not a regular file", audio.ErrFileNotFound, path)
		}
		uploads = append(uploads, pipeline.Upload{Name: filepath.Base(path), Size: info.Size(), Body: f})
	}
	return uploads, closeAll, nil
}

// writeOutputs writes transcript.txt and every artifact in each format. It
// returns the paths written before any error.
func writeOutputs(dir string, job *domain.Job, formats []export.Format) ([]string, error) {
	var written []string

	path, err := export.WriteFile(dir, "transcript", export.FormatTXT, export.Title("transcript"), job.Transcript)
	if err != nil {
		return written, err
	}
	written = append(written, path)

	for _, kind := range domain.ArtifactKinds() {
		a, ok := job.Artifacts[kind]
		if !ok || a == nil {
			continue
		}
		for _, format := range formats {
			path, err := export.WriteFile(dir, string(kind), format, export.Title(string(kind)), a.Content)
			if err != nil {
				return written, err
			}
			written = append(written, path)
		}
	}
	return written, nil
}
