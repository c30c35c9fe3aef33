package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/lecturenotes/internal/audio"
	"github.com/phrazzld/lecturenotes/internal/config"
	"github.com/phrazzld/lecturenotes/internal/events"
	"github.com/phrazzld/lecturenotes/internal/generation"
	"github.com/phrazzld/lecturenotes/internal/pipeline"
	"github.com/phrazzld/lecturenotes/internal/service"
	"github.com/phrazzld/lecturenotes/internal/store"
	"github.com/phrazzld/lecturenotes/internal/task"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	// Configuration
	config *config.Config

	// Core services
	logger *slog.Logger
	intake *audio.Intake

	// Stores
	jobStore  store.JobStore
	taskStore task.TaskStore

	// Event system
	eventEmitter *events.InMemoryEventEmitter

	// Task handling
	taskRunner *task.TaskRunner

	// Service interfaces
	lectureService service.LectureService
}

// newApplication creates a new application instance with all dependencies initialized.
// Service options are passed through to the lecture service; tests use them to
// replace the provider backends.
func newApplication(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	opts ...service.Option,
) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
	}

	// Initialize audio intake and clear files left by a previous run
	var err error
	app.intake, err = audio.NewIntake(audio.IntakeConfig{
		TempDir:          cfg.Intake.TempDir,
		MaxFileSizeBytes: cfg.Intake.MaxFileSizeBytes(),
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize audio intake: %w", err)
	}
	if removed, err := app.intake.CleanupAll(); err != nil {
		logger.Warn("failed to clear temp directory", "error", err)
	} else if removed > 0 {
		logger.Info("removed stale temp files", "count", removed)
	}

	// Load prompt templates
	promptSet, err := generation.LoadPrompts(cfg.Prompts.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to load prompts: %w", err)
	}
	prompts, err := promptSet.Compile()
	if err != nil {
		return nil, fmt.Errorf("failed to compile prompts: %w", err)
	}

	// Initialize stores
	app.jobStore = store.NewMemoryJobStore(logger)
	app.taskStore = task.NewMemoryTaskStore()

	// Initialize event emitter; stage events update the stored job
	app.eventEmitter = events.NewInMemoryEventEmitter(logger)
	app.eventEmitter.RegisterHandler(task.NewProgressHandler(app.jobStore, logger))

	// Initialize pipeline
	pipe, err := pipeline.New(app.intake, logger,
		pipeline.WithEmitter(app.eventEmitter),
		pipeline.WithParallelArtifacts(cfg.Pipeline.Parallel))
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline: %w", err)
	}

	// Initialize task runner
	app.taskRunner, err = setupTaskRunner(app)
	if err != nil {
		return nil, fmt.Errorf("failed to setup task runner: %w", err)
	}

	// Initialize lecture service
	app.lectureService, err = service.NewLectureService(
		cfg,
		pipe,
		app.jobStore,
		app.taskRunner,
		app.eventEmitter,
		prompts,
		logger,
		opts...,
	)
	if err != nil {
		app.taskRunner.Stop()
		return nil, fmt.Errorf("failed to create lecture service: %w", err)
	}

	logger.Info("Application initialized successfully",
		"worker_count", cfg.Task.WorkerCount,
		"parallel_artifacts", cfg.Pipeline.Parallel)
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// setupTaskRunner initializes and starts the background task processor.
// It uses the application struct to access required dependencies.
func setupTaskRunner(app *application) (*task.TaskRunner, error) {
	taskRunner := task.NewTaskRunner(app.taskStore, task.TaskRunnerConfig{
		QueueSize:   app.config.Task.QueueSize,
		WorkerCount: app.config.Task.WorkerCount,
		TaskTimeout: app.config.Task.Timeout,
	}, app.logger)

	if err := taskRunner.Start(); err != nil {
		return nil, fmt.Errorf("failed to start task runner: %w", err)
	}

	return taskRunner, nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	// Stop task runner; running jobs finish and remove their own files
	if app.taskRunner != nil {
		app.taskRunner.Stop()
	}

	if app.intake != nil {
		if _, err := app.intake.CleanupAll(); err != nil {
			app.logger.Error("Error clearing temp directory", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
