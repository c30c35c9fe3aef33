// Package main implements the entry point for the lecturenotes API server,
// which accepts lecture audio, transcribes it and generates notes, quizzes
// and flashcards in the background.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/phrazzld/lecturenotes/internal/config"
	"github.com/phrazzld/lecturenotes/internal/platform/logger"
	"github.com/spf13/pflag"
)

// main is the entry point for the lecturenotes server.
// It loads configuration, sets up logging, wires the application and runs the
// HTTP server until SIGINT or SIGTERM.
func main() {
	cfg, err := initializeApp(os.Args[1:])
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	ctx := context.Background()
	app, err := newApplication(ctx, cfg, slog.Default())
	if err != nil {
		slog.Error("Failed to create application", "error", err)
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		slog.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
}

// initializeApp parses flags, loads configuration and sets up structured
// logging. Returns the loaded config and any initialization error.
func initializeApp(args []string) (*config.Config, error) {
	flags := pflag.NewFlagSet("lecturenotes-server", pflag.ContinueOnError)
	configFile := flags.String("config", "", "path to a config file")
	flags.Int("port", 0, "HTTP listen port")
	flags.String("log-level", "", "log level: debug, info, warn or error")
	if err := flags.Parse(args); err != nil {
		return nil, fmt.Errorf("failed to parse flags: %w", err)
	}

	opts := []config.Option{
		config.WithFlag("server.port", flags.Lookup("port")),
		config.WithFlag("server.log_level", flags.Lookup("log-level")),
	}
	if *configFile != "" {
		opts = append(opts, config.WithConfigFile(*configFile))
	}

	cfg, err := config.Load(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if _, err := logger.Setup(cfg.Server); err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	slog.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"transcription_provider", cfg.Transcription.Provider,
		"generation_provider", cfg.Generation.Provider)

	return cfg, nil
}
