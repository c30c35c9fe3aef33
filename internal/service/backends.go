package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/phrazzld/lecturenotes/internal/platform/backend"
	"github.com/phrazzld/lecturenotes/internal/provider"
)

// BackendFactory builds provider adapters. The default implementation uses
// the platform adapters; tests substitute stubs.
type BackendFactory interface {
	NewTranscriber(ctx context.Context, cfg provider.Config) (provider.Transcriber, error)
	NewGenerator(ctx context.Context, cfg provider.Config) (provider.Generator, error)
}

type platformBackends struct {
	logger *slog.Logger
}

// PlatformBackends returns the BackendFactory that talks to the real services.
func PlatformBackends(logger *slog.Logger) BackendFactory {
	return platformBackends{logger: logger}
}

func (b platformBackends) NewTranscriber(ctx context.Context, cfg provider.Config) (provider.Transcriber, error) {
	return backend.NewTranscriber(ctx, cfg, b.logger)
}

func (b platformBackends) NewGenerator(ctx context.Context, cfg provider.Config) (provider.Generator, error) {
	return backend.NewGenerator(ctx, cfg, b.logger)
}

// BackendChoice names a backend, a model and a credential for one stage. Empty
// fields fall back to the configured values.
type BackendChoice struct {
	Provider string
	Model    string
	APIKey   string
}

// resolve fills the choice from the configured provider and model. The
// configured model only applies when the provider is the configured one.
func (c BackendChoice) resolve(defProvider, defModel string) BackendChoice {
	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))
	if c.Provider == "" {
		c.Provider = defProvider
	}
	if c.Model == "" && c.Provider == defProvider {
		c.Model = defModel
	}
	return c
}
