// Package backend constructs provider adapters from a provider.Config. It is
// the single place that maps the closed Backend set onto concrete adapters.
package backend

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/lecturenotes/internal/platform/gemini"
	"github.com/phrazzld/lecturenotes/internal/platform/openai"
	"github.com/phrazzld/lecturenotes/internal/provider"
)

// Adapter is implemented by every backend client.
type Adapter interface {
	provider.Generator
	provider.Transcriber
}

// NewGenerator returns an adapter configured for text generation. An empty
// model selects the descriptor's default generation model.
func NewGenerator(ctx context.Context, cfg provider.Config, logger *slog.Logger) (provider.Generator, error) {
	return newAdapter(ctx, cfg, provider.CapabilityGeneration, logger)
}

// NewTranscriber returns an adapter configured for speech-to-text. An empty
// model selects the descriptor's default transcription model.
func NewTranscriber(ctx context.Context, cfg provider.Config, logger *slog.Logger) (provider.Transcriber, error) {
	return newAdapter(ctx, cfg, provider.CapabilityTranscription, logger)
}

func newAdapter(
	ctx context.Context,
	cfg provider.Config,
	capability provider.Capability,
	logger *slog.Logger,
) (Adapter, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	desc, ok := provider.Lookup(string(cfg.Backend))
	if !ok {
		return nil, provider.NewError(provider.KindPrecondition, cfg.Backend, provider.StageLookup,
			fmt.Errorf("%w: %q", provider.ErrUnknownProvider, cfg.Backend))
	}
	if !desc.Supports(capability) {
		return nil, provider.NewError(provider.KindPrecondition, desc.Key, provider.StageConfigure,
			fmt.Errorf("%w: %s", provider.ErrCapability, capability))
	}
	if desc.RequiresCredential && cfg.APIKey == "" {
		return nil, provider.NewError(provider.KindPrecondition, desc.Key, provider.StageConfigure,
			provider.ErrMissingCredential)
	}

	model := cfg.Model
	if model == "" {
		model = desc.DefaultModel(capability)
	} else if !desc.HasModel(capability, model) {
		logger.Warn("model not in catalog, passing through",
			"provider", desc.Key,
			"capability", capability,
			"model", model)
	}

	switch desc.Key {
	case provider.BackendOpenAI, provider.BackendGroq:
		client, err := openai.New(openai.Config{
			Backend: desc.Key,
			APIKey:  cfg.APIKey,
			Model:   model,
			BaseURL: cfg.BaseURL,
			Timeout: cfg.Timeout,
		}, logger)
		if err != nil {
			return nil, err
		}
		return client, nil
	case provider.BackendGemini:
		client, err := gemini.New(ctx, gemini.Config{
			APIKey:  cfg.APIKey,
			Model:   model,
			BaseURL: cfg.BaseURL,
			Timeout: cfg.Timeout,
		}, logger)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, provider.NewError(provider.KindPrecondition, desc.Key, provider.StageLookup,
			provider.ErrUnknownProvider)
	}
}
