package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/lecturenotes/internal/provider"
)

// MockBackends is a backend factory that hands out fixed adapters and
// records every config it was asked for.
type MockBackends struct {
	Transcriber provider.Transcriber
	Generator   provider.Generator
	Err         error

	mu      sync.Mutex
	configs []provider.Config
}

// NewMockBackends returns a factory serving transcriber and generator.
func NewMockBackends(transcriber provider.Transcriber, generator provider.Generator) *MockBackends {
	return &MockBackends{Transcriber: transcriber, Generator: generator}
}

// NewTranscriber returns the configured transcriber or Err.
func (m *MockBackends) NewTranscriber(_ context.Context, cfg provider.Config) (provider.Transcriber, error) {
	m.record(cfg)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Transcriber, nil
}

// NewGenerator returns the configured generator or Err.
func (m *MockBackends) NewGenerator(_ context.Context, cfg provider.Config) (provider.Generator, error) {
	m.record(cfg)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Generator, nil
}

// Configs returns the configs requested so far.
func (m *MockBackends) Configs() []provider.Config {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]provider.Config(nil), m.configs...)
}

func (m *MockBackends) record(cfg provider.Config) {
	m.mu.Lock()
	m.configs = append(m.configs, cfg)
	m.mu.Unlock()
}
