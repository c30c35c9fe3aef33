package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/lecturenotes/internal/provider"
)

// MockGenerator implements provider.Generator for testing
type MockGenerator struct {
	// GenerateFn allows test cases to mock the Generate behavior
	GenerateFn func(ctx context.Context, req provider.GenerationRequest) (string, error)

	// Default response values
	Text string
	Err  error

	mu       sync.Mutex
	requests []provider.GenerationRequest
}

var _ provider.Generator = (*MockGenerator)(nil)

// Generate implements the provider.Generator interface
func (m *MockGenerator) Generate(ctx context.Context, req provider.GenerationRequest) (string, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	if m.GenerateFn != nil {
		return m.GenerateFn(ctx, req)
	}
	return m.Text, m.Err
}

// CallCount returns how many times Generate was called
func (m *MockGenerator) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// Requests returns a copy of every request received, in call order
func (m *MockGenerator) Requests() []provider.GenerationRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]provider.GenerationRequest, len(m.requests))
	copy(out, m.requests)
	return out
}

// LastRequest returns the most recent request and whether there was one
func (m *MockGenerator) LastRequest() (provider.GenerationRequest, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.requests) == 0 {
		return provider.GenerationRequest{}, false
	}
	return m.requests[len(m.requests)-1], true
}

// NewMockGeneratorWithText creates a MockGenerator that always returns text
func NewMockGeneratorWithText(text string) *MockGenerator {
	return &MockGenerator{Text: text}
}

// NewMockGeneratorWithError creates a MockGenerator that always fails with err
func NewMockGeneratorWithError(err error) *MockGenerator {
	return &MockGenerator{Err: err}
}

// MockGeneratorThatRejects simulates a backend refusing the request
func MockGeneratorThatRejects(status int) *MockGenerator {
	return &MockGenerator{
		Err: &provider.Error{
			Kind:       provider.KindBackendRejected,
			Provider:   provider.BackendGroq,
			Stage:      provider.StageGenerate,
			StatusCode: status,
			Err:        provider.ErrEmptyResponse,
		},
	}
}
