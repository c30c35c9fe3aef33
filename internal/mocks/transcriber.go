package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/lecturenotes/internal/provider"
)

// MockTranscriber implements provider.Transcriber for testing
type MockTranscriber struct {
	TranscribeFn         func(ctx context.Context, req provider.TranscriptionRequest) (string, error)
	TranscribeSegmentsFn func(ctx context.Context, req provider.TranscriptionRequest) ([]provider.Segment, error)

	// Default response values
	Text     string
	Segments []provider.Segment
	Err      error

	mu       sync.Mutex
	requests []provider.TranscriptionRequest
}

var _ provider.Transcriber = (*MockTranscriber)(nil)

// Transcribe implements the provider.Transcriber interface
func (m *MockTranscriber) Transcribe(ctx context.Context, req provider.TranscriptionRequest) (string, error) {
	m.record(req)
	if m.TranscribeFn != nil {
		return m.TranscribeFn(ctx, req)
	}
	return m.Text, m.Err
}

// TranscribeSegments implements the provider.Transcriber interface
func (m *MockTranscriber) TranscribeSegments(ctx context.Context, req provider.TranscriptionRequest) ([]provider.Segment, error) {
	m.record(req)
	if m.TranscribeSegmentsFn != nil {
		return m.TranscribeSegmentsFn(ctx, req)
	}
	return m.Segments, m.Err
}

func (m *MockTranscriber) record(req provider.TranscriptionRequest) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, req)
}

// CallCount returns how many transcription calls were made
func (m *MockTranscriber) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// Requests returns a copy of every request received, in call order
func (m *MockTranscriber) Requests() []provider.TranscriptionRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]provider.TranscriptionRequest, len(m.requests))
	copy(out, m.requests)
	return out
}

// NewMockTranscriberWithText creates a MockTranscriber that always returns text
func NewMockTranscriberWithText(text string) *MockTranscriber {
	return &MockTranscriber{Text: text}
}
