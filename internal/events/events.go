package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types.
const (
	TypeLectureSubmitted = "lecture.submitted"
	TypeStageStarted     = "stage.started"
	TypeStageCompleted   = "stage.completed"
	TypeStageFailed      = "stage.failed"
	TypeStageSkipped     = "stage.skipped"
)

// Event is a typed message with a JSON payload.
type Event struct {
	// ID is the unique identifier for the event
	ID uuid.UUID `json:"id"`

	// Type identifies the kind of event
	Type string `json:"type"`

	// JobID names the lecture job the event belongs to
	JobID uuid.UUID `json:"job_id"`

	// Payload contains the event-specific data
	Payload json.RawMessage `json:"payload,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// UnmarshalPayload decodes the payload into v.
func (e *Event) UnmarshalPayload(v any) error {
	return json.Unmarshal(e.Payload, v)
}

// NewEvent creates an event with a fresh ID. A nil payload is left empty.
func NewEvent(eventType string, jobID uuid.UUID, payload any) (*Event, error) {
	var raw json.RawMessage
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		raw = b
	}

	return &Event{
		ID:        uuid.New(),
		Type:      eventType,
		JobID:     jobID,
		Payload:   raw,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// StageEvent is the payload of the stage.* events.
type StageEvent struct {
	Stage string `json:"stage"`
	// Error is the redacted failure message of a failed stage.
	Error string `json:"error,omitempty"`
	// Warnings holds non-fatal problems of a completed stage.
	Warnings []string `json:"warnings,omitempty"`
}

// NewStageEvent builds a stage.* event.
func NewStageEvent(eventType string, jobID uuid.UUID, payload StageEvent) *Event {
	// StageEvent always marshals.
	e, _ := NewEvent(eventType, jobID, payload)
	return e
}

// EventHandler defines the interface for components that can process events
type EventHandler interface {
	// HandleEvent processes an event. Returning an error reports a failure
	// to the emitter; it does not stop other handlers.
	HandleEvent(ctx context.Context, event *Event) error
}

// HandlerFunc adapts a function to EventHandler.
type HandlerFunc func(ctx context.Context, event *Event) error

// HandleEvent calls f.
func (f HandlerFunc) HandleEvent(ctx context.Context, event *Event) error {
	return f(ctx, event)
}

// EventEmitter defines the interface for components that can emit events
type EventEmitter interface {
	EmitEvent(ctx context.Context, event *Event) error
}

// Discard is an emitter that drops every event.
var Discard EventEmitter = discard{}

type discard struct{}

func (discard) EmitEvent(context.Context, *Event) error { return nil }
