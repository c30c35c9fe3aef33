package task

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Record is the tracked state of one task.
type Record struct {
	ID        uuid.UUID  `json:"id"`
	Type      string     `json:"type"`
	Status    TaskStatus `json:"status"`
	Error     string     `json:"error,omitempty"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// MemoryTaskStore keeps task records in memory.
type MemoryTaskStore struct {
	mu      sync.RWMutex
	records map[uuid.UUID]Record
}

// NewMemoryTaskStore creates an empty store.
func NewMemoryTaskStore() *MemoryTaskStore {
	return &MemoryTaskStore{records: make(map[uuid.UUID]Record)}
}

var _ TaskStore = (*MemoryTaskStore)(nil)

// SaveTask implements TaskStore.
func (s *MemoryTaskStore) SaveTask(ctx context.Context, task Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[task.ID()] = Record{
		ID:        task.ID(),
		Type:      task.Type(),
		Status:    task.Status(),
		UpdatedAt: time.Now().UTC(),
	}
	return nil
}

// UpdateTaskStatus implements TaskStore.
func (s *MemoryTaskStore) UpdateTaskStatus(
	ctx context.Context,
	taskID uuid.UUID,
	status TaskStatus,
	errorMsg string,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[taskID]
	if !ok {
		return ErrTaskNotFound
	}
	rec.Status = status
	rec.Error = errorMsg
	rec.UpdatedAt = time.Now().UTC()
	s.records[taskID] = rec
	return nil
}

// Get returns the record of a task.
func (s *MemoryTaskStore) Get(taskID uuid.UUID) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[taskID]
	if !ok {
		return Record{}, ErrTaskNotFound
	}
	return rec, nil
}

// Counts returns how many tasks are in each status.
func (s *MemoryTaskStore) Counts() map[TaskStatus]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[TaskStatus]int)
	for _, rec := range s.records {
		counts[rec.Status]++
	}
	return counts
}
