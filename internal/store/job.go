package store

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/lecturenotes/internal/domain"
)

// JobStore defines the interface for job persistence.
// Implementations hand out copies: mutating a returned job never changes the
// stored one.
type JobStore interface {
	// Create saves a new job.
	// Returns ErrInvalidEntity if the job fails validation and ErrJobExists
	// if its ID is taken.
	Create(ctx context.Context, job *domain.Job) error

	// GetByID retrieves a job by its unique ID.
	// Returns ErrJobNotFound if the job does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Job, error)

	// Update applies fn to the stored job atomically and returns the result.
	// If fn returns an error, nothing is changed.
	// Returns ErrJobNotFound if the job does not exist.
	Update(ctx context.Context, id uuid.UUID, fn func(job *domain.Job) error) (*domain.Job, error)

	// List returns all jobs, newest first.
	List(ctx context.Context) ([]*domain.Job, error)
}

// MemoryJobStore is a JobStore backed by a map.
type MemoryJobStore struct {
	mu     sync.RWMutex
	jobs   map[uuid.UUID]*domain.Job
	logger *slog.Logger
}

// NewMemoryJobStore creates an empty store.
func NewMemoryJobStore(logger *slog.Logger) *MemoryJobStore {
	return &MemoryJobStore{
		jobs:   make(map[uuid.UUID]*domain.Job),
		logger: logger.With("component", "job_store"),
	}
}

var _ JobStore = (*MemoryJobStore)(nil)

// Create implements JobStore.
func (s *MemoryJobStore) Create(ctx context.Context, job *domain.Job) error {
	if err := job.Validate(); err != nil {
		return NewStoreError("job", "create", "validation failed", fmt.Errorf("%w: %w", ErrInvalidEntity, err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.jobs[job.ID]; ok {
		return NewStoreError("job", "create", job.ID.String(), ErrJobExists)
	}
	s.jobs[job.ID] = job.Clone()
	s.logger.Debug("job created", "job_id", job.ID)
	return nil
}

// GetByID implements JobStore.
func (s *MemoryJobStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[id]
	if !ok {
		return nil, ErrJobNotFound
	}
	return job.Clone(), nil
}

// Update implements JobStore.
func (s *MemoryJobStore) Update(
	ctx context.Context,
	id uuid.UUID,
	fn func(job *domain.Job) error,
) (*domain.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.jobs[id]
	if !ok {
		return nil, ErrJobNotFound
	}

	next := current.Clone()
	if err := fn(next); err != nil {
		return nil, NewStoreError("job", "update", id.String(), fmt.Errorf("%w: %w", ErrUpdateFailed, err))
	}
	next.ID = id
	if err := next.Validate(); err != nil {
		return nil, NewStoreError("job", "update", id.String(), fmt.Errorf("%w: %w", ErrInvalidEntity, err))
	}

	s.jobs[id] = next
	return next.Clone(), nil
}

// List implements JobStore.
func (s *MemoryJobStore) List(ctx context.Context) ([]*domain.Job, error) {
	s.mu.RLock()
	jobs := make([]*domain.Job, 0, len(s.jobs))
	for _, j := range s.jobs {
		jobs = append(jobs, j.Clone())
	}
	s.mu.RUnlock()

	slices.SortFunc(jobs, func(a, b *domain.Job) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return jobs, nil
}
