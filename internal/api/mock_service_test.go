package api

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/phrazzld/lecturenotes/internal/domain"
	"github.com/phrazzld/lecturenotes/internal/service"
	"github.com/stretchr/testify/mock"
)

// mockLectureService is a testify mock of service.LectureService. Submit
// drains the upload bodies into SubmittedBodies because the handler closes
// them once Submit returns.
type mockLectureService struct {
	mock.Mock
	SubmittedBodies []string
}

var _ service.LectureService = (*mockLectureService)(nil)

func (m *mockLectureService) Submit(ctx context.Context, req service.LectureRequest) (*domain.Job, error) {
	for _, u := range req.Uploads {
		data, _ := io.ReadAll(u.Body)
		m.SubmittedBodies = append(m.SubmittedBodies, string(data))
	}
	args := m.Called(ctx, req)
	job, _ := args.Get(0).(*domain.Job)
	return job, args.Error(1)
}

func (m *mockLectureService) GetJob(ctx context.Context, id uuid.UUID) (*domain.Job, error) {
	args := m.Called(ctx, id)
	job, _ := args.Get(0).(*domain.Job)
	return job, args.Error(1)
}

func (m *mockLectureService) Generate(ctx context.Context, req service.GenerateRequest) (*domain.Artifact, error) {
	args := m.Called(ctx, req)
	a, _ := args.Get(0).(*domain.Artifact)
	return a, args.Error(1)
}
