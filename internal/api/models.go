package api

import (
	"sort"
	"time"

	"github.com/phrazzld/lecturenotes/internal/domain"
	"github.com/phrazzld/lecturenotes/internal/provider"
)

// ArtifactResponse describes one generated artifact of a job.
type ArtifactResponse struct {
	Kind      string           `json:"kind"`
	Content   string           `json:"content"`
	Stats     domain.TextStats `json:"stats"`
	CreatedAt time.Time        `json:"created_at"`
}

// JobResponse is the job view returned by the lecture endpoints.
type JobResponse struct {
	ID         string             `json:"id"`
	Status     string             `json:"status"`
	Sources    []string           `json:"sources"`
	Stages     map[string]string  `json:"stages"`
	Transcript string             `json:"transcript,omitempty"`
	Stats      domain.TextStats   `json:"stats"`
	Artifacts  []ArtifactResponse `json:"artifacts"`
	Errors     map[string]string  `json:"errors,omitempty"`
	Warnings   []string           `json:"warnings,omitempty"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

// GenerateRequest is the body of POST /api/generate/{kind}.
type GenerateRequest struct {
	Transcript string `json:"transcript" validate:"required"`
	Provider   string `json:"provider"`
	Model      string `json:"model"`
	APIKey     string `json:"api_key"`

	// Count is the question count, card count or notes word budget.
	Count int `json:"count" validate:"gte=0,lte=5000"`
}

// GenerateResponse is the result of a synchronous generation.
type GenerateResponse struct {
	Kind    string `json:"kind"`
	Content string `json:"content"`
}

// ProviderResponse describes a backend and its model catalogs.
type ProviderResponse struct {
	Key                 string   `json:"key"`
	Name                string   `json:"name"`
	RequiresCredential  bool     `json:"requires_credential"`
	Free                bool     `json:"free"`
	GenerationModels    []string `json:"generation_models"`
	TranscriptionModels []string `json:"transcription_models"`
}

// jobToResponse converts a job to its view. Artifacts are listed in pipeline
// order.
func jobToResponse(job *domain.Job) JobResponse {
	resp := JobResponse{
		ID:         job.ID.String(),
		Status:     string(job.Status),
		Sources:    job.Sources,
		Stages:     make(map[string]string, len(job.Stages)),
		Transcript: job.Transcript,
		Stats:      job.Stats,
		Artifacts:  make([]ArtifactResponse, 0, len(job.Artifacts)),
		Warnings:   job.Warnings,
		CreatedAt:  job.CreatedAt,
		UpdatedAt:  job.UpdatedAt,
	}
	for stage, status := range job.Stages {
		resp.Stages[string(stage)] = string(status)
	}
	for _, kind := range domain.ArtifactKinds() {
		if a, ok := job.Artifacts[kind]; ok && a != nil {
			resp.Artifacts = append(resp.Artifacts, ArtifactResponse{
				Kind:      string(a.Kind),
				Content:   a.Content,
				Stats:     domain.StatsOf(a.Content),
				CreatedAt: a.CreatedAt,
			})
		}
	}
	if len(job.Errors) > 0 {
		resp.Errors = make(map[string]string, len(job.Errors))
		for stage, msg := range job.Errors {
			resp.Errors[string(stage)] = msg
		}
	}
	return resp
}

func providerToResponse(d provider.Descriptor) ProviderResponse {
	return ProviderResponse{
		Key:                 string(d.Key),
		Name:                d.Name,
		RequiresCredential:  d.RequiresCredential,
		Free:                d.Free,
		GenerationModels:    d.GenerationModels,
		TranscriptionModels: d.TranscriptionModels,
	}
}

func providersToResponse(descs []provider.Descriptor) []ProviderResponse {
	out := make([]ProviderResponse, 0, len(descs))
	for _, d := range descs {
		out = append(out, providerToResponse(d))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
