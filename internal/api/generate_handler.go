package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/lecturenotes/internal/api/shared"
	"github.com/phrazzld/lecturenotes/internal/domain"
	"github.com/phrazzld/lecturenotes/internal/platform/logger"
	"github.com/phrazzld/lecturenotes/internal/service"
)

// GenerateHandler handles synchronous artifact generation from a transcript.
type GenerateHandler struct {
	lectureService service.LectureService
	logger         *slog.Logger
}

// NewGenerateHandler creates a new GenerateHandler
func NewGenerateHandler(lectureService service.LectureService, logger *slog.Logger) *GenerateHandler {
	if lectureService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("lectureService cannot be nil for GenerateHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for GenerateHandler")
	}

	return &GenerateHandler{
		lectureService: lectureService,
		logger:         logger.With(slog.String("component", "generate_handler")),
	}
}

// Generate handles POST /api/generate/{kind} requests.
func (h *GenerateHandler) Generate(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	kind, err := domain.ParseArtifactKind(chi.URLParam(r, "kind"))
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req GenerateRequest
	if !parseAndValidateRequest(w, r, &req) {
		return
	}

	artifact, err := h.lectureService.Generate(r.Context(), service.GenerateRequest{
		Kind:       kind,
		Transcript: req.Transcript,
		Backend: service.BackendChoice{
			Provider: req.Provider,
			Model:    req.Model,
			APIKey:   req.APIKey,
		},
		Count: req.Count,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to generate "+string(kind))
		return
	}

	log.Debug("artifact generated",
		slog.String("kind", string(kind)),
		slog.Int("characters", len(artifact.Content)))
	shared.RespondWithJSON(w, r, http.StatusOK, GenerateResponse{
		Kind:    string(artifact.Kind),
		Content: artifact.Content,
	})
}
