package api

import (
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/lecturenotes/internal/api/shared"
	"github.com/phrazzld/lecturenotes/internal/domain"
	"github.com/phrazzld/lecturenotes/internal/export"
	"github.com/phrazzld/lecturenotes/internal/pipeline"
	"github.com/phrazzld/lecturenotes/internal/platform/logger"
	"github.com/phrazzld/lecturenotes/internal/redact"
	"github.com/phrazzld/lecturenotes/internal/service"
)

const (
	// audioField is the multipart field carrying the lecture audio.
	audioField = "audio"
	// transcriptKind selects the transcript on the artifact download route.
	transcriptKind = "transcript"
	// multipartMemory is the part of an upload kept in memory before the
	// multipart reader spills to disk.
	multipartMemory = 8 << 20
	// maxAudioFiles is the largest number of audio parts a submission may carry.
	maxAudioFiles = 32
)

// LectureHandler handles lecture-related HTTP requests
type LectureHandler struct {
	lectureService service.LectureService
	maxUploadBytes int64
	logger         *slog.Logger
}

// NewLectureHandler creates a new LectureHandler. maxFileBytes is the per-file
// limit; the request body is capped at maxAudioFiles times that.
func NewLectureHandler(
	lectureService service.LectureService,
	maxFileBytes int64,
	logger *slog.Logger,
) *LectureHandler {
	if lectureService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("lectureService cannot be nil for LectureHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for LectureHandler")
	}

	return &LectureHandler{
		lectureService: lectureService,
		maxUploadBytes: maxFileBytes * maxAudioFiles,
		logger:         logger.With(slog.String("component", "lecture_handler")),
	}
}

// SubmitLecture handles POST /api/lectures requests.
// It saves the uploaded audio and returns 202 with the pending job; the job is
// processed in the background.
func (h *LectureHandler) SubmitLecture(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			shared.RespondWithErrorAndLog(w, r, http.StatusRequestEntityTooLarge, "Upload too large", err)
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid multipart form", err)
		return
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			log.Warn("failed to remove multipart temp files", slog.String("error", redact.Error(err)))
		}
	}()

	req, err := lectureRequestFromForm(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	uploads, closeAll, err := openUploads(r.MultipartForm.File[audioField])
	defer closeAll()
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	req.Uploads = uploads

	job, err := h.lectureService.Submit(r.Context(), req)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to submit lecture")
		return
	}

	log.Info("lecture submitted",
		slog.String("job_id", job.ID.String()),
		slog.Int("files", len(uploads)))
	shared.RespondWithJSON(w, r, http.StatusAccepted, jobToResponse(job))
}

// GetLecture handles GET /api/lectures/{id} requests.
func (h *LectureHandler) GetLecture(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid job ID format")
		return
	}

	job, err := h.lectureService.GetJob(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get job")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, jobToResponse(job))
}

// DownloadArtifact handles GET /api/lectures/{id}/artifacts/{kind} requests.
// The kind is an artifact kind or "transcript"; the format query parameter
// selects the export format and defaults to md.
func (h *LectureHandler) DownloadArtifact(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid job ID format")
		return
	}

	formatName := r.URL.Query().Get("format")
	if formatName == "" {
		formatName = string(export.FormatMD)
	}
	format, err := export.ParseFormat(formatName)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	job, err := h.lectureService.GetJob(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get job")
		return
	}

	kind := strings.ToLower(chi.URLParam(r, "kind"))
	content, err := artifactContent(job, kind)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	data, contentType, err := export.Export(format, export.Title(kind), content)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to export artifact")
		return
	}

	shared.RespondWithFile(w, r, kind+format.Extension(), contentType, data)
}

// artifactContent returns the transcript or the named artifact of job.
func artifactContent(job *domain.Job, kind string) (string, error) {
	if kind == transcriptKind {
		if strings.TrimSpace(job.Transcript) == "" {
			return "", fmt.Errorf("%w: job has no transcript yet", service.ErrArtifactNotFound)
		}
		return job.Transcript, nil
	}

	k, err := domain.ParseArtifactKind(kind)
	if err != nil {
		return "", err
	}
	a, ok := job.Artifacts[k]
	if !ok || a == nil {
		return "", fmt.Errorf("%w: %s", service.ErrArtifactNotFound, k)
	}
	return a.Content, nil
}

// lectureRequestFromForm reads every field of a submission except the audio.
func lectureRequestFromForm(r *http.Request) (service.LectureRequest, error) {
	req := service.LectureRequest{
		Transcription: service.BackendChoice{
			Provider: r.FormValue("transcription_provider"),
			Model:    r.FormValue("transcription_model"),
			APIKey:   r.FormValue("transcription_api_key"),
		},
		Generation: service.BackendChoice{
			Provider: r.FormValue("generation_provider"),
			Model:    r.FormValue("generation_model"),
			APIKey:   r.FormValue("generation_api_key"),
		},
		Language: strings.TrimSpace(r.FormValue("language")),
	}

	var err error
	if req.Timestamps, err = formBool(r, "timestamps", false); err != nil {
		return req, err
	}
	if req.Artifacts.Notes, err = formBool(r, "notes", true); err != nil {
		return req, err
	}
	if req.Artifacts.Quiz, err = formBool(r, "quiz", true); err != nil {
		return req, err
	}
	if req.Artifacts.Flashcards, err = formBool(r, "flashcards", true); err != nil {
		return req, err
	}
	if req.Artifacts.QuizQuestions, err = formInt(r, "quiz_questions"); err != nil {
		return req, err
	}
	if req.Artifacts.FlashcardCount, err = formInt(r, "flashcards_count"); err != nil {
		return req, err
	}
	if req.Artifacts.NotesWords, err = formInt(r, "notes_words"); err != nil {
		return req, err
	}
	return req, nil
}

// openUploads opens every audio part. The returned close function is always
// safe to call.
func openUploads(headers []*multipart.FileHeader) ([]pipeline.Upload, func(), error) {
	var files []multipart.File
	closeAll := func() {
		for _, f := range files {
			_ = f.Close()
		}
	}

	if len(headers) == 0 {
		return nil, closeAll, fmt.Errorf("%w: %w", service.ErrInvalidRequest, pipeline.ErrNoAudio)
	}
	if len(headers) > maxAudioFiles {
		return nil, closeAll, fmt.Errorf("%w: at most %d audio files", service.ErrInvalidRequest, maxAudioFiles)
	}

	uploads := make([]pipeline.Upload, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return nil, closeAll, fmt.Errorf("open %s: %w", fh.Filename, err)
		}
		files = append(files, f)
		uploads = append(uploads, pipeline.Upload{Name: fh.Filename, Size: fh.Size, Body: f})
	}
	return uploads, closeAll, nil
}
