package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/lecturenotes/internal/api"
	apiMiddleware "github.com/phrazzld/lecturenotes/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes and middleware.
// It accepts the application dependencies to create handlers and register routes.
// Returns the configured router.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))

	// Create API handlers using the application's services
	lectureHandler := api.NewLectureHandler(app.lectureService, app.config.Intake.MaxFileSizeBytes(), app.logger)
	generateHandler := api.NewGenerateHandler(app.lectureService, app.logger)
	providerHandler := api.NewProviderHandler()

	// Register routes
	r.Route("/api", func(r chi.Router) {
		// Provider registry
		r.Get("/providers", providerHandler.ListProviders)
		r.Get("/providers/{key}", providerHandler.GetProvider)

		// Lecture jobs
		r.Post("/lectures", lectureHandler.SubmitLecture)
		r.Get("/lectures/{id}", lectureHandler.GetLecture)
		r.Get("/lectures/{id}/artifacts/{kind}", lectureHandler.DownloadArtifact)

		// Synchronous generation from a transcript
		r.Post("/generate/{kind}", generateHandler.Generate)
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte("OK"))
		if err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
