package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/lecturenotes/internal/api/shared"
	"github.com/phrazzld/lecturenotes/internal/provider"
)

// ProviderHandler serves the static provider registry.
type ProviderHandler struct{}

// NewProviderHandler creates a ProviderHandler.
func NewProviderHandler() *ProviderHandler {
	return &ProviderHandler{}
}

// ListProviders handles GET /api/providers requests.
func (h *ProviderHandler) ListProviders(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, providersToResponse(provider.All()))
}

// GetProvider handles GET /api/providers/{key} requests.
func (h *ProviderHandler) GetProvider(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	desc, ok := provider.Lookup(key)
	if !ok {
		HandleAPIError(w, r, fmt.Errorf("%w: %q", provider.ErrUnknownProvider, key), "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, providerToResponse(desc))
}
