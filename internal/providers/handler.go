package providers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/docnearby/docnearby/internal/identity"
	"github.com/docnearby/docnearby/pkg/logging"
)

// Handler handles HTTP requests for provider profiles
type Handler struct {
	repo   Repository
	logger *logging.Logger
}

// NewHandler creates a new providers handler
func NewHandler(repo Repository, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, logger: logger}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// GetProvider handles GET /api/doctors/{id} — the public profile view.
func (h *Handler) GetProvider(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing provider id")
		return
	}

	provider, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrProviderNotFound) {
			writeError(w, http.StatusNotFound, "Doctor not found")
			return
		}
		h.logger.Error("failed to load provider", "error", err, "id", id)
		writeError(w, http.StatusInternalServerError, "failed to load provider")
		return
	}

	writeJSON(w, http.StatusOK, provider)
}

// GetMyProfile handles GET /api/doctors/profile/me for the logged-in provider.
func (h *Handler) GetMyProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := identity.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	if user.Role != identity.RoleProvider {
		writeError(w, http.StatusForbidden, "provider account required")
		return
	}

	provider, err := h.repo.GetByUserID(r.Context(), user.ID)
	if err != nil {
		if errors.Is(err, ErrNoProfile) {
			writeError(w, http.StatusNotFound, "Doctor profile not found")
			return
		}
		h.logger.Error("failed to load own profile", "error", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "failed to load profile")
		return
	}

	writeJSON(w, http.StatusOK, provider)
}

// UpdateMyProfile handles PUT /api/doctors/profile/me.
func (h *Handler) UpdateMyProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := identity.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	if user.Role != identity.RoleProvider {
		writeError(w, http.StatusForbidden, "provider account required")
		return
	}

	var update ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	provider, err := h.repo.UpdateProfile(r.Context(), user.ID, &update)
	if err != nil {
		if errors.Is(err, ErrNoProfile) {
			writeError(w, http.StatusNotFound, "Doctor profile not found")
			return
		}
		h.logger.Error("failed to update profile", "error", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "failed to update profile")
		return
	}

	h.logger.Info("provider profile updated", "provider_id", provider.ID, "user_id", user.ID)
	writeJSON(w, http.StatusOK, provider)
}
