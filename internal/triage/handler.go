package triage

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/docnearby/docnearby/internal/identity"
	"github.com/docnearby/docnearby/pkg/logging"
)

// Handler serves the symptom analysis endpoint.
type Handler struct {
	analyzer *Analyzer
	logger   *logging.Logger
}

func NewHandler(analyzer *Analyzer, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{analyzer: analyzer, logger: logger}
}

type analyzeRequest struct {
	Symptoms []string `json:"symptoms"`
}

// AnalyzeSymptoms handles POST requests with a symptom list. Authentication
// is enforced by middleware, but the user must still be on the context.
func (h *Handler) AnalyzeSymptoms(w http.ResponseWriter, r *http.Request) {
	if _, ok := identity.UserFromContext(r.Context()); !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Authentication required."})
		return
	}

	if !h.analyzer.Available() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error": "AI analysis service not available due to configuration error.",
		})
		return
	}

	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body."})
		return
	}

	symptoms := make([]string, 0, len(req.Symptoms))
	for _, s := range req.Symptoms {
		if s = strings.TrimSpace(s); s != "" {
			symptoms = append(symptoms, s)
		}
	}
	if len(symptoms) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "At least one symptom is required.",
		})
		return
	}

	analysis, raw, err := h.analyzer.Analyze(r.Context(), symptoms)
	if err != nil {
		if errors.Is(err, ErrBadModelOutput) {
			h.logger.Warn("triage model output rejected", "error", err)
			writeJSON(w, http.StatusBadGateway, map[string]string{
				"error":           "AI analysis result could not be processed.",
				"raw_ai_response": raw,
			})
			return
		}
		h.logger.Error("triage analysis failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error": "AI analysis service failed: " + err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, analysis)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
