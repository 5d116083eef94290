package search

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/docnearby/docnearby/pkg/logging"
)

const emptyResultsMessage = "No doctors found in your area. Try adjusting your search criteria or expanding your search radius."

// Handler serves the nearby-provider search endpoint.
type Handler struct {
	aggregator *Aggregator
	reranker   *Reranker
	radiusKm   float64
	logger     *logging.Logger
}

// NewHandler wires the search endpoint. reranker may be nil when no language
// model is configured.
func NewHandler(aggregator *Aggregator, reranker *Reranker, radiusKm float64, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{aggregator: aggregator, reranker: reranker, radiusKm: radiusKm, logger: logger}
}

// wireRecord is the external shape of one search result. Fields the remote
// sources cannot supply are null rather than zero-valued.
type wireRecord struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Specialty   string   `json:"specialty"`
	Address     string   `json:"address"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	Rating      float64  `json:"rating"`
	IsVerified  bool     `json:"is_verified"`
	Role        *string  `json:"role"`
	PhoneNumber *string  `json:"phone_number"`
	Distance    *float64 `json:"distance"`
	Source      string   `json:"source"`
	ClinicName  *string  `json:"clinic_name"`
	Website     *string  `json:"website"`
}

type searchResponse struct {
	Results       []wireRecord `json:"results"`
	Count         int          `json:"count"`
	VerifiedCount int          `json:"verified_count"`
	GoogleCount   int          `json:"google_count"`
	Message       string       `json:"message"`
}

type emptyResponse struct {
	Results []wireRecord `json:"results"`
	Message string       `json:"message"`
}

// NearbyDoctors handles GET requests for providers near a point.
func (h *Handler) NearbyDoctors(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()

	lat, err := strconv.ParseFloat(qs.Get("latitude"), 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid latitude or longitude provided", err.Error())
		return
	}
	lng, err := strconv.ParseFloat(qs.Get("longitude"), 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid latitude or longitude provided", err.Error())
		return
	}

	includeRemote := true
	if v := qs.Get("include_web_results"); v != "" {
		includeRemote = strings.EqualFold(v, "true")
	}

	query := Query{
		Latitude:  lat,
		Longitude: lng,
		Specialty: qs.Get("specialty"),
		RadiusKm:  h.radiusKm,
	}

	result, err := h.aggregator.Search(r.Context(), query, includeRemote)
	if err != nil {
		h.logger.Error("nearby search failed", "error", err)
		writeError(w, http.StatusInternalServerError, "An error occurred while fetching doctors", err.Error())
		return
	}

	records := result.Records
	if symptoms := splitSymptoms(qs.Get("symptoms")); len(symptoms) > 0 && h.reranker != nil {
		records = h.reranker.Rerank(r.Context(), records, symptoms)
	}

	if len(records) == 0 {
		writeJSON(w, http.StatusOK, emptyResponse{
			Results: []wireRecord{},
			Message: emptyResultsMessage,
		})
		return
	}

	out := make([]wireRecord, 0, len(records))
	for _, rec := range records {
		out = append(out, toWire(rec))
	}
	writeJSON(w, http.StatusOK, searchResponse{
		Results:       out,
		Count:         len(records),
		VerifiedCount: result.VerifiedCount,
		GoogleCount:   result.RemoteCount,
		Message:       fmt.Sprintf("Found %d healthcare providers near you", len(records)),
	})
}

func toWire(rec Record) wireRecord {
	wr := wireRecord{
		ID:          rec.ID,
		Name:        rec.Name,
		Specialty:   rec.Specialty,
		Address:     rec.Address,
		Latitude:    rec.Latitude,
		Longitude:   rec.Longitude,
		Rating:      rec.Rating,
		IsVerified:  rec.IsVerified,
		Source:      rec.Source.Wire(),
		PhoneNumber: optString(rec.PhoneNumber),
		Website:     optString(rec.Website),
	}
	if rec.Rankable() {
		d := rec.DistanceKm
		wr.Distance = &d
	}
	if rec.Source == SourcePlatform {
		role := "doctor"
		wr.Role = &role
		wr.ClinicName = optString(rec.ClinicName)
	}
	return wr
}

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func splitSymptoms(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, map[string]string{"error": message, "details": details})
}
