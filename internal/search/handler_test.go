package search

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docnearby/docnearby/internal/providers"
	"github.com/docnearby/docnearby/pkg/logging"
)

func newTestHandler(t *testing.T, local *LocalAdapter, remotes []Adapter) *Handler {
	t.Helper()
	agg := NewAggregator(local, remotes, 3, logging.Default(), nil)
	reranker := NewReranker(nil, time.Second, logging.Default(), nil)
	return NewHandler(agg, reranker, 10, logging.Default())
}

func doSearch(t *testing.T, h *Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	h.NearbyDoctors(rec, req)
	return rec
}

func TestNearbyDoctorsSuccess(t *testing.T) {
	local := seededLocal(t, providers.Provider{
		Name:        "Dr. Near",
		Specialty:   "cardiology",
		Latitude:    ptr(10.0),
		Longitude:   ptr(10.0),
		PhoneNumber: "+1 555 0100",
		ClinicName:  "Near Clinic",
	})
	remote := &stubAdapter{name: "maps_api", records: []Record{
		{ID: "p1", Name: "Far Facility", Latitude: ptr(10.5), Longitude: ptr(10.5), Source: SourceMapsAPI},
	}}
	h := newTestHandler(t, local, []Adapter{remote})

	rec := doSearch(t, h, "/api/doctors/nearby?latitude=10&longitude=10")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Results       []map[string]any `json:"results"`
		Count         int              `json:"count"`
		VerifiedCount int              `json:"verified_count"`
		GoogleCount   int              `json:"google_count"`
		Message       string           `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.Equal(t, 2, body.Count)
	assert.Equal(t, 1, body.VerifiedCount)
	assert.Equal(t, 1, body.GoogleCount)
	assert.Equal(t, "Found 2 healthcare providers near you", body.Message)
	require.Len(t, body.Results, 2)

	first := body.Results[0]
	assert.Equal(t, "Dr. Near", first["name"])
	assert.Equal(t, "platform", first["source"])
	assert.Equal(t, "doctor", first["role"])
	assert.Equal(t, "Near Clinic", first["clinic_name"])
	assert.Equal(t, true, first["is_verified"])
	assert.InDelta(t, 0.0, first["distance"].(float64), 1e-9)

	second := body.Results[1]
	assert.Equal(t, "google_places", second["source"])
	assert.Nil(t, second["role"])
	assert.Nil(t, second["clinic_name"])
	assert.Equal(t, false, second["is_verified"])
}

func TestNearbyDoctorsEmpty(t *testing.T) {
	h := newTestHandler(t, seededLocal(t), nil)

	rec := doSearch(t, h, "/api/doctors/nearby?latitude=10&longitude=10")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, emptyResultsMessage, body["message"])
	assert.Empty(t, body["results"])
	assert.NotContains(t, body, "count")
}

func TestNearbyDoctorsBadCoordinates(t *testing.T) {
	h := newTestHandler(t, seededLocal(t), nil)

	for _, target := range []string{
		"/api/doctors/nearby?latitude=abc&longitude=10",
		"/api/doctors/nearby?latitude=10&longitude=",
		"/api/doctors/nearby",
	} {
		rec := doSearch(t, h, target)
		require.Equal(t, http.StatusBadRequest, rec.Code, target)

		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "Invalid latitude or longitude provided", body["error"])
		assert.NotEmpty(t, body["details"])
	}
}

func TestNearbyDoctorsStoreFailure(t *testing.T) {
	h := newTestHandler(t, NewLocalAdapter(&failingRepo{}), nil)

	rec := doSearch(t, h, "/api/doctors/nearby?latitude=10&longitude=10")
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "An error occurred while fetching doctors", body["error"])
	assert.NotEmpty(t, body["details"])
}

func TestNearbyDoctorsExcludesRemoteOnRequest(t *testing.T) {
	local := seededLocal(t, providers.Provider{
		Name: "Dr. Near", Latitude: ptr(10.0), Longitude: ptr(10.0),
	})
	remote := &stubAdapter{name: "maps_api", records: []Record{
		{Name: "Remote", Latitude: ptr(10.0), Longitude: ptr(10.0), Source: SourceMapsAPI},
	}}
	h := newTestHandler(t, local, []Adapter{remote})

	rec := doSearch(t, h, "/api/doctors/nearby?latitude=10&longitude=10&include_web_results=false")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Count         int `json:"count"`
		VerifiedCount int `json:"verified_count"`
		GoogleCount   int `json:"google_count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Count)
	assert.Equal(t, 1, body.VerifiedCount)
	assert.Equal(t, 0, body.GoogleCount)
}
