package triage

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docnearby/docnearby/internal/identity"
	"github.com/docnearby/docnearby/pkg/logging"
)

func analyzeReq(t *testing.T, body string, user *identity.User) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/symptoms/analyze", strings.NewReader(body))
	if user != nil {
		req = req.WithContext(identity.WithUser(req.Context(), *user))
	}
	return req
}

func patient() *identity.User {
	return &identity.User{ID: "user-1", Role: identity.RolePatient}
}

func TestAnalyzeSymptomsSuccess(t *testing.T) {
	a := NewAnalyzer(&fakeLLM{reply: validReply}, nil, 5*time.Second, logging.Default())
	h := NewHandler(a, logging.Default())

	rec := httptest.NewRecorder()
	h.AnalyzeSymptoms(rec, analyzeReq(t, `{"symptoms": ["fever", " cough "]}`, patient()))
	require.Equal(t, http.StatusOK, rec.Code)

	var body Analysis
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "low", body.UrgencyLevel)
	assert.Equal(t, Disclaimer, body.Disclaimer)
}

func TestAnalyzeSymptomsRequiresAuth(t *testing.T) {
	a := NewAnalyzer(&fakeLLM{reply: validReply}, nil, 5*time.Second, logging.Default())
	h := NewHandler(a, logging.Default())

	rec := httptest.NewRecorder()
	h.AnalyzeSymptoms(rec, analyzeReq(t, `{"symptoms": ["fever"]}`, nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAnalyzeSymptomsValidatesInput(t *testing.T) {
	a := NewAnalyzer(&fakeLLM{reply: validReply}, nil, 5*time.Second, logging.Default())
	h := NewHandler(a, logging.Default())

	for name, body := range map[string]string{
		"empty list":     `{"symptoms": []}`,
		"blank entries":  `{"symptoms": ["  ", ""]}`,
		"missing field":  `{}`,
		"malformed json": `{"symptoms": [`,
	} {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.AnalyzeSymptoms(rec, analyzeReq(t, body, patient()))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestAnalyzeSymptomsUnconfiguredModel(t *testing.T) {
	h := NewHandler(NewAnalyzer(nil, nil, 5*time.Second, logging.Default()), logging.Default())

	rec := httptest.NewRecorder()
	h.AnalyzeSymptoms(rec, analyzeReq(t, `{"symptoms": ["fever"]}`, patient()))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestAnalyzeSymptomsBadModelOutput(t *testing.T) {
	a := NewAnalyzer(&fakeLLM{reply: "not json at all"}, nil, 5*time.Second, logging.Default())
	h := NewHandler(a, logging.Default())

	rec := httptest.NewRecorder()
	h.AnalyzeSymptoms(rec, analyzeReq(t, `{"symptoms": ["fever"]}`, patient()))
	require.Equal(t, http.StatusBadGateway, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "not json at all", body["raw_ai_response"])
}

func TestAnalyzeSymptomsModelFailure(t *testing.T) {
	a := NewAnalyzer(&fakeLLM{err: errors.New("deadline exceeded")}, nil, 5*time.Second, logging.Default())
	h := NewHandler(a, logging.Default())

	rec := httptest.NewRecorder()
	h.AnalyzeSymptoms(rec, analyzeReq(t, `{"symptoms": ["fever"]}`, patient()))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
