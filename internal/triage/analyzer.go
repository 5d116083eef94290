package triage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/docnearby/docnearby/internal/llm"
	"github.com/docnearby/docnearby/pkg/logging"
)

// Disclaimer is appended to every analysis before it leaves the service.
const Disclaimer = "AI analysis is informational only. Always consult a qualified healthcare professional for diagnosis and treatment."

const promptTemplate = `Analyze the following patient symptoms and provide potential related medical conditions
and relevant medical specialties or keywords to search for nearby healthcare providers.

Symptoms List:
%s

Instructions:
1. List 2-3 potential medical conditions or issues these symptoms might indicate.
   - Use clear, non-alarming language
   - Avoid medical jargon
   - Focus on common conditions first

2. Generate a list of 3-5 relevant healthcare providers to consult, ordered by priority:
   - Start with most appropriate specialist
   - Include general practitioners when appropriate
   - Add urgent care/emergency if symptoms are severe

3. Provide a brief, reassuring summary that acknowledges the symptoms, suggests
   next steps, and emphasizes the importance of professional consultation.

Output the result ONLY as a valid JSON object with the following exact keys:
- "potential_conditions": ["Condition 1", "Condition 2", ...] (list of strings)
- "recommended_providers": ["Provider 1", "Provider 2", ...] (list of strings)
- "summary": "Brief, reassuring summary." (string)
- "urgency_level": "low" | "medium" | "high" (string)

JSON Output:
`

// jsonFenceRe strips a markdown code fence the model sometimes wraps its
// output in.
var jsonFenceRe = regexp.MustCompile("(?is)```json\\s*(.*?)\\s*```")

// ErrBadModelOutput marks a model reply that could not be parsed into a valid
// analysis. Callers surface these as upstream faults, not client errors.
var ErrBadModelOutput = errors.New("triage: model output is not a valid analysis")

// Analysis is the structured triage result returned to the patient.
type Analysis struct {
	PotentialConditions  []string `json:"potential_conditions"`
	RecommendedProviders []string `json:"recommended_providers"`
	Summary              string   `json:"summary"`
	UrgencyLevel         string   `json:"urgency_level"`
	Disclaimer           string   `json:"disclaimer"`
}

// Analyzer turns free-text symptoms into a structured analysis via a language
// model, with an optional cache in front of the model call.
type Analyzer struct {
	client  llm.Client
	cache   *Cache
	timeout time.Duration
	logger  *logging.Logger
}

// NewAnalyzer builds the triage analyzer. cache may be nil.
func NewAnalyzer(client llm.Client, cache *Cache, timeout time.Duration, logger *logging.Logger) *Analyzer {
	if logger == nil {
		logger = logging.Default()
	}
	return &Analyzer{client: client, cache: cache, timeout: timeout, logger: logger}
}

// Available reports whether a language model is configured.
func (a *Analyzer) Available() bool { return a != nil && a.client != nil }

// Analyze runs one triage request. The raw model reply is returned alongside
// any parse failure so callers can expose it for debugging.
func (a *Analyzer) Analyze(ctx context.Context, symptoms []string) (*Analysis, string, error) {
	if cached, ok := a.cache.Get(ctx, symptoms); ok {
		return cached, "", nil
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	var list strings.Builder
	for _, s := range symptoms {
		fmt.Fprintf(&list, "- %s\n", s)
	}
	prompt := fmt.Sprintf(promptTemplate, strings.TrimRight(list.String(), "\n"))

	raw, err := a.client.Generate(ctx, llm.Request{Prompt: prompt, Temperature: 0.4})
	if err != nil {
		return nil, "", fmt.Errorf("triage: model call: %w", err)
	}

	analysis, err := parseAnalysis(raw)
	if err != nil {
		return nil, raw, err
	}

	a.cache.Set(ctx, symptoms, analysis)
	return analysis, "", nil
}

// parseAnalysis validates the model's reply: fences stripped, all four keys
// present with the right types, urgency constrained to its vocabulary.
func parseAnalysis(raw string) (*Analysis, error) {
	cleaned := strings.TrimSpace(raw)
	if m := jsonFenceRe.FindStringSubmatch(cleaned); m != nil {
		cleaned = strings.TrimSpace(m[1])
	}

	var out Analysis
	if err := json.Unmarshal([]byte(cleaned), &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadModelOutput, err)
	}
	if out.PotentialConditions == nil || out.RecommendedProviders == nil || out.Summary == "" {
		return nil, fmt.Errorf("%w: missing required keys", ErrBadModelOutput)
	}
	switch out.UrgencyLevel {
	case "low", "medium", "high":
	default:
		return nil, fmt.Errorf("%w: urgency_level %q", ErrBadModelOutput, out.UrgencyLevel)
	}

	out.Disclaimer = Disclaimer
	return &out, nil
}
