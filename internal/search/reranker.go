package search

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/docnearby/docnearby/internal/llm"
	"github.com/docnearby/docnearby/pkg/logging"
)

const rerankPromptTemplate = `A patient reports the following symptoms: %s

Below is a numbered list of healthcare providers, ordered by distance.
Reorder them so the providers most relevant to the symptoms come first.
Respond with the reordered list only, one provider per line, keeping the
provider names exactly as written.

%s`

// Reranker asks a language model to reorder search results by relevance to
// the patient's symptoms. It is strictly best-effort: any model fault leaves
// the distance ordering untouched.
type Reranker struct {
	client  llm.Client
	timeout time.Duration
	logger  *logging.Logger
	metrics *Metrics
}

// NewReranker builds a reranker. client may be nil, in which case every call
// is a no-op.
func NewReranker(client llm.Client, timeout time.Duration, logger *logging.Logger, metrics *Metrics) *Reranker {
	if logger == nil {
		logger = logging.Default()
	}
	return &Reranker{client: client, timeout: timeout, logger: logger, metrics: metrics}
}

// Rerank reorders records by symptom relevance. The returned slice is always
// a permutation of the input: every record appears exactly once.
func (r *Reranker) Rerank(ctx context.Context, records []Record, symptoms []string) []Record {
	if r.client == nil || len(symptoms) == 0 || len(records) < 2 {
		r.metrics.ObserveRerank("skipped")
		return records
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var list strings.Builder
	for i, rec := range records {
		fmt.Fprintf(&list, "%d. %s (%s)\n", i+1, rec.Name, rec.Specialty)
	}
	prompt := fmt.Sprintf(rerankPromptTemplate, strings.Join(symptoms, ", "), list.String())

	reply, err := r.client.Generate(ctx, llm.Request{Prompt: prompt, Temperature: 0.2})
	if err != nil {
		r.logger.Warn("rerank failed, keeping distance order", "error", err)
		r.metrics.ObserveRerank("fallback")
		return records
	}

	r.metrics.ObserveRerank("applied")
	return reorder(records, reply)
}

// reorder maps the model's reply back onto records by name substring. Each
// reply line claims the first not-yet-placed record whose name it contains;
// unclaimed records keep their relative order at the tail.
func reorder(records []Record, reply string) []Record {
	placed := make([]bool, len(records))
	out := make([]Record, 0, len(records))

	for _, line := range strings.Split(reply, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		for i, rec := range records {
			if placed[i] || rec.Name == "" {
				continue
			}
			if strings.Contains(line, rec.Name) {
				out = append(out, rec)
				placed[i] = true
				break
			}
		}
	}
	for i, rec := range records {
		if !placed[i] {
			out = append(out, rec)
		}
	}
	return out
}
