// Package llm wraps the external reasoning-model API used for symptom triage
// and relevance ranking.
package llm

import "context"

// Request is a single-turn generation request.
type Request struct {
	Prompt      string
	Temperature float32
	MaxTokens   int32
}

// Client generates free-text completions. Implementations must honor ctx
// cancellation; callers attach per-call timeouts.
type Client interface {
	Generate(ctx context.Context, req Request) (string, error)
}
