package llm

import (
	"context"
	"testing"
)

func TestNewGeminiClientRequiresAPIKey(t *testing.T) {
	if _, err := NewGeminiClient(context.Background(), "", "gemini-2.5-flash"); err == nil {
		t.Fatal("expected error for missing api key")
	}
	if _, err := NewGeminiClient(context.Background(), "   ", ""); err == nil {
		t.Fatal("expected error for blank api key")
	}
}
