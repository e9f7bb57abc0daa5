package cmd

import (
	"strings"
	"testing"

	"github.com/ethanolivertroy/ctrlmap/internal/llm"
)

func TestAssessBanner(t *testing.T) {
	cfg := llm.Config{Provider: "ollama", Model: "llama3.2"}

	got := assessBanner(cfg)
	if !strings.Contains(got, "ollama") {
		t.Errorf("assessBanner() = %q, missing provider", got)
	}
	if !strings.Contains(got, "llama3.2") {
		t.Errorf("assessBanner() = %q, missing model name", got)
	}
}
