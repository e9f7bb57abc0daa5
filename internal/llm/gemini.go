package llm

import (
	"context"
	"fmt"

	"google.golang.org/adk/model"
	"google.golang.org/adk/model/gemini"
	"google.golang.org/genai"
)

// defaultGeminiModel is used by the gemini and vertex providers when
// LLM_MODEL is unset. The assessor issues short single-turn prompts, so a
// flash-tier model is enough.
const defaultGeminiModel = "gemini-2.0-flash"

// NewGeminiModel returns a control assessor backed by the Gemini API.
// Authentication is by API key only; for ADC-based access use the vertex
// provider instead.
func NewGeminiModel(ctx context.Context, cfg Config) (model.LLM, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required for Gemini provider")
	}

	modelName := cfg.Model
	if modelName == "" {
		modelName = defaultGeminiModel
	}

	m, err := gemini.NewModel(ctx, modelName, &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("creating Gemini assessor: %w", err)
	}
	return m, nil
}
