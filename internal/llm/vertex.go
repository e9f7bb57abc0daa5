package llm

import (
	"context"
	"fmt"

	"google.golang.org/adk/model"
	"google.golang.org/adk/model/gemini"
	"google.golang.org/genai"
)

// NewVertexModel returns a control assessor backed by Vertex AI. It needs
// a project and location plus Application Default Credentials; there is no
// API-key path on this backend.
func NewVertexModel(ctx context.Context, cfg Config) (model.LLM, error) {
	if cfg.VertexProject == "" {
		return nil, fmt.Errorf("VERTEX_PROJECT is required for Vertex AI provider")
	}
	if cfg.VertexLocation == "" {
		return nil, fmt.Errorf("VERTEX_LOCATION is required for Vertex AI provider")
	}

	modelName := cfg.Model
	if modelName == "" {
		modelName = defaultGeminiModel
	}

	m, err := gemini.NewModel(ctx, modelName, &genai.ClientConfig{
		Project:  cfg.VertexProject,
		Location: cfg.VertexLocation,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating Vertex AI assessor: %w", err)
	}
	return m, nil
}
