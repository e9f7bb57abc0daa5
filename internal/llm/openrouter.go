package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"net/http"

	"google.golang.org/adk/model"
	"google.golang.org/genai"
)

const (
	openRouterBaseURL      = "https://openrouter.ai/api/v1"
	defaultOpenRouterModel = "anthropic/claude-sonnet-4"
)

// OpenRouterModel implements the ADK model.LLM interface using OpenRouter.
// Responses are always fetched unstreamed; the assessor consumes complete
// answers only.
type OpenRouterModel struct {
	apiKey    string
	modelName string
	client    *http.Client
}

// NewOpenRouterModel creates a new OpenRouter model
func NewOpenRouterModel(ctx context.Context, cfg Config) (model.LLM, error) {
	if cfg.OpenRouterAPIKey == "" {
		return nil, fmt.Errorf("OPENROUTER_API_KEY is required for OpenRouter provider")
	}

	modelName := cfg.Model
	if modelName == "" {
		modelName = defaultOpenRouterModel
	}

	return &OpenRouterModel{
		apiKey:    cfg.OpenRouterAPIKey,
		modelName: modelName,
		client:    &http.Client{},
	}, nil
}

// Name returns the model name
func (m *OpenRouterModel) Name() string {
	return m.modelName
}

// OpenRouter API types (OpenAI-compatible)
type openRouterRequest struct {
	Model    string              `json:"model"`
	Messages []openRouterMessage `json:"messages"`
	Stream   bool                `json:"stream"`
}

type openRouterMessage struct {
	Role    string `json:"role"`
	Content string `json:"content,omitempty"`
}

type openRouterResponse struct {
	ID      string `json:"id"`
	Choices []struct {
		Index        int               `json:"index"`
		Message      openRouterMessage `json:"message"`
		FinishReason string            `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// GenerateContent implements the ADK model.LLM interface
func (m *OpenRouterModel) GenerateContent(ctx context.Context, req *model.LLMRequest, stream bool) iter.Seq2[*model.LLMResponse, error] {
	return func(yield func(*model.LLMResponse, error) bool) {
		orReq := openRouterRequest{
			Model:    m.modelName,
			Messages: m.convertMessages(req.Contents),
			Stream:   false,
		}

		reqBody, err := json.Marshal(orReq)
		if err != nil {
			yield(nil, fmt.Errorf("failed to marshal request: %w", err))
			return
		}

		httpReq, err := http.NewRequestWithContext(ctx, "POST", openRouterBaseURL+"/chat/completions", bytes.NewReader(reqBody))
		if err != nil {
			yield(nil, fmt.Errorf("failed to create request: %w", err))
			return
		}

		httpReq.Header.Set("Content-Type", "application/json")
		httpReq.Header.Set("Authorization", "Bearer "+m.apiKey)
		httpReq.Header.Set("HTTP-Referer", "https://github.com/ethanolivertroy/ctrlmap")
		httpReq.Header.Set("X-Title", "ctrlmap")

		resp, err := m.client.Do(httpReq)
		if err != nil {
			yield(nil, fmt.Errorf("OpenRouter request failed: %w", err))
			return
		}
		defer func() { _ = resp.Body.Close() }()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			yield(nil, fmt.Errorf("failed to read response: %w", err))
			return
		}

		var orResp openRouterResponse
		if err := json.Unmarshal(body, &orResp); err != nil {
			yield(nil, fmt.Errorf("failed to decode response: %w", err))
			return
		}
		if orResp.Error != nil {
			yield(nil, fmt.Errorf("OpenRouter error: %s", orResp.Error.Message))
			return
		}
		if len(orResp.Choices) == 0 {
			yield(nil, fmt.Errorf("OpenRouter returned no choices"))
			return
		}

		yield(&model.LLMResponse{
			Content: &genai.Content{
				Role: "model",
				Parts: []*genai.Part{
					genai.NewPartFromText(orResp.Choices[0].Message.Content),
				},
			},
			TurnComplete: true,
		}, nil)
	}
}

// convertMessages converts genai.Content to OpenRouter messages
func (m *OpenRouterModel) convertMessages(contents []*genai.Content) []openRouterMessage {
	var messages []openRouterMessage
	for _, content := range contents {
		role := content.Role
		if role == "model" {
			role = "assistant"
		}
		var text string
		for _, part := range content.Parts {
			text += part.Text
		}
		messages = append(messages, openRouterMessage{Role: role, Content: text})
	}
	return messages
}
