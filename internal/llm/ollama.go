package llm

import (
	"context"
	"fmt"
	"iter"
	"net/http"
	"net/url"

	"github.com/ollama/ollama/api"
	"google.golang.org/adk/model"
	"google.golang.org/genai"
)

// OllamaModel implements the ADK model.LLM interface using Ollama.
// The assessor only needs plain text generation, so tool calling is not
// supported by this provider.
type OllamaModel struct {
	client    *api.Client
	modelName string
}

// NewOllamaModel creates a new Ollama model
func NewOllamaModel(ctx context.Context, cfg Config) (model.LLM, error) {
	ollamaURL := cfg.OllamaURL
	if ollamaURL == "" {
		ollamaURL = "http://localhost:11434"
	}

	modelName := cfg.Model
	if modelName == "" {
		modelName = "llama3.2"
	}

	u, err := url.Parse(ollamaURL)
	if err != nil {
		return nil, fmt.Errorf("invalid OLLAMA_URL: %w", err)
	}

	return &OllamaModel{
		client:    api.NewClient(u, http.DefaultClient),
		modelName: modelName,
	}, nil
}

// Name returns the model name
func (m *OllamaModel) Name() string {
	return m.modelName
}

// GenerateContent implements the ADK model.LLM interface
func (m *OllamaModel) GenerateContent(ctx context.Context, req *model.LLMRequest, stream bool) iter.Seq2[*model.LLMResponse, error] {
	return func(yield func(*model.LLMResponse, error) bool) {
		messages := convertToOllamaMessages(req.Contents)

		chatReq := &api.ChatRequest{
			Model:    m.modelName,
			Messages: messages,
			Stream:   &stream,
		}

		if stream {
			err := m.client.Chat(ctx, chatReq, func(resp api.ChatResponse) error {
				if resp.Message.Content == "" && !resp.Done {
					return nil
				}
				llmResp := &model.LLMResponse{
					Content: &genai.Content{
						Role: "model",
						Parts: []*genai.Part{
							genai.NewPartFromText(resp.Message.Content),
						},
					},
					Partial:      !resp.Done,
					TurnComplete: resp.Done,
				}
				if !yield(llmResp, nil) {
					return fmt.Errorf("iteration stopped")
				}
				return nil
			})
			if err != nil {
				yield(nil, fmt.Errorf("Ollama chat error: %w", err))
			}
			return
		}

		var finalResp api.ChatResponse
		err := m.client.Chat(ctx, chatReq, func(resp api.ChatResponse) error {
			finalResp = resp
			return nil
		})
		if err != nil {
			yield(nil, fmt.Errorf("Ollama chat error: %w", err))
			return
		}

		yield(&model.LLMResponse{
			Content: &genai.Content{
				Role: "model",
				Parts: []*genai.Part{
					genai.NewPartFromText(finalResp.Message.Content),
				},
			},
			TurnComplete: true,
		}, nil)
	}
}

// convertToOllamaMessages converts genai.Content to Ollama messages
func convertToOllamaMessages(contents []*genai.Content) []api.Message {
	var messages []api.Message

	for _, content := range contents {
		role := content.Role
		if role == "model" {
			role = "assistant"
		}

		var text string
		for _, part := range content.Parts {
			text += part.Text
		}

		messages = append(messages, api.Message{
			Role:    role,
			Content: text,
		})
	}

	return messages
}
