package storyteller

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

const DefaultModel = "gemini-1.5-pro"

// Model produces free text for a prompt.
type Model interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// GenAIModel calls the Gemini API through the Google GenAI SDK.
type GenAIModel struct {
	client *genai.Client
	model  string
}

func NewGenAIModel(ctx context.Context, apiKey, model string) (*GenAIModel, error) {
	if apiKey == "" {
		return nil, errors.New("GenAI API key is required")
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &GenAIModel{client: client, model: model}, nil
}

func (m *GenAIModel) GenerateText(ctx context.Context, prompt string) (string, error) {
	resp, err := m.client.Models.GenerateContent(ctx, m.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	return resp.Text(), nil
}

// Unavailable is the Model used when no API key is configured. Every call fails.
type Unavailable struct{}

func (Unavailable) GenerateText(context.Context, string) (string, error) {
	return "", errors.New("no AI model configured")
}
