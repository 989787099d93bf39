package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/markdave123-py/Coursely/internal/core"
)

var _ core.LLMProvider = (*VertexLLM)(nil)

// VertexLLM calls Gemini models through Vertex AI with application default
// credentials.
type VertexLLM struct {
	client    *genai.Client
	model     string
	maxTokens int32
}

func NewVertexLLM(ctx context.Context, project, location, model string, maxTokens int) (*VertexLLM, error) {
	if project == "" {
		return nil, fmt.Errorf("vertex project is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  project,
		Location: location,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		return nil, fmt.Errorf("create vertex client: %w", err)
	}
	return &VertexLLM{client: client, model: model, maxTokens: int32(maxTokens)}, nil
}

func (v *VertexLLM) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	cfg := &genai.GenerateContentConfig{}
	if v.maxTokens > 0 {
		cfg.MaxOutputTokens = v.maxTokens
	}
	if systemPrompt != "" {
		cfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: systemPrompt}},
		}
	}

	contents := []*genai.Content{{
		Role:  "user",
		Parts: []*genai.Part{{Text: userPrompt}},
	}}

	res, err := v.client.Models.GenerateContent(ctx, v.model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("vertex generate: %w", err)
	}
	return res.Text(), nil
}
