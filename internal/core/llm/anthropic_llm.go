package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/markdave123-py/Coursely/internal/core"
)

var _ core.LLMProvider = (*AnthropicLLM)(nil)

type AnthropicLLM struct {
	client    *anthropic.Client
	model     string
	maxTokens int64
}

func NewAnthropicLLM(apiKey, model string, maxTokens int) (*AnthropicLLM, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic API key is required")
	}
	if maxTokens <= 0 {
		maxTokens = 4096
	}
	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &AnthropicLLM{client: &client, model: model, maxTokens: int64(maxTokens)}, nil
}

func (a *AnthropicLLM) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: a.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	}
	if systemPrompt != "" {
		params.System = []anthropic.TextBlockParam{{Text: systemPrompt}}
	}

	msg, err := a.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("anthropic generate: %w", err)
	}

	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("anthropic generate: no text content in response")
	}
	return b.String(), nil
}
