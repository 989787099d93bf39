package core

import "context"

// LLMProvider sends a prompt to a generation model and returns its raw text reply.
type LLMProvider interface {
	Generate(ctx context.Context, systemPrompt string, userPrompt string) (string, error)
}
