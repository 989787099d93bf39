package llm

import (
	"context"
	"fmt"

	"github.com/markdave123-py/Coursely/internal/config"
	"github.com/markdave123-py/Coursely/internal/core"
	"github.com/markdave123-py/Coursely/internal/logger"
)

// NewProvider builds the provider selected by LLM_PROVIDER, wrapped with
// request logging.
func NewProvider(ctx context.Context, cfg *config.Config, log *logger.Logger) (core.LLMProvider, error) {
	var (
		p     core.LLMProvider
		model string
		err   error
	)
	switch cfg.LLMProvider {
	case "gemini", "":
		model = cfg.GenModel
		p, err = NewGeminiLLM(ctx, cfg.AIAPIKey, cfg.GenModel, cfg.LLMMaxTokens)
	case "vertex":
		model = cfg.VertexModel
		p, err = NewVertexLLM(ctx, cfg.VertexProject, cfg.VertexLocation, cfg.VertexModel, cfg.LLMMaxTokens)
	case "openai":
		model = cfg.OpenAIModel
		p, err = NewOpenAILLM(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel, cfg.LLMMaxTokens)
	case "anthropic":
		model = cfg.AnthropicModel
		p, err = NewAnthropicLLM(cfg.AnthropicAPIKey, cfg.AnthropicModel, cfg.LLMMaxTokens)
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.LLMProvider)
	}
	if err != nil {
		return nil, err
	}
	return WithLogging(p, log.With("llm_provider", cfg.LLMProvider, "model", model)), nil
}
