package llm

import (
	"context"
	"time"

	"github.com/markdave123-py/Coursely/internal/core"
	"github.com/markdave123-py/Coursely/internal/logger"
)

// LoggingProvider logs latency and sizes of every model call.
type LoggingProvider struct {
	inner core.LLMProvider
	log   *logger.Logger
}

func WithLogging(inner core.LLMProvider, log *logger.Logger) *LoggingProvider {
	if log == nil {
		log = logger.Nop()
	}
	return &LoggingProvider{inner: inner, log: log}
}

func (p *LoggingProvider) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	start := time.Now()
	out, err := p.inner.Generate(ctx, systemPrompt, userPrompt)
	elapsed := time.Since(start)
	if err != nil {
		p.log.Error("llm call failed", "duration", elapsed, "prompt_chars", len(userPrompt), "error", err)
		return "", err
	}
	p.log.Info("llm call", "duration", elapsed, "prompt_chars", len(userPrompt), "reply_chars", len(out))
	return out, nil
}
