package lesson

import (
	"context"
	"errors"
	"strings"

	"github.com/markdave123-py/Coursely/internal/core"
	"github.com/markdave123-py/Coursely/internal/core/apperr"
	"github.com/markdave123-py/Coursely/internal/logger"
	"github.com/markdave123-py/Coursely/internal/models"
)

// Generator turns extracted document text into a lesson and a quiz.
type Generator struct {
	llm core.LLMProvider
	log *logger.Logger
}

func NewGenerator(llm core.LLMProvider, log *logger.Logger) *Generator {
	if log == nil {
		log = logger.Nop()
	}
	return &Generator{llm: llm, log: log.With("component", "LessonGenerator")}
}

// Generate makes exactly one model call. The reply is never retried.
func (g *Generator) Generate(ctx context.Context, text string) (models.CourseContent, error) {
	const op = "lesson.generate"

	if strings.TrimSpace(text) == "" {
		return models.CourseContent{}, apperr.UnreadableDocument(op, errors.New("document text is empty"))
	}

	system, user := buildPrompts(text)
	raw, err := g.llm.Generate(ctx, system, user)
	if err != nil {
		return models.CourseContent{}, apperr.Upstream(op, err)
	}

	content, err := Parse(raw)
	if err != nil {
		g.log.Warn("model reply rejected", "reply_chars", len(raw), "error", err)
		return models.CourseContent{}, err
	}
	if n := len(content.Summary.Slides); n < MinSlides || n > MaxSlides {
		g.log.Warn("slide count outside requested range", "slides", n)
	}
	return content, nil
}
