package services

import (
	"context"
	"strings"

	"github.com/markdave123-py/Coursely/internal/core"
	"github.com/markdave123-py/Coursely/internal/core/apperr"
)

// AssistantService answers questions against a course document. It reads
// the registry but never the content cache.
type AssistantService struct {
	locator   *Locator
	extractor core.TextExtractor
	responder core.QAResponder
}

func NewAssistantService(locator *Locator, extractor core.TextExtractor, responder core.QAResponder) *AssistantService {
	return &AssistantService{locator: locator, extractor: extractor, responder: responder}
}

func (s *AssistantService) Ask(ctx context.Context, courseID, question string) (string, error) {
	if strings.TrimSpace(courseID) == "" || strings.TrimSpace(question) == "" {
		return "", apperr.InvalidRequest("assistant.ask", "course_id and question are required")
	}

	doc, err := s.locator.Resolve(ctx, courseID)
	if err != nil {
		return "", err
	}
	text, err := s.extractor.Extract(ctx, doc)
	if err != nil {
		return "", err
	}
	return s.responder.Answer(ctx, text, question)
}
