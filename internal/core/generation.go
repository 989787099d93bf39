package core

import (
	"context"

	"github.com/markdave123-py/Coursely/internal/models"
)

// LessonGenerator turns document text into a lesson and a quiz.
type LessonGenerator interface {
	Generate(ctx context.Context, text string) (models.CourseContent, error)
}

// QAResponder answers a question strictly from the supplied document text.
type QAResponder interface {
	Answer(ctx context.Context, text, question string) (string, error)
}
