package lesson

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"github.com/markdave123-py/Coursely/internal/core/apperr"
	"github.com/markdave123-py/Coursely/internal/models"
)

type reply struct {
	Summary   []models.Slide    `json:"summary"`
	Questions []models.Question `json:"questions"`
}

// Parse turns a raw model reply into lesson content. A single leading fence
// (bare or language-tagged) and a single trailing fence are removed; any
// other surrounding text makes the reply malformed.
func Parse(raw string) (models.CourseContent, error) {
	const op = "lesson.parse"

	body := stripCodeFences(raw)
	if body == "" {
		return models.CourseContent{}, apperr.MalformedModelOutput(op, fmt.Errorf("empty reply"))
	}

	var doc any
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		return models.CourseContent{}, apperr.MalformedModelOutput(op, fmt.Errorf("invalid JSON: %w", err))
	}
	if err := validateShape(doc); err != nil {
		return models.CourseContent{}, apperr.MalformedModelOutput(op, fmt.Errorf("unexpected shape: %w", err))
	}

	var r reply
	if err := json.Unmarshal([]byte(body), &r); err != nil {
		return models.CourseContent{}, apperr.MalformedModelOutput(op, err)
	}
	for i, q := range r.Questions {
		if err := q.Validate(); err != nil {
			return models.CourseContent{}, apperr.MalformedModelOutput(op, fmt.Errorf("question %d: %w", i+1, err))
		}
	}

	return models.CourseContent{
		Summary:   models.SlideLesson(r.Summary...),
		Questions: r.Questions,
	}, nil
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if rest, ok := strings.CutPrefix(s, "```"); ok {
		// optional language tag, e.g. ```json
		end := strings.IndexFunc(rest, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if end < 0 {
			end = len(rest)
		}
		s = strings.TrimSpace(rest[end:])
	}
	if rest, ok := strings.CutSuffix(s, "```"); ok {
		s = strings.TrimSpace(rest)
	}
	return s
}
