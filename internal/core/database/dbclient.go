package db

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/markdave123-py/Coursely/internal/models"
)

// Column codecs for the JSONB cache columns. A NULL column decodes to the
// zero value; legacy rows hold the lesson as a JSON string.

func encodeLesson(l models.StructuredLesson) (any, error) {
	if l.IsEmpty() {
		return nil, nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("encode lesson: %w", err)
	}
	return string(b), nil
}

func encodeQuestions(qs []models.Question) (any, error) {
	if len(qs) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(qs)
	if err != nil {
		return nil, fmt.Errorf("encode questions: %w", err)
	}
	return string(b), nil
}

func decodeLesson(raw []byte) (models.StructuredLesson, error) {
	var l models.StructuredLesson
	if len(raw) == 0 {
		return l, nil
	}
	if err := json.Unmarshal(raw, &l); err != nil {
		return models.StructuredLesson{}, fmt.Errorf("decode cached_content: %w", err)
	}
	return l, nil
}

func decodeQuestions(raw []byte) ([]models.Question, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var qs []models.Question
	if err := json.Unmarshal(raw, &qs); err != nil {
		return nil, fmt.Errorf("decode cached_questions: %w", err)
	}
	return qs, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
