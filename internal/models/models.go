package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// DocumentRef points at the source document of a course. Exactly one of
// FileID and StoragePath is expected to be set.
type DocumentRef struct {
	FileID      string `json:"file_id,omitempty"`      // cloud-drive file id
	MimeType    string `json:"mime_type,omitempty"`    // declared drive media type, if known
	StoragePath string `json:"storage_path,omitempty"` // s3://, gs://, https:// or bare key
}

func (r DocumentRef) IsZero() bool {
	return r.FileID == "" && r.StoragePath == ""
}

func (r DocumentRef) String() string {
	if r.FileID != "" {
		return "drive:" + r.FileID
	}
	return r.StoragePath
}

// CourseRef is one row of the courses registry.
type CourseRef struct {
	CourseID        string           `db:"course_id" json:"course_id"`
	Title           string           `db:"title" json:"title"`
	Document        DocumentRef      `json:"document"`
	CachedContent   StructuredLesson `db:"cached_content" json:"cached_content"`
	CachedQuestions []Question       `db:"cached_questions" json:"cached_questions"`
	LastUpdated     *time.Time       `db:"last_updated" json:"last_updated,omitempty"`
}

// HasCachedContent reports whether both a lesson and a non-empty question
// set are stored.
func (c *CourseRef) HasCachedContent() bool {
	return c != nil && !c.CachedContent.IsEmpty() && len(c.CachedQuestions) > 0
}

// Course is the listing projection of a registry row.
type Course struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type Slide struct {
	Title       string `json:"title"`
	HTMLContent string `json:"html_content"`
}

// StructuredLesson holds either the canonical slide sequence or the legacy
// single HTML summary. On the wire it is a JSON array or a JSON string.
type StructuredLesson struct {
	Slides []Slide
	Legacy string
}

func SlideLesson(slides ...Slide) StructuredLesson {
	return StructuredLesson{Slides: slides}
}

func (l StructuredLesson) IsEmpty() bool {
	return len(l.Slides) == 0 && l.Legacy == ""
}

func (l StructuredLesson) IsLegacy() bool {
	return len(l.Slides) == 0 && l.Legacy != ""
}

func (l StructuredLesson) MarshalJSON() ([]byte, error) {
	switch {
	case len(l.Slides) > 0:
		return json.Marshal(l.Slides)
	case l.Legacy != "":
		return json.Marshal(l.Legacy)
	default:
		return []byte("null"), nil
	}
}

func (l *StructuredLesson) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*l = StructuredLesson{}
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	switch data[0] {
	case '"':
		return json.Unmarshal(data, &l.Legacy)
	case '[':
		return json.Unmarshal(data, &l.Slides)
	default:
		return fmt.Errorf("lesson must be a string or an array of slides")
	}
}

type Question struct {
	Question           string   `json:"question"`
	Options            []string `json:"options"`
	CorrectOptionIndex int      `json:"correct_option_index"`
}

// Validate checks that exactly one listed option is marked correct.
func (q Question) Validate() error {
	if q.Question == "" {
		return fmt.Errorf("question text is empty")
	}
	if len(q.Options) < 2 {
		return fmt.Errorf("question %q has %d options, need at least 2", q.Question, len(q.Options))
	}
	if q.CorrectOptionIndex < 0 || q.CorrectOptionIndex >= len(q.Options) {
		return fmt.Errorf("question %q: correct_option_index %d out of range [0,%d)", q.Question, q.CorrectOptionIndex, len(q.Options))
	}
	return nil
}

// CourseContent is the payload served by the content endpoint.
type CourseContent struct {
	Summary   StructuredLesson `json:"summary"`
	Questions []Question       `json:"questions"`
}

// TestResult is a user's latest quiz score for a course.
type TestResult struct {
	UserEmail      string    `db:"user_email" json:"user_email"`
	CourseID       string    `db:"course_id" json:"course_id"`
	Score          int       `db:"score" json:"score"`
	TotalQuestions int       `db:"total_questions" json:"total_questions"`
	Percentage     float64   `db:"percentage" json:"percentage"`
	CompletedAt    time.Time `db:"completed_at" json:"completed_at"`
}
