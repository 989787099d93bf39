package app

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markdave123-py/Coursely/internal/api/handlers"
	"github.com/markdave123-py/Coursely/internal/config"
	"github.com/markdave123-py/Coursely/internal/core/apperr"
	"github.com/markdave123-py/Coursely/internal/core/extraction"
	"github.com/markdave123-py/Coursely/internal/core/lesson"
	"github.com/markdave123-py/Coursely/internal/core/llm"
	"github.com/markdave123-py/Coursely/internal/logger"
	"github.com/markdave123-py/Coursely/internal/models"
	"github.com/markdave123-py/Coursely/internal/services"
	"github.com/markdave123-py/Coursely/internal/testutil"
)

// memRegistry is an in-memory courses table.
type memRegistry struct {
	mu      sync.Mutex
	courses map[string]models.CourseRef
}

func (m *memRegistry) GetCourse(_ context.Context, id string) (*models.CourseRef, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.courses[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (m *memRegistry) ListCourses(context.Context) ([]models.Course, error) { return nil, nil }

func (m *memRegistry) UpsertCourse(_ context.Context, c *models.CourseRef) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.courses[c.CourseID] = *c
	return nil
}

func (m *memRegistry) UpdateCourseContent(_ context.Context, id string, l models.StructuredLesson, qs []models.Question, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.courses[id]
	if !ok {
		return fmt.Errorf("no course %s", id)
	}
	c.CachedContent, c.CachedQuestions, c.LastUpdated = l, qs, &at
	m.courses[id] = c
	return nil
}

func (m *memRegistry) UpsertTestResult(context.Context, *models.TestResult) error { return nil }

func (m *memRegistry) Close() error { return nil }

type memStorage struct {
	mu    sync.Mutex
	files map[string][]byte
	calls int
}

func (s *memStorage) Download(_ context.Context, path string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	data, ok := s.files[path]
	if !ok {
		return nil, apperr.NotFound("storage", "object %q", path)
	}
	return data, nil
}

func ins101Reply() string {
	qs := make([]string, 5)
	for i := range qs {
		qs[i] = fmt.Sprintf(`{"question":"Q%d?","options":["Fire","Flood","Hail"],"correct_option_index":0}`, i+1)
	}
	return "```json\n" + `{"summary":[` +
		`{"title":"Scope","html_content":"<p>Fire and theft.</p>"},` +
		`{"title":"Exclusions","html_content":"<p>Floods.</p>"},` +
		`{"title":"Claims","html_content":"<p>Within 30 days.</p>"}` +
		`],"questions":[` + strings.Join(qs, ",") + "]}\n```"
}

func TestCourseContent_PDFCourseEndToEnd(t *testing.T) {
	old := time.Now().Add(-30 * 24 * time.Hour)
	reg := &memRegistry{courses: map[string]models.CourseRef{
		"INS-101": {
			CourseID:        "INS-101",
			Title:           "Home insurance",
			Document:        models.DocumentRef{StoragePath: "docs/ins-101.pdf"},
			CachedContent:   models.StructuredLesson{Legacy: "<h2>Outdated</h2>"},
			CachedQuestions: []models.Question{{Question: "Old?", Options: []string{"a", "b"}}},
			LastUpdated:     &old,
		},
	}}
	storage := &memStorage{files: map[string][]byte{
		"docs/ins-101.pdf": testutil.PDF("Policy covers fire and theft."),
	}}
	model := llm.NewMockProvider(llm.Reply(ins101Reply()))

	log := logger.Nop()
	locator := services.NewLocator(reg)
	extractor := extraction.NewExtractor(nil, storage, extraction.ModeMetadata, log)
	content := services.NewContentService(locator, reg, extractor, lesson.NewGenerator(model, log), nil, log)

	stubs := stubServices{}
	router := NewRouter(&config.Config{RequestTimeout: time.Minute}, log, Routes{
		Content:   handlers.NewContentHandler(content, log),
		Assistant: handlers.NewAssistantHandler(stubs, log),
		Courses:   handlers.NewCourseHandler(stubs, log),
		Progress:  handlers.NewProgressHandler(stubs, log),
	})

	start := time.Now()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/course-content?course_id=INS-101&force_regenerate=true", nil))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var body struct {
		Summary   []models.Slide    `json:"summary"`
		Questions []models.Question `json:"questions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Summary, 3)
	assert.Equal(t, "Scope", body.Summary[0].Title)
	require.Len(t, body.Questions, 5)
	for _, q := range body.Questions {
		assert.NoError(t, q.Validate())
	}
	assert.Contains(t, model.LastCall().User, "Policy covers fire and theft.")

	stored, err := reg.GetCourse(context.Background(), "INS-101")
	require.NoError(t, err)
	require.NotNil(t, stored.LastUpdated)
	assert.False(t, stored.LastUpdated.Before(start.UTC().Truncate(time.Second)))
	assert.Len(t, stored.CachedContent.Slides, 3)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/course-content?course_id=missing", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, 1, storage.calls)
	assert.Equal(t, 1, model.CallCount())
}
