package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/markdave123-py/Coursely/internal/models"
)

type contentWrite struct {
	courseID  string
	lesson    models.StructuredLesson
	questions []models.Question
	at        time.Time
}

type fakeRegistry struct {
	mu       sync.Mutex
	courses  map[string]*models.CourseRef
	results  []models.TestResult
	writes   []contentWrite
	getErr   error
	writeErr error
}

func newFakeRegistry(courses ...models.CourseRef) *fakeRegistry {
	r := &fakeRegistry{courses: map[string]*models.CourseRef{}}
	for i := range courses {
		c := courses[i]
		r.courses[c.CourseID] = &c
	}
	return r
}

func (r *fakeRegistry) GetCourse(_ context.Context, id string) (*models.CourseRef, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return nil, r.getErr
	}
	c, ok := r.courses[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *fakeRegistry) ListCourses(context.Context) ([]models.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Course{}
	for _, c := range r.courses {
		out = append(out, models.Course{ID: c.CourseID, Title: c.Title})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeRegistry) UpsertCourse(_ context.Context, c *models.CourseRef) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.courses[c.CourseID]; ok {
		existing.Title = c.Title
		existing.Document = c.Document
		return nil
	}
	cp := *c
	r.courses[c.CourseID] = &cp
	return nil
}

func (r *fakeRegistry) UpdateCourseContent(_ context.Context, id string, l models.StructuredLesson, qs []models.Question, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.writeErr != nil {
		return r.writeErr
	}
	c, ok := r.courses[id]
	if !ok {
		return fmt.Errorf("course not found: %s", id)
	}
	c.CachedContent = l
	c.CachedQuestions = qs
	c.LastUpdated = &at
	r.writes = append(r.writes, contentWrite{courseID: id, lesson: l, questions: qs, at: at})
	return nil
}

func (r *fakeRegistry) UpsertTestResult(_ context.Context, res *models.TestResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.writeErr != nil {
		return r.writeErr
	}
	for i := range r.results {
		if r.results[i].UserEmail == res.UserEmail && r.results[i].CourseID == res.CourseID {
			r.results[i] = *res
			return nil
		}
	}
	r.results = append(r.results, *res)
	return nil
}

func (r *fakeRegistry) Close() error { return nil }

func (r *fakeRegistry) course(id string) models.CourseRef {
	r.mu.Lock()
	defer r.mu.Unlock()
	return *r.courses[id]
}

func (r *fakeRegistry) writeCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.writes)
}

type countingExtractor struct {
	mu        sync.Mutex
	text      string
	err       error
	calls     []models.DocumentRef
	deadlines []bool
	gate      chan struct{}
}

// Extract blocks on gate, if set, until it is closed or ctx ends.
func (e *countingExtractor) Extract(ctx context.Context, ref models.DocumentRef) (string, error) {
	_, hasDeadline := ctx.Deadline()
	e.mu.Lock()
	e.calls = append(e.calls, ref)
	e.deadlines = append(e.deadlines, hasDeadline)
	gate := e.gate
	e.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return e.text, e.err
}

func (e *countingExtractor) setGate(gate chan struct{}) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.gate = gate
}

func (e *countingExtractor) sawDeadline(call int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.deadlines[call]
}

func (e *countingExtractor) count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.calls)
}

const policyText = "Home policy INS-101 covers fire and theft. Floods are excluded. Claims are filed within 30 days."

func lessonReply(tag string) string {
	qs := make([]string, 5)
	for i := range qs {
		qs[i] = fmt.Sprintf(`{"question":"%s Q%d?","options":["a","b","c"],"correct_option_index":%d}`, tag, i+1, i%3)
	}
	return "```json\n" + `{"summary":[` +
		`{"title":"` + tag + ` scope","html_content":"<p>Fire and theft.</p>"},` +
		`{"title":"Exclusions","html_content":"<p>Floods.</p>"},` +
		`{"title":"Claims","html_content":"<p>30 days.</p>"}` +
		`],"questions":[` + strings.Join(qs, ",") + "]}\n```"
}

var errBoom = errors.New("boom")

func sampleQuestions() []models.Question {
	qs := make([]models.Question, 5)
	for i := range qs {
		qs[i] = models.Question{Question: fmt.Sprintf("Cached Q%d?", i+1), Options: []string{"a", "b", "c"}, CorrectOptionIndex: 0}
	}
	return qs
}
