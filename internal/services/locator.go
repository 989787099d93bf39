package services

import (
	"context"
	"strings"

	"github.com/markdave123-py/Coursely/internal/core"
	"github.com/markdave123-py/Coursely/internal/core/apperr"
	"github.com/markdave123-py/Coursely/internal/models"
)

// Locator resolves course ids against the courses registry.
type Locator struct {
	db core.DbClient
}

func NewLocator(db core.DbClient) *Locator {
	return &Locator{db: db}
}

// Lookup returns the registry row for courseID.
func (l *Locator) Lookup(ctx context.Context, courseID string) (*models.CourseRef, error) {
	const op = "locator.lookup"

	courseID = strings.TrimSpace(courseID)
	if courseID == "" {
		return nil, apperr.InvalidRequest(op, "course_id is required")
	}
	ref, err := l.db.GetCourse(ctx, courseID)
	if err != nil {
		return nil, apperr.Upstream(op, err)
	}
	if ref == nil {
		return nil, apperr.NotFound(op, "course %s not found", courseID)
	}
	return ref, nil
}

// Resolve returns the document reference of courseID. A row without a
// usable reference is reported the same way as a missing row.
func (l *Locator) Resolve(ctx context.Context, courseID string) (models.DocumentRef, error) {
	ref, err := l.Lookup(ctx, courseID)
	if err != nil {
		return models.DocumentRef{}, err
	}
	return documentOf(ref)
}

func documentOf(ref *models.CourseRef) (models.DocumentRef, error) {
	if ref.Document.IsZero() {
		return models.DocumentRef{}, apperr.NotFound("locator.resolve", "document for course %s not found", ref.CourseID)
	}
	return ref.Document, nil
}
