package core

import (
	"context"
	"time"

	"github.com/markdave123-py/Coursely/internal/models"
)

// DbClient defines all persistence operations the services need.
// It abstracts Postgres so higher layers never depend on a specific DB.
type DbClient interface {
	// GetCourse returns (nil, nil) when no row matches.
	GetCourse(ctx context.Context, courseID string) (*models.CourseRef, error)
	ListCourses(ctx context.Context) ([]models.Course, error)
	UpsertCourse(ctx context.Context, course *models.CourseRef) error

	// UpdateCourseContent overwrites lesson, questions and last_updated in one statement.
	UpdateCourseContent(ctx context.Context, courseID string, lesson models.StructuredLesson, questions []models.Question, updatedAt time.Time) error

	UpsertTestResult(ctx context.Context, result *models.TestResult) error

	Close() error
}

// ObjectClient reads objects from S3, GCS or any bucket-style storage.
type ObjectClient interface {
	GetFile(ctx context.Context, bucket, key string) ([]byte, error)
}

// StorageReader downloads a document by its registry storage path.
type StorageReader interface {
	Download(ctx context.Context, path string) ([]byte, error)
}

// DriveClient is the cloud-drive side of the document source.
type DriveClient interface {
	ExportText(ctx context.Context, fileID string) (string, error)
	Download(ctx context.Context, fileID string) ([]byte, error)
	MimeType(ctx context.Context, fileID string) (string, error)
}
