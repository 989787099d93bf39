package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/markdave123-py/Coursely/internal/config"
	"github.com/markdave123-py/Coursely/internal/core"
	"github.com/markdave123-py/Coursely/internal/models"
)

var _ core.DbClient = (*DatabaseClient)(nil)

type DatabaseClient struct {
	db *sql.DB
}

func NewDatabaseClient(ctx context.Context, cfg *config.Config) (*DatabaseClient, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database client configuration is nil")
	}
	dsn, err := buildDSN(cfg.DatabaseURL, cfg.SslCertPath)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetConnMaxIdleTime(10 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	if err := EnsureBootstrapped(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bootstrap: %w", err)
	}

	return &DatabaseClient{db: db}, nil
}

// buildDSN appends certificate verification to the URL when a CA bundle is
// configured and leaves it untouched otherwise.
func buildDSN(databaseURL, sslCertPath string) (string, error) {
	if databaseURL == "" {
		return "", fmt.Errorf("DATABASE_URL is empty")
	}
	if sslCertPath == "" {
		return databaseURL, nil
	}
	if _, err := os.Stat(sslCertPath); err != nil {
		return "", fmt.Errorf("ssl cert not accessible at %q: %w", sslCertPath, err)
	}

	u, err := url.Parse(databaseURL)
	if err != nil {
		return "", fmt.Errorf("invalid DATABASE_URL: %w", err)
	}
	q := u.Query()
	q.Set("sslmode", "verify-ca")
	q.Set("sslrootcert", sslCertPath)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (c *DatabaseClient) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// Courses

func (c *DatabaseClient) GetCourse(ctx context.Context, courseID string) (*models.CourseRef, error) {
	const q = `
		SELECT course_id, title, doc_id, mime_type, storage_path,
		       cached_content, cached_questions, last_updated
		FROM courses WHERE course_id = $1
	`
	var (
		ref                      models.CourseRef
		docID, mimeType, path    sql.NullString
		contentRaw, questionsRaw []byte
		lastUpdated              sql.NullTime
	)
	err := c.db.QueryRowContext(ctx, q, courseID).Scan(
		&ref.CourseID, &ref.Title, &docID, &mimeType, &path,
		&contentRaw, &questionsRaw, &lastUpdated,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get course %s: %w", courseID, err)
	}

	ref.Document = models.DocumentRef{FileID: docID.String, MimeType: mimeType.String, StoragePath: path.String}
	if ref.CachedContent, err = decodeLesson(contentRaw); err != nil {
		return nil, err
	}
	if ref.CachedQuestions, err = decodeQuestions(questionsRaw); err != nil {
		return nil, err
	}
	if lastUpdated.Valid {
		t := lastUpdated.Time
		ref.LastUpdated = &t
	}
	return &ref, nil
}

func (c *DatabaseClient) ListCourses(ctx context.Context) ([]models.Course, error) {
	const q = `SELECT course_id, title FROM courses ORDER BY course_id ASC`
	rows, err := c.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	defer rows.Close()

	out := []models.Course{}
	for rows.Next() {
		var course models.Course
		if err := rows.Scan(&course.ID, &course.Title); err != nil {
			return nil, err
		}
		out = append(out, course)
	}
	return out, rows.Err()
}

// UpsertCourse writes the catalogue columns and leaves the cache alone.
func (c *DatabaseClient) UpsertCourse(ctx context.Context, course *models.CourseRef) error {
	if course == nil {
		return errors.New("nil course")
	}
	const q = `
		INSERT INTO courses (course_id, title, doc_id, mime_type, storage_path)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (course_id) DO UPDATE SET
			title = EXCLUDED.title,
			doc_id = EXCLUDED.doc_id,
			mime_type = EXCLUDED.mime_type,
			storage_path = EXCLUDED.storage_path
	`
	_, err := c.db.ExecContext(ctx, q,
		course.CourseID, course.Title,
		nullString(course.Document.FileID), nullString(course.Document.MimeType), nullString(course.Document.StoragePath),
	)
	if err != nil {
		return fmt.Errorf("upsert course %s: %w", course.CourseID, err)
	}
	return nil
}

func (c *DatabaseClient) UpdateCourseContent(ctx context.Context, courseID string, lesson models.StructuredLesson, questions []models.Question, updatedAt time.Time) error {
	content, err := encodeLesson(lesson)
	if err != nil {
		return err
	}
	qs, err := encodeQuestions(questions)
	if err != nil {
		return err
	}

	const q = `
		UPDATE courses
		SET cached_content = $2::jsonb, cached_questions = $3::jsonb, last_updated = $4
		WHERE course_id = $1
	`
	res, err := c.db.ExecContext(ctx, q, courseID, content, qs, updatedAt)
	if err != nil {
		return fmt.Errorf("update course content %s: %w", courseID, err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("course not found: %s", courseID)
	}
	return nil
}

// Progress

func (c *DatabaseClient) UpsertTestResult(ctx context.Context, r *models.TestResult) error {
	if r == nil {
		return errors.New("nil test result")
	}
	const q = `
		INSERT INTO user_progress (user_email, course_id, score, total_questions, percentage, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_email, course_id) DO UPDATE SET
			score = EXCLUDED.score,
			total_questions = EXCLUDED.total_questions,
			percentage = EXCLUDED.percentage,
			completed_at = EXCLUDED.completed_at
	`
	_, err := c.db.ExecContext(ctx, q,
		r.UserEmail, r.CourseID, r.Score, r.TotalQuestions, r.Percentage, r.CompletedAt)
	if err != nil {
		return fmt.Errorf("upsert test result: %w", err)
	}
	return nil
}
