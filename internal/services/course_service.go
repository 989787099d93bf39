package services

import (
	"context"
	"fmt"

	"github.com/markdave123-py/Coursely/internal/core"
	"github.com/markdave123-py/Coursely/internal/core/apperr"
	"github.com/markdave123-py/Coursely/internal/core/sheets"
	"github.com/markdave123-py/Coursely/internal/logger"
	"github.com/markdave123-py/Coursely/internal/models"
)

// RowSource yields catalogue rows for a spreadsheet range.
type RowSource interface {
	Rows(ctx context.Context, rng string) ([][]string, error)
}

type CourseService struct {
	db  core.DbClient
	log *logger.Logger
}

func NewCourseService(db core.DbClient, log *logger.Logger) *CourseService {
	if log == nil {
		log = logger.Nop()
	}
	return &CourseService{db: db, log: log.With("service", "CourseService")}
}

func (s *CourseService) List(ctx context.Context) ([]models.Course, error) {
	courses, err := s.db.ListCourses(ctx)
	if err != nil {
		return nil, apperr.Upstream("courses.list", err)
	}
	return courses, nil
}

// SyncReport summarises one catalogue sync.
type SyncReport struct {
	Upserted int
	Skipped  []int
}

// Sync upserts every usable catalogue row. Cached content is kept.
func (s *CourseService) Sync(ctx context.Context, src RowSource, rng string) (SyncReport, error) {
	rows, err := src.Rows(ctx, rng)
	if err != nil {
		return SyncReport{}, err
	}

	courses, skipped := sheets.ParseCourses(rows)
	report := SyncReport{Skipped: skipped}
	for i := range courses {
		if err := s.db.UpsertCourse(ctx, &courses[i]); err != nil {
			return report, fmt.Errorf("sync course %s: %w", courses[i].CourseID, err)
		}
		report.Upserted++
	}

	s.log.Info("course catalogue synced", "range", rng, "upserted", report.Upserted, "skipped_rows", skipped)
	return report, nil
}
