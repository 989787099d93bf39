package services

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/markdave123-py/Coursely/internal/core"
	"github.com/markdave123-py/Coursely/internal/core/apperr"
	"github.com/markdave123-py/Coursely/internal/models"
)

// TestResultInput is the client-supplied part of a test result.
type TestResultInput struct {
	CourseID       string   `json:"course_id"`
	Score          int      `json:"score"`
	TotalQuestions int      `json:"total_questions"`
	Percentage     *float64 `json:"percentage,omitempty"`
}

type ProgressService struct {
	db  core.DbClient
	now func() time.Time
}

func NewProgressService(db core.DbClient) *ProgressService {
	return &ProgressService{db: db, now: time.Now}
}

// Record stores the latest result of userEmail for a course, replacing any
// earlier one. A missing percentage is derived from the score.
func (s *ProgressService) Record(ctx context.Context, userEmail string, in TestResultInput) (*models.TestResult, error) {
	const op = "progress.record"

	if strings.TrimSpace(userEmail) == "" {
		return nil, apperr.Unauthorized(op, "token carries no email")
	}
	if strings.TrimSpace(in.CourseID) == "" {
		return nil, apperr.InvalidRequest(op, "course_id is required")
	}
	if in.TotalQuestions <= 0 || in.Score < 0 || in.Score > in.TotalQuestions {
		return nil, apperr.InvalidRequest(op, "score must be between 0 and total_questions")
	}

	pct := math.Round(float64(in.Score)*10000/float64(in.TotalQuestions)) / 100
	if in.Percentage != nil {
		if *in.Percentage < 0 || *in.Percentage > 100 {
			return nil, apperr.InvalidRequest(op, "percentage must be between 0 and 100")
		}
		pct = *in.Percentage
	}

	result := &models.TestResult{
		UserEmail:      strings.ToLower(strings.TrimSpace(userEmail)),
		CourseID:       strings.TrimSpace(in.CourseID),
		Score:          in.Score,
		TotalQuestions: in.TotalQuestions,
		Percentage:     pct,
		CompletedAt:    s.now().UTC(),
	}
	if err := s.db.UpsertTestResult(ctx, result); err != nil {
		return nil, apperr.Upstream(op, err)
	}
	return result, nil
}
