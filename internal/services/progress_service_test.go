package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markdave123-py/Coursely/internal/core/apperr"
)

func TestProgressService_Record(t *testing.T) {
	reg := newFakeRegistry()
	svc := NewProgressService(reg)
	svc.now = func() time.Time { return fixedNow }

	res, err := svc.Record(context.Background(), "Ana@Example.com", TestResultInput{CourseID: "INS-101", Score: 2, TotalQuestions: 3})
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", res.UserEmail)
	assert.Equal(t, 66.67, res.Percentage)
	assert.Equal(t, fixedNow, res.CompletedAt)

	pct := 100.0
	_, err = svc.Record(context.Background(), "ana@example.com", TestResultInput{CourseID: "INS-101", Score: 5, TotalQuestions: 5, Percentage: &pct})
	require.NoError(t, err)

	require.Len(t, reg.results, 1)
	assert.Equal(t, 5, reg.results[0].Score)
	assert.Equal(t, 100.0, reg.results[0].Percentage)
}

func TestProgressService_Validation(t *testing.T) {
	svc := NewProgressService(newFakeRegistry())
	ctx := context.Background()
	bad := 120.0

	tests := []struct {
		name  string
		email string
		in    TestResultInput
		kind  apperr.Kind
	}{
		{"no email", "", TestResultInput{CourseID: "INS-101", Score: 1, TotalQuestions: 5}, apperr.KindUnauthorized},
		{"no course", "a@b.c", TestResultInput{Score: 1, TotalQuestions: 5}, apperr.KindInvalidRequest},
		{"score above total", "a@b.c", TestResultInput{CourseID: "INS-101", Score: 6, TotalQuestions: 5}, apperr.KindInvalidRequest},
		{"zero total", "a@b.c", TestResultInput{CourseID: "INS-101"}, apperr.KindInvalidRequest},
		{"percentage out of range", "a@b.c", TestResultInput{CourseID: "INS-101", Score: 1, TotalQuestions: 5, Percentage: &bad}, apperr.KindInvalidRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Record(ctx, tt.email, tt.in)
			assert.True(t, apperr.Is(err, tt.kind), err)
		})
	}
}

func TestProgressService_StorageError(t *testing.T) {
	reg := newFakeRegistry()
	reg.writeErr = errBoom
	_, err := NewProgressService(reg).Record(context.Background(), "a@b.c", TestResultInput{CourseID: "INS-101", Score: 1, TotalQuestions: 5})
	assert.True(t, apperr.Is(err, apperr.KindUpstream))
}
