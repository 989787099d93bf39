package response

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/markdave123-py/Coursely/internal/core/apperr"
	"github.com/markdave123-py/Coursely/internal/logger"
)

func TestError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{"not found", apperr.NotFound("locator.lookup", "course %s not found", "X"), http.StatusNotFound, `{"error":"locator.lookup: course X not found"}`},
		{"bad request", apperr.InvalidRequest("content", "course_id is required"), http.StatusBadRequest, `{"error":"content: course_id is required"}`},
		{"opaque error", errors.New("pq: password authentication failed"), http.StatusInternalServerError, `{"error":"internal server error"}`},
		{"generation deadline", fmt.Errorf("extract: %w", context.DeadlineExceeded), http.StatusGatewayTimeout, `{"error":"request timed out"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			Error(rec, httptest.NewRequest(http.MethodGet, "/api/x", nil), logger.Nop(), tt.err)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.JSONEq(t, tt.body, rec.Body.String())
		})
	}
}

func TestError_RequestDeadlineLeavesResponseToMiddleware(t *testing.T) {
	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/api/course-content", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	Error(rec, req, logger.Nop(), ctx.Err())

	assert.False(t, rec.Flushed)
	assert.Empty(t, rec.Header().Get("Content-Type"))
	assert.Zero(t, rec.Body.Len())
}
