package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/markdave123-py/Coursely/internal/api/response"
	"github.com/markdave123-py/Coursely/internal/core/apperr"
	"github.com/markdave123-py/Coursely/internal/logger"
	"github.com/markdave123-py/Coursely/internal/models"
)

type ContentProvider interface {
	GetOrGenerate(ctx context.Context, courseID string, force bool) (models.CourseContent, error)
}

type ContentHandler struct {
	content ContentProvider
	log     *logger.Logger
}

func NewContentHandler(content ContentProvider, log *logger.Logger) *ContentHandler {
	return &ContentHandler{content: content, log: log}
}

// GetCourseContent serves GET /api/course-content?course_id=&force_regenerate=
func (h *ContentHandler) GetCourseContent(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	courseID := strings.TrimSpace(q.Get("course_id"))
	if courseID == "" {
		response.Error(w, r, h.log, apperr.InvalidRequest("content", "course_id is required"))
		return
	}

	force := false
	if v := q.Get("force_regenerate"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			response.Error(w, r, h.log, apperr.InvalidRequest("content", "force_regenerate must be true or false"))
			return
		}
		force = b
	}

	content, err := h.content.GetOrGenerate(r.Context(), courseID, force)
	if err != nil {
		response.Error(w, r, h.log, err)
		return
	}
	response.JSON(w, http.StatusOK, content)
}
