package handlers

import (
	"context"
	"net/http"

	"github.com/markdave123-py/Coursely/internal/api/response"
	"github.com/markdave123-py/Coursely/internal/logger"
	"github.com/markdave123-py/Coursely/internal/models"
)

type CourseLister interface {
	List(ctx context.Context) ([]models.Course, error)
}

type CourseHandler struct {
	courses CourseLister
	log     *logger.Logger
}

func NewCourseHandler(courses CourseLister, log *logger.Logger) *CourseHandler {
	return &CourseHandler{courses: courses, log: log}
}

func (h *CourseHandler) ListCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := h.courses.List(r.Context())
	if err != nil {
		response.Error(w, r, h.log, err)
		return
	}
	response.JSON(w, http.StatusOK, courses)
}

func Health(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
