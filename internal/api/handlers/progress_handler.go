package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	middleware "github.com/markdave123-py/Coursely/internal/api/middlewares"
	"github.com/markdave123-py/Coursely/internal/api/response"
	"github.com/markdave123-py/Coursely/internal/core/apperr"
	"github.com/markdave123-py/Coursely/internal/logger"
	"github.com/markdave123-py/Coursely/internal/models"
	"github.com/markdave123-py/Coursely/internal/services"
)

type ResultRecorder interface {
	Record(ctx context.Context, userEmail string, in services.TestResultInput) (*models.TestResult, error)
}

type ProgressHandler struct {
	progress ResultRecorder
	log      *logger.Logger
}

func NewProgressHandler(progress ResultRecorder, log *logger.Logger) *ProgressHandler {
	return &ProgressHandler{progress: progress, log: log}
}

// SaveTestResult serves POST /api/test-results behind the JWT middleware.
func (h *ProgressHandler) SaveTestResult(w http.ResponseWriter, r *http.Request) {
	email, ok := middleware.EmailFromContext(r.Context())
	if !ok {
		response.Error(w, r, h.log, apperr.Unauthorized("progress", "unauthorized"))
		return
	}

	var in services.TestResultInput
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.Error(w, r, h.log, apperr.InvalidRequest("progress", "invalid request body"))
		return
	}

	result, err := h.progress.Record(r.Context(), email, in)
	if err != nil {
		response.Error(w, r, h.log, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]any{
		"message": "result saved",
		"result":  result,
	})
}
