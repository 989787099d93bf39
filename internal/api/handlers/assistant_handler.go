package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/markdave123-py/Coursely/internal/api/response"
	"github.com/markdave123-py/Coursely/internal/core/apperr"
	"github.com/markdave123-py/Coursely/internal/logger"
)

type Asker interface {
	Ask(ctx context.Context, courseID, question string) (string, error)
}

type AssistantHandler struct {
	assistant Asker
	log       *logger.Logger
}

func NewAssistantHandler(assistant Asker, log *logger.Logger) *AssistantHandler {
	return &AssistantHandler{assistant: assistant, log: log}
}

type AskRequest struct {
	CourseID string `json:"course_id"`
	Question string `json:"question"`
}

// Ask serves GET (query parameters) and POST (JSON body) /api/ask-assistant.
func (h *AssistantHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req AskRequest
	if r.Method == http.MethodPost {
		r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, r, h.log, apperr.InvalidRequest("assistant", "invalid request body"))
			return
		}
	} else {
		req.CourseID = r.URL.Query().Get("course_id")
		req.Question = r.URL.Query().Get("question")
	}

	answer, err := h.assistant.Ask(r.Context(), req.CourseID, req.Question)
	if err != nil {
		response.Error(w, r, h.log, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]string{"answer": answer})
}
