package response

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/markdave123-py/Coursely/internal/core/apperr"
	"github.com/markdave123-py/Coursely/internal/logger"
)

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error maps err to a status code and writes {"error": "..."}. Server-side
// failures are logged with the request id. When the request's own deadline
// has passed nothing is written; the timeout middleware answers 504.
func Error(w http.ResponseWriter, r *http.Request, log *logger.Logger, err error) {
	if errors.Is(r.Context().Err(), context.DeadlineExceeded) {
		if log != nil {
			log.Warn("request timed out",
				"request_id", middleware.GetReqID(r.Context()),
				"path", r.URL.Path,
				"error", err,
			)
		}
		return
	}
	status := apperr.HTTPStatus(err)
	if status >= http.StatusInternalServerError && log != nil {
		log.Error("request failed",
			"request_id", middleware.GetReqID(r.Context()),
			"path", r.URL.Path,
			"kind", apperr.KindOf(err).String(),
			"error", err,
		)
	}
	JSON(w, status, map[string]string{"error": message(err)})
}

func message(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "request timed out"
	}
	var e *apperr.Error
	if errors.As(err, &e) {
		return err.Error()
	}
	return "internal server error"
}
