package api

import (
	"log/slog"
	"net/http"

	"github.com/go-json-experiment/json"

	"github.com/dmitrymomot/docval/pkg/logger"
)

// ErrorDetail is the body of every error response, wrapped as
// {"error": {...}}.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error ErrorDetail `json:"error"`
}

// handlerFunc is an http.HandlerFunc that reports failures as errors.
type handlerFunc func(w http.ResponseWriter, r *http.Request) error

func (s *Server) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h(w, r); err != nil {
			s.renderError(w, r, err)
		}
	}
}

func (s *Server) renderError(w http.ResponseWriter, r *http.Request, err error) {
	info := classifyError(err)

	level := slog.LevelDebug
	if info.Status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	s.logger.LogAttrs(r.Context(), level, "request failed",
		logger.Error(err),
		slog.Int("status", info.Status),
		slog.String("code", info.Code),
		logger.Path(r.URL.Path),
	)

	writeJSON(w, s.logger, r, info.Status, errorResponse{
		Error: ErrorDetail{Code: info.Code, Message: info.Message},
	})
}

func writeJSON(w http.ResponseWriter, log *slog.Logger, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.MarshalWrite(w, v, json.Deterministic(true)); err != nil {
		log.WarnContext(r.Context(), "failed to write response", logger.Error(err))
	}
}
