package httpserver

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/docval/pkg/logger"
)

// Check probes one dependency.
type Check func(ctx context.Context) error

// LivenessHandler always answers 200 "ALIVE".
func LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeStatus(w, http.StatusOK, "ALIVE")
	}
}

// ReadinessHandler runs every check within timeout. It answers 200 "READY"
// when all pass and 503 "NOT_READY" on the first failure.
func ReadinessHandler(log *slog.Logger, timeout time.Duration, checks ...Check) http.HandlerFunc {
	if log == nil {
		log = logger.Discard()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		for _, check := range checks {
			if check == nil {
				continue
			}
			if err := check(ctx); err != nil {
				log.WarnContext(ctx, "readiness check failed", logger.Error(err))
				writeStatus(w, http.StatusServiceUnavailable, "NOT_READY")
				return
			}
		}
		writeStatus(w, http.StatusOK, "READY")
	}
}

func writeStatus(w http.ResponseWriter, code int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(code)
	_, _ = w.Write([]byte(body))
}
