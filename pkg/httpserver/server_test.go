package httpserver_test

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/docval/pkg/httpserver"
)

func TestServer_Run(t *testing.T) {
	t.Parallel()

	t.Run("serves until the context is cancelled", func(t *testing.T) {
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)

		srv := httpserver.New(httpserver.Config{ShutdownTimeout: time.Second},
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, "ok")
			}),
			httpserver.WithListener(ln),
		)

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- srv.Run(ctx) }()

		require.Eventually(t, func() bool {
			resp, err := http.Get("http://" + ln.Addr().String())
			if err != nil {
				return false
			}
			defer resp.Body.Close()
			body, _ := io.ReadAll(resp.Body)
			return resp.StatusCode == http.StatusOK && string(body) == "ok"
		}, 2*time.Second, 10*time.Millisecond)

		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(3 * time.Second):
			t.Fatal("server did not stop")
		}
	})

	t.Run("reports listen failures", func(t *testing.T) {
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)
		t.Cleanup(func() { _ = ln.Close() })

		srv := httpserver.New(httpserver.Config{Addr: ln.Addr().String()}, nil)
		err = srv.Run(context.Background())
		assert.ErrorIs(t, err, httpserver.ErrStart)
	})

	t.Run("refuses to run twice", func(t *testing.T) {
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)

		srv := httpserver.New(httpserver.Config{}, nil, httpserver.WithListener(ln))
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- srv.Run(ctx) }()

		require.Eventually(t, func() bool {
			resp, err := http.Get("http://" + ln.Addr().String())
			if err != nil {
				return false
			}
			_ = resp.Body.Close()
			return true
		}, 2*time.Second, 10*time.Millisecond)

		assert.ErrorIs(t, srv.Run(ctx), httpserver.ErrAlreadyRunning)

		cancel()
		assert.NoError(t, <-done)
	})
}

func TestHealthHandlers(t *testing.T) {
	t.Parallel()

	t.Run("liveness", func(t *testing.T) {
		rec := httptest.NewRecorder()
		httpserver.LivenessHandler()(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ALIVE", rec.Body.String())
	})

	t.Run("ready when every check passes", func(t *testing.T) {
		ok := func(context.Context) error { return nil }
		rec := httptest.NewRecorder()
		httpserver.ReadinessHandler(nil, time.Second, ok, nil, ok)(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "READY", rec.Body.String())
	})

	t.Run("not ready when a check fails", func(t *testing.T) {
		failing := func(context.Context) error { return errors.New("redis down") }
		rec := httptest.NewRecorder()
		httpserver.ReadinessHandler(nil, time.Second, failing)(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, "NOT_READY", rec.Body.String())
	})

	t.Run("checks see a deadline", func(t *testing.T) {
		var hasDeadline bool
		check := func(ctx context.Context) error {
			_, hasDeadline = ctx.Deadline()
			return nil
		}
		rec := httptest.NewRecorder()
		httpserver.ReadinessHandler(nil, time.Second, check)(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

		assert.True(t, hasDeadline)
	})
}
