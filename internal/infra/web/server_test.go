//go:build !integration

package web

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"tripreel/internal/config"
)

// newTestLogger creates a silent logger for tests.
func newTestLogger() *zerolog.Logger {
	logger := zerolog.New(nil)
	return &logger
}

func newTestServer(stats *mockStatsUC, videos *mockVideoJobUC) (*Server, *http.ServeMux) {
	srv := NewServer(stats, videos, &config.AdminConfig{
		APIKey:     "test-admin-key",
		JWTSecret:  "test-admin-jwt-secret-please-change",
		SessionTTL: time.Minute,
	}, newTestLogger())
	mux := http.NewServeMux()
	srv.RegisterRoutes(mux)
	return srv, mux
}

func TestAuthMiddleware(t *testing.T) {
	// A simple handler that we expect to be called on successful authentication.
	dummyHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	server, _ := newTestServer(&mockStatsUC{}, &mockVideoJobUC{})
	protected := server.authMiddleware(dummyHandler)

	t.Run("should reject a request with no credentials", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil)
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("should accept the raw API key as a bearer token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil)
		req.Header.Set("Authorization", "Bearer test-admin-key")
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
	})

	t.Run("should reject a wrong bearer token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil)
		req.Header.Set("Authorization", "Bearer wrong-key")
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("should accept a session cookie minted at login", func(t *testing.T) {
		_, mux := newTestServer(&mockStatsUC{}, &mockVideoJobUC{})

		body, _ := json.Marshal(loginRequest{APIKey: "test-admin-key"})
		loginReq := httptest.NewRequest(http.MethodPost, "/api/v1/login", bytes.NewReader(body))
		loginRec := httptest.NewRecorder()
		mux.ServeHTTP(loginRec, loginReq)
		if loginRec.Code != http.StatusOK {
			t.Fatalf("login status = %d, want 200 (%s)", loginRec.Code, loginRec.Body.String())
		}
		cookies := loginRec.Result().Cookies()
		if len(cookies) == 0 {
			t.Fatal("login did not set a session cookie")
		}

		req := httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil)
		for _, c := range cookies {
			req.AddCookie(c)
		}
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
	})

	t.Run("should reject the wrong API key at login", func(t *testing.T) {
		_, mux := newTestServer(&mockStatsUC{}, &mockVideoJobUC{})

		body, _ := json.Marshal(loginRequest{APIKey: "guess"})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/login", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		if rec.Code != http.StatusForbidden {
			t.Fatalf("status = %d, want 403", rec.Code)
		}
	})
}

func TestJobsRouter(t *testing.T) {
	t.Run("should route a requeue POST to the requeue handler", func(t *testing.T) {
		videos := &mockVideoJobUC{}
		_, mux := newTestServer(&mockStatsUC{}, videos)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs/job-1/requeue", nil)
		req.Header.Set("Authorization", "Bearer test-admin-key")
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusAccepted {
			t.Fatalf("status = %d, want 202 (%s)", rec.Code, rec.Body.String())
		}
		if len(videos.Requeued) != 1 || videos.Requeued[0] != "job-1" {
			t.Fatalf("requeued = %v", videos.Requeued)
		}
	})

	t.Run("should reject a requeue with the wrong method", func(t *testing.T) {
		_, mux := newTestServer(&mockStatsUC{}, &mockVideoJobUC{})

		req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs/job-1/requeue", nil)
		req.Header.Set("Authorization", "Bearer test-admin-key")
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusMethodNotAllowed {
			t.Fatalf("status = %d, want 405", rec.Code)
		}
	})

	t.Run("should reject a missing job id", func(t *testing.T) {
		_, mux := newTestServer(&mockStatsUC{}, &mockVideoJobUC{})

		req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs/", nil)
		req.Header.Set("Authorization", "Bearer test-admin-key")
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})
}
