package web

import (
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"tripreel/internal/config"
	"tripreel/internal/usecase"
)

type Server struct {
	statsUC usecase.StatsUseCase
	videoUC usecase.VideoJobUseCase
	auth    *AuthManager
	apiKey  string
	log     *zerolog.Logger
}

func NewServer(
	statsUC usecase.StatsUseCase,
	videoUC usecase.VideoJobUseCase,
	cfg *config.AdminConfig,
	logger *zerolog.Logger,
) *Server {
	return &Server{
		statsUC: statsUC,
		videoUC: videoUC,
		auth:    NewAuthManager(cfg.JWTSecret, false, "", cfg.SessionTTL),
		apiKey:  cfg.APIKey,
		log:     logger,
	}
}

// RegisterRoutes sets up the routing for the admin API.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.Handle("/api/v1/login", loginHandler(s.auth, s.apiKey))
	mux.Handle("/api/v1/logout", logoutHandler(s.auth))

	// Everything below is behind the session middleware.
	mux.Handle("/api/v1/stats", s.authMiddleware(statsHandler(s.statsUC)))

	jobsRouter := s.authMiddleware(s.jobsRouter())
	mux.Handle("/api/v1/jobs/", jobsRouter)

	// Prometheus scrape endpoint. The admin port is not public, so this
	// stays outside the session middleware.
	mux.Handle("/metrics", promhttp.Handler())
}

// authMiddleware requires either a valid session JWT (header or cookie) or
// the raw admin API key as a bearer token for scripted access.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.apiKey == "" {
			s.log.Error().Msg("Admin API key is not configured")
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		if hdr := r.Header.Get("Authorization"); hdr != "" {
			parts := strings.SplitN(hdr, " ", 2)
			if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") && parts[1] == s.apiKey {
				next.ServeHTTP(w, r)
				return
			}
		}

		if _, err := s.auth.ParseFromRequest(r); err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// jobsRouter acts as a sub-router for /api/v1/jobs/{id} and
// /api/v1/jobs/{id}/requeue.
func (s *Server) jobsRouter() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, "/api/v1/jobs/")
		path = strings.TrimSuffix(path, "/")
		if path == "" {
			http.Error(w, "Job ID is required", http.StatusBadRequest)
			return
		}

		if id, ok := strings.CutSuffix(path, "/requeue"); ok {
			if r.Method != http.MethodPost {
				http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
				return
			}
			jobRequeueHandler(s.videoUC)(w, r, id)
			return
		}

		if strings.Contains(path, "/") {
			http.NotFound(w, r)
			return
		}
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		jobGetHandler(s.videoUC)(w, r, path)
	})
}
