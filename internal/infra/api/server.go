package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"tripreel/internal/config"
	"tripreel/internal/infra/api/apiv1"
	red "tripreel/internal/infra/redis"
	"tripreel/internal/infra/storage"
	"tripreel/internal/usecase"
)

// Server is the public HTTP surface: the versioned JSON API plus static
// serving of uploaded photos and finished videos.
type Server struct {
	cfg     *config.APIConfig
	apiV1   *apiv1.Server
	limiter *red.RateLimiter
	layout  *storage.Layout
	log     *zerolog.Logger
	server  *http.Server
}

func NewServer(
	cfg *config.APIConfig,
	destinations usecase.DestinationUseCase,
	itineraries usecase.ItineraryUseCase,
	videos usecase.VideoJobUseCase,
	limiter *red.RateLimiter,
	layout *storage.Layout,
	logger *zerolog.Logger,
) *Server {
	return &Server{
		cfg:     cfg,
		apiV1:   apiv1.NewServer(destinations, itineraries, videos, layout, logger),
		limiter: limiter,
		layout:  layout,
		log:     logger,
	}
}

// Handler builds the routed handler. Exposed separately from Start so tests
// can drive it with httptest.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	// Rate limiting guards job creation only; status polling stays cheap.
	rl := RateLimit(s.limiter, s.cfg.RateLimit, s.cfg.RateLimitWindow, s.log)
	r.Use(func(next http.Handler) http.Handler {
		limited := rl(next)
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if req.Method == http.MethodPost && req.URL.Path == "/api/v1/videos" {
				limited.ServeHTTP(w, req)
				return
			}
			next.ServeHTTP(w, req)
		})
	})

	apiv1.RegisterAPIV1(r, s.apiV1)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	fileServer(r, "/uploads", http.Dir(s.layout.UploadsDir()))
	fileServer(r, "/videos", http.Dir(s.layout.VideosDir()))

	h := Chain(r,
		TraceID(s.log),
		RequestLog(s.log),
		Recover(s.log),
	)
	return h
}

func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.log.Info().Int("port", s.cfg.Port).Msg("public API listening")
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// fileServer serves static files under prefix without directory listings.
func fileServer(r chi.Router, prefix string, root http.FileSystem) {
	fs := http.StripPrefix(prefix, http.FileServer(root))
	r.Get(prefix+"/*", func(w http.ResponseWriter, req *http.Request) {
		if strings.HasSuffix(req.URL.Path, "/") {
			http.NotFound(w, req)
			return
		}
		fs.ServeHTTP(w, req)
	})
}
