// Package httpapi exposes the video resolver as a JSON HTTP API.
package httpapi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/anatolykoptev/go_ytools/internal/engine"
)

// ServiceName is reported by the health endpoint.
const ServiceName = "go_ytools"

// VideoService is the resolver surface the handlers depend on.
type VideoService interface {
	FetchMetadata(ctx context.Context, rawURL string) (engine.VideoMetadata, error)
	FetchCaptions(ctx context.Context, rawURL string, languages []string) (string, error)
	FetchTimestamps(ctx context.Context, rawURL string, languages []string) ([]string, error)
}

// Config is the listener-side configuration passed in at startup.
type Config struct {
	CORS         CORSConfig
	MaxBodyBytes int64         // 0 = 1 MiB
	Metrics      func() string // nil = /metrics not mounted
}

type Server struct {
	svc VideoService
	cfg Config
}

func NewServer(svc VideoService, cfg Config) *Server {
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 1 << 20
	}
	return &Server{svc: svc, cfg: cfg}
}

// Router builds the chi router with all routes and middleware.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(corsMiddleware(s.cfg.CORS))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogMiddleware)
	r.Use(middleware.Recoverer)

	r.Get("/", s.HandleRoot)
	r.Get("/docs", s.HandleDocs)
	r.Get("/docs/openapi.yaml", s.HandleOpenAPI)
	r.Get("/health", s.HandleHealth)
	if s.cfg.Metrics != nil {
		r.Get("/metrics", s.HandleMetrics)
	}

	r.Group(func(r chi.Router) {
		r.Use(bodySizeLimitMiddleware(s.cfg.MaxBodyBytes))
		r.Post("/video-data", s.HandleVideoData)
		r.Post("/video-captions", s.HandleVideoCaptions)
		r.Post("/video-timestamps", s.HandleVideoTimestamps)
	})

	return r
}
