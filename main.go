// go_ytools serves YouTube metadata, captions and timestamps over HTTP.
//
// Serves a JSON HTTP API on PORT and, when MCP_PORT is set, the same
// operations as MCP tools.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anatolykoptev/go-kit/env"
	"github.com/anatolykoptev/go-mcpserver"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_ytools/internal/engine"
	"github.com/anatolykoptev/go_ytools/internal/engine/sources"
	"github.com/anatolykoptev/go_ytools/internal/httpapi"
	"github.com/anatolykoptev/go_ytools/internal/resolver"
	"github.com/anatolykoptev/go_ytools/internal/ytserver"
)

var (
	version = "dev"
	host    = env.Str("HOST", "0.0.0.0")
	port    = env.Str("PORT", "8000")
	mcpPort = env.Str("MCP_PORT", "")
)

func main() {
	svc := newResolver()

	api := httpapi.NewServer(svc, httpapi.Config{
		CORS:         httpapi.AllowAllCORS(),
		MaxBodyBytes: int64(env.Int("MAX_BODY_BYTES", 1<<20)),
		Metrics:      engine.FormatMetrics,
	})
	srv := &http.Server{
		Addr:              net.JoinHostPort(host, port),
		Handler:           api.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("starting go_ytools", slog.String("addr", srv.Addr), slog.String("version", version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	if mcpPort != "" {
		runMCP(svc)
	} else {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		<-ctx.Done()
		stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), env.Duration("SHUTDOWN_TIMEOUT", 10*time.Second))
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("http shutdown failed", slog.Any("error", err))
	}
	slog.Info("stopped go_ytools")
}

func newResolver() *resolver.Service {
	c := engine.Config{
		OEmbedURL:        env.Str("OEMBED_URL", engine.DefaultOEmbedURL),
		YouTubeBaseURL:   env.Str("YOUTUBE_BASE_URL", engine.DefaultYouTubeBaseURL),
		TranscriptSource: env.Str("TRANSCRIPT_SOURCE", engine.SourceWatchPage),
		UpstreamTimeout:  env.Duration("UPSTREAM_TIMEOUT", 15*time.Second),
		MaxRetries:       env.Int("UPSTREAM_MAX_RETRIES", 0),
		UpstreamRPS:      env.Float("UPSTREAM_RPS", 0),
		TLSProfile:       env.Str("UPSTREAM_TLS_PROFILE", engine.TLSProfileStandard),
		ProxyURL:         env.Str("UPSTREAM_PROXY", ""),
	}.WithDefaults()

	slog.Info("engine configured",
		slog.String("transcript_source", c.TranscriptSource),
		slog.Duration("upstream_timeout", c.UpstreamTimeout),
		slog.Int("max_retries", c.MaxRetries),
		slog.Float64("upstream_rps", c.UpstreamRPS),
		slog.String("tls_profile", c.TLSProfile),
		slog.Bool("proxy", c.ProxyURL != ""),
	)

	up := engine.NewUpstream(c)
	return resolver.New(
		sources.NewOEmbedClient(c, up),
		sources.NewTranscriptClient(c, up),
	)
}

// runMCP serves the MCP tools on MCP_PORT and blocks until that server stops.
func runMCP(svc *resolver.Service) {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "go_ytools",
		Version: version,
	}, nil)

	ytserver.RegisterTools(server, svc)
	slog.Info("tools registered", slog.Int("count", 3), slog.String("port", mcpPort))

	if err := mcpserver.Run(server, mcpserver.Config{
		Name:         "go_ytools",
		Version:      version,
		Port:         mcpPort,
		WriteTimeout: 120 * time.Second,
		Metrics:      engine.FormatMetrics,
	}); err != nil {
		slog.Error("mcp server failed", slog.Any("error", err))
	}
}
