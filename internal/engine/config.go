package engine

import (
	"log/slog"
	"net/http"
	"time"
)

// Upstream endpoints used when the environment does not override them.
const (
	DefaultOEmbedURL      = "https://www.youtube.com/oembed"
	DefaultYouTubeBaseURL = "https://www.youtube.com"
)

// Transcript source modes.
const (
	SourceWatchPage = "watchpage"
	SourcePlayer    = "player"
)

// Config holds all engine configuration, injected from main.
type Config struct {
	OEmbedURL        string
	YouTubeBaseURL   string        // watch page and Innertube host
	TranscriptSource string        // SourceWatchPage or SourcePlayer
	UpstreamTimeout  time.Duration // applied to HTTPClient when it is nil
	MaxRetries       int           // 0 = single attempt
	UpstreamRPS      float64       // 0 = unlimited
	TLSProfile       string        // TLSProfileStandard or TLSProfileChrome
	ProxyURL         string        // used with TLSProfileChrome only
	HTTPClient       *http.Client
}

// WithDefaults returns c with unset fields filled in.
func (c Config) WithDefaults() Config {
	if c.OEmbedURL == "" {
		c.OEmbedURL = DefaultOEmbedURL
	}
	if c.YouTubeBaseURL == "" {
		c.YouTubeBaseURL = DefaultYouTubeBaseURL
	}
	if c.TranscriptSource == "" {
		c.TranscriptSource = SourceWatchPage
	}
	if c.UpstreamTimeout <= 0 {
		c.UpstreamTimeout = 15 * time.Second
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	if c.TLSProfile == "" {
		c.TLSProfile = TLSProfileStandard
	}
	if c.HTTPClient == nil && c.TLSProfile == TLSProfileChrome {
		client, err := NewBrowserHTTPClient(int(c.UpstreamTimeout/time.Second)+1, c.ProxyURL)
		if err != nil {
			slog.Warn("browser tls client init failed, using net/http", slog.Any("error", err))
		} else {
			client.Timeout = c.UpstreamTimeout
			c.HTTPClient = client
		}
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{
			Timeout: c.UpstreamTimeout,
			Transport: &http.Transport{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     60 * time.Second,
			},
		}
	}
	return c
}

