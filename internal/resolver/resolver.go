// Package resolver turns YouTube URLs into oEmbed metadata, plain-text
// captions and timestamped caption lines.
package resolver

import (
	"context"
	"log/slog"

	"github.com/anatolykoptev/go_ytools/internal/engine"
)

// DefaultTimestampLanguages is used by FetchTimestamps when the caller gives none.
// FetchCaptions has no such default and leaves the choice to the transcript source.
var DefaultTimestampLanguages = []string{"en"}

// MetadataSource fetches oEmbed metadata for a video ID.
type MetadataSource interface {
	Fetch(ctx context.Context, videoID string) (engine.VideoMetadata, error)
}

// TranscriptSource fetches ordered caption lines for a video ID.
type TranscriptSource interface {
	FetchTranscript(ctx context.Context, videoID string, languages []string) ([]engine.CaptionLine, error)
}

// Service implements the video operations. It keeps no per-request state and
// is safe for concurrent use.
type Service struct {
	metadata    MetadataSource
	transcripts TranscriptSource
}

func New(metadata MetadataSource, transcripts TranscriptSource) *Service {
	return &Service{metadata: metadata, transcripts: transcripts}
}

// resolveID validates rawURL and extracts its video ID. No network calls.
func resolveID(rawURL string) (string, error) {
	if rawURL == "" {
		engine.IncrInvalidInput()
		return "", invalidInput("No URL provided")
	}
	id, ok := ExtractVideoID(rawURL)
	if !ok {
		engine.IncrInvalidInput()
		return "", invalidInput("Invalid YouTube URL")
	}
	return id, nil
}

// FetchMetadata returns the oEmbed metadata of the video at rawURL.
func (s *Service) FetchMetadata(ctx context.Context, rawURL string) (engine.VideoMetadata, error) {
	engine.IncrMetadataRequests()
	id, err := resolveID(rawURL)
	if err != nil {
		return engine.VideoMetadata{}, err
	}

	var meta engine.VideoMetadata
	err = engine.TrackOperation(ctx, "oembed", func(ctx context.Context) error {
		var ferr error
		meta, ferr = s.metadata.Fetch(ctx, id)
		return ferr
	})
	if err != nil {
		engine.IncrUpstreamErrors()
		slog.Warn("metadata fetch failed", slog.String("id", id), slog.Any("error", err))
		return engine.VideoMetadata{}, upstreamFailure("Error getting video data", err)
	}
	return meta, nil
}

// FetchCaptions returns all caption texts of the video joined by spaces,
// or NoCaptionsText when the track is empty.
func (s *Service) FetchCaptions(ctx context.Context, rawURL string, languages []string) (string, error) {
	engine.IncrCaptionsRequests()
	id, err := resolveID(rawURL)
	if err != nil {
		return "", err
	}

	lines, err := s.transcript(ctx, id, languages)
	if err != nil {
		return "", upstreamFailure("Error getting captions for video", err)
	}
	if len(lines) == 0 {
		return NoCaptionsText, nil
	}
	return JoinCaptions(lines), nil
}

// FetchTimestamps returns one "M:SS - text" entry per caption line.
// Languages default to DefaultTimestampLanguages. An empty track yields an
// empty, non-nil slice.
func (s *Service) FetchTimestamps(ctx context.Context, rawURL string, languages []string) ([]string, error) {
	engine.IncrTimestampsRequests()
	id, err := resolveID(rawURL)
	if err != nil {
		return nil, err
	}
	if len(languages) == 0 {
		languages = DefaultTimestampLanguages
	}

	lines, err := s.transcript(ctx, id, languages)
	if err != nil {
		return nil, upstreamFailure("Error generating timestamps", err)
	}
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		out = append(out, FormatTimestamp(l))
	}
	return out, nil
}

func (s *Service) transcript(ctx context.Context, id string, languages []string) ([]engine.CaptionLine, error) {
	var lines []engine.CaptionLine
	err := engine.TrackOperation(ctx, "transcript", func(ctx context.Context) error {
		var ferr error
		lines, ferr = s.transcripts.FetchTranscript(ctx, id, languages)
		return ferr
	})
	if err != nil {
		engine.IncrUpstreamErrors()
		slog.Warn("transcript fetch failed",
			slog.String("id", id), slog.Any("languages", languages), slog.Any("error", err))
		return nil, err
	}
	return lines, nil
}
