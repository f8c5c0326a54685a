package sources

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/anatolykoptev/go_ytools/internal/engine"
)

// YouTube transcript fetching. One call lists the caption tracks (watch page
// scrape or ANDROID /player), a second downloads the chosen timedtext track.

var (
	ErrTranscriptsDisabled = errors.New("transcripts are disabled for this video")
	ErrPoTokenRequired     = errors.New("all matching caption tracks require a PoToken")
	ErrTooManyRequests     = errors.New("youtube is blocking requests from this IP (captcha page)")
	ErrEmptyTimedText      = errors.New("empty timedtext response")
)

// VideoUnavailableError reports a player response whose playability status is not OK.
type VideoUnavailableError struct {
	VideoID string
	Status  string
	Reason  string
}

func (e *VideoUnavailableError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("video %s is unplayable (%s)", e.VideoID, e.Status)
	}
	return fmt.Sprintf("video %s is unplayable (%s): %s", e.VideoID, e.Status, e.Reason)
}

// NoTranscriptError reports that none of the requested languages has a track.
type NoTranscriptError struct {
	VideoID   string
	Requested []string
	Available []string
}

func (e *NoTranscriptError) Error() string {
	return fmt.Sprintf("no transcript found for video %s in languages [%s]; available: [%s]",
		e.VideoID, strings.Join(e.Requested, ", "), strings.Join(e.Available, ", "))
}

type trackLister interface {
	listTracks(ctx context.Context, videoID string) ([]captionTrack, error)
}

// TranscriptClient fetches caption tracks from YouTube.
type TranscriptClient struct {
	up     *engine.Upstream
	lister trackLister
}

// NewTranscriptClient picks the track lister named by c.TranscriptSource.
func NewTranscriptClient(c engine.Config, up *engine.Upstream) *TranscriptClient {
	c = c.WithDefaults()
	var lister trackLister
	switch c.TranscriptSource {
	case engine.SourcePlayer:
		lister = &playerLister{up: up, baseURL: c.YouTubeBaseURL}
	default:
		if c.TranscriptSource != engine.SourceWatchPage {
			slog.Warn("youtube: unknown transcript source, using watch page",
				slog.String("source", c.TranscriptSource))
		}
		lister = &watchPageLister{up: up, baseURL: c.YouTubeBaseURL}
	}
	return &TranscriptClient{up: up, lister: lister}
}

// FetchTranscript returns the caption lines of videoID in chronological order.
// With no languages the default policy applies: manual English, any English,
// then the first listed track.
func (t *TranscriptClient) FetchTranscript(ctx context.Context, videoID string, languages []string) ([]engine.CaptionLine, error) {
	engine.IncrTrackListCalls()
	tracks, err := t.lister.listTracks(ctx, videoID)
	if err != nil {
		return nil, err
	}

	track, err := pickTrack(videoID, tracks, languages)
	if err != nil {
		return nil, err
	}
	slog.Debug("youtube: caption track selected",
		slog.String("id", videoID),
		slog.String("lang", track.LanguageCode),
		slog.Bool("generated", track.generated()))

	return t.fetchTimedText(ctx, track.BaseURL)
}

// needsPoToken reports whether a caption track URL requires a PoToken (browser-only).
// Tracks with &exp=xpe cannot be fetched server-side.
func needsPoToken(baseURL string) bool {
	return strings.Contains(baseURL, "&exp=xpe")
}

// pickTrack orders candidate tracks by preference and returns the first one
// that can be fetched server-side.
func pickTrack(videoID string, tracks []captionTrack, langs []string) (captionTrack, error) {
	var candidates []captionTrack
	if len(langs) > 0 {
		// Per language: manual track first, then auto-generated.
		for _, lang := range langs {
			for _, generated := range []bool{false, true} {
				for _, t := range tracks {
					if t.LanguageCode == lang && t.generated() == generated {
						candidates = append(candidates, t)
					}
				}
			}
		}
		if len(candidates) == 0 {
			return captionTrack{}, &NoTranscriptError{
				VideoID:   videoID,
				Requested: langs,
				Available: trackLanguages(tracks),
			}
		}
	} else {
		isEnglish := func(t captionTrack) bool { return strings.HasPrefix(t.LanguageCode, "en") }
		for _, t := range tracks {
			if isEnglish(t) && !t.generated() {
				candidates = append(candidates, t)
			}
		}
		for _, t := range tracks {
			if isEnglish(t) && t.generated() {
				candidates = append(candidates, t)
			}
		}
		candidates = append(candidates, tracks...)
	}

	for _, t := range candidates {
		if !needsPoToken(t.BaseURL) {
			return t, nil
		}
	}
	return captionTrack{}, ErrPoTokenRequired
}

func trackLanguages(tracks []captionTrack) []string {
	out := make([]string, 0, len(tracks))
	for _, t := range tracks {
		code := t.LanguageCode
		if t.generated() {
			code += " (auto)"
		}
		out = append(out, code)
	}
	return out
}

// --- Timedtext XML types ---

type ytTimedText struct {
	Lines []ytLine `xml:"text"`
}

type ytLine struct {
	Start string `xml:"start,attr"`
	Dur   string `xml:"dur,attr"`
	Text  string `xml:",chardata"`
}

// timedTextURL drops the fmt parameter so YouTube serves the plain
// <transcript><text start dur> format.
func timedTextURL(baseURL string) string {
	u, err := url.Parse(baseURL)
	if err != nil {
		return baseURL
	}
	q := u.Query()
	if !q.Has("fmt") {
		return baseURL
	}
	q.Del("fmt")
	u.RawQuery = q.Encode()
	return u.String()
}

// fetchTimedText downloads and parses a timedtext caption track.
func (t *TranscriptClient) fetchTimedText(ctx context.Context, baseURL string) ([]engine.CaptionLine, error) {
	engine.IncrTimedTextCalls()
	body, err := t.up.Fetch(ctx, engine.Request{
		URL:     timedTextURL(baseURL),
		Headers: map[string]string{"Accept-Language": "en-US,en;q=0.9"},
		Limit:   4 * 1024 * 1024,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch timedtext: %w", err)
	}
	return parseTimedText(body)
}

// parseTimedText decodes a timedtext XML document into caption lines.
func parseTimedText(body []byte) ([]engine.CaptionLine, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, ErrEmptyTimedText
	}

	var tt ytTimedText
	if err := xml.Unmarshal(body, &tt); err != nil {
		return nil, fmt.Errorf("parse timedtext XML: %w", err)
	}

	lines := make([]engine.CaptionLine, 0, len(tt.Lines))
	for _, l := range tt.Lines {
		if l.Text == "" {
			continue
		}
		start, err := parseSeconds(l.Start)
		if err != nil {
			return nil, fmt.Errorf("parse timedtext start %q: %w", l.Start, err)
		}
		dur, err := parseSeconds(l.Dur)
		if err != nil {
			return nil, fmt.Errorf("parse timedtext dur %q: %w", l.Dur, err)
		}
		lines = append(lines, engine.CaptionLine{
			Start:    start,
			Duration: dur,
			Text:     engine.CleanCaption(l.Text),
		})
	}
	return lines, nil
}

func parseSeconds(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}
