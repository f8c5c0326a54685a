package sources

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/anatolykoptev/go_ytools/internal/engine"
)

// ytInitialPlayerResponseMarker marks the start of the player response JSON in watch page HTML.
const ytInitialPlayerResponseMarker = "ytInitialPlayerResponse = "

var errPlayerResponseMissing = errors.New("ytInitialPlayerResponse not found in watch page")

// watchPageLister scrapes the watch page and reads caption tracks from
// ytInitialPlayerResponse. Works from any IP that is not captcha-walled.
type watchPageLister struct {
	up      *engine.Upstream
	baseURL string
}

func (l *watchPageLister) watchURL(videoID string) string {
	return strings.TrimRight(l.baseURL, "/") + "/watch?v=" + url.QueryEscape(videoID)
}

func (l *watchPageLister) listTracks(ctx context.Context, videoID string) ([]captionTrack, error) {
	body, err := l.up.Fetch(ctx, engine.Request{
		URL: l.watchURL(videoID),
		Headers: map[string]string{
			"User-Agent":      engine.RandomUserAgent(),
			"Accept-Language": "en-US,en;q=0.9",
			"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
		},
		Limit: 6 * 1024 * 1024,
	})
	if err != nil {
		return nil, fmt.Errorf("watch page: %w", err)
	}

	payload, err := findPlayerResponse(body)
	if err != nil {
		return nil, err
	}

	var resp playerResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return nil, fmt.Errorf("decode ytInitialPlayerResponse: %w", err)
	}
	return resp.captionTracks(videoID)
}

// findPlayerResponse locates the <script> element that assigns
// ytInitialPlayerResponse and returns the JSON object it holds.
func findPlayerResponse(page []byte) ([]byte, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("parse watch page: %w", err)
	}

	if doc.Find(".g-recaptcha").Length() > 0 {
		return nil, ErrTooManyRequests
	}

	var payload []byte
	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := s.Text()
		idx := strings.Index(text, ytInitialPlayerResponseMarker)
		if idx < 0 {
			return true
		}
		payload = extractJSON([]byte(text[idx+len(ytInitialPlayerResponseMarker):]))
		return payload == nil
	})
	if payload == nil {
		return nil, errPlayerResponseMissing
	}
	return payload, nil
}

// extractJSON returns the balanced JSON object at the start of b, or nil.
func extractJSON(b []byte) []byte {
	if len(b) == 0 || b[0] != '{' {
		return nil
	}
	depth := 0
	inStr := false
	escaped := false
	for i, c := range b {
		if inStr {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inStr = false
			}
			continue
		}
		switch c {
		case '"':
			inStr = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return b[:i+1]
			}
		}
	}
	return nil
}
