package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/anatolykoptev/go_ytools/internal/engine"
)

// canonicalWatchURL is the URL form the oEmbed provider is asked about.
const canonicalWatchURL = "https://www.youtube.com/watch?v="

// OEmbedClient fetches public video metadata from the YouTube oEmbed endpoint.
type OEmbedClient struct {
	up       *engine.Upstream
	endpoint string
}

func NewOEmbedClient(c engine.Config, up *engine.Upstream) *OEmbedClient {
	c = c.WithDefaults()
	return &OEmbedClient{up: up, endpoint: c.OEmbedURL}
}

// OEmbedURL builds the request URL for videoID.
func (c *OEmbedClient) OEmbedURL(videoID string) string {
	params := url.Values{}
	params.Set("format", "json")
	params.Set("url", canonicalWatchURL+videoID)
	sep := "?"
	if strings.Contains(c.endpoint, "?") {
		sep = "&"
	}
	return c.endpoint + sep + params.Encode()
}

// Fetch returns the oEmbed metadata for videoID.
// Fields missing from the response stay at their zero value.
func (c *OEmbedClient) Fetch(ctx context.Context, videoID string) (engine.VideoMetadata, error) {
	engine.IncrOEmbedCalls()

	body, err := c.up.Fetch(ctx, engine.Request{
		URL:     c.OEmbedURL(videoID),
		Headers: map[string]string{"Accept": "application/json"},
	})
	if err != nil {
		return engine.VideoMetadata{}, fmt.Errorf("oembed: %w", err)
	}

	var meta engine.VideoMetadata
	if err := json.Unmarshal(body, &meta); err != nil {
		return engine.VideoMetadata{}, fmt.Errorf("decode oembed: %w", err)
	}
	return meta, nil
}
