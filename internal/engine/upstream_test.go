package engine

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUpstream(t *testing.T, h http.HandlerFunc, c Config) (*Upstream, string) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c.HTTPClient = srv.Client()
	return NewUpstream(c), srv.URL
}

func TestUpstreamFetch(t *testing.T) {
	var gotUA, gotAccept string
	up, base := newTestUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		_, _ = io.WriteString(w, "payload")
	}, Config{})

	body, err := up.Fetch(context.Background(), Request{URL: base, Headers: map[string]string{"Accept": "text/plain"}})
	require.NoError(t, err)
	assert.Equal(t, "payload", string(body))
	assert.Equal(t, UserAgentChrome, gotUA)
	assert.Equal(t, "text/plain", gotAccept)
}

func TestUpstreamFetchCustomUserAgent(t *testing.T) {
	var gotUA string
	up, base := newTestUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
	}, Config{})

	_, err := up.Fetch(context.Background(), Request{URL: base, Headers: map[string]string{"User-Agent": "custom/1"}})
	require.NoError(t, err)
	assert.Equal(t, "custom/1", gotUA)
}

func TestUpstreamFetchPost(t *testing.T) {
	var gotMethod, gotBody string
	up, base := newTestUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
	}, Config{})

	_, err := up.Fetch(context.Background(), Request{Method: http.MethodPost, URL: base, Body: []byte(`{"a":1}`)})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, `{"a":1}`, gotBody)
}

func TestUpstreamFetchStatusError(t *testing.T) {
	up, base := newTestUpstream(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = io.WriteString(w, strings.Repeat("x", 500))
	}, Config{})

	_, err := up.Fetch(context.Background(), Request{URL: base})
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusForbidden, se.StatusCode)
	assert.Less(t, len(se.Body), 200)
	assert.True(t, strings.HasPrefix(err.Error(), "HTTP 403: "))
}

func TestUpstreamSingleAttemptByDefault(t *testing.T) {
	var hits atomic.Int32
	up, base := newTestUpstream(t, func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}, Config{})

	_, err := up.Fetch(context.Background(), Request{URL: base})
	assert.Error(t, err)
	assert.EqualValues(t, 1, hits.Load())
}

func TestUpstreamFetchLimit(t *testing.T) {
	up, base := newTestUpstream(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "0123456789")
	}, Config{})

	body, err := up.Fetch(context.Background(), Request{URL: base, Limit: 4})
	require.NoError(t, err)
	assert.Equal(t, "0123", string(body))
}

func TestUpstreamCanceledContext(t *testing.T) {
	var hits atomic.Int32
	up, base := newTestUpstream(t, func(_ http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
	}, Config{UpstreamRPS: 0.001})

	ctx, cancel := context.WithCancel(context.Background())
	// First call consumes the burst token.
	_, err := up.Fetch(ctx, Request{URL: base})
	require.NoError(t, err)

	cancel()
	_, err = up.Fetch(ctx, Request{URL: base})
	assert.Error(t, err)
	assert.EqualValues(t, 1, hits.Load())
}

func TestConfigWithDefaults(t *testing.T) {
	c := Config{MaxRetries: -3}.WithDefaults()
	assert.Equal(t, DefaultOEmbedURL, c.OEmbedURL)
	assert.Equal(t, DefaultYouTubeBaseURL, c.YouTubeBaseURL)
	assert.Equal(t, SourceWatchPage, c.TranscriptSource)
	assert.Equal(t, 15*time.Second, c.UpstreamTimeout)
	assert.Equal(t, 0, c.MaxRetries)
	require.NotNil(t, c.HTTPClient)
	assert.Equal(t, 15*time.Second, c.HTTPClient.Timeout)

	custom := Config{OEmbedURL: "http://o", TranscriptSource: SourcePlayer, UpstreamTimeout: time.Second}.WithDefaults()
	assert.Equal(t, "http://o", custom.OEmbedURL)
	assert.Equal(t, SourcePlayer, custom.TranscriptSource)
	assert.Equal(t, time.Second, custom.HTTPClient.Timeout)
}

func TestRetryConfigFor(t *testing.T) {
	assert.Equal(t, 0, RetryConfigFor(0).MaxRetries)
	assert.Equal(t, 2, RetryConfigFor(2).MaxRetries)
}
