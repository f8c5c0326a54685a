package engine

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/time/rate"
)

// StatusError reports a non-2xx upstream response.
type StatusError struct {
	StatusCode int
	Body       string // leading bytes of the response body
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("HTTP %d: %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}

// Upstream sends outbound requests to YouTube with the configured client,
// pacing and retry policy. It holds no per-request state.
type Upstream struct {
	client  *http.Client
	limiter *rate.Limiter
	retry   RetryConfig
}

// NewUpstream builds an Upstream from c. Zero values in c get defaults.
func NewUpstream(c Config) *Upstream {
	c = c.WithDefaults()
	limiter := rate.NewLimiter(rate.Inf, 0)
	if c.UpstreamRPS > 0 {
		burst := int(c.UpstreamRPS)
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(c.UpstreamRPS), burst)
	}
	return &Upstream{
		client:  c.HTTPClient,
		limiter: limiter,
		retry:   RetryConfigFor(c.MaxRetries),
	}
}

// Request describes one outbound call.
type Request struct {
	Method  string
	URL     string
	Body    []byte
	Headers map[string]string
	Limit   int64 // max body bytes read; 0 = 1 MiB
}

// Fetch performs r and returns the response body.
// Any status outside 2xx becomes a *StatusError.
func (u *Upstream) Fetch(ctx context.Context, r Request) ([]byte, error) {
	if err := u.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	method := r.Method
	if method == "" {
		method = http.MethodGet
	}

	resp, err := RetryHTTP(ctx, u.retry, func() (*http.Response, error) {
		var body io.Reader
		if r.Body != nil {
			body = bytes.NewReader(r.Body)
		}
		req, err := http.NewRequestWithContext(ctx, method, r.URL, body)
		if err != nil {
			return nil, err
		}
		if _, ok := r.Headers["User-Agent"]; !ok {
			req.Header.Set("User-Agent", UserAgentChrome)
		}
		for k, v := range r.Headers {
			req.Header.Set(k, v)
		}
		return u.client.Do(req)
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: Snippet(string(snippet), 120)}
	}

	limit := r.Limit
	if limit <= 0 {
		limit = 1 << 20
	}
	return io.ReadAll(io.LimitReader(resp.Body, limit))
}
