package engine

import (
	"context"
	"net/http"

	stealth "github.com/anatolykoptev/go-stealth"
)

// Re-export stealth retry and header helpers for engine consumers.
type RetryConfig = stealth.RetryConfig

// RetryConfigFor returns the stealth default backoff limited to maxRetries
// extra attempts. maxRetries == 0 means a single attempt.
func RetryConfigFor(maxRetries int) RetryConfig {
	rc := stealth.DefaultRetryConfig
	rc.MaxRetries = maxRetries
	return rc
}

func RandomUserAgent() string { return stealth.RandomUserAgent() }

func RetryHTTP(ctx context.Context, rc RetryConfig, fn func() (*http.Response, error)) (*http.Response, error) {
	return stealth.RetryHTTP(ctx, rc, fn)
}
