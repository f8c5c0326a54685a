package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"
)

// Metrics tracks operational counters across the engine.
var metrics struct {
	MetadataRequests   atomic.Int64
	CaptionsRequests   atomic.Int64
	TimestampsRequests atomic.Int64
	InvalidInput       atomic.Int64
	UpstreamErrors     atomic.Int64
	OEmbedCalls        atomic.Int64
	TrackListCalls     atomic.Int64
	TimedTextCalls     atomic.Int64
}

var metricKeys = []string{
	"metadata_requests", "captions_requests", "timestamps_requests",
	"invalid_input", "upstream_errors",
	"oembed_calls", "track_list_calls", "timedtext_calls",
}

// GetMetrics returns a snapshot of all metrics.
func GetMetrics() map[string]int64 {
	return map[string]int64{
		"metadata_requests":   metrics.MetadataRequests.Load(),
		"captions_requests":   metrics.CaptionsRequests.Load(),
		"timestamps_requests": metrics.TimestampsRequests.Load(),
		"invalid_input":       metrics.InvalidInput.Load(),
		"upstream_errors":     metrics.UpstreamErrors.Load(),
		"oembed_calls":        metrics.OEmbedCalls.Load(),
		"track_list_calls":    metrics.TrackListCalls.Load(),
		"timedtext_calls":     metrics.TimedTextCalls.Load(),
	}
}

// FormatMetrics returns metrics as a simple text format for HTTP endpoint.
func FormatMetrics() string {
	m := GetMetrics()
	var sb strings.Builder
	for _, k := range metricKeys {
		fmt.Fprintf(&sb, "%s %d\n", k, m[k])
	}
	return sb.String()
}

// Incrementors for the resolver.
func IncrMetadataRequests()   { metrics.MetadataRequests.Add(1) }
func IncrCaptionsRequests()   { metrics.CaptionsRequests.Add(1) }
func IncrTimestampsRequests() { metrics.TimestampsRequests.Add(1) }
func IncrInvalidInput()       { metrics.InvalidInput.Add(1) }
func IncrUpstreamErrors()     { metrics.UpstreamErrors.Add(1) }

// Incrementors for sources/ sub-package.
func IncrOEmbedCalls()    { metrics.OEmbedCalls.Add(1) }
func IncrTrackListCalls() { metrics.TrackListCalls.Add(1) }
func IncrTimedTextCalls() { metrics.TimedTextCalls.Add(1) }

// SlowOperationThreshold is the duration above which TrackOperation warns.
var SlowOperationThreshold = 5 * time.Second

// TrackOperation logs a warning if an operation takes longer than SlowOperationThreshold.
func TrackOperation(ctx context.Context, name string, fn func(context.Context) error) error {
	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)
	if elapsed > SlowOperationThreshold {
		slog.Warn("slow operation", slog.String("op", name), slog.Duration("elapsed", elapsed))
	}
	return err
}
