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
	TranscriptRequests atomic.Int64
	TranscriptErrors   atomic.Int64
	RawRequests        atomic.Int64
	WatchScrapes       atomic.Int64
	PlayerRequests     atomic.Int64
	PanelRequests      atomic.Int64
	TimedtextRequests  atomic.Int64
	OEmbedRequests     atomic.Int64
	SummaryRequests    atomic.Int64
	LLMCalls           atomic.Int64
	LLMErrors          atomic.Int64
	HistoryWrites      atomic.Int64
}

// GetMetrics returns a snapshot of all metrics including cache stats.
func GetMetrics() map[string]int64 {
	hits, misses := CacheStats()
	return map[string]int64{
		"transcript_requests": metrics.TranscriptRequests.Load(),
		"transcript_errors":   metrics.TranscriptErrors.Load(),
		"raw_requests":        metrics.RawRequests.Load(),
		"watch_scrapes":       metrics.WatchScrapes.Load(),
		"player_requests":     metrics.PlayerRequests.Load(),
		"panel_requests":      metrics.PanelRequests.Load(),
		"timedtext_requests":  metrics.TimedtextRequests.Load(),
		"oembed_requests":     metrics.OEmbedRequests.Load(),
		"summary_requests":    metrics.SummaryRequests.Load(),
		"llm_calls":           metrics.LLMCalls.Load(),
		"llm_errors":          metrics.LLMErrors.Load(),
		"history_writes":      metrics.HistoryWrites.Load(),
		"cache_hits":          hits,
		"cache_misses":        misses,
	}
}

// FormatMetrics returns metrics as a simple text format for HTTP endpoint.
func FormatMetrics() string {
	m := GetMetrics()
	var sb strings.Builder
	keys := []string{
		"transcript_requests", "transcript_errors", "raw_requests",
		"watch_scrapes", "player_requests", "panel_requests",
		"timedtext_requests", "oembed_requests",
		"summary_requests", "llm_calls", "llm_errors",
		"history_writes",
		"cache_hits", "cache_misses",
	}
	for _, k := range keys {
		fmt.Fprintf(&sb, "%s %d\n", k, m[k])
	}
	return sb.String()
}

// Incrementors for the ytserver package.
func IncrTranscriptRequests() { metrics.TranscriptRequests.Add(1) }
func IncrTranscriptErrors()   { metrics.TranscriptErrors.Add(1) }
func IncrRawRequests()        { metrics.RawRequests.Add(1) }
func IncrSummaryRequests()    { metrics.SummaryRequests.Add(1) }

// Incrementors for the sources sub-package.
func IncrWatchScrapes()      { metrics.WatchScrapes.Add(1) }
func IncrPlayerRequests()    { metrics.PlayerRequests.Add(1) }
func IncrPanelRequests()     { metrics.PanelRequests.Add(1) }
func IncrTimedtextRequests() { metrics.TimedtextRequests.Add(1) }
func IncrOEmbedRequests()    { metrics.OEmbedRequests.Add(1) }

func incrLLMCalls()      { metrics.LLMCalls.Add(1) }
func incrLLMErrors()     { metrics.LLMErrors.Add(1) }
func incrHistoryWrites() { metrics.HistoryWrites.Add(1) }

// TrackOperation logs a warning if an operation takes longer than threshold.
func TrackOperation(ctx context.Context, name string, fn func(context.Context) error) error {
	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)
	if elapsed > 5*time.Second {
		slog.Warn("slow operation", slog.String("op", name), slog.Duration("elapsed", elapsed))
	}
	return err
}
