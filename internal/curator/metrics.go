package curator

import (
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
)

// Metrics tracks operational counters across the pipeline.
var metrics struct {
	ExtractRequests    atomic.Int64
	ExtractErrors      atomic.Int64
	LLMCalls           atomic.Int64
	LLMErrors          atomic.Int64
	TableRequests      atomic.Int64
	TableErrors        atomic.Int64
	FeedRequests       atomic.Int64
	TranscriptRequests atomic.Int64
	ItemsProcessed     atomic.Int64
	ItemsSkipped       atomic.Int64
	ItemsFailed        atomic.Int64
}

// GetMetrics returns a snapshot of all metrics including cache stats.
func GetMetrics() map[string]int64 {
	hits, misses := CacheStats()
	return map[string]int64{
		"extract_requests":    metrics.ExtractRequests.Load(),
		"extract_errors":      metrics.ExtractErrors.Load(),
		"llm_calls":           metrics.LLMCalls.Load(),
		"llm_errors":          metrics.LLMErrors.Load(),
		"table_requests":      metrics.TableRequests.Load(),
		"table_errors":        metrics.TableErrors.Load(),
		"feed_requests":       metrics.FeedRequests.Load(),
		"transcript_requests": metrics.TranscriptRequests.Load(),
		"items_processed":     metrics.ItemsProcessed.Load(),
		"items_skipped":       metrics.ItemsSkipped.Load(),
		"items_failed":        metrics.ItemsFailed.Load(),
		"cache_hits":          hits,
		"cache_misses":        misses,
	}
}

// FormatMetrics returns metrics as a simple text format.
func FormatMetrics() string {
	m := GetMetrics()
	var sb strings.Builder
	keys := []string{
		"items_processed", "items_skipped", "items_failed",
		"extract_requests", "extract_errors",
		"transcript_requests", "feed_requests",
		"llm_calls", "llm_errors",
		"table_requests", "table_errors",
		"cache_hits", "cache_misses",
	}
	for _, k := range keys {
		fmt.Fprintf(&sb, "%s %d\n", k, m[k])
	}
	return sb.String()
}

// LogMetrics writes the run summary to the structured log.
func LogMetrics() {
	m := GetMetrics()
	slog.Info("run summary",
		slog.Int64("processed", m["items_processed"]),
		slog.Int64("skipped", m["items_skipped"]),
		slog.Int64("failed", m["items_failed"]),
		slog.Int64("llm_calls", m["llm_calls"]),
		slog.Int64("llm_errors", m["llm_errors"]),
		slog.Int64("table_requests", m["table_requests"]),
		slog.Int64("cache_hits", m["cache_hits"]),
	)
}

// Incrementors for sub-packages.
func IncrExtractRequests() { metrics.ExtractRequests.Add(1) }
func IncrExtractErrors()   { metrics.ExtractErrors.Add(1) }
func IncrLLMCalls()        { metrics.LLMCalls.Add(1) }
func IncrLLMErrors()       { metrics.LLMErrors.Add(1) }
func IncrTableRequests()   { metrics.TableRequests.Add(1) }
func IncrTableErrors()     { metrics.TableErrors.Add(1) }
func IncrFeedRequests()    { metrics.FeedRequests.Add(1) }
func IncrTranscript()      { metrics.TranscriptRequests.Add(1) }
func incrItemsProcessed()  { metrics.ItemsProcessed.Add(1) }
func incrItemsSkipped()    { metrics.ItemsSkipped.Add(1) }
func incrItemsFailed()     { metrics.ItemsFailed.Add(1) }
