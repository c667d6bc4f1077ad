// Package metrics collects in-process counters for the chat service.
package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// ChatMetrics holds the service counters. All fields are updated with
// atomics so the handlers can read a snapshot without locking writers.
type ChatMetrics struct {
	chatsTotal    uint64
	chatsErrors   uint64
	cacheHits     uint64
	cacheMisses   uint64
	quizRequests  uint64
	quizFallbacks uint64

	retrievalTotal    uint64
	retrievalErrors   uint64
	retrievalDuration int64 // milliseconds

	generationTotal    uint64
	generationErrors   uint64
	generationDuration int64 // milliseconds

	tokensPrompt     uint64
	tokensCompletion uint64

	startTime time.Time
}

var (
	global *ChatMetrics
	once   sync.Once
)

// Get returns the global metrics instance.
func Get() *ChatMetrics {
	once.Do(func() {
		global = &ChatMetrics{startTime: time.Now()}
	})
	return global
}

// RecordChat records one chat request outcome.
func (m *ChatMetrics) RecordChat(cacheHit bool, err error) {
	atomic.AddUint64(&m.chatsTotal, 1)
	if err != nil {
		atomic.AddUint64(&m.chatsErrors, 1)
		return
	}
	if cacheHit {
		atomic.AddUint64(&m.cacheHits, 1)
	} else {
		atomic.AddUint64(&m.cacheMisses, 1)
	}
}

// RecordQuiz records a quiz-mode request and whether the structured output
// had to be degraded to a text answer.
func (m *ChatMetrics) RecordQuiz(fallback bool) {
	atomic.AddUint64(&m.quizRequests, 1)
	if fallback {
		atomic.AddUint64(&m.quizFallbacks, 1)
	}
}

// RecordRetrieval records one context-resolution round trip.
func (m *ChatMetrics) RecordRetrieval(duration time.Duration, err error) {
	atomic.AddUint64(&m.retrievalTotal, 1)
	atomic.AddInt64(&m.retrievalDuration, duration.Milliseconds())
	if err != nil {
		atomic.AddUint64(&m.retrievalErrors, 1)
	}
}

// RecordGeneration records one provider completion call.
func (m *ChatMetrics) RecordGeneration(duration time.Duration, promptTokens, completionTokens int, err error) {
	atomic.AddUint64(&m.generationTotal, 1)
	atomic.AddInt64(&m.generationDuration, duration.Milliseconds())
	if err != nil {
		atomic.AddUint64(&m.generationErrors, 1)
		return
	}
	atomic.AddUint64(&m.tokensPrompt, uint64(promptTokens))
	atomic.AddUint64(&m.tokensCompletion, uint64(completionTokens))
}

// Snapshot returns the current counter values as a flat map.
func (m *ChatMetrics) Snapshot() map[string]any {
	return map[string]any{
		"uptime_seconds":         int64(time.Since(m.startTime).Seconds()),
		"chats_total":            atomic.LoadUint64(&m.chatsTotal),
		"chats_errors":           atomic.LoadUint64(&m.chatsErrors),
		"cache_hits":             atomic.LoadUint64(&m.cacheHits),
		"cache_misses":           atomic.LoadUint64(&m.cacheMisses),
		"quiz_requests":          atomic.LoadUint64(&m.quizRequests),
		"quiz_fallbacks":         atomic.LoadUint64(&m.quizFallbacks),
		"retrieval_total":        atomic.LoadUint64(&m.retrievalTotal),
		"retrieval_errors":       atomic.LoadUint64(&m.retrievalErrors),
		"retrieval_duration_ms":  atomic.LoadInt64(&m.retrievalDuration),
		"generation_total":       atomic.LoadUint64(&m.generationTotal),
		"generation_errors":      atomic.LoadUint64(&m.generationErrors),
		"generation_duration_ms": atomic.LoadInt64(&m.generationDuration),
		"tokens_prompt":          atomic.LoadUint64(&m.tokensPrompt),
		"tokens_completion":      atomic.LoadUint64(&m.tokensCompletion),
	}
}
