package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ClaimsCreated counts claims accepted into PENDING.
	ClaimsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lostfound_claims_created_total",
		Help: "Total number of claims submitted",
	}, []string{"claim_type"})

	// ClaimResolutions counts claim resolution attempts by outcome.
	ClaimResolutions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lostfound_claim_resolutions_total",
		Help: "Claim resolution attempts by outcome",
	}, []string{"outcome"})

	// ModerationActions counts applied moderation actions.
	ModerationActions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lostfound_moderation_actions_total",
		Help: "Moderation actions applied by target type and action",
	}, []string{"target", "action"})

	// CommentRedactionFailures counts force-deletes whose comment redaction failed.
	CommentRedactionFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lostfound_comment_redaction_failures_total",
		Help: "Force-deleted items whose comments could not be redacted",
	})

	// CacheLookups counts cache-aside lookups by cache name and result.
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lostfound_cache_lookups_total",
		Help: "Cache lookups by cache and result (hit, miss, error)",
	}, []string{"cache", "result"})

	// TransactionLatency records the latency of state-changing transactions.
	TransactionLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "lostfound_transaction_latency_seconds",
		Help:    "Latency of state-changing transactions in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
)

// TrackTransaction returns a function that records latency for operation when called (e.g. defer).
func TrackTransaction(operation string) func() {
	start := time.Now()
	return func() {
		TransactionLatency.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}
}
