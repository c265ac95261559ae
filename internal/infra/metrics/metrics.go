// Package metrics provides Prometheus metrics for Stride — counters for
// streak actions, level progression, and the offline-fallback path.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ─── Streak Actions ─────────────────────────────────────────────────────────

// ActionsRecorded tracks recorded actions by engine and kind.
var ActionsRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "stride",
	Name:      "actions_recorded_total",
	Help:      "Total streak/activity actions recorded.",
}, []string{"engine", "kind"})

// LevelUps tracks freedom-streak level completions.
var LevelUps = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "stride",
	Name:      "level_ups_total",
	Help:      "Total freedom streak level completions.",
})

// WeeklyModeEntered tracks transitions into terminal weekly mode.
var WeeklyModeEntered = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "stride",
	Name:      "weekly_mode_entered_total",
	Help:      "Total transitions into weekly control mode.",
})

// ─── Document Store ─────────────────────────────────────────────────────────

// StoreFallbacks tracks actions served from the local cache because the
// remote store failed.
var StoreFallbacks = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "stride",
	Name:      "store_fallbacks_total",
	Help:      "Total actions applied against the local cache after a store failure.",
})

// StoreRetries tracks optimistic-concurrency retries in the remote store.
var StoreRetries = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "stride",
	Name:      "store_retries_total",
	Help:      "Total update retries after a revision conflict.",
})

// StoreErrors tracks document store failures by operation.
var StoreErrors = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "stride",
	Name:      "store_errors_total",
	Help:      "Total document store failures.",
}, []string{"op"})

// ─── HTTP ───────────────────────────────────────────────────────────────────

// HTTPRequests tracks API requests by route and status code.
var HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "stride",
	Name:      "http_requests_total",
	Help:      "Total HTTP requests served.",
}, []string{"route", "code"})
