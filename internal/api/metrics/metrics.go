// Package metrics defines and registers all custom Prometheus metrics for the
// personal finance API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Collectors register with the default Prometheus registry on package init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "finance"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthFailuresTotal counts requests rejected by the auth gate.
// Label:
//   - reason: "missing_header", "bad_scheme", "malformed", "invalid_signature", "expired"
var AuthFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_failures_total",
		Help:      "Total number of requests rejected by bearer token verification.",
	},
	[]string{"reason"},
)

// ── Transaction metrics ───────────────────────────────────────────────────────

// TransactionMutationsTotal counts successful writes.
// Label:
//   - action: "created", "updated", "deleted"
var TransactionMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "transaction_mutations_total",
		Help:      "Total number of transaction writes, by action.",
	},
	[]string{"action"},
)

// IdempotencyTotal counts idempotency key reservations on create.
// Label:
//   - result: "hit" (replayed), "miss" (new transaction), "in_progress"
//     (concurrent create holds the key), "error" (store unavailable)
var IdempotencyTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "idempotency_reservations_total",
		Help:      "Total number of idempotency key reservations, labelled by result.",
	},
	[]string{"result"},
)

// ── Audit metrics ─────────────────────────────────────────────────────────────

// AuditEventsTotal counts audit events leaving the dispatcher.
// Label:
//   - result: "written", "failed", "dropped"
var AuditEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_total",
		Help:      "Total number of audit events, labelled by outcome.",
	},
	[]string{"result"},
)

// AuditQueueDepth tracks the number of events waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// AuditWriteDuration measures how long a single audit insert takes.
var AuditWriteDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "audit_write_duration_seconds",
		Help:      "Duration of a single audit event insert.",
		Buckets:   prometheus.DefBuckets,
	},
)
