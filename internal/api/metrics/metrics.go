// Package metrics defines and registers the custom Prometheus metrics shared by the
// auth and user services. HTTP request metrics come from echoprometheus; everything
// here describes authentication behaviour.
//
// Metrics are registered with the default registry on package init via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "musicplayer"

// ── Login metrics ─────────────────────────────────────────────────────────────

// LoginAttemptsTotal counts login attempts by outcome.
// Label:
//   - outcome: "success", "rejected", "failed" or "throttled"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by outcome.",
	},
	[]string{"outcome"},
)

// UserLookupDuration measures calls to the user directory made during login.
// Label:
//   - result: "found", "not_found" or "unavailable"
var UserLookupDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "user_lookup_duration_seconds",
		Help:      "Duration of credential lookups against the user service.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"result"},
)

// ── Gate metrics ──────────────────────────────────────────────────────────────

// GateRejectionsTotal counts requests turned away by the authorization gate.
// Label:
//   - reason: "missing_credential", "invalid_token", "expired_token" or "insufficient_role"
var GateRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "gate_rejections_total",
		Help:      "Total number of requests rejected by the authorization gate.",
	},
	[]string{"reason"},
)

// ── Audit metrics ─────────────────────────────────────────────────────────────

// AuditEventsTotal counts login audit events by what happened to them.
// Label:
//   - result: "stored", "dropped" or "error"
var AuditEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_total",
		Help:      "Total number of login audit events, by delivery result.",
	},
	[]string{"result"},
)

// AuditQueueDepth tracks pending events in each audit worker channel.
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of login events pending in each audit worker channel.",
	},
	[]string{"worker_id"},
)
