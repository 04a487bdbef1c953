// Package metrics defines all custom Prometheus collectors for the todo API.
// It is the single source of truth for metric names, labels, and help
// strings; HTTP-level metrics are handled separately by echoprometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "todoapi"

// RegistrationsTotal counts successfully created accounts.
var RegistrationsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of accounts created.",
	},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, labelled by result.",
	},
	[]string{"result"},
)

// TokenResolutionsTotal counts token presentations on authenticated routes.
// Label:
//   - result: "ok", "invalid" or "revoked"
var TokenResolutionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_resolutions_total",
		Help:      "Total number of bearer token resolutions, labelled by result.",
	},
	[]string{"result"},
)

// TokenRevocationsTotal counts tokens placed on the deny-list via logout.
var TokenRevocationsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_revocations_total",
		Help:      "Total number of tokens revoked before expiry.",
	},
)

// HashOpsInFlight tracks bcrypt computations currently holding a worker slot.
var HashOpsInFlight = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "hash_ops_in_flight",
		Help:      "Number of password hash computations currently executing.",
	},
)

// TodosCreatedTotal counts newly created todos.
var TodosCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "todos_created_total",
		Help:      "Total number of todos created.",
	},
)
