// Package metrics define y registra las métricas Prometheus de la API.
// Es la única fuente de nombres, etiquetas y textos de ayuda.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "contabilidad"

// ── HTTP ──────────────────────────────────────────────────────────────────────

// HTTPRequestsTotal cuenta respuestas por método, ruta registrada y código.
var HTTPRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total de requests HTTP atendidos, por método, ruta y código.",
	},
	[]string{"method", "route", "status"},
)

// HTTPRequestDuration mide la latencia por método y ruta.
var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duración de los requests HTTP.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "route"},
)

// ── Auth ──────────────────────────────────────────────────────────────────────

// LoginsTotal cuenta intentos de login.
// Etiqueta result: "success" | "invalid_credentials" | "error".
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Intentos de login por resultado.",
	},
	[]string{"result"},
)

// AuthorizationDeniedTotal cuenta denegaciones de la política por recurso y acción.
var AuthorizationDeniedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authorization_denied_total",
		Help:      "Solicitudes rechazadas por la política de autorización.",
	},
	[]string{"resource", "action"},
)

// ── Lista de precios ──────────────────────────────────────────────────────────

// StockOperationsTotal cuenta ventas y reposiciones.
// Etiquetas: operation "sale" | "restock"; result "ok" | "insufficient_stock" | "not_found" | "error".
var StockOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stock_operations_total",
		Help:      "Operaciones de existencia por tipo y resultado.",
	},
	[]string{"operation", "result"},
)
