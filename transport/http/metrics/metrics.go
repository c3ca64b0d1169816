package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics 暴露 Prometheus registry
type Metrics interface {
	Registry() *prometheus.Registry
}

// Token verification results, used as the result label.
const (
	ResultOK        = "ok"
	ResultMissing   = "missing"
	ResultMalformed = "malformed"
	ResultRejected  = "rejected"
	ResultExpired   = "expired"
	ResultRevoked   = "revoked"
	ResultError     = "error"
)
