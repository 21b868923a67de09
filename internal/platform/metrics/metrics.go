// Package metrics registers the service-level Prometheus metrics. Upstream
// call latency is instrumented next to the tracker client; what lives here
// are the business counters the dashboards alert on.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the application-level Prometheus counters.
type Metrics struct {
	Logins         *prometheus.CounterVec
	TokenRefreshes *prometheus.CounterVec
	PasswordResets prometheus.Counter
	CodesIssued    prometheus.Counter
}

// New creates and registers all counters on the default registry.
func New() *Metrics {
	return &Metrics{
		Logins: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "permit_gateway_logins_total",
			Help: "Login attempts by method and outcome.",
		}, []string{"method", "outcome"}),
		TokenRefreshes: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "permit_gateway_token_refreshes_total",
			Help: "Refresh-token exchanges by outcome.",
		}, []string{"outcome"}),
		PasswordResets: promauto.NewCounter(prometheus.CounterOpts{
			Name: "permit_gateway_password_resets_total",
			Help: "Completed password resets.",
		}),
		CodesIssued: promauto.NewCounter(prometheus.CounterOpts{
			Name: "permit_gateway_otp_codes_issued_total",
			Help: "One-time codes sent by SMS.",
		}),
	}
}

// ObserveLogin records one login attempt.
func (m *Metrics) ObserveLogin(method, outcome string) {
	m.Logins.WithLabelValues(method, outcome).Inc()
}

// ObserveRefresh records one refresh-token exchange.
func (m *Metrics) ObserveRefresh(outcome string) {
	m.TokenRefreshes.WithLabelValues(outcome).Inc()
}
