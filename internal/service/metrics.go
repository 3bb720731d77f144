package service

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Login metric label values.
const (
	loginMethodPassword  = "password"
	loginMethodBiometric = "biometric"
	loginResultSuccess   = "success"
	loginResultFailure   = "failure"
)

// Metrics holds the Prometheus instruments for the session layer.
type Metrics struct {
	Registrations   prometheus.Counter
	Logins          *prometheus.CounterVec
	FavoriteToggles prometheus.Counter
	LanguageChanges prometheus.Counter
	BiometricLinks  prometheus.Counter
}

// NewMetrics creates the session metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := newMetrics()
	reg.MustRegister(
		m.Registrations,
		m.Logins,
		m.FavoriteToggles,
		m.LanguageChanges,
		m.BiometricLinks,
	)
	return m
}

// NewUnregisteredMetrics creates metrics that are not exported.
// Used when no registry is supplied, and in tests.
func NewUnregisteredMetrics() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		Registrations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "citypulse_registrations_total",
			Help: "Number of local account registrations (including re-registrations).",
		}),
		Logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "citypulse_logins_total",
			Help: "Number of login attempts by method and result.",
		}, []string{"method", "result"}),
		FavoriteToggles: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "citypulse_favorite_toggles_total",
			Help: "Number of favorite toggle operations.",
		}),
		LanguageChanges: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "citypulse_language_changes_total",
			Help: "Number of language preference changes.",
		}),
		BiometricLinks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "citypulse_biometric_links_total",
			Help: "Number of successful biometric link enablements.",
		}),
	}
}
