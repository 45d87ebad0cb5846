package service

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/BrandonDHaskell/Portunus/controller/internal/portunus/types"
)

// Metrics are the controller's Prometheus collectors.
type Metrics struct {
	decisions       *prometheus.CounterVec
	releases        *prometheus.CounterVec
	auditFailures   prometheus.Counter
	journalFailures prometheus.Counter
	session         prometheus.Gauge
	doorLocked      prometheus.Gauge
	unlocking       prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg. A nil reg
// leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portunus_lock_card_reads_total",
			Help: "Card reads by outcome (granted, denied, ignored).",
		}, []string{"result"}),
		releases: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portunus_lock_unlock_releases_total",
			Help: "Unlock cycles ended, by reason (door_opened, timeout).",
		}, []string{"reason"}),
		auditFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "portunus_lock_audit_append_failures_total",
			Help: "Granted unlocks whose audit log append failed.",
		}),
		journalFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "portunus_lock_journal_failures_total",
			Help: "Event journal opens and writes that failed.",
		}),
		session: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "portunus_lock_boot_session",
			Help: "Current boot session id.",
		}),
		doorLocked: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "portunus_lock_door_locked",
			Help: "1 when the door sensor reports locked.",
		}),
		unlocking: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "portunus_lock_unlocking",
			Help: "1 while the solenoid is powered for an unlock.",
		}),
	}

	if reg != nil {
		reg.MustRegister(m.decisions, m.releases, m.auditFailures, m.journalFailures,
			m.session, m.doorLocked, m.unlocking)
	}
	return m
}

func (m *Metrics) decision(d types.Decision) {
	m.decisions.WithLabelValues(string(d)).Inc()
}

func (m *Metrics) release(r types.ReleaseReason) {
	m.releases.WithLabelValues(string(r)).Inc()
	m.unlocking.Set(0)
}

func (m *Metrics) door(locked bool) {
	m.doorLocked.Set(boolGauge(locked))
}

func boolGauge(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
