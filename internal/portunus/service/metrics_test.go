package service

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/BrandonDHaskell/Portunus/controller/internal/portunus/types"
)

func TestMetrics(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.decision(types.DecisionGranted)
	m.decision(types.DecisionGranted)
	m.decision(types.DecisionDenied)
	if got := testutil.ToFloat64(m.decisions.WithLabelValues("granted")); got != 2 {
		t.Fatalf("expected granted=2, got %f", got)
	}
	if got := testutil.ToFloat64(m.decisions.WithLabelValues("denied")); got != 1 {
		t.Fatalf("expected denied=1, got %f", got)
	}

	m.unlocking.Set(1)
	m.release(types.ReleaseTimeout)
	if got := testutil.ToFloat64(m.releases.WithLabelValues("timeout")); got != 1 {
		t.Fatalf("expected timeout=1, got %f", got)
	}
	if got := testutil.ToFloat64(m.unlocking); got != 0 {
		t.Fatalf("expected unlocking gauge cleared, got %f", got)
	}

	m.door(true)
	if got := testutil.ToFloat64(m.doorLocked); got != 1 {
		t.Fatalf("expected door gauge 1, got %f", got)
	}
}

func TestMetrics_NilRegistererLeavesUnregistered(t *testing.T) {
	a := NewMetrics(nil)
	b := NewMetrics(nil)
	a.decision(types.DecisionIgnored)
	if got := testutil.ToFloat64(b.decisions.WithLabelValues("ignored")); got != 0 {
		t.Fatalf("expected independent collectors, got %f", got)
	}
}
