package service_test

import (
	"io"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/BrandonDHaskell/Portunus/controller/internal/clock"
	"github.com/BrandonDHaskell/Portunus/controller/internal/portunus/device/sim"
	"github.com/BrandonDHaskell/Portunus/controller/internal/portunus/service"
	"github.com/BrandonDHaskell/Portunus/controller/internal/portunus/store"
	"github.com/BrandonDHaskell/Portunus/controller/internal/portunus/store/memory"
	"github.com/BrandonDHaskell/Portunus/controller/internal/portunus/types"
)

var epoch = time.Date(2026, 2, 15, 12, 0, 0, 0, time.UTC)

func silentLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

// harness is a booted controller on a simulated board with in-memory
// storage and a fake clock.
type harness struct {
	clock    *clock.FakeClock
	board    *sim.Board
	volume   *memory.Volume
	journal  *memory.Journal
	status   *service.StatusBoard
	registry *prometheus.Registry
	ctrl     *service.Controller
}

func bootDeps(c *clock.FakeClock, b *sim.Board, v *memory.Volume) service.BootDependencies {
	return service.BootDependencies{
		Logger:    silentLogger(),
		Clock:     c,
		Reader:    b,
		Door:      b,
		Solenoid:  b,
		Indicator: service.NewIndicator(b, c, service.DefaultIntensity),
		Mount:     func() (store.Volume, error) { return v, nil },
		Files:     service.DefaultFiles(),
		Timing:    service.DefaultTiming(),
	}
}

// newHarness boots a controller whose allow-list holds ids. Solenoid and
// pixel history from the boot sequence is cleared.
func newHarness(t *testing.T, ids ...string) *harness {
	t.Helper()

	h := &harness{
		clock:    clock.Fake(epoch),
		volume:   memory.NewVolume(),
		journal:  memory.NewJournal(),
		status:   service.NewStatusBoard(),
		registry: prometheus.NewRegistry(),
	}
	h.board = sim.NewBoard(h.clock)
	h.volume.WriteFile("IDlist.csv", strings.Join(ids, "\n")+"\n")

	d := bootDeps(h.clock, h.board, h.volume)
	d.Journal = h.journal
	d.Status = h.status
	d.Metrics = service.NewMetrics(h.registry)

	ctrl, err := service.Boot(d)
	if err != nil {
		t.Fatalf("Boot: %v", err)
	}
	h.ctrl = ctrl
	h.board.ResetHistory()
	return h
}

// advanceTo moves the fake clock forward to t.
func (h *harness) advanceTo(t *testing.T, at time.Time) {
	t.Helper()
	d := at.Sub(h.clock.Now())
	if d < 0 {
		t.Fatalf("advanceTo: %s is %s in the past", at, -d)
	}
	h.clock.Advance(d)
}

func (h *harness) auditLog() string {
	s, _ := h.volume.ReadFile("log.csv")
	return s
}

func (h *harness) levels() []sim.SolenoidLevel {
	var out []sim.SolenoidLevel
	for _, c := range h.board.SolenoidHistory() {
		out = append(out, c.Level)
	}
	return out
}

func equalLevels(a, b []sim.SolenoidLevel) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func storeWith(ids ...string) *store.CredentialStore {
	cs := make([]types.Credential, 0, len(ids))
	for _, id := range ids {
		cs = append(cs, types.Credential(id))
	}
	return store.NewCredentialStore(cs)
}

func newAuditLog(h *harness) *store.AuditLog {
	return store.NewAuditLog(h.volume, "log.csv", h.clock, 300*time.Millisecond)
}
