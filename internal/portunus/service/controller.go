package service

import (
	"context"
	"log"
	"time"

	"github.com/BrandonDHaskell/Portunus/controller/internal/clock"
	"github.com/BrandonDHaskell/Portunus/controller/internal/portunus/device"
	"github.com/BrandonDHaskell/Portunus/controller/internal/portunus/store"
	"github.com/BrandonDHaskell/Portunus/controller/internal/portunus/types"
)

// journalTimeout bounds one journal write from the control loop.
const journalTimeout = time.Second

type Dependencies struct {
	Logger      *log.Logger
	Clock       clock.Clock
	Reader      device.CardReader
	Door        device.DoorSensor
	Solenoid    device.Solenoid
	Indicator   *Indicator
	Credentials *store.CredentialStore
	AuditLog    *store.AuditLog
	Journal     store.EventJournal // optional
	Metrics     *Metrics           // optional
	Status      *StatusBoard       // optional
	Timing      Timing
	SessionID   uint32
	BootedAt    time.Time
}

// Controller is the lock's state machine. It is driven by a single
// goroutine calling Step (or Run) and is not safe for concurrent use.
type Controller struct {
	logger      *log.Logger
	clock       clock.Clock
	reader      device.CardReader
	door        device.DoorSensor
	solenoid    device.Solenoid
	indicator   *Indicator
	credentials *store.CredentialStore
	audit       *store.AuditLog
	journal     store.EventJournal
	metrics     *Metrics
	status      *StatusBoard
	timing      Timing
	sessionID   uint32
	bootedAt    time.Time

	state           types.State
	unlockStartedAt time.Time

	// Cooldown bookkeeping; lastCredential is empty until the first read.
	lastCredential types.Credential
	lastSeenAt     time.Time

	lastDecision   types.Decision
	lastDecisionAt time.Time
}

func NewController(d Dependencies) *Controller {
	c := &Controller{
		logger:      d.Logger,
		clock:       d.Clock,
		reader:      d.Reader,
		door:        d.Door,
		solenoid:    d.Solenoid,
		indicator:   d.Indicator,
		credentials: d.Credentials,
		audit:       d.AuditLog,
		journal:     d.Journal,
		metrics:     d.Metrics,
		status:      d.Status,
		timing:      d.Timing,
		sessionID:   d.SessionID,
		bootedAt:    d.BootedAt,
		state:       types.StateIdle,
	}
	if c.journal == nil {
		c.journal = store.NopJournal{}
	}
	if c.metrics == nil {
		c.metrics = NewMetrics(nil)
	}
	if c.status == nil {
		c.status = NewStatusBoard()
	}
	if c.bootedAt.IsZero() {
		c.bootedAt = c.clock.Now()
	}
	c.metrics.session.Set(float64(c.sessionID))
	return c
}

func (c *Controller) State() types.State { return c.state }

func (c *Controller) SessionID() uint32 { return c.sessionID }

// Run calls Step until ctx is cancelled, then powers the solenoid down.
func (c *Controller) Run(ctx context.Context) error {
	c.logger.Printf("[SYS] control loop started session=%d credentials=%d",
		c.sessionID, c.credentials.Len())
	for ctx.Err() == nil {
		c.Step(ctx)
	}
	c.solenoid.Off()
	c.logger.Printf("[SYS] control loop stopped")
	return nil
}

// Step runs one iteration of the control loop: refresh the indicator,
// enforce the unlock time limits, then handle at most one card read.
func (c *Controller) Step(ctx context.Context) {
	locked := c.door.IsLocked()
	c.indicator.ShowDoor(locked)
	c.metrics.door(locked)

	if c.state == types.StateUnlocking {
		c.checkUnlock(ctx, locked)
	}

	uid, ok := c.reader.TryRead(c.timing.ReadTimeout)
	if !ok || len(uid) == 0 {
		c.publish(locked)
		c.clock.Sleep(c.timing.LoopDelay)
		return
	}

	id := types.CredentialFromUID(uid)
	c.logger.Printf("[RFID] detected uid=%s", id)

	now := c.clock.Now()
	if id == c.lastCredential && now.Sub(c.lastSeenAt) < c.timing.Cooldown {
		c.logger.Printf("[RFID] ignored (cooldown)")
		c.decided(types.DecisionIgnored, now)
		c.publish(locked)
		c.clock.Sleep(c.timing.IgnoreDelay)
		return
	}
	c.lastCredential = id
	c.lastSeenAt = now

	if c.credentials.IsAuthorized(id) {
		c.grant(ctx, id)
	} else {
		c.deny(id)
	}

	c.publish(locked)
	c.clock.Sleep(c.timing.LoopDelay)
}

// checkUnlock applies the unlock protocol: power is held unconditionally
// for HoldPhase, then dropped as soon as the door reports open, and
// dropped regardless at MaxUnlock.
func (c *Controller) checkUnlock(ctx context.Context, locked bool) {
	elapsed := c.clock.Now().Sub(c.unlockStartedAt)
	if elapsed < c.timing.HoldPhase {
		return
	}

	if !locked {
		c.logger.Printf("[SOL] unlock detected, power off")
		c.release(ctx, types.ReleaseDoorOpened)
		return
	}

	if elapsed >= c.timing.MaxUnlock {
		c.logger.Printf("[SOL] still locked after %s, power off", c.timing.MaxUnlock)
		c.release(ctx, types.ReleaseTimeout)
	}
}

func (c *Controller) grant(ctx context.Context, id types.Credential) {
	c.logger.Printf("[AUTH] ok")

	c.solenoid.StrongPulse()
	c.clock.Sleep(c.timing.StrongPulse)
	c.solenoid.WeakHold()

	now := c.clock.Now()
	c.state = types.StateUnlocking
	c.unlockStartedAt = now
	c.metrics.unlocking.Set(1)
	c.decided(types.DecisionGranted, now)

	entry := types.AuditEntry{
		SessionID:  c.sessionID,
		ElapsedMS:  c.elapsedMS(now),
		Credential: id,
	}

	c.indicator.Set(c.indicator.Palette().Purple)
	if err := c.audit.Append(entry); err != nil {
		c.metrics.auditFailures.Inc()
		c.logger.Printf("[LOG] write failed: %v", err)
	} else {
		c.logger.Printf("[LOG] write ok: %d,%d,%s", entry.SessionID, entry.ElapsedMS, entry.Credential)
	}

	jctx, cancel := context.WithTimeout(ctx, journalTimeout)
	defer cancel()
	if err := c.journal.RecordGrant(jctx, types.GrantRecord{AuditEntry: entry, RecordedAt: now.UTC()}); err != nil {
		c.metrics.journalFailures.Inc()
		c.logger.Printf("[JOURNAL] grant not recorded: %v", err)
	}
}

func (c *Controller) deny(id types.Credential) {
	c.logger.Printf("[AUTH] failed uid=%s", id)
	c.decided(types.DecisionDenied, c.clock.Now())

	c.indicator.Set(c.indicator.Palette().Red)
	c.clock.Sleep(c.timing.DeniedHold)
	c.solenoid.Off()
}

func (c *Controller) release(ctx context.Context, reason types.ReleaseReason) {
	now := c.clock.Now()
	c.solenoid.Off()
	c.state = types.StateIdle
	c.metrics.release(reason)

	rec := types.ReleaseRecord{
		SessionID:  c.sessionID,
		StartedMS:  c.elapsedMS(c.unlockStartedAt),
		ReleasedMS: c.elapsedMS(now),
		Reason:     reason,
		RecordedAt: now.UTC(),
	}
	jctx, cancel := context.WithTimeout(ctx, journalTimeout)
	defer cancel()
	if err := c.journal.RecordRelease(jctx, rec); err != nil {
		c.metrics.journalFailures.Inc()
		c.logger.Printf("[JOURNAL] release not recorded: %v", err)
	}
}

func (c *Controller) decided(d types.Decision, at time.Time) {
	c.lastDecision = d
	c.lastDecisionAt = at
	c.metrics.decision(d)
}

// elapsedMS is milliseconds since boot, truncated to 32 bits like the
// device's uptime counter.
func (c *Controller) elapsedMS(t time.Time) uint32 {
	return uint32(t.Sub(c.bootedAt).Milliseconds())
}

func (c *Controller) publish(locked bool) {
	s := types.Status{
		SessionID:   c.sessionID,
		State:       c.state.String(),
		DoorLocked:  locked,
		UptimeMS:    c.elapsedMS(c.clock.Now()),
		Credentials: c.credentials.Len(),
	}
	if c.lastDecision != types.DecisionNone {
		s.LastDecision = c.lastDecision
		s.LastDecisionMS = c.elapsedMS(c.lastDecisionAt)
	}
	c.status.Publish(s)
}
