package service

import (
	"context"
	"log"
	"time"

	"github.com/BrandonDHaskell/Portunus/controller/internal/clock"
	"github.com/BrandonDHaskell/Portunus/controller/internal/portunus/store"
)

// JournalPruner periodically deletes journal rows older than a
// configurable retention period.  It runs as a background goroutine and
// is safe to stop via its context or the Stop method.
//
// A retention of 0 disables pruning entirely.
type JournalPruner struct {
	journal   store.EventJournal
	clock     clock.Clock
	retention time.Duration
	interval  time.Duration
	logger    *log.Logger
	cancel    context.CancelFunc
	done      chan struct{}
}

// PrunerConfig holds the parameters for NewJournalPruner.
type PrunerConfig struct {
	// RetentionDays is how many days of journal history to keep.
	// 0 means keep everything (pruner will not start).
	RetentionDays int

	// IntervalHours is how often the pruner runs.  Defaults to 6.
	IntervalHours int
}

// NewJournalPruner creates a pruner but does not start it. The cutoff is
// taken from c, the same clock that stamps journal records.
func NewJournalPruner(j store.EventJournal, cfg PrunerConfig, c clock.Clock, logger *log.Logger) *JournalPruner {
	interval := time.Duration(cfg.IntervalHours) * time.Hour
	if interval <= 0 {
		interval = 6 * time.Hour
	}

	return &JournalPruner{
		journal:   j,
		clock:     c,
		retention: time.Duration(cfg.RetentionDays) * 24 * time.Hour,
		interval:  interval,
		logger:    logger,
		done:      make(chan struct{}),
	}
}

// Start runs an immediate prune, then repeats on the configured interval
// until ctx is cancelled or Stop is called.
func (p *JournalPruner) Start(ctx context.Context) {
	if p.retention <= 0 {
		p.logger.Printf("journal pruner disabled (retention=0)")
		close(p.done)
		return
	}

	ctx, p.cancel = context.WithCancel(ctx)

	go p.loop(ctx)

	p.logger.Printf("journal pruner started (retention=%dd, interval=%dh)",
		int(p.retention.Hours()/24), int(p.interval.Hours()))
}

// Stop signals the pruner to exit and waits for it to finish.
func (p *JournalPruner) Stop() {
	if p.cancel != nil {
		p.cancel()
	}
	<-p.done
}

func (p *JournalPruner) loop(ctx context.Context) {
	defer close(p.done)

	p.prune(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.prune(ctx)
		}
	}
}

func (p *JournalPruner) prune(ctx context.Context) {
	cutoff := p.clock.Now().UTC().Add(-p.retention)
	deleted, err := p.journal.PruneOlderThan(ctx, cutoff)
	if err != nil {
		p.logger.Printf("journal prune error: %v", err)
		return
	}
	if deleted > 0 {
		p.logger.Printf("journal prune: deleted %d rows older than %s",
			deleted, cutoff.Format(time.RFC3339))
	}
}
