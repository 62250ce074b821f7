package boundary

import (
	"context"
	"time"

	"github.com/julianstephens/weekplan/internal/constants"
	"github.com/julianstephens/weekplan/internal/models"
	"github.com/julianstephens/weekplan/internal/timeutil"
)

// Watcher polls today's blocks on a fixed interval and invokes a callback
// with each check result. Detection only happens while Run is active; a
// block that ends between sessions produces no retroactive notification.
type Watcher struct {
	// Interval between polls. Zero means the default.
	Interval time.Duration
	// Load returns the current set of blocks for the given date key.
	Load func(date string) ([]models.TimeBlock, error)
	// OnCheck receives the result of every poll.
	OnCheck func(Check)
	// Now is overridable for tests. Nil means time.Now.
	Now func() time.Time
}

// Run polls until the context is cancelled, starting with an immediate
// check. Load errors skip the tick rather than aborting the watch.
func (w *Watcher) Run(ctx context.Context) error {
	interval := w.Interval
	if interval <= 0 {
		interval = constants.BoundaryPollInterval
	}
	now := w.Now
	if now == nil {
		now = time.Now
	}

	st := NewState()
	st = w.tick(st, now())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			st = w.tick(st, now())
		}
	}
}

func (w *Watcher) tick(st State, now time.Time) State {
	blocks, err := w.Load(timeutil.DateKey(now))
	if err != nil {
		return st
	}
	st, check := Poll(st, blocks, now)
	if w.OnCheck != nil {
		w.OnCheck(check)
	}
	return st
}
