package poller

import (
	"context"
	"errors"
	"time"

	"github.com/julianstephens/tminus/internal/logger"
	"github.com/julianstephens/tminus/internal/models"
	"github.com/julianstephens/tminus/internal/tracker"
)

var ErrNoPending = errors.New("no completion pending")

// Poller surfaces countdowns whose target has passed, one at a time. The only
// state it keeps is the prompt currently waiting on a decision.
type Poller struct {
	tracker *tracker.Tracker
	pending *models.Countdown
}

func New(t *tracker.Tracker) *Poller {
	return &Poller{tracker: t}
}

// Tick looks for the first active countdown, in store order, whose target is
// at or before now. It reports a countdown only when it becomes the pending
// prompt; while a prompt is pending nothing else is surfaced.
func (p *Poller) Tick(now time.Time) (models.Countdown, bool) {
	if p.pending != nil {
		return models.Countdown{}, false
	}
	loc := p.tracker.Location()
	for _, c := range p.tracker.Countdowns() {
		if c.Status != models.StatusActive {
			continue
		}
		target, err := c.Target(loc)
		if err != nil {
			continue
		}
		if !target.After(now) {
			found := c
			p.pending = &found
			logger.Debug("countdown reached target", "id", c.ID, "name", c.Name)
			return c, true
		}
	}
	return models.Countdown{}, false
}

func (p *Poller) Pending() (models.Countdown, bool) {
	if p.pending == nil {
		return models.Countdown{}, false
	}
	return p.pending.Clone(), true
}

// Confirm archives the pending countdown. unlocked is true on the first
// archive the store has ever seen.
func (p *Poller) Confirm() (bool, error) {
	id, err := p.take()
	if err != nil {
		return false, err
	}
	return p.tracker.ArchiveCountdown(id)
}

// Extend pushes the pending countdown out by days and leaves it active.
func (p *Poller) Extend(days int) error {
	id, err := p.take()
	if err != nil {
		return err
	}
	return p.tracker.ExtendCountdown(id, days)
}

func (p *Poller) Cancel() error {
	id, err := p.take()
	if err != nil {
		return err
	}
	return p.tracker.CancelCountdown(id)
}

// Dismiss closes the prompt without a decision. The countdown is still past
// its target, so a later tick offers it again.
func (p *Poller) Dismiss() {
	p.pending = nil
}

func (p *Poller) take() (int64, error) {
	if p.pending == nil {
		return 0, ErrNoPending
	}
	id := p.pending.ID
	p.pending = nil
	return id, nil
}

// Run calls Tick every interval until ctx is done, passing each surfaced
// countdown to handle. handle runs on the polling goroutine and is expected
// to resolve or dismiss the prompt before returning.
func (p *Poller) Run(ctx context.Context, interval time.Duration, handle func(models.Countdown)) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			if c, ok := p.Tick(now); ok {
				handle(c)
			}
		}
	}
}
