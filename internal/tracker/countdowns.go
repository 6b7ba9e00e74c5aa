package tracker

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/tminus/internal/logger"
	"github.com/julianstephens/tminus/internal/models"
)

// Countdowns returns every countdown in store order.
func (t *Tracker) Countdowns() []models.Countdown {
	return cloneCountdowns(t.countdowns)
}

func (t *Tracker) Countdown(id int64) (models.Countdown, error) {
	idx := t.countdownIndex(id)
	if idx < 0 {
		return models.Countdown{}, notFound("countdown", id)
	}
	return t.countdowns[idx].Clone(), nil
}

// ActiveCountdowns returns active countdowns soonest first. Targets that no
// longer parse sort last.
func (t *Tracker) ActiveCountdowns() []models.Countdown {
	active := t.countdownsWithStatus(models.StatusActive)
	sort.SliceStable(active, func(i, j int) bool {
		ti, errI := active[i].Target(t.loc)
		tj, errJ := active[j].Target(t.loc)
		switch {
		case errI != nil:
			return false
		case errJ != nil:
			return true
		}
		return ti.Before(tj)
	})
	return active
}

func (t *Tracker) ArchivedCountdowns() []models.Countdown {
	return t.countdownsWithStatus(models.StatusArchived)
}

func (t *Tracker) CanceledCountdowns() []models.Countdown {
	return t.countdownsWithStatus(models.StatusCanceled)
}

func (t *Tracker) countdownsWithStatus(status models.Status) []models.Countdown {
	out := []models.Countdown{}
	for _, c := range t.countdowns {
		if c.Status == status {
			out = append(out, c.Clone())
		}
	}
	return out
}

func (t *Tracker) AddCountdown(name, target string) (models.Countdown, error) {
	name, err := requireName(name)
	if err != nil {
		return models.Countdown{}, err
	}
	target, err = t.checkTarget(target)
	if err != nil {
		return models.Countdown{}, err
	}

	c := models.Countdown{
		ID:         t.nextID(),
		Name:       name,
		TargetDate: target,
		Status:     models.StatusActive,
		CreatedAt:  t.now(),
	}
	next := append(cloneCountdowns(t.countdowns), c)
	if err := t.store.SaveCountdowns(next); err != nil {
		return models.Countdown{}, err
	}
	t.countdowns = next
	logger.Info("countdown added", "id", c.ID, "name", c.Name)
	return c.Clone(), nil
}

// EditCountdown renames and reschedules a countdown.
func (t *Tracker) EditCountdown(id int64, name, target string) error {
	name, err := requireName(name)
	if err != nil {
		return err
	}
	target, err = t.checkTarget(target)
	if err != nil {
		return err
	}
	return t.updateCountdown(id, func(c *models.Countdown) error {
		c.Name = name
		c.TargetDate = target
		return nil
	})
}

func (t *Tracker) DeleteCountdown(id int64) error {
	idx := t.countdownIndex(id)
	if idx < 0 {
		return notFound("countdown", id)
	}
	next := make([]models.Countdown, 0, len(t.countdowns)-1)
	next = append(next, cloneCountdowns(t.countdowns[:idx])...)
	next = append(next, cloneCountdowns(t.countdowns[idx+1:])...)
	if err := t.store.SaveCountdowns(next); err != nil {
		return err
	}
	t.countdowns = next
	logger.Info("countdown deleted", "id", id)
	return nil
}

// ArchiveCountdown marks an active countdown complete. The returned flag is
// true only for the first archive the store has ever seen.
func (t *Tracker) ArchiveCountdown(id int64) (bool, error) {
	archived := false
	err := t.updateCountdown(id, func(c *models.Countdown) error {
		if c.Status.IsTerminal() {
			return errUnchanged
		}
		c.Status = models.StatusArchived
		archived = true
		return nil
	})
	if err != nil || !archived || t.unlocked {
		return false, err
	}

	t.unlocked = true
	if err := t.store.SaveUnlocked(true); err != nil {
		logger.Warn("failed to persist unlock flag", "error", err)
	}
	logger.Info("unlock fired", "countdown", id)
	return true, nil
}

func (t *Tracker) CancelCountdown(id int64) error {
	return t.updateCountdown(id, func(c *models.Countdown) error {
		if c.Status.IsTerminal() {
			return errUnchanged
		}
		c.Status = models.StatusCanceled
		return nil
	})
}

// ExtendCountdown pushes the target to the same wall-clock time days calendar
// days from now. Anything under one day counts as one.
func (t *Tracker) ExtendCountdown(id int64, days int) error {
	if days < 1 {
		days = 1
	}
	target := t.now().In(t.loc).AddDate(0, 0, days).Format(time.RFC3339)
	return t.updateCountdown(id, func(c *models.Countdown) error {
		c.TargetDate = target
		return nil
	})
}

func (t *Tracker) AddCountdownLink(id int64, label, url string) error {
	link, err := models.NewLink(label, url)
	if err != nil {
		return invalid("%s", err.Error())
	}
	return t.updateCountdown(id, func(c *models.Countdown) error {
		c.Links = append(c.Links, link)
		return nil
	})
}

func (t *Tracker) DeleteCountdownLink(id int64, index int) error {
	return t.updateCountdown(id, func(c *models.Countdown) error {
		if index < 0 || index >= len(c.Links) {
			return invalid("no link at position %d", index)
		}
		c.Links = append(c.Links[:index], c.Links[index+1:]...)
		return nil
	})
}

func (t *Tracker) SetCountdownNotes(id int64, notes string) error {
	return t.updateCountdown(id, func(c *models.Countdown) error {
		if c.Notes == notes {
			return errUnchanged
		}
		c.Notes = notes
		return nil
	})
}

func (t *Tracker) updateCountdown(id int64, fn func(*models.Countdown) error) error {
	idx := t.countdownIndex(id)
	if idx < 0 {
		return notFound("countdown", id)
	}
	next := cloneCountdowns(t.countdowns)
	if err := fn(&next[idx]); err != nil {
		if errors.Is(err, errUnchanged) {
			return nil
		}
		return err
	}
	next[idx].ModifiedAt = t.stamp()
	if err := t.store.SaveCountdowns(next); err != nil {
		return err
	}
	t.countdowns = next
	return nil
}

func (t *Tracker) countdownIndex(id int64) int {
	for i, c := range t.countdowns {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func (t *Tracker) checkTarget(target string) (string, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return "", invalid("target date cannot be empty")
	}
	if _, err := models.ParseTarget(target, t.loc); err != nil {
		return "", invalid("%s", err.Error())
	}
	return target, nil
}
