package tracker

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/tminus/internal/logger"
	"github.com/julianstephens/tminus/internal/models"
	"github.com/julianstephens/tminus/internal/storage"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
)

// errUnchanged lets a mutation bail out without writing anything.
var errUnchanged = errors.New("unchanged")

type Option func(*Tracker)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		t.now = now
	}
}

// WithLocation sets the zone used to read targets that carry no offset.
func WithLocation(loc *time.Location) Option {
	return func(t *Tracker) {
		if loc != nil {
			t.loc = loc
		}
	}
}

// Tracker owns the countdown and project collections. Every mutation builds
// the next collection, persists it, and only then replaces the in-memory copy.
type Tracker struct {
	store      *storage.Collections
	countdowns []models.Countdown
	projects   []models.Project
	unlocked   bool
	lastID     int64
	now        func() time.Time
	loc        *time.Location
}

func New(store *storage.Collections, opts ...Option) *Tracker {
	t := &Tracker{
		store: store,
		now:   time.Now,
		loc:   time.Local,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.countdowns = store.LoadCountdowns()
	t.projects = store.LoadProjects()
	t.unlocked = store.LoadUnlocked()
	t.seedIDs()
	logger.Debug("tracker loaded", "countdowns", len(t.countdowns), "projects", len(t.projects))
	return t
}

func (t *Tracker) Now() time.Time {
	return t.now()
}

func (t *Tracker) Location() *time.Location {
	return t.loc
}

// Unlocked reports whether the one-time unlock has fired.
func (t *Tracker) Unlocked() bool {
	return t.unlocked
}

// nextID hands out creation timestamps in milliseconds, bumped so two
// records created in the same millisecond still get distinct ids.
func (t *Tracker) nextID() int64 {
	id := t.now().UnixMilli()
	if id <= t.lastID {
		id = t.lastID + 1
	}
	t.lastID = id
	return id
}

func (t *Tracker) seedIDs() {
	t.lastID = 0
	for _, c := range t.countdowns {
		t.lastID = max(t.lastID, c.ID)
	}
	for _, p := range t.projects {
		t.lastID = max(t.lastID, p.ID)
		for _, e := range p.TimeLog {
			t.lastID = max(t.lastID, e.ID)
		}
	}
}

func (t *Tracker) stamp() *time.Time {
	now := t.now()
	return &now
}

// Snapshot returns deep copies of both collections.
func (t *Tracker) Snapshot() ([]models.Countdown, []models.Project) {
	return t.Countdowns(), t.Projects()
}

// ReplaceAll swaps both collections wholesale. If the second write fails the
// first is rolled back so the store is never left half replaced.
func (t *Tracker) ReplaceAll(countdowns []models.Countdown, projects []models.Project) error {
	if countdowns == nil {
		countdowns = []models.Countdown{}
	}
	if projects == nil {
		projects = []models.Project{}
	}
	nextCountdowns := cloneCountdowns(countdowns)
	nextProjects := cloneProjects(projects)

	if err := t.store.SaveCountdowns(nextCountdowns); err != nil {
		return err
	}
	if err := t.store.SaveProjects(nextProjects); err != nil {
		if rbErr := t.store.SaveCountdowns(t.countdowns); rbErr != nil {
			logger.Error("failed to roll back countdowns", "error", rbErr)
		}
		return err
	}

	t.countdowns = nextCountdowns
	t.projects = nextProjects
	t.seedIDs()
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

func notFound(kind string, id int64) error {
	return fmt.Errorf("%w: %s %d", ErrNotFound, kind, id)
}

func requireName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", invalid("name cannot be empty")
	}
	return name, nil
}

func sortByName(projects []models.Project) {
	sort.SliceStable(projects, func(i, j int) bool {
		return strings.ToLower(projects[i].Name) < strings.ToLower(projects[j].Name)
	})
}

func cloneCountdowns(in []models.Countdown) []models.Countdown {
	out := make([]models.Countdown, len(in))
	for i, c := range in {
		out[i] = c.Clone()
	}
	return out
}

func cloneProjects(in []models.Project) []models.Project {
	out := make([]models.Project, len(in))
	for i, p := range in {
		out[i] = p.Clone()
	}
	return out
}
