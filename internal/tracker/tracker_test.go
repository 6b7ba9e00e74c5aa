package tracker

import (
	"errors"
	"testing"
	"time"

	"github.com/julianstephens/tminus/internal/constants"
	"github.com/julianstephens/tminus/internal/models"
	"github.com/julianstephens/tminus/internal/storage"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func newTestTracker(t *testing.T) (*Tracker, *storage.MemoryStore, *fakeClock) {
	t.Helper()
	mem := storage.NewMemoryStore()
	clock := &fakeClock{now: time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)}
	tr := New(storage.NewCollections(mem), WithClock(clock.Now), WithLocation(time.UTC))
	return tr, mem, clock
}

func TestAddCountdown(t *testing.T) {
	tr, mem, _ := newTestTracker(t)

	c, err := tr.AddCountdown("  Launch  ", "2024-02-01T10:00")
	if err != nil {
		t.Fatalf("AddCountdown failed: %v", err)
	}
	if c.Name != "Launch" || c.Status != models.StatusActive || c.ModifiedAt != nil {
		t.Errorf("unexpected countdown %+v", c)
	}
	if c.ID != time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC).UnixMilli() {
		t.Errorf("expected id from creation time, got %d", c.ID)
	}

	reloaded := New(storage.NewCollections(mem))
	if len(reloaded.Countdowns()) != 1 {
		t.Errorf("expected countdown to be persisted")
	}
}

func TestIDsStrictlyIncrease(t *testing.T) {
	tr, _, _ := newTestTracker(t)

	a, _ := tr.AddCountdown("A", "2024-02-01")
	b, _ := tr.AddCountdown("B", "2024-02-01")
	p, _ := tr.AddProject("P", "")
	if !(a.ID < b.ID && b.ID < p.ID) {
		t.Errorf("expected increasing ids, got %d %d %d", a.ID, b.ID, p.ID)
	}
}

func TestValidationDeclines(t *testing.T) {
	tr, _, _ := newTestTracker(t)

	tests := []struct {
		name string
		fn   func() error
	}{
		{"empty name", func() error { _, err := tr.AddCountdown(" ", "2024-02-01"); return err }},
		{"empty date", func() error { _, err := tr.AddCountdown("X", ""); return err }},
		{"bad date", func() error { _, err := tr.AddCountdown("X", "tomorrow"); return err }},
		{"empty project", func() error { _, err := tr.AddProject("", "teal"); return err }},
		{"bad color", func() error { _, err := tr.AddProject("X", "purple"); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.fn(); !errors.Is(err, ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}

	if len(tr.Countdowns()) != 0 || len(tr.Projects()) != 0 {
		t.Error("expected no records after failed validation")
	}
}

func TestLookupMiss(t *testing.T) {
	tr, _, _ := newTestTracker(t)

	if err := tr.EditCountdown(42, "X", "2024-02-01"); !errors.Is(err, ErrNotFound) {
		t.Errorf("EditCountdown: expected ErrNotFound, got %v", err)
	}
	if err := tr.DeleteCountdown(42); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteCountdown: expected ErrNotFound, got %v", err)
	}
	if _, err := tr.ArchiveCountdown(42); !errors.Is(err, ErrNotFound) {
		t.Errorf("ArchiveCountdown: expected ErrNotFound, got %v", err)
	}
	if err := tr.CancelProject(42); !errors.Is(err, ErrNotFound) {
		t.Errorf("CancelProject: expected ErrNotFound, got %v", err)
	}
	if _, err := tr.AddTimeEntry(42, "2024-01-01", 1, ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("AddTimeEntry: expected ErrNotFound, got %v", err)
	}
}

func TestEditStampsModified(t *testing.T) {
	tr, _, clock := newTestTracker(t)
	c, _ := tr.AddCountdown("Launch", "2024-02-01T10:00")

	clock.Advance(time.Hour)
	if err := tr.EditCountdown(c.ID, "Liftoff", "2024-02-02T09:30"); err != nil {
		t.Fatalf("EditCountdown failed: %v", err)
	}

	got, _ := tr.Countdown(c.ID)
	if got.Name != "Liftoff" || got.TargetDate != "2024-02-02T09:30" {
		t.Errorf("edit not applied: %+v", got)
	}
	if got.ModifiedAt == nil || !got.ModifiedAt.Equal(clock.now) {
		t.Errorf("expected modifiedAt %v, got %v", clock.now, got.ModifiedAt)
	}
	if !got.CreatedAt.Equal(clock.now.Add(-time.Hour)) {
		t.Errorf("createdAt should not change, got %v", got.CreatedAt)
	}
}

func TestPersistenceFailureLeavesStateUnchanged(t *testing.T) {
	tr, mem, _ := newTestTracker(t)
	c, _ := tr.AddCountdown("Launch", "2024-02-01T10:00")

	mem.FailWrites = true
	if err := tr.EditCountdown(c.ID, "Changed", "2024-03-01"); err == nil {
		t.Fatal("expected persistence error")
	}
	if _, err := tr.AddCountdown("Other", "2024-03-01"); err == nil {
		t.Fatal("expected persistence error")
	}
	if err := tr.DeleteCountdown(c.ID); err == nil {
		t.Fatal("expected persistence error")
	}

	got := tr.Countdowns()
	if len(got) != 1 || got[0].Name != "Launch" || got[0].ModifiedAt != nil {
		t.Errorf("in-memory state changed after failed write: %+v", got)
	}
}

func TestArchiveUnlocksOnce(t *testing.T) {
	tr, mem, _ := newTestTracker(t)
	a, _ := tr.AddCountdown("A", "2024-01-01")
	b, _ := tr.AddCountdown("B", "2024-01-02")

	unlocked, err := tr.ArchiveCountdown(a.ID)
	if err != nil || !unlocked {
		t.Fatalf("first archive should unlock, got %v %v", unlocked, err)
	}

	unlocked, err = tr.ArchiveCountdown(a.ID)
	if err != nil || unlocked {
		t.Errorf("repeat archive should be a silent no-op, got %v %v", unlocked, err)
	}
	got, _ := tr.Countdown(a.ID)
	if got.Status != models.StatusArchived {
		t.Errorf("expected archived, got %s", got.Status)
	}

	unlocked, _ = tr.ArchiveCountdown(b.ID)
	if unlocked {
		t.Error("unlock must fire only once")
	}

	reloaded := New(storage.NewCollections(mem))
	if !reloaded.Unlocked() {
		t.Error("expected unlock flag to persist")
	}
}

func TestTerminalStatusIsFinal(t *testing.T) {
	tr, _, _ := newTestTracker(t)
	c, _ := tr.AddCountdown("A", "2024-01-01")
	p, _ := tr.AddProject("P", "coral")

	if err := tr.CancelCountdown(c.ID); err != nil {
		t.Fatal(err)
	}
	if unlocked, err := tr.ArchiveCountdown(c.ID); err != nil || unlocked {
		t.Errorf("archive after cancel should no-op, got %v %v", unlocked, err)
	}
	got, _ := tr.Countdown(c.ID)
	if got.Status != models.StatusCanceled {
		t.Errorf("expected canceled, got %s", got.Status)
	}

	if err := tr.ArchiveProject(p.ID); err != nil {
		t.Fatal(err)
	}
	if err := tr.CancelProject(p.ID); err != nil {
		t.Fatal(err)
	}
	proj, _ := tr.Project(p.ID)
	if proj.Status != models.StatusArchived || proj.CompletedAt == nil || proj.CanceledAt != nil {
		t.Errorf("unexpected project after archive then cancel: %+v", proj)
	}
}

func TestExtendCountdown(t *testing.T) {
	tr, _, clock := newTestTracker(t)
	c, _ := tr.AddCountdown("A", "2024-01-01")

	tests := []struct {
		days int
		want time.Duration
	}{
		{3, 72 * time.Hour},
		{0, 24 * time.Hour},
		{-5, 24 * time.Hour},
	}

	for _, tt := range tests {
		if err := tr.ExtendCountdown(c.ID, tt.days); err != nil {
			t.Fatalf("ExtendCountdown(%d) failed: %v", tt.days, err)
		}
		got, _ := tr.Countdown(c.ID)
		target, err := got.Target(time.UTC)
		if err != nil {
			t.Fatalf("extended target does not parse: %v", err)
		}
		if !target.Equal(clock.now.Add(tt.want)) {
			t.Errorf("ExtendCountdown(%d) target = %v, want %v", tt.days, target, clock.now.Add(tt.want))
		}
		if got.Status != models.StatusActive {
			t.Errorf("expected active after extend, got %s", got.Status)
		}
	}
}

func TestExtendCountdownAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("timezone data unavailable: %v", err)
	}
	clock := &fakeClock{now: time.Date(2024, 3, 9, 12, 0, 0, 0, loc)}
	tr := New(storage.NewCollections(storage.NewMemoryStore()), WithClock(clock.Now), WithLocation(loc))
	c, _ := tr.AddCountdown("Spring", "2024-03-09T18:00")

	if err := tr.ExtendCountdown(c.ID, 2); err != nil {
		t.Fatalf("ExtendCountdown failed: %v", err)
	}
	got, _ := tr.Countdown(c.ID)
	target, err := got.Target(loc)
	if err != nil {
		t.Fatalf("extended target does not parse: %v", err)
	}
	want := time.Date(2024, 3, 11, 12, 0, 0, 0, loc)
	if !target.Equal(want) {
		t.Errorf("target = %v, want %v", target, want)
	}
	if target.Sub(clock.now) != 47*time.Hour {
		t.Errorf("expected a 47 hour extension across the switch, got %v", target.Sub(clock.now))
	}
}

func TestLegacyCountdownIsActive(t *testing.T) {
	mem := storage.NewMemoryStore()
	_ = mem.Set(constants.KeyCountdowns, []byte(`[{"id":1,"name":"old","targetDate":"2020-01-01T00:00","createdAt":"2019-12-01T00:00:00Z"}]`))
	tr := New(storage.NewCollections(mem), WithLocation(time.UTC))

	if got := tr.ActiveCountdowns(); len(got) != 1 || got[0].Name != "old" {
		t.Errorf("expected the status-less countdown in the active list, got %+v", got)
	}
}

func TestLinksAndNotes(t *testing.T) {
	tr, _, _ := newTestTracker(t)
	c, _ := tr.AddCountdown("A", "2024-02-01")

	if err := tr.AddCountdownLink(c.ID, "Docs", "example.com/docs"); err != nil {
		t.Fatal(err)
	}
	if err := tr.AddCountdownLink(c.ID, "Site", "http://example.com"); err != nil {
		t.Fatal(err)
	}
	if err := tr.AddCountdownLink(c.ID, "", "x.com"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for empty label, got %v", err)
	}

	got, _ := tr.Countdown(c.ID)
	if len(got.Links) != 2 || got.Links[0].URL != "https://example.com/docs" || got.Links[1].URL != "http://example.com" {
		t.Errorf("unexpected links %+v", got.Links)
	}

	if err := tr.DeleteCountdownLink(c.ID, 0); err != nil {
		t.Fatal(err)
	}
	if err := tr.DeleteCountdownLink(c.ID, 5); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for bad index, got %v", err)
	}
	got, _ = tr.Countdown(c.ID)
	if len(got.Links) != 1 || got.Links[0].Label != "Site" {
		t.Errorf("unexpected links after delete %+v", got.Links)
	}

	if err := tr.SetCountdownNotes(c.ID, "# Plan"); err != nil {
		t.Fatal(err)
	}
	got, _ = tr.Countdown(c.ID)
	if got.Notes != "# Plan" {
		t.Errorf("expected notes to be saved, got %q", got.Notes)
	}
}

func TestActiveCountdownsSortedByTarget(t *testing.T) {
	tr, _, _ := newTestTracker(t)
	_, _ = tr.AddCountdown("Later", "2024-03-01T00:00")
	_, _ = tr.AddCountdown("Soon", "2024-01-11T09:00")
	done, _ := tr.AddCountdown("Done", "2024-01-01")
	_, _ = tr.AddCountdown("Middle", "2024-02-01T00:00")
	_, _ = tr.ArchiveCountdown(done.ID)

	active := tr.ActiveCountdowns()
	want := []string{"Soon", "Middle", "Later"}
	if len(active) != len(want) {
		t.Fatalf("expected %d active, got %d", len(want), len(active))
	}
	for i, name := range want {
		if active[i].Name != name {
			t.Errorf("position %d: expected %s, got %s", i, name, active[i].Name)
		}
	}
	if len(tr.ArchivedCountdowns()) != 1 || len(tr.CanceledCountdowns()) != 0 {
		t.Error("unexpected status partition")
	}
}

func TestProjectsByStatusSortedByName(t *testing.T) {
	tr, _, _ := newTestTracker(t)
	_, _ = tr.AddProject("beta", "")
	_, _ = tr.AddProject("Alpha", "")
	_, _ = tr.AddProject("gamma", "")

	got := tr.ProjectsByStatus(models.StatusActive)
	want := []string{"Alpha", "beta", "gamma"}
	for i, name := range want {
		if got[i].Name != name {
			t.Errorf("position %d: expected %s, got %s", i, name, got[i].Name)
		}
	}
}

func TestTimeLog(t *testing.T) {
	tr, _, _ := newTestTracker(t)
	p, _ := tr.AddProject("P", "")

	first, err := tr.AddTimeEntry(p.ID, "2024-01-05", 1.5, "kickoff")
	if err != nil {
		t.Fatal(err)
	}
	second, _ := tr.AddTimeEntry(p.ID, "2024-01-08", 2.25, "")
	if _, err := tr.AddTimeEntry(p.ID, "2024-01-08", 0, ""); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for zero hours, got %v", err)
	}

	proj, _ := tr.Project(p.ID)
	if got := TotalHours(proj.TimeLog); got != 3.75 {
		t.Errorf("expected total 3.75, got %v", got)
	}

	sorted := SortedTimeLog(proj)
	if sorted[0].ID != second.ID || sorted[1].ID != first.ID {
		t.Errorf("expected newest first, got %+v", sorted)
	}

	// Display position 1 is the older entry
	id, err := tr.TimeEntryIDAt(p.ID, 1)
	if err != nil || id != first.ID {
		t.Fatalf("TimeEntryIDAt(1) = %d, %v; want %d", id, err, first.ID)
	}
	if err := tr.DeleteTimeEntry(p.ID, id); err != nil {
		t.Fatal(err)
	}
	proj, _ = tr.Project(p.ID)
	if len(proj.TimeLog) != 1 || proj.TimeLog[0].ID != second.ID {
		t.Errorf("wrong entry deleted: %+v", proj.TimeLog)
	}
	if err := tr.DeleteTimeEntry(p.ID, first.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing entry, got %v", err)
	}
}

func TestAddTimeEntryDefaultsToToday(t *testing.T) {
	tr, _, _ := newTestTracker(t)
	p, _ := tr.AddProject("P", "")

	entry, err := tr.AddTimeEntry(p.ID, "", 1, "")
	if err != nil {
		t.Fatal(err)
	}
	if entry.Date != "2024-01-10" {
		t.Errorf("expected today's date, got %s", entry.Date)
	}
}

func TestEntriesBetween(t *testing.T) {
	p := models.Project{TimeLog: []models.TimeEntry{
		{ID: 1, Date: "2024-01-10", Hours: 1},
		{ID: 2, Date: "2024-01-01", Hours: 1},
		{ID: 3, Date: "2024-01-31", Hours: 1},
		{ID: 4, Date: "2024-02-01", Hours: 1},
	}}

	got, err := EntriesBetween(p, "2024-01-01", "2024-01-31")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 || got[0].ID != 2 || got[1].ID != 1 || got[2].ID != 3 {
		t.Errorf("unexpected entries %+v", got)
	}

	if _, err := EntriesBetween(p, "01/01/2024", ""); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestImportProject(t *testing.T) {
	tr, _, clock := newTestTracker(t)
	completed := clock.now.Add(-time.Hour)

	got, err := tr.ImportProject(models.Project{
		ID:          7,
		Name:        "Imported",
		Status:      models.StatusArchived,
		CompletedAt: &completed,
		TimeLog:     []models.TimeEntry{{ID: 1, Date: "2024-01-01", Hours: 2}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if got.ID == 7 || got.Status != models.StatusActive || got.Color != models.ColorTeal {
		t.Errorf("unexpected imported project %+v", got)
	}
	if !got.CreatedAt.Equal(clock.now) || got.CompletedAt != nil {
		t.Errorf("expected fresh timestamps, got %+v", got)
	}
	if len(got.TimeLog) != 1 {
		t.Errorf("expected time log to carry over")
	}
}

func TestImportProjectTimeLog(t *testing.T) {
	tests := []struct {
		name  string
		entry models.TimeEntry
	}{
		{"negative hours", models.TimeEntry{ID: 1, Date: "2024-01-01", Hours: -3}},
		{"zero hours", models.TimeEntry{ID: 1, Date: "2024-01-01", Hours: 0}},
		{"bad date", models.TimeEntry{ID: 1, Date: "nope", Hours: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, mem, _ := newTestTracker(t)
			_, err := tr.ImportProject(models.Project{
				Name:    "Imported",
				TimeLog: []models.TimeEntry{{ID: 5, Date: "2024-01-02", Hours: 1}, tt.entry},
			})
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
			if len(tr.Projects()) != 0 || len(New(storage.NewCollections(mem)).Projects()) != 0 {
				t.Error("rejected import should not touch the store")
			}
		})
	}

	t.Run("duplicate ids are reissued", func(t *testing.T) {
		tr, _, _ := newTestTracker(t)
		got, err := tr.ImportProject(models.Project{
			Name: "Imported",
			TimeLog: []models.TimeEntry{
				{ID: 1, Date: "2024-01-01", Hours: 1},
				{ID: 1, Date: "2024-01-02", Hours: 2, Note: "second"},
			},
		})
		if err != nil {
			t.Fatal(err)
		}
		first, second := got.TimeLog[0].ID, got.TimeLog[1].ID
		if first == second || first <= got.ID || second <= first {
			t.Fatalf("expected fresh increasing entry ids, got project %d entries %d %d", got.ID, first, second)
		}

		if err := tr.DeleteTimeEntry(got.ID, second); err != nil {
			t.Fatal(err)
		}
		p, _ := tr.Project(got.ID)
		if len(p.TimeLog) != 1 || p.TimeLog[0].ID != first || p.TimeLog[0].Hours != 1 {
			t.Errorf("expected only the selected entry removed, got %+v", p.TimeLog)
		}
	})
}

func TestReplaceAllRollsBack(t *testing.T) {
	tr, mem, _ := newTestTracker(t)
	_, _ = tr.AddCountdown("Keep", "2024-02-01")

	if err := tr.ReplaceAll(nil, nil); err != nil {
		t.Fatal(err)
	}
	if len(tr.Countdowns()) != 0 {
		t.Error("expected collections to be replaced")
	}

	mem.FailWrites = true
	if err := tr.ReplaceAll([]models.Countdown{{ID: 1, Name: "X"}}, nil); err == nil {
		t.Error("expected persistence error")
	}
	if len(tr.Countdowns()) != 0 {
		t.Error("expected in-memory state untouched")
	}
}
