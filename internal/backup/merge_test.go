package backup

import (
	"errors"
	"testing"
	"time"

	"github.com/julianstephens/tminus/internal/models"
	"github.com/julianstephens/tminus/internal/storage"
	"github.com/julianstephens/tminus/internal/tracker"
)

func newEmptyTracker(t *testing.T) (*tracker.Tracker, *storage.MemoryStore) {
	t.Helper()
	mem := storage.NewMemoryStore()
	now := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	tr := tracker.New(storage.NewCollections(mem),
		tracker.WithClock(func() time.Time { return now }), tracker.WithLocation(time.UTC))
	return tr, mem
}

func at(hour int) *time.Time {
	t := time.Date(2024, 1, 1, hour, 0, 0, 0, time.UTC)
	return &t
}

func TestMergeIntoEmptyStore(t *testing.T) {
	tr, _ := newEmptyTracker(t)
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := &Snapshot{
		Countdowns: []models.Countdown{
			{ID: 1, Name: "A", TargetDate: "2024-02-01", Status: models.StatusActive, CreatedAt: created},
			{ID: 2, Name: "B", TargetDate: "2024-02-02", Status: models.StatusActive, CreatedAt: created},
			{ID: 3, Name: "C", TargetDate: "2024-02-03", Status: models.StatusArchived, CreatedAt: created},
		},
		Projects: []models.Project{
			{ID: 4, Name: "P", Status: models.StatusActive, Color: models.ColorTeal, CreatedAt: created},
		},
	}

	report, err := Import(tr, s, ModeMerge)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	want := Report{Countdowns: Counts{Added: 3}, Projects: Counts{Added: 1}}
	if report != want {
		t.Errorf("expected %+v, got %+v", want, report)
	}
	if len(tr.Countdowns()) != 3 || len(tr.Projects()) != 1 {
		t.Error("expected imported records in the store")
	}
}

func TestMergeConflictResolution(t *testing.T) {
	tests := []struct {
		name        string
		existing    *time.Time
		incoming    *time.Time
		wantName    string
		wantUpdated int
	}{
		{"incoming newer", at(1), at(2), "incoming", 1},
		{"incoming older", at(2), at(1), "existing", 0},
		{"equal", at(2), at(2), "existing", 0},
		{"existing unmodified", nil, at(1), "incoming", 1},
		{"incoming unmodified", at(1), nil, "existing", 0},
	}

	created := time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			existing := []models.Countdown{{ID: 5, Name: "existing", CreatedAt: created, ModifiedAt: tt.existing}}
			incoming := []models.Countdown{{ID: 5, Name: "incoming", CreatedAt: created, ModifiedAt: tt.incoming}}

			merged, counts := MergeCountdowns(existing, incoming)
			if len(merged) != 1 || merged[0].Name != tt.wantName {
				t.Errorf("expected %s to win, got %+v", tt.wantName, merged)
			}
			if counts.Updated != tt.wantUpdated || counts.Added != 0 {
				t.Errorf("unexpected counts %+v", counts)
			}
		})
	}
}

func TestMergeMissingTimestampsUseEpoch(t *testing.T) {
	existing := []models.Project{{ID: 1, Name: "existing"}}
	incoming := []models.Project{{ID: 1, Name: "incoming", CreatedAt: time.Date(1971, 1, 1, 0, 0, 0, 0, time.UTC)}}

	merged, counts := MergeProjects(existing, incoming)
	if merged[0].Name != "incoming" || counts.Updated != 1 {
		t.Errorf("expected record with a timestamp to beat epoch, got %+v %+v", merged, counts)
	}
}

func TestMergeUnchangedCopyIsNoop(t *testing.T) {
	tr, _ := newEmptyTracker(t)
	c, _ := tr.AddCountdown("A", "2024-02-01")
	p, _ := tr.AddProject("P", "")

	report, err := Import(tr, &Snapshot{Countdowns: []models.Countdown{c}, Projects: []models.Project{p}}, ModeMerge)
	if err != nil {
		t.Fatal(err)
	}
	if report != (Report{}) {
		t.Errorf("expected no changes, got %+v", report)
	}
}

func TestMergeNeverDeletes(t *testing.T) {
	tr, _ := newEmptyTracker(t)
	_, _ = tr.AddCountdown("Keep", "2024-02-01")

	report, err := Import(tr, &Snapshot{Countdowns: []models.Countdown{{ID: 1, Name: "New", TargetDate: "2024-03-01", Status: models.StatusActive}}}, ModeMerge)
	if err != nil {
		t.Fatal(err)
	}
	if report.Countdowns.Added != 1 || len(tr.Countdowns()) != 2 {
		t.Errorf("expected existing record kept, got %+v and %d records", report, len(tr.Countdowns()))
	}
}

func TestMergeAcceptsNewerTerminalToActive(t *testing.T) {
	tr, _ := newEmptyTracker(t)
	c, _ := tr.AddCountdown("A", "2024-02-01")
	_ = tr.CancelCountdown(c.ID)

	incoming, _ := tr.Countdown(c.ID)
	incoming.Status = models.StatusActive
	later := incoming.ModifiedAt.Add(time.Hour)
	incoming.ModifiedAt = &later

	if _, err := Import(tr, &Snapshot{Countdowns: []models.Countdown{incoming}}, ModeMerge); err != nil {
		t.Fatal(err)
	}
	got, _ := tr.Countdown(c.ID)
	if got.Status != models.StatusActive {
		t.Errorf("expected newer import to win, got %s", got.Status)
	}
}

func TestReplaceImport(t *testing.T) {
	tr, _ := newEmptyTracker(t)
	_, _ = tr.AddCountdown("Old", "2024-02-01")
	_, _ = tr.AddProject("Old", "")

	report, err := Import(tr, &Snapshot{Countdowns: []models.Countdown{{ID: 1, Name: "New", TargetDate: "2024-03-01", Status: models.StatusActive}}}, ModeReplace)
	if err != nil {
		t.Fatal(err)
	}
	if report.Countdowns.Added != 1 || report.Projects.Added != 0 {
		t.Errorf("unexpected report %+v", report)
	}
	countdowns := tr.Countdowns()
	if len(countdowns) != 1 || countdowns[0].Name != "New" || len(tr.Projects()) != 0 {
		t.Errorf("expected collections to be replaced, got %+v %+v", countdowns, tr.Projects())
	}
}

func TestImportRejectsBeforeMutation(t *testing.T) {
	tr, _ := newEmptyTracker(t)
	_, _ = tr.AddCountdown("Keep", "2024-02-01")

	if _, err := Import(tr, &Snapshot{}, ModeReplace); !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("expected ErrInvalidFormat, got %v", err)
	}
	if len(tr.Countdowns()) != 1 {
		t.Error("store should be untouched")
	}
}

func TestImportPersistenceFailure(t *testing.T) {
	tr, mem := newEmptyTracker(t)
	_, _ = tr.AddCountdown("Keep", "2024-02-01")
	mem.FailWrites = true

	if _, err := Import(tr, &Snapshot{Countdowns: []models.Countdown{}}, ModeReplace); err == nil {
		t.Error("expected persistence error")
	}
	if len(tr.Countdowns()) != 1 {
		t.Error("store should be untouched")
	}
}

func TestImportSingleProject(t *testing.T) {
	tr, _ := newEmptyTracker(t)

	p, err := ImportSingleProject(tr, &ProjectExport{Project: ProjectBody{
		Name:    "Solo",
		Color:   models.ColorMustard,
		TimeLog: []models.TimeEntry{{ID: 1, Date: "2024-01-01", Hours: 1}},
	}})
	if err != nil {
		t.Fatal(err)
	}
	if p.Status != models.StatusActive || p.Color != models.ColorMustard || p.ID == 0 {
		t.Errorf("unexpected project %+v", p)
	}
}

func TestParseMode(t *testing.T) {
	if m, err := ParseMode(""); err != nil || m != ModeMerge {
		t.Errorf("expected merge default, got %v %v", m, err)
	}
	if _, err := ParseMode("overwrite"); err == nil {
		t.Error("expected error for unknown mode")
	}
}
