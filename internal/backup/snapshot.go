package backup

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/tminus/internal/constants"
	"github.com/julianstephens/tminus/internal/models"
	"github.com/julianstephens/tminus/internal/tracker"
)

// ErrInvalidFormat is returned for documents that are not a usable backup.
// Nothing is imported when it is returned.
var ErrInvalidFormat = errors.New("invalid backup format")

// Snapshot is a full backup of both collections.
type Snapshot struct {
	Version    int                `json:"version"`
	ExportedAt time.Time          `json:"exportedAt"`
	Countdowns []models.Countdown `json:"countdowns"`
	Projects   []models.Project   `json:"projects"`
}

// ProjectExport carries one project without its identity or lifecycle.
type ProjectExport struct {
	Type       string      `json:"type"`
	Version    int         `json:"version"`
	ExportedAt time.Time   `json:"exportedAt"`
	Project    ProjectBody `json:"project"`
}

type ProjectBody struct {
	Name    string             `json:"name"`
	Color   models.Color       `json:"color"`
	Links   []models.Link      `json:"links"`
	Notes   string             `json:"notes"`
	TimeLog []models.TimeEntry `json:"timeLog"`
}

// Document is whatever a backup file turned out to hold. Exactly one field is set.
type Document struct {
	Snapshot *Snapshot
	Project  *ProjectExport
}

// ParseDocument reads either a full backup or a single-project export.
func ParseDocument(data []byte) (Document, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	if head.Type == constants.ProjectExportType {
		p, err := ParseProjectExport(data)
		if err != nil {
			return Document{}, err
		}
		return Document{Project: p}, nil
	}
	s, err := ParseSnapshot(data)
	if err != nil {
		return Document{}, err
	}
	return Document{Snapshot: s}, nil
}

// ParseSnapshot decodes a full backup. countdowns must be present and be a
// list; a missing projects list is read as empty.
func ParseSnapshot(data []byte) (*Snapshot, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	countdownsRaw, ok := raw["countdowns"]
	if !ok || !isArray(countdownsRaw) {
		return nil, fmt.Errorf("%w: countdowns must be a list", ErrInvalidFormat)
	}
	s := &Snapshot{}
	if err := json.Unmarshal(countdownsRaw, &s.Countdowns); err != nil {
		return nil, fmt.Errorf("%w: countdowns: %v", ErrInvalidFormat, err)
	}

	s.Projects = []models.Project{}
	if projectsRaw, ok := raw["projects"]; ok && !isNull(projectsRaw) {
		if !isArray(projectsRaw) {
			return nil, fmt.Errorf("%w: projects must be a list", ErrInvalidFormat)
		}
		if err := json.Unmarshal(projectsRaw, &s.Projects); err != nil {
			return nil, fmt.Errorf("%w: projects: %v", ErrInvalidFormat, err)
		}
	}

	if v, ok := raw["version"]; ok {
		_ = json.Unmarshal(v, &s.Version)
	}
	if v, ok := raw["exportedAt"]; ok {
		_ = json.Unmarshal(v, &s.ExportedAt)
	}

	for i := range s.Countdowns {
		if s.Countdowns[i].Status == "" {
			s.Countdowns[i].Status = models.StatusActive
		}
	}
	return s, nil
}

func ParseProjectExport(data []byte) (*ProjectExport, error) {
	p := &ProjectExport{}
	if err := json.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	if p.Type != constants.ProjectExportType {
		return nil, fmt.Errorf("%w: not a single-project export", ErrInvalidFormat)
	}
	if p.Project.Name == "" {
		return nil, fmt.Errorf("%w: project has no name", ErrInvalidFormat)
	}
	return p, nil
}

// Export captures the tracker's current state as a full backup.
func Export(t *tracker.Tracker, now time.Time) Snapshot {
	countdowns, projects := t.Snapshot()
	return Snapshot{
		Version:    constants.ExportVersion,
		ExportedAt: now.UTC(),
		Countdowns: countdowns,
		Projects:   projects,
	}
}

func (s Snapshot) Marshal() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

func ExportFilename(now time.Time) string {
	return fmt.Sprintf("%s%s%s", constants.BackupFilePrefix, now.Format(constants.DateFormat), constants.BackupFileSuffix)
}

func ExportProject(p models.Project, now time.Time) ProjectExport {
	links := p.Links
	if links == nil {
		links = []models.Link{}
	}
	timeLog := p.TimeLog
	if timeLog == nil {
		timeLog = []models.TimeEntry{}
	}
	return ProjectExport{
		Type:       constants.ProjectExportType,
		Version:    constants.ProjectExportVer,
		ExportedAt: now.UTC(),
		Project: ProjectBody{
			Name:    p.Name,
			Color:   p.Color,
			Links:   links,
			Notes:   p.Notes,
			TimeLog: timeLog,
		},
	}
}

func (p ProjectExport) Marshal() ([]byte, error) {
	return json.MarshalIndent(p, "", "  ")
}

func ProjectExportFilename(p models.Project) string {
	return fmt.Sprintf("project-%s.json", Slug(p.Name, constants.SlugMaxLen))
}

func isArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
