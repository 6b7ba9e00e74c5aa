package storage

import (
	"encoding/json"
	"fmt"

	"github.com/julianstephens/tminus/internal/constants"
	"github.com/julianstephens/tminus/internal/logger"
	"github.com/julianstephens/tminus/internal/models"
)

// Collections serializes whole collections to and from a Provider. It holds
// no copy of the data: every call goes straight to the store.
type Collections struct {
	provider Provider
}

func NewCollections(p Provider) *Collections {
	return &Collections{provider: p}
}

func (c *Collections) Provider() Provider {
	return c.provider
}

// LoadCountdowns decodes the stored countdowns, or returns an empty slice if
// the key is absent or its value cannot be decoded.
func (c *Collections) LoadCountdowns() []models.Countdown {
	var out []models.Countdown
	if !c.decode(constants.KeyCountdowns, &out) || out == nil {
		return []models.Countdown{}
	}
	return out
}

func (c *Collections) SaveCountdowns(countdowns []models.Countdown) error {
	return c.encode(constants.KeyCountdowns, countdowns)
}

func (c *Collections) LoadProjects() []models.Project {
	var out []models.Project
	if !c.decode(constants.KeyProjects, &out) || out == nil {
		return []models.Project{}
	}
	return out
}

func (c *Collections) SaveProjects(projects []models.Project) error {
	return c.encode(constants.KeyProjects, projects)
}

// LoadUnlocked reports whether the one-time unlock has already fired.
func (c *Collections) LoadUnlocked() bool {
	var unlocked bool
	if !c.decode(constants.KeyUnlocked, &unlocked) {
		return false
	}
	return unlocked
}

func (c *Collections) SaveUnlocked(unlocked bool) error {
	return c.encode(constants.KeyUnlocked, unlocked)
}

func (c *Collections) decode(key string, v any) bool {
	data, ok, err := c.provider.Get(key)
	if err != nil {
		logger.Warn("failed to read stored collection, using empty", "key", key, "error", err)
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		logger.Warn("stored collection is corrupt, using empty", "key", key, "error", err)
		return false
	}
	return true
}

func (c *Collections) encode(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to serialize %s: %w", key, err)
	}
	if err := c.provider.Set(key, data); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}
