package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/julianstephens/tminus/internal/constants"
	"github.com/julianstephens/tminus/internal/utils"
)

type Config struct {
	DataDir         string `yaml:"data_dir"`
	Backend         string `yaml:"backend"`
	Debug           bool   `yaml:"debug"`
	Timezone        string `yaml:"timezone"`
	ExtendDays      int    `yaml:"extend_days"`
	NotesDebounceMs int    `yaml:"notes_debounce_ms"`
	MaxBackups      int    `yaml:"max_backups"`
}

func Default() Config {
	return Config{
		DataDir:         defaultDataDir(),
		Backend:         constants.BackendJSON,
		Timezone:        "Local",
		ExtendDays:      constants.DefaultExtendDays,
		NotesDebounceMs: int(constants.DefaultNotesDebounce / time.Millisecond),
		MaxBackups:      constants.MaxBackups,
	}
}

// Path returns the config file location: $TMINUS_CONFIG, else the user config dir.
func Path() (string, error) {
	if custom := os.Getenv(constants.EnvConfig); custom != "" {
		return ExpandHome(custom), nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return "", fmt.Errorf("failed to determine home directory: %w", homeErr)
		}
		return filepath.Join(home, "."+constants.AppName, constants.DefaultConfigFile), nil
	}
	return filepath.Join(dir, constants.AppName, constants.DefaultConfigFile), nil
}

// Load reads the YAML config at path. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file (%s): %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse YAML: %w", err)
	}

	cfg.DataDir = ExpandHome(cfg.DataDir)
	if cfg.DataDir == "" {
		cfg.DataDir = defaultDataDir()
	}
	if cfg.ExtendDays < 1 {
		cfg.ExtendDays = constants.DefaultExtendDays
	}
	if cfg.NotesDebounceMs <= 0 {
		cfg.NotesDebounceMs = int(constants.DefaultNotesDebounce / time.Millisecond)
	}
	if cfg.MaxBackups <= 0 {
		cfg.MaxBackups = constants.MaxBackups
	}

	return cfg, cfg.Validate()
}

// Save writes cfg as YAML, creating the parent directory.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}

func (c Config) Validate() error {
	switch c.Backend {
	case constants.BackendJSON, constants.BackendSQLite:
	default:
		return fmt.Errorf("invalid backend %q (expected %s or %s)", c.Backend, constants.BackendJSON, constants.BackendSQLite)
	}
	if !utils.ValidateTimezone(c.Timezone) {
		return fmt.Errorf("invalid timezone %q", c.Timezone)
	}
	return nil
}

func (c Config) Location() *time.Location {
	loc, err := utils.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

func (c Config) NotesDebounce() time.Duration {
	return time.Duration(c.NotesDebounceMs) * time.Millisecond
}

// StorePath is the file backing the configured key-value store.
func (c Config) StorePath() string {
	if c.Backend == constants.BackendSQLite {
		return filepath.Join(c.DataDir, constants.SQLiteStoreFile)
	}
	return filepath.Join(c.DataDir, constants.JSONStoreFile)
}

// ExpandHome expands a leading ~/ to the user's home directory.
func ExpandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "." + constants.AppName
	}
	return filepath.Join(home, ".local", "share", constants.AppName)
}
