package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/tminus/internal/logger"
)

type Store struct {
	Version int               `json:"version"`
	Entries map[string]string `json:"entries"`
}

// JSONStore keeps every key in one JSON document on disk.
type JSONStore struct {
	path  string
	store *Store
}

func NewJSONStore(configPath string) *JSONStore {
	return &JSONStore{
		path: configPath,
	}
}

func (s *JSONStore) Init() error {
	// Create config directory if it doesn't exist
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Check if file already exists
	if _, err := os.Stat(s.path); err == nil {
		return fmt.Errorf("storage already initialized at %s", s.path)
	}

	s.store = newEmptyStore()
	return s.save()
}

// Load reads the document. A missing file is an empty store; a corrupt one is
// copied aside, logged, and also treated as empty.
func (s *JSONStore) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.store = newEmptyStore()
			return nil
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	store := &Store{}
	if err := json.Unmarshal(data, store); err != nil {
		aside := s.path + ".corrupt"
		if writeErr := os.WriteFile(aside, data, 0600); writeErr != nil {
			logger.Warn("failed to preserve corrupt storage file", "path", aside, "error", writeErr)
		}
		logger.Warn("storage file is corrupt, starting empty", "path", s.path, "error", err)
		s.store = newEmptyStore()
		return nil
	}

	// Ensure map is initialized
	if store.Entries == nil {
		store.Entries = make(map[string]string)
	}
	s.store = store
	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) Get(key string) ([]byte, bool, error) {
	if s.store == nil {
		return nil, false, fmt.Errorf("storage not loaded")
	}
	value, ok := s.store.Entries[key]
	if !ok {
		return nil, false, nil
	}
	return []byte(value), true, nil
}

func (s *JSONStore) Set(key string, value []byte) error {
	if s.store == nil {
		return fmt.Errorf("storage not loaded")
	}

	previous, existed := s.store.Entries[key]
	s.store.Entries[key] = string(value)
	if err := s.save(); err != nil {
		if existed {
			s.store.Entries[key] = previous
		} else {
			delete(s.store.Entries, key)
		}
		return err
	}
	return nil
}

func (s *JSONStore) GetConfigPath() string {
	return s.path
}

func (s *JSONStore) save() error {
	data, err := json.MarshalIndent(s.store, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Write to a temp file and rename so a crash never leaves half a document
	tempPath := s.path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Rename(tempPath, s.path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to write storage: %w", err)
	}

	return nil
}

func newEmptyStore() *Store {
	return &Store{
		Version: 1,
		Entries: make(map[string]string),
	}
}
