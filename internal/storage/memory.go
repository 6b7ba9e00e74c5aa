package storage

import "fmt"

// MemoryStore is a Provider that never touches disk.
type MemoryStore struct {
	entries map[string][]byte
	// FailWrites makes every Set fail; used to exercise persistence errors.
	FailWrites bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string][]byte)}
}

func (s *MemoryStore) Init() error  { return nil }
func (s *MemoryStore) Load() error  { return nil }
func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) Get(key string) ([]byte, bool, error) {
	v, ok := s.entries[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

func (s *MemoryStore) Set(key string, value []byte) error {
	if s.FailWrites {
		return fmt.Errorf("write %s: storage unavailable", key)
	}
	v := make([]byte, len(value))
	copy(v, value)
	s.entries[key] = v
	return nil
}

func (s *MemoryStore) GetConfigPath() string {
	return ":memory:"
}
