package storage

// Provider is a local key-value store holding serialized collections.
// Implementations rewrite a key's whole value on every Set.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Key-value access. ok is false when the key has never been written.
	Get(key string) (value []byte, ok bool, err error)
	Set(key string, value []byte) error

	// Utils
	GetConfigPath() string
}
