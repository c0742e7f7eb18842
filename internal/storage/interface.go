package storage

// Provider is the persistent key-value store behind the tracker. Values are
// opaque strings; the tracker stores JSON arrays under well-known keys.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error
	GetConfigPath() string

	// Get returns the stored value and whether the key exists.
	Get(key string) (string, bool, error)
	Set(key, value string) error
}
