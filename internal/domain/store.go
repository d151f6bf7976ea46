package domain

// KeyValueStore is the persistence port for small string values.
// Get returns ok=false when the key was never set and an error when the
// value could not be read.
type KeyValueStore interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Close() error
}
