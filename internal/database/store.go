// Package database provides durable local state for the client.
package database

// Store defines the interface for the client's local key/value state.
// Both SQLite and PostgreSQL implementations satisfy this interface.
type Store interface {
	Close() error

	// DatabaseType returns the name of the database backend ("SQLite" or "PostgreSQL").
	DatabaseType() string

	// GetItem returns the value stored under key. ok is false if the key
	// has never been written.
	GetItem(key string) (value string, ok bool, err error)
	SetItem(key, value string) error
	RemoveItem(key string) error
}
