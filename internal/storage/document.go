package storage

import "context"

// Config identifies one logical dataset: a database file, a collection
// (table) inside it, and the single key the whole document lives under.
// SchemaVersion is recorded next to the payload so future layouts can tell
// what they are reading.
type Config struct {
	Dir           string
	DBName        string
	Collection    string
	Key           string
	SchemaVersion int
}

// Document is a singleton-document durable store. The entire store state is
// serialized as one value under the configured key; there is no row-per-entity
// layout. Implementations must make Initialize idempotent and Save a full
// replacement of any prior value.
type Document[T any] interface {
	Initialize(ctx context.Context) error
	Save(ctx context.Context, value T) error
	// Load returns the stored value, or found=false if never written.
	Load(ctx context.Context) (value T, found bool, err error)
	Delete(ctx context.Context) error
	Clear(ctx context.Context) error
}
