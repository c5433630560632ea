package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/jmoiron/sqlx"
	ierr "github.com/outletkit/outletkit/internal/errors"
	"github.com/outletkit/outletkit/internal/logger"
	_ "modernc.org/sqlite" // pure go sqlite driver
)

// Process-wide cache of open handles keyed by dbName:collection so repeated
// Initialize calls across store instances reuse one connection.
var (
	handlesMu sync.Mutex
	handles   = make(map[string]*sqlx.DB)
)

// SQLiteDocument persists a single JSON document into an embedded SQLite
// file. One table per collection, one row per key.
type SQLiteDocument[T any] struct {
	cfg Config
	log *logger.Logger

	mu sync.Mutex
	db *sqlx.DB
}

func NewSQLiteDocument[T any](cfg Config, log *logger.Logger) *SQLiteDocument[T] {
	if cfg.Key == "" {
		cfg.Key = "data"
	}
	if cfg.SchemaVersion == 0 {
		cfg.SchemaVersion = 1
	}
	return &SQLiteDocument[T]{cfg: cfg, log: log}
}

func (s *SQLiteDocument[T]) handleKey() string {
	return s.cfg.DBName + ":" + s.cfg.Collection
}

// Initialize opens (creating if absent) the database file and collection
// table. Subsequent calls on an already-open handle are no-ops.
func (s *SQLiteDocument[T]) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initializeLocked(ctx)
}

func (s *SQLiteDocument[T]) initializeLocked(ctx context.Context) error {
	if s.db != nil {
		return nil
	}

	handlesMu.Lock()
	defer handlesMu.Unlock()
	if db, ok := handles[s.handleKey()]; ok {
		s.db = db
		return nil
	}

	if s.cfg.Dir != "" {
		if err := os.MkdirAll(s.cfg.Dir, 0o750); err != nil {
			return ierr.WithError(err).
				WithHintf("Failed to create storage directory %s", s.cfg.Dir).
				Mark(ierr.ErrStorageUnavailable)
		}
	}

	path := filepath.Join(s.cfg.Dir, s.cfg.DBName+".db")
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return ierr.WithError(err).
			WithHintf("Failed to open database %s", path).
			Mark(ierr.ErrStorageUnavailable)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return ierr.WithError(err).
			WithHintf("Failed to open database %s", path).
			Mark(ierr.ErrStorageUnavailable)
	}

	schema := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %q (
		doc_key TEXT PRIMARY KEY,
		schema_version INTEGER NOT NULL,
		payload BLOB NOT NULL
	)`, s.cfg.Collection)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return ierr.WithError(err).
			WithHintf("Failed to create collection %s", s.cfg.Collection).
			Mark(ierr.ErrStorageUnavailable)
	}

	handles[s.handleKey()] = db
	s.db = db
	s.log.Debugw("opened durable store",
		"db", s.cfg.DBName,
		"collection", s.cfg.Collection,
		"schema_version", s.cfg.SchemaVersion,
	)
	return nil
}

// Save serializes value and stores it under the configured key, replacing any
// prior value.
func (s *SQLiteDocument[T]) Save(ctx context.Context, value T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.initializeLocked(ctx); err != nil {
		return err
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to serialize document").
			Mark(ierr.ErrStorageWrite)
	}

	query := fmt.Sprintf(`INSERT INTO %q (doc_key, schema_version, payload) VALUES (?, ?, ?)
		ON CONFLICT(doc_key) DO UPDATE SET schema_version = excluded.schema_version, payload = excluded.payload`,
		s.cfg.Collection)
	if _, err := s.db.ExecContext(ctx, query, s.cfg.Key, s.cfg.SchemaVersion, payload); err != nil {
		return ierr.WithError(err).
			WithHintf("Failed to write document %s", s.cfg.Key).
			Mark(ierr.ErrStorageWrite)
	}
	return nil
}

// Load returns the stored document, or found=false if the key was never
// written.
func (s *SQLiteDocument[T]) Load(ctx context.Context) (T, bool, error) {
	var zero T
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.initializeLocked(ctx); err != nil {
		return zero, false, err
	}

	var payload []byte
	query := fmt.Sprintf(`SELECT payload FROM %q WHERE doc_key = ?`, s.cfg.Collection)
	if err := s.db.GetContext(ctx, &payload, query, s.cfg.Key); err != nil {
		if err == sql.ErrNoRows {
			return zero, false, nil
		}
		return zero, false, ierr.WithError(err).
			WithHintf("Failed to read document %s", s.cfg.Key).
			Mark(ierr.ErrStorageRead)
	}

	var value T
	if err := json.Unmarshal(payload, &value); err != nil {
		return zero, false, ierr.WithError(err).
			WithHintf("Failed to decode document %s", s.cfg.Key).
			Mark(ierr.ErrStorageRead)
	}
	return value, true, nil
}

// Delete removes the configured key.
func (s *SQLiteDocument[T]) Delete(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.initializeLocked(ctx); err != nil {
		return err
	}

	query := fmt.Sprintf(`DELETE FROM %q WHERE doc_key = ?`, s.cfg.Collection)
	if _, err := s.db.ExecContext(ctx, query, s.cfg.Key); err != nil {
		return ierr.WithError(err).
			WithHintf("Failed to delete document %s", s.cfg.Key).
			Mark(ierr.ErrStorageWrite)
	}
	return nil
}

// Clear wipes the whole collection.
func (s *SQLiteDocument[T]) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.initializeLocked(ctx); err != nil {
		return err
	}

	query := fmt.Sprintf(`DELETE FROM %q`, s.cfg.Collection)
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return ierr.WithError(err).
			WithHintf("Failed to clear collection %s", s.cfg.Collection).
			Mark(ierr.ErrStorageWrite)
	}
	return nil
}

// CloseAll closes every cached handle. Intended for test teardown; the
// process normally keeps handles open for its lifetime.
func CloseAll() {
	handlesMu.Lock()
	defer handlesMu.Unlock()
	for key, db := range handles {
		_ = db.Close()
		delete(handles, key)
	}
}
