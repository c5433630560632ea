package storage

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/outletkit/outletkit/internal/logger"
)

type testDoc struct {
	Items   []string `json:"items"`
	Query   string   `json:"query"`
	Version int      `json:"version"`
}

var dbSeq atomic.Int64

// each test gets its own db name so the process-wide handle cache never
// bleeds state between tests
func newTestDocument(t *testing.T) *SQLiteDocument[testDoc] {
	t.Helper()
	t.Cleanup(CloseAll)
	return NewSQLiteDocument[testDoc](Config{
		Dir:           t.TempDir(),
		DBName:        fmt.Sprintf("test-%d", dbSeq.Add(1)),
		Collection:    "docs",
		Key:           "data",
		SchemaVersion: 1,
	}, logger.L)
}

func TestLoadAbsent(t *testing.T) {
	doc := newTestDocument(t)

	value, found, err := doc.Load(context.Background())
	require.NoError(t, err)
	assert.False(t, found)
	assert.Zero(t, value)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	doc := newTestDocument(t)

	in := testDoc{Items: []string{"a", "b"}, Query: "andi", Version: 3}
	require.NoError(t, doc.Save(context.Background(), in))

	out, found, err := doc.Load(context.Background())
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, in, out)
}

func TestSaveReplacesPriorValue(t *testing.T) {
	doc := newTestDocument(t)

	require.NoError(t, doc.Save(context.Background(), testDoc{Version: 1}))
	require.NoError(t, doc.Save(context.Background(), testDoc{Version: 2}))

	out, found, err := doc.Load(context.Background())
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 2, out.Version)
}

func TestDelete(t *testing.T) {
	doc := newTestDocument(t)

	require.NoError(t, doc.Save(context.Background(), testDoc{Version: 1}))
	require.NoError(t, doc.Delete(context.Background()))

	_, found, err := doc.Load(context.Background())
	require.NoError(t, err)
	assert.False(t, found)

	// deleting an absent key is not an error
	require.NoError(t, doc.Delete(context.Background()))
}

func TestClear(t *testing.T) {
	doc := newTestDocument(t)

	require.NoError(t, doc.Save(context.Background(), testDoc{Version: 1}))
	require.NoError(t, doc.Clear(context.Background()))

	_, found, err := doc.Load(context.Background())
	require.NoError(t, err)
	assert.False(t, found)
}

func TestInitializeIdempotent(t *testing.T) {
	doc := newTestDocument(t)

	require.NoError(t, doc.Initialize(context.Background()))
	require.NoError(t, doc.Initialize(context.Background()))
	require.NoError(t, doc.Save(context.Background(), testDoc{Version: 1}))
}

func TestHandleSharedAcrossInstances(t *testing.T) {
	t.Cleanup(CloseAll)
	cfg := Config{
		Dir:           t.TempDir(),
		DBName:        fmt.Sprintf("test-%d", dbSeq.Add(1)),
		Collection:    "docs",
		Key:           "data",
		SchemaVersion: 1,
	}
	first := NewSQLiteDocument[testDoc](cfg, logger.L)
	second := NewSQLiteDocument[testDoc](cfg, logger.L)

	require.NoError(t, first.Save(context.Background(), testDoc{Version: 7}))

	out, found, err := second.Load(context.Background())
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 7, out.Version)
	assert.Same(t, first.db, second.db)
}

func TestDistinctCollectionsIsolated(t *testing.T) {
	t.Cleanup(CloseAll)
	dir := t.TempDir()
	name := fmt.Sprintf("test-%d", dbSeq.Add(1))
	orgs := NewSQLiteDocument[testDoc](Config{Dir: dir, DBName: name, Collection: "organizations"}, logger.L)
	data := NewSQLiteDocument[testDoc](Config{Dir: dir, DBName: name, Collection: "data"}, logger.L)

	require.NoError(t, orgs.Save(context.Background(), testDoc{Version: 1}))

	_, found, err := data.Load(context.Background())
	require.NoError(t, err)
	assert.False(t, found)
}

func TestDefaultsApplied(t *testing.T) {
	doc := NewSQLiteDocument[testDoc](Config{Dir: t.TempDir(), DBName: "defaults", Collection: "docs"}, logger.L)
	assert.Equal(t, "data", doc.cfg.Key)
	assert.Equal(t, 1, doc.cfg.SchemaVersion)
}
