package journal

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStore_AppendAndList(t *testing.T) {
	store := newTestSQLiteStore(t)

	require.NoError(t, store.Append(record("run-1", 1, "a", "b")))
	require.NoError(t, store.Append(record("run-1", 2, "b", "__end__")))

	recs, err := store.List("run-1")
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "a", recs[0].NodeID)
	assert.Equal(t, "b", recs[0].Next)
	assert.Equal(t, []byte(`{"count":1}`), recs[0].State)
	assert.Equal(t, "__end__", recs[1].Next)
}

func TestSQLiteStore_AppendUpserts(t *testing.T) {
	store := newTestSQLiteStore(t)

	require.NoError(t, store.Append(record("run-1", 1, "a", "b")))

	replaced := record("run-1", 1, "a", "__end__")
	require.NoError(t, store.Append(replaced))

	recs, err := store.List("run-1")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "__end__", recs[0].Next)
}

func TestSQLiteStore_ListEmptyRun(t *testing.T) {
	store := newTestSQLiteStore(t)

	recs, err := store.List("missing")

	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestSQLiteStore_Latest(t *testing.T) {
	store := newTestSQLiteStore(t)

	require.NoError(t, store.Append(record("run-1", 1, "a", "b")))
	require.NoError(t, store.Append(record("run-1", 2, "b", "__end__")))

	latest, err := store.Latest("run-1")
	require.NoError(t, err)
	assert.Equal(t, 2, latest.Sequence)
	assert.Equal(t, "b", latest.NodeID)
	assert.False(t, latest.Timestamp.IsZero())
}

func TestSQLiteStore_LatestNotFound(t *testing.T) {
	store := newTestSQLiteStore(t)

	_, err := store.Latest("missing")

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteStore_DeleteRun(t *testing.T) {
	store := newTestSQLiteStore(t)
	require.NoError(t, store.Append(record("run-1", 1, "a", "__end__")))
	require.NoError(t, store.Append(record("run-2", 1, "a", "__end__")))

	require.NoError(t, store.DeleteRun("run-1"))

	recs, err := store.List("run-1")
	require.NoError(t, err)
	assert.Empty(t, recs)

	recs, err = store.List("run-2")
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}

func TestSQLiteStore_Closed(t *testing.T) {
	store := newTestSQLiteStore(t)
	require.NoError(t, store.Close())

	assert.ErrorIs(t, store.Append(record("run-1", 1, "a", "__end__")), ErrStoreClosed)

	_, err := store.List("run-1")
	assert.ErrorIs(t, err, ErrStoreClosed)

	// Closing twice is a no-op.
	assert.NoError(t, store.Close())
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")

	store, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Append(record("run-1", 1, "a", "__end__")))
	require.NoError(t, store.Close())

	reopened, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	recs, err := reopened.List("run-1")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "a", recs[0].NodeID)
}
