package ledger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestCreateIsIdempotent(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Create("10A"))
	require.True(t, store.Exists("10A"))

	table, err := store.Read("10A")
	require.NoError(t, err)
	assert.Equal(t, []string{ColumnRoll, ColumnName}, table.Columns)
	assert.Empty(t, table.Rows)

	// A second create must not touch existing content.
	table.AppendRow("5", "Alice")
	require.NoError(t, store.Write("10A", table))
	require.NoError(t, store.Create("10A"))

	table, err = store.Read("10A")
	require.NoError(t, err)
	assert.Len(t, table.Rows, 1)
}

func TestDeleteIsIdempotent(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Create("10A"))
	require.NoError(t, store.Delete("10A"))
	assert.False(t, store.Exists("10A"))
	require.NoError(t, store.Delete("10A"))
}

func TestListExcludesNonLedgerFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Create("10A"))
	require.NoError(t, store.Create("9B"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "portal_settings.json"), []byte("{}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "refresh_trigger.txt"), []byte("init"), 0o644))

	names, err := store.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"10A", "9B"}, names)
}

func TestReadMissing(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Read("nope")
	assert.ErrorIs(t, err, ErrMissing)
}

func TestReadEmptyFile(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "10A.csv"), nil, 0o644))

	_, err = store.Read("10A")
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestReadRejectsMissingFixedColumns(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "10A.csv"), []byte("Roll,Name\n1,A\n"), 0o644))

	_, err = store.Read("10A")
	assert.ErrorIs(t, err, ErrFormat)
}

func TestWriteSortsAndRoundTrips(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Create("10A"))

	table := NewTable()
	table.EnsureColumn("2024-01-01")
	table.AppendRow("10", "J")["2024-01-01"] = "P"
	table.AppendRow("2", "B")
	require.NoError(t, store.Write("10A", table))

	got, err := store.Read("10A")
	require.NoError(t, err)
	assert.Equal(t, []string{ColumnRoll, ColumnName, "2024-01-01"}, got.Columns)
	require.Len(t, got.Rows, 2)
	assert.Equal(t, "2", got.Rows[0][ColumnRoll])
	assert.Equal(t, "10", got.Rows[1][ColumnRoll])
	assert.Equal(t, "P", got.Rows[1]["2024-01-01"])
	assert.Equal(t, "", got.Rows[0]["2024-01-01"])
}

func TestLockerReturnsSameMutexPerClassroom(t *testing.T) {
	store := newTestStore(t)
	assert.Same(t, store.Locker("10A"), store.Locker("10A"))
	assert.NotSame(t, store.Locker("10A"), store.Locker("9B"))
}
