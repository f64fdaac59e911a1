package db

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rssz/models"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	d, err := NewInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func TestQueryHistory_NewestFirst(t *testing.T) {
	d := newTestDB(t)

	for _, term := range []string{"praha", "brno", "ostrava"} {
		stored, err := d.StoreQueryHistory(models.QueryHistoryEntry{Target: "main", Kind: "municipality", Term: term})
		require.NoError(t, err)
		assert.NotEmpty(t, stored.ID)
		assert.NotEmpty(t, stored.Timestamp)
	}

	history, err := d.GetQueryHistory(0)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, "ostrava", history[0].Term)
	assert.Equal(t, "praha", history[2].Term)

	limited, err := d.GetQueryHistory(2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestQueryHistory_Empty(t *testing.T) {
	d := newTestDB(t)

	history, err := d.GetQueryHistory(10)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestGetQueryHistoryEntry(t *testing.T) {
	d := newTestDB(t)

	stored, err := d.StoreQueryHistory(models.QueryHistoryEntry{Target: "modal", Kind: "detail", Term: "600000", RowCount: 1})
	require.NoError(t, err)

	got, err := d.GetQueryHistoryEntry(stored.ID)
	require.NoError(t, err)
	assert.Equal(t, stored, *got)

	_, err = d.GetQueryHistoryEntry("missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestNew_LockedByAnotherOpen(t *testing.T) {
	dir := t.TempDir()

	first, err := New(dir)
	require.NoError(t, err)
	t.Cleanup(func() { _ = first.Close() })

	second, err := New(dir)
	assert.Nil(t, second)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrLocked))
	assert.Contains(t, err.Error(), dir)
}

func TestPing(t *testing.T) {
	d, err := NewInMemory()
	require.NoError(t, err)
	assert.NoError(t, d.Ping())

	require.NoError(t, d.Close())
	assert.Error(t, d.Ping())
}
