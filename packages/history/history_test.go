package history

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRecordAndList(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	first, err := store.Record(ctx, Entry{
		CreatedAt: base,
		URL:       "https://example.com/login",
		Bytes:     22,
		Status:    200,
		Duration:  150 * time.Millisecond,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)

	_, err = store.Record(ctx, Entry{
		CreatedAt: base.Add(time.Minute),
		URL:       "https://example.com/upload",
		Multipart: true,
		Bytes:     512,
		Parts:     3,
		Skipped:   1,
		Error:     errors.New("connection refused").Error(),
	})
	require.NoError(t, err)

	entries, err := store.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "https://example.com/upload", entries[0].URL)
	assert.True(t, entries[0].Multipart)
	assert.Equal(t, 3, entries[0].Parts)
	assert.Equal(t, 1, entries[0].Skipped)
	assert.Equal(t, "connection refused", entries[0].Error)

	assert.Equal(t, first.ID, entries[1].ID)
	assert.Equal(t, 200, entries[1].Status)
	assert.Equal(t, 150*time.Millisecond, entries[1].Duration)
	assert.True(t, base.Equal(entries[1].CreatedAt))
}

func TestList_Limit(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := store.Record(ctx, Entry{URL: "https://example.com", Status: 200})
		require.NoError(t, err)
	}

	entries, err := store.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
}

func TestOpen_ConnectionStringPrefixes(t *testing.T) {
	dir := t.TempDir()

	for i, prefix := range []string{"sqlite://", "sqlite:", ""} {
		path := filepath.Join(dir, fmt.Sprintf("history-%d.db", i))
		store, err := Open(prefix + path)
		require.NoError(t, err, prefix)
		assert.Equal(t, path, store.Path())
		require.NoError(t, store.Close())
	}
}

func TestOpen_EmptyPath(t *testing.T) {
	_, err := Open("  ")
	assert.Error(t, err)
}

func TestOpen_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	store, err := Open(path)
	require.NoError(t, err)
	_, err = store.Record(context.Background(), Entry{URL: "https://example.com"})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	store, err = Open(path)
	require.NoError(t, err)
	defer store.Close()

	n, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
