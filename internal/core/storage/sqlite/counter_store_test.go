package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/pulse-lab/pulse/internal/core/storage"
	"github.com/stretchr/testify/require"
)

func createTestStore(t *testing.T) (*CounterStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "counters.db")
	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, path
}

func TestOpen_CreatesDatabase(t *testing.T) {
	_, path := createTestStore(t)

	_, err := os.Stat(path)
	require.NoError(t, err)
}

func TestOpen_PragmasAndVersion(t *testing.T) {
	s, _ := createTestStore(t)

	var mode string
	require.NoError(t, s.db.QueryRow("PRAGMA journal_mode").Scan(&mode))
	require.Equal(t, "wal", mode)

	var version int
	require.NoError(t, s.db.QueryRow("PRAGMA user_version").Scan(&version))
	require.Equal(t, currentSchemaVersion, version)
}

func TestCounterStore_PingContext(t *testing.T) {
	s, _ := createTestStore(t)
	require.NoError(t, s.PingContext(context.Background()))

	require.NoError(t, s.Close())
	require.Error(t, s.PingContext(context.Background()))
}

func TestCounterStore_MissingKey(t *testing.T) {
	s, _ := createTestStore(t)

	var dst map[string]int
	found, err := s.Get(context.Background(), "likes_given", &dst)
	require.NoError(t, err)
	require.False(t, found)
	require.Nil(t, dst)
}

func TestCounterStore_SetGetOverwrite(t *testing.T) {
	ctx := context.Background()
	s, _ := createTestStore(t)

	require.NoError(t, s.Set(ctx, "post_timestamps", []int64{1, 2, 3}))
	require.NoError(t, s.Set(ctx, "post_timestamps", []int64{2, 3}))

	var got []int64
	found, err := s.Get(ctx, "post_timestamps", &got)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, []int64{2, 3}, got)
}

func TestCounterStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "counters.db")

	s1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s1.Set(ctx, "last_fetch", int64(1700000000000)))
	require.NoError(t, s1.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()

	var last int64
	found, err := s2.Get(ctx, "last_fetch", &last)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, int64(1700000000000), last)
}

func TestCounterStore_DecodeMismatch(t *testing.T) {
	ctx := context.Background()
	s, _ := createTestStore(t)

	require.NoError(t, s.Set(ctx, "last_fetch", "not a number"))

	var last int64
	_, err := s.Get(ctx, "last_fetch", &last)
	require.Error(t, err)
	require.NotErrorIs(t, err, storage.ErrStoreUnavailable)
}

func TestCounterStore_ClosedIsUnavailable(t *testing.T) {
	s, _ := createTestStore(t)
	require.NoError(t, s.Close())

	var dst int64
	_, err := s.Get(context.Background(), "last_fetch", &dst)
	require.ErrorIs(t, err, storage.ErrStoreUnavailable)
	require.ErrorIs(t, s.Set(context.Background(), "last_fetch", 1), storage.ErrStoreUnavailable)
}

func TestCounterStore_ScopedDevicesAreIsolated(t *testing.T) {
	ctx := context.Background()
	s, _ := createTestStore(t)

	a := storage.Scoped(s, "device-a")
	b := storage.Scoped(s, "device-b")
	require.NoError(t, a.Set(ctx, "likes_given", map[string]int{"p1": 5}))

	var likes map[string]int
	found, err := b.Get(ctx, "likes_given", &likes)
	require.NoError(t, err)
	require.False(t, found)

	found, err = a.Get(ctx, "likes_given", &likes)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, 5, likes["p1"])
}
