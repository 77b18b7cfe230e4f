package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/milk9111/rayfighter/progression"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTempStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "saves.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

func TestOpenRequiresPath(t *testing.T) {
	t.Parallel()

	_, err := Open("  ")
	require.Error(t, err)
}

func TestLoadMissingKey(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	_, err := store.Load(context.Background(), "nope")
	require.ErrorIs(t, err, progression.ErrNotFound)

	_, err = store.UpdatedAt(context.Background(), "nope")
	require.ErrorIs(t, err, progression.ErrNotFound)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	now := time.Date(2026, time.October, 17, 9, 30, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	in := progression.NewSave([]string{"blaze", "volt"}, "2026-10-17")
	in.Fighters["blaze"].XP = 1500
	in.Fighters["blaze"].Best = 8200
	in.OverallBest = 8200
	in.Totals.Grabs = 12
	in.WonWith["blaze"] = true
	in.Achievements["first_win"] = progression.Achievement{UnlockedAt: now.UnixMilli()}
	in.Daily.Completed = true
	require.NoError(t, store.Save(ctx, "slot", in))

	got, err := store.Load(ctx, "slot")
	require.NoError(t, err)
	assert.Equal(t, in, got)

	at, err := store.UpdatedAt(ctx, "slot")
	require.NoError(t, err)
	assert.True(t, now.Equal(at))
}

func TestSaveOverwrites(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx := context.Background()
	first := progression.NewSave([]string{"blaze"}, "2026-10-17")
	require.NoError(t, store.Save(ctx, "slot", first))

	second := first.Clone()
	second.OverallBest = 42
	require.NoError(t, store.Save(ctx, "slot", second))

	got, err := store.Load(ctx, "slot")
	require.NoError(t, err)
	assert.Equal(t, 42, got.OverallBest)
}

func TestSaveValidates(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx := context.Background()
	require.Error(t, store.Save(ctx, "", progression.NewSave(nil, "")))
	require.Error(t, store.Save(ctx, "slot", nil))

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	require.ErrorIs(t, store.Save(cancelled, "slot", progression.NewSave(nil, "")), context.Canceled)
}

func TestProgressionOverSQLite(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "saves.db")
	store, err := Open(path)
	require.NoError(t, err)
	ctx := context.Background()

	p := progression.New(ctx, progression.Options{Roster: []string{"blaze"}, Store: store})
	p.AwardMatch(ctx, progression.Award{FighterID: "blaze", Win: true, XP: 700, Score: 3100})
	require.NoError(t, store.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()
	q := progression.New(ctx, progression.Options{Roster: []string{"blaze"}, Store: reopened})
	assert.Equal(t, 700, q.TotalXP())
	assert.Equal(t, 3100, q.Save().OverallBest)
}
