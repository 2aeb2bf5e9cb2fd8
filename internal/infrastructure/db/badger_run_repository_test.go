package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/damon-houk/largest-banks-etl/internal/domain/entity"
)

func openTestBadger(t *testing.T) *badger.DB {
	t.Helper()

	opts := badger.DefaultOptions(t.TempDir()).WithLogger(nil)
	opts.SyncWrites = false // Improve performance for tests

	badgerDB, err := badger.Open(opts)
	require.NoError(t, err)
	t.Cleanup(func() { badgerDB.Close() })
	return badgerDB
}

func TestBadgerRunRepository(t *testing.T) {
	repo := NewBadgerRunRepository(openTestBadger(t))
	ctx := context.Background()
	start := time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC)

	t.Run("Empty store", func(t *testing.T) {
		latest, err := repo.Latest(ctx)
		assert.NoError(t, err)
		assert.Nil(t, latest)
	})

	first := &entity.Run{ID: uuid.NewString(), StartedAt: start, Status: entity.RunStatusRunning}
	second := &entity.Run{ID: uuid.NewString(), StartedAt: start.Add(time.Hour), Status: entity.RunStatusRunning}

	t.Run("Store and find", func(t *testing.T) {
		require.NoError(t, repo.Store(ctx, first))

		found, err := repo.FindByID(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, first.ID, found.ID)
		assert.Equal(t, entity.RunStatusRunning, found.Status)
		assert.True(t, first.StartedAt.Equal(found.StartedAt))
	})

	t.Run("Store overwrites", func(t *testing.T) {
		first.Finish(start.Add(time.Minute), 10, nil)
		require.NoError(t, repo.Store(ctx, first))

		found, err := repo.FindByID(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.RunStatusSucceeded, found.Status)
		assert.Equal(t, 10, found.Records)
	})

	t.Run("Latest picks most recent start", func(t *testing.T) {
		second.Finish(start.Add(time.Hour+time.Minute), 0, errors.New("boom"))
		require.NoError(t, repo.Store(ctx, second))

		latest, err := repo.Latest(ctx)
		require.NoError(t, err)
		require.NotNil(t, latest)
		assert.Equal(t, second.ID, latest.ID)
		assert.Equal(t, entity.RunStatusFailed, latest.Status)
		assert.Equal(t, "boom", latest.Error)
	})

	t.Run("Unknown ID", func(t *testing.T) {
		found, err := repo.FindByID(ctx, "does-not-exist")
		assert.Nil(t, found)
		assert.True(t, errors.Is(err, ErrRunNotFound))
	})
}

func TestOpenBadger(t *testing.T) {
	badgerDB, err := OpenBadger(t.TempDir())
	require.NoError(t, err)
	assert.NoError(t, badgerDB.Close())
}
