package repositories_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"replyhint/internal/database"
	"replyhint/internal/repositories"
)

func newTestRepo(t *testing.T) repositories.KeyValueRepository {
	t.Helper()
	db, err := database.Init(database.Config{
		Path: filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return repositories.NewKeyValueRepository(db)
}

func TestKVRepository_MissingKey(t *testing.T) {
	repo := newTestRepo(t)

	_, found, err := repo.Get(context.Background(), "absent")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestKVRepository_RoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "设置", []byte(`{"a":1}`)))

	value, found, err := repo.Get(ctx, "设置")
	require.NoError(t, err)
	require.True(t, found)
	assert.JSONEq(t, `{"a":1}`, string(value))
}

func TestKVRepository_OverwriteLastWriteWins(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "k", []byte("first")))
	require.NoError(t, repo.Set(ctx, "k", []byte("second")))

	value, found, err := repo.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "second", string(value))
}
