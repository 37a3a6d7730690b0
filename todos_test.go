package todos

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/todos/config"
	"github.com/poiesic/todos/storage"
	"github.com/poiesic/todos/storage/storagetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSessionDatabase(t *testing.T) *Database {
	t.Helper()
	db, err := NewDatabase(config.NewConfig(
		config.WithBackend(config.BackendSession),
		config.WithSessionInMemory(),
	))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestNewDatabase(t *testing.T) {
	t.Run("postgres backend opens lazily", func(t *testing.T) {
		db, err := NewDatabase(nil)
		require.NoError(t, err)
		assert.Equal(t, config.BackendPostgres, db.Config().Backend)
		assert.Nil(t, db.backend)
		assert.NoError(t, db.Close())
	})

	t.Run("session backend", func(t *testing.T) {
		db := newSessionDatabase(t)
		assert.NotNil(t, db.backend)
		assert.NotNil(t, db.registry)
		assert.NotNil(t, db.logger)
	})

	t.Run("session directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "sessions")
		db, err := NewDatabase(config.NewConfig(
			config.WithBackend(config.BackendSession),
			config.WithSessionDir(dir),
		))
		require.NoError(t, err)
		defer db.Close()
		assert.DirExists(t, dir)
	})

	t.Run("error with invalid path", func(t *testing.T) {
		tmpFile := filepath.Join(t.TempDir(), "not_a_dir")
		require.NoError(t, os.WriteFile(tmpFile, []byte("test"), 0644))

		db, err := NewDatabase(config.NewConfig(
			config.WithBackend(config.BackendSession),
			config.WithSessionDir(tmpFile),
		))
		assert.Error(t, err)
		assert.Nil(t, db)
	})

	t.Run("invalid config", func(t *testing.T) {
		db, err := NewDatabase(config.NewConfig(config.WithBackend("sqlite")))
		assert.Error(t, err)
		assert.Nil(t, db)
	})
}

func TestDatabase_SessionRepositoryContract(t *testing.T) {
	db := newSessionDatabase(t)
	storagetest.RunListRepositoryTests(t, func(t *testing.T) storage.ListRepository {
		id, err := db.NewSession()
		require.NoError(t, err)
		repo, err := db.Repository(context.Background(), id)
		require.NoError(t, err)
		return repo
	})
}

func TestDatabase_SessionStatePersists(t *testing.T) {
	ctx := context.Background()
	db := newSessionDatabase(t)
	id, err := db.NewSession()
	require.NoError(t, err)

	repo, err := db.Repository(ctx, id)
	require.NoError(t, err)
	list, err := repo.CreateList(ctx, "Groceries")
	require.NoError(t, err)
	_, err = repo.CreateTodo(ctx, list.Id, "Milk")
	require.NoError(t, err)
	require.NoError(t, repo.Close())
	require.NoError(t, repo.Close())

	repo, err = db.Repository(ctx, id)
	require.NoError(t, err)
	found, err := repo.FindList(ctx, list.Id)
	require.NoError(t, err)
	assert.Equal(t, "Groceries", found.Name)
	require.Len(t, found.Todos, 1)
	assert.Equal(t, "Milk", found.Todos[0].Name)
	require.NoError(t, repo.Close())

	other, err := db.NewSession()
	require.NoError(t, err)
	repo, err = db.Repository(ctx, other)
	require.NoError(t, err)
	lists, err := repo.AllLists(ctx)
	require.NoError(t, err)
	assert.Empty(t, lists)
	require.NoError(t, repo.Close())
}

func TestDatabase_UnsavedChangesAreDropped(t *testing.T) {
	ctx := context.Background()
	db := newSessionDatabase(t)
	id, err := db.NewSession()
	require.NoError(t, err)

	repo, err := db.Repository(ctx, id)
	require.NoError(t, err)
	_, err = repo.CreateList(ctx, "Draft")
	require.NoError(t, err)

	fresh, err := db.Repository(ctx, id)
	require.NoError(t, err)
	lists, err := fresh.AllLists(ctx)
	require.NoError(t, err)
	assert.Empty(t, lists)
}

func TestDatabase_EndSession(t *testing.T) {
	ctx := context.Background()
	db := newSessionDatabase(t)
	id, err := db.NewSession()
	require.NoError(t, err)

	repo, err := db.Repository(ctx, id)
	require.NoError(t, err)
	_, err = repo.CreateList(ctx, "Chores")
	require.NoError(t, err)
	require.NoError(t, repo.Close())

	require.NoError(t, db.EndSession(ctx, id))

	repo, err = db.Repository(ctx, id)
	require.NoError(t, err)
	lists, err := repo.AllLists(ctx)
	require.NoError(t, err)
	assert.Empty(t, lists)
}

func TestDatabase_SessionErrors(t *testing.T) {
	ctx := context.Background()

	db := newSessionDatabase(t)
	_, err := db.Repository(ctx, "")
	assert.ErrorIs(t, err, ErrSessionRequired)
	assert.ErrorIs(t, db.EndSession(ctx, ""), ErrSessionRequired)
	assert.NoError(t, db.EnsureSchema(ctx))

	pg, err := NewDatabase(config.NewConfig())
	require.NoError(t, err)
	_, err = pg.NewSession()
	assert.ErrorIs(t, err, ErrSessionsUnsupported)
	assert.ErrorIs(t, pg.EndSession(ctx, "abc"), ErrSessionsUnsupported)
}

func TestDatabase_PostgresUnreachable(t *testing.T) {
	db, err := NewDatabase(config.NewConfig(
		config.WithDatabaseURL("postgres://todos@127.0.0.1:1/todos?connect_timeout=1&sslmode=disable"),
	))
	require.NoError(t, err)

	_, err = db.Repository(context.Background(), "")
	assert.ErrorIs(t, err, storage.ErrStorage)
	assert.ErrorIs(t, db.EnsureSchema(context.Background()), storage.ErrStorage)
}

func TestDatabase_SessionSavedOnlyWhenChanged(t *testing.T) {
	ctx := context.Background()
	db, err := NewDatabase(config.NewConfig(
		config.WithBackend(config.BackendSession),
		config.WithSessionInMemory(),
	))
	require.NoError(t, err)

	id, err := db.NewSession()
	require.NoError(t, err)
	reader, err := db.Repository(ctx, id)
	require.NoError(t, err)
	_, err = reader.AllLists(ctx)
	require.NoError(t, err)

	writer, err := db.Repository(ctx, id)
	require.NoError(t, err)
	_, err = writer.CreateList(ctx, "Groceries")
	require.NoError(t, err)

	// With the store gone any save fails, so a clean Close proves none was attempted.
	require.NoError(t, db.Close())
	assert.NoError(t, reader.Close())

	require.Error(t, writer.Close())
	assert.Error(t, writer.Close(), "a failed save stays pending")
}
