package sessionstore

import (
	"context"
	"testing"

	"github.com/poiesic/todos/core"
	"github.com/poiesic/todos/session"
	"github.com/poiesic/todos/storage"
	"github.com/poiesic/todos/storage/storagetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListRepositoryContract(t *testing.T) {
	storagetest.RunListRepositoryTests(t, func(t *testing.T) storage.ListRepository {
		return NewListRepository(session.New("contract"))
	})
}

func TestNewListRepository_InitializesSession(t *testing.T) {
	sess := session.New("fresh")
	require.Nil(t, sess.Lists)

	repo := NewListRepository(sess)
	assert.NotNil(t, sess.Lists)
	assert.Same(t, sess, repo.Session())

	lists, err := repo.AllLists(context.Background())
	require.NoError(t, err)
	assert.Empty(t, lists)
}

func TestNewListRepository_KeepsExistingLists(t *testing.T) {
	sess := session.New("existing")
	sess.Lists = []*core.List{{Id: 3, Name: "Groceries"}}

	repo := NewListRepository(sess)
	list, err := repo.FindList(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "Groceries", list.Name)
	assert.NotNil(t, list.Todos)
}

func TestIDsAreMaxPlusOne(t *testing.T) {
	ctx := context.Background()
	sess := session.New("ids")
	sess.Lists = []*core.List{
		{Id: 2, Name: "B", Todos: []core.Todo{{Id: 5, Name: "five"}}},
		{Id: 9, Name: "A"},
	}
	repo := NewListRepository(sess)

	list, err := repo.CreateList(ctx, "C")
	require.NoError(t, err)
	assert.Equal(t, core.ID(10), list.Id)

	todo, err := repo.CreateTodo(ctx, 2, "six")
	require.NoError(t, err)
	assert.Equal(t, core.ID(6), todo.Id)

	first, err := repo.CreateTodo(ctx, list.Id, "first")
	require.NoError(t, err)
	assert.Equal(t, core.ID(1), first.Id, "todo ids start at 1 in each list")

	// Deleting the highest id frees it for reuse.
	require.NoError(t, repo.DeleteList(ctx, 10))
	again, err := repo.CreateList(ctx, "D")
	require.NoError(t, err)
	assert.Equal(t, core.ID(10), again.Id)
}

func TestDeleteTodo_UsesGivenTodoID(t *testing.T) {
	ctx := context.Background()
	repo := NewListRepository(session.New("delete"))

	list, err := repo.CreateList(ctx, "Groceries")
	require.NoError(t, err)
	milk, err := repo.CreateTodo(ctx, list.Id, "Milk")
	require.NoError(t, err)
	eggs, err := repo.CreateTodo(ctx, list.Id, "Eggs")
	require.NoError(t, err)

	require.NoError(t, repo.DeleteTodo(ctx, list.Id, milk.Id))

	found, err := repo.FindList(ctx, list.Id)
	require.NoError(t, err)
	require.Len(t, found.Todos, 1)
	assert.Equal(t, eggs.Id, found.Todos[0].Id)
}

func TestReturnedRecordsAreCopies(t *testing.T) {
	ctx := context.Background()
	sess := session.New("copies")
	repo := NewListRepository(sess)

	list, err := repo.CreateList(ctx, "Groceries")
	require.NoError(t, err)
	_, err = repo.CreateTodo(ctx, list.Id, "Milk")
	require.NoError(t, err)

	found, err := repo.FindList(ctx, list.Id)
	require.NoError(t, err)
	found.Name = "Changed"
	found.Todos[0].Completed = true

	all, err := repo.AllLists(ctx)
	require.NoError(t, err)
	all[0].Name = "Changed too"

	assert.Equal(t, "Groceries", sess.Lists[0].Name)
	assert.False(t, sess.Lists[0].Todos[0].Completed)
}

func TestMutationsKeepSessionCounters(t *testing.T) {
	ctx := context.Background()
	sess := session.New("counters")
	repo := NewListRepository(sess)

	list, err := repo.CreateList(ctx, "Groceries")
	require.NoError(t, err)
	_, err = repo.CreateTodo(ctx, list.Id, "Milk")
	require.NoError(t, err)
	require.NoError(t, repo.MarkAllCompleted(ctx, list.Id))

	assert.Equal(t, 1, sess.Lists[0].TodosCount)
	assert.Equal(t, 0, sess.Lists[0].TodosRemainingCount)
	assert.NoError(t, repo.Close())
}
