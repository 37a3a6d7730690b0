// Package storagetest holds a behavioural test suite shared by every
// storage.ListRepository implementation.
package storagetest

import (
	"context"
	"testing"

	"github.com/poiesic/todos/core"
	"github.com/poiesic/todos/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory returns a new, empty repository. The suite closes it.
type Factory func(t *testing.T) storage.ListRepository

// RunListRepositoryTests exercises the persistence contract against repositories
// produced by newRepo.
func RunListRepositoryTests(t *testing.T, newRepo Factory) {
	tests := []struct {
		name string
		fn   func(t *testing.T, repo storage.ListRepository)
	}{
		{"CreateAndFind", testCreateAndFind},
		{"AllListsSortedByName", testAllListsSortedByName},
		{"FindUnknownList", testFindUnknownList},
		{"DeleteList", testDeleteList},
		{"UpdateListName", testUpdateListName},
		{"CreateTodo", testCreateTodo},
		{"TodoIDsArePerList", testTodoIDsArePerList},
		{"DeleteTodo", testDeleteTodo},
		{"UpdateTodoStatusCounts", testUpdateTodoStatusCounts},
		{"MarkAllCompletedIdempotent", testMarkAllCompletedIdempotent},
		{"GroceriesExample", testGroceriesExample},
		{"UnknownIDs", testUnknownIDs},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newRepo(t)
			defer repo.Close()
			tt.fn(t, repo)
		})
	}
}

func testCreateAndFind(t *testing.T, repo storage.ListRepository) {
	ctx := context.Background()

	created, err := repo.CreateList(ctx, "Groceries")
	require.NoError(t, err)
	assert.NotZero(t, created.Id)
	assert.Equal(t, "Groceries", created.Name)

	found, err := repo.FindList(ctx, created.Id)
	require.NoError(t, err)
	assert.Equal(t, created.Id, found.Id)
	assert.Equal(t, "Groceries", found.Name)
	assert.Empty(t, found.Todos)
	assert.Equal(t, 0, found.TodosCount)
	assert.Equal(t, 0, found.TodosRemainingCount)
	assert.False(t, found.IsComplete())
}

func testAllListsSortedByName(t *testing.T, repo storage.ListRepository) {
	ctx := context.Background()

	for _, name := range []string{"Work", "apple", "Chores", "Groceries", "Books"} {
		_, err := repo.CreateList(ctx, name)
		require.NoError(t, err)
	}

	lists, err := repo.AllLists(ctx)
	require.NoError(t, err)
	require.Len(t, lists, 5)

	got := make([]string, len(lists))
	for i, list := range lists {
		got[i] = list.Name
	}
	assert.Equal(t, []string{"Books", "Chores", "Groceries", "Work", "apple"}, got)
}

func testFindUnknownList(t *testing.T, repo storage.ListRepository) {
	_, err := repo.FindList(context.Background(), 4242)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func testDeleteList(t *testing.T, repo storage.ListRepository) {
	ctx := context.Background()

	keep, err := repo.CreateList(ctx, "Keep")
	require.NoError(t, err)
	gone, err := repo.CreateList(ctx, "Gone")
	require.NoError(t, err)
	_, err = repo.CreateTodo(ctx, gone.Id, "Milk")
	require.NoError(t, err)

	require.NoError(t, repo.DeleteList(ctx, gone.Id))

	_, err = repo.FindList(ctx, gone.Id)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.ErrorIs(t, repo.DeleteList(ctx, gone.Id), storage.ErrNotFound)

	lists, err := repo.AllLists(ctx)
	require.NoError(t, err)
	require.Len(t, lists, 1)
	assert.Equal(t, keep.Id, lists[0].Id)
}

func testUpdateListName(t *testing.T, repo storage.ListRepository) {
	ctx := context.Background()

	list, err := repo.CreateList(ctx, "Groceries")
	require.NoError(t, err)
	require.NoError(t, repo.UpdateListName(ctx, list.Id, "Shopping"))

	found, err := repo.FindList(ctx, list.Id)
	require.NoError(t, err)
	assert.Equal(t, "Shopping", found.Name)
	assert.Equal(t, list.Id, found.Id)
}

func testCreateTodo(t *testing.T, repo storage.ListRepository) {
	ctx := context.Background()

	list, err := repo.CreateList(ctx, "Groceries")
	require.NoError(t, err)

	milk, err := repo.CreateTodo(ctx, list.Id, "Milk")
	require.NoError(t, err)
	assert.Equal(t, "Milk", milk.Name)
	assert.False(t, milk.Completed)

	eggs, err := repo.CreateTodo(ctx, list.Id, "Eggs")
	require.NoError(t, err)
	assert.NotEqual(t, milk.Id, eggs.Id)

	found, err := repo.FindList(ctx, list.Id)
	require.NoError(t, err)
	require.Len(t, found.Todos, 2)
	assert.Equal(t, "Milk", found.Todos[0].Name)
	assert.Equal(t, "Eggs", found.Todos[1].Name)
	assert.Equal(t, 2, found.TodosCount)
	assert.Equal(t, 2, found.TodosRemainingCount)
}

func testTodoIDsArePerList(t *testing.T, repo storage.ListRepository) {
	ctx := context.Background()

	a, err := repo.CreateList(ctx, "A")
	require.NoError(t, err)
	b, err := repo.CreateList(ctx, "B")
	require.NoError(t, err)

	todo, err := repo.CreateTodo(ctx, a.Id, "only in A")
	require.NoError(t, err)

	// The todo id means nothing under another list.
	assert.ErrorIs(t, repo.DeleteTodo(ctx, b.Id, todo.Id), storage.ErrNotFound)
	assert.ErrorIs(t, repo.UpdateTodoStatus(ctx, b.Id, todo.Id, true), storage.ErrNotFound)

	found, err := repo.FindList(ctx, a.Id)
	require.NoError(t, err)
	assert.Len(t, found.Todos, 1)
}

func testDeleteTodo(t *testing.T, repo storage.ListRepository) {
	ctx := context.Background()

	list, err := repo.CreateList(ctx, "Groceries")
	require.NoError(t, err)
	milk, err := repo.CreateTodo(ctx, list.Id, "Milk")
	require.NoError(t, err)
	eggs, err := repo.CreateTodo(ctx, list.Id, "Eggs")
	require.NoError(t, err)

	require.NoError(t, repo.DeleteTodo(ctx, list.Id, eggs.Id))

	found, err := repo.FindList(ctx, list.Id)
	require.NoError(t, err)
	require.Len(t, found.Todos, 1)
	assert.Equal(t, milk.Id, found.Todos[0].Id)
	assert.Equal(t, 1, found.TodosCount)

	assert.ErrorIs(t, repo.DeleteTodo(ctx, list.Id, eggs.Id), storage.ErrNotFound)
}

func testUpdateTodoStatusCounts(t *testing.T, repo storage.ListRepository) {
	ctx := context.Background()

	list, err := repo.CreateList(ctx, "Chores")
	require.NoError(t, err)

	var todos []*core.Todo
	for _, name := range []string{"Dishes", "Laundry", "Vacuum"} {
		todo, err := repo.CreateTodo(ctx, list.Id, name)
		require.NoError(t, err)
		todos = append(todos, todo)
	}

	for i, todo := range todos {
		require.NoError(t, repo.UpdateTodoStatus(ctx, list.Id, todo.Id, true))

		found, err := repo.FindList(ctx, list.Id)
		require.NoError(t, err)
		remaining := len(todos) - i - 1
		assert.Equal(t, remaining, found.TodosRemainingCount)
		assert.Equal(t, remaining == 0, found.IsComplete())
	}

	// Reopening a todo makes the list incomplete again.
	require.NoError(t, repo.UpdateTodoStatus(ctx, list.Id, todos[0].Id, false))
	found, err := repo.FindList(ctx, list.Id)
	require.NoError(t, err)
	assert.Equal(t, 1, found.TodosRemainingCount)
	assert.False(t, found.IsComplete())
}

func testMarkAllCompletedIdempotent(t *testing.T, repo storage.ListRepository) {
	ctx := context.Background()

	list, err := repo.CreateList(ctx, "Errands")
	require.NoError(t, err)
	for _, name := range []string{"Bank", "Post office"} {
		_, err := repo.CreateTodo(ctx, list.Id, name)
		require.NoError(t, err)
	}

	require.NoError(t, repo.MarkAllCompleted(ctx, list.Id))
	once, err := repo.FindList(ctx, list.Id)
	require.NoError(t, err)

	require.NoError(t, repo.MarkAllCompleted(ctx, list.Id))
	twice, err := repo.FindList(ctx, list.Id)
	require.NoError(t, err)

	assert.Equal(t, once, twice)
	assert.True(t, twice.IsComplete())
	assert.Equal(t, 0, twice.TodosRemainingCount)

	empty, err := repo.CreateList(ctx, "Empty")
	require.NoError(t, err)
	require.NoError(t, repo.MarkAllCompleted(ctx, empty.Id))
	found, err := repo.FindList(ctx, empty.Id)
	require.NoError(t, err)
	assert.False(t, found.IsComplete(), "a list without todos is never complete")
}

func testGroceriesExample(t *testing.T, repo storage.ListRepository) {
	ctx := context.Background()

	list, err := repo.CreateList(ctx, "Groceries")
	require.NoError(t, err)
	milk, err := repo.CreateTodo(ctx, list.Id, "Milk")
	require.NoError(t, err)
	eggs, err := repo.CreateTodo(ctx, list.Id, "Eggs")
	require.NoError(t, err)

	require.NoError(t, repo.UpdateTodoStatus(ctx, list.Id, milk.Id, true))
	found, err := repo.FindList(ctx, list.Id)
	require.NoError(t, err)
	assert.Equal(t, 2, found.TodosCount)
	assert.Equal(t, 1, found.TodosRemainingCount)
	assert.False(t, found.IsComplete())

	require.NoError(t, repo.UpdateTodoStatus(ctx, list.Id, eggs.Id, true))
	found, err = repo.FindList(ctx, list.Id)
	require.NoError(t, err)
	assert.True(t, found.IsComplete())

	// A second "Groceries" is rejected by the caller before reaching the repository.
	lists, err := repo.AllLists(ctx)
	require.NoError(t, err)
	assert.ErrorIs(t, core.ValidateListName("Groceries", lists), core.ErrListNameNotUnique)
}

func testUnknownIDs(t *testing.T, repo storage.ListRepository) {
	ctx := context.Background()
	const missing core.ID = 999

	assert.ErrorIs(t, repo.UpdateListName(ctx, missing, "x"), storage.ErrNotFound)
	_, err := repo.CreateTodo(ctx, missing, "x")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.ErrorIs(t, repo.DeleteTodo(ctx, missing, 1), storage.ErrNotFound)
	assert.ErrorIs(t, repo.UpdateTodoStatus(ctx, missing, 1, true), storage.ErrNotFound)
	assert.ErrorIs(t, repo.MarkAllCompleted(ctx, missing), storage.ErrNotFound)

	list, err := repo.CreateList(ctx, "Real")
	require.NoError(t, err)
	assert.ErrorIs(t, repo.DeleteTodo(ctx, list.Id, missing), storage.ErrNotFound)
	assert.ErrorIs(t, repo.UpdateTodoStatus(ctx, list.Id, missing, true), storage.ErrNotFound)
}
