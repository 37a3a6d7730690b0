package storage

import (
	"context"

	"github.com/poiesic/todos/core"
)

// ListRepository is the persistence contract for lists and their todos.
//
// An instance is scoped to a single request or session and is not shared
// between goroutines. Callers validate names before calling CreateList,
// UpdateListName and CreateTodo; repositories do not re-check them.
type ListRepository interface {
	// FindList retrieves a single list with its todos and counts.
	// Returns ErrNotFound if the list doesn't exist.
	FindList(ctx context.Context, listID core.ID) (*core.List, error)

	// AllLists retrieves every list, ordered by name ascending. Names compare
	// by byte value, so "Banana" sorts before "apple" in every backend.
	// Counts are always populated; todos may be omitted by the backend.
	AllLists(ctx context.Context) ([]*core.List, error)

	// CreateList inserts a new, empty list and returns it with its id.
	CreateList(ctx context.Context, name string) (*core.List, error)

	// DeleteList removes a list together with all of its todos.
	// Returns ErrNotFound if the list doesn't exist.
	DeleteList(ctx context.Context, listID core.ID) error

	// UpdateListName renames a list in place.
	// Returns ErrNotFound if the list doesn't exist.
	UpdateListName(ctx context.Context, listID core.ID, name string) error

	// CreateTodo appends an open todo to a list and returns it with its id.
	// Returns ErrNotFound if the list doesn't exist.
	CreateTodo(ctx context.Context, listID core.ID, name string) (*core.Todo, error)

	// DeleteTodo removes the todo matching both ids.
	// Returns ErrNotFound if no such todo exists.
	DeleteTodo(ctx context.Context, listID, todoID core.ID) error

	// UpdateTodoStatus sets the completed flag of a todo.
	// Returns ErrNotFound if no such todo exists.
	UpdateTodoStatus(ctx context.Context, listID, todoID core.ID, completed bool) error

	// MarkAllCompleted marks every todo of a list as completed.
	// Calling it repeatedly leaves the same state as calling it once.
	// Returns ErrNotFound if the list doesn't exist.
	MarkAllCompleted(ctx context.Context, listID core.ID) error

	// Close releases the resources held by the repository.
	Close() error
}
