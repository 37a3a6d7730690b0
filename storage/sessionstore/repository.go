package sessionstore

import (
	"context"
	"slices"

	"github.com/poiesic/todos/core"
	"github.com/poiesic/todos/session"
	"github.com/poiesic/todos/storage"
)

// ListRepository implements storage.ListRepository over the lists held in a
// session. It mutates the session in place and never fails on I/O; unknown
// ids are reported as storage.ErrNotFound.
//
// Ids are assigned as max existing + 1. That is only safe because a session
// is used by one request at a time; sharing a Session between concurrent
// requests would hand out duplicate ids.
type ListRepository struct {
	sess *session.Session
}

var _ storage.ListRepository = (*ListRepository)(nil)

// NewListRepository creates a repository over sess, initializing its lists
// on first access.
func NewListRepository(sess *session.Session) *ListRepository {
	if sess.Lists == nil {
		sess.Lists = []*core.List{}
	}
	return &ListRepository{sess: sess}
}

// Session returns the session backing the repository.
func (r *ListRepository) Session() *session.Session {
	return r.sess
}

// Close is a no-op; session state is persisted by its owner.
func (r *ListRepository) Close() error {
	return nil
}

// FindList retrieves a copy of a list with its todos and counts.
func (r *ListRepository) FindList(ctx context.Context, listID core.ID) (*core.List, error) {
	list, err := r.find(listID)
	if err != nil {
		return nil, err
	}
	return snapshot(list), nil
}

// AllLists returns copies of every list, ordered by name.
func (r *ListRepository) AllLists(ctx context.Context) ([]*core.List, error) {
	out := make([]*core.List, 0, len(r.sess.Lists))
	for _, list := range r.sess.Lists {
		out = append(out, snapshot(list))
	}
	core.SortListsByName(out)
	return out, nil
}

// CreateList appends an empty list with id max+1.
func (r *ListRepository) CreateList(ctx context.Context, name string) (*core.List, error) {
	list := &core.List{
		Id:    nextListID(r.sess.Lists),
		Name:  name,
		Todos: []core.Todo{},
	}
	r.sess.Lists = append(r.sess.Lists, list)
	return snapshot(list), nil
}

// DeleteList removes the list; its todos go with it.
func (r *ListRepository) DeleteList(ctx context.Context, listID core.ID) error {
	idx := slices.IndexFunc(r.sess.Lists, func(l *core.List) bool { return l.Id == listID })
	if idx < 0 {
		return storage.ErrNotFound
	}
	r.sess.Lists = slices.Delete(r.sess.Lists, idx, idx+1)
	return nil
}

// UpdateListName renames a list in place.
func (r *ListRepository) UpdateListName(ctx context.Context, listID core.ID, name string) error {
	list, err := r.find(listID)
	if err != nil {
		return err
	}
	list.Name = name
	return nil
}

// CreateTodo appends an open todo with id max+1 within the list.
func (r *ListRepository) CreateTodo(ctx context.Context, listID core.ID, name string) (*core.Todo, error) {
	list, err := r.find(listID)
	if err != nil {
		return nil, err
	}
	todo := core.Todo{
		Id:   nextTodoID(list.Todos),
		Name: name,
	}
	list.Todos = append(list.Todos, todo)
	list.Summarize()
	return &todo, nil
}

// DeleteTodo removes the todo matching both ids.
func (r *ListRepository) DeleteTodo(ctx context.Context, listID, todoID core.ID) error {
	list, err := r.find(listID)
	if err != nil {
		return err
	}
	idx := slices.IndexFunc(list.Todos, func(t core.Todo) bool { return t.Id == todoID })
	if idx < 0 {
		return storage.ErrNotFound
	}
	list.Todos = slices.Delete(list.Todos, idx, idx+1)
	list.Summarize()
	return nil
}

// UpdateTodoStatus sets the completed flag of a todo.
func (r *ListRepository) UpdateTodoStatus(ctx context.Context, listID, todoID core.ID, completed bool) error {
	list, err := r.find(listID)
	if err != nil {
		return err
	}
	todo := list.FindTodo(todoID)
	if todo == nil {
		return storage.ErrNotFound
	}
	todo.Completed = completed
	list.Summarize()
	return nil
}

// MarkAllCompleted marks every todo in the list as completed.
func (r *ListRepository) MarkAllCompleted(ctx context.Context, listID core.ID) error {
	list, err := r.find(listID)
	if err != nil {
		return err
	}
	for i := range list.Todos {
		list.Todos[i].Completed = true
	}
	list.Summarize()
	return nil
}

func (r *ListRepository) find(listID core.ID) (*core.List, error) {
	for _, list := range r.sess.Lists {
		if list.Id == listID {
			return list, nil
		}
	}
	return nil, storage.ErrNotFound
}

// snapshot copies a list out of the session with fresh counters.
func snapshot(list *core.List) *core.List {
	out := list.Clone()
	if out.Todos == nil {
		out.Todos = []core.Todo{}
	}
	out.Summarize()
	return out
}

func nextListID(lists []*core.List) core.ID {
	var highest core.ID
	for _, list := range lists {
		if list.Id > highest {
			highest = list.Id
		}
	}
	return highest + 1
}

func nextTodoID(todos []core.Todo) core.ID {
	var highest core.ID
	for _, todo := range todos {
		if todo.Id > highest {
			highest = todo.Id
		}
	}
	return highest + 1
}
