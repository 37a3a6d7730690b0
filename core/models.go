package core

// ID identifies a list or a todo.
// List ids are unique across a store; todo ids only within their owning list.
type ID int64

// Todo is a named, completable unit of work owned by exactly one list.
type Todo struct {
	Id        ID
	Name      string
	Completed bool
}

// List is a named collection of todos.
//
// TodosCount and TodosRemainingCount are always populated by repositories.
// Todos may be nil when a repository returns counts only (see AllLists on
// the relational backend).
type List struct {
	Id                  ID
	Name                string
	Todos               []Todo
	TodosCount          int
	TodosRemainingCount int
}

// IsComplete reports whether the list has todos and all of them are completed.
func (l *List) IsComplete() bool {
	return l.TodosCount > 0 && l.TodosRemainingCount == 0
}

// Summarize recomputes the counters from Todos.
func (l *List) Summarize() {
	l.TodosCount = len(l.Todos)
	l.TodosRemainingCount = 0
	for _, todo := range l.Todos {
		if !todo.Completed {
			l.TodosRemainingCount++
		}
	}
}

// FindTodo returns the todo with the given id, or nil.
func (l *List) FindTodo(id ID) *Todo {
	for i := range l.Todos {
		if l.Todos[i].Id == id {
			return &l.Todos[i]
		}
	}
	return nil
}

// Clone returns a deep copy of the list.
func (l *List) Clone() *List {
	out := *l
	if l.Todos != nil {
		out.Todos = make([]Todo, len(l.Todos))
		copy(out.Todos, l.Todos)
	}
	return &out
}
