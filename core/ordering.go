package core

import (
	"slices"
	"strings"
)

// SortListsByName sorts lists by name, ascending, in place. Names compare
// by byte value, matching the postgres backend's C collation.
func SortListsByName(lists []*List) {
	slices.SortStableFunc(lists, func(a, b *List) int {
		return strings.Compare(a.Name, b.Name)
	})
}

// PartitionLists returns the incomplete lists followed by the complete ones.
// Relative order inside each group is preserved.
func PartitionLists(lists []*List) []*List {
	out := make([]*List, 0, len(lists))
	var complete []*List
	for _, list := range lists {
		if list.IsComplete() {
			complete = append(complete, list)
			continue
		}
		out = append(out, list)
	}
	return append(out, complete...)
}

// PartitionTodos returns the open todos followed by the completed ones.
// Relative order inside each group is preserved.
func PartitionTodos(todos []Todo) []Todo {
	out := make([]Todo, 0, len(todos))
	var done []Todo
	for _, todo := range todos {
		if todo.Completed {
			done = append(done, todo)
			continue
		}
		out = append(out, todo)
	}
	return append(out, done...)
}
