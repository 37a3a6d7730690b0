// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package storage

import (
	"fmt"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/todos/core"
)

// ListsMUS serializes a slice of lists together with their todos.
// Counters are not written; they are recomputed on unmarshal.
var ListsMUS = listsSerializer{}

type listsSerializer struct{}

// Size returns the number of bytes Marshal needs for lists.
func (listsSerializer) Size(lists []*core.List) int {
	size := varint.Int64.Size(int64(len(lists)))
	for _, list := range lists {
		size += varint.Int64.Size(int64(list.Id))
		size += ord.String.Size(list.Name)
		size += varint.Int64.Size(int64(len(list.Todos)))
		for _, todo := range list.Todos {
			size += varint.Int64.Size(int64(todo.Id))
			size += ord.String.Size(todo.Name)
			size += ord.Bool.Size(todo.Completed)
		}
	}
	return size
}

// Marshal writes lists into bs, which must be at least Size(lists) long.
func (listsSerializer) Marshal(lists []*core.List, bs []byte) int {
	n := varint.Int64.Marshal(int64(len(lists)), bs)
	for _, list := range lists {
		n += varint.Int64.Marshal(int64(list.Id), bs[n:])
		n += ord.String.Marshal(list.Name, bs[n:])
		n += varint.Int64.Marshal(int64(len(list.Todos)), bs[n:])
		for _, todo := range list.Todos {
			n += varint.Int64.Marshal(int64(todo.Id), bs[n:])
			n += ord.String.Marshal(todo.Name, bs[n:])
			n += ord.Bool.Marshal(todo.Completed, bs[n:])
		}
	}
	return n
}

// Unmarshal reads lists from bs.
func (listsSerializer) Unmarshal(bs []byte) ([]*core.List, int, error) {
	count, n, err := readCount(bs)
	if err != nil {
		return nil, n, err
	}

	lists := make([]*core.List, 0, count)
	for i := 0; i < count; i++ {
		list := &core.List{}

		id, m, err := varint.Int64.Unmarshal(bs[n:])
		n += m
		if err != nil {
			return nil, n, err
		}
		list.Id = core.ID(id)

		list.Name, m, err = ord.String.Unmarshal(bs[n:])
		n += m
		if err != nil {
			return nil, n, err
		}

		todoCount, m, err := readCount(bs[n:])
		n += m
		if err != nil {
			return nil, n, err
		}

		list.Todos = make([]core.Todo, todoCount)
		for j := range list.Todos {
			todoID, m, err := varint.Int64.Unmarshal(bs[n:])
			n += m
			if err != nil {
				return nil, n, err
			}
			list.Todos[j].Id = core.ID(todoID)

			list.Todos[j].Name, m, err = ord.String.Unmarshal(bs[n:])
			n += m
			if err != nil {
				return nil, n, err
			}

			list.Todos[j].Completed, m, err = ord.Bool.Unmarshal(bs[n:])
			n += m
			if err != nil {
				return nil, n, err
			}
		}

		list.Summarize()
		lists = append(lists, list)
	}
	return lists, n, nil
}

// readCount reads a collection length and rejects values that cannot
// possibly fit in the remaining bytes.
func readCount(bs []byte) (int, int, error) {
	count, n, err := varint.Int64.Unmarshal(bs)
	if err != nil {
		return 0, n, err
	}
	if count < 0 || count > int64(len(bs)-n) {
		return 0, n, fmt.Errorf("invalid collection length %d", count)
	}
	return int(count), n, nil
}

// MarshalLists serializes lists to bytes.
func MarshalLists(lists []*core.List) []byte {
	buf := make([]byte, ListsMUS.Size(lists))
	ListsMUS.Marshal(lists, buf)
	return buf
}

// UnmarshalLists deserializes lists from bytes.
func UnmarshalLists(data []byte) ([]*core.List, error) {
	lists, _, err := ListsMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return lists, nil
}
