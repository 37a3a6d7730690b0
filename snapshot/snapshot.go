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


package snapshot

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/poiesic/todos/storage"
	"gopkg.in/yaml.v3"
)

// Snapshot is the document form of a set of lists.
type Snapshot struct {
	Lists []List `yaml:"lists"`
}

// List is a named list and its todos, in display order.
type List struct {
	Name  string `yaml:"name"`
	Todos []Todo `yaml:"todos,omitempty"`
}

// Todo is a single entry of a List.
type Todo struct {
	Name      string `yaml:"name"`
	Completed bool   `yaml:"completed"`
}

// Read decodes a snapshot. An empty document yields an empty snapshot.
func Read(r io.Reader) (*Snapshot, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	snap := &Snapshot{}
	if err := dec.Decode(snap); err != nil {
		if errors.Is(err, io.EOF) {
			return snap, nil
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}
	return snap, nil
}

// Write encodes snap as YAML.
func Write(w io.Writer, snap *Snapshot) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(snap); err != nil {
		return err
	}
	return enc.Close()
}

// Export reads every list in repo, with its todos, in name order.
func Export(ctx context.Context, repo storage.ListRepository) (*Snapshot, error) {
	summaries, err := repo.AllLists(ctx)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{Lists: make([]List, 0, len(summaries))}
	for _, summary := range summaries {
		list, err := repo.FindList(ctx, summary.Id)
		if err != nil {
			return nil, fmt.Errorf("export list %q: %w", summary.Name, err)
		}
		out := List{Name: list.Name}
		for _, todo := range list.Todos {
			out.Todos = append(out.Todos, Todo{Name: todo.Name, Completed: todo.Completed})
		}
		snap.Lists = append(snap.Lists, out)
	}
	return snap, nil
}
