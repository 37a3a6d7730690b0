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


package core

import (
	"fmt"
	"unicode/utf8"
)

const (
	// MinNameLength is the shortest accepted list or todo name, in characters.
	MinNameLength = 1
	// MaxNameLength is the longest accepted list or todo name, in characters.
	MaxNameLength = 100
)

// ValidateListName validates a list name before it is created or renamed.
//
// Validation rules:
//   - Name must be between 1 and 100 characters
//   - Name must not be used by any list in existing
//
// Repositories never call this; the caller validates before invoking
// CreateList or UpdateListName. Names are expected to be trimmed already.
func ValidateListName(name string, existing []*List) error {
	if !validNameLength(name) {
		return fmt.Errorf("%w: %w", ErrValidation, ErrListNameLength)
	}
	for _, list := range existing {
		if list != nil && list.Name == name {
			return fmt.Errorf("%w: %w", ErrValidation, ErrListNameNotUnique)
		}
	}
	return nil
}

// ValidateTodoName validates a todo name before it is created.
func ValidateTodoName(name string) error {
	if !validNameLength(name) {
		return fmt.Errorf("%w: %w", ErrValidation, ErrTodoNameLength)
	}
	return nil
}

func validNameLength(name string) bool {
	n := utf8.RuneCountInString(name)
	return n >= MinNameLength && n <= MaxNameLength
}
