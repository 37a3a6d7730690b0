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

import "errors"

// Domain validation errors
var (
	// ErrValidation marks every name validation failure.
	ErrValidation = errors.New("validation failed")

	// ErrListNameLength indicates a list name outside 1..100 characters.
	ErrListNameLength = errors.New("list name must be between 1 and 100 characters")

	// ErrListNameNotUnique indicates a list name already used by another list.
	ErrListNameNotUnique = errors.New("list name must be unique")

	// ErrTodoNameLength indicates a todo name outside 1..100 characters.
	ErrTodoNameLength = errors.New("todo must be between 1 and 100 characters")
)
