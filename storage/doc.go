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


// Package storage provides the persistence contract for todo lists.
//
// ListRepository decouples the request layer from the backend that holds the
// data. Two implementations exist and are used interchangeably:
//
//   - postgres: a relational store; one connection per repository instance
//   - sessionstore: lists held in the caller's session state, in process
//
// # Errors
//
// Lookups of unknown list or todo ids return ErrNotFound in every backend.
// This is an expected outcome and callers branch on it with errors.Is.
// Connection and statement failures in the relational backend are wrapped
// with ErrStorage and are not retried.
//
// # Usage
//
//	repo, err := postgres.Open(ctx, "postgres:///todos")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer repo.Close()
//
//	list, err := repo.CreateList(ctx, "Groceries")
//
// Tests use the session backend over a fresh session:
//
//	repo := sessionstore.NewListRepository(session.New("test"))
//
// # Thread Safety
//
// Repositories are scoped to a single request or session and must not be
// shared between goroutines.
package storage
