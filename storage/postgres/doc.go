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


// Package postgres implements storage.ListRepository on PostgreSQL through
// database/sql and the pgx driver.
//
// # Storage layout
//
//	lists(id serial PRIMARY KEY, name text NOT NULL UNIQUE)
//	todos(id serial PRIMARY KEY, name text NOT NULL,
//	      completed boolean NOT NULL DEFAULT false,
//	      list_id integer NOT NULL REFERENCES lists (id))
//
// List counts come from one aggregate query joining lists to todos and
// grouping by list id. Deleting a list removes its todos first, then the
// list, inside a single transaction.
//
// # Connections
//
// A repository pins one connection for its whole life. Create one per
// request and Close it when the request ends:
//
//	repo, err := postgres.Open(ctx, os.Getenv("DATABASE_URL"))
//	if err != nil {
//	    return err
//	}
//	defer repo.Close()
package postgres
