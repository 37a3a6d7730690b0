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


package session

import (
	"github.com/google/uuid"
	"github.com/poiesic/todos/core"
)

// Session is the server-side state owned by one user session.
//
// A Session is mutated by a single request at a time. Lists is nil until
// first accessed; the session-backed list repository initializes it.
type Session struct {
	Id    string
	Lists []*core.List
}

// New creates an empty session with the given id.
func New(id string) *Session {
	return &Session{Id: id}
}

// NewSessionID returns a fresh random session id.
func NewSessionID() string {
	return uuid.NewString()
}
