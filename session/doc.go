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


// Package session keeps server-side session state for the session-backed
// list repository.
//
// Sessions are stored in BadgerDB under a digest of their id and expire
// after a configurable TTL. Loading a session that does not exist yields an
// empty session, so callers never branch on first access.
//
//	backend, err := session.OpenBackend("/var/lib/todos/sessions", false)
//	registry, err := session.NewRegistry(backend, session.WithTTL(time.Hour))
//	sess, err := registry.Load(ctx, id)
//	// ... mutate sess.Lists through sessionstore.ListRepository ...
//	err = registry.Save(ctx, sess)
package session
