// Package sessionstore implements storage.ListRepository over the lists kept
// in a user's session.
//
// The repository owns no state of its own: every operation reads and mutates
// the session.Session passed to NewListRepository, and the session's owner
// decides when to persist it (see session.Registry).
package sessionstore
