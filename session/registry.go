package session

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/todos/storage"
)

// DefaultTTL is how long an untouched session survives.
const DefaultTTL = 24 * time.Hour

// Registry loads and saves sessions in a Backend.
type Registry struct {
	backend *Backend
	ttl     time.Duration
	logger  *slog.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithTTL sets how long a saved session lives. Non-positive values keep the default.
func WithTTL(ttl time.Duration) Option {
	return func(r *Registry) {
		if ttl > 0 {
			r.ttl = ttl
		}
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
	}
}

// NewRegistry creates a Registry on top of backend.
func NewRegistry(backend *Backend, opts ...Option) (*Registry, error) {
	if backend == nil {
		return nil, ErrBackendRequired
	}
	r := &Registry{
		backend: backend,
		ttl:     DefaultTTL,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// TTL returns the lifetime applied to saved sessions.
func (r *Registry) TTL() time.Duration {
	return r.ttl
}

// Load retrieves the session with the given id.
// A session that was never saved, or has expired, loads as a new empty session.
func (r *Registry) Load(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return nil, ErrEmptySessionID
	}

	sess := New(id)
	err := r.backend.view(func(tx *badger.Txn) error {
		item, err := tx.Get(makeSessionKey(id))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return nil
			}
			return err
		}
		return item.Value(func(val []byte) error {
			lists, err := storage.UnmarshalLists(val)
			if err != nil {
				return err
			}
			sess.Lists = lists
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	r.logger.Debug("session loaded", "lists", len(sess.Lists))
	return sess, nil
}

// Save writes the session and restarts its TTL.
func (r *Registry) Save(ctx context.Context, sess *Session) error {
	if sess == nil || sess.Id == "" {
		return ErrEmptySessionID
	}
	err := r.backend.update(func(tx *badger.Txn) error {
		entry := badger.NewEntry(makeSessionKey(sess.Id), storage.MarshalLists(sess.Lists)).
			WithTTL(r.ttl)
		return tx.SetEntry(entry)
	})
	if err != nil {
		return err
	}
	r.logger.Debug("session saved", "lists", len(sess.Lists), "ttl", r.ttl)
	return nil
}

// Delete removes a session. Deleting an unknown session is not an error.
func (r *Registry) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrEmptySessionID
	}
	return r.backend.update(func(tx *badger.Txn) error {
		return tx.Delete(makeSessionKey(id))
	})
}
