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


package todos

import (
	"bytes"
	"context"
	"errors"
	"log/slog"

	"github.com/poiesic/todos/config"
	"github.com/poiesic/todos/session"
	"github.com/poiesic/todos/storage"
	"github.com/poiesic/todos/storage/postgres"
	"github.com/poiesic/todos/storage/sessionstore"
)

var (
	// ErrSessionRequired is returned when the session backend is used without a session id.
	ErrSessionRequired = errors.New("session id is required for the session backend")

	// ErrSessionsUnsupported is returned by session operations on the postgres backend.
	ErrSessionsUnsupported = errors.New("sessions are only available with the session backend")
)

// Database hands out list repositories for the configured backend.
type Database struct {
	cfg      *config.Config
	backend  *session.Backend
	registry *session.Registry
	logger   *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*Database)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) DatabaseOption {
	return func(db *Database) {
		if logger == nil {
			logger = slog.Default()
		}
		db.logger = logger
	}
}

// NewDatabase validates cfg and opens the session store when the session backend is selected.
func NewDatabase(cfg *config.Config, opts ...DatabaseOption) (*Database, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	db := &Database{
		cfg:    cfg,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(db)
	}

	if cfg.Backend != config.BackendSession {
		return db, nil
	}

	backend, err := session.OpenBackend(cfg.SessionDir, cfg.SessionInMemory)
	if err != nil {
		return nil, err
	}
	registry, err := session.NewRegistry(backend,
		session.WithTTL(cfg.SessionTTL),
		session.WithLogger(db.logger))
	if err != nil {
		backend.Close()
		return nil, err
	}
	db.backend = backend
	db.registry = registry
	db.logger.Debug("session backend opened", "in_memory", cfg.SessionInMemory, "ttl", registry.TTL())
	return db, nil
}

// Config returns the configuration the database was opened with.
func (db *Database) Config() *config.Config {
	return db.cfg
}

// Close releases the session store, if one was opened.
func (db *Database) Close() error {
	if db.backend == nil {
		return nil
	}
	if err := db.backend.Close(); err != nil {
		db.logger.Error("error closing session storage", "err", err)
		return err
	}
	return nil
}

// Repository opens a repository scoped to one request.
//
// With the postgres backend every call acquires its own connection and
// sessionID is ignored. With the session backend the repository works on the
// lists of sessionID, and closing it saves any changes. The caller must Close the
// repository.
func (db *Database) Repository(ctx context.Context, sessionID string) (storage.ListRepository, error) {
	if db.registry == nil {
		repo, err := postgres.Open(ctx, db.cfg.DatabaseURL, postgres.WithLogger(db.logger))
		if err != nil {
			return nil, err
		}
		return repo, nil
	}
	if sessionID == "" {
		return nil, ErrSessionRequired
	}
	sess, err := db.registry.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	repo := sessionstore.NewListRepository(sess)
	return &sessionRepository{
		ListRepository: repo,
		registry:       db.registry,
		loaded:         storage.MarshalLists(repo.Session().Lists),
	}, nil
}

// NewSession returns the id of a new, empty session.
func (db *Database) NewSession() (string, error) {
	if db.registry == nil {
		return "", ErrSessionsUnsupported
	}
	id := session.NewSessionID()
	db.logger.Debug("session created", "session", id)
	return id, nil
}

// EndSession discards a session and its lists.
func (db *Database) EndSession(ctx context.Context, sessionID string) error {
	if db.registry == nil {
		return ErrSessionsUnsupported
	}
	if sessionID == "" {
		return ErrSessionRequired
	}
	return db.registry.Delete(ctx, sessionID)
}

// EnsureSchema creates the postgres tables when they are missing.
// It does nothing for the session backend.
func (db *Database) EnsureSchema(ctx context.Context) error {
	if db.registry != nil {
		db.logger.Debug("session backend has no schema")
		return nil
	}
	repo, err := postgres.Open(ctx, db.cfg.DatabaseURL, postgres.WithLogger(db.logger))
	if err != nil {
		return err
	}
	return errors.Join(repo.EnsureSchema(ctx), repo.Close())
}

// sessionRepository writes its session back to the registry on Close when
// the lists changed. Read-only use neither creates a session nor extends its TTL.
type sessionRepository struct {
	*sessionstore.ListRepository
	registry *session.Registry
	loaded   []byte
	closed   bool
}

func (r *sessionRepository) Close() error {
	if r.closed {
		return nil
	}
	current := storage.MarshalLists(r.Session().Lists)
	if !bytes.Equal(current, r.loaded) {
		if err := r.registry.Save(context.Background(), r.Session()); err != nil {
			return err
		}
	}
	r.closed = true
	return nil
}
