package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/poiesic/todos/core"
	"github.com/poiesic/todos/storage"
)

const driverName = "pgx"

// ListRepository implements storage.ListRepository for PostgreSQL.
//
// Each instance holds exactly one connection, acquired when it is created
// and released by Close. Every statement is logged before it runs.
type ListRepository struct {
	db     *sql.DB
	ownsDB bool
	conn   *sql.Conn
	logger *slog.Logger
}

var _ storage.ListRepository = (*ListRepository)(nil)

// Option configures a ListRepository.
type Option func(*ListRepository)

// WithLogger sets the logger statements are written to.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *ListRepository) {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
	}
}

// querier is satisfied by *sql.Conn and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Open connects to the database at dsn and returns a repository owning that
// connection. Close releases both the connection and the handle.
func Open(ctx context.Context, dsn string, opts ...Option) (*ListRepository, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: open database: %w", storage.ErrStorage, err)
	}
	db.SetMaxOpenConns(1)

	repo, err := NewListRepository(ctx, db, opts...)
	if err != nil {
		db.Close()
		return nil, err
	}
	repo.ownsDB = true
	return repo, nil
}

// NewListRepository acquires one connection from db. The caller keeps
// ownership of db; Close only returns the connection.
func NewListRepository(ctx context.Context, db *sql.DB, opts ...Option) (*ListRepository, error) {
	conn, err := db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: connect: %w", storage.ErrStorage, err)
	}

	r := &ListRepository{
		db:     db,
		conn:   conn,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Close releases the connection. Closing twice is a no-op.
func (r *ListRepository) Close() error {
	if r.conn == nil {
		return nil
	}
	err := r.conn.Close()
	r.conn = nil
	if r.ownsDB {
		err = errors.Join(err, r.db.Close())
	}
	return err
}

// EnsureSchema creates the lists and todos tables if they don't exist.
func (r *ListRepository) EnsureSchema(ctx context.Context) error {
	if r.conn == nil {
		return storage.ErrStorageClosed
	}
	for _, stmt := range schema {
		if _, err := r.exec(ctx, r.conn, stmt); err != nil {
			return err
		}
	}
	return nil
}

// FindList retrieves a list with its counts and todos.
func (r *ListRepository) FindList(ctx context.Context, listID core.ID) (*core.List, error) {
	if r.conn == nil {
		return nil, storage.ErrStorageClosed
	}

	list, err := scanList(r.queryRow(ctx, r.conn, findListSQL, int64(listID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, wrapStorageErr("find list", err)
	}

	todos, err := r.findTodos(ctx, listID)
	if err != nil {
		return nil, err
	}
	list.Todos = todos
	return list, nil
}

// AllLists retrieves every list with its counts, ordered by name.
// Todos are not loaded.
func (r *ListRepository) AllLists(ctx context.Context) ([]*core.List, error) {
	if r.conn == nil {
		return nil, storage.ErrStorageClosed
	}

	rows, err := r.query(ctx, r.conn, allListsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lists := []*core.List{}
	for rows.Next() {
		list, err := scanList(rows)
		if err != nil {
			return nil, wrapStorageErr("scan list", err)
		}
		lists = append(lists, list)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapStorageErr("all lists", err)
	}
	return lists, nil
}

// CreateList inserts a new list; the database assigns its id.
func (r *ListRepository) CreateList(ctx context.Context, name string) (*core.List, error) {
	if r.conn == nil {
		return nil, storage.ErrStorageClosed
	}

	var id int64
	if err := r.queryRow(ctx, r.conn, createListSQL, name).Scan(&id); err != nil {
		return nil, wrapStorageErr("create list", err)
	}
	return &core.List{
		Id:    core.ID(id),
		Name:  name,
		Todos: []core.Todo{},
	}, nil
}

// DeleteList removes a list's todos, then the list, in one transaction.
func (r *ListRepository) DeleteList(ctx context.Context, listID core.ID) error {
	if r.conn == nil {
		return storage.ErrStorageClosed
	}

	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		return wrapStorageErr("begin", err)
	}
	defer tx.Rollback()

	if _, err := r.exec(ctx, tx, deleteListTodosSQL, int64(listID)); err != nil {
		return err
	}
	res, err := r.exec(ctx, tx, deleteListSQL, int64(listID))
	if err != nil {
		return err
	}
	if err := requireAffected(res); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return wrapStorageErr("commit", err)
	}
	return nil
}

// UpdateListName renames a list.
func (r *ListRepository) UpdateListName(ctx context.Context, listID core.ID, name string) error {
	if r.conn == nil {
		return storage.ErrStorageClosed
	}

	res, err := r.exec(ctx, r.conn, updateListNameSQL, name, int64(listID))
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// CreateTodo inserts an open todo under an existing list.
func (r *ListRepository) CreateTodo(ctx context.Context, listID core.ID, name string) (*core.Todo, error) {
	if r.conn == nil {
		return nil, storage.ErrStorageClosed
	}

	var id int64
	err := r.queryRow(ctx, r.conn, createTodoSQL, name, int64(listID)).Scan(&id)
	if err != nil {
		// The insert selects from lists, so an unknown list yields no row.
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, wrapStorageErr("create todo", err)
	}
	return &core.Todo{Id: core.ID(id), Name: name}, nil
}

// DeleteTodo removes the todo matching both ids.
func (r *ListRepository) DeleteTodo(ctx context.Context, listID, todoID core.ID) error {
	if r.conn == nil {
		return storage.ErrStorageClosed
	}

	res, err := r.exec(ctx, r.conn, deleteTodoSQL, int64(todoID), int64(listID))
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// UpdateTodoStatus sets the completed flag of a todo.
func (r *ListRepository) UpdateTodoStatus(ctx context.Context, listID, todoID core.ID, completed bool) error {
	if r.conn == nil {
		return storage.ErrStorageClosed
	}

	res, err := r.exec(ctx, r.conn, updateTodoStatusSQL, completed, int64(todoID), int64(listID))
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// MarkAllCompleted marks every todo of a list as completed.
func (r *ListRepository) MarkAllCompleted(ctx context.Context, listID core.ID) error {
	if r.conn == nil {
		return storage.ErrStorageClosed
	}

	res, err := r.exec(ctx, r.conn, markAllCompletedSQL, int64(listID))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return wrapStorageErr("rows affected", err)
	}
	if n > 0 {
		return nil
	}

	// Nothing updated: either the list is empty or it doesn't exist.
	var one int
	if err := r.queryRow(ctx, r.conn, listExistsSQL, int64(listID)).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.ErrNotFound
		}
		return wrapStorageErr("list exists", err)
	}
	return nil
}

func (r *ListRepository) findTodos(ctx context.Context, listID core.ID) ([]core.Todo, error) {
	rows, err := r.query(ctx, r.conn, findTodosSQL, int64(listID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	todos := []core.Todo{}
	for rows.Next() {
		var (
			id   int64
			todo core.Todo
		)
		if err := rows.Scan(&id, &todo.Name, &todo.Completed); err != nil {
			return nil, wrapStorageErr("scan todo", err)
		}
		todo.Id = core.ID(id)
		todos = append(todos, todo)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapStorageErr("find todos", err)
	}
	return todos, nil
}

func (r *ListRepository) logStatement(stmt string, args []any) {
	r.logger.Info("executing statement", "statement", stmt, "params", args)
}

func (r *ListRepository) exec(ctx context.Context, q querier, stmt string, args ...any) (sql.Result, error) {
	r.logStatement(stmt, args)
	res, err := q.ExecContext(ctx, stmt, args...)
	if err != nil {
		return nil, wrapStorageErr("exec", err)
	}
	return res, nil
}

func (r *ListRepository) query(ctx context.Context, q querier, stmt string, args ...any) (*sql.Rows, error) {
	r.logStatement(stmt, args)
	rows, err := q.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, wrapStorageErr("query", err)
	}
	return rows, nil
}

// queryRow defers errors to Scan, like sql.Row itself.
func (r *ListRepository) queryRow(ctx context.Context, q querier, stmt string, args ...any) *sql.Row {
	r.logStatement(stmt, args)
	return q.QueryRowContext(ctx, stmt, args...)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanList(s scanner) (*core.List, error) {
	var id, count, remaining int64
	list := &core.List{}
	if err := s.Scan(&id, &list.Name, &count, &remaining); err != nil {
		return nil, err
	}
	list.Id = core.ID(id)
	list.TodosCount = int(count)
	list.TodosRemainingCount = int(remaining)
	return list, nil
}

// requireAffected maps "no rows touched" to storage.ErrNotFound.
func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return wrapStorageErr("rows affected", err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func wrapStorageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", storage.ErrStorage, op, err)
}
