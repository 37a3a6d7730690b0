package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/poiesic/todos"
	"github.com/poiesic/todos/config"
	"github.com/poiesic/todos/core"
	"github.com/poiesic/todos/snapshot"
	"github.com/poiesic/todos/storage"
	"github.com/urfave/cli/v2"
)

var (
	errListNotFound = errors.New("list not found")
	errTodoNotFound = errors.New("todo not found")
)

func configFrom(c *cli.Context) *config.Config {
	if cfg, ok := c.App.Metadata[configKey].(*config.Config); ok {
		return cfg
	}
	return config.DefaultConfig()
}

func openDatabase(c *cli.Context) (*todos.Database, error) {
	db, err := todos.NewDatabase(configFrom(c))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

// withRepository runs fn against a repository scoped to this invocation.
func withRepository(c *cli.Context, fn func(ctx context.Context, repo storage.ListRepository) error) (err error) {
	ctx := c.Context
	if ctx == nil {
		ctx = context.Background()
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, db.Close())
	}()

	repo, err := db.Repository(ctx, c.String("session"))
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, repo.Close())
	}()

	return fn(ctx, repo)
}

func parseID(s, what string) (core.ID, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid %s id %q", what, s)
	}
	return core.ID(id), nil
}

// listArg parses the first argument as a list id.
func listArg(c *cli.Context) (core.ID, error) {
	if c.NArg() < 1 {
		return 0, errors.New("list id is required")
	}
	return parseID(c.Args().First(), "list")
}

// todoArgs parses "<list> <todo>".
func todoArgs(c *cli.Context) (core.ID, core.ID, error) {
	if c.NArg() < 2 {
		return 0, 0, errors.New("list id and todo id are required")
	}
	listID, err := parseID(c.Args().Get(0), "list")
	if err != nil {
		return 0, 0, err
	}
	todoID, err := parseID(c.Args().Get(1), "todo")
	if err != nil {
		return 0, 0, err
	}
	return listID, todoID, nil
}

// nameArg joins args from position i on, so names need no quoting.
func nameArg(c *cli.Context, i int) string {
	return strings.TrimSpace(strings.Join(c.Args().Slice()[min(i, c.NArg()):], " "))
}

func notFound(err error, replacement error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return replacement
	}
	return err
}

// requireList reports a missing list before a todo operation runs.
func requireList(ctx context.Context, repo storage.ListRepository, listID core.ID) error {
	_, err := repo.FindList(ctx, listID)
	return notFound(err, errListNotFound)
}

func initDBCommand(c *cli.Context) error {
	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.EnsureSchema(c.Context); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	fmt.Fprintln(c.App.Writer, "schema ready")
	return nil
}

func newSessionCommand(c *cli.Context) error {
	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	id, err := db.NewSession()
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, id)
	return nil
}

func endSessionCommand(c *cli.Context) error {
	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	return db.EndSession(c.Context, c.String("session"))
}

func listsCommand(c *cli.Context) error {
	return withRepository(c, func(ctx context.Context, repo storage.ListRepository) error {
		lists, err := repo.AllLists(ctx)
		if err != nil {
			return err
		}
		renderLists(c.App.Writer, lists)
		return nil
	})
}

func showCommand(c *cli.Context) error {
	listID, err := listArg(c)
	if err != nil {
		return err
	}
	return withRepository(c, func(ctx context.Context, repo storage.ListRepository) error {
		list, err := repo.FindList(ctx, listID)
		if err != nil {
			return notFound(err, errListNotFound)
		}
		renderList(c.App.Writer, list)
		return nil
	})
}

func newListCommand(c *cli.Context) error {
	name := nameArg(c, 0)
	return withRepository(c, func(ctx context.Context, repo storage.ListRepository) error {
		existing, err := repo.AllLists(ctx)
		if err != nil {
			return err
		}
		if err := core.ValidateListName(name, existing); err != nil {
			return err
		}
		list, err := repo.CreateList(ctx, name)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.App.Writer, "created list %d: %s\n", list.Id, list.Name)
		return nil
	})
}

func renameListCommand(c *cli.Context) error {
	listID, err := listArg(c)
	if err != nil {
		return err
	}
	name := nameArg(c, 1)
	return withRepository(c, func(ctx context.Context, repo storage.ListRepository) error {
		if err := requireList(ctx, repo, listID); err != nil {
			return err
		}
		existing, err := repo.AllLists(ctx)
		if err != nil {
			return err
		}
		if err := core.ValidateListName(name, existing); err != nil {
			return err
		}
		if err := repo.UpdateListName(ctx, listID, name); err != nil {
			return notFound(err, errListNotFound)
		}
		fmt.Fprintf(c.App.Writer, "renamed list %d to %s\n", listID, name)
		return nil
	})
}

func deleteListCommand(c *cli.Context) error {
	listID, err := listArg(c)
	if err != nil {
		return err
	}
	return withRepository(c, func(ctx context.Context, repo storage.ListRepository) error {
		if err := repo.DeleteList(ctx, listID); err != nil {
			return notFound(err, errListNotFound)
		}
		fmt.Fprintf(c.App.Writer, "deleted list %d\n", listID)
		return nil
	})
}

func addTodoCommand(c *cli.Context) error {
	listID, err := listArg(c)
	if err != nil {
		return err
	}
	name := nameArg(c, 1)
	if err := core.ValidateTodoName(name); err != nil {
		return err
	}
	return withRepository(c, func(ctx context.Context, repo storage.ListRepository) error {
		todo, err := repo.CreateTodo(ctx, listID, name)
		if err != nil {
			return notFound(err, errListNotFound)
		}
		fmt.Fprintf(c.App.Writer, "added todo %d: %s\n", todo.Id, todo.Name)
		return nil
	})
}

func deleteTodoCommand(c *cli.Context) error {
	listID, todoID, err := todoArgs(c)
	if err != nil {
		return err
	}
	return withRepository(c, func(ctx context.Context, repo storage.ListRepository) error {
		if err := requireList(ctx, repo, listID); err != nil {
			return err
		}
		if err := repo.DeleteTodo(ctx, listID, todoID); err != nil {
			return notFound(err, errTodoNotFound)
		}
		fmt.Fprintf(c.App.Writer, "deleted todo %d\n", todoID)
		return nil
	})
}

func statusCommand(completed bool) cli.ActionFunc {
	return func(c *cli.Context) error {
		listID, todoID, err := todoArgs(c)
		if err != nil {
			return err
		}
		return withRepository(c, func(ctx context.Context, repo storage.ListRepository) error {
			if err := requireList(ctx, repo, listID); err != nil {
				return err
			}
			if err := repo.UpdateTodoStatus(ctx, listID, todoID, completed); err != nil {
				return notFound(err, errTodoNotFound)
			}
			list, err := repo.FindList(ctx, listID)
			if err != nil {
				return notFound(err, errListNotFound)
			}
			renderList(c.App.Writer, list)
			return nil
		})
	}
}

func completeAllCommand(c *cli.Context) error {
	listID, err := listArg(c)
	if err != nil {
		return err
	}
	return withRepository(c, func(ctx context.Context, repo storage.ListRepository) error {
		if err := repo.MarkAllCompleted(ctx, listID); err != nil {
			return notFound(err, errListNotFound)
		}
		list, err := repo.FindList(ctx, listID)
		if err != nil {
			return notFound(err, errListNotFound)
		}
		renderList(c.App.Writer, list)
		return nil
	})
}

func importCommand(c *cli.Context) error {
	if c.NArg() < 1 {
		return errors.New("snapshot file is required")
	}
	f, err := os.Open(c.Args().First())
	if err != nil {
		return fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer f.Close()

	snap, err := snapshot.Read(f)
	if err != nil {
		return err
	}

	cfg := configFrom(c)
	workers := cfg.ImportWorkers
	if c.IsSet("workers") {
		workers = c.Int("workers")
	}
	if cfg.Backend == config.BackendSession {
		// Every worker would load and save the same session.
		workers = 1
	}
	if workers < 1 {
		return errors.New("workers must be greater than 0")
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	sessionID := c.String("session")
	open := func(ctx context.Context) (storage.ListRepository, error) {
		return db.Repository(ctx, sessionID)
	}

	opts := []snapshot.ImporterOption{
		snapshot.WithWorkers(workers),
		snapshot.WithMaxRetries(c.Int("max-retries")),
		snapshot.WithRetryDelay(c.Duration("retry-delay")),
	}
	if c.Bool("progress") {
		opts = append(opts, snapshot.WithProgress(c.App.ErrWriter, 1))
	}
	im, err := snapshot.NewImporter(open, opts...)
	if err != nil {
		return err
	}

	result, err := im.Import(c.Context, snap)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	for _, e := range result.Errors {
		fmt.Fprintln(c.App.ErrWriter, e)
	}
	fmt.Fprintf(c.App.Writer, "imported %d lists, skipped %d\n", result.Imported, result.Skipped)
	if failed := len(result.Errors) - result.Skipped; failed > 0 {
		return fmt.Errorf("%d lists failed to import", failed)
	}
	return nil
}

func exportCommand(c *cli.Context) error {
	if c.NArg() < 1 {
		return errors.New("snapshot file is required")
	}
	path := c.Args().First()

	return withRepository(c, func(ctx context.Context, repo storage.ListRepository) (err error) {
		snap, err := snapshot.Export(ctx, repo)
		if err != nil {
			return err
		}

		var w io.Writer = c.App.Writer
		if path != "-" {
			f, createErr := os.Create(path)
			if createErr != nil {
				return fmt.Errorf("failed to create snapshot: %w", createErr)
			}
			defer func() {
				err = errors.Join(err, f.Close())
			}()
			w = f
		}
		return snapshot.Write(w, snap)
	})
}
