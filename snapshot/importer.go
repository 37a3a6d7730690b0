package snapshot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/todos/core"
	"github.com/poiesic/todos/storage"
)

// OpenFunc opens a repository for one unit of import work. The importer
// closes every repository it opens.
type OpenFunc func(ctx context.Context) (storage.ListRepository, error)

// Result summarizes an import.
type Result struct {
	// Imported counts lists written to the target.
	Imported int
	// Skipped counts lists rejected by validation.
	Skipped int
	// Errors holds one entry per skipped or failed list.
	Errors []error
}

// Err joins every per-list error, or returns nil when there are none.
func (r *Result) Err() error {
	return errors.Join(r.Errors...)
}

// Importer writes snapshots into repositories.
type Importer struct {
	open          OpenFunc
	workers       int
	maxRetries    int
	retryDelay    time.Duration
	progress      io.Writer
	progressEvery int
	logger        *slog.Logger
}

// ImporterOption configures an Importer.
type ImporterOption func(*Importer)

// WithWorkers sets how many lists are imported concurrently.
// Default is 4.
func WithWorkers(n int) ImporterOption {
	return func(im *Importer) {
		if n > 0 {
			im.workers = n
		}
	}
}

// WithMaxRetries sets how many times opening a repository is attempted.
// Default is 3.
func WithMaxRetries(n int) ImporterOption {
	return func(im *Importer) {
		if n > 0 {
			im.maxRetries = n
		}
	}
}

// WithRetryDelay sets the initial backoff between open attempts.
// Default is 100ms.
func WithRetryDelay(d time.Duration) ImporterOption {
	return func(im *Importer) {
		if d >= 0 {
			im.retryDelay = d
		}
	}
}

// WithProgress reports progress to w every `every` lists.
func WithProgress(w io.Writer, every int) ImporterOption {
	return func(im *Importer) {
		im.progress = w
		im.progressEvery = every
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) ImporterOption {
	return func(im *Importer) {
		if logger == nil {
			logger = slog.Default()
		}
		im.logger = logger
	}
}

// NewImporter creates an Importer that obtains repositories from open.
func NewImporter(open OpenFunc, opts ...ImporterOption) (*Importer, error) {
	if open == nil {
		return nil, ErrOpenFuncRequired
	}
	im := &Importer{
		open:       open,
		workers:    4,
		maxRetries: 3,
		retryDelay: 100 * time.Millisecond,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(im)
	}
	return im, nil
}

// Import validates snap against the target and writes every valid list.
// Lists that fail validation are skipped and reported in the Result; the
// returned error is reserved for failures that stop the whole import.
func (im *Importer) Import(ctx context.Context, snap *Snapshot) (*Result, error) {
	existing, err := im.existingLists(ctx)
	if err != nil {
		return nil, err
	}

	accepted, rejected := im.plan(snap, existing)
	result := &Result{Skipped: len(rejected), Errors: rejected}
	if len(accepted) == 0 {
		im.logger.Info("import finished", "imported", 0, "skipped", result.Skipped)
		return result, nil
	}

	pool, err := ants.NewPool(im.workers)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var tracker *ProgressTracker
	if im.progress != nil {
		tracker = NewProgressTracker(im.progress, len(accepted), im.progressEvery)
	}

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	record := func(list List, err error) {
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			im.logger.Error("import list failed", "list", list.Name, "error", err)
			result.Errors = append(result.Errors, fmt.Errorf("list %q: %w", list.Name, err))
			return
		}
		result.Imported++
	}

	for _, list := range accepted {
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			record(list, im.importList(ctx, list))
			tracker.Add(1)
		})
		if err != nil {
			wg.Done()
			record(list, err)
		}
	}
	wg.Wait()
	tracker.Finish()

	im.logger.Info("import finished",
		"imported", result.Imported,
		"skipped", result.Skipped,
		"failed", len(result.Errors)-result.Skipped)
	return result, nil
}

func (im *Importer) existingLists(ctx context.Context) ([]*core.List, error) {
	repo, err := im.acquire(ctx)
	if err != nil {
		return nil, err
	}
	lists, err := repo.AllLists(ctx)
	return lists, errors.Join(err, repo.Close())
}

// plan trims names and splits the snapshot into lists to write and
// validation errors for the rest.
func (im *Importer) plan(snap *Snapshot, existing []*core.List) ([]List, []error) {
	if snap == nil {
		return nil, nil
	}

	known := make([]*core.List, len(existing), len(existing)+len(snap.Lists))
	copy(known, existing)

	var (
		accepted []List
		rejected []error
	)
	for _, list := range snap.Lists {
		clean, err := normalize(list, known)
		if err != nil {
			im.logger.Warn("skipping list", "list", list.Name, "error", err)
			rejected = append(rejected, fmt.Errorf("list %q: %w", list.Name, err))
			continue
		}
		known = append(known, &core.List{Name: clean.Name})
		accepted = append(accepted, clean)
	}
	return accepted, rejected
}

func normalize(list List, known []*core.List) (List, error) {
	out := List{Name: strings.TrimSpace(list.Name)}
	if err := core.ValidateListName(out.Name, known); err != nil {
		return List{}, err
	}
	for _, todo := range list.Todos {
		name := strings.TrimSpace(todo.Name)
		if err := core.ValidateTodoName(name); err != nil {
			return List{}, fmt.Errorf("todo %q: %w", todo.Name, err)
		}
		out.Todos = append(out.Todos, Todo{Name: name, Completed: todo.Completed})
	}
	return out, nil
}

func (im *Importer) acquire(ctx context.Context) (storage.ListRepository, error) {
	var repo storage.ListRepository
	err := RetryWithBackoff(ctx, im.maxRetries, im.retryDelay, func(ctx context.Context) error {
		r, err := im.open(ctx)
		if err != nil {
			return err
		}
		repo = r
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRepositoryUnavailable, err)
	}
	return repo, nil
}

func (im *Importer) importList(ctx context.Context, list List) (err error) {
	repo, err := im.acquire(ctx)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, repo.Close())
	}()

	created, err := repo.CreateList(ctx, list.Name)
	if err != nil {
		return err
	}
	if err := fillList(ctx, repo, created.Id, list.Todos); err != nil {
		// A partial list would block a later import under the same name.
		if cleanupErr := repo.DeleteList(ctx, created.Id); cleanupErr != nil {
			return errors.Join(err, fmt.Errorf("remove partial list: %w", cleanupErr))
		}
		return err
	}
	im.logger.Debug("list imported", "list", list.Name, "id", created.Id, "todos", len(list.Todos))
	return nil
}

func fillList(ctx context.Context, repo storage.ListRepository, listID core.ID, todos []Todo) error {
	for _, todo := range todos {
		t, err := repo.CreateTodo(ctx, listID, todo.Name)
		if err != nil {
			return err
		}
		if todo.Completed {
			if err := repo.UpdateTodoStatus(ctx, listID, t.Id, true); err != nil {
				return err
			}
		}
	}
	return nil
}
