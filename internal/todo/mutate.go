package todo

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sadopc/taskdeck/internal/api"
	"github.com/sadopc/taskdeck/internal/notify"
)

type mutationAPI interface {
	CreateTodo(ctx context.Context, item string) error
	MarkTodo(ctx context.Context, id string, done bool) error
	DeleteTodo(ctx context.Context, id string) error
}

// Mutator wraps the write path: validate, call the remote API, then
// invalidate the whole todos cache family so every view's next read
// refetches. No optimistic updates: on failure the cache is untouched and
// there is nothing to roll back.
//
// HTTP errors are already notified by the API client with the server
// message; the mutator adds the operation-specific fallback only for
// transport-level failures that never produced a response.
type Mutator struct {
	api       mutationAPI
	cache     *PageCache
	selection *SelectionStore
	notify    notify.Notifier
}

func NewMutator(a mutationAPI, cache *PageCache, sel *SelectionStore, n notify.Notifier) *Mutator {
	return &Mutator{api: a, cache: cache, selection: sel, notify: n}
}

// Create validates the item locally and posts it. Invalid input never
// reaches the network.
func (m *Mutator) Create(ctx context.Context, item string) error {
	if err := ValidateItem(item); err != nil {
		return err
	}
	if err := m.api.CreateTodo(ctx, item); err != nil {
		m.fallback(err, "Failed to create todo")
		return err
	}
	m.cache.InvalidateAll()
	m.notify.Success("Todo created successfully!")
	return nil
}

// Mark sets the done flag.
func (m *Mutator) Mark(ctx context.Context, id string, done bool) error {
	if err := m.api.MarkTodo(ctx, id, done); err != nil {
		m.fallback(err, "Failed to update todo")
		return err
	}
	m.cache.InvalidateAll()
	m.notify.Success("Todo updated successfully!")
	return nil
}

// Delete removes one todo and drops it from the selection so the set never
// references a nonexistent id.
func (m *Mutator) Delete(ctx context.Context, id string) error {
	if err := m.api.DeleteTodo(ctx, id); err != nil {
		m.fallback(err, "Failed to delete todo")
		return err
	}
	m.cache.InvalidateAll()
	m.selection.Remove(id)
	m.notify.Success("Todo deleted successfully!")
	return nil
}

// DeleteMany deletes ids concurrently; the backend has no bulk endpoint. If
// any delete fails the whole operation is reported as one aggregate
// failure, with no compensating rollback for the deletes that landed. The
// cache is invalidated even on partial failure, since at least one delete
// may have succeeded; ids that were deleted are removed from the selection
// either way.
func (m *Mutator) DeleteMany(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	errs := make([]error, len(ids))
	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			errs[i] = m.api.DeleteTodo(ctx, id)
		}(i, id)
	}
	wg.Wait()

	m.cache.InvalidateAll()

	var firstErr error
	failed := 0
	for i, err := range errs {
		if err != nil {
			failed++
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		m.selection.Remove(ids[i])
	}

	if firstErr != nil {
		m.fallback(firstErr, "Failed to delete selected todo")
		return fmt.Errorf("delete %d of %d todos: %w", failed, len(ids), firstErr)
	}

	m.selection.Clear()
	m.notify.Success("Selected todo deleted successfully!")
	return nil
}

func (m *Mutator) fallback(err error, msg string) {
	var apiErr *api.Error
	if !errors.As(err, &apiErr) {
		m.notify.Error(msg)
	}
}
