package dashboard

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"

	"github.com/rajithaprasad/hardwareProject/internal/inventory/entity"
)

var (
	ErrNotLoaded          = errors.New("item is not in the list")
	ErrConfirmationClosed = errors.New("confirmation already answered")
)

// ResourceAPI is one CRUD endpoint, satisfied by client.Resource.
type ResourceAPI[T any] interface {
	List(ctx context.Context, query url.Values) ([]T, error)
	Create(ctx context.Context, input interface{}) (*T, error)
	Delete(ctx context.Context, id string) error
}

// Describer tells a list how to identify, name and search its rows.
type Describer[T any] struct {
	Kind   string
	ID     func(T) string
	Name   func(T) string
	Search func(T) []string
}

// EntityList is the local copy of one collection. Every change goes through its
// methods so concurrent views see a consistent slice.
type EntityList[T any] struct {
	mu       sync.RWMutex
	api      ResourceAPI[T]
	desc     Describer[T]
	notifier Notifier
	query    url.Values
	items    []T
	mirrors  []mirror[T]
}

// mirror is another list over the same endpoint. accept picks the rows it shows.
type mirror[T any] struct {
	list   *EntityList[T]
	accept func(T) bool
}

func NewEntityList[T any](api ResourceAPI[T], desc Describer[T], notifier Notifier) *EntityList[T] {
	return &EntityList[T]{api: api, desc: desc, notifier: notifier}
}

// mirrorTo makes creates and deletes on l show up in other, for the rows accept lets in.
func (l *EntityList[T]) mirrorTo(other *EntityList[T], accept func(T) bool) {
	if accept == nil {
		accept = func(T) bool { return true }
	}
	l.mirrors = append(l.mirrors, mirror[T]{list: other, accept: accept})
}

// Load replaces the items with a fresh fetch. A failed fetch keeps the old items.
func (l *EntityList[T]) Load(ctx context.Context, query url.Values) error {
	items, err := l.api.List(ctx, query)
	if err != nil {
		l.notifier.Error(fmt.Sprintf("Failed to load %s list: %v", l.desc.Kind, err))
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = items
	l.query = query
	return nil
}

// Reload repeats the last Load with the same filters.
func (l *EntityList[T]) Reload(ctx context.Context) error {
	l.mu.RLock()
	query := l.query
	l.mu.RUnlock()
	return l.Load(ctx, query)
}

// Items returns a copy of the rows.
func (l *EntityList[T]) Items() []T {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]T, len(l.items))
	copy(out, l.items)
	return out
}

func (l *EntityList[T]) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.items)
}

// Search filters the local rows without a request. An empty query returns all rows.
func (l *EntityList[T]) Search(query string) []T {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]T, 0, len(l.items))
	for _, item := range l.items {
		if entity.MatchesQuery(query, l.desc.Search(item)...) {
			out = append(out, item)
		}
	}
	return out
}

func (l *EntityList[T]) Find(id string) (T, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, item := range l.items {
		if l.desc.ID(item) == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Create validates form, posts it and appends the stored row. On any failure the
// list is untouched and the caller keeps the form.
func (l *EntityList[T]) Create(ctx context.Context, form interface{}) (*T, error) {
	if err := validateForm(form); err != nil {
		l.notifier.Error(err.Error())
		return nil, err
	}
	created, err := l.api.Create(ctx, form)
	if err != nil {
		l.notifier.Error(fmt.Sprintf("Failed to add %s: %v", l.desc.Kind, err))
		return nil, err
	}
	if l.desc.ID(*created) == "" {
		err := fmt.Errorf("add %s: server returned no id", l.desc.Kind)
		l.notifier.Error(err.Error())
		return nil, err
	}

	l.add(*created)
	for _, m := range l.mirrors {
		if m.accept(*created) {
			m.list.add(*created)
		}
	}

	l.notifier.Success(fmt.Sprintf("%s %q added", l.desc.Kind, l.desc.Name(*created)))
	return created, nil
}

// ConfirmDelete prepares a delete. Nothing is sent until the confirmation is accepted.
func (l *EntityList[T]) ConfirmDelete(id string) (*Confirmation, error) {
	item, ok := l.Find(id)
	if !ok {
		return nil, fmt.Errorf("%s %s: %w", l.desc.Kind, id, ErrNotLoaded)
	}
	name := l.desc.Name(item)
	return &Confirmation{
		Title:   "Delete " + l.desc.Kind,
		Message: fmt.Sprintf("Are you sure you want to delete %q? This action cannot be undone.", name),
		action: func(ctx context.Context) error {
			return l.delete(ctx, id, name)
		},
	}, nil
}

func (l *EntityList[T]) delete(ctx context.Context, id, name string) error {
	if err := l.api.Delete(ctx, id); err != nil {
		l.notifier.Error(fmt.Sprintf("Failed to delete %s %q: %v", l.desc.Kind, name, err))
		return err
	}
	l.remove(id)
	for _, m := range l.mirrors {
		m.list.remove(id)
	}
	l.notifier.Success(fmt.Sprintf("%s %q deleted", l.desc.Kind, name))
	return nil
}

// add appends item unless a row with its id is already loaded.
func (l *EntityList[T]) add(item T) {
	l.mu.Lock()
	defer l.mu.Unlock()
	id := l.desc.ID(item)
	for _, existing := range l.items {
		if l.desc.ID(existing) == id {
			return
		}
	}
	l.items = append(l.items, item)
}

func (l *EntityList[T]) remove(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	kept := l.items[:0]
	for _, item := range l.items {
		if l.desc.ID(item) != id {
			kept = append(kept, item)
		}
	}
	l.items = kept
}

// update patches one row in place. It reports false when the row is not loaded.
func (l *EntityList[T]) update(id string, patch func(*T)) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.items {
		if l.desc.ID(l.items[i]) == id {
			patch(&l.items[i])
			return true
		}
	}
	return false
}

// prepend keeps newest-first lists ordered.
func (l *EntityList[T]) prepend(item T) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = append([]T{item}, l.items...)
}

func (l *EntityList[T]) clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = nil
	l.query = nil
}

// Confirmation guards a destructive action. It can be answered once.
type Confirmation struct {
	Title   string
	Message string

	mu     sync.Mutex
	done   bool
	action func(ctx context.Context) error
}

// Confirm runs the action. A failed action leaves the confirmation open for a retry.
func (c *Confirmation) Confirm(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.done {
		return ErrConfirmationClosed
	}
	if err := c.action(ctx); err != nil {
		return err
	}
	c.done = true
	return nil
}

func (c *Confirmation) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.done = true
}
