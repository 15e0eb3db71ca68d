// Where: internal/hooks/filter.go
// What: Priority-ordered extension point collection.
// Why: Plugins append items; the host reads them back in a deterministic order.
package hooks

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"sync"
)

var (
	// ErrFrozen is returned when adding to a filter after the registration phase.
	ErrFrozen = errors.New("filter is frozen")
	// ErrInvalidItem is returned when an item fails shape validation.
	ErrInvalidItem = errors.New("invalid item")
)

// Option adjusts how items are added to a filter.
type Option func(*addOptions)

type addOptions struct {
	priority Priority
	context  string
	explicit bool
}

// WithPriority sets the ordering priority of the added items.
func WithPriority(priority Priority) Option {
	return func(o *addOptions) {
		o.priority = priority
	}
}

// WithContext tags the added items with a context name, overriding the
// registry's active context.
func WithContext(name string) Option {
	return func(o *addOptions) {
		o.context = name
		o.explicit = true
	}
}

type entry[T any] struct {
	item     T
	priority Priority
	context  string
}

// Filter is a named, host-owned collection of items of type T.
type Filter[T any] struct {
	name     string
	scope    *scope
	validate func(T) error

	mu      sync.Mutex
	entries []entry[T]
	frozen  bool
}

// NewFilter creates a standalone filter. validate may be nil.
func NewFilter[T any](name string, validate func(T) error) *Filter[T] {
	return &Filter[T]{name: name, validate: validate}
}

// Name returns the filter name.
func (f *Filter[T]) Name() string {
	return f.name
}

// AddItem appends a single item.
func (f *Filter[T]) AddItem(item T, opts ...Option) error {
	return f.AddItems([]T{item}, opts...)
}

// AddItems appends items in order. The whole batch is validated before
// anything is appended.
func (f *Filter[T]) AddItems(items []T, opts ...Option) error {
	o := addOptions{priority: PriorityDefault}
	for _, opt := range opts {
		opt(&o)
	}
	if !o.explicit && f.scope != nil {
		o.context = f.scope.active()
	}

	if f.validate != nil {
		for i, item := range items {
			if err := f.validate(item); err != nil {
				return fmt.Errorf("%s item %d: %w: %v", f.name, i, ErrInvalidItem, err)
			}
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.frozen {
		return fmt.Errorf("%s: %w", f.name, ErrFrozen)
	}
	for _, item := range items {
		f.entries = append(f.entries, entry[T]{item: item, priority: o.priority, context: o.context})
	}
	return nil
}

// Items returns all items ordered by priority; equal priorities keep
// registration order.
func (f *Filter[T]) Items() []T {
	return f.collect(func(entry[T]) bool { return true })
}

// ContextItems returns the items added under the given context, in order.
func (f *Filter[T]) ContextItems(context string) []T {
	return f.collect(func(e entry[T]) bool { return e.context == context })
}

// Len returns the number of items.
func (f *Filter[T]) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.entries)
}

func (f *Filter[T]) collect(keep func(entry[T]) bool) []T {
	f.mu.Lock()
	entries := make([]entry[T], 0, len(f.entries))
	for _, e := range f.entries {
		if keep(e) {
			entries = append(entries, e)
		}
	}
	f.mu.Unlock()

	slices.SortStableFunc(entries, func(a, b entry[T]) int {
		return cmp.Compare(a.priority, b.priority)
	})
	items := make([]T, 0, len(entries))
	for _, e := range entries {
		items = append(items, e.item)
	}
	return items
}

func (f *Filter[T]) clear(context string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	before := len(f.entries)
	f.entries = slices.DeleteFunc(f.entries, func(e entry[T]) bool {
		return e.context == context
	})
	return before - len(f.entries)
}

func (f *Filter[T]) freeze() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.frozen = true
}
