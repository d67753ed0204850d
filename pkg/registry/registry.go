package registry

import (
	"fmt"
	"slices"
	"sync"

	"github.com/haferml/hafer/pkg/errors"
)

// Registry maps unique names to items and remembers registration order.
// The zero value is not usable, create one with New.
type Registry[T any] struct {
	mu     sync.RWMutex
	items  map[string]T
	order  []string
	frozen bool
}

func New[T any]() *Registry[T] {
	return &Registry[T]{items: make(map[string]T)}
}

// Register adds item under name. Empty names, duplicates and frozen
// registries are rejected.
func (r *Registry[T]) Register(name string, item T) error {
	if name == "" {
		return errors.New(errors.ErrInvalidInput, "name must not be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.writable(name); err != nil {
		return err
	}
	if _, dup := r.items[name]; dup {
		return errors.Newf(errors.ErrAlreadyExists, "%q is already registered", name)
	}
	r.items[name] = item
	r.order = append(r.order, name)
	return nil
}

func (r *Registry[T]) Get(name string) (T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.items[name]
	if !ok {
		return item, errors.Newf(errors.ErrNotFound, "%q is not registered", name)
	}
	return item, nil
}

func (r *Registry[T]) Remove(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.writable(name); err != nil {
		return err
	}
	if _, ok := r.items[name]; !ok {
		return errors.Newf(errors.ErrNotFound, "%q is not registered", name)
	}
	delete(r.items, name)
	r.order = slices.DeleteFunc(r.order, func(n string) bool { return n == name })
	return nil
}

func (r *Registry[T]) writable(name string) error {
	if r.frozen {
		return errors.Newf(errors.ErrInvalidInput, "registry is frozen, cannot change %q", name)
	}
	return nil
}

// Names lists names in registration order.
func (r *Registry[T]) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.order)
}

// List lists names alphabetically.
func (r *Registry[T]) List() []string {
	names := r.Names()
	slices.Sort(names)
	return names
}

func (r *Registry[T]) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.items[name]
	return ok
}

func (r *Registry[T]) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Clear empties the registry. It does nothing once frozen.
func (r *Registry[T]) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen {
		return
	}
	clear(r.items)
	r.order = nil
}

// Freeze makes the registry read-only for good.
func (r *Registry[T]) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frozen = true
}

func (r *Registry[T]) Frozen() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.frozen
}

// MustRegister panics when Register fails. Meant for tables built at
// package init.
func MustRegister[T any](r *Registry[T], name string, item T) {
	if err := r.Register(name, item); err != nil {
		panic(fmt.Sprintf("registry: %s: %v", name, err))
	}
}

func MustGet[T any](r *Registry[T], name string) T {
	item, err := r.Get(name)
	if err != nil {
		panic(fmt.Sprintf("registry: %s: %v", name, err))
	}
	return item
}
