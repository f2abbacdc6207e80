package domain

import "sync"

// Registry deduplicates live instances by construction key: the first
// caller for a key constructs, later callers get the same instance
// until it is released. Construct-or-fetch replaces the original
// client's implicit per-argument instance cache.
type Registry[T any] struct {
	mu      sync.Mutex
	entries map[string]T
}

func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{
		entries: make(map[string]T),
	}
}

func (r *Registry[T]) GetOrCreate(key string, construct func() (T, error)) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if entry, ok := r.entries[key]; ok {
		return entry, nil
	}

	entry, err := construct()
	if err != nil {
		var zero T
		return zero, err
	}

	r.entries[key] = entry
	return entry, nil
}

// Release forgets the instance at key. The caller owns shutdown of the
// released instance.
func (r *Registry[T]) Release(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, key)
}

func (r *Registry[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
