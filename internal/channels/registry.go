package channels

import (
	"fmt"
	"sort"
	"sync"
)

// Registry binds symbolic names to channel indices within one role.
// Bindings are permanent: names are unique, indices are unique, nothing is removed.
type Registry struct {
	role    Role
	mu      sync.RWMutex
	byName  map[string]int
	byIndex [Size]string
	used    [Size]bool
}

// Entry is one name -> index binding.
type Entry struct {
	Name  string `json:"name"`
	Index int    `json:"index"`
}

func NewRegistry(role Role) *Registry {
	return &Registry{
		role:   role,
		byName: make(map[string]int),
	}
}

func (r *Registry) Role() Role {
	return r.role
}

// Register binds name to the lowest free index.
func (r *Registry) Register(name string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[name]; exists {
		return 0, fmt.Errorf("%s %q: %w", r.role, name, ErrDuplicateName)
	}

	for i := 0; i < Size; i++ {
		if !r.used[i] {
			r.bind(name, i)
			return i, nil
		}
	}

	return 0, fmt.Errorf("%s %q: %w", r.role, name, ErrRegistryFull)
}

// RegisterAt binds name to an explicit index.
func (r *Registry) RegisterAt(name string, index int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[name]; exists {
		return 0, fmt.Errorf("%s %q: %w", r.role, name, ErrDuplicateName)
	}
	if err := checkIndex(index); err != nil {
		return 0, fmt.Errorf("%s %q: %w", r.role, name, err)
	}
	if r.used[index] {
		return 0, fmt.Errorf("%s %q: index %d held by %q: %w",
			r.role, name, index, r.byIndex[index], ErrDuplicateIndex)
	}

	r.bind(name, index)
	return index, nil
}

func (r *Registry) bind(name string, index int) {
	r.byName[name] = index
	r.byIndex[index] = name
	r.used[index] = true
}

// Resolve returns the index bound to name, or ErrUnknownName.
func (r *Registry) Resolve(name string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	index, exists := r.byName[name]
	if !exists {
		return 0, fmt.Errorf("%s %q: %w", r.role, name, ErrUnknownName)
	}
	return index, nil
}

// Entries returns all bindings ordered by index.
func (r *Registry) Entries() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]Entry, 0, len(r.byName))
	for name, index := range r.byName {
		entries = append(entries, Entry{Name: name, Index: index})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Index < entries[j].Index })
	return entries
}

// Len returns the number of registered names.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byName)
}
