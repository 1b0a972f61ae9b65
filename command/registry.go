package command

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

var (
	// ErrInvalidIndex is returned when an insertion index falls outside [0, size].
	ErrInvalidIndex = errors.New("command: index out of range")

	// ErrDuplicateName is returned when a name or alias is already indexed.
	ErrDuplicateName = errors.New("command: name or alias already indexed")

	// ErrNotFound is returned when removing a name that is not indexed.
	ErrNotFound = errors.New("command: name not indexed")
)

// Registry keeps commands in a dense ordered sequence plus a case-insensitive
// name index, so commands are addressable both by token (dispatch) and by
// position (ordered help, insert-before/after used by module loaders).
//
// Mutation shifts stored indexes to keep both addressing modes consistent;
// O(size) per mutation is fine because mutation is rare and Lookup, the hot
// path, stays O(1). One instance indexes text commands under name and every
// alias, another indexes slash commands under name only; the names function
// supplied at construction decides which.
//
// All methods are safe for concurrent use. The registry owns its lock; the
// sequence and index mutate as one atomic step, so readers never observe a
// torn state.
type Registry[C any] struct {
	mu    sync.RWMutex
	seq   []C
	index map[string]int
	names func(C) []string
}

// NewRegistry returns an empty registry. names must return the primary name
// first, then any aliases.
func NewRegistry[C any](names func(C) []string) *Registry[C] {
	return &Registry[C]{
		index: make(map[string]int),
		names: names,
	}
}

// Add appends a command at the end of the sequence.
func (r *Registry[C]) Add(c C) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.add(c, len(r.seq))
}

// AddAt inserts a command at index, shifting later entries one position down.
// Fails with ErrInvalidIndex or ErrDuplicateName, leaving the registry unchanged.
func (r *Registry[C]) AddAt(c C, index int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.add(c, index)
}

func (r *Registry[C]) add(c C, index int) error {
	if index < 0 || index > len(r.seq) {
		return fmt.Errorf("%w: [%d/%d]", ErrInvalidIndex, index, len(r.seq))
	}

	names := r.names(c)
	keys := make([]string, 0, len(names))
	for _, n := range names {
		keys = append(keys, strings.ToLower(n))
	}
	for _, k := range keys {
		if _, taken := r.index[k]; taken {
			return fmt.Errorf("%w: %q", ErrDuplicateName, k)
		}
	}

	// Shift if not an append.
	if index < len(r.seq) {
		for k, i := range r.index {
			if i >= index {
				r.index[k] = i + 1
			}
		}
	}
	for _, k := range keys {
		r.index[k] = index
	}

	var zero C
	r.seq = append(r.seq, zero)
	copy(r.seq[index+1:], r.seq[index:])
	r.seq[index] = c
	return nil
}

// Remove deletes the command indexed under name (case-insensitive), unindexes
// its aliases, and shifts later entries one position up. Fails with ErrNotFound.
func (r *Registry[C]) Remove(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	target, ok := r.index[strings.ToLower(name)]
	if !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}

	removed := r.seq[target]
	copy(r.seq[target:], r.seq[target+1:])
	// Zero the freed tail slot so the removed command can be collected.
	var zero C
	r.seq[len(r.seq)-1] = zero
	r.seq = r.seq[:len(r.seq)-1]
	for _, n := range r.names(removed) {
		delete(r.index, strings.ToLower(n))
	}
	for k, i := range r.index {
		if i > target {
			r.index[k] = i - 1
		}
	}
	return nil
}

// Lookup resolves a token (case-insensitive) to its command.
func (r *Registry[C]) Lookup(token string) (C, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.index[strings.ToLower(token)]
	if !ok {
		var zero C
		return zero, false
	}
	return r.seq[i], true
}

// List returns a snapshot of the sequence in registration order. The snapshot
// does not reflect mutations made after it is taken.
func (r *Registry[C]) List() []C {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]C, len(r.seq))
	copy(out, r.seq)
	return out
}

// Len returns the number of registered commands.
func (r *Registry[C]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.seq)
}
