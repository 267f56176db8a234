package chain

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

// ErrClientNotRegistered is the panic value (wrapped) raised by Resolve when no client handle has
// been registered for the requested chain.
var ErrClientNotRegistered = errors.New("no client registered for chain")

// Registry maps each chain to the client handle that serves its RPC operations. T is the
// capability every handle must provide, typically an interface such as a status client.
//
// The registry only stores handles. It never constructs or closes them, and entries are never
// removed: registering the same chain twice replaces the earlier handle.
//
// A Registry is safe for concurrent use. Registrations usually happen once at startup while
// resolutions happen from many goroutines afterwards.
type Registry[T any] struct {
	mu      sync.RWMutex
	clients map[ID]T
}

// NewRegistry returns an empty registry.
func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{
		clients: make(map[ID]T),
	}
}

// Register binds handle to id, replacing any handle previously bound to it. It returns the
// registry so registrations can be chained.
func (r *Registry[T]) Register(id ID, handle T) *Registry[T] {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.clients[id] = handle

	return r
}

// Resolve returns the handle registered for id.
//
// A missing handle is a wiring bug rather than a runtime condition, so Resolve panics with an
// error wrapping ErrClientNotRegistered. Use Lookup when absence is expected.
func (r *Registry[T]) Resolve(id ID) T {
	h, ok := r.Lookup(id)
	if !ok {
		panic(fmt.Errorf("%w: %s", ErrClientNotRegistered, id))
	}

	return h
}

// Lookup returns the handle registered for id and whether one was found.
func (r *Registry[T]) Lookup(id ID) (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	h, ok := r.clients[id]

	return h, ok
}

// Exists checks if a handle is registered for every given chain.
func (r *Registry[T]) Exists(ids ...ID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range ids {
		if _, ok := r.clients[id]; !ok {
			return false
		}
	}

	return len(ids) > 0
}

// Len returns the number of registered chains.
func (r *Registry[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.clients)
}

// ListOption modifies the filter used by ListChains.
type ListOption func(*listOptions)

type listOptions struct {
	includedFamilies map[string]struct{}
	excluded         map[ID]struct{}
}

// WithFamily restricts ListChains to chains of the given family, e.g. WithFamily(FamilyEVM).
// It can be passed more than once to include several families.
func WithFamily(family string) ListOption {
	return func(o *listOptions) {
		if o.includedFamilies == nil {
			o.includedFamilies = make(map[string]struct{})
		}
		o.includedFamilies[family] = struct{}{}
	}
}

// WithChainsExclusion removes the given chains from the ListChains result.
func WithChainsExclusion(ids []ID) ListOption {
	return func(o *listOptions) {
		if o.excluded == nil {
			o.excluded = make(map[ID]struct{})
		}
		for _, id := range ids {
			o.excluded[id] = struct{}{}
		}
	}
}

// ListChains returns the registered chains sorted by ID, filtered by the given options.
func (r *Registry[T]) ListChains(options ...ListOption) []ID {
	opts := listOptions{}
	for _, option := range options {
		option(&opts)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]ID, 0, len(r.clients))
	for id := range r.clients {
		if opts.excluded != nil {
			if _, excluded := opts.excluded[id]; excluded {
				continue
			}
		}
		if opts.includedFamilies != nil {
			if _, ok := opts.includedFamilies[id.Family()]; !ok {
				continue
			}
		}
		ids = append(ids, id)
	}

	slices.Sort(ids)

	return ids
}

// As returns the handle registered for id converted to C. It reports false when nothing is
// registered for id or the handle is not a C.
func As[C any, T any](r *Registry[T], id ID) (C, bool) {
	var zero C

	h, ok := r.Lookup(id)
	if !ok {
		return zero, false
	}

	c, ok := any(h).(C)
	if !ok {
		return zero, false
	}

	return c, true
}

// FamilyClients returns every handle of the given family that is a C, keyed by chain.
//
//	evmClients := chain.FamilyClients[*evm.Chain](registry, chain.FamilyEVM)
func FamilyClients[C any, T any](r *Registry[T], family string) map[ID]C {
	out := make(map[ID]C)
	for _, id := range r.ListChains(WithFamily(family)) {
		if c, ok := As[C](r, id); ok {
			out[id] = c
		}
	}

	return out
}
