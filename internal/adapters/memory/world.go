// Package memory provides an in-process simulation host: a World with a
// mutable entity set, a Transport that records calls and a deferred Runner.
// It backs the headless `serve` mode and the tests.
package memory

import (
	"iter"
	"slices"
	"sync"

	"github.com/aretw0/strpbridge/pkg/domain"
	"github.com/aretw0/strpbridge/pkg/ports"
)

// World is an in-memory ports.World.
type World struct {
	mu       sync.Mutex
	entities map[uint32]uint32 // local -> remote
	order    []uint32

	transport ports.Transport
	runner    *Runner
}

var _ ports.World = (*World)(nil)

// Option configures a World.
type Option func(*World)

// WithTransport replaces the recording transport.
func WithTransport(t ports.Transport) Option {
	return func(w *World) {
		w.transport = t
	}
}

// NewWorld creates an empty world with a recording Transport and a Runner.
func NewWorld(opts ...Option) *World {
	w := &World{
		entities:  make(map[uint32]uint32),
		transport: NewTransport(),
		runner:    NewRunner(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Add maps a local form id to a remote player id. Re-adding updates the
// remote id and keeps the original position.
func (w *World) Add(localID, remoteID uint32) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.entities[localID]; !ok {
		w.order = append(w.order, localID)
	}
	w.entities[localID] = remoteID
}

// Remove drops an entity.
func (w *World) Remove(localID uint32) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.entities[localID]; !ok {
		return
	}
	delete(w.entities, localID)
	w.order = slices.DeleteFunc(w.order, func(id uint32) bool { return id == localID })
}

// Len reports the number of mapped entities.
func (w *World) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.order)
}

// Identities yields the mapped entities in insertion order. Each iteration
// works on a copy taken when it starts.
func (w *World) Identities() iter.Seq[domain.Identity] {
	return func(yield func(domain.Identity) bool) {
		w.mu.Lock()
		ids := make([]domain.Identity, 0, len(w.order))
		for _, local := range w.order {
			ids = append(ids, domain.Identity{LocalID: local, RemoteID: w.entities[local]})
		}
		w.mu.Unlock()

		for _, id := range ids {
			if !yield(id) {
				return
			}
		}
	}
}

func (w *World) Transport() ports.Transport { return w.transport }

func (w *World) Runner() ports.Runner { return w.runner }

// DeferredRunner exposes the concrete runner so the host loop can flush it.
func (w *World) DeferredRunner() *Runner { return w.runner }
