// Package transport creates and resolves the shared-memory pools and rings
// of the flexsdr dataplane.
//
// Exactly one process per deployment runs the Primary manager, which
// creates every object its role declares; any number of Secondary managers
// attach to the pre-existing objects by materialized name. Handles on the
// secondary side are pure views: the primary owns object lifetime.
package transport

import (
	"errors"
	"fmt"

	"github.com/flexsdr/flexsdr/pkg/shm"
)

var (
	// ErrNotFound is returned when a secondary looks up an object the
	// primary has not created. Retry and backoff belong to the caller.
	ErrNotFound = errors.New("transport: object not found")

	// ErrInvalidName marks an empty or ill-formed object name. Caller bug.
	ErrInvalidName = errors.New("transport: invalid name")
)

// PoolCreateError reports a pool that could neither be created nor found
// pre-existing.
type PoolCreateError struct {
	Name string
	Kind string // "create" or "lookup"
	Err  error
}

func (e *PoolCreateError) Error() string {
	return fmt.Sprintf("transport: pool %s %s: %v", e.Name, e.Kind, e.Err)
}

func (e *PoolCreateError) Unwrap() error { return e.Err }

// RingCreateError reports a ring that could neither be created nor found
// pre-existing.
type RingCreateError struct {
	Name string
	Err  error
}

func (e *RingCreateError) Error() string {
	return fmt.Sprintf("transport: ring %s: %v", e.Name, e.Err)
}

func (e *RingCreateError) Unwrap() error { return e.Err }

// HandleTable maps materialized names to live handles. It is per-process
// and never shared; accessors hand out non-owning references whose
// validity ends when the primary tears the segment down.
type HandleTable struct {
	pools map[string]*shm.Pool
	rings map[string]*shm.Ring
}

func newHandleTable() *HandleTable {
	return &HandleTable{
		pools: make(map[string]*shm.Pool),
		rings: make(map[string]*shm.Ring),
	}
}

// Pool returns the pool handle for a materialized name, or nil.
func (h *HandleTable) Pool(name string) *shm.Pool { return h.pools[name] }

// Ring returns the ring handle for a materialized name, or nil.
func (h *HandleTable) Ring(name string) *shm.Ring { return h.rings[name] }

// NumPools returns the number of resolved pools.
func (h *HandleTable) NumPools() int { return len(h.pools) }

// NumRings returns the number of resolved rings.
func (h *HandleTable) NumRings() int { return len(h.rings) }
