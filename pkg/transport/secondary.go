package transport

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"

	"github.com/flexsdr/flexsdr/pkg/config"
	"github.com/flexsdr/flexsdr/pkg/eal"
	"github.com/flexsdr/flexsdr/pkg/shm"
)

// QueueStats counts per-queue traffic on a secondary. Streamers update the
// counters; the observability surface reads them.
type QueueStats struct {
	RxPackets     atomic.Uint64
	RxBytes       atomic.Uint64
	TxPackets     atomic.Uint64
	TxBytes       atomic.Uint64
	RingFullDrops atomic.Uint64
	AllocFailures atomic.Uint64
}

// Secondary resolves pre-existing shared-memory objects by name. It never
// creates; a missing object is ErrNotFound and the orchestrator owns any
// retry.
type Secondary struct {
	cfg *config.Config
	rt  *eal.Runtime

	handles *HandleTable

	pools   []*shm.Pool
	txRings []*shm.Ring
	rxRings []*shm.Ring
	icRings []*shm.Ring

	stats []*QueueStats
}

// NewSecondary builds a secondary resource manager over the initialized
// runtime.
func NewSecondary(cfg *config.Config) (*Secondary, error) {
	rt, err := eal.Get()
	if err != nil {
		return nil, err
	}
	return &Secondary{cfg: cfg, rt: rt, handles: newHandleTable()}, nil
}

func (s *Secondary) path(name string) string {
	return filepath.Join(s.rt.Dir, name)
}

// LookupPool resolves one pool by materialized name.
func (s *Secondary) LookupPool(name string) (*shm.Pool, error) {
	if name == "" {
		return nil, ErrInvalidName
	}
	if mp := s.handles.pools[name]; mp != nil {
		return mp, nil
	}
	mp, err := shm.AttachPool(s.path(name), name)
	if err != nil {
		return nil, fmt.Errorf("%w: pool %s: %v", ErrNotFound, name, err)
	}
	s.handles.pools[name] = mp
	return mp, nil
}

// LookupRing resolves one ring by materialized name.
func (s *Secondary) LookupRing(name string) (*shm.Ring, error) {
	if name == "" {
		return nil, ErrInvalidName
	}
	if r := s.handles.rings[name]; r != nil {
		return r, nil
	}
	r, err := shm.AttachRing(s.path(name), name)
	if err != nil {
		return nil, fmt.Errorf("%w: ring %s: %v", ErrNotFound, name, err)
	}
	s.handles.rings[name] = r
	return r, nil
}

// InitResources resolves, for the configured role, any pools declared
// under the role block, then the TX rings, the RX rings, and any
// interconnect rings. Rebuilding the table is idempotent.
func (s *Secondary) InitResources() error {
	s.pools, s.txRings, s.rxRings, s.icRings = nil, nil, nil, nil
	for _, spec := range s.cfg.MaterializedPools() {
		mp, err := s.LookupPool(spec.Name)
		if err != nil {
			return err
		}
		s.pools = append(s.pools, mp)
		slog.Debug("pool resolved", "name", spec.Name, "data_room", mp.DataRoom())
	}
	for _, spec := range s.cfg.MaterializedTxRings() {
		r, err := s.LookupRing(spec.Name)
		if err != nil {
			return err
		}
		s.txRings = append(s.txRings, r)
		slog.Debug("tx ring resolved", "name", spec.Name, "cap", r.Cap())
	}
	for _, spec := range s.cfg.MaterializedRxRings() {
		r, err := s.LookupRing(spec.Name)
		if err != nil {
			return err
		}
		s.rxRings = append(s.rxRings, r)
		slog.Debug("rx ring resolved", "name", spec.Name, "cap", r.Cap())
	}
	for _, ic := range s.cfg.MaterializedInterconnectRings() {
		r, err := s.LookupRing(ic.Name)
		if err != nil {
			return err
		}
		s.icRings = append(s.icRings, r)
	}

	nq := len(s.txRings)
	if len(s.rxRings) > nq {
		nq = len(s.rxRings)
	}
	s.stats = make([]*QueueStats, nq)
	for i := range s.stats {
		s.stats[i] = &QueueStats{}
	}
	return nil
}

// RingForTxQueue returns the TX ring for a queue id, or nil when out of
// range. O(1); streamers use it to skip name lookups per operation.
func (s *Secondary) RingForTxQueue(qid int) *shm.Ring {
	if qid < 0 || qid >= len(s.txRings) {
		return nil
	}
	return s.txRings[qid]
}

// RingForRxQueue returns the RX ring for a queue id, or nil when out of
// range.
func (s *Secondary) RingForRxQueue(qid int) *shm.Ring {
	if qid < 0 || qid >= len(s.rxRings) {
		return nil
	}
	return s.rxRings[qid]
}

// PoolForQueue returns the pool for a queue id, or nil when out of range.
func (s *Secondary) PoolForQueue(qid int) *shm.Pool {
	if qid < 0 || qid >= len(s.pools) {
		return nil
	}
	return s.pools[qid]
}

// StatsForQueue returns the counter block for a queue id, or nil.
func (s *Secondary) StatsForQueue(qid int) *QueueStats {
	if qid < 0 || qid >= len(s.stats) {
		return nil
	}
	return s.stats[qid]
}

// NumTxQueues returns the number of resolved TX rings.
func (s *Secondary) NumTxQueues() int { return len(s.txRings) }

// NumRxQueues returns the number of resolved RX rings.
func (s *Secondary) NumRxQueues() int { return len(s.rxRings) }

// NumPools returns the number of resolved pools.
func (s *Secondary) NumPools() int { return len(s.pools) }

// ICRings returns the resolved interconnect rings.
func (s *Secondary) ICRings() []*shm.Ring { return s.icRings }

// Handles exposes the secondary-side view table.
func (s *Secondary) Handles() *HandleTable { return s.handles }

// Close unmaps every attached object. The backing files stay: the
// secondary holds views, not ownership.
func (s *Secondary) Close() error {
	var firstErr error
	for _, r := range s.handles.rings {
		if err := r.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	for _, mp := range s.handles.pools {
		if err := mp.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	s.handles = newHandleTable()
	s.pools, s.txRings, s.rxRings, s.icRings = nil, nil, nil, nil
	return firstErr
}
