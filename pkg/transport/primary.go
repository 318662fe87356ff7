package transport

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/flexsdr/flexsdr/pkg/config"
	"github.com/flexsdr/flexsdr/pkg/eal"
	"github.com/flexsdr/flexsdr/pkg/logging"
	"github.com/flexsdr/flexsdr/pkg/shm"
)

// Primary creates the shared-memory objects its role declares and owns
// their lifetime. It lives as long as the primary process; objects are
// unlinked on Close.
type Primary struct {
	cfg    *config.Config
	rt     *eal.Runtime
	events *logging.EventBuffer

	handles *HandleTable

	pools   []*shm.Pool
	txRings []*shm.Ring
	rxRings []*shm.Ring
	icRings []*shm.Ring

	createdPools []string
	createdRings []string
}

// NewPrimary builds a primary resource manager over the initialized
// runtime. The configured role must be a creator role and the runtime must
// have been initialized with proc-type primary.
func NewPrimary(cfg *config.Config, events *logging.EventBuffer) (*Primary, error) {
	rt, err := eal.Get()
	if err != nil {
		return nil, err
	}
	if rt.ProcType != eal.ProcPrimary {
		return nil, fmt.Errorf("transport: primary manager on %s runtime", rt.ProcType)
	}
	if !cfg.Role().IsPrimary() {
		return nil, fmt.Errorf("transport: role %s may not create objects", cfg.Role())
	}
	return &Primary{
		cfg:     cfg,
		rt:      rt,
		events:  events,
		handles: newHandleTable(),
	}, nil
}

func (p *Primary) path(name string) string {
	return filepath.Join(p.rt.Dir, name)
}

// CreatePool creates one packet buffer pool, or reuses a pre-existing pool
// of the same name. The spec's name must already be materialized.
func (p *Primary) CreatePool(spec config.PoolSpec) (*shm.Pool, error) {
	if spec.Name == "" {
		return nil, ErrInvalidName
	}
	if mp := p.handles.pools[spec.Name]; mp != nil {
		return mp, nil
	}
	cache := spec.CacheSize
	if cache == 0 {
		cache = p.cfg.Defaults.MPCache
	}
	mp, err := shm.CreatePool(p.path(spec.Name), spec.Name, spec.Size, spec.EltSize, cache)
	if err != nil {
		return nil, &PoolCreateError{Name: spec.Name, Kind: "create", Err: err}
	}
	p.handles.pools[spec.Name] = mp
	p.pools = append(p.pools, mp)
	p.createdPools = append(p.createdPools, spec.Name)
	if p.events != nil {
		p.events.Add(logging.EventRecord{Type: logging.EventPoolCreated, Object: spec.Name, Channel: -1})
	}
	slog.Info("pool created", "name", spec.Name, "size", spec.Size, "elt_size", spec.EltSize)
	return mp, nil
}

// CreateRing creates one SPSC ring, or reuses a pre-existing ring of the
// same name. Re-creation with a conflicting capacity is an error.
func (p *Primary) CreateRing(spec config.RingSpec) (*shm.Ring, error) {
	if spec.Name == "" {
		return nil, ErrInvalidName
	}
	if r := p.handles.rings[spec.Name]; r != nil {
		if r.Cap() != spec.Size {
			return nil, &RingCreateError{Name: spec.Name, Err: shm.ErrRingConflict}
		}
		return r, nil
	}
	r, err := shm.CreateRing(p.path(spec.Name), spec.Name, spec.Size)
	if err != nil {
		return nil, &RingCreateError{Name: spec.Name, Err: err}
	}
	p.handles.rings[spec.Name] = r
	p.createdRings = append(p.createdRings, spec.Name)
	if p.events != nil {
		p.events.Add(logging.EventRecord{Type: logging.EventRingCreated, Object: spec.Name, Channel: -1})
	}
	slog.Info("ring created", "name", spec.Name, "size", spec.Size)
	return r, nil
}

// InitResources creates, in order, the role's pools, TX rings, RX rings
// and interconnect rings. The first pool or stream-ring error
// short-circuits; interconnect failures are reported but non-fatal, since
// a primary may come up without its interconnect peer.
func (p *Primary) InitResources() error {
	for _, spec := range p.cfg.MaterializedPools() {
		if _, err := p.CreatePool(spec); err != nil {
			return err
		}
	}
	for _, spec := range p.cfg.MaterializedTxRings() {
		r, err := p.CreateRing(spec)
		if err != nil {
			return err
		}
		p.txRings = append(p.txRings, r)
	}
	for _, spec := range p.cfg.MaterializedRxRings() {
		r, err := p.CreateRing(spec)
		if err != nil {
			return err
		}
		p.rxRings = append(p.rxRings, r)
	}
	for _, ic := range p.cfg.MaterializedInterconnectRings() {
		r, err := p.CreateRing(config.RingSpec{Name: ic.Name, Size: ic.Size})
		if err != nil {
			slog.Warn("interconnect ring unavailable", "name", ic.Name, "err", err)
			continue
		}
		p.icRings = append(p.icRings, r)
	}
	slog.Info("primary resources ready",
		"pools", len(p.pools),
		"tx_rings", len(p.txRings),
		"rx_rings", len(p.rxRings),
		"ic_rings", len(p.icRings))
	return nil
}

// CreatedPools returns the ordered materialized names of every pool this
// primary created or found.
func (p *Primary) CreatedPools() []string { return p.createdPools }

// CreatedRings returns the ordered materialized names of every ring this
// primary created or found.
func (p *Primary) CreatedRings() []string { return p.createdRings }

// Handles exposes the primary-side handle table.
func (p *Primary) Handles() *HandleTable { return p.handles }

// TxRings returns the ordered TX rings.
func (p *Primary) TxRings() []*shm.Ring { return p.txRings }

// RxRings returns the ordered RX rings.
func (p *Primary) RxRings() []*shm.Ring { return p.rxRings }

// ICRings returns the interconnect rings that resolved.
func (p *Primary) ICRings() []*shm.Ring { return p.icRings }

// Close unmaps and unlinks every object this primary owns.
func (p *Primary) Close() error {
	var firstErr error
	for _, r := range p.handles.rings {
		if err := r.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		if err := r.Unlink(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	for _, mp := range p.handles.pools {
		if err := mp.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		if err := mp.Unlink(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	p.handles = newHandleTable()
	return firstErr
}
