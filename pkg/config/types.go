// Package config defines the typed flexsdr configuration and its YAML loader.
package config

import (
	"github.com/flexsdr/flexsdr/pkg/names"
)

// EALConfig holds the shared-memory runtime parameters.
type EALConfig struct {
	FilePrefix  string  `yaml:"file_prefix"`
	HugeDir     string  `yaml:"huge_dir"`
	SocketMem   string  `yaml:"socket_mem"` // e.g. "512,512"
	IOVA        string  `yaml:"iova"`       // "va" | "pa"
	NoPCI       bool    `yaml:"no_pci"`
	Lcores      *string `yaml:"lcores"`       // DPDK-style list, e.g. "0-3,5"
	MainLcore   *int    `yaml:"main_lcore"`
	SocketLimit *string `yaml:"socket_limit"`
}

// RingSpec describes one named lock-free queue.
type RingSpec struct {
	Name string `yaml:"name"`
	Size uint32 `yaml:"size"`
}

// Direction classifies an interconnect ring explicitly. Interconnect rings
// are neither TX nor RX in the directional sense; the config states which
// way each one carries traffic instead of encoding it in the name.
type Direction string

const (
	DirectionOut Direction = "out"
	DirectionIn  Direction = "in"
)

// InterconnectRing is a RingSpec plus its explicit direction.
type InterconnectRing struct {
	Name      string    `yaml:"name"`
	Size      uint32    `yaml:"size"`
	Direction Direction `yaml:"direction"`
}

// PoolSpec describes a packet buffer pool.
type PoolSpec struct {
	Name      string `yaml:"name"`
	Size      uint32 `yaml:"size"`       // total packet buffers
	EltSize   uint32 `yaml:"elt_size"`   // data room per buffer, bytes
	CacheSize uint32 `yaml:"cache_size"` // 0 = defaults.mp_cache
}

// StreamMode selects how packet payloads map to channels.
type StreamMode string

const (
	ModePlanar      StreamMode = "planar"
	ModeInterleaved StreamMode = "interleaved"
)

// Stream describes one directional stream: its channel layout and the
// ordered rings that carry it. Under planar mode ring position assigns
// channel identity.
type Stream struct {
	Mode         StreamMode `yaml:"mode"`
	NumChannels  uint32     `yaml:"num_channels"`
	AllowPartial bool       `yaml:"allow_partial"`
	TimeoutUs    uint32     `yaml:"timeout_us"`
	BusyPoll     bool       `yaml:"busy_poll"`
	SPP          uint32     `yaml:"spp"`           // samples per packet
	PktsPerChan  uint32     `yaml:"pkts_per_chan"` // planar group size
	Rings        []RingSpec `yaml:"rings"`
}

// Interconnect names the ring pair between two cooperating primaries.
type Interconnect struct {
	Rings []InterconnectRing `yaml:"rings"`
	Pool  *PoolSpec          `yaml:"pool"`
}

// Defaults are global fallbacks applied where a spec leaves a field zero.
type Defaults struct {
	Role       string  `yaml:"role"`
	NbMbuf     uint32  `yaml:"nb_mbuf"`
	MPCache    uint32  `yaml:"mp_cache"`
	RingSize   uint32  `yaml:"ring_size"`
	DataFormat string  `yaml:"data_format"` // "sc16"
	TickRate   float64 `yaml:"tick_rate"`   // ticks per second; 0 = 30.72e6
}

// Naming controls materialization of object names.
type Naming struct {
	PrefixWithRole bool   `yaml:"prefix_with_role"`
	Separator      string `yaml:"separator"`
}

// RoleConfig is the per-role block: what this role creates (primaries) or
// looks up (secondaries).
type RoleConfig struct {
	TxStream     *Stream       `yaml:"tx_stream"`
	RxStream     *Stream       `yaml:"rx_stream"`
	Pools        []PoolSpec    `yaml:"pools"`
	Interconnect *Interconnect `yaml:"interconnect"`
}

// Config is the top-level typed configuration.
type Config struct {
	EAL      EALConfig `yaml:"eal"`
	Defaults Defaults  `yaml:"defaults"`
	Naming   Naming    `yaml:"naming"`

	PrimaryUE  *RoleConfig `yaml:"primary_ue"`
	UE         *RoleConfig `yaml:"ue"`
	PrimaryGNB *RoleConfig `yaml:"primary_gnb"`
	GNB        *RoleConfig `yaml:"gnb"`
}

// Role parses the configured role. Validate guarantees it resolves.
func (c *Config) Role() names.Role {
	r, _ := names.ParseRole(c.Defaults.Role)
	return r
}

// RoleBlock returns the config block for the given role, or nil.
func (c *Config) RoleBlock(r names.Role) *RoleConfig {
	switch r {
	case names.PrimaryUE:
		return c.PrimaryUE
	case names.UE:
		return c.UE
	case names.PrimaryGNB:
		return c.PrimaryGNB
	case names.GNB:
		return c.GNB
	}
	return nil
}

// EffectiveRole returns the block for the configured role.
func (c *Config) EffectiveRole() *RoleConfig {
	return c.RoleBlock(c.Role())
}

// TickRate returns the configured tick rate or the 30.72 MHz LTE default.
func (c *Config) TickRate() float64 {
	if c.Defaults.TickRate > 0 {
		return c.Defaults.TickRate
	}
	return 30.72e6
}

// Policy returns the naming policy.
func (c *Config) Policy() names.Policy {
	return names.Policy{
		PrefixWithRole: c.Naming.PrefixWithRole,
		Separator:      c.Naming.Separator,
	}
}

// materializeRings applies the naming policy and ring-size default to a
// ring list.
func (c *Config) materializeRings(rings []RingSpec) []RingSpec {
	pol := c.Policy()
	role := c.Role()
	out := make([]RingSpec, 0, len(rings))
	for _, r := range rings {
		size := r.Size
		if size == 0 {
			size = c.Defaults.RingSize
		}
		out = append(out, RingSpec{Name: pol.Materialize(role, r.Name), Size: size})
	}
	return out
}

// MaterializedTxRings returns the TX ring specs with final names and sizes.
func (c *Config) MaterializedTxRings() []RingSpec {
	rb := c.EffectiveRole()
	if rb == nil || rb.TxStream == nil {
		return nil
	}
	return c.materializeRings(rb.TxStream.Rings)
}

// MaterializedRxRings returns the RX ring specs with final names and sizes.
func (c *Config) MaterializedRxRings() []RingSpec {
	rb := c.EffectiveRole()
	if rb == nil || rb.RxStream == nil {
		return nil
	}
	return c.materializeRings(rb.RxStream.Rings)
}

// MaterializedInterconnectRings returns the interconnect ring specs with
// final names and sizes. Interconnect names are shared between two
// primaries, so they are materialized literally, without the role prefix.
func (c *Config) MaterializedInterconnectRings() []InterconnectRing {
	rb := c.EffectiveRole()
	if rb == nil || rb.Interconnect == nil {
		return nil
	}
	out := make([]InterconnectRing, 0, len(rb.Interconnect.Rings))
	for _, r := range rb.Interconnect.Rings {
		size := r.Size
		if size == 0 {
			size = c.Defaults.RingSize
		}
		out = append(out, InterconnectRing{Name: r.Name, Size: size, Direction: r.Direction})
	}
	return out
}

// MaterializedPools returns the pool specs with final names and defaults
// applied.
func (c *Config) MaterializedPools() []PoolSpec {
	rb := c.EffectiveRole()
	if rb == nil {
		return nil
	}
	pol := c.Policy()
	role := c.Role()
	out := make([]PoolSpec, 0, len(rb.Pools))
	for _, p := range rb.Pools {
		mp := p
		mp.Name = pol.Materialize(role, p.Name)
		if mp.Size == 0 {
			mp.Size = c.Defaults.NbMbuf
		}
		if mp.CacheSize == 0 {
			mp.CacheSize = c.Defaults.MPCache
		}
		out = append(out, mp)
	}
	return out
}
