package streamer

import (
	"fmt"

	"github.com/flexsdr/flexsdr/pkg/shm"
	"github.com/flexsdr/flexsdr/pkg/transport"
	"github.com/flexsdr/flexsdr/pkg/vrt"
)

// TxBackend carries one encoded packet toward its ring. The TX streamer is
// polymorphic over the backend so it can be exercised without shared
// memory; the production backend wraps a Secondary's per-channel pool and
// ring. The backend never keeps a reference back into the streamer.
type TxBackend interface {
	// SendPacket builds and enqueues one packet for the channel. It
	// returns false when the packet could not be built (pool exhausted,
	// no tailroom) or not enqueued (ring full); either way no buffer is
	// leaked.
	SendPacket(ch int, f vrt.Fields, iq []int16) bool

	// NumChannels reports how many channels the backend serves.
	NumChannels() int
}

// ShmBackend is the production TxBackend: one pool+ring pair per channel,
// borrowed from a Secondary's handle tables.
type ShmBackend struct {
	chans []shmChan
	geom  vrt.Geometry
}

type shmChan struct {
	pool  *shm.Pool
	ring  *shm.Ring
	stats *transport.QueueStats
}

// NewShmBackend borrows per-queue handles from the secondary for nch
// channels. Channel qid uses the secondary's TX ring qid; when fewer pools
// than rings are declared, the last pool covers the remaining channels.
func NewShmBackend(sec *transport.Secondary, nch int, geom vrt.Geometry) (*ShmBackend, error) {
	if nch <= 0 {
		return nil, fmt.Errorf("streamer: backend needs at least one channel")
	}
	b := &ShmBackend{geom: geom, chans: make([]shmChan, nch)}
	for ch := 0; ch < nch; ch++ {
		ring := sec.RingForTxQueue(ch)
		if ring == nil {
			return nil, fmt.Errorf("streamer: no tx ring for channel %d", ch)
		}
		pool := sec.PoolForQueue(ch)
		if pool == nil {
			pool = sec.PoolForQueue(sec.NumPools() - 1)
		}
		if pool == nil {
			return nil, fmt.Errorf("streamer: no pool for channel %d", ch)
		}
		b.chans[ch] = shmChan{pool: pool, ring: ring, stats: sec.StatsForQueue(ch)}
	}
	return b, nil
}

// NumChannels implements TxBackend.
func (b *ShmBackend) NumChannels() int { return len(b.chans) }

// SendPacket implements TxBackend. Buffer ownership transfers to the ring
// on successful enqueue; every failure path frees the buffer immediately.
func (b *ShmBackend) SendPacket(ch int, f vrt.Fields, iq []int16) bool {
	if ch < 0 || ch >= len(b.chans) {
		return false
	}
	c := &b.chans[ch]

	pb, err := c.pool.Alloc()
	if err != nil {
		if c.stats != nil {
			c.stats.AllocFailures.Add(1)
		}
		return false
	}
	if err := vrt.EncodeHeader(pb.Bytes(), f, b.geom, len(iq)*2); err != nil {
		c.pool.Free(pb)
		return false
	}
	pb.SetLen(uint32(b.geom.HeaderBytes))
	if err := vrt.AppendSamples(pb, iq); err != nil {
		c.pool.Free(pb)
		return false
	}
	if !c.ring.Enqueue(pb.Ref()) {
		c.pool.Free(pb)
		if c.stats != nil {
			c.stats.RingFullDrops.Add(1)
		}
		return false
	}
	if c.stats != nil {
		c.stats.TxPackets.Add(1)
		c.stats.TxBytes.Add(uint64(pb.Len()))
	}
	return true
}
