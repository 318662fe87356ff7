package shm

import (
	"errors"
	"fmt"
	"sync/atomic"
	"unsafe"
)

var poolMagic = [8]byte{'F', 'S', 'D', 'R', 'P', 'O', 'O', 'L'}

// ErrPoolExhausted is returned by Alloc when every buffer is in flight.
var ErrPoolExhausted = errors.New("shm: pool exhausted")

const (
	poolHeaderSize = 64
	freeSlotSize   = 16 // {seq uint64, val uint64}
	elemHeaderSize = 16 // {dataLen uint32, pad}
)

// poolHeader is the fixed layout at offset 0 of a pool segment.
//
//	0x00  8  magic "FSDRPOOL"
//	0x08  4  version
//	0x0C  4  capacity (buffers)
//	0x10  4  eltSize (data room per buffer, bytes)
//	0x14  4  cacheHint
//	0x18  8  freeHead (free-list producer index)
//	0x20  8  freeTail (free-list consumer index)
//	0x28     reserved to 0x40
type poolHeader struct {
	magic     [8]byte
	version   uint32
	capacity  uint32
	eltSize   uint32
	cacheHint uint32
	freeHead  uint64
	freeTail  uint64
	_         [24]byte
}

type freeSlot struct {
	seq uint64
	val uint64
}

// Pool is a fixed-capacity allocator of uniform packet buffers in shared
// memory. Allocation and release may happen in different processes, so the
// free list is a lock-free multi-producer multi-consumer index queue.
type Pool struct {
	seg   *Segment
	name  string
	cap   uint32
	elt   uint32
	fmask uint64
}

func (p *Pool) header() *poolHeader {
	return (*poolHeader)(unsafe.Pointer(&p.seg.Mem[0]))
}

func (p *Pool) freeSlot(i uint64) *freeSlot {
	off := poolHeaderSize + (i&p.fmask)*freeSlotSize
	return (*freeSlot)(unsafe.Pointer(&p.seg.Mem[off]))
}

func (p *Pool) elemOffset(idx uint32) int {
	fslots := int(p.fmask + 1)
	base := poolHeaderSize + fslots*freeSlotSize
	return base + int(idx)*(elemHeaderSize+int(p.elt))
}

func (p *Pool) elemLen(idx uint32) *uint32 {
	return (*uint32)(unsafe.Pointer(&p.seg.Mem[p.elemOffset(idx)]))
}

func poolSegmentSize(capacity, eltSize uint32) int {
	fslots := int(nextPow2(capacity))
	return poolHeaderSize + fslots*freeSlotSize + int(capacity)*(elemHeaderSize+int(eltSize))
}

// CreatePool creates a pool of capacity buffers with eltSize bytes of data
// room each. A pre-existing pool of the same name is attached instead.
func CreatePool(path, name string, capacity, eltSize, cacheHint uint32) (*Pool, error) {
	if capacity == 0 || eltSize == 0 {
		return nil, fmt.Errorf("create pool %s: zero capacity or element size", name)
	}
	if segmentExists(path) {
		return AttachPool(path, name)
	}

	seg, err := createSegment(path, poolSegmentSize(capacity, eltSize))
	if err != nil {
		return nil, err
	}

	hdr := (*poolHeader)(unsafe.Pointer(&seg.Mem[0]))
	hdr.version = segmentVersion
	hdr.capacity = capacity
	hdr.eltSize = eltSize
	hdr.cacheHint = cacheHint

	p := &Pool{seg: seg, name: name, cap: capacity, elt: eltSize, fmask: uint64(nextPow2(capacity) - 1)}

	// Seed the free list with every buffer index. The slot state mirrors a
	// queue that has seen exactly `capacity` enqueues.
	fslots := nextPow2(capacity)
	for i := uint32(0); i < fslots; i++ {
		s := p.freeSlot(uint64(i))
		if i < capacity {
			s.val = uint64(i)
			s.seq = uint64(i) + 1
		} else {
			s.seq = uint64(i)
		}
	}
	atomic.StoreUint64(&hdr.freeTail, 0)
	atomic.StoreUint64(&hdr.freeHead, uint64(capacity))
	hdr.magic = poolMagic

	return p, nil
}

// AttachPool maps a pre-existing pool by path.
func AttachPool(path, name string) (*Pool, error) {
	seg, err := attachSegment(path)
	if err != nil {
		return nil, err
	}
	if len(seg.Mem) < poolHeaderSize {
		seg.Close()
		return nil, fmt.Errorf("%w: pool %s truncated", ErrBadMagic, name)
	}
	hdr := (*poolHeader)(unsafe.Pointer(&seg.Mem[0]))
	if hdr.magic != poolMagic {
		seg.Close()
		return nil, fmt.Errorf("%w: pool %s", ErrBadMagic, name)
	}
	if hdr.version != segmentVersion {
		seg.Close()
		return nil, fmt.Errorf("%w: pool %s version %d", ErrVersionMismatch, name, hdr.version)
	}
	return &Pool{
		seg:   seg,
		name:  name,
		cap:   hdr.capacity,
		elt:   hdr.eltSize,
		fmask: uint64(nextPow2(hdr.capacity) - 1),
	}, nil
}

// Name returns the pool's materialized name.
func (p *Pool) Name() string { return p.name }

// Cap returns the number of buffers.
func (p *Pool) Cap() uint32 { return p.cap }

// DataRoom returns the per-buffer data room in bytes.
func (p *Pool) DataRoom() uint32 { return p.elt }

// Avail returns how many buffers are currently free.
func (p *Pool) Avail() int {
	hdr := p.header()
	h := atomic.LoadUint64(&hdr.freeHead)
	t := atomic.LoadUint64(&hdr.freeTail)
	return int(h - t)
}

// Alloc takes one buffer from the free list.
func (p *Pool) Alloc() (*PacketBuf, error) {
	hdr := p.header()
	pos := atomic.LoadUint64(&hdr.freeTail)
	for {
		s := p.freeSlot(pos)
		seq := atomic.LoadUint64(&s.seq)
		switch d := int64(seq) - int64(pos+1); {
		case d == 0:
			if atomic.CompareAndSwapUint64(&hdr.freeTail, pos, pos+1) {
				idx := uint32(atomic.LoadUint64(&s.val))
				atomic.StoreUint64(&s.seq, pos+p.fmask+1)
				pb := &PacketBuf{pool: p, idx: idx}
				pb.SetLen(0)
				return pb, nil
			}
			pos = atomic.LoadUint64(&hdr.freeTail)
		case d < 0:
			return nil, ErrPoolExhausted
		default:
			pos = atomic.LoadUint64(&hdr.freeTail)
		}
	}
}

// Free returns a buffer to the free list. A buffer must be freed exactly
// once, by whichever side owns it at the time.
func (p *Pool) Free(pb *PacketBuf) {
	hdr := p.header()
	pos := atomic.LoadUint64(&hdr.freeHead)
	for {
		s := p.freeSlot(pos)
		seq := atomic.LoadUint64(&s.seq)
		switch d := int64(seq) - int64(pos); {
		case d == 0:
			if atomic.CompareAndSwapUint64(&hdr.freeHead, pos, pos+1) {
				atomic.StoreUint64(&s.val, uint64(pb.idx))
				atomic.StoreUint64(&s.seq, pos+1)
				return
			}
			pos = atomic.LoadUint64(&hdr.freeHead)
		case d < 0:
			// More frees than capacity: double free. Drop it rather than
			// corrupt the list.
			return
		default:
			pos = atomic.LoadUint64(&hdr.freeHead)
		}
	}
}

// Close unmaps the pool.
func (p *Pool) Close() error { return p.seg.Close() }

// Unlink removes the backing file; creator side only.
func (p *Pool) Unlink() error { return p.seg.Unlink() }

// PacketBuf is a handle to one buffer inside a pool. The handle is local to
// the process; the buffer it names is shared. Its Ref travels through rings
// and resolves to the same buffer in any process attached to the pool.
type PacketBuf struct {
	pool *Pool
	idx  uint32
}

// Ref returns the ring-portable reference of this buffer.
func (b *PacketBuf) Ref() uint64 { return uint64(b.idx) }

// FromRef resolves a ring reference back to a buffer handle.
func (p *Pool) FromRef(ref uint64) (*PacketBuf, error) {
	if ref >= uint64(p.cap) {
		return nil, fmt.Errorf("shm: ref %d out of range for pool %s", ref, p.name)
	}
	return &PacketBuf{pool: p, idx: uint32(ref)}, nil
}

// Bytes returns the full data room of the buffer.
func (b *PacketBuf) Bytes() []byte {
	off := b.pool.elemOffset(b.idx) + elemHeaderSize
	return b.pool.seg.Mem[off : off+int(b.pool.elt)]
}

// Len returns the current packet length in bytes.
func (b *PacketBuf) Len() uint32 {
	return atomic.LoadUint32(b.pool.elemLen(b.idx))
}

// SetLen records the packet length in bytes. The length crosses the process
// boundary with the buffer, so it lives in the element header, not the
// handle.
func (b *PacketBuf) SetLen(n uint32) {
	atomic.StoreUint32(b.pool.elemLen(b.idx), n)
}

// Packet returns the valid packet bytes (header + payload).
func (b *PacketBuf) Packet() []byte {
	return b.Bytes()[:b.Len()]
}

// Pool returns the owning pool.
func (b *PacketBuf) Pool() *Pool { return b.pool }
