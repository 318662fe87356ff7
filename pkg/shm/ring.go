package shm

import (
	"errors"
	"fmt"
	"sync/atomic"
	"unsafe"
)

// ringMagic identifies a ring segment.
var ringMagic = [8]byte{'F', 'S', 'D', 'R', 'R', 'I', 'N', 'G'}

// ErrRingConflict is returned when a ring is re-created with a different
// capacity than the pre-existing one.
var ErrRingConflict = errors.New("shm: ring exists with conflicting capacity")

const ringHeaderSize = 64

// ringHeader is the fixed layout at offset 0 of a ring segment.
//
//	0x00  8  magic "FSDRRING"
//	0x08  4  version
//	0x0C  4  capacity (usable slots, exact size)
//	0x10  4  slots (power of two, > capacity)
//	0x14  4  pad
//	0x18  8  head (producer index, monotonic)
//	0x20  8  tail (consumer index, monotonic)
//	0x28     reserved to 0x40
type ringHeader struct {
	magic    [8]byte
	version  uint32
	capacity uint32
	slots    uint32
	_        uint32
	head     uint64
	tail     uint64
	_        [24]byte
}

// Ring is a single-producer single-consumer lock-free queue of uint64
// packet references living in shared memory. The producer and the consumer
// may be different processes; each side must be a single goroutine.
type Ring struct {
	seg  *Segment
	name string
	mask uint64
	cap  uint32
}

func (r *Ring) header() *ringHeader {
	return (*ringHeader)(unsafe.Pointer(&r.seg.Mem[0]))
}

func (r *Ring) slot(i uint64) *uint64 {
	off := ringHeaderSize + (i&r.mask)*8
	return (*uint64)(unsafe.Pointer(&r.seg.Mem[off]))
}

// nextPow2 rounds up to the next power of two.
func nextPow2(v uint32) uint32 {
	if v == 0 {
		return 1
	}
	v--
	v |= v >> 1
	v |= v >> 2
	v |= v >> 4
	v |= v >> 8
	v |= v >> 16
	return v + 1
}

// CreateRing creates a ring of exactly capacity usable slots at path. If a
// ring of the same name already exists it is attached instead; a capacity
// mismatch on the pre-existing ring yields ErrRingConflict.
func CreateRing(path, name string, capacity uint32) (*Ring, error) {
	if capacity == 0 {
		return nil, fmt.Errorf("create ring %s: zero capacity", name)
	}
	if segmentExists(path) {
		r, err := AttachRing(path, name)
		if err != nil {
			return nil, err
		}
		if r.Cap() != capacity {
			r.Close()
			return nil, fmt.Errorf("%w: %s has %d, want %d", ErrRingConflict, name, r.Cap(), capacity)
		}
		return r, nil
	}

	slots := nextPow2(capacity + 1)
	size := ringHeaderSize + int(slots)*8
	seg, err := createSegment(path, size)
	if err != nil {
		return nil, err
	}

	hdr := (*ringHeader)(unsafe.Pointer(&seg.Mem[0]))
	hdr.version = segmentVersion
	hdr.capacity = capacity
	hdr.slots = slots
	atomic.StoreUint64(&hdr.head, 0)
	atomic.StoreUint64(&hdr.tail, 0)
	// Magic last: an attacher that sees it sees a fully initialized header.
	hdr.magic = ringMagic

	return &Ring{seg: seg, name: name, mask: uint64(slots - 1), cap: capacity}, nil
}

// AttachRing maps a pre-existing ring by path.
func AttachRing(path, name string) (*Ring, error) {
	seg, err := attachSegment(path)
	if err != nil {
		return nil, err
	}
	if len(seg.Mem) < ringHeaderSize {
		seg.Close()
		return nil, fmt.Errorf("%w: ring %s truncated", ErrBadMagic, name)
	}
	hdr := (*ringHeader)(unsafe.Pointer(&seg.Mem[0]))
	if hdr.magic != ringMagic {
		seg.Close()
		return nil, fmt.Errorf("%w: ring %s", ErrBadMagic, name)
	}
	if hdr.version != segmentVersion {
		seg.Close()
		return nil, fmt.Errorf("%w: ring %s version %d", ErrVersionMismatch, name, hdr.version)
	}
	return &Ring{seg: seg, name: name, mask: uint64(hdr.slots - 1), cap: hdr.capacity}, nil
}

// Name returns the ring's materialized name.
func (r *Ring) Name() string { return r.name }

// Cap returns the usable capacity.
func (r *Ring) Cap() uint32 { return r.cap }

// Len returns the number of queued references.
func (r *Ring) Len() int {
	hdr := r.header()
	h := atomic.LoadUint64(&hdr.head)
	t := atomic.LoadUint64(&hdr.tail)
	return int(h - t)
}

// Enqueue adds one reference. It returns false when the ring is full.
func (r *Ring) Enqueue(v uint64) bool {
	hdr := r.header()
	h := atomic.LoadUint64(&hdr.head)
	t := atomic.LoadUint64(&hdr.tail)
	if h-t >= uint64(r.cap) {
		return false
	}
	atomic.StoreUint64(r.slot(h), v)
	atomic.StoreUint64(&hdr.head, h+1)
	return true
}

// EnqueueBurst adds as many references as fit and returns how many did.
func (r *Ring) EnqueueBurst(vs []uint64) int {
	hdr := r.header()
	h := atomic.LoadUint64(&hdr.head)
	t := atomic.LoadUint64(&hdr.tail)
	room := uint64(r.cap) - (h - t)
	n := uint64(len(vs))
	if n > room {
		n = room
	}
	for i := uint64(0); i < n; i++ {
		atomic.StoreUint64(r.slot(h+i), vs[i])
	}
	atomic.StoreUint64(&hdr.head, h+n)
	return int(n)
}

// Dequeue removes the oldest reference. The second result is false when the
// ring is empty.
func (r *Ring) Dequeue() (uint64, bool) {
	hdr := r.header()
	t := atomic.LoadUint64(&hdr.tail)
	h := atomic.LoadUint64(&hdr.head)
	if t == h {
		return 0, false
	}
	v := atomic.LoadUint64(r.slot(t))
	atomic.StoreUint64(&hdr.tail, t+1)
	return v, true
}

// DequeueBurst fills out with up to len(out) references and returns how
// many were dequeued.
func (r *Ring) DequeueBurst(out []uint64) int {
	hdr := r.header()
	t := atomic.LoadUint64(&hdr.tail)
	h := atomic.LoadUint64(&hdr.head)
	n := h - t
	if n > uint64(len(out)) {
		n = uint64(len(out))
	}
	for i := uint64(0); i < n; i++ {
		out[i] = atomic.LoadUint64(r.slot(t + i))
	}
	atomic.StoreUint64(&hdr.tail, t+n)
	return int(n)
}

// Close unmaps the ring.
func (r *Ring) Close() error { return r.seg.Close() }

// Unlink removes the backing file; creator side only.
func (r *Ring) Unlink() error { return r.seg.Unlink() }
