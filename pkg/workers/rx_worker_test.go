package workers

import (
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/flexsdr/flexsdr/pkg/shm"
	"github.com/flexsdr/flexsdr/pkg/vrt"
)

func TestChannelFIFO(t *testing.T) {
	q := NewChannelFIFO[int](4)
	for i := 0; i < 4; i++ {
		if !q.Push(i) {
			t.Fatalf("push %d failed", i)
		}
	}
	if q.Push(99) {
		t.Error("push succeeded on full queue")
	}
	if v, ok := q.Peek(); !ok || v != 0 {
		t.Errorf("Peek = %d,%v", v, ok)
	}
	for i := 0; i < 4; i++ {
		v, ok := q.Pop()
		if !ok || v != i {
			t.Fatalf("pop %d: got %d,%v", i, v, ok)
		}
	}
	if _, ok := q.Pop(); ok {
		t.Error("pop succeeded on empty queue")
	}
}

func newRingAndPool(t *testing.T, ringCap, poolCap, eltSize uint32) (*shm.Ring, *shm.Pool) {
	t.Helper()
	dir := t.TempDir()
	r, err := shm.CreateRing(filepath.Join(dir, "ring"), "ring", ringCap)
	if err != nil {
		t.Fatalf("CreateRing: %v", err)
	}
	p, err := shm.CreatePool(filepath.Join(dir, "pool"), "pool", poolCap, eltSize, 0)
	if err != nil {
		t.Fatalf("CreatePool: %v", err)
	}
	t.Cleanup(func() {
		r.Close()
		p.Close()
	})
	return r, p
}

// producePacket allocates, encodes and enqueues one packet whose payload
// is nsamps copies of the sample value.
func producePacket(t *testing.T, ring *shm.Ring, pool *shm.Pool, g vrt.Geometry, f vrt.Fields, sample int16, nsamps int) {
	t.Helper()
	pb, err := pool.Alloc()
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	iq := make([]int16, nsamps*2)
	for i := range iq {
		iq[i] = sample
	}
	if err := vrt.EncodeHeader(pb.Bytes(), f, g, len(iq)*2); err != nil {
		t.Fatalf("EncodeHeader: %v", err)
	}
	pb.SetLen(uint32(g.HeaderBytes))
	if err := vrt.AppendSamples(pb, iq); err != nil {
		t.Fatalf("AppendSamples: %v", err)
	}
	if !ring.Enqueue(pb.Ref()) {
		t.Fatal("ring full while producing")
	}
}

func startWorker(t *testing.T, cfg RxWorkerConfig) *RxWorkerHandle {
	t.Helper()
	h, err := StartRxWorker(cfg)
	if err != nil {
		t.Fatalf("StartRxWorker: %v", err)
	}
	t.Cleanup(h.StopJoin)
	return h
}

func waitHandled(t *testing.T, h *RxWorkerHandle, want uint64) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for h.Stats().Handled.Load()+h.Stats().Drops.Load()+h.Stats().ParseErrors.Load() < want {
		if time.Now().After(deadline) {
			t.Fatalf("worker stuck: handled=%d drops=%d parse=%d want %d",
				h.Stats().Handled.Load(), h.Stats().Drops.Load(), h.Stats().ParseErrors.Load(), want)
		}
		time.Sleep(time.Millisecond)
	}
}

// Planar demux over 4 channels with 8 packets per channel: packet i goes
// to channel (i/8)%4, the first of each 8-group is start-of-burst, the
// last is end-of-burst.
func TestDemuxPlanarAssignment(t *testing.T) {
	const (
		numChannels = 4
		pktsPerChan = 8
		total       = 64
	)
	ring, pool := newRingAndPool(t, 128, 128, 4096)
	g := vrt.DefaultGeometry()

	fifos := make([]*ChannelFIFO[RxPacket], numChannels)
	for i := range fifos {
		fifos[i] = NewChannelFIFO[RxPacket](64)
	}

	for i := 0; i < total; i++ {
		producePacket(t, ring, pool, g, vrt.Fields{
			StreamID:  0xA0,
			Timestamp: uint64(1000 + i),
		}, int16(i), 16)
	}

	var run atomic.Bool
	run.Store(true)
	h := startWorker(t, RxWorkerConfig{
		Ring:        ring,
		Pool:        pool,
		RunFlag:     &run,
		Geometry:    g,
		TSFPresent:  true,
		NumChannels: numChannels,
		PktsPerChan: pktsPerChan,
		Mode:        FramingPlanar,
		FIFOs:       fifos,
		Core:        -1,
	})
	waitHandled(t, h, total)
	run.Store(false)
	h.StopJoin()

	// Channel c must hold, in order, the packets of its groups:
	// ch0: 0..7 then 32..39, ch1: 8..15 then 40..47, and so on.
	for ch := 0; ch < numChannels; ch++ {
		wantIdx := []int{}
		for g := 0; g < 2; g++ {
			base := g*numChannels*pktsPerChan + ch*pktsPerChan
			for k := 0; k < pktsPerChan; k++ {
				wantIdx = append(wantIdx, base+k)
			}
		}
		for n, want := range wantIdx {
			rec, ok := fifos[ch].Pop()
			if !ok {
				t.Fatalf("channel %d: only %d records", ch, n)
			}
			if rec.IQ[0] != int16(want) {
				t.Errorf("channel %d record %d: packet %d, want %d", ch, n, rec.IQ[0], want)
			}
			if rec.Chan != uint32(ch) {
				t.Errorf("record carries channel %d, want %d", rec.Chan, ch)
			}
			groupPos := n % pktsPerChan
			if got, want := rec.SOB, groupPos == 0; got != want {
				t.Errorf("channel %d record %d: sob=%v", ch, n, got)
			}
			if got, want := rec.EOB, groupPos == pktsPerChan-1; got != want {
				t.Errorf("channel %d record %d: eob=%v", ch, n, got)
			}
			if !rec.HasTSF || rec.TSFTicks != uint64(1000+want) {
				t.Errorf("channel %d record %d: tsf=%d,%v", ch, n, rec.TSFTicks, rec.HasTSF)
			}
		}
		if _, ok := fifos[ch].Pop(); ok {
			t.Errorf("channel %d has extra records", ch)
		}
	}

	if pool.Avail() != 128 {
		t.Errorf("pool leaked: %d of 128 free", pool.Avail())
	}
}

// A compact 16-byte header with the timestamp region past it models the
// producer variant that stamps only block leaders: packets long enough to
// reach the timestamp carry it, shorter ones inherit the block leader's.
func TestDemuxBlockTimestampInheritance(t *testing.T) {
	const (
		numChannels = 2
		pktsPerChan = 2
	)
	ring, pool := newRingAndPool(t, 64, 64, 4096)
	g := vrt.Geometry{HeaderBytes: 16, TSFOffset: 24}

	fifos := make([]*ChannelFIFO[RxPacket], numChannels)
	for i := range fifos {
		fifos[i] = NewChannelFIFO[RxPacket](16)
	}

	// Leader of the block: 8 samples, so bytes [24:32) exist and hold the
	// timestamp. Followers: 2 samples each, too short to reach it.
	makePacket := func(withTSF bool, ts uint64, sample int16) {
		nsamps := 2
		if withTSF {
			nsamps = 8
		}
		pb, err := pool.Alloc()
		if err != nil {
			t.Fatalf("Alloc: %v", err)
		}
		iq := make([]int16, nsamps*2)
		for i := range iq {
			iq[i] = sample
		}
		buf := pb.Bytes()
		for i := 0; i < g.HeaderBytes; i++ {
			buf[i] = 0
		}
		pb.SetLen(uint32(g.HeaderBytes))
		if err := vrt.AppendSamples(pb, iq); err != nil {
			t.Fatalf("AppendSamples: %v", err)
		}
		if withTSF {
			pkt := pb.Packet()
			for i := 0; i < 8; i++ {
				pkt[g.TSFOffset+i] = byte(ts >> (56 - 8*i))
			}
		}
		if !ring.Enqueue(pb.Ref()) {
			t.Fatal("ring full")
		}
	}

	const blockTS = 555000
	makePacket(true, blockTS, 0) // block leader
	makePacket(false, 0, 1)
	makePacket(false, 0, 2)
	makePacket(false, 0, 3)

	var run atomic.Bool
	run.Store(true)
	h := startWorker(t, RxWorkerConfig{
		Ring:        ring,
		Pool:        pool,
		RunFlag:     &run,
		Geometry:    g,
		TSFPresent:  true,
		NumChannels: numChannels,
		PktsPerChan: pktsPerChan,
		Mode:        FramingPlanar,
		FIFOs:       fifos,
		Core:        -1,
	})
	waitHandled(t, h, 4)
	run.Store(false)
	h.StopJoin()

	for ch := 0; ch < numChannels; ch++ {
		for k := 0; k < pktsPerChan; k++ {
			rec, ok := fifos[ch].Pop()
			if !ok {
				t.Fatalf("channel %d record %d missing", ch, k)
			}
			if !rec.HasTSF || rec.TSFTicks != blockTS {
				t.Errorf("channel %d record %d: tsf=%d,%v, want inherited %d",
					ch, k, rec.TSFTicks, rec.HasTSF, uint64(blockTS))
			}
		}
	}
}

func TestDemuxParseErrors(t *testing.T) {
	ring, pool := newRingAndPool(t, 64, 64, 4096)
	g := vrt.DefaultGeometry()

	fifos := []*ChannelFIFO[RxPacket]{NewChannelFIFO[RxPacket](16)}

	// A packet shorter than the header is malformed.
	pb, err := pool.Alloc()
	if err != nil {
		t.Fatal(err)
	}
	pb.SetLen(8)
	ring.Enqueue(pb.Ref())

	// A healthy packet behind it must still flow.
	producePacket(t, ring, pool, g, vrt.Fields{Timestamp: 1}, 42, 4)

	var run atomic.Bool
	run.Store(true)
	h := startWorker(t, RxWorkerConfig{
		Ring:        ring,
		Pool:        pool,
		RunFlag:     &run,
		Geometry:    g,
		TSFPresent:  true,
		NumChannels: 1,
		PktsPerChan: 8,
		Mode:        FramingPlanar,
		FIFOs:       fifos,
		Core:        -1,
	})
	waitHandled(t, h, 2)
	run.Store(false)
	h.StopJoin()

	if got := h.Stats().ParseErrors.Load(); got != 1 {
		t.Errorf("parse errors = %d, want 1", got)
	}
	rec, ok := fifos[0].Pop()
	if !ok || rec.IQ[0] != 42 {
		t.Fatalf("healthy packet lost after malformed one: %v", ok)
	}
	if pool.Avail() != 64 {
		t.Errorf("malformed packet leaked a buffer: %d free", pool.Avail())
	}
}

func TestDemuxQueueOverflow(t *testing.T) {
	ring, pool := newRingAndPool(t, 64, 64, 4096)
	g := vrt.DefaultGeometry()

	// A 4-slot queue with no consumer: everything past 4 drops.
	fifos := []*ChannelFIFO[RxPacket]{NewChannelFIFO[RxPacket](4)}
	const total = 10
	for i := 0; i < total; i++ {
		producePacket(t, ring, pool, g, vrt.Fields{Timestamp: uint64(i)}, int16(i), 4)
	}

	var run atomic.Bool
	run.Store(true)
	h := startWorker(t, RxWorkerConfig{
		Ring:        ring,
		Pool:        pool,
		RunFlag:     &run,
		Geometry:    g,
		TSFPresent:  true,
		NumChannels: 1,
		PktsPerChan: 8,
		Mode:        FramingPlanar,
		FIFOs:       fifos,
		Core:        -1,
	})
	waitHandled(t, h, total)
	run.Store(false)
	h.StopJoin()

	if got := h.Stats().Drops.Load(); got != total-4 {
		t.Errorf("drops = %d, want %d", got, total-4)
	}
	// The survivors are the oldest packets, in order.
	for i := 0; i < 4; i++ {
		rec, ok := fifos[0].Pop()
		if !ok || rec.IQ[0] != int16(i) {
			t.Fatalf("record %d: got %v,%v", i, rec.IQ, ok)
		}
	}
	// Dropped records released their buffers.
	if pool.Avail() != 64 {
		t.Errorf("drop path leaked: %d free", pool.Avail())
	}
}

func TestDemuxStopReleasesBacklog(t *testing.T) {
	ring, pool := newRingAndPool(t, 64, 64, 4096)
	g := vrt.DefaultGeometry()
	fifos := []*ChannelFIFO[RxPacket]{NewChannelFIFO[RxPacket](64)}

	var run atomic.Bool
	run.Store(true)
	h := startWorker(t, RxWorkerConfig{
		Ring:        ring,
		Pool:        pool,
		RunFlag:     &run,
		Geometry:    g,
		TSFPresent:  true,
		NumChannels: 1,
		PktsPerChan: 8,
		Mode:        FramingPlanar,
		FIFOs:       fifos,
		Core:        -1,
	})

	// Stop first, then race a few packets in: after StopJoin the pool
	// must be whole again no matter which side won.
	run.Store(false)
	h.StopJoin()
	for i := 0; i < 5; i++ {
		producePacket(t, ring, pool, g, vrt.Fields{Timestamp: 1}, 0, 4)
	}

	// The worker is gone; drain manually like a restart would.
	refs := make([]uint64, 8)
	for {
		n := ring.DequeueBurst(refs)
		if n == 0 {
			break
		}
		for i := 0; i < n; i++ {
			pb, err := pool.FromRef(refs[i])
			if err == nil {
				pool.Free(pb)
			}
		}
	}
	if pool.Avail() != 64 {
		t.Errorf("backlog not released: %d free", pool.Avail())
	}
}
