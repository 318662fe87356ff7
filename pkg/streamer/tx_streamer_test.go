package streamer

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/flexsdr/flexsdr/pkg/shm"
	"github.com/flexsdr/flexsdr/pkg/vrt"
)

// fakeBackend records every packet it accepts and can simulate a ring
// with bounded room.
type fakeBackend struct {
	nch  int
	room int // packets accepted before reporting full; <0 = unlimited
	sent []fakePacket
}

type fakePacket struct {
	ch     int
	fields vrt.Fields
	nsamps int
	iq     []int16
}

func (b *fakeBackend) NumChannels() int { return b.nch }

func (b *fakeBackend) SendPacket(ch int, f vrt.Fields, iq []int16) bool {
	if b.room >= 0 && len(b.sent) >= b.room {
		return false
	}
	cp := make([]int16, len(iq))
	copy(cp, iq)
	b.sent = append(b.sent, fakePacket{ch: ch, fields: f, nsamps: len(iq) / 2, iq: cp})
	return true
}

func txFixture(t *testing.T, backend TxBackend, spp int, allowPartial bool) *TxStreamer {
	t.Helper()
	s, err := NewTxStreamer(TxStreamerConfig{
		Backend:      backend,
		SPP:          spp,
		AllowPartial: allowPartial,
		TickRate:     1e6,
		StreamID:     0xB0,
	})
	if err != nil {
		t.Fatalf("NewTxStreamer: %v", err)
	}
	return s
}

func inBuffers(nch, nsamps int) [][]int16 {
	out := make([][]int16, nch)
	for ch := range out {
		out[ch] = make([]int16, nsamps*2)
		for i := 0; i < nsamps; i++ {
			out[ch][2*i] = int16(i)
			out[ch][2*i+1] = int16(ch)
		}
	}
	return out
}

func TestSendRejectsPartialWhenDisallowed(t *testing.T) {
	b := &fakeBackend{nch: 1, room: -1}
	s := txFixture(t, b, 1024, false)

	n, err := s.Send(inBuffers(1, 1500), 1500, TxMetadata{EOB: true}, 10*time.Millisecond)
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if n != 0 {
		t.Fatalf("accepted %d samples with allow_partial=false", n)
	}
	if len(b.sent) != 0 {
		t.Fatalf("%d packets built despite rejection", len(b.sent))
	}
}

func TestSendPartialFragmentation(t *testing.T) {
	b := &fakeBackend{nch: 1, room: -1}
	s := txFixture(t, b, 1024, true)

	n, err := s.Send(inBuffers(1, 1500), 1500, TxMetadata{EOB: true}, 10*time.Millisecond)
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if n != 1500 {
		t.Fatalf("accepted %d, want 1500", n)
	}
	if len(b.sent) != 2 {
		t.Fatalf("built %d packets, want 2", len(b.sent))
	}
	if b.sent[0].nsamps != 1024 || b.sent[1].nsamps != 476 {
		t.Errorf("packet sizes %d, %d; want 1024, 476", b.sent[0].nsamps, b.sent[1].nsamps)
	}
	// Payload integrity across the fragment boundary.
	if b.sent[1].iq[0] != 1024 {
		t.Errorf("second packet starts at sample %d, want 1024", b.sent[1].iq[0])
	}
	if !b.sent[1].fields.EOB {
		t.Error("last packet must carry eob")
	}
	if b.sent[0].fields.EOB {
		t.Error("first packet must not carry eob")
	}
}

func TestSendTimestampMonotonicity(t *testing.T) {
	const spp = 256
	b := &fakeBackend{nch: 1, room: -1}
	s := txFixture(t, b, spp, true)

	md := TxMetadata{HasTimeSpec: true, TimeSpec: 1.0, SOB: true, EOB: true}
	n, err := s.Send(inBuffers(1, spp*4), spp*4, md, 10*time.Millisecond)
	if err != nil || n != spp*4 {
		t.Fatalf("Send = %d, %v", n, err)
	}
	if len(b.sent) != 4 {
		t.Fatalf("built %d packets", len(b.sent))
	}

	// tick_rate 1e6, time spec 1s: first packet at tick 1e6, then +spp
	// per packet (tick rate == sample rate).
	want := uint64(1e6)
	for i, p := range b.sent {
		if p.fields.Timestamp != want {
			t.Errorf("packet %d timestamp %d, want %d", i, p.fields.Timestamp, want)
		}
		want += spp
	}
	if !b.sent[0].fields.SOB || b.sent[1].fields.SOB {
		t.Error("sob must mark only the first packet")
	}
}

func TestSendRunningCounterAcrossCalls(t *testing.T) {
	const spp = 128
	b := &fakeBackend{nch: 1, room: -1}
	s := txFixture(t, b, spp, true)

	if _, err := s.Send(inBuffers(1, spp), spp, TxMetadata{EOB: true}, 10*time.Millisecond); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Send(inBuffers(1, spp), spp, TxMetadata{EOB: true}, 10*time.Millisecond); err != nil {
		t.Fatal(err)
	}
	if len(b.sent) != 2 {
		t.Fatalf("built %d packets", len(b.sent))
	}
	if b.sent[0].fields.Timestamp != 0 || b.sent[1].fields.Timestamp != spp {
		t.Errorf("timestamps %d, %d; want 0, %d",
			b.sent[0].fields.Timestamp, b.sent[1].fields.Timestamp, spp)
	}
}

func TestSendMultiChannel(t *testing.T) {
	b := &fakeBackend{nch: 2, room: -1}
	s := txFixture(t, b, 64, true)

	n, err := s.Send(inBuffers(2, 128), 128, TxMetadata{EOB: true}, 10*time.Millisecond)
	if err != nil || n != 128 {
		t.Fatalf("Send = %d, %v", n, err)
	}
	perChan := map[int]int{}
	for _, p := range b.sent {
		perChan[p.ch] += p.nsamps
		// Q carries the channel id in the fixture.
		if p.iq[1] != int16(p.ch) {
			t.Errorf("channel %d packet holds channel %d samples", p.ch, p.iq[1])
		}
	}
	if perChan[0] != 128 || perChan[1] != 128 {
		t.Errorf("per-channel samples = %v", perChan)
	}
}

func TestSendCloseFlushesStaged(t *testing.T) {
	b := &fakeBackend{nch: 1, room: -1}
	s := txFixture(t, b, 64, true)

	// No eob, fewer fragments than the burst size: everything stays
	// staged until Close.
	n, err := s.Send(inBuffers(1, 128), 128, TxMetadata{}, 10*time.Millisecond)
	if err != nil || n != 128 {
		t.Fatalf("Send = %d, %v", n, err)
	}
	if len(b.sent) != 0 {
		t.Fatalf("%d packets flushed before burst filled", len(b.sent))
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if len(b.sent) != 2 {
		t.Fatalf("Close flushed %d packets, want 2", len(b.sent))
	}
	if _, err := s.Send(inBuffers(1, 64), 64, TxMetadata{}, time.Millisecond); err != ErrClosed {
		t.Fatalf("send after close: %v", err)
	}
}

func TestSendBackpressurePrefix(t *testing.T) {
	// Room for 3 packets: a 5-packet burst accepts the 3-packet prefix.
	b := &fakeBackend{nch: 1, room: 3}
	s := txFixture(t, b, 100, true)

	n, err := s.Send(inBuffers(1, 500), 500, TxMetadata{EOB: true}, 5*time.Millisecond)
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if n != 300 {
		t.Fatalf("accepted %d, want the 300-sample prefix", n)
	}
	if len(b.sent) != 3 {
		t.Fatalf("enqueued %d packets", len(b.sent))
	}
	if s.BackpressureDrops() != 2 {
		t.Errorf("backpressure drops = %d, want 2", s.BackpressureDrops())
	}
}

// Scenario over real shared memory: fill a ring whose consumer is stopped
// and verify the enqueued prefix and that every released buffer went back
// to the pool.
func TestSendBackpressureShmNoLeak(t *testing.T) {
	dir := t.TempDir()
	ring, err := shm.CreateRing(filepath.Join(dir, "tx_ring"), "tx_ring", 4)
	if err != nil {
		t.Fatal(err)
	}
	defer ring.Close()
	pool, err := shm.CreatePool(filepath.Join(dir, "tx_pool"), "tx_pool", 16, 4096, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer pool.Close()

	backend := &shmTestBackend{pool: pool, ring: ring}
	s, err := NewTxStreamer(TxStreamerConfig{
		Backend:      backend,
		SPP:          50,
		AllowPartial: true,
		TickRate:     1e6,
	})
	if err != nil {
		t.Fatal(err)
	}

	// 8 packets against a 4-slot ring with no consumer.
	n, err := s.Send(inBuffers(1, 400), 400, TxMetadata{EOB: true}, 5*time.Millisecond)
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if n != 200 {
		t.Fatalf("accepted %d, want 200 (4 packets of 50)", n)
	}
	if ring.Len() != 4 {
		t.Errorf("ring holds %d packets", ring.Len())
	}
	// 4 buffers live on the ring, everything else back in the pool.
	if pool.Avail() != 12 {
		t.Errorf("pool has %d free, want 12: released suffix leaked", pool.Avail())
	}
}

// shmTestBackend is ShmBackend without a Secondary: the pool and ring are
// created directly in the test.
type shmTestBackend struct {
	pool *shm.Pool
	ring *shm.Ring
}

func (b *shmTestBackend) NumChannels() int { return 1 }

func (b *shmTestBackend) SendPacket(_ int, f vrt.Fields, iq []int16) bool {
	pb, err := b.pool.Alloc()
	if err != nil {
		return false
	}
	g := vrt.DefaultGeometry()
	if err := vrt.EncodeHeader(pb.Bytes(), f, g, len(iq)*2); err != nil {
		b.pool.Free(pb)
		return false
	}
	pb.SetLen(uint32(g.HeaderBytes))
	if err := vrt.AppendSamples(pb, iq); err != nil {
		b.pool.Free(pb)
		return false
	}
	if !b.ring.Enqueue(pb.Ref()) {
		b.pool.Free(pb)
		return false
	}
	return true
}
