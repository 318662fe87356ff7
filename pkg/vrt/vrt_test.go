package vrt

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/flexsdr/flexsdr/pkg/shm"
)

func TestEncodeHeaderBytes(t *testing.T) {
	// 128 payload bytes over a 32-byte header: total length is
	// ceil((32+128)/4) = 40 words.
	buf := make([]byte, 32)
	f := Fields{StreamID: 0x1F00, Timestamp: 0x0102030405060708}
	if err := EncodeHeader(buf, f, DefaultGeometry(), 128); err != nil {
		t.Fatalf("EncodeHeader: %v", err)
	}

	wantFirst8 := []byte{0x00, 0x00, 0x00, 0x28, 0x00, 0x00, 0x1F, 0x00}
	if !bytes.Equal(buf[:8], wantFirst8) {
		t.Errorf("first 8 bytes = % x, want % x", buf[:8], wantFirst8)
	}
	wantTSF := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}
	if !bytes.Equal(buf[24:32], wantTSF) {
		t.Errorf("tsf bytes = % x, want % x", buf[24:32], wantTSF)
	}
	for i := 9; i < 24; i++ {
		if buf[i] != 0 {
			t.Errorf("reserved byte %d = %#x, want 0", i, buf[i])
		}
	}
}

func TestHeaderRoundTrip(t *testing.T) {
	tests := []Fields{
		{StreamID: 0, Timestamp: 0},
		{StreamID: 0xDEADBEEF, Timestamp: 1},
		{StreamID: 7, Timestamp: 0xFFFFFFFFFFFFFFFF, SOB: true},
		{StreamID: 42, Timestamp: 123456789, EOB: true},
		{StreamID: 1, Timestamp: 99, SOB: true, EOB: true},
	}
	for _, f := range tests {
		const payload = 256
		pkt := make([]byte, DefaultHeaderBytes+payload)
		for i := DefaultHeaderBytes; i < len(pkt); i++ {
			pkt[i] = byte(i)
		}
		if err := EncodeHeader(pkt, f, DefaultGeometry(), payload); err != nil {
			t.Fatalf("EncodeHeader(%+v): %v", f, err)
		}
		got, payloadBytes, err := DecodeHeader(pkt, DefaultGeometry())
		if err != nil {
			t.Fatalf("DecodeHeader(%+v): %v", f, err)
		}
		if payloadBytes != payload {
			t.Errorf("payload = %d, want %d", payloadBytes, payload)
		}
		want := f
		want.HasTimestamp = true
		if got != want {
			t.Errorf("round trip: got %+v, want %+v", got, want)
		}
		// Payload untouched.
		for i := DefaultHeaderBytes; i < len(pkt); i++ {
			if pkt[i] != byte(i) {
				t.Fatalf("payload byte %d modified", i)
			}
		}
	}
}

func TestDecodeShortPacket(t *testing.T) {
	_, _, err := DecodeHeader(make([]byte, 16), DefaultGeometry())
	if !errors.Is(err, ErrShortPacket) {
		t.Errorf("short packet: got %v, want ErrShortPacket", err)
	}
}

func TestDecodeUnaligned(t *testing.T) {
	_, _, err := DecodeHeader(make([]byte, DefaultHeaderBytes+5), DefaultGeometry())
	if !errors.Is(err, ErrUnaligned) {
		t.Errorf("unaligned payload: got %v, want ErrUnaligned", err)
	}
}

func TestCustomTSFOffset(t *testing.T) {
	g := Geometry{HeaderBytes: 40, TSFOffset: 32}
	buf := make([]byte, 40)
	f := Fields{StreamID: 9, Timestamp: 0xAABBCCDD}
	if err := EncodeHeader(buf, f, g, 0); err != nil {
		t.Fatalf("EncodeHeader: %v", err)
	}
	got, _, err := DecodeHeader(buf, g)
	if err != nil {
		t.Fatalf("DecodeHeader: %v", err)
	}
	if got.Timestamp != f.Timestamp {
		t.Errorf("timestamp = %#x, want %#x", got.Timestamp, f.Timestamp)
	}
}

func newTestPool(t *testing.T, eltSize uint32) *shm.Pool {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vrt_pool")
	p, err := shm.CreatePool(path, "vrt_pool", 8, eltSize, 0)
	if err != nil {
		t.Fatalf("CreatePool: %v", err)
	}
	t.Cleanup(func() { p.Close() })
	return p
}

func TestAppendSamples(t *testing.T) {
	pool := newTestPool(t, 4096)
	pb, err := pool.Alloc()
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	defer pool.Free(pb)

	g := DefaultGeometry()
	iq := make([]int16, 2*100) // 100 samples
	for i := range iq {
		iq[i] = int16(i - 100)
	}
	if err := EncodeHeader(pb.Bytes(), Fields{StreamID: 3, Timestamp: 50}, g, len(iq)*2); err != nil {
		t.Fatalf("EncodeHeader: %v", err)
	}
	pb.SetLen(uint32(g.HeaderBytes))
	if err := AppendSamples(pb, iq); err != nil {
		t.Fatalf("AppendSamples: %v", err)
	}
	if got, want := pb.Len(), uint32(g.HeaderBytes+len(iq)*2); got != want {
		t.Fatalf("packet length %d, want %d", got, want)
	}

	back := SamplesIn(pb.Packet()[g.HeaderBytes:])
	if len(back) != len(iq) {
		t.Fatalf("read back %d values, want %d", len(back), len(iq))
	}
	for i := range iq {
		if back[i] != iq[i] {
			t.Fatalf("sample %d: got %d, want %d", i, back[i], iq[i])
		}
	}
}

func TestAppendSamplesNoTailroom(t *testing.T) {
	pool := newTestPool(t, 64) // room for 32-byte header + 8 samples
	pb, err := pool.Alloc()
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	defer pool.Free(pb)

	g := DefaultGeometry()
	pb.SetLen(uint32(g.HeaderBytes))
	iq := make([]int16, 2*16) // 16 samples, 64 bytes: exceeds the room
	if err := AppendSamples(pb, iq); !errors.Is(err, ErrNoTailroom) {
		t.Fatalf("got %v, want ErrNoTailroom", err)
	}
	if pb.Len() != uint32(g.HeaderBytes) {
		t.Errorf("failed append advanced the packet length to %d", pb.Len())
	}
}
