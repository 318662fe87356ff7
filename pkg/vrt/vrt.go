// Package vrt encodes and decodes the flexsdr packet header.
//
// A packet is one pool buffer: a fixed-size header followed by an SC16
// payload. All multi-byte header fields are big-endian; payload samples
// stay in host byte order. Byte layout with the default geometry:
//
//	0x00  4  packet length in 32-bit words (u32 BE)
//	0x04  4  stream id                     (u32 BE)
//	0x08  1  burst flags (bit0 sob, bit1 eob)
//	0x09     reserved zeros
//	0x18  8  timestamp in ticks            (u64 BE)
//	0x20     payload (SC16 pairs, host byte order)
package vrt

import (
	"encoding/binary"
	"errors"
	"fmt"
	"unsafe"

	"github.com/flexsdr/flexsdr/pkg/shm"
)

const (
	// DefaultHeaderBytes is the default header size.
	DefaultHeaderBytes = 32

	// DefaultTSFOffset is the default byte offset of the timestamp.
	// Streamer variants may override it at construction.
	DefaultTSFOffset = 24

	flagsOffset = 8
	flagSOB     = 1 << 0
	flagEOB     = 1 << 1
)

var (
	// ErrNoTailroom is returned when appending samples past a buffer's
	// data room. The caller sized the pool too small; nothing is written.
	ErrNoTailroom = errors.New("vrt: no tailroom")

	// ErrShortPacket is returned when decoding a packet shorter than its
	// header.
	ErrShortPacket = errors.New("vrt: short packet")

	// ErrUnaligned is returned when a payload length is not a whole
	// number of SC16 samples.
	ErrUnaligned = errors.New("vrt: payload not SC16 aligned")
)

// Fields is the decoded header view.
type Fields struct {
	StreamID     uint32
	Timestamp    uint64
	HasTimestamp bool
	SOB          bool
	EOB          bool
}

// Geometry pins the header layout for one stream.
type Geometry struct {
	HeaderBytes int
	TSFOffset   int
}

// DefaultGeometry returns the standard 32-byte header with the timestamp
// at offset 24.
func DefaultGeometry() Geometry {
	return Geometry{HeaderBytes: DefaultHeaderBytes, TSFOffset: DefaultTSFOffset}
}

// validEncode is the encode-side contract: every enqueued packet carries a
// timestamp, so the timestamp must fit inside the header.
func (g Geometry) validEncode() error {
	if g.HeaderBytes < 12 {
		return fmt.Errorf("vrt: header of %d bytes too small", g.HeaderBytes)
	}
	if g.TSFOffset < 8 || g.TSFOffset+8 > g.HeaderBytes {
		return fmt.Errorf("vrt: tsf offset %d beyond %d-byte header", g.TSFOffset, g.HeaderBytes)
	}
	return nil
}

// validDecode admits header variants whose timestamp sits past a compact
// header; such packets simply report no timestamp when too short.
func (g Geometry) validDecode() error {
	if g.HeaderBytes < 12 {
		return fmt.Errorf("vrt: header of %d bytes too small", g.HeaderBytes)
	}
	if g.TSFOffset < 8 {
		return fmt.Errorf("vrt: tsf offset %d overlaps the length field", g.TSFOffset)
	}
	return nil
}

// EncodeHeader writes the header for a packet carrying payloadBytes of
// samples into buf. buf must hold at least the header. The length field is
// the total packet length in 32-bit words, rounded up.
func EncodeHeader(buf []byte, f Fields, g Geometry, payloadBytes int) error {
	if err := g.validEncode(); err != nil {
		return err
	}
	if len(buf) < g.HeaderBytes {
		return fmt.Errorf("%w: %d bytes for %d-byte header", ErrShortPacket, len(buf), g.HeaderBytes)
	}
	hdr := buf[:g.HeaderBytes]
	for i := range hdr {
		hdr[i] = 0
	}
	words := uint32((g.HeaderBytes + payloadBytes + 3) / 4)
	binary.BigEndian.PutUint32(hdr[0:4], words)
	binary.BigEndian.PutUint32(hdr[4:8], f.StreamID)
	var flags byte
	if f.SOB {
		flags |= flagSOB
	}
	if f.EOB {
		flags |= flagEOB
	}
	hdr[flagsOffset] = flags
	binary.BigEndian.PutUint64(hdr[g.TSFOffset:g.TSFOffset+8], f.Timestamp)
	return nil
}

// DecodeHeader is the mirror of EncodeHeader. The timestamp is present iff
// the packet is long enough to contain it. It returns the payload byte
// count alongside the fields.
func DecodeHeader(pkt []byte, g Geometry) (Fields, int, error) {
	if err := g.validDecode(); err != nil {
		return Fields{}, 0, err
	}
	if len(pkt) < g.HeaderBytes {
		return Fields{}, 0, fmt.Errorf("%w: %d < %d", ErrShortPacket, len(pkt), g.HeaderBytes)
	}
	payload := len(pkt) - g.HeaderBytes
	if payload%4 != 0 {
		return Fields{}, 0, fmt.Errorf("%w: %d payload bytes", ErrUnaligned, payload)
	}
	f := Fields{
		StreamID: binary.BigEndian.Uint32(pkt[4:8]),
		SOB:      pkt[flagsOffset]&flagSOB != 0,
		EOB:      pkt[flagsOffset]&flagEOB != 0,
	}
	if g.TSFOffset+8 <= len(pkt) {
		f.Timestamp = binary.BigEndian.Uint64(pkt[g.TSFOffset : g.TSFOffset+8])
		f.HasTimestamp = true
	}
	return f, payload, nil
}

// AppendSamples copies SC16 samples into the buffer after its current
// length, advancing the packet length. The first append on a fresh buffer
// must be preceded by EncodeHeader plus SetLen(header bytes). Fails with
// ErrNoTailroom when the data room cannot hold the samples; the buffer is
// unchanged.
func AppendSamples(pb *shm.PacketBuf, iq []int16) error {
	cur := int(pb.Len())
	nbytes := len(iq) * 2
	room := len(pb.Bytes())
	if cur+nbytes > room {
		return fmt.Errorf("%w: %d+%d > %d", ErrNoTailroom, cur, nbytes, room)
	}
	dst := pb.Bytes()[cur : cur+nbytes]
	copy(dst, int16Bytes(iq))
	pb.SetLen(uint32(cur + nbytes))
	return nil
}

// SamplesIn reinterprets packet payload bytes as SC16 values in host byte
// order. The returned slice aliases pkt.
func SamplesIn(payload []byte) []int16 {
	if len(payload) == 0 {
		return nil
	}
	return unsafe.Slice((*int16)(unsafe.Pointer(&payload[0])), len(payload)/2)
}

// int16Bytes views an SC16 slice as raw bytes in host byte order.
func int16Bytes(iq []int16) []byte {
	if len(iq) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&iq[0])), len(iq)*2)
}
