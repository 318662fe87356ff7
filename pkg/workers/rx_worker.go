package workers

import (
	"errors"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/flexsdr/flexsdr/pkg/logging"
	"github.com/flexsdr/flexsdr/pkg/shm"
	"github.com/flexsdr/flexsdr/pkg/vrt"
)

// RxFraming selects how ingress packets map to channels.
type RxFraming uint8

const (
	// FramingPlanar assigns channels by packet position: N consecutive
	// packets per channel, round-robin across channels.
	FramingPlanar RxFraming = iota
	// FramingInterleaved takes the channel from the packet header.
	FramingInterleaved
)

// RxPacket is one ingress packet after decode: header fields plus a copy
// of the SC16 payload. The pool buffer itself is released before the
// record is delivered.
type RxPacket struct {
	StreamID uint32
	TSFTicks uint64
	HasTSF   bool
	SOB      bool
	EOB      bool
	Chan     uint32
	Nsamps   uint32
	IQ       []int16 // interleaved I,Q; len = 2*Nsamps
}

// rxBurst is how many packets one demux turn dequeues at most.
const rxBurst = 64

// RxWorkerConfig wires the demux loop.
type RxWorkerConfig struct {
	Ring        *shm.Ring
	Pool        *shm.Pool
	RunFlag     *atomic.Bool
	Geometry    vrt.Geometry
	TSFPresent  bool
	NumChannels uint32
	PktsPerChan uint32
	Mode        RxFraming
	TickRate    float64
	FIFOs       []*ChannelFIFO[RxPacket]
	Core        int // pin demux thread to this core; -1 disables
	Events      *logging.EventBuffer
}

// RxWorkerStats are the demux counters, updated from the worker goroutine
// and read from anywhere.
type RxWorkerStats struct {
	Handled     atomic.Uint64
	Drops       atomic.Uint64
	ParseErrors atomic.Uint64
}

// RxWorkerHandle owns the running demux goroutine.
type RxWorkerHandle struct {
	stats   RxWorkerStats
	runFlag *atomic.Bool
	done    sync.WaitGroup
}

// Stats exposes the worker counters.
func (h *RxWorkerHandle) Stats() *RxWorkerStats { return &h.stats }

// StopJoin clears the run flag and waits for the worker to exit.
func (h *RxWorkerHandle) StopJoin() {
	h.runFlag.Store(false)
	h.done.Wait()
}

// StartRxWorker launches the demux loop on a dedicated goroutine. On each
// turn it dequeues up to a burst of packets from the ingress ring, decodes
// each, copies the payload into an RxPacket and pushes it to the channel's
// FIFO. Buffers go back to the pool in every path; a full FIFO drops the
// record and counts it. The loop never blocks: an empty dequeue yields.
func StartRxWorker(cfg RxWorkerConfig) (*RxWorkerHandle, error) {
	if cfg.Ring == nil || cfg.Pool == nil || cfg.RunFlag == nil {
		return nil, errors.New("workers: rx worker needs ring, pool and run flag")
	}
	if cfg.NumChannels == 0 || len(cfg.FIFOs) != int(cfg.NumChannels) {
		return nil, errors.New("workers: fifo count must equal channel count")
	}
	for _, f := range cfg.FIFOs {
		if f == nil {
			return nil, errors.New("workers: nil channel fifo")
		}
	}
	if cfg.PktsPerChan == 0 {
		cfg.PktsPerChan = 8
	}

	h := &RxWorkerHandle{runFlag: cfg.RunFlag}
	h.done.Add(1)
	go func() {
		defer h.done.Done()
		if err := PinThread(cfg.Core); err != nil {
			slog.Warn("rx worker unpinned", "err", err)
		}
		demuxLoop(cfg, &h.stats)
	}()
	return h, nil
}

func demuxLoop(cfg RxWorkerConfig, stats *RxWorkerStats) {
	var (
		refs [rxBurst]uint64

		pktIdx uint64

		blockTSFValid bool
		blockTSFTicks uint64
	)
	n := uint64(cfg.PktsPerChan)
	blockLen := uint64(cfg.NumChannels) * n

	for cfg.RunFlag.Load() {
		got := cfg.Ring.DequeueBurst(refs[:])
		if got == 0 {
			runtime.Gosched()
			continue
		}

		for i := 0; i < got; i++ {
			pb, err := cfg.Pool.FromRef(refs[i])
			if err != nil {
				stats.ParseErrors.Add(1)
				pktIdx++
				continue
			}

			rec, ok := decodePacket(pb, cfg)
			cfg.Pool.Free(pb)
			if !ok {
				stats.ParseErrors.Add(1)
				if cfg.Events != nil {
					cfg.Events.Add(logging.EventRecord{
						Type:    logging.EventParseError,
						Object:  cfg.Ring.Name(),
						Channel: -1,
						Count:   stats.ParseErrors.Load(),
					})
				}
				pktIdx++
				continue
			}

			// The first packet of a block carries the authoritative block
			// timestamp; packets without their own inherit it.
			blockBeg := pktIdx%blockLen == 0
			if blockBeg {
				blockTSFValid = rec.HasTSF
				blockTSFTicks = rec.TSFTicks
			} else if !rec.HasTSF && blockTSFValid {
				rec.HasTSF = true
				rec.TSFTicks = blockTSFTicks
			}

			var ch uint32
			switch cfg.Mode {
			case FramingPlanar:
				ch = uint32((pktIdx / n) % uint64(cfg.NumChannels))
				rec.SOB = pktIdx%n == 0
				rec.EOB = pktIdx%n == n-1
			case FramingInterleaved:
				// Header-driven: channel from the stream id, burst flags
				// straight off the wire.
				ch = rec.StreamID % cfg.NumChannels
			}
			rec.Chan = ch

			if !cfg.FIFOs[ch].Push(rec) {
				stats.Drops.Add(1)
				if cfg.Events != nil {
					cfg.Events.Add(logging.EventRecord{
						Type:    logging.EventQueueDrop,
						Object:  cfg.Ring.Name(),
						Channel: int(ch),
						Count:   stats.Drops.Load(),
					})
				}
			} else {
				stats.Handled.Add(1)
			}
			pktIdx++
		}
	}

	// Release anything still queued on the ingress ring; the consumer is
	// gone and buffers must go home.
	for {
		got := cfg.Ring.DequeueBurst(refs[:])
		if got == 0 {
			break
		}
		for i := 0; i < got; i++ {
			if pb, err := cfg.Pool.FromRef(refs[i]); err == nil {
				cfg.Pool.Free(pb)
			}
		}
	}

	slog.Info("rx worker exit",
		"handled", stats.Handled.Load(),
		"drops", stats.Drops.Load(),
		"parse_errors", stats.ParseErrors.Load())
	if cfg.Events != nil {
		cfg.Events.Add(logging.EventRecord{
			Type:   logging.EventWorkerExit,
			Object: cfg.Ring.Name(),
			Count:  stats.Handled.Load(),
		})
	}
}

// decodePacket parses the header and copies the payload out of the shared
// buffer. The record owns its IQ slice; the buffer can be freed as soon as
// this returns.
func decodePacket(pb *shm.PacketBuf, cfg RxWorkerConfig) (RxPacket, bool) {
	pkt := pb.Packet()
	f, payloadBytes, err := vrt.DecodeHeader(pkt, cfg.Geometry)
	if err != nil {
		return RxPacket{}, false
	}
	nsamps := uint32(payloadBytes / 4)
	if nsamps == 0 {
		return RxPacket{}, false
	}
	rec := RxPacket{
		StreamID: f.StreamID,
		Nsamps:   nsamps,
		SOB:      f.SOB,
		EOB:      f.EOB,
		IQ:       make([]int16, nsamps*2),
	}
	if cfg.TSFPresent && f.HasTimestamp {
		rec.TSFTicks = f.Timestamp
		rec.HasTSF = true
	}
	copy(rec.IQ, vrt.SamplesIn(pkt[cfg.Geometry.HeaderBytes:]))
	return rec, true
}
