package streamer

import (
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/flexsdr/flexsdr/pkg/workers"
)

// carryBuf holds the untaken tail of the last packet of one channel
// between Recv calls.
type carryBuf struct {
	iq       []int16 // interleaved I,Q
	consumed int     // samples already taken (pairs)
}

func (c *carryBuf) samples() int {
	return len(c.iq)/2 - c.consumed
}

// RxStreamerConfig wires an RX streamer to its demux FIFOs.
type RxStreamerConfig struct {
	FIFOs    []*workers.ChannelFIFO[workers.RxPacket]
	TickRate float64
	BusyPoll bool
	Stop     *atomic.Bool // external stop flag; may be nil
}

// RxStreamer assembles caller-sized bursts from per-channel packet
// queues. One goroutine calls Recv at a time; the internal state is not
// thread-safe.
type RxStreamer struct {
	fifos    []*workers.ChannelFIFO[workers.RxPacket]
	nch      int
	tickRate float64
	busyPoll bool
	stop     *atomic.Bool
	carry    []carryBuf

	samplesOut atomic.Uint64
}

// NewRxStreamer builds a streamer over the given per-channel FIFOs.
func NewRxStreamer(cfg RxStreamerConfig) (*RxStreamer, error) {
	if len(cfg.FIFOs) == 0 {
		return nil, fmt.Errorf("streamer: rx streamer needs at least one channel fifo")
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = 30.72e6
	}
	return &RxStreamer{
		fifos:    cfg.FIFOs,
		nch:      len(cfg.FIFOs),
		tickRate: cfg.TickRate,
		busyPoll: cfg.BusyPoll,
		stop:     cfg.Stop,
		carry:    make([]carryBuf, len(cfg.FIFOs)),
	}, nil
}

// NumChannels returns the channel count the streamer is bound to.
func (s *RxStreamer) NumChannels() int { return s.nch }

// SamplesDelivered returns the running per-streamer sample counter.
func (s *RxStreamer) SamplesDelivered() uint64 { return s.samplesOut.Load() }

func (s *RxStreamer) stopped() bool {
	return s.stop != nil && s.stop.Load()
}

func (s *RxStreamer) pause() {
	if s.busyPoll {
		runtime.Gosched()
		return
	}
	time.Sleep(50 * time.Microsecond)
}

// Recv fills each channel's output buffer with up to nsamps samples. It
// returns when every channel reached nsamps, the timeout expired, or the
// stop flag flipped. The returned count is the minimum across channels;
// surplus samples gathered on faster channels go back to that channel's
// carry buffer so nothing is lost across calls.
//
// Each buffs[ch] must hold at least 2*nsamps int16 (interleaved I,Q).
// A timeout with zero samples returns ErrTimeout; a partial burst returns
// the partial count with metadata EOB forced false.
func (s *RxStreamer) Recv(buffs [][]int16, nsamps int, timeout time.Duration) (int, RxMetadata, error) {
	var md RxMetadata
	if len(buffs) < s.nch {
		return 0, md, fmt.Errorf("streamer: %d buffers for %d channels", len(buffs), s.nch)
	}
	if nsamps <= 0 {
		return 0, md, nil
	}
	for ch := 0; ch < s.nch; ch++ {
		if len(buffs[ch]) < nsamps*2 {
			return 0, md, fmt.Errorf("streamer: channel %d buffer holds %d samples, need %d",
				ch, len(buffs[ch])/2, nsamps)
		}
	}

	deadline := time.Now().Add(timeout)
	filled := make([]int, s.nch)
	var (
		bestTicks uint64
		haveTicks bool
	)

	for {
		progress := false
		done := 0
		for ch := 0; ch < s.nch; ch++ {
			for filled[ch] < nsamps {
				// Carry first: leftover tail of the previous packet.
				if c := &s.carry[ch]; c.samples() > 0 {
					take := c.samples()
					if room := nsamps - filled[ch]; take > room {
						take = room
					}
					src := c.iq[c.consumed*2 : (c.consumed+take)*2]
					copy(buffs[ch][filled[ch]*2:], src)
					c.consumed += take
					if c.samples() == 0 {
						*c = carryBuf{}
					}
					filled[ch] += take
					progress = true
					continue
				}

				rec, ok := s.fifos[ch].Pop()
				if !ok {
					break
				}
				progress = true
				if rec.HasTSF && (!haveTicks || rec.TSFTicks < bestTicks) {
					bestTicks = rec.TSFTicks
					haveTicks = true
				}
				md.SOB = md.SOB || rec.SOB
				md.EOB = md.EOB || rec.EOB

				take := int(rec.Nsamps)
				if room := nsamps - filled[ch]; take > room {
					take = room
				}
				copy(buffs[ch][filled[ch]*2:], rec.IQ[:take*2])
				if take < int(rec.Nsamps) {
					s.carry[ch] = carryBuf{iq: rec.IQ, consumed: take}
				}
				filled[ch] += take
			}
			if filled[ch] >= nsamps {
				done++
			}
		}
		if done == s.nch {
			break
		}
		if s.stopped() {
			break
		}
		if !progress {
			if time.Now().After(deadline) {
				break
			}
			s.pause()
		}
	}

	n := nsamps
	for ch := 0; ch < s.nch; ch++ {
		if filled[ch] < n {
			n = filled[ch]
		}
	}

	// Channels that ran ahead of the minimum hand their surplus back to
	// the carry buffer, preserving arrival order ahead of any existing
	// carried tail.
	for ch := 0; ch < s.nch; ch++ {
		if surplus := filled[ch] - n; surplus > 0 {
			old := s.carry[ch]
			iq := make([]int16, 0, surplus*2+old.samples()*2)
			iq = append(iq, buffs[ch][n*2:filled[ch]*2]...)
			if old.samples() > 0 {
				iq = append(iq, old.iq[old.consumed*2:]...)
			}
			s.carry[ch] = carryBuf{iq: iq}
		}
	}

	if n == 0 {
		if s.stopped() {
			return 0, md, nil
		}
		return 0, md, ErrTimeout
	}
	if haveTicks {
		md.HasTimeSpec = true
		md.TimeSpec = float64(bestTicks) / s.tickRate
	}
	if n < nsamps {
		// Partial burst: the burst did not end, the data ran out.
		md.EOB = false
	}
	s.samplesOut.Add(uint64(n))
	return n, md, nil
}
