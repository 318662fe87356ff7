package streamer

import (
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/eapache/queue"

	"github.com/flexsdr/flexsdr/pkg/logging"
	"github.com/flexsdr/flexsdr/pkg/vrt"
)

// ErrClosed is returned by Send after Close.
var ErrClosed = errors.New("streamer: closed")

// DefaultBurst is how many packets are staged per channel before a flush.
const DefaultBurst = 32

// TxStreamerConfig constructs a TX streamer.
type TxStreamerConfig struct {
	Backend      TxBackend
	NumChannels  int
	SPP          int // samples per packet
	Burst        int // staged packets per channel before flush; 0 = DefaultBurst
	AllowPartial bool
	TickRate     float64 // ticks per second
	SampleRate   float64 // samples per second; 0 = TickRate
	StreamID     uint32
	Events       *logging.EventBuffer
}

// stagedFrag is one not-yet-enqueued packet: a copied sample run plus its
// header fields. Copies are cheap relative to losing the caller's buffer,
// which may be reused the moment Send returns.
type stagedFrag struct {
	fields vrt.Fields
	iq     []int16
	nsamps int
	call   uint64 // Send call that staged it
}

// TxStreamer fragments caller sample bursts into timestamped packets and
// pushes them through a TxBackend with staging and backpressure. One
// goroutine calls Send at a time.
//
// A call moves through Open, Staging (packets accumulate per channel),
// Flushing (staged burst handed to the backend) and back, and the
// streamer as a whole reaches Closed when Close flushes the remainder.
type TxStreamer struct {
	backend      TxBackend
	nch          int
	spp          int
	burst        int
	allowPartial bool
	tickRate     float64
	tickPerSamp  float64
	streamID     uint32
	events       *logging.EventBuffer

	staged    []*queue.Queue // per channel, of *stagedFrag
	nextTicks uint64
	callSeq   uint64
	closed    bool

	samplesSent  atomic.Uint64
	backpressure atomic.Uint64
}

// NewTxStreamer builds a TX streamer over the backend.
func NewTxStreamer(cfg TxStreamerConfig) (*TxStreamer, error) {
	if cfg.Backend == nil {
		return nil, fmt.Errorf("streamer: tx streamer needs a backend")
	}
	nch := cfg.NumChannels
	if nch == 0 {
		nch = cfg.Backend.NumChannels()
	}
	if nch <= 0 || nch > cfg.Backend.NumChannels() {
		return nil, fmt.Errorf("streamer: %d channels over %d-channel backend",
			nch, cfg.Backend.NumChannels())
	}
	if cfg.SPP <= 0 {
		cfg.SPP = 1024
	}
	if cfg.Burst <= 0 {
		cfg.Burst = DefaultBurst
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = 30.72e6
	}
	sampleRate := cfg.SampleRate
	if sampleRate <= 0 {
		sampleRate = cfg.TickRate
	}
	s := &TxStreamer{
		backend:      cfg.Backend,
		nch:          nch,
		spp:          cfg.SPP,
		burst:        cfg.Burst,
		allowPartial: cfg.AllowPartial,
		tickRate:     cfg.TickRate,
		tickPerSamp:  cfg.TickRate / sampleRate,
		streamID:     cfg.StreamID,
		events:       cfg.Events,
		staged:       make([]*queue.Queue, nch),
	}
	for ch := range s.staged {
		s.staged[ch] = queue.New()
	}
	return s, nil
}

// NumChannels returns the channel count.
func (s *TxStreamer) NumChannels() int { return s.nch }

// SPP returns the samples-per-packet construction parameter.
func (s *TxStreamer) SPP() int { return s.spp }

// SamplesSent returns the running count of samples in enqueued packets.
func (s *TxStreamer) SamplesSent() uint64 { return s.samplesSent.Load() }

// BackpressureDrops returns how many staged packets were released because
// their ring stayed full through a flush deadline.
func (s *TxStreamer) BackpressureDrops() uint64 { return s.backpressure.Load() }

// Send fragments nsamps samples per channel into packets of up to SPP
// samples, stamps each header, and stages them for enqueue. Staged bursts
// flush when they reach the burst size or metadata marks end of burst;
// Close flushes the rest.
//
// With AllowPartial false, nsamps must be a multiple of SPP or the call
// accepts nothing. The returned count is the number of samples per channel
// that reached enqueued packets or remain staged; it never exceeds nsamps
// and the call never blocks past the timeout.
func (s *TxStreamer) Send(buffs [][]int16, nsamps int, md TxMetadata, timeout time.Duration) (int, error) {
	if s.closed {
		return 0, ErrClosed
	}
	if len(buffs) < s.nch {
		return 0, fmt.Errorf("streamer: %d buffers for %d channels", len(buffs), s.nch)
	}
	if nsamps <= 0 {
		return 0, nil
	}
	for ch := 0; ch < s.nch; ch++ {
		if len(buffs[ch]) < nsamps*2 {
			return 0, fmt.Errorf("streamer: channel %d buffer holds %d samples, need %d",
				ch, len(buffs[ch])/2, nsamps)
		}
	}
	if !s.allowPartial && nsamps%s.spp != 0 {
		return 0, nil
	}

	s.callSeq++
	call := s.callSeq
	deadline := time.Now().Add(timeout)

	startTicks := s.nextTicks
	if md.HasTimeSpec {
		startTicks = uint64(md.TimeSpec * s.tickRate)
	}

	accepted := make([]int, s.nch)
	aborted := make([]bool, s.nch)

	for off := 0; off < nsamps; off += s.spp {
		take := s.spp
		if rem := nsamps - off; rem < take {
			take = rem
		}
		f := vrt.Fields{
			StreamID:  s.streamID,
			Timestamp: startTicks + uint64(float64(off)*s.tickPerSamp),
			SOB:       md.SOB && off == 0,
			EOB:       md.EOB && off+take == nsamps,
		}
		for ch := 0; ch < s.nch; ch++ {
			if aborted[ch] {
				continue
			}
			iq := make([]int16, take*2)
			copy(iq, buffs[ch][off*2:(off+take)*2])
			s.staged[ch].Add(&stagedFrag{fields: f, iq: iq, nsamps: take, call: call})
			accepted[ch] += take
			if s.staged[ch].Length() >= s.burst {
				if _, dropped, ok := s.flush(ch, call, deadline); !ok {
					// Whatever did not reach the ring is gone; stop
					// building more packets for this channel.
					accepted[ch] -= dropped
					aborted[ch] = true
				}
			}
		}
	}

	if md.EOB {
		for ch := 0; ch < s.nch; ch++ {
			if aborted[ch] {
				continue
			}
			if _, dropped, ok := s.flush(ch, call, deadline); !ok {
				accepted[ch] -= dropped
			}
		}
	}

	s.nextTicks = startTicks + uint64(float64(nsamps)*s.tickPerSamp)

	n := accepted[0]
	for ch := 1; ch < s.nch; ch++ {
		if accepted[ch] < n {
			n = accepted[ch]
		}
	}
	return n, nil
}

// flush hands the channel's staged burst to the backend in order. A ring
// that stays full is retried with a cooperative pause until the deadline;
// after that the remaining staged packets are dropped and counted. It
// returns the samples of this call's fragments that were enqueued, the
// samples of this call's fragments that were dropped, and whether the
// whole stage drained.
func (s *TxStreamer) flush(ch int, call uint64, deadline time.Time) (sent, dropped int, ok bool) {
	q := s.staged[ch]
	for q.Length() > 0 {
		frag := q.Peek().(*stagedFrag)
		sendOK := s.backend.SendPacket(ch, frag.fields, frag.iq)
		for !sendOK {
			if time.Now().After(deadline) {
				break
			}
			runtime.Gosched()
			sendOK = s.backend.SendPacket(ch, frag.fields, frag.iq)
		}
		if !sendOK {
			// Deadline hit with the ring still full: release everything
			// left on the stage.
			released := 0
			for q.Length() > 0 {
				f := q.Remove().(*stagedFrag)
				released++
				if f.call == call {
					dropped += f.nsamps
				}
			}
			s.backpressure.Add(uint64(released))
			if s.events != nil {
				s.events.Add(logging.EventRecord{
					Type:    logging.EventBackpressure,
					Channel: ch,
					Detail:  "flush deadline with ring full",
					Count:   s.backpressure.Load(),
				})
			}
			return sent, dropped, false
		}
		q.Remove()
		s.samplesSent.Add(uint64(frag.nsamps))
		if frag.call == call {
			sent += frag.nsamps
		}
	}
	return sent, 0, true
}

// Close flushes any staged packets and shuts the streamer. Packets that
// cannot be enqueued within a short grace window are dropped and counted.
func (s *TxStreamer) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	deadline := time.Now().Add(100 * time.Millisecond)
	for ch := 0; ch < s.nch; ch++ {
		s.flush(ch, 0, deadline)
	}
	return nil
}
