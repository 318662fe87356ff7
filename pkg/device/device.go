package device

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/flexsdr/flexsdr/pkg/config"
	"github.com/flexsdr/flexsdr/pkg/logging"
	"github.com/flexsdr/flexsdr/pkg/streamer"
	"github.com/flexsdr/flexsdr/pkg/transport"
	"github.com/flexsdr/flexsdr/pkg/vrt"
	"github.com/flexsdr/flexsdr/pkg/workers"
)

// StreamArgs parameterizes a streamer factory call. Zero values fall back
// to the stream block of the configuration.
type StreamArgs struct {
	NumChannels int
	SPP         int
	FIFODepth   int // per-channel queue depth; 0 = 1024 packets
	Core        int // demux core pin; 0 or negative disables
	StreamID    uint32
}

// Device fronts one flexsdr transport attachment. It borrows the
// secondary's handle tables from the caller, who keeps them attached;
// streamers borrow from them and never outlive the device.
type Device struct {
	cfg    *config.Config
	sec    *transport.Secondary
	events *logging.EventBuffer

	client *Client // nil when no control plane is reachable

	mu     sync.Mutex
	cached struct {
		freq map[string]float64
		gain map[string]float64
		rate map[string]float64
	}

	rxRun    atomic.Bool
	rxStop   atomic.Bool // stop flag of the RX streamer
	rxWorker *workers.RxWorkerHandle
}

// Options configures a Device.
type Options struct {
	Endpoint string // control plane; "" resolves via DEVICE_ADDR
	NoClient bool   // skip the control-plane connection entirely
	Events   *logging.EventBuffer
}

// New builds a device over an initialized secondary. The secondary must
// have resolved its resources already.
func New(cfg *config.Config, sec *transport.Secondary, opts Options) (*Device, error) {
	d := &Device{cfg: cfg, sec: sec, events: opts.Events}
	d.cached.freq = make(map[string]float64)
	d.cached.gain = make(map[string]float64)
	d.cached.rate = make(map[string]float64)

	if !opts.NoClient {
		c, err := Dial(Endpoint(opts.Endpoint))
		if err == nil {
			d.client = c
		}
		// A device without a control plane still streams; RF setters fall
		// back to the local cache.
	}
	return d, nil
}

// Close stops the demux worker and disconnects the control plane. The
// secondary's handles belong to the caller and stay attached.
func (d *Device) Close() error {
	if d.rxWorker != nil {
		d.rxRun.Store(false)
		d.rxWorker.StopJoin()
		d.rxWorker = nil
	}
	if d.client != nil {
		return d.client.Close()
	}
	return nil
}

func (d *Device) rxStreamCfg() *config.Stream {
	if rb := d.cfg.EffectiveRole(); rb != nil {
		return rb.RxStream
	}
	return nil
}

func (d *Device) txStreamCfg() *config.Stream {
	if rb := d.cfg.EffectiveRole(); rb != nil {
		return rb.TxStream
	}
	return nil
}

// RxStream couples an RX streamer with the demux worker feeding it.
type RxStream struct {
	*streamer.RxStreamer
	dev *Device
}

// Stop signals the demux worker and the streamer to wind down.
func (r *RxStream) Stop() {
	r.dev.rxRun.Store(false)
	r.dev.rxStop.Store(true)
}

// GetRxStream starts the demux worker over the ingress ring and returns a
// streamer bound to its per-channel queues. One RX stream per device.
func (d *Device) GetRxStream(args StreamArgs) (*RxStream, error) {
	sc := d.rxStreamCfg()
	if sc == nil {
		return nil, fmt.Errorf("device: role %s has no rx stream", d.cfg.Role())
	}
	if d.rxWorker != nil {
		return nil, fmt.Errorf("device: rx stream already started")
	}

	nch := args.NumChannels
	if nch == 0 {
		nch = int(sc.NumChannels)
	}
	depth := args.FIFODepth
	if depth == 0 {
		depth = 1024
	}

	ring := d.sec.RingForRxQueue(0)
	if ring == nil {
		return nil, fmt.Errorf("device: no rx ring resolved")
	}
	pool := d.sec.PoolForQueue(0)
	if pool == nil {
		return nil, fmt.Errorf("device: no pool resolved for rx")
	}

	fifos := make([]*workers.ChannelFIFO[workers.RxPacket], nch)
	for i := range fifos {
		fifos[i] = workers.NewChannelFIFO[workers.RxPacket](depth)
	}

	mode := workers.FramingPlanar
	if sc.Mode == config.ModeInterleaved {
		mode = workers.FramingInterleaved
	}

	core := args.Core
	if core <= 0 {
		core = -1
	}
	d.rxRun.Store(true)
	d.rxStop.Store(false)
	h, err := workers.StartRxWorker(workers.RxWorkerConfig{
		Ring:        ring,
		Pool:        pool,
		RunFlag:     &d.rxRun,
		Geometry:    vrt.DefaultGeometry(),
		TSFPresent:  true,
		NumChannels: uint32(nch),
		PktsPerChan: sc.PktsPerChan,
		Mode:        mode,
		TickRate:    d.cfg.TickRate(),
		FIFOs:       fifos,
		Core:        core,
		Events:      d.events,
	})
	if err != nil {
		return nil, err
	}
	d.rxWorker = h

	rs, err := streamer.NewRxStreamer(streamer.RxStreamerConfig{
		FIFOs:    fifos,
		TickRate: d.cfg.TickRate(),
		BusyPoll: sc.BusyPoll,
		Stop:     &d.rxStop,
	})
	if err != nil {
		d.rxRun.Store(false)
		h.StopJoin()
		d.rxWorker = nil
		return nil, err
	}
	return &RxStream{RxStreamer: rs, dev: d}, nil
}

// RxWorkerStats exposes the demux counters of the running RX stream.
func (d *Device) RxWorkerStats() *workers.RxWorkerStats {
	if d.rxWorker == nil {
		return nil
	}
	return d.rxWorker.Stats()
}

// GetTxStream builds a TX streamer over the secondary's per-channel pool
// and ring pairs.
func (d *Device) GetTxStream(args StreamArgs) (*streamer.TxStreamer, error) {
	sc := d.txStreamCfg()
	if sc == nil {
		return nil, fmt.Errorf("device: role %s has no tx stream", d.cfg.Role())
	}
	nch := args.NumChannels
	if nch == 0 {
		nch = int(sc.NumChannels)
	}
	spp := args.SPP
	if spp == 0 {
		spp = int(sc.SPP)
	}

	backend, err := streamer.NewShmBackend(d.sec, nch, vrt.DefaultGeometry())
	if err != nil {
		return nil, err
	}
	return streamer.NewTxStreamer(streamer.TxStreamerConfig{
		Backend:      backend,
		NumChannels:  nch,
		SPP:          spp,
		AllowPartial: sc.AllowPartial,
		TickRate:     d.cfg.TickRate(),
		StreamID:     args.StreamID,
		Events:       d.events,
	})
}

func key(unit string, ch uint32) string { return fmt.Sprintf("%s/%d", unit, ch) }

// SetFreq passes the tune request through to the control plane, or caches
// it locally when no control plane is connected.
func (d *Device) SetFreq(unit string, ch uint32, target float64) (float64, error) {
	if d.client != nil {
		return d.client.SetFreq(unit, ch, target)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cached.freq[key(unit, ch)] = target
	return target, nil
}

// GetFreq mirrors SetFreq.
func (d *Device) GetFreq(unit string, ch uint32) (float64, error) {
	if d.client != nil {
		return d.client.GetFreq(unit, ch)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cached.freq[key(unit, ch)], nil
}

// SetGain passes a gain through to the control plane.
func (d *Device) SetGain(unit string, ch uint32, gain float64) (float64, error) {
	if d.client != nil {
		return d.client.SetGain(unit, ch, gain)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cached.gain[key(unit, ch)] = gain
	return gain, nil
}

// GetGain mirrors SetGain.
func (d *Device) GetGain(unit string, ch uint32) (float64, error) {
	if d.client != nil {
		return d.client.GetGain(unit, ch)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cached.gain[key(unit, ch)], nil
}

// SetRate passes a sample rate through to the control plane.
func (d *Device) SetRate(unit string, ch uint32, rate float64) (float64, error) {
	if d.client != nil {
		return d.client.SetRate(unit, ch, rate)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cached.rate[key(unit, ch)] = rate
	return rate, nil
}

// GetRate mirrors SetRate.
func (d *Device) GetRate(unit string, ch uint32) (float64, error) {
	if d.client != nil {
		return d.client.GetRate(unit, ch)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cached.rate[key(unit, ch)], nil
}
