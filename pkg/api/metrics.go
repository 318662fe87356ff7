package api

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/flexsdr/flexsdr/pkg/workers"
)

// flexsdrCollector implements prometheus.Collector, reading dataplane
// state on each scrape instead of keeping parallel counters.
type flexsdrCollector struct {
	srv *Server

	ringsTotal *prometheus.Desc
	poolsTotal *prometheus.Desc
	ringDepth  *prometheus.Desc
	ringCap    *prometheus.Desc
	poolAvail  *prometheus.Desc
	poolCap    *prometheus.Desc

	demuxHandled *prometheus.Desc
	demuxDrops   *prometheus.Desc
	demuxParse   *prometheus.Desc
}

func newCollector(srv *Server) *flexsdrCollector {
	return &flexsdrCollector{
		srv: srv,

		ringsTotal: prometheus.NewDesc(
			"flexsdr_rings_total",
			"Rings created by the primary.",
			nil, nil,
		),
		poolsTotal: prometheus.NewDesc(
			"flexsdr_pools_total",
			"Pools created by the primary.",
			nil, nil,
		),
		ringDepth: prometheus.NewDesc(
			"flexsdr_ring_depth",
			"Packets currently queued per ring.",
			[]string{"ring"}, nil,
		),
		ringCap: prometheus.NewDesc(
			"flexsdr_ring_capacity",
			"Usable capacity per ring.",
			[]string{"ring"}, nil,
		),
		poolAvail: prometheus.NewDesc(
			"flexsdr_pool_buffers_free",
			"Free buffers per pool.",
			[]string{"pool"}, nil,
		),
		poolCap: prometheus.NewDesc(
			"flexsdr_pool_buffers_total",
			"Total buffers per pool.",
			[]string{"pool"}, nil,
		),
		demuxHandled: prometheus.NewDesc(
			"flexsdr_demux_packets_total",
			"Packets delivered to channel queues by the RX demux.",
			[]string{"worker"}, nil,
		),
		demuxDrops: prometheus.NewDesc(
			"flexsdr_demux_drops_total",
			"Packets dropped because a channel queue was full.",
			[]string{"worker"}, nil,
		),
		demuxParse: prometheus.NewDesc(
			"flexsdr_demux_parse_errors_total",
			"Malformed packets dropped by the RX demux.",
			[]string{"worker"}, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *flexsdrCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.ringsTotal
	ch <- c.poolsTotal
	ch <- c.ringDepth
	ch <- c.ringCap
	ch <- c.poolAvail
	ch <- c.poolCap
	ch <- c.demuxHandled
	ch <- c.demuxDrops
	ch <- c.demuxParse
}

// Collect implements prometheus.Collector.
func (c *flexsdrCollector) Collect(ch chan<- prometheus.Metric) {
	if p := c.srv.primary; p != nil {
		ch <- prometheus.MustNewConstMetric(c.ringsTotal, prometheus.GaugeValue, float64(len(p.CreatedRings())))
		ch <- prometheus.MustNewConstMetric(c.poolsTotal, prometheus.GaugeValue, float64(len(p.CreatedPools())))
		for _, name := range p.CreatedRings() {
			r := p.Handles().Ring(name)
			if r == nil {
				continue
			}
			ch <- prometheus.MustNewConstMetric(c.ringDepth, prometheus.GaugeValue, float64(r.Len()), name)
			ch <- prometheus.MustNewConstMetric(c.ringCap, prometheus.GaugeValue, float64(r.Cap()), name)
		}
		for _, name := range p.CreatedPools() {
			mp := p.Handles().Pool(name)
			if mp == nil {
				continue
			}
			ch <- prometheus.MustNewConstMetric(c.poolAvail, prometheus.GaugeValue, float64(mp.Avail()), name)
			ch <- prometheus.MustNewConstMetric(c.poolCap, prometheus.GaugeValue, float64(mp.Cap()), name)
		}
	}

	demuxMu.RLock()
	for name, st := range demuxSources {
		ch <- prometheus.MustNewConstMetric(c.demuxHandled, prometheus.CounterValue, float64(st.Handled.Load()), name)
		ch <- prometheus.MustNewConstMetric(c.demuxDrops, prometheus.CounterValue, float64(st.Drops.Load()), name)
		ch <- prometheus.MustNewConstMetric(c.demuxParse, prometheus.CounterValue, float64(st.ParseErrors.Load()), name)
	}
	demuxMu.RUnlock()
}

var (
	demuxMu      sync.RWMutex
	demuxSources = make(map[string]*workers.RxWorkerStats)
)

// RegisterDemux exposes an RX worker's counters under the given name on
// the next scrape.
func RegisterDemux(name string, stats *workers.RxWorkerStats) {
	demuxMu.Lock()
	demuxSources[name] = stats
	demuxMu.Unlock()
}

// UnregisterDemux removes a worker from the scrape set.
func UnregisterDemux(name string) {
	demuxMu.Lock()
	delete(demuxSources, name)
	demuxMu.Unlock()
}
