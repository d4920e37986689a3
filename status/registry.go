// Package status collects runtime counters from the sampler and compositor.
package status

import (
	"log/slog"
	"sync/atomic"
)

// Well-known metric keys
const (
	Acquisitions   = "sampler.acquisitions"
	DroppedLate    = "sampler.dropped_late"
	Restarts       = "sampler.restarts"
	Frames         = "compositor.frames"
	CellsWritten   = "compositor.cells_written"
	ForcedRepaints = "compositor.forced_repaints"
	Resizes        = "compositor.resizes"
	FrameMillisMax = "compositor.frame_ms_max"
)

// Registry is the metrics facade
// Components cache pointers at construction; hot paths write the atomics directly
type Registry struct {
	Counters *MetricMap[atomic.Int64]
	Gauges   *MetricMap[Gauge]
}

// NewRegistry creates an initialized Registry
func NewRegistry() *Registry {
	return &Registry{
		Counters: NewMetricMap[atomic.Int64](),
		Gauges:   NewMetricMap[Gauge](),
	}
}

// LogValue renders every metric as one slog group, in key order
func (r *Registry) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, r.Counters.Count()+r.Gauges.Count())
	r.Counters.Range(func(key string, c *atomic.Int64) {
		attrs = append(attrs, slog.Int64(key, c.Load()))
	})
	r.Gauges.Range(func(key string, g *Gauge) {
		attrs = append(attrs, slog.Float64(key, g.Get()))
	})
	return slog.GroupValue(attrs...)
}
