package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector bundles the refresh-pipeline metrics. A nil *Collector records nothing.
type Collector struct {
	gatherer prometheus.Gatherer

	Refreshes       prometheus.Counter
	RefreshDuration prometheus.Histogram
	VisiblePoints   prometheus.Gauge
	MarkersEntered  prometheus.Counter
	MarkersExited   prometheus.Counter
	IgnoredOps      *prometheus.CounterVec
}

// New registers the collectors against reg, defaulting to the global
// registry when nil.
func New(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	refreshes, err := register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "treemap_refresh_total",
		Help: "Recompute-and-render passes.",
	}), "treemap_refresh_total")
	if err != nil {
		return nil, err
	}
	duration, err := register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "treemap_refresh_duration_seconds",
		Help:    "Duration of one recompute-and-render pass.",
		Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
	}), "treemap_refresh_duration_seconds")
	if err != nil {
		return nil, err
	}
	visible, err := register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "treemap_visible_points",
		Help: "Size of the visible set after the last pass.",
	}), "treemap_visible_points")
	if err != nil {
		return nil, err
	}
	entered, err := register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "treemap_markers_entered_total",
		Help: "Markers created by reconciliation.",
	}), "treemap_markers_entered_total")
	if err != nil {
		return nil, err
	}
	exited, err := register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "treemap_markers_exited_total",
		Help: "Markers removed by reconciliation.",
	}), "treemap_markers_exited_total")
	if err != nil {
		return nil, err
	}
	ignored, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "treemap_region_ops_ignored_total",
		Help: "Region operations ignored because the region was in the wrong state.",
	}, []string{"op"}), "treemap_region_ops_ignored_total")
	if err != nil {
		return nil, err
	}

	return &Collector{
		gatherer:        gatherer,
		Refreshes:       refreshes,
		RefreshDuration: duration,
		VisiblePoints:   visible,
		MarkersEntered:  entered,
		MarkersExited:   exited,
		IgnoredOps:      ignored,
	}, nil
}

// ObserveRefresh records one pipeline pass.
func (c *Collector) ObserveRefresh(d time.Duration, visible, entered, exited int) {
	if c == nil {
		return
	}
	c.Refreshes.Inc()
	c.RefreshDuration.Observe(d.Seconds())
	c.VisiblePoints.Set(float64(visible))
	c.MarkersEntered.Add(float64(entered))
	c.MarkersExited.Add(float64(exited))
}

// IgnoredOp counts a rejected region operation.
func (c *Collector) IgnoredOp(op string) {
	if c == nil {
		return
	}
	c.IgnoredOps.WithLabelValues(op).Inc()
}

// Handler exposes a ready-to-use /metrics handler.
func (c *Collector) Handler() http.Handler {
	gatherer := prometheus.DefaultGatherer
	if c != nil && c.gatherer != nil {
		gatherer = c.gatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// register tolerates a collector of the same type already being registered.
func register[T prometheus.Collector](reg prometheus.Registerer, c T, name string) (T, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
			var zero T
			return zero, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		var zero T
		return zero, err
	}
	return c, nil
}
