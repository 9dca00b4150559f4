package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveRefresh(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := New(reg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	c.ObserveRefresh(2*time.Millisecond, 40, 10, 3)
	c.ObserveRefresh(time.Millisecond, 38, 0, 2)

	if got := testutil.ToFloat64(c.Refreshes); got != 2 {
		t.Fatalf("treemap_refresh_total = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.VisiblePoints); got != 38 {
		t.Fatalf("treemap_visible_points = %v, want 38", got)
	}
	if got := testutil.ToFloat64(c.MarkersEntered); got != 10 {
		t.Fatalf("treemap_markers_entered_total = %v, want 10", got)
	}
	if got := testutil.ToFloat64(c.MarkersExited); got != 5 {
		t.Fatalf("treemap_markers_exited_total = %v, want 5", got)
	}
	if n := testutil.CollectAndCount(c.RefreshDuration); n != 1 {
		t.Fatalf("histogram series = %d, want 1", n)
	}
}

func TestIgnoredOps(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := New(reg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	c.IgnoredOp("drag")
	c.IgnoredOp("drag")
	c.IgnoredOp("place")
	if got := testutil.ToFloat64(c.IgnoredOps.WithLabelValues("drag")); got != 2 {
		t.Fatalf("drag = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.IgnoredOps.WithLabelValues("place")); got != 1 {
		t.Fatalf("place = %v, want 1", got)
	}
}

func TestNewTwiceReusesCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := New(reg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	second, err := New(reg)
	if err != nil {
		t.Fatalf("second New: %v", err)
	}
	second.ObserveRefresh(0, 1, 0, 0)
	if got := testutil.ToFloat64(first.Refreshes); got != 1 {
		t.Fatalf("collectors not shared: %v", got)
	}
}

func TestNilCollectorIsSafe(t *testing.T) {
	var c *Collector
	c.ObserveRefresh(time.Second, 1, 1, 1)
	c.IgnoredOp("resize")
	if c.Handler() == nil {
		t.Fatal("nil collector should still serve the default gatherer")
	}
}

func TestHandlerServesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := New(reg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	c.ObserveRefresh(time.Millisecond, 7, 7, 0)

	srv := httptest.NewServer(c.Handler())
	defer srv.Close()
	resp, err := srv.Client().Get(srv.URL)
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "treemap_visible_points 7") {
		t.Fatalf("metrics body missing gauge:\n%s", body)
	}
}
