// Package app wires the tree store, the two regions, the attribute filter
// and the marker layer behind one event-driven controller.
//
// Every state-changing event runs the same synchronous pipeline: recompute
// the visible set, reconcile markers, record metrics. Events that change
// nothing skip the pipeline.
package app

import (
	"time"

	"treemap/internal/filter"
	"treemap/internal/geom"
	"treemap/internal/logging"
	"treemap/internal/metrics"
	"treemap/internal/region"
	"treemap/internal/render"
	"treemap/internal/trees"
)

// State is the complete application state. It holds no rendering handles.
type State struct {
	Store   *trees.Store
	Proj    geom.Projector
	Regions region.Pair
	Attrs   filter.Attributes
	// per-region radius slider values, used for placement and slider resizes
	Radius [2]float64
	Layer  *render.Layer
}

// Options configures a Controller.
type Options struct {
	DefaultRadius float64
	Logger        logging.Logger
	Metrics       *metrics.Collector
}

// Controller maps semantic UI events onto the state and re-renders.
type Controller struct {
	st      State
	log     logging.Logger
	metrics *metrics.Collector
	renders int
	last    render.Diff
}

// New builds a controller around store and performs the initial render.
func New(store *trees.Store, opts Options) *Controller {
	log := opts.Logger
	if log == nil {
		log = logging.Noop()
	}
	c := &Controller{log: log.With(logging.String("component", "app")), metrics: opts.Metrics}
	c.st.Radius = [2]float64{opts.DefaultRadius, opts.DefaultRadius}
	c.LoadStore(store)
	return c
}

// LoadStore swaps in a dataset, clears both regions, resets the diameter
// threshold to the new minimum, and renders.
func (c *Controller) LoadStore(store *trees.Store) {
	c.st.Store = store
	c.st.Proj = store.Projector()
	c.st.Regions = region.NewPair()
	lo, _ := store.DiameterRange()
	c.st.Attrs.DiameterThreshold = lo
	c.st.Layer = render.NewLayer(c.st.Proj, store.Len())
	c.log.Info("dataset loaded", logging.Int("points", store.Len()))
	c.Refresh()
}

// Refresh is the recompute-and-render pipeline.
func (c *Controller) Refresh() {
	start := time.Now()
	visible := filter.Visible(c.st.Store, c.st.Regions.A, c.st.Regions.B, c.st.Attrs)
	c.last = c.st.Layer.Render(visible)
	c.renders++
	c.metrics.ObserveRefresh(time.Since(start), len(visible), c.last.Entered, c.last.Exited)
}

// Click places the first unset region (A, then B) at pos.
func (c *Controller) Click(pos geom.Coord) bool {
	id, err := c.st.Regions.PlaceNext(pos, c.st.Radius[region.A], c.st.Radius[region.B])
	if err != nil {
		return c.ignore("place", err)
	}
	c.log.Info("region placed", logging.String("region", id.String()),
		logging.Float("x", pos.X), logging.Float("y", pos.Y), logging.Float("radius", c.st.Regions.Get(id).Radius()))
	c.Refresh()
	return true
}

// DragCenter moves a placed region's centre.
func (c *Controller) DragCenter(id region.ID, pos geom.Coord) bool {
	r := c.st.Regions.Get(id)
	if r == nil {
		return false
	}
	if err := r.Drag(pos); err != nil {
		return c.ignore("drag", err)
	}
	c.Refresh()
	return true
}

// DragHandle resizes a placed region to the pointer's distance from its centre.
func (c *Controller) DragHandle(id region.ID, pos geom.Coord) bool {
	r := c.st.Regions.Get(id)
	if r == nil {
		return false
	}
	center, ok := r.Center()
	if !ok {
		return c.ignore("resize", region.ErrNotPlaced)
	}
	if err := r.Resize(geom.Distance(pos, center)); err != nil {
		return c.ignore("resize", err)
	}
	c.st.Radius[id] = r.Radius()
	c.Refresh()
	return true
}

// SetRadius moves a region's radius slider. A placed region follows it.
func (c *Controller) SetRadius(id region.ID, radius float64) bool {
	r := c.st.Regions.Get(id)
	if r == nil {
		return false
	}
	c.st.Radius[id] = max(radius, 0)
	if err := r.Resize(radius); err != nil {
		return c.ignore("resize", err)
	}
	c.Refresh()
	return true
}

// Remove resets a placed region.
func (c *Controller) Remove(id region.ID) bool {
	r := c.st.Regions.Get(id)
	if r == nil || !r.Reset() {
		return c.ignore("reset", region.ErrNotPlaced)
	}
	c.log.Info("region removed", logging.String("region", id.String()))
	c.Refresh()
	return true
}

// CanRemove reports whether the remove control for id should be offered.
func (c *Controller) CanRemove(id region.ID) bool {
	r := c.st.Regions.Get(id)
	return r != nil && r.Active()
}

// SetSpecies updates the species substring query.
func (c *Controller) SetSpecies(q string) bool {
	c.st.Attrs = c.st.Attrs.WithSpecies(q)
	c.Refresh()
	return true
}

// SetDiameterThreshold moves the diameter slider, clamped to the observed
// range. The view only changes while diameter filtering is enabled.
func (c *Controller) SetDiameterThreshold(v float64) bool {
	lo, hi := c.st.Store.DiameterRange()
	c.st.Attrs.DiameterThreshold = min(max(v, lo), hi)
	if !c.st.Attrs.DiameterEnabled {
		return false
	}
	c.Refresh()
	return true
}

// ToggleDiameterFilter flips diameter filtering.
func (c *Controller) ToggleDiameterFilter() bool {
	c.st.Attrs.DiameterEnabled = !c.st.Attrs.DiameterEnabled
	c.Refresh()
	return true
}

// RegionAt returns the placed region whose centre is within tol of pos,
// checking A before B.
func (c *Controller) RegionAt(pos geom.Coord, tol float64) (region.ID, bool) {
	for _, id := range []region.ID{region.A, region.B} {
		if ctr, ok := c.st.Regions.Get(id).Center(); ok && geom.Distance(pos, ctr) <= tol {
			return id, true
		}
	}
	return 0, false
}

// HandleAt returns the placed region whose radius handle (the east point of
// its circle) is within tol of pos.
func (c *Controller) HandleAt(pos geom.Coord, tol float64) (region.ID, bool) {
	for _, id := range []region.ID{region.A, region.B} {
		if h, ok := c.Handle(id); ok && geom.Distance(pos, h) <= tol {
			return id, true
		}
	}
	return 0, false
}

// Handle returns the radius handle position of a placed region.
func (c *Controller) Handle(id region.ID) (geom.Coord, bool) {
	r := c.st.Regions.Get(id)
	if r == nil {
		return geom.Coord{}, false
	}
	ctr, ok := r.Center()
	if !ok {
		return geom.Coord{}, false
	}
	return geom.Coord{X: ctr.X + r.Radius(), Y: ctr.Y}, true
}

// State returns a snapshot of the application state.
func (c *Controller) State() State { return c.st }

// Region returns a copy of region id.
func (c *Controller) Region(id region.ID) region.Region {
	if r := c.st.Regions.Get(id); r != nil {
		return *r
	}
	return region.New(id)
}

// Radius returns the slider value for region id.
func (c *Controller) Radius(id region.ID) float64 {
	if c.st.Regions.Get(id) == nil {
		return 0
	}
	return c.st.Radius[id]
}

func (c *Controller) Attrs() filter.Attributes { return c.st.Attrs }
func (c *Controller) Layer() *render.Layer     { return c.st.Layer }
func (c *Controller) Store() *trees.Store      { return c.st.Store }

// Renders is the number of pipeline passes so far.
func (c *Controller) Renders() int { return c.renders }

// LastDiff is the reconciliation result of the latest pass.
func (c *Controller) LastDiff() render.Diff { return c.last }

// Readout is the count line for the current visible set.
func (c *Controller) Readout() string { return c.st.Layer.Readout() }

func (c *Controller) ignore(op string, err error) bool {
	c.log.Debug("region operation ignored", logging.String("op", op), logging.Err(err))
	c.metrics.IgnoredOp(op)
	return false
}
