package tui

import (
	"os"

	list "github.com/charmbracelet/bubbles/list"
	table "github.com/charmbracelet/bubbles/table"
	textinput "github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"treemap/internal/app"
	"treemap/internal/geom"
	"treemap/internal/logging"
	"treemap/internal/region"
)

const sidebarWidth = 28

// Options configures the terminal front end.
type Options struct {
	// Canvas is the side of the projected square the projection centres on.
	Canvas       float64
	RadiusStep   float64
	DiameterStep float64
	BaseMap      geom.Data
	DataPath     string
	Logger       logging.Logger
}

type dragMode int

const (
	dragNone dragMode = iota
	dragCenter
	dragHandle
)

type Model struct {
	ctrl *app.Controller
	log  logging.Logger
	opts Options

	width  int
	height int

	showSidebar bool
	helpVisible bool

	zoom    float64
	offsetX int
	offsetY int

	status string

	// File explorer
	cwd     string
	l       list.Model
	dataSel string

	basemap geom.Data

	// species query input
	species textinput.Model

	// inspect popup
	inspectPopup string

	// hover state
	hovering bool
	hoverPos geom.Coord
	hoverLon float64
	hoverLat float64

	// active pointer gesture
	drag   dragMode
	dragID region.ID

	// visible records table
	showAttrs bool
	tbl       table.Model
}

// New builds the front end around a controller.
func New(ctrl *app.Controller, opts Options) Model {
	log := opts.Logger
	if log == nil {
		log = logging.Noop()
	}
	m := Model{
		ctrl:        ctrl,
		log:         log.With(logging.String("component", "tui")),
		opts:        opts,
		helpVisible: true,
		zoom:        1.0,
		status:      "treemap ready",
		dataSel:     opts.DataPath,
		basemap:     opts.BaseMap,
	}
	m.cwd, _ = os.Getwd()
	// list setup
	d := list.NewDefaultDelegate()
	d.ShowDescription = false
	m.l = list.New(nil, d, 0, 0)
	m.l.Title = "Files"
	m.l.SetShowHelp(false)
	m.l.SetShowStatusBar(false)
	m.l.SetFilteringEnabled(true)
	// species input setup
	m.species = textinput.New()
	m.species.Prompt = "species: "
	m.species.Placeholder = "substring"
	m.species.CharLimit = 64
	m.species.Width = 20
	m.tbl = table.New(table.WithColumns(attrColumns()), table.WithFocused(true))
	m.tbl.SetHeight(12)
	m.refreshDir()
	return m
}

func (m Model) Init() tea.Cmd { return nil }

// layout returns the map area origin and size in terminal cells. View and
// mouse hit testing share it.
func (m Model) layout() (x, y, w, h int) {
	headerHeight := 1
	footerHeight := 2
	h = max(4, m.height-headerHeight-footerHeight)
	sw := 0
	if m.showSidebar {
		sw = sidebarWidth + 1
	}
	w = max(10, max(10, m.width)-sw-1)
	return sw, headerHeight, w, h
}

func (m Model) viewport() viewport {
	_, _, w, h := m.layout()
	return viewport{canvas: m.opts.Canvas, zoom: m.zoom, offsetX: m.offsetX, offsetY: m.offsetY, w: w, h: h}
}

// mapPos converts a terminal cell to a canvas coordinate. ok is false
// outside the map area.
func (m Model) mapPos(sx, sy int) (geom.Coord, bool) {
	x, y, w, h := m.layout()
	if sx < x || sx >= x+w || sy < y || sy >= y+h {
		return geom.Coord{}, false
	}
	return m.viewport().fromCell(sx-x, sy-y), true
}

// screenCell converts a canvas coordinate to the terminal cell showing it.
func (m Model) screenCell(c geom.Coord) (int, int) {
	x, y, _, _ := m.layout()
	cx, cy := m.viewport().toCell(c)
	return cx + x, cy + y
}
