package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	list "github.com/charmbracelet/bubbles/list"

	"treemap/internal/geom"
	"treemap/internal/logging"
	"treemap/internal/trees"
)

type fileItem struct {
	title, desc string
	path        string
}

func (f fileItem) Title() string       { return f.title }
func (f fileItem) Description() string { return f.desc }
func (f fileItem) FilterValue() string { return f.title }

// refreshDir lists tree datasets (.csv) and base maps (.geojson, .json, .wkt).
func (m *Model) refreshDir() {
	entries, err := os.ReadDir(m.cwd)
	if err != nil {
		m.status = "read dir error: " + err.Error()
		return
	}
	var items []list.Item
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		switch ext := strings.ToLower(filepath.Ext(name)); ext {
		case ".csv":
			items = append(items, fileItem{title: name, desc: "trees", path: filepath.Join(m.cwd, name)})
		case ".geojson", ".json", ".wkt":
			items = append(items, fileItem{title: name, desc: "base map", path: filepath.Join(m.cwd, name)})
		}
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].(fileItem).Title() < items[j].(fileItem).Title() })
	m.l.SetItems(items)
	if len(items) == 0 {
		m.status = "no supported files in current directory"
	}
}

// loadPath swaps in a tree dataset or a base map depending on the extension.
// Failures leave the current data in place.
func (m *Model) loadPath(p string) {
	switch ext := strings.ToLower(filepath.Ext(p)); ext {
	case ".csv":
		s, rep, err := trees.LoadFile(p, m.ctrl.Store().Projector())
		if err != nil {
			m.log.Warn("dataset load failed", logging.String("path", p), logging.Err(err))
			m.status = "load error: " + err.Error()
			return
		}
		m.ctrl.LoadStore(s)
		m.dataSel = p
		m.drag = dragNone
		m.inspectPopup = ""
		m.status = "loaded: " + filepath.Base(p) +
			fmt.Sprintf("  rows=%d defaulted=%d duplicates=%d", rep.Rows, rep.Defaulted, rep.Duplicates)
	case ".geojson", ".json", ".wkt":
		d, err := geom.LoadBaseMap(p)
		if err != nil {
			m.log.Warn("base map load failed", logging.String("path", p), logging.Err(err))
			m.status = "base map error: " + err.Error()
			return
		}
		m.basemap = d
		m.status = "base map: " + filepath.Base(p) +
			fmt.Sprintf("  counts: pts=%d ls=%d poly=%d", len(d.Points), len(d.Lines), len(d.Polygons))
	default:
		m.status = "unsupported file: " + ext
	}
	if m.showAttrs {
		m.refreshAttrs()
	}
}
