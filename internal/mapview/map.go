// Package mapview draws a web-mercator map of GeoJSON overlays onto a braille
// raster sized to a terminal region.
package mapview

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"
)

// Visibility switches shape kinds on and off for every overlay.
type Visibility struct {
	Points   bool
	Lines    bool
	Polygons bool
}

// Map holds the viewport, the tile-grid base layer and the overlay layers.
type Map struct {
	view     *Viewport
	overlays []*Overlay
	grid     bool
	layers   Visibility
	reserved [2]int // top-left cells kept blank for controls

	gridStyle lipgloss.Style
}

// New returns a map with all shape kinds visible.
func New(view *Viewport, grid bool) *Map {
	return &Map{
		view:      view,
		grid:      grid,
		layers:    Visibility{Points: true, Lines: true, Polygons: true},
		gridStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("#243141")),
	}
}

func (m *Map) Viewport() *Viewport { return m.view }

func (m *Map) Grid() bool         { return m.grid }
func (m *Map) SetGrid(on bool)    { m.grid = on }
func (m *Map) Layers() Visibility { return m.layers }
func (m *Map) SetLayers(v Visibility) {
	m.layers = v
}

// Reserve keeps the top-left cols x rows cells blank so controls can be
// drawn over them.
func (m *Map) Reserve(cols, rows int) { m.reserved = [2]int{cols, rows} }

// AddOverlay puts an overlay on top of the others.
func (m *Map) AddOverlay(o *Overlay) {
	if o == nil {
		return
	}
	m.overlays = append(m.overlays, o)
}

// RemoveOverlay drops an overlay from the map; unknown overlays are ignored.
func (m *Map) RemoveOverlay(o *Overlay) {
	for i, cur := range m.overlays {
		if cur == o {
			m.overlays = append(m.overlays[:i], m.overlays[i+1:]...)
			return
		}
	}
}

// Overlays returns the overlays currently on the map, bottom first.
func (m *Map) Overlays() []*Overlay {
	out := make([]*Overlay, len(m.overlays))
	copy(out, m.overlays)
	return out
}

// FitBounds adjusts the viewport so b is fully visible.
func (m *Map) FitBounds(b orb.Bound, padding int) { m.view.FitBounds(b, padding) }

// Resize sets the map area in terminal cells.
func (m *Map) Resize(cols, rows int) { m.view.SetSize(cols*2, rows*4) }

// Render draws the map into cols x rows terminal cells.
func (m *Map) Render(cols, rows int) string {
	if cols <= 0 || rows <= 0 {
		return ""
	}
	c := newCanvas(cols, rows)
	if m.grid {
		m.drawGrid(c)
	}
	styles := map[Ink]lipgloss.Style{InkGrid: m.gridStyle}
	for _, o := range m.overlays {
		m.drawOverlay(c, o)
		styles[InkOverlay] = lipgloss.NewStyle().Foreground(lipgloss.Color(o.style.Color))
	}
	c.clearCells(m.reserved[0], m.reserved[1])
	return strings.Join(c.render(styles), "\n")
}

// drawGrid draws dotted tile boundaries at the current zoom.
func (m *Map) drawGrid(c *canvas) {
	W, H := c.dots()
	z := maptile.Zoom(m.view.Zoom())
	n := 1 << uint32(z)
	ox, oy := m.view.origin()
	tileRange := func(from, to float64) (int, int) {
		a := int(math.Floor(from / TileSize))
		b := int(math.Floor(to/TileSize)) + 1
		return max(a, 0), min(b, n)
	}
	x0, x1 := tileRange(ox, ox+float64(W))
	for x := x0; x <= x1; x++ {
		lon := 180.0
		if x < n {
			lon = maptile.New(uint32(x), 0, z).Bound().Left()
		}
		sx, _ := m.view.ToScreen(orb.Point{lon, 0})
		c.line(sx, 0, sx, float64(H-1), InkGrid, 3)
	}
	y0, y1 := tileRange(oy, oy+float64(H))
	for y := y0; y <= y1; y++ {
		lat := -maxLatitude
		if y < n {
			lat = maptile.New(0, uint32(y), z).Bound().Top()
		}
		_, sy := m.view.ToScreen(orb.Point{0, lat})
		c.line(0, sy, float64(W-1), sy, InkGrid, 3)
	}
}

func (m *Map) drawOverlay(c *canvas, o *Overlay) {
	if o.features == nil {
		return
	}
	st := o.style
	stroke := func(pts []orb.Point, closed bool) {
		if len(pts) == 0 {
			return
		}
		n := len(pts)
		if !closed {
			n--
		}
		for i := 0; i < n; i++ {
			a := pts[i]
			b := pts[(i+1)%len(pts)]
			ax, ay := m.view.ToScreen(a)
			bx, by := m.view.ToScreen(b)
			c.line(ax, ay, bx, by, InkOverlay, 1)
			// thicken across the dominant direction
			for k := 1; k < st.Weight; k++ {
				off := float64(k)
				if math.Abs(bx-ax) >= math.Abs(by-ay) {
					c.line(ax, ay+off, bx, by+off, InkOverlay, 1)
				} else {
					c.line(ax+off, ay, bx+off, by, InkOverlay, 1)
				}
			}
		}
	}
	marker := func(p orb.Point) {
		x, y := m.view.ToScreen(p)
		c.circle(x, y, st.PointRadius, InkOverlay)
	}
	var draw func(g orb.Geometry)
	draw = func(g orb.Geometry) {
		switch g := g.(type) {
		case orb.Point:
			if m.layers.Points {
				marker(g)
			}
		case orb.MultiPoint:
			if m.layers.Points {
				for _, p := range g {
					marker(p)
				}
			}
		case orb.LineString:
			if m.layers.Lines {
				stroke(g, false)
			}
		case orb.MultiLineString:
			for _, ls := range g {
				draw(ls)
			}
		case orb.Polygon:
			if !m.layers.Polygons {
				return
			}
			rings := make([][][2]float64, 0, len(g))
			for _, ring := range g {
				sr := make([][2]float64, 0, len(ring))
				for _, p := range ring {
					x, y := m.view.ToScreen(p)
					sr = append(sr, [2]float64{x, y})
				}
				if len(sr) >= 3 {
					rings = append(rings, sr)
				}
			}
			c.fillRings(rings, InkOverlay)
			for _, ring := range g {
				stroke(ring, true)
			}
		case orb.MultiPolygon:
			for _, poly := range g {
				draw(poly)
			}
		case orb.Collection:
			for _, sub := range g {
				draw(sub)
			}
		}
	}
	for _, f := range o.features.Features {
		draw(f.Geometry)
	}
}
