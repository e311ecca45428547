package mapview

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Style is applied to every feature of an overlay.
type Style struct {
	Color       string // stroke color, lipgloss syntax
	Weight      int    // stroke width in dots
	PointRadius int    // circle marker radius in dots
}

// DefaultStyle matches the viewer's stock look.
var DefaultStyle = Style{Color: "#1976d2", Weight: 2, PointRadius: 5}

// Counts tallies the shapes of an overlay by kind.
type Counts struct {
	Points   int
	Lines    int
	Polygons int
}

// Overlay is a styled rendering of one GeoJSON document.
type Overlay struct {
	features *geojson.FeatureCollection
	style    Style
	bound    orb.Bound
	hasBound bool
	counts   Counts
}

// NewOverlay wraps collected features; bound and counts are computed once here.
func NewOverlay(fc *geojson.FeatureCollection, style Style) *Overlay {
	o := &Overlay{features: fc, style: style}
	addPt := func(p orb.Point) {
		if !o.hasBound {
			o.bound = orb.Bound{Min: p, Max: p}
			o.hasBound = true
			return
		}
		o.bound = o.bound.Extend(p)
	}
	var walk func(g orb.Geometry)
	walk = func(g orb.Geometry) {
		switch g := g.(type) {
		case orb.Point:
			o.counts.Points++
			addPt(g)
		case orb.MultiPoint:
			o.counts.Points += len(g)
			for _, p := range g {
				addPt(p)
			}
		case orb.LineString:
			o.counts.Lines++
			for _, p := range g {
				addPt(p)
			}
		case orb.MultiLineString:
			for _, ls := range g {
				walk(ls)
			}
		case orb.Polygon:
			o.counts.Polygons++
			for _, ring := range g {
				for _, p := range ring {
					addPt(p)
				}
			}
		case orb.MultiPolygon:
			for _, poly := range g {
				walk(poly)
			}
		case orb.Collection:
			for _, sub := range g {
				walk(sub)
			}
		}
	}
	if fc != nil {
		for _, f := range fc.Features {
			walk(f.Geometry)
		}
	}
	return o
}

func (o *Overlay) Features() *geojson.FeatureCollection { return o.features }
func (o *Overlay) Style() Style                         { return o.style }
func (o *Overlay) Counts() Counts                       { return o.counts }

// Bound returns the overlay's bounding box; ok is false when it holds no positions.
func (o *Overlay) Bound() (orb.Bound, bool) { return o.bound, o.hasBound }

// Degenerate reports whether a bound has no spatial extent in either axis.
func Degenerate(b orb.Bound) bool {
	return b.Max[0] <= b.Min[0] && b.Max[1] <= b.Min[1]
}
