package mapview

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"
)

const (
	// TileSize is the edge of a web-mercator tile in dots.
	TileSize = 256

	maxLatitude   = 85.05112878
	mercatorHalf  = 20037508.342789244
	mercatorWidth = 2 * mercatorHalf
)

// Viewport is a slippy-map view: a center, an integer zoom and a raster size in dots.
type Viewport struct {
	center  orb.Point // lon, lat
	zoom    int
	minZoom int
	maxZoom int

	w, h int

	// fit requested before the first resize
	pending *fitRequest
}

type fitRequest struct {
	bound   orb.Bound
	padding int
}

// NewViewport returns a viewport at center/zoom; maxZoom caps every zoom change.
func NewViewport(center orb.Point, zoom, maxZoom int) *Viewport {
	if maxZoom <= 0 {
		maxZoom = 19
	}
	v := &Viewport{maxZoom: maxZoom}
	v.SetView(center, zoom)
	return v
}

func (v *Viewport) Center() orb.Point { return v.center }
func (v *Viewport) Zoom() int         { return v.zoom }
func (v *Viewport) MaxZoom() int      { return v.maxZoom }

// Size returns the raster size in dots.
func (v *Viewport) Size() (int, int) { return v.w, v.h }

// SetSize changes the raster size in dots and applies a pending fit.
func (v *Viewport) SetSize(w, h int) {
	v.w, v.h = w, h
	if v.pending != nil && w > 0 && h > 0 {
		p := v.pending
		v.pending = nil
		v.FitBounds(p.bound, p.padding)
	}
}

// SetView moves the view; zoom is clamped to [0, maxZoom].
func (v *Viewport) SetView(center orb.Point, zoom int) {
	v.center = orb.Point{wrapLon(center[0]), clampLat(center[1])}
	v.zoom = min(max(zoom, v.minZoom), v.maxZoom)
}

func (v *Viewport) ZoomIn()  { v.SetView(v.center, v.zoom+1) }
func (v *Viewport) ZoomOut() { v.SetView(v.center, v.zoom-1) }

// PanBy shifts the view by a number of dots.
func (v *Viewport) PanBy(dx, dy float64) {
	x, y := worldXY(v.center, v.zoom)
	v.SetView(unworld(x+dx, y+dy, v.zoom), v.zoom)
}

// FitBounds picks the highest zoom at which b fits inside the raster minus
// padding on every side, and centers on b. Without a raster size the fit is
// deferred until SetSize.
func (v *Viewport) FitBounds(b orb.Bound, padding int) {
	if v.w <= 0 || v.h <= 0 {
		v.pending = &fitRequest{bound: b, padding: padding}
		return
	}
	availW := float64(v.w - 2*padding)
	availH := float64(v.h - 2*padding)
	zoom := v.minZoom
	for z := v.maxZoom; z >= v.minZoom; z-- {
		x0, y0 := worldXY(b.Min, z)
		x1, y1 := worldXY(b.Max, z)
		if math.Abs(x1-x0) <= availW && math.Abs(y1-y0) <= availH {
			zoom = z
			break
		}
	}
	x0, y0 := worldXY(b.Min, zoom)
	x1, y1 := worldXY(b.Max, zoom)
	v.SetView(unworld((x0+x1)/2, (y0+y1)/2, zoom), zoom)
}

// ToScreen projects lon/lat into raster dots; values may fall outside the raster.
func (v *Viewport) ToScreen(p orb.Point) (float64, float64) {
	cx, cy := worldXY(v.center, v.zoom)
	x, y := worldXY(p, v.zoom)
	return x - cx + float64(v.w)/2, y - cy + float64(v.h)/2
}

// FromScreen converts raster dots back to lon/lat.
func (v *Viewport) FromScreen(sx, sy float64) orb.Point {
	cx, cy := worldXY(v.center, v.zoom)
	return unworld(sx-float64(v.w)/2+cx, sy-float64(v.h)/2+cy, v.zoom)
}

// worldXY returns web-mercator pixel coordinates at zoom z.
func worldXY(p orb.Point, z int) (float64, float64) {
	m := project.WGS84.ToMercator(orb.Point{p[0], clampLat(p[1])})
	scale := TileSize * math.Exp2(float64(z))
	return (m[0] + mercatorHalf) / mercatorWidth * scale, (mercatorHalf - m[1]) / mercatorWidth * scale
}

func unworld(x, y float64, z int) orb.Point {
	scale := TileSize * math.Exp2(float64(z))
	m := orb.Point{x/scale*mercatorWidth - mercatorHalf, mercatorHalf - y/scale*mercatorWidth}
	return project.Mercator.ToWGS84(m)
}

func clampLat(lat float64) float64 {
	return math.Max(-maxLatitude, math.Min(maxLatitude, lat))
}

func wrapLon(lon float64) float64 {
	if lon >= -180 && lon <= 180 {
		return lon
	}
	return math.Mod(math.Mod(lon+180, 360)+360, 360) - 180
}

// origin returns the world pixel at the raster's top-left dot.
func (v *Viewport) origin() (float64, float64) {
	cx, cy := worldXY(v.center, v.zoom)
	return cx - float64(v.w)/2, cy - float64(v.h)/2
}
