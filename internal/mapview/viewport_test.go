package mapview

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
)

func near(a, b, eps float64) bool { return math.Abs(a-b) <= eps }

func TestViewportRoundTrip(t *testing.T) {
	v := NewViewport(orb.Point{37.618423, 55.751244}, 10, 19)
	v.SetSize(160, 96)
	x, y := v.ToScreen(v.Center())
	if !near(x, 80, 1e-6) || !near(y, 48, 1e-6) {
		t.Fatalf("center projects to (%f,%f), want (80,48)", x, y)
	}
	p := v.FromScreen(12, 40)
	bx, by := v.ToScreen(p)
	if !near(bx, 12, 1e-6) || !near(by, 40, 1e-6) {
		t.Fatalf("round trip gave (%f,%f)", bx, by)
	}
}

func TestViewportFitBounds(t *testing.T) {
	v := NewViewport(orb.Point{0, 0}, 2, 19)
	v.SetSize(160, 96)
	b := orb.Bound{Min: orb.Point{37.3, 55.5}, Max: orb.Point{37.9, 55.95}}
	v.FitBounds(b, 8)

	x0, y0 := v.ToScreen(b.Min)
	x1, y1 := v.ToScreen(b.Max)
	if math.Min(x0, x1) < 8-1e-6 || math.Max(x0, x1) > 152+1e-6 {
		t.Errorf("bound x range [%f,%f] outside padded raster", x0, x1)
	}
	if math.Min(y0, y1) < 8-1e-6 || math.Max(y0, y1) > 88+1e-6 {
		t.Errorf("bound y range [%f,%f] outside padded raster", y0, y1)
	}
	// one more zoom level would not fit
	z := v.Zoom()
	v.SetView(v.Center(), z+1)
	x0, _ = v.ToScreen(b.Min)
	x1, _ = v.ToScreen(b.Max)
	_, y0 = v.ToScreen(b.Min)
	_, y1 = v.ToScreen(b.Max)
	if math.Abs(x1-x0) <= 144 && math.Abs(y1-y0) <= 80 {
		t.Errorf("zoom %d was not the highest fitting zoom", z)
	}
}

func TestViewportFitClampsToMaxZoom(t *testing.T) {
	v := NewViewport(orb.Point{0, 0}, 3, 12)
	v.SetSize(100, 100)
	v.FitBounds(orb.Bound{Min: orb.Point{10, 10}, Max: orb.Point{10.00001, 10.00001}}, 4)
	if v.Zoom() != 12 {
		t.Fatalf("expected zoom clamped to 12, got %d", v.Zoom())
	}
}

func TestViewportDeferredFit(t *testing.T) {
	v := NewViewport(orb.Point{50, 50}, 1, 19)
	b := orb.Bound{Min: orb.Point{-10, -10}, Max: orb.Point{10, 10}}
	v.FitBounds(b, 0)
	if v.Zoom() != 1 {
		t.Fatalf("fit applied without a raster size")
	}
	v.SetSize(200, 200)
	if v.Zoom() != 3 {
		t.Fatalf("expected pending fit to land on zoom 3, got %d", v.Zoom())
	}
	c := v.Center()
	if !near(c[0], 0, 1e-6) || !near(c[1], 0, 1e-6) {
		t.Errorf("expected center (0,0), got %v", c)
	}
}

func TestViewportZoomLimits(t *testing.T) {
	v := NewViewport(orb.Point{0, 0}, 0, 2)
	v.ZoomOut()
	if v.Zoom() != 0 {
		t.Errorf("zoom below 0: %d", v.Zoom())
	}
	v.ZoomIn()
	v.ZoomIn()
	v.ZoomIn()
	if v.Zoom() != 2 {
		t.Errorf("zoom above max: %d", v.Zoom())
	}
}

func TestViewportPan(t *testing.T) {
	v := NewViewport(orb.Point{10, 10}, 5, 19)
	v.SetSize(100, 100)
	before := v.Center()
	v.PanBy(20, 0)
	after := v.Center()
	if after[0] <= before[0] {
		t.Errorf("panning right should increase longitude: %v -> %v", before, after)
	}
	if !near(after[1], before[1], 1e-9) {
		t.Errorf("horizontal pan changed latitude: %v -> %v", before, after)
	}
}
