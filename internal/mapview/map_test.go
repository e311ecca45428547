package mapview

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

func TestCanvasSetPixel(t *testing.T) {
	c := newCanvas(2, 1)
	c.setPixel(0, 0, InkOverlay)
	c.setPixel(1, 3, InkOverlay)
	c.setPixel(3, 0, InkGrid)
	c.setPixel(-1, 0, InkOverlay)
	c.setPixel(100, 100, InkOverlay)
	rows := c.render(nil)
	want := string([]rune{rune(0x2800 + 0x01 + 0x80), rune(0x2800 + 0x08)})
	if rows[0] != want {
		t.Fatalf("got %q, want %q", rows[0], want)
	}
	if c.ink[0][0] != InkOverlay || c.ink[0][1] != InkGrid {
		t.Errorf("unexpected inks %v", c.ink[0])
	}
}

func TestClip(t *testing.T) {
	ax, ay, bx, by, ok := clip(-10, 5, 20, 5, 0, 0, 9, 9)
	if !ok || !near(ax, 0, 1e-9) || !near(bx, 9, 1e-9) || !near(ay, 5, 1e-9) || !near(by, 5, 1e-9) {
		t.Fatalf("clip gave (%v,%v)-(%v,%v) ok=%v", ax, ay, bx, by, ok)
	}
	if _, _, _, _, ok := clip(-10, -5, 20, -5, 0, 0, 9, 9); ok {
		t.Fatalf("segment above the raster must be rejected")
	}
}

func TestCanvasLongLineIsClipped(t *testing.T) {
	c := newCanvas(4, 2)
	c.line(-1e9, 3, 1e9, 3, InkOverlay, 1)
	for x := 0; x < 4; x++ {
		if c.m[0][x] == 0 {
			t.Fatalf("cell %d not lit by horizontal line", x)
		}
	}
}

func overlayFrom(geoms ...orb.Geometry) *Overlay {
	fc := geojson.NewFeatureCollection()
	for _, g := range geoms {
		fc.Append(geojson.NewFeature(g))
	}
	return NewOverlay(fc, DefaultStyle)
}

func TestOverlayBoundAndCounts(t *testing.T) {
	o := overlayFrom(
		orb.Point{1, 2},
		orb.LineString{{0, 0}, {3, 1}},
		orb.Polygon{orb.Ring{{-1, -1}, {0, -1}, {0, 0}, {-1, -1}}},
		orb.Collection{orb.MultiPoint{{5, 5}}},
	)
	b, ok := o.Bound()
	if !ok {
		t.Fatal("expected a bound")
	}
	if b.Min != (orb.Point{-1, -1}) || b.Max != (orb.Point{5, 5}) {
		t.Errorf("bound %v", b)
	}
	if got := o.Counts(); got != (Counts{Points: 2, Lines: 1, Polygons: 1}) {
		t.Errorf("counts %+v", got)
	}
}

func TestOverlayEmpty(t *testing.T) {
	o := NewOverlay(geojson.NewFeatureCollection(), DefaultStyle)
	if _, ok := o.Bound(); ok {
		t.Fatal("empty overlay must not have a bound")
	}
}

func TestDegenerate(t *testing.T) {
	cases := []struct {
		b    orb.Bound
		want bool
	}{
		{orb.Bound{Min: orb.Point{37.6, 55.7}, Max: orb.Point{37.6, 55.7}}, true},
		{orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{1, 0}}, false},
		{orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{0, 1}}, false},
		{orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{1, 1}}, false},
	}
	for _, tc := range cases {
		if got := Degenerate(tc.b); got != tc.want {
			t.Errorf("Degenerate(%v) = %v, want %v", tc.b, got, tc.want)
		}
	}
}

func TestMapOverlays(t *testing.T) {
	m := New(NewViewport(orb.Point{0, 0}, 3, 19), false)
	a := overlayFrom(orb.Point{0, 0})
	b := overlayFrom(orb.Point{1, 1})
	m.AddOverlay(a)
	m.AddOverlay(b)
	m.RemoveOverlay(a)
	m.RemoveOverlay(a)
	got := m.Overlays()
	if len(got) != 1 || got[0] != b {
		t.Fatalf("expected only b on the map, got %v", got)
	}
}

func TestMapRender(t *testing.T) {
	m := New(NewViewport(orb.Point{0, 0}, 2, 19), true)
	m.Resize(20, 6)
	m.AddOverlay(overlayFrom(orb.Point{0, 0}, orb.LineString{{-20, -20}, {20, 20}}))
	out := m.Render(20, 6)
	rows := strings.Split(out, "\n")
	if len(rows) != 6 {
		t.Fatalf("expected 6 rows, got %d", len(rows))
	}
	for i, r := range rows {
		if w := lipgloss.Width(r); w != 20 {
			t.Errorf("row %d has width %d", i, w)
		}
	}
	lit := false
	for _, r := range out {
		if r > 0x2800 && r <= 0x28ff {
			lit = true
			break
		}
	}
	if !lit {
		t.Fatal("nothing drawn")
	}
}

func TestMapLayerVisibility(t *testing.T) {
	m := New(NewViewport(orb.Point{0, 0}, 2, 19), false)
	m.Resize(10, 4)
	m.AddOverlay(overlayFrom(orb.Point{0, 0}))
	m.SetLayers(Visibility{Lines: true, Polygons: true})
	for _, r := range m.Render(10, 4) {
		if r > 0x2800 && r <= 0x28ff {
			t.Fatal("hidden points were drawn")
		}
	}
}

func TestMapReserve(t *testing.T) {
	m := New(NewViewport(orb.Point{0, 0}, 0, 19), true)
	m.Resize(12, 4)
	m.Reserve(3, 2)
	rows := strings.Split(m.Render(12, 4), "\n")
	for i := 0; i < 2; i++ {
		if !strings.HasPrefix(rows[i], "   ") {
			t.Errorf("row %d does not start with a blank reserved area: %q", i, rows[i])
		}
	}
}
