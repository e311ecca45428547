package mapview

import (
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Ink identifies which layer lit a cell; higher ink wins the cell's color.
type Ink uint8

const (
	InkNone Ink = iota
	InkGrid
	InkOverlay
)

// canvas is a braille raster: every terminal cell holds a 2x4 grid of dots.
type canvas struct {
	w, h int       // in cells
	m    [][]uint8 // per-cell 8-bit mask
	ink  [][]Ink
}

func newCanvas(w, h int) *canvas {
	m := make([][]uint8, h)
	ink := make([][]Ink, h)
	for i := range m {
		m[i] = make([]uint8, w)
		ink[i] = make([]Ink, w)
	}
	return &canvas{w: w, h: h, m: m, ink: ink}
}

// dots returns the raster size in dots.
func (c *canvas) dots() (int, int) { return c.w * 2, c.h * 4 }

// setPixel sets a dot at dot coords (2x4 per cell)
func (c *canvas) setPixel(mx, my int, ink Ink) {
	if mx < 0 || my < 0 {
		return
	}
	cx, rx := mx/2, mx%2
	cy, ry := my/4, my%4
	if cy >= c.h || cx >= c.w {
		return
	}
	var bit uint8
	if rx == 0 {
		switch ry {
		case 0:
			bit = 0x01
		case 1:
			bit = 0x02
		case 2:
			bit = 0x04
		case 3:
			bit = 0x40
		}
	} else {
		switch ry {
		case 0:
			bit = 0x08
		case 1:
			bit = 0x10
		case 2:
			bit = 0x20
		case 3:
			bit = 0x80
		}
	}
	c.m[cy][cx] |= bit
	if ink > c.ink[cy][cx] {
		c.ink[cy][cx] = ink
	}
}

// line draws a segment with Bresenham after clipping it to the raster.
// every > 1 leaves gaps, used for the dotted tile grid.
func (c *canvas) line(x0, y0, x1, y1 float64, ink Ink, every int) {
	W, H := c.dots()
	ax, ay, bx, by, ok := clip(x0, y0, x1, y1, 0, 0, float64(W-1), float64(H-1))
	if !ok {
		return
	}
	ix0, iy0 := int(math.Round(ax)), int(math.Round(ay))
	ix1, iy1 := int(math.Round(bx)), int(math.Round(by))
	dx := abs(ix1 - ix0)
	sx := -1
	if ix0 < ix1 {
		sx = 1
	}
	dy := -abs(iy1 - iy0)
	sy := -1
	if iy0 < iy1 {
		sy = 1
	}
	err := dx + dy
	for n := 0; ; n++ {
		if every <= 1 || n%every == 0 {
			c.setPixel(ix0, iy0, ink)
		}
		if ix0 == ix1 && iy0 == iy1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			ix0 += sx
		}
		if e2 <= dx {
			err += dx
			iy0 += sy
		}
	}
}

// circle draws a circle outline using the midpoint algorithm.
func (c *canvas) circle(cx, cy float64, r int, ink Ink) {
	x0, y0 := int(math.Round(cx)), int(math.Round(cy))
	W, H := c.dots()
	if x0+r < 0 || y0+r < 0 || x0-r >= W || y0-r >= H {
		return
	}
	if r <= 0 {
		c.setPixel(x0, y0, ink)
		return
	}
	x, y := r, 0
	d := 1 - r
	for x >= y {
		for _, p := range [8][2]int{
			{x0 + x, y0 + y}, {x0 + y, y0 + x}, {x0 - y, y0 + x}, {x0 - x, y0 + y},
			{x0 - x, y0 - y}, {x0 - y, y0 - x}, {x0 + y, y0 - x}, {x0 + x, y0 - y},
		} {
			c.setPixel(p[0], p[1], ink)
		}
		y++
		if d < 0 {
			d += 2*y + 1
		} else {
			x--
			d += 2*(y-x) + 1
		}
	}
}

// fillRings stipples the interior of a polygon using the even-odd rule per
// scanline over all rings, so holes stay empty.
func (c *canvas) fillRings(rings [][][2]float64, ink Ink) {
	W, H := c.dots()
	for yMic := 0; yMic < H; yMic += 2 {
		y := float64(yMic) + 0.5
		var xs []float64
		for _, ring := range rings {
			for i := 0; i < len(ring); i++ {
				a := ring[i]
				b := ring[(i+1)%len(ring)]
				if a[1] == b[1] { // horizontal edge: skip
					continue
				}
				if (y >= a[1] && y < b[1]) || (y >= b[1] && y < a[1]) {
					t := (y - a[1]) / (b[1] - a[1])
					xs = append(xs, a[0]+t*(b[0]-a[0]))
				}
			}
		}
		if len(xs) < 2 {
			continue
		}
		sort.Float64s(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			xstart := int(math.Max(0, math.Ceil(xs[i])))
			xend := int(math.Min(float64(W-1), math.Floor(xs[i+1])))
			for xMic := xstart; xMic <= xend; xMic++ {
				if (xMic+yMic/2)%2 == 0 {
					c.setPixel(xMic, yMic, ink)
				}
			}
		}
	}
}

// clearCells blanks the top-left cols x rows cells.
func (c *canvas) clearCells(cols, rows int) {
	for y := 0; y < min(rows, c.h); y++ {
		for x := 0; x < min(cols, c.w); x++ {
			c.m[y][x] = 0
			c.ink[y][x] = InkNone
		}
	}
}

// render turns the raster into styled terminal rows.
func (c *canvas) render(styles map[Ink]lipgloss.Style) []string {
	out := make([]string, c.h)
	for y := 0; y < c.h; y++ {
		var sb strings.Builder
		var run []rune
		runInk := InkNone
		flush := func() {
			if len(run) == 0 {
				return
			}
			if st, ok := styles[runInk]; ok && runInk != InkNone {
				sb.WriteString(st.Render(string(run)))
			} else {
				sb.WriteString(string(run))
			}
			run = run[:0]
		}
		for x := 0; x < c.w; x++ {
			mask := c.m[y][x]
			r := ' '
			ink := InkNone
			if mask != 0 {
				r = rune(0x2800 + int(mask))
				ink = c.ink[y][x]
			}
			if ink != runInk {
				flush()
				runInk = ink
			}
			run = append(run, r)
		}
		flush()
		out[y] = sb.String()
	}
	return out
}

// clip is Liang-Barsky segment clipping against an axis-aligned rectangle.
func clip(x0, y0, x1, y1, xmin, ymin, xmax, ymax float64) (float64, float64, float64, float64, bool) {
	t0, t1 := 0.0, 1.0
	dx, dy := x1-x0, y1-y0
	for _, e := range [4][2]float64{
		{-dx, x0 - xmin},
		{dx, xmax - x0},
		{-dy, y0 - ymin},
		{dy, ymax - y0},
	} {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}
		r := q / p
		if p < 0 {
			if r > t1 {
				return 0, 0, 0, 0, false
			}
			if r > t0 {
				t0 = r
			}
		} else {
			if r < t0 {
				return 0, 0, 0, 0, false
			}
			if r < t1 {
				t1 = r
			}
		}
	}
	return x0 + t0*dx, y0 + t0*dy, x0 + t1*dx, y0 + t1*dy, true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
