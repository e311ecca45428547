package viewer

import (
	"log/slog"

	"github.com/paulmach/orb"

	"gjmap/internal/geom"
	"gjmap/internal/mapview"
)

// Map is what the pipeline needs from the map it draws on.
type Map interface {
	AddOverlay(o *mapview.Overlay)
	RemoveOverlay(o *mapview.Overlay)
	FitBounds(b orb.Bound, padding int)
}

// Pipeline owns the one overlay on the map and replaces it on every render.
type Pipeline struct {
	m       Map
	status  *Status
	style   mapview.Style
	padding int
	logger  *slog.Logger

	current *mapview.Overlay
}

// NewPipeline returns a pipeline drawing on m with the given style and fit padding (dots).
func NewPipeline(m Map, status *Status, style mapview.Style, padding int, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{m: m, status: status, style: style, padding: padding, logger: logger}
}

// Current returns the overlay on the map, or nil.
func (p *Pipeline) Current() *mapview.Overlay { return p.current }

// Render removes the current overlay, builds a new one from doc and fits the
// viewport to it. A failed build leaves the map without an overlay; the
// previous one is not restored.
func (p *Pipeline) Render(doc geom.Document) error {
	if p.current != nil {
		p.m.RemoveOverlay(p.current)
		p.current = nil
	}
	fc, err := geom.Collect(doc)
	if err != nil {
		p.logger.Warn("render failed", "type", doc.Type, "error", err)
		lerr := &LoadError{Stage: StageRender, Err: err}
		p.status.Report(lerr)
		return lerr
	}
	ov := mapview.NewOverlay(fc, p.style)
	p.m.AddOverlay(ov)
	p.current = ov
	if b, ok := ov.Bound(); ok && !mapview.Degenerate(b) {
		p.m.FitBounds(b, p.padding)
	}
	c := ov.Counts()
	p.logger.Debug("rendered overlay", "type", doc.Type, "features", len(fc.Features),
		"points", c.Points, "lines", c.Lines, "polygons", c.Polygons)
	p.status.Clear()
	return nil
}

// Fit re-fits the viewport to the current overlay. It reports false when
// there is nothing with an extent to fit.
func (p *Pipeline) Fit() bool {
	if p.current == nil {
		return false
	}
	b, ok := p.current.Bound()
	if !ok || mapview.Degenerate(b) {
		return false
	}
	p.m.FitBounds(b, p.padding)
	return true
}
