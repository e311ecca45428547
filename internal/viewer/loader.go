// Package viewer holds the GeoJSON load flow shared by every input adapter:
// acquire, decode, validate, render, with failures reported to one status line.
package viewer

import (
	"errors"
	"log/slog"
	"strings"

	"gjmap/internal/geom"
)

// ErrStale is returned for a result that a newer load has superseded.
var ErrStale = errors.New("superseded by a newer load")

// Source says where a load's bytes come from.
type Source struct {
	Kind     Kind
	Location string // file path or URL; empty for text
}

func (s Source) String() string {
	if s.Location == "" {
		return s.Kind.String()
	}
	return s.Kind.String() + ":" + s.Location
}

// Ticket orders loads; only the latest issued ticket may render.
type Ticket uint64

// Result is the outcome of the acquire step.
type Result struct {
	Ticket Ticket
	Source Source
	Data   []byte
	Err    error
}

// Loader runs decode, validate and render for every adapter.
type Loader struct {
	pipeline *Pipeline
	status   *Status
	logger   *slog.Logger

	latest  Ticket
	pending *Source
	last    Source
	hasSrc  bool
}

func NewLoader(p *Pipeline, status *Status, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{pipeline: p, status: status, logger: logger}
}

// Begin issues the ticket for a new load and supersedes every earlier one.
func (l *Loader) Begin(src Source) Ticket {
	l.latest++
	l.pending = nil
	if src.Kind != KindText {
		l.pending = &src
	}
	l.logger.Debug("load started", "source", src.String(), "ticket", uint64(l.latest))
	return l.latest
}

// Complete finishes a load. Results carrying a superseded ticket are dropped
// without touching the map or the status line.
func (l *Loader) Complete(res Result) error {
	if res.Ticket != l.latest {
		l.logger.Debug("dropping stale load", "source", res.Source.String(),
			"ticket", uint64(res.Ticket), "latest", uint64(l.latest))
		return ErrStale
	}
	l.pending = nil
	log := l.logger.With("source", res.Source.String())
	fail := func(stage Stage, err error) error {
		lerr := &LoadError{Stage: stage, Kind: res.Source.Kind, Err: err}
		log.Info("load failed", "stage", stage.String(), "error", err)
		l.status.Report(lerr)
		return lerr
	}
	if res.Err != nil {
		return fail(StageAcquire, res.Err)
	}
	v, err := geom.Decode(res.Data)
	if err != nil {
		return fail(StageDecode, err)
	}
	doc, ok := geom.AsDocument(v)
	if !ok {
		return fail(StageValidate, ErrNotGeoJSON)
	}
	if err := l.pipeline.Render(doc); err != nil {
		var lerr *LoadError
		if errors.As(err, &lerr) {
			lerr.Kind = res.Source.Kind
		}
		return err
	}
	if res.Source.Kind != KindText {
		l.last, l.hasSrc = res.Source, true
	}
	log.Info("loaded", "type", doc.Type, "bytes", len(res.Data))
	return nil
}

// LoadText runs the text adapter synchronously on a raw input value.
func (l *Loader) LoadText(value string) error {
	src := Source{Kind: KindText}
	t := l.Begin(src)
	return l.Complete(Result{Ticket: t, Source: src, Data: []byte(strings.TrimSpace(value))})
}

// Pending returns the source whose acquisition is in flight, if the latest
// load has not completed yet.
func (l *Loader) Pending() (Source, bool) {
	if l.pending == nil {
		return Source{}, false
	}
	return *l.pending, true
}

// Last returns the most recent file, drop or URL source that rendered.
func (l *Loader) Last() (Source, bool) { return l.last, l.hasSrc }
