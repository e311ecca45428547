package tui

import (
	"context"
	"log/slog"
	"os"
	"strings"

	list "github.com/charmbracelet/bubbles/list"
	table "github.com/charmbracelet/bubbles/table"
	textarea "github.com/charmbracelet/bubbles/textarea"
	textinput "github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/paulmach/orb"

	"gjmap/internal/config"
	"gjmap/internal/mapview"
	"gjmap/internal/panel"
	"gjmap/internal/viewer"
)

type focus int

const (
	focusMap focus = iota
	focusPanel
)

type inputMode int

const (
	inputNone inputMode = iota
	inputPaste
	inputURL
)

// Options wires the model to its collaborators.
type Options struct {
	Config  config.Config
	Store   panel.Store
	Fetcher viewer.Fetcher
	Logger  *slog.Logger
	Dir     string // directory listed in the panel; cwd when empty
	Preload string // file path or URL loaded on start
}

type Model struct {
	width  int
	height int

	ctx     context.Context
	logger  *slog.Logger
	fetcher viewer.Fetcher

	mp       *mapview.Map
	status   *viewer.Status
	pipeline *viewer.Pipeline
	loader   *viewer.Loader
	panel    *panel.Control

	focus   focus
	input   inputMode
	note    string // transient info line, shown when the status is empty
	preload *viewer.Source

	helpVisible bool

	// File explorer
	cwd   string
	l     list.Model
	items []list.Item

	// paste and URL inputs
	ta textarea.Model
	ti textinput.Model

	// drag panning
	dragging bool
	dragX    int
	dragY    int

	// hover state
	hoverHasGeo bool
	hoverLon    float64
	hoverLat    float64

	// attributes table
	showAttrs bool
	tbl       table.Model
}

func New(opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := opts.Config
	view := mapview.NewViewport(orb.Point{cfg.Map.CenterLon, cfg.Map.CenterLat}, cfg.Map.Zoom, cfg.Map.MaxZoom)
	mp := mapview.New(view, cfg.Map.TileGrid)
	mp.Reserve(controlWidth, len(controlStack))

	status := &viewer.Status{}
	style := mapview.Style{Color: cfg.Style.Color, Weight: cfg.Style.Weight, PointRadius: cfg.Style.PointRadius}
	pipeline := viewer.NewPipeline(mp, status, style, cfg.Map.FitPadding, logger)

	m := Model{
		ctx:         context.Background(),
		logger:      logger,
		fetcher:     opts.Fetcher,
		mp:          mp,
		status:      status,
		pipeline:    pipeline,
		loader:      viewer.NewLoader(pipeline, status, logger),
		panel:       panel.New(opts.Store, logger),
		helpVisible: true,
		note:        "gjmap ready",
		cwd:         opts.Dir,
	}
	if m.cwd == "" {
		m.cwd, _ = os.Getwd()
	}
	if m.panel.Expanded() {
		m.focus = focusPanel
	}
	// list setup
	d := list.NewDefaultDelegate()
	d.ShowDescription = false
	m.l = list.New(nil, d, 0, 0)
	m.l.Title = "Files"
	m.l.SetShowHelp(false)
	m.l.SetShowStatusBar(false)
	m.l.SetFilteringEnabled(true)
	// textarea setup
	m.ta = textarea.New()
	m.ta.Placeholder = "Paste GeoJSON here. Enter renders, Esc cancels."
	m.ta.CharLimit = 0
	m.ta.SetWidth(50)
	m.ta.SetHeight(6)
	// URL input setup
	m.ti = textinput.New()
	m.ti.Placeholder = "https://example.com/data.geojson"
	m.ti.Prompt = "URL: "
	m.ti.CharLimit = 2048
	// attributes table setup (columns are inferred per overlay)
	m.tbl = table.New(table.WithFocused(true))
	m.tbl.SetHeight(12)
	m.refreshDir()

	if p := strings.TrimSpace(opts.Preload); p != "" {
		src := viewer.Source{Kind: viewer.KindFile, Location: p}
		if isURL(p) {
			src.Kind = viewer.KindURL
		}
		m.preload = &src
	}
	return m
}

// Init starts the preload, if any.
func (m Model) Init() tea.Cmd {
	if m.preload == nil {
		return nil
	}
	t := m.loader.Begin(*m.preload)
	return acquire(m.ctx, t, *m.preload, m.fetcher)
}

func isURL(s string) bool {
	ls := strings.ToLower(s)
	return strings.HasPrefix(ls, "http://") || strings.HasPrefix(ls, "https://")
}
