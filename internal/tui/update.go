package tui

import (
	"errors"
	"fmt"
	"strings"

	list "github.com/charmbracelet/bubbles/list"
	textarea "github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"gjmap/internal/viewer"
)

// panStep is how far one arrow key moves the map, in dots.
const panStep = 16

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.syncLayout()
		return m, nil
	case loadedMsg:
		m.finishLoad(msg.res)
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		return m.handleMouse(msg)
	}
	return m, nil
}

func (m *Model) finishLoad(res viewer.Result) {
	err := m.loader.Complete(res)
	switch {
	case errors.Is(err, viewer.ErrStale):
		return
	case err != nil:
		m.note = ""
		return
	}
	c := m.pipeline.Current().Counts()
	m.note = fmt.Sprintf("loaded %s  pts=%d ls=%d poly=%d", res.Source.Location, c.Points, c.Lines, c.Polygons)
	if m.showAttrs {
		m.refreshAttrsFromCurrent()
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.input {
	case inputPaste:
		return m.handlePasteKey(msg)
	case inputURL:
		return m.handleURLKey(msg)
	}

	// a bracketed paste outside an input box is a file dropped on the terminal
	if msg.Paste {
		if path, ok := viewer.DroppedPath(string(msg.Runes)); ok {
			return m, m.start(viewer.Source{Kind: viewer.KindDrop, Location: path})
		}
		return m, nil
	}

	// If list is visible and filtering, send keys to list and ignore global commands
	if m.panelFocused() && m.l.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.l, cmd = m.l.Update(msg)
		return m, cmd
	}

	if m.showAttrs {
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "esc", "a":
			m.showAttrs = false
		default:
			var cmd tea.Cmd
			m.tbl, cmd = m.tbl.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	if m.panel.HandleKey(msg.String()) {
		m.afterPanelChange()
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "tab":
		if m.panel.Expanded() {
			if m.focus == focusMap {
				m.focus = focusPanel
			} else {
				m.focus = focusMap
			}
		}
		return m, nil
	case "p":
		m.input = inputPaste
		m.ta.SetValue("")
		m.ta.Focus()
		m.note = "paste mode"
		return m, textarea.Blink
	case "u":
		m.input = inputURL
		m.ti.SetValue("")
		m.ti.Focus()
		m.note = "url mode"
		return m, nil
	case "?":
		m.helpVisible = !m.helpVisible
		return m, nil
	case "esc":
		m.note = ""
		return m, nil
	case "1":
		v := m.mp.Layers()
		v.Points = !v.Points
		m.mp.SetLayers(v)
		m.note = fmt.Sprintf("points: %v", v.Points)
		return m, nil
	case "2":
		v := m.mp.Layers()
		v.Lines = !v.Lines
		m.mp.SetLayers(v)
		m.note = fmt.Sprintf("lines: %v", v.Lines)
		return m, nil
	case "3":
		v := m.mp.Layers()
		v.Polygons = !v.Polygons
		m.mp.SetLayers(v)
		m.note = fmt.Sprintf("polys: %v", v.Polygons)
		return m, nil
	case "g":
		m.mp.SetGrid(!m.mp.Grid())
		m.note = fmt.Sprintf("grid: %v", m.mp.Grid())
		return m, nil
	case "a":
		m.showAttrs = true
		m.refreshAttrsFromCurrent()
		return m, nil
	case "f":
		if !m.pipeline.Fit() {
			m.note = "nothing to fit"
		}
		return m, nil
	case "r":
		src, ok := m.loader.Last()
		if !ok {
			m.note = "nothing to reload"
			return m, nil
		}
		return m, m.start(src)
	case "+", "=":
		m.runControl(actionZoomIn)
		return m, nil
	case "-", "_":
		m.runControl(actionZoomOut)
		return m, nil
	}

	if m.panelFocused() {
		if msg.String() == "enter" {
			return m, m.openSelected()
		}
		var cmd tea.Cmd
		m.l, cmd = m.l.Update(msg)
		return m, cmd
	}

	view := m.mp.Viewport()
	switch msg.String() {
	case "up":
		view.PanBy(0, -panStep)
	case "down":
		view.PanBy(0, panStep)
	case "left":
		view.PanBy(-panStep, 0)
	case "right":
		view.PanBy(panStep, 0)
	}
	return m, nil
}

func (m Model) handlePasteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.input = inputNone
		m.ta.Blur()
		m.note = "view mode"
		return m, nil
	case "enter":
		if msg.Paste {
			break
		}
		// failures stay in paste mode so the text can be fixed
		if err := m.loader.LoadText(m.ta.Value()); err != nil {
			m.note = ""
			return m, nil
		}
		c := m.pipeline.Current().Counts()
		m.note = fmt.Sprintf("rendered pasted GeoJSON  pts=%d ls=%d poly=%d", c.Points, c.Lines, c.Polygons)
		m.input = inputNone
		m.ta.Blur()
		if m.showAttrs {
			m.refreshAttrsFromCurrent()
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.ta, cmd = m.ta.Update(msg)
	return m, cmd
}

func (m Model) handleURLKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.input = inputNone
		m.ti.Blur()
		m.note = "view mode"
		return m, nil
	case "enter":
		u := strings.TrimSpace(m.ti.Value())
		m.input = inputNone
		m.ti.Blur()
		if u == "" {
			return m, nil
		}
		return m, m.start(viewer.Source{Kind: viewer.KindURL, Location: u})
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	lay := m.layout()
	x, y := msg.X-lay.mapX, msg.Y-lay.mapY
	inMap := x >= 0 && x < lay.mapW && y >= 0 && y < lay.mapH
	if msg.Action == tea.MouseActionRelease {
		m.dragging = false
	}
	if !inMap || m.input != inputNone || m.showAttrs {
		m.hoverHasGeo = false
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft &&
			m.panel.Expanded() && msg.X < lay.panelW {
			m.focus = focusPanel
		}
		return m, nil
	}

	// the control stack swallows every event that lands on it
	if a, ok := controlAt(x, y); ok {
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			m.runControl(a)
		}
		m.dragging = false
		m.hoverHasGeo = false
		return m, nil
	}

	view := m.mp.Viewport()
	sx, sy := float64(x*2+1), float64(y*4+2)
	switch {
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonWheelUp:
		m.zoomAround(sx, sy, 1)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonWheelDown:
		m.zoomAround(sx, sy, -1)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		m.dragging = true
		m.dragX, m.dragY = msg.X, msg.Y
		m.focus = focusMap
	case msg.Action == tea.MouseActionMotion && m.dragging:
		view.PanBy(float64(-(msg.X-m.dragX)*2), float64(-(msg.Y-m.dragY)*4))
		m.dragX, m.dragY = msg.X, msg.Y
	}

	p := view.FromScreen(sx, sy)
	m.hoverHasGeo = true
	m.hoverLon, m.hoverLat = p[0], p[1]
	return m, nil
}

// zoomAround changes the zoom keeping the point under (sx, sy) in place.
func (m *Model) zoomAround(sx, sy float64, delta int) {
	view := m.mp.Viewport()
	p := view.FromScreen(sx, sy)
	view.SetView(view.Center(), view.Zoom()+delta)
	nx, ny := view.ToScreen(p)
	view.PanBy(nx-sx, ny-sy)
	m.note = zoomNote(view.Zoom())
}

func (m *Model) togglePanel() {
	m.panel.Toggle()
	m.afterPanelChange()
}

func (m *Model) afterPanelChange() {
	if m.panel.Collapsed() {
		m.focus = focusMap
		m.note = "panel hidden"
	} else {
		m.refreshDir()
		m.note = "panel shown"
	}
	m.syncLayout()
}

func (m Model) panelFocused() bool {
	return m.panel.Expanded() && m.focus == focusPanel
}

func zoomNote(z int) string { return fmt.Sprintf("zoom: %d", z) }
