package tui

import (
	"strings"
)

// controlWidth is the width in cells of every button in the control stack.
const controlWidth = 3

type controlAction int

const (
	actionZoomIn controlAction = iota
	actionZoomOut
	actionTogglePanel
)

// controlStack lists the buttons drawn down the map's top-left corner.
var controlStack = []controlAction{actionZoomIn, actionZoomOut, actionTogglePanel}

func (m Model) controlLabel(a controlAction) string {
	switch a {
	case actionZoomIn:
		return "[+]"
	case actionZoomOut:
		return "[-]"
	}
	return "[" + m.panel.Glyph() + "]"
}

// controlAt reports which button covers the map-relative cell (x, y).
func controlAt(x, y int) (controlAction, bool) {
	if x < 0 || x >= controlWidth || y < 0 || y >= len(controlStack) {
		return 0, false
	}
	return controlStack[y], true
}

// drawControls writes the buttons over the blank area the map reserves for them.
func (m Model) drawControls(mapView string) string {
	rows := strings.Split(mapView, "\n")
	for i, a := range controlStack {
		if i >= len(rows) {
			break
		}
		r := []rune(rows[i])
		if len(r) < controlWidth {
			continue
		}
		rows[i] = controlStyle.Render(m.controlLabel(a)) + string(r[controlWidth:])
	}
	return strings.Join(rows, "\n")
}

// runControl performs a button's action.
func (m *Model) runControl(a controlAction) {
	switch a {
	case actionZoomIn:
		m.mp.Viewport().ZoomIn()
		m.note = zoomNote(m.mp.Viewport().Zoom())
	case actionZoomOut:
		m.mp.Viewport().ZoomOut()
		m.note = zoomNote(m.mp.Viewport().Zoom())
	case actionTogglePanel:
		m.togglePanel()
	}
}
