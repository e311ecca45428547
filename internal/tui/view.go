package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	panelWidth   = 30
	headerHeight = 1
	footerHeight = 2
	attribution  = "© OpenStreetMap contributors"
)

var panelHints = []string{
	"Enter open file",
	"p paste GeoJSON",
	"u load from URL",
	"drop a file on the map",
}

// layout is where the panel and the map sit on screen, in cells.
type layout struct {
	panelW int
	listH  int
	mapX   int
	mapY   int
	mapW   int
	mapH   int
}

func (m Model) layout() layout {
	contentHeight := max(4, m.height-headerHeight-footerHeight)
	contentWidth := max(10, m.width)
	lay := layout{mapY: headerHeight, mapH: contentHeight}
	if m.panel.Expanded() {
		lay.panelW = panelWidth
		lay.listH = max(1, contentHeight-len(panelHints)-1)
		lay.mapX = panelWidth + 1
	}
	lay.mapW = max(10, contentWidth-lay.mapX)
	return lay
}

// syncLayout pushes the current layout into the map and the file list.
func (m *Model) syncLayout() {
	lay := m.layout()
	m.mp.Resize(lay.mapW, lay.mapH)
	if lay.panelW > 0 {
		m.l.SetSize(lay.panelW-2, lay.listH)
	}
}

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	lay := m.layout()
	contentWidth := max(10, m.width)

	// Header
	header := titleStyle.Render(" gjmap ─ GeoJSON map viewer ")
	header = lipgloss.NewStyle().Width(contentWidth).Padding(0).Render(header)

	// Map column
	var mapView string
	switch {
	case m.showAttrs:
		// Render attributes table centered in the map area
		colW := 0
		for _, c := range m.tbl.Columns() {
			colW += c.Width + 3
		}
		maxW := min(lay.mapW, max(32, colW))
		m.tbl.SetWidth(maxW - 4)
		m.tbl.SetHeight(min(lay.mapH-2, 20))
		attrsBox := boxStyle.Width(maxW).Render(m.tbl.View())
		mapView = lipgloss.Place(lay.mapW, lay.mapH, lipgloss.Center, lipgloss.Center, attrsBox)
	case m.input == inputPaste:
		m.ta.SetWidth(lay.mapW - 4)
		m.ta.SetHeight(max(3, min(lay.mapH-4, 16)))
		box := boxStyle.Render(titleStyle.Render("Paste GeoJSON") + "\n" + m.ta.View())
		mapView = lipgloss.Place(lay.mapW, lay.mapH, lipgloss.Left, lipgloss.Top, box)
	case m.input == inputURL:
		m.ti.Width = max(10, min(lay.mapW-16, 80))
		box := boxStyle.Render(titleStyle.Render("Load GeoJSON from URL") + "\n" + m.ti.View() +
			"\n" + dimStyle.Render("Enter load  Esc cancel"))
		mapView = lipgloss.Place(lay.mapW, lay.mapH, lipgloss.Center, lipgloss.Center, box)
	default:
		mapView = m.drawControls(m.mp.Render(lay.mapW, lay.mapH))
	}
	mapView = lipgloss.NewStyle().Width(lay.mapW).Height(lay.mapH).Render(mapView)

	// Body row
	body := mapView
	if lay.panelW > 0 {
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.renderPanel(lay), " ", mapView)
	}

	footer := m.renderFooter(contentWidth)

	ui := lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
	return appStyle.Width(contentWidth).Height(m.height).Render(ui)
}

func (m Model) renderPanel(lay layout) string {
	m.l.SetSize(lay.panelW-2, lay.listH)
	hints := make([]string, len(panelHints))
	for i, h := range panelHints {
		hints[i] = dimStyle.Render(" " + h)
	}
	content := lipgloss.JoinVertical(lipgloss.Left, m.l.View(), "", strings.Join(hints, "\n"))
	st := blurStyle
	if m.focus == focusPanel {
		st = focusStyle
	}
	return st.Width(lay.panelW - 1).Height(lay.mapH).Render(content)
}

// renderFooter draws the message line over the help line. The message line
// shows the load in flight, else the status of a failed load, else the latest note.
func (m Model) renderFooter(width int) string {
	var msg string
	src, loading := m.loader.Pending()
	switch {
	case loading:
		msg = dimStyle.Render(" loading " + src.Location + " … ")
	case m.status.Text() != "":
		msg = errorStyle.Render(" " + m.status.Text() + " ")
	default:
		msg = dimStyle.Render(" " + m.note + " ")
	}
	// mouse coords at bottom-right
	coords := ""
	if m.hoverHasGeo {
		coords = dimStyle.Render(fmt.Sprintf("  lon=%.5f lat=%.5f  ", m.hoverLon, m.hoverLat))
	}
	spacerW := max(0, width-lipgloss.Width(msg)-lipgloss.Width(coords))
	line1 := lipgloss.NewStyle().Width(width).MaxWidth(width).
		Render(msg + strings.Repeat(" ", spacerW) + coords)

	credit := dimStyle.Render(attribution + " ")
	help := m.renderHelp()
	spacerW = max(0, width-lipgloss.Width(help)-lipgloss.Width(credit))
	line2 := lipgloss.NewStyle().Width(width).MaxWidth(width).
		Render(help + strings.Repeat(" ", spacerW) + credit)
	return lipgloss.JoinVertical(lipgloss.Left, line1, line2)
}

func (m Model) renderHelp() string {
	if !m.helpVisible {
		return ""
	}
	keys := []string{
		"↑↓←→ pan",
		"+/- zoom",
		"h panel",
		"Tab focus",
		"p paste",
		"u url",
		"f fit",
		"r reload",
		"a attrs",
		"1/2/3 layers",
		"g grid",
		"? help",
		"q quit",
	}
	return dimStyle.Render(" " + strings.Join(keys, "  "))
}
