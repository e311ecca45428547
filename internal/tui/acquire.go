package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"gjmap/internal/viewer"
)

// loadedMsg carries an acquisition result back into Update.
type loadedMsg struct {
	res viewer.Result
}

// acquire reads a file, drop or URL source off the event loop.
func acquire(ctx context.Context, t viewer.Ticket, src viewer.Source, f viewer.Fetcher) tea.Cmd {
	return func() tea.Msg {
		data, err := viewer.Acquire(ctx, src, f)
		return loadedMsg{res: viewer.Result{Ticket: t, Source: src, Data: data, Err: err}}
	}
}

// start issues a ticket for src and returns the command acquiring it.
func (m *Model) start(src viewer.Source) tea.Cmd {
	t := m.loader.Begin(src)
	m.note = "loading " + src.Location
	return acquire(m.ctx, t, src, m.fetcher)
}
