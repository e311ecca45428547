package tui

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	list "github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"gjmap/internal/viewer"
)

type fileItem struct {
	title, desc string
	path        string
}

func (f fileItem) Title() string       { return f.title }
func (f fileItem) Description() string { return f.desc }
func (f fileItem) FilterValue() string { return f.title }

// refreshDir lists the GeoJSON candidates in the working directory.
func (m *Model) refreshDir() {
	entries, err := os.ReadDir(m.cwd)
	if err != nil {
		m.note = "read dir error: " + err.Error()
		m.logger.Warn("listing directory failed", "dir", m.cwd, "error", err)
		return
	}
	var items []list.Item
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if ext == ".geojson" || ext == ".json" {
			items = append(items, fileItem{title: name, desc: ext, path: filepath.Join(m.cwd, name)})
		}
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].(fileItem).Title() < items[j].(fileItem).Title() })
	m.items = items
	m.l.SetItems(items)
}

// openSelected runs the file adapter on the highlighted entry. Nothing
// selected is a no-op.
func (m *Model) openSelected() tea.Cmd {
	it, ok := m.l.SelectedItem().(fileItem)
	if !ok {
		return nil
	}
	return m.start(viewer.Source{Kind: viewer.KindFile, Location: it.path})
}
