// Package panel holds the side panel's visibility and the control that
// toggles it. The flag survives restarts through a key/value store.
package panel

import (
	"log/slog"
)

// StorageKey is the key the visibility flag is stored under.
const StorageKey = "panelCollapsed"

const (
	GlyphCollapsed = "☰"
	GlyphExpanded  = "×"
)

// Store is where the flag is persisted.
type Store interface {
	Get(key string) (string, error)
	Set(key, value string) error
}

// Control is the panel visibility state machine. Every change goes through
// SetCollapsed, which also persists it.
type Control struct {
	store     Store
	logger    *slog.Logger
	collapsed bool
}

// New restores the flag from store. A missing flag is written as expanded;
// store errors are logged and otherwise ignored.
func New(store Store, logger *slog.Logger) *Control {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Control{store: store, logger: logger}
	if store == nil {
		return c
	}
	v, err := store.Get(StorageKey)
	switch {
	case err != nil:
		logger.Warn("panel state unavailable", "error", err)
	case v == "":
		c.persist()
	default:
		c.collapsed = v == "1"
	}
	return c
}

func (c *Control) Collapsed() bool { return c.collapsed }
func (c *Control) Expanded() bool  { return !c.collapsed }

// SetCollapsed changes the visibility and persists it as "1" or "0".
func (c *Control) SetCollapsed(collapsed bool) {
	if collapsed == c.collapsed {
		return
	}
	c.collapsed = collapsed
	c.logger.Debug("panel toggled", "collapsed", collapsed)
	c.persist()
}

func (c *Control) Toggle() { c.SetCollapsed(!c.collapsed) }

// HandleKey toggles on the keyboard activations "h" and space and reports
// whether the key was consumed.
func (c *Control) HandleKey(key string) bool {
	switch key {
	case "h", " ":
		c.Toggle()
		return true
	}
	return false
}

// Glyph is the control's label: "☰" offers to show the panel, "×" to hide it.
func (c *Control) Glyph() string {
	if c.collapsed {
		return GlyphCollapsed
	}
	return GlyphExpanded
}

// AriaExpanded mirrors the state as "true" or "false".
func (c *Control) AriaExpanded() string {
	if c.collapsed {
		return "false"
	}
	return "true"
}

func (c *Control) Title() string {
	if c.collapsed {
		return "Show panel"
	}
	return "Hide panel"
}

func (c *Control) persist() {
	if c.store == nil {
		return
	}
	v := "0"
	if c.collapsed {
		v = "1"
	}
	if err := c.store.Set(StorageKey, v); err != nil {
		c.logger.Warn("panel state not saved", "error", err)
	}
}
