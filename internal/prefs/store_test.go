package prefs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileStoreRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	s := NewFileStore(dir)

	v, err := s.Get("panelCollapsed")
	if err != nil || v != "" {
		t.Fatalf("missing key: %q, %v", v, err)
	}
	if err := s.Set("panelCollapsed", "1"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	// a fresh store sees the value written by the first one
	again := NewFileStore(dir)
	v, err = again.Get("panelCollapsed")
	if err != nil || v != "1" {
		t.Fatalf("reloaded: %q, %v", v, err)
	}
	if _, err := os.Stat(filepath.Join(dir, "state.yaml.tmp")); !os.IsNotExist(err) {
		t.Errorf("temp file left behind")
	}
}

func TestFileStoreCorrupt(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "state.yaml"), []byte("a: [1,"), 0o644); err != nil {
		t.Fatal(err)
	}
	s := NewFileStore(dir)
	if _, err := s.Get("panelCollapsed"); err == nil {
		t.Error("expected parse error")
	}
}

func TestFileStoreUnwritable(t *testing.T) {
	file := filepath.Join(t.TempDir(), "plain")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	s := NewFileStore(filepath.Join(file, "sub"))
	if err := s.Set("k", "v"); err == nil {
		t.Error("expected error writing beneath a regular file")
	}
}

func TestMemory(t *testing.T) {
	var m Memory
	if v, _ := m.Get("k"); v != "" {
		t.Fatalf("got %q", v)
	}
	m.Set("k", "v")
	if v, _ := m.Get("k"); v != "v" {
		t.Fatalf("got %q", v)
	}
}
