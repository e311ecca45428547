package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func testFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("gjmap", pflag.ContinueOnError)
	fs.String("state-dir", "", "")
	fs.String("log-file", "", "")
	fs.String("log-level", "info", "")
	fs.Bool("no-grid", false, "")
	return fs
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	cfg, err := Load("", nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Map.Zoom != 10 || cfg.Map.MaxZoom != 19 || !cfg.Map.TileGrid {
		t.Errorf("map defaults: %+v", cfg.Map)
	}
	if cfg.Map.CenterLat != 55.751244 || cfg.Map.CenterLon != 37.618423 {
		t.Errorf("center: %g,%g", cfg.Map.CenterLat, cfg.Map.CenterLon)
	}
	if cfg.Style.Color != "#1976d2" || cfg.Style.Weight != 2 || cfg.Style.PointRadius != 5 {
		t.Errorf("style defaults: %+v", cfg.Style)
	}
	if cfg.Fetch.Timeout != 0 || cfg.Fetch.UserAgent != "gjmap/0.1" {
		t.Errorf("fetch defaults: %+v", cfg.Fetch)
	}
	if filepath.Base(cfg.Log.File) != "gjmap.log" || filepath.Dir(cfg.Log.File) != cfg.State.Dir {
		t.Errorf("log file %q not under state dir %q", cfg.Log.File, cfg.State.Dir)
	}
}

func TestLoadEnvAndFlags(t *testing.T) {
	state := t.TempDir()
	t.Setenv("GJMAP_MAP_ZOOM", "4")
	t.Setenv("GJMAP_FETCH_TIMEOUT", "15s")
	t.Setenv("GJMAP_LOG_LEVEL", "warn")

	fs := testFlags()
	if err := fs.Parse([]string{"--state-dir", state, "--log-level", "debug", "--no-grid"}); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load("", fs)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Map.Zoom != 4 {
		t.Errorf("zoom %d", cfg.Map.Zoom)
	}
	if cfg.Fetch.Timeout != 15*time.Second {
		t.Errorf("timeout %v", cfg.Fetch.Timeout)
	}
	if cfg.State.Dir != state {
		t.Errorf("state dir %q", cfg.State.Dir)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("flag should beat env, got level %q", cfg.Log.Level)
	}
	if cfg.Map.TileGrid {
		t.Error("--no-grid ignored")
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gjmap.yaml")
	data := "map:\n  zoom: 3\nstyle:\n  color: \"#ff0000\"\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Map.Zoom != 3 || cfg.Style.Color != "#ff0000" {
		t.Errorf("file values not applied: %+v %+v", cfg.Map, cfg.Style)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil); err == nil {
		t.Error("explicit missing config file should fail")
	}
}

func TestValidateCollectsErrors(t *testing.T) {
	cfg := Config{
		Map:   MapConfig{CenterLat: 91, Zoom: 20, MaxZoom: 19},
		Style: StyleConfig{Color: "blue", Weight: 0, PointRadius: 5},
		Fetch: FetchConfig{Rate: 1, Burst: 1, CacheSize: 1, MaxBytes: 1},
		Log:   LogConfig{Format: "xml"},
	}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"map.center_lat", "map.zoom", "style.color", "style.weight", "log.format"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("missing %s in %v", want, err)
		}
	}
	if strings.Contains(err.Error(), "fetch.") {
		t.Errorf("valid fetch section reported: %v", err)
	}
}

func TestDefaultIsValid(t *testing.T) {
	d := Default()
	if err := d.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}
