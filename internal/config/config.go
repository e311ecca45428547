package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"gjmap/internal/prefs"
)

// Config holds all application configuration.
type Config struct {
	Map   MapConfig   `mapstructure:"map"`
	Style StyleConfig `mapstructure:"style"`
	Fetch FetchConfig `mapstructure:"fetch"`
	State StateConfig `mapstructure:"state"`
	Log   LogConfig   `mapstructure:"log"`
}

type MapConfig struct {
	CenterLat  float64 `mapstructure:"center_lat"`
	CenterLon  float64 `mapstructure:"center_lon"`
	Zoom       int     `mapstructure:"zoom"`
	MaxZoom    int     `mapstructure:"max_zoom"`
	FitPadding int     `mapstructure:"fit_padding"`
	TileGrid   bool    `mapstructure:"tile_grid"`
}

type StyleConfig struct {
	Color       string `mapstructure:"color"`
	Weight      int    `mapstructure:"weight"`
	PointRadius int    `mapstructure:"point_radius"`
}

type FetchConfig struct {
	Timeout   time.Duration `mapstructure:"timeout"`
	Rate      float64       `mapstructure:"rate"`
	Burst     int           `mapstructure:"burst"`
	CacheSize int           `mapstructure:"cache_size"`
	MaxBytes  int64         `mapstructure:"max_bytes"`
	UserAgent string        `mapstructure:"user_agent"`
}

type StateConfig struct {
	Dir string `mapstructure:"dir"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

// flagKeys maps command-line flags onto config keys.
var flagKeys = map[string]string{
	"state-dir": "state.dir",
	"log-file":  "log.file",
	"log-level": "log.level",
}

var hexColor = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Map: MapConfig{
			CenterLat:  55.751244,
			CenterLon:  37.618423,
			Zoom:       10,
			MaxZoom:    19,
			FitPadding: 8,
			TileGrid:   true,
		},
		Style: StyleConfig{Color: "#1976d2", Weight: 2, PointRadius: 5},
		Fetch: FetchConfig{
			Rate:      2,
			Burst:     2,
			CacheSize: 32,
			MaxBytes:  64 << 20,
			UserAgent: "gjmap/0.1",
		},
		State: StateConfig{Dir: prefs.DefaultDir()},
		Log:   LogConfig{Level: "info", Format: "text"},
	}
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("map.center_lat", d.Map.CenterLat)
	v.SetDefault("map.center_lon", d.Map.CenterLon)
	v.SetDefault("map.zoom", d.Map.Zoom)
	v.SetDefault("map.max_zoom", d.Map.MaxZoom)
	v.SetDefault("map.fit_padding", d.Map.FitPadding)
	v.SetDefault("map.tile_grid", d.Map.TileGrid)
	v.SetDefault("style.color", d.Style.Color)
	v.SetDefault("style.weight", d.Style.Weight)
	v.SetDefault("style.point_radius", d.Style.PointRadius)
	v.SetDefault("fetch.timeout", d.Fetch.Timeout)
	v.SetDefault("fetch.rate", d.Fetch.Rate)
	v.SetDefault("fetch.burst", d.Fetch.Burst)
	v.SetDefault("fetch.cache_size", d.Fetch.CacheSize)
	v.SetDefault("fetch.max_bytes", d.Fetch.MaxBytes)
	v.SetDefault("fetch.user_agent", d.Fetch.UserAgent)
	v.SetDefault("state.dir", d.State.Dir)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("log.file", d.Log.File)
}

// Load reads configuration from defaults, an optional config file, .env,
// environment variables (GJMAP_MAP_ZOOM → map.zoom) and flags, in rising
// precedence. configFile overrides the config search path.
func Load(configFile string, flags *pflag.FlagSet) (*Config, error) {
	_ = godotenv.Load() // OK if missing

	v := viper.New()

	setDefaults(v, Default())

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "gjmap"))
		}
		_ = v.ReadInConfig() // OK if missing
	}

	v.SetEnvPrefix("GJMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
		if f := flags.Lookup("no-grid"); f != nil && f.Changed && f.Value.String() == "true" {
			v.Set("map.tile_grid", false)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if cfg.Log.File == "" && cfg.State.Dir != "" {
		cfg.Log.File = filepath.Join(cfg.State.Dir, "gjmap.log")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that configuration values are sane.
func (c *Config) Validate() error {
	var errs []string

	if c.Map.CenterLat < -90 || c.Map.CenterLat > 90 {
		errs = append(errs, fmt.Sprintf("map.center_lat must be -90..90, got %g", c.Map.CenterLat))
	}
	if c.Map.CenterLon < -180 || c.Map.CenterLon > 180 {
		errs = append(errs, fmt.Sprintf("map.center_lon must be -180..180, got %g", c.Map.CenterLon))
	}
	if c.Map.MaxZoom < 0 || c.Map.MaxZoom > 24 {
		errs = append(errs, fmt.Sprintf("map.max_zoom must be 0-24, got %d", c.Map.MaxZoom))
	}
	if c.Map.Zoom < 0 || c.Map.Zoom > c.Map.MaxZoom {
		errs = append(errs, fmt.Sprintf("map.zoom must be 0-%d, got %d", c.Map.MaxZoom, c.Map.Zoom))
	}
	if c.Map.FitPadding < 0 {
		errs = append(errs, "map.fit_padding must not be negative")
	}
	if !hexColor.MatchString(c.Style.Color) {
		errs = append(errs, fmt.Sprintf("style.color must be a #rgb or #rrggbb color, got %q", c.Style.Color))
	}
	if c.Style.Weight < 1 {
		errs = append(errs, "style.weight must be positive")
	}
	if c.Style.PointRadius < 1 {
		errs = append(errs, "style.point_radius must be positive")
	}
	if c.Fetch.Timeout < 0 {
		errs = append(errs, "fetch.timeout must not be negative")
	}
	if c.Fetch.Rate <= 0 {
		errs = append(errs, "fetch.rate must be positive")
	}
	if c.Fetch.Burst < 1 {
		errs = append(errs, "fetch.burst must be positive")
	}
	if c.Fetch.CacheSize < 1 {
		errs = append(errs, "fetch.cache_size must be positive")
	}
	if c.Fetch.MaxBytes < 1 {
		errs = append(errs, "fetch.max_bytes must be positive")
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Sprintf("log.format must be text or json, got %q", c.Log.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
