package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/paulmach/orb"
	"github.com/spf13/cobra"

	"gjmap/internal/config"
	"gjmap/internal/fetch"
	"gjmap/internal/logging"
	"gjmap/internal/mapview"
	"gjmap/internal/prefs"
	"gjmap/internal/tui"
	"gjmap/internal/viewer"
)

func main() {
	var configFile string

	root := &cobra.Command{
		Use:     "gjmap [path|url]",
		Short:   "Terminal map viewer for GeoJSON",
		Version: "0.1.0",
		Args:    cobra.MaximumNArgs(1),

		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFile, cmd.Flags())
			if err != nil {
				return err
			}
			logger, closer, err := logging.Setup(cfg.Log.Level, cfg.Log.Format, cfg.Log.File)
			if err != nil {
				return fmt.Errorf("open log: %w", err)
			}
			defer closer.Close()

			client, err := newFetcher(cfg, logger)
			if err != nil {
				return err
			}
			opts := tui.Options{
				Config:  *cfg,
				Store:   prefs.NewFileStore(cfg.State.Dir),
				Fetcher: client,
				Logger:  logger,
			}
			if len(args) == 1 {
				opts.Preload = args[0]
			}
			logger.Info("starting", "state_dir", cfg.State.Dir, "preload", opts.Preload)
			_, err = tea.NewProgram(tui.New(opts), tea.WithAltScreen(), tea.WithMouseAllMotion()).Run()
			return err
		},
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "config file (default ./config.yaml)")
	root.PersistentFlags().String("state-dir", "", "directory for persisted UI state and the log")
	root.PersistentFlags().String("log-file", "", "log file (default <state-dir>/gjmap.log)")
	root.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
	root.Flags().Bool("no-grid", false, "hide the tile grid base layer")

	// check subcommand: run a load without the UI
	checkCmd := &cobra.Command{
		Use:   "check <path|url>",
		Short: "Load a GeoJSON file or URL and print what would be drawn",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFile, cmd.Flags())
			if err != nil {
				return err
			}
			logger, closer, err := logging.Setup(cfg.Log.Level, cfg.Log.Format, cfg.Log.File)
			if err != nil {
				return fmt.Errorf("open log: %w", err)
			}
			defer closer.Close()

			client, err := newFetcher(cfg, logger)
			if err != nil {
				return err
			}
			return check(cmd.Context(), cfg, client, logger, args[0], cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	root.AddCommand(checkCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newFetcher(cfg *config.Config, logger *slog.Logger) (*fetch.Client, error) {
	return fetch.New(nil, fetch.Options{
		Timeout:   cfg.Fetch.Timeout,
		Rate:      cfg.Fetch.Rate,
		Burst:     cfg.Fetch.Burst,
		CacheSize: cfg.Fetch.CacheSize,
		MaxBytes:  cfg.Fetch.MaxBytes,
		UserAgent: cfg.Fetch.UserAgent,
		Logger:    logger,
	})
}

// check loads arg without the UI. Records go to logger; stdout gets the
// summary and stderr the status text of a failed load.
func check(ctx context.Context, cfg *config.Config, f viewer.Fetcher, logger *slog.Logger, arg string, stdout, stderr io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	view := mapview.NewViewport(orb.Point{cfg.Map.CenterLon, cfg.Map.CenterLat}, cfg.Map.Zoom, cfg.Map.MaxZoom)
	mp := mapview.New(view, false)
	status := &viewer.Status{}
	style := mapview.Style{Color: cfg.Style.Color, Weight: cfg.Style.Weight, PointRadius: cfg.Style.PointRadius}
	pipeline := viewer.NewPipeline(mp, status, style, cfg.Map.FitPadding, logger)
	loader := viewer.NewLoader(pipeline, status, logger)

	src := viewer.Source{Kind: viewer.KindFile, Location: arg}
	if l := strings.ToLower(arg); strings.HasPrefix(l, "http://") || strings.HasPrefix(l, "https://") {
		src.Kind = viewer.KindURL
	}
	t := loader.Begin(src)
	data, err := viewer.Acquire(ctx, src, f)
	if lerr := loader.Complete(viewer.Result{Ticket: t, Source: src, Data: data, Err: err}); lerr != nil {
		fmt.Fprintln(stderr, status.Text())
		return errors.New("not loadable")
	}

	ov := pipeline.Current()
	c := ov.Counts()
	fmt.Fprintf(stdout, "features: %d  points: %d  lines: %d  polygons: %d\n",
		len(ov.Features().Features), c.Points, c.Lines, c.Polygons)
	if b, ok := ov.Bound(); ok {
		fmt.Fprintf(stdout, "bounds: [%.6f, %.6f, %.6f, %.6f]\n", b.Min[0], b.Min[1], b.Max[0], b.Max[1])
		if mapview.Degenerate(b) {
			fmt.Fprintln(stdout, "viewport: unchanged (no extent)")
		}
	}
	return nil
}
