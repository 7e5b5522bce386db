package main

import (
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "html2xml",
		Short: "Extract the visual text layout of HTML pages as XML",
		Long: `html2xml renders HTML documents in headless Chrome, measures where every
word was laid out and writes the result as positioned pdftohtml-style XML.

Usage:
  html2xml extract <file.html|url> [flags]
  html2xml inspect <file.xml>
  html2xml serve [flags]`,
		SilenceUsage: true,
	}

	d := defaultConfig()
	pf := root.PersistentFlags()
	pf.String("config", "", "YAML config file (env "+envPrefix+"CONFIG)")
	pf.Bool("debug", false, "Log timing and progress diagnostics")
	pf.String("root-tag", d.RootTag, "Root element and DOCTYPE name (rhtml, html2xml, ...)")
	pf.Duration("segmentation-timeout", d.SegmentationTimeout, "Word segmentation budget; 0 disables it")
	pf.Duration("timeout", d.Timeout, "Maximum duration of one conversion; 0 disables it")
	pf.Bool("legacy-truncation", false, "Keep only the first line of every text node, as the historical extractor did")
	pf.String("chrome-path", "", "Chrome or Chromium executable (default: search PATH)")
	pf.Bool("no-sandbox", false, "Disable the Chrome sandbox (required when running as root)")
	pf.Bool("auto-download", false, "Download a compatible Chromium if none is installed")
	pf.Int("viewport-width", d.ViewportWidth, "Viewport width in CSS pixels")
	pf.Int("viewport-height", d.ViewportHeight, "Viewport height in CSS pixels")
	pf.Float64("device-scale-factor", d.ScaleFactor, "Device pixel ratio of the emulated screen")

	root.AddCommand(newExtractCmd(), newInspectCmd(), newServeCmd())
	return root
}

// resolveConfig loads the configuration for cmd and applies its flags.
func resolveConfig(cmd *cobra.Command) (config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return config{}, err
	}
	cfg, err := loadConfig(path)
	if err != nil {
		return cfg, err
	}
	if err := cfg.applyFlags(cmd.Flags()); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// newLogger writes human-readable logs to w, keeping them apart from the
// XML on stdout.
func newLogger(w io.Writer, debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}).
		Level(level).
		With().Timestamp().Logger()
}
