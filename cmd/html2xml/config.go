package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	htmlxml "github.com/porticus-lab/go-html-xml"
	"github.com/porticus-lab/go-html-xml/layout"
)

const envPrefix = "HTML2XML_"

// config is the resolved CLI configuration. Values come from, in
// increasing order of precedence: defaults, the YAML config file,
// HTML2XML_* environment variables and command-line flags.
type config struct {
	RootTag             string        `yaml:"root_tag"`
	Debug               bool          `yaml:"debug"`
	SegmentationTimeout time.Duration `yaml:"segmentation_timeout"`
	Timeout             time.Duration `yaml:"timeout"`
	LegacyTruncation    bool          `yaml:"legacy_truncation"`

	ChromePath     string  `yaml:"chrome_path"`
	NoSandbox      bool    `yaml:"no_sandbox"`
	AutoDownload   bool    `yaml:"auto_download"`
	ViewportWidth  int     `yaml:"viewport_width"`
	ViewportHeight int     `yaml:"viewport_height"`
	ScaleFactor    float64 `yaml:"device_scale_factor"`

	Listen       string `yaml:"listen"`
	MaxBodyBytes int64  `yaml:"max_body_bytes"`
}

func defaultConfig() config {
	vp := htmlxml.DefaultViewport()
	return config{
		RootTag:             htmlxml.RootHTML2XML,
		SegmentationTimeout: layout.DefaultSegmentationTimeout,
		Timeout:             60 * time.Second,
		ViewportWidth:       vp.Width,
		ViewportHeight:      vp.Height,
		ScaleFactor:         vp.DeviceScaleFactor,
		Listen:              ":8090",
	}
}

// loadConfig layers the config file at path (if any) and the environment
// over the defaults.
func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	if path == "" {
		path = os.Getenv(envPrefix + "CONFIG")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	cfg.RootTag = envOr("ROOT_TAG", cfg.RootTag)
	cfg.Debug = envBool("DEBUG", cfg.Debug)
	cfg.SegmentationTimeout = envDuration("SEGMENTATION_TIMEOUT", cfg.SegmentationTimeout)
	cfg.Timeout = envDuration("TIMEOUT", cfg.Timeout)
	cfg.LegacyTruncation = envBool("LEGACY_TRUNCATION", cfg.LegacyTruncation)
	cfg.ChromePath = envOr("CHROME_PATH", cfg.ChromePath)
	cfg.NoSandbox = envBool("NO_SANDBOX", cfg.NoSandbox)
	cfg.AutoDownload = envBool("AUTO_DOWNLOAD", cfg.AutoDownload)
	cfg.ViewportWidth = envInt("VIEWPORT_WIDTH", cfg.ViewportWidth)
	cfg.ViewportHeight = envInt("VIEWPORT_HEIGHT", cfg.ViewportHeight)
	cfg.ScaleFactor = envFloat("DEVICE_SCALE_FACTOR", cfg.ScaleFactor)
	cfg.Listen = envOr("LISTEN", cfg.Listen)
	cfg.MaxBodyBytes = envInt64("MAX_BODY_BYTES", cfg.MaxBodyBytes)
	return cfg, nil
}

// applyFlags overrides cfg with every flag set on the command line.
func (c *config) applyFlags(fs *pflag.FlagSet) error {
	var err error
	fs.Visit(func(f *pflag.Flag) {
		if err != nil {
			return
		}
		switch f.Name {
		case "root-tag":
			c.RootTag, err = fs.GetString(f.Name)
		case "debug":
			c.Debug, err = fs.GetBool(f.Name)
		case "segmentation-timeout":
			c.SegmentationTimeout, err = fs.GetDuration(f.Name)
		case "timeout":
			c.Timeout, err = fs.GetDuration(f.Name)
		case "legacy-truncation":
			c.LegacyTruncation, err = fs.GetBool(f.Name)
		case "chrome-path":
			c.ChromePath, err = fs.GetString(f.Name)
		case "no-sandbox":
			c.NoSandbox, err = fs.GetBool(f.Name)
		case "auto-download":
			c.AutoDownload, err = fs.GetBool(f.Name)
		case "viewport-width":
			c.ViewportWidth, err = fs.GetInt(f.Name)
		case "viewport-height":
			c.ViewportHeight, err = fs.GetInt(f.Name)
		case "device-scale-factor":
			c.ScaleFactor, err = fs.GetFloat64(f.Name)
		case "listen":
			c.Listen, err = fs.GetString(f.Name)
		case "max-body-bytes":
			c.MaxBodyBytes, err = fs.GetInt64(f.Name)
		}
	})
	return err
}

// extractOptions returns the options shared by browser and snapshot runs.
func (c config) extractOptions(log zerolog.Logger) []htmlxml.Option {
	opts := []htmlxml.Option{
		htmlxml.WithLogger(log),
		htmlxml.WithRootTag(c.RootTag),
		htmlxml.WithSegmentationTimeout(c.SegmentationTimeout),
		htmlxml.WithTimeout(c.Timeout),
	}
	if c.LegacyTruncation {
		opts = append(opts, htmlxml.WithLegacyLineTruncation())
	}
	if c.Debug {
		opts = append(opts, htmlxml.WithDebug())
	}
	return opts
}

// converterOptions returns the options for a browser-backed Converter.
func (c config) converterOptions(log zerolog.Logger) []htmlxml.Option {
	opts := append(c.extractOptions(log),
		htmlxml.WithChromePath(c.ChromePath),
		htmlxml.WithViewport(htmlxml.Viewport{
			Width:             c.ViewportWidth,
			Height:            c.ViewportHeight,
			DeviceScaleFactor: c.ScaleFactor,
		}),
	)
	if c.NoSandbox {
		opts = append(opts, htmlxml.WithNoSandbox())
	}
	if c.AutoDownload {
		opts = append(opts, htmlxml.WithAutoDownload())
	}
	return opts
}

func envOr(key, fallback string) string {
	if v := os.Getenv(envPrefix + key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(envPrefix + key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(envPrefix + key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(envPrefix + key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(envPrefix + key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(envPrefix + key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
