package htmlxml

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/porticus-lab/go-html-xml/internal/pdfxml"
	"github.com/porticus-lab/go-html-xml/layout"
)

// Root tags of the two historical producers of the output format.
const (
	RootRHTML    = pdfxml.RootRHTML
	RootHTML2XML = pdfxml.RootHTML2XML
)

// converterConfig holds internal configuration for a Converter.
type converterConfig struct {
	chromePath   string
	timeout      time.Duration
	noSandbox    bool
	headless     string
	autoDownload bool
	viewport     *Viewport

	rootTag    string
	segTimeout time.Duration
	legacy     bool
	logger     zerolog.Logger
	debug      bool
}

func defaultConfig() converterConfig {
	return converterConfig{
		timeout:    60 * time.Second,
		headless:   "new",
		rootTag:    RootHTML2XML,
		segTimeout: layout.DefaultSegmentationTimeout,
		logger:     zerolog.Nop(),
	}
}

func newConfig(opts []Option) converterConfig {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	return cfg
}

// log returns the logger with debug output suppressed unless WithDebug was
// given.
func (c *converterConfig) log() zerolog.Logger {
	if !c.debug && c.logger.GetLevel() < zerolog.InfoLevel {
		return c.logger.Level(zerolog.InfoLevel)
	}
	return c.logger
}

// Option configures a [Converter] or a call to [ExtractDocument].
type Option func(*converterConfig)

// WithChromePath sets the path to the Chrome or Chromium executable.
// By default the library searches standard locations automatically.
func WithChromePath(path string) Option {
	return func(c *converterConfig) {
		c.chromePath = path
	}
}

// WithTimeout sets the maximum duration for a single conversion, covering
// navigation, extraction and serialization. Defaults to 60 seconds. A zero
// or negative value disables the timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *converterConfig) {
		c.timeout = d
	}
}

// WithNoSandbox disables the Chrome sandbox. This is required when
// running as root, for example inside Docker containers.
func WithNoSandbox() Option {
	return func(c *converterConfig) {
		c.noSandbox = true
	}
}

// WithAutoDownload fetches a compatible Chromium build on first use when no
// explicit path is configured.
func WithAutoDownload() Option {
	return func(c *converterConfig) {
		c.autoDownload = true
	}
}

// WithViewport sets the window size documents are laid out in.
// Defaults to [Desktop].
func WithViewport(v Viewport) Option {
	return func(c *converterConfig) {
		c.viewport = &v
	}
}

// WithRootTag sets the root element and DOCTYPE name of the output.
// Defaults to [RootHTML2XML].
func WithRootTag(tag string) Option {
	return func(c *converterConfig) {
		c.rootTag = tag
	}
}

// WithSegmentationTimeout bounds the time spent splitting the document into
// words. When it runs out, the words collected so far are serialized and
// [Result.Truncated] reports true. Defaults to 20 seconds. A zero or
// negative value disables the budget.
func WithSegmentationTimeout(d time.Duration) Option {
	return func(c *converterConfig) {
		c.segTimeout = d
	}
}

// WithLegacyLineTruncation reproduces the output of the historical
// extractor: only the first visual line of each text node is emitted and
// chunk widths leave out inter-word spacing.
func WithLegacyLineTruncation() Option {
	return func(c *converterConfig) {
		c.legacy = true
	}
}

// WithLogger sets the logger that receives warnings and, with [WithDebug],
// timing and progress diagnostics. Logging is disabled by default.
func WithLogger(l zerolog.Logger) Option {
	return func(c *converterConfig) {
		c.logger = l
	}
}

// WithDebug enables debug-level diagnostics on the configured logger.
func WithDebug() Option {
	return func(c *converterConfig) {
		c.debug = true
	}
}
