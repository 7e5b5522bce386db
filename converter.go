package htmlxml

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/chromedp"

	"github.com/porticus-lab/go-html-xml/internal/pdfxml"
)

// Converter renders HTML documents in headless Chrome and extracts their
// visual text layout as XML.
//
// A Converter manages a headless browser instance that is reused across
// multiple conversions. Every conversion runs in its own tab, which is
// closed when the conversion returns. It is safe for concurrent use.
//
// Call [Converter.Close] when the Converter is no longer needed to release
// browser resources.
type Converter struct {
	cfg           converterConfig
	allocCtx      context.Context
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc

	mu     sync.Mutex
	closed bool
}

// NewConverter creates a Converter with the given options.
//
// It starts a headless browser in the background. The caller must call
// [Converter.Close] when finished.
func NewConverter(opts ...Option) (*Converter, error) {
	cfg := newConfig(opts)
	if err := pdfxml.ValidateRootTag(cfg.rootTag); err != nil {
		return nil, fmt.Errorf("htmlxml: %w", err)
	}
	execPath, err := cfg.browserPath()
	if err != nil {
		return nil, err
	}

	allocOpts := append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("disable-translate", true),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("hide-scrollbars", true),
		chromedp.Flag("headless", cfg.headless),
	)
	if execPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(execPath))
	}
	if cfg.noSandbox {
		allocOpts = append(allocOpts, chromedp.Flag("no-sandbox", true))
	}

	log := cfg.log()
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(func(format string, args ...any) { log.Debug().Msgf(format, args...) }),
		chromedp.WithErrorf(func(format string, args ...any) { log.Error().Msgf(format, args...) }),
	)

	// Start the browser eagerly so errors surface at creation time.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("htmlxml: starting browser: %w", err)
	}
	log.Debug().Str("exec_path", execPath).Msg("browser started")

	return &Converter{
		cfg:           cfg,
		allocCtx:      allocCtx,
		allocCancel:   allocCancel,
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
	}, nil
}

// Close releases all resources held by the Converter, including the
// browser process. Close is idempotent.
func (c *Converter) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	c.browserCancel()
	c.allocCancel()
	return nil
}

// ConvertHTML loads an HTML string and extracts its text layout.
func (c *Converter) ConvertHTML(ctx context.Context, html string) (*Result, error) {
	if err := c.checkClosed(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(html) == "" {
		return nil, ErrNoInput
	}

	f, err := os.CreateTemp("", "htmlxml-*.html")
	if err != nil {
		return nil, fmt.Errorf("htmlxml: creating temp file: %w", err)
	}
	name := f.Name()
	defer os.Remove(name)

	if _, err := f.WriteString(html); err != nil {
		f.Close()
		return nil, fmt.Errorf("htmlxml: writing temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("htmlxml: closing temp file: %w", err)
	}

	abs, err := filepath.Abs(name)
	if err != nil {
		return nil, fmt.Errorf("htmlxml: resolving path: %w", err)
	}
	return c.convert(ctx, fileURL(abs))
}

// ConvertURL loads the web page at rawURL and extracts its text layout.
func (c *Converter) ConvertURL(ctx context.Context, rawURL string) (*Result, error) {
	if err := c.checkClosed(); err != nil {
		return nil, err
	}
	if rawURL == "" {
		return nil, ErrNoInput
	}
	if _, err := url.ParseRequestURI(rawURL); err != nil {
		return nil, fmt.Errorf("htmlxml: invalid URL %q: %w", rawURL, err)
	}
	return c.convert(ctx, rawURL)
}

// ConvertFile loads a local HTML file and extracts its text layout.
func (c *Converter) ConvertFile(ctx context.Context, path string) (*Result, error) {
	if err := c.checkClosed(); err != nil {
		return nil, err
	}
	if path == "" {
		return nil, ErrNoInput
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("htmlxml: resolving path: %w", err)
	}
	if _, err := os.Stat(abs); err != nil {
		return nil, fmt.Errorf("htmlxml: %w", err)
	}
	return c.convert(ctx, fileURL(abs))
}

// convert loads targetURL in a fresh tab and runs the extraction there.
func (c *Converter) convert(ctx context.Context, targetURL string) (*Result, error) {
	if c.cfg.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.timeout)
		defer cancel()
	}

	tabCtx, tabCancel := chromedp.NewContext(c.browserCtx)
	defer tabCancel()
	stop := context.AfterFunc(ctx, tabCancel)
	defer stop()

	vp := c.cfg.viewport.resolved()
	log := c.cfg.log()
	log.Debug().Str("url", targetURL).Int("width", vp.Width).Int("height", vp.Height).Msg("loading document")

	var res *Result
	err := chromedp.Run(tabCtx,
		emulation.SetDeviceMetricsOverride(int64(vp.Width), int64(vp.Height), vp.DeviceScaleFactor, vp.Mobile),
		chromedp.Navigate(targetURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			res, err = c.cfg.extract(ctx, cdpDocument{})
			return err
		}),
	)
	if err != nil {
		// The tab is canceled when ctx ends; report why.
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		log.Error().Err(err).Str("url", targetURL).Msg("conversion failed")
		return nil, fmt.Errorf("htmlxml: conversion failed: %w", err)
	}
	return res, nil
}

func (c *Converter) checkClosed() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	return nil
}

func fileURL(abs string) string {
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String()
}

// --- Package-level convenience functions ---

// ConvertHTML extracts the text layout of an HTML string using a temporary
// [Converter]. For repeated use, create a [Converter] with [NewConverter]
// to reuse the browser instance.
func ConvertHTML(ctx context.Context, html string, opts ...Option) (*Result, error) {
	conv, err := NewConverter(opts...)
	if err != nil {
		return nil, err
	}
	defer conv.Close()
	return conv.ConvertHTML(ctx, html)
}

// ConvertURL extracts the text layout of a web page using a temporary
// [Converter].
func ConvertURL(ctx context.Context, rawURL string, opts ...Option) (*Result, error) {
	conv, err := NewConverter(opts...)
	if err != nil {
		return nil, err
	}
	defer conv.Close()
	return conv.ConvertURL(ctx, rawURL)
}

// ConvertFile extracts the text layout of a local HTML file using a
// temporary [Converter].
func ConvertFile(ctx context.Context, path string, opts ...Option) (*Result, error) {
	conv, err := NewConverter(opts...)
	if err != nil {
		return nil, err
	}
	defer conv.Close()
	return conv.ConvertFile(ctx, path)
}
