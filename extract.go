package htmlxml

import (
	"context"
	"fmt"

	"github.com/porticus-lab/go-html-xml/internal/pdfxml"
	"github.com/porticus-lab/go-html-xml/layout"
)

// ExtractDocument runs extraction and serialization over an already loaded
// document. It is the browser-free counterpart of the Converter methods and
// accepts the same options; options that configure the browser are
// ignored.
func ExtractDocument(ctx context.Context, doc layout.Document, opts ...Option) (*Result, error) {
	if doc == nil {
		return nil, ErrNoInput
	}
	cfg := newConfig(opts)
	if err := pdfxml.ValidateRootTag(cfg.rootTag); err != nil {
		return nil, fmt.Errorf("htmlxml: %w", err)
	}
	if cfg.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.timeout)
		defer cancel()
	}
	res, err := cfg.extract(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("htmlxml: extraction failed: %w", err)
	}
	return res, nil
}

// extract builds the page model for doc and serializes it. A panic in the
// host or the pipeline is logged and returned as an error.
func (c *converterConfig) extract(ctx context.Context, doc layout.Document) (res *Result, err error) {
	log := c.log()
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("extraction panicked")
			res, err = nil, fmt.Errorf("panic: %v", r)
		}
	}()

	page, err := layout.Extract(ctx, doc, layout.Options{
		SegmentationTimeout:  c.segTimeout,
		LegacyLineTruncation: c.legacy,
		Logger:               &log,
	})
	if err != nil {
		return nil, err
	}
	data, err := pdfxml.Marshal(page, c.rootTag)
	if err != nil {
		return nil, err
	}
	return &Result{data: data, page: page}, nil
}
