package layout

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Options configures [Extract].
type Options struct {
	// SegmentationTimeout bounds word segmentation. Zero or negative
	// disables the budget.
	SegmentationTimeout time.Duration

	// LegacyLineTruncation keeps only the first visual line of every text
	// node and sums word widths, as the historical extractor did. See
	// NewExtractionContext.
	LegacyLineTruncation bool

	// Logger receives progress and timing diagnostics. Nil discards them.
	Logger *zerolog.Logger

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// Stats summarizes one extraction run.
type Stats struct {
	TextNodes     int
	Processed     int
	Blocks        int
	Fragments     int
	Dropped       int
	Chunks        int
	SkippedBlocks int
	Segmentation  time.Duration
	Build         time.Duration
}

// Extract runs word segmentation and chunk building over doc.
func Extract(ctx context.Context, doc Document, opts Options) (*Page, error) {
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	t0 := now()
	seg := &Segmenter{Timeout: opts.SegmentationTimeout, Now: now, Logger: log}
	res, err := seg.Segment(ctx, doc)
	if err != nil {
		return nil, err
	}
	t1 := now()
	log.Debug().
		Int("text_nodes", res.TextNodes).
		Int("blocks", len(res.Blocks)).
		Dur("elapsed", t1.Sub(t0)).
		Msg("segmented text nodes")

	body, err := doc.BodySize(ctx)
	if err != nil {
		return nil, fmt.Errorf("layout: reading body size: %w", err)
	}

	x := NewExtractionContext(body, opts.LegacyLineTruncation, log)
	if err := x.Build(ctx, doc, res.Blocks); err != nil {
		return nil, err
	}
	page := x.Page()
	page.Truncated = res.Truncated

	page.Stats.TextNodes = res.TextNodes
	page.Stats.Processed = res.Processed
	page.Stats.Blocks = len(res.Blocks)
	page.Stats.Dropped = res.Dropped
	for _, b := range res.Blocks {
		page.Stats.Fragments += len(b.Fragments)
	}
	page.Stats.Segmentation = t1.Sub(t0)
	page.Stats.Build = now().Sub(t1)

	log.Debug().
		Int("fonts", len(page.Fonts)).
		Int("chunks", len(page.Chunks)).
		Int("skipped_blocks", page.Stats.SkippedBlocks).
		Dur("elapsed", page.Stats.Build).
		Msg("built text chunks")
	return page, nil
}
