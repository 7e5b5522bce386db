package layout

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
)

// Chunk is a run of consecutive words of one text node that share a visual
// line and a font.
type Chunk struct {
	Left   int
	Top    int
	Width  int
	Height int
	// Text is the plain chunk text, words joined by single spaces.
	Text   string
	Font   int
	Bold   bool
	Italic bool
}

// Right returns the right edge of the chunk.
func (c Chunk) Right() int { return c.Left + c.Width }

// Bottom returns the bottom edge of the chunk.
func (c Chunk) Bottom() int { return c.Top + c.Height }

var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// XMLChars replaces every rune XML 1.0 does not allow in a document, such
// as C0 controls other than tab, newline and carriage return, with U+FFFD.
func XMLChars(s string) string {
	if strings.IndexFunc(s, invalidXMLChar) < 0 {
		return s
	}
	return strings.Map(func(r rune) rune {
		if invalidXMLChar(r) {
			return '\uFFFD'
		}
		return r
	}, s)
}

func invalidXMLChar(r rune) bool {
	switch {
	case r == '\t', r == '\n', r == '\r':
		return false
	case r < 0x20:
		return true
	case r >= 0xD800 && r <= 0xDFFF, r == 0xFFFE, r == 0xFFFF:
		return true
	}
	return r > 0x10FFFF
}

// Markup returns the chunk text as XML character data. Bold text is
// wrapped in <b>, and the result in <i> when italic, the way pdftohtml
// marks up font variants.
func (c Chunk) Markup() string {
	s := textEscaper.Replace(XMLChars(c.Text))
	if c.Bold {
		s = "<b>" + s + "</b>"
	}
	if c.Italic {
		s = "<i>" + s + "</i>"
	}
	return s
}

// Page is the extraction result for one document.
type Page struct {
	// RealWidth and RealHeight cover the body and every retained chunk.
	RealWidth  int
	RealHeight int
	Fonts      []FontSpec
	// Chunks are in discovery order; no sorting is applied.
	Chunks []Chunk
	// Truncated reports that segmentation ran out of time and the page
	// holds only the words collected before the cutoff.
	Truncated bool
	Stats     Stats
}

// ExtractionContext owns the state of one extraction run: the font table,
// the chunk list and the growing page bounding box.
type ExtractionContext struct {
	fonts   FontTable
	chunks  []Chunk
	width   int
	height  int
	skipped int

	legacy bool
	log    zerolog.Logger
}

// NewExtractionContext starts a run whose page box is seeded with the body
// size.
//
// By default a chunk spans from its first word's left edge to its last
// word's right edge, and every visual line of a block yields its own chunks.
// With legacyTruncation set the run reproduces the historical output: chunk
// width is the sum of word widths, leaving out inter-word spacing, and only
// the first visual line of every block produces a chunk.
func NewExtractionContext(body Size, legacyTruncation bool, log zerolog.Logger) *ExtractionContext {
	return &ExtractionContext{
		width:  body.Width,
		height: body.Height,
		legacy: legacyTruncation,
		log:    log,
	}
}

// Build looks up the style of every block and merges its fragments into
// chunks. A block whose style cannot be computed is skipped. Only
// cancellation of ctx stops the build.
func (x *ExtractionContext) Build(ctx context.Context, doc Document, blocks []Block) error {
	for _, b := range blocks {
		if err := ctx.Err(); err != nil {
			return err
		}
		if len(b.Fragments) == 0 {
			continue
		}
		style, err := doc.Style(ctx, b.Node)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			x.skipped++
			x.log.Debug().Err(err).Int("node", b.Node.ID).Msg("skipping block without computed style")
			continue
		}
		x.merge(b.Fragments, style, x.fonts.ID(style.Key()))
	}
	return nil
}

// merge walks the fragments of one block, extending the current chunk while
// the next fragment sits on the same top coordinate.
func (x *ExtractionContext) merge(frags []Fragment, style Style, font int) {
	var (
		cur   Chunk
		words []string
	)
	start := func(f Fragment) {
		cur = Chunk{
			Left:   f.Box.Left,
			Top:    f.Box.Top,
			Width:  f.Box.Width,
			Height: f.Box.Height,
			Font:   font,
			Bold:   style.Bold(),
			Italic: style.Italic(),
		}
		words = append(words[:0], f.Text)
	}

	start(frags[0])
	for _, f := range frags[1:] {
		if f.Box.Top == cur.Top {
			if x.legacy {
				cur.Width += f.Box.Width
			} else {
				// Right-to-left lines arrive rightmost word first.
				left := min(cur.Left, f.Box.Left)
				cur.Width = max(cur.Right(), f.Box.Right()) - left
				cur.Left = left
			}
			cur.Height = max(cur.Height, f.Box.Height)
			words = append(words, f.Text)
			continue
		}
		x.add(cur, words)
		if x.legacy {
			return
		}
		start(f)
	}
	x.add(cur, words)
}

func (x *ExtractionContext) add(c Chunk, words []string) {
	c.Text = strings.Join(strings.Fields(strings.Join(words, " ")), " ")
	if c.Height <= 0 {
		return
	}
	x.chunks = append(x.chunks, c)
	x.width = max(x.width, c.Right())
	x.height = max(x.height, c.Bottom())
}

// Page returns the result of the run so far.
func (x *ExtractionContext) Page() *Page {
	return &Page{
		RealWidth:  x.width,
		RealHeight: x.height,
		Fonts:      x.fonts.Specs(),
		Chunks:     x.chunks,
		Stats:      Stats{Chunks: len(x.chunks), SkippedBlocks: x.skipped},
	}
}
