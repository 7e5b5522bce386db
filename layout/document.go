// Package layout turns the rendered geometry of a document into positioned
// text chunks.
//
// The package never computes layout itself. A render host supplies final
// geometry and computed styles through the [Document] interface; layout
// segments text into words, asks the host where each word landed and merges
// words that share a visual line and a font into [Chunk]s.
package layout

import (
	"context"
	"errors"
	"strconv"
	"strings"
)

// ErrUnreachable is returned by a [Document] when a node has been detached
// or can no longer be queried for style or geometry.
var ErrUnreachable = errors.New("layout: node unreachable")

// Size is the rendered size of an element in CSS pixels.
type Size struct {
	Width  int
	Height int
}

// Box is an absolute bounding box in page coordinates (CSS pixels, origin
// at the top-left corner of the document).
type Box struct {
	Left   int
	Top    int
	Width  int
	Height int
}

// Right returns the right edge of the box.
func (b Box) Right() int { return b.Left + b.Width }

// Bottom returns the bottom edge of the box.
func (b Box) Bottom() int { return b.Top + b.Height }

// TextNode is a text node of the rendered document.
type TextNode struct {
	// ID identifies the node within one Document. It is opaque to layout.
	ID int
	// Text is the raw node value, untouched by whitespace normalization.
	Text string
	// ParentHeight is the rendered height of the node's parent element.
	// Text inside hidden containers, <title> or <script> reports 0.
	ParentHeight int
}

// Span addresses a word inside a TextNode. Start and End are offsets in
// UTF-16 code units, the unit used by browser Range APIs.
type Span struct {
	Start int
	End   int
	Text  string
}

// Style holds the computed style strings of the element that contains a
// text node, exactly as the renderer reports them.
type Style struct {
	FontFamily string
	FontSize   string
	Color      string
	FontWeight string
	FontStyle  string
}

// Size returns the leading integer of FontSize with its unit stripped, so
// "12px" and "12.5px" both yield 12. A size without leading digits is 0.
func (s Style) Size() int {
	v := strings.TrimSpace(s.FontSize)
	end := 0
	if end < len(v) && (v[end] == '-' || v[end] == '+') {
		end++
	}
	for end < len(v) && v[end] >= '0' && v[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(v[:end])
	if err != nil {
		return 0
	}
	return n
}

// Bold reports whether the font weight renders as bold.
func (s Style) Bold() bool {
	switch w := strings.TrimSpace(s.FontWeight); w {
	case "bold", "bolder":
		return true
	default:
		n, err := strconv.Atoi(w)
		return err == nil && n >= 700
	}
}

// Italic reports whether the font style is italic.
func (s Style) Italic() bool {
	return strings.TrimSpace(s.FontStyle) == "italic"
}

// Key returns the font identity of the style.
func (s Style) Key() FontKey {
	return FontKey{Family: s.FontFamily, Size: s.Size(), Color: s.Color}
}

// Document is the capability a render host exposes to the extractor: a
// loaded document that can be asked for its text, the geometry of any text
// span and the computed style around it.
//
// Implementations are used from a single goroutine for the duration of one
// extraction.
type Document interface {
	// BodySize returns the rendered size of the document body, or a zero
	// Size when the document has no body.
	BodySize(ctx context.Context) (Size, error)

	// TextNodes returns every text node of the document in document order.
	TextNodes(ctx context.Context) ([]TextNode, error)

	// Measure returns the absolute bounding box of each span of node, in
	// the order given. It returns ErrUnreachable if node is detached.
	Measure(ctx context.Context, node TextNode, spans []Span) ([]Box, error)

	// Style returns the computed style of the element containing node.
	Style(ctx context.Context, node TextNode) (Style, error)
}

// OffsetNode is an element that only exposes offset geometry relative to
// its offset parent, as the DOM's offsetLeft/offsetTop/offsetParent do.
type OffsetNode interface {
	OffsetLeft() int
	OffsetTop() int
	// OffsetParent returns nil at the document root.
	OffsetParent() OffsetNode
}

// AbsoluteOffset sums offsetLeft and offsetTop up the offsetParent chain,
// yielding the position of n in page coordinates.
func AbsoluteOffset(n OffsetNode) (left, top int) {
	for ; n != nil; n = n.OffsetParent() {
		left += n.OffsetLeft()
		top += n.OffsetTop()
	}
	return left, top
}
