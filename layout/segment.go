package layout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf16"

	"github.com/rs/zerolog"
)

// DefaultSegmentationTimeout is the wall-clock budget for splitting a
// document into words.
const DefaultSegmentationTimeout = 20 * time.Second

// Fragment is one measured word of a text node.
type Fragment struct {
	Text string
	Box  Box
}

// Block is the list of fragments produced from one text node, in original
// text order.
type Block struct {
	Node      TextNode
	Fragments []Fragment
}

// Segmenter splits the text nodes of a Document into measured words.
type Segmenter struct {
	// Timeout bounds the time spent segmenting. Exceeding it stops early
	// without error. Zero or negative disables the budget.
	Timeout time.Duration

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time

	Logger zerolog.Logger
}

// SegmentResult is the output of [Segmenter.Segment].
type SegmentResult struct {
	Blocks []Block
	// TextNodes is the number of content text nodes found.
	TextNodes int
	// Processed is the number of content text nodes segmented before the
	// budget ran out.
	Processed int
	// Truncated is set when the time budget stopped segmentation early.
	Truncated bool
	// Dropped counts fragments discarded for rendering with zero width.
	Dropped int
}

func (s *Segmenter) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Segment collects the content text nodes of doc, splits each into words
// and measures them. Blocks that end up without any fragment are omitted.
func (s *Segmenter) Segment(ctx context.Context, doc Document) (*SegmentResult, error) {
	all, err := doc.TextNodes(ctx)
	if err != nil {
		return nil, fmt.Errorf("layout: listing text nodes: %w", err)
	}
	nodes := ContentNodes(all)
	res := &SegmentResult{TextNodes: len(nodes)}

	start := s.now()
	for _, n := range nodes {
		if s.Timeout > 0 && s.now().Sub(start) > s.Timeout {
			s.Logger.Warn().
				Dur("budget", s.Timeout).
				Int("processed", res.Processed).
				Int("text_nodes", res.TextNodes).
				Msg("segmentation budget exceeded, using partial result")
			res.Truncated = true
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res.Processed++

		spans := SplitWords(n.Text)
		if len(spans) == 0 {
			continue
		}
		boxes, err := doc.Measure(ctx, n, spans)
		if errors.Is(err, ErrUnreachable) {
			s.Logger.Debug().Int("node", n.ID).Msg("skipping unreachable text node")
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("layout: measuring text node %d: %w", n.ID, err)
		}
		if len(boxes) != len(spans) {
			return nil, fmt.Errorf("layout: text node %d: got %d boxes for %d spans", n.ID, len(boxes), len(spans))
		}

		b := Block{Node: n, Fragments: make([]Fragment, 0, len(spans))}
		for i, sp := range spans {
			if boxes[i].Width <= 0 {
				res.Dropped++
				continue
			}
			b.Fragments = append(b.Fragments, Fragment{Text: sp.Text, Box: boxes[i]})
		}
		if len(b.Fragments) > 0 {
			res.Blocks = append(res.Blocks, b)
		}
	}
	return res, nil
}

// ContentNodes filters nodes down to those carrying visible text: the
// trimmed text is non-empty and the parent element has a rendered height.
func ContentNodes(nodes []TextNode) []TextNode {
	out := make([]TextNode, 0, len(nodes))
	for _, n := range nodes {
		if strings.TrimSpace(n.Text) == "" || n.ParentHeight <= 0 {
			continue
		}
		out = append(out, n)
	}
	return out
}

// SplitWords splits text at spaces and hyphens. Every whitespace character
// counts as a space. A hyphen splits only when it is not the first
// character and comes before the next space, or when no space is left. The
// separator and any spaces after it are not part of a word.
func SplitWords(text string) []Span {
	runes := []rune(text)
	for i, r := range runes {
		if unicode.IsSpace(r) {
			runes[i] = ' '
		}
	}
	offsets := make([]int, len(runes)+1)
	for i, r := range runes {
		n := utf16.RuneLen(r)
		if n < 1 {
			n = 1
		}
		offsets[i+1] = offsets[i] + n
	}

	var spans []Span
	emit := func(from, to int) {
		if to > from {
			spans = append(spans, Span{
				Start: offsets[from],
				End:   offsets[to],
				Text:  string(runes[from:to]),
			})
		}
	}

	pos := 0
	for pos < len(runes) {
		rest := runes[pos:]
		cut := indexRune(rest, ' ')
		if minus := indexRune(rest, '-'); (minus > 0 && minus < cut) || cut == -1 {
			cut = minus
		}
		if cut == -1 {
			emit(pos, len(runes))
			break
		}
		emit(pos, pos+cut)
		pos += cut + 1
		for pos < len(runes) && runes[pos] == ' ' {
			pos++
		}
	}
	return spans
}

func indexRune(rs []rune, r rune) int {
	for i, c := range rs {
		if c == r {
			return i
		}
	}
	return -1
}
