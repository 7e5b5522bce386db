// Package snapshot implements a render host backed by a pre-computed layout
// file instead of a live browser.
//
// A snapshot is a YAML (or JSON) element tree carrying offset geometry the
// way the DOM reports it: each element's offset is relative to its parent,
// the outermost element's offset is relative to the page, and each word box
// of a text node is relative to the element containing the text.
//
//	width: 800
//	height: 600
//	root:
//	  tag: body
//	  offset: [8, 8, 784, 40]
//	  style: {font-family: Arial, font-size: 12px, color: black}
//	  children:
//	    - tag: p
//	      offset: [0, 0, 784, 12]
//	      children:
//	        - text: Hello world
//	          words: [[0, 0, 30, 12], [32, 0, 34, 12]]
//
// Font properties in style are inherited by descendants. Computed-style
// queries fail for text inside an element marked detached, which is how
// renderers behave for nodes that dropped out of the document mid-run.
package snapshot

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/porticus-lab/go-html-xml/layout"
)

// Rect is an offset rectangle: left, top, width, height.
type Rect struct {
	Left, Top, Width, Height int
}

// UnmarshalYAML decodes a Rect from a four-element sequence.
func (r *Rect) UnmarshalYAML(n *yaml.Node) error {
	var v []int
	if err := n.Decode(&v); err != nil {
		return err
	}
	if len(v) != 4 {
		return fmt.Errorf("snapshot: line %d: rect needs 4 values, got %d", n.Line, len(v))
	}
	*r = Rect{Left: v[0], Top: v[1], Width: v[2], Height: v[3]}
	return nil
}

// Node is an element or, when Text is set, a text node.
type Node struct {
	Tag      string            `yaml:"tag"`
	Offset   Rect              `yaml:"offset"`
	Style    map[string]string `yaml:"style"`
	Detached bool              `yaml:"detached"`
	Children []Node            `yaml:"children"`

	Text  string `yaml:"text"`
	Words []Rect `yaml:"words"`
}

// File is the top-level snapshot structure. Width and Height are the
// rendered body size.
type File struct {
	Width  int  `yaml:"width"`
	Height int  `yaml:"height"`
	Root   Node `yaml:"root"`
}

type element struct {
	offset   Rect
	style    layout.Style
	detached bool
	parent   *element
}

func (e *element) OffsetLeft() int { return e.offset.Left }
func (e *element) OffsetTop() int  { return e.offset.Top }

func (e *element) OffsetParent() layout.OffsetNode {
	if e.parent == nil {
		return nil
	}
	return e.parent
}

func (e *element) unreachable() bool {
	for p := e; p != nil; p = p.parent {
		if p.detached {
			return true
		}
	}
	return false
}

// word is a word box whose offset parent is the element holding the text.
type word struct {
	rect   Rect
	parent *element
}

func (w word) OffsetLeft() int { return w.rect.Left }
func (w word) OffsetTop() int  { return w.rect.Top }

func (w word) OffsetParent() layout.OffsetNode {
	if w.parent == nil {
		return nil
	}
	return w.parent
}

type textNode struct {
	node   layout.TextNode
	parent *element
	words  []Rect
}

// Document is a loaded snapshot. It implements layout.Document.
type Document struct {
	body  layout.Size
	nodes []textNode
}

var _ layout.Document = (*Document)(nil)

// Load reads a snapshot file from disk.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}
	return Parse(data)
}

// Parse decodes a snapshot from YAML or JSON.
func Parse(data []byte) (*Document, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("snapshot: decoding: %w", err)
	}
	return New(f), nil
}

// New builds a Document from a decoded snapshot.
func New(f File) *Document {
	d := &Document{body: layout.Size{Width: f.Width, Height: f.Height}}
	d.walk(f.Root, nil, layout.Style{})
	return d
}

func (d *Document) walk(n Node, parent *element, inherited layout.Style) {
	if n.Tag == "" && n.Text != "" {
		tn := textNode{parent: parent, words: n.Words}
		tn.node = layout.TextNode{ID: len(d.nodes), Text: n.Text}
		if parent != nil {
			tn.node.ParentHeight = parent.offset.Height
		}
		d.nodes = append(d.nodes, tn)
		return
	}
	el := &element{
		offset:   n.Offset,
		style:    cascade(inherited, n.Style),
		detached: n.Detached,
		parent:   parent,
	}
	for _, c := range n.Children {
		d.walk(c, el, el.style)
	}
}

func cascade(s layout.Style, props map[string]string) layout.Style {
	for k, v := range props {
		switch k {
		case "font-family":
			s.FontFamily = v
		case "font-size":
			s.FontSize = v
		case "color":
			s.Color = v
		case "font-weight":
			s.FontWeight = v
		case "font-style":
			s.FontStyle = v
		}
	}
	return s
}

// BodySize returns the body size recorded in the snapshot.
func (d *Document) BodySize(context.Context) (layout.Size, error) {
	return d.body, nil
}

// TextNodes returns the text nodes in document order.
func (d *Document) TextNodes(context.Context) ([]layout.TextNode, error) {
	out := make([]layout.TextNode, len(d.nodes))
	for i, n := range d.nodes {
		out[i] = n.node
	}
	return out, nil
}

func (d *Document) lookup(n layout.TextNode) (textNode, error) {
	if n.ID < 0 || n.ID >= len(d.nodes) {
		return textNode{}, fmt.Errorf("snapshot: unknown text node %d", n.ID)
	}
	tn := d.nodes[n.ID]
	if tn.parent == nil {
		return textNode{}, layout.ErrUnreachable
	}
	return tn, nil
}

// Measure returns the absolute box of each recorded word. The snapshot must
// hold exactly one word box per span.
func (d *Document) Measure(_ context.Context, n layout.TextNode, spans []layout.Span) ([]layout.Box, error) {
	tn, err := d.lookup(n)
	if err != nil {
		return nil, err
	}
	if len(tn.words) != len(spans) {
		return nil, fmt.Errorf("snapshot: text node %d has %d word boxes for %d words", n.ID, len(tn.words), len(spans))
	}
	boxes := make([]layout.Box, len(spans))
	for i, r := range tn.words {
		left, top := layout.AbsoluteOffset(word{rect: r, parent: tn.parent})
		boxes[i] = layout.Box{Left: left, Top: top, Width: r.Width, Height: r.Height}
	}
	return boxes, nil
}

// Style returns the cascaded style of the element containing n.
func (d *Document) Style(_ context.Context, n layout.TextNode) (layout.Style, error) {
	tn, err := d.lookup(n)
	if err != nil {
		return layout.Style{}, err
	}
	if tn.parent.unreachable() {
		return layout.Style{}, fmt.Errorf("snapshot: style of text node %d: %w", n.ID, layout.ErrUnreachable)
	}
	return tn.parent.style, nil
}
