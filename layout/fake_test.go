package layout

import (
	"context"
	"fmt"
)

// fakeDoc is an in-memory Document. Boxes are keyed by node id and must
// line up with SplitWords of the node text.
type fakeDoc struct {
	body       Size
	nodes      []TextNode
	boxes      map[int][]Box
	styles     map[int]Style
	styleErr   map[int]error
	measureErr map[int]error

	measured []int
}

func (d *fakeDoc) BodySize(context.Context) (Size, error) { return d.body, nil }

func (d *fakeDoc) TextNodes(context.Context) ([]TextNode, error) { return d.nodes, nil }

func (d *fakeDoc) Measure(_ context.Context, n TextNode, spans []Span) ([]Box, error) {
	d.measured = append(d.measured, n.ID)
	if err := d.measureErr[n.ID]; err != nil {
		return nil, err
	}
	boxes, ok := d.boxes[n.ID]
	if !ok {
		return nil, fmt.Errorf("no boxes for node %d", n.ID)
	}
	if len(boxes) != len(spans) {
		return nil, fmt.Errorf("node %d: %d boxes for %d spans", n.ID, len(boxes), len(spans))
	}
	return boxes, nil
}

func (d *fakeDoc) Style(_ context.Context, n TextNode) (Style, error) {
	if err := d.styleErr[n.ID]; err != nil {
		return Style{}, err
	}
	if s, ok := d.styles[n.ID]; ok {
		return s, nil
	}
	return arial12, nil
}

var arial12 = Style{
	FontFamily: "Arial",
	FontSize:   "12px",
	Color:      "black",
	FontWeight: "normal",
	FontStyle:  "normal",
}

// helloWorld is a body with one paragraph whose two words sit on one line.
func helloWorld() *fakeDoc {
	return &fakeDoc{
		body:  Size{Width: 50, Height: 10},
		nodes: []TextNode{{ID: 1, Text: "Hello world", ParentHeight: 12}},
		boxes: map[int][]Box{
			1: {{Left: 0, Top: 0, Width: 30, Height: 12}, {Left: 32, Top: 0, Width: 34, Height: 12}},
		},
	}
}
