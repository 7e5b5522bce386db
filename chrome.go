package htmlxml

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/chromedp/chromedp"

	"github.com/porticus-lab/go-html-xml/layout"
)

// cdpDocument implements layout.Document against the page loaded in a
// chromedp tab. Text nodes are collected once by TextNodes and kept in a
// page global so later queries can address them by index.
//
// Every method must be called with the tab's executor context.
type cdpDocument struct{}

var _ layout.Document = cdpDocument{}

const textNodesJS = `(() => {
	const nodes = [];
	const out = [];
	const root = document.documentElement;
	if (root) {
		const walker = document.createTreeWalker(root, NodeFilter.SHOW_TEXT);
		for (let n = walker.nextNode(); n; n = walker.nextNode()) {
			const p = n.parentElement;
			nodes.push(n);
			out.push({text: n.nodeValue, parentHeight: (p && p.offsetHeight) || 0});
		}
	}
	window.__html2xml = nodes;
	return out;
})()`

const bodySizeJS = `(() => {
	const b = document.body;
	return b ? {ok: true, width: b.offsetWidth, height: b.offsetHeight} : {ok: false};
})()`

// measureJS takes the node index and a list of [start, end] UTF-16 offsets.
// Boxes are client rects shifted by the scroll position into page
// coordinates.
const measureJS = `((id, spans) => {
	const n = (window.__html2xml || [])[id];
	if (!n || !n.isConnected) return {ok: false};
	const r = document.createRange();
	const boxes = spans.map(([s, e]) => {
		r.setStart(n, s);
		r.setEnd(n, e);
		const b = r.getBoundingClientRect();
		return [
			Math.round(b.left + window.scrollX),
			Math.round(b.top + window.scrollY),
			Math.round(b.width),
			Math.round(b.height),
		];
	});
	r.detach();
	return {ok: true, boxes: boxes};
})(%d, %s)`

const styleJS = `((id) => {
	const n = (window.__html2xml || [])[id];
	const p = n && n.parentElement;
	if (!p || !p.isConnected) return {ok: false};
	const s = window.getComputedStyle(p);
	return {
		ok: true,
		fontFamily: s.fontFamily,
		fontSize: s.fontSize,
		color: s.color,
		fontWeight: s.fontWeight,
		fontStyle: s.fontStyle,
	};
})(%d)`

func (cdpDocument) BodySize(ctx context.Context) (layout.Size, error) {
	var out struct {
		OK     bool `json:"ok"`
		Width  int  `json:"width"`
		Height int  `json:"height"`
	}
	if err := chromedp.Evaluate(bodySizeJS, &out).Do(ctx); err != nil {
		return layout.Size{}, err
	}
	if !out.OK {
		return layout.Size{}, nil
	}
	return layout.Size{Width: out.Width, Height: out.Height}, nil
}

func (cdpDocument) TextNodes(ctx context.Context) ([]layout.TextNode, error) {
	var out []struct {
		Text         string `json:"text"`
		ParentHeight int    `json:"parentHeight"`
	}
	if err := chromedp.Evaluate(textNodesJS, &out).Do(ctx); err != nil {
		return nil, err
	}
	nodes := make([]layout.TextNode, len(out))
	for i, n := range out {
		nodes[i] = layout.TextNode{ID: i, Text: n.Text, ParentHeight: n.ParentHeight}
	}
	return nodes, nil
}

func (cdpDocument) Measure(ctx context.Context, node layout.TextNode, spans []layout.Span) ([]layout.Box, error) {
	offsets := make([][2]int, len(spans))
	for i, sp := range spans {
		offsets[i] = [2]int{sp.Start, sp.End}
	}
	arg, err := json.Marshal(offsets)
	if err != nil {
		return nil, err
	}

	var out struct {
		OK    bool     `json:"ok"`
		Boxes [][4]int `json:"boxes"`
	}
	if err := chromedp.Evaluate(fmt.Sprintf(measureJS, node.ID, arg), &out).Do(ctx); err != nil {
		return nil, err
	}
	if !out.OK {
		return nil, layout.ErrUnreachable
	}
	boxes := make([]layout.Box, len(out.Boxes))
	for i, b := range out.Boxes {
		boxes[i] = layout.Box{Left: b[0], Top: b[1], Width: b[2], Height: b[3]}
	}
	return boxes, nil
}

func (cdpDocument) Style(ctx context.Context, node layout.TextNode) (layout.Style, error) {
	var out struct {
		OK         bool   `json:"ok"`
		FontFamily string `json:"fontFamily"`
		FontSize   string `json:"fontSize"`
		Color      string `json:"color"`
		FontWeight string `json:"fontWeight"`
		FontStyle  string `json:"fontStyle"`
	}
	if err := chromedp.Evaluate(fmt.Sprintf(styleJS, node.ID), &out).Do(ctx); err != nil {
		return layout.Style{}, err
	}
	if !out.OK {
		return layout.Style{}, layout.ErrUnreachable
	}
	return layout.Style{
		FontFamily: out.FontFamily,
		FontSize:   out.FontSize,
		Color:      out.Color,
		FontWeight: out.FontWeight,
		FontStyle:  out.FontStyle,
	}, nil
}
