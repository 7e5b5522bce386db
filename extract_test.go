package htmlxml_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	htmlxml "github.com/porticus-lab/go-html-xml"
	"github.com/porticus-lab/go-html-xml/internal/snapshot"
	"github.com/porticus-lab/go-html-xml/layout"
)

const helloSnapshot = `
width: 66
height: 12
root:
  tag: body
  offset: [0, 0, 66, 12]
  style: {font-family: Arial, font-size: 12px, color: black, font-weight: normal, font-style: normal}
  children:
    - text: Hello world
      words: [[0, 0, 30, 12], [32, 0, 34, 12]]
`

func loadSnapshot(t *testing.T, src string) *snapshot.Document {
	t.Helper()
	doc, err := snapshot.Parse([]byte(src))
	if err != nil {
		t.Fatalf("snapshot.Parse: %v", err)
	}
	return doc
}

func TestExtractDocument_HelloWorld(t *testing.T) {
	res, err := htmlxml.ExtractDocument(context.Background(), loadSnapshot(t, helloSnapshot))
	if err != nil {
		t.Fatalf("ExtractDocument: %v", err)
	}
	want := `<?xml version="1.0" encoding="ISO-8859-1"?>
<!DOCTYPE html2xml SYSTEM "html2xml.dtd">

<html2xml>
<page number="1" position="absolute" top="0" left="0" height="12" width="66">
   <fontspec id="1" size="12" family="Arial" color="black"/>

<text top="0" left="0" width="66" height="12" font="1">Hello world</text>
</page>
</html2xml>
`
	if res.String() != want {
		t.Errorf("output mismatch\n got:\n%s\nwant:\n%s", res.String(), want)
	}
	if res.Truncated() {
		t.Error("unexpected truncation")
	}
	if got := res.Page().Stats.Chunks; got != 1 {
		t.Errorf("Stats.Chunks = %d, want 1", got)
	}
}

func TestExtractDocument_RootTag(t *testing.T) {
	res, err := htmlxml.ExtractDocument(context.Background(), loadSnapshot(t, helloSnapshot),
		htmlxml.WithRootTag(htmlxml.RootRHTML))
	if err != nil {
		t.Fatalf("ExtractDocument: %v", err)
	}
	if !strings.HasPrefix(res.String(), `<?xml version="1.0" encoding="ISO-8859-1"?>`+"\n"+`<!DOCTYPE rhtml SYSTEM "rhtml.dtd">`) {
		t.Errorf("unexpected header:\n%s", res.String())
	}
}

func TestExtractDocument_InvalidRootTag(t *testing.T) {
	_, err := htmlxml.ExtractDocument(context.Background(), loadSnapshot(t, helloSnapshot), htmlxml.WithRootTag(""))
	if !errors.Is(err, htmlxml.ErrInvalidRootTag) {
		t.Fatalf("expected ErrInvalidRootTag, got %v", err)
	}
}

func TestExtractDocument_NilDocument(t *testing.T) {
	if _, err := htmlxml.ExtractDocument(context.Background(), nil); !errors.Is(err, htmlxml.ErrNoInput) {
		t.Fatalf("expected ErrNoInput, got %v", err)
	}
}

func TestExtractDocument_Legacy(t *testing.T) {
	doc := loadSnapshot(t, `
width: 100
height: 30
root:
  tag: body
  offset: [0, 0, 100, 30]
  style: {font-family: Arial, font-size: 12px, color: black}
  children:
    - text: first line wraps here
      words: [[0, 0, 20, 12], [24, 0, 20, 12], [0, 15, 30, 12], [34, 15, 20, 12]]
`)
	res, err := htmlxml.ExtractDocument(context.Background(), doc)
	if err != nil {
		t.Fatal(err)
	}
	if n := len(res.Page().Chunks); n != 2 {
		t.Errorf("got %d chunks, want 2", n)
	}

	res, err = htmlxml.ExtractDocument(context.Background(), doc, htmlxml.WithLegacyLineTruncation())
	if err != nil {
		t.Fatal(err)
	}
	chunks := res.Page().Chunks
	if len(chunks) != 1 {
		t.Fatalf("legacy: got %d chunks, want 1", len(chunks))
	}
	if chunks[0].Text != "first line" || chunks[0].Width != 40 {
		t.Errorf("legacy chunk = %+v, want %q with width 40", chunks[0], "first line")
	}
}

// slowDocument delays every measurement so the segmentation budget runs out.
type slowDocument struct {
	layout.Document
	delay time.Duration
}

func (d slowDocument) Measure(ctx context.Context, n layout.TextNode, spans []layout.Span) ([]layout.Box, error) {
	time.Sleep(d.delay)
	return d.Document.Measure(ctx, n, spans)
}

func TestExtractDocument_SegmentationTimeout(t *testing.T) {
	doc := loadSnapshot(t, `
width: 100
height: 60
root:
  tag: body
  offset: [0, 0, 100, 60]
  style: {font-family: Arial, font-size: 12px, color: black}
  children:
    - tag: p
      offset: [0, 0, 100, 12]
      children:
        - text: early
          words: [[0, 0, 30, 12]]
    - tag: p
      offset: [0, 20, 100, 12]
      children:
        - text: late
          words: [[0, 0, 30, 12]]
`)
	var logs bytes.Buffer
	res, err := htmlxml.ExtractDocument(context.Background(), slowDocument{Document: doc, delay: 20 * time.Millisecond},
		htmlxml.WithSegmentationTimeout(time.Millisecond),
		htmlxml.WithLogger(zerolog.New(&logs)),
	)
	if err != nil {
		t.Fatalf("ExtractDocument: %v", err)
	}
	if !res.Truncated() {
		t.Fatal("expected truncated result")
	}
	if !strings.Contains(res.String(), ">early</text>") || strings.Contains(res.String(), "late") {
		t.Errorf("expected only the first text node:\n%s", res.String())
	}
	if !strings.Contains(logs.String(), "segmentation budget exceeded") {
		t.Errorf("missing budget warning in logs: %s", logs.String())
	}
}

func TestExtractDocument_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := htmlxml.ExtractDocument(ctx, loadSnapshot(t, helloSnapshot))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

// panicDocument fails the way a broken render host would.
type panicDocument struct {
	layout.Document
}

func (panicDocument) TextNodes(context.Context) ([]layout.TextNode, error) {
	panic("text node walk failed")
}

func TestExtractDocument_RecoversPanic(t *testing.T) {
	var logs bytes.Buffer
	_, err := htmlxml.ExtractDocument(context.Background(), panicDocument{Document: loadSnapshot(t, helloSnapshot)},
		htmlxml.WithLogger(zerolog.New(&logs)),
	)
	if err == nil || !strings.Contains(err.Error(), "text node walk failed") {
		t.Fatalf("expected panic error, got %v", err)
	}
	if !strings.Contains(logs.String(), "extraction panicked") {
		t.Errorf("missing panic log: %s", logs.String())
	}
}
