package pdfxml

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"strings"

	"golang.org/x/net/html/charset"
)

// Document is a parsed layout document. The root element name is kept in
// XMLName; any root is accepted.
type Document struct {
	XMLName xml.Name
	Pages   []Page `xml:"page"`
}

// Page is one <page> element.
type Page struct {
	Number    int        `xml:"number,attr"`
	Position  string     `xml:"position,attr"`
	Top       int        `xml:"top,attr"`
	Left      int        `xml:"left,attr"`
	Height    int        `xml:"height,attr"`
	Width     int        `xml:"width,attr"`
	Fontspecs []Fontspec `xml:"fontspec"`
	Texts     []Text     `xml:"text"`
}

// Fontspec is one <fontspec> declaration.
type Fontspec struct {
	ID     int    `xml:"id,attr"`
	Size   int    `xml:"size,attr"`
	Family string `xml:"family,attr"`
	Color  string `xml:"color,attr"`
}

// Text is one positioned <text> element. Inner holds the raw content,
// including <b>/<i> markup.
type Text struct {
	Top    int    `xml:"top,attr"`
	Left   int    `xml:"left,attr"`
	Width  int    `xml:"width,attr"`
	Height int    `xml:"height,attr"`
	Font   int    `xml:"font,attr"`
	Inner  string `xml:",innerxml"`
}

// Plain returns the text content with markup removed and entities
// resolved.
func (t Text) Plain() string {
	d := xml.NewDecoder(strings.NewReader("<t>" + t.Inner + "</t>"))
	var b strings.Builder
	for {
		tok, err := d.Token()
		if err != nil {
			break
		}
		if cd, ok := tok.(xml.CharData); ok {
			b.Write(cd)
		}
	}
	return b.String()
}

// Decode parses a layout document from r. The charset named by the XML
// declaration is honored.
func Decode(r io.Reader) (*Document, error) {
	d := xml.NewDecoder(r)
	d.CharsetReader = charset.NewReaderLabel
	var doc Document
	if err := d.Decode(&doc); err != nil {
		return nil, fmt.Errorf("pdfxml: decoding: %w", err)
	}
	return &doc, nil
}

// Unmarshal parses a layout document from data.
func Unmarshal(data []byte) (*Document, error) {
	return Decode(bytes.NewReader(data))
}

var wordPattern = regexp.MustCompile(`[a-z]{5}`)

// HasText reports whether any text element contains a run of at least five
// lowercase letters, the check used to tell real text from extraction
// noise.
func (d *Document) HasText() bool {
	for _, p := range d.Pages {
		for _, t := range p.Texts {
			if wordPattern.MatchString(t.Plain()) {
				return true
			}
		}
	}
	return false
}

// Font returns the fontspec with the given id.
func (p *Page) Font(id int) (Fontspec, bool) {
	for _, f := range p.Fontspecs {
		if f.ID == id {
			return f, true
		}
	}
	return Fontspec{}, false
}
