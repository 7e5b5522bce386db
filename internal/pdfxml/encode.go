// Package pdfxml reads and writes the positioned text layout format of the
// pdftohtml -xml family: one <page> with <fontspec> declarations followed by
// absolutely positioned <text> elements.
package pdfxml

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	"github.com/porticus-lab/go-html-xml/layout"
)

// Root tags of the two historical producers of this format.
const (
	RootRHTML    = "rhtml"
	RootHTML2XML = "html2xml"
)

// ErrInvalidRootTag is returned for a root tag that is not an XML name.
var ErrInvalidRootTag = errors.New("pdfxml: invalid root tag")

var attrEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"\n", "&#10;",
	"\t", "&#9;",
)

// ValidateRootTag reports whether tag can be used as the root element name
// and DOCTYPE reference.
func ValidateRootTag(tag string) error {
	if tag == "" {
		return fmt.Errorf("%w: empty", ErrInvalidRootTag)
	}
	for i, r := range tag {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
		case i > 0 && (r >= '0' && r <= '9' || r == '-' || r == '.'):
		default:
			return fmt.Errorf("%w: %q", ErrInvalidRootTag, tag)
		}
	}
	return nil
}

// Render returns the document for page as a string, before charset
// encoding.
func Render(page *layout.Page, rootTag string) (string, error) {
	if err := ValidateRootTag(rootTag); err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="ISO-8859-1"?>` + "\n")
	b.WriteString(`<!DOCTYPE ` + rootTag + ` SYSTEM "` + rootTag + `.dtd">` + "\n")
	b.WriteString("\n")
	b.WriteString("<" + rootTag + ">\n")
	b.WriteString(`<page number="1" position="absolute" top="0" left="0"`)
	b.WriteString(` height="` + strconv.Itoa(page.RealHeight) + `" width="` + strconv.Itoa(page.RealWidth) + `">` + "\n")

	for _, f := range page.Fonts {
		fmt.Fprintf(&b, "   <fontspec id=\"%d\" size=\"%d\" family=\"%s\" color=\"%s\"/>\n",
			f.ID, f.Size, attr(f.Family), attr(f.Color))
	}
	b.WriteString("\n")
	for _, c := range page.Chunks {
		fmt.Fprintf(&b, "<text top=\"%d\" left=\"%d\" width=\"%d\" height=\"%d\" font=\"%d\">%s</text>\n",
			c.Top, c.Left, c.Width, c.Height, c.Font, c.Markup())
	}
	b.WriteString("</page>\n")
	b.WriteString("</" + rootTag + ">\n")
	return b.String(), nil
}

// Marshal renders page and encodes it as ISO-8859-1, matching the XML
// declaration. Characters outside Latin-1 become numeric character
// references.
func Marshal(page *layout.Page, rootTag string) ([]byte, error) {
	s, err := Render(page, rootTag)
	if err != nil {
		return nil, err
	}
	out, err := latin1().Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("pdfxml: encoding ISO-8859-1: %w", err)
	}
	return out, nil
}

// Encode writes the encoded document for page to w.
func Encode(w io.Writer, page *layout.Page, rootTag string) error {
	data, err := Marshal(page, rootTag)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func attr(s string) string {
	return attrEscaper.Replace(layout.XMLChars(s))
}

func latin1() *encoding.Encoder {
	return encoding.HTMLEscapeUnsupported(charmap.ISO8859_1.NewEncoder())
}
