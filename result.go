package htmlxml

import (
	"bytes"
	"io"
	"os"

	"github.com/porticus-lab/go-html-xml/layout"
)

// Result holds a generated layout document: the encoded XML plus the page
// model it was rendered from.
//
// A Result is returned by every conversion method. Its methods may be
// called any number of times; the underlying data is never modified.
type Result struct {
	data []byte
	page *layout.Page
}

// Bytes returns the XML document, encoded as ISO-8859-1.
func (r *Result) Bytes() []byte {
	return r.data
}

// String returns the encoded XML document as a string. Non-ASCII
// characters are single Latin-1 bytes, not UTF-8.
func (r *Result) String() string {
	return string(r.data)
}

// Reader returns an [*bytes.Reader] over the XML document.
func (r *Result) Reader() *bytes.Reader {
	return bytes.NewReader(r.data)
}

// WriteTo writes the full XML document to w. It implements [io.WriterTo].
func (r *Result) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(r.data)
	return int64(n), err
}

// WriteToFile writes the XML document to the file at path, creating it if
// needed.
func (r *Result) WriteToFile(path string, perm os.FileMode) error {
	return os.WriteFile(path, r.data, perm)
}

// Len returns the size of the encoded document in bytes.
func (r *Result) Len() int {
	return len(r.data)
}

// Page returns the extracted page: its size, font declarations, text
// chunks and run statistics.
func (r *Result) Page() *layout.Page {
	return r.page
}

// Truncated reports whether segmentation ran out of time, in which case the
// document holds only the text found before the cutoff.
func (r *Result) Truncated() bool {
	return r.page != nil && r.page.Truncated
}
