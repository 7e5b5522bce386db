package htmlxml

import (
	"errors"

	"github.com/porticus-lab/go-html-xml/internal/pdfxml"
)

// Sentinel errors returned by the library.
var (
	// ErrClosed is returned when attempting to use a closed [Converter].
	ErrClosed = errors.New("htmlxml: converter is closed")

	// ErrNoInput is returned when a conversion is given no document to load.
	ErrNoInput = errors.New("htmlxml: no input document")

	// ErrInvalidRootTag is returned when the configured root tag is not a
	// valid XML element name.
	ErrInvalidRootTag = pdfxml.ErrInvalidRootTag
)
