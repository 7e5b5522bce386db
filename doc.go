// Package htmlxml extracts the visual text layout of HTML documents into the
// positioned XML page format produced by pdftohtml -xml.
//
// A document is loaded in headless Chrome (Chrome DevTools Protocol), every
// visible text node is split into words, each word is measured where the
// browser laid it out, and words that share a line and a font are merged
// into absolutely positioned <text> elements:
//
//	<page number="1" position="absolute" top="0" left="0" height="12" width="66">
//	   <fontspec id="1" size="12" family="Arial" color="rgb(0, 0, 0)"/>
//
//	<text top="0" left="0" width="66" height="12" font="1">Hello world</text>
//	</page>
//
// For one-off conversions use the package-level helpers:
//
//	res, err := htmlxml.ConvertHTML(ctx, "<p>Hello world</p>")
//
// For repeated conversions create a [Converter], which reuses the browser process:
//
//	c, err := htmlxml.NewConverter(htmlxml.WithRootTag(htmlxml.RootRHTML))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer c.Close()
//
//	res, err := c.ConvertHTML(ctx, "<p>Hello world</p>")
//	res, err  = c.ConvertURL(ctx, "https://example.com")
//	res, err  = c.ConvertFile(ctx, "report.html")
//
// Word segmentation runs under a soft time budget ([WithSegmentationTimeout]).
// When it runs out the text found so far is still serialized and
// [Result.Truncated] reports true.
//
// A [Result] gives access to the encoded XML and the page model behind it:
//
//	res.Bytes()                       // []byte, ISO-8859-1
//	res.Reader()                      // *bytes.Reader
//	res.WriteTo(w)                    // io.WriterTo
//	res.WriteToFile("out.xml", 0o644) // write to disk
//	res.Page().Chunks                 // positioned text chunks
//
// Chrome or Chromium must be available in PATH, or use [WithAutoDownload]:
//
//	c, err := htmlxml.NewConverter(htmlxml.WithAutoDownload())
//
// [ExtractDocument] runs the same pipeline over any layout.Document, such as
// a recorded layout snapshot, without a browser.
package htmlxml
