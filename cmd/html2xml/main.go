// html2xml extracts the visual text layout of HTML documents as
// pdftohtml-style XML.
//
// Usage:
//
//	html2xml extract [flags] <file.html|url>
//	html2xml inspect <file.xml>
//	html2xml serve [flags]
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
