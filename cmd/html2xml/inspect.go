package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/porticus-lab/go-html-xml/internal/pdfxml"
)

var errNoText = errors.New("document contains no real text")

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file.xml>",
		Short: "Summarize a layout document and check that it holds text",
		Long: `Inspect parses a pdftohtml-style XML document, prints its page size and
element counts, and exits non-zero when no text element contains a word of
at least five lowercase letters.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			doc, err := pdfxml.Decode(f)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "root:   %s\n", doc.XMLName.Local)
			fmt.Fprintf(out, "pages:  %d\n", len(doc.Pages))
			for _, p := range doc.Pages {
				fmt.Fprintf(out, "page %d: %dx%d, %d fonts, %d texts\n",
					p.Number, p.Width, p.Height, len(p.Fontspecs), len(p.Texts))
			}
			if !doc.HasText() {
				return errNoText
			}
			return nil
		},
	}
}
