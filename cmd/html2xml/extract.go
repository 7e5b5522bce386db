package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	htmlxml "github.com/porticus-lab/go-html-xml"
	"github.com/porticus-lab/go-html-xml/internal/snapshot"
)

var errTruncated = errors.New("output truncated by the segmentation timeout")

func newExtractCmd() *cobra.Command {
	var (
		output           string
		fromSnapshot     bool
		failOnTruncation bool
	)
	cmd := &cobra.Command{
		Use:   "extract <file.html|url>",
		Short: "Extract the text layout of one document",
		Long: `Extract loads a document, measures every visible word and writes the
positioned text as XML to stdout or the file given with -o.

Examples:
  html2xml extract page.html
  html2xml extract https://example.com --root-tag rhtml -o example.xml
  html2xml extract layout.yaml --snapshot`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			log := newLogger(cmd.ErrOrStderr(), cfg.Debug)

			var res *htmlxml.Result
			if fromSnapshot {
				res, err = extractSnapshot(cmd.Context(), args[0], cfg, log)
			} else {
				res, err = extractBrowser(cmd.Context(), args[0], cfg, log)
			}
			if err != nil {
				log.Error().Err(err).Str("input", args[0]).Msg("extraction failed")
				return err
			}

			if err := writeOutput(cmd.OutOrStdout(), output, res); err != nil {
				return err
			}
			log.Debug().
				Int("chunks", len(res.Page().Chunks)).
				Int("fonts", len(res.Page().Fonts)).
				Int("bytes", res.Len()).
				Msg("document written")

			if res.Truncated() {
				log.Warn().Msg("output holds only the text found before the segmentation timeout")
				if failOnTruncation {
					return errTruncated
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write XML to file (default: stdout)")
	cmd.Flags().BoolVar(&fromSnapshot, "snapshot", false, "Treat the argument as a recorded layout snapshot (YAML or JSON)")
	cmd.Flags().BoolVar(&failOnTruncation, "fail-on-truncation", false, "Exit non-zero when the segmentation timeout cut the output short")
	return cmd
}

func extractSnapshot(ctx context.Context, path string, cfg config, log zerolog.Logger) (*htmlxml.Result, error) {
	doc, err := snapshot.Load(path)
	if err != nil {
		return nil, err
	}
	return htmlxml.ExtractDocument(ctx, doc, cfg.extractOptions(log)...)
}

func extractBrowser(ctx context.Context, input string, cfg config, log zerolog.Logger) (*htmlxml.Result, error) {
	conv, err := htmlxml.NewConverter(cfg.converterOptions(log)...)
	if err != nil {
		return nil, err
	}
	defer conv.Close()

	if isURL(input) {
		return conv.ConvertURL(ctx, input)
	}
	return conv.ConvertFile(ctx, input)
}

func isURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	switch u.Scheme {
	case "http", "https", "file":
		return true
	}
	return false
}

func writeOutput(stdout io.Writer, path string, res *htmlxml.Result) error {
	if path == "" || path == "-" {
		_, err := res.WriteTo(stdout)
		return err
	}
	if err := res.WriteToFile(path, 0o644); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}
