package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	htmlxml "github.com/porticus-lab/go-html-xml"
	"github.com/porticus-lab/go-html-xml/internal/api"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve layout extraction over HTTP",
		Long: `Serve starts one headless browser and answers:

  POST /extract?url=<url>   extract a remote page
  POST /extract             extract the HTML document in the request body
  GET  /healthz             liveness check`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			log := newLogger(cmd.ErrOrStderr(), cfg.Debug)

			conv, err := htmlxml.NewConverter(cfg.converterOptions(log)...)
			if err != nil {
				return err
			}
			defer conv.Close()

			httpServer := &http.Server{
				Addr:         cfg.Listen,
				Handler:      api.NewServer(conv, log, cfg.MaxBodyBytes),
				ReadTimeout:  30 * time.Second,
				WriteTimeout: cfg.Timeout + 30*time.Second,
				IdleTimeout:  60 * time.Second,
			}

			// Graceful shutdown.
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			go func() {
				<-ctx.Done()
				log.Info().Msg("shutting down")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := httpServer.Shutdown(shutdownCtx); err != nil {
					log.Error().Err(err).Msg("server shutdown failed")
				}
			}()

			log.Info().Str("addr", cfg.Listen).Msg("starting html2xml server")
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().String("listen", defaultConfig().Listen, "Address to listen on")
	cmd.Flags().Int64("max-body-bytes", api.DefaultMaxBodyBytes, "Largest accepted request body in bytes")
	return cmd
}
