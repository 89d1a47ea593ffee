package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ByLCY/paperdoc/convert"
	"github.com/ByLCY/paperdoc/extract"
	"github.com/ByLCY/paperdoc/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the upload, extraction and download HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Server.Addr = addr
		}

		conv, err := convert.FromConfig(cfg)
		if err != nil {
			return err
		}
		logger := log.New(os.Stderr, "paperdoc: ", log.LstdFlags)
		if cfg.Gemini.APIKey == "" {
			logger.Printf("warning: no Gemini API key configured (set PAPERDOC_GEMINI_API_KEY); /api/process will return errors")
		}

		srv := server.New(server.Options{
			Converter: conv,
			Extractor: &extract.GeminiBackend{
				APIKey:     cfg.Gemini.APIKey,
				Model:      cfg.Gemini.Model,
				BaseURL:    cfg.Gemini.BaseURL,
				MaxRetries: cfg.Gemini.MaxRetries,
				Client:     &http.Client{Timeout: cfg.Gemini.Timeout},
			},
			UploadDir:      cfg.Server.UploadDir,
			MaxUploadBytes: cfg.Server.MaxUploadBytes,
			Logger:         logger,
		})

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return srv.ListenAndServe(ctx, cfg.Server.Addr)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (overrides server.addr, default :5000)")

	rootCmd.AddCommand(serveCmd)
}
