// Command paperdoc converts extracted markdown into .docx and .pdf
// documents and serves the upload/extraction API.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ByLCY/paperdoc/config"
)

// cfg is loaded once before any subcommand runs.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "paperdoc",
	Short: "Convert extracted markdown into Word and PDF documents",
	Long: `paperdoc renders a small markdown dialect (headings, list items and
paragraphs with **bold** / *italic* runs) as an editable .docx flow document
or a paginated .pdf.

The serve subcommand exposes the upload, extraction and download API used by
the web front end.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		c, err := config.Load(path)
		if err != nil {
			return err
		}
		cfg = c
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default: ./paperdoc.yaml or ~/.config/paperdoc/paperdoc.yaml)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "paperdoc:", err)
		os.Exit(1)
	}
}
