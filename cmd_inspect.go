package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/ByLCY/paperdoc/markdown"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Print the parsed block structure of a markdown file",
	RunE: func(cmd *cobra.Command, args []string) error {
		in, _ := cmd.Flags().GetString("in")
		output, _ := cmd.Flags().GetString("output")

		text, err := readInput(in)
		if err != nil {
			return err
		}
		return dumpDocument(cmd.OutOrStdout(), markdown.Parse(text), output)
	},
}

func init() {
	inspectCmd.Flags().String("in", "-", "markdown input file, - for stdin")
	inspectCmd.Flags().String("output", "yaml", "output encoding: yaml or json")

	rootCmd.AddCommand(inspectCmd)
}

func dumpDocument(w io.Writer, doc *markdown.Document, encoding string) error {
	switch encoding {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	default:
		return fmt.Errorf("unknown output encoding %q: want yaml or json", encoding)
	}
}
