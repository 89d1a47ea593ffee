package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ByLCY/paperdoc/convert"
	"github.com/ByLCY/paperdoc/layout"
	"github.com/ByLCY/paperdoc/markdown"
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Render a markdown file as .docx or .pdf",
	RunE: func(cmd *cobra.Command, args []string) error {
		in, _ := cmd.Flags().GetString("in")
		out, _ := cmd.Flags().GetString("out")
		formatName, _ := cmd.Flags().GetString("format")
		debugPath, _ := cmd.Flags().GetString("debug")
		backend, _ := cmd.Flags().GetString("backend")

		if formatName == "" {
			formatName = formatFromPath(out)
		}
		format, err := convert.ParseFormat(formatName)
		if err != nil {
			return err
		}
		if backend != "" {
			cfg.PDF.Backend = backend
		}
		return runConvert(in, out, debugPath, format)
	},
}

func init() {
	convertCmd.Flags().String("in", "-", "markdown input file, - for stdin")
	convertCmd.Flags().String("out", "output/converted_document.pdf", "output document path")
	convertCmd.Flags().String("format", "", "docx or pdf (default: from the --out extension)")
	convertCmd.Flags().String("backend", "", "pdf backend: canvas or fpdf (overrides config)")
	convertCmd.Flags().String("debug", "", "write the paginated layout as JSON to this path")

	rootCmd.AddCommand(convertCmd)
}

func formatFromPath(path string) string {
	ext := filepath.Ext(path)
	if ext == "" {
		return ""
	}
	return ext[1:]
}

// runConvert 串联读取、排版与写出。
func runConvert(inPath, outPath, debugPath string, format convert.Format) error {
	text, err := readInput(inPath)
	if err != nil {
		return err
	}

	conv, err := convert.FromConfig(cfg)
	if err != nil {
		return err
	}

	if debugPath != "" {
		res, err := conv.Layout(markdown.Parse(text))
		if err != nil {
			return fmt.Errorf("布局计算失败: %w", err)
		}
		if err := writeDebug(res, debugPath); err != nil {
			return err
		}
	}

	doc, err := conv.Convert(text, format)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	if err := os.WriteFile(outPath, doc.Data, 0o644); err != nil {
		return fmt.Errorf("写入输出文件失败: %w", err)
	}
	fmt.Fprintf(os.Stderr, "wrote %s (%d bytes)\n", outPath, len(doc.Data))
	return nil
}

func readInput(path string) (string, error) {
	if path == "" || path == "-" {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("读取标准输入失败: %w", err)
		}
		return string(b), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("无法打开输入文件 %s: %w", path, err)
	}
	return string(b), nil
}

func writeDebug(result *layout.Result, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := layout.WriteDebugJSON(result, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}
