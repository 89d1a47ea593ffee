// Package convert turns a markdown string into a downloadable document in
// one of the supported output formats.
package convert

import (
	"errors"
	"fmt"

	"github.com/ByLCY/paperdoc/config"
	"github.com/ByLCY/paperdoc/flow"
	"github.com/ByLCY/paperdoc/layout"
	"github.com/ByLCY/paperdoc/markdown"
	"github.com/ByLCY/paperdoc/renderer"
	canvasrenderer "github.com/ByLCY/paperdoc/renderer/canvas"
	fpdfrenderer "github.com/ByLCY/paperdoc/renderer/fpdf"
)

// Format is an output document format.
type Format string

const (
	FormatDOCX Format = "docx"
	FormatPDF  Format = "pdf"
)

const (
	MIMEDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MIMEPDF  = "application/pdf"
)

// ErrUnsupportedFormat is wrapped by ParseFormat for unknown format names.
var ErrUnsupportedFormat = errors.New(`invalid format. Use "docx" or "pdf"`)

// ParseFormat accepts exactly "docx" or "pdf".
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatDOCX, FormatPDF:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// MIMEType returns the Content-Type of documents in format f.
func (f Format) MIMEType() string {
	if f == FormatPDF {
		return MIMEPDF
	}
	return MIMEDOCX
}

// Filename is the attachment name offered for downloads.
func (f Format) Filename() string { return "converted_document." + string(f) }

// Output is a rendered document ready to be written or served.
type Output struct {
	Data     []byte
	MIMEType string
	Filename string
}

// Options configures a Converter. A nil Backend selects the canvas backend.
type Options struct {
	Backend  renderer.Backend
	PageSize layout.PageSize
	Margin   float64
	Flow     flow.Options
}

// Converter renders markdown into flow and paginated documents. It holds
// no per-request state and may be shared between goroutines as long as its
// backend may.
type Converter struct {
	backend  renderer.Backend
	pageSize layout.PageSize
	margin   float64
	flow     flow.Options
}

// New builds a Converter.
func New(opts Options) (*Converter, error) {
	backend := opts.Backend
	if backend == nil {
		var err error
		if backend, err = NewBackend("canvas"); err != nil {
			return nil, err
		}
	}
	return &Converter{
		backend:  backend,
		pageSize: opts.PageSize,
		margin:   opts.Margin,
		flow:     opts.Flow,
	}, nil
}

// NewBackend creates a paginated backend by name: "canvas" or "fpdf".
func NewBackend(name string) (renderer.Backend, error) {
	return NewBackendWithFonts(name, config.PDFFonts{})
}

// NewBackendWithFonts is NewBackend with font file overrides. Only the canvas
// backend embeds fonts; fpdf ignores them.
func NewBackendWithFonts(name string, paths config.PDFFonts) (renderer.Backend, error) {
	switch name {
	case "", "canvas":
		r, err := canvasrenderer.NewRendererWithOptions(canvasOptions(paths))
		if err != nil {
			return nil, fmt.Errorf("creating canvas backend: %w", err)
		}
		return r, nil
	case "fpdf":
		r, err := fpdfrenderer.NewRenderer()
		if err != nil {
			return nil, fmt.Errorf("creating fpdf backend: %w", err)
		}
		return r, nil
	default:
		return nil, fmt.Errorf("unknown pdf backend %q", name)
	}
}

func canvasOptions(paths config.PDFFonts) canvasrenderer.Options {
	opts := canvasrenderer.Options{
		Fonts:    map[layout.FontVariant]canvasrenderer.Resource{},
		Fallback: canvasrenderer.Resource{Path: paths.Fallback},
	}
	for variant, path := range map[layout.FontVariant]string{
		layout.Regular:    paths.Regular,
		layout.Bold:       paths.Bold,
		layout.Italic:     paths.Italic,
		layout.BoldItalic: paths.BoldItalic,
	} {
		if path != "" {
			opts.Fonts[variant] = canvasrenderer.Resource{Path: path}
		}
	}
	return opts
}

// FromConfig builds a Converter from application settings.
func FromConfig(cfg *config.Config) (*Converter, error) {
	backend, err := NewBackendWithFonts(cfg.PDF.Backend, cfg.PDF.Fonts)
	if err != nil {
		return nil, err
	}
	return New(Options{
		Backend:  backend,
		PageSize: cfg.PageSize(),
		Margin:   cfg.MarginPt(),
		Flow: flow.Options{
			FontFamily: cfg.DOCX.FontFamily,
			FontSize:   cfg.DOCX.FontSize,
		},
	})
}

// Convert parses text and renders it in format f.
func (c *Converter) Convert(text string, f Format) (Output, error) {
	doc := markdown.Parse(text)

	var (
		data []byte
		err  error
	)
	switch f {
	case FormatDOCX:
		data, err = flow.Render(doc, c.flow)
	case FormatPDF:
		data, err = c.renderPDF(doc)
	default:
		return Output{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, string(f))
	}
	if err != nil {
		return Output{}, fmt.Errorf("rendering %s: %w", f, err)
	}
	return Output{Data: data, MIMEType: f.MIMEType(), Filename: f.Filename()}, nil
}

// Layout runs the paginated layout without serializing it.
func (c *Converter) Layout(doc *markdown.Document) (*layout.Result, error) {
	return layout.Build(doc, layout.BuildOptions{
		Measurer: c.backend,
		PageSize: c.pageSize,
		Margin:   c.margin,
	})
}

func (c *Converter) renderPDF(doc *markdown.Document) ([]byte, error) {
	res, err := c.Layout(doc)
	if err != nil {
		return nil, err
	}
	return c.backend.Render(res)
}
