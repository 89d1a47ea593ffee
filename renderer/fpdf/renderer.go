// Package fpdfrenderer measures and draws layout results with the PDF core
// fonts (Helvetica family) through github.com/jung-kurt/gofpdf. No font files
// are needed; text is translated to cp1252 before measuring and drawing.
package fpdfrenderer

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	"github.com/jung-kurt/gofpdf"
	"golang.org/x/text/unicode/norm"

	"github.com/ByLCY/paperdoc/layout"
	"github.com/ByLCY/paperdoc/renderer"
)

const fontFamily = "Helvetica"

// variantStyles 对应 gofpdf 的样式字符串。
var variantStyles = map[layout.FontVariant]string{
	layout.Regular:    "",
	layout.Bold:       "B",
	layout.Italic:     "I",
	layout.BoldItalic: "BI",
}

var _ renderer.Backend = (*Renderer)(nil)

// Renderer keeps one scratch document for measuring. gofpdf keeps the
// current font as state and its translator reuses one buffer, so measuring
// and encoding are serialized.
type Renderer struct {
	mu        sync.Mutex
	measure   *gofpdf.Fpdf
	translate func(string) string
}

// NewRenderer creates a Helvetica-based backend.
func NewRenderer() (*Renderer, error) {
	m := gofpdf.New("P", "pt", "A4", "")
	m.SetFont(fontFamily, "", 11)
	if err := m.Error(); err != nil {
		return nil, fmt.Errorf("pdf render: font setup failed: %w", err)
	}
	return &Renderer{
		measure:   m,
		translate: m.UnicodeTranslatorFromDescriptor(""),
	}, nil
}

// encode 把文本转为 cp1252；该代码页之外的字符（θ、≤ 等）会变成 "."。
func (r *Renderer) encode(text string) string {
	text = norm.NFC.String(text)
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.translate(text)
}

// TextWidth implements layout.Measurer.
func (r *Renderer) TextWidth(text string, variant layout.FontVariant, size float64) float64 {
	if text == "" {
		return 0
	}
	encoded := r.encode(text)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.measure.SetFont(fontFamily, variantStyles[variant], size)
	return r.measure.GetStringWidth(encoded)
}

// Render serializes the pages to PDF.
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("pdf render: result is nil")
	}
	if len(result.Pages) == 0 {
		return nil, fmt.Errorf("pdf render: no pages")
	}

	first := result.Pages[0]
	doc := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: first.Width, Ht: first.Height},
	})
	doc.SetMargins(0, 0, 0)
	doc.SetAutoPageBreak(false, 0)
	doc.SetTextColor(0, 0, 0)
	applyMeta(doc, result.Meta)

	for _, page := range result.Pages {
		doc.AddPageFormat("P", gofpdf.SizeType{Wd: page.Width, Ht: page.Height})
		for _, cmd := range page.Commands {
			doc.SetFont(fontFamily, variantStyles[cmd.Variant], cmd.Size)
			// gofpdf 的原点在左上角，排版层在左下角。
			doc.Text(cmd.X, page.Height-cmd.Y, r.encode(cmd.Text))
		}
	}
	if err := doc.Error(); err != nil {
		return nil, fmt.Errorf("pdf render: %w", err)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf render: output: %w", err)
	}
	return buf.Bytes(), nil
}

func applyMeta(doc *gofpdf.Fpdf, meta layout.DocumentMeta) {
	if meta.Title != "" {
		doc.SetTitle(meta.Title, true)
	}
	if meta.Author != "" {
		doc.SetAuthor(meta.Author, true)
	}
	if meta.Subject != "" {
		doc.SetSubject(meta.Subject, true)
	}
	if len(meta.Keywords) > 0 {
		doc.SetKeywords(strings.Join(meta.Keywords, " "), true)
	}
	if meta.Creator != "" {
		doc.SetCreator(meta.Creator, true)
	}
}
