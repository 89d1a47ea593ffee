package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/color"
	"os"
	"strings"
	"sync"
	"unicode"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/ByLCY/paperdoc/fonts"
	"github.com/ByLCY/paperdoc/layout"
	"github.com/ByLCY/paperdoc/renderer"
)

// Renderer measures and draws layout results via github.com/tdewolff/canvas.
type Renderer struct {
	family   *canvas.FontFamily
	fallback *canvas.FontFamily // 主字体缺失的字形（希腊字母、数学符号）按字符回退到这里

	faceMu sync.Mutex
	faces  map[faceKey]*canvas.FontFace
}

var (
	_ renderer.Backend = (*Renderer)(nil)
)

type faceKey struct {
	variant  layout.FontVariant
	size     float64
	fallback bool
}

// Options configures the canvas renderer. Unset variants use the built-in
// Latin Modern fonts; an unset Fallback uses Latin Modern Math.
type Options struct {
	Fonts    map[layout.FontVariant]Resource
	Fallback Resource
}

// Resource can be provided either by Bytes or by Path.
type Resource struct {
	Bytes []byte
	Path  string
}

// variantStyles 把排版层的字形映射到 canvas 的字体样式。
var variantStyles = map[layout.FontVariant]canvas.FontStyle{
	layout.Regular:    canvas.FontRegular,
	layout.Bold:       canvas.FontBold,
	layout.Italic:     canvas.FontRegular | canvas.FontItalic,
	layout.BoldItalic: canvas.FontBold | canvas.FontItalic,
}

var builtinFonts = map[layout.FontVariant]string{
	layout.Regular:    fonts.Regular,
	layout.Bold:       fonts.Bold,
	layout.Italic:     fonts.Italic,
	layout.BoldItalic: fonts.BoldItalic,
}

// fontColor 与常见 PDF 库的默认黑色文字一致。
var fontColor = color.RGBA{0, 0, 0, 255}

// NewRenderer creates a renderer backed by the built-in fonts.
func NewRenderer() (*Renderer, error) { return NewRendererWithOptions(Options{}) }

// NewRendererWithOptions loads all four font variants up front so that
// measuring during layout never touches the file system.
func NewRendererWithOptions(opts Options) (*Renderer, error) {
	family := canvas.NewFontFamily("paperdoc")
	for _, variant := range []layout.FontVariant{layout.Regular, layout.Bold, layout.Italic, layout.BoldItalic} {
		data, err := loadFontBytes(variant, opts.Fonts[variant])
		if err != nil {
			return nil, err
		}
		if err := family.LoadFont(data, 0, variantStyles[variant]); err != nil {
			return nil, fmt.Errorf("加载字体 %s 失败: %w", variant, err)
		}
	}
	fallback, err := loadFallback(opts.Fallback)
	if err != nil {
		return nil, err
	}
	return &Renderer{
		family:   family,
		fallback: fallback,
		faces:    map[faceKey]*canvas.FontFace{},
	}, nil
}

// loadFallback 只加载一个常规字形，粗体与斜体由 canvas 模拟。
func loadFallback(res Resource) (*canvas.FontFamily, error) {
	data, err := readResource(res)
	if err != nil {
		return nil, err
	}
	if data == nil {
		if data, err = fonts.Load(fonts.Math); err != nil {
			return nil, err
		}
	}
	family := canvas.NewFontFamily("paperdoc-fallback")
	if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return nil, fmt.Errorf("加载回退字体失败: %w", err)
	}
	return family, nil
}

func loadFontBytes(variant layout.FontVariant, res Resource) ([]byte, error) {
	data, err := readResource(res)
	if err != nil || data != nil {
		return data, err
	}
	return fonts.Load(builtinFonts[variant])
}

// readResource 在 Bytes 与 Path 都为空时返回 nil。
func readResource(res Resource) ([]byte, error) {
	if len(res.Bytes) > 0 {
		return res.Bytes, nil
	}
	if res.Path != "" {
		data, err := os.ReadFile(res.Path)
		if err != nil {
			return nil, fmt.Errorf("读取字体 %s 失败: %w", res.Path, err)
		}
		return data, nil
	}
	return nil, nil
}

// TextWidth 实现 layout.Measurer。size 为 pt；canvas 的宽度是 mm，这里换算回 pt。
func (r *Renderer) TextWidth(text string, variant layout.FontVariant, size float64) float64 {
	if text == "" {
		return 0
	}
	var width float64
	for _, run := range r.runs(text, variant, size) {
		width += run.face.TextWidth(run.text)
	}
	return toPt(width)
}

// HasGlyph 报告 ch 能否由主字体或回退字体绘制。字形与字号无关，这里固定用 12pt。
func (r *Renderer) HasGlyph(ch rune, variant layout.FontVariant) bool {
	if r.face(variant, 12, false).Font.GlyphIndex(ch) != 0 {
		return true
	}
	return r.face(variant, 12, true).Font.GlyphIndex(ch) != 0
}

type textRun struct {
	text string
	face *canvas.FontFace
}

// runs 把文本切成连续片段：主字体缺字形而回退字体有的字符归入回退片段。
func (r *Renderer) runs(text string, variant layout.FontVariant, size float64) []textRun {
	primary := r.face(variant, size, false)
	var fallback *canvas.FontFace
	var out []textRun
	var buf strings.Builder
	cur := primary
	for _, ch := range text {
		face := primary
		if !unicode.IsSpace(ch) && primary.Font.GlyphIndex(ch) == 0 {
			if fallback == nil {
				fallback = r.face(variant, size, true)
			}
			if fallback.Font.GlyphIndex(ch) != 0 {
				face = fallback
			}
		}
		if face != cur && buf.Len() > 0 {
			out = append(out, textRun{text: buf.String(), face: cur})
			buf.Reset()
		}
		cur = face
		buf.WriteRune(ch)
	}
	if buf.Len() > 0 {
		out = append(out, textRun{text: buf.String(), face: cur})
	}
	return out
}

// Render renders the result into a PDF byte slice.
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	if len(result.Pages) == 0 {
		return nil, fmt.Errorf("缺少可渲染的页面")
	}

	var buf bytes.Buffer
	first := result.Pages[0]
	writer := pdf.New(&buf, toMm(first.Width), toMm(first.Height), nil)
	applyMeta(writer, result.Meta)
	for i, page := range result.Pages {
		if i > 0 {
			writer.NewPage(toMm(page.Width), toMm(page.Height))
		}
		c := canvas.New(toMm(page.Width), toMm(page.Height))
		ctx := canvas.NewContext(c)
		// 默认坐标系即左下角为原点、Y 向上，与排版层的 pt 坐标一致。
		r.drawPage(ctx, page)
		c.RenderTo(writer)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func applyMeta(writer *pdf.PDF, meta layout.DocumentMeta) {
	keywords := strings.Join(meta.Keywords, ", ")
	writer.SetInfo(meta.Title, meta.Subject, keywords, meta.Author, meta.Creator)
}

func (r *Renderer) drawPage(ctx *canvas.Context, page layout.Page) {
	for _, cmd := range page.Commands {
		x, y := toMm(cmd.X), toMm(cmd.Y)
		for _, run := range r.runs(cmd.Text, cmd.Variant, cmd.Size) {
			ctx.DrawText(x, y, canvas.NewTextLine(run.face, run.text, canvas.Left))
			x += run.face.TextWidth(run.text)
		}
	}
}

func (r *Renderer) face(variant layout.FontVariant, size float64, fallback bool) *canvas.FontFace {
	key := faceKey{variant: variant, size: size, fallback: fallback}
	r.faceMu.Lock()
	defer r.faceMu.Unlock()
	if face, ok := r.faces[key]; ok {
		return face
	}
	style, ok := variantStyles[variant]
	if !ok {
		style = canvas.FontRegular
	}
	family := r.family
	if fallback {
		family = r.fallback
	}
	face := family.Face(size, fontColor, style, canvas.FontNormal)
	r.faces[key] = face
	return face
}

// toPt 将毫米(mm)转换为点(pt)。
func toPt(mm float64) float64 { return mm * layout.MmToPt }

// toMm 将点(pt)转换为毫米(mm)。
func toMm(pt float64) float64 { return pt * layout.PtToMm }
