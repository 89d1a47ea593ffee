package layout

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/ByLCY/paperdoc/markdown"
)

const (
	// blockGap 是每个块之后额外下移的间距（pt），与块类型无关。
	blockGap = 6.0
	// listIndent 是列表项内容相对左边距的固定偏移（pt）。
	listIndent = 20.0
	// listSpacer 拼在列表项内容之前，使折行后的文字读起来连贯。
	listSpacer = "  "
)

// blockStyle 描述某类块的字号、行距与是否强制粗体。
type blockStyle struct {
	size        float64
	lineSpacing float64
	bold        bool
}

// headingStyles 以 1..3 级标题为下标（0 号位不用）。
var headingStyles = [...]blockStyle{
	{},
	{size: 18, lineSpacing: 24, bold: true},
	{size: 16, lineSpacing: 20, bold: true},
	{size: 14, lineSpacing: 18, bold: true},
}

// bodyStyle 同时用于段落与列表项。
var bodyStyle = blockStyle{size: 11, lineSpacing: 15}

func styleFor(b markdown.Block) blockStyle {
	if b.Kind == markdown.KindHeading {
		level := b.Level
		if level < 1 {
			level = 1
		}
		if level >= len(headingStyles) {
			level = len(headingStyles) - 1
		}
		return headingStyles[level]
	}
	return bodyStyle
}

// Build 将文档按固定页面尺寸排版为页面与绘制命令。
// 对任意 markdown 内容都不会失败；只有缺少 Measurer 或版面参数无效时返回错误。
func Build(doc *markdown.Document, opts BuildOptions) (*Result, error) {
	if opts.Measurer == nil {
		return nil, fmt.Errorf("缺少文字测量实现")
	}
	opts = opts.withDefaults()
	if opts.PageSize.Width-2*opts.Margin <= 0 || opts.PageSize.Height-2*opts.Margin <= 0 {
		return nil, fmt.Errorf("边距 %gpt 超出页面尺寸 %gx%gpt", opts.Margin, opts.PageSize.Width, opts.PageSize.Height)
	}

	ctx := newRenderContext(opts.PageSize, opts.Margin, opts.Measurer)
	var title string
	if doc != nil {
		for _, block := range doc.Blocks {
			ctx.layoutBlock(block)
		}
		title = doc.Title()
	}
	return &Result{
		Pages: ctx.pages,
		Meta:  DocumentMeta{Title: title, Creator: opts.Creator},
	}, nil
}

// renderContext 持有一次 Build 调用内的可变状态：页面列表、当前页与游标。
type renderContext struct {
	size     PageSize
	margin   float64
	measurer Measurer
	pages    []Page
	current  int
	cursorY  float64
}

func newRenderContext(size PageSize, margin float64, m Measurer) *renderContext {
	ctx := &renderContext{size: size, margin: margin, measurer: m}
	ctx.newPage()
	return ctx
}

func (ctx *renderContext) contentWidth() float64 { return ctx.size.Width - 2*ctx.margin }

func (ctx *renderContext) top() float64 { return ctx.size.Height - ctx.margin }

func (ctx *renderContext) newPage() {
	ctx.pages = append(ctx.pages, Page{Width: ctx.size.Width, Height: ctx.size.Height})
	ctx.current = len(ctx.pages) - 1
	ctx.cursorY = ctx.top()
}

// ensureSpace 在游标已低于下边距时换页。
func (ctx *renderContext) ensureSpace() {
	if ctx.cursorY < ctx.margin {
		ctx.newPage()
	}
}

func (ctx *renderContext) draw(cmd DrawCommand) {
	page := &ctx.pages[ctx.current]
	page.Commands = append(page.Commands, cmd)
}

func (ctx *renderContext) layoutBlock(block markdown.Block) {
	style := styleFor(block)
	spans := block.Spans
	x := ctx.margin

	if block.Kind == markdown.KindListItem {
		// 仅为近似的悬挂缩进：标记画在左边距，折行后的内容不与首行对齐。
		ctx.ensureSpace()
		ctx.draw(DrawCommand{X: ctx.margin, Y: ctx.cursorY, Text: block.Marker, Variant: Bold, Size: style.size})
		spans = append([]markdown.Span{{Text: listSpacer}}, spans...)
		x = ctx.margin + listIndent
	}

	lines := wrapSpans(spans, style, ctx.contentWidth(), ctx.measurer)
	for _, line := range lines {
		ctx.ensureSpace()
		ctx.drawLine(line, x, style.size)
		ctx.cursorY -= style.lineSpacing
	}
	ctx.cursorY -= blockGap
}

func (ctx *renderContext) drawLine(line Line, startX, size float64) {
	x := startX
	for _, frag := range line {
		if strings.TrimSpace(frag.Text) != "" {
			ctx.draw(DrawCommand{
				X:       x,
				Y:       ctx.cursorY,
				Text:    frag.Text,
				Variant: VariantOf(frag.Bold, frag.Italic),
				Size:    size,
			})
		}
		x += frag.Width
	}
}

// token 是折行的最小单位：一段连续空白或一段连续非空白字符，继承所属 span 的样式。
type token struct {
	text   string
	bold   bool
	italic bool
	space  bool
}

// wrapSpans 贪心折行：非空白 token 放不下时另起一行；空白 token 从不触发折行。
// 单个 token 比行宽还宽时直接溢出，不做字符级拆分。
func wrapSpans(spans []markdown.Span, style blockStyle, maxWidth float64, m Measurer) []Line {
	var lines []Line
	var current Line
	currentWidth := 0.0

	for _, tok := range tokenizeSpans(spans, style.bold) {
		w := m.TextWidth(tok.text, VariantOf(tok.bold, tok.italic), style.size)
		if currentWidth+w > maxWidth && !tok.space && len(current) > 0 {
			lines = append(lines, current)
			current = nil
			currentWidth = 0
		}
		current = appendToken(current, tok, w)
		currentWidth += w
	}
	if len(current) > 0 {
		lines = append(lines, current)
	}
	return lines
}

// appendToken 把 token 并入行尾；与上一段样式相同时合并为同一个 Fragment。
func appendToken(line Line, tok token, width float64) Line {
	if n := len(line); n > 0 && line[n-1].Bold == tok.bold && line[n-1].Italic == tok.italic {
		line[n-1].Text += tok.text
		line[n-1].Width += width
		return line
	}
	return append(line, Fragment{Text: tok.text, Bold: tok.bold, Italic: tok.italic, Width: width})
}

func tokenizeSpans(spans []markdown.Span, forceBold bool) []token {
	var tokens []token
	for _, span := range spans {
		bold := span.Bold || forceBold
		for _, part := range splitWhitespace(span.Text) {
			tokens = append(tokens, token{
				text:   part,
				bold:   bold,
				italic: span.Italic,
				space:  strings.TrimSpace(part) == "",
			})
		}
	}
	return tokens
}

// splitWhitespace 按空白/非空白边界切分，保留所有字符。
func splitWhitespace(s string) []string {
	var parts []string
	var builder strings.Builder
	lastWasSpace := false
	for _, r := range s {
		isSpace := unicode.IsSpace(r)
		if builder.Len() > 0 && lastWasSpace != isSpace {
			parts = append(parts, builder.String())
			builder.Reset()
		}
		lastWasSpace = isSpace
		builder.WriteRune(r)
	}
	if builder.Len() > 0 {
		parts = append(parts, builder.String())
	}
	return parts
}
