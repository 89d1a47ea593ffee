package layout

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/ByLCY/paperdoc/markdown"
)

// stubMeasurer 是一个等宽测量实现，仅用于测试：每个字符宽 size*0.5，粗体再加 10%。
type stubMeasurer struct{}

func (stubMeasurer) TextWidth(text string, variant FontVariant, size float64) float64 {
	w := float64(utf8.RuneCountInString(text)) * size * 0.5
	if variant == Bold || variant == BoldItalic {
		w *= 1.1
	}
	return w
}

func buildMarkdown(t *testing.T, src string, opts BuildOptions) *Result {
	t.Helper()
	if opts.Measurer == nil {
		opts.Measurer = stubMeasurer{}
	}
	res, err := Build(markdown.Parse(src), opts)
	if err != nil {
		t.Fatalf("排版失败: %v", err)
	}
	return res
}

func allText(res *Result) string {
	var sb strings.Builder
	for _, p := range res.Pages {
		for _, c := range p.Commands {
			sb.WriteString(c.Text)
			sb.WriteByte(' ')
		}
	}
	return sb.String()
}

func TestVariantTable(t *testing.T) {
	cases := []struct {
		bold, italic bool
		want         FontVariant
	}{
		{false, false, Regular},
		{true, false, Bold},
		{false, true, Italic},
		{true, true, BoldItalic},
	}
	for _, tc := range cases {
		if got := VariantOf(tc.bold, tc.italic); got != tc.want {
			t.Fatalf("VariantOf(%v,%v) = %v, want %v", tc.bold, tc.italic, got, tc.want)
		}
	}
}

func TestEmptyDocumentProducesOneEmptyPage(t *testing.T) {
	res := buildMarkdown(t, "", BuildOptions{})
	if len(res.Pages) != 1 {
		t.Fatalf("期望 1 页，实际 %d", len(res.Pages))
	}
	if len(res.Pages[0].Commands) != 0 {
		t.Fatalf("空文档不应产生绘制命令: %+v", res.Pages[0].Commands)
	}
	if res.Pages[0].Width != A4.Width || res.Pages[0].Height != A4.Height {
		t.Fatalf("默认页面应为 A4: %+v", res.Pages[0])
	}
}

func TestBuildRequiresMeasurer(t *testing.T) {
	if _, err := Build(markdown.Parse("x"), BuildOptions{Measurer: nil}); err == nil {
		t.Fatalf("缺少 Measurer 时应返回错误")
	}
}

func TestBuildRejectsOversizedMargin(t *testing.T) {
	_, err := Build(markdown.Parse("x"), BuildOptions{Measurer: stubMeasurer{}, PageSize: PageSize{Width: 100, Height: 100}, Margin: 60})
	if err == nil {
		t.Fatalf("边距超出页面时应返回错误")
	}
}

// TestEndToEndSampleKeepsAllText 覆盖标题、粗体段落与两个列表项。
func TestEndToEndSampleKeepsAllText(t *testing.T) {
	src := "# Header\n\nSome **bold** text here.\n\n1. First item\n2. Second item"
	res := buildMarkdown(t, src, BuildOptions{})
	if len(res.Pages) != 1 {
		t.Fatalf("期望 1 页，实际 %d", len(res.Pages))
	}
	text := allText(res)
	for _, want := range []string{"Header", "Some ", "bold", " text here.", "1.", "First item", "2.", "Second item"} {
		if !strings.Contains(text, want) {
			t.Fatalf("绘制结果缺少 %q: %s", want, text)
		}
	}
	if res.Meta.Title != "Header" || res.Meta.Creator != defaultCreator {
		t.Fatalf("元信息错误: %+v", res.Meta)
	}

	cmds := res.Pages[0].Commands
	heading := cmds[0]
	if heading.Text != "Header" || heading.Variant != Bold || heading.Size != 18 {
		t.Fatalf("标题应以 18pt 粗体绘制: %+v", heading)
	}
	if heading.Y != A4.Height-defaultMargin || heading.X != defaultMargin {
		t.Fatalf("首行应从上边距开始: %+v", heading)
	}

	var boldWord, marker *DrawCommand
	for i := range cmds {
		switch cmds[i].Text {
		case "bold":
			boldWord = &cmds[i]
		case "1.":
			marker = &cmds[i]
		}
	}
	if boldWord == nil || boldWord.Variant != Bold || boldWord.Size != 11 {
		t.Fatalf("段落中的粗体应使用 11pt 粗体: %+v", boldWord)
	}
	if marker == nil || marker.Variant != Bold || marker.X != defaultMargin {
		t.Fatalf("列表标记应以粗体画在左边距: %+v", marker)
	}
}

func TestHeadingLevelsUseDecreasingSizes(t *testing.T) {
	res := buildMarkdown(t, "# a\n## b\n### c\n##### d\nbody", BuildOptions{})
	cmds := res.Pages[0].Commands
	want := []float64{18, 16, 14, 14, 11}
	if len(cmds) != len(want) {
		t.Fatalf("期望 %d 条命令，实际 %d", len(want), len(cmds))
	}
	for i, size := range want {
		if cmds[i].Size != size {
			t.Fatalf("命令 %d 字号期望 %g，实际 %g", i, size, cmds[i].Size)
		}
	}
	// 标题行距 24，块间距 6：第二行基线 = 顶部 - 30。
	if got, wantY := cmds[1].Y, cmds[0].Y-24-blockGap; got != wantY {
		t.Fatalf("标题之后的游标错误: got=%g want=%g", got, wantY)
	}
}

func TestListItemLayout(t *testing.T) {
	res := buildMarkdown(t, "a) Option", BuildOptions{})
	cmds := res.Pages[0].Commands
	if len(cmds) != 2 {
		t.Fatalf("期望标记 + 内容两条命令，实际 %+v", cmds)
	}
	if cmds[0].Text != "a)" || cmds[0].X != defaultMargin {
		t.Fatalf("标记位置错误: %+v", cmds[0])
	}
	if cmds[1].Text != listSpacer+"Option" || cmds[1].X != defaultMargin+listIndent {
		t.Fatalf("内容应带前导空格并缩进: %+v", cmds[1])
	}
	if cmds[0].Y != cmds[1].Y {
		t.Fatalf("标记与首行应在同一基线: %g vs %g", cmds[0].Y, cmds[1].Y)
	}
}

func TestWrapBreaksOnlyBeforeNonWhitespace(t *testing.T) {
	// 每字符 5pt（size 10），行宽 50pt 可容纳 10 个字符。
	spans := []markdown.Span{{Text: "aaaa bbbb cccc"}}
	lines := wrapSpans(spans, blockStyle{size: 10, lineSpacing: 12}, 50, stubMeasurer{})
	if len(lines) != 2 {
		t.Fatalf("期望 2 行，实际 %d: %+v", len(lines), lines)
	}
	if got := lines[0].Text(); got != "aaaa bbbb " {
		t.Fatalf("首行应保留行尾空白: %q", got)
	}
	if got := lines[1].Text(); got != "cccc" {
		t.Fatalf("第二行错误: %q", got)
	}
	if lines[0].Width() != 50 {
		t.Fatalf("首行宽度期望 50，实际 %g", lines[0].Width())
	}
}

func TestWrapOverwideTokenOverflows(t *testing.T) {
	spans := []markdown.Span{{Text: "tiny " + strings.Repeat("x", 40) + " end"}}
	lines := wrapSpans(spans, blockStyle{size: 10, lineSpacing: 12}, 50, stubMeasurer{})
	if len(lines) != 3 {
		t.Fatalf("期望 3 行，实际 %d: %+v", len(lines), lines)
	}
	if lines[1].Width() <= 50 {
		t.Fatalf("超宽 token 应整体溢出而不是被截断: %g", lines[1].Width())
	}
	for i, ln := range lines {
		if len(ln) == 0 {
			t.Fatalf("第 %d 行为空行", i)
		}
	}
}

func TestWrapKeepsStylePerFragment(t *testing.T) {
	spans := markdown.ParseSpans("Some **bold** text here.")
	lines := wrapSpans(spans, bodyStyle, 1000, stubMeasurer{})
	if len(lines) != 1 {
		t.Fatalf("期望 1 行，实际 %d", len(lines))
	}
	got := lines[0]
	if len(got) != 3 || got[0].Text != "Some " || !got[1].Bold || got[1].Text != "bold" || got[2].Text != " text here." {
		t.Fatalf("片段样式错误: %+v", got)
	}
}

func TestZeroSpanBlockOnlyAdvancesGap(t *testing.T) {
	ctx := newRenderContext(PageSize{Width: 200, Height: 200}, 10, stubMeasurer{})
	start := ctx.cursorY
	ctx.layoutBlock(markdown.Block{Kind: markdown.KindHeading, Level: 1})
	if ctx.cursorY != start-blockGap {
		t.Fatalf("无 span 的块只应下移块间距: got=%g want=%g", ctx.cursorY, start-blockGap)
	}
	if len(ctx.pages[0].Commands) != 0 {
		t.Fatalf("无 span 的块不应产生命令")
	}
}

// TestPaginationNeverDrawsBelowBottomMargin 用极小页面逼出多页，并断言所有基线都不低于下边距。
func TestPaginationNeverDrawsBelowBottomMargin(t *testing.T) {
	const margin = 10.0
	size := PageSize{Width: 120, Height: 100}
	para := strings.Repeat("word ", 120)
	res := buildMarkdown(t, para, BuildOptions{PageSize: size, Margin: margin})

	// 内容宽 100pt，每词 22pt、空格 5.5pt：每行 3 个词共 40 行，每页 6 行。
	if len(res.Pages) < 2 {
		t.Fatalf("超过一页高度的段落应分页，实际 %d 页", len(res.Pages))
	}
	words := 0
	for pi, page := range res.Pages {
		if page.Width != size.Width || page.Height != size.Height {
			t.Fatalf("第 %d 页尺寸错误: %+v", pi, page)
		}
		for _, c := range page.Commands {
			if c.Y < margin {
				t.Fatalf("第 %d 页有基线低于下边距: %+v", pi, c)
			}
			if c.Y > size.Height-margin {
				t.Fatalf("第 %d 页有基线高于上边距: %+v", pi, c)
			}
			words += strings.Count(c.Text, "word")
		}
	}
	if words != 120 {
		t.Fatalf("分页后丢失文字: 期望 120 个词，实际 %d", words)
	}
}

func TestRenderContextPageBreakResetsCursor(t *testing.T) {
	ctx := newRenderContext(PageSize{Width: 50, Height: 50}, 5, stubMeasurer{})
	ctx.cursorY = 4.9
	ctx.ensureSpace()
	if len(ctx.pages) != 2 || ctx.current != 1 {
		t.Fatalf("游标低于下边距时应新建页面: pages=%d current=%d", len(ctx.pages), ctx.current)
	}
	if ctx.cursorY != 45 {
		t.Fatalf("新页游标应重置到上边距: %g", ctx.cursorY)
	}
	ctx.cursorY = 5
	ctx.ensureSpace()
	if len(ctx.pages) != 2 {
		t.Fatalf("游标恰好位于下边距时不应换页")
	}
}

func TestSplitWhitespacePreservesRuns(t *testing.T) {
	got := splitWhitespace("  a  bc\td ")
	want := []string{"  ", "a", "  ", "bc", "\t", "d", " "}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("切分错误: %q", got)
	}
}
