package markdown

import (
	"reflect"
	"strings"
	"testing"
)

func TestParseBlocksEndToEndSample(t *testing.T) {
	input := "# Header\n\nSome **bold** text here.\n\n1. First item\n2. Second item"
	blocks := ParseBlocks(input)
	want := []Block{
		{Kind: KindHeading, Level: 1, Spans: []Span{{Text: "Header"}}},
		{Kind: KindParagraph, Spans: []Span{{Text: "Some "}, {Text: "bold", Bold: true}, {Text: " text here."}}},
		{Kind: KindListItem, Marker: "1.", Spans: []Span{{Text: "First item"}}},
		{Kind: KindListItem, Marker: "2.", Spans: []Span{{Text: "Second item"}}},
	}
	if !reflect.DeepEqual(blocks, want) {
		t.Fatalf("blocks mismatch:\n got=%+v\nwant=%+v", blocks, want)
	}
}

func TestHeadingLevelClamp(t *testing.T) {
	cases := []struct {
		line  string
		level int
		text  string
	}{
		{"# One", 1, "One"},
		{"##Two", 2, "Two"},
		{"### Three", 3, "Three"},
		{"##### Five", 3, "Five"},
		{"###### Six", 3, "Six"},
		{"####### Seven", 3, "# Seven"},
	}
	for _, tc := range cases {
		blocks := ParseBlocks(tc.line)
		if len(blocks) != 1 {
			t.Fatalf("%q: expected 1 block, got %d", tc.line, len(blocks))
		}
		b := blocks[0]
		if b.Kind != KindHeading || b.Level != tc.level {
			t.Fatalf("%q: expected heading level %d, got kind=%v level=%d", tc.line, tc.level, b.Kind, b.Level)
		}
		if got := b.Text(); got != tc.text {
			t.Fatalf("%q: expected text %q, got %q", tc.line, tc.text, got)
		}
	}
}

func TestListItemMarkers(t *testing.T) {
	cases := []struct {
		line   string
		marker string
		text   string
	}{
		{"1. First item", "1.", "First item"},
		{"12) Twelfth", "12)", "Twelfth"},
		{"a) Option", "a)", "Option"},
		{"B. Option", "B.", "Option"},
		{"- dash", "-", "dash"},
		{"* star", "*", "star"},
		{"-\t tabbed", "-", "tabbed"},
	}
	for _, tc := range cases {
		blocks := ParseBlocks(tc.line)
		if len(blocks) != 1 || blocks[0].Kind != KindListItem {
			t.Fatalf("%q: expected one list item, got %+v", tc.line, blocks)
		}
		if blocks[0].Marker != tc.marker {
			t.Fatalf("%q: marker got %q want %q", tc.line, blocks[0].Marker, tc.marker)
		}
		if got := blocks[0].Text(); got != tc.text {
			t.Fatalf("%q: text got %q want %q", tc.line, got, tc.text)
		}
	}
}

func TestAmbiguousShortLinesAreParagraphs(t *testing.T) {
	for _, line := range []string{"a.", "1.", "-", "ab. not a marker", "1.5 apples", "**bold** start", "-dash"} {
		blocks := ParseBlocks(line)
		if len(blocks) != 1 || blocks[0].Kind != KindParagraph {
			t.Fatalf("%q: expected paragraph, got %+v", line, blocks)
		}
	}
}

func TestParseBlocksSkipsBlankLinesAndKeepsLinesSeparate(t *testing.T) {
	input := "  first line  \r\n\r\n\t\nsecond line\nthird line\n"
	blocks := ParseBlocks(input)
	if len(blocks) != 3 {
		t.Fatalf("expected 3 paragraphs, got %d", len(blocks))
	}
	for i, want := range []string{"first line", "second line", "third line"} {
		if blocks[i].Kind != KindParagraph || blocks[i].Text() != want {
			t.Fatalf("block %d: got %+v want paragraph %q", i, blocks[i], want)
		}
	}
}

func TestEmptyHeadingHasNoSpans(t *testing.T) {
	blocks := ParseBlocks("##")
	if len(blocks) != 1 || blocks[0].Kind != KindHeading {
		t.Fatalf("expected heading, got %+v", blocks)
	}
	if len(blocks[0].Spans) != 0 {
		t.Fatalf("expected no spans, got %+v", blocks[0].Spans)
	}
}

func TestParseBlocksIsDeterministic(t *testing.T) {
	input := "# T\n- a **b** *c*\npara ***x*** y\n"
	if !reflect.DeepEqual(ParseBlocks(input), ParseBlocks(input)) {
		t.Fatalf("ParseBlocks must be a pure function of its input")
	}
}

func TestDocumentTitle(t *testing.T) {
	doc := Parse("intro\n## **Exam** Paper\n# Later")
	if got := doc.Title(); got != "Exam Paper" {
		t.Fatalf("title got %q", got)
	}
	if got := Parse("no headings").Title(); got != "" {
		t.Fatalf("expected empty title, got %q", got)
	}
}

func TestParseSpans(t *testing.T) {
	cases := []struct {
		in   string
		want []Span
	}{
		{"**a** *b*", []Span{{Text: "a", Bold: true}, {Text: " "}, {Text: "b", Italic: true}}},
		{"plain", []Span{{Text: "plain"}}},
		{"50% * done", []Span{{Text: "50% * done"}}},
		{"****", nil},
		{"x ** y", []Span{{Text: "x ** y"}}},
		{"***both***", []Span{{Text: "both", Bold: true, Italic: true}}},
		{"**bold *mixed* bold**", []Span{
			{Text: "bold ", Bold: true},
			{Text: "mixed", Bold: true, Italic: true},
			{Text: " bold", Bold: true},
		}},
		{"*it **x** it*", []Span{
			{Text: "it ", Italic: true},
			{Text: "x", Bold: true, Italic: true},
			{Text: " it", Italic: true},
		}},
		{"**a*b**", []Span{{Text: "a*b", Bold: true}}},
		{"**1.** What is θ?", []Span{{Text: "1.", Bold: true}, {Text: " What is θ?"}}},
		{"**Answer:** x = 2", []Span{{Text: "Answer:", Bold: true}, {Text: " x = 2"}}},
		{"a**b**c", []Span{{Text: "a"}, {Text: "b", Bold: true}, {Text: "c"}}},
		{"**unclosed bold", []Span{{Text: "**unclosed bold"}}},
		// 分隔符只与同类配对："**" 不能闭合 "*"，两者都保留为字面量。
		{"*x**", []Span{{Text: "*x**"}}},
		{"*a**b*", []Span{{Text: "a**b", Italic: true}}},
	}
	for _, tc := range cases {
		got := ParseSpans(tc.in)
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("ParseSpans(%q):\n got=%+v\nwant=%+v", tc.in, got, tc.want)
		}
	}
}

// TestSpansNeverEmpty 对一组杂乱输入断言：任何 span 的文本都非空，且字符不丢失（除成对分隔符外）。
func TestSpansNeverEmpty(t *testing.T) {
	inputs := []string{
		"", "*", "**", "***", "****", "*****", "******", "* * *", "**a**b**c**",
		"*a**b*", "***a", "a***", "Processing Failed: quota exceeded.", "** **", "*\t*",
	}
	for _, in := range inputs {
		for _, s := range ParseSpans(in) {
			if s.Text == "" {
				t.Fatalf("ParseSpans(%q) emitted an empty span: %+v", in, ParseSpans(in))
			}
		}
		stripped := strings.ReplaceAll(in, "*", "")
		var joined strings.Builder
		for _, s := range ParseSpans(in) {
			joined.WriteString(s.Text)
		}
		if strings.ReplaceAll(joined.String(), "*", "") != stripped {
			t.Fatalf("ParseSpans(%q) lost text: %q", in, joined.String())
		}
	}
}
