package markdown

import (
	"strings"
	"unicode"
)

// maxHeadingLevel 是样式层面支持的最大标题级别，4–6 级统一折叠为 3 级。
const maxHeadingLevel = 3

// Kind identifies the structural type of a Block.
type Kind int

const (
	KindParagraph Kind = iota
	KindHeading
	KindListItem
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindHeading:
		return "heading"
	case KindListItem:
		return "list-item"
	default:
		return "paragraph"
	}
}

// MarshalText lets debug dumps print the kind name instead of the number.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Span is a run of text sharing one styling combination. Text is never empty.
type Span struct {
	Text   string `json:"text" yaml:"text"`
	Bold   bool   `json:"bold,omitempty" yaml:"bold,omitempty"`
	Italic bool   `json:"italic,omitempty" yaml:"italic,omitempty"`
}

// Block is one structural unit of the document.
// Level is only meaningful for headings (1..3); Marker only for list items.
type Block struct {
	Kind   Kind   `json:"kind" yaml:"kind"`
	Level  int    `json:"level,omitempty" yaml:"level,omitempty"`
	Marker string `json:"marker,omitempty" yaml:"marker,omitempty"`
	Spans  []Span `json:"spans" yaml:"spans"`
}

// Text concatenates the text of all spans.
func (b Block) Text() string {
	var sb strings.Builder
	for _, s := range b.Spans {
		sb.WriteString(s.Text)
	}
	return sb.String()
}

// Document is the ordered block sequence of one conversion request.
type Document struct {
	Blocks []Block `json:"blocks" yaml:"blocks"`
}

// Title returns the text of the first heading, or "" when there is none.
func (d *Document) Title() string {
	if d == nil {
		return ""
	}
	for _, b := range d.Blocks {
		if b.Kind == KindHeading {
			return strings.TrimSpace(b.Text())
		}
	}
	return ""
}

// classifier inspects a trimmed, non-blank line. On a match it returns the
// block shell (without spans) and the text that still needs inline parsing.
type classifier func(line string) (Block, string, bool)

// classifiers 按优先级排列：标题 > 列表项 > 段落，最后一项总会命中。
var classifiers = []classifier{
	classifyHeading,
	classifyListItem,
	classifyParagraph,
}

// Parse splits raw markdown into a Document.
func Parse(text string) *Document {
	return &Document{Blocks: ParseBlocks(text)}
}

// ParseBlocks splits raw text into blocks, one per non-blank line.
func ParseBlocks(text string) []Block {
	if text == "" {
		return nil
	}
	var blocks []Block
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(strings.TrimSuffix(raw, "\r"))
		if line == "" {
			continue
		}
		blocks = append(blocks, classifyLine(line))
	}
	return blocks
}

func classifyLine(line string) Block {
	for _, classify := range classifiers {
		block, rest, ok := classify(line)
		if !ok {
			continue
		}
		block.Spans = ParseSpans(rest)
		return block
	}
	// classifyParagraph 总会命中，这里只是兜底。
	return Block{Kind: KindParagraph, Spans: ParseSpans(line)}
}

// classifyHeading matches 1–6 '#' followed by optional whitespace.
// A seventh '#' is kept as content.
func classifyHeading(line string) (Block, string, bool) {
	n := 0
	for n < len(line) && n < 6 && line[n] == '#' {
		n++
	}
	if n == 0 {
		return Block{}, "", false
	}
	level := n
	if level > maxHeadingLevel {
		level = maxHeadingLevel
	}
	rest := strings.TrimLeftFunc(line[n:], unicode.IsSpace)
	return Block{Kind: KindHeading, Level: level}, rest, true
}

// classifyListItem matches "-", "*", "12." / "12)" or "a." / "a)" followed by
// at least one whitespace character.
func classifyListItem(line string) (Block, string, bool) {
	end := listMarkerEnd(line)
	if end == 0 || end >= len(line) {
		return Block{}, "", false
	}
	rest := line[end:]
	trimmed := strings.TrimLeftFunc(rest, unicode.IsSpace)
	if len(trimmed) == len(rest) {
		// 标记后必须跟空白，否则 "a." 之类的短行按段落处理。
		return Block{}, "", false
	}
	return Block{Kind: KindListItem, Marker: line[:end]}, trimmed, true
}

// listMarkerEnd returns the byte length of the list marker at the start of
// line, or 0 when there is none.
func listMarkerEnd(line string) int {
	if line == "" {
		return 0
	}
	c := line[0]
	switch {
	case c == '-' || c == '*':
		return 1
	case isDigit(c):
		i := 1
		for i < len(line) && isDigit(line[i]) {
			i++
		}
		if i < len(line) && isMarkerPunct(line[i]) {
			return i + 1
		}
	case isASCIILetter(c):
		if len(line) > 1 && isMarkerPunct(line[1]) {
			return 2
		}
	}
	return 0
}

func classifyParagraph(line string) (Block, string, bool) {
	return Block{Kind: KindParagraph}, line, true
}

func isDigit(c byte) bool       { return c >= '0' && c <= '9' }
func isMarkerPunct(c byte) bool { return c == '.' || c == ')' }
func isASCIILetter(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }
