package markdown

import (
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

var (
	spanLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Stars", Pattern: `\*+`},
		{Name: "Text", Pattern: `[^*]+`},
	})

	starsTokenType = spanLexer.Symbols()["Stars"]
)

// delim is the kind of an inline token; delimiter kinds double as the style
// they switch on.
type delim int

const (
	delimNone delim = iota // literal text
	delimItalic
	delimBold
	delimBoldItalic
)

type inlineToken struct {
	kind delim
	text string
}

// runState 是状态机当前所处的样式状态：plain / in-bold / in-italic / in-bold-italic。
type runState struct {
	bold   bool
	italic bool
}

// open returns the state entered by a delimiter of kind d.
func (s runState) open(d delim) runState {
	switch d {
	case delimBold:
		s.bold = true
	case delimItalic:
		s.italic = true
	case delimBoldItalic:
		s.bold, s.italic = true, true
	}
	return s
}

// ParseSpans splits a block's text into styled spans. `**…**` is bold, `*…*`
// italic, `***…***` both. Delimiters without a closing partner stay literal.
func ParseSpans(text string) []Span {
	if text == "" {
		return nil
	}
	tokens, ok := tokenizeInline(text)
	if !ok {
		return []Span{{Text: text}}
	}
	return parseRun(tokens, runState{})
}

// tokenizeInline lexes text into literal and delimiter tokens.
func tokenizeInline(text string) ([]inlineToken, bool) {
	lex, err := spanLexer.LexString("", text)
	if err != nil {
		return nil, false
	}
	raw, err := lexer.ConsumeAll(lex)
	if err != nil {
		return nil, false
	}
	tokens := make([]inlineToken, 0, len(raw))
	for _, tok := range raw {
		if tok.EOF() {
			break
		}
		if tok.Type != starsTokenType {
			tokens = append(tokens, inlineToken{kind: delimNone, text: tok.Value})
			continue
		}
		tokens = append(tokens, splitStars(len(tok.Value))...)
	}
	return tokens, true
}

// splitStars turns a run of n '*' into delimiter tokens: "**" pairs while at
// least four stars remain, then a single "***", "**" or "*".
func splitStars(n int) []inlineToken {
	var out []inlineToken
	for n >= 4 {
		out = append(out, inlineToken{kind: delimBold, text: "**"})
		n -= 2
	}
	switch n {
	case 3:
		out = append(out, inlineToken{kind: delimBoldItalic, text: "***"})
	case 2:
		out = append(out, inlineToken{kind: delimBold, text: "**"})
	case 1:
		out = append(out, inlineToken{kind: delimItalic, text: "*"})
	}
	return out
}

// parseRun walks tokens in the given state. A delimiter opens a nested run
// only when its closing partner (the first later token of the same kind)
// exists inside tokens; otherwise it is literal text.
func parseRun(tokens []inlineToken, state runState) []Span {
	var spans []Span
	var buf strings.Builder
	flush := func() {
		if buf.Len() == 0 {
			return
		}
		spans = append(spans, Span{Text: buf.String(), Bold: state.bold, Italic: state.italic})
		buf.Reset()
	}

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		if tok.kind == delimNone {
			buf.WriteString(tok.text)
			continue
		}
		next := state.open(tok.kind)
		closing := -1
		if next != state {
			closing = findClosing(tokens, i+1, tok.kind)
		}
		if closing < 0 {
			buf.WriteString(tok.text)
			continue
		}
		flush()
		spans = append(spans, parseRun(tokens[i+1:closing], next)...)
		i = closing
	}
	flush()
	return spans
}

func findClosing(tokens []inlineToken, from int, kind delim) int {
	for j := from; j < len(tokens); j++ {
		if tokens[j].kind == kind {
			return j
		}
	}
	return -1
}
