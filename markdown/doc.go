// Package markdown parses the constrained markdown dialect produced by the
// extraction service: one block per non-blank line (heading, list item or
// paragraph), each holding bold/italic styled spans.
//
// Example:
//
//	doc := markdown.Parse("# Title\n\n1. **Q1.** Solve for x\n")
//	for _, b := range doc.Blocks {
//		fmt.Println(b.Kind, b.Marker, b.Text())
//	}
//
// Parsing never fails: unrecognized lines become paragraphs and unmatched
// delimiters stay literal text.
package markdown
