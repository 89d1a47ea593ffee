package extract

import (
	"bytes"
	"fmt"
	"text/template"
)

// MaxInputRunes bounds the extracted text sent to the model.
const MaxInputRunes = 30000

const imageInstruction = "Transcribe this image."

var instructionTmpl = template.Must(template.New("instruction").Parse(`
You are an AI document processor.

Task:
1. Analyze the input (Image or Text) visually.
2. Transcribe the text/math/tables perfectly into Markdown.
3. **Math Handling**:
   - Attempt to use Unicode symbols for math (e.g., θ, π, σ, ½, ², √) instead of LaTeX backslashes where possible to ensure compatibility.
   - If LaTeX is absolutely necessary for complex formulas, you MUST double-escape backslashes (e.g. \\frac{a}{b}).
4. **Structure**:
   - Use **bold** for Question Numbers (e.g. "**1.**", "**Q1.**").
   - Preserve indentation / lists.
{{- if .Solve}}
5. **SOLVE MATH QUESTIONS**:
   - The user wants the ANSWERS to the questions in the document.
   - For each question detected, solve it step-by-step.
   - Append the solution immediately after the question in an *Italicized Block* or > Blockquote.
   - Format: "**Answer:** ...step by step solution..."
{{- end}}
`))

var textTmpl = template.Must(template.New("text").Parse("Input Text:\n\"\"\"\n{{.}}\n\"\"\""))

func renderInstruction(solve bool) (string, error) {
	var buf bytes.Buffer
	if err := instructionTmpl.Execute(&buf, struct{ Solve bool }{Solve: solve}); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// buildParts lays out the prompt: instruction first, then the content.
func buildParts(in Input, solve bool) ([]Part, error) {
	instruction, err := renderInstruction(solve)
	if err != nil {
		return nil, fmt.Errorf("rendering prompt: %w", err)
	}
	parts := []Part{{Text: instruction}}

	switch in.Kind {
	case KindImage:
		if in.Data == "" {
			return nil, fmt.Errorf("image input has no data")
		}
		parts = append(parts,
			Part{Inline: &Blob{MIMEType: in.MIMEType, Data: in.Data}},
			Part{Text: imageInstruction},
		)
	case KindText:
		var buf bytes.Buffer
		if err := textTmpl.Execute(&buf, truncateRunes(in.Text, MaxInputRunes)); err != nil {
			return nil, fmt.Errorf("rendering prompt: %w", err)
		}
		parts = append(parts, Part{Text: buf.String()})
	default:
		return nil, fmt.Errorf("unsupported input kind %q", in.Kind)
	}
	return parts, nil
}

func truncateRunes(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
