// Package extract turns an uploaded page (an image or extracted PDF text)
// into markdown through a generative AI backend.
//
// Process never fails: backend and parse errors come back as a Result whose
// DetectedType is "Error", so callers always have something to show.
package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
)

// InputKind distinguishes the two shapes an upload can take.
type InputKind string

const (
	KindText  InputKind = "text"
	KindImage InputKind = "image"
)

// Input is the prepared content of one uploaded file.
// Text is set for KindText; Data (base64) and MIMEType for KindImage.
type Input struct {
	Kind     InputKind
	Text     string
	Data     string
	MIMEType string
}

// Result is the structured answer of the model.
type Result struct {
	DetectedType    string `json:"detectedType" yaml:"detectedType"`
	MarkdownContent string `json:"markdownContent" yaml:"markdownContent"`
}

// ErrorType is the DetectedType of a failed extraction.
const ErrorType = "Error"

// Part is one element of a multimodal prompt: either text or inline bytes.
type Part struct {
	Text   string
	Inline *Blob
}

// Blob carries base64 data with its MIME type.
type Blob struct {
	MIMEType string
	Data     string
}

// Backend abstracts the generative API so tests can supply a fake.
// Generate returns the raw text of the model response.
type Backend interface {
	Generate(ctx context.Context, parts []Part) (string, error)
}

// Process builds the prompt for in, calls the backend and parses the answer.
func Process(ctx context.Context, backend Backend, in Input, solve bool) Result {
	res, err := process(ctx, backend, in, solve)
	if err != nil {
		log.Printf("extract: %v", err)
		return Result{
			DetectedType:    ErrorType,
			MarkdownContent: fmt.Sprintf("Processing Failed: %s.", err),
		}
	}
	return res
}

func process(ctx context.Context, backend Backend, in Input, solve bool) (Result, error) {
	if backend == nil {
		return Result{}, fmt.Errorf("no extraction backend configured")
	}
	parts, err := buildParts(in, solve)
	if err != nil {
		return Result{}, err
	}
	text, err := backend.Generate(ctx, parts)
	if err != nil {
		return Result{}, err
	}
	return parseResult(text)
}

// parseResult decodes the model answer. Models occasionally wrap the JSON
// in a ```json fence despite the response MIME type, so a second attempt
// strips fences.
func parseResult(text string) (Result, error) {
	var res Result
	err := json.Unmarshal([]byte(text), &res)
	if err == nil {
		return res, nil
	}
	clean := strings.ReplaceAll(text, "```json", "")
	clean = strings.TrimSpace(strings.ReplaceAll(clean, "```", ""))
	if err2 := json.Unmarshal([]byte(clean), &res); err2 != nil {
		return Result{}, fmt.Errorf("parsing model response: %w", err)
	}
	return res, nil
}
