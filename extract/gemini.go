package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/ByLCY/paperdoc/httputil"
)

const (
	// DefaultGeminiBaseURL is the public REST endpoint of the Gemini API.
	DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	// DefaultGeminiModel is used when GeminiBackend.Model is empty.
	DefaultGeminiModel = "gemini-2.5-flash"
)

// GeminiBackend calls the generateContent method of the Gemini REST API
// with a JSON response schema of {detectedType, markdownContent}.
type GeminiBackend struct {
	APIKey     string
	Model      string
	BaseURL    string
	MaxRetries int
	Client     *http.Client
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiInlineData struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

type geminiGenerationConfig struct {
	ResponseMIMEType string        `json:"responseMimeType"`
	ResponseSchema   *geminiSchema `json:"responseSchema,omitempty"`
}

type geminiSchema struct {
	Type        string                   `json:"type"`
	Description string                   `json:"description,omitempty"`
	Nullable    *bool                    `json:"nullable,omitempty"`
	Properties  map[string]*geminiSchema `json:"properties,omitempty"`
	Required    []string                 `json:"required,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback,omitempty"`
}

type geminiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

func resultSchema() *geminiSchema {
	notNull := false
	return &geminiSchema{
		Type:        "OBJECT",
		Description: "Document extraction result",
		Properties: map[string]*geminiSchema{
			"detectedType": {
				Type:        "STRING",
				Description: "Type of document: 'Question Paper', 'Book', or 'Other'",
				Nullable:    &notNull,
			},
			"markdownContent": {
				Type:        "STRING",
				Description: "The full content of the document in strict Markdown format. Use **bold** for importance/keys. Use Unicode for math symbols where possible.",
				Nullable:    &notNull,
			},
		},
		Required: []string{"detectedType", "markdownContent"},
	}
}

// Generate sends the prompt parts and returns the concatenated text of the
// first candidate.
func (g *GeminiBackend) Generate(ctx context.Context, parts []Part) (string, error) {
	if g.APIKey == "" {
		return "", fmt.Errorf("gemini API key is not set")
	}

	reqBody := geminiRequest{
		Contents: []geminiContent{{Role: "user", Parts: toGeminiParts(parts)}},
		GenerationConfig: geminiGenerationConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   resultSchema(),
		},
	}
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint(), bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.APIKey)

	resp, err := httputil.DoWithRetry(ctx, g.Client, req, g.MaxRetries)
	if err != nil {
		return "", fmt.Errorf("calling Gemini API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		var apiErr geminiError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error.Message != "" {
			return "", fmt.Errorf("Gemini API returned %d: %s", resp.StatusCode, apiErr.Error.Message)
		}
		return "", fmt.Errorf("Gemini API returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var gResp geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&gResp); err != nil {
		return "", fmt.Errorf("decoding Gemini response: %w", err)
	}
	if gResp.PromptFeedback != nil && gResp.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("prompt blocked: %s", gResp.PromptFeedback.BlockReason)
	}
	if len(gResp.Candidates) == 0 {
		return "", fmt.Errorf("Gemini API returned no candidates")
	}

	var sb strings.Builder
	for _, p := range gResp.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("Gemini API returned empty content (finish reason %s)", gResp.Candidates[0].FinishReason)
	}
	return sb.String(), nil
}

func (g *GeminiBackend) endpoint() string {
	base := g.BaseURL
	if base == "" {
		base = DefaultGeminiBaseURL
	}
	model := g.Model
	if model == "" {
		model = DefaultGeminiModel
	}
	return strings.TrimRight(base, "/") + "/models/" + url.PathEscape(model) + ":generateContent"
}

func toGeminiParts(parts []Part) []geminiPart {
	out := make([]geminiPart, 0, len(parts))
	for _, p := range parts {
		if p.Inline != nil {
			out = append(out, geminiPart{InlineData: &geminiInlineData{MIMEType: p.Inline.MIMEType, Data: p.Inline.Data}})
			continue
		}
		out = append(out, geminiPart{Text: p.Text})
	}
	return out
}
