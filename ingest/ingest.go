// Package ingest prepares an uploaded file for extraction: images are
// passed through as base64, PDFs are reduced to their text layer.
package ingest

import (
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/tsawler/tabula"

	"github.com/ByLCY/paperdoc/extract"
)

const (
	MIMEJPEG  = "image/jpeg"
	MIMEPDF   = "application/pdf"
	MIMEOther = "application/octet-stream"
)

// minTextRunes is the shortest text layer treated as a real PDF text
// extraction; anything shorter is most likely a scan.
const minTextRunes = 50

// ScannedPDFNotice replaces the text of PDFs without a usable text layer.
const ScannedPDFNotice = "[SCANNED_PDF_DETECTED] This PDF seems to be an image scan. Text extraction might be poor. For best results, convert to JPG/PNG."

// ErrUnsupportedType is returned for files that are neither images nor PDFs.
var ErrUnsupportedType = errors.New("unsupported file type")

// MIMETypeFor maps a file name to the MIME type used for extraction.
// PNG files are reported as image/jpeg as well; the model accepts both.
func MIMETypeFor(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png", ".jpg", ".jpeg":
		return MIMEJPEG
	case ".pdf":
		return MIMEPDF
	default:
		return MIMEOther
	}
}

// PDFTextFunc extracts the text layer of a PDF file. Tests replace it.
var PDFTextFunc = pdfText

func pdfText(path string) (string, error) {
	text, warnings, err := tabula.Open(path).Text()
	if err != nil {
		return "", err
	}
	if len(warnings) > 0 {
		log.Printf("ingest: %s: %d extraction warnings", filepath.Base(path), len(warnings))
	}
	return text, nil
}

// Load reads the file at path and builds the extraction input for mimeType.
func Load(path, mimeType string) (extract.Input, error) {
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		data, err := os.ReadFile(path)
		if err != nil {
			return extract.Input{}, fmt.Errorf("reading image %s: %w", filepath.Base(path), err)
		}
		return extract.Input{
			Kind:     extract.KindImage,
			Data:     base64.StdEncoding.EncodeToString(data),
			MIMEType: mimeType,
		}, nil
	case mimeType == MIMEPDF:
		text, err := PDFTextFunc(path)
		if err != nil {
			return extract.Input{}, fmt.Errorf("extracting PDF text from %s: %w", filepath.Base(path), err)
		}
		if utf8.RuneCountInString(strings.TrimSpace(text)) < minTextRunes {
			text = ScannedPDFNotice
		}
		return extract.Input{Kind: extract.KindText, Text: text}, nil
	default:
		return extract.Input{}, fmt.Errorf("%w: %s", ErrUnsupportedType, mimeType)
	}
}
