// Package ocr turns document blobs into text: a pdftotext text-layer
// reader, a pdftoppm page renderer for image-only documents, and a
// Mistral OCR fallback provider.
package ocr

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/traincore/certassist/internal/config"
)

// Extractor extracts the text layer from PDF files.
type Extractor interface {
	ExtractText(ctx context.Context, pdfPath string) (string, error)
}

// NewExtractor creates an Extractor based on config.
func NewExtractor(cfg config.OCRConfig, mistralKey string) (Extractor, error) {
	switch cfg.Provider {
	case "local", "":
		return NewPdfToText(cfg.PdfToTextPath), nil
	case "mistral":
		if mistralKey == "" {
			return nil, eris.New("ocr: mistral provider requires mistral_api_key")
		}
		return NewMistralOCR(mistralKey, ""), nil
	default:
		return nil, eris.Errorf("ocr: unknown provider %q", cfg.Provider)
	}
}
