package extract

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/traincore/certassist/internal/model"
	"github.com/traincore/certassist/pkg/anthropic"
)

// Default model and token budget for field extraction.
const (
	extractionModel     = "claude-haiku-4-5-20251001"
	extractionMaxTokens = 1024
)

const extractionSystemPrompt = `You are a document analyst extracting structured data from workplace safety certificates, diplomas, and training certificates.

Return ONLY a JSON object with exactly these keys:
{
  "certificate_number": "",
  "issue_date": "",
  "expiry_date": "",
  "issuer": "",
  "holder_name": "",
  "certificate_type": "",
  "confidence": 0.0
}

Rules:
- Use an empty string for any field not present in the document, never null
- Ambiguous numeric dates are DD-MM-YYYY (European convention); always emit ISO YYYY-MM-DD
- holder_name is the person the certificate was issued to, not the signatory
- certificate_type is the kind of qualification (e.g. "VCA Basic", "Forklift Operator"), not the document title
- confidence is 0.0-1.0 for how clearly the document supports the extracted values
- No prose, no markdown fences, JSON only`

// rawFields mirrors the JSON shape the model is instructed to return.
type rawFields struct {
	CertificateNumber string  `json:"certificate_number"`
	IssueDate         string  `json:"issue_date"`
	ExpiryDate        string  `json:"expiry_date"`
	Issuer            string  `json:"issuer"`
	HolderName        string  `json:"holder_name"`
	CertificateType   string  `json:"certificate_type"`
	Confidence        float64 `json:"confidence"`
}

// FieldExtractor turns raw document text into a typed field set via the
// language model, with JSON repair and a regex fallback on parse failure.
type FieldExtractor struct {
	client anthropic.Client
	model  string
}

func NewFieldExtractor(client anthropic.Client, modelOverride string) *FieldExtractor {
	m := extractionModel
	if modelOverride != "" {
		m = modelOverride
	}
	return &FieldExtractor{client: client, model: m}
}

// Extract prompts the model with the document text. Parse failures are
// recovered locally: bracket repair first, labeled-pattern regexes last.
// Only a provider failure (retries exhausted) is returned as an error.
// The returned note is non-empty when the regex fallback was used.
func (e *FieldExtractor) Extract(ctx context.Context, text string) (model.ExtractedFields, int, string, error) {
	resp, err := e.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     e.model,
		MaxTokens: extractionMaxTokens,
		System:    []anthropic.SystemBlock{{Text: extractionSystemPrompt}},
		Messages: []anthropic.Message{
			{Role: "user", Content: "Extract the certificate fields from this document:\n\n" + text},
		},
	})
	if err != nil {
		return model.ExtractedFields{}, 0, "", eris.Wrap(err, "extract: field extraction call")
	}
	resp.Usage.LogCost(e.model, "field_extraction")

	cleaned := CleanJSON(resp.Text())

	var raw rawFields
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		repaired := RepairJSON(cleaned)
		if err := json.Unmarshal([]byte(repaired), &raw); err != nil {
			zap.L().Warn("model JSON unrecoverable, using regex fallback", zap.Error(err))
			return ExtractFieldsRegex(text), regexFallbackConfidence, "AI extraction bypassed: unparseable model response", nil
		}
	}

	fields := model.ExtractedFields{
		CertificateNumber: strings.TrimSpace(raw.CertificateNumber),
		IssueDate:         NormalizeDate(raw.IssueDate),
		ExpiryDate:        NormalizeDate(raw.ExpiryDate),
		Issuer:            strings.TrimSpace(raw.Issuer),
		HolderName:        strings.TrimSpace(raw.HolderName),
		CertificateType:   strings.TrimSpace(raw.CertificateType),
	}
	confidence := int(raw.Confidence * 100)
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 100 {
		confidence = 100
	}
	return fields, confidence, "", nil
}
