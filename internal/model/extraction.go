package model

import "time"

// ExtractionStatus tracks a document through the extraction pipeline.
type ExtractionStatus string

const (
	ExtractionQueued         ExtractionStatus = "queued"
	ExtractionTextExtracting ExtractionStatus = "text_extracting"
	ExtractionOCRRendering   ExtractionStatus = "ocr_rendering"
	ExtractionAIExtracting   ExtractionStatus = "ai_extracting"
	ExtractionParsed         ExtractionStatus = "parsed"
	ExtractionResolved       ExtractionStatus = "resolved"
	ExtractionCompleted      ExtractionStatus = "completed"
	ExtractionFailed         ExtractionStatus = "failed"
)

// ExtractionRequest describes an uploaded certificate document to process.
type ExtractionRequest struct {
	DocumentID string `json:"document_id"`
	MimeType   string `json:"mime_type"`
	BlobPath   string `json:"blob_path"`
}

// ExtractedFields is the fixed field shape the pipeline produces. Fields the
// document does not yield are left empty, never null placeholders.
type ExtractedFields struct {
	CertificateNumber string `json:"certificate_number,omitempty"`
	IssueDate         string `json:"issue_date,omitempty"`  // ISO YYYY-MM-DD when normalizable
	ExpiryDate        string `json:"expiry_date,omitempty"` // ISO YYYY-MM-DD when normalizable
	Issuer            string `json:"issuer,omitempty"`
	HolderName        string `json:"holder_name,omitempty"`
	CertificateType   string `json:"certificate_type,omitempty"`
}

// MatchCandidate is a fuzzy-match hit against a known entity.
type MatchCandidate struct {
	EntityID   int64   `json:"entity_id"`
	EntityName string  `json:"entity_name"`
	Similarity float64 `json:"similarity"` // 0..1
}

// ExtractionResult is the persisted outcome of a pipeline run.
type ExtractionResult struct {
	DocumentID        string           `json:"document_id"`
	Status            ExtractionStatus `json:"status"`
	Fields            ExtractedFields  `json:"fields"`
	Confidence        int              `json:"confidence"` // 0..100, always present
	SuggestedEmployee *MatchCandidate  `json:"suggested_employee,omitempty"`
	SuggestedType     *MatchCandidate  `json:"suggested_type,omitempty"`
	Errors            []string         `json:"errors,omitempty"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}
