package extract

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/traincore/certassist/internal/model"
	"github.com/traincore/certassist/internal/store"
	"github.com/traincore/certassist/pkg/anthropic"
	"github.com/traincore/certassist/pkg/vision"
)

// fakeReader returns a fixed text layer.
type fakeReader struct {
	text string
	err  error
}

func (f *fakeReader) ExtractText(ctx context.Context, pdfPath string) (string, error) {
	return f.text, f.err
}

// fakeRenderer records the requested page cap and pretends the document
// has more pages than the cap allows.
type fakeRenderer struct {
	totalPages   int
	requestedMax int
}

func (f *fakeRenderer) RenderPages(ctx context.Context, pdfPath string, maxPages int) ([][]byte, error) {
	f.requestedMax = maxPages
	n := f.totalPages
	if n > maxPages {
		n = maxPages
	}
	pages := make([][]byte, n)
	for i := range pages {
		pages[i] = []byte{0x89, 0x50}
	}
	return pages, nil
}

// fakeVision counts calls and returns canned page text.
type fakeVision struct {
	calls int
	text  string
}

func (f *fakeVision) ChatCompletion(ctx context.Context, req vision.ChatCompletionRequest) (*vision.ChatCompletionResponse, error) {
	f.calls++
	return &vision.ChatCompletionResponse{
		Choices: []vision.Choice{{Message: vision.ChoiceMessage{Content: f.text}}},
	}, nil
}

// fakeLLM returns a fixed completion.
type fakeLLM struct {
	response string
	calls    int
}

func (f *fakeLLM) CreateMessage(ctx context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	f.calls++
	return &anthropic.MessageResponse{
		Content: []anthropic.ContentBlock{{Type: "text", Text: f.response}},
	}, nil
}

func newTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func queueDoc(t *testing.T, st *store.SQLiteStore, id, mime string) model.ExtractionRequest {
	t.Helper()
	req := model.ExtractionRequest{DocumentID: id, MimeType: mime, BlobPath: "/blobs/" + id}
	require.NoError(t, st.CreateExtraction(context.Background(), req))
	return req
}

const goodLLMResponse = `{"certificate_number":"FL-2025-0042","issue_date":"15-03-2025","expiry_date":"15-03-2030","issuer":"TCVT","holder_name":"Kroes, R.","certificate_type":"Forklift Operator","confidence":0.92}`

func TestPipeline_TextLayerPath(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.CreateEmployee(ctx, &model.Employee{FirstName: "Rita", LastName: "Kroes", Active: true}))
	require.NoError(t, st.CreateCertificateType(ctx, &model.CertificateType{Name: "Forklift Operator"}))

	llm := &fakeLLM{response: goodLLMResponse}
	viz := &fakeVision{}
	p := NewPipeline(st, &fakeReader{text: "CERTIFICATE Number: FL-2025-0042 issued to Kroes, R."}, &fakeRenderer{}, viz, NewFieldExtractor(llm, ""))

	req := queueDoc(t, st, "doc-1", "application/pdf")
	res, err := p.Process(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, model.ExtractionCompleted, res.Status)
	assert.Equal(t, "FL-2025-0042", res.Fields.CertificateNumber)
	assert.Equal(t, "2025-03-15", res.Fields.IssueDate)
	assert.Equal(t, "2030-03-15", res.Fields.ExpiryDate)
	assert.Equal(t, 92, res.Confidence)
	assert.Empty(t, res.Errors)

	// Text layer was sufficient: the vision model was never called.
	assert.Zero(t, viz.calls)

	// Fuzzy resolution matched the comma-inverted holder name.
	require.NotNil(t, res.SuggestedEmployee)
	assert.Equal(t, "Rita Kroes", res.SuggestedEmployee.EntityName)
	require.NotNil(t, res.SuggestedType)
	assert.Equal(t, "Forklift Operator", res.SuggestedType.EntityName)

	// The persisted record matches the returned result.
	stored, err := st.GetExtraction(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, model.ExtractionCompleted, stored.Status)
	assert.Equal(t, "FL-2025-0042", stored.Fields.CertificateNumber)
}

func TestPipeline_ShortTextTriggersOCR_CappedAtThreePages(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	llm := &fakeLLM{response: goodLLMResponse}
	viz := &fakeVision{text: "Certificate Number: FL-2025-0042"}
	renderer := &fakeRenderer{totalPages: 10}
	p := NewPipeline(st, &fakeReader{text: "x2345"}, renderer, viz, NewFieldExtractor(llm, ""))

	req := queueDoc(t, st, "doc-2", "application/pdf")
	res, err := p.Process(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, model.ExtractionCompleted, res.Status)
	// 5 chars of text layer is below the sufficiency threshold, so the
	// vision path ran, bounded to the first 3 pages of the 10-page doc.
	assert.Equal(t, 3, renderer.requestedMax)
	assert.Equal(t, 3, viz.calls)
}

func TestPipeline_ImageSkipsTextLayer(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	blobDir := t.TempDir()
	blobPath := filepath.Join(blobDir, "scan.jpg")
	require.NoError(t, os.WriteFile(blobPath, []byte{0xff, 0xd8, 0xff}, 0o600))

	llm := &fakeLLM{response: goodLLMResponse}
	viz := &fakeVision{text: "scanned text"}
	p := NewPipeline(st, &fakeReader{text: "should not be used"}, &fakeRenderer{}, viz, NewFieldExtractor(llm, ""))

	req := model.ExtractionRequest{DocumentID: "doc-3", MimeType: "image/jpeg", BlobPath: blobPath}
	require.NoError(t, st.CreateExtraction(ctx, req))

	res, err := p.Process(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, model.ExtractionCompleted, res.Status)
	assert.Equal(t, 1, viz.calls)
}

func TestPipeline_UnsupportedMimeFailsFast(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	p := NewPipeline(st, &fakeReader{}, &fakeRenderer{}, &fakeVision{}, NewFieldExtractor(&fakeLLM{}, ""))
	req := queueDoc(t, st, "doc-4", "application/zip")

	res, err := p.Process(ctx, req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported mime type")
	assert.Equal(t, model.ExtractionFailed, res.Status)
	assert.Zero(t, res.Confidence)

	stored, err := st.GetExtraction(ctx, "doc-4")
	require.NoError(t, err)
	assert.Equal(t, model.ExtractionFailed, stored.Status)
	require.NotEmpty(t, stored.Errors)
	assert.Contains(t, stored.Errors[0], "unsupported mime type")
}

func TestPipeline_UnparseableLLMFallsBackToRegex(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	llm := &fakeLLM{response: "I could not produce JSON, sorry!"}
	text := "Certificate Number: AB-999\nName: Jan de Vries\nvalid 01-01-2024 to 01-01-2029"
	p := NewPipeline(st, &fakeReader{text: text}, &fakeRenderer{}, &fakeVision{}, NewFieldExtractor(llm, ""))

	req := queueDoc(t, st, "doc-5", "application/pdf")
	res, err := p.Process(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, model.ExtractionCompleted, res.Status)
	assert.Equal(t, "AB-999", res.Fields.CertificateNumber)
	assert.Equal(t, "2024-01-01", res.Fields.IssueDate)
	assert.Equal(t, "2029-01-01", res.Fields.ExpiryDate)
	assert.Equal(t, 60, res.Confidence)
	require.NotEmpty(t, res.Errors)
	assert.Contains(t, res.Errors[0], "AI extraction bypassed")
}

func TestPipeline_TruncatedLLMJSONIsRepaired(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	llm := &fakeLLM{response: `{"certificate_number":"XY-1","issue_date":"18-06-2025","expiry_date":"","issuer":"","holder_name":"","certificate_type":"","confidence":0.8`}
	p := NewPipeline(st, &fakeReader{text: "long enough text layer"}, &fakeRenderer{}, &fakeVision{}, NewFieldExtractor(llm, ""))

	req := queueDoc(t, st, "doc-6", "application/pdf")
	res, err := p.Process(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, "XY-1", res.Fields.CertificateNumber)
	assert.Equal(t, "2025-06-18", res.Fields.IssueDate)
	assert.Equal(t, 80, res.Confidence)
	assert.Empty(t, res.Errors)
}

func TestPipeline_Batch(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	llm := &fakeLLM{response: goodLLMResponse}
	p := NewPipeline(st, &fakeReader{text: "sufficient text layer here"}, &fakeRenderer{}, &fakeVision{}, NewFieldExtractor(llm, ""))

	reqs := []model.ExtractionRequest{
		queueDoc(t, st, "batch-1", "application/pdf"),
		queueDoc(t, st, "batch-2", "application/pdf"),
		queueDoc(t, st, "batch-3", "application/zip"), // fails, others continue
	}

	results := p.ProcessBatch(ctx, reqs)
	require.Len(t, results, 3)
	assert.Equal(t, model.ExtractionCompleted, results[0].Status)
	assert.Equal(t, model.ExtractionCompleted, results[1].Status)
	assert.Equal(t, model.ExtractionFailed, results[2].Status)
}
