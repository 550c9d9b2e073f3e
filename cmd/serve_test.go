package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/traincore/certassist/internal/assistant"
	"github.com/traincore/certassist/internal/extract"
	"github.com/traincore/certassist/internal/model"
	"github.com/traincore/certassist/internal/report"
	"github.com/traincore/certassist/internal/secure"
	"github.com/traincore/certassist/internal/store"
	"github.com/traincore/certassist/pkg/anthropic"
	"github.com/traincore/certassist/pkg/vision"
)

type stubLLM struct {
	text string
}

func (s *stubLLM) CreateMessage(ctx context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	return &anthropic.MessageResponse{
		Content: []anthropic.ContentBlock{{Type: "text", Text: s.text}},
	}, nil
}

type stubReader struct{ text string }

func (s *stubReader) ExtractText(ctx context.Context, pdfPath string) (string, error) {
	return s.text, nil
}

type stubRenderer struct{}

func (s *stubRenderer) RenderPages(ctx context.Context, pdfPath string, maxPages int) ([][]byte, error) {
	return nil, nil
}

type stubVision struct{}

func (s *stubVision) ChatCompletion(ctx context.Context, req vision.ChatCompletionRequest) (*vision.ChatCompletionResponse, error) {
	return &vision.ChatCompletionResponse{}, nil
}

func newTestEnv(t *testing.T, llmText string) *env {
	t.Helper()
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))

	mutator, err := secure.NewMutator(st)
	require.NoError(t, err)

	llm := &stubLLM{text: llmText}
	fields := extract.NewFieldExtractor(llm, "")
	return &env{
		Store:      st,
		Dispatcher: assistant.NewDispatcher(llm, st, mutator, ""),
		Pipeline:   extract.NewPipeline(st, &stubReader{text: "Certificate Number: AB-1 valid 01-01-2024 to 01-01-2029"}, &stubRenderer{}, &stubVision{}, fields),
		Exporter:   report.NewExporter(st),
	}
}

func TestServeHealth(t *testing.T) {
	router := newRouter(context.Background(), newTestEnv(t, "hi"))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestServeChat(t *testing.T) {
	router := newRouter(context.Background(), newTestEnv(t, "There are no expiring certificates."))

	body, _ := json.Marshal(model.AIRequest{Message: "anything expiring?"})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/assistant/chat", bytes.NewReader(body))
	req.Header.Set("X-Actor-ID", "user-1")
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp model.AIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "There are no expiring certificates.", resp.Content)
}

func TestServeChat_MissingMessage(t *testing.T) {
	router := newRouter(context.Background(), newTestEnv(t, "hi"))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/assistant/chat", bytes.NewReader([]byte(`{}`))))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServeExtractAcceptedAndPolled(t *testing.T) {
	e := newTestEnv(t, `{"certificate_number":"AB-1","issue_date":"01-01-2024","expiry_date":"01-01-2029","issuer":"","holder_name":"","certificate_type":"","confidence":0.9}`)
	router := newRouter(context.Background(), e)

	body := []byte(`{"document_id":"doc-9","path":"/blobs/doc-9.pdf"}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/documents/extract", bytes.NewReader(body)))
	require.Equal(t, http.StatusAccepted, rec.Code)

	// The pipeline runs asynchronously; poll until it settles.
	require.Eventually(t, func() bool {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/documents/extract/doc-9", nil))
		if rec.Code != http.StatusOK {
			return false
		}
		var res model.ExtractionResult
		if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
			return false
		}
		return res.Status == model.ExtractionCompleted
	}, 5*time.Second, 20*time.Millisecond)
}

func TestServeExtractStatus_Unknown(t *testing.T) {
	router := newRouter(context.Background(), newTestEnv(t, "hi"))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/documents/extract/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServeExtract_RequiresFields(t *testing.T) {
	router := newRouter(context.Background(), newTestEnv(t, "hi"))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/documents/extract", bytes.NewReader([]byte(`{"document_id":"x"}`))))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServeExpiringReport(t *testing.T) {
	router := newRouter(context.Background(), newTestEnv(t, "hi"))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reports/expiring?days=30", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "expiring.xlsx")

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reports/expiring?days=zero", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestActorFromHeaders(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("X-Actor-ID", "user-3")
	req.Header.Set("X-Actor-Capabilities", "employees:update, trainings:create")

	actor := actorFromHeaders(req)
	assert.Equal(t, "user-3", actor.ID)
	assert.True(t, actor.SessionValid)
	assert.Equal(t, []string{"employees:update", "trainings:create"}, actor.Capabilities)

	anon := actorFromHeaders(httptest.NewRequest(http.MethodPost, "/", nil))
	assert.False(t, anon.SessionValid)
}

func TestMimeFromPath(t *testing.T) {
	assert.Equal(t, "application/pdf", mimeFromPath("/x/a.PDF"))
	assert.Equal(t, "image/png", mimeFromPath("scan.png"))
	assert.Equal(t, "image/jpeg", mimeFromPath("scan.jpeg"))
	assert.Equal(t, "application/octet-stream", mimeFromPath("doc.docx"))
}
