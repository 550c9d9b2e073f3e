package extract

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/traincore/certassist/pkg/anthropic"
)

type scriptedLLM struct {
	response string
	err      error
	lastReq  anthropic.MessageRequest
}

func (s *scriptedLLM) CreateMessage(ctx context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	s.lastReq = req
	if s.err != nil {
		return nil, s.err
	}
	return &anthropic.MessageResponse{
		Content: []anthropic.ContentBlock{{Type: "text", Text: s.response}},
	}, nil
}

func TestFieldExtractor_FencedResponse(t *testing.T) {
	llm := &scriptedLLM{response: "```json\n" + `{"certificate_number":"VCA-7","issue_date":"02-09-2024","expiry_date":"2027-09-02","issuer":"SSVV","holder_name":" Jan de Vries ","certificate_type":"VCA Basic","confidence":0.95}` + "\n```"}
	fx := NewFieldExtractor(llm, "")

	fields, confidence, note, err := fx.Extract(context.Background(), "doc text")
	require.NoError(t, err)
	assert.Empty(t, note)
	assert.Equal(t, 95, confidence)
	assert.Equal(t, "VCA-7", fields.CertificateNumber)
	assert.Equal(t, "2024-09-02", fields.IssueDate, "DMY date normalized to ISO")
	assert.Equal(t, "2027-09-02", fields.ExpiryDate)
	assert.Equal(t, "Jan de Vries", fields.HolderName, "whitespace trimmed")
	assert.Equal(t, "VCA Basic", fields.CertificateType)
}

func TestFieldExtractor_ConfidenceClamped(t *testing.T) {
	llm := &scriptedLLM{response: `{"certificate_number":"X","issue_date":"","expiry_date":"","issuer":"","holder_name":"","certificate_type":"","confidence":1.7}`}
	fx := NewFieldExtractor(llm, "")

	_, confidence, _, err := fx.Extract(context.Background(), "doc text")
	require.NoError(t, err)
	assert.Equal(t, 100, confidence)
}

func TestFieldExtractor_ProviderErrorPropagates(t *testing.T) {
	llm := &scriptedLLM{err: eris.New("provider unavailable")}
	fx := NewFieldExtractor(llm, "")

	_, _, _, err := fx.Extract(context.Background(), "doc text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "field extraction call")
}

func TestFieldExtractor_ModelOverride(t *testing.T) {
	llm := &scriptedLLM{response: `{"certificate_number":"","issue_date":"","expiry_date":"","issuer":"","holder_name":"","certificate_type":"","confidence":0.5}`}
	fx := NewFieldExtractor(llm, "claude-sonnet-4-5")

	_, _, _, err := fx.Extract(context.Background(), "doc text")
	require.NoError(t, err)
	assert.Equal(t, "claude-sonnet-4-5", llm.lastReq.Model)
}
