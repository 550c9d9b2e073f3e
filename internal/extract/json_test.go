package extract

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"json_fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare_fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"leading_prose", "Here is the result:\n{\"a\":1}", `{"a":1}`},
		{"truncated_kept", `{"a":1,"b":[1,2`, `{"a":1,"b":[1,2`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanJSON(tt.in))
		})
	}
}

func TestRepairJSON_TruncatedObject(t *testing.T) {
	repaired := RepairJSON(`{"a":1,"b":[1,2`)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(repaired), &got))
	assert.Equal(t, float64(1), got["a"])
	assert.Equal(t, []any{float64(1), float64(2)}, got["b"])
}

func TestRepairJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"already_valid", `{"a":1}`, `{"a":1}`},
		{"missing_object_close", `{"a":1`, `{"a":1}`},
		{"missing_nested", `{"a":{"b":[1`, `{"a":{"b":[1]}}`},
		{"open_string", `{"a":"hel`, `{"a":"hel"}`},
		{"brace_inside_string", `{"a":"{["`, `{"a":"{["}`},
		{"escaped_quote", `{"a":"say \"hi`, `{"a":"say \"hi"}`},
		{"mismatched_left_alone", `{"a":1]`, `{"a":1]`},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RepairJSON(tt.in))
		})
	}
}

func TestExtractFieldsRegex(t *testing.T) {
	text := `CERTIFICATE OF COMPETENCE

Certificate Number: FL-2025-0042
Name: Rita Kroes
Issued by: TCVT
Issue: 15-03-2025  Valid until: 15/03/2030`

	f := ExtractFieldsRegex(text)
	assert.Equal(t, "FL-2025-0042", f.CertificateNumber)
	assert.Equal(t, "Rita Kroes", f.HolderName)
	assert.Equal(t, "TCVT", f.Issuer)
	assert.Equal(t, "2025-03-15", f.IssueDate)
	assert.Equal(t, "2030-03-15", f.ExpiryDate)
}

func TestExtractFieldsRegex_Empty(t *testing.T) {
	f := ExtractFieldsRegex("nothing useful here")
	assert.Empty(t, f.CertificateNumber)
	assert.Empty(t, f.HolderName)
	assert.Empty(t, f.IssueDate)
}

func TestExtractFieldsRegex_SingleDateIsIssue(t *testing.T) {
	f := ExtractFieldsRegex("License Number: AB-123\ndated 01-02-2024")
	assert.Equal(t, "2024-02-01", f.IssueDate)
	assert.Empty(t, f.ExpiryDate)
}
