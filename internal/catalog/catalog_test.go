package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Embedded(t *testing.T) {
	types, err := Load()
	require.NoError(t, err)
	require.NotEmpty(t, types)

	byName := make(map[string]int, len(types))
	for _, ct := range types {
		byName[ct.Name] = ct.ValidityMonths
	}
	assert.Contains(t, byName, "VCA Basic Safety")
	assert.Equal(t, 60, byName["Forklift Operator"])
	assert.Equal(t, 12, byName["BHV"])
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
certificate_types:
  - name: Confined Spaces
    issuer: SSVV
    validity_months: 60
`), 0o600))

	types, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, types, 1)
	assert.Equal(t, "Confined Spaces", types[0].Name)
	assert.Equal(t, 60, types[0].ValidityMonths)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestParse_Rejects(t *testing.T) {
	_, err := Parse([]byte("certificate_types: []"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no certificate types")

	_, err = Parse([]byte("certificate_types:\n  - issuer: SSVV"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "without a name")

	_, err = Parse([]byte("::not yaml"))
	require.Error(t, err)
}
