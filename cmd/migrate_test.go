package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/traincore/certassist/internal/catalog"
	"github.com/traincore/certassist/internal/model"
	"github.com/traincore/certassist/internal/store"
)

func newTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func TestSeedCertificateTypes(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	types, err := catalog.Load()
	require.NoError(t, err)

	n, err := seedCertificateTypes(ctx, st, types)
	require.NoError(t, err)
	assert.Equal(t, int64(len(types)), n)

	stored, err := st.ListCertificateTypes(ctx)
	require.NoError(t, err)
	assert.Len(t, stored, len(types))
}

func TestSeedCertificateTypes_RerunSkipsExisting(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	types, err := catalog.Load()
	require.NoError(t, err)

	_, err = seedCertificateTypes(ctx, st, types)
	require.NoError(t, err)

	n, err := seedCertificateTypes(ctx, st, types)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	stored, err := st.ListCertificateTypes(ctx)
	require.NoError(t, err)
	assert.Len(t, stored, len(types))
}

func TestImportEmployees_RowByRow(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	n, err := importEmployees(ctx, st, []model.Employee{
		{FirstName: "Rita", LastName: "Kroes", Email: "rita@example.com", Active: true},
		{FirstName: "Jan", LastName: "de Vries", Email: "jan@example.com", Active: true},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	employees, err := st.ListEmployees(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, employees, 2)
}
