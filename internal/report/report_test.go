package report

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/traincore/certassist/internal/model"
	"github.com/traincore/certassist/internal/store"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func TestExportExpiring(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	emp := &model.Employee{FirstName: "Rita", LastName: "Kroes", Active: true}
	require.NoError(t, st.CreateEmployee(ctx, emp))
	require.NoError(t, st.CreateCertificateType(ctx, &model.CertificateType{Name: "Forklift Operator"}))

	expiry := time.Now().UTC().AddDate(0, 0, 20)
	require.NoError(t, st.InsertEmployeeCertificate(ctx, &model.EmployeeCertificate{
		EmployeeID:        emp.ID,
		CertificateTypeID: 1,
		CertificateNumber: "FL-1",
		ExpiryDate:        &expiry,
	}))

	path := filepath.Join(t.TempDir(), "expiring.xlsx")
	n, err := NewExporter(st).ExportExpiring(ctx, path, 30, 100)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	sheet := f.Sheets[0]
	require.Len(t, sheet.Rows, 2)
	assert.Equal(t, "Employee", sheet.Rows[0].Cells[0].String())
	assert.Equal(t, "Rita Kroes", sheet.Rows[1].Cells[0].String())
	assert.Equal(t, "FL-1", sheet.Rows[1].Cells[2].String())
}

func TestExportExpiring_EmptyWindow(t *testing.T) {
	st := newTestStore(t)
	path := filepath.Join(t.TempDir(), "empty.xlsx")

	n, err := NewExporter(st).ExportExpiring(context.Background(), path, 30, 100)
	require.NoError(t, err)
	assert.Zero(t, n)

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	assert.Len(t, f.Sheets[0].Rows, 1, "header only")
}

func TestExportAudit(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.AppendAudit(ctx, &model.AuditLogEntry{
		ID:            "a1",
		ActorID:       "user-7",
		Operation:     "update",
		Table:         "employees",
		TargetID:      "3",
		ChangedFields: []string{"department", "job_title"},
		CreatedAt:     time.Now().UTC(),
	}))

	path := filepath.Join(t.TempDir(), "audit.xlsx")
	n, err := NewExporter(st).ExportAudit(ctx, path, 50)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	row := f.Sheets[0].Rows[1]
	assert.Equal(t, "user-7", row.Cells[1].String())
	assert.Equal(t, "employees", row.Cells[3].String())
	assert.Equal(t, "department, job_title", row.Cells[5].String())
}
