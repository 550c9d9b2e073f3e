package store

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/traincore/certassist/internal/model"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock for unit testing.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	return NewPostgresFromPool(mock), mock
}

func TestPostgresStore_GetEmployee_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT .+ FROM employees WHERE id = \$1`).
		WithArgs(int64(42)).
		WillReturnError(pgx.ErrNoRows)

	got, err := s.GetEmployee(context.Background(), 42)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_CreateEmployee(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`INSERT INTO employees`).
		WithArgs("Rita", "Kroes", "rita@example.com", "Operations", "", true,
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(7)))

	e := &model.Employee{FirstName: "Rita", LastName: "Kroes", Email: "rita@example.com", Department: "Operations", Active: true}
	require.NoError(t, s.CreateEmployee(context.Background(), e))
	assert.Equal(t, int64(7), e.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_UpdateEmployeeFields_DeterministicOrder(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	// Columns are sorted, so department binds before job_title regardless
	// of map iteration order.
	mock.ExpectExec(`UPDATE employees SET department = \$1, job_title = \$2, updated_at = \$3 WHERE id = \$4`).
		WithArgs("Operations", "Supervisor", pgxmock.AnyArg(), int64(7)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := s.UpdateEmployeeFields(context.Background(), 7, map[string]any{
		"job_title":  "Supervisor",
		"department": "Operations",
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_UpdateEmployeeFields_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`UPDATE employees SET`).
		WithArgs("Operations", pgxmock.AnyArg(), int64(99)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := s.UpdateEmployeeFields(context.Background(), 99, map[string]any{"department": "Operations"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
	assert.True(t, eris.Is(err, ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_InsertEmployeeCertificate(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	issue := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`insert_certificate`).
		WithArgs(int64(7), int64(3), "FL-2025-0042", &issue, (*time.Time)(nil), "TCVT", "", pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(11)))

	c := &model.EmployeeCertificate{
		EmployeeID:        7,
		CertificateTypeID: 3,
		CertificateNumber: "FL-2025-0042",
		IssueDate:         &issue,
		Issuer:            "TCVT",
	}
	require.NoError(t, s.InsertEmployeeCertificate(context.Background(), c))
	assert.Equal(t, int64(11), c.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetExtraction_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`get_extraction`).
		WithArgs("no-such-doc").
		WillReturnError(pgx.ErrNoRows)

	got, err := s.GetExtraction(context.Background(), "no-such-doc")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_UpdateExtractionStatus_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`extraction_status`).
		WithArgs("failed", "boom", pgxmock.AnyArg(), "ghost-doc").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := s.UpdateExtractionStatus(context.Background(), "ghost-doc", model.ExtractionFailed, "boom")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_UpsertCertificateTypes(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`CREATE TEMP TABLE "_tmp_upsert_certificate_types"`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectCopyFrom(pgx.Identifier{"_tmp_upsert_certificate_types"},
		[]string{"name", "description", "issuer", "validity_months"}).
		WillReturnResult(2)
	mock.ExpectExec(`INSERT INTO "certificate_types"`).
		WillReturnResult(pgxmock.NewResult("INSERT", 2))
	mock.ExpectCommit()

	n, err := s.UpsertCertificateTypes(context.Background(), []model.CertificateType{
		{Name: "VCA Basic Safety", Issuer: "SSVV", ValidityMonths: 120},
		{Name: "Forklift Operator", Issuer: "TCVT", ValidityMonths: 60},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ImportEmployees_Copy(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectCopyFrom(pgx.Identifier{"employees"},
		[]string{"first_name", "last_name", "email", "department", "job_title", "active", "hired_at", "created_at", "updated_at"}).
		WillReturnResult(2)

	n, err := s.ImportEmployees(context.Background(), []model.Employee{
		{FirstName: "Rita", LastName: "Kroes", Active: true},
		{FirstName: "Jan", LastName: "de Vries", Active: true},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
