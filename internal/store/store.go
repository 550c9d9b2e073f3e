package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/traincore/certassist/internal/model"
)

// ErrNotFound is returned (wrapped) when a write targets a row that no
// longer exists. Callers check it with eris.Is.
var ErrNotFound = eris.New("not found")

// Store defines the persistence interface for the assistant and the
// document-extraction pipeline.
type Store interface {
	// Employees
	CreateEmployee(ctx context.Context, e *model.Employee) error
	ListEmployees(ctx context.Context, limit int) ([]model.Employee, error)
	SearchEmployees(ctx context.Context, query string, limit int) ([]model.Employee, error)
	GetEmployee(ctx context.Context, id int64) (*model.Employee, error)
	UpdateEmployeeFields(ctx context.Context, id int64, fields map[string]any) error

	// Courses and trainings
	CreateCourse(ctx context.Context, c *model.Course) error
	ListCourses(ctx context.Context, limit int) ([]model.Course, error)
	GetCourse(ctx context.Context, id int64) (*model.Course, error)
	ListTrainings(ctx context.Context, limit int) ([]model.Training, error)
	CreateTraining(ctx context.Context, t *model.Training) error
	AddTrainingParticipant(ctx context.Context, trainingID, employeeID int64) error

	// Certificate types and held certificates
	CreateCertificateType(ctx context.Context, ct *model.CertificateType) error
	ListCertificateTypes(ctx context.Context) ([]model.CertificateType, error)
	ListCertificatesByNumber(ctx context.Context, number string) ([]model.EmployeeCertificate, error)
	InsertEmployeeCertificate(ctx context.Context, c *model.EmployeeCertificate) error
	UpdateEmployeeCertificateFields(ctx context.Context, id int64, fields map[string]any) error
	// ListExpiringCertificates includes already-expired certificates
	// (negative DaysRemaining); they are the most urgent renewals.
	ListExpiringCertificates(ctx context.Context, withinDays, limit int) ([]model.ExpiringCertificate, error)

	// Audit log (append-only)
	AppendAudit(ctx context.Context, e *model.AuditLogEntry) error
	ListAudit(ctx context.Context, limit int) ([]model.AuditLogEntry, error)

	// Document extractions
	CreateExtraction(ctx context.Context, req model.ExtractionRequest) error
	UpdateExtractionStatus(ctx context.Context, documentID string, status model.ExtractionStatus, errMsg string) error
	SaveExtractionResult(ctx context.Context, res *model.ExtractionResult) error
	GetExtraction(ctx context.Context, documentID string) (*model.ExtractionResult, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
