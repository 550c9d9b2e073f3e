package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/traincore/certassist/internal/db"
	"github.com/traincore/certassist/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// preparedStatements lists queries to prepare on each new connection for
// faster execution of the most frequently used store operations.
var preparedStatements = map[string]string{
	"insert_certificate": `INSERT INTO employee_certificates (employee_id, certificate_type_id, certificate_number, issue_date, expiry_date, issuer, document_id, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`,
	"certs_by_number":    `SELECT id, employee_id, certificate_type_id, certificate_number, issue_date, expiry_date, issuer, document_id, created_at FROM employee_certificates WHERE certificate_number = $1 ORDER BY created_at DESC`,
	"insert_extraction":  `INSERT INTO extractions (document_id, mime_type, blob_path, status, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6)`,
	"extraction_status":  `UPDATE extractions SET status = $1, error = $2, updated_at = $3 WHERE document_id = $4`,
	"extraction_result":  `UPDATE extractions SET status = $1, result = $2, updated_at = $3 WHERE document_id = $4`,
	"get_extraction":     `SELECT status, result, error, created_at, updated_at FROM extractions WHERE document_id = $1`,
	"append_audit":       `INSERT INTO audit_log (id, actor_id, operation, target_table, target_id, changed_fields, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	// Apply pool sizing from config with sensible defaults.
	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	// Prepare frequently-used statements on each new connection.
	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

// NewPostgresFromPool wraps an existing pool. Used by tests with pgxmock.
func NewPostgresFromPool(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Pool returns the underlying database pool for subsystems that need
// direct query access (e.g., bulk seed imports).
func (s *PostgresStore) Pool() db.Pool {
	return s.pool
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS employees (
	id         BIGSERIAL PRIMARY KEY,
	first_name TEXT NOT NULL,
	last_name  TEXT NOT NULL,
	email      TEXT NOT NULL DEFAULT '',
	department TEXT NOT NULL DEFAULT '',
	job_title  TEXT NOT NULL DEFAULT '',
	active     BOOLEAN NOT NULL DEFAULT true,
	hired_at   TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS courses (
	id              BIGSERIAL PRIMARY KEY,
	code            TEXT NOT NULL UNIQUE,
	title           TEXT NOT NULL,
	description     TEXT NOT NULL DEFAULT '',
	validity_months INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS trainings (
	id               BIGSERIAL PRIMARY KEY,
	course_id        BIGINT NOT NULL REFERENCES courses(id),
	start_date       TIMESTAMPTZ NOT NULL,
	end_date         TIMESTAMPTZ,
	instructor       TEXT NOT NULL DEFAULT '',
	location         TEXT NOT NULL DEFAULT '',
	max_participants INTEGER NOT NULL DEFAULT 0,
	notes            TEXT NOT NULL DEFAULT '',
	status           TEXT NOT NULL DEFAULT 'planned',
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS training_participants (
	training_id BIGINT NOT NULL REFERENCES trainings(id),
	employee_id BIGINT NOT NULL REFERENCES employees(id),
	added_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (training_id, employee_id)
);

CREATE TABLE IF NOT EXISTS certificate_types (
	id              BIGSERIAL PRIMARY KEY,
	name            TEXT NOT NULL UNIQUE,
	description     TEXT NOT NULL DEFAULT '',
	issuer          TEXT NOT NULL DEFAULT '',
	validity_months INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS employee_certificates (
	id                  BIGSERIAL PRIMARY KEY,
	employee_id         BIGINT NOT NULL REFERENCES employees(id),
	certificate_type_id BIGINT NOT NULL REFERENCES certificate_types(id),
	certificate_number  TEXT NOT NULL DEFAULT '',
	issue_date          TIMESTAMPTZ,
	expiry_date         TIMESTAMPTZ,
	issuer              TEXT NOT NULL DEFAULT '',
	document_id         TEXT NOT NULL DEFAULT '',
	created_at          TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS audit_log (
	id             TEXT PRIMARY KEY,
	actor_id       TEXT NOT NULL,
	operation      TEXT NOT NULL,
	target_table   TEXT NOT NULL,
	target_id      TEXT NOT NULL DEFAULT '',
	changed_fields JSONB NOT NULL,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS extractions (
	document_id TEXT PRIMARY KEY,
	mime_type   TEXT NOT NULL,
	blob_path   TEXT NOT NULL DEFAULT '',
	status      TEXT NOT NULL DEFAULT 'queued',
	result      JSONB,
	error       TEXT NOT NULL DEFAULT '',
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_employees_last_name ON employees(last_name);
CREATE INDEX IF NOT EXISTS idx_certs_number ON employee_certificates(certificate_number);
CREATE INDEX IF NOT EXISTS idx_certs_expiry ON employee_certificates(expiry_date);
CREATE INDEX IF NOT EXISTS idx_audit_created ON audit_log(created_at);
`

func (s *PostgresStore) Ping(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, "SELECT 1")
	return eris.Wrap(err, "postgres: ping")
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

// --- employees ---

func (s *PostgresStore) CreateEmployee(ctx context.Context, e *model.Employee) error {
	now := time.Now().UTC()
	err := s.pool.QueryRow(ctx,
		`INSERT INTO employees (first_name, last_name, email, department, job_title, active, hired_at, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`,
		e.FirstName, e.LastName, e.Email, e.Department, e.JobTitle, e.Active, e.HiredAt, now, now,
	).Scan(&e.ID)
	if err != nil {
		return eris.Wrap(err, "postgres: insert employee")
	}
	e.CreatedAt, e.UpdatedAt = now, now
	return nil
}

func (s *PostgresStore) ListEmployees(ctx context.Context, limit int) ([]model.Employee, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+employeeCols+` FROM employees WHERE active ORDER BY last_name, first_name LIMIT $1`,
		normLimit(limit),
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list employees")
	}
	defer rows.Close()
	return collectEmployeesPgx(rows)
}

func (s *PostgresStore) SearchEmployees(ctx context.Context, query string, limit int) ([]model.Employee, error) {
	like := "%" + strings.ToLower(query) + "%"
	rows, err := s.pool.Query(ctx,
		`SELECT `+employeeCols+` FROM employees
		 WHERE lower(first_name || ' ' || last_name) LIKE $1 OR lower(email) LIKE $1 OR lower(department) LIKE $1
		 ORDER BY last_name, first_name LIMIT $2`,
		like, normLimit(limit),
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: search employees")
	}
	defer rows.Close()
	return collectEmployeesPgx(rows)
}

func (s *PostgresStore) GetEmployee(ctx context.Context, id int64) (*model.Employee, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+employeeCols+` FROM employees WHERE id = $1`, id)
	e, err := scanEmployee(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get employee %d", id)
	}
	return e, nil
}

func (s *PostgresStore) UpdateEmployeeFields(ctx context.Context, id int64, fields map[string]any) error {
	set, args := buildSetNumbered(fields, 1)
	if set == "" {
		return nil
	}
	next := len(args) + 1
	args = append(args, time.Now().UTC(), id)
	tag, err := s.pool.Exec(ctx,
		fmt.Sprintf(`UPDATE employees SET %s, updated_at = $%d WHERE id = $%d`, set, next, next+1),
		args...)
	if err != nil {
		return eris.Wrapf(err, "postgres: update employee %d", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Wrapf(ErrNotFound, "employee %d", id)
	}
	return nil
}

// ImportEmployees bulk-loads an employee roster via the COPY protocol.
func (s *PostgresStore) ImportEmployees(ctx context.Context, employees []model.Employee) (int64, error) {
	now := time.Now().UTC()
	rows := make([][]any, len(employees))
	for i, e := range employees {
		rows[i] = []any{e.FirstName, e.LastName, e.Email, e.Department, e.JobTitle, e.Active, e.HiredAt, now, now}
	}
	return db.CopyFrom(ctx, s.pool, "employees",
		[]string{"first_name", "last_name", "email", "department", "job_title", "active", "hired_at", "created_at", "updated_at"},
		rows)
}

// UpsertCertificateTypes bulk-seeds the certificate catalog, updating
// descriptions and validity for types that already exist.
func (s *PostgresStore) UpsertCertificateTypes(ctx context.Context, types []model.CertificateType) (int64, error) {
	rows := make([][]any, len(types))
	for i, ct := range types {
		rows[i] = []any{ct.Name, ct.Description, ct.Issuer, ct.ValidityMonths}
	}
	return db.BulkUpsert(ctx, s.pool, db.UpsertConfig{
		Table:        "certificate_types",
		Columns:      []string{"name", "description", "issuer", "validity_months"},
		ConflictKeys: []string{"name"},
	}, rows)
}

// --- courses and trainings ---

func (s *PostgresStore) CreateCourse(ctx context.Context, c *model.Course) error {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO courses (code, title, description, validity_months) VALUES ($1, $2, $3, $4) RETURNING id`,
		c.Code, c.Title, c.Description, c.ValidityMonths,
	).Scan(&c.ID)
	return eris.Wrap(err, "postgres: insert course")
}

func (s *PostgresStore) ListCourses(ctx context.Context, limit int) ([]model.Course, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, code, title, description, validity_months FROM courses ORDER BY code LIMIT $1`,
		normLimit(limit),
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list courses")
	}
	defer rows.Close()

	var out []model.Course
	for rows.Next() {
		var c model.Course
		if err := rows.Scan(&c.ID, &c.Code, &c.Title, &c.Description, &c.ValidityMonths); err != nil {
			return nil, eris.Wrap(err, "postgres: scan course")
		}
		out = append(out, c)
	}
	return out, eris.Wrap(rows.Err(), "postgres: list courses iterate")
}

func (s *PostgresStore) GetCourse(ctx context.Context, id int64) (*model.Course, error) {
	var c model.Course
	err := s.pool.QueryRow(ctx,
		`SELECT id, code, title, description, validity_months FROM courses WHERE id = $1`, id,
	).Scan(&c.ID, &c.Code, &c.Title, &c.Description, &c.ValidityMonths)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get course %d", id)
	}
	return &c, nil
}

func (s *PostgresStore) ListTrainings(ctx context.Context, limit int) ([]model.Training, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT t.id, t.course_id, c.title, t.start_date, t.end_date, t.instructor, t.location,
		        t.max_participants, t.notes, t.status, t.created_at
		 FROM trainings t JOIN courses c ON c.id = t.course_id
		 ORDER BY t.start_date DESC LIMIT $1`,
		normLimit(limit),
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list trainings")
	}
	defer rows.Close()

	var out []model.Training
	for rows.Next() {
		var t model.Training
		if err := rows.Scan(&t.ID, &t.CourseID, &t.CourseTitle, &t.StartDate, &t.EndDate, &t.Instructor,
			&t.Location, &t.MaxParticipants, &t.Notes, &t.Status, &t.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan training")
		}
		out = append(out, t)
	}
	return out, eris.Wrap(rows.Err(), "postgres: list trainings iterate")
}

func (s *PostgresStore) CreateTraining(ctx context.Context, t *model.Training) error {
	now := time.Now().UTC()
	if t.Status == "" {
		t.Status = model.TrainingStatusPlanned
	}
	err := s.pool.QueryRow(ctx,
		`INSERT INTO trainings (course_id, start_date, end_date, instructor, location, max_participants, notes, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`,
		t.CourseID, t.StartDate, t.EndDate, t.Instructor, t.Location, t.MaxParticipants, t.Notes, string(t.Status), now,
	).Scan(&t.ID)
	if err != nil {
		return eris.Wrap(err, "postgres: insert training")
	}
	t.CreatedAt = now
	return nil
}

func (s *PostgresStore) AddTrainingParticipant(ctx context.Context, trainingID, employeeID int64) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO training_participants (training_id, employee_id, added_at) VALUES ($1, $2, $3)`,
		trainingID, employeeID, time.Now().UTC(),
	)
	return eris.Wrapf(err, "postgres: add participant %d to training %d", employeeID, trainingID)
}

// --- certificate types and held certificates ---

func (s *PostgresStore) CreateCertificateType(ctx context.Context, ct *model.CertificateType) error {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO certificate_types (name, description, issuer, validity_months) VALUES ($1, $2, $3, $4) RETURNING id`,
		ct.Name, ct.Description, ct.Issuer, ct.ValidityMonths,
	).Scan(&ct.ID)
	return eris.Wrap(err, "postgres: insert certificate type")
}

func (s *PostgresStore) ListCertificateTypes(ctx context.Context) ([]model.CertificateType, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, description, issuer, validity_months FROM certificate_types ORDER BY name`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list certificate types")
	}
	defer rows.Close()

	var out []model.CertificateType
	for rows.Next() {
		var ct model.CertificateType
		if err := rows.Scan(&ct.ID, &ct.Name, &ct.Description, &ct.Issuer, &ct.ValidityMonths); err != nil {
			return nil, eris.Wrap(err, "postgres: scan certificate type")
		}
		out = append(out, ct)
	}
	return out, eris.Wrap(rows.Err(), "postgres: list certificate types iterate")
}

func (s *PostgresStore) ListCertificatesByNumber(ctx context.Context, number string) ([]model.EmployeeCertificate, error) {
	rows, err := s.pool.Query(ctx, "certs_by_number", number)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list certificates by number")
	}
	defer rows.Close()

	var out []model.EmployeeCertificate
	for rows.Next() {
		var c model.EmployeeCertificate
		if err := rows.Scan(&c.ID, &c.EmployeeID, &c.CertificateTypeID, &c.CertificateNumber,
			&c.IssueDate, &c.ExpiryDate, &c.Issuer, &c.DocumentID, &c.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan certificate")
		}
		out = append(out, c)
	}
	return out, eris.Wrap(rows.Err(), "postgres: list certificates iterate")
}

func (s *PostgresStore) InsertEmployeeCertificate(ctx context.Context, c *model.EmployeeCertificate) error {
	now := time.Now().UTC()
	err := s.pool.QueryRow(ctx, "insert_certificate",
		c.EmployeeID, c.CertificateTypeID, c.CertificateNumber, c.IssueDate, c.ExpiryDate, c.Issuer, c.DocumentID, now,
	).Scan(&c.ID)
	if err != nil {
		return eris.Wrap(err, "postgres: insert certificate")
	}
	c.CreatedAt = now
	return nil
}

func (s *PostgresStore) UpdateEmployeeCertificateFields(ctx context.Context, id int64, fields map[string]any) error {
	set, args := buildSetNumbered(fields, 1)
	if set == "" {
		return nil
	}
	args = append(args, id)
	tag, err := s.pool.Exec(ctx,
		fmt.Sprintf(`UPDATE employee_certificates SET %s WHERE id = $%d`, set, len(args)),
		args...)
	if err != nil {
		return eris.Wrapf(err, "postgres: update certificate %d", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Wrapf(ErrNotFound, "certificate %d", id)
	}
	return nil
}

// ListExpiringCertificates returns certificates expiring within the window,
// including ones already past their expiry date: overdue certificates are
// the most urgent renewals and carry a negative DaysRemaining.
func (s *PostgresStore) ListExpiringCertificates(ctx context.Context, withinDays, limit int) ([]model.ExpiringCertificate, error) {
	now := time.Now().UTC()
	cutoff := now.AddDate(0, 0, withinDays)
	rows, err := s.pool.Query(ctx,
		`SELECT ec.id, e.id, e.first_name || ' ' || e.last_name, ct.name, ec.certificate_number, ec.expiry_date
		 FROM employee_certificates ec
		 JOIN employees e ON e.id = ec.employee_id
		 JOIN certificate_types ct ON ct.id = ec.certificate_type_id
		 WHERE ec.expiry_date IS NOT NULL AND ec.expiry_date <= $1
		 ORDER BY ec.expiry_date LIMIT $2`,
		cutoff, normLimit(limit),
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list expiring certificates")
	}
	defer rows.Close()

	var out []model.ExpiringCertificate
	for rows.Next() {
		var ec model.ExpiringCertificate
		if err := rows.Scan(&ec.CertificateID, &ec.EmployeeID, &ec.EmployeeName,
			&ec.CertificateType, &ec.CertificateNumber, &ec.ExpiryDate); err != nil {
			return nil, eris.Wrap(err, "postgres: scan expiring certificate")
		}
		ec.DaysRemaining = int(ec.ExpiryDate.Sub(now).Hours() / 24)
		out = append(out, ec)
	}
	return out, eris.Wrap(rows.Err(), "postgres: list expiring iterate")
}

// --- audit log ---

func (s *PostgresStore) AppendAudit(ctx context.Context, e *model.AuditLogEntry) error {
	fieldsJSON, err := json.Marshal(e.ChangedFields)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal changed fields")
	}
	_, err = s.pool.Exec(ctx, "append_audit",
		e.ID, e.ActorID, e.Operation, e.Table, e.TargetID, fieldsJSON, e.CreatedAt)
	return eris.Wrap(err, "postgres: append audit")
}

func (s *PostgresStore) ListAudit(ctx context.Context, limit int) ([]model.AuditLogEntry, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, actor_id, operation, target_table, target_id, changed_fields, created_at
		 FROM audit_log ORDER BY created_at DESC LIMIT $1`,
		normLimit(limit),
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list audit")
	}
	defer rows.Close()

	var out []model.AuditLogEntry
	for rows.Next() {
		var e model.AuditLogEntry
		var fieldsJSON []byte
		if err := rows.Scan(&e.ID, &e.ActorID, &e.Operation, &e.Table, &e.TargetID, &fieldsJSON, &e.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan audit")
		}
		if err := json.Unmarshal(fieldsJSON, &e.ChangedFields); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal changed fields")
		}
		out = append(out, e)
	}
	return out, eris.Wrap(rows.Err(), "postgres: list audit iterate")
}

// --- extractions ---

func (s *PostgresStore) CreateExtraction(ctx context.Context, req model.ExtractionRequest) error {
	now := time.Now().UTC()
	_, err := s.pool.Exec(ctx, "insert_extraction",
		req.DocumentID, req.MimeType, req.BlobPath, string(model.ExtractionQueued), now, now)
	return eris.Wrapf(err, "postgres: create extraction %s", req.DocumentID)
}

func (s *PostgresStore) UpdateExtractionStatus(ctx context.Context, documentID string, status model.ExtractionStatus, errMsg string) error {
	tag, err := s.pool.Exec(ctx, "extraction_status",
		string(status), errMsg, time.Now().UTC(), documentID)
	if err != nil {
		return eris.Wrapf(err, "postgres: update extraction status %s", documentID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Wrapf(ErrNotFound, "extraction %s", documentID)
	}
	return nil
}

func (s *PostgresStore) SaveExtractionResult(ctx context.Context, r *model.ExtractionResult) error {
	resultJSON, err := json.Marshal(r)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal extraction result")
	}
	tag, err := s.pool.Exec(ctx, "extraction_result",
		string(r.Status), resultJSON, time.Now().UTC(), r.DocumentID)
	if err != nil {
		return eris.Wrapf(err, "postgres: save extraction result %s", r.DocumentID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Wrapf(ErrNotFound, "extraction %s", r.DocumentID)
	}
	return nil
}

func (s *PostgresStore) GetExtraction(ctx context.Context, documentID string) (*model.ExtractionResult, error) {
	var status, errMsg string
	var resultJSON []byte
	var createdAt, updatedAt time.Time
	err := s.pool.QueryRow(ctx, "get_extraction", documentID).
		Scan(&status, &resultJSON, &errMsg, &createdAt, &updatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get extraction %s", documentID)
	}

	if len(resultJSON) > 0 {
		var r model.ExtractionResult
		if err := json.Unmarshal(resultJSON, &r); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal extraction result")
		}
		r.Status = model.ExtractionStatus(status)
		r.CreatedAt, r.UpdatedAt = createdAt, updatedAt
		return &r, nil
	}

	r := &model.ExtractionResult{
		DocumentID: documentID,
		Status:     model.ExtractionStatus(status),
		CreatedAt:  createdAt,
		UpdatedAt:  updatedAt,
	}
	if errMsg != "" {
		r.Errors = []string{errMsg}
	}
	return r, nil
}

func collectEmployeesPgx(rows pgx.Rows) ([]model.Employee, error) {
	var out []model.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan employee")
		}
		out = append(out, *e)
	}
	return out, eris.Wrap(rows.Err(), "postgres: employees iterate")
}

// buildSetNumbered renders "col = $1, col2 = $2" with stable column order,
// starting at placeholder $start.
func buildSetNumbered(fields map[string]any, start int) (string, []any) {
	set, args := buildSet(fields, "?")
	if set == "" {
		return "", nil
	}
	parts := strings.Split(set, ", ")
	for i := range parts {
		parts[i] = strings.Replace(parts[i], "?", fmt.Sprintf("$%d", start+i), 1)
	}
	return strings.Join(parts, ", "), args
}
