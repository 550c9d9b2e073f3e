package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/traincore/certassist/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS employees (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	first_name TEXT NOT NULL,
	last_name  TEXT NOT NULL,
	email      TEXT NOT NULL DEFAULT '',
	department TEXT NOT NULL DEFAULT '',
	job_title  TEXT NOT NULL DEFAULT '',
	active     INTEGER NOT NULL DEFAULT 1,
	hired_at   DATETIME,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS courses (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	code            TEXT NOT NULL UNIQUE,
	title           TEXT NOT NULL,
	description     TEXT NOT NULL DEFAULT '',
	validity_months INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS trainings (
	id               INTEGER PRIMARY KEY AUTOINCREMENT,
	course_id        INTEGER NOT NULL REFERENCES courses(id),
	start_date       DATETIME NOT NULL,
	end_date         DATETIME,
	instructor       TEXT NOT NULL DEFAULT '',
	location         TEXT NOT NULL DEFAULT '',
	max_participants INTEGER NOT NULL DEFAULT 0,
	notes            TEXT NOT NULL DEFAULT '',
	status           TEXT NOT NULL DEFAULT 'planned',
	created_at       DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS training_participants (
	training_id INTEGER NOT NULL REFERENCES trainings(id),
	employee_id INTEGER NOT NULL REFERENCES employees(id),
	added_at    DATETIME NOT NULL,
	PRIMARY KEY (training_id, employee_id)
);

CREATE TABLE IF NOT EXISTS certificate_types (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	name            TEXT NOT NULL,
	description     TEXT NOT NULL DEFAULT '',
	issuer          TEXT NOT NULL DEFAULT '',
	validity_months INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS employee_certificates (
	id                  INTEGER PRIMARY KEY AUTOINCREMENT,
	employee_id         INTEGER NOT NULL REFERENCES employees(id),
	certificate_type_id INTEGER NOT NULL REFERENCES certificate_types(id),
	certificate_number  TEXT NOT NULL DEFAULT '',
	issue_date          DATETIME,
	expiry_date         DATETIME,
	issuer              TEXT NOT NULL DEFAULT '',
	document_id         TEXT NOT NULL DEFAULT '',
	created_at          DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS audit_log (
	id             TEXT PRIMARY KEY,
	actor_id       TEXT NOT NULL,
	operation      TEXT NOT NULL,
	target_table   TEXT NOT NULL,
	target_id      TEXT NOT NULL DEFAULT '',
	changed_fields TEXT NOT NULL,
	created_at     DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS extractions (
	document_id TEXT PRIMARY KEY,
	mime_type   TEXT NOT NULL,
	blob_path   TEXT NOT NULL DEFAULT '',
	status      TEXT NOT NULL DEFAULT 'queued',
	result      TEXT,
	error       TEXT NOT NULL DEFAULT '',
	created_at  DATETIME NOT NULL,
	updated_at  DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_employees_last_name ON employees(last_name);
CREATE INDEX IF NOT EXISTS idx_certs_number ON employee_certificates(certificate_number);
CREATE INDEX IF NOT EXISTS idx_certs_expiry ON employee_certificates(expiry_date);
CREATE INDEX IF NOT EXISTS idx_audit_created ON audit_log(created_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// --- employees ---

func (s *SQLiteStore) CreateEmployee(ctx context.Context, e *model.Employee) error {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO employees (first_name, last_name, email, department, job_title, active, hired_at, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.FirstName, e.LastName, e.Email, e.Department, e.JobTitle, e.Active, e.HiredAt, now, now,
	)
	if err != nil {
		return eris.Wrap(err, "sqlite: insert employee")
	}
	e.ID, _ = res.LastInsertId()
	e.CreatedAt, e.UpdatedAt = now, now
	return nil
}

const employeeCols = `id, first_name, last_name, email, department, job_title, active, hired_at, created_at, updated_at`

func (s *SQLiteStore) ListEmployees(ctx context.Context, limit int) ([]model.Employee, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+employeeCols+` FROM employees WHERE active = 1 ORDER BY last_name, first_name LIMIT ?`,
		normLimit(limit),
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list employees")
	}
	defer rows.Close()
	return collectEmployees(rows)
}

func (s *SQLiteStore) SearchEmployees(ctx context.Context, query string, limit int) ([]model.Employee, error) {
	like := "%" + strings.ToLower(query) + "%"
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+employeeCols+` FROM employees
		 WHERE lower(first_name || ' ' || last_name) LIKE ? OR lower(email) LIKE ? OR lower(department) LIKE ?
		 ORDER BY last_name, first_name LIMIT ?`,
		like, like, like, normLimit(limit),
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: search employees")
	}
	defer rows.Close()
	return collectEmployees(rows)
}

func (s *SQLiteStore) GetEmployee(ctx context.Context, id int64) (*model.Employee, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+employeeCols+` FROM employees WHERE id = ?`, id)
	e, err := scanEmployee(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get employee %d", id)
	}
	return e, nil
}

func (s *SQLiteStore) UpdateEmployeeFields(ctx context.Context, id int64, fields map[string]any) error {
	set, args := buildSet(fields, "?")
	if set == "" {
		return nil
	}
	args = append(args, time.Now().UTC(), id)
	res, err := s.db.ExecContext(ctx,
		fmt.Sprintf(`UPDATE employees SET %s, updated_at = ? WHERE id = ?`, set), args...)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update employee %d", id)
	}
	return checkRowsAffected(res, "employee", id)
}

// --- courses and trainings ---

func (s *SQLiteStore) CreateCourse(ctx context.Context, c *model.Course) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO courses (code, title, description, validity_months) VALUES (?, ?, ?, ?)`,
		c.Code, c.Title, c.Description, c.ValidityMonths,
	)
	if err != nil {
		return eris.Wrap(err, "sqlite: insert course")
	}
	c.ID, _ = res.LastInsertId()
	return nil
}

func (s *SQLiteStore) ListCourses(ctx context.Context, limit int) ([]model.Course, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, code, title, description, validity_months FROM courses ORDER BY code LIMIT ?`,
		normLimit(limit),
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list courses")
	}
	defer rows.Close()

	var out []model.Course
	for rows.Next() {
		var c model.Course
		if err := rows.Scan(&c.ID, &c.Code, &c.Title, &c.Description, &c.ValidityMonths); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan course")
		}
		out = append(out, c)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list courses iterate")
}

func (s *SQLiteStore) GetCourse(ctx context.Context, id int64) (*model.Course, error) {
	var c model.Course
	err := s.db.QueryRowContext(ctx,
		`SELECT id, code, title, description, validity_months FROM courses WHERE id = ?`, id,
	).Scan(&c.ID, &c.Code, &c.Title, &c.Description, &c.ValidityMonths)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get course %d", id)
	}
	return &c, nil
}

func (s *SQLiteStore) ListTrainings(ctx context.Context, limit int) ([]model.Training, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT t.id, t.course_id, c.title, t.start_date, t.end_date, t.instructor, t.location,
		        t.max_participants, t.notes, t.status, t.created_at
		 FROM trainings t JOIN courses c ON c.id = t.course_id
		 ORDER BY t.start_date DESC LIMIT ?`,
		normLimit(limit),
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list trainings")
	}
	defer rows.Close()

	var out []model.Training
	for rows.Next() {
		var t model.Training
		var endDate sql.NullTime
		if err := rows.Scan(&t.ID, &t.CourseID, &t.CourseTitle, &t.StartDate, &endDate, &t.Instructor,
			&t.Location, &t.MaxParticipants, &t.Notes, &t.Status, &t.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan training")
		}
		if endDate.Valid {
			t.EndDate = &endDate.Time
		}
		out = append(out, t)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list trainings iterate")
}

func (s *SQLiteStore) CreateTraining(ctx context.Context, t *model.Training) error {
	now := time.Now().UTC()
	if t.Status == "" {
		t.Status = model.TrainingStatusPlanned
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO trainings (course_id, start_date, end_date, instructor, location, max_participants, notes, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.CourseID, t.StartDate, t.EndDate, t.Instructor, t.Location, t.MaxParticipants, t.Notes, string(t.Status), now,
	)
	if err != nil {
		return eris.Wrap(err, "sqlite: insert training")
	}
	t.ID, _ = res.LastInsertId()
	t.CreatedAt = now
	return nil
}

func (s *SQLiteStore) AddTrainingParticipant(ctx context.Context, trainingID, employeeID int64) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO training_participants (training_id, employee_id, added_at) VALUES (?, ?, ?)`,
		trainingID, employeeID, time.Now().UTC(),
	)
	return eris.Wrapf(err, "sqlite: add participant %d to training %d", employeeID, trainingID)
}

// --- certificate types and held certificates ---

func (s *SQLiteStore) CreateCertificateType(ctx context.Context, ct *model.CertificateType) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO certificate_types (name, description, issuer, validity_months) VALUES (?, ?, ?, ?)`,
		ct.Name, ct.Description, ct.Issuer, ct.ValidityMonths,
	)
	if err != nil {
		return eris.Wrap(err, "sqlite: insert certificate type")
	}
	ct.ID, _ = res.LastInsertId()
	return nil
}

func (s *SQLiteStore) ListCertificateTypes(ctx context.Context) ([]model.CertificateType, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, description, issuer, validity_months FROM certificate_types ORDER BY name`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list certificate types")
	}
	defer rows.Close()

	var out []model.CertificateType
	for rows.Next() {
		var ct model.CertificateType
		if err := rows.Scan(&ct.ID, &ct.Name, &ct.Description, &ct.Issuer, &ct.ValidityMonths); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan certificate type")
		}
		out = append(out, ct)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list certificate types iterate")
}

const certCols = `id, employee_id, certificate_type_id, certificate_number, issue_date, expiry_date, issuer, document_id, created_at`

func (s *SQLiteStore) ListCertificatesByNumber(ctx context.Context, number string) ([]model.EmployeeCertificate, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+certCols+` FROM employee_certificates WHERE certificate_number = ? ORDER BY created_at DESC`,
		number,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list certificates by number")
	}
	defer rows.Close()

	var out []model.EmployeeCertificate
	for rows.Next() {
		c, err := scanCertificate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list certificates iterate")
}

func (s *SQLiteStore) InsertEmployeeCertificate(ctx context.Context, c *model.EmployeeCertificate) error {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO employee_certificates (employee_id, certificate_type_id, certificate_number, issue_date, expiry_date, issuer, document_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.EmployeeID, c.CertificateTypeID, c.CertificateNumber, c.IssueDate, c.ExpiryDate, c.Issuer, c.DocumentID, now,
	)
	if err != nil {
		return eris.Wrap(err, "sqlite: insert certificate")
	}
	c.ID, _ = res.LastInsertId()
	c.CreatedAt = now
	return nil
}

func (s *SQLiteStore) UpdateEmployeeCertificateFields(ctx context.Context, id int64, fields map[string]any) error {
	set, args := buildSet(fields, "?")
	if set == "" {
		return nil
	}
	args = append(args, id)
	res, err := s.db.ExecContext(ctx,
		fmt.Sprintf(`UPDATE employee_certificates SET %s WHERE id = ?`, set), args...)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update certificate %d", id)
	}
	return checkRowsAffected(res, "certificate", id)
}

// ListExpiringCertificates returns certificates expiring within the window,
// including ones already past their expiry date: overdue certificates are
// the most urgent renewals and carry a negative DaysRemaining.
func (s *SQLiteStore) ListExpiringCertificates(ctx context.Context, withinDays, limit int) ([]model.ExpiringCertificate, error) {
	now := time.Now().UTC()
	cutoff := now.AddDate(0, 0, withinDays)
	rows, err := s.db.QueryContext(ctx,
		`SELECT ec.id, e.id, e.first_name || ' ' || e.last_name, ct.name, ec.certificate_number, ec.expiry_date
		 FROM employee_certificates ec
		 JOIN employees e ON e.id = ec.employee_id
		 JOIN certificate_types ct ON ct.id = ec.certificate_type_id
		 WHERE ec.expiry_date IS NOT NULL AND ec.expiry_date <= ?
		 ORDER BY ec.expiry_date LIMIT ?`,
		cutoff, normLimit(limit),
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list expiring certificates")
	}
	defer rows.Close()

	var out []model.ExpiringCertificate
	for rows.Next() {
		var ec model.ExpiringCertificate
		if err := rows.Scan(&ec.CertificateID, &ec.EmployeeID, &ec.EmployeeName,
			&ec.CertificateType, &ec.CertificateNumber, &ec.ExpiryDate); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan expiring certificate")
		}
		ec.DaysRemaining = int(ec.ExpiryDate.Sub(now).Hours() / 24)
		out = append(out, ec)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list expiring iterate")
}

// --- audit log ---

func (s *SQLiteStore) AppendAudit(ctx context.Context, e *model.AuditLogEntry) error {
	fieldsJSON, err := json.Marshal(e.ChangedFields)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal changed fields")
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO audit_log (id, actor_id, operation, target_table, target_id, changed_fields, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.ActorID, e.Operation, e.Table, e.TargetID, string(fieldsJSON), e.CreatedAt,
	)
	return eris.Wrap(err, "sqlite: append audit")
}

func (s *SQLiteStore) ListAudit(ctx context.Context, limit int) ([]model.AuditLogEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, actor_id, operation, target_table, target_id, changed_fields, created_at
		 FROM audit_log ORDER BY created_at DESC LIMIT ?`,
		normLimit(limit),
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list audit")
	}
	defer rows.Close()

	var out []model.AuditLogEntry
	for rows.Next() {
		var e model.AuditLogEntry
		var fieldsJSON string
		if err := rows.Scan(&e.ID, &e.ActorID, &e.Operation, &e.Table, &e.TargetID, &fieldsJSON, &e.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan audit")
		}
		if err := json.Unmarshal([]byte(fieldsJSON), &e.ChangedFields); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal changed fields")
		}
		out = append(out, e)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list audit iterate")
}

// --- extractions ---

func (s *SQLiteStore) CreateExtraction(ctx context.Context, req model.ExtractionRequest) error {
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO extractions (document_id, mime_type, blob_path, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		req.DocumentID, req.MimeType, req.BlobPath, string(model.ExtractionQueued), now, now,
	)
	return eris.Wrapf(err, "sqlite: create extraction %s", req.DocumentID)
}

func (s *SQLiteStore) UpdateExtractionStatus(ctx context.Context, documentID string, status model.ExtractionStatus, errMsg string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE extractions SET status = ?, error = ?, updated_at = ? WHERE document_id = ?`,
		string(status), errMsg, time.Now().UTC(), documentID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update extraction status %s", documentID)
	}
	return checkRowsAffectedStr(res, "extraction", documentID)
}

func (s *SQLiteStore) SaveExtractionResult(ctx context.Context, r *model.ExtractionResult) error {
	resultJSON, err := json.Marshal(r)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal extraction result")
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE extractions SET status = ?, result = ?, updated_at = ? WHERE document_id = ?`,
		string(r.Status), string(resultJSON), time.Now().UTC(), r.DocumentID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: save extraction result %s", r.DocumentID)
	}
	return checkRowsAffectedStr(res, "extraction", r.DocumentID)
}

func (s *SQLiteStore) GetExtraction(ctx context.Context, documentID string) (*model.ExtractionResult, error) {
	var status, errMsg string
	var resultJSON sql.NullString
	var createdAt, updatedAt time.Time
	err := s.db.QueryRowContext(ctx,
		`SELECT status, result, error, created_at, updated_at FROM extractions WHERE document_id = ?`,
		documentID,
	).Scan(&status, &resultJSON, &errMsg, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get extraction %s", documentID)
	}

	if resultJSON.Valid {
		var r model.ExtractionResult
		if err := json.Unmarshal([]byte(resultJSON.String), &r); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal extraction result")
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

// --- helpers ---

func normLimit(limit int) int {
	if limit <= 0 {
		return 100
	}
	return limit
}

// buildSet renders "col = ?, col2 = ?" with stable column order. placeholder
// is "?" for sqlite; postgres builds its own numbered form.
func buildSet(fields map[string]any, placeholder string) (string, []any) {
	if len(fields) == 0 {
		return "", nil
	}
	cols := make([]string, 0, len(fields))
	for c := range fields {
		cols = append(cols, c)
	}
	sort.Strings(cols)

	clauses := make([]string, len(cols))
	args := make([]any, len(cols))
	for i, c := range cols {
		clauses[i] = c + " = " + placeholder
		args[i] = fields[c]
	}
	return strings.Join(clauses, ", "), args
}

func checkRowsAffected(res sql.Result, entity string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return eris.Wrapf(ErrNotFound, "%s %d", entity, id)
	}
	return nil
}

func checkRowsAffectedStr(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return eris.Wrapf(ErrNotFound, "%s %s", entity, id)
	}
	return nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanEmployee(row scannable) (*model.Employee, error) {
	var e model.Employee
	var hiredAt sql.NullTime
	err := row.Scan(&e.ID, &e.FirstName, &e.LastName, &e.Email, &e.Department, &e.JobTitle,
		&e.Active, &hiredAt, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if hiredAt.Valid {
		e.HiredAt = &hiredAt.Time
	}
	return &e, nil
}

func collectEmployees(rows *sql.Rows) ([]model.Employee, error) {
	var out []model.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan employee")
		}
		out = append(out, *e)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: employees iterate")
}

func scanCertificate(row scannable) (*model.EmployeeCertificate, error) {
	var c model.EmployeeCertificate
	var issueDate, expiryDate sql.NullTime
	err := row.Scan(&c.ID, &c.EmployeeID, &c.CertificateTypeID, &c.CertificateNumber,
		&issueDate, &expiryDate, &c.Issuer, &c.DocumentID, &c.CreatedAt)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan certificate")
	}
	if issueDate.Valid {
		c.IssueDate = &issueDate.Time
	}
	if expiryDate.Valid {
		c.ExpiryDate = &expiryDate.Time
	}
	return &c, nil
}
