package secure

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/traincore/certassist/internal/model"
	"github.com/traincore/certassist/internal/store"
)

// Capability names for the mutable tables.
const (
	CapEmployeesUpdate    = "employees:update"
	CapTrainingsCreate    = "trainings:create"
	CapTrainingsEnroll    = "trainings:enroll"
	CapCertificatesCreate = "certificates:create"
	CapCertificatesUpdate = "certificates:update"
)

// Actor is the authenticated principal attempting a mutation.
type Actor struct {
	ID           string
	SessionValid bool
	Capabilities []string
}

// Can reports whether the actor holds the named capability.
func (a Actor) Can(capability string) bool {
	for _, c := range a.Capabilities {
		if c == capability {
			return true
		}
	}
	return false
}

// OperationKind distinguishes inserts from updates.
type OperationKind string

const (
	OpInsert OperationKind = "insert"
	OpUpdate OperationKind = "update"
)

// Operation is a pending data mutation. It lives only for the duration of
// one request turn.
type Operation struct {
	Kind               OperationKind
	Table              string
	TargetID           int64
	Fields             map[string]any
	RequiredCapability string
}

// Result describes a mutation that passed the full pipeline.
type Result struct {
	Operation  Operation
	InsertedID int64
	// Renewal is set when a certificate insert matched an existing number
	// with a different expiry date.
	Renewal bool
}

// Mutator runs every mutation through the same ordered pipeline:
// authentication, permission, field validation, execution, audit.
type Mutator struct {
	store      store.Store
	whitelists whitelistConfig
}

func NewMutator(st store.Store) (*Mutator, error) {
	wl, err := loadWhitelists()
	if err != nil {
		return nil, err
	}
	return &Mutator{store: st, whitelists: wl}, nil
}

// Mutate executes op on behalf of actor. Any failure before execution
// leaves the store untouched; an audit entry is appended only on success.
func (m *Mutator) Mutate(ctx context.Context, op Operation, actor Actor) (*Result, error) {
	if !actor.SessionValid {
		zap.L().Warn("mutation rejected: no valid session", zap.String("actor", actor.ID), zap.String("table", op.Table))
		return nil, &AuthenticationError{ActorID: actor.ID}
	}
	if op.RequiredCapability == "" || !actor.Can(op.RequiredCapability) {
		zap.L().Warn("mutation rejected: missing capability",
			zap.String("actor", actor.ID),
			zap.String("capability", op.RequiredCapability),
			zap.String("table", op.Table))
		return nil, &PermissionError{ActorID: actor.ID, Capability: op.RequiredCapability}
	}
	if err := m.whitelists.validateFields(op.Table, op.Fields); err != nil {
		return nil, err
	}

	res, err := m.execute(ctx, op)
	if err != nil {
		// A vanished target row (deleted between lookup and write)
		// surfaces as a typed error the caller can phrase politely.
		if eris.Is(err, store.ErrNotFound) {
			return nil, &NotFoundError{Table: op.Table, TargetID: strconv.FormatInt(op.TargetID, 10)}
		}
		return nil, err
	}

	if err := m.appendAudit(ctx, op, actor, res); err != nil {
		// The write itself succeeded; a failed audit append is logged
		// but does not undo the mutation.
		zap.L().Error("audit append failed", zap.Error(err), zap.String("table", op.Table))
	}

	zap.L().Info("mutation applied",
		zap.String("actor", actor.ID),
		zap.String("operation", string(op.Kind)),
		zap.String("table", op.Table),
		zap.Int64("target", res.targetID()))
	return res, nil
}

func (r *Result) targetID() int64 {
	if r.InsertedID != 0 {
		return r.InsertedID
	}
	return r.Operation.TargetID
}

func (m *Mutator) execute(ctx context.Context, op Operation) (*Result, error) {
	fields, err := coerceFields(m.whitelists, op.Table, op.Fields)
	if err != nil {
		return nil, err
	}

	switch {
	case op.Table == "employees" && op.Kind == OpUpdate:
		if err := m.store.UpdateEmployeeFields(ctx, op.TargetID, fields); err != nil {
			return nil, err
		}
		return &Result{Operation: op}, nil

	case op.Table == "trainings" && op.Kind == OpInsert:
		t, err := trainingFromFields(fields)
		if err != nil {
			return nil, err
		}
		if err := m.store.CreateTraining(ctx, t); err != nil {
			return nil, err
		}
		return &Result{Operation: op, InsertedID: t.ID}, nil

	case op.Table == "training_participants" && op.Kind == OpInsert:
		trainingID, err1 := int64Field(fields, "training_id")
		employeeID, err2 := int64Field(fields, "employee_id")
		if err1 != nil || err2 != nil {
			return nil, &ValidationError{Table: op.Table, RejectedFields: []string{"training_id", "employee_id"}, Reason: "both ids are required"}
		}
		if err := m.store.AddTrainingParticipant(ctx, trainingID, employeeID); err != nil {
			return nil, err
		}
		return &Result{Operation: op}, nil

	case op.Table == "employee_certificates" && op.Kind == OpInsert:
		return m.insertCertificate(ctx, op, fields)

	case op.Table == "employee_certificates" && op.Kind == OpUpdate:
		if err := m.store.UpdateEmployeeCertificateFields(ctx, op.TargetID, fields); err != nil {
			return nil, err
		}
		return &Result{Operation: op}, nil
	}

	return nil, eris.Errorf("secure: unsupported operation %s on %s", op.Kind, op.Table)
}

// insertCertificate applies the duplicate/renewal distinction before
// writing: same number and expiry refuses, same number with a different
// expiry is allowed and tagged as a renewal.
func (m *Mutator) insertCertificate(ctx context.Context, op Operation, fields map[string]any) (*Result, error) {
	cert, err := certificateFromFields(fields)
	if err != nil {
		return nil, err
	}

	class := CertFresh
	if cert.CertificateNumber != "" {
		existing, err := m.store.ListCertificatesByNumber(ctx, cert.CertificateNumber)
		if err != nil {
			return nil, err
		}
		class = Classify(existing, cert.EmployeeID, cert.ExpiryDate)
		if class == CertDuplicate {
			return nil, &DuplicateError{CertificateNumber: cert.CertificateNumber}
		}
	}

	if err := m.store.InsertEmployeeCertificate(ctx, cert); err != nil {
		return nil, err
	}
	return &Result{Operation: op, InsertedID: cert.ID, Renewal: class == CertRenewal}, nil
}

func (m *Mutator) appendAudit(ctx context.Context, op Operation, actor Actor, res *Result) error {
	return m.store.AppendAudit(ctx, &model.AuditLogEntry{
		ID:            uuid.New().String(),
		ActorID:       actor.ID,
		Operation:     string(op.Kind),
		Table:         op.Table,
		TargetID:      strconv.FormatInt(res.targetID(), 10),
		ChangedFields: fieldNames(op.Fields),
		CreatedAt:     time.Now().UTC(),
	})
}

// coerceFields converts JSON-decoded values into the types the store layer
// binds: ISO date strings become time.Time, numeric ids become int64.
func coerceFields(cfg whitelistConfig, table string, fields map[string]any) (map[string]any, error) {
	wl := cfg.Tables[table]
	out := make(map[string]any, len(fields))
	for name, value := range fields {
		switch wl.Fields[name] {
		case kindDate:
			t, err := dateValue(value)
			if err != nil {
				return nil, &ValidationError{Table: table, RejectedFields: []string{name}, Reason: err.Error()}
			}
			out[name] = t
		case kindInt, kindID:
			n, err := intValue(value)
			if err != nil {
				return nil, &ValidationError{Table: table, RejectedFields: []string{name}, Reason: err.Error()}
			}
			out[name] = n
		default:
			out[name] = value
		}
	}
	return out, nil
}

func dateValue(value any) (time.Time, error) {
	switch v := value.(type) {
	case time.Time:
		return v, nil
	case *time.Time:
		if v == nil {
			return time.Time{}, fmt.Errorf("nil date")
		}
		return *v, nil
	case string:
		return time.Parse("2006-01-02", v)
	}
	return time.Time{}, fmt.Errorf("not a date")
}

func intValue(value any) (int64, error) {
	switch v := value.(type) {
	case int:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	case float64:
		return int64(v), nil
	case string:
		return strconv.ParseInt(v, 10, 64)
	}
	return 0, fmt.Errorf("not an integer")
}

func int64Field(fields map[string]any, name string) (int64, error) {
	v, ok := fields[name]
	if !ok {
		return 0, fmt.Errorf("missing %s", name)
	}
	return intValue(v)
}

func trainingFromFields(fields map[string]any) (*model.Training, error) {
	courseID, err := int64Field(fields, "course_id")
	if err != nil {
		return nil, &ValidationError{Table: "trainings", RejectedFields: []string{"course_id"}, Reason: "course_id is required"}
	}
	start, ok := fields["start_date"].(time.Time)
	if !ok {
		return nil, &ValidationError{Table: "trainings", RejectedFields: []string{"start_date"}, Reason: "start_date is required"}
	}

	t := &model.Training{CourseID: courseID, StartDate: start, Status: model.TrainingStatusPlanned}
	if end, ok := fields["end_date"].(time.Time); ok {
		t.EndDate = &end
	}
	if s, ok := fields["instructor"].(string); ok {
		t.Instructor = s
	}
	if s, ok := fields["location"].(string); ok {
		t.Location = s
	}
	if n, ok := fields["max_participants"]; ok {
		if v, err := intValue(n); err == nil {
			t.MaxParticipants = int(v)
		}
	}
	if s, ok := fields["notes"].(string); ok {
		t.Notes = s
	}
	if s, ok := fields["status"].(string); ok && s != "" {
		t.Status = model.TrainingStatus(s)
	}
	return t, nil
}

func certificateFromFields(fields map[string]any) (*model.EmployeeCertificate, error) {
	employeeID, err := int64Field(fields, "employee_id")
	if err != nil {
		return nil, &ValidationError{Table: "employee_certificates", RejectedFields: []string{"employee_id"}, Reason: "employee_id is required"}
	}
	typeID, err := int64Field(fields, "certificate_type_id")
	if err != nil {
		return nil, &ValidationError{Table: "employee_certificates", RejectedFields: []string{"certificate_type_id"}, Reason: "certificate_type_id is required"}
	}

	c := &model.EmployeeCertificate{EmployeeID: employeeID, CertificateTypeID: typeID}
	if s, ok := fields["certificate_number"].(string); ok {
		c.CertificateNumber = s
	}
	if t, ok := fields["issue_date"].(time.Time); ok {
		c.IssueDate = &t
	}
	if t, ok := fields["expiry_date"].(time.Time); ok {
		c.ExpiryDate = &t
	}
	if s, ok := fields["issuer"].(string); ok {
		c.Issuer = s
	}
	if s, ok := fields["document_id"].(string); ok {
		c.DocumentID = s
	}
	return c, nil
}
