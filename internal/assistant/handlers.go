package assistant

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/traincore/certassist/internal/model"
	"github.com/traincore/certassist/internal/resolve"
	"github.com/traincore/certassist/internal/secure"
)

const searchResultLimit = 10

// findEmployee resolves a free-text name to a known employee record. The
// model never supplies ids for name-based tools; a miss means asking the
// user, not guessing.
func (d *Dispatcher) findEmployee(ctx context.Context, searchTerm string) (*model.MatchCandidate, error) {
	employees, err := d.store.ListEmployees(ctx, 0)
	if err != nil {
		return nil, err
	}
	return resolve.ResolveEmployee(searchTerm, employees), nil
}

func clarifyEmployee(searchTerm string) *model.AIResponse {
	return &model.AIResponse{
		Content: fmt.Sprintf("I couldn't find an employee matching %q. Could you give the full name as it appears in the system?", searchTerm),
	}
}

func (d *Dispatcher) handleUpdateEmployee(ctx context.Context, actor secure.Actor, args *updateEmployeeArgs) (*model.AIResponse, error) {
	match, err := d.findEmployee(ctx, args.SearchTerm)
	if err != nil {
		return nil, err
	}
	if match == nil {
		return clarifyEmployee(args.SearchTerm), nil
	}

	res, err := d.mutator.Mutate(ctx, secure.Operation{
		Kind:               secure.OpUpdate,
		Table:              "employees",
		TargetID:           match.EntityID,
		Fields:             args.Updates,
		RequiredCapability: secure.CapEmployeesUpdate,
	}, actor)
	if err != nil {
		return mutationRefused(err)
	}

	return &model.AIResponse{
		Content: fmt.Sprintf("Updated %s: %s.", match.EntityName, strings.Join(changedFieldNames(res), ", ")),
		Actions: []model.Action{{
			Type:        model.ActionUpdate,
			Description: "Employee record updated",
			Function:    toolUpdateEmployeeByName,
			Parameters:  map[string]any{"employee_id": match.EntityID, "updates": args.Updates},
		}},
	}, nil
}

func (d *Dispatcher) handleNavigatePage(args *navigatePageArgs) *model.AIResponse {
	content := args.Reason
	if content == "" {
		content = "Taking you to " + args.Path + "."
	}
	return &model.AIResponse{
		Content: content,
		Actions: []model.Action{{
			Type:        model.ActionNavigate,
			Description: "Open " + args.Path,
			Function:    toolNavigateToPage,
			Parameters:  map[string]any{"path": args.Path},
		}},
	}
}

func (d *Dispatcher) handleSearchEmployees(ctx context.Context, args *searchEmployeesArgs) (*model.AIResponse, error) {
	employees, err := d.store.SearchEmployees(ctx, args.Query, searchResultLimit)
	if err != nil {
		return nil, err
	}
	employees = applyEmployeeFilters(employees, args.Filters)

	if len(employees) == 0 {
		return &model.AIResponse{
			Content: fmt.Sprintf("No employees match %q.", args.Query),
		}, nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d employee(s):\n", len(employees))
	for _, e := range employees {
		fmt.Fprintf(&sb, "- %s (%s, %s)\n", e.FullName(), e.Department, e.JobTitle)
	}
	return &model.AIResponse{
		Content: sb.String(),
		Actions: []model.Action{{
			Type:        model.ActionQuery,
			Description: "Employee search",
			Function:    toolSearchEmployees,
			Parameters:  map[string]any{"query": args.Query},
		}},
	}, nil
}

// applyEmployeeFilters narrows search results by the optional filters the
// model passed along. Unknown filter keys are ignored.
func applyEmployeeFilters(employees []model.Employee, filters map[string]any) []model.Employee {
	if len(filters) == 0 {
		return employees
	}
	out := employees[:0]
	for _, e := range employees {
		if dept, ok := filters["department"].(string); ok && !strings.EqualFold(e.Department, dept) {
			continue
		}
		if active, ok := filters["active"].(bool); ok && e.Active != active {
			continue
		}
		out = append(out, e)
	}
	return out
}

func (d *Dispatcher) handleNavigateEmployee(ctx context.Context, args *navigateEmployeeArgs) (*model.AIResponse, error) {
	match, err := d.findEmployee(ctx, args.SearchTerm)
	if err != nil {
		return nil, err
	}
	if match == nil {
		return clarifyEmployee(args.SearchTerm), nil
	}

	path := fmt.Sprintf("/employees/%d", match.EntityID)
	return &model.AIResponse{
		Content: fmt.Sprintf("Opening %s's profile.", match.EntityName),
		Actions: []model.Action{{
			Type:        model.ActionNavigate,
			Description: "Open " + match.EntityName,
			Function:    toolNavigateToEmployee,
			Parameters:  map[string]any{"path": path, "employee_id": match.EntityID},
		}},
	}, nil
}

func (d *Dispatcher) handleCreateTraining(ctx context.Context, actor secure.Actor, args *createTrainingArgs) (*model.AIResponse, error) {
	fields := map[string]any{
		"course_id":  args.CourseID,
		"start_date": args.StartDate,
	}
	if args.EndDate != "" {
		fields["end_date"] = args.EndDate
	}
	if args.Instructor != "" {
		fields["instructor"] = args.Instructor
	}
	if args.Location != "" {
		fields["location"] = args.Location
	}
	if args.MaxParticipants > 0 {
		fields["max_participants"] = args.MaxParticipants
	}
	if args.Notes != "" {
		fields["notes"] = args.Notes
	}

	res, err := d.mutator.Mutate(ctx, secure.Operation{
		Kind:               secure.OpInsert,
		Table:              "trainings",
		Fields:             fields,
		RequiredCapability: secure.CapTrainingsCreate,
	}, actor)
	if err != nil {
		return mutationRefused(err)
	}

	return &model.AIResponse{
		Content: fmt.Sprintf("Training scheduled for %s (id %d).", args.StartDate, res.InsertedID),
		Actions: []model.Action{{
			Type:        model.ActionCreate,
			Description: "Training created",
			Function:    toolCreateTrainingSecure,
			Parameters:  map[string]any{"training_id": res.InsertedID},
		}},
	}, nil
}

func (d *Dispatcher) handleAddParticipant(ctx context.Context, actor secure.Actor, args *addParticipantArgs) (*model.AIResponse, error) {
	_, err := d.mutator.Mutate(ctx, secure.Operation{
		Kind:  secure.OpInsert,
		Table: "training_participants",
		Fields: map[string]any{
			"training_id": args.TrainingID,
			"employee_id": args.EmployeeID,
		},
		RequiredCapability: secure.CapTrainingsEnroll,
	}, actor)
	if err != nil {
		return mutationRefused(err)
	}

	return &model.AIResponse{
		Content: fmt.Sprintf("Enrolled employee %d in training %d.", args.EmployeeID, args.TrainingID),
		Actions: []model.Action{{
			Type:        model.ActionUpdate,
			Description: "Participant enrolled",
			Function:    toolAddTrainingParticipant,
			Parameters:  map[string]any{"training_id": args.TrainingID, "employee_id": args.EmployeeID},
		}},
	}, nil
}

func (d *Dispatcher) handleUpdateCertificate(ctx context.Context, actor secure.Actor, args *updateCertificateArgs) (*model.AIResponse, error) {
	fields := make(map[string]any, len(args.CertificateData)+1)
	for k, v := range args.CertificateData {
		fields[k] = v
	}

	// An id in the payload means an existing record; everything else is a
	// new certificate for the named employee.
	op := secure.Operation{
		Kind:               secure.OpInsert,
		Table:              "employee_certificates",
		Fields:             fields,
		RequiredCapability: secure.CapCertificatesCreate,
	}
	if rawID, ok := fields["id"]; ok {
		delete(fields, "id")
		id, ok := asInt64(rawID)
		if !ok {
			return &model.AIResponse{Content: msgRetry}, nil
		}
		op.Kind = secure.OpUpdate
		op.TargetID = id
		op.RequiredCapability = secure.CapCertificatesUpdate
	} else {
		fields["employee_id"] = args.EmployeeID
	}

	res, err := d.mutator.Mutate(ctx, op, actor)
	if err != nil {
		return mutationRefused(err)
	}

	content := "Certificate recorded."
	switch {
	case op.Kind == secure.OpUpdate:
		content = "Certificate updated."
	case res.Renewal:
		content = "Certificate recorded as a renewal of an existing certificate with the same number."
	}
	return &model.AIResponse{
		Content: content,
		Actions: []model.Action{{
			Type:        actionForKind(op.Kind),
			Description: "Certificate " + string(op.Kind),
			Function:    toolUpdateEmployeeCertificate,
			Parameters:  map[string]any{"employee_id": args.EmployeeID},
		}},
	}, nil
}

// mutationRefused turns secure-layer refusals into user-facing messages.
// Store or infrastructure failures still propagate as errors.
func mutationRefused(err error) (*model.AIResponse, error) {
	switch {
	case secure.IsAuthenticationError(err):
		return &model.AIResponse{Content: "Your session is no longer valid. Please sign in again."}, nil
	case secure.IsPermissionError(err):
		return &model.AIResponse{Content: "You don't have permission for that change."}, nil
	case secure.IsValidationError(err):
		return &model.AIResponse{Content: "I can't apply that change: " + err.Error()}, nil
	case secure.IsDuplicateError(err):
		return &model.AIResponse{Content: "That certificate is already registered with the same number and expiry date, so I left it unchanged."}, nil
	case secure.IsNotFoundError(err):
		return &model.AIResponse{Content: "I couldn't find that record anymore. It may have been removed."}, nil
	}
	return nil, err
}

func changedFieldNames(res *secure.Result) []string {
	names := make([]string, 0, len(res.Operation.Fields))
	for name := range res.Operation.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func actionForKind(kind secure.OperationKind) model.ActionType {
	if kind == secure.OpInsert {
		return model.ActionCreate
	}
	return model.ActionUpdate
}

func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		return int64(n), true
	case int64:
		return n, true
	case int:
		return int64(n), true
	}
	return 0, false
}
