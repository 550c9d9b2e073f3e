package assistant

import (
	"encoding/json"

	"github.com/rotisserie/eris"

	"github.com/traincore/certassist/pkg/anthropic"
)

// Tool names are fixed; the model may only call what the registry declares.
const (
	toolUpdateEmployeeByName      = "update_employee_by_name"
	toolNavigateToPage            = "navigate_to_page"
	toolSearchEmployees           = "search_employees"
	toolNavigateToEmployee        = "navigate_to_employee"
	toolCreateTrainingSecure      = "create_training_secure"
	toolAddTrainingParticipant    = "add_training_participant"
	toolUpdateEmployeeCertificate = "update_employee_certificate"
)

// toolRegistry is the fixed set of tools offered on every dispatch.
// Argument schemas mirror the typed structs below.
func toolRegistry() []anthropic.Tool {
	return []anthropic.Tool{
		{
			Name:        toolUpdateEmployeeByName,
			Description: "Update fields of an employee record, finding the employee by name. Use for requests like 'move Jan to the Rotterdam branch'.",
			Properties: map[string]any{
				"searchTerm": map[string]any{"type": "string", "description": "Name of the employee as the user wrote it"},
				"updates":    map[string]any{"type": "object", "description": "Field/value pairs to change (department, job_title, email, active, hired_at)"},
			},
			Required: []string{"searchTerm", "updates"},
		},
		{
			Name:        toolNavigateToPage,
			Description: "Send the user to a page of the application.",
			Properties: map[string]any{
				"path":   map[string]any{"type": "string", "description": "Application path, e.g. /trainings or /certificates/expiring"},
				"reason": map[string]any{"type": "string", "description": "One sentence on why this page answers the request"},
			},
			Required: []string{"path"},
		},
		{
			Name:        toolSearchEmployees,
			Description: "Search employees by name, email, department or job title.",
			Properties: map[string]any{
				"query":   map[string]any{"type": "string"},
				"filters": map[string]any{"type": "object", "description": "Optional filters such as department or active"},
			},
			Required: []string{"query"},
		},
		{
			Name:        toolNavigateToEmployee,
			Description: "Open the detail page of one employee, found by name.",
			Properties: map[string]any{
				"searchTerm": map[string]any{"type": "string", "description": "Name of the employee as the user wrote it"},
			},
			Required: []string{"searchTerm"},
		},
		{
			Name:        toolCreateTrainingSecure,
			Description: "Schedule a new training session for an existing course.",
			Properties: map[string]any{
				"course_id":        map[string]any{"type": "integer"},
				"start_date":       map[string]any{"type": "string", "description": "ISO date YYYY-MM-DD"},
				"end_date":         map[string]any{"type": "string", "description": "ISO date YYYY-MM-DD"},
				"instructor":       map[string]any{"type": "string"},
				"location":         map[string]any{"type": "string"},
				"max_participants": map[string]any{"type": "integer"},
				"notes":            map[string]any{"type": "string"},
			},
			Required: []string{"course_id", "start_date"},
		},
		{
			Name:        toolAddTrainingParticipant,
			Description: "Enroll an employee in a scheduled training.",
			Properties: map[string]any{
				"trainingId": map[string]any{"type": "integer"},
				"employeeId": map[string]any{"type": "integer"},
			},
			Required: []string{"trainingId", "employeeId"},
		},
		{
			Name:        toolUpdateEmployeeCertificate,
			Description: "Record or update a certificate held by an employee. Include an 'id' in certificateData to update an existing record, omit it to register a new one.",
			Properties: map[string]any{
				"employeeId":      map[string]any{"type": "integer"},
				"certificateData": map[string]any{"type": "object", "description": "certificate_type_id, certificate_number, issue_date, expiry_date, issuer, document_id; optionally id of an existing record"},
			},
			Required: []string{"employeeId", "certificateData"},
		},
	}
}

type updateEmployeeArgs struct {
	SearchTerm string         `json:"searchTerm"`
	Updates    map[string]any `json:"updates"`
}

type navigatePageArgs struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

type searchEmployeesArgs struct {
	Query   string         `json:"query"`
	Filters map[string]any `json:"filters"`
}

type navigateEmployeeArgs struct {
	SearchTerm string `json:"searchTerm"`
}

type createTrainingArgs struct {
	CourseID        int64  `json:"course_id"`
	StartDate       string `json:"start_date"`
	EndDate         string `json:"end_date"`
	Instructor      string `json:"instructor"`
	Location        string `json:"location"`
	MaxParticipants int64  `json:"max_participants"`
	Notes           string `json:"notes"`
}

type addParticipantArgs struct {
	TrainingID int64 `json:"trainingId"`
	EmployeeID int64 `json:"employeeId"`
}

type updateCertificateArgs struct {
	EmployeeID      int64          `json:"employeeId"`
	CertificateData map[string]any `json:"certificateData"`
}

// decodeArgs unmarshals a tool_use input payload into the typed struct for
// the named tool. Unknown names are reported so the caller can fall back to
// the plain-text branch.
func decodeArgs(name string, input json.RawMessage) (any, error) {
	var dst any
	switch name {
	case toolUpdateEmployeeByName:
		dst = &updateEmployeeArgs{}
	case toolNavigateToPage:
		dst = &navigatePageArgs{}
	case toolSearchEmployees:
		dst = &searchEmployeesArgs{}
	case toolNavigateToEmployee:
		dst = &navigateEmployeeArgs{}
	case toolCreateTrainingSecure:
		dst = &createTrainingArgs{}
	case toolAddTrainingParticipant:
		dst = &addParticipantArgs{}
	case toolUpdateEmployeeCertificate:
		dst = &updateCertificateArgs{}
	default:
		return nil, errUnknownTool
	}
	if err := json.Unmarshal(input, dst); err != nil {
		return nil, eris.Wrapf(err, "assistant: decode %s arguments", name)
	}
	return dst, nil
}

var errUnknownTool = eris.New("assistant: unknown tool")
