// Package roster reads employee rosters from xlsx workbooks for bulk
// import. HR systems export these; the column order varies, so columns
// are matched by header name rather than position.
package roster

import (
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/traincore/certassist/internal/model"
)

// Recognized header names, lower-cased. Dutch exports use the second set.
var headerAliases = map[string]string{
	"first_name": "first_name",
	"firstname":  "first_name",
	"voornaam":   "first_name",
	"last_name":  "last_name",
	"lastname":   "last_name",
	"achternaam": "last_name",
	"email":      "email",
	"e-mail":     "email",
	"department": "department",
	"afdeling":   "department",
	"job_title":  "job_title",
	"function":   "job_title",
	"functie":    "job_title",
	"active":     "active",
	"actief":     "active",
	"hired_at":   "hired_at",
	"in_dienst":  "hired_at",
}

// ReadEmployees reads the first sheet of an xlsx roster. The first row is
// the header; rows without a last name are skipped with a warning.
func ReadEmployees(path string) ([]model.Employee, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "roster: open %s", path)
	}
	if len(f.Sheets) == 0 {
		return nil, eris.Errorf("roster: %s has no sheets", path)
	}
	sheet := f.Sheets[0]
	if len(sheet.Rows) == 0 {
		return nil, eris.Errorf("roster: %s has no header row", path)
	}

	columns := mapColumns(rowToStrings(sheet.Rows[0]))
	if _, ok := columns["last_name"]; !ok {
		return nil, eris.Errorf("roster: %s has no recognizable name column", path)
	}

	var employees []model.Employee
	for i, row := range sheet.Rows[1:] {
		cells := rowToStrings(row)
		e := employeeFromRow(cells, columns)
		if e.LastName == "" {
			zap.L().Warn("roster row skipped, no last name", zap.Int("row", i+2))
			continue
		}
		employees = append(employees, e)
	}
	return employees, nil
}

// mapColumns resolves header cells to canonical field names by alias.
func mapColumns(header []string) map[string]int {
	columns := make(map[string]int)
	for i, cell := range header {
		key := strings.ToLower(strings.TrimSpace(cell))
		if field, ok := headerAliases[key]; ok {
			columns[field] = i
		}
	}
	return columns
}

func employeeFromRow(cells []string, columns map[string]int) model.Employee {
	get := func(field string) string {
		i, ok := columns[field]
		if !ok || i >= len(cells) {
			return ""
		}
		return strings.TrimSpace(cells[i])
	}

	e := model.Employee{
		FirstName:  get("first_name"),
		LastName:   get("last_name"),
		Email:      get("email"),
		Department: get("department"),
		JobTitle:   get("job_title"),
		Active:     true,
	}
	if v := get("active"); v != "" {
		if active, err := strconv.ParseBool(v); err == nil {
			e.Active = active
		}
	}
	if v := get("hired_at"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			e.HiredAt = &t
		}
	}
	return e
}

func rowToStrings(row *xlsx.Row) []string {
	out := make([]string, len(row.Cells))
	for i, cell := range row.Cells {
		out[i] = cell.String()
	}
	return out
}
