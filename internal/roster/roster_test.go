package roster

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

func createRosterFile(t *testing.T, rows [][]string) string {
	t.Helper()
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Roster")
	require.NoError(t, err)
	for _, rowData := range rows {
		row := sheet.AddRow()
		for _, cellData := range rowData {
			row.AddCell().SetString(cellData)
		}
	}
	path := filepath.Join(t.TempDir(), "roster.xlsx")
	require.NoError(t, f.Save(path))
	return path
}

func TestReadEmployees(t *testing.T) {
	path := createRosterFile(t, [][]string{
		{"First_Name", "Last_Name", "Email", "Department", "Job_Title", "Active", "Hired_At"},
		{"Rita", "Kroes", "rita@example.com", "Logistics", "Operator", "true", "2020-04-01"},
		{"Jan", "de Vries", "jan@example.com", "Safety", "Instructor", "false", ""},
	})

	employees, err := ReadEmployees(path)
	require.NoError(t, err)
	require.Len(t, employees, 2)

	assert.Equal(t, "Rita", employees[0].FirstName)
	assert.Equal(t, "Kroes", employees[0].LastName)
	assert.Equal(t, "Logistics", employees[0].Department)
	assert.True(t, employees[0].Active)
	require.NotNil(t, employees[0].HiredAt)
	assert.Equal(t, "2020-04-01", employees[0].HiredAt.Format("2006-01-02"))

	assert.False(t, employees[1].Active)
	assert.Nil(t, employees[1].HiredAt)
}

func TestReadEmployees_DutchHeaders(t *testing.T) {
	path := createRosterFile(t, [][]string{
		{"Voornaam", "Achternaam", "E-mail", "Afdeling", "Functie"},
		{"Piet", "Jansen", "piet@example.com", "Productie", "Heftruckchauffeur"},
	})

	employees, err := ReadEmployees(path)
	require.NoError(t, err)
	require.Len(t, employees, 1)
	assert.Equal(t, "Piet Jansen", employees[0].FullName())
	assert.Equal(t, "Productie", employees[0].Department)
	assert.True(t, employees[0].Active, "active defaults to true")
}

func TestReadEmployees_SkipsRowsWithoutLastName(t *testing.T) {
	path := createRosterFile(t, [][]string{
		{"first_name", "last_name"},
		{"Rita", "Kroes"},
		{"Orphan", ""},
	})

	employees, err := ReadEmployees(path)
	require.NoError(t, err)
	assert.Len(t, employees, 1)
}

func TestReadEmployees_NoNameColumn(t *testing.T) {
	path := createRosterFile(t, [][]string{
		{"foo", "bar"},
		{"1", "2"},
	})

	_, err := ReadEmployees(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name column")
}
