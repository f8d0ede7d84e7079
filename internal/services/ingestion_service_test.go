package services

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/worklens/worklens/pkg/config"
	"github.com/xuri/excelize/v2"
)

func testWorklogConfig() config.WorklogConfig {
	return config.WorklogConfig{
		WorklogSheet:   "Worklogs",
		PeopleSheet:    "People",
		TypeRenames:    map[string]string{"fehler": "bug"},
		UserRenames:    map[string]string{},
		ProjectRenames: map[string]string{},
	}
}

var exportHeader = []interface{}{
	"Issue Key", "Issue summary", "Issue Type", "Issue Status",
	"Issue Original Estimate", "Reporter", "Project Key",
	"Username", "Work date", "Hours",
}

// exportRow is (issue, summary, type, status, estimate, reporter, project, user, date, hours)
func writeExport(t *testing.T, path string, coverage []string, header []interface{}, rows [][]interface{}) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	_, err := f.NewSheet("Worklogs")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Worklogs", "A1", &header))
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Worklogs", cell, &row))
	}

	_, err = f.NewSheet("People")
	require.NoError(t, err)
	people := []interface{}{"Full name"}
	for _, date := range coverage {
		people = append(people, date)
	}
	require.NoError(t, f.SetSheetRow("People", "A1", &people))

	require.NoError(t, f.SaveAs(path))
}

func TestLoadDirectorySingleFile(t *testing.T) {
	dir := t.TempDir()
	writeExport(t, filepath.Join(dir, "export.xlsx"),
		[]string{"2024-01-01", "2024-01-31"},
		exportHeader,
		[][]interface{}{
			{"PRJ-2", "Fix Crash", "Fehler", "Done", 4.0, "Carol", "PRJ", "Bob", "2024-01-03", 6.0},
			{"PRJ-1", "Implement Parser", "Task", "Done", 8.0, "Carol", "PRJ", "Alice", "2024-01-02", 8.0},
			{"PRJ-1", "Implement Parser", "Task", "Done", 8.0, "Carol", "PRJ", "Alice", "", 3.0},
		})

	rows, err := NewIngestionService(testWorklogConfig()).LoadDirectory(dir)
	require.NoError(t, err)
	require.Len(t, rows, 2, "rows without a work date are skipped")

	// Sorted by (date, issue, user), strings lowercased
	assert.Equal(t, "prj-1", rows[0].Issue)
	assert.Equal(t, "implement parser", rows[0].Summary)
	assert.Equal(t, "alice", rows[0].User)
	assert.Equal(t, "carol", rows[0].Reporter)
	assert.Equal(t, 8.0, rows[0].Hours)
	assert.Equal(t, "2024-01-02", rows[0].Date.Format("2006-01-02"))

	// Type renames apply after lowercasing
	assert.Equal(t, "bug", rows[1].Type)
}

func TestLoadDirectoryResolvesOverlaps(t *testing.T) {
	dir := t.TempDir()

	// January export
	writeExport(t, filepath.Join(dir, "jan.xlsx"),
		[]string{"2024-01-01", "2024-01-31"},
		exportHeader,
		[][]interface{}{
			{"PRJ-1", "A", "Task", "Done", 0.0, "", "PRJ", "Alice", "2024-01-10", 8.0},
			{"PRJ-1", "A", "Task", "Done", 0.0, "", "PRJ", "Alice", "2024-01-20", 8.0},
		})

	// Overlapping export starting mid-January: the January file is
	// trimmed to end on the 14th, so its row on the 20th is dropped and
	// the newer file's copy wins
	writeExport(t, filepath.Join(dir, "feb.xlsx"),
		[]string{"2024-01-15", "2024-02-15"},
		exportHeader,
		[][]interface{}{
			{"PRJ-1", "A", "Task", "Done", 0.0, "", "PRJ", "Alice", "2024-01-20", 5.0},
			{"PRJ-2", "B", "Task", "Done", 0.0, "", "PRJ", "Bob", "2024-02-01", 8.0},
		})

	rows, err := NewIngestionService(testWorklogConfig()).LoadDirectory(dir)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "2024-01-10", rows[0].Date.Format("2006-01-02"))
	assert.Equal(t, 8.0, rows[0].Hours)
	assert.Equal(t, "2024-01-20", rows[1].Date.Format("2006-01-02"))
	assert.Equal(t, 5.0, rows[1].Hours, "overlapping day comes from the newer export")
	assert.Equal(t, "2024-02-01", rows[2].Date.Format("2006-01-02"))
}

func TestLoadDirectoryDropsFullyOverlappedFile(t *testing.T) {
	dir := t.TempDir()

	// Entirely covered by the wider export below
	writeExport(t, filepath.Join(dir, "inner.xlsx"),
		[]string{"2024-01-10", "2024-01-20"},
		exportHeader,
		[][]interface{}{
			{"PRJ-1", "A", "Task", "Done", 0.0, "", "PRJ", "Alice", "2024-01-12", 3.0},
		})
	writeExport(t, filepath.Join(dir, "outer.xlsx"),
		[]string{"2024-01-01", "2024-01-31"},
		exportHeader,
		[][]interface{}{
			{"PRJ-1", "A", "Task", "Done", 0.0, "", "PRJ", "Alice", "2024-01-12", 7.0},
		})

	rows, err := NewIngestionService(testWorklogConfig()).LoadDirectory(dir)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 7.0, rows[0].Hours)
}

func TestLoadDirectoryMissingColumnFailsFast(t *testing.T) {
	dir := t.TempDir()

	header := []interface{}{
		"Issue Key", "Issue summary", "Issue Type", "Issue Status",
		"Issue Original Estimate", "Reporter", "Project Key",
		"Username", "Work date",
	}
	writeExport(t, filepath.Join(dir, "broken.xlsx"),
		[]string{"2024-01-01", "2024-01-31"}, header, nil)

	_, err := NewIngestionService(testWorklogConfig()).LoadDirectory(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required columns")
	assert.Contains(t, err.Error(), "Hours")
}

func TestLoadDirectoryLegacyStatusHeader(t *testing.T) {
	dir := t.TempDir()

	header := make([]interface{}, len(exportHeader))
	copy(header, exportHeader)
	header[3] = "Issue tatus"
	writeExport(t, filepath.Join(dir, "legacy.xlsx"),
		[]string{"2024-01-01", "2024-01-31"}, header,
		[][]interface{}{
			{"PRJ-1", "A", "Task", "In Progress", 0.0, "", "PRJ", "Alice", "2024-01-02", 2.0},
		})

	rows, err := NewIngestionService(testWorklogConfig()).LoadDirectory(dir)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "in progress", rows[0].Status)
}

func TestLoadDirectoryDropLists(t *testing.T) {
	dir := t.TempDir()
	writeExport(t, filepath.Join(dir, "export.xlsx"),
		[]string{"2024-01-01", "2024-01-31"},
		exportHeader,
		[][]interface{}{
			{"PRJ-1", "A", "Task", "Done", 0.0, "", "PRJ", "IT", "2024-01-02", 2.0},
			{"PRJ-1", "A", "Task", "Done", 0.0, "", "PRJ", "Alice", "2024-01-02", 4.0},
			{"SYS-1", "B", "Task", "Done", 0.0, "", "SYS", "Alice", "2024-01-03", 4.0},
		})

	cfg := testWorklogConfig()
	cfg.UsersToDrop = []string{"it"}
	cfg.ProjectsToDrop = []string{"sys"}

	rows, err := NewIngestionService(cfg).LoadDirectory(dir)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "alice", rows[0].User)
	assert.Equal(t, "prj", rows[0].Project)
}

func TestLoadDirectoryEmpty(t *testing.T) {
	_, err := NewIngestionService(testWorklogConfig()).LoadDirectory(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no worklog exports")
}

func TestParseDate(t *testing.T) {
	testCases := []struct {
		value string
		want  string
		ok    bool
	}{
		{value: "2024-01-02", want: "2024-01-02", ok: true},
		{value: "2024-01-02 13:45:00", want: "2024-01-02", ok: true},
		{value: "1/2/2024", want: "2024-01-02", ok: true},
		{value: "45293", want: "2024-01-02", ok: true},
		{value: "", ok: false},
		{value: "not a date", ok: false},
	}
	for _, tc := range testCases {
		t.Run(tc.value, func(t *testing.T) {
			date, ok := parseDate(tc.value)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.Equal(t, tc.want, date.Format("2006-01-02"))
			}
		})
	}
}
