package services

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/worklens/worklens/internal/models"
	"github.com/worklens/worklens/pkg/config"
	"github.com/worklens/worklens/pkg/logger"
	"github.com/xuri/excelize/v2"
)

// Source export column headers. Legacy exports carry misspelled status
// headers that are renamed before the required-column check.
var requiredColumns = []string{
	"Issue Key", "Issue summary", "Issue Type", "Issue Status",
	"Issue Original Estimate", "Reporter", "Project Key",
	"Username", "Work date", "Hours",
}

var statusHeaderRenames = map[string]string{
	"Issue tatus": "Issue Status",
	"Issue Ttus":  "Issue Status",
}

// IngestionService reads worklog spreadsheet exports from a directory,
// resolves overlapping export coverage and produces the cleaned,
// time-ordered worklog table the pipeline consumes.
type IngestionService struct {
	cfg config.WorklogConfig
}

// NewIngestionService creates a new ingestion service
func NewIngestionService(cfg config.WorklogConfig) *IngestionService {
	return &IngestionService{cfg: cfg}
}

type sourceFile struct {
	path    string
	minDate time.Time
	maxDate time.Time
	// effectiveMax trims the file so consecutive exports never overlap
	effectiveMax time.Time
	columns      map[string]int
	rows         [][]string
}

// LoadDirectory reads every workbook in the directory and returns the
// preprocessed worklog table sorted by (date, issue, user)
func (s *IngestionService) LoadDirectory(dir string) ([]*models.WorklogRow, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading worklog directory: %w", err)
	}

	var sources []*sourceFile
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), "~$") {
			continue
		}
		if !strings.EqualFold(filepath.Ext(entry.Name()), ".xlsx") {
			continue
		}
		source, err := s.readWorkbook(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		sources = append(sources, source)
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no worklog exports found in %s", dir)
	}

	sources = resolveOverlaps(sources)

	var rows []*models.WorklogRow
	for _, source := range sources {
		parsed, err := s.parseRows(source)
		if err != nil {
			return nil, err
		}
		rows = append(rows, parsed...)
	}

	rows = s.preprocess(rows)

	logger.WithFields(map[string]interface{}{
		"files": len(sources),
		"rows":  len(rows),
	}).Info("loaded worklog exports")

	return rows, nil
}

// readWorkbook reads one export: the worklog sheet rows and the coverage
// interval given by the date-typed headers of the people sheet
func (s *IngestionService) readWorkbook(path string) (*sourceFile, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	worklogRows, err := f.GetRows(s.cfg.WorklogSheet)
	if err != nil {
		return nil, fmt.Errorf("%s: reading sheet %q: %w", path, s.cfg.WorklogSheet, err)
	}
	if len(worklogRows) == 0 {
		return nil, fmt.Errorf("%s: sheet %q is empty", path, s.cfg.WorklogSheet)
	}

	columns, err := headerIndex(worklogRows[0])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	peopleRows, err := f.GetRows(s.cfg.PeopleSheet)
	if err != nil {
		return nil, fmt.Errorf("%s: reading sheet %q: %w", path, s.cfg.PeopleSheet, err)
	}
	minDate, maxDate, ok := peopleInterval(peopleRows)
	if !ok {
		return nil, fmt.Errorf("%s: sheet %q has no date columns", path, s.cfg.PeopleSheet)
	}

	return &sourceFile{
		path:         path,
		minDate:      minDate,
		maxDate:      maxDate,
		effectiveMax: maxDate,
		columns:      columns,
		rows:         worklogRows[1:],
	}, nil
}

// headerIndex maps logical source columns to their positions, applying
// legacy status-header renames, and fails fast on any missing column
func headerIndex(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if renamed, ok := statusHeaderRenames[name]; ok {
			name = renamed
		}
		columns[name] = i
	}
	var missing []string
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	return columns, nil
}

// peopleInterval finds the export's coverage interval from the date-typed
// column headers of the people sheet
func peopleInterval(rows [][]string) (time.Time, time.Time, bool) {
	if len(rows) == 0 {
		return time.Time{}, time.Time{}, false
	}
	var minDate, maxDate time.Time
	found := false
	for _, cell := range rows[0] {
		date, ok := parseDate(cell)
		if !ok {
			continue
		}
		if !found || date.Before(minDate) {
			minDate = date
		}
		if !found || date.After(maxDate) {
			maxDate = date
		}
		found = true
	}
	return minDate, maxDate, found
}

// resolveOverlaps orders exports by coverage and trims each file's
// effective end to the day before the next file starts. Files left with a
// non-positive effective span carry no new information and are dropped.
func resolveOverlaps(sources []*sourceFile) []*sourceFile {
	sort.Slice(sources, func(i, j int) bool {
		if !sources[i].maxDate.Equal(sources[j].maxDate) {
			return sources[i].maxDate.Before(sources[j].maxDate)
		}
		return sources[i].minDate.Before(sources[j].minDate)
	})

	for {
		for i, source := range sources {
			if i < len(sources)-1 {
				source.effectiveMax = sources[i+1].minDate.AddDate(0, 0, -1)
			} else {
				source.effectiveMax = source.maxDate
			}
		}
		kept := sources[:0]
		droppedAny := false
		for _, source := range sources {
			if source.effectiveMax.Before(source.minDate) {
				logger.WithField("file", source.path).Warn("export fully overlapped by a newer file, dropping")
				droppedAny = true
				continue
			}
			kept = append(kept, source)
		}
		sources = kept
		if !droppedAny {
			break
		}
	}
	return sources
}

// parseRows converts sheet rows inside the file's effective interval into
// worklog rows; rows with no work date are skipped
func (s *IngestionService) parseRows(source *sourceFile) ([]*models.WorklogRow, error) {
	cell := func(row []string, column string) string {
		i := source.columns[column]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	rows := make([]*models.WorklogRow, 0, len(source.rows))
	for n, raw := range source.rows {
		date, ok := parseDate(cell(raw, "Work date"))
		if !ok {
			continue
		}
		if date.Before(source.minDate) || date.After(source.effectiveMax) {
			continue
		}

		hours, err := parseFloat(cell(raw, "Hours"))
		if err != nil {
			return nil, fmt.Errorf("%s row %d: invalid hours: %w", source.path, n+2, err)
		}
		estimate, err := parseFloat(cell(raw, "Issue Original Estimate"))
		if err != nil {
			return nil, fmt.Errorf("%s row %d: invalid estimate: %w", source.path, n+2, err)
		}

		row := &models.WorklogRow{
			Issue:    cell(raw, "Issue Key"),
			Summary:  cell(raw, "Issue summary"),
			Type:     cell(raw, "Issue Type"),
			Status:   cell(raw, "Issue Status"),
			Estimate: estimate,
			Reporter: cell(raw, "Reporter"),
			Project:  cell(raw, "Project Key"),
			User:     cell(raw, "Username"),
			Date:     date,
			Hours:    hours,
		}
		if err := row.Validate(); err != nil {
			return nil, fmt.Errorf("%s row %d: %w", source.path, n+2, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// preprocess lowercases strings, applies the configured rename maps and
// drop lists, and sorts rows by (date, issue, user)
func (s *IngestionService) preprocess(rows []*models.WorklogRow) []*models.WorklogRow {
	dropUsers := make(map[string]struct{}, len(s.cfg.UsersToDrop))
	for _, user := range s.cfg.UsersToDrop {
		dropUsers[user] = struct{}{}
	}
	dropProjects := make(map[string]struct{}, len(s.cfg.ProjectsToDrop))
	for _, project := range s.cfg.ProjectsToDrop {
		dropProjects[project] = struct{}{}
	}

	kept := make([]*models.WorklogRow, 0, len(rows))
	for _, row := range rows {
		row.Issue = strings.ToLower(row.Issue)
		row.Summary = strings.ToLower(row.Summary)
		row.Type = strings.ToLower(row.Type)
		row.Status = strings.ToLower(row.Status)
		row.Reporter = strings.ToLower(row.Reporter)
		row.Project = strings.ToLower(row.Project)
		row.User = strings.ToLower(row.User)

		if renamed, ok := s.cfg.TypeRenames[row.Type]; ok {
			row.Type = renamed
		}
		if renamed, ok := s.cfg.UserRenames[row.User]; ok {
			row.User = renamed
		}
		if renamed, ok := s.cfg.ProjectRenames[row.Project]; ok {
			row.Project = renamed
		}

		if _, drop := dropUsers[row.User]; drop {
			continue
		}
		if _, drop := dropProjects[row.Project]; drop {
			continue
		}
		kept = append(kept, row)
	}

	sort.Slice(kept, func(i, j int) bool {
		a, b := kept[i], kept[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.Issue != b.Issue {
			return a.Issue < b.Issue
		}
		return a.User < b.User
	})
	return kept
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"01-02-06",
	"1/2/06 15:04",
	"1/2/2006",
	"02.01.2006",
	time.RFC3339,
}

// parseDate parses the date formats excelize renders for date cells,
// including raw Excel serial numbers
func parseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return models.Day(t), true
		}
	}
	// Excel serial: days since 1899-12-30
	if serial, err := strconv.ParseFloat(value, 64); err == nil && serial > 59 {
		epoch := time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)
		return models.Day(epoch.AddDate(0, 0, int(serial))), true
	}
	return time.Time{}, false
}

// parseFloat parses a numeric cell, treating blanks as zero
func parseFloat(value string) (float64, error) {
	if value == "" {
		return 0, nil
	}
	value = strings.ReplaceAll(value, ",", ".")
	return strconv.ParseFloat(value, 64)
}
