package services

import (
	"fmt"
	"strconv"
	"time"

	"github.com/worklens/worklens/internal/models"
	"github.com/xuri/excelize/v2"
)

// ExportService writes the computed tables of a report run into one
// workbook so the reporting layer can format them without re-deriving
// any logic.
type ExportService struct{}

// NewExportService creates a new export service
func NewExportService() *ExportService {
	return &ExportService{}
}

// BuildWorkbook renders the issues, projects, user aggregates, KPI and
// performance tables as sheets of a new workbook
func (s *ExportService) BuildWorkbook(run *models.ReportRun, issues []*models.Issue, projects []*models.Project) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := s.writeIssues(f, issues); err != nil {
		return nil, err
	}
	if err := s.writeProjects(f, projects); err != nil {
		return nil, err
	}
	if err := s.writeUsers(f, run.Aggregates); err != nil {
		return nil, err
	}
	if err := s.writeMetrics(f, run.Metrics); err != nil {
		return nil, err
	}
	if err := s.writePerformance(f, run.Performance); err != nil {
		return nil, err
	}

	// Replace the default sheet with the first table
	f.DeleteSheet("Sheet1")
	return f, nil
}

func (s *ExportService) writeIssues(f *excelize.File, issues []*models.Issue) error {
	header := []interface{}{
		"issue", "summary", "type", "status", "estimate", "reporter",
		"project", "leader", "leader_share", "participants", "hours",
		"global_share", "min_date", "max_date", "duration_days",
		"is_bug", "is_meeting", "is_learning", "is_management",
	}
	rows := make([][]interface{}, 0, len(issues))
	for _, i := range issues {
		rows = append(rows, []interface{}{
			i.ID, i.Summary, i.Type, i.Status, i.Estimate, i.Reporter,
			i.Project, i.Leader, optional(i.LeaderShare), i.Participants, i.Hours,
			optional(i.GlobalShare), day(i.MinDate), day(i.MaxDate), i.DurationDays,
			i.IsBug, i.IsMeeting, i.IsLearning, i.IsManagement,
		})
	}
	return writeSheet(f, "Issues", header, rows)
}

func (s *ExportService) writeProjects(f *excelize.File, projects []*models.Project) error {
	header := []interface{}{
		"project", "leader", "leader_share", "participants", "hours",
		"global_share", "issues",
	}
	rows := make([][]interface{}, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, []interface{}{
			p.ID, p.Leader, optional(p.LeaderShare), p.Participants, p.Hours,
			optional(p.GlobalShare), p.Issues,
		})
	}
	return writeSheet(f, "Projects", header, rows)
}

func (s *ExportService) writeUsers(f *excelize.File, users []*models.UserInterval) error {
	header := []interface{}{
		"user", "hours", "bug_time", "learning_time", "meeting_time",
		"managing_time", "collaboration_time", "participation_time",
		"leading_time", "min_date", "max_date", "duration_days", "logs",
		"issues", "daily_hours", "expected_hours", "leading_volume",
		"helped_time", "leading_issues", "leading_duration",
		"leading_closed_volume", "leading_closed_issues",
		"leading_closed_duration", "reporting_volume", "reporting_share",
		"helped_users", "users_total_interval", "projects_std",
		"types_std", "leading_projects", "leading_project_share",
		"bug_time_share",
	}
	rows := make([][]interface{}, 0, len(users))
	for _, u := range users {
		rows = append(rows, []interface{}{
			u.User, u.Hours, u.BugTime, u.LearningTime, u.MeetingTime,
			u.ManagingTime, u.CollaborationTime, u.ParticipationTime,
			u.LeadingTime, day(u.MinDate), day(u.MaxDate), u.DurationDays, u.Logs,
			u.Issues, u.DailyHours, u.ExpectedHours, u.LeadingVolume,
			u.HelpedTime, u.LeadingIssues, optional(u.LeadingDuration),
			u.LeadingClosedVolume, u.LeadingClosedIssues,
			optional(u.LeadingClosedDuration), u.ReportingVolume, optional(u.ReportingShare),
			u.HelpedUsers, u.UsersTotalInterval, optional(u.ProjectsStd),
			optional(u.TypesStd), u.LeadingProjects, optional(u.LeadingProjectShare),
			optional(u.BugTimeShare),
		})
	}
	return writeSheet(f, "Users", header, rows)
}

func (s *ExportService) writeMetrics(f *excelize.File, metrics []*models.Metrics) error {
	header := []interface{}{"user"}
	for _, name := range models.KPINames {
		header = append(header, name)
	}
	rows := make([][]interface{}, 0, len(metrics))
	for _, m := range metrics {
		row := []interface{}{m.User}
		for _, name := range models.KPINames {
			row = append(row, optional(m.Get(name)))
		}
		rows = append(rows, row)
	}
	return writeSheet(f, "Metrics", header, rows)
}

func (s *ExportService) writePerformance(f *excelize.File, performance []*models.Performance) error {
	header := []interface{}{"user"}
	for _, name := range models.KPINames {
		header = append(header, name)
	}
	for _, name := range models.DimensionNames {
		header = append(header, name)
	}
	header = append(header, "performance")

	rows := make([][]interface{}, 0, len(performance))
	for _, p := range performance {
		row := []interface{}{p.User}
		for _, name := range models.KPINames {
			row = append(row, optional(p.KPIs[name]))
		}
		for _, name := range models.DimensionNames {
			row = append(row, optional(p.Dimension(name)))
		}
		row = append(row, optional(p.Overall))
		rows = append(rows, row)
	}
	return writeSheet(f, "Performance", header, rows)
}

func writeSheet(f *excelize.File, name string, header []interface{}, rows [][]interface{}) error {
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("creating sheet %s: %w", name, err)
	}
	if err := f.SetSheetRow(name, "A1", &header); err != nil {
		return err
	}
	for i, row := range rows {
		cell := "A" + strconv.Itoa(i+2)
		if err := f.SetSheetRow(name, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

// optional renders an undefined value as an empty cell
func optional(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func day(t time.Time) string {
	return t.Format("2006-01-02")
}
