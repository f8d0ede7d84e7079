package services

import (
	"github.com/worklens/worklens/internal/models"
)

// EnrichmentService joins issue and project attributes back onto each
// worklog row and computes the per-row time categories.
type EnrichmentService struct{}

// NewEnrichmentService creates a new enrichment service
func NewEnrichmentService() *EnrichmentService {
	return &EnrichmentService{}
}

// Enrich joins each worklog row with its issue's and project's attributes
// (left join: rows with no match keep zero values) and derives the seven
// time-category columns.
func (s *EnrichmentService) Enrich(rows []*models.WorklogRow, issues []*models.Issue, projects []*models.Project) []*models.EnrichedWorklog {
	issueByID := make(map[string]*models.Issue, len(issues))
	for _, issue := range issues {
		issueByID[issue.ID] = issue
	}
	projectByID := make(map[string]*models.Project, len(projects))
	for _, project := range projects {
		projectByID[project.ID] = project
	}

	enriched := make([]*models.EnrichedWorklog, 0, len(rows))
	for _, row := range rows {
		e := &models.EnrichedWorklog{
			Issue: row.Issue,
			User:  row.User,
			Date:  row.Date,
			Hours: row.Hours,
		}

		issue, hasIssue := issueByID[row.Issue]
		if hasIssue {
			e.IssueSummary = issue.Summary
			e.IssueType = issue.Type
			e.IssueStatus = issue.Status
			e.IssueEstimate = issue.Estimate
			e.IssueReporter = issue.Reporter
			e.IssueProject = issue.Project
			e.IssueLeader = issue.Leader
			e.IssueLeaderShare = issue.LeaderShare
			e.IssueHours = issue.Hours
			e.IssueMinDate = issue.MinDate
			e.IssueMaxDate = issue.MaxDate
			e.IssueDurationDays = issue.DurationDays
			e.IssueIsBug = issue.IsBug
			e.IssueIsMeeting = issue.IsMeeting
			e.IssueIsLearning = issue.IsLearning
			e.IssueIsManagement = issue.IsManagement

			if project, ok := projectByID[issue.Project]; ok {
				e.ProjectLeader = project.Leader
				e.ProjectLeaderShare = project.LeaderShare
				e.ProjectParticipants = project.Participants
				e.ProjectHours = project.Hours
				e.ProjectIssues = project.Issues
			}
		}

		// Orthogonal overlays from issue classification
		if e.IssueIsBug {
			e.BugTime = row.Hours
		}
		if e.IssueIsLearning {
			e.LearningTime = row.Hours
		}
		if e.IssueIsMeeting {
			e.MeetingTime = row.Hours
		}
		if e.IssueIsManagement {
			e.ManagingTime = row.Hours
		}

		// Mutually exclusive leadership categories. A row with no
		// extracted issue has an undeterminable leadership state and
		// falls into none of the three.
		if hasIssue {
			switch {
			case e.IssueLeader == "":
				e.ParticipationTime = row.Hours
			case e.IssueLeader == row.User:
				e.LeadingTime = row.Hours
			default:
				e.CollaborationTime = row.Hours
			}
		}

		enriched = append(enriched, e)
	}

	return enriched
}

// DatasetInfo summarizes the enriched worklog table
func (s *EnrichmentService) DatasetInfo(rows []*models.EnrichedWorklog) *models.DatasetInfo {
	info := &models.DatasetInfo{Logs: len(rows)}
	issues := make(map[string]struct{})
	projects := make(map[string]struct{})
	users := make(map[string]struct{})

	for i, row := range rows {
		if i == 0 || row.Date.Before(info.MinDate) {
			info.MinDate = row.Date
		}
		if i == 0 || row.Date.After(info.MaxDate) {
			info.MaxDate = row.Date
		}
		issues[row.Issue] = struct{}{}
		if row.IssueProject != "" {
			projects[row.IssueProject] = struct{}{}
		}
		users[row.User] = struct{}{}
	}

	info.Issues = len(issues)
	info.Projects = len(projects)
	info.Users = len(users)
	return info
}
