package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/worklens/worklens/internal/models"
)

// ExtractionService derives the issues and projects tables from the
// worklog table, including leadership attribution and type classification.
type ExtractionService struct {
	issueLeaderShare   float64
	projectLeaderShare float64
	meetingWords       []string
	learningWords      []string
	managementWords    []string
}

// NewExtractionService creates a new extraction service
func NewExtractionService(issueLeaderShare, projectLeaderShare float64, meetingWords, learningWords, managementWords []string) *ExtractionService {
	return &ExtractionService{
		issueLeaderShare:   issueLeaderShare,
		projectLeaderShare: projectLeaderShare,
		meetingWords:       meetingWords,
		learningWords:      learningWords,
		managementWords:    managementWords,
	}
}

// ExtractIssues builds the issues table from worklog rows. The last row
// in (date, issue, user) order supplies the descriptive attributes, the
// estimate is the maximum seen, and the leader is the dominant-share user
// when that share exceeds the issue-leader threshold.
func (s *ExtractionService) ExtractIssues(rows []*models.WorklogRow) ([]*models.Issue, error) {
	byIssue := make(map[string]*models.Issue)
	hoursByUser := make(map[string]map[string]float64)
	var grandTotal float64

	for _, row := range rows {
		issue, ok := byIssue[row.Issue]
		if !ok {
			issue = &models.Issue{
				ID:      row.Issue,
				MinDate: row.Date,
				MaxDate: row.Date,
			}
			byIssue[row.Issue] = issue
			hoursByUser[row.Issue] = make(map[string]float64)
		}

		// Last row in sorted order wins the descriptive attributes
		issue.Summary = row.Summary
		issue.Type = row.Type
		issue.Status = row.Status
		issue.Reporter = row.Reporter
		issue.Project = row.Project
		if row.Estimate > issue.Estimate {
			issue.Estimate = row.Estimate
		}

		if row.Date.Before(issue.MinDate) {
			issue.MinDate = row.Date
		}
		if row.Date.After(issue.MaxDate) {
			issue.MaxDate = row.Date
		}

		issue.Hours += row.Hours
		hoursByUser[row.Issue][row.User] += row.Hours
		grandTotal += row.Hours
	}

	issues := make([]*models.Issue, 0, len(byIssue))
	for id, issue := range byIssue {
		leader, share, err := attributeLeader(hoursByUser[id], s.issueLeaderShare)
		if err != nil {
			return nil, fmt.Errorf("issue %s: %w", id, err)
		}
		issue.Leader = leader
		issue.LeaderShare = share

		for _, hours := range hoursByUser[id] {
			if hours > 0 {
				issue.Participants++
			}
		}
		issue.GlobalShare = models.Ratio(issue.Hours, grandTotal)
		issue.DurationDays = models.DaysBetween(issue.MinDate, issue.MaxDate)

		issue.IsBug = issue.Type == "bug"
		issue.IsMeeting = matchesAny(issue.Summary, s.meetingWords)
		issue.IsLearning = matchesAny(issue.Summary, s.learningWords)
		issue.IsManagement = matchesAny(issue.Summary, s.managementWords)

		issues = append(issues, issue)
	}

	sort.Slice(issues, func(i, j int) bool { return issues[i].ID < issues[j].ID })
	return issues, nil
}

// ExtractProjects builds the projects table from worklog rows and the
// extracted issues. Attribution uses the project-leader threshold.
func (s *ExtractionService) ExtractProjects(rows []*models.WorklogRow, issues []*models.Issue) ([]*models.Project, error) {
	byProject := make(map[string]*models.Project)
	hoursByUser := make(map[string]map[string]float64)
	var grandTotal float64

	for _, row := range rows {
		project, ok := byProject[row.Project]
		if !ok {
			project = &models.Project{ID: row.Project}
			byProject[row.Project] = project
			hoursByUser[row.Project] = make(map[string]float64)
		}
		project.Hours += row.Hours
		hoursByUser[row.Project][row.User] += row.Hours
		grandTotal += row.Hours
	}

	for _, issue := range issues {
		if project, ok := byProject[issue.Project]; ok {
			project.Issues++
		}
	}

	projects := make([]*models.Project, 0, len(byProject))
	for id, project := range byProject {
		leader, share, err := attributeLeader(hoursByUser[id], s.projectLeaderShare)
		if err != nil {
			return nil, fmt.Errorf("project %s: %w", id, err)
		}
		project.Leader = leader
		project.LeaderShare = share

		for _, hours := range hoursByUser[id] {
			if hours > 0 {
				project.Participants++
			}
		}
		project.GlobalShare = models.Ratio(project.Hours, grandTotal)

		projects = append(projects, project)
	}

	sort.Slice(projects, func(i, j int) bool { return projects[i].ID < projects[j].ID })
	return projects, nil
}

// attributeLeader finds the user with the largest hour share on an entity.
// The leader is set only when that share exceeds the threshold. An entity
// with zero total hours has an undefined share and no leader. Since shares
// sum to 1 at most one candidate can exceed a threshold >= 0.5; more than
// one is an attribution ambiguity and reported as an error.
func attributeLeader(hoursByUser map[string]float64, threshold float64) (string, *float64, error) {
	var total float64
	for _, hours := range hoursByUser {
		total += hours
	}
	if total == 0 {
		return "", nil, nil
	}

	// Sorted iteration keeps the argmax deterministic on ties
	users := make([]string, 0, len(hoursByUser))
	for user := range hoursByUser {
		users = append(users, user)
	}
	sort.Strings(users)

	var top string
	var topHours float64
	candidates := 0
	for _, user := range users {
		hours := hoursByUser[user]
		if hours > topHours {
			top = user
			topHours = hours
		}
		if hours/total > threshold {
			candidates++
		}
	}
	if candidates > 1 {
		return "", nil, fmt.Errorf("leader attribution ambiguity: %d candidates above share %.2f", candidates, threshold)
	}

	share := topHours / total
	if share > threshold {
		return top, &share, nil
	}
	return "", &share, nil
}

// matchesAny reports whether any configured word is a substring of the
// summary. Both sides are lowercased during ingestion and config load.
func matchesAny(summary string, words []string) bool {
	for _, word := range words {
		if word != "" && strings.Contains(summary, word) {
			return true
		}
	}
	return false
}
