package models

import "time"

// EnrichedWorklog is a worklog row joined with its issue's and project's
// extracted attributes plus the per-row time categories. The join is a
// left join: a row with no matching issue or project keeps zero values.
type EnrichedWorklog struct {
	Issue string    `json:"issue"`
	User  string    `json:"user"`
	Date  time.Time `json:"date"`
	Hours float64   `json:"hours"`

	IssueSummary      string    `json:"issue_summary"`
	IssueType         string    `json:"issue_type"`
	IssueStatus       string    `json:"issue_status"`
	IssueEstimate     float64   `json:"issue_estimate"`
	IssueReporter     string    `json:"issue_reporter"`
	IssueProject      string    `json:"issue_project"`
	IssueLeader       string    `json:"issue_leader"`
	IssueLeaderShare  *float64  `json:"issue_leader_share"`
	IssueHours        float64   `json:"issue_hours"`
	IssueMinDate      time.Time `json:"issue_min_date"`
	IssueMaxDate      time.Time `json:"issue_max_date"`
	IssueDurationDays int       `json:"issue_duration_days"`
	IssueIsBug        bool      `json:"issue_is_bug"`
	IssueIsMeeting    bool      `json:"issue_is_meeting"`
	IssueIsLearning   bool      `json:"issue_is_learning"`
	IssueIsManagement bool      `json:"issue_is_management"`

	ProjectLeader       string   `json:"project_leader"`
	ProjectLeaderShare  *float64 `json:"project_leader_share"`
	ProjectParticipants int      `json:"project_participants"`
	ProjectHours        float64  `json:"project_hours"`
	ProjectIssues       int      `json:"project_issues"`

	// Time categories. Bug/learning/meeting/managing are overlays of the
	// full hours; collaboration/participation/leading are mutually
	// exclusive depending on the issue's leadership state.
	BugTime           float64 `json:"bug_time"`
	LearningTime      float64 `json:"learning_time"`
	MeetingTime       float64 `json:"meeting_time"`
	ManagingTime      float64 `json:"managing_time"`
	CollaborationTime float64 `json:"collaboration_time"`
	ParticipationTime float64 `json:"participation_time"`
	LeadingTime       float64 `json:"leading_time"`
}
