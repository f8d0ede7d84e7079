package models

import "time"

// Interval is a closed date range.
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether the date falls inside the interval (inclusive)
func (iv Interval) Contains(date time.Time) bool {
	return !date.Before(iv.Start) && !date.After(iv.End)
}

// Clamp restricts the interval to the observed data span
func (iv Interval) Clamp(observed Interval) Interval {
	clamped := iv
	if clamped.Start.Before(observed.Start) {
		clamped.Start = observed.Start
	}
	if clamped.End.After(observed.End) {
		clamped.End = observed.End
	}
	return clamped
}

// UserInterval holds every per-user aggregate computed for one report
// window. It is recomputed in full on every aggregation call; nothing is
// persisted or incrementally updated. Pointer fields are nil when the
// underlying ratio or deviation is undefined.
type UserInterval struct {
	User string `json:"user"`

	// Base aggregates over the user's filtered rows.
	Hours             float64   `json:"hours"`
	BugTime           float64   `json:"bug_time"`
	LearningTime      float64   `json:"learning_time"`
	MeetingTime       float64   `json:"meeting_time"`
	ManagingTime      float64   `json:"managing_time"`
	CollaborationTime float64   `json:"collaboration_time"`
	ParticipationTime float64   `json:"participation_time"`
	LeadingTime       float64   `json:"leading_time"`
	MinDate           time.Time `json:"min_date"`
	MaxDate           time.Time `json:"max_date"`
	DurationDays      int       `json:"duration_days"`
	Logs              int       `json:"logs"`
	Issues            int       `json:"issues"`

	// DailyHours is the user's average logged hours per active day,
	// rounded to the nearest whole hour and capped at a full-time 8.
	DailyHours float64 `json:"daily_hours"`

	// ExpectedHours counts business days inside the user's own active
	// span (not the global window) times DailyHours.
	ExpectedHours float64 `json:"expected_hours"`

	// Leadership aggregates over issues this user leads.
	LeadingVolume         float64  `json:"leading_volume"`
	HelpedTime            float64  `json:"helped_time"`
	LeadingIssues         int      `json:"leading_issues"`
	LeadingDuration       *float64 `json:"leading_duration"`
	LeadingClosedVolume   float64  `json:"leading_closed_volume"`
	LeadingClosedIssues   int      `json:"leading_closed_issues"`
	LeadingClosedDuration *float64 `json:"leading_closed_duration"`

	// Reporting aggregates; the total is restricted to the user's own
	// sub-interval.
	ReportingVolume        float64  `json:"reporting_volume"`
	ReportingTotalInterval float64  `json:"reporting_total_interval"`
	ReportingShare         *float64 `json:"reporting_share"`

	// Collaboration reach within the user's sub-interval.
	HelpedUsers        int `json:"helped_users"`
	UsersTotalInterval int `json:"users_total_interval"`

	// Dedication dispersion across projects/types active in the user's
	// sub-interval, normalized by the user's total hours.
	ProjectsStd *float64 `json:"projects_std"`
	TypesStd    *float64 `json:"types_std"`

	// Led projects: projects where the user's hour share, measured over
	// the project's hours on the user's active dates, exceeds the
	// project-leader threshold.
	LeadingProjects     int      `json:"leading_projects"`
	LeadingProjectShare *float64 `json:"leading_project_share"`

	// Bug share within the user's sub-interval.
	BugsTotalInterval float64  `json:"bugs_total_interval"`
	BugTimeShare      *float64 `json:"bug_time_share"`

	// Dedication vectors: hours by project and by issue type.
	ProjectHours map[string]float64 `json:"project_hours"`
	TypeHours    map[string]float64 `json:"type_hours"`
}
