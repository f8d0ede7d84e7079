package models

import (
	"errors"
	"time"
)

// WorklogRow represents one logged time entry together with the issue
// metadata columns carried by the source export. Strings are lowercased
// during ingestion; an empty Reporter means the issue has no reporter.
type WorklogRow struct {
	Issue    string    `json:"issue"`
	Summary  string    `json:"summary"`
	Type     string    `json:"type"`
	Status   string    `json:"status"`
	Estimate float64   `json:"estimate"`
	Reporter string    `json:"reporter"`
	Project  string    `json:"project"`
	User     string    `json:"user"`
	Date     time.Time `json:"date"`
	Hours    float64   `json:"hours"`
}

// Validate validates the WorklogRow fields
func (w *WorklogRow) Validate() error {
	if w.Issue == "" {
		return errors.New("issue is required")
	}
	if w.User == "" {
		return errors.New("user is required")
	}
	if w.Date.IsZero() {
		return errors.New("date is required")
	}
	if w.Hours < 0 {
		return errors.New("hours must be non-negative")
	}
	return nil
}

// DatasetInfo summarizes the ingested worklog table.
type DatasetInfo struct {
	MinDate  time.Time `json:"min_date"`
	MaxDate  time.Time `json:"max_date"`
	Logs     int       `json:"logs"`
	Issues   int       `json:"issues"`
	Projects int       `json:"projects"`
	Users    int       `json:"users"`
}

// Day truncates a timestamp to a calendar date in UTC. Worklog dates have
// no time component, so all date arithmetic runs on Day-normalized values.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the inclusive span in days between two dates, at least 1.
func DaysBetween(min, max time.Time) int {
	days := int(Day(max).Sub(Day(min)).Hours()/24) + 1
	if days < 1 {
		days = 1
	}
	return days
}
