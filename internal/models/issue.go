package models

import "time"

// Issue represents the features extracted for one issue from all of its
// worklog rows. Leader is empty when no user's hour share exceeds the
// issue-leader threshold; LeaderShare is nil when the issue has zero
// logged hours and the share is undefined.
type Issue struct {
	ID           string    `json:"id"`
	Summary      string    `json:"summary"`
	Type         string    `json:"type"`
	Status       string    `json:"status"`
	Estimate     float64   `json:"estimate"`
	Reporter     string    `json:"reporter"`
	Project      string    `json:"project"`
	Leader       string    `json:"leader"`
	LeaderShare  *float64  `json:"leader_share"`
	Participants int       `json:"participants"`
	Hours        float64   `json:"hours"`
	GlobalShare  *float64  `json:"global_share"`
	MinDate      time.Time `json:"min_date"`
	MaxDate      time.Time `json:"max_date"`
	DurationDays int       `json:"duration_days"`
	IsBug        bool      `json:"is_bug"`
	IsMeeting    bool      `json:"is_meeting"`
	IsLearning   bool      `json:"is_learning"`
	IsManagement bool      `json:"is_management"`
}

// HasLeader reports whether leadership attribution succeeded for this issue
func (i *Issue) HasLeader() bool {
	return i.Leader != ""
}
