package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ReportRun is one full pipeline execution over a date window, together
// with the tables it produced. Runs are kept in memory only.
type ReportRun struct {
	ID           string          `json:"id"`
	Interval     Interval        `json:"interval"`
	Users        int             `json:"users"`
	DroppedUsers int             `json:"dropped_users"`
	CreatedAt    time.Time       `json:"created_at"`
	Aggregates   []*UserInterval `json:"-"`
	Metrics      []*Metrics      `json:"-"`
	Performance  []*Performance  `json:"-"`
}

// NewReportRun creates a new ReportRun with a generated UUID
func NewReportRun(interval Interval) *ReportRun {
	return &ReportRun{
		ID:        uuid.New().String(),
		Interval:  interval,
		CreatedAt: time.Now().UTC(),
	}
}

// Validate validates the ReportRun fields
func (r *ReportRun) Validate() error {
	if r.ID == "" {
		return errors.New("run ID is required")
	}
	if r.Interval.Start.IsZero() || r.Interval.End.IsZero() {
		return errors.New("run interval is required")
	}
	if r.Interval.End.Before(r.Interval.Start) {
		return errors.New("run interval end precedes start")
	}
	return nil
}
