package services

import (
	"github.com/worklens/worklens/internal/models"
)

// MetricsService derives the 15 KPI ratios from user aggregates. Every
// formula is a division; a zero denominator makes the KPI undefined (nil)
// rather than zero.
type MetricsService struct{}

// NewMetricsService creates a new metrics service
func NewMetricsService() *MetricsService {
	return &MetricsService{}
}

// Derive maps each user's aggregates to the KPI set
func (s *MetricsService) Derive(users []*models.UserInterval) []*models.Metrics {
	metrics := make([]*models.Metrics, 0, len(users))
	for _, u := range users {
		metrics = append(metrics, s.deriveUser(u))
	}
	return metrics
}

func (s *MetricsService) deriveUser(u *models.UserInterval) *models.Metrics {
	m := &models.Metrics{User: u.User}

	// Productivity
	m.Velocity = models.Ratio(float64(u.LeadingClosedIssues), u.LeadingClosedVolume/8)
	m.Concentration = models.Inverse(u.LeadingClosedDuration)
	m.Engagement = models.Ratio(u.Hours, u.ExpectedHours)
	m.Independence = models.Ratio(u.LeadingTime, u.LeadingVolume)

	// Adaptability
	m.Learning = models.Ratio(u.LearningTime, u.Hours)
	m.Versatility = models.OneMinus(u.ProjectsStd)
	m.Heterogeneity = models.OneMinus(u.TypesStd)
	m.Complexity = u.BugTimeShare

	// Teamwork
	m.Collaboration = models.Ratio(u.CollaborationTime, u.Hours)
	m.Sociability = models.Ratio(float64(u.HelpedUsers), float64(u.UsersTotalInterval-1))
	m.Participation = models.Ratio(u.ParticipationTime, u.Hours)
	m.Connection = models.Ratio(u.MeetingTime, u.Hours)

	// Mentoring
	m.Management = models.Ratio(u.ManagingTime, u.Hours)
	m.Guidance = u.ReportingShare
	m.Responsibility = u.LeadingProjectShare

	return m
}
