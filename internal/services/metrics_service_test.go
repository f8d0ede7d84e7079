package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/worklens/worklens/internal/models"
)

func TestDeriveMetrics(t *testing.T) {
	service := NewMetricsService()

	u := &models.UserInterval{
		User:                  "alice",
		Hours:                 100,
		LearningTime:          10,
		MeetingTime:           5,
		ManagingTime:          20,
		CollaborationTime:     30,
		ParticipationTime:     15,
		LeadingTime:           40,
		ExpectedHours:         125,
		LeadingVolume:         50,
		LeadingClosedVolume:   160,
		LeadingClosedIssues:   4,
		LeadingClosedDuration: models.Float(2.5),
		ReportingShare:        models.Float(0.25),
		HelpedUsers:           3,
		UsersTotalInterval:    7,
		ProjectsStd:           models.Float(0.3),
		TypesStd:              models.Float(0.1),
		BugTimeShare:          models.Float(0.2),
		LeadingProjectShare:   models.Float(0.5),
	}

	metrics := service.Derive([]*models.UserInterval{u})
	require.Len(t, metrics, 1)
	m := metrics[0]

	assert.Equal(t, "alice", m.User)

	// velocity = 4 / (160/8)
	require.NotNil(t, m.Velocity)
	assert.InDelta(t, 0.2, *m.Velocity, 1e-9)

	// concentration = 1 / 2.5
	require.NotNil(t, m.Concentration)
	assert.InDelta(t, 0.4, *m.Concentration, 1e-9)

	// engagement = 100 / 125
	require.NotNil(t, m.Engagement)
	assert.InDelta(t, 0.8, *m.Engagement, 1e-9)

	// independence = 40 / 50
	require.NotNil(t, m.Independence)
	assert.InDelta(t, 0.8, *m.Independence, 1e-9)

	// learning = 10 / 100
	require.NotNil(t, m.Learning)
	assert.InDelta(t, 0.1, *m.Learning, 1e-9)

	// versatility = 1 - 0.3, heterogeneity = 1 - 0.1
	require.NotNil(t, m.Versatility)
	assert.InDelta(t, 0.7, *m.Versatility, 1e-9)
	require.NotNil(t, m.Heterogeneity)
	assert.InDelta(t, 0.9, *m.Heterogeneity, 1e-9)

	// complexity is the bug share as-is
	require.NotNil(t, m.Complexity)
	assert.InDelta(t, 0.2, *m.Complexity, 1e-9)

	// collaboration = 30 / 100
	require.NotNil(t, m.Collaboration)
	assert.InDelta(t, 0.3, *m.Collaboration, 1e-9)

	// sociability = 3 / (7 - 1)
	require.NotNil(t, m.Sociability)
	assert.InDelta(t, 0.5, *m.Sociability, 1e-9)

	// participation = 15 / 100, connection = 5 / 100, management = 20 / 100
	require.NotNil(t, m.Participation)
	assert.InDelta(t, 0.15, *m.Participation, 1e-9)
	require.NotNil(t, m.Connection)
	assert.InDelta(t, 0.05, *m.Connection, 1e-9)
	require.NotNil(t, m.Management)
	assert.InDelta(t, 0.2, *m.Management, 1e-9)

	// guidance and responsibility pass through
	require.NotNil(t, m.Guidance)
	assert.InDelta(t, 0.25, *m.Guidance, 1e-9)
	require.NotNil(t, m.Responsibility)
	assert.InDelta(t, 0.5, *m.Responsibility, 1e-9)
}

func TestDeriveMetricsUndefinedDenominators(t *testing.T) {
	service := NewMetricsService()

	// A user who never led anything and worked alone
	u := &models.UserInterval{
		User:               "solo",
		Hours:              0,
		UsersTotalInterval: 1,
	}

	metrics := service.Derive([]*models.UserInterval{u})
	m := metrics[0]

	assert.Nil(t, m.Velocity, "no closed led volume")
	assert.Nil(t, m.Concentration, "no led closed issues")
	assert.Nil(t, m.Engagement, "no expected hours")
	assert.Nil(t, m.Independence, "no leading volume")
	assert.Nil(t, m.Learning, "zero hours")
	assert.Nil(t, m.Versatility, "undefined dispersion")
	assert.Nil(t, m.Heterogeneity, "undefined dispersion")
	assert.Nil(t, m.Complexity, "undefined bug share")
	assert.Nil(t, m.Collaboration, "zero hours")
	assert.Nil(t, m.Sociability, "only active user in interval")
	assert.Nil(t, m.Participation, "zero hours")
	assert.Nil(t, m.Connection, "zero hours")
	assert.Nil(t, m.Management, "zero hours")
	assert.Nil(t, m.Guidance, "undefined reporting share")
	assert.Nil(t, m.Responsibility, "undefined led-project share")
}

func TestMetricsGetCoversAllKPIs(t *testing.T) {
	m := &models.Metrics{}
	for i, name := range models.KPINames {
		v := float64(i)
		switch name {
		case models.KPIVelocity:
			m.Velocity = &v
		case models.KPIConcentration:
			m.Concentration = &v
		case models.KPIEngagement:
			m.Engagement = &v
		case models.KPIIndependence:
			m.Independence = &v
		case models.KPILearning:
			m.Learning = &v
		case models.KPIVersatility:
			m.Versatility = &v
		case models.KPIHeterogeneity:
			m.Heterogeneity = &v
		case models.KPIComplexity:
			m.Complexity = &v
		case models.KPICollaboration:
			m.Collaboration = &v
		case models.KPISociability:
			m.Sociability = &v
		case models.KPIParticipation:
			m.Participation = &v
		case models.KPIConnection:
			m.Connection = &v
		case models.KPIManagement:
			m.Management = &v
		case models.KPIGuidance:
			m.Guidance = &v
		case models.KPIResponsibility:
			m.Responsibility = &v
		}
	}
	for i, name := range models.KPINames {
		got := m.Get(name)
		require.NotNil(t, got, name)
		assert.Equal(t, float64(i), *got, name)
	}
	assert.Nil(t, m.Get("unknown"))
}
