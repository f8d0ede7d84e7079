package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/worklens/worklens/internal/models"
)

func metricsWithVelocity(user string, velocity *float64) *models.Metrics {
	return &models.Metrics{User: user, Velocity: velocity}
}

func TestNormalizeStandardizesColumns(t *testing.T) {
	service := NewPerformanceService(1)

	metrics := []*models.Metrics{
		metricsWithVelocity("a", models.Float(0)),
		metricsWithVelocity("b", models.Float(1)),
		metricsWithVelocity("c", models.Float(2)),
	}

	results := service.Normalize(metrics)
	require.Len(t, results, 3)

	// mean 1, std 1 -> z-scores -1, 0, 1 -> rescaled 0, 0.5, 1
	require.NotNil(t, results[0].KPIs[models.KPIVelocity])
	assert.InDelta(t, 0.0, *results[0].KPIs[models.KPIVelocity], 1e-9)
	require.NotNil(t, results[1].KPIs[models.KPIVelocity])
	assert.InDelta(t, 0.5, *results[1].KPIs[models.KPIVelocity], 1e-9)
	require.NotNil(t, results[2].KPIs[models.KPIVelocity])
	assert.InDelta(t, 1.0, *results[2].KPIs[models.KPIVelocity], 1e-9)
}

func TestNormalizeClipsOutliers(t *testing.T) {
	service := NewPerformanceService(1)

	metrics := []*models.Metrics{
		metricsWithVelocity("a", models.Float(0)),
		metricsWithVelocity("b", models.Float(0)),
		metricsWithVelocity("c", models.Float(0)),
		metricsWithVelocity("d", models.Float(100)),
	}

	results := service.Normalize(metrics)

	for _, p := range results {
		v := p.KPIs[models.KPIVelocity]
		require.NotNil(t, v)
		assert.GreaterOrEqual(t, *v, 0.0)
		assert.LessOrEqual(t, *v, 1.0)
	}
	// The outlier clips to the upper bound
	assert.Equal(t, 1.0, *results[3].KPIs[models.KPIVelocity])
}

func TestNormalizeUndefinedValuesStayUndefined(t *testing.T) {
	service := NewPerformanceService(1)

	metrics := []*models.Metrics{
		metricsWithVelocity("a", models.Float(0)),
		metricsWithVelocity("b", nil),
		metricsWithVelocity("c", models.Float(1)),
	}

	results := service.Normalize(metrics)

	// Column statistics run over the two defined values only
	require.NotNil(t, results[0].KPIs[models.KPIVelocity])
	assert.InDelta(t, 0.14644660940, *results[0].KPIs[models.KPIVelocity], 1e-9)
	assert.Nil(t, results[1].KPIs[models.KPIVelocity])
	require.NotNil(t, results[2].KPIs[models.KPIVelocity])
	assert.InDelta(t, 0.85355339059, *results[2].KPIs[models.KPIVelocity], 1e-9)
}

func TestNormalizeDegenerateColumns(t *testing.T) {
	service := NewPerformanceService(1)

	t.Run("Zero variance", func(t *testing.T) {
		metrics := []*models.Metrics{
			metricsWithVelocity("a", models.Float(3)),
			metricsWithVelocity("b", models.Float(3)),
		}
		results := service.Normalize(metrics)
		assert.Nil(t, results[0].KPIs[models.KPIVelocity])
		assert.Nil(t, results[1].KPIs[models.KPIVelocity])
	})

	t.Run("Single defined value", func(t *testing.T) {
		metrics := []*models.Metrics{
			metricsWithVelocity("a", models.Float(3)),
			metricsWithVelocity("b", nil),
		}
		results := service.Normalize(metrics)
		assert.Nil(t, results[0].KPIs[models.KPIVelocity])
	})

	t.Run("Empty input", func(t *testing.T) {
		assert.Empty(t, service.Normalize(nil))
	})
}

func TestNormalizeDimensionScores(t *testing.T) {
	service := NewPerformanceService(1)

	// Two users with opposite productivity KPIs and identical teamwork
	metrics := []*models.Metrics{
		{
			User:        "a",
			Velocity:    models.Float(0),
			Engagement:  models.Float(0),
			Sociability: models.Float(0),
		},
		{
			User:        "b",
			Velocity:    models.Float(1),
			Engagement:  models.Float(1),
			Sociability: models.Float(2),
		},
	}

	results := service.Normalize(metrics)

	// velocity and engagement both rescale to ~0.146 / ~0.854; their
	// dimension mean matches. Independence is undefined and skipped.
	require.NotNil(t, results[0].Productivity)
	assert.InDelta(t, 0.14644660940, *results[0].Productivity, 1e-9)
	require.NotNil(t, results[1].Productivity)
	assert.InDelta(t, 0.85355339059, *results[1].Productivity, 1e-9)

	// Teamwork has a single defined member
	require.NotNil(t, results[0].Teamwork)
	assert.InDelta(t, 0.14644660940, *results[0].Teamwork, 1e-9)

	// No adaptability or mentoring KPI is defined
	assert.Nil(t, results[0].Adaptability)
	assert.Nil(t, results[0].Mentoring)

	// Overall averages the defined dimensions only
	require.NotNil(t, results[0].Overall)
	assert.InDelta(t, 0.14644660940, *results[0].Overall, 1e-9)
}

func TestNormalizeBoundsProperty(t *testing.T) {
	service := NewPerformanceService(1)

	metrics := []*models.Metrics{
		{User: "a", Velocity: models.Float(-5), Learning: models.Float(0.1), Sociability: models.Float(0.9), Guidance: models.Float(0.0)},
		{User: "b", Velocity: models.Float(2), Learning: models.Float(0.4), Sociability: models.Float(0.1), Guidance: models.Float(0.7)},
		{User: "c", Velocity: models.Float(9), Learning: models.Float(0.2), Sociability: models.Float(0.5), Guidance: models.Float(0.2)},
	}

	for _, p := range service.Normalize(metrics) {
		for name, v := range p.KPIs {
			if v == nil {
				continue
			}
			assert.GreaterOrEqual(t, *v, 0.0, name)
			assert.LessOrEqual(t, *v, 1.0, name)
		}
		for _, name := range models.DimensionNames {
			if score := p.Dimension(name); score != nil {
				assert.GreaterOrEqual(t, *score, 0.0, name)
				assert.LessOrEqual(t, *score, 1.0, name)
			}
		}
		require.NotNil(t, p.Overall)
		assert.GreaterOrEqual(t, *p.Overall, 0.0)
		assert.LessOrEqual(t, *p.Overall, 1.0)
	}
}
