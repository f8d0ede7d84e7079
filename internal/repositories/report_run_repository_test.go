package repositories

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/worklens/worklens/internal/models"
)

func testInterval() models.Interval {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return models.Interval{Start: start, End: start.AddDate(0, 1, 0)}
}

func TestReportRunRepository(t *testing.T) {
	repo := NewReportRunRepository()

	assert.Nil(t, repo.GetByID("missing"))
	assert.Empty(t, repo.List())

	first := models.NewReportRun(testInterval())
	second := models.NewReportRun(testInterval())
	second.CreatedAt = first.CreatedAt.Add(time.Second)

	repo.Insert(first)
	repo.Insert(second)

	assert.Same(t, first, repo.GetByID(first.ID))

	runs := repo.List()
	require.Len(t, runs, 2)
	// Newest first
	assert.Equal(t, second.ID, runs[0].ID)
	assert.Equal(t, first.ID, runs[1].ID)
}
