package repositories

import (
	"sort"
	"sync"

	"github.com/worklens/worklens/internal/models"
)

// ReportRunRepository keeps report runs in memory. There is no
// persistence layer; runs live for the lifetime of the process. The lock
// only guards concurrent HTTP readers against a writer.
type ReportRunRepository struct {
	mu   sync.RWMutex
	runs map[string]*models.ReportRun
}

// NewReportRunRepository creates a new report run repository
func NewReportRunRepository() *ReportRunRepository {
	return &ReportRunRepository{
		runs: make(map[string]*models.ReportRun),
	}
}

// Insert stores a run
func (r *ReportRunRepository) Insert(run *models.ReportRun) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs[run.ID] = run
}

// GetByID returns a run by ID, nil when not found
func (r *ReportRunRepository) GetByID(id string) *models.ReportRun {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.runs[id]
}

// List returns all runs, newest first
func (r *ReportRunRepository) List() []*models.ReportRun {
	r.mu.RLock()
	defer r.mu.RUnlock()
	runs := make([]*models.ReportRun, 0, len(r.runs))
	for _, run := range r.runs {
		runs = append(runs, run)
	}
	sort.Slice(runs, func(i, j int) bool {
		return runs[i].CreatedAt.After(runs[j].CreatedAt)
	})
	return runs
}
