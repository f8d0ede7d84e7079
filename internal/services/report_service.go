package services

import (
	"errors"
	"sync"
	"time"

	"github.com/worklens/worklens/internal/models"
	"github.com/worklens/worklens/internal/repositories"
	"github.com/worklens/worklens/pkg/logger"
)

// ErrNoDataset is returned when a report is requested before any worklog
// data has been loaded.
var ErrNoDataset = errors.New("no worklog dataset loaded")

// ReportService orchestrates the pipeline: ingestion, entity extraction,
// enrichment, interval aggregation, KPI derivation and performance
// normalization. The extracted dataset lives in memory and report runs
// are full recomputes over it.
type ReportService struct {
	ingestion   *IngestionService
	extraction  *ExtractionService
	enrichment  *EnrichmentService
	aggregation *AggregationService
	metrics     *MetricsService
	performance *PerformanceService
	runRepo     *repositories.ReportRunRepository

	mu       sync.RWMutex
	worklogs []*models.WorklogRow
	issues   []*models.Issue
	projects []*models.Project
	enriched []*models.EnrichedWorklog
	info     *models.DatasetInfo
}

// NewReportService creates a new report service
func NewReportService(
	ingestion *IngestionService,
	extraction *ExtractionService,
	enrichment *EnrichmentService,
	aggregation *AggregationService,
	metrics *MetricsService,
	performance *PerformanceService,
	runRepo *repositories.ReportRunRepository,
) *ReportService {
	return &ReportService{
		ingestion:   ingestion,
		extraction:  extraction,
		enrichment:  enrichment,
		aggregation: aggregation,
		metrics:     metrics,
		performance: performance,
		runRepo:     runRepo,
	}
}

// Reload ingests the worklog directory and rebuilds the issues, projects
// and enriched worklog tables
func (s *ReportService) Reload(dir string) error {
	worklogs, err := s.ingestion.LoadDirectory(dir)
	if err != nil {
		return err
	}
	return s.SetWorklogs(worklogs)
}

// SetWorklogs replaces the dataset with an already-cleaned worklog table
// and re-derives the extraction and enrichment tables
func (s *ReportService) SetWorklogs(worklogs []*models.WorklogRow) error {
	issues, err := s.extraction.ExtractIssues(worklogs)
	if err != nil {
		return err
	}
	projects, err := s.extraction.ExtractProjects(worklogs, issues)
	if err != nil {
		return err
	}
	enriched := s.enrichment.Enrich(worklogs, issues, projects)
	info := s.enrichment.DatasetInfo(enriched)

	s.mu.Lock()
	s.worklogs = worklogs
	s.issues = issues
	s.projects = projects
	s.enriched = enriched
	s.info = info
	s.mu.Unlock()

	logger.WithFields(map[string]interface{}{
		"logs":     info.Logs,
		"issues":   info.Issues,
		"projects": info.Projects,
		"users":    info.Users,
	}).Info("worklog dataset ready")

	return nil
}

// Run executes the downstream pipeline for the given window (nil bounds
// default to the full observed span) and stores the resulting run
func (s *ReportService) Run(start, end *time.Time) (*models.ReportRun, error) {
	s.mu.RLock()
	enriched := s.enriched
	s.mu.RUnlock()
	if len(enriched) == 0 {
		return nil, ErrNoDataset
	}

	var requested *models.Interval
	if start != nil || end != nil {
		requested = &models.Interval{
			Start: time.Date(1, 1, 1, 0, 0, 0, 0, time.UTC),
			End:   time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC),
		}
		if start != nil {
			requested.Start = models.Day(*start)
		}
		if end != nil {
			requested.End = models.Day(*end)
		}
	}

	began := time.Now()
	aggregates, interval, dropped := s.aggregation.AggregateUsers(enriched, requested)
	metrics := s.metrics.Derive(aggregates)
	performance := s.performance.Normalize(metrics)

	run := models.NewReportRun(interval)
	run.Users = len(aggregates)
	run.DroppedUsers = dropped
	run.Aggregates = aggregates
	run.Metrics = metrics
	run.Performance = performance
	if err := run.Validate(); err != nil {
		return nil, err
	}
	s.runRepo.Insert(run)

	logger.WithFields(map[string]interface{}{
		"run":      run.ID,
		"users":    run.Users,
		"dropped":  run.DroppedUsers,
		"duration": time.Since(began).String(),
	}).Info("report run completed")

	return run, nil
}

// Info returns the dataset summary, nil when nothing is loaded
func (s *ReportService) Info() *models.DatasetInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.info
}

// Issues returns the extracted issues table
func (s *ReportService) Issues() []*models.Issue {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.issues
}

// Projects returns the extracted projects table
func (s *ReportService) Projects() []*models.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.projects
}

// Worklogs returns the enriched worklog table
func (s *ReportService) Worklogs() []*models.EnrichedWorklog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.enriched
}
