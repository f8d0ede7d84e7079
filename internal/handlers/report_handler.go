package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/worklens/worklens/internal/models"
	"github.com/worklens/worklens/internal/repositories"
	"github.com/worklens/worklens/internal/services"
)

// ReportHandler triggers report runs and exposes their tables.
type ReportHandler struct {
	reportService *services.ReportService
	exportService *services.ExportService
	runRepo       *repositories.ReportRunRepository
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *services.ReportService, exportService *services.ExportService, runRepo *repositories.ReportRunRepository) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		exportService: exportService,
		runRepo:       runRepo,
	}
}

type createReportRequest struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Create handles POST /api/reports
func (h *ReportHandler) Create(c *gin.Context) {
	var req createReportRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	start, err := parseBound(req.Start)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid start date: %v", err)})
		return
	}
	end, err := parseBound(req.End)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid end date: %v", err)})
		return
	}

	run, err := h.reportService.Run(start, end)
	if err != nil {
		if errors.Is(err, services.ErrNoDataset) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, run)
}

// List handles GET /api/reports
func (h *ReportHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.runRepo.List())
}

// Get handles GET /api/reports/:id
func (h *ReportHandler) Get(c *gin.Context) {
	run := h.lookup(c)
	if run == nil {
		return
	}
	c.JSON(http.StatusOK, run)
}

// Users handles GET /api/reports/:id/users
func (h *ReportHandler) Users(c *gin.Context) {
	run := h.lookup(c)
	if run == nil {
		return
	}
	c.JSON(http.StatusOK, run.Aggregates)
}

// Metrics handles GET /api/reports/:id/metrics
func (h *ReportHandler) Metrics(c *gin.Context) {
	run := h.lookup(c)
	if run == nil {
		return
	}
	c.JSON(http.StatusOK, run.Metrics)
}

// Performance handles GET /api/reports/:id/performance
func (h *ReportHandler) Performance(c *gin.Context) {
	run := h.lookup(c)
	if run == nil {
		return
	}
	c.JSON(http.StatusOK, run.Performance)
}

// Export handles GET /api/reports/:id/export
func (h *ReportHandler) Export(c *gin.Context) {
	run := h.lookup(c)
	if run == nil {
		return
	}

	workbook, err := h.exportService.BuildWorkbook(run, h.reportService.Issues(), h.reportService.Projects())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	filename := fmt.Sprintf("report-%s.xlsx", run.ID)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := workbook.Write(c.Writer); err != nil {
		c.Status(http.StatusInternalServerError)
	}
}

func (h *ReportHandler) lookup(c *gin.Context) *models.ReportRun {
	run := h.runRepo.GetByID(c.Param("id"))
	if run == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "report not found"})
		return nil
	}
	return run
}

func parseBound(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
