package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/worklens/worklens/internal/services"
	"github.com/worklens/worklens/pkg/config"
)

// DatasetHandler exposes the ingested dataset: info, issues, projects and
// the enriched worklog table.
type DatasetHandler struct {
	reportService *services.ReportService
}

// NewDatasetHandler creates a new dataset handler
func NewDatasetHandler(reportService *services.ReportService) *DatasetHandler {
	return &DatasetHandler{reportService: reportService}
}

// Info handles GET /api/info
func (h *DatasetHandler) Info(c *gin.Context) {
	info := h.reportService.Info()
	if info == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no dataset loaded"})
		return
	}
	c.JSON(http.StatusOK, info)
}

// Issues handles GET /api/issues
func (h *DatasetHandler) Issues(c *gin.Context) {
	c.JSON(http.StatusOK, h.reportService.Issues())
}

// Projects handles GET /api/projects
func (h *DatasetHandler) Projects(c *gin.Context) {
	c.JSON(http.StatusOK, h.reportService.Projects())
}

// Worklogs handles GET /api/worklogs
func (h *DatasetHandler) Worklogs(c *gin.Context) {
	c.JSON(http.StatusOK, h.reportService.Worklogs())
}

// Reload handles POST /api/worklogs/reload
func (h *DatasetHandler) Reload(c *gin.Context) {
	if err := h.reportService.Reload(config.AppConfig.Worklog.Dir); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.reportService.Info())
}
