package handlers

import (
	"net/http"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"

	"report-validation-pipeline/config"
	"report-validation-pipeline/ledger"
	"report-validation-pipeline/models"
	"report-validation-pipeline/pipeline"
)

// ConnectionChecker reports whether the decision publisher currently holds an
// open broker connection.
type ConnectionChecker interface {
	IsConnected() bool
}

// Handlers represents the HTTP handlers
type Handlers struct {
	cfg       *config.Config
	ledger    *ledger.Ledger
	pipeline  *pipeline.Pipeline
	publisher ConnectionChecker
}

// NewHandlers creates new HTTP handlers. publisher may be nil when decision
// publishing is disabled.
func NewHandlers(cfg *config.Config, l *ledger.Ledger, p *pipeline.Pipeline, publisher ConnectionChecker) *Handlers {
	return &Handlers{cfg: cfg, ledger: l, pipeline: p, publisher: publisher}
}

// Submit validates a citizen report and returns the accept/reject decision.
func (h *Handlers) Submit(c *gin.Context) {
	var req models.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("Invalid request body in /submit: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body",
		})
		return
	}

	if req.ReportID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "report_id is required",
		})
		return
	}

	if req.Latitude != nil && (*req.Latitude < -90 || *req.Latitude > 90) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "latitude must be within [-90,90]",
		})
		return
	}
	if req.Longitude != nil && (*req.Longitude < -180 || *req.Longitude > 180) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "longitude must be within [-180,180]",
		})
		return
	}

	if int64(len(req.Image)) > h.cfg.MaxImageBytes {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "image exceeds maximum allowed size",
		})
		return
	}

	report := &models.Report{
		ReportID:    req.ReportID,
		Description: req.Description,
		UserID:      req.UserID,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Image:       req.Image,
	}

	resp := h.pipeline.Process(c.Request.Context(), report)
	c.JSON(http.StatusOK, resp)
}

// HealthCheck handles health check requests
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "report-validation-pipeline",
	})
}

// GetStatus returns counters derived from the ledger.
func (h *Handlers) GetStatus(c *gin.Context) {
	stats, err := h.ledger.Stats()
	if err != nil {
		log.Errorf("Failed to read ledger stats: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to get pipeline status",
		})
		return
	}

	status := gin.H{
		"service":  "report-validation-pipeline",
		"total":    stats.Total,
		"accepted": stats.Accepted,
		"rejected": stats.Rejected,
		"errors":   stats.Errors,
	}
	if h.publisher != nil {
		status["publisher_connected"] = h.publisher.IsConnected()
	}

	c.JSON(http.StatusOK, status)
}

// GetStats returns per-category and urgency breakdowns of accepted reports.
func (h *Handlers) GetStats(c *gin.Context) {
	stats, err := h.ledger.Stats()
	if err != nil {
		log.Errorf("Failed to read ledger stats: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to get pipeline stats",
		})
		return
	}

	c.JSON(http.StatusOK, stats)
}
