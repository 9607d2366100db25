package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/deedavisinc/leadscore-pipeline/internal/services"
)

// SweepHandler handles rescoring sweep endpoints
type SweepHandler struct {
	sweep  *services.RescoreSweep
	config services.SweepConfig
}

// NewSweepHandler creates a new sweep handler
func NewSweepHandler(sweep *services.RescoreSweep, config services.SweepConfig) *SweepHandler {
	return &SweepHandler{sweep: sweep, config: config}
}

// GetStatus reports whether the sweep schedule is active and the stats
// of the last completed cycle
func (h *SweepHandler) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"running":    h.sweep.IsRunning(),
		"last_cycle": h.sweep.LastStats(),
	})
}

// RunOnce triggers a single sweep cycle synchronously
func (h *SweepHandler) RunOnce(c *gin.Context) {
	stats, err := h.sweep.RunOnce(c.Request.Context(), h.config)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "sweep cycle failed: " + err.Error(),
			"stats": stats,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats})
}
