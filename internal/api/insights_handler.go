package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/deedavisinc/leadscore-pipeline/internal/services"
)

// InsightsHandler handles portfolio analytics endpoints
type InsightsHandler struct {
	insights services.InsightsService
}

// NewInsightsHandler creates a new insights handler
func NewInsightsHandler(insights services.InsightsService) *InsightsHandler {
	return &InsightsHandler{insights: insights}
}

// GetInsights computes portfolio insights over the current scores
func (h *InsightsHandler) GetInsights(c *gin.Context) {
	insights, err := h.insights.ComputeInsights()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"insights": insights})
}
