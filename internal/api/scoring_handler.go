package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/deedavisinc/leadscore-pipeline/internal/services"
)

// ScoringHandler handles scoring endpoints
type ScoringHandler struct {
	scoring services.ScoringService
}

// NewScoringHandler creates a new scoring handler
func NewScoringHandler(scoring services.ScoringService) *ScoringHandler {
	return &ScoringHandler{scoring: scoring}
}

// ScoreLead scores a lead on demand and returns the fresh score
func (h *ScoringHandler) ScoreLead(c *gin.Context) {
	score, err := h.scoring.ScoreLead(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"score": score})
}

// GetCurrentScore returns the latest score for a lead
func (h *ScoringHandler) GetCurrentScore(c *gin.Context) {
	score, err := h.scoring.GetCurrentScore(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"score": score})
}

// GetScoreHistory returns the full score history for a lead, newest first
func (h *ScoringHandler) GetScoreHistory(c *gin.Context) {
	history, err := h.scoring.GetScoreHistory(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"scores": history,
		"count":  len(history),
	})
}

// GetScoringModels returns the active scoring models
func (h *ScoringHandler) GetScoringModels(c *gin.Context) {
	models := h.scoring.ActiveModels()
	c.JSON(http.StatusOK, gin.H{
		"models": models,
		"count":  len(models),
	})
}
