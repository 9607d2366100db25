package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/deedavisinc/leadscore-pipeline/internal/leadscore"
	"github.com/deedavisinc/leadscore-pipeline/internal/repository"
	"github.com/deedavisinc/leadscore-pipeline/internal/services"
)

// LeadHandler handles lead management endpoints
type LeadHandler struct {
	leads services.LeadService
}

// NewLeadHandler creates a new lead handler
func NewLeadHandler(leads services.LeadService) *LeadHandler {
	return &LeadHandler{leads: leads}
}

// UpsertLead creates or replaces a lead record
func (h *LeadHandler) UpsertLead(c *gin.Context) {
	var lead leadscore.LeadRecord
	if err := c.ShouldBindJSON(&lead); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid lead payload: " + err.Error()})
		return
	}

	if err := h.leads.Upsert(&lead); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"lead": lead})
}

// GetLead returns a single lead by ID
func (h *LeadHandler) GetLead(c *gin.Context) {
	lead, err := h.leads.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"lead": lead})
}

// GetLeads returns leads matching the query filters
func (h *LeadHandler) GetLeads(c *gin.Context) {
	filters, err := parseLeadFilters(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid filter parameters: " + err.Error()})
		return
	}

	leads, err := h.leads.GetAll(filters)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"leads": leads,
		"count": len(leads),
	})
}

// DeleteLead removes a lead
func (h *LeadHandler) DeleteLead(c *gin.Context) {
	if err := h.leads.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": c.Param("id")})
}

func parseLeadFilters(c *gin.Context) (repository.LeadFilters, error) {
	filters := repository.LeadFilters{
		Industry: c.Query("industry"),
		State:    c.Query("state"),
	}

	if sizes := c.Query("company_size"); sizes != "" {
		filters.CompanySize = strings.Split(sizes, ",")
	}
	if statuses := c.Query("status"); statuses != "" {
		filters.Status = strings.Split(statuses, ",")
	}

	if limit := c.Query("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 0 {
			return filters, errInvalidParam("limit", limit)
		}
		filters.Limit = n
	}
	if offset := c.Query("offset"); offset != "" {
		n, err := strconv.Atoi(offset)
		if err != nil || n < 0 {
			return filters, errInvalidParam("offset", offset)
		}
		filters.Offset = n
	}

	return filters, nil
}

type paramError struct {
	name  string
	value string
}

func (e paramError) Error() string {
	return e.name + "=" + e.value + " is not a valid value"
}

func errInvalidParam(name, value string) error {
	return paramError{name: name, value: value}
}
