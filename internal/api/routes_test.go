package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deedavisinc/leadscore-pipeline/internal/leadscore"
	"github.com/deedavisinc/leadscore-pipeline/internal/logger"
	"github.com/deedavisinc/leadscore-pipeline/internal/metrics"
	"github.com/deedavisinc/leadscore-pipeline/internal/repository"
	"github.com/deedavisinc/leadscore-pipeline/internal/services"
	"github.com/deedavisinc/leadscore-pipeline/pkg/config"
)

func setupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	registry, err := leadscore.NewRegistry(leadscore.DefaultModels())
	require.NoError(t, err)

	promReg := prometheus.NewRegistry()
	deps := services.Deps{
		Repos:    repository.NewMemoryRepositories(),
		Engine:   leadscore.NewEngine(registry),
		Registry: registry,
		Logger:   logger.NewNop(),
		Metrics:  metrics.New(promReg),
	}
	svc := services.NewServices(deps)
	sweep := services.NewRescoreSweep(deps, svc.Scoring)

	cfg := &config.Config{
		Environment:     "development",
		MaxRequestSize:  10 * 1024 * 1024,
		EnableRateLimit: false,
	}

	r := gin.New()
	SetupRoutes(r, RouterDeps{
		Services:    svc,
		Sweep:       sweep,
		SweepConfig: services.DefaultSweepConfig(),
		Config:      cfg,
		Logger:      deps.Logger,
		Metrics:     deps.Metrics,
		Registry:    promReg,
	})
	return r
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(payload))
	}

	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func apiLead(id string) leadscore.LeadRecord {
	return leadscore.LeadRecord{
		ID:          id,
		CompanyName: "Bayside Distribution",
		Industry:    "retail",
		CompanySize: leadscore.SizeMedium,
		State:       "FL",
		BudgetRange: leadscore.BudgetRange{Min: 20000, Max: 60000},
		Engagement: leadscore.EngagementHistory{
			Source:       "web_form",
			EmailsOpened: 2,
			ContactCount: 3,
			ResponseRate: 40,
		},
		UrgencyLevel:      leadscore.UrgencyMedium,
		DecisionTimeframe: leadscore.TimeframeOneToThree,
	}
}

func TestLeadLifecycle(t *testing.T) {
	router := setupTestRouter(t)

	// Create
	w := doJSON(t, router, "POST", "/api/v1/leads", apiLead("l1"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Read back
	w = doJSON(t, router, "GET", "/api/v1/leads/l1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var leadResp struct {
		Lead leadscore.LeadRecord `json:"lead"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &leadResp))
	assert.Equal(t, "Bayside Distribution", leadResp.Lead.CompanyName)

	// List
	w = doJSON(t, router, "GET", "/api/v1/leads?industry=retail", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var listResp struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listResp))
	assert.Equal(t, 1, listResp.Count)

	// Delete
	w = doJSON(t, router, "DELETE", "/api/v1/leads/l1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, router, "GET", "/api/v1/leads/l1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpsertLeadValidation(t *testing.T) {
	router := setupTestRouter(t)

	bad := apiLead("l1")
	bad.BudgetRange = leadscore.BudgetRange{Min: 90000, Max: 1000}

	w := doJSON(t, router, "POST", "/api/v1/leads", bad)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var errResp struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errResp))
	assert.Equal(t, "VALIDATION_ERROR", errResp.Code)
}

func TestScoreEndpoints(t *testing.T) {
	router := setupTestRouter(t)

	w := doJSON(t, router, "POST", "/api/v1/leads", apiLead("l1"))
	require.Equal(t, http.StatusOK, w.Code)

	// Latest before any scoring is a 404.
	w = doJSON(t, router, "GET", "/api/v1/leads/l1/scores/latest", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Score twice.
	for i := 0; i < 2; i++ {
		w = doJSON(t, router, "POST", "/api/v1/leads/l1/score", nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	var scoreResp struct {
		Score leadscore.LeadScore `json:"score"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &scoreResp))
	assert.Equal(t, "l1", scoreResp.Score.LeadID)
	assert.GreaterOrEqual(t, scoreResp.Score.OverallScore, 0)
	assert.LessOrEqual(t, scoreResp.Score.OverallScore, 100)

	// History holds both entries.
	w = doJSON(t, router, "GET", "/api/v1/leads/l1/scores", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var histResp struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &histResp))
	assert.Equal(t, 2, histResp.Count)

	// Latest now resolves.
	w = doJSON(t, router, "GET", "/api/v1/leads/l1/scores/latest", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// Scoring a missing lead is a 404.
	w = doJSON(t, router, "POST", "/api/v1/leads/ghost/score", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestScoringModelsEndpoint(t *testing.T) {
	router := setupTestRouter(t)

	w := doJSON(t, router, "GET", "/api/v1/scoring/models", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Count)
}

func TestInsightsEndpoint(t *testing.T) {
	router := setupTestRouter(t)

	w := doJSON(t, router, "POST", "/api/v1/leads", apiLead("l1"))
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, router, "POST", "/api/v1/leads/l1/score", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, "GET", "/api/v1/insights", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Insights leadscore.LeadInsights `json:"insights"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Insights.TotalLeads)
	assert.Len(t, resp.Insights.ConversionByPriority, 4)
}

func TestSweepEndpoints(t *testing.T) {
	router := setupTestRouter(t)

	w := doJSON(t, router, "POST", "/api/v1/leads", apiLead("l1"))
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, "GET", "/api/v1/sweep/status", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var statusResp struct {
		Running bool `json:"running"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &statusResp))
	assert.False(t, statusResp.Running)

	w = doJSON(t, router, "POST", "/api/v1/sweep/run-once", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var runResp struct {
		Stats services.SweepStats `json:"stats"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &runResp))
	assert.Equal(t, 1, runResp.Stats.LeadsFound)
	assert.Equal(t, 1, runResp.Stats.LeadsSucceeded)
}

func TestHealthEndpoint(t *testing.T) {
	router := setupTestRouter(t)

	w := doJSON(t, router, "GET", "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
}
