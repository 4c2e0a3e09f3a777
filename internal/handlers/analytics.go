package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/JonnyWalker81/moodwell/backend/internal/service"
)

type AnalyticsHandler struct {
	analyticsService service.AnalyticsService
	riskService      service.RiskService
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(analyticsService service.AnalyticsService, riskService service.RiskService) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
		riskService:      riskService,
	}
}

// GetMoodAnalytics handles GET /api/v1/analytics/mood?days=30
func (h *AnalyticsHandler) GetMoodAnalytics(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	days, ok := intQuery(c, "days", 30)
	if !ok {
		return
	}

	result, err := h.analyticsService.GetMoodAnalytics(c.Request.Context(), userID, days)
	if err != nil {
		writeServiceError(c, err, "Mood analytics", "")
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetRiskAssessment handles GET /api/v1/risk-assessment
func (h *AnalyticsHandler) GetRiskAssessment(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	assessment, err := h.riskService.AssessUser(c.Request.Context(), userID)
	if err != nil {
		writeServiceError(c, err, "Risk assessment", "")
		return
	}

	c.Header("Cache-Control", "private, no-store")
	c.JSON(http.StatusOK, assessment)
}
