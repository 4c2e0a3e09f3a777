package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/JonnyWalker81/moodwell/backend/internal/service"
)

// InsightsHandler handles insights-related HTTP requests
type InsightsHandler struct {
	insightService service.InsightService
}

// NewInsightsHandler creates a new insights handler
func NewInsightsHandler(insightService service.InsightService) *InsightsHandler {
	return &InsightsHandler{
		insightService: insightService,
	}
}

// GetInsights returns all insights for the authenticated user
// GET /api/v1/insights
func (h *InsightsHandler) GetInsights(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	insights, err := h.insightService.GetInsights(c.Request.Context(), userID)
	if err != nil {
		writeServiceError(c, err, "Insights", "")
		return
	}

	c.JSON(http.StatusOK, insights)
}

// GetWeeklySummary returns week-over-week comparison
// GET /api/v1/insights/weekly-summary
func (h *InsightsHandler) GetWeeklySummary(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	summary, err := h.insightService.GetWeeklySummary(c.Request.Context(), userID)
	if err != nil {
		writeServiceError(c, err, "Weekly summary", "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"weekly_summary": summary,
	})
}

// RefreshInsights forces recomputation of insights
// POST /api/v1/insights/refresh
func (h *InsightsHandler) RefreshInsights(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	insights, err := h.insightService.ComputeInsights(c.Request.Context(), userID)
	if err != nil {
		writeServiceError(c, err, "Insights", "")
		return
	}

	c.JSON(http.StatusOK, insights)
}
