package handlers

import "github.com/gin-gonic/gin"

// Routes groups the API handlers for registration under /api/v1
type Routes struct {
	Entries   *MoodEntryHandler
	Goals     *GoalHandler
	Analytics *AnalyticsHandler
	Insights  *InsightsHandler

	// CreateEntry runs before POST /mood-entries (idempotency replay)
	CreateEntry []gin.HandlerFunc
	// Scoring runs before the routes that call the language analyzer or recompute insights
	Scoring []gin.HandlerFunc
}

// Register mounts every authenticated route on r
func (rt Routes) Register(r gin.IRoutes) {
	createEntry := append(append([]gin.HandlerFunc{}, rt.CreateEntry...), rt.Entries.CreateEntry)
	scored := func(h gin.HandlerFunc) []gin.HandlerFunc {
		return append(append([]gin.HandlerFunc{}, rt.Scoring...), h)
	}

	r.POST("/mood-entries", createEntry...)
	r.GET("/mood-entries", rt.Entries.ListEntries)
	r.GET("/mood-entries/history", rt.Entries.GetHistory)
	r.GET("/mood-entries/:id", rt.Entries.GetEntry)

	r.POST("/goals", rt.Goals.CreateGoal)
	r.GET("/goals", rt.Goals.ListGoals)
	r.GET("/goals/:id", rt.Goals.GetGoal)
	r.PATCH("/goals/:id", rt.Goals.UpdateGoal)
	r.POST("/goals/:id/abandon", rt.Goals.AbandonGoal)

	r.GET("/risk-assessment", scored(rt.Analytics.GetRiskAssessment)...)
	r.GET("/analytics/mood", rt.Analytics.GetMoodAnalytics)

	r.GET("/insights", rt.Insights.GetInsights)
	r.GET("/insights/weekly-summary", rt.Insights.GetWeeklySummary)
	r.POST("/insights/refresh", scored(rt.Insights.RefreshInsights)...)
}
