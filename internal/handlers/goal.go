package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/JonnyWalker81/moodwell/backend/internal/apierror"
	"github.com/JonnyWalker81/moodwell/backend/internal/models"
	"github.com/JonnyWalker81/moodwell/backend/internal/service"
)

type GoalHandler struct {
	goalService service.GoalService
}

// NewGoalHandler creates a new goal handler
func NewGoalHandler(goalService service.GoalService) *GoalHandler {
	return &GoalHandler{
		goalService: goalService,
	}
}

// CreateGoal handles POST /api/v1/goals
func (h *GoalHandler) CreateGoal(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req models.CreateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	goal, err := h.goalService.CreateGoal(c.Request.Context(), userID, &req)
	if err != nil {
		writeServiceError(c, err, "Goal", "")
		return
	}

	c.JSON(http.StatusCreated, goal)
}

// ListGoals handles GET /api/v1/goals?status=active
func (h *GoalHandler) ListGoals(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var status *models.GoalStatus
	if raw := c.Query("status"); raw != "" {
		s := models.GoalStatus(raw)
		switch s {
		case models.GoalStatusActive, models.GoalStatusCompleted, models.GoalStatusAbandoned:
			status = &s
		default:
			apierror.WriteProblem(c, apierror.NewValidationError(apierror.GetRequestID(c), []apierror.FieldError{
				{Field: "status", Message: "must be one of: active, completed, abandoned", Code: "oneof"},
			}))
			return
		}
	}

	goals, err := h.goalService.ListGoals(c.Request.Context(), userID, status)
	if err != nil {
		writeServiceError(c, err, "Goal", "")
		return
	}

	c.JSON(http.StatusOK, goals)
}

// GetGoal handles GET /api/v1/goals/:id
func (h *GoalHandler) GetGoal(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	goalID := c.Param("id")
	goal, err := h.goalService.GetGoal(c.Request.Context(), userID, goalID)
	if err != nil {
		writeServiceError(c, err, "Goal", goalID)
		return
	}

	c.JSON(http.StatusOK, goal)
}

// UpdateGoal handles PATCH /api/v1/goals/:id
func (h *GoalHandler) UpdateGoal(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req models.UpdateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	goalID := c.Param("id")
	goal, err := h.goalService.UpdateGoal(c.Request.Context(), userID, goalID, &req)
	if err != nil {
		writeServiceError(c, err, "Goal", goalID)
		return
	}

	c.JSON(http.StatusOK, goal)
}

// AbandonGoal handles POST /api/v1/goals/:id/abandon
func (h *GoalHandler) AbandonGoal(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	goalID := c.Param("id")
	goal, err := h.goalService.AbandonGoal(c.Request.Context(), userID, goalID)
	if err != nil {
		writeServiceError(c, err, "Goal", goalID)
		return
	}

	c.JSON(http.StatusOK, goal)
}
