package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/JonnyWalker81/moodwell/backend/internal/models"
	"github.com/JonnyWalker81/moodwell/backend/internal/service"
)

type MoodEntryHandler struct {
	entryService service.MoodEntryService
}

// NewMoodEntryHandler creates a new mood entry handler
func NewMoodEntryHandler(entryService service.MoodEntryService) *MoodEntryHandler {
	return &MoodEntryHandler{
		entryService: entryService,
	}
}

// CreateEntry handles POST /api/v1/mood-entries
func (h *MoodEntryHandler) CreateEntry(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req models.CreateMoodEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	entry, err := h.entryService.CreateEntry(c.Request.Context(), userID, &req)
	if err != nil {
		writeServiceError(c, err, "Mood entry", req.ID)
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// GetEntry handles GET /api/v1/mood-entries/:id
func (h *MoodEntryHandler) GetEntry(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	entryID := c.Param("id")
	entry, err := h.entryService.GetEntry(c.Request.Context(), userID, entryID)
	if err != nil {
		writeServiceError(c, err, "Mood entry", entryID)
		return
	}

	c.JSON(http.StatusOK, entry)
}

// ListEntries handles GET /api/v1/mood-entries
func (h *MoodEntryHandler) ListEntries(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	limit, ok := intQuery(c, "limit", 50)
	if !ok {
		return
	}
	offset, ok := intQuery(c, "offset", 0)
	if !ok {
		return
	}

	entries, err := h.entryService.ListEntries(c.Request.Context(), userID, limit, offset)
	if err != nil {
		writeServiceError(c, err, "Mood entry", "")
		return
	}

	c.JSON(http.StatusOK, entries)
}

// GetHistory handles GET /api/v1/mood-entries/history
func (h *MoodEntryHandler) GetHistory(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	days, ok := intQuery(c, "days", 30)
	if !ok {
		return
	}

	points, err := h.entryService.GetHistory(c.Request.Context(), userID, days)
	if err != nil {
		writeServiceError(c, err, "Mood history", "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"days":   days,
		"points": points,
	})
}
