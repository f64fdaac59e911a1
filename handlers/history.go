package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"rssz/db"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 500
)

// ListHistoryHandler returns recent searches
// @Summary      Query history
// @Description  Get the most recent searches, newest first
// @Tags         History
// @Produce      json
// @Param        limit  query     int  false  "Maximum number of entries"  default(50)
// @Success      200    {object}  map[string][]models.QueryHistoryEntry  "History entries"
// @Failure      400    {object}  map[string]string  "Invalid limit"
// @Failure      500    {object}  map[string]string  "Failed to read history"
// @Router       /api/history [get]
func (h *Handlers) ListHistoryHandler(c *gin.Context) {
	limit := defaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		limit = min(n, maxHistoryLimit)
	}

	entries, err := h.db.GetQueryHistory(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"history": entries})
}

// GetHistoryEntryHandler returns one recorded search
// @Summary      Query history entry
// @Description  Get one recorded search by id
// @Tags         History
// @Produce      json
// @Param        id   path      string  true  "History entry id"
// @Success      200  {object}  models.QueryHistoryEntry  "History entry"
// @Failure      404  {object}  map[string]string         "Not found"
// @Router       /api/history/{id} [get]
func (h *Handlers) GetHistoryEntryHandler(c *gin.Context) {
	entry, err := h.db.GetQueryHistoryEntry(c.Param("id"))
	if errors.Is(err, db.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "History entry not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, entry)
}
