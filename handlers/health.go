package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const healthPingTimeout = 3 * time.Second

// HealthHandler checks the health status of the service
// @Summary      Health check
// @Description  Check the health status of the history database and the Fuseki endpoint
// @Tags         Health
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "Service health status"
// @Failure      503  {object}  map[string]interface{}  "Database or Fuseki unavailable"
// @Router       /health [get]
func (h *Handlers) HealthHandler(c *gin.Context) {
	status := gin.H{
		"status":   "healthy",
		"db":       "connected",
		"fuseki":   "reachable",
		"endpoint": h.fuseki.Endpoint(),
		"sessions": h.orchestrator.Sessions(),
	}

	healthy := true

	if err := h.db.Ping(); err != nil {
		h.logger.Warn("Database health check failed", zap.Error(err))
		healthy = false
		status["db"] = "unavailable"
		status["db_error"] = err.Error()
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), healthPingTimeout)
	defer cancel()

	if err := h.fuseki.Ping(ctx); err != nil {
		h.logger.Warn("Fuseki health check failed", zap.Error(err))
		healthy = false
		status["fuseki"] = "unreachable"
		status["error"] = err.Error()
	}

	if !healthy {
		status["status"] = "degraded"
		c.JSON(http.StatusServiceUnavailable, status)
		return
	}

	c.JSON(http.StatusOK, status)
}
