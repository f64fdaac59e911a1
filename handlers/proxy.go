package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"rssz/models"
	"rssz/service"
)

// QueryProxyHandler forwards raw SPARQL text to Fuseki
// @Summary      Run a SPARQL query
// @Description  Forwards the query to the Fuseki dataset and returns its SPARQL JSON result unchanged
// @Tags         Query
// @Accept       json
// @Produce      json
// @Param        request  body      models.QueryRequest  true  "Query text"
// @Success      200      {object}  map[string]interface{}  "SPARQL JSON result"
// @Failure      400      {object}  map[string]string  "Missing query"
// @Failure      429      {object}  map[string]string  "Too many requests"
// @Failure      500      {object}  map[string]string  "Fuseki unreachable"
// @Failure      502      {object}  map[string]string  "Fuseki response too large"
// @Router       /api/query [post]
func (h *Handlers) QueryProxyHandler(c *gin.Context) {
	var req models.QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing query"})
		return
	}

	resp, err := h.fuseki.Forward(c.Request.Context(), req.Query)
	if err != nil {
		h.logger.Warn("Proxy request failed", zap.Error(err))
		status := http.StatusInternalServerError
		// A response arrived but could not be passed on whole.
		var terr *service.TransportError
		if errors.As(err, &terr) && terr.StatusCode != 0 {
			status = http.StatusBadGateway
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	if !resp.OK() {
		contentType := resp.ContentType
		if contentType == "" {
			contentType = "text/plain; charset=utf-8"
		}
		c.Data(resp.StatusCode, contentType, resp.Body)
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", resp.Body)
}

// RateLimit rejects requests above the limiter's rate with 429.
func RateLimit(limiter *rate.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
			return
		}
		c.Next()
	}
}
