package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"rssz/models"
	"rssz/orchestrator"
)

// ExportResultHandler saves the main table of this session to the results directory
// @Summary      Export current results
// @Description  Save the table currently shown in the main display as a JSON or CSV file
// @Tags         Results
// @Accept       json
// @Produce      json
// @Param        request  body      models.ExportRequest  false  "Export format (json or csv)"
// @Success      201      {object}  map[string]string     "Saved file name"
// @Failure      400      {object}  map[string]string     "Unsupported format"
// @Failure      404      {object}  map[string]string     "Nothing to export"
// @Failure      500      {object}  map[string]string     "Failed to save file"
// @Router       /api/results/export [post]
func (h *Handlers) ExportResultHandler(c *gin.Context) {
	var req models.ExportRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
	}
	if req.Format == "" {
		req.Format = "json"
	}
	if req.Format != "json" && req.Format != "csv" {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Unsupported format %q", req.Format)})
		return
	}

	display, ok := h.orchestrator.Current(sessionID(c), orchestrator.TargetMain)
	if !ok || display.Empty() {
		c.JSON(http.StatusNotFound, gin.H{"error": "Nothing to export"})
		return
	}

	filename, err := h.results.Save(display, req.Format)
	if err != nil {
		h.logger.Error("Failed to export results", zap.String("format", req.Format), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Failed to save file: %v", err)})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"filename": filename})
}

// ListResultFilesHandler lists all result files
// @Summary      List result files
// @Description  Get a list of all exported result files (JSON/CSV)
// @Tags         Results
// @Produce      json
// @Success      200  {object}  map[string][]models.ResultFileInfo  "List of result files"
// @Failure      500  {object}  map[string]string                   "Failed to list files"
// @Router       /api/results/files [get]
func (h *Handlers) ListResultFilesHandler(c *gin.Context) {
	files, err := h.results.ListResultFiles()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Failed to list files: %v", err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{"files": files})
}

// GetResultFileHandler retrieves a specific result file
// @Summary      Get result file
// @Description  Get the complete content of a specific result file by filename
// @Tags         Results
// @Produce      json
// @Param        filename  path      string  true  "Result file name"
// @Success      200       {object}  models.ResultFile  "Result file content"
// @Failure      400       {object}  map[string]string  "Filename required"
// @Failure      404       {object}  map[string]string  "File not found"
// @Router       /api/results/file/{filename} [get]
func (h *Handlers) GetResultFileHandler(c *gin.Context) {
	filename := c.Param("filename")
	if filename == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Filename is required"})
		return
	}

	resultFile, err := h.results.GetResultFile(filename)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("File not found: %v", err)})
		return
	}

	c.JSON(http.StatusOK, resultFile)
}
