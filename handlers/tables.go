package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rssz/query"
)

// ListQueriesHandler lists the available searches
// @Summary      List query kinds
// @Description  Get the fixed set of searches and whether each needs a search term
// @Tags         Tables
// @Produce      json
// @Success      200  {object}  map[string][]models.QueryKindInfo  "Query kinds"
// @Router       /api/queries [get]
func (h *Handlers) ListQueriesHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"queries": query.Catalog()})
}

// SearchTableHandler runs a search and returns the main table
// @Summary      Run a search
// @Description  Runs one of the fixed searches and returns the rendered table of the main display
// @Tags         Tables
// @Produce      json
// @Param        kind  path      string  true   "Query kind"  Enums(name, field, municipality, top-municipalities, top-fields)
// @Param        term  query     string  false  "Search term"
// @Success      200   {object}  models.Display      "Rendered display"
// @Failure      400   {object}  map[string]string   "Invalid search"
// @Failure      409   {object}  map[string]string   "Superseded by a newer request"
// @Failure      502   {object}  map[string]string   "Query backend failed"
// @Router       /api/table/{kind} [get]
func (h *Handlers) SearchTableHandler(c *gin.Context) {
	kind, err := query.ParseKind(c.Param("kind"))
	if err != nil {
		status, body := statusFor(err)
		c.JSON(status, body)
		return
	}

	display, err := h.orchestrator.Search(c.Request.Context(), sessionID(c), kind, c.Query("term"))
	if err != nil {
		status, body := statusFor(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, display)
}

// DetailTableHandler looks up one entity
// @Summary      Entity detail
// @Description  Runs the detail query for one ICO and returns the rendered table of the modal display
// @Tags         Tables
// @Produce      json
// @Param        ico  path      string  true  "Registration number"
// @Success      200  {object}  models.Display      "Rendered display"
// @Failure      400  {object}  map[string]string   "Invalid identifier"
// @Failure      502  {object}  map[string]string   "Query backend failed"
// @Router       /api/detail/{ico} [get]
func (h *Handlers) DetailTableHandler(c *gin.Context) {
	display, err := h.orchestrator.Detail(c.Request.Context(), sessionID(c), c.Param("ico"))
	if err != nil {
		status, body := statusFor(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, display)
}

// CurrentDisplayHandler returns what a display target shows
// @Summary      Current display
// @Description  Get the table currently shown in the main or modal target of this session
// @Tags         Tables
// @Produce      json
// @Param        target  path      string  true  "Display target"  Enums(main, modal)
// @Success      200     {object}  models.Display     "Current display"
// @Failure      404     {object}  map[string]string  "Nothing shown yet"
// @Router       /api/display/{target} [get]
func (h *Handlers) CurrentDisplayHandler(c *gin.Context) {
	display, ok := h.orchestrator.Current(sessionID(c), c.Param("target"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Nothing is displayed"})
		return
	}

	c.JSON(http.StatusOK, display)
}
