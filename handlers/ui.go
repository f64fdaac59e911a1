package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/starfederation/datastar-go/datastar"
	"go.uber.org/zap"

	"rssz/orchestrator"
	"rssz/query"
	"rssz/render"
	"rssz/validation"
)

const pageTitle = "Registr škol a školských zařízení"

const showModalScript = `bootstrap.Modal.getOrCreateInstance(document.getElementById('queryResultModalContainer')).show()`

// searchSignals are the page's bound inputs, sent by datastar with every action.
type searchSignals struct {
	Name         string `json:"name"`
	Field        string `json:"field"`
	Municipality string `json:"municipality"`
	Ico          string `json:"ico"`
}

func (s searchSignals) term(kind query.Kind) string {
	switch kind {
	case query.KindName:
		return s.Name
	case query.KindFieldOfStudy:
		return s.Field
	case query.KindMunicipality:
		return s.Municipality
	case query.KindDetail:
		return s.Ico
	}
	return ""
}

// fieldOf returns the input a kind reads its term from, or "".
func fieldOf(kind query.Kind) string {
	for _, info := range query.Catalog() {
		if info.Kind == string(kind) {
			return info.Field
		}
	}
	return ""
}

// IndexHandler serves the search page
func (h *Handlers) IndexHandler(c *gin.Context) {
	page := render.Page{Title: pageTitle}
	for _, info := range query.Catalog() {
		switch {
		case info.Kind == string(query.KindDetail):
		case info.NeedsTerm:
			page.Searches = append(page.Searches, info)
		default:
			page.Aggregates = append(page.Aggregates, info)
		}
	}

	c.HTML(http.StatusOK, "index.html", page)
}

// SearchSSEHandler runs a search from the page and patches the main results area.
func (h *Handlers) SearchSSEHandler(c *gin.Context) {
	kind, err := query.ParseKind(c.Param("kind"))
	if err != nil || kind == query.KindDetail {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown search"})
		return
	}

	var signals searchSignals
	if err := datastar.ReadSignals(c.Request, &signals); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid signals"})
		return
	}

	sse := datastar.NewSSE(c.Writer, c.Request)
	field := fieldOf(kind)

	display, err := h.orchestrator.Search(c.Request.Context(), sessionID(c), kind, signals.term(kind))

	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		fragment, ferr := render.FeedbackFragment(field, termMessage(verr))
		h.patch(sse, fragment, ferr)
		return
	case errors.Is(err, orchestrator.ErrSuperseded):
		return
	}

	if field != "" {
		fragment, ferr := render.FeedbackFragment(field, "")
		h.patch(sse, fragment, ferr)
	}

	if err != nil {
		fragment, ferr := render.AlertFragment(userMessage(err))
		h.patch(sse, fragment, ferr)
		return
	}

	fragment, err := render.ResultsFragment(display)
	h.patch(sse, fragment, err)
}

// DetailSSEHandler looks up the entity in the ico signal and shows it in the modal.
func (h *Handlers) DetailSSEHandler(c *gin.Context) {
	var signals searchSignals
	if err := datastar.ReadSignals(c.Request, &signals); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid signals"})
		return
	}

	sse := datastar.NewSSE(c.Writer, c.Request)

	display, err := h.orchestrator.Detail(c.Request.Context(), sessionID(c), signals.Ico)
	var verr *validation.Error
	switch {
	case errors.Is(err, orchestrator.ErrSuperseded):
		return
	case errors.As(err, &verr):
		h.alert(sse, icoMessage(verr))
		return
	case err != nil:
		h.alert(sse, userMessage(err))
		return
	}

	fragment, err := render.ModalFragment(display)
	h.patch(sse, fragment, err)
	if display.Empty() {
		h.alert(sse, display.Message)
		return
	}
	h.script(sse, showModalScript)
}

func (h *Handlers) patch(sse *datastar.ServerSentEventGenerator, fragment string, err error) {
	if err != nil {
		h.logger.Error("Failed to render fragment", zap.Error(err))
		_ = sse.ConsoleError(err)
		return
	}
	if err := sse.PatchElements(fragment); err != nil {
		h.logger.Debug("Failed to send patch", zap.Error(err))
	}
}

func (h *Handlers) alert(sse *datastar.ServerSentEventGenerator, message string) {
	quoted, _ := json.Marshal(message)
	h.script(sse, "alert("+string(quoted)+")")
}

func (h *Handlers) script(sse *datastar.ServerSentEventGenerator, script string) {
	if err := sse.ExecuteScript(script); err != nil {
		h.logger.Debug("Failed to send script", zap.Error(err))
	}
}
