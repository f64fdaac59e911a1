package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"rssz/db"
	"rssz/orchestrator"
	"rssz/service"
	"rssz/validation"
)

// @title           RSSZ School Registry Explorer API
// @version         1.0
// @description     Search the Czech school registry stored in Fuseki and render the results as tables.

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:3000
// @BasePath  /

// @schemes   http https

type Handlers struct {
	orchestrator *orchestrator.Orchestrator
	fuseki       *service.FusekiClient
	db           *db.DB
	results      *service.ResultsStorage
	logger       *zap.Logger
}

func New(orch *orchestrator.Orchestrator, fuseki *service.FusekiClient, database *db.DB, results *service.ResultsStorage, logger *zap.Logger) *Handlers {
	return &Handlers{
		orchestrator: orch,
		fuseki:       fuseki,
		db:           database,
		results:      results,
		logger:       logger,
	}
}

// statusFor maps an orchestrator error to an HTTP status and a JSON body.
func statusFor(err error) (int, gin.H) {
	var verr *validation.Error
	var terr *service.TransportError
	var perr *service.ParseError

	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, gin.H{"error": verr.Error(), "field": verr.Field, "code": verr.Code}
	case errors.Is(err, orchestrator.ErrSuperseded):
		return http.StatusConflict, gin.H{"error": err.Error()}
	case errors.As(err, &terr):
		body := gin.H{"error": err.Error()}
		if terr.StatusCode != 0 {
			body["status"] = terr.StatusCode
			body["body"] = terr.Body
		}
		return http.StatusBadGateway, body
	case errors.As(err, &perr):
		return http.StatusBadGateway, gin.H{"error": err.Error()}
	default:
		return http.StatusInternalServerError, gin.H{"error": err.Error()}
	}
}

// userMessage is the Czech text shown in the page for a failed query.
func userMessage(err error) string {
	var terr *service.TransportError
	var perr *service.ParseError

	switch {
	case errors.As(err, &terr) && terr.StatusCode != 0:
		return fmt.Sprintf("Dotaz selhal (HTTP %d).", terr.StatusCode)
	case errors.As(err, &terr):
		return "Databáze není dostupná."
	case errors.As(err, &perr):
		return "Databáze vrátila neplatnou odpověď."
	default:
		return "Dotaz se nepodařilo provést."
	}
}

// termMessage is the inline feedback for a search term that failed validation.
func termMessage(verr *validation.Error) string {
	switch verr.Code {
	case validation.CodeTooLong:
		return fmt.Sprintf("Hledaný výraz může mít nejvýše %d znaků.", validation.MaxTermLength)
	case validation.CodeControl:
		return "Hledaný výraz obsahuje nepovolené znaky."
	default:
		return "Zadejte hledaný výraz."
	}
}

// icoMessage is the alert for a detail request with an unusable ICO.
func icoMessage(verr *validation.Error) string {
	switch verr.Code {
	case validation.CodeTooLong:
		return "IČO subjektu je příliš dlouhé."
	case validation.CodeControl:
		return "IČO subjektu obsahuje nepovolené znaky."
	default:
		return "Chybí IČO subjektu."
	}
}
