package service

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"rssz/models"
)

// QueryExecutor runs query text against Fuseki and parses the result. It does
// not retry and does not cache.
type QueryExecutor struct {
	client *FusekiClient
	logger *zap.Logger
}

func NewQueryExecutor(client *FusekiClient, logger *zap.Logger) *QueryExecutor {
	return &QueryExecutor{client: client, logger: logger}
}

// Run executes query. An empty query returns nil without contacting the backend.
func (e *QueryExecutor) Run(ctx context.Context, query string) (*models.QueryResult, error) {
	if query == "" {
		return nil, nil
	}

	e.logger.Debug("Running query", zap.String("query", query))

	resp, err := e.client.Forward(ctx, query)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, &TransportError{StatusCode: resp.StatusCode, Body: string(resp.Body)}
	}

	result, err := ParseResults(resp.Body)
	if err != nil {
		return nil, err
	}
	return result, nil
}

type sparqlResults struct {
	Head struct {
		Vars []string `json:"vars"`
	} `json:"head"`
	Results *struct {
		Bindings []map[string]json.RawMessage `json:"bindings"`
	} `json:"results"`
}

type sparqlTerm struct {
	Value json.RawMessage `json:"value"`
}

// ParseResults decodes a SPARQL 1.1 JSON results document. Bindings whose
// value is not a JSON string are dropped from their row.
func ParseResults(body []byte) (*models.QueryResult, error) {
	var doc sparqlResults
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, &ParseError{Err: err}
	}
	if doc.Results == nil {
		return nil, &ParseError{Err: fmt.Errorf("missing results section")}
	}

	result := &models.QueryResult{
		Columns: doc.Head.Vars,
		Rows:    make([]models.Row, 0, len(doc.Results.Bindings)),
	}
	if result.Columns == nil {
		result.Columns = []string{}
	}

	for _, binding := range doc.Results.Bindings {
		row := make(models.Row, len(binding))
		for name, raw := range binding {
			if value, ok := bindingValue(raw); ok {
				row[name] = &models.Binding{Value: value}
			}
		}
		result.Rows = append(result.Rows, row)
	}

	return result, nil
}

func bindingValue(raw json.RawMessage) (string, bool) {
	var term sparqlTerm
	if err := json.Unmarshal(raw, &term); err != nil || len(term.Value) == 0 {
		return "", false
	}
	var value string
	if err := json.Unmarshal(term.Value, &value); err != nil {
		return "", false
	}
	return value, true
}
