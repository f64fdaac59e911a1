// Package orchestrator runs a search end to end and owns what each display
// target currently shows.
package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"rssz/cache"
	"rssz/models"
	"rssz/query"
	"rssz/render"
)

const (
	TargetMain  = "main"
	TargetModal = "modal"
)

// ErrSuperseded means a newer request for the same target was issued while
// this one was running; its result was discarded.
var ErrSuperseded = errors.New("superseded by a newer request")

// Executor runs query text and returns the parsed result.
type Executor interface {
	Run(ctx context.Context, query string) (*models.QueryResult, error)
}

// HistoryRecorder persists a record of every executed query.
type HistoryRecorder interface {
	StoreQueryHistory(entry models.QueryHistoryEntry) (models.QueryHistoryEntry, error)
}

var targetOptions = map[string]models.RenderOptions{
	TargetMain:  {ShowRowNumbers: true, EnableActionColumn: true},
	TargetModal: {ShowRowNumbers: true, EnableActionColumn: false},
}

type Orchestrator struct {
	executor Executor
	displays *cache.DisplayStore
	history  HistoryRecorder
	logger   *zap.Logger
}

// New wires an orchestrator. history may be nil.
func New(executor Executor, displays *cache.DisplayStore, history HistoryRecorder, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		executor: executor,
		displays: displays,
		history:  history,
		logger:   logger,
	}
}

// Search runs a search of kind and shows it in the main target.
func (o *Orchestrator) Search(ctx context.Context, session string, kind query.Kind, term string) (*models.Display, error) {
	if kind == query.KindDetail {
		return o.Detail(ctx, session, term)
	}
	return o.run(ctx, session, TargetMain, kind, term)
}

// Detail looks up one entity by its identifier and shows it in the modal target.
func (o *Orchestrator) Detail(ctx context.Context, session, ico string) (*models.Display, error) {
	return o.run(ctx, session, TargetModal, query.KindDetail, ico)
}

// Current returns what target shows for session.
func (o *Orchestrator) Current(session, target string) (*models.Display, bool) {
	return o.displays.Current(session, target)
}

// Sessions is the number of sessions with live display state.
func (o *Orchestrator) Sessions() int {
	return o.displays.Sessions()
}

func (o *Orchestrator) run(ctx context.Context, session, target string, kind query.Kind, term string) (*models.Display, error) {
	text, err := query.Build(kind, term)
	if err != nil {
		return nil, err
	}

	requestID := o.displays.Begin(session, target)
	log := o.logger.With(
		zap.String("target", target),
		zap.String("kind", string(kind)),
		zap.Uint64("request_id", requestID))

	result, err := o.executor.Run(ctx, text)
	o.record(session, target, kind, term, result, err)
	if err != nil {
		log.Warn("Query failed", zap.Error(err))
		return nil, fmt.Errorf("%s query failed: %w", kind, err)
	}

	display := &models.Display{
		Target:    target,
		RequestID: requestID,
		Kind:      string(kind),
		Term:      term,
	}
	if table, ok := render.Render(result, targetOptions[target]); ok {
		display.Table = table
		display.RowCount = len(result.Rows)
		display.Message = render.FoundMessage(display.RowCount)
	} else {
		display.Message = render.NotFoundMessage
	}

	if _, ok := o.displays.Commit(session, display); !ok {
		log.Debug("Discarding stale response")
		return nil, ErrSuperseded
	}

	log.Debug("Display replaced", zap.Int("rows", display.RowCount))
	return display, nil
}

func (o *Orchestrator) record(session, target string, kind query.Kind, term string, result *models.QueryResult, runErr error) {
	if o.history == nil {
		return
	}

	entry := models.QueryHistoryEntry{
		Session: session,
		Target:  target,
		Kind:    string(kind),
		Term:    term,
	}
	if result != nil {
		entry.RowCount = len(result.Rows)
	}
	if runErr != nil {
		entry.Error = runErr.Error()
	}

	if _, err := o.history.StoreQueryHistory(entry); err != nil {
		o.logger.Warn("Failed to store query history", zap.Error(err))
	}
}
