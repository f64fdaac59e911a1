package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"rssz/cache"
	"rssz/config"
	"rssz/db"
	"rssz/models"
	"rssz/orchestrator"
	"rssz/service"
)

const schoolResults = `{
  "head": {"vars": ["ico", "nazevSkoly", "obec"]},
  "results": {"bindings": [
    {"ico": {"type": "literal", "value": "600000"},
     "nazevSkoly": {"type": "literal", "value": "zš praha"},
     "obec": {"type": "literal", "value": "Praha"}}
  ]}
}`

const emptyResults = `{"head": {"vars": ["ico"]}, "results": {"bindings": []}}`

type testEnv struct {
	router *gin.Engine
	fuseki *httptest.Server
	db     *db.DB
}

func newTestEnv(t *testing.T, fuseki http.HandlerFunc, opts RouterOptions) *testEnv {
	t.Helper()
	return newTestEnvWithConfig(t, fuseki, opts, config.FusekiConfig{Timeout: 5 * time.Second})
}

func newTestEnvWithConfig(t *testing.T, fuseki http.HandlerFunc, opts RouterOptions, fcfg config.FusekiConfig) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	srv := httptest.NewServer(fuseki)
	t.Cleanup(srv.Close)

	logger := zap.NewNop()
	fcfg.URL = srv.URL
	client, err := service.NewFusekiClient(fcfg, logger)
	require.NoError(t, err)

	database, err := db.NewInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	results, err := service.NewResultsStorage(t.TempDir())
	require.NoError(t, err)

	orch := orchestrator.New(service.NewQueryExecutor(client, logger), cache.NewDisplayStore(time.Minute), database, logger)
	h := New(orch, client, database, results, logger)

	return &testEnv{router: NewRouter(h, opts), fuseki: srv, db: database}
}

func respondWith(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/sparql-results+json")
		_, _ = w.Write([]byte(body))
	}
}

func (e *testEnv) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func signalsURL(path string, signals map[string]string) string {
	data, _ := json.Marshal(signals)
	return path + "?datastar=" + url.QueryEscape(string(data))
}

func TestQueryProxy_MissingQuery(t *testing.T) {
	env := newTestEnv(t, respondWith(schoolResults), RouterOptions{})

	for _, body := range []string{`{}`, `{"query": ""}`, `not json`} {
		w := env.do(t, http.MethodPost, "/api/query", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
		assert.JSONEq(t, `{"error": "Missing query"}`, w.Body.String())
	}
}

func TestQueryProxy_ForwardsResult(t *testing.T) {
	env := newTestEnv(t, respondWith(schoolResults), RouterOptions{})

	w := env.do(t, http.MethodPost, "/api/query", `{"query": "SELECT * WHERE { ?s ?p ?o }"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
	assert.JSONEq(t, schoolResults, w.Body.String())
}

func TestQueryProxy_PassesThroughBackendError(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("Parse error: line 1"))
	}, RouterOptions{})

	w := env.do(t, http.MethodPost, "/api/query", `{"query": "SELEC"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "text/plain", w.Header().Get("Content-Type"))
	assert.Equal(t, "Parse error: line 1", w.Body.String())
}

func TestQueryProxy_BackendUnreachable(t *testing.T) {
	env := newTestEnv(t, respondWith(schoolResults), RouterOptions{})
	env.fuseki.Close()

	w := env.do(t, http.MethodPost, "/api/query", `{"query": "ASK {}"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotEmpty(t, body["error"])
}

func TestQueryProxy_OversizedResponse(t *testing.T) {
	env := newTestEnvWithConfig(t, respondWith(schoolResults), RouterOptions{},
		config.FusekiConfig{Timeout: 5 * time.Second, MaxResponseBytes: 64})

	w := env.do(t, http.MethodPost, "/api/query", `{"query": "SELECT * WHERE { ?s ?p ?o }"}`)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "exceeds 64 bytes")
	assert.NotContains(t, w.Body.String(), "nazevSkoly")

	w = env.do(t, http.MethodGet, "/api/table/top-fields", "")
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestQueryProxy_RateLimited(t *testing.T) {
	env := newTestEnv(t, respondWith(schoolResults), RouterOptions{Limiter: rate.NewLimiter(rate.Every(time.Hour), 1)})

	assert.Equal(t, http.StatusOK, env.do(t, http.MethodPost, "/api/query", `{"query": "ASK {}"}`).Code)
	assert.Equal(t, http.StatusTooManyRequests, env.do(t, http.MethodPost, "/api/query", `{"query": "ASK {}"}`).Code)
}

func TestSearchTable(t *testing.T) {
	env := newTestEnv(t, respondWith(schoolResults), RouterOptions{})

	w := env.do(t, http.MethodGet, "/api/table/municipality?term=Praha", "")
	require.Equal(t, http.StatusOK, w.Code)

	var display models.Display
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &display))
	assert.Equal(t, orchestrator.TargetMain, display.Target)
	assert.Equal(t, "Praha", display.Term)
	assert.Equal(t, 1, display.RowCount)
	require.NotNil(t, display.Table)
	assert.Equal(t, "Detail", display.Table.Columns[1].Label)
	assert.Equal(t, models.CellSpec{Kind: models.ActionCell, ActionKey: "600000"}, display.Table.Rows[0][1])
	assert.Equal(t, "Zš praha", display.Table.Rows[0][2].Text)

	current := env.do(t, http.MethodGet, "/api/display/main", "")
	assert.Equal(t, http.StatusOK, current.Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/api/display/modal", "").Code)
}

func TestSearchTable_Errors(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom"))
	}, RouterOptions{})

	w := env.do(t, http.MethodGet, "/api/table/name?term=", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"field":"name"`)

	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodGet, "/api/table/nope", "").Code)

	w = env.do(t, http.MethodGet, "/api/table/top-fields", "")
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), `"status":500`)
}

func TestDetailTable_NotFound(t *testing.T) {
	env := newTestEnv(t, respondWith(emptyResults), RouterOptions{})

	w := env.do(t, http.MethodGet, "/api/detail/123", "")
	require.Equal(t, http.StatusOK, w.Code)

	var display models.Display
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &display))
	assert.True(t, display.Empty())
	assert.Equal(t, "Nenalezeny žádné výsledky.", display.Message)
	assert.Equal(t, orchestrator.TargetModal, display.Target)
}

func TestListQueries(t *testing.T) {
	env := newTestEnv(t, respondWith(schoolResults), RouterOptions{})

	w := env.do(t, http.MethodGet, "/api/queries", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Queries []models.QueryKindInfo `json:"queries"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Queries, 6)
}

func TestSearchSSE(t *testing.T) {
	env := newTestEnv(t, respondWith(schoolResults), RouterOptions{})

	w := env.do(t, http.MethodGet, signalsURL("/ui/search/name", map[string]string{"name": "praha"}), "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/event-stream")

	body := w.Body.String()
	assert.Contains(t, body, "datastar-patch-elements")
	assert.Contains(t, body, `id="validation-name"`)
	assert.Contains(t, body, `id="resultsTable"`)
	assert.Contains(t, body, "Nalezeno 1 záznamů.")
}

func TestSearchSSE_EmptyTermShowsFeedback(t *testing.T) {
	env := newTestEnv(t, respondWith(schoolResults), RouterOptions{})

	w := env.do(t, http.MethodGet, signalsURL("/ui/search/field", map[string]string{"field": "  "}), "")
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, `id="validation-field"`)
	assert.Contains(t, body, "Zadejte hledaný výraz.")
	assert.NotContains(t, body, "resultsTable")

	history, err := env.db.GetQueryHistory(0)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestSearchSSE_FeedbackFollowsFailure(t *testing.T) {
	env := newTestEnv(t, respondWith(schoolResults), RouterOptions{})

	tests := []struct {
		name string
		term string
		want string
	}{
		{"empty", "", "Zadejte hledaný výraz."},
		{"too long", strings.Repeat("a", 201), "nejvýše 200 znaků"},
		{"control characters", "praha\x00", "nepovolené znaky"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodGet, signalsURL("/ui/search/municipality", map[string]string{"municipality": tt.term}), "")
			require.Equal(t, http.StatusOK, w.Code)
			assert.Contains(t, w.Body.String(), tt.want)
		})
	}
}

func TestDetailSSE_InvalidIco(t *testing.T) {
	env := newTestEnv(t, respondWith(schoolResults), RouterOptions{})

	w := env.do(t, http.MethodGet, signalsURL("/ui/detail", map[string]string{"ico": ""}), "")
	assert.Contains(t, w.Body.String(), "Chybí IČO subjektu.")

	w = env.do(t, http.MethodGet, signalsURL("/ui/detail", map[string]string{"ico": strings.Repeat("1", 201)}), "")
	assert.Contains(t, w.Body.String(), "příliš dlouhé")
	assert.NotContains(t, w.Body.String(), "Chybí IČO")
}

func TestSearchSSE_UnknownKind(t *testing.T) {
	env := newTestEnv(t, respondWith(schoolResults), RouterOptions{})

	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, signalsURL("/ui/search/detail", nil), "").Code)
}

func TestDetailSSE(t *testing.T) {
	env := newTestEnv(t, respondWith(schoolResults), RouterOptions{})

	w := env.do(t, http.MethodGet, signalsURL("/ui/detail", map[string]string{"ico": "600000"}), "")
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, `id="resultsTableModal"`)
	assert.Contains(t, body, "queryResultModalContainer")
	assert.NotContains(t, body, "btn-outline-primary")
}

func TestDetailSSE_NotFound(t *testing.T) {
	env := newTestEnv(t, respondWith(emptyResults), RouterOptions{})

	w := env.do(t, http.MethodGet, signalsURL("/ui/detail", map[string]string{"ico": "1"}), "")
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, "Nenalezeny žádné výsledky.")
	assert.NotContains(t, body, "getOrCreateInstance")
}

func TestIndexPage(t *testing.T) {
	env := newTestEnv(t, respondWith(schoolResults), RouterOptions{})

	w := env.do(t, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, `id="input-name"`)
	assert.Contains(t, body, `id="input-municipality"`)
	assert.Contains(t, body, "/ui/search/top-fields")
	assert.NotContains(t, body, "/ui/search/detail")
}

func TestHistoryAndExport(t *testing.T) {
	env := newTestEnv(t, respondWith(schoolResults), RouterOptions{})

	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodPost, "/api/results/export", "").Code)

	require.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/api/table/name?term=praha", "").Code)

	w := env.do(t, http.MethodGet, "/api/history?limit=10", "")
	require.Equal(t, http.StatusOK, w.Code)
	var history struct {
		History []models.QueryHistoryEntry `json:"history"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &history))
	require.Len(t, history.History, 1)
	assert.Equal(t, "name", history.History[0].Kind)
	assert.Equal(t, 1, history.History[0].RowCount)

	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/api/history/"+history.History[0].ID, "").Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/api/history/missing", "").Code)
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodGet, "/api/history?limit=x", "").Code)

	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodPost, "/api/results/export", `{"format": "xml"}`).Code)

	w = env.do(t, http.MethodPost, "/api/results/export", `{"format": "csv"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var saved map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &saved))
	assert.True(t, strings.HasSuffix(saved["filename"], ".csv"))

	w = env.do(t, http.MethodGet, "/api/results/files", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), saved["filename"])

	w = env.do(t, http.MethodGet, "/api/results/file/"+saved["filename"], "")
	require.Equal(t, http.StatusOK, w.Code)
	var file models.ResultFile
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &file))
	assert.Equal(t, 1, file.RowCount)
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, respondWith(`{"head": {}, "boolean": true}`), RouterOptions{})

	w := env.do(t, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"fuseki":"reachable"`)
	assert.Contains(t, w.Body.String(), `"db":"connected"`)

	env.fuseki.Close()
	w = env.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"degraded"`)
}

func TestSessionMiddleware_IssuesCookie(t *testing.T) {
	env := newTestEnv(t, respondWith(schoolResults), RouterOptions{Sessions: NewSessionStore("test-secret")})

	w := env.do(t, http.MethodGet, "/api/queries", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Set-Cookie"), sessionCookieName+"=")
}
