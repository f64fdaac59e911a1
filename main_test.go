package main

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rssz/db"
)

const topFieldsResults = `{
  "head": {"vars": ["oborNazev", "count"]},
  "results": {"bindings": [
    {"oborNazev": {"type": "literal", "value": "gymnázium"}, "count": {"type": "literal", "value": "12"}}
  ]}
}`

func executeRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

// lockedStore holds the history directory open the way a running server does.
func lockedStore(t *testing.T) string {
	t.Helper()
	t.Chdir(t.TempDir())
	dir := t.TempDir()

	server, err := db.New(dir)
	require.NoError(t, err)
	t.Cleanup(func() { _ = server.Close() })
	return dir
}

func TestRootCommand_Subcommands(t *testing.T) {
	root := newRootCmd()

	names := map[string]bool{}
	for _, cmd := range root.Commands() {
		names[cmd.Name()] = true
	}
	assert.True(t, names["serve"])
	assert.True(t, names["query"])
	assert.True(t, names["history"])

	for _, flag := range []string{"config", "port", "verbose", "db-path", "results-dir", "fuseki-url"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(flag), flag)
	}
}

func TestQueryCommand_RejectsUnknownKind(t *testing.T) {
	_, err := executeRoot(t, "query", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown query kind")
}

func TestKindList(t *testing.T) {
	assert.Equal(t, "name, field, municipality, top-municipalities, top-fields, detail", kindList())
}

func TestQueryCommand_RunsWhileStoreIsLocked(t *testing.T) {
	dir := lockedStore(t)

	fuseki := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/sparql-results+json")
		_, _ = w.Write([]byte(topFieldsResults))
	}))
	t.Cleanup(fuseki.Close)

	out, err := executeRoot(t, "query", "top-fields", "--db-path", dir, "--fuseki-url", fuseki.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "Gymnázium")
	assert.Contains(t, out, "Nalezeno 1 záznamů.")
}

func TestHistoryCommand_ReportsLockedStore(t *testing.T) {
	dir := lockedStore(t)

	_, err := executeRoot(t, "history", "--db-path", dir)
	require.Error(t, err)
	assert.True(t, errors.Is(err, db.ErrLocked))
	assert.Contains(t, err.Error(), "in use by a running server")
}

func TestHistoryCommand_PrintsRecordedQueries(t *testing.T) {
	t.Chdir(t.TempDir())
	dir := t.TempDir()

	fuseki := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(topFieldsResults))
	}))
	t.Cleanup(fuseki.Close)

	_, err := executeRoot(t, "query", "top-fields", "--db-path", dir, "--fuseki-url", fuseki.URL)
	require.NoError(t, err)

	out, err := executeRoot(t, "history", "--db-path", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "top-fields")
}
