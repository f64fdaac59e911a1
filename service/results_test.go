package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rssz/models"
	"rssz/render"
)

func exportDisplay(t *testing.T) *models.Display {
	t.Helper()
	table, ok := render.Render(&models.QueryResult{
		Columns: []string{"ico", "nazevSkoly"},
		Rows:    []models.Row{{"ico": {Value: "600000"}, "nazevSkoly": {Value: "škola & školka"}}},
	}, models.RenderOptions{ShowRowNumbers: true, EnableActionColumn: true})
	require.True(t, ok)
	return &models.Display{Target: "main", Kind: "name", Term: "škola", Table: table, RowCount: 1}
}

func TestResultsStorage_JSONRoundTrip(t *testing.T) {
	storage, err := NewResultsStorage(t.TempDir())
	require.NoError(t, err)

	name, err := storage.Save(exportDisplay(t), "json")
	require.NoError(t, err)

	file, err := storage.GetResultFile(name)
	require.NoError(t, err)
	assert.Equal(t, "name", file.Kind)
	assert.Equal(t, 1, file.RowCount)
	assert.Equal(t, "Škola &amp; školka", file.Table.Rows[0][2].Text)
}

func TestResultsStorage_CSV(t *testing.T) {
	storage, err := NewResultsStorage(t.TempDir())
	require.NoError(t, err)

	name, err := storage.Save(exportDisplay(t), "csv")
	require.NoError(t, err)

	file, err := storage.GetResultFile(name)
	require.NoError(t, err)
	assert.Equal(t, []string{"#", "Detail", "NazevSkoly"}, render.Headers(file.Table))
	assert.Equal(t, [][]string{{"1", "600000", "Škola & školka"}}, render.PlainRows(file.Table))

	files, err := storage.ListResultFiles()
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "csv", files[0].Format)
}

func TestResultsStorage_Rejects(t *testing.T) {
	storage, err := NewResultsStorage(t.TempDir())
	require.NoError(t, err)

	_, err = storage.Save(&models.Display{}, "json")
	assert.Error(t, err)

	_, err = storage.Save(exportDisplay(t), "xml")
	assert.Error(t, err)

	_, err = storage.GetResultFile("../secret.json")
	assert.Error(t, err)
}
