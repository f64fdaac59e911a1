package render

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"rssz/models"
)

// Terminal writes display as a boxed table, or the not-found message when it is empty.
func Terminal(w io.Writer, display *models.Display) error {
	if display.Empty() {
		_, err := fmt.Fprintln(w, NotFoundMessage)
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.Style().Format.Header = text.FormatDefault

	header := make(table.Row, 0, len(display.Table.Columns))
	for _, label := range Headers(display.Table) {
		header = append(header, label)
	}
	t.AppendHeader(header)

	for _, record := range PlainRows(display.Table) {
		row := make(table.Row, len(record))
		for i, v := range record {
			row[i] = v
		}
		t.AppendRow(row)
	}

	t.Render()
	_, err := fmt.Fprintln(w, display.Message)
	return err
}

// HistoryTable writes recorded searches, newest first.
func HistoryTable(w io.Writer, entries []models.QueryHistoryEntry) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.Style().Format.Header = text.FormatDefault

	t.AppendHeader(table.Row{"Time", "Target", "Kind", "Term", "Rows", "Error"})
	for _, e := range entries {
		t.AppendRow(table.Row{e.Timestamp, e.Target, e.Kind, e.Term, e.RowCount, e.Error})
	}
	t.Render()
}
