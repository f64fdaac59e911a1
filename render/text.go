package render

import (
	"html"

	"rssz/models"
)

// PlainText returns the display text of a cell for non-HTML outputs.
func PlainText(cell models.CellSpec) string {
	if cell.Kind == models.ActionCell {
		return cell.ActionKey
	}
	return html.UnescapeString(cell.Text)
}

// Headers returns the column labels of table in order.
func Headers(table *models.TableSpec) []string {
	headers := make([]string, len(table.Columns))
	for i, col := range table.Columns {
		headers[i] = col.Label
	}
	return headers
}

// PlainRows returns every row of table as plain text.
func PlainRows(table *models.TableSpec) [][]string {
	rows := make([][]string, len(table.Rows))
	for i, row := range table.Rows {
		record := make([]string, len(row))
		for j, cell := range row {
			record[j] = PlainText(cell)
		}
		rows[i] = record
	}
	return rows
}
