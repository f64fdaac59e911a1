// Package render turns query results into declarative tables and materializes them.
package render

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"rssz/models"
)

const (
	DefaultIdentifierColumn = "ico"
	DefaultActionCaption    = "Detail"
	RowNumberLabel          = "#"
)

// Render builds the table for result. It returns false, and no table, when
// there are no rows to show.
func Render(result *models.QueryResult, opts models.RenderOptions) (*models.TableSpec, bool) {
	if result == nil || len(result.Rows) == 0 {
		return nil, false
	}

	identifier := opts.IdentifierColumn
	if identifier == "" {
		identifier = DefaultIdentifierColumn
	}
	caption := opts.ActionCaption
	if caption == "" {
		caption = DefaultActionCaption
	}

	width := len(result.Columns)
	if opts.ShowRowNumbers {
		width++
	}

	table := &models.TableSpec{
		ShowRowNumbers: opts.ShowRowNumbers,
		Columns:        make([]models.ColumnSpec, 0, width),
		Rows:           make([][]models.CellSpec, 0, len(result.Rows)),
	}

	if opts.ShowRowNumbers {
		table.Columns = append(table.Columns, models.ColumnSpec{Label: RowNumberLabel})
	}

	actionColumn := make([]bool, len(result.Columns))
	for i, column := range result.Columns {
		if opts.EnableActionColumn && column == identifier {
			actionColumn[i] = true
			table.Columns = append(table.Columns, models.ColumnSpec{Label: caption, Action: true})
			continue
		}
		table.Columns = append(table.Columns, models.ColumnSpec{Label: Capitalize(column)})
	}

	for rowIdx, row := range result.Rows {
		cells := make([]models.CellSpec, 0, width)
		if opts.ShowRowNumbers {
			cells = append(cells, models.CellSpec{Kind: models.TextCell, Text: strconv.Itoa(rowIdx + 1)})
		}

		for i, column := range result.Columns {
			value := row.Value(column)
			if actionColumn[i] {
				if value == "" {
					// No usable key, so the cell stays inert.
					cells = append(cells, models.CellSpec{Kind: models.TextCell})
				} else {
					cells = append(cells, models.CellSpec{Kind: models.ActionCell, ActionKey: value})
				}
				continue
			}
			cells = append(cells, models.CellSpec{Kind: models.TextCell, Text: EscapeHTML(Capitalize(value))})
		}

		table.Rows = append(table.Rows, cells)
	}

	return table, true
}

// Capitalize upper-cases the first character of s and leaves the rest unchanged.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	_, size := utf8.DecodeRuneInString(s)
	return cases.Upper(language.Und).String(s[:size]) + s[size:]
}

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// EscapeHTML replaces & < > " ' with their entities in a single pass.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}
