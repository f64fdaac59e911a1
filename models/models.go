package models

// Binding is one value assigned to one query variable in one result row.
type Binding struct {
	Value string `json:"value"`
}

// Row maps a column name to its binding. A nil or missing entry is an absent value.
type Row map[string]*Binding

type QueryResult struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// Value returns the raw value of column in row, or "" when absent.
func (r Row) Value(column string) string {
	if b := r[column]; b != nil {
		return b.Value
	}
	return ""
}

type CellKind string

const (
	TextCell   CellKind = "text"
	ActionCell CellKind = "action"
)

type CellSpec struct {
	Kind      CellKind `json:"kind"`
	Text      string   `json:"text,omitempty"`
	ActionKey string   `json:"action_key,omitempty"`
}

type ColumnSpec struct {
	Label  string `json:"label"`
	Action bool   `json:"action,omitempty"`
}

type TableSpec struct {
	ShowRowNumbers bool         `json:"show_row_numbers"`
	Columns        []ColumnSpec `json:"columns"`
	Rows           [][]CellSpec `json:"rows"`
}

type RenderOptions struct {
	ShowRowNumbers     bool
	EnableActionColumn bool
	IdentifierColumn   string // defaults to "ico"
	ActionCaption      string // defaults to "Detail"
}

// Display is the current content of one display target.
type Display struct {
	Target    string     `json:"target"`
	RequestID uint64     `json:"request_id"`
	Kind      string     `json:"kind"`
	Term      string     `json:"term,omitempty"`
	Table     *TableSpec `json:"table,omitempty"`
	RowCount  int        `json:"row_count"`
	Message   string     `json:"message"`
}

// Empty reports whether the display carries the not-found message instead of a table.
func (d *Display) Empty() bool {
	return d == nil || d.Table == nil
}

type QueryRequest struct {
	Query string `json:"query" example:"SELECT * WHERE { ?s ?p ?o } LIMIT 10"`
}

type QueryHistoryEntry struct {
	ID        string `json:"id"`
	Session   string `json:"session,omitempty"`
	Target    string `json:"target"`
	Kind      string `json:"kind"`
	Term      string `json:"term,omitempty"`
	RowCount  int    `json:"row_count"`
	Error     string `json:"error,omitempty"`
	Timestamp string `json:"timestamp"`
}

type QueryKindInfo struct {
	Kind      string `json:"kind"`
	Caption   string `json:"caption"`
	NeedsTerm bool   `json:"needs_term"`
	Field     string `json:"field,omitempty"`
}

type ResultFile struct {
	Filename  string     `json:"filename"`
	Kind      string     `json:"kind,omitempty"`
	Term      string     `json:"term,omitempty"`
	Timestamp string     `json:"timestamp"`
	Table     *TableSpec `json:"table"`
	RowCount  int        `json:"row_count"`
}

type ResultFileInfo struct {
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
	Modified string `json:"modified"`
	Format   string `json:"format"`
}

type ExportRequest struct {
	Format string `json:"format" example:"json"` // "json" or "csv"
}
