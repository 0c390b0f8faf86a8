// Package report turns relational records into the generic tabular shape
// shared by the JSON API and the document exporters, and orchestrates
// aggregation and media enrichment along the way.
package report

import "fmt"

// ColumnType is the semantic type of a column, used by renderers to pick
// cell formatting.
type ColumnType string

const (
	TypeString   ColumnType = "string"
	TypeNumber   ColumnType = "number"
	TypeDate     ColumnType = "date"
	TypeMediaRef ColumnType = "media-ref"
)

// Column describes one column of a tabular result.
type Column struct {
	Name string     `json:"name"`
	Type ColumnType `json:"type"`
}

// Table is the canonical intermediate shape consumed by renderers and the
// JSON API. Every row has exactly one value per declared column, possibly
// nil; column order is stable for the lifetime of one export.
type Table struct {
	Title   string   `json:"title"`
	Columns []Column `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// AddRow appends a row, enforcing the one-value-per-column invariant.
func (t *Table) AddRow(cells ...any) error {
	if len(cells) != len(t.Columns) {
		return fmt.Errorf("row has %d cells, table declares %d columns", len(cells), len(t.Columns))
	}
	t.Rows = append(t.Rows, cells)
	return nil
}
