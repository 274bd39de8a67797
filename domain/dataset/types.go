package dataset

import (
	"strings"

	"sheetlens/domain/core"
)

// ColumnType is the inferred scalar type of a column. Inference is a
// majority-vote heuristic, so the type is advisory rather than authoritative.
type ColumnType string

const (
	TypeNumber  ColumnType = "number"
	TypeString  ColumnType = "string"
	TypeDate    ColumnType = "date"
	TypeBoolean ColumnType = "boolean"
)

// Row maps column name to a scalar cell. Every row in a dataset carries the
// same key set as the dataset headers; absent values are explicit nulls.
type Row map[string]Cell

// NumericInfo holds the basic aggregates tracked for numeric columns
type NumericInfo struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
	Sum float64 `json:"sum"`
	Avg float64 `json:"avg"`
}

// ColumnInfo is the per-column summary derived once from the raw rows
type ColumnInfo struct {
	Name         string       `json:"name"`
	Type         ColumnType   `json:"type"`
	UniqueValues int          `json:"unique_values"`
	NullCount    int          `json:"null_count"`
	Numeric      *NumericInfo `json:"numeric,omitempty"`
}

// Dataset is an immutable, in-memory table: ordered headers, ordered rows,
// and per-column metadata derived at construction. Analysis passes never
// mutate it; re-analysis of new data builds a new Dataset.
type Dataset struct {
	Name    string       `json:"name,omitempty"`
	Headers []string     `json:"headers"`
	Rows    []Row        `json:"-"`
	Columns []ColumnInfo `json:"columns"`
}

// RowCount returns the number of rows
func (d *Dataset) RowCount() int { return len(d.Rows) }

// ColumnCount returns the number of columns
func (d *Dataset) ColumnCount() int { return len(d.Headers) }

// ColumnValues returns the column's cells in row order. Missing keys are
// returned as explicit nulls so the result always has RowCount entries.
func (d *Dataset) ColumnValues(name string) []Cell {
	values := make([]Cell, len(d.Rows))
	for i, row := range d.Rows {
		if cell, ok := row[name]; ok {
			values[i] = cell
		} else {
			values[i] = Null()
		}
	}
	return values
}

// Column looks up the metadata for a column by name
func (d *Dataset) Column(name string) (ColumnInfo, bool) {
	for _, col := range d.Columns {
		if col.Name == name {
			return col, true
		}
	}
	return ColumnInfo{}, false
}

// Fingerprint serializes the row canonically (header order, kind-tagged
// values) and hashes it. Two rows share a fingerprint iff they are exact
// structural duplicates.
func (r Row) Fingerprint(headers []string) core.RowFingerprint {
	var sb strings.Builder
	for _, h := range headers {
		sb.WriteString(h)
		sb.WriteByte('=')
		if cell, ok := r[h]; ok {
			sb.WriteString(cell.Canonical())
		} else {
			sb.WriteString("_")
		}
		sb.WriteByte('\x1f')
	}
	return core.NewRowFingerprint([]byte(sb.String()))
}
