package ports

import (
	"context"

	"sheetlens/domain/correlation"
	"sheetlens/domain/quality"
)

// ColumnDigest is the serialized per-column summary sent to the insight
// service. It carries every field the fallback path needs so no consumer
// has to re-derive anything from raw rows.
type ColumnDigest struct {
	Name           string  `json:"name"`
	Type           string  `json:"type"`
	NullPercentage float64 `json:"null_percentage"`
	Cardinality    string  `json:"cardinality"`
	Skewness       string  `json:"skewness,omitempty"`
}

// InsightRequest is the payload handed to the insight generator: a compact
// serialization of the engine output, never the raw rows.
type InsightRequest struct {
	DatasetName  string             `json:"dataset_name"`
	RowCount     int                `json:"row_count"`
	ColumnCount  int                `json:"column_count"`
	QualityScore int                `json:"quality_score"`
	Issues       []quality.Issue    `json:"issues"`
	Columns      []ColumnDigest     `json:"columns"`
	Correlations []correlation.Pair `json:"correlations"`
}

// InsightGenerator produces free-text insights from an analysis summary.
// Implementations are expected to respect the context deadline; callers
// substitute a deterministic local fallback on any failure.
type InsightGenerator interface {
	Generate(ctx context.Context, req InsightRequest) (string, error)
}
