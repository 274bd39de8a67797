package profile

import (
	"sheetlens/domain/dataset"
)

// Cardinality classifies a column's distinctness ratio (unique count over
// total row count): unique iff the ratio is exactly 1, high above 0.5,
// medium above 0.1, low otherwise.
type Cardinality string

const (
	CardinalityLow    Cardinality = "low"
	CardinalityMedium Cardinality = "medium"
	CardinalityHigh   Cardinality = "high"
	CardinalityUnique Cardinality = "unique"
)

// Skewness is a coarse three-way shape classification from comparing the
// mean to the median against a 0.2·stddev band, not a moment coefficient.
type Skewness string

const (
	SkewLeft      Skewness = "left"
	SkewSymmetric Skewness = "symmetric"
	SkewRight     Skewness = "right"
)

// ValueCount is one entry of a column's top-value distribution. Value is
// the display form (truncated past 30 characters); Count and Percentage
// are computed over the full, untruncated value. Percentage is of total
// rows including nulls.
type ValueCount struct {
	Value      string  `json:"value"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// HistogramBin is one equal-width bin over [column min, column max]
type HistogramBin struct {
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Count int     `json:"count"`
}

// Quartiles are index-based (nearest-rank) rather than interpolated:
// Q1 = sorted[floor(n·0.25)], Q3 = sorted[floor(n·0.75)].
type Quartiles struct {
	Q1 float64 `json:"q1"`
	Q2 float64 `json:"q2"`
	Q3 float64 `json:"q3"`
}

// NumericSummary holds the moments computed only for numeric columns with
// at least one valid numeric value. Absent entirely otherwise.
type NumericSummary struct {
	Min       float64        `json:"min"`
	Max       float64        `json:"max"`
	Sum       float64        `json:"sum"`
	Mean      float64        `json:"mean"`
	Median    float64        `json:"median"`
	StdDev    float64        `json:"std_dev"` // population (divide by n)
	Quartiles Quartiles      `json:"quartiles"`
	Skewness  Skewness       `json:"skewness"`
	Histogram []HistogramBin `json:"histogram"`
}

// ColumnProfile is the deep per-column view built from ColumnInfo plus the
// raw values
type ColumnProfile struct {
	Name           string             `json:"name"`
	Type           dataset.ColumnType `json:"type"`
	UniqueValues   int                `json:"unique_values"`
	NullCount      int                `json:"null_count"`
	NullPercentage float64            `json:"null_percentage"`
	Cardinality    Cardinality        `json:"cardinality"`
	Distribution   []ValueCount       `json:"distribution"`
	Numeric        *NumericSummary    `json:"numeric,omitempty"`
}
