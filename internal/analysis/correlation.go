package analysis

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"sheetlens/domain/correlation"
	"sheetlens/domain/dataset"
)

// minCorrelationSamples is the minimum valid values required on both sides
// before a pair is evaluated.
const minCorrelationSamples = 3

// Correlate computes the Pearson coefficient between two already-filtered
// numeric sequences, zipped up to the shorter length. Fewer than three
// usable samples, or a zero-variance side, yields r=0.
func Correlate(x, y []float64) (float64, correlation.Strength) {
	n := len(x)
	if len(y) < n {
		n = len(y)
	}
	if n < minCorrelationSamples {
		return 0, correlation.StrengthNone
	}

	r := stat.Correlation(x[:n], y[:n], nil)
	if math.IsNaN(r) {
		r = 0
	}
	r = math.Round(r*1000) / 1000
	return r, correlation.ClassifyStrength(math.Abs(r))
}

// PairwiseCorrelations evaluates every unordered pair of distinct numeric
// columns. Each column is filtered to its valid numeric values
// independently before pairing — see correlation.Pair for the row
// alignment caveat. Results are sorted by |r| descending.
func PairwiseCorrelations(ds *dataset.Dataset) []correlation.Pair {
	type numericColumn struct {
		name   string
		values []float64
	}

	columns := make([]numericColumn, 0)
	for _, info := range ds.Columns {
		if info.Type != dataset.TypeNumber {
			continue
		}
		columns = append(columns, numericColumn{
			name:   info.Name,
			values: NumericValues(ds.ColumnValues(info.Name)),
		})
	}

	pairs := make([]correlation.Pair, 0)
	for i := 0; i < len(columns); i++ {
		for j := i + 1; j < len(columns); j++ {
			a, b := columns[i], columns[j]
			if len(a.values) < minCorrelationSamples || len(b.values) < minCorrelationSamples {
				continue
			}
			n := len(a.values)
			if len(b.values) < n {
				n = len(b.values)
			}
			r, strength := Correlate(a.values, b.values)
			pairs = append(pairs, correlation.Pair{
				ColumnA:     a.name,
				ColumnB:     b.name,
				Correlation: r,
				Strength:    strength,
				SampleSize:  n,
				RowAligned:  false,
			})
		}
	}

	sort.SliceStable(pairs, func(i, j int) bool {
		return math.Abs(pairs[i].Correlation) > math.Abs(pairs[j].Correlation)
	})
	return pairs
}
