package analysis

import (
	"fmt"
	"math"
	"sort"

	"sheetlens/domain/dataset"
)

// AggregateOp is the reduction applied to each group's numeric values
type AggregateOp string

const (
	OpSum   AggregateOp = "sum"
	OpAvg   AggregateOp = "avg"
	OpCount AggregateOp = "count"
	OpMin   AggregateOp = "min"
	OpMax   AggregateOp = "max"
)

// unknownGroup is the bucket for rows whose group-by value is null
const unknownGroup = "Unknown"

// maxBuckets caps the returned series at the top groups by value
const maxBuckets = 10

// Bucket is one chart-ready group in an aggregated series
type Bucket struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// Aggregate groups rows by the display string of groupBy (nulls bucket
// under "Unknown"), collects the numeric-coercible values of valueColumn
// per group, reduces with op, rounds to 2 decimals, and returns the top 10
// groups sorted descending by value. Count counts collected values, not
// raw rows.
func Aggregate(rows []dataset.Row, groupBy, valueColumn string, op AggregateOp) ([]Bucket, error) {
	switch op {
	case OpSum, OpAvg, OpCount, OpMin, OpMax:
	default:
		return nil, fmt.Errorf("unsupported aggregation op %q", op)
	}

	groups := make(map[string][]float64)
	order := make([]string, 0)

	for _, row := range rows {
		key := unknownGroup
		if cell, ok := row[groupBy]; ok && !cell.IsNull() {
			key = cell.String()
		}
		if _, seen := groups[key]; !seen {
			order = append(order, key)
			groups[key] = []float64{}
		}
		if cell, ok := row[valueColumn]; ok && !cell.IsNull() {
			if v, ok := cell.Float(); ok && !math.IsNaN(v) {
				groups[key] = append(groups[key], v)
			}
		}
	}

	buckets := make([]Bucket, 0, len(order))
	for _, key := range order {
		buckets = append(buckets, Bucket{
			Name:  key,
			Value: math.Round(reduce(groups[key], op)*100) / 100,
		})
	}

	sort.SliceStable(buckets, func(i, j int) bool {
		return buckets[i].Value > buckets[j].Value
	})
	if len(buckets) > maxBuckets {
		buckets = buckets[:maxBuckets]
	}
	return buckets, nil
}

func reduce(values []float64, op AggregateOp) float64 {
	if op == OpCount {
		return float64(len(values))
	}
	if len(values) == 0 {
		return 0
	}

	switch op {
	case OpSum, OpAvg:
		sum := 0.0
		for _, v := range values {
			sum += v
		}
		if op == OpAvg {
			return sum / float64(len(values))
		}
		return sum
	case OpMin:
		min := values[0]
		for _, v := range values[1:] {
			if v < min {
				min = v
			}
		}
		return min
	default: // OpMax
		max := values[0]
		for _, v := range values[1:] {
			if v > max {
				max = v
			}
		}
		return max
	}
}
