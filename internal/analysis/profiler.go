package analysis

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"

	"sheetlens/domain/dataset"
	"sheetlens/domain/profile"
)

const (
	topValueLimit     = 10
	displayValueLimit = 30
	histogramMaxBins  = 10
)

// BuildDataset assembles a Dataset from raw headers and rows, normalizing
// every row to the full header key set and deriving per-column metadata
// (inferred type, distinct and null counts, numeric basics).
func BuildDataset(name string, headers []string, rows []dataset.Row) *dataset.Dataset {
	normalized := make([]dataset.Row, len(rows))
	for i, row := range rows {
		nr := make(dataset.Row, len(headers))
		for _, h := range headers {
			if cell, ok := row[h]; ok {
				nr[h] = cell
			} else {
				nr[h] = dataset.Null()
			}
		}
		normalized[i] = nr
	}

	ds := &dataset.Dataset{
		Name:    name,
		Headers: headers,
		Rows:    normalized,
	}
	ds.Columns = describeColumns(ds)
	return ds
}

// describeColumns derives ColumnInfo for every header
func describeColumns(ds *dataset.Dataset) []dataset.ColumnInfo {
	infos := make([]dataset.ColumnInfo, 0, len(ds.Headers))
	for _, name := range ds.Headers {
		values := ds.ColumnValues(name)

		nullCount := 0
		distinct := make(map[string]struct{})
		for _, c := range values {
			if c.IsNull() {
				nullCount++
				continue
			}
			distinct[c.Canonical()] = struct{}{}
		}

		info := dataset.ColumnInfo{
			Name:         name,
			Type:         InferColumnType(values),
			UniqueValues: len(distinct),
			NullCount:    nullCount,
		}

		if info.Type == dataset.TypeNumber {
			nums := NumericValues(values)
			if len(nums) > 0 {
				min, _ := stats.Min(nums)
				max, _ := stats.Max(nums)
				sum, _ := stats.Sum(nums)
				mean, _ := stats.Mean(nums)
				info.Numeric = &dataset.NumericInfo{Min: min, Max: max, Sum: sum, Avg: mean}
			}
		}
		infos = append(infos, info)
	}
	return infos
}

// NumericValues extracts the valid numeric values of a column in row
// order: nulls are skipped, remaining cells are loosely coerced, and NaN
// results are dropped.
func NumericValues(values []dataset.Cell) []float64 {
	nums := make([]float64, 0, len(values))
	for _, c := range values {
		if c.IsNull() {
			continue
		}
		v, ok := c.Float()
		if !ok || math.IsNaN(v) {
			continue
		}
		nums = append(nums, v)
	}
	return nums
}

// ProfileDataset builds the deep profile for every column
func ProfileDataset(ds *dataset.Dataset) []profile.ColumnProfile {
	profiles := make([]profile.ColumnProfile, 0, len(ds.Columns))
	for _, info := range ds.Columns {
		profiles = append(profiles, ProfileColumn(info, ds.ColumnValues(info.Name)))
	}
	return profiles
}

// ProfileColumn computes the full statistical profile of one column from
// its metadata and raw values.
func ProfileColumn(info dataset.ColumnInfo, values []dataset.Cell) profile.ColumnProfile {
	total := len(values)

	p := profile.ColumnProfile{
		Name:         info.Name,
		Type:         info.Type,
		UniqueValues: info.UniqueValues,
		NullCount:    info.NullCount,
		Cardinality:  classifyCardinality(info.UniqueValues, total),
		Distribution: valueDistribution(values, total),
	}
	if total > 0 {
		p.NullPercentage = float64(info.NullCount) / float64(total) * 100
	}

	if info.Type == dataset.TypeNumber {
		if nums := NumericValues(values); len(nums) > 0 {
			p.Numeric = numericSummary(nums)
		}
	}
	return p
}

// classifyCardinality buckets the distinctness ratio. An empty column has
// a guarded 0 ratio and classifies low.
func classifyCardinality(uniqueCount, total int) profile.Cardinality {
	if total == 0 {
		return profile.CardinalityLow
	}
	ratio := float64(uniqueCount) / float64(total)
	switch {
	case ratio == 1:
		return profile.CardinalityUnique
	case ratio > 0.5:
		return profile.CardinalityHigh
	case ratio > 0.1:
		return profile.CardinalityMedium
	default:
		return profile.CardinalityLow
	}
}

// valueDistribution counts the frequency of each non-null value's display
// string and keeps the top 10, ties broken by first encounter. Percentages
// are of total rows including nulls; full values are counted even when the
// display form is truncated.
func valueDistribution(values []dataset.Cell, total int) []profile.ValueCount {
	counts := make(map[string]int)
	order := make(map[string]int)
	keys := make([]string, 0)

	for _, c := range values {
		if c.IsNull() {
			continue
		}
		s := c.String()
		if _, seen := counts[s]; !seen {
			order[s] = len(keys)
			keys = append(keys, s)
		}
		counts[s]++
	}

	sort.SliceStable(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return order[keys[i]] < order[keys[j]]
	})
	if len(keys) > topValueLimit {
		keys = keys[:topValueLimit]
	}

	dist := make([]profile.ValueCount, 0, len(keys))
	for _, k := range keys {
		pct := 0.0
		if total > 0 {
			pct = float64(counts[k]) / float64(total) * 100
		}
		dist = append(dist, profile.ValueCount{
			Value:      truncateDisplay(k),
			Count:      counts[k],
			Percentage: pct,
		})
	}
	return dist
}

func truncateDisplay(s string) string {
	runes := []rune(s)
	if len(runes) <= displayValueLimit {
		return s
	}
	return string(runes[:displayValueLimit]) + "…"
}

// numericSummary computes the moment statistics for at least one value
func numericSummary(nums []float64) *profile.NumericSummary {
	min, _ := stats.Min(nums)
	max, _ := stats.Max(nums)
	sum, _ := stats.Sum(nums)
	mean, _ := stats.Mean(nums)
	median, _ := stats.Median(nums)
	// Population standard deviation (divide by n, not n-1)
	stdDev, _ := stats.StandardDeviationPopulation(nums)

	q := NearestRankQuartiles(nums)
	q.Q2 = median

	return &profile.NumericSummary{
		Min:       min,
		Max:       max,
		Sum:       sum,
		Mean:      mean,
		Median:    median,
		StdDev:    stdDev,
		Quartiles: q,
		Skewness:  classifySkewness(mean, median, stdDev),
		Histogram: buildHistogram(nums, min, max),
	}
}

// NearestRankQuartiles indexes the sorted values at floor(n·0.25) and
// floor(n·0.75) without interpolation. This matches the quality engine's
// outlier fences, which is why montanaflynn's interpolating Percentile is
// not used here.
func NearestRankQuartiles(nums []float64) profile.Quartiles {
	sorted := make([]float64, len(nums))
	copy(sorted, nums)
	sort.Float64s(sorted)

	n := len(sorted)
	q1 := sorted[int(math.Floor(float64(n)*0.25))]
	q3 := sorted[int(math.Floor(float64(n)*0.75))]
	return profile.Quartiles{Q1: q1, Q3: q3}
}

// classifySkewness compares mean to median against a 0.2·stddev band
func classifySkewness(mean, median, stdDev float64) profile.Skewness {
	band := 0.2 * stdDev
	switch {
	case mean > median+band:
		return profile.SkewRight
	case mean < median-band:
		return profile.SkewLeft
	default:
		return profile.SkewSymmetric
	}
}

// buildHistogram bins values into min(10, ceil(sqrt(n))) equal-width bins
// over [min, max]. A zero-width range (single distinct value) degenerates
// to every value landing in bin 0.
func buildHistogram(nums []float64, min, max float64) []profile.HistogramBin {
	n := len(nums)
	binCount := int(math.Ceil(math.Sqrt(float64(n))))
	if binCount > histogramMaxBins {
		binCount = histogramMaxBins
	}
	if binCount < 1 {
		binCount = 1
	}

	width := (max - min) / float64(binCount)
	bins := make([]profile.HistogramBin, binCount)
	for i := range bins {
		bins[i].Min = min + float64(i)*width
		bins[i].Max = min + float64(i+1)*width
	}
	bins[binCount-1].Max = max

	for _, v := range nums {
		idx := 0
		if width > 0 {
			idx = int(math.Floor((v - min) / width))
			if idx >= binCount {
				idx = binCount - 1
			}
			if idx < 0 {
				idx = 0
			}
		}
		bins[idx].Count++
	}
	return bins
}
