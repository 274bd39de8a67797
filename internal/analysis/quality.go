package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"sheetlens/domain/core"
	"sheetlens/domain/dataset"
	"sheetlens/domain/quality"
)

const (
	missingReportGate  = 5.0  // percent missing before an issue is emitted
	outlierReportGate  = 1.0  // percent outliers before an issue is emitted
	minOutlierSamples  = 4    // IQR fences need at least four values
	maxMissingPenalty  = 50.0
	maxOutlierPenalty  = 30.0
	mixedTypePenalty   = 20.0
	issueCountPenalty  = 5.0
	maxIssuePenalty    = 30.0
)

// AnalyzeQuality assesses a dataset and produces the full quality report.
// Malformed data is never an error here: missing values, mixed types, and
// degenerate columns are analysis outcomes. An empty dataset short-circuits
// to an empty report with score 0.
func AnalyzeQuality(ds *dataset.Dataset) quality.Report {
	report := quality.Report{
		Issues:       []quality.Issue{},
		ColumnHealth: make(map[string]int),
	}
	totalRows := ds.RowCount()
	if totalRows == 0 {
		return report
	}

	for _, info := range ds.Columns {
		values := ds.ColumnValues(info.Name)
		score := 100.0

		if issue, penalty, ok := checkMissing(info, totalRows); ok {
			report.Issues = append(report.Issues, issue)
			score -= penalty
		}
		if info.Type == dataset.TypeNumber {
			if issue, penalty, ok := checkOutliers(info.Name, values); ok {
				report.Issues = append(report.Issues, issue)
				score -= penalty
			}
		}
		if issue, ok := checkMixedTypes(info.Name, values, totalRows); ok {
			report.Issues = append(report.Issues, issue)
			score -= mixedTypePenalty
		}

		report.ColumnHealth[info.Name] = clampScore(score)
	}

	if issue, ok := checkDuplicates(ds); ok {
		report.Issues = append(report.Issues, issue)
	}

	sort.SliceStable(report.Issues, func(i, j int) bool {
		return report.Issues[i].Severity.Rank() < report.Issues[j].Severity.Rank()
	})

	for _, issue := range report.Issues {
		switch issue.Severity {
		case quality.SeverityCritical:
			report.Summary.Critical++
		case quality.SeverityHigh:
			report.Summary.High++
		case quality.SeverityMedium:
			report.Summary.Medium++
		default:
			report.Summary.Low++
		}
	}

	avgHealth := 0.0
	if len(report.ColumnHealth) > 0 {
		sum := 0.0
		for _, h := range report.ColumnHealth {
			sum += float64(h)
		}
		avgHealth = sum / float64(len(report.ColumnHealth))
	}
	penalty := math.Min(float64(len(report.Issues))*issueCountPenalty, maxIssuePenalty)
	report.OverallScore = clampScore(avgHealth - penalty)

	return report
}

// checkMissing emits an issue when the missing share passes the 5% gate.
// The score penalty is tied to the emitted-issue branch: below the gate the
// column keeps its full health even when a few values are missing.
func checkMissing(info dataset.ColumnInfo, totalRows int) (quality.Issue, float64, bool) {
	missingPct := float64(info.NullCount) / float64(totalRows) * 100
	if missingPct <= missingReportGate {
		return quality.Issue{}, 0, false
	}

	severity := quality.SeverityLow
	switch {
	case missingPct > 50:
		severity = quality.SeverityCritical
	case missingPct > 25:
		severity = quality.SeverityHigh
	case missingPct > 10:
		severity = quality.SeverityMedium
	}

	issue := quality.Issue{
		Type:         quality.IssueMissing,
		Column:       info.Name,
		Severity:     severity,
		Message:      fmt.Sprintf("Column %q has %.1f%% missing values", info.Name, missingPct),
		Details:      fmt.Sprintf("%d of %d rows are empty", info.NullCount, totalRows),
		Suggestion:   "Impute the missing values or drop the column if it is not required",
		AffectedRows: info.NullCount,
		Percentage:   missingPct,
	}
	return issue, math.Min(missingPct, maxMissingPenalty), true
}

// checkOutliers applies the 1.5·IQR fence with nearest-rank quartiles.
// Detection needs at least four valid values; the issue is emitted once the
// outlier share passes the 1% gate.
func checkOutliers(name string, values []dataset.Cell) (quality.Issue, float64, bool) {
	nums := NumericValues(values)
	if len(nums) < minOutlierSamples {
		return quality.Issue{}, 0, false
	}

	q := NearestRankQuartiles(nums)
	iqr := q.Q3 - q.Q1
	lower := q.Q1 - 1.5*iqr
	upper := q.Q3 + 1.5*iqr

	outliers := 0
	for _, v := range nums {
		if v < lower || v > upper {
			outliers++
		}
	}

	outlierPct := float64(outliers) / float64(len(nums)) * 100
	if outlierPct <= outlierReportGate {
		return quality.Issue{}, 0, false
	}

	severity := quality.SeverityLow
	switch {
	case outlierPct > 15:
		severity = quality.SeverityHigh
	case outlierPct > 5:
		severity = quality.SeverityMedium
	}

	issue := quality.Issue{
		Type:         quality.IssueOutlier,
		Column:       name,
		Severity:     severity,
		Message:      fmt.Sprintf("Column %q contains %d statistical outliers (%.1f%%)", name, outliers, outlierPct),
		Details:      fmt.Sprintf("values outside [%.2f, %.2f]", lower, upper),
		Suggestion:   "Inspect the flagged values; cap or remove confirmed data errors",
		AffectedRows: outliers,
		Percentage:   outlierPct,
	}
	return issue, math.Min(outlierPct*2, maxOutlierPenalty), true
}

// checkMixedTypes classifies every non-null value with the same per-value
// heuristics type inference uses and flags columns exhibiting more than one
// distinct type.
func checkMixedTypes(name string, values []dataset.Cell, totalRows int) (quality.Issue, bool) {
	seen := make(map[dataset.ColumnType]int)
	order := make([]dataset.ColumnType, 0, 4)
	nonNull := 0
	for _, c := range values {
		if c.IsNull() {
			continue
		}
		nonNull++
		t := ClassifyCell(c)
		if _, ok := seen[t]; !ok {
			order = append(order, t)
		}
		seen[t]++
	}
	if len(seen) <= 1 {
		return quality.Issue{}, false
	}

	names := make([]string, len(order))
	minority := nonNull
	for i, t := range order {
		names[i] = string(t)
		if seen[t] < minority {
			minority = seen[t]
		}
	}

	pct := 0.0
	if totalRows > 0 {
		pct = float64(minority) / float64(totalRows) * 100
	}

	issue := quality.Issue{
		Type:         quality.IssueMixedType,
		Column:       name,
		Severity:     quality.SeverityMedium,
		Message:      fmt.Sprintf("Column %q mixes value types: %s", name, strings.Join(names, ", ")),
		Details:      fmt.Sprintf("%d distinct types across %d values", len(seen), nonNull),
		Suggestion:   "Normalize the column to a single type before analysis",
		AffectedRows: minority,
		Percentage:   pct,
	}
	return issue, true
}

// checkDuplicates counts exact structural duplicates across the whole
// dataset via canonical row fingerprints. Duplicate issues carry no column
// and do not feed any column's health, only the issue-count penalty.
func checkDuplicates(ds *dataset.Dataset) (quality.Issue, bool) {
	seen := make(map[core.RowFingerprint]bool, len(ds.Rows))
	duplicates := 0
	for _, row := range ds.Rows {
		fp := row.Fingerprint(ds.Headers)
		if seen[fp] {
			duplicates++
		} else {
			seen[fp] = true
		}
	}
	if duplicates == 0 {
		return quality.Issue{}, false
	}

	totalRows := ds.RowCount()
	dupPct := float64(duplicates) / float64(totalRows) * 100

	severity := quality.SeverityLow
	switch {
	case dupPct > 20:
		severity = quality.SeverityHigh
	case dupPct > 10:
		severity = quality.SeverityMedium
	}

	issue := quality.Issue{
		Type:         quality.IssueDuplicate,
		Severity:     severity,
		Message:      fmt.Sprintf("Found %d exact duplicate rows (%.1f%%)", duplicates, dupPct),
		Details:      fmt.Sprintf("%d of %d rows repeat an earlier row exactly", duplicates, totalRows),
		Suggestion:   "Deduplicate the rows before aggregating or correlating",
		AffectedRows: duplicates,
		Percentage:   dupPct,
	}
	return issue, true
}

func clampScore(score float64) int {
	rounded := int(math.Round(score))
	if rounded < 0 {
		return 0
	}
	if rounded > 100 {
		return 100
	}
	return rounded
}
