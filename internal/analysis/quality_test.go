package analysis

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sheetlens/domain/dataset"
	"sheetlens/domain/quality"
)

func findIssue(issues []quality.Issue, typ quality.IssueType, column string) (quality.Issue, bool) {
	for _, issue := range issues {
		if issue.Type == typ && issue.Column == column {
			return issue, true
		}
	}
	return quality.Issue{}, false
}

func TestAnalyzeQuality_EmptyDataset(t *testing.T) {
	ds := BuildDataset("t", []string{"a"}, nil)
	report := AnalyzeQuality(ds)
	assert.Zero(t, report.OverallScore)
	assert.Empty(t, report.Issues)
	assert.Empty(t, report.ColumnHealth)
}

func TestAnalyzeQuality_MissingValues(t *testing.T) {
	buildWithNulls := func(nulls, total int) *dataset.Dataset {
		rows := make([]dataset.Row, total)
		for i := 0; i < total; i++ {
			if i < nulls {
				rows[i] = dataset.Row{"v": dataset.Null()}
			} else {
				rows[i] = dataset.Row{"v": dataset.Text(fmt.Sprintf("x%d", i))}
			}
		}
		return BuildDataset("t", []string{"v"}, rows)
	}

	t.Run("below the five percent gate no issue is emitted", func(t *testing.T) {
		report := AnalyzeQuality(buildWithNulls(1, 100)) // 1%
		_, found := findIssue(report.Issues, quality.IssueMissing, "v")
		assert.False(t, found)
		assert.Equal(t, 100, report.ColumnHealth["v"])
	})

	t.Run("severity ladder", func(t *testing.T) {
		cases := []struct {
			nulls, total int
			want         quality.Severity
		}{
			{8, 100, quality.SeverityLow},       // 8%
			{20, 100, quality.SeverityMedium},   // 20%
			{40, 100, quality.SeverityHigh},     // 40%
			{60, 100, quality.SeverityCritical}, // 60%
		}
		for _, tc := range cases {
			report := AnalyzeQuality(buildWithNulls(tc.nulls, tc.total))
			issue, found := findIssue(report.Issues, quality.IssueMissing, "v")
			require.True(t, found, "nulls=%d", tc.nulls)
			assert.Equal(t, tc.want, issue.Severity, "nulls=%d", tc.nulls)
			assert.Equal(t, tc.nulls, issue.AffectedRows)
		}
	})

	t.Run("penalty capped at fifty", func(t *testing.T) {
		report := AnalyzeQuality(buildWithNulls(90, 100)) // 90% missing
		assert.Equal(t, 50, report.ColumnHealth["v"])
	})
}

func TestAnalyzeQuality_Outliers(t *testing.T) {
	t.Run("IQR flags the spike in [1,1,1,1,100]", func(t *testing.T) {
		rows := make([]dataset.Row, 0, 5)
		for i, v := range []float64{1, 1, 1, 1, 100} {
			rows = append(rows, dataset.Row{
				"id": dataset.Text(fmt.Sprintf("r%d", i)),
				"v":  dataset.Number(v),
			})
		}
		ds := BuildDataset("t", []string{"id", "v"}, rows)
		report := AnalyzeQuality(ds)

		issue, found := findIssue(report.Issues, quality.IssueOutlier, "v")
		require.True(t, found)
		// Q1=Q3=1, IQR=0, fences collapse to [1,1]: the 100 is the
		// single outlier, 20% of five values
		assert.Equal(t, 1, issue.AffectedRows)
		assert.InDelta(t, 20.0, issue.Percentage, 1e-9)
		assert.Equal(t, quality.SeverityHigh, issue.Severity) // >15%

		// penalty min(2*20, 30) = 30
		assert.Equal(t, 70, report.ColumnHealth["v"])
		assert.Equal(t, 100, report.ColumnHealth["id"])
	})

	t.Run("needs at least four values", func(t *testing.T) {
		ds := numberColumn("v", 1, 2, 100)
		report := AnalyzeQuality(ds)
		_, found := findIssue(report.Issues, quality.IssueOutlier, "v")
		assert.False(t, found)
	})

	t.Run("well-behaved data has no outlier issue", func(t *testing.T) {
		ds := numberColumn("v", 1, 2, 3, 4, 5, 6, 7, 8)
		report := AnalyzeQuality(ds)
		_, found := findIssue(report.Issues, quality.IssueOutlier, "v")
		assert.False(t, found)
		assert.Equal(t, 100, report.ColumnHealth["v"])
	})
}

func TestAnalyzeQuality_MixedTypes(t *testing.T) {
	rows := []dataset.Row{
		{"v": dataset.Number(1)},
		{"v": dataset.Number(2)},
		{"v": dataset.Text("oops")},
		{"v": dataset.Number(4)},
	}
	ds := BuildDataset("t", []string{"v"}, rows)
	report := AnalyzeQuality(ds)

	issue, found := findIssue(report.Issues, quality.IssueMixedType, "v")
	require.True(t, found)
	assert.Equal(t, quality.SeverityMedium, issue.Severity)
	assert.Equal(t, 80, report.ColumnHealth["v"])
}

func TestAnalyzeQuality_Duplicates(t *testing.T) {
	t.Run("five duplicate rows out of twenty", func(t *testing.T) {
		rows := make([]dataset.Row, 0, 20)
		for i := 0; i < 15; i++ {
			rows = append(rows, dataset.Row{
				"id": dataset.Text(fmt.Sprintf("r%02d", i)),
				"v":  dataset.Number(float64(i)),
			})
		}
		// five exact copies of the first row
		for i := 0; i < 5; i++ {
			rows = append(rows, dataset.Row{
				"id": dataset.Text("r00"),
				"v":  dataset.Number(0),
			})
		}
		ds := BuildDataset("t", []string{"id", "v"}, rows)
		report := AnalyzeQuality(ds)

		issue, found := findIssue(report.Issues, quality.IssueDuplicate, "")
		require.True(t, found)
		assert.Equal(t, 5, issue.AffectedRows)
		assert.InDelta(t, 25.0, issue.Percentage, 1e-9)
		assert.Equal(t, quality.SeverityHigh, issue.Severity) // >20%
		assert.Empty(t, issue.Column)
	})

	t.Run("kind-distinct values never collide", func(t *testing.T) {
		rows := []dataset.Row{
			{"v": dataset.Number(1)},
			{"v": dataset.Text("1")},
		}
		ds := BuildDataset("t", []string{"v"}, rows)
		report := AnalyzeQuality(ds)
		_, found := findIssue(report.Issues, quality.IssueDuplicate, "")
		assert.False(t, found)
	})
}

func TestAnalyzeQuality_OverallScore(t *testing.T) {
	t.Run("formula", func(t *testing.T) {
		// one outlier issue on a single column: Q1=2, Q3=4, fences
		// [-1,7], the 100 is 20% outliers, penalty 30 against health,
		// then 5 per issue against the overall score
		ds := numberColumn("v", 1, 2, 3, 4, 100)
		report := AnalyzeQuality(ds)
		require.Len(t, report.Issues, 1)
		assert.Equal(t, 70, report.ColumnHealth["v"])
		assert.Equal(t, 65, report.OverallScore)
	})

	t.Run("bounds", func(t *testing.T) {
		// A column that accumulates every penalty stays within [0,100]
		rows := []dataset.Row{}
		for i := 0; i < 30; i++ {
			rows = append(rows, dataset.Row{"v": dataset.Null()})
		}
		for i := 0; i < 5; i++ {
			rows = append(rows, dataset.Row{"v": dataset.Number(1)})
		}
		rows = append(rows, dataset.Row{"v": dataset.Number(10000)})
		rows = append(rows, dataset.Row{"v": dataset.Text("mixed")})
		ds := BuildDataset("t", []string{"v"}, rows)

		report := AnalyzeQuality(ds)
		assert.GreaterOrEqual(t, report.OverallScore, 0)
		assert.LessOrEqual(t, report.OverallScore, 100)
		for _, health := range report.ColumnHealth {
			assert.GreaterOrEqual(t, health, 0)
			assert.LessOrEqual(t, health, 100)
		}
		for _, issue := range report.Issues {
			assert.GreaterOrEqual(t, issue.Percentage, 0.0)
			assert.LessOrEqual(t, issue.Percentage, 100.0)
		}
	})

	t.Run("issues sorted by severity", func(t *testing.T) {
		rows := make([]dataset.Row, 0)
		// column a: 60% missing (critical), column b: mixed types (medium)
		for i := 0; i < 10; i++ {
			a := dataset.Text("x")
			if i < 6 {
				a = dataset.Null()
			}
			b := dataset.Number(float64(i))
			if i == 0 {
				b = dataset.Text("oops")
			}
			rows = append(rows, dataset.Row{"a": a, "b": b})
		}
		ds := BuildDataset("t", []string{"a", "b"}, rows)
		report := AnalyzeQuality(ds)

		require.NotEmpty(t, report.Issues)
		for i := 1; i < len(report.Issues); i++ {
			assert.LessOrEqual(t,
				report.Issues[i-1].Severity.Rank(),
				report.Issues[i].Severity.Rank())
		}
		assert.Equal(t, len(report.Issues), report.Summary.Total())
	})
}

func TestAnalyzeQuality_Idempotent(t *testing.T) {
	ds := BuildDataset("t", []string{"a", "b"}, []dataset.Row{
		{"a": dataset.Number(1), "b": dataset.Text("x")},
		{"a": dataset.Number(2), "b": dataset.Null()},
		{"a": dataset.Number(1), "b": dataset.Text("x")},
	})
	first := AnalyzeQuality(ds)
	second := AnalyzeQuality(ds)
	assert.True(t, reflect.DeepEqual(first, second))
}
