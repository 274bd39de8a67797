package analysis

import (
	"fmt"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sheetlens/domain/dataset"
	"sheetlens/domain/profile"
)

func numberColumn(name string, values ...float64) *dataset.Dataset {
	rows := make([]dataset.Row, len(values))
	for i, v := range values {
		rows[i] = dataset.Row{name: dataset.Number(v)}
	}
	return BuildDataset("test", []string{name}, rows)
}

func TestBuildDataset(t *testing.T) {
	t.Run("normalizes missing keys to nulls", func(t *testing.T) {
		ds := BuildDataset("t", []string{"a", "b"}, []dataset.Row{
			{"a": dataset.Number(1)},
		})
		require.Len(t, ds.Rows, 1)
		assert.True(t, ds.Rows[0]["b"].IsNull())
	})

	t.Run("derives column info", func(t *testing.T) {
		ds := BuildDataset("t", []string{"v"}, []dataset.Row{
			{"v": dataset.Number(10)},
			{"v": dataset.Number(20)},
			{"v": dataset.Null()},
		})
		info := ds.Columns[0]
		assert.Equal(t, dataset.TypeNumber, info.Type)
		assert.Equal(t, 2, info.UniqueValues)
		assert.Equal(t, 1, info.NullCount)
		require.NotNil(t, info.Numeric)
		assert.Equal(t, 10.0, info.Numeric.Min)
		assert.Equal(t, 20.0, info.Numeric.Max)
		assert.Equal(t, 30.0, info.Numeric.Sum)
		assert.Equal(t, 15.0, info.Numeric.Avg)
	})

	t.Run("string column has no numeric info", func(t *testing.T) {
		ds := BuildDataset("t", []string{"s"}, []dataset.Row{
			{"s": dataset.Text("x")},
			{"s": dataset.Text("y")},
		})
		assert.Nil(t, ds.Columns[0].Numeric)
	})
}

func TestProfileColumn_NullsAndCardinality(t *testing.T) {
	t.Run("entirely null column", func(t *testing.T) {
		ds := BuildDataset("t", []string{"empty"}, []dataset.Row{
			{"empty": dataset.Null()},
			{"empty": dataset.Null()},
			{"empty": dataset.Null()},
		})
		p := ProfileColumn(ds.Columns[0], ds.ColumnValues("empty"))
		assert.Equal(t, dataset.TypeString, p.Type)
		assert.Equal(t, 100.0, p.NullPercentage)
		assert.Equal(t, profile.CardinalityLow, p.Cardinality)
		assert.Nil(t, p.Numeric)
		assert.Empty(t, p.Distribution)
	})

	t.Run("cardinality partition", func(t *testing.T) {
		cases := []struct {
			distinct int
			total    int
			want     profile.Cardinality
		}{
			{10, 10, profile.CardinalityUnique},
			{6, 10, profile.CardinalityHigh},
			{2, 10, profile.CardinalityMedium},
			{1, 10, profile.CardinalityLow}, // ratio exactly 0.1 is low
			{0, 10, profile.CardinalityLow},
		}
		for _, tc := range cases {
			assert.Equal(t, tc.want, classifyCardinality(tc.distinct, tc.total),
				"distinct=%d total=%d", tc.distinct, tc.total)
		}
	})
}

func TestProfileColumn_Distribution(t *testing.T) {
	t.Run("top values with first-encounter tie break", func(t *testing.T) {
		rows := []dataset.Row{}
		for _, v := range []string{"b", "a", "a", "b", "c"} {
			rows = append(rows, dataset.Row{"s": dataset.Text(v)})
		}
		rows = append(rows, dataset.Row{"s": dataset.Null()})
		ds := BuildDataset("t", []string{"s"}, rows)

		p := ProfileColumn(ds.Columns[0], ds.ColumnValues("s"))
		require.Len(t, p.Distribution, 3)
		// a and b tie at 2; b was encountered first
		assert.Equal(t, "b", p.Distribution[0].Value)
		assert.Equal(t, "a", p.Distribution[1].Value)
		assert.Equal(t, "c", p.Distribution[2].Value)
		// percentages are of total rows including the null
		assert.InDelta(t, 2.0/6.0*100, p.Distribution[0].Percentage, 1e-9)
	})

	t.Run("keeps only top ten", func(t *testing.T) {
		rows := []dataset.Row{}
		for i := 0; i < 15; i++ {
			rows = append(rows, dataset.Row{"s": dataset.Text(fmt.Sprintf("v%02d", i))})
		}
		ds := BuildDataset("t", []string{"s"}, rows)
		p := ProfileColumn(ds.Columns[0], ds.ColumnValues("s"))
		assert.Len(t, p.Distribution, 10)
	})

	t.Run("long values truncate for display but count in full", func(t *testing.T) {
		long := strings.Repeat("x", 40)
		rows := []dataset.Row{
			{"s": dataset.Text(long)},
			{"s": dataset.Text(long)},
		}
		ds := BuildDataset("t", []string{"s"}, rows)
		p := ProfileColumn(ds.Columns[0], ds.ColumnValues("s"))
		require.Len(t, p.Distribution, 1)
		assert.Equal(t, strings.Repeat("x", 30)+"…", p.Distribution[0].Value)
		assert.Equal(t, 2, p.Distribution[0].Count)
	})
}

func TestProfileColumn_NumericSummary(t *testing.T) {
	t.Run("moments", func(t *testing.T) {
		ds := numberColumn("v", 2, 4, 4, 4, 5, 5, 7, 9)
		p := ProfileColumn(ds.Columns[0], ds.ColumnValues("v"))
		require.NotNil(t, p.Numeric)
		n := p.Numeric

		assert.Equal(t, 2.0, n.Min)
		assert.Equal(t, 9.0, n.Max)
		assert.Equal(t, 40.0, n.Sum)
		assert.Equal(t, 5.0, n.Mean)
		assert.Equal(t, 4.5, n.Median) // even-length median
		assert.InDelta(t, 2.0, n.StdDev, 1e-9) // population stddev of the classic example
	})

	t.Run("nearest-rank quartiles", func(t *testing.T) {
		// sorted: [1 2 3 4 5 6 7 8], q1 idx floor(8*.25)=2 -> 3, q3 idx 6 -> 7
		ds := numberColumn("v", 8, 7, 6, 5, 4, 3, 2, 1)
		p := ProfileColumn(ds.Columns[0], ds.ColumnValues("v"))
		require.NotNil(t, p.Numeric)
		assert.Equal(t, 3.0, p.Numeric.Quartiles.Q1)
		assert.Equal(t, 4.5, p.Numeric.Quartiles.Q2)
		assert.Equal(t, 7.0, p.Numeric.Quartiles.Q3)
	})

	t.Run("skewness classification", func(t *testing.T) {
		right := ProfileColumn(
			numberColumn("v", 1, 1, 1, 1, 100).Columns[0],
			numberColumn("v", 1, 1, 1, 1, 100).ColumnValues("v"))
		require.NotNil(t, right.Numeric)
		assert.Equal(t, profile.SkewRight, right.Numeric.Skewness)

		sym := ProfileColumn(
			numberColumn("v", 1, 2, 3, 4, 5).Columns[0],
			numberColumn("v", 1, 2, 3, 4, 5).ColumnValues("v"))
		require.NotNil(t, sym.Numeric)
		assert.Equal(t, profile.SkewSymmetric, sym.Numeric.Skewness)
	})

	t.Run("histogram bin count and assignment", func(t *testing.T) {
		ds := numberColumn("v", 0, 1, 2, 3, 4, 5, 6, 7, 8, 9)
		p := ProfileColumn(ds.Columns[0], ds.ColumnValues("v"))
		require.NotNil(t, p.Numeric)
		// ceil(sqrt(10)) = 4 bins
		require.Len(t, p.Numeric.Histogram, 4)
		total := 0
		for _, bin := range p.Numeric.Histogram {
			total += bin.Count
		}
		assert.Equal(t, 10, total)
		// max value lands in the last bin, not past it
		assert.GreaterOrEqual(t, p.Numeric.Histogram[3].Count, 1)
	})

	t.Run("single distinct value degenerates safely", func(t *testing.T) {
		ds := numberColumn("v", 5, 5, 5, 5)
		p := ProfileColumn(ds.Columns[0], ds.ColumnValues("v"))
		require.NotNil(t, p.Numeric)
		require.NotEmpty(t, p.Numeric.Histogram)
		assert.Equal(t, 4, p.Numeric.Histogram[0].Count)
		for _, bin := range p.Numeric.Histogram[1:] {
			assert.Zero(t, bin.Count)
		}
		assert.Equal(t, 0.0, p.Numeric.StdDev)
	})

	t.Run("numeric column with zero valid values omits summary", func(t *testing.T) {
		// Force a numeric-typed info with no usable values
		info := dataset.ColumnInfo{Name: "v", Type: dataset.TypeNumber}
		p := ProfileColumn(info, []dataset.Cell{dataset.Null(), dataset.Null()})
		assert.Nil(t, p.Numeric)
	})
}

func TestProfileDataset_Idempotent(t *testing.T) {
	ds := BuildDataset("t", []string{"n", "s"}, []dataset.Row{
		{"n": dataset.Number(1), "s": dataset.Text("a")},
		{"n": dataset.Number(2), "s": dataset.Text("b")},
		{"n": dataset.Null(), "s": dataset.Text("a")},
	})
	first := ProfileDataset(ds)
	second := ProfileDataset(ds)
	assert.True(t, reflect.DeepEqual(first, second))
}

func TestProfileColumn_PercentageBounds(t *testing.T) {
	ds := BuildDataset("t", []string{"v"}, []dataset.Row{
		{"v": dataset.Number(1)},
		{"v": dataset.Null()},
		{"v": dataset.Number(math.Pi)},
	})
	p := ProfileColumn(ds.Columns[0], ds.ColumnValues("v"))
	assert.GreaterOrEqual(t, p.NullPercentage, 0.0)
	assert.LessOrEqual(t, p.NullPercentage, 100.0)
	for _, vc := range p.Distribution {
		assert.GreaterOrEqual(t, vc.Percentage, 0.0)
		assert.LessOrEqual(t, vc.Percentage, 100.0)
	}
}
