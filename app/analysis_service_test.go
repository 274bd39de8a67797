package app

import (
	"context"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sheetlens/domain/dataset"
	"sheetlens/internal/analysis"
	apperrors "sheetlens/internal/errors"
	"sheetlens/internal/testkit"
)

func TestAnalysisService_Analyze(t *testing.T) {
	svc := NewAnalysisService(nil)
	ctx := context.Background()

	t.Run("nil dataset is invalid input", func(t *testing.T) {
		_, err := svc.Analyze(ctx, nil)
		require.Error(t, err)
		assert.Equal(t, apperrors.CodeInvalidInput, apperrors.GetCode(err))
	})

	t.Run("empty dataset short-circuits", func(t *testing.T) {
		ds := analysis.BuildDataset("empty", []string{"a", "b"}, nil)
		result, err := svc.Analyze(ctx, ds)
		require.NoError(t, err)
		assert.Zero(t, result.RowCount)
		assert.Equal(t, 2, result.ColumnCount)
		assert.Empty(t, result.Profiles)
		assert.Empty(t, result.Correlations)
		assert.Zero(t, result.Quality.OverallScore)
	})

	t.Run("full analysis of the demo dataset", func(t *testing.T) {
		ds := testkit.NewSalesDataGenerator(testkit.DefaultSalesConfig()).Generate()
		result, err := svc.Analyze(ctx, ds)
		require.NoError(t, err)

		assert.Equal(t, ds.RowCount(), result.RowCount)
		assert.Len(t, result.Profiles, ds.ColumnCount())
		assert.NotEmpty(t, result.Correlations)
		assert.NotEmpty(t, result.Quality.Issues)
		assert.GreaterOrEqual(t, result.Quality.OverallScore, 0)
		assert.LessOrEqual(t, result.Quality.OverallScore, 100)

		// units drives revenue in the generated data
		var found bool
		for _, pair := range result.Correlations {
			if (pair.ColumnA == "units" && pair.ColumnB == "revenue") ||
				(pair.ColumnA == "revenue" && pair.ColumnB == "units") {
				found = true
				assert.Greater(t, pair.Correlation, 0.5)
			}
		}
		assert.True(t, found)
	})

	t.Run("repeated analysis is identical", func(t *testing.T) {
		cfg := testkit.DefaultSalesConfig()
		cfg.RowCount = 50
		ds := testkit.NewSalesDataGenerator(cfg).Generate()
		first, err := svc.Analyze(ctx, ds)
		require.NoError(t, err)
		second, err := svc.Analyze(ctx, ds)
		require.NoError(t, err)
		assert.True(t, reflect.DeepEqual(first, second))
	})
}

func TestAnalysisService_Aggregate(t *testing.T) {
	svc := NewAnalysisService(nil)
	ds := analysis.BuildDataset("t", []string{"region", "value"}, []dataset.Row{
		{"region": dataset.Text("A"), "value": dataset.Number(10)},
		{"region": dataset.Text("B"), "value": dataset.Number(4)},
	})

	t.Run("happy path", func(t *testing.T) {
		buckets, err := svc.Aggregate(ds, "region", "value", analysis.OpSum)
		require.NoError(t, err)
		assert.Len(t, buckets, 2)
	})

	t.Run("unknown columns are rejected", func(t *testing.T) {
		_, err := svc.Aggregate(ds, "nope", "value", analysis.OpSum)
		assert.Equal(t, apperrors.CodeInvalidInput, apperrors.GetCode(err))

		_, err = svc.Aggregate(ds, "region", "nope", analysis.OpSum)
		assert.Equal(t, apperrors.CodeInvalidInput, apperrors.GetCode(err))
	})

	t.Run("nil dataset is rejected", func(t *testing.T) {
		_, err := svc.Aggregate(nil, "region", "value", analysis.OpSum)
		assert.Equal(t, apperrors.CodeInvalidInput, apperrors.GetCode(err))
	})
}

func TestBuildInsightRequest(t *testing.T) {
	svc := NewAnalysisService(nil)
	ds := testkit.NewSalesDataGenerator(testkit.DefaultSalesConfig()).Generate()
	result, err := svc.Analyze(context.Background(), ds)
	require.NoError(t, err)

	req := BuildInsightRequest(result)

	assert.Equal(t, result.DatasetName, req.DatasetName)
	assert.Equal(t, result.RowCount, req.RowCount)
	assert.Equal(t, result.Quality.OverallScore, req.QualityScore)
	assert.Len(t, req.Columns, len(result.Profiles))
	assert.LessOrEqual(t, len(req.Correlations), 10)

	byName := map[string]bool{}
	for _, col := range req.Columns {
		byName[col.Name] = true
		assert.NotEmpty(t, col.Type)
		assert.NotEmpty(t, col.Cardinality)
	}
	assert.True(t, byName["revenue"])
	assert.True(t, byName["region"])
}
