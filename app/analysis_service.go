package app

import (
	"context"

	"golang.org/x/sync/errgroup"

	"sheetlens/domain/correlation"
	"sheetlens/domain/dataset"
	"sheetlens/domain/profile"
	"sheetlens/domain/quality"
	"sheetlens/internal/analysis"
	"sheetlens/internal/errors"
	"sheetlens/internal/logx"
	"sheetlens/ports"
)

// AnalysisResult bundles the three engine outputs for one dataset. It is a
// pure value: re-running Analyze on the same dataset yields an identical
// result.
type AnalysisResult struct {
	DatasetName  string               `json:"dataset_name,omitempty"`
	RowCount     int                  `json:"row_count"`
	ColumnCount  int                  `json:"column_count"`
	Columns      []dataset.ColumnInfo `json:"columns"`
	Profiles     []profile.ColumnProfile `json:"profiles"`
	Correlations []correlation.Pair   `json:"correlations"`
	Quality      quality.Report       `json:"quality"`
}

// AnalysisService runs the analysis engines over a dataset. The engines
// themselves are synchronous pure functions; the service only fans the
// three independent passes out concurrently.
type AnalysisService struct {
	log *logx.Logger
}

// NewAnalysisService creates an analysis service
func NewAnalysisService(log *logx.Logger) *AnalysisService {
	if log == nil {
		log = logx.DefaultLogger
	}
	return &AnalysisService{log: log}
}

// Analyze profiles every column, correlates numeric pairs, and assesses
// quality. An empty dataset short-circuits to an empty result rather than
// an error: degraded data is an outcome, not a failure.
func (s *AnalysisService) Analyze(ctx context.Context, ds *dataset.Dataset) (*AnalysisResult, error) {
	if ds == nil {
		return nil, errors.InvalidInput("dataset is required")
	}

	result := &AnalysisResult{
		DatasetName:  ds.Name,
		RowCount:     ds.RowCount(),
		ColumnCount:  ds.ColumnCount(),
		Columns:      ds.Columns,
		Profiles:     []profile.ColumnProfile{},
		Correlations: []correlation.Pair{},
		Quality:      quality.Report{Issues: []quality.Issue{}, ColumnHealth: map[string]int{}},
	}
	if ds.RowCount() == 0 {
		return result, nil
	}

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		result.Profiles = analysis.ProfileDataset(ds)
		return nil
	})
	g.Go(func() error {
		result.Correlations = analysis.PairwiseCorrelations(ds)
		return nil
	})
	g.Go(func() error {
		result.Quality = analysis.AnalyzeQuality(ds)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.log.Debug("analyzed %q: %d profiles, %d correlation pairs, %d issues",
		ds.Name, len(result.Profiles), len(result.Correlations), len(result.Quality.Issues))
	return result, nil
}

// Aggregate materializes a chart-ready series from raw rows
func (s *AnalysisService) Aggregate(ds *dataset.Dataset, groupBy, valueColumn string, op analysis.AggregateOp) ([]analysis.Bucket, error) {
	if ds == nil {
		return nil, errors.InvalidInput("dataset is required")
	}
	if _, ok := ds.Column(groupBy); !ok {
		return nil, errors.InvalidInput("unknown group-by column: " + groupBy)
	}
	if _, ok := ds.Column(valueColumn); !ok {
		return nil, errors.InvalidInput("unknown value column: " + valueColumn)
	}
	return analysis.Aggregate(ds.Rows, groupBy, valueColumn, op)
}

// maxInsightCorrelations caps how many pairs ride along in the insight payload
const maxInsightCorrelations = 10

// BuildInsightRequest serializes the subset of an analysis result that the
// insight collaborator consumes. All fields come straight from the engine
// output; nothing is re-derived from raw rows.
func BuildInsightRequest(result *AnalysisResult) ports.InsightRequest {
	columns := make([]ports.ColumnDigest, 0, len(result.Profiles))
	for _, p := range result.Profiles {
		digest := ports.ColumnDigest{
			Name:           p.Name,
			Type:           string(p.Type),
			NullPercentage: p.NullPercentage,
			Cardinality:    string(p.Cardinality),
		}
		if p.Numeric != nil {
			digest.Skewness = string(p.Numeric.Skewness)
		}
		columns = append(columns, digest)
	}

	correlations := result.Correlations
	if len(correlations) > maxInsightCorrelations {
		correlations = correlations[:maxInsightCorrelations]
	}

	return ports.InsightRequest{
		DatasetName:  result.DatasetName,
		RowCount:     result.RowCount,
		ColumnCount:  result.ColumnCount,
		QualityScore: result.Quality.OverallScore,
		Issues:       result.Quality.Issues,
		Columns:      columns,
		Correlations: correlations,
	}
}
