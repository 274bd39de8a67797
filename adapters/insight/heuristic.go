package insight

import (
	"context"
	"fmt"
	"strings"

	"sheetlens/domain/correlation"
	"sheetlens/ports"
)

// HeuristicGenerator is the deterministic local fallback: it composes
// insight text purely from the engine's own output, so the system never
// depends on the network for a usable summary. Identical requests yield
// identical text.
type HeuristicGenerator struct{}

// NewHeuristicGenerator creates the fallback generator
func NewHeuristicGenerator() *HeuristicGenerator {
	return &HeuristicGenerator{}
}

// Generate never fails and ignores the context deadline; it is pure
// string assembly over the request.
func (g *HeuristicGenerator) Generate(ctx context.Context, req ports.InsightRequest) (string, error) {
	var sb strings.Builder

	fmt.Fprintf(&sb, "## Dataset overview\n\n")
	fmt.Fprintf(&sb, "- %d rows across %d columns", req.RowCount, req.ColumnCount)
	if req.DatasetName != "" {
		fmt.Fprintf(&sb, " in %q", req.DatasetName)
	}
	sb.WriteString(".\n")
	fmt.Fprintf(&sb, "- Overall data quality score: **%d/100**.\n", req.QualityScore)

	if len(req.Issues) > 0 {
		sb.WriteString("\n## Quality issues\n\n")
		limit := len(req.Issues)
		if limit > 5 {
			limit = 5
		}
		for _, issue := range req.Issues[:limit] {
			fmt.Fprintf(&sb, "- [%s] %s\n", issue.Severity, issue.Message)
		}
	}

	skewed := make([]string, 0)
	sparse := make([]string, 0)
	for _, col := range req.Columns {
		if col.Skewness == "left" || col.Skewness == "right" {
			skewed = append(skewed, fmt.Sprintf("%s (%s-skewed)", col.Name, col.Skewness))
		}
		if col.NullPercentage > 25 {
			sparse = append(sparse, fmt.Sprintf("%s (%.0f%% missing)", col.Name, col.NullPercentage))
		}
	}
	if len(skewed) > 0 || len(sparse) > 0 {
		sb.WriteString("\n## Distributions\n\n")
		if len(skewed) > 0 {
			fmt.Fprintf(&sb, "- Skewed numeric columns: %s.\n", strings.Join(skewed, ", "))
		}
		if len(sparse) > 0 {
			fmt.Fprintf(&sb, "- Sparse columns: %s.\n", strings.Join(sparse, ", "))
		}
	}

	strong := make([]string, 0)
	for _, pair := range req.Correlations {
		if pair.Strength == correlation.StrengthStrong || pair.Strength == correlation.StrengthVeryStrong {
			strong = append(strong, fmt.Sprintf("%s ↔ %s (r=%.3f, %s)", pair.ColumnA, pair.ColumnB, pair.Correlation, pair.Strength))
		}
		if len(strong) == 3 {
			break
		}
	}
	if len(strong) > 0 {
		sb.WriteString("\n## Correlations\n\n")
		for _, s := range strong {
			fmt.Fprintf(&sb, "- %s\n", s)
		}
	}

	return sb.String(), nil
}
