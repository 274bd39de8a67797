package testkit

import (
	"fmt"
	"math"
	"math/rand"

	"sheetlens/domain/dataset"
	"sheetlens/internal/analysis"
)

// SalesGeneratorConfig configures the deterministic sales data generator
type SalesGeneratorConfig struct {
	RowCount      int     `json:"row_count"`
	Seed          int64   `json:"seed"`
	MissingRate   float64 `json:"missing_rate"`   // share of notes left null
	OutlierRate   float64 `json:"outlier_rate"`   // share of discount spikes
	DuplicateRate float64 `json:"duplicate_rate"` // share of rows repeated verbatim
}

// DefaultSalesConfig returns sensible defaults
func DefaultSalesConfig() SalesGeneratorConfig {
	return SalesGeneratorConfig{
		RowCount:      200,
		Seed:          42,
		MissingRate:   0.15,
		OutlierRate:   0.03,
		DuplicateRate: 0.05,
	}
}

// SalesDataGenerator produces a small, realistic retail dataset with known
// properties: units and revenue strongly correlated, a discount column with
// injected outliers, a sparse notes column, and a few duplicate rows.
type SalesDataGenerator struct {
	config SalesGeneratorConfig
	rng    *rand.Rand
}

// NewSalesDataGenerator creates a generator seeded from the config
func NewSalesDataGenerator(config SalesGeneratorConfig) *SalesDataGenerator {
	return &SalesDataGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

var regions = []string{"North", "South", "East", "West"}
var products = []string{"Widget", "Gadget", "Sprocket", "Flange", "Gizmo"}

// Generate builds the dataset. Identical configs yield identical datasets.
func (g *SalesDataGenerator) Generate() *dataset.Dataset {
	headers := []string{"order_id", "region", "product", "units", "unit_price", "revenue", "discount", "notes"}

	rows := make([]dataset.Row, 0, g.config.RowCount)
	for i := 0; i < g.config.RowCount; i++ {
		if len(rows) > 0 && g.rng.Float64() < g.config.DuplicateRate {
			src := rows[g.rng.Intn(len(rows))]
			dup := make(dataset.Row, len(src))
			for k, v := range src {
				dup[k] = v
			}
			rows = append(rows, dup)
			continue
		}

		units := float64(1 + g.rng.Intn(40))
		unitPrice := 5 + g.rng.Float64()*45
		revenue := units*unitPrice + g.rng.NormFloat64()*10

		discount := g.rng.Float64() * 0.15
		if g.rng.Float64() < g.config.OutlierRate {
			discount = 0.9 + g.rng.Float64()*0.1 // injected outlier
		}

		notes := dataset.Null()
		if g.rng.Float64() >= g.config.MissingRate {
			notes = dataset.Text(fmt.Sprintf("fulfilled by warehouse %d", 1+g.rng.Intn(3)))
		}

		rows = append(rows, dataset.Row{
			"order_id":   dataset.Text(fmt.Sprintf("ORD-%05d", i+1)),
			"region":     dataset.Text(regions[g.rng.Intn(len(regions))]),
			"product":    dataset.Text(products[g.rng.Intn(len(products))]),
			"units":      dataset.Number(units),
			"unit_price": dataset.Number(round2(unitPrice)),
			"revenue":    dataset.Number(round2(revenue)),
			"discount":   dataset.Number(round2(discount)),
			"notes":      notes,
		})
	}

	return analysis.BuildDataset("demo_sales", headers, rows)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
