package ports

import (
	"context"

	"sheetlens/domain/core"
	"sheetlens/domain/dashboard"
)

// DashboardStore is the injected keyed store for saved dashboards and
// their version snapshots. The analysis engine never depends on it; only
// the HTTP layer does.
type DashboardStore interface {
	Get(ctx context.Context, id core.ID) (*dashboard.SavedDashboard, error)
	List(ctx context.Context) ([]*dashboard.SavedDashboard, error)
	Save(ctx context.Context, d *dashboard.SavedDashboard) error
	Delete(ctx context.Context, id core.ID) error
}
