package postgres

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"sheetlens/domain/core"
	"sheetlens/domain/dashboard"
	"sheetlens/internal/errors"
	"sheetlens/ports"
)

// Schema for the dashboard store. Applied by EnsureSchema; versions are
// append-only and never updated in place.
const schema = `
CREATE TABLE IF NOT EXISTS dashboards (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	created_at  TIMESTAMPTZ NOT NULL,
	updated_at  TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS dashboard_versions (
	id           TEXT PRIMARY KEY,
	dashboard_id TEXT NOT NULL REFERENCES dashboards(id) ON DELETE CASCADE,
	note         TEXT NOT NULL DEFAULT '',
	snapshot     JSONB NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_dashboard_versions_dashboard
	ON dashboard_versions(dashboard_id, created_at);
`

// dashboardStore implements ports.DashboardStore on PostgreSQL
type dashboardStore struct {
	db *sqlx.DB
}

// NewDashboardStore creates a postgres-backed dashboard store
func NewDashboardStore(db *sqlx.DB) ports.DashboardStore {
	return &dashboardStore{db: db}
}

// EnsureSchema creates the store tables if they do not exist
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return errors.StoreError("failed to apply dashboard schema", err)
	}
	return nil
}

type dashboardRow struct {
	ID          string         `db:"id"`
	Name        string         `db:"name"`
	Description string         `db:"description"`
	CreatedAt   sql.NullTime   `db:"created_at"`
	UpdatedAt   sql.NullTime   `db:"updated_at"`
}

type versionRow struct {
	ID          string       `db:"id"`
	DashboardID string       `db:"dashboard_id"`
	Note        string       `db:"note"`
	Snapshot    []byte       `db:"snapshot"`
	CreatedAt   sql.NullTime `db:"created_at"`
}

// Get loads a dashboard and its versions, oldest first
func (s *dashboardStore) Get(ctx context.Context, id core.ID) (*dashboard.SavedDashboard, error) {
	var dr dashboardRow
	err := s.db.GetContext(ctx, &dr, `SELECT id, name, description, created_at, updated_at FROM dashboards WHERE id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFound("dashboard")
		}
		return nil, errors.StoreError("failed to load dashboard", err)
	}

	var vrs []versionRow
	err = s.db.SelectContext(ctx, &vrs, `SELECT id, dashboard_id, note, snapshot, created_at FROM dashboard_versions WHERE dashboard_id = $1 ORDER BY created_at ASC`, id)
	if err != nil {
		return nil, errors.StoreError("failed to load dashboard versions", err)
	}

	return toDomain(dr, vrs), nil
}

// List returns all dashboards with their versions
func (s *dashboardStore) List(ctx context.Context) ([]*dashboard.SavedDashboard, error) {
	var drs []dashboardRow
	err := s.db.SelectContext(ctx, &drs, `SELECT id, name, description, created_at, updated_at FROM dashboards ORDER BY updated_at DESC`)
	if err != nil {
		return nil, errors.StoreError("failed to list dashboards", err)
	}

	result := make([]*dashboard.SavedDashboard, 0, len(drs))
	for _, dr := range drs {
		var vrs []versionRow
		err = s.db.SelectContext(ctx, &vrs, `SELECT id, dashboard_id, note, snapshot, created_at FROM dashboard_versions WHERE dashboard_id = $1 ORDER BY created_at ASC`, dr.ID)
		if err != nil {
			return nil, errors.StoreError("failed to load dashboard versions", err)
		}
		result = append(result, toDomain(dr, vrs))
	}
	return result, nil
}

// Save upserts the dashboard row and appends any versions not yet stored
func (s *dashboardStore) Save(ctx context.Context, d *dashboard.SavedDashboard) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.StoreError("failed to begin transaction", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO dashboards (id, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			updated_at = EXCLUDED.updated_at`,
		d.ID, d.Name, d.Description, d.CreatedAt.Time(), d.UpdatedAt.Time())
	if err != nil {
		return errors.StoreError("failed to upsert dashboard", err)
	}

	for _, v := range d.Versions {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO dashboard_versions (id, dashboard_id, note, snapshot, created_at)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (id) DO NOTHING`,
			v.ID, d.ID, v.Note, []byte(v.Snapshot), v.CreatedAt.Time())
		if err != nil {
			return errors.StoreError("failed to insert dashboard version", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.StoreError("failed to commit dashboard save", err)
	}
	return nil
}

// Delete removes a dashboard and, via cascade, its versions
func (s *dashboardStore) Delete(ctx context.Context, id core.ID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM dashboards WHERE id = $1`, id)
	if err != nil {
		return errors.StoreError("failed to delete dashboard", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.NotFound("dashboard")
	}
	return nil
}

func toDomain(dr dashboardRow, vrs []versionRow) *dashboard.SavedDashboard {
	d := &dashboard.SavedDashboard{
		ID:          core.ID(dr.ID),
		Name:        dr.Name,
		Description: dr.Description,
		Versions:    make([]dashboard.Version, 0, len(vrs)),
		CreatedAt:   core.NewTimestamp(dr.CreatedAt.Time),
		UpdatedAt:   core.NewTimestamp(dr.UpdatedAt.Time),
	}
	for _, vr := range vrs {
		d.Versions = append(d.Versions, dashboard.Version{
			ID:        core.ID(vr.ID),
			Note:      vr.Note,
			Snapshot:  vr.Snapshot,
			CreatedAt: core.NewTimestamp(vr.CreatedAt.Time),
		})
	}
	return d
}
