package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/goliatone/go-dashboard-builder/components/dashboard"
)

// timeLayout is fixed width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store is the SQLite-backed dashboard store.
type Store struct {
	db     *sql.DB
	logger *zap.Logger
	now    func() time.Time
}

var _ dashboard.DashboardStore = (*Store)(nil)

// Open creates the database file when needed, applies pragmas and runs the
// embedded migrations.
func Open(path string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// A single connection keeps pragmas and transactions on the same handle.
	db.SetMaxOpenConns(1)
	if err := enablePragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable pragmas: %w", err)
	}
	if err := RunMigrations(db); err != nil {
		db.Close()
		return nil, err
	}
	logger.Debug("sqlite store ready", zap.String("path", path))
	return &Store{db: db, logger: logger, now: time.Now}, nil
}

func enablePragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
		"PRAGMA synchronous=NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("execute %s: %w", pragma, err)
		}
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the handle for migrations tooling.
func (s *Store) DB() *sql.DB {
	return s.db
}

// CreateDashboard inserts a dashboard with a fresh ULID.
func (s *Store) CreateDashboard(ctx context.Context, input dashboard.CreateDashboardInput) (dashboard.Dashboard, error) {
	if input.OwnerID == "" {
		return dashboard.Dashboard{}, errors.New("sqlstore: owner id is required")
	}
	created := input.CreatedAt
	if created.IsZero() {
		created = s.now()
	}
	dash := dashboard.Dashboard{
		ID:        ulid.Make().String(),
		Name:      input.Name,
		OwnerID:   input.OwnerID,
		CreatedAt: created.UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO dashboards (id, name, owner_id, created_at) VALUES (?, ?, ?, ?)`,
		dash.ID, dash.Name, dash.OwnerID, dash.CreatedAt.Format(timeLayout),
	)
	if err != nil {
		return dashboard.Dashboard{}, fmt.Errorf("insert dashboard: %w", err)
	}
	return dash, nil
}

// ListDashboards returns the owner's dashboards, newest first.
func (s *Store) ListDashboards(ctx context.Context, ownerID string) ([]dashboard.Dashboard, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, owner_id, created_at FROM dashboards
		 WHERE owner_id = ? ORDER BY created_at DESC, id DESC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("query dashboards: %w", err)
	}
	defer rows.Close()
	out := []dashboard.Dashboard{}
	for rows.Next() {
		dash, err := scanDashboard(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, dash)
	}
	return out, rows.Err()
}

// GetDashboard returns the dashboard when it belongs to ownerID.
func (s *Store) GetDashboard(ctx context.Context, ownerID, dashboardID string) (dashboard.Dashboard, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, owner_id, created_at FROM dashboards WHERE id = ? AND owner_id = ?`,
		dashboardID, ownerID,
	)
	dash, err := scanDashboard(row)
	if errors.Is(err, sql.ErrNoRows) {
		return dashboard.Dashboard{}, dashboard.ErrNotFound
	}
	return dash, err
}

// ListWidgetRecords returns the dashboard's widgets ordered by (gridY, gridX).
func (s *Store) ListWidgetRecords(ctx context.Context, dashboardID string) ([]dashboard.WidgetRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, dashboard_id, type, grid_x, grid_y, grid_width, grid_height, configuration, created_at, updated_at
		 FROM widgets WHERE dashboard_id = ? ORDER BY grid_y, grid_x, position`,
		dashboardID,
	)
	if err != nil {
		return nil, fmt.Errorf("query widgets: %w", err)
	}
	defer rows.Close()
	out := []dashboard.WidgetRecord{}
	for rows.Next() {
		var (
			rec              dashboard.WidgetRecord
			config           string
			created, updated string
		)
		if err := rows.Scan(&rec.ID, &rec.DashboardID, &rec.Type, &rec.GridX, &rec.GridY,
			&rec.GridWidth, &rec.GridHeight, &config, &created, &updated); err != nil {
			return nil, fmt.Errorf("scan widget: %w", err)
		}
		rec.Configuration = []byte(config)
		rec.CreatedAt = parseTime(created)
		rec.UpdatedAt = parseTime(updated)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// ReplaceWidgets swaps the dashboard's widget set in one transaction.
func (s *Store) ReplaceWidgets(ctx context.Context, dashboardID string, records []dashboard.WidgetRecord) ([]dashboard.WidgetRecord, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM dashboards WHERE id = ?`, dashboardID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check dashboard: %w", err)
	}
	if exists == 0 {
		return nil, dashboard.ErrNotFound
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM widgets WHERE dashboard_id = ?`, dashboardID); err != nil {
		return nil, fmt.Errorf("delete widgets: %w", err)
	}

	now := s.now().UTC()
	stored := make([]dashboard.WidgetRecord, len(records))
	for i, rec := range records {
		if rec.ID == "" || dashboard.IsTemporaryID(rec.ID) {
			rec.ID = ulid.Make().String()
		}
		rec.DashboardID = dashboardID
		if rec.CreatedAt.IsZero() {
			rec.CreatedAt = now
		}
		if rec.UpdatedAt.IsZero() {
			rec.UpdatedAt = now
		}
		config := string(rec.Configuration)
		if config == "" {
			config = "{}"
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO widgets (id, dashboard_id, type, grid_x, grid_y, grid_width, grid_height, position, configuration, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			rec.ID, dashboardID, rec.Type, rec.GridX, rec.GridY, rec.GridWidth, rec.GridHeight, i,
			config, rec.CreatedAt.UTC().Format(timeLayout), rec.UpdatedAt.UTC().Format(timeLayout),
		)
		if err != nil {
			return nil, fmt.Errorf("insert widget %s: %w", rec.ID, err)
		}
		rec.Configuration = []byte(config)
		stored[i] = rec
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	s.logger.Debug("widgets replaced", zap.String("dashboard_id", dashboardID), zap.Int("count", len(stored)))
	return stored, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDashboard(row scanner) (dashboard.Dashboard, error) {
	var (
		dash    dashboard.Dashboard
		created string
	)
	if err := row.Scan(&dash.ID, &dash.Name, &dash.OwnerID, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return dashboard.Dashboard{}, err
		}
		return dashboard.Dashboard{}, fmt.Errorf("scan dashboard: %w", err)
	}
	dash.CreatedAt = parseTime(created)
	return dash, nil
}

func parseTime(value string) time.Time {
	t, err := time.Parse(timeLayout, value)
	if err != nil {
		return time.Time{}
	}
	return t
}
