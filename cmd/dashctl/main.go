package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"

	"github.com/goliatone/go-dashboard-builder/components/dashboard"
	"github.com/goliatone/go-dashboard-builder/components/dashboard/sqlstore"
	"github.com/goliatone/go-dashboard-builder/pkg/config"
	"github.com/goliatone/go-dashboard-builder/pkg/logging"
)

// Globals are flags shared by every command.
type Globals struct {
	Config  string `short:"c" type:"path" default:"dashboard.yaml" help:"Path to the YAML config file (missing files use defaults)."`
	EnvFile string `name:"env-file" type:"path" default:".env" help:"Optional dotenv file loaded before DASH_* overrides."`
}

type cli struct {
	Globals

	Serve   serveCmd   `cmd:"" help:"Run the dashboard HTTP server."`
	Migrate migrateCmd `cmd:"" help:"Apply database migrations and print the schema version."`
	Token   tokenCmd   `cmd:"" help:"Issue a session token for a user."`
	Seed    seedCmd    `cmd:"" help:"Create a starter dashboard for a user."`
	Palette paletteCmd `cmd:"" help:"Manage widget palette files."`
}

func main() {
	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var root cli
	ctx := kong.Parse(&root,
		kong.Name("dashctl"),
		kong.Description("Dashboard builder server and tooling."),
		kong.UsageOnError(),
		kong.Bind(&root.Globals),
		kong.BindTo(runCtx, (*context.Context)(nil)),
	)
	ctx.FatalIfErrorf(ctx.Run())
}

func (g *Globals) load() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(g.Config, g.EnvFile)
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.New(logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

// openStore picks the sqlite store when a database path is configured. The
// returned close func is never nil.
func openStore(cfg *config.Config, logger *zap.Logger) (dashboard.DashboardStore, func() error, error) {
	if cfg.Database.Path == "" {
		logger.Warn("no database path configured, dashboards are kept in memory")
		return dashboard.NewInMemoryStore(), func() error { return nil }, nil
	}
	store, err := sqlstore.Open(cfg.Database.Path, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("dashctl: open store: %w", err)
	}
	return store, store.Close, nil
}

type migrateCmd struct{}

func (cmd *migrateCmd) Run(g *Globals) error {
	cfg, logger, err := g.load()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck
	if cfg.Database.Path == "" {
		return fmt.Errorf("dashctl: migrate needs database.path or DASH_DB_PATH")
	}
	store, err := sqlstore.Open(cfg.Database.Path, logger)
	if err != nil {
		return err
	}
	defer store.Close()
	version, err := sqlstore.MigrationVersion(store.DB())
	if err != nil {
		return err
	}
	fmt.Printf("✓ %s at schema version %d\n", cfg.Database.Path, version)
	return nil
}
