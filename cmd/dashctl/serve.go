package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	router "github.com/goliatone/go-router"
	"go.uber.org/zap"

	"github.com/goliatone/go-dashboard-builder/components/dashboard"
	"github.com/goliatone/go-dashboard-builder/components/dashboard/commands"
	"github.com/goliatone/go-dashboard-builder/components/dashboard/gorouter"
	"github.com/goliatone/go-dashboard-builder/components/dashboard/httpapi"
	"github.com/goliatone/go-dashboard-builder/components/dashboard/queries"
	"github.com/goliatone/go-dashboard-builder/pkg/auth"
	"github.com/goliatone/go-dashboard-builder/pkg/config"
)

type serveCmd struct {
	Port      int    `help:"Override the configured listen port."`
	Transport string `enum:"fiber,http" default:"fiber" help:"HTTP stack: go-router on fiber, or net/http."`
}

func (cmd *serveCmd) Run(ctx context.Context, g *Globals) error {
	cfg, logger, err := g.load()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck
	if cmd.Port > 0 {
		cfg.Server.Port = cmd.Port
	}

	store, closeStore, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore() //nolint:errcheck

	app, err := newApp(cfg, logger, store)
	if err != nil {
		return err
	}
	logger.Info("dashboard server listening",
		zap.String("addr", cfg.Server.Addr()),
		zap.String("transport", cmd.Transport),
		zap.String("base_path", cfg.Server.BasePath),
	)
	if cmd.Transport == "http" {
		return serveHTTP(ctx, cfg.Server.Addr(), app.handler())
	}
	server := router.NewFiberAdapter()
	if err := app.register(server.Router()); err != nil {
		return err
	}
	return server.Serve(cfg.Server.Addr())
}

// app holds the wired service stack shared by both transports.
type app struct {
	cfg        *config.Config
	logger     *zap.Logger
	service    *dashboard.Service
	workspaces *dashboard.WorkspaceManager
	palette    *dashboard.Palette
	broadcast  *dashboard.BroadcastHook
	controller *dashboard.Controller
	executor   *httpapi.CommandExecutor
	sessions   *auth.Sessions
}

func newApp(cfg *config.Config, logger *zap.Logger, store dashboard.DashboardStore) (*app, error) {
	telemetry := dashboard.NewZapTelemetry(logger)
	broadcast := dashboard.NewBroadcastHook()
	service := dashboard.NewService(dashboard.Options{
		Store:       store,
		Logger:      logger,
		Telemetry:   telemetry,
		RefreshHook: dashboard.RefreshHooks{broadcast, dashboard.LoggingHook{Logger: logger}},
		DefaultName: cfg.Dashboard.DefaultName,
	})
	workspaces := dashboard.NewWorkspaceManager(service)

	palette := dashboard.NewPalette()
	if cfg.Dashboard.PalettePath != "" {
		if _, err := palette.LoadPaletteFile(cfg.Dashboard.PalettePath); err != nil {
			return nil, err
		}
	}

	renderer, err := dashboard.NewEmbeddedWidgetRenderer(cfg.Dashboard.FragmentTTL.Std())
	if err != nil {
		return nil, err
	}

	executor := httpapi.NewCommandExecutor(service, workspaces, telemetry)
	if cfg.Dashboard.SeedOnCreate {
		executor.Seed = commands.NewSeedDashboardCommand(service, telemetry)
	}

	a := &app{
		cfg:        cfg,
		logger:     logger,
		service:    service,
		workspaces: workspaces,
		palette:    palette,
		broadcast:  broadcast,
		controller: dashboard.NewController(dashboard.ControllerOptions{Service: service, Renderer: renderer}),
		executor:   executor,
	}
	if cfg.Auth.Secret != "" {
		a.sessions, err = auth.NewSessions(cfg.Auth.Secret, cfg.Auth.SessionTTL.Std())
		if err != nil {
			return nil, err
		}
	} else {
		logger.Warn("no session secret configured, bearer tokens are not accepted")
	}
	return a, nil
}

// register mounts every dashboard route on a go-router router.
func (a *app) register(r router.Router[*fiber.App]) error {
	var resolver gorouter.IdentityResolver = gorouter.DefaultIdentityResolver
	if a.sessions != nil {
		resolver = a.sessions.Resolver()
	}
	return gorouter.Register(gorouter.Config[*fiber.App]{
		Router:           r,
		Controller:       a.controller,
		API:              a.executor,
		Dashboards:       queries.NewListDashboardsQuery(a.service),
		Workspace:        queries.NewWorkspaceQuery(a.workspaces),
		Palette:          queries.NewPaletteQuery(a.palette),
		Broadcast:        a.broadcast,
		IdentityResolver: resolver,
		BasePath:         a.cfg.Server.BasePath,
	})
}

// handler builds the net/http transport under the configured base path.
func (a *app) handler() http.Handler {
	mux := http.NewServeMux()
	api := &httpapi.Handlers{
		API:        a.executor,
		Controller: a.controller,
		Dashboards: queries.NewListDashboardsQuery(a.service),
		Workspace:  queries.NewWorkspaceQuery(a.workspaces),
		Palette:    queries.NewPaletteQuery(a.palette),
		Events:     a.broadcast,
	}
	api.Mount(mux)
	var h http.Handler = mux
	if base := a.cfg.Server.BasePath; base != "" && base != "/" {
		h = http.StripPrefix(base, mux)
	}
	if a.sessions != nil {
		h = a.sessions.Middleware(h)
	}
	return h
}

func serveHTTP(ctx context.Context, addr string, handler http.Handler) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
