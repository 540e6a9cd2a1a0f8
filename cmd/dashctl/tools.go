package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ettle/strcase"

	"github.com/goliatone/go-dashboard-builder/components/dashboard"
	"github.com/goliatone/go-dashboard-builder/components/dashboard/commands"
	"github.com/goliatone/go-dashboard-builder/pkg/auth"
)

type tokenCmd struct {
	Owner string `required:"" help:"User id recorded in the token."`
}

func (cmd *tokenCmd) Run(g *Globals) error {
	cfg, _, err := g.load()
	if err != nil {
		return err
	}
	if cfg.Auth.Secret == "" {
		return errors.New("dashctl: token needs DASH_JWT_SECRET")
	}
	sessions, err := auth.NewSessions(cfg.Auth.Secret, cfg.Auth.SessionTTL.Std())
	if err != nil {
		return err
	}
	token, err := sessions.Issue(cmd.Owner)
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}

type seedCmd struct {
	Owner string `required:"" help:"User id that owns the starter dashboard."`
}

func (cmd *seedCmd) Run(ctx context.Context, g *Globals) error {
	cfg, logger, err := g.load()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck
	store, closeStore, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore() //nolint:errcheck

	service := dashboard.NewService(dashboard.Options{
		Store:       store,
		Logger:      logger,
		Telemetry:   dashboard.NewZapTelemetry(logger),
		DefaultName: cfg.Dashboard.DefaultName,
	})
	var dash dashboard.Dashboard
	err = commands.NewSeedDashboardCommand(service, nil).Execute(ctx, commands.SeedDashboardInput{
		Identity: dashboard.Identity{OwnerID: cmd.Owner, Authenticated: true},
		Result:   &dash,
	})
	if dash.ID == "" {
		return err
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "some seed widgets were skipped: %v\n", err)
	}
	fmt.Printf("✓ Seeded dashboard %s for %s\n", dash.ID, cmd.Owner)
	return nil
}

type paletteCmd struct {
	Add paletteAddCmd `cmd:"" help:"Add or replace a palette entry in a palette YAML file."`
}

type paletteAddCmd struct {
	File        string `required:"" type:"path" help:"Palette YAML file to update (created when missing)."`
	Type        string `required:"" help:"Widget type (kpi, chart, notes, dataTable)."`
	Name        string `required:"" help:"Display name shown in the palette."`
	Description string `help:"One-line description."`
	Icon        string `help:"Icon name (defaults to the kebab-cased display name)."`
}

func (cmd *paletteAddCmd) Run() error {
	kind, err := parseKindFlag(cmd.Type)
	if err != nil {
		return err
	}
	doc, err := loadOrInitPalette(cmd.File)
	if err != nil {
		return err
	}
	icon := cmd.Icon
	if icon == "" {
		icon = strcase.ToKebab(cmd.Name)
	}
	entry := dashboard.PaletteEntry{
		Kind:        kind,
		Name:        strings.TrimSpace(cmd.Name),
		Description: cmd.Description,
		Icon:        icon,
	}
	replaced := false
	for idx := range doc.Widgets {
		if doc.Widgets[idx].Kind == kind {
			doc.Widgets[idx] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		doc.Widgets = append(doc.Widgets, entry)
	}
	if err := doc.Validate(); err != nil {
		return err
	}
	if err := writePalette(cmd.File, doc); err != nil {
		return err
	}
	fmt.Printf("✓ Added %s to %s\n", kind, cmd.File)
	return nil
}

// parseKindFlag accepts any casing of a widget type on the command line.
func parseKindFlag(value string) (dashboard.WidgetKind, error) {
	if kind, ok := dashboard.ParseWidgetKind(value); ok {
		return kind, nil
	}
	for _, kind := range dashboard.Kinds() {
		if strings.EqualFold(string(kind), strings.TrimSpace(value)) {
			return kind, nil
		}
	}
	return "", fmt.Errorf("dashctl: %w: %q", dashboard.ErrUnknownWidgetKind, value)
}

func loadOrInitPalette(path string) (*dashboard.PaletteDocument, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &dashboard.PaletteDocument{Version: dashboard.PaletteVersion, Source: path}, nil
		}
		return nil, fmt.Errorf("dashctl: stat palette: %w", err)
	}
	return dashboard.ReadPalette(path)
}

func writePalette(path string, doc *dashboard.PaletteDocument) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("dashctl: mkdir %s: %w", filepath.Dir(path), err)
	}
	file, err := os.Create(path) //nolint:gosec
	if err != nil {
		return fmt.Errorf("dashctl: create palette %s: %w", path, err)
	}
	defer file.Close()
	return dashboard.EncodePalette(file, doc)
}
