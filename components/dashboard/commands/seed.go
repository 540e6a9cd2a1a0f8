package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-dashboard-builder/components/dashboard"
)

// SeedDashboardInput creates a starter dashboard for Identity. Seeds defaults
// to dashboard.DefaultSeedWidgets.
type SeedDashboardInput struct {
	Identity dashboard.Identity
	Seeds    []dashboard.SeedWidget
	Result   *dashboard.Dashboard
}

// SeedDashboardCommand runs the bootstrap pipeline.
type SeedDashboardCommand struct {
	service   *dashboard.Service
	telemetry Telemetry
}

// NewSeedDashboardCommand wires dependencies.
func NewSeedDashboardCommand(service *dashboard.Service, telemetry Telemetry) *SeedDashboardCommand {
	return &SeedDashboardCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SeedDashboardInput] = (*SeedDashboardCommand)(nil)

// Execute seeds the dashboard. A dashboard is returned in Result even when
// some seeds were rejected.
func (c *SeedDashboardCommand) Execute(ctx context.Context, msg SeedDashboardInput) error {
	if c.service == nil {
		return errors.New("seed command requires service")
	}
	seeds := msg.Seeds
	if seeds == nil {
		seeds = dashboard.DefaultSeedWidgets()
	}
	dash, err := dashboard.SeedDashboardWith(ctx, c.service, msg.Identity, seeds)
	if msg.Result != nil {
		*msg.Result = dash
	}
	if dash.ID != "" {
		c.telemetry.Record(ctx, "dashboard.seed", map[string]any{
			"dashboard_id": dash.ID,
			"seeds":        len(seeds),
		})
	}
	return err
}
