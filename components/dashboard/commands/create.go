package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-dashboard-builder/components/dashboard"
)

// CreateDashboardInput asks for a new dashboard owned by Identity. When Result
// is set it receives the user-facing outcome, failures included.
type CreateDashboardInput struct {
	Identity dashboard.Identity
	Result   *dashboard.CreateDashboardResult
}

type createService interface {
	CreateDashboard(ctx context.Context, identity dashboard.Identity) (dashboard.Dashboard, error)
}

// CreateDashboardCommand wraps Service.CreateDashboard.
type CreateDashboardCommand struct {
	service   createService
	telemetry Telemetry
}

// NewCreateDashboardCommand builds the command.
func NewCreateDashboardCommand(service createService, telemetry Telemetry) *CreateDashboardCommand {
	return &CreateDashboardCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[CreateDashboardInput] = (*CreateDashboardCommand)(nil)

// Execute creates the dashboard.
func (c *CreateDashboardCommand) Execute(ctx context.Context, msg CreateDashboardInput) error {
	if c.service == nil {
		return errors.New("create command requires service")
	}
	dash, err := c.service.CreateDashboard(ctx, msg.Identity)
	if msg.Result != nil {
		*msg.Result = dashboard.NewCreateDashboardResult(dash, err)
	}
	if err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.command.create", map[string]any{
		"dashboard_id": dash.ID,
	})
	return nil
}
