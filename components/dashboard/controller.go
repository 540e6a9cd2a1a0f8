package dashboard

import (
	"context"
	"errors"
	"io"
)

// DashboardLoader is the slice of Service the controller needs.
type DashboardLoader interface {
	LoadDashboard(ctx context.Context, identity Identity, dashboardID string) (DashboardView, error)
}

// ControllerOptions wires the controller collaborators.
type ControllerOptions struct {
	Service  DashboardLoader
	Renderer *WidgetRenderer
}

// Controller renders dashboards for HTML and JSON transports.
type Controller struct {
	service  DashboardLoader
	renderer *WidgetRenderer
}

// NewController wires the service and renderer into a controller.
func NewController(opts ControllerOptions) *Controller {
	return &Controller{service: opts.Service, renderer: opts.Renderer}
}

// RenderDashboard loads the stored dashboard and writes its grid fragment.
func (c *Controller) RenderDashboard(ctx context.Context, identity Identity, dashboardID string, out io.Writer) error {
	view, err := c.load(ctx, identity, dashboardID)
	if err != nil {
		return err
	}
	return c.RenderWidgets(view.Widgets, out)
}

// RenderWidgets writes the grid fragment for an ordered widget list.
func (c *Controller) RenderWidgets(widgets []Widget, out io.Writer) error {
	if c.renderer == nil {
		return errors.New("dashboard: controller renderer not configured")
	}
	return c.renderer.RenderGrid(widgets, out)
}

// LayoutPayload returns the JSON-friendly form of a stored dashboard.
func (c *Controller) LayoutPayload(ctx context.Context, identity Identity, dashboardID string) (map[string]any, error) {
	view, err := c.load(ctx, identity, dashboardID)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"dashboard": view.Dashboard,
		"widgets":   view.Widgets,
		"grid":      GridViewFor(view.Widgets),
	}, nil
}

func (c *Controller) load(ctx context.Context, identity Identity, dashboardID string) (DashboardView, error) {
	if c.service == nil {
		return DashboardView{}, errMissingStore
	}
	return c.service.LoadDashboard(ctx, identity, dashboardID)
}
