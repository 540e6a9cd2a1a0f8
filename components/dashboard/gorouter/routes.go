package gorouter

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	gocommand "github.com/goliatone/go-command"
	router "github.com/goliatone/go-router"

	"github.com/goliatone/go-dashboard-builder/components/dashboard"
	"github.com/goliatone/go-dashboard-builder/components/dashboard/commands"
	"github.com/goliatone/go-dashboard-builder/components/dashboard/httpapi"
	"github.com/goliatone/go-dashboard-builder/components/dashboard/queries"
)

// IdentityLocalsKey is the Locals key an auth middleware stores the caller
// under.
const IdentityLocalsKey = "dashboard.identity"

// IdentityResolver converts a router.Context into the calling identity.
type IdentityResolver func(router.Context) dashboard.Identity

// Config wires go-router with the dashboard controller, APIs and hooks.
type Config[T any] struct {
	Router           router.Router[T]
	Controller       *dashboard.Controller
	API              httpapi.Executor
	Dashboards       gocommand.Querier[dashboard.Identity, []dashboard.Dashboard]
	Workspace        gocommand.Querier[queries.DashboardInput, dashboard.WorkspaceSnapshot]
	Palette          gocommand.Querier[queries.PaletteInput, []dashboard.PaletteEntry]
	Broadcast        *dashboard.BroadcastHook
	IdentityResolver IdentityResolver
	BasePath         string
	Routes           RouteConfig
}

// RouteConfig customizes the relative paths used for dashboard endpoints.
type RouteConfig struct {
	Dashboards    string
	Dashboard     string
	Fragment      string
	Workspace     string
	Widgets       string
	Configuration string
	DragStart     string
	DragEnd       string
	EditorOpen    string
	EditorSave    string
	EditorCancel  string
	Save          string
	Refresh       string
	Palette       string
	WebSocket     string
}

// Register mounts dashboard routes (HTML, JSON, WebSocket) on a go-router router.
func Register[T any](cfg Config[T]) error {
	if cfg.Router == nil {
		return errors.New("gorouter: router is required")
	}
	if cfg.Controller == nil {
		return errors.New("gorouter: controller is required")
	}
	base := cfg.BasePath
	if base == "" {
		base = "/app"
	}
	resolver := cfg.IdentityResolver
	if resolver == nil {
		resolver = DefaultIdentityResolver
	}
	routes := defaultRouteConfig(cfg.Routes)
	group := cfg.Router.Group(base)

	group.Get(routes.Dashboard, router.WrapHandler(func(ctx router.Context) error {
		payload, err := cfg.Controller.LayoutPayload(ctx.Context(), resolver(ctx), ctx.Param("id"))
		if err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, payload)
	}))

	group.Get(routes.Fragment, router.WrapHandler(func(ctx router.Context) error {
		var buf bytes.Buffer
		if err := cfg.Controller.RenderDashboard(ctx.Context(), resolver(ctx), ctx.Param("id"), &buf); err != nil {
			return respondError(ctx, err)
		}
		ctx.SetHeader("Content-Type", "text/html; charset=utf-8")
		return ctx.Send(buf.Bytes())
	}))

	if cfg.Dashboards != nil {
		group.Get(routes.Dashboards, router.WrapHandler(func(ctx router.Context) error {
			list, err := cfg.Dashboards.Query(ctx.Context(), resolver(ctx))
			if err != nil {
				return respondError(ctx, err)
			}
			return ctx.JSON(http.StatusOK, map[string]any{"dashboards": list})
		}))
	}

	if cfg.Workspace != nil {
		group.Get(routes.Workspace, router.WrapHandler(func(ctx router.Context) error {
			snap, err := cfg.Workspace.Query(ctx.Context(), queries.DashboardInput{
				Identity:    resolver(ctx),
				DashboardID: ctx.Param("id"),
			})
			if err != nil {
				return respondError(ctx, err)
			}
			return ctx.JSON(http.StatusOK, snap)
		}))
	}

	if cfg.Palette != nil {
		group.Get(routes.Palette, router.WrapHandler(func(ctx router.Context) error {
			entries, err := cfg.Palette.Query(ctx.Context(), queries.PaletteInput{})
			if err != nil {
				return respondError(ctx, err)
			}
			return ctx.JSON(http.StatusOK, map[string]any{"widgets": entries})
		}))
	}

	if cfg.API != nil {
		registerAPI(group, cfg.API, resolver, routes)
	}

	if cfg.Broadcast != nil {
		registerWebSocket(group, cfg.Broadcast, resolver, routes.WebSocket)
	}

	return nil
}

func registerAPI[T any](r router.Router[T], api httpapi.Executor, resolver IdentityResolver, routes RouteConfig) {
	target := func(ctx router.Context) commands.Target {
		return commands.Target{Identity: resolver(ctx), DashboardID: ctx.Param("id")}
	}

	r.Post(routes.Dashboards, router.WrapHandler(func(ctx router.Context) error {
		result, err := api.CreateDashboard(ctx.Context(), resolver(ctx))
		if err != nil {
			return ctx.JSON(httpapi.StatusFor(err), result)
		}
		return ctx.JSON(http.StatusCreated, result)
	}))

	r.Post(routes.Widgets, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.AddWidgetInput
		if err := decodeBody(ctx, &payload); err != nil {
			return respondStatus(ctx, http.StatusBadRequest, err)
		}
		payload.Target = target(ctx)
		widget, err := api.AddWidget(ctx.Context(), payload)
		if err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusCreated, widget)
	}))

	r.Post(routes.Configuration, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.UpdateConfigurationInput
		if err := decodeBody(ctx, &payload); err != nil {
			return respondStatus(ctx, http.StatusBadRequest, err)
		}
		payload.Target = target(ctx)
		payload.WidgetID = ctx.Param("widget")
		updated, err := api.UpdateConfiguration(ctx.Context(), payload)
		if err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, map[string]bool{"updated": updated})
	}))

	r.Post(routes.DragStart, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.BeginDragInput
		if err := decodeBody(ctx, &payload); err != nil {
			return respondStatus(ctx, http.StatusBadRequest, err)
		}
		payload.Target = target(ctx)
		if err := api.BeginDrag(ctx.Context(), payload); err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "dragging"})
	}))

	r.Post(routes.DragEnd, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.CompleteDragInput
		if err := decodeBody(ctx, &payload); err != nil {
			return respondStatus(ctx, http.StatusBadRequest, err)
		}
		payload.Target = target(ctx)
		moved, err := api.CompleteDrag(ctx.Context(), payload)
		if err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, map[string]bool{"moved": moved})
	}))

	r.Post(routes.EditorOpen, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.OpenEditorInput
		if err := decodeBody(ctx, &payload); err != nil {
			return respondStatus(ctx, http.StatusBadRequest, err)
		}
		payload.Target = target(ctx)
		view, err := api.OpenEditor(ctx.Context(), payload)
		if err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, view)
	}))

	r.Post(routes.EditorSave, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.SaveEditorInput
		if err := decodeBody(ctx, &payload); err != nil {
			return respondStatus(ctx, http.StatusBadRequest, err)
		}
		payload.Target = target(ctx)
		view, err := api.SaveEditor(ctx.Context(), payload)
		if err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, view)
	}))

	r.Post(routes.EditorCancel, router.WrapHandler(func(ctx router.Context) error {
		if err := api.CancelEditor(ctx.Context(), commands.CancelEditorInput{Target: target(ctx)}); err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "closed"})
	}))

	r.Post(routes.Save, router.WrapHandler(func(ctx router.Context) error {
		saved, err := api.SaveLayout(ctx.Context(), commands.SaveLayoutInput{Target: target(ctx)})
		if err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, map[string]any{"widgets": saved})
	}))

	r.Post(routes.Refresh, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.RefreshWidgetInput
		if err := decodeBody(ctx, &payload); err != nil {
			return respondStatus(ctx, http.StatusBadRequest, err)
		}
		payload.Identity = resolver(ctx)
		payload.DashboardID = ctx.Param("id")
		if err := api.Refresh(ctx.Context(), payload); err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusAccepted, map[string]string{"status": "queued"})
	}))
}

// registerWebSocket streams the caller's widget events. Events for other
// owners are never forwarded.
func registerWebSocket[T any](r router.Router[T], hook *dashboard.BroadcastHook, resolver IdentityResolver, path string) {
	cfg := router.DefaultWebSocketConfig()
	r.WebSocket(path, cfg, func(ws router.WebSocketContext) error {
		identity := resolver(ws)
		if !identity.Valid() {
			return ws.Close()
		}
		events, cancel := hook.SubscribeFiltered(dashboard.EventFilter{OwnerID: identity.OwnerID})
		defer cancel()
		for {
			select {
			case event, ok := <-events:
				if !ok {
					return nil
				}
				if err := ws.WriteJSON(event); err != nil {
					return err
				}
			case <-ws.Context().Done():
				return ws.Close()
			}
		}
	})
}

// DefaultIdentityResolver reads the identity an auth middleware stored in
// Locals, falling back to a bare user_id and then the request context.
func DefaultIdentityResolver(ctx router.Context) dashboard.Identity {
	if identity, ok := ctx.Locals(IdentityLocalsKey).(dashboard.Identity); ok {
		return identity
	}
	if userID, ok := ctx.Locals("user_id").(string); ok && userID != "" {
		return dashboard.Identity{OwnerID: userID, Authenticated: true}
	}
	return dashboard.IdentityFrom(ctx.Context())
}

func decodeBody(ctx router.Context, v any) error {
	body := ctx.Body()
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, v); err != nil {
		return errors.New("invalid JSON body")
	}
	return nil
}

func respondError(ctx router.Context, err error) error {
	return respondStatus(ctx, httpapi.StatusFor(err), err)
}

func respondStatus(ctx router.Context, status int, err error) error {
	return ctx.JSON(status, httpapi.NewProblem(status, err))
}

func defaultRouteConfig(routes RouteConfig) RouteConfig {
	if routes.Dashboards == "" {
		routes.Dashboards = "/dashboards"
	}
	if routes.Dashboard == "" {
		routes.Dashboard = "/dashboards/:id"
	}
	if routes.Fragment == "" {
		routes.Fragment = "/dashboards/:id/fragment"
	}
	if routes.Workspace == "" {
		routes.Workspace = "/dashboards/:id/workspace"
	}
	if routes.Widgets == "" {
		routes.Widgets = "/dashboards/:id/widgets"
	}
	if routes.Configuration == "" {
		routes.Configuration = "/dashboards/:id/widgets/:widget/configuration"
	}
	if routes.DragStart == "" {
		routes.DragStart = "/dashboards/:id/drag/start"
	}
	if routes.DragEnd == "" {
		routes.DragEnd = "/dashboards/:id/drag/end"
	}
	if routes.EditorOpen == "" {
		routes.EditorOpen = "/dashboards/:id/editor/open"
	}
	if routes.EditorSave == "" {
		routes.EditorSave = "/dashboards/:id/editor/save"
	}
	if routes.EditorCancel == "" {
		routes.EditorCancel = "/dashboards/:id/editor/cancel"
	}
	if routes.Save == "" {
		routes.Save = "/dashboards/:id/save"
	}
	if routes.Refresh == "" {
		routes.Refresh = "/dashboards/:id/refresh"
	}
	if routes.Palette == "" {
		routes.Palette = "/palette"
	}
	if routes.WebSocket == "" {
		routes.WebSocket = "/ws"
	}
	return routes
}
