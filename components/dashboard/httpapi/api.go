package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-dashboard-builder/components/dashboard"
	"github.com/goliatone/go-dashboard-builder/components/dashboard/commands"
	"github.com/goliatone/go-dashboard-builder/components/dashboard/queries"
)

// IdentityResolver extracts the caller from a request.
type IdentityResolver func(*http.Request) dashboard.Identity

// Handlers exposes HTTP endpoints backed by shared commands. The optional
// collaborators enable the matching read routes.
type Handlers struct {
	API        Executor
	Identity   IdentityResolver
	Controller *dashboard.Controller
	Dashboards gocommand.Querier[dashboard.Identity, []dashboard.Dashboard]
	Workspace  gocommand.Querier[queries.DashboardInput, dashboard.WorkspaceSnapshot]
	Palette    gocommand.Querier[queries.PaletteInput, []dashboard.PaletteEntry]
	// Events, when set, backs the per-dashboard SSE stream.
	Events *dashboard.BroadcastHook
}

// Mount registers the handlers on mux under the /dashboards tree. Paths,
// verbs and bodies match the go-router transport.
func (h *Handlers) Mount(mux *http.ServeMux) {
	withID := func(fn func(http.ResponseWriter, *http.Request, string)) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			fn(w, r, r.PathValue("id"))
		}
	}
	mux.HandleFunc("POST /dashboards", h.HandleCreateDashboard)
	mux.HandleFunc("POST /dashboards/{id}/widgets", withID(h.HandleAddWidget))
	mux.HandleFunc("POST /dashboards/{id}/widgets/{widget}/configuration", func(w http.ResponseWriter, r *http.Request) {
		h.HandleUpdateConfiguration(w, r, r.PathValue("id"), r.PathValue("widget"))
	})
	mux.HandleFunc("POST /dashboards/{id}/drag/start", withID(h.HandleBeginDrag))
	mux.HandleFunc("POST /dashboards/{id}/drag/end", withID(h.HandleCompleteDrag))
	mux.HandleFunc("POST /dashboards/{id}/editor/open", withID(h.HandleOpenEditor))
	mux.HandleFunc("POST /dashboards/{id}/editor/save", withID(h.HandleSaveEditor))
	mux.HandleFunc("POST /dashboards/{id}/editor/cancel", withID(h.HandleCancelEditor))
	mux.HandleFunc("POST /dashboards/{id}/save", withID(h.HandleSaveLayout))
	mux.HandleFunc("POST /dashboards/{id}/refresh", withID(h.HandleRefresh))
	if h.Controller != nil {
		mux.HandleFunc("GET /dashboards/{id}", withID(h.HandleDashboard))
		mux.HandleFunc("GET /dashboards/{id}/fragment", withID(h.HandleFragment))
	}
	if h.Dashboards != nil {
		mux.HandleFunc("GET /dashboards", h.HandleListDashboards)
	}
	if h.Workspace != nil {
		mux.HandleFunc("GET /dashboards/{id}/workspace", withID(h.HandleWorkspace))
	}
	if h.Palette != nil {
		mux.HandleFunc("GET /palette", h.HandlePalette)
	}
	if h.Events != nil {
		mux.HandleFunc("GET /dashboards/{id}/events", withID(h.HandleEvents))
	}
}

func (h *Handlers) HandleListDashboards(w http.ResponseWriter, r *http.Request) {
	list, err := h.Dashboards.Query(r.Context(), h.identity(r))
	if err != nil {
		WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"dashboards": list})
}

func (h *Handlers) HandleDashboard(w http.ResponseWriter, r *http.Request, dashboardID string) {
	payload, err := h.Controller.LayoutPayload(r.Context(), h.identity(r), dashboardID)
	if err != nil {
		WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

func (h *Handlers) HandleFragment(w http.ResponseWriter, r *http.Request, dashboardID string) {
	var buf bytes.Buffer
	if err := h.Controller.RenderDashboard(r.Context(), h.identity(r), dashboardID, &buf); err != nil {
		WriteError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func (h *Handlers) HandleWorkspace(w http.ResponseWriter, r *http.Request, dashboardID string) {
	snap, err := h.Workspace.Query(r.Context(), queries.DashboardInput{Identity: h.identity(r), DashboardID: dashboardID})
	if err != nil {
		WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (h *Handlers) HandlePalette(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Palette.Query(r.Context(), queries.PaletteInput{})
	if err != nil {
		WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"widgets": entries})
}

func (h *Handlers) HandleRefresh(w http.ResponseWriter, r *http.Request, dashboardID string) {
	var payload commands.RefreshWidgetInput
	if !decode(w, r, &payload) {
		return
	}
	payload.Identity = h.identity(r)
	payload.DashboardID = dashboardID
	if err := h.API.Refresh(r.Context(), payload); err != nil {
		WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
}

// HandleEvents streams the caller's events for one dashboard as SSE.
func (h *Handlers) HandleEvents(w http.ResponseWriter, r *http.Request, dashboardID string) {
	identity := h.identity(r)
	if !identity.Valid() {
		WriteError(w, dashboard.ErrAuthenticationRequired)
		return
	}
	h.Events.StreamSSE(w, r, dashboard.EventFilter{OwnerID: identity.OwnerID, DashboardID: dashboardID})
}

// HandleCreateDashboard answers with the create result body for both
// outcomes.
func (h *Handlers) HandleCreateDashboard(w http.ResponseWriter, r *http.Request) {
	result, err := h.API.CreateDashboard(r.Context(), h.identity(r))
	status := http.StatusCreated
	if err != nil {
		status = StatusFor(err)
	}
	writeJSON(w, status, result)
}

func (h *Handlers) HandleAddWidget(w http.ResponseWriter, r *http.Request, dashboardID string) {
	var payload commands.AddWidgetInput
	if !decode(w, r, &payload) {
		return
	}
	payload.Target = h.target(r, dashboardID)
	widget, err := h.API.AddWidget(r.Context(), payload)
	if err != nil {
		WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, widget)
}

func (h *Handlers) HandleUpdateConfiguration(w http.ResponseWriter, r *http.Request, dashboardID, widgetID string) {
	var payload commands.UpdateConfigurationInput
	if !decode(w, r, &payload) {
		return
	}
	payload.Target = h.target(r, dashboardID)
	payload.WidgetID = widgetID
	updated, err := h.API.UpdateConfiguration(r.Context(), payload)
	if err != nil {
		WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"updated": updated})
}

func (h *Handlers) HandleBeginDrag(w http.ResponseWriter, r *http.Request, dashboardID string) {
	var payload commands.BeginDragInput
	if !decode(w, r, &payload) {
		return
	}
	payload.Target = h.target(r, dashboardID)
	if err := h.API.BeginDrag(r.Context(), payload); err != nil {
		WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "dragging"})
}

func (h *Handlers) HandleCompleteDrag(w http.ResponseWriter, r *http.Request, dashboardID string) {
	var payload commands.CompleteDragInput
	if !decode(w, r, &payload) {
		return
	}
	payload.Target = h.target(r, dashboardID)
	moved, err := h.API.CompleteDrag(r.Context(), payload)
	if err != nil {
		WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"moved": moved})
}

func (h *Handlers) HandleOpenEditor(w http.ResponseWriter, r *http.Request, dashboardID string) {
	var payload commands.OpenEditorInput
	if !decode(w, r, &payload) {
		return
	}
	payload.Target = h.target(r, dashboardID)
	view, err := h.API.OpenEditor(r.Context(), payload)
	if err != nil {
		WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handlers) HandleSaveEditor(w http.ResponseWriter, r *http.Request, dashboardID string) {
	var payload commands.SaveEditorInput
	if !decode(w, r, &payload) {
		return
	}
	payload.Target = h.target(r, dashboardID)
	view, err := h.API.SaveEditor(r.Context(), payload)
	if err != nil {
		WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handlers) HandleCancelEditor(w http.ResponseWriter, r *http.Request, dashboardID string) {
	input := commands.CancelEditorInput{Target: h.target(r, dashboardID)}
	if err := h.API.CancelEditor(r.Context(), input); err != nil {
		WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "closed"})
}

func (h *Handlers) HandleSaveLayout(w http.ResponseWriter, r *http.Request, dashboardID string) {
	input := commands.SaveLayoutInput{Target: h.target(r, dashboardID)}
	saved, err := h.API.SaveLayout(r.Context(), input)
	if err != nil {
		WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"widgets": saved})
}

func (h *Handlers) identity(r *http.Request) dashboard.Identity {
	if h.Identity != nil {
		return h.Identity(r)
	}
	return dashboard.IdentityFrom(r.Context())
}

func (h *Handlers) target(r *http.Request, dashboardID string) commands.Target {
	return commands.Target{Identity: h.identity(r), DashboardID: dashboardID}
}

// decode reads an optional JSON body into v. An empty body leaves v untouched.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if r.Body == nil || r.ContentLength == 0 {
		return true
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		WriteProblem(w, http.StatusBadRequest, errors.New("invalid JSON body"))
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
