package dashboard

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

const subscriberBuffer = 16

// EventFilter narrows a subscription. Empty fields match everything.
type EventFilter struct {
	OwnerID     string
	DashboardID string
}

func (f EventFilter) matches(event WidgetEvent) bool {
	if f.OwnerID != "" && f.OwnerID != event.OwnerID {
		return false
	}
	return f.DashboardID == "" || f.DashboardID == event.DashboardID
}

// BroadcastHook is a RefreshHook that fans widget events out to live
// subscribers such as WebSocket and SSE streams.
type BroadcastHook struct {
	mu   sync.RWMutex
	subs map[int]subscription
	next int
}

type subscription struct {
	filter EventFilter
	ch     chan WidgetEvent
}

// NewBroadcastHook creates a broadcast hook.
func NewBroadcastHook() *BroadcastHook {
	return &BroadcastHook{subs: make(map[int]subscription)}
}

// WidgetUpdated delivers event to every matching subscriber. Slow subscribers
// miss events rather than block the gesture that produced them.
func (h *BroadcastHook) WidgetUpdated(_ context.Context, event WidgetEvent) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, sub := range h.subs {
		if !sub.filter.matches(event) {
			continue
		}
		select {
		case sub.ch <- event:
		default:
		}
	}
	return nil
}

// Subscribe returns every widget event and a cancel func.
func (h *BroadcastHook) Subscribe() (<-chan WidgetEvent, func()) {
	return h.SubscribeFiltered(EventFilter{})
}

// SubscribeDashboard returns events for one dashboard only.
func (h *BroadcastHook) SubscribeDashboard(dashboardID string) (<-chan WidgetEvent, func()) {
	return h.SubscribeFiltered(EventFilter{DashboardID: dashboardID})
}

// SubscribeFiltered returns the events matching filter. The channel is closed
// by cancel.
func (h *BroadcastHook) SubscribeFiltered(filter EventFilter) (<-chan WidgetEvent, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.next
	h.next++
	ch := make(chan WidgetEvent, subscriberBuffer)
	h.subs[id] = subscription{filter: filter, ch: ch}
	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subs, id)
			close(ch)
		})
	}
	return ch, cancel
}

// Subscribers reports the number of active subscriptions.
func (h *BroadcastHook) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// requestFilter scopes a stream to the identity on the request context and
// the optional "dashboard" query parameter.
func requestFilter(r *http.Request) (EventFilter, bool) {
	identity := IdentityFrom(r.Context())
	if !identity.Valid() {
		return EventFilter{}, false
	}
	return EventFilter{OwnerID: identity.OwnerID, DashboardID: r.URL.Query().Get("dashboard")}, true
}

// ServeWebSocket streams the caller's widget events as JSON frames.
// Anonymous requests are rejected before the upgrade.
func (h *BroadcastHook) ServeWebSocket(w http.ResponseWriter, r *http.Request) {
	filter, ok := requestFilter(r)
	if !ok {
		http.Error(w, ErrAuthenticationRequired.Error(), http.StatusUnauthorized)
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	events, cancel := h.SubscribeFiltered(filter)
	defer cancel()
	for {
		select {
		case <-r.Context().Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := conn.WriteJSON(event); err != nil {
				return
			}
		}
	}
}

// ServeSSE streams the caller's widget events as Server-Sent Events named
// after the event reason.
func (h *BroadcastHook) ServeSSE(w http.ResponseWriter, r *http.Request) {
	filter, ok := requestFilter(r)
	if !ok {
		http.Error(w, ErrAuthenticationRequired.Error(), http.StatusUnauthorized)
		return
	}
	h.StreamSSE(w, r, filter)
}

// StreamSSE writes events matching filter until the request ends.
func (h *BroadcastHook) StreamSSE(w http.ResponseWriter, r *http.Request, filter EventFilter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	events, cancel := h.SubscribeFiltered(filter)
	defer cancel()

	flusher, _ := w.(http.Flusher)
	if flusher != nil {
		flusher.Flush()
	}
	for {
		select {
		case <-r.Context().Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			payload, err := json.Marshal(event)
			if err != nil {
				return
			}
			if _, err := w.Write([]byte("event: " + event.Reason + "\ndata: " + string(payload) + "\n\n")); err != nil {
				return
			}
			if flusher != nil {
				flusher.Flush()
			}
		}
	}
}
