package api

import (
	"log/slog"
	"net/http"
	"sync"

	"aiteam-manager/internal/interfaces"
	"aiteam-manager/internal/model"
	"aiteam-manager/internal/syncbus"
)

// View update kinds, sent as the SSE event name.
const (
	UpdateSidebar           = "sidebar"
	UpdateChat              = "chat"
	UpdateWelcome           = "welcome"
	UpdateProviderSelectors = "provider-selectors"
	UpdateProviderList      = "provider-list"
)

const subscriberBuffer = 32

// ViewUpdate is one instruction for the rendering client.
type ViewUpdate struct {
	Kind  string        `json:"kind"`
	Chats []*model.Chat `json:"chats,omitempty"`
	Chat  *model.Chat   `json:"chat,omitempty"`
}

// Notifier is the view the sync bus drives. It renders nothing itself; it
// forwards each update to the clients subscribed on GET /events.
type Notifier struct {
	mu             sync.Mutex
	subscribers    map[chan ViewUpdate]struct{}
	settingsActive bool
}

func NewNotifier() *Notifier {
	return &Notifier{subscribers: make(map[chan ViewUpdate]struct{})}
}

// publish never blocks the bus. A subscriber whose buffer is full misses the
// update and will catch up on the next sidebar render.
func (n *Notifier) publish(u ViewUpdate) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for ch := range n.subscribers {
		select {
		case ch <- u:
		default:
			slog.Warn("View subscriber is behind; update dropped", "kind", u.Kind)
		}
	}
}

func (n *Notifier) subscribe() chan ViewUpdate {
	ch := make(chan ViewUpdate, subscriberBuffer)
	n.mu.Lock()
	n.subscribers[ch] = struct{}{}
	n.mu.Unlock()
	return ch
}

func (n *Notifier) unsubscribe(ch chan ViewUpdate) {
	n.mu.Lock()
	delete(n.subscribers, ch)
	n.mu.Unlock()
}

func (n *Notifier) Subscribers() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.subscribers)
}

func (n *Notifier) RenderSidebar(chats []*model.Chat) {
	n.publish(ViewUpdate{Kind: UpdateSidebar, Chats: chats})
}

func (n *Notifier) RefreshChat(chat *model.Chat) {
	n.publish(ViewUpdate{Kind: UpdateChat, Chat: chat})
}

func (n *Notifier) ShowWelcome() { n.publish(ViewUpdate{Kind: UpdateWelcome}) }

func (n *Notifier) RefreshProviderSelectors() {
	n.publish(ViewUpdate{Kind: UpdateProviderSelectors})
}

func (n *Notifier) RenderProviderList() { n.publish(ViewUpdate{Kind: UpdateProviderList}) }

// SettingsActive reports whether the client has its provider settings
// screen open.
func (n *Notifier) SettingsActive() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.settingsActive
}

func (n *Notifier) SetSettingsActive(active bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.settingsActive = active
}

// HandleEvents streams view updates as Server-Sent Events until the client
// goes away.
func (n *Notifier) HandleEvents(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}

	ch := n.subscribe()
	defer n.unsubscribe(ch)
	slog.Debug("View subscriber connected")

	for {
		select {
		case <-r.Context().Done():
			slog.Debug("View subscriber disconnected")
			return
		case u := <-ch:
			if err := writeStreamEvent(w, u.Kind, u); err != nil {
				slog.Warn("Could not write view update, client likely disconnected", "error", err)
				return
			}
		}
	}
}

// ViewStateRequest is the body of PUT /view. Absent fields are unchanged.
type ViewStateRequest struct {
	Visible        *bool `json:"visible"`
	SettingsActive *bool `json:"settingsActive"`
}

// ViewHandler lets the client report what it is showing.
type ViewHandler struct {
	notifier *Notifier
	bus      interfaces.Broadcaster
}

func NewViewHandler(notifier *Notifier, bus interfaces.Broadcaster) *ViewHandler {
	return &ViewHandler{notifier: notifier, bus: bus}
}

// UpdateView records the settings screen state first, so a reconciliation
// triggered by becoming visible already sees it.
func (h *ViewHandler) UpdateView(w http.ResponseWriter, r *http.Request) {
	var req ViewStateRequest
	if err := bind(r, &req); err != nil {
		respondWithError(w, err)
		return
	}
	if req.SettingsActive != nil {
		h.notifier.SetSettingsActive(*req.SettingsActive)
	}
	if req.Visible != nil {
		h.bus.SetVisible(r.Context(), *req.Visible)
	}
	respondWithJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

var _ syncbus.View = (*Notifier)(nil)
