package syncbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"aiteam-manager/internal/model"

	"golang.org/x/sync/errgroup"
)

// Reconciler is the part of the chat manager the bus drives when another
// instance reports a write.
type Reconciler interface {
	ReloadChats(ctx context.Context) error
	RefreshChat(ctx context.Context, id string) (*model.Chat, error)
	GetChats() []*model.Chat
	CurrentChatID() string
	ForgetCurrentChat()
}

// View is the rendering surface kept in step with the cache.
type View interface {
	RenderSidebar(chats []*model.Chat)
	RefreshChat(chat *model.Chat)
	ShowWelcome()
	RefreshProviderSelectors()
	RenderProviderList()
	SettingsActive() bool
}

// Bus broadcasts local writes over every transport and reconciles the
// manager and view when a peer's event arrives. An event whose timestamp is
// not above the highest one already processed is dropped, which removes
// the copies that arrive over a second transport.
type Bus struct {
	manager    Reconciler
	view       View
	transports []Transport

	mu        sync.Mutex
	ctx       context.Context
	lastSeen  int64
	lastSent  int64
	visible   bool
	handlers  []func(Event)
	started   bool
	destroyed bool

	// reconciling serialises reconciliation across transports.
	reconciling sync.Mutex
}

func NewBus(manager Reconciler, view View, transports ...Transport) *Bus {
	return &Bus{
		manager:    manager,
		view:       view,
		transports: transports,
		ctx:        context.Background(),
		visible:    true,
	}
}

// Start attaches every transport. A transport that fails to start is logged
// and left out; the bus keeps working over the others.
func (b *Bus) Start(ctx context.Context) error {
	b.mu.Lock()
	if b.started || b.destroyed {
		b.mu.Unlock()
		return nil
	}
	b.started = true
	b.ctx = ctx
	b.mu.Unlock()

	live := 0
	for _, t := range b.transports {
		if err := t.Start(ctx, b.receive); err != nil {
			slog.Warn("Sync transport unavailable", "transport", t.Name(), "error", err)
			continue
		}
		live++
	}
	if live == 0 && len(b.transports) > 0 {
		return fmt.Errorf("no sync transport could be started")
	}
	slog.Info("Sync bus started", "transports", live)
	return nil
}

// OnEvent registers h to run after reconciliation for every accepted event.
func (b *Bus) OnEvent(h func(Event)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, h)
}

// Broadcast stamps an event with the current time and sends it. Timestamps
// from one bus always increase, so quick successive writes are not taken
// for duplicates by peers. Failures are logged and never returned.
func (b *Bus) Broadcast(ctx context.Context, typ EventType, data map[string]any) Event {
	b.mu.Lock()
	ts := nowMillis()
	if ts <= b.lastSent {
		ts = b.lastSent + 1
	}
	b.lastSent = ts
	b.mu.Unlock()

	ev := Event{Type: typ, Data: data, Timestamp: ts}
	b.Send(ctx, ev)
	return ev
}

// Send fans ev out to every transport as it is, timestamp included.
func (b *Bus) Send(ctx context.Context, ev Event) {
	b.mu.Lock()
	destroyed := b.destroyed
	if ev.Timestamp > b.lastSent {
		b.lastSent = ev.Timestamp
	}
	b.mu.Unlock()
	if destroyed {
		slog.Debug("Sync bus destroyed; event not sent", "type", ev.Type)
		return
	}
	if ev.Data == nil {
		ev.Data = map[string]any{}
	}

	var g errgroup.Group
	for _, t := range b.transports {
		g.Go(func() error {
			if err := t.Send(ctx, ev); err != nil {
				slog.Warn("Sync broadcast failed", "transport", t.Name(), "type", ev.Type, "error", err)
				return err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		slog.Debug("Sync broadcast incomplete", "type", ev.Type, "error", err)
	}
}

func (b *Bus) receive(ev Event) {
	b.mu.Lock()
	if b.destroyed || ev.Timestamp <= b.lastSeen {
		b.mu.Unlock()
		return
	}
	b.lastSeen = ev.Timestamp
	ctx := b.ctx
	handlers := append([]func(Event){}, b.handlers...)
	b.mu.Unlock()

	slog.Debug("Sync event received", "type", ev.Type, "timestamp", ev.Timestamp, "chat_id", ev.ChatID())
	b.reconcile(ctx, &ev)
	for _, h := range handlers {
		h(ev)
	}
}

// SetVisible records whether the view is shown. Becoming visible again runs
// a full reconciliation, as if a peer had written.
func (b *Bus) SetVisible(ctx context.Context, visible bool) {
	b.mu.Lock()
	wasHidden := !b.visible
	b.visible = visible
	b.mu.Unlock()

	if visible && wasHidden {
		b.reconcile(ctx, nil)
	}
}

func (b *Bus) Visible() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.visible
}

// reconcile reloads the cache and redraws the view. ev is nil for a focus
// refresh.
func (b *Bus) reconcile(ctx context.Context, ev *Event) {
	b.reconciling.Lock()
	defer b.reconciling.Unlock()

	if err := b.manager.ReloadChats(ctx); err != nil {
		slog.Warn("Sync reconcile could not reload chats", "error", err)
		return
	}
	b.view.RenderSidebar(b.manager.GetChats())

	current := b.manager.CurrentChatID()
	target := current
	if ev != nil {
		target = ev.ChatID()
	}

	switch {
	case current == "" || target != current:
	case ev != nil && ev.Type == ChatDeleted:
		b.manager.ForgetCurrentChat()
		b.view.ShowWelcome()
	default:
		chat, err := b.manager.RefreshChat(ctx, current)
		if err != nil {
			slog.Warn("Sync reconcile could not refresh chat", "chat_id", current, "error", err)
			break
		}
		if chat == nil {
			b.manager.ForgetCurrentChat()
			b.view.ShowWelcome()
			break
		}
		b.view.RefreshChat(chat)
	}

	if ev != nil && ev.Type == ProviderUpdated {
		b.view.RefreshProviderSelectors()
		if b.view.SettingsActive() {
			b.view.RenderProviderList()
		}
	}
}

// Destroy closes every transport. A delivery already in progress may still
// finish.
func (b *Bus) Destroy() error {
	b.mu.Lock()
	if b.destroyed {
		b.mu.Unlock()
		return nil
	}
	b.destroyed = true
	b.mu.Unlock()

	var errs []error
	for _, t := range b.transports {
		if err := t.Close(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", t.Name(), err))
		}
	}
	slog.Info("Sync bus destroyed")
	return errors.Join(errs...)
}
