// Package syncbus fans local writes out to the other instances of the app
// that share its storage, and reconciles this instance when they write.
package syncbus

import (
	"context"
	"time"
)

// EventType names what changed.
type EventType string

const (
	ChatCreated     EventType = "chat-created"
	ChatUpdated     EventType = "chat-updated"
	ChatDeleted     EventType = "chat-deleted"
	MessageAdded    EventType = "message-added"
	ProviderUpdated EventType = "provider-updated"
	SettingsChanged EventType = "settings-changed"
)

// Event is the wire form of a sync message. Timestamp is wall-clock
// milliseconds and doubles as the receiver's duplicate filter.
type Event struct {
	Type      EventType      `json:"type"`
	Data      map[string]any `json:"data"`
	Timestamp int64          `json:"timestamp"`
}

// ChatID returns data.chatId, or "" when the event names no chat.
func (e Event) ChatID() string {
	id, _ := e.Data["chatId"].(string)
	return id
}

// ProviderID returns data.providerId, or "".
func (e Event) ProviderID() string {
	id, _ := e.Data["providerId"].(string)
	return id
}

// ChatData builds the payload of a chat-* or message-added event.
func ChatData(chatID string) map[string]any {
	return map[string]any{"chatId": chatID}
}

// ProviderData builds the payload of a provider-updated event.
func ProviderData(providerID string, deleted bool) map[string]any {
	data := map[string]any{"providerId": providerID}
	if deleted {
		data["deleted"] = true
	}
	return data
}

// Transport carries events between instances. Send must not deliver the
// event back to the sender's own Start callback.
type Transport interface {
	Name() string
	Start(ctx context.Context, deliver func(Event)) error
	Send(ctx context.Context, ev Event) error
	Close() error
}

func nowMillis() int64 {
	return time.Now().UnixMilli()
}
