package syncbus

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// channelBuffer bounds the events queued for one slow receiver. Events past
// the bound are dropped; sync is best-effort.
const channelBuffer = 256

var ErrChannelClosed = errors.New("syncbus: channel closed")

// Hub is an in-process registry of named channels. Every channel opened
// under a name receives what the other channels of that name post, and
// never its own posts.
type Hub struct {
	mu       sync.Mutex
	channels map[string]map[*Channel]struct{}
}

func NewHub() *Hub {
	return &Hub{channels: map[string]map[*Channel]struct{}{}}
}

// Open joins the channel called name.
func (h *Hub) Open(name string) *Channel {
	c := &Channel{hub: h, name: name, in: make(chan Event, channelBuffer), done: make(chan struct{})}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.channels[name] == nil {
		h.channels[name] = map[*Channel]struct{}{}
	}
	h.channels[name][c] = struct{}{}
	return c
}

func (h *Hub) post(from *Channel, ev Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	peers, ok := h.channels[from.name]
	if !ok {
		return ErrChannelClosed
	}
	if _, ok := peers[from]; !ok {
		return ErrChannelClosed
	}
	for c := range peers {
		if c == from {
			continue
		}
		select {
		case c.in <- ev:
		default:
			slog.Warn("Sync channel receiver is full; event dropped", "channel", c.name, "type", ev.Type)
		}
	}
	return nil
}

func (h *Hub) leave(c *Channel) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	peers := h.channels[c.name]
	if _, ok := peers[c]; !ok {
		return false
	}
	delete(peers, c)
	if len(peers) == 0 {
		delete(h.channels, c.name)
	}
	// Posts hold h.mu, so no sender can still be writing to c.in.
	close(c.in)
	return true
}

// Channel is one member of a named hub channel. It implements Transport.
type Channel struct {
	hub  *Hub
	name string
	in   chan Event
	done chan struct{}

	startOnce sync.Once
}

func (c *Channel) Name() string { return "channel:" + c.name }

// Start delivers incoming events to deliver on a dedicated goroutine, one
// at a time, until Close.
func (c *Channel) Start(_ context.Context, deliver func(Event)) error {
	c.startOnce.Do(func() {
		go func() {
			defer close(c.done)
			for ev := range c.in {
				deliver(ev)
			}
		}()
	})
	return nil
}

func (c *Channel) Send(_ context.Context, ev Event) error {
	return c.hub.post(c, ev)
}

// Close leaves the channel and waits for the delivery goroutine to finish
// the event it is handling. It must not be called from inside deliver.
func (c *Channel) Close() error {
	if !c.hub.leave(c) {
		return nil
	}
	c.startOnce.Do(func() { close(c.done) })
	<-c.done
	return nil
}

var _ Transport = (*Channel)(nil)
