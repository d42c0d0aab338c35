package stream

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"
)

// Event type names, one per todo mutation.
const (
	EventList    = "list"
	EventCreated = "created"
	EventUpdated = "updated"
	EventDeleted = "deleted"
)

// Event is one framed server-push message: a type name and the
// JSON-encoded payload.
type Event struct {
	Type string
	Data []byte
}

// NewEvent encodes payload once so every subscriber gets the identical
// bytes.
func NewEvent(eventType string, payload any) (Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Event{}, err
	}
	return Event{Type: eventType, Data: data}, nil
}

// FormatSSE renders one event as a text/event-stream frame.
func FormatSSE(ev Event) string {
	sb := strings.Builder{}
	sb.WriteString(fmt.Sprintf("event: %s\n", ev.Type))
	sb.WriteString(fmt.Sprintf("data: %s\n\n", ev.Data))
	return sb.String()
}

// clientBuffer bounds how far a slow subscriber may fall behind before
// events are dropped for it. Delivery is best-effort, no replay.
const clientBuffer = 128

// Client is one open delivery channel for one connection.
type Client struct {
	events chan Event
}

// Events is the receive side the connection loop drains.
func (c *Client) Events() <-chan Event {
	return c.events
}

// Hub maps user IDs to their open delivery channels and fans each
// published event out to all of them. Purely in-process; nothing here
// is persisted.
type Hub struct {
	mu     sync.Mutex
	subs   map[string]map[*Client]struct{}
	mirror func(userID string, ev Event)
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[*Client]struct{})}
}

// SetMirror registers an optional secondary sink (e.g. an MQTT bridge)
// that sees every published event. Must be called before serving.
func (h *Hub) SetMirror(fn func(userID string, ev Event)) {
	h.mirror = fn
}

// Subscribe adds a fresh delivery channel for userID.
func (h *Hub) Subscribe(userID string) *Client {
	c := &Client{events: make(chan Event, clientBuffer)}

	h.mu.Lock()
	set := h.subs[userID]
	if set == nil {
		set = make(map[*Client]struct{})
		h.subs[userID] = set
	}
	set[c] = struct{}{}
	h.mu.Unlock()

	return c
}

// Unsubscribe removes the channel; called when its connection closes,
// whatever the cause.
func (h *Hub) Unsubscribe(userID string, c *Client) {
	h.mu.Lock()
	if set, ok := h.subs[userID]; ok {
		delete(set, c)
		if len(set) == 0 {
			delete(h.subs, userID)
		}
	}
	h.mu.Unlock()
}

// Publish delivers one event to every channel currently open for
// userID, in call order. A subscriber whose buffer is full misses the
// event; that never fails the publisher.
func (h *Hub) Publish(userID, eventType string, payload any) {
	ev, err := NewEvent(eventType, payload)
	if err != nil {
		log.Printf("failed to encode %s event: %v", eventType, err)
		return
	}

	h.mu.Lock()
	for c := range h.subs[userID] {
		select {
		case c.events <- ev:
		default:
			// subscriber too far behind, drop
		}
	}
	h.mu.Unlock()

	if h.mirror != nil {
		h.mirror(userID, ev)
	}
}
