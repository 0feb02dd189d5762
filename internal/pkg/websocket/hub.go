package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/yigit/hireboard/internal/pkg/events"
)

// ErrHubStopped is returned by Publish once the hub loop has exited.
var ErrHubStopped = errors.New("websocket hub stopped")

type subscription struct {
	client  *Client
	channel string
}

type outbound struct {
	client *Client
	frame  []byte
}

// Hub maintains the set of active clients and their channel subscriptions and
// delivers published events to subscribers. All map mutations happen on the Run loop.
type Hub struct {
	// channel name -> subscribed clients
	channels map[string]map[*Client]struct{}

	// client -> channels it is subscribed to
	clients map[*Client]map[string]struct{}

	register    chan *Client
	unregister  chan *Client
	subscribe   chan subscription
	unsubscribe chan subscription
	broadcast   chan events.Event
	direct      chan outbound

	// guards reads of channels/clients from outside the Run loop
	mu sync.RWMutex

	done   chan struct{}
	logger zerolog.Logger
}

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		channels:    make(map[string]map[*Client]struct{}),
		clients:     make(map[*Client]map[string]struct{}),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		subscribe:   make(chan subscription),
		unsubscribe: make(chan subscription),
		broadcast:   make(chan events.Event, 256),
		direct:      make(chan outbound, 64),
		done:        make(chan struct{}),
		logger:      logger.With().Str("component", "ws_hub").Logger(),
	}
}

// Run processes hub operations until ctx is cancelled, then disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.removeClient(client)

		case sub := <-h.subscribe:
			h.addSubscription(sub)

		case sub := <-h.unsubscribe:
			h.removeSubscription(sub)

		case event := <-h.broadcast:
			h.deliver(event)

		case out := <-h.direct:
			h.mu.RLock()
			_, connected := h.clients[out.client]
			h.mu.RUnlock()
			if connected {
				h.enqueueRaw(out.client, out.frame)
			}

		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				close(client.send)
			}
			h.clients = map[*Client]map[string]struct{}{}
			h.channels = map[string]map[*Client]struct{}{}
			h.mu.Unlock()
			h.logger.Info().Msg("Hub stopped")
			return
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	h.clients[client] = make(map[string]struct{})
	h.mu.Unlock()

	h.logger.Debug().Int64("userID", client.userID).Msg("Client registered")
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subs, ok := h.clients[client]
	if !ok {
		return
	}
	for channel := range subs {
		h.dropFromChannel(channel, client)
	}
	delete(h.clients, client)
	close(client.send)

	h.logger.Debug().Int64("userID", client.userID).Msg("Client unregistered")
}

func (h *Hub) addSubscription(sub subscription) {
	h.mu.Lock()
	subs, ok := h.clients[sub.client]
	if ok {
		subs[sub.channel] = struct{}{}
		if _, exists := h.channels[sub.channel]; !exists {
			h.channels[sub.channel] = make(map[*Client]struct{})
		}
		h.channels[sub.channel][sub.client] = struct{}{}
	}
	h.mu.Unlock()

	if ok {
		h.enqueueRaw(sub.client, control("subscribed", sub.channel, nil))
	}
}

func (h *Hub) removeSubscription(sub subscription) {
	h.mu.Lock()
	subs, ok := h.clients[sub.client]
	if ok {
		delete(subs, sub.channel)
		h.dropFromChannel(sub.channel, sub.client)
	}
	h.mu.Unlock()

	if ok {
		h.enqueueRaw(sub.client, control("unsubscribed", sub.channel, nil))
	}
}

// dropFromChannel must be called with mu held.
func (h *Hub) dropFromChannel(channel string, client *Client) {
	members, ok := h.channels[channel]
	if !ok {
		return
	}
	delete(members, client)
	if len(members) == 0 {
		delete(h.channels, channel)
	}
}

func (h *Hub) deliver(event events.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error().Err(err).Str("channel", event.Channel).Msg("Failed to marshal event for broadcast")
		return
	}

	h.mu.RLock()
	members := make([]*Client, 0, len(h.channels[event.Channel]))
	for client := range h.channels[event.Channel] {
		members = append(members, client)
	}
	h.mu.RUnlock()

	for _, client := range members {
		h.enqueueRaw(client, data)
	}

	h.logger.Debug().Str("channel", event.Channel).Str("event", event.Name).Int("clientCount", len(members)).Msg("Event broadcast")

	if event.Name == events.SubscriptionRevoked {
		if rev, ok := event.Payload.(events.Revocation); ok {
			h.revoke(rev)
		}
	}
}

// revoke drops every connection of rev.UserID from rev.Channels.
func (h *Hub) revoke(rev events.Revocation) {
	var dropped []subscription
	h.mu.Lock()
	for client, subs := range h.clients {
		if client.userID != rev.UserID {
			continue
		}
		for _, channel := range rev.Channels {
			if _, ok := subs[channel]; ok {
				delete(subs, channel)
				h.dropFromChannel(channel, client)
				dropped = append(dropped, subscription{client: client, channel: channel})
			}
		}
	}
	h.mu.Unlock()

	for _, sub := range dropped {
		h.enqueueRaw(sub.client, control("unsubscribed", sub.channel, map[string]string{"reason": "revoked"}))
	}
	if len(dropped) > 0 {
		h.logger.Info().Int64("userID", rev.UserID).Int("subscriptions", len(dropped)).Msg("Subscriptions revoked")
	}
}

// enqueueRaw hands a frame to the client; a client whose buffer is full is dropped.
// Only called from the Run loop, so removeClient cannot race with it.
func (h *Hub) enqueueRaw(client *Client, data []byte) {
	select {
	case client.send <- data:
	default:
		h.logger.Warn().Int64("userID", client.userID).Msg("Client send buffer full, disconnecting")
		h.removeClient(client)
	}
}

// Publish queues event for delivery to subscribers of its channel.
func (h *Hub) Publish(ctx context.Context, event events.Event) error {
	select {
	case h.broadcast <- event:
		return nil
	case <-h.done:
		return ErrHubStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close is a no-op; the hub stops when the context passed to Run is cancelled.
func (h *Hub) Close() error {
	return nil
}

// SubscriberCount returns the number of clients subscribed to channel.
func (h *Hub) SubscriberCount(channel string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.channels[channel])
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// submit hands v to the Run loop unless the hub has stopped.
func submit[T any](h *Hub, ch chan T, v T) bool {
	select {
	case ch <- v:
		return true
	case <-h.done:
		return false
	}
}

// controlFrame is a hub-generated message that is not a domain event.
type controlFrame struct {
	Event   string      `json:"event"`
	Channel string      `json:"channel,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func control(event, channel string, data interface{}) []byte {
	b, _ := json.Marshal(controlFrame{Event: event, Channel: channel, Data: data})
	return b
}
