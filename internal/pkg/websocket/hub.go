package websocket

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// broadcastBuffer bounds how many events may wait for the hub loop
const broadcastBuffer = 64

// Event is the envelope pushed to subscribers
type Event struct {
	// Type of event, e.g. "announcement.created"
	Type string `json:"type"`

	// Committee the event belongs to
	CommitteeID uuid.UUID `json:"committeeId"`

	// Event body, usually the affected entity
	Payload interface{} `json:"payload,omitempty"`

	// Timestamp when the event was published
	Timestamp time.Time `json:"timestamp"`
}

type countRequest struct {
	committeeID uuid.UUID
	reply       chan int
}

// Hub maintains the set of active clients and broadcasts events to them.
// The client map is owned by the Run goroutine; everything else talks to it through channels.
type Hub struct {
	// Registered clients organized by committee ID
	clients map[uuid.UUID]map[*Client]struct{}

	broadcast  chan *Event
	register   chan *Client
	unregister chan *Client
	counts     chan countRequest
	done       chan struct{}

	logger zerolog.Logger
}

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]map[*Client]struct{}),
		broadcast:  make(chan *Event, broadcastBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		counts:     make(chan countRequest),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run handles registrations and broadcasts until ctx is cancelled
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case event := <-h.broadcast:
			h.broadcastEvent(event)

		case req := <-h.counts:
			req.reply <- len(h.clients[req.committeeID])
		}
	}
}

// registerClient registers a new client to the hub
func (h *Hub) registerClient(client *Client) {
	if _, ok := h.clients[client.committeeID]; !ok {
		h.clients[client.committeeID] = make(map[*Client]struct{})
	}
	h.clients[client.committeeID][client] = struct{}{}

	h.logger.Info().
		Str("committeeID", client.committeeID.String()).
		Str("profileID", client.profileID.String()).
		Msg("Client registered")
}

// unregisterClient removes a client and closes its send channel
func (h *Hub) unregisterClient(client *Client) {
	clients, ok := h.clients[client.committeeID]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}

	delete(clients, client)
	close(client.send)
	if len(clients) == 0 {
		delete(h.clients, client.committeeID)
	}

	h.logger.Info().
		Str("committeeID", client.committeeID.String()).
		Str("profileID", client.profileID.String()).
		Msg("Client unregistered")
}

// broadcastEvent sends an event to every client of its committee
func (h *Hub) broadcastEvent(event *Event) {
	clients, ok := h.clients[event.CommitteeID]
	if !ok {
		h.logger.Debug().
			Str("committeeID", event.CommitteeID.String()).
			Str("type", event.Type).
			Msg("No clients in committee for broadcast")
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("committeeID", event.CommitteeID.String()).
			Msg("Failed to marshal event for broadcast")
		return
	}

	for client := range clients {
		select {
		case client.send <- data:
		default:
			// slow consumer, drop it
			h.unregisterClient(client)
		}
	}

	h.logger.Debug().
		Str("committeeID", event.CommitteeID.String()).
		Str("type", event.Type).
		Int("clientCount", len(clients)).
		Msg("Event broadcasted to committee")
}

func (h *Hub) closeAll() {
	for committeeID, clients := range h.clients {
		for client := range clients {
			close(client.send)
		}
		delete(h.clients, committeeID)
	}
}

// Publish queues an event for the committee's subscribers. It never blocks the caller;
// events are dropped when the hub is stopped or its queue is full.
func (h *Hub) Publish(committeeID uuid.UUID, event string, payload interface{}) {
	e := &Event{
		Type:        event,
		CommitteeID: committeeID,
		Payload:     payload,
		Timestamp:   time.Now(),
	}

	select {
	case <-h.done:
	case h.broadcast <- e:
	default:
		h.logger.Warn().
			Str("committeeID", committeeID.String()).
			Str("type", event).
			Msg("Event queue full, dropping event")
	}
}

// ClientCount returns the number of connected clients for a committee
func (h *Hub) ClientCount(committeeID uuid.UUID) int {
	req := countRequest{committeeID: committeeID, reply: make(chan int, 1)}
	select {
	case h.counts <- req:
		return <-req.reply
	case <-h.done:
		return 0
	}
}

// Register adds a client. It returns false when the hub is stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes a client if it is still registered
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}
