package realtime

import (
	"sync"

	"go.uber.org/zap"

	"dashpos/internal/domain"
)

// Channel names a client can subscribe to.
const (
	ChannelDashboard = "dashboard"
	ChannelKDS       = "kds"
)

// client is one websocket connection. Writes go through a buffered channel so
// one slow consumer cannot stall the broadcast loop.
type client struct {
	businessID string
	channel    string
	send       chan domain.Event
	// pings carries application-level ping requests from the read side to the
	// single writer goroutine.
	pings chan struct{}
}

const sendBuffer = 32

// Hub fans events out to the websocket clients of each business. KDS events
// go to the kitchen screens, everything goes to the dashboards.
type Hub struct {
	mu      sync.RWMutex
	clients map[*client]struct{}
	log     *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[*client]struct{}),
		log:     log,
	}
}

func (h *Hub) register(businessID, channel string) *client {
	c := &client{
		businessID: businessID,
		channel:    channel,
		send:       make(chan domain.Event, sendBuffer),
		pings:      make(chan struct{}, 1),
	}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()

	h.log.Info("websocket client connected",
		zap.String("business_id", businessID),
		zap.String("channel", channel),
		zap.Int("total_clients", n))
	return c
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

// Broadcast queues the event for every interested client. Clients whose send
// buffer is full are dropped; a stuck screen reconnects rather than backing up
// everyone else.
func (h *Hub) Broadcast(ev domain.Event) {
	var stale []*client

	h.mu.RLock()
	for c := range h.clients {
		if c.businessID != ev.BusinessID {
			continue
		}
		if c.channel == ChannelKDS && ev.Event != domain.EventKDSUpdate {
			continue
		}
		select {
		case c.send <- ev:
		default:
			stale = append(stale, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range stale {
		h.log.Warn("dropping slow websocket client",
			zap.String("business_id", c.businessID),
			zap.String("channel", c.channel))
		h.unregister(c)
	}
}

// ClientCount reports connected clients for a business, any channel.
func (h *Hub) ClientCount(businessID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for c := range h.clients {
		if c.businessID == businessID {
			n++
		}
	}
	return n
}
