// Package live pushes availability changes to connected booking widgets
// so open calendars refresh without polling.
package live

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/rkbeauty/booking-gateway/internal/availability"
	"github.com/rkbeauty/booking-gateway/internal/bookingapi"
	"github.com/rkbeauty/booking-gateway/pkg/logging"
)

// MessageType identifies the kind of push message.
type MessageType string

const (
	MessageTypeAvailability MessageType = "availability_updated"
	MessageTypeDayBlocked   MessageType = "day_blocked"
)

// Message is an availability push sent to subscribed widgets.
type Message struct {
	Type         MessageType            `json:"type"`
	BookingType  string                 `json:"bookingType"`
	Date         string                 `json:"date"`
	Availability *availability.Snapshot `json:"availability,omitempty"`
	Timestamp    int64                  `json:"timestamp"`
}

// topic identifies one watched calendar day.
type topic struct {
	bookingType bookingapi.BookingType
	date        string
}

// Hub fans availability messages out to subscribed connections.
type Hub struct {
	clients    map[topic]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan *Message
	logger     *logging.Logger
	mu         sync.RWMutex
}

// NewHub creates a hub. Call Run in a goroutine before serving connections.
func NewHub(logger *logging.Logger) *Hub {
	if logger == nil {
		logger = logging.Default()
	}
	return &Hub{
		clients:    make(map[topic]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *Message, 256),
		logger:     logger,
	}
}

// Run is the hub's main loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.topic] == nil {
				h.clients[client.topic] = make(map[*Client]bool)
			}
			h.clients[client.topic][client] = true
			h.logger.Debug("live client registered",
				"type", string(client.topic.bookingType),
				"date", client.topic.date,
				"watching", len(h.clients[client.topic]))
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.topic]; ok {
				if _, ok := clients[client]; ok {
					delete(clients, client)
					close(client.send)
					if len(clients) == 0 {
						delete(h.clients, client.topic)
					}
				}
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			data, err := json.Marshal(message)
			if err != nil {
				h.logger.Error("live: marshal broadcast", "error", err)
				continue
			}

			key := topic{bookingType: bookingapi.BookingType(message.BookingType), date: message.Date}
			h.mu.RLock()
			clients := h.clients[key]
			h.mu.RUnlock()

			for client := range clients {
				select {
				case client.send <- data:
				default:
					h.mu.Lock()
					delete(h.clients[key], client)
					close(client.send)
					h.mu.Unlock()
				}
			}
		}
	}
}

// BroadcastAvailability pushes a fresh snapshot to every widget watching
// the given day.
func (h *Hub) BroadcastAvailability(typ bookingapi.BookingType, date string, snap availability.Snapshot) {
	h.broadcast <- &Message{
		Type:         MessageTypeAvailability,
		BookingType:  string(typ),
		Date:         date,
		Availability: &snap,
		Timestamp:    time.Now().UnixMilli(),
	}
}

// BroadcastDayBlocked tells widgets a day was closed entirely.
func (h *Hub) BroadcastDayBlocked(typ bookingapi.BookingType, date string) {
	snap := availability.FallbackClosed(date)
	h.broadcast <- &Message{
		Type:         MessageTypeDayBlocked,
		BookingType:  string(typ),
		Date:         date,
		Availability: &snap,
		Timestamp:    time.Now().UnixMilli(),
	}
}

// WatcherCount reports how many connections watch a day.
func (h *Hub) WatcherCount(typ bookingapi.BookingType, date string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[topic{bookingType: typ, date: date}])
}
