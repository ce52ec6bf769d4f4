package live

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rkbeauty/booking-gateway/internal/bookingapi"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origin is enforced by the gateway's CORS allowlist upstream of the
	// upgrade; the widget and the gateway share a deployment.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Client is one subscribed widget connection.
type Client struct {
	hub   *Hub
	conn  *websocket.Conn
	send  chan []byte
	topic topic
}

// ServeWS upgrades the request and subscribes the connection to the day
// named by the date and type query parameters.
func ServeWS(hub *Hub, w http.ResponseWriter, r *http.Request) {
	date := strings.TrimSpace(r.URL.Query().Get("date"))
	typ, err := bookingapi.ParseBookingType(r.URL.Query().Get("type"))
	if err != nil || date == "" {
		http.Error(w, "date and type are required", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		hub.logger.Warn("live: upgrade failed", "error", err)
		return
	}

	client := &Client{
		hub:   hub,
		conn:  conn,
		send:  make(chan []byte, 16),
		topic: topic{bookingType: typ, date: date},
	}
	hub.register <- client

	go client.writePump()
	go client.readPump()
}

// readPump drains the connection so pongs and close frames are processed.
// Widgets never send application messages.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
