package realtime

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/43bits/mess-calender-gec/internal/core"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 25 * time.Second

	// sendBuffer is how many events a client may fall behind before it is
	// dropped.
	sendBuffer = 64
)

type Client struct {
	UserID string
	Admin  bool
	Conn   *websocket.Conn

	send chan []byte
	once sync.Once
	done chan struct{}
}

func NewClient(userID string, admin bool, conn *websocket.Conn) *Client {
	return &Client{
		UserID: userID,
		Admin:  admin,
		Conn:   conn,
		send:   make(chan []byte, sendBuffer),
		done:   make(chan struct{}),
	}
}

// writePump is the only writer on the connection. It owns the connection
// and closes it once the client is unregistered.
func (c *Client) writePump(h *Hub) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Conn.Close()
	}()

	for {
		select {
		case <-c.done:
			return
		case msg := <-c.send:
			if err := c.write(websocket.TextMessage, msg); err != nil {
				h.Unregister(c)
				return
			}
		case <-ticker.C:
			if err := c.write(websocket.PingMessage, nil); err != nil {
				h.Unregister(c)
				return
			}
		}
	}
}

func (c *Client) write(messageType int, data []byte) error {
	_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.Conn.WriteMessage(messageType, data)
}

// Hub fans ledger and request events out to connected dashboards. Admins
// receive every event; residents receive only events about themselves.
type Hub struct {
	mu     sync.RWMutex
	owners map[string]map[*Client]struct{}
	admins map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		owners: make(map[string]map[*Client]struct{}),
		admins: make(map[*Client]struct{}),
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if c.Admin {
		h.admins[c] = struct{}{}
		return
	}
	if h.owners[c.UserID] == nil {
		h.owners[c.UserID] = make(map[*Client]struct{})
	}
	h.owners[c.UserID][c] = struct{}{}
}

// Unregister is safe to call more than once. The client's write pump
// closes the connection.
func (h *Hub) Unregister(c *Client) {
	c.once.Do(func() {
		h.mu.Lock()
		delete(h.admins, c)
		if set := h.owners[c.UserID]; set != nil {
			delete(set, c)
			if len(set) == 0 {
				delete(h.owners, c.UserID)
			}
		}
		h.mu.Unlock()

		close(c.done)
	})
}

// Publish implements core.Publisher.
func (h *Hub) Publish(evt core.Event) {
	msg, err := json.Marshal(evt)
	if err != nil {
		log.Printf("[REALTIME] encode %s: %v", evt.Kind, err)
		return
	}

	h.mu.RLock()
	targets := make([]*Client, 0, len(h.admins)+len(h.owners[evt.OwnerID]))
	for c := range h.admins {
		targets = append(targets, c)
	}
	if evt.OwnerID != "" {
		for c := range h.owners[evt.OwnerID] {
			targets = append(targets, c)
		}
	}
	h.mu.RUnlock()

	// never block the publishing request on a slow socket
	for _, c := range targets {
		select {
		case c.send <- msg:
		default:
			log.Printf("[REALTIME] dropping %s, %d events behind", c.UserID, sendBuffer)
			h.Unregister(c)
		}
	}
}

// Connected reports the number of live connections.
func (h *Hub) Connected() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	n := len(h.admins)
	for _, set := range h.owners {
		n += len(set)
	}
	return n
}
