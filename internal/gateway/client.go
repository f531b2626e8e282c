package gateway

// client.go runs the two pumps of one websocket connection.  The read pump
// decodes envelopes and hands them to the hub; the write pump drains the
// client's send buffer and keeps the connection alive with pings.  A
// connection is Unjoined until its first join-room, Joined afterwards, and
// Closed once the read pump returns; a closed connection never rejoins —
// a reconnecting client is a brand-new connection.

import (
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// writeWait bounds a single write to the peer.
	writeWait = 10 * time.Second
	// pongWait is how long we wait for a pong before declaring the peer dead.
	pongWait = 60 * time.Second
	// pingPeriod must be shorter than pongWait.
	pingPeriod = (pongWait * 9) / 10
	// maxMessageSize bounds inbound frames; seat events are tiny.
	maxMessageSize = 4096
	// sendBuffer is the per-client outbound queue.  A client that cannot
	// keep up with the room's traffic is dropped like a disconnect.
	sendBuffer = 64
)

// session is the per-connection (room, holder) pair.  It is nil before the
// first join-room and overwritten by a later join on the same connection.
// Sessions are never persisted; they die with the connection.
type session struct {
	room   string
	holder string
}

// Client is one websocket connection attached to the hub.
type Client struct {
	id   string
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	// sess and closed are owned by the hub's lock.
	sess   *session
	closed bool
}

func newClient(h *Hub, conn *websocket.Conn) *Client {
	return &Client{
		id:   uuid.NewString(),
		hub:  h,
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}
}

// readPump reads envelopes off the wire and dispatches them until the
// connection dies.  A panic in event handling is confined to this
// connection: it is logged and the connection dropped, never allowed to
// take the gateway down with it.
func (c *Client) readPump() {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("gateway: connection %s: recovered from handler fault: %v", c.id, r)
		}
		c.hub.disconnect(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("gateway: connection %s: read: %v", c.id, err)
			}
			return
		}
		var env Envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			log.Printf("gateway: connection %s: malformed frame, dropping connection: %v", c.id, err)
			return
		}
		c.hub.dispatch(c, env)
	}
}

// writePump ships queued messages to the peer and pings it on a timer.
// It exits when the send channel is closed by the hub or a write fails.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
