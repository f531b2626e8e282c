// Package gateway implements the realtime seat channel: a room-keyed
// registry of websocket connections in front of the in-memory seat store.
// Clients join a room, receive a snapshot of current holds, and then see a
// delta broadcast for every hold taken or released by any peer, plus a
// seat-booked broadcast when the external booking system confirms seats.
package gateway

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/iliyamo/seat-live/internal/room"
	"github.com/iliyamo/seat-live/internal/store"
)

// Hub owns the subscriber registry and the seat store handle.  Every seat
// mutation together with the enqueueing of its broadcast runs inside one
// critical section, so events are handled one at a time to completion: no
// two mutations of a room ever interleave, and every broadcast reflects
// the state immediately after the mutation that caused it.  Per-connection
// ordering comes from each connection's single read pump.
type Hub struct {
	mu    sync.Mutex
	rooms map[string]map[*Client]bool
	store *store.Store
}

// NewHub builds a hub around the given store.  The store must be non-nil;
// the hub is its sole owner from here on.
func NewHub(st *store.Store) *Hub {
	if st == nil {
		panic("nil store passed to NewHub")
	}
	return &Hub{
		rooms: make(map[string]map[*Client]bool),
		store: st,
	}
}

// ServeConn attaches an upgraded websocket connection to the hub and
// blocks until the connection closes.
func (h *Hub) ServeConn(conn *websocket.Conn) {
	c := newClient(h, conn)
	go c.writePump()
	c.readPump()
}

// dispatch routes one inbound envelope.  Unknown events and events that
// arrive before a join are ignored; a malformed payload on a known event
// is logged and ignored, keeping the fault confined to this frame.
func (h *Hub) dispatch(c *Client, env Envelope) {
	switch env.Event {
	case EventJoinRoom:
		var d JoinRoomData
		if err := json.Unmarshal(env.Data, &d); err != nil {
			log.Printf("gateway: connection %s: bad join-room payload: %v", c.id, err)
			return
		}
		h.join(c, d)
	case EventSelectSeat:
		var d SeatRefData
		if err := json.Unmarshal(env.Data, &d); err != nil {
			log.Printf("gateway: connection %s: bad select-seat payload: %v", c.id, err)
			return
		}
		h.selectSeat(c, d.SeatID)
	case EventUnselectSeat:
		var d SeatRefData
		if err := json.Unmarshal(env.Data, &d); err != nil {
			log.Printf("gateway: connection %s: bad unselect-seat payload: %v", c.id, err)
			return
		}
		h.unselectSeat(c, d.SeatID)
	default:
		log.Printf("gateway: connection %s: unknown event %q ignored", c.id, env.Event)
	}
}

// join derives the room key, installs the session and replies to the
// joining connection only with the current snapshot.  A join on an
// already-joined connection moves it: the previous room's holds are
// released and announced there first, so they cannot dangle until some
// later disconnect.
func (h *Hub) join(c *Client, d JoinRoomData) {
	key := room.DeriveKey(d.ItemID, d.Showtime, d.Date, d.Location)

	h.mu.Lock()
	defer h.mu.Unlock()
	if c.closed {
		return
	}
	if c.sess != nil {
		h.leaveLocked(c)
	}
	c.sess = &session{room: key, holder: d.HolderID}
	clients := h.rooms[key]
	if clients == nil {
		clients = make(map[*Client]bool)
		h.rooms[key] = clients
	}
	clients[c] = true

	h.store.Touch(key)
	h.unicastLocked(c, marshal(EventSeatState, SeatStateData{Seats: h.store.RoomState(key)}))
}

// selectSeat applies first-writer-wins admission control.  A winning hold
// is broadcast to the whole room, sender included.  A losing attempt is
// absorbed silently: correctness comes from advisory locking, and the
// loser already saw (or will see in its snapshot) who owns the seat.
func (h *Hub) selectSeat(c *Client, seatID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c.sess == nil || seatID == "" {
		return
	}
	if h.store.HoldSeat(c.sess.room, seatID, c.sess.holder) != store.HoldOK {
		return
	}
	holder := c.sess.holder
	h.broadcastLocked(c.sess.room, marshal(EventSeatUpdate, SeatUpdateData{SeatID: seatID, HolderID: &holder}))
}

// unselectSeat releases a seat if and only if this connection's holder
// owns it; releases of other holders' seats are absorbed silently.
func (h *Hub) unselectSeat(c *Client, seatID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c.sess == nil || seatID == "" {
		return
	}
	if h.store.ReleaseSeat(c.sess.room, seatID, c.sess.holder) != store.ReleaseOK {
		return
	}
	h.broadcastLocked(c.sess.room, marshal(EventSeatUpdate, SeatUpdateData{SeatID: seatID}))
}

// disconnect tears a connection down: its holds are released and announced
// to the room, one seat-update per seat.  This is the only cancellation
// signal there is — without it a closed tab would pin its seats forever.
func (h *Hub) disconnect(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.dropLocked(c)
}

// NotifyBooked clears the given seats from the room's hold table and fans
// one seat-booked event out to every connection in the room.  It runs on
// the same serialized path as client events and is safe to call for rooms
// nobody is watching.  The broadcast carries the full requested list, which
// clients treat as authoritative; the return value is the subset that was
// actually held, letting callers tell a fresh clearance from an idempotent
// repeat.
func (h *Hub) NotifyBooked(roomID string, seatIDs []string) []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	cleared := h.store.ClearSeats(roomID, seatIDs)
	h.broadcastLocked(roomID, marshal(EventSeatBooked, SeatBookedData{SeatIDs: seatIDs}))
	return cleared
}

// SweepRooms prunes seat state for rooms that have been idle for at least
// idleFor and currently have no connections, returning the pruned room
// ids.  Called from a timer in main; rooms with live members are never
// touched.
func (h *Hub) SweepRooms(idleFor time.Duration) []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.store.SweepIdle(idleFor, func(name string) bool {
		return len(h.rooms[name]) > 0
	})
}

// leaveLocked removes the connection from its current room and releases
// every seat its holder has there, announcing each release to the room.
// Membership is removed before broadcasting so the leaver does not receive
// its own release events.
func (h *Hub) leaveLocked(c *Client) {
	sess := c.sess
	c.sess = nil
	if clients, ok := h.rooms[sess.room]; ok {
		delete(clients, c)
		if len(clients) == 0 {
			delete(h.rooms, sess.room)
		}
	}
	for _, seatID := range h.store.ReleaseAllFor(sess.room, sess.holder) {
		h.broadcastLocked(sess.room, marshal(EventSeatUpdate, SeatUpdateData{SeatID: seatID}))
	}
}

// dropLocked finishes a connection exactly once: releases its session if
// any and closes its send channel, which stops the write pump.
func (h *Hub) dropLocked(c *Client) {
	if c.closed {
		return
	}
	c.closed = true
	if c.sess != nil {
		h.leaveLocked(c)
	}
	close(c.send)
}

// unicastLocked queues a message for one connection.  If the client's
// buffer is full it is dropped like a disconnect, so one stuck peer cannot
// wedge a room's fanout.
func (h *Hub) unicastLocked(c *Client, payload []byte) {
	if c.closed || payload == nil {
		return
	}
	select {
	case c.send <- payload:
	default:
		h.dropLocked(c)
	}
}

// broadcastLocked queues a message for every connection in the room.
func (h *Hub) broadcastLocked(roomID string, payload []byte) {
	for c := range h.rooms[roomID] {
		h.unicastLocked(c, payload)
	}
}
