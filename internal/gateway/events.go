package gateway

// events.go defines the wire protocol of the realtime seat channel.  Every
// frame in either direction is a JSON envelope {"event": ..., "data": ...}.
// Inbound events drive the per-connection state machine; outbound events
// are either a snapshot reply to the joining connection or a fanout to the
// whole room.

import (
	"encoding/json"
	"log"
)

// Inbound event names.
const (
	EventJoinRoom     = "join-room"
	EventSelectSeat   = "select-seat"
	EventUnselectSeat = "unselect-seat"
)

// Outbound event names.  seat-update announces a hold being taken or
// released and the seat may free up again; seat-booked announces permanent
// unavailability after booking confirmation and is never reversed for the
// room's lifetime.
const (
	EventSeatState  = "seat-state"
	EventSeatUpdate = "seat-update"
	EventSeatBooked = "seat-booked"
)

// Envelope frames every message on the channel.  Data stays raw until the
// event name tells us which payload type to decode into.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// JoinRoomData is the payload of join-room.  The room identifier is derived
// server-side from the first four fields; HolderID is the opaque external
// user identifier the connection will hold seats under.
type JoinRoomData struct {
	ItemID   string `json:"itemId"`
	Showtime string `json:"showtime"`
	Date     string `json:"date,omitempty"`
	Location string `json:"location"`
	HolderID string `json:"holderId"`
}

// SeatRefData is the payload of select-seat and unselect-seat.  Seat ids
// are opaque to the gateway; the frontend uses "{row}-{number}" but nothing
// here parses them.
type SeatRefData struct {
	SeatID string `json:"seatId"`
}

// SeatStateData is the snapshot sent to a connection right after it joins:
// the room's current seat-to-holder mapping.
type SeatStateData struct {
	Seats map[string]string `json:"seats"`
}

// SeatUpdateData announces one seat changing hands.  HolderID is null when
// the seat was released.
type SeatUpdateData struct {
	SeatID   string  `json:"seatId"`
	HolderID *string `json:"holderId"`
}

// SeatBookedData announces seats confirmed by the booking system.
type SeatBookedData struct {
	SeatIDs []string `json:"seatIds"`
}

// marshal wraps a payload in its envelope and serializes it.  The payload
// types above cannot fail to marshal; a nil return only happens on a
// programming error and is logged rather than propagated.
func marshal(event string, data any) []byte {
	raw, err := json.Marshal(data)
	if err != nil {
		log.Printf("gateway: marshal %s payload: %v", event, err)
		return nil
	}
	out, err := json.Marshal(Envelope{Event: event, Data: raw})
	if err != nil {
		log.Printf("gateway: marshal %s envelope: %v", event, err)
		return nil
	}
	return out
}
