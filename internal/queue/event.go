// Package queue contains the background consumer that listens to the
// booking.confirmed queue and feeds confirmations into the gateway's
// reconciliation path.
package queue

import "github.com/iliyamo/seat-live/internal/room"

// BookingConfirmedEvent is published by the booking backend when payment
// for a reservation succeeds.  Producers either send the prebuilt room
// identifier or the raw fields it is derived from; Seats lists the seat
// ids that are now permanently unavailable.
type BookingConfirmedEvent struct {
	Room        string   `json:"room,omitempty"`
	ItemID      string   `json:"item_id,omitempty"`
	Showtime    string   `json:"showtime,omitempty"`
	Date        string   `json:"date,omitempty"`
	Location    string   `json:"location,omitempty"`
	Seats       []string `json:"seats"`
	ConfirmedAt string   `json:"confirmed_at,omitempty"`
}

// RoomKey returns the room the event applies to, deriving it from the raw
// fields when the producer did not send one.
func (e BookingConfirmedEvent) RoomKey() string {
	if e.Room != "" {
		return e.Room
	}
	return room.DeriveKey(e.ItemID, e.Showtime, e.Date, e.Location)
}
