package handler

// booking.go receives booking-confirmation notifications from the trusted
// booking backend.  Once payment succeeds there, the held seats stop being
// holds and become permanently unavailable; this endpoint clears them from
// the in-memory state and tells every connection in the room.

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/seat-live/internal/gateway"
)

// BookingHandler carries the hub through which reconciliations are applied.
// All seat mutation goes through the hub so that a notification is
// serialized with client-originated events instead of racing them.
type BookingHandler struct {
	hub *gateway.Hub
}

// NewBookingHandler constructs a BookingHandler.  The hub must be non-nil.
func NewBookingHandler(hub *gateway.Hub) *BookingHandler {
	if hub == nil {
		panic("nil hub passed to NewBookingHandler")
	}
	return &BookingHandler{hub: hub}
}

// NotifyBooking handles POST /v1/rooms/notify-booking.  The request body
// must contain a non-empty "room" string and a non-empty "seatIds" array
// with no blank entries; anything else is a 400 with no state change and
// no broadcast.  On success the seats are cleared from the room's hold
// table, a seat-booked event goes out to the room, and the response
// reports how many of the seats were actually held — a repeat call is
// harmless and reports zero.
func (h *BookingHandler) NotifyBooking(c echo.Context) error {
	var body struct {
		Room    string   `json:"room"`
		SeatIDs []string `json:"seatIds"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Room == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "room is required"})
	}
	if len(body.SeatIDs) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seatIds is required"})
	}
	for _, id := range body.SeatIDs {
		if id == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "seatIds must not contain empty entries"})
		}
	}
	cleared := h.hub.NotifyBooked(body.Room, body.SeatIDs)
	return c.JSON(http.StatusOK, echo.Map{"status": "ok", "cleared": len(cleared)})
}
