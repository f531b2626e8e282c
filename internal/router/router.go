package router // package router defines how HTTP routes are registered for the gateway

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/seat-live/internal/handler" // import the handlers that implement the endpoints
)

// RegisterRoutes registers the public surface of the gateway on the
// provided Echo instance: the health check and the websocket endpoint.
// Socket connections are not authenticated at this layer, so no middleware
// is applied here.
func RegisterRoutes(e *echo.Echo, ws *handler.WSHandler) {
	// Map the GET request at path "/healthz" to the Health handler.  This
	// endpoint can be used by load balancers or monitoring systems to verify
	// that the service is up and running.
	e.GET("/healthz", handler.Health)
	// The realtime seat channel.  The handler upgrades the request and
	// blocks for the lifetime of the connection.
	e.GET("/v1/ws", ws.Serve)
}

// RegisterInternal registers the trusted internal surface: the booking
// reconciliation endpoint.  The supplied guards (internal auth, rate
// limiting) run in order before the handler.
func RegisterInternal(e *echo.Echo, booking *handler.BookingHandler, guards ...echo.MiddlewareFunc) {
	g := e.Group("/v1/rooms", guards...)
	// Booking confirmations arrive here from the booking backend once
	// payment succeeds; the handler clears the seats and notifies the room.
	g.POST("/notify-booking", booking.NotifyBooking)
}
