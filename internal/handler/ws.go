package handler

// ws.go upgrades HTTP requests to websocket connections and hands them to
// the gateway hub.  Socket connections are deliberately unauthenticated at
// this layer; the holder identity arrives in the join-room payload and the
// surrounding booking app is responsible for vouching for it.

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/seat-live/internal/gateway"
)

// WSHandler owns the upgrader configuration and the hub that serves
// upgraded connections.
type WSHandler struct {
	hub      *gateway.Hub
	upgrader websocket.Upgrader
}

// NewWSHandler constructs a WSHandler.  When checkOrigin is false the
// upgrader accepts cross-origin requests, which is how the browser
// frontends served from the booking app's own domain reach the gateway.
func NewWSHandler(hub *gateway.Hub, checkOrigin bool) *WSHandler {
	if hub == nil {
		panic("nil hub passed to NewWSHandler")
	}
	up := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}
	if !checkOrigin {
		up.CheckOrigin = func(*http.Request) bool { return true }
	}
	return &WSHandler{hub: hub, upgrader: up}
}

// Serve handles GET /v1/ws.  On upgrade failure the upgrader has already
// written the HTTP error response; the returned error is only logged by
// Echo.  On success this blocks for the lifetime of the connection.
func (h *WSHandler) Serve(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	h.hub.ServeConn(conn)
	return nil
}
