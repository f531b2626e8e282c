package handler

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/seat-live/internal/gateway"
	"github.com/iliyamo/seat-live/internal/store"
)

func startGatewayServer(t *testing.T) (*httptest.Server, string, *store.Store) {
	t.Helper()
	st := store.New()
	hub := gateway.NewHub(st)
	e := echo.New()
	e.GET("/v1/ws", NewWSHandler(hub, false).Serve)
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/ws"
	return srv, wsURL, st
}

func dial(t *testing.T, wsURL string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func sendEvent(t *testing.T, conn *websocket.Conn, event string, data any) {
	t.Helper()
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(gateway.Envelope{Event: event, Data: raw}))
}

func readEvent(t *testing.T, conn *websocket.Conn) gateway.Envelope {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var env gateway.Envelope
	require.NoError(t, conn.ReadJSON(&env))
	return env
}

func TestWebsocket_JoinSelectDisconnectFlow(t *testing.T) {
	req := require.New(t)
	_, wsURL, st := startGatewayServer(t)

	join := gateway.JoinRoomData{
		ItemID:   "M1",
		Showtime: "2025-06-10T18:30:00.000Z",
		Date:     "2025-06-10",
		Location: "DubaiMall",
		HolderID: "u1",
	}

	// First client joins an empty room and gets an empty snapshot
	c1 := dial(t, wsURL)
	sendEvent(t, c1, gateway.EventJoinRoom, join)
	env := readEvent(t, c1)
	req.Equal(gateway.EventSeatState, env.Event)
	var snap gateway.SeatStateData
	req.NoError(json.Unmarshal(env.Data, &snap))
	req.Empty(snap.Seats)

	// It selects a seat and sees its own update come back
	sendEvent(t, c1, gateway.EventSelectSeat, gateway.SeatRefData{SeatID: "B-5"})
	env = readEvent(t, c1)
	req.Equal(gateway.EventSeatUpdate, env.Event)
	var upd gateway.SeatUpdateData
	req.NoError(json.Unmarshal(env.Data, &upd))
	req.Equal("B-5", upd.SeatID)
	req.NotNil(upd.HolderID)
	req.Equal("u1", *upd.HolderID)

	// A second client joining the same room sees the hold in its snapshot
	join.HolderID = "u2"
	c2 := dial(t, wsURL)
	sendEvent(t, c2, gateway.EventJoinRoom, join)
	env = readEvent(t, c2)
	req.Equal(gateway.EventSeatState, env.Event)
	req.NoError(json.Unmarshal(env.Data, &snap))
	req.Equal(map[string]string{"B-5": "u1"}, snap.Seats)

	// When the first client disconnects its hold is released and the
	// survivor is told
	req.NoError(c1.Close())
	env = readEvent(t, c2)
	req.Equal(gateway.EventSeatUpdate, env.Event)
	req.NoError(json.Unmarshal(env.Data, &upd))
	req.Equal("B-5", upd.SeatID)
	req.Nil(upd.HolderID)

	// And the store agrees
	require.Eventually(t, func() bool {
		return len(st.RoomState("M1_2025-06-10T18:30:00.000Z_DubaiMall")) == 0
	}, 2*time.Second, 10*time.Millisecond)
}
