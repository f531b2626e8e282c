package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/seat-live/internal/gateway"
	"github.com/iliyamo/seat-live/internal/store"
)

const testRoomKey = "M1_2025-06-10T18:30:00.000Z_DubaiMall"

func postNotify(t *testing.T, h *BookingHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/rooms/notify-booking", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	require.NoError(t, h.NotifyBooking(e.NewContext(req, rec)))
	return rec
}

func TestNotifyBooking_ValidationFailures(t *testing.T) {
	req := require.New(t)
	st := store.New()
	st.HoldSeat(testRoomKey, "B-5", "u1")
	h := NewBookingHandler(gateway.NewHub(st))

	cases := []string{
		`{"seatIds": ["B-5"]}`,                       // missing room
		`{"room": "` + testRoomKey + `"}`,            // missing seatIds
		`{"room": "` + testRoomKey + `", "seatIds": []}`,        // empty seatIds
		`{"room": "` + testRoomKey + `", "seatIds": ["B-5", ""]}`, // blank entry
		`{"room": 42, "seatIds": ["B-5"]}`,           // wrong type
	}
	for _, body := range cases {
		rec := postNotify(t, h, body)
		req.Equal(http.StatusBadRequest, rec.Code, "body: %s", body)
	}

	// No validation failure mutated the state
	req.Equal(map[string]string{"B-5": "u1"}, st.RoomState(testRoomKey))
}

func TestNotifyBooking_ClearsHeldSeats(t *testing.T) {
	req := require.New(t)
	st := store.New()
	st.HoldSeat(testRoomKey, "B-5", "u2")
	h := NewBookingHandler(gateway.NewHub(st))

	rec := postNotify(t, h, `{"room": "`+testRoomKey+`", "seatIds": ["B-5", "B-6"]}`)
	req.Equal(http.StatusOK, rec.Code)
	req.JSONEq(`{"status": "ok", "cleared": 1}`, rec.Body.String())
	req.Empty(st.RoomState(testRoomKey))

	// Repeat notification is harmless and reports zero cleared
	rec = postNotify(t, h, `{"room": "`+testRoomKey+`", "seatIds": ["B-5", "B-6"]}`)
	req.Equal(http.StatusOK, rec.Code)
	req.JSONEq(`{"status": "ok", "cleared": 0}`, rec.Body.String())
}
