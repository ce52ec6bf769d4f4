package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"

	"github.com/rkbeauty/booking-gateway/internal/bookingapi"
	"github.com/rkbeauty/booking-gateway/pkg/logging"
)

// newUpstream fakes the booking API and returns a client pointed at it.
func newUpstream(t *testing.T, handler http.HandlerFunc) *bookingapi.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return bookingapi.NewClient(srv.URL, bookingapi.WithLogger(logging.New("error")))
}

func testLogger() *logging.Logger {
	return logging.New("error")
}

func dialWS(t *testing.T, serverURL, query string) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(serverURL, "http") + "/?" + query
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}
