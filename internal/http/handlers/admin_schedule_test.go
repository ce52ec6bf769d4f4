package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rkbeauty/booking-gateway/internal/adminpanel"
	"github.com/rkbeauty/booking-gateway/internal/bookingapi"
	"github.com/rkbeauty/booking-gateway/internal/live"
)

func newScheduleHandler(t *testing.T, backend http.HandlerFunc) (*AdminScheduleHandler, *live.Hub) {
	t.Helper()
	api := newUpstream(t, backend)
	hub := live.NewHub(testLogger())
	go hub.Run()
	ctrl := adminpanel.NewController(api, testLogger())
	return NewAdminScheduleHandler(ctrl, api, hub, testLogger()), hub
}

func TestScheduleGetForwardsToken(t *testing.T) {
	var gotToken string
	h, _ := newScheduleHandler(t, func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get(bookingapi.AdminTokenHeader)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"morning":{"open":true,"quota":5},"afternoon":{"open":false,"quota":0}}`))
	})

	req := httptest.NewRequest(http.MethodGet, "/api/admin/schedule?date=2026-09-12&type=formation", nil)
	req.Header.Set(bookingapi.AdminTokenHeader, "secret")
	rec := httptest.NewRecorder()
	h.Get(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "secret", gotToken)

	var resp struct {
		Override bookingapi.Override `json:"override"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 5, resp.Override.Morning.Quota)
	assert.False(t, resp.Override.Afternoon.Open)
}

func TestSchedulePutRejectsNegativeQuotaLocally(t *testing.T) {
	h, _ := newScheduleHandler(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no upstream call expected for a negative quota")
	})

	body := `{"morning":{"open":true,"quota":-1},"afternoon":{"open":true,"quota":4}}`
	req := httptest.NewRequest(http.MethodPut, "/api/admin/schedule?date=2026-09-12&type=formation", strings.NewReader(body))
	req.Header.Set(bookingapi.AdminTokenHeader, "secret")
	rec := httptest.NewRecorder()
	h.Put(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Quota matin invalide.")
}

func TestScheduleBlockBroadcastsToWatchers(t *testing.T) {
	var saved bookingapi.Override
	h, hub := newScheduleHandler(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&saved))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	})

	wsSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		live.ServeWS(hub, w, r)
	}))
	defer wsSrv.Close()
	conn := dialWS(t, wsSrv.URL, "type=formation&date=2026-09-12")

	deadline := time.Now().Add(2 * time.Second)
	for hub.WatcherCount(bookingapi.BookingTypeFormation, "2026-09-12") == 0 {
		require.True(t, time.Now().Before(deadline), "watcher never registered")
		time.Sleep(5 * time.Millisecond)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/admin/schedule/block?date=2026-09-12&type=formation", nil)
	req.Header.Set(bookingapi.AdminTokenHeader, "secret")
	rec := httptest.NewRecorder()
	h.Block(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, bookingapi.BlockedOverride(), saved)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var msg live.Message
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, live.MessageTypeDayBlocked, msg.Type)
}

func TestScheduleDeleteRequiresParams(t *testing.T) {
	h, _ := newScheduleHandler(t, func(w http.ResponseWriter, r *http.Request) {})

	req := httptest.NewRequest(http.MethodDelete, "/api/admin/schedule?date=2026-09-12", nil)
	rec := httptest.NewRecorder()
	h.Delete(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
