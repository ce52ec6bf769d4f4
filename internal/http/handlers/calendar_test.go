package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalendarWindowDefaultsAndPerDayFailure(t *testing.T) {
	api := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("date") == "2026-09-03" {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"message":"boom"}`))
			return
		}
		w.Write([]byte(`{"morning":{"open":true,"quota":8,"reserved":2},"afternoon":{"open":true,"quota":8,"reserved":0}}`))
	})
	h := NewCalendarHandler(api, testLogger(), 14)

	req := httptest.NewRequest(http.MethodGet, "/api/calendar?type=service&start=2026-09-01&days=5", nil)
	rec := httptest.NewRecorder()
	h.Get(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp calendarResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))

	require.Len(t, resp.Days, 5)
	assert.Equal(t, "2026-09-01", resp.Days[0].Date)
	assert.Equal(t, 6, resp.Days[0].Availability.Morning.Remaining)
	assert.Empty(t, resp.Days[0].Error)

	// The failed day renders closed instead of blanking the calendar.
	failed := resp.Days[2]
	assert.Equal(t, "2026-09-03", failed.Date)
	assert.Equal(t, "indisponible", failed.Error)
	require.NotNil(t, failed.Availability)
	assert.True(t, failed.Availability.Blocked)
}

func TestCalendarCapsWindow(t *testing.T) {
	calls := 0
	api := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"morning":{"open":true,"quota":8,"reserved":0},"afternoon":{"open":true,"quota":8,"reserved":0}}`))
	})
	h := NewCalendarHandler(api, testLogger(), 14)

	req := httptest.NewRequest(http.MethodGet, "/api/calendar?type=formation&start=2026-09-01&days=90", nil)
	rec := httptest.NewRecorder()
	h.Get(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, maxCalendarDays, calls)
}

func TestCalendarRequiresType(t *testing.T) {
	h := NewCalendarHandler(newUpstream(t, func(w http.ResponseWriter, r *http.Request) {}), testLogger(), 14)

	rec := httptest.NewRecorder()
	h.Get(rec, httptest.NewRequest(http.MethodGet, "/api/calendar?start=2026-09-01", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
