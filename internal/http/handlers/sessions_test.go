package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rkbeauty/booking-gateway/internal/bookingapi"
)

func sessionsRequest(code string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/formations/"+code+"/sessions", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("code", code)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestSessionsListFormatsLabels(t *testing.T) {
	api := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"id":1,"formation_code":"F2J-150","start_date":"2026-09-12","remaining":3,"status":"published"},
			{"id":2,"formation_code":"F2J-150","start_date":"2026-09-19","remaining":1,"status":"published"},
			{"id":3,"formation_code":"F2J-150","start_date":"2026-09-26","remaining":0,"status":"published"},
			{"id":4,"formation_code":"F2J-150","start_date":"2026-10-03","remaining":5,"status":"draft"}
		]`))
	})
	h := NewSessionsHandler(api, testLogger())

	rec := httptest.NewRecorder()
	h.List(rec, sessionsRequest("F2J-150"))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Sessions []sessionOption `json:"sessions"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))

	// Draft sessions never reach the public widget.
	require.Len(t, resp.Sessions, 3)
	assert.Equal(t, "12/09/2026 (3 places restantes)", resp.Sessions[0].DisplayLabel)
	assert.Equal(t, "19/09/2026 (1 place restante)", resp.Sessions[1].DisplayLabel)
	assert.Equal(t, "26/09/2026 — Complet", resp.Sessions[2].DisplayLabel)
	assert.True(t, resp.Sessions[2].Full)
}

func TestSessionsListUpstreamError(t *testing.T) {
	api := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"Formation inconnue."}`))
	})
	h := NewSessionsHandler(api, testLogger())

	rec := httptest.NewRecorder()
	h.List(rec, sessionsRequest("XXX-000"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Formation inconnue.")
}

func TestSessionLabelKeepsUnparseableDate(t *testing.T) {
	s := bookingapi.FormationSession{StartDate: "bientôt", Remaining: 2}
	assert.Equal(t, "bientôt (2 places restantes)", sessionLabel(s))
}
