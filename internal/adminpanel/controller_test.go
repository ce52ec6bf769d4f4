package adminpanel

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rkbeauty/booking-gateway/internal/bookingapi"
)

type adminUpstream struct {
	t        *testing.T
	requests atomic.Int64

	lastMethod   string
	lastPath     string
	lastToken    string
	lastOverride bookingapi.Override
	listCalls    atomic.Int64
	sessions     []bookingapi.FormationSession
}

func (f *adminUpstream) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.requests.Add(1)
		f.lastMethod = r.Method
		f.lastPath = r.URL.Path
		f.lastToken = r.Header.Get(bookingapi.AdminTokenHeader)

		switch {
		case r.URL.Path == "/admin/schedule" && r.Method == http.MethodPut:
			if err := json.NewDecoder(r.Body).Decode(&f.lastOverride); err != nil {
				f.t.Fatalf("decode override: %v", err)
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
		case r.URL.Path == "/admin/schedule":
			_ = json.NewEncoder(w).Encode(bookingapi.Override{
				Morning:   bookingapi.SlotOverride{Open: true, Quota: 8},
				Afternoon: bookingapi.SlotOverride{Open: true, Quota: 8},
			})
		case r.URL.Path == "/admin/formation-sessions" && r.Method == http.MethodGet:
			f.listCalls.Add(1)
			_ = json.NewEncoder(w).Encode(f.sessions)
		default:
			_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
		}
	})
}

func newAdminController(t *testing.T, f *adminUpstream) *Controller {
	t.Helper()
	ts := httptest.NewServer(f.handler())
	t.Cleanup(ts.Close)
	return NewController(bookingapi.NewClient(ts.URL), nil)
}

func TestSaveOverrideRejectsNegativeQuotaWithoutNetworkCall(t *testing.T) {
	f := &adminUpstream{t: t}
	ctrl := newAdminController(t, f)

	err := ctrl.SaveOverride(context.Background(), "tok", "2025-07-14", bookingapi.BookingTypeService, bookingapi.Override{
		Morning:   bookingapi.SlotOverride{Open: true, Quota: -1},
		Afternoon: bookingapi.SlotOverride{Open: true, Quota: 8},
	})

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "Quota matin invalide.", vErr.Message)
	assert.Zero(t, f.requests.Load(), "invalid quota must not reach the network")
}

func TestSaveOverrideSendsPayload(t *testing.T) {
	f := &adminUpstream{t: t}
	ctrl := newAdminController(t, f)

	ov := bookingapi.Override{
		Morning:   bookingapi.SlotOverride{Open: true, Quota: 6},
		Afternoon: bookingapi.SlotOverride{Open: false, Quota: 0},
	}
	require.NoError(t, ctrl.SaveOverride(context.Background(), "tok", "2025-07-14", bookingapi.BookingTypeFormation, ov))
	assert.Equal(t, http.MethodPut, f.lastMethod)
	assert.Equal(t, "tok", f.lastToken)
	assert.Equal(t, ov, f.lastOverride)
}

func TestBlockDayAlwaysWritesClosedZero(t *testing.T) {
	f := &adminUpstream{t: t}
	ctrl := newAdminController(t, f)

	require.NoError(t, ctrl.BlockDay(context.Background(), "tok", "2025-07-14", bookingapi.BookingTypeService))

	want := bookingapi.Override{
		Morning:   bookingapi.SlotOverride{Open: false, Quota: 0},
		Afternoon: bookingapi.SlotOverride{Open: false, Quota: 0},
	}
	assert.Equal(t, want, f.lastOverride)
}

func TestDeleteOverrideIssuesDelete(t *testing.T) {
	f := &adminUpstream{t: t}
	ctrl := newAdminController(t, f)

	require.NoError(t, ctrl.DeleteOverride(context.Background(), "tok", "2025-07-14", bookingapi.BookingTypeService))
	assert.Equal(t, http.MethodDelete, f.lastMethod)
	assert.Equal(t, "/admin/schedule", f.lastPath)
}

func TestCreateSessionRelistsAfterMutation(t *testing.T) {
	f := &adminUpstream{t: t, sessions: []bookingapi.FormationSession{{ID: 1, FormationCode: "F2J-150"}}}
	ctrl := newAdminController(t, f)

	sessions, err := ctrl.CreateSession(context.Background(), "tok", bookingapi.CreateSessionRequest{
		FormationCode: "F2J-150",
		StartDate:     "2025-09-01",
		Capacity:      6,
		SlotPolicy:    bookingapi.SlotPolicyBoth,
		Status:        bookingapi.SessionStatusDraft,
	})
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, int64(1), f.listCalls.Load(), "mutation must be followed by a full re-list")
}

func TestCreateSessionInfersDefaultsFromCode(t *testing.T) {
	var created bookingapi.CreateSessionRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&created))
		}
		_ = json.NewEncoder(w).Encode([]bookingapi.FormationSession{})
	}))
	t.Cleanup(ts.Close)
	ctrl := NewController(bookingapi.NewClient(ts.URL), nil)

	_, err := ctrl.CreateSession(context.Background(), "tok", bookingapi.CreateSessionRequest{
		FormationCode: "P2S-250",
		StartDate:     "2025-09-01",
		Capacity:      4,
	})
	require.NoError(t, err)
	assert.Equal(t, "Promo spéciale 14 jours", created.FormationLabel)
	assert.Equal(t, 14, created.DaysCount)
	assert.Equal(t, 250.0, created.PriceEUR)
}

func TestCreateSessionValidation(t *testing.T) {
	f := &adminUpstream{t: t}
	ctrl := newAdminController(t, f)

	cases := []struct {
		name string
		req  bookingapi.CreateSessionRequest
		want string
	}{
		{"missing code", bookingapi.CreateSessionRequest{}, "Choisis une formation_code."},
		{"missing start", bookingapi.CreateSessionRequest{FormationCode: "F2J-150"}, "Date début requise."},
		{"bad days", bookingapi.CreateSessionRequest{FormationCode: "X", FormationLabel: "X", StartDate: "2025-09-01", DaysCount: 90, Capacity: 1}, "Durée invalide."},
		{"bad capacity", bookingapi.CreateSessionRequest{FormationCode: "F2J-150", StartDate: "2025-09-01", Capacity: 0}, "Capacity invalide."},
		{"bad policy", bookingapi.CreateSessionRequest{FormationCode: "F2J-150", StartDate: "2025-09-01", Capacity: 2, SlotPolicy: "evening"}, "Slot policy invalide: evening"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			before := f.requests.Load()
			_, err := ctrl.CreateSession(context.Background(), "tok", tc.req)
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tc.want, vErr.Message)
			assert.Equal(t, before, f.requests.Load(), "local rejection must not reach the network")
		})
	}
}

func TestInferFromCode(t *testing.T) {
	cases := []struct {
		code string
		ok   bool
		want InferredSession
	}{
		{"F2J-150", true, InferredSession{Label: "Formation 2 jours", DaysCount: 2, PriceEUR: 150}},
		{"F4S-400", true, InferredSession{Label: "Formation 4 semaines", DaysCount: 28, PriceEUR: 400}},
		{"P7J-250", true, InferredSession{Label: "Promo spéciale 7 jours", DaysCount: 7, PriceEUR: 250}},
		{"", false, InferredSession{}},
		{"ABC", false, InferredSession{}},
	}
	for _, tc := range cases {
		got, ok := InferFromCode(tc.code)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("InferFromCode(%q) = %+v/%v, want %+v/%v", tc.code, got, ok, tc.want, tc.ok)
		}
	}
}
