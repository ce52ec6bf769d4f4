package middleware

import (
	"net/http"

	"github.com/rkbeauty/booking-gateway/internal/bookingapi"
)

// RequireAdminToken rejects admin requests that arrive without the
// x-admin-token header. The token itself is validated by the booking API;
// the gateway only forwards it and never stores or compares it.
func RequireAdminToken() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get(bookingapi.AdminTokenHeader) == "" {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"message":"Token admin manquant."}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
