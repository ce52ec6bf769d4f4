package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rkbeauty/booking-gateway/internal/availability"
	"github.com/rkbeauty/booking-gateway/internal/bookingapi"
	"github.com/rkbeauty/booking-gateway/pkg/logging"
)

const maxCalendarDays = 31

// CalendarHandler serves a rolling window of daily availability so the
// widget can paint a whole month in one request.
type CalendarHandler struct {
	api         *bookingapi.Client
	logger      *logging.Logger
	defaultDays int
}

func NewCalendarHandler(api *bookingapi.Client, logger *logging.Logger, defaultDays int) *CalendarHandler {
	if logger == nil {
		logger = logging.Default()
	}
	if defaultDays <= 0 || defaultDays > maxCalendarDays {
		defaultDays = 14
	}
	return &CalendarHandler{api: api, logger: logger, defaultDays: defaultDays}
}

type calendarDay struct {
	Date         string                 `json:"date"`
	Availability *availability.Snapshot `json:"availability,omitempty"`
	Error        string                 `json:"error,omitempty"`
}

type calendarResponse struct {
	BookingType string        `json:"type"`
	Start       string        `json:"start"`
	Days        []calendarDay `json:"days"`
}

// Get handles GET /api/calendar.
func (h *CalendarHandler) Get(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	typ, err := bookingapi.ParseBookingType(q.Get("type"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Paramètre type requis.")
		return
	}

	start := time.Now()
	if s := strings.TrimSpace(q.Get("start")); s != "" {
		start, err = time.Parse("2006-01-02", s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Paramètre start invalide.")
			return
		}
	}

	days := h.defaultDays
	if d := q.Get("days"); d != "" {
		n, convErr := strconv.Atoi(d)
		if convErr != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "Paramètre days invalide.")
			return
		}
		days = n
		if days > maxCalendarDays {
			days = maxCalendarDays
		}
	}

	resp := calendarResponse{
		BookingType: string(typ),
		Start:       start.Format("2006-01-02"),
		Days:        make([]calendarDay, 0, days),
	}

	// A single bad day must not blank the whole calendar; failed days
	// carry an error and render closed.
	for i := 0; i < days; i++ {
		date := start.AddDate(0, 0, i).Format("2006-01-02")
		day := calendarDay{Date: date}
		snap, fetchErr := h.api.GetAvailability(r.Context(), date, typ)
		if fetchErr != nil {
			h.logger.Warn("calendar day fetch failed", "date", date, "error", fetchErr)
			closed := availability.FallbackClosed(date)
			day.Availability = &closed
			day.Error = "indisponible"
		} else {
			day.Availability = &snap
		}
		resp.Days = append(resp.Days, day)
	}

	writeJSON(w, http.StatusOK, resp)
}
