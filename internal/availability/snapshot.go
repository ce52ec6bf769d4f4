// Package availability normalizes the booking API's availability responses
// into one canonical per-day snapshot. The upstream has shipped several
// response shapes over time; all tolerance for that lives here.
package availability

// SlotStatus is the canonical state of one half-day slot.
type SlotStatus struct {
	Open      bool `json:"open"`
	Quota     int  `json:"quota"`
	Reserved  int  `json:"reserved"`
	Remaining int  `json:"remaining"`
}

// Snapshot is the canonical availability of one date. It is fetched fresh per
// query and never cached.
type Snapshot struct {
	Date      string     `json:"date"`
	Morning   SlotStatus `json:"morning"`
	Afternoon SlotStatus `json:"afternoon"`
	Blocked   bool       `json:"blocked"`
}

// Bookable reports whether the given slot can still take a reservation.
func (s Snapshot) Bookable(slot string) bool {
	if s.Blocked {
		return false
	}
	switch slot {
	case "morning":
		return s.Morning.Open && s.Morning.Remaining > 0
	case "afternoon":
		return s.Afternoon.Open && s.Afternoon.Remaining > 0
	}
	return false
}

// FallbackClosed returns the all-closed snapshot used for display when the
// availability fetch fails outright.
func FallbackClosed(date string) Snapshot {
	return Snapshot{Date: date, Blocked: true}
}
