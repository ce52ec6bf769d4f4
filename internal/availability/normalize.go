package availability

import "encoding/json"

// wireSlot covers every per-slot field any upstream shape has used.
type wireSlot struct {
	Open      *bool    `json:"open"`
	Max       *int     `json:"max"`
	Quota     *int     `json:"quota"`
	Reserved  *int     `json:"reserved"`
	Remaining *float64 `json:"remaining"`
}

type wireSlots struct {
	Morning   *wireSlot `json:"morning"`
	Afternoon *wireSlot `json:"afternoon"`
}

// wireAvailability is the union of the tolerated response shapes:
// nested {slots:{morning,afternoon}}, top-level {morning,afternoon},
// and flat {morningRemaining,afternoonRemaining}.
type wireAvailability struct {
	Date               string     `json:"date"`
	Blocked            *bool      `json:"blocked"`
	Slots              *wireSlots `json:"slots"`
	Morning            *wireSlot  `json:"morning"`
	Afternoon          *wireSlot  `json:"afternoon"`
	MorningRemaining   *float64   `json:"morningRemaining"`
	AfternoonRemaining *float64   `json:"afternoonRemaining"`
}

// Normalize converts a raw availability response body into the canonical
// snapshot. Unknown or unparseable payloads normalize to all-closed rather
// than failing: a day the gateway cannot interpret is shown as full.
func Normalize(date string, raw []byte) Snapshot {
	var wire wireAvailability
	if len(raw) == 0 || json.Unmarshal(raw, &wire) != nil {
		return FallbackClosed(date)
	}

	if wire.Date != "" {
		date = wire.Date
	}

	var morning, afternoon SlotStatus
	switch {
	case wire.Slots != nil && (wire.Slots.Morning != nil || wire.Slots.Afternoon != nil):
		morning = normalizeSlot(wire.Slots.Morning)
		afternoon = normalizeSlot(wire.Slots.Afternoon)
	case wire.Morning != nil || wire.Afternoon != nil:
		morning = normalizeSlot(wire.Morning)
		afternoon = normalizeSlot(wire.Afternoon)
	case wire.MorningRemaining != nil || wire.AfternoonRemaining != nil:
		morning = slotFromRemaining(wire.MorningRemaining)
		afternoon = slotFromRemaining(wire.AfternoonRemaining)
	}

	blocked := wire.Blocked != nil && *wire.Blocked
	if !morning.Open && !afternoon.Open {
		blocked = true
	}

	return Snapshot{
		Date:      date,
		Morning:   morning,
		Afternoon: afternoon,
		Blocked:   blocked,
	}
}

func normalizeSlot(w *wireSlot) SlotStatus {
	if w == nil {
		return SlotStatus{}
	}

	quota := 0
	if w.Max != nil {
		quota = *w.Max
	} else if w.Quota != nil {
		quota = *w.Quota
	}

	reserved := 0
	if w.Reserved != nil {
		reserved = *w.Reserved
	}

	// The upstream invariant is remaining = quota - reserved; recompute the
	// missing side and clamp negatives to zero.
	remaining := quota - reserved
	if w.Remaining != nil {
		remaining = int(*w.Remaining)
		if w.Reserved == nil && quota > 0 {
			reserved = quota - remaining
		}
	}
	if remaining < 0 {
		remaining = 0
	}
	if reserved < 0 {
		reserved = 0
	}

	// Slots present on the wire without an explicit open flag are open; the
	// flat shapes never carry one.
	open := true
	if w.Open != nil {
		open = *w.Open
	}

	return SlotStatus{
		Open:      open,
		Quota:     quota,
		Reserved:  reserved,
		Remaining: remaining,
	}
}

func slotFromRemaining(remaining *float64) SlotStatus {
	if remaining == nil {
		return SlotStatus{}
	}
	r := int(*remaining)
	if r < 0 {
		r = 0
	}
	return SlotStatus{Open: true, Remaining: r}
}
