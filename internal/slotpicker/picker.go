// Package slotpicker is the slot-selection state machine behind the booking
// widget. It is deliberately free of any HTTP or rendering concern: events
// mutate an explicit Picker state and callers render from it.
package slotpicker

import (
	"fmt"

	"github.com/rkbeauty/booking-gateway/internal/availability"
)

// Key identifies a half-day booking unit.
type Key string

const (
	KeyMorning   Key = "morning"
	KeyAfternoon Key = "afternoon"
)

// State is the lifecycle state of one slot control.
type State string

const (
	// StateEmpty is the initial state, before a date or session is chosen.
	StateEmpty State = "empty"
	// StateEnabled means the slot can be selected.
	StateEnabled State = "enabled"
	// StateSelected means the slot is the current choice.
	StateSelected State = "selected"
	// StateDisabled means the slot is closed, full, or policy-restricted.
	StateDisabled State = "disabled"
)

// Reasons a control is disabled.
const (
	ReasonFull   = "full"
	ReasonClosed = "closed"
	ReasonPolicy = "policy"
)

// Display labels, as the booking pages render them.
const (
	labelMorning   = "Matin"
	labelAfternoon = "Après-midi"
	labelFull      = "Complet"
)

// Control is the render model of one slot button.
type Control struct {
	Key       Key    `json:"key"`
	State     State  `json:"state"`
	Remaining int    `json:"remaining"`
	Label     string `json:"label"`
	Reason    string `json:"reason,omitempty"`
}

// Picker holds the whole widget selection state for one page render.
type Picker struct {
	Date      string `json:"date"`
	SessionID int64  `json:"session_id,omitempty"`
	Policy    string `json:"slot_policy,omitempty"`
	Selected  Key    `json:"selected,omitempty"`

	Morning   Control `json:"morning"`
	Afternoon Control `json:"afternoon"`

	hasAvailability bool
	snapshot        availability.Snapshot
}

// New returns a picker with both controls empty.
func New() *Picker {
	p := &Picker{}
	p.rebuild()
	return p
}

// SetDate switches the picker to a new date. All slot state resets to empty
// so a stale selection can never survive into the next availability fetch.
func (p *Picker) SetDate(date string) {
	p.Date = date
	p.reset()
}

// SetSession switches the picker to a formation session and applies its slot
// policy. As with a date change, prior slot state is discarded first.
func (p *Picker) SetSession(sessionID int64, policy string) {
	p.SessionID = sessionID
	p.reset()
	p.Policy = policy
	p.rebuild()
}

// ApplyAvailability feeds a fresh availability snapshot into the controls.
func (p *Picker) ApplyAvailability(snap availability.Snapshot) {
	p.hasAvailability = true
	p.snapshot = snap
	p.rebuild()
}

// Select attempts to select a slot. Selecting a disabled, empty, or unknown
// control is rejected and reverts the picker to no selection.
func (p *Picker) Select(key Key) bool {
	p.Selected = ""
	if c := p.control(key); c != nil && (c.State == StateEnabled || c.State == StateSelected) {
		p.Selected = key
	}
	p.rebuild()
	return p.Selected != ""
}

// CanSubmit reports whether the current selection is valid for submission.
func (p *Picker) CanSubmit() bool {
	if p.Selected == "" {
		return false
	}
	c := p.control(p.Selected)
	return c != nil && c.State == StateSelected
}

// Controls returns the render models in display order.
func (p *Picker) Controls() []Control {
	return []Control{p.Morning, p.Afternoon}
}

func (p *Picker) reset() {
	p.Selected = ""
	p.Policy = ""
	p.hasAvailability = false
	p.snapshot = availability.Snapshot{}
	p.rebuild()
}

func (p *Picker) control(key Key) *Control {
	switch key {
	case KeyMorning:
		return &p.Morning
	case KeyAfternoon:
		return &p.Afternoon
	}
	return nil
}

// rebuild recomputes both controls from the snapshot, the slot policy, and
// the current selection, in that order.
func (p *Picker) rebuild() {
	p.Morning = p.baseControl(KeyMorning, p.snapshot.Morning)
	p.Afternoon = p.baseControl(KeyAfternoon, p.snapshot.Afternoon)

	switch p.Policy {
	case "morning":
		p.disableForPolicy(&p.Afternoon)
	case "afternoon":
		p.disableForPolicy(&p.Morning)
	}

	// Drop a selection its control can no longer honor.
	if p.Selected != "" {
		if c := p.control(p.Selected); c == nil || c.State != StateEnabled {
			p.Selected = ""
		}
	}

	// A restrictive policy pre-selects its only slot; "both" never does.
	if p.Selected == "" {
		switch p.Policy {
		case "morning":
			if p.Morning.State == StateEnabled {
				p.Selected = KeyMorning
			}
		case "afternoon":
			if p.Afternoon.State == StateEnabled {
				p.Selected = KeyAfternoon
			}
		}
	}

	if p.Selected != "" {
		p.control(p.Selected).State = StateSelected
	}
}

func (p *Picker) baseControl(key Key, status availability.SlotStatus) Control {
	c := Control{Key: key, Label: baseLabel(key)}

	if !p.hasAvailability {
		// Without availability data a chosen session still yields selectable
		// controls; only the policy restricts them.
		if p.Policy != "" {
			c.State = StateEnabled
		} else {
			c.State = StateEmpty
		}
		return c
	}

	switch {
	case p.snapshot.Blocked || !status.Open:
		c.State = StateDisabled
		c.Reason = ReasonClosed
		c.Label = baseLabel(key) + " — " + labelFull
	case status.Remaining <= 0:
		c.State = StateDisabled
		c.Reason = ReasonFull
		c.Label = baseLabel(key) + " — " + labelFull
	default:
		c.State = StateEnabled
		c.Remaining = status.Remaining
		c.Label = fmt.Sprintf("%s — %d place(s)", baseLabel(key), status.Remaining)
	}
	return c
}

func (p *Picker) disableForPolicy(c *Control) {
	if c.State == StateDisabled {
		return
	}
	c.State = StateDisabled
	c.Reason = ReasonPolicy
	c.Label = baseLabel(c.Key)
}

func baseLabel(key Key) string {
	if key == KeyAfternoon {
		return labelAfternoon
	}
	return labelMorning
}
