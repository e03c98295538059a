package booking

import (
	"github.com/example/repair-dispatch/internal/schedule"
)

// State is the lifecycle of a single appointment selection.
type State int

const (
	Unselected State = iota
	SlotChosen
	Confirmed
)

func (s State) String() string {
	switch s {
	case SlotChosen:
		return "slot_chosen"
	case Confirmed:
		return "confirmed"
	default:
		return "unselected"
	}
}

// Selection is the caller-owned booking state for one assignment. It is not
// safe for concurrent use; each UI session owns exactly one value. There is
// no terminal state: Confirmed is re-enterable after a reschedule.
type Selection struct {
	day   string
	slot  *schedule.Slot
	state State
}

func (s *Selection) State() State { return s.state }

// Day returns the currently selected calendar day, if any.
func (s *Selection) Day() string { return s.day }

// Slot returns the chosen slot, or false when none is chosen.
func (s *Selection) Slot() (schedule.Slot, bool) {
	if s.slot == nil {
		return schedule.Slot{}, false
	}
	return *s.slot, true
}

// ChooseDay switches the selected day. Switching day always resets any slot
// chosen on the previous day. Ignored while Confirmed; the user must
// reschedule first.
func (s *Selection) ChooseDay(date string) {
	if s.state == Confirmed {
		return
	}
	if s.day != date {
		s.slot = nil
		s.state = Unselected
	}
	s.day = date
}

// ChooseSlot picks a concrete slot, moving to SlotChosen. Ignored while
// Confirmed.
func (s *Selection) ChooseSlot(slot schedule.Slot) {
	if s.state == Confirmed {
		return
	}
	s.day = slot.Date
	s.slot = &slot
	s.state = SlotChosen
}

// Confirm moves SlotChosen to Confirmed and reports whether it did.
// Confirming without a chosen slot is a no-op: there is no direct
// Unselected -> Confirmed transition.
func (s *Selection) Confirm() bool {
	if s.state != SlotChosen {
		return false
	}
	s.state = Confirmed
	return true
}

// Reschedule clears the selection entirely, returning to Unselected rather
// than SlotChosen.
func (s *Selection) Reschedule() {
	s.day = ""
	s.slot = nil
	s.state = Unselected
}
