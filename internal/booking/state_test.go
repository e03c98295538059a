package booking

import (
	"testing"

	"github.com/example/repair-dispatch/internal/schedule"
)

func slotAt(date, display string) schedule.Slot {
	return schedule.Slot{Date: date, Hour: 9, Display: display}
}

func TestLifecycle(t *testing.T) {
	var sel Selection
	if sel.State() != Unselected {
		t.Fatalf("initial state should be unselected, got %v", sel.State())
	}

	sel.ChooseSlot(slotAt("2026-03-10", "9:00 AM"))
	if sel.State() != SlotChosen {
		t.Fatalf("expected slot_chosen, got %v", sel.State())
	}

	if !sel.Confirm() {
		t.Fatal("confirm from slot_chosen should succeed")
	}
	if sel.State() != Confirmed {
		t.Fatalf("expected confirmed, got %v", sel.State())
	}

	sel.Reschedule()
	if sel.State() != Unselected {
		t.Fatalf("reschedule should return to unselected, got %v", sel.State())
	}
	if _, ok := sel.Slot(); ok {
		t.Fatal("reschedule should clear the slot")
	}
	if sel.Day() != "" {
		t.Fatal("reschedule should clear the day")
	}
}

func TestConfirmWithoutSlotIsNoop(t *testing.T) {
	var sel Selection
	if sel.Confirm() {
		t.Fatal("confirm from unselected must not succeed")
	}
	if sel.State() != Unselected {
		t.Fatalf("state changed on no-op confirm: %v", sel.State())
	}
}

func TestChangingDayClearsSlot(t *testing.T) {
	var sel Selection
	sel.ChooseSlot(slotAt("2026-03-10", "9:00 AM"))

	sel.ChooseDay("2026-03-11")
	if sel.State() != Unselected {
		t.Fatalf("day change should reset to unselected, got %v", sel.State())
	}
	if _, ok := sel.Slot(); ok {
		t.Fatal("day change should clear the chosen slot")
	}
	if sel.Day() != "2026-03-11" {
		t.Fatalf("day should update, got %s", sel.Day())
	}
}

func TestSameDayReselectionKeepsSlot(t *testing.T) {
	var sel Selection
	sel.ChooseSlot(slotAt("2026-03-10", "9:00 AM"))
	sel.ChooseDay("2026-03-10")
	if sel.State() != SlotChosen {
		t.Fatalf("re-choosing the same day should keep the slot, got %v", sel.State())
	}
}

func TestConfirmedIgnoresSelectionChanges(t *testing.T) {
	var sel Selection
	sel.ChooseSlot(slotAt("2026-03-10", "9:00 AM"))
	sel.Confirm()

	sel.ChooseDay("2026-03-12")
	sel.ChooseSlot(slotAt("2026-03-12", "10:00 AM"))
	if sel.State() != Confirmed {
		t.Fatalf("confirmed selection must not change without reschedule, got %v", sel.State())
	}
	if got, _ := sel.Slot(); got.Date != "2026-03-10" {
		t.Fatalf("slot changed while confirmed: %+v", got)
	}
}

func TestConfirmedReenterableAfterReschedule(t *testing.T) {
	var sel Selection
	sel.ChooseSlot(slotAt("2026-03-10", "9:00 AM"))
	sel.Confirm()
	sel.Reschedule()

	sel.ChooseSlot(slotAt("2026-03-12", "11:00 AM"))
	if !sel.Confirm() {
		t.Fatal("confirm should succeed again after reschedule")
	}
}
