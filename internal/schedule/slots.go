package schedule

import (
	"time"

	"github.com/example/repair-dispatch/internal/observability"
)

// HorizonDays is the rolling booking window, starting today.
const HorizonDays = 7

// Slot is one bookable hour on a given date.
type Slot struct {
	Date    string `json:"date"` // 2006-01-02 in the caller's zone
	Hour    int    `json:"hour"`
	Display string `json:"display_time"` // 12-hour, e.g. "9:00 AM"
}

// DaySlots groups the slots of one calendar day. Days contributing zero
// slots never appear in a horizon.
type DaySlots struct {
	Date    string `json:"date"`
	Weekday string `json:"weekday"`
	Slots   []Slot `json:"slots"`
}

// GenerateSlots expands a rule into concrete bookable slots over the
// HorizonDays calendar days starting at now's date, in now's location.
// For today, only hours strictly after now's hour are emitted; availability
// is hour-granularity on purpose. The clock is injected so output is
// reproducible for a given rule and now.
func GenerateSlots(rule Rule, now time.Time) []DaySlots {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	horizon := make([]DaySlots, 0, HorizonDays)
	for i := 0; i < HorizonDays; i++ {
		day := today.AddDate(0, 0, i)
		if !rule.Covers(day.Weekday()) {
			continue
		}
		var slots []Slot
		for h := rule.StartHour; h < rule.EndHour; h++ {
			if i == 0 && h <= now.Hour() {
				continue
			}
			at := day.Add(time.Duration(h) * time.Hour)
			slots = append(slots, Slot{
				Date:    day.Format("2006-01-02"),
				Hour:    h,
				Display: at.Format("3:04 PM"),
			})
		}
		if len(slots) == 0 {
			continue
		}
		horizon = append(horizon, DaySlots{
			Date:    day.Format("2006-01-02"),
			Weekday: day.Weekday().String(),
			Slots:   slots,
		})
	}
	observability.SlotsGeneratedTotal.Add(float64(countSlots(horizon)))
	return horizon
}

func countSlots(horizon []DaySlots) int {
	n := 0
	for _, d := range horizon {
		n += len(d.Slots)
	}
	return n
}

// FindSlot looks up a slot by date and display time within a horizon.
func FindSlot(horizon []DaySlots, date, display string) (Slot, bool) {
	for _, d := range horizon {
		if d.Date != date {
			continue
		}
		for _, s := range d.Slots {
			if s.Display == display {
				return s, true
			}
		}
	}
	return Slot{}, false
}
