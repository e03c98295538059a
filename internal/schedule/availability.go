package schedule

import (
	"strconv"
	"strings"
	"time"

	"github.com/example/repair-dispatch/internal/observability"
)

// Rule is the structured weekly form of a technician's availability text.
// Days is indexed by time.Weekday (0=Sunday). Hours are end-exclusive:
// StartHour in [0,24), EndHour in (0,24].
type Rule struct {
	Days      [7]bool
	StartHour int
	EndHour   int
}

// FullAvailability is the fallback rule: every day, hours 0..24.
func FullAvailability() Rule {
	var r Rule
	for i := range r.Days {
		r.Days[i] = true
	}
	r.StartHour = 0
	r.EndHour = 24
	return r
}

var dayIndex = map[string]int{
	"SUN": 0, "MON": 1, "TUE": 2, "WED": 3, "THU": 4, "FRI": 5, "SAT": 6,
}

// ParseAvailability turns a free-text schedule like "Mon-Fri, 9 AM - 5 PM"
// into a Rule. The second return value reports whether the text actually
// matched the grammar; on "24/7" or any parse failure it is false and the
// returned rule is FullAvailability. Full availability is the safe fallback
// for unparseable input, so this function never fails.
//
// Grammar (case-insensitive): Day[-Day], H AM|PM - H AM|PM with three-letter
// weekday abbreviations Sun..Sat. Day ranges wrap the week (Sat-Tue covers
// Sat, Sun, Mon, Tue). 12 AM is midnight (0), 12 PM is noon; an end hour of
// 12 AM means end of day and becomes 24.
func ParseAvailability(text string) (Rule, bool) {
	upper := strings.ToUpper(strings.TrimSpace(text))
	if strings.Contains(upper, "24/7") {
		return FullAvailability(), false
	}

	dayPart, hourPart, ok := strings.Cut(upper, ",")
	if !ok {
		return fallback()
	}

	days, ok := parseDays(strings.TrimSpace(dayPart))
	if !ok {
		return fallback()
	}
	start, end, ok := parseHours(strings.TrimSpace(hourPart))
	if !ok {
		return fallback()
	}

	return Rule{Days: days, StartHour: start, EndHour: end}, true
}

func fallback() (Rule, bool) {
	observability.AvailabilityFallbacksTotal.Inc()
	return FullAvailability(), false
}

func parseDays(s string) ([7]bool, bool) {
	var days [7]bool
	first, second, ranged := strings.Cut(s, "-")
	start, ok := dayIndex[strings.TrimSpace(first)]
	if !ok {
		return days, false
	}
	end := start
	if ranged {
		end, ok = dayIndex[strings.TrimSpace(second)]
		if !ok {
			return days, false
		}
	}
	// walk forward from start to end, wrapping the week if needed
	for i := start; ; i = (i + 1) % 7 {
		days[i] = true
		if i == end {
			break
		}
	}
	return days, true
}

func parseHours(s string) (start, end int, ok bool) {
	from, to, ranged := strings.Cut(s, "-")
	if !ranged {
		return 0, 0, false
	}
	start, ok = parseClock(strings.TrimSpace(from))
	if !ok {
		return 0, 0, false
	}
	end, ok = parseClock(strings.TrimSpace(to))
	if !ok {
		return 0, 0, false
	}
	if end == 0 {
		end = 24 // "12 AM" as an end hour means midnight at end of day
	}
	return start, end, true
}

// parseClock converts "9 AM" / "12PM" style tokens to a 24-hour value.
func parseClock(s string) (int, bool) {
	var meridiem string
	switch {
	case strings.HasSuffix(s, "AM"):
		meridiem = "AM"
	case strings.HasSuffix(s, "PM"):
		meridiem = "PM"
	default:
		return 0, false
	}
	digits := strings.TrimSpace(strings.TrimSuffix(s, meridiem))
	h, err := strconv.Atoi(digits)
	if err != nil || h < 1 || h > 12 {
		return 0, false
	}
	if meridiem == "AM" {
		if h == 12 {
			return 0, true
		}
		return h, true
	}
	if h == 12 {
		return 12, true
	}
	return h + 12, true
}

// Covers reports whether the rule includes the given weekday.
func (r Rule) Covers(day time.Weekday) bool { return r.Days[day] }
