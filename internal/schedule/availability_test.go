package schedule

import (
	"testing"
	"time"
)

func TestParseWeekdayRange(t *testing.T) {
	r, parsed := ParseAvailability("Mon-Fri, 9 AM - 5 PM")
	if !parsed {
		t.Fatal("expected a parsed rule")
	}
	if r.StartHour != 9 || r.EndHour != 17 {
		t.Fatalf("expected hours 9..17, got %d..%d", r.StartHour, r.EndHour)
	}
	want := [7]bool{false, true, true, true, true, true, false}
	if r.Days != want {
		t.Fatalf("expected Mon..Fri, got %v", r.Days)
	}
}

func TestParseSingleDay(t *testing.T) {
	r, parsed := ParseAvailability("Sat, 10 AM - 2 PM")
	if !parsed {
		t.Fatal("expected a parsed rule")
	}
	want := [7]bool{}
	want[time.Saturday] = true
	if r.Days != want {
		t.Fatalf("expected Sat only, got %v", r.Days)
	}
	if r.StartHour != 10 || r.EndHour != 14 {
		t.Fatalf("expected 10..14, got %d..%d", r.StartHour, r.EndHour)
	}
}

func TestParseWrapsWeek(t *testing.T) {
	r, parsed := ParseAvailability("Sat-Tue, 10 AM - 6 PM")
	if !parsed {
		t.Fatal("expected a parsed rule")
	}
	want := [7]bool{true, true, true, false, false, false, true} // Sun Mon Tue + Sat
	if r.Days != want {
		t.Fatalf("expected Sat,Sun,Mon,Tue, got %v", r.Days)
	}
}

func TestParseCaseInsensitive(t *testing.T) {
	r, parsed := ParseAvailability("mon-fri, 9 am - 5 pm")
	if !parsed {
		t.Fatal("expected a parsed rule")
	}
	if r.StartHour != 9 || r.EndHour != 17 {
		t.Fatalf("expected 9..17, got %d..%d", r.StartHour, r.EndHour)
	}
}

func TestParseNoonAndMidnight(t *testing.T) {
	r, parsed := ParseAvailability("Sun-Sat, 12 AM - 12 PM")
	if !parsed {
		t.Fatal("expected a parsed rule")
	}
	if r.StartHour != 0 || r.EndHour != 12 {
		t.Fatalf("expected 0..12, got %d..%d", r.StartHour, r.EndHour)
	}

	r, parsed = ParseAvailability("Mon, 6 PM - 12 AM")
	if !parsed {
		t.Fatal("expected a parsed rule")
	}
	if r.StartHour != 18 || r.EndHour != 24 {
		t.Fatalf("expected 18..24, got %d..%d", r.StartHour, r.EndHour)
	}
}

func TestTwentyFourSevenFallsBack(t *testing.T) {
	r, parsed := ParseAvailability("24/7")
	if parsed {
		t.Fatal("24/7 should report the fallback rule")
	}
	if r != FullAvailability() {
		t.Fatalf("expected full availability, got %+v", r)
	}
}

func TestGarbageFallsBack(t *testing.T) {
	for _, text := range []string{
		"garbage text",
		"",
		"Xyz-Fri, 9 AM - 5 PM",
		"Mon-Fri",
		"Mon-Fri, 9 - 5",
		"Mon-Fri, 13 AM - 5 PM",
	} {
		r, parsed := ParseAvailability(text)
		if parsed {
			t.Fatalf("%q should not parse", text)
		}
		if r != FullAvailability() {
			t.Fatalf("%q: expected full availability fallback, got %+v", text, r)
		}
	}
}
