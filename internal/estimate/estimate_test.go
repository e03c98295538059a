package estimate

import (
	"testing"

	"github.com/example/repair-dispatch/internal/models"
)

func TestCostBreakdown(t *testing.T) {
	parts := []models.Part{
		{Name: "flush valve", EstimatedPrice: 100},
		{Name: "supply line", EstimatedPrice: 50},
	}
	c := Cost(parts, 2, 30)
	if c.Parts != 150 {
		t.Fatalf("expected parts=150, got %f", c.Parts)
	}
	if c.Labor != 60 {
		t.Fatalf("expected labor=60, got %f", c.Labor)
	}
	if c.Total != 210 {
		t.Fatalf("expected total=210, got %f", c.Total)
	}
}

func TestCostTotalIsExactSum(t *testing.T) {
	parts := []models.Part{{EstimatedPrice: 0.1}, {EstimatedPrice: 0.2}}
	c := Cost(parts, 1.5, 33.33)
	if c.Total != c.Parts+c.Labor {
		t.Fatalf("total must equal parts+labor exactly: %v vs %v", c.Total, c.Parts+c.Labor)
	}
}

func TestCostEmptyParts(t *testing.T) {
	c := Cost(nil, 3, 40)
	if c.Parts != 0 {
		t.Fatalf("empty parts should cost 0, got %f", c.Parts)
	}
	if c.Total != 120 {
		t.Fatalf("expected total=120, got %f", c.Total)
	}
}

func TestArrivalMinutes(t *testing.T) {
	cases := []struct {
		distanceKm float64
		want       int
	}{
		{0, 10},
		{-3, 10},
		{5, 20},
		{30, 70},
		{1, 12},
	}
	for _, c := range cases {
		if got := ArrivalMinutes(c.distanceKm); got != c.want {
			t.Fatalf("ArrivalMinutes(%v) = %d, want %d", c.distanceKm, got, c.want)
		}
	}
}

func TestArrivalMinutesAtCustomSpeed(t *testing.T) {
	// 10 km at 60 km/h is 10 min travel plus 5 min prep
	if got := ArrivalMinutesAt(10, 60, 5); got != 15 {
		t.Fatalf("expected 15, got %d", got)
	}
	// non-positive speed falls back to the default 30 km/h
	if got := ArrivalMinutesAt(30, 0, 10); got != 70 {
		t.Fatalf("expected 70, got %d", got)
	}
}
