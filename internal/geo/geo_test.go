package geo

import (
	"math"
	"testing"

	"github.com/example/repair-dispatch/internal/models"
)

func TestDistanceZeroForSamePoint(t *testing.T) {
	p := models.Coord{Lat: 12.97, Lon: 77.59}
	if d := DistanceKm(p, p); d != 0 {
		t.Fatalf("expected 0, got %f", d)
	}
}

func TestDistanceSymmetric(t *testing.T) {
	a := models.Coord{Lat: 12.9716, Lon: 77.5946}
	b := models.Coord{Lat: 13.0827, Lon: 80.2707}
	if DistanceKm(a, b) != DistanceKm(b, a) {
		t.Fatalf("distance not symmetric")
	}
}

func TestDistanceOneDegreeLatitude(t *testing.T) {
	a := models.Coord{Lat: 0, Lon: 0}
	b := models.Coord{Lat: 1, Lon: 0}
	d := DistanceKm(a, b)
	// one degree of latitude is ~111.19 km on a 6371 km sphere
	if math.Abs(d-111.19) > 0.1 {
		t.Fatalf("expected ~111.19 km, got %f", d)
	}
}
