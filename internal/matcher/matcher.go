package matcher

import (
	"github.com/example/repair-dispatch/internal/geo"
	"github.com/example/repair-dispatch/internal/models"
	"github.com/example/repair-dispatch/internal/observability"
)

// NoTechnicianError signals that no roster entry covers the requested
// category. The caller surfaces it as a localized message naming the category.
type NoTechnicianError struct {
	Category string
}

func (e *NoTechnicianError) Error() string {
	return "no technician available for category " + e.Category
}

// Result is the winning technician plus the distance that ranked them.
type Result struct {
	Technician models.Technician
	DistanceKm float64
}

// Match filters the roster to technicians whose skillsets include category
// (exact match) and returns the one closest to userLoc. Ties go to the
// earliest roster entry; rating is deliberately not a tie-break. Pure: the
// roster snapshot is never modified.
func Match(category string, userLoc models.Coord, roster []models.Technician) (Result, error) {
	var (
		best  Result
		found bool
	)
	for _, t := range roster {
		if !t.HasSkill(category) {
			continue
		}
		dist := geo.DistanceKm(userLoc, t.Location)
		if !found || dist < best.DistanceKm {
			best = Result{Technician: t, DistanceKm: dist}
			found = true
		}
	}
	if !found {
		observability.MatchFailuresTotal.Inc()
		return Result{}, &NoTechnicianError{Category: category}
	}
	observability.MatchesTotal.Inc()
	return best, nil
}
