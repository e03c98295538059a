package estimate

import "math"

const (
	// DefaultPrepMinutes is the fixed preparation overhead before travel.
	DefaultPrepMinutes = 10
	// DefaultSpeedKmh is the assumed average travel speed.
	DefaultSpeedKmh = 30.0
)

// ArrivalMinutes converts a distance into an ETA in whole minutes using the
// default prep time and speed: round(10 + distanceKm/30*60). Rounding is
// half-up (math.Round). Zero or negative distance yields the prep time alone.
func ArrivalMinutes(distanceKm float64) int {
	return ArrivalMinutesAt(distanceKm, DefaultSpeedKmh, DefaultPrepMinutes)
}

// ArrivalMinutesAt is ArrivalMinutes with an explicit speed and prep time,
// for deployments that tune them via config.
func ArrivalMinutesAt(distanceKm, speedKmh float64, prepMinutes int) int {
	if speedKmh <= 0 {
		speedKmh = DefaultSpeedKmh
	}
	if distanceKm <= 0 {
		return prepMinutes
	}
	travel := distanceKm / speedKmh * 60.0
	return int(math.Round(float64(prepMinutes) + travel))
}
