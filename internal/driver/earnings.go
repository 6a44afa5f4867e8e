package driver

import (
	"math"

	"wajba-be/internal/geo"
)

// EstimateEarnings derives the proposed payout for carrying an order from
// the restaurant to the delivery address. ok is false when either location
// is missing; that case renders as N/A, never as 0.
func EstimateEarnings(restaurant, delivery *geo.Point, ratePerKm float64) (float64, bool) {
	if restaurant == nil || delivery == nil {
		return 0, false
	}
	return round2(geo.DistanceKm(*restaurant, *delivery) * ratePerKm), true
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
