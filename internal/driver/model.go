package driver

import (
	"time"

	"wajba-be/internal/geo"
)

type Status string

const (
	StatusAvailable Status = "available"
	StatusBusy      Status = "busy"
	StatusInactive  Status = "inactive"
)

type Driver struct {
	ID              int64
	Name            string
	Phone           string
	Status          Status
	Rating          float64
	TotalDeliveries int

	// RatePerKm is the driver's own rate; 0 means unset and the platform
	// default applies (see Rate).
	RatePerKm float64

	Location  *geo.Point
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Rate returns the effective per-km rate for this driver.
func (d *Driver) Rate(platformDefault float64) float64 {
	if d.RatePerKm > 0 {
		return d.RatePerKm
	}
	return platformDefault
}

// DailyEarning is the per-driver, per-day aggregate. Rows accumulate during
// the day and are never mutated once the day closes.
type DailyEarning struct {
	DriverID   int64     `json:"driver_id"`
	Day        time.Time `json:"day"`
	Deliveries int       `json:"deliveries"`
	Earnings   float64   `json:"earnings"`
	TotalValue float64   `json:"total_value"`
}
