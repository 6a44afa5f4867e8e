package offer

import (
	"math"
	"time"

	"github.com/google/uuid"
)

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

type Offer struct {
	ID            int64
	Code          string
	Title         string
	DiscountType  DiscountType
	DiscountValue float64
	ValidFrom     time.Time
	ValidTo       time.Time
	UsageCount    int
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// Status is derived from the validity window on every read and is never
	// persisted; a stored status column would drift from wall-clock time.
	Status Status
}

// Discount returns the order total after applying the offer.
func (o *Offer) Discount(total float64) float64 {
	var discounted float64
	switch o.DiscountType {
	case DiscountPercentage:
		discounted = total * (1 - o.DiscountValue/100)
	case DiscountFixed:
		discounted = total - o.DiscountValue
	default:
		return total
	}
	if discounted < 0 {
		return 0
	}
	return math.Round(discounted*100) / 100
}

// Campaign is an admin-created promotional banner, optionally tied to an
// offer code.
type Campaign struct {
	ID        uuid.UUID
	Title     string
	ImageURL  string
	OfferCode string
	StartsAt  time.Time
	EndsAt    time.Time
	CreatedAt time.Time
}
