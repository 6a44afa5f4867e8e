package order

import (
	"time"

	"wajba-be/internal/geo"
)

// Status is the canonical lifecycle state of an order. The external store
// carries backend wire codes instead; status.go maps between the two.
type Status string

const (
	StatusNew            Status = "new"
	StatusConfirmed      Status = "confirmed"
	StatusPreparing      Status = "preparing"
	StatusReady          Status = "ready"
	StatusOutForDelivery Status = "out_for_delivery"
	StatusCompleted      Status = "completed"
	StatusCancelled      Status = "cancelled"
)

type PaymentMethod string

const (
	PaymentCash    PaymentMethod = "cash"
	PaymentPrepaid PaymentMethod = "prepaid"
)

type Item struct {
	Name      string   `json:"name"`
	Quantity  int      `json:"quantity"`
	UnitPrice float64  `json:"unit_price"`
	Options   []string `json:"options,omitempty"`
}

type Order struct {
	ID                 int64
	Number             string
	Status             Status
	RestaurantID       int64
	RestaurantLocation *geo.Point
	CustomerID         int64
	DeliveryAddress    string
	DeliveryLocation   *geo.Point
	Items              []Item
	PaymentMethod      PaymentMethod
	Total              float64
	CustomerNotes      string
	AssignedDriverID   *int64

	// PickedUp distinguishes the driver's pickup and delivery phases while
	// the order is out_for_delivery. It is not a separate status.
	PickedUp bool

	CreatedAt   time.Time
	UpdatedAt   time.Time
	AcceptedAt  *time.Time
	PickedUpAt  *time.Time
	DeliveredAt *time.Time
	CancelledAt *time.Time
}

// Candidate is a ready, unassigned order as seen by a driver browsing for
// work: the order plus the derived distance and earnings estimate.
// EstimatedEarnings is nil when a location is missing (renders as N/A).
type Candidate struct {
	Order             *Order
	DistanceKm        float64
	EstimatedEarnings *float64
}
