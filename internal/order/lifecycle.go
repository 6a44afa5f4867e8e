package order

import "time"

// forward is the transition graph: each status lists the statuses reachable
// from it. cancelled is reachable from every non-terminal status; terminal
// statuses have no outgoing edges.
var forward = map[Status][]Status{
	StatusNew:            {StatusConfirmed, StatusCancelled},
	StatusConfirmed:      {StatusPreparing, StatusCancelled},
	StatusPreparing:      {StatusReady, StatusCancelled},
	StatusReady:          {StatusOutForDelivery, StatusCancelled},
	StatusOutForDelivery: {StatusCompleted, StatusCancelled},
	StatusCompleted:      {},
	StatusCancelled:      {},
}

// CanTransition reports whether to is a legal next status from from.
func CanTransition(from, to Status) bool {
	for _, next := range forward[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Signal is a driver-side phase event while an order is out_for_delivery.
type Signal string

const (
	SignalPickedUp  Signal = "picked_up"
	SignalDelivered Signal = "delivered"
)

// Advance applies a driver signal to an order and returns the advanced copy.
// picked_up is valid only in the pickup phase, delivered only in the delivery
// phase; anything else returns ErrInvalidTransition with the input unchanged.
func Advance(o Order, sig Signal) (Order, error) {
	if o.Status != StatusOutForDelivery {
		return o, ErrInvalidTransition
	}

	now := time.Now()

	switch sig {
	case SignalPickedUp:
		if o.PickedUp {
			return o, ErrInvalidTransition
		}
		o.PickedUp = true
		o.PickedUpAt = &now
	case SignalDelivered:
		if !o.PickedUp {
			return o, ErrInvalidTransition
		}
		o.Status = StatusCompleted
		o.DeliveredAt = &now
	default:
		return o, ErrInvalidTransition
	}

	o.UpdatedAt = now
	return o, nil
}
