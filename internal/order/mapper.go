package order

import (
	"database/sql"
	"encoding/json"

	"wajba-be/internal/geo"
	"wajba-be/internal/logger"

	"go.uber.org/zap"
)

// RawOrder is an order row as it comes off the external store: every field
// nullable, nothing trusted. FromRaw is the single place malformed records
// are repaired, so the rest of the core only ever sees a well-formed Order.
type RawOrder struct {
	ID               int64
	Number           sql.NullString
	Status           sql.NullString
	RestaurantID     sql.NullInt64
	RestaurantLat    sql.NullFloat64
	RestaurantLng    sql.NullFloat64
	CustomerID       sql.NullInt64
	DeliveryAddress  sql.NullString
	DeliveryLat      sql.NullFloat64
	DeliveryLng      sql.NullFloat64
	ItemsJSON        sql.NullString
	PaymentMethod    sql.NullString
	Total            sql.NullFloat64
	CustomerNotes    sql.NullString
	AssignedDriverID sql.NullInt64
	PickedUp         sql.NullBool
	CreatedAt        sql.NullTime
	UpdatedAt        sql.NullTime
	AcceptedAt       sql.NullTime
	PickedUpAt       sql.NullTime
	DeliveredAt      sql.NullTime
	CancelledAt      sql.NullTime
}

// FromRaw normalizes a raw row into a domain order, substituting safe
// defaults for missing fields. Data-shape problems are logged and repaired,
// never returned as errors.
func FromRaw(raw RawOrder) *Order {
	log := logger.L().With(zap.Int64("order_id", raw.ID))

	o := &Order{
		ID:            raw.ID,
		Number:        raw.Number.String,
		CustomerID:    raw.CustomerID.Int64,
		RestaurantID:  raw.RestaurantID.Int64,
		PaymentMethod: PaymentCash,
		PickedUp:      raw.PickedUp.Bool,
	}

	if raw.Status.Valid {
		o.Status = StatusFromBackend(raw.Status.String)
	} else {
		log.Warn("order record missing status, defaulting to new")
		o.Status = StatusNew
	}

	if raw.Total.Valid {
		o.Total = raw.Total.Float64
	} else {
		log.Warn("order record missing total, defaulting to 0")
	}

	if raw.PaymentMethod.Valid && PaymentMethod(raw.PaymentMethod.String) == PaymentPrepaid {
		o.PaymentMethod = PaymentPrepaid
	}

	o.DeliveryAddress = raw.DeliveryAddress.String
	o.CustomerNotes = raw.CustomerNotes.String

	// Missing coordinates stay nil so derived earnings come out unavailable
	// rather than a bogus zero-distance value.
	if raw.RestaurantLat.Valid && raw.RestaurantLng.Valid {
		o.RestaurantLocation = &geo.Point{Lat: raw.RestaurantLat.Float64, Lng: raw.RestaurantLng.Float64}
	}
	if raw.DeliveryLat.Valid && raw.DeliveryLng.Valid {
		o.DeliveryLocation = &geo.Point{Lat: raw.DeliveryLat.Float64, Lng: raw.DeliveryLng.Float64}
	}

	if raw.ItemsJSON.Valid && raw.ItemsJSON.String != "" {
		var items []Item
		if err := json.Unmarshal([]byte(raw.ItemsJSON.String), &items); err != nil {
			log.Warn("order record has malformed items payload", zap.Error(err))
		} else {
			o.Items = items
		}
	}

	if raw.AssignedDriverID.Valid {
		id := raw.AssignedDriverID.Int64
		o.AssignedDriverID = &id
	}

	o.CreatedAt = raw.CreatedAt.Time
	o.UpdatedAt = raw.UpdatedAt.Time
	if raw.AcceptedAt.Valid {
		t := raw.AcceptedAt.Time
		o.AcceptedAt = &t
	}
	if raw.PickedUpAt.Valid {
		t := raw.PickedUpAt.Time
		o.PickedUpAt = &t
	}
	if raw.DeliveredAt.Valid {
		t := raw.DeliveredAt.Time
		o.DeliveredAt = &t
	}
	if raw.CancelledAt.Valid {
		t := raw.CancelledAt.Time
		o.CancelledAt = &t
	}

	return o
}
