package handlers

import (
	"time"

	"wajba-be/internal/geo"
	"wajba-be/internal/offer"
	"wajba-be/internal/order"
)

type orderItemRequest struct {
	Name      string   `json:"name" validate:"required"`
	Quantity  int      `json:"quantity" validate:"required,gt=0"`
	UnitPrice float64  `json:"unit_price" validate:"gte=0"`
	Options   []string `json:"options"`
}

type createOrderRequest struct {
	RestaurantID     int64              `json:"restaurant_id" validate:"required"`
	DeliveryAddress  string             `json:"delivery_address" validate:"required"`
	DeliveryLocation *geo.Point         `json:"delivery_location"`
	Items            []orderItemRequest `json:"items" validate:"required,min=1,dive"`
	PaymentMethod    string             `json:"payment_method" validate:"omitempty,oneof=cash prepaid"`
	CustomerNotes    string             `json:"customer_notes"`
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=new confirmed preparing ready out_for_delivery completed cancelled"`
}

type driverStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=available busy inactive"`
}

type driverLocationRequest struct {
	Lat float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lng float64 `json:"lng" validate:"gte=-180,lte=180"`
}

type redeemRequest struct {
	Total float64 `json:"total" validate:"required,gt=0"`
}

type offerRequest struct {
	Code          string    `json:"code" validate:"required"`
	Title         string    `json:"title"`
	DiscountType  string    `json:"discount_type" validate:"required,oneof=percentage fixed"`
	DiscountValue float64   `json:"discount_value" validate:"required,gt=0"`
	ValidFrom     time.Time `json:"valid_from" validate:"required"`
	ValidTo       time.Time `json:"valid_to" validate:"required"`
}

type campaignRequest struct {
	Title     string    `json:"title" validate:"required"`
	ImageURL  string    `json:"image_url"`
	OfferCode string    `json:"offer_code"`
	StartsAt  time.Time `json:"starts_at" validate:"required"`
	EndsAt    time.Time `json:"ends_at" validate:"required"`
}

type orderResponse struct {
	ID               int64        `json:"id"`
	Number           string       `json:"number"`
	Status           order.Status `json:"status"`
	StatusLabel      string       `json:"status_label"`
	RestaurantID     int64        `json:"restaurant_id"`
	CustomerID       int64        `json:"customer_id"`
	DeliveryAddress  string       `json:"delivery_address"`
	Items            []order.Item `json:"items"`
	PaymentMethod    string       `json:"payment_method"`
	Total            float64      `json:"total"`
	CustomerNotes    string       `json:"customer_notes,omitempty"`
	AssignedDriverID *int64       `json:"assigned_driver_id,omitempty"`
	PickedUp         bool         `json:"picked_up"`
	CreatedAt        time.Time    `json:"created_at"`
}

func toOrderResponse(o *order.Order) orderResponse {
	return orderResponse{
		ID:               o.ID,
		Number:           o.Number,
		Status:           o.Status,
		StatusLabel:      o.Status.Label(),
		RestaurantID:     o.RestaurantID,
		CustomerID:       o.CustomerID,
		DeliveryAddress:  o.DeliveryAddress,
		Items:            o.Items,
		PaymentMethod:    string(o.PaymentMethod),
		Total:            o.Total,
		CustomerNotes:    o.CustomerNotes,
		AssignedDriverID: o.AssignedDriverID,
		PickedUp:         o.PickedUp,
		CreatedAt:        o.CreatedAt,
	}
}

type offerResponse struct {
	ID            int64     `json:"id"`
	Code          string    `json:"code"`
	Title         string    `json:"title,omitempty"`
	DiscountType  string    `json:"discount_type"`
	DiscountValue float64   `json:"discount_value"`
	ValidFrom     time.Time `json:"valid_from"`
	ValidTo       time.Time `json:"valid_to"`
	UsageCount    int       `json:"usage_count"`

	// Recomputed from the validity window on every read.
	Status string `json:"status"`
}

func toOfferResponse(o *offer.Offer) offerResponse {
	return offerResponse{
		ID:            o.ID,
		Code:          o.Code,
		Title:         o.Title,
		DiscountType:  string(o.DiscountType),
		DiscountValue: o.DiscountValue,
		ValidFrom:     o.ValidFrom,
		ValidTo:       o.ValidTo,
		UsageCount:    o.UsageCount,
		Status:        string(o.Status),
	}
}

func toOfferResponses(offers []*offer.Offer) []offerResponse {
	out := make([]offerResponse, 0, len(offers))
	for _, o := range offers {
		out = append(out, toOfferResponse(o))
	}
	return out
}

// candidateResponse carries derived values for the driver feed. A missing
// earnings estimate stays null so clients render N/A instead of 0.
type candidateResponse struct {
	Order             orderResponse `json:"order"`
	DistanceKm        float64       `json:"distance_km"`
	EstimatedEarnings *float64      `json:"estimated_earnings"`
}
