package order

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromRaw_FullRecord(t *testing.T) {
	now := time.Now()
	raw := RawOrder{
		ID:               7,
		Number:           sql.NullString{String: "ORD-1001", Valid: true},
		Status:           sql.NullString{String: CodePickedUp, Valid: true},
		RestaurantID:     sql.NullInt64{Int64: 3, Valid: true},
		RestaurantLat:    sql.NullFloat64{Float64: 24.71, Valid: true},
		RestaurantLng:    sql.NullFloat64{Float64: 46.67, Valid: true},
		CustomerID:       sql.NullInt64{Int64: 9, Valid: true},
		DeliveryAddress:  sql.NullString{String: "King Fahd Rd 12", Valid: true},
		DeliveryLat:      sql.NullFloat64{Float64: 24.75, Valid: true},
		DeliveryLng:      sql.NullFloat64{Float64: 46.70, Valid: true},
		ItemsJSON:        sql.NullString{String: `[{"name":"شاورما","quantity":2,"unit_price":15,"options":["extra garlic"]}]`, Valid: true},
		PaymentMethod:    sql.NullString{String: "prepaid", Valid: true},
		Total:            sql.NullFloat64{Float64: 30, Valid: true},
		AssignedDriverID: sql.NullInt64{Int64: 4, Valid: true},
		PickedUp:         sql.NullBool{Bool: true, Valid: true},
		CreatedAt:        sql.NullTime{Time: now, Valid: true},
		UpdatedAt:        sql.NullTime{Time: now, Valid: true},
	}

	o := FromRaw(raw)

	assert.Equal(t, StatusOutForDelivery, o.Status)
	assert.Equal(t, PaymentPrepaid, o.PaymentMethod)
	assert.Equal(t, 30.0, o.Total)
	assert.True(t, o.PickedUp)
	require.NotNil(t, o.AssignedDriverID)
	assert.Equal(t, int64(4), *o.AssignedDriverID)
	require.NotNil(t, o.RestaurantLocation)
	require.NotNil(t, o.DeliveryLocation)
	require.Len(t, o.Items, 1)
	assert.Equal(t, "شاورما", o.Items[0].Name)
	assert.Equal(t, 2, o.Items[0].Quantity)
}

func TestFromRaw_MissingFieldsGetDefaults(t *testing.T) {
	o := FromRaw(RawOrder{ID: 1})

	assert.Equal(t, StatusNew, o.Status)
	assert.Equal(t, 0.0, o.Total)
	assert.Equal(t, PaymentCash, o.PaymentMethod)
	assert.Nil(t, o.RestaurantLocation)
	assert.Nil(t, o.DeliveryLocation)
	assert.Nil(t, o.AssignedDriverID)
	assert.False(t, o.PickedUp)
}

func TestFromRaw_HalfCoordinateStaysNil(t *testing.T) {
	o := FromRaw(RawOrder{
		ID:            1,
		RestaurantLat: sql.NullFloat64{Float64: 24.71, Valid: true},
		// lng missing
	})

	assert.Nil(t, o.RestaurantLocation)
}

func TestFromRaw_MalformedItemsAreDropped(t *testing.T) {
	o := FromRaw(RawOrder{
		ID:        1,
		ItemsJSON: sql.NullString{String: `{"not":"a list"`, Valid: true},
	})

	assert.Empty(t, o.Items)
}

func TestFromRaw_UnknownStatusDefaultsToNew(t *testing.T) {
	o := FromRaw(RawOrder{
		ID:     1,
		Status: sql.NullString{String: "mystery", Valid: true},
	})

	assert.Equal(t, StatusNew, o.Status)
}
