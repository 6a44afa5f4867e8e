package dashboard

import (
	"context"
	"testing"

	"wajba-be/internal/order"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardRepository_FetchOrderRecords(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	rows := sqlmock.NewRows([]string{"status", "total"}).
		AddRow("delivered", 150.0).
		AddRow("cancelled", 999.0).
		AddRow(nil, nil).
		AddRow("warp_speed", 10.0)

	mock.ExpectQuery(`SELECT status, total FROM orders`).WillReturnRows(rows)

	records, err := repo.FetchOrderRecords(ctx)
	require.NoError(t, err)
	require.Len(t, records, 4)

	assert.Equal(t, order.StatusCompleted, records[0].Status)
	assert.Equal(t, order.StatusCancelled, records[1].Status)

	// Null status scans to the zero value, null total to 0.
	assert.Equal(t, order.Status(""), records[2].Status)
	assert.Equal(t, 0.0, records[2].Total)

	// Unknown backend code falls open to new.
	assert.Equal(t, order.StatusNew, records[3].Status)
}

func TestDashboardRepository_Counts(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM restaurants`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM customers`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(340))

	restaurants, err := repo.CountRestaurants(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(12), restaurants)

	customers, err := repo.CountCustomers(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(340), customers)
}
