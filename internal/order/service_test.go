package order

import (
	"context"
	"testing"
	"time"

	"wajba-be/internal/driver"
	"wajba-be/internal/geo"
	"wajba-be/internal/restaurant"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Mocks ---

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, o *Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, id int64) (*Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Order), args.Error(1)
}

func (m *MockRepository) Fetch(ctx context.Context, filter *Filter, limit, offset int32) ([]*Order, error) {
	args := m.Called(ctx, filter, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Order), args.Error(1)
}

func (m *MockRepository) FetchCandidates(ctx context.Context) ([]*Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Order), args.Error(1)
}

func (m *MockRepository) Accept(ctx context.Context, orderID, driverID int64) error {
	args := m.Called(ctx, orderID, driverID)
	return args.Error(0)
}

func (m *MockRepository) MarkPickedUp(ctx context.Context, orderID, driverID int64) error {
	args := m.Called(ctx, orderID, driverID)
	return args.Error(0)
}

func (m *MockRepository) CompleteDelivery(ctx context.Context, orderID, driverID int64, earnings, orderTotal float64) error {
	args := m.Called(ctx, orderID, driverID, earnings, orderTotal)
	return args.Error(0)
}

func (m *MockRepository) UpdateStatus(ctx context.Context, orderID int64, from, to Status) error {
	args := m.Called(ctx, orderID, from, to)
	return args.Error(0)
}

func (m *MockRepository) Cancel(ctx context.Context, orderID int64) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

type MockDriverRepo struct {
	mock.Mock
}

func (m *MockDriverRepo) GetByID(ctx context.Context, id int64) (*driver.Driver, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*driver.Driver), args.Error(1)
}

func (m *MockDriverRepo) SetStatus(ctx context.Context, id int64, status driver.Status) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockDriverRepo) UpdateLocation(ctx context.Context, id int64, loc geo.Point) error {
	args := m.Called(ctx, id, loc)
	return args.Error(0)
}

func (m *MockDriverRepo) ListAvailable(ctx context.Context) ([]*driver.Driver, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*driver.Driver), args.Error(1)
}

func (m *MockDriverRepo) FetchDailyEarnings(ctx context.Context, driverID int64, from, to time.Time) ([]driver.DailyEarning, error) {
	args := m.Called(ctx, driverID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]driver.DailyEarning), args.Error(1)
}

type MockRestaurantRepo struct {
	mock.Mock
}

func (m *MockRestaurantRepo) GetByID(ctx context.Context, id int64) (*restaurant.Restaurant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*restaurant.Restaurant), args.Error(1)
}

func (m *MockRestaurantRepo) List(ctx context.Context) ([]*restaurant.Restaurant, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*restaurant.Restaurant), args.Error(1)
}

func newTestService(repo *MockRepository, drivers *MockDriverRepo, restaurants *MockRestaurantRepo) Service {
	return NewService(repo, drivers, restaurants, 2.0)
}

// --- Tests ---

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("ComputesTotalAndDefaults", func(t *testing.T) {
		repo := new(MockRepository)
		drivers := new(MockDriverRepo)
		restaurants := new(MockRestaurantRepo)
		svc := newTestService(repo, drivers, restaurants)

		restaurants.On("GetByID", ctx, int64(3)).Return(&restaurant.Restaurant{
			ID:       3,
			Location: &geo.Point{Lat: 24.71, Lng: 46.67},
		}, nil)
		repo.On("Create", ctx, mock.AnythingOfType("*order.Order")).Return(nil)

		o, err := svc.Create(ctx, CreateInput{
			CustomerID:      9,
			RestaurantID:    3,
			DeliveryAddress: "King Fahd Rd 12",
			Items: []Item{
				{Name: "برجر", Quantity: 2, UnitPrice: 15},
				{Name: "بطاطس", Quantity: 1, UnitPrice: 8},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, 38.0, o.Total)
		assert.Equal(t, StatusNew, o.Status)
		assert.Equal(t, PaymentCash, o.PaymentMethod)
		assert.NotNil(t, o.RestaurantLocation)
		assert.NotEmpty(t, o.Number)
	})

	t.Run("NoItems", func(t *testing.T) {
		repo := new(MockRepository)
		drivers := new(MockDriverRepo)
		restaurants := new(MockRestaurantRepo)
		svc := newTestService(repo, drivers, restaurants)

		_, err := svc.Create(ctx, CreateInput{RestaurantID: 3})
		assert.Error(t, err)
		repo.AssertNotCalled(t, "Create")
	})

	t.Run("RestaurantMissing", func(t *testing.T) {
		repo := new(MockRepository)
		drivers := new(MockDriverRepo)
		restaurants := new(MockRestaurantRepo)
		svc := newTestService(repo, drivers, restaurants)

		restaurants.On("GetByID", ctx, int64(99)).Return(nil, restaurant.ErrRestaurantNotFound)

		_, err := svc.Create(ctx, CreateInput{
			RestaurantID: 99,
			Items:        []Item{{Name: "x", Quantity: 1, UnitPrice: 1}},
		})
		assert.ErrorIs(t, err, restaurant.ErrRestaurantNotFound)
	})
}

func TestService_NearbyForDriver(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	drivers := new(MockDriverRepo)
	restaurants := new(MockRestaurantRepo)
	svc := newTestService(repo, drivers, restaurants)

	drivers.On("GetByID", ctx, int64(4)).Return(&driver.Driver{
		ID:        4,
		Status:    driver.StatusAvailable,
		RatePerKm: 3.0,
	}, nil)

	withLocations := &Order{
		ID:                 1,
		Status:             StatusReady,
		RestaurantLocation: &geo.Point{Lat: 24.7136, Lng: 46.6753},
		DeliveryLocation:   &geo.Point{Lat: 24.7236, Lng: 46.6753},
	}
	missingDelivery := &Order{
		ID:                 2,
		Status:             StatusReady,
		RestaurantLocation: &geo.Point{Lat: 24.7136, Lng: 46.6753},
	}
	repo.On("FetchCandidates", ctx).Return([]*Order{withLocations, missingDelivery}, nil)

	candidates, err := svc.NearbyForDriver(ctx, 4, geo.Point{Lat: 24.70, Lng: 46.67})
	require.NoError(t, err)
	require.Len(t, candidates, 2)

	// Driver's own rate applies.
	expected, ok := driver.EstimateEarnings(withLocations.RestaurantLocation, withLocations.DeliveryLocation, 3.0)
	require.True(t, ok)
	require.NotNil(t, candidates[0].EstimatedEarnings)
	assert.Equal(t, expected, *candidates[0].EstimatedEarnings)
	assert.Greater(t, candidates[0].DistanceKm, 0.0)

	// Missing delivery location means no estimate, not a zero.
	assert.Nil(t, candidates[1].EstimatedEarnings)
}

func TestService_Accept_ExactlyOneWinner(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	drivers := new(MockDriverRepo)
	restaurants := new(MockRestaurantRepo)
	svc := newTestService(repo, drivers, restaurants)

	accepted := &Order{ID: 1, Status: StatusOutForDelivery, AssignedDriverID: ptrInt64(4)}

	repo.On("Accept", ctx, int64(1), int64(4)).Return(nil).Once()
	repo.On("Accept", ctx, int64(1), int64(5)).Return(ErrAlreadyAssigned).Once()
	repo.On("GetByID", ctx, int64(1)).Return(accepted, nil)

	o, err := svc.Accept(ctx, 1, 4)
	require.NoError(t, err)
	assert.Equal(t, int64(4), *o.AssignedDriverID)

	_, err = svc.Accept(ctx, 1, 5)
	assert.ErrorIs(t, err, ErrAlreadyAssigned)
}

func TestService_MarkDelivered(t *testing.T) {
	ctx := context.Background()

	t.Run("PickupPhaseRejected", func(t *testing.T) {
		repo := new(MockRepository)
		drivers := new(MockDriverRepo)
		restaurants := new(MockRestaurantRepo)
		svc := newTestService(repo, drivers, restaurants)

		repo.On("GetByID", ctx, int64(1)).Return(&Order{
			ID:               1,
			Status:           StatusOutForDelivery,
			PickedUp:         false,
			AssignedDriverID: ptrInt64(4),
		}, nil)

		_, err := svc.MarkDelivered(ctx, 1, 4)
		assert.ErrorIs(t, err, ErrInvalidTransition)
		repo.AssertNotCalled(t, "CompleteDelivery", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("WrongDriverRejected", func(t *testing.T) {
		repo := new(MockRepository)
		drivers := new(MockDriverRepo)
		restaurants := new(MockRestaurantRepo)
		svc := newTestService(repo, drivers, restaurants)

		repo.On("GetByID", ctx, int64(1)).Return(&Order{
			ID:               1,
			Status:           StatusOutForDelivery,
			PickedUp:         true,
			AssignedDriverID: ptrInt64(4),
		}, nil)

		_, err := svc.MarkDelivered(ctx, 1, 9)
		assert.ErrorIs(t, err, ErrNotAssignedToDriver)
	})

	t.Run("SettlesEarnings", func(t *testing.T) {
		repo := new(MockRepository)
		drivers := new(MockDriverRepo)
		restaurants := new(MockRestaurantRepo)
		svc := newTestService(repo, drivers, restaurants)

		o := &Order{
			ID:                 1,
			Status:             StatusOutForDelivery,
			PickedUp:           true,
			AssignedDriverID:   ptrInt64(4),
			Total:              45.5,
			RestaurantLocation: &geo.Point{Lat: 24.7136, Lng: 46.6753},
			DeliveryLocation:   &geo.Point{Lat: 24.7236, Lng: 46.6753},
		}
		repo.On("GetByID", ctx, int64(1)).Return(o, nil)
		drivers.On("GetByID", ctx, int64(4)).Return(&driver.Driver{ID: 4, RatePerKm: 3.0}, nil)

		expected, ok := driver.EstimateEarnings(o.RestaurantLocation, o.DeliveryLocation, 3.0)
		require.True(t, ok)
		repo.On("CompleteDelivery", ctx, int64(1), int64(4), expected, 45.5).Return(nil)

		_, err := svc.MarkDelivered(ctx, 1, 4)
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})
}

func TestService_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("LegalStep", func(t *testing.T) {
		repo := new(MockRepository)
		drivers := new(MockDriverRepo)
		restaurants := new(MockRestaurantRepo)
		svc := newTestService(repo, drivers, restaurants)

		repo.On("GetByID", ctx, int64(1)).Return(&Order{ID: 1, Status: StatusNew}, nil)
		repo.On("UpdateStatus", ctx, int64(1), StatusNew, StatusConfirmed).Return(nil)

		require.NoError(t, svc.UpdateStatus(ctx, 1, StatusConfirmed))
	})

	t.Run("SkippingStatesRejected", func(t *testing.T) {
		repo := new(MockRepository)
		drivers := new(MockDriverRepo)
		restaurants := new(MockRestaurantRepo)
		svc := newTestService(repo, drivers, restaurants)

		repo.On("GetByID", ctx, int64(1)).Return(&Order{ID: 1, Status: StatusNew}, nil)

		err := svc.UpdateStatus(ctx, 1, StatusReady)
		assert.ErrorIs(t, err, ErrInvalidTransition)
		repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("TerminalRejected", func(t *testing.T) {
		repo := new(MockRepository)
		drivers := new(MockDriverRepo)
		restaurants := new(MockRestaurantRepo)
		svc := newTestService(repo, drivers, restaurants)

		repo.On("GetByID", ctx, int64(1)).Return(&Order{ID: 1, Status: StatusCompleted}, nil)

		err := svc.UpdateStatus(ctx, 1, StatusCancelled)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})
}

func ptrInt64(v int64) *int64 { return &v }
