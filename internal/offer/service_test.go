package offer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, o *Offer) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockRepository) GetByCode(ctx context.Context, code string) (*Offer, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Offer), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context) ([]*Offer, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Offer), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, o *Offer) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockRepository) IncrementUsage(ctx context.Context, code string) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}

func (m *MockRepository) CreateCampaign(ctx context.Context, c *Campaign) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockRepository) ListCampaigns(ctx context.Context) ([]*Campaign, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Campaign), args.Error(1)
}

func newServiceAt(repo Repository, now time.Time) Service {
	svc := NewService(repo).(*service)
	svc.nowFunc = func() time.Time { return now }
	return svc
}

func TestOfferService_Create(t *testing.T) {
	ctx := context.Background()
	now := day(2024, 3, 15)

	t.Run("NormalizesCode", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newServiceAt(repo, now)

		repo.On("Create", ctx, mock.AnythingOfType("*offer.Offer")).Return(nil)

		o, err := svc.Create(ctx, &Offer{
			Code:      "  ramadan20 ",
			ValidFrom: day(2024, 3, 10),
			ValidTo:   day(2024, 3, 20),
		})
		require.NoError(t, err)
		assert.Equal(t, "RAMADAN20", o.Code)
		assert.Equal(t, StatusActive, o.Status)
	})

	t.Run("EmptyCode", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newServiceAt(repo, now)

		_, err := svc.Create(ctx, &Offer{Code: "   "})
		assert.ErrorIs(t, err, ErrInvalidCode)
	})

	t.Run("InvertedWindow", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newServiceAt(repo, now)

		_, err := svc.Create(ctx, &Offer{
			Code:      "X",
			ValidFrom: day(2024, 3, 20),
			ValidTo:   day(2024, 3, 10),
		})
		assert.ErrorIs(t, err, ErrInvalidWindow)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("DuplicateCode", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newServiceAt(repo, now)

		repo.On("Create", ctx, mock.AnythingOfType("*offer.Offer")).Return(ErrCodeTaken)

		_, err := svc.Create(ctx, &Offer{
			Code:      "TAKEN",
			ValidFrom: day(2024, 3, 10),
			ValidTo:   day(2024, 3, 20),
		})
		assert.ErrorIs(t, err, ErrCodeTaken)
	})
}

func TestOfferService_List_StampsStatus(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := newServiceAt(repo, day(2024, 3, 15))

	repo.On("List", ctx).Return([]*Offer{
		{Code: "FUTURE", ValidFrom: day(2024, 4, 1), ValidTo: day(2024, 4, 10)},
		{Code: "LIVE", ValidFrom: day(2024, 3, 10), ValidTo: day(2024, 3, 20)},
		{Code: "GONE", ValidFrom: day(2024, 2, 1), ValidTo: day(2024, 2, 10)},
	}, nil)

	offers, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, offers, 3)
	assert.Equal(t, StatusScheduled, offers[0].Status)
	assert.Equal(t, StatusActive, offers[1].Status)
	assert.Equal(t, StatusExpired, offers[2].Status)
}

func TestOfferService_Redeem(t *testing.T) {
	ctx := context.Background()

	active := &Offer{
		Code:          "LIVE",
		DiscountType:  DiscountPercentage,
		DiscountValue: 10,
		ValidFrom:     day(2024, 3, 10),
		ValidTo:       day(2024, 3, 20),
	}

	t.Run("Active", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newServiceAt(repo, day(2024, 3, 15))

		repo.On("GetByCode", ctx, "LIVE").Return(active, nil)
		repo.On("IncrementUsage", ctx, "LIVE").Return(nil)

		discounted, err := svc.Redeem(ctx, "live", 200)
		require.NoError(t, err)
		assert.Equal(t, 180.0, discounted)
		repo.AssertExpectations(t)
	})

	t.Run("ExpiredKeepsTotal", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newServiceAt(repo, day(2024, 5, 1))

		repo.On("GetByCode", ctx, "LIVE").Return(active, nil)

		total, err := svc.Redeem(ctx, "LIVE", 200)
		assert.ErrorIs(t, err, ErrInvalidWindow)
		assert.Equal(t, 200.0, total)
		repo.AssertNotCalled(t, "IncrementUsage", mock.Anything, mock.Anything)
	})

	t.Run("UnknownCode", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newServiceAt(repo, day(2024, 3, 15))

		repo.On("GetByCode", ctx, "NOPE").Return(nil, ErrOfferNotFound)

		total, err := svc.Redeem(ctx, "NOPE", 200)
		assert.ErrorIs(t, err, ErrOfferNotFound)
		assert.Equal(t, 200.0, total)
	})
}

func TestOfferService_CreateCampaign(t *testing.T) {
	ctx := context.Background()

	t.Run("LinkedOfferMustExist", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newServiceAt(repo, day(2024, 3, 15))

		repo.On("GetByCode", ctx, "NOPE").Return(nil, ErrOfferNotFound)

		err := svc.CreateCampaign(ctx, &Campaign{Title: "عروض رمضان", OfferCode: "nope"})
		assert.ErrorIs(t, err, ErrOfferNotFound)
		repo.AssertNotCalled(t, "CreateCampaign", mock.Anything, mock.Anything)
	})

	t.Run("NoLinkedOffer", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newServiceAt(repo, day(2024, 3, 15))

		repo.On("CreateCampaign", ctx, mock.AnythingOfType("*offer.Campaign")).Return(nil)

		require.NoError(t, svc.CreateCampaign(ctx, &Campaign{Title: "بانر الصفحة الرئيسية"}))
	})
}
