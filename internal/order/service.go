package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wajba-be/internal/driver"
	"wajba-be/internal/geo"
	"wajba-be/internal/logger"
	"wajba-be/internal/restaurant"

	"go.uber.org/zap"
)

type CreateInput struct {
	CustomerID       int64
	RestaurantID     int64
	DeliveryAddress  string
	DeliveryLocation *geo.Point
	Items            []Item
	PaymentMethod    PaymentMethod
	CustomerNotes    string
}

type Service interface {
	Create(ctx context.Context, input CreateInput) (*Order, error)
	Get(ctx context.Context, id int64) (*Order, error)
	List(ctx context.Context, filter *Filter, limit, offset int32) ([]*Order, error)

	// NearbyForDriver returns the ready, unassigned orders annotated with the
	// distance from the driver and the driver's estimated earnings.
	NearbyForDriver(ctx context.Context, driverID int64, at geo.Point) ([]*Candidate, error)

	Accept(ctx context.Context, orderID, driverID int64) (*Order, error)
	MarkPickedUp(ctx context.Context, orderID, driverID int64) (*Order, error)
	MarkDelivered(ctx context.Context, orderID, driverID int64) (*Order, error)

	Cancel(ctx context.Context, orderID int64) error
	UpdateStatus(ctx context.Context, orderID int64, to Status) error
}

type service struct {
	repo        Repository
	drivers     driver.Repository
	restaurants restaurant.Repository
	defaultRate float64
}

func NewService(repo Repository, drivers driver.Repository, restaurants restaurant.Repository, defaultRate float64) Service {
	return &service{
		repo:        repo,
		drivers:     drivers,
		restaurants: restaurants,
		defaultRate: defaultRate,
	}
}

func (s *service) Create(ctx context.Context, input CreateInput) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.Int64("customer_id", input.CustomerID),
		zap.Int64("restaurant_id", input.RestaurantID),
	)

	if len(input.Items) == 0 {
		return nil, errors.New("order has no items")
	}

	rest, err := s.restaurants.GetByID(ctx, input.RestaurantID)
	if err != nil {
		return nil, err
	}

	var total float64
	for _, item := range input.Items {
		if item.Quantity <= 0 {
			return nil, errors.New("item quantity must be greater than zero")
		}
		total += float64(item.Quantity) * item.UnitPrice
	}

	o := &Order{
		Number:             newOrderNumber(),
		Status:             StatusNew,
		RestaurantID:       rest.ID,
		RestaurantLocation: rest.Location,
		CustomerID:         input.CustomerID,
		DeliveryAddress:    input.DeliveryAddress,
		DeliveryLocation:   input.DeliveryLocation,
		Items:              input.Items,
		PaymentMethod:      input.PaymentMethod,
		Total:              total,
		CustomerNotes:      input.CustomerNotes,
	}
	if o.PaymentMethod == "" {
		o.PaymentMethod = PaymentCash
	}

	if err := s.repo.Create(ctx, o); err != nil {
		log.Error("failed to create order", zap.Error(err))
		return nil, err
	}

	log.Info("order created",
		zap.Int64("order_id", o.ID),
		zap.String("order_number", o.Number),
		zap.Float64("total", o.Total),
	)
	return o, nil
}

func newOrderNumber() string {
	return fmt.Sprintf("ORD-%d", time.Now().UnixNano()/1e6)
}

func (s *service) Get(ctx context.Context, id int64) (*Order, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter *Filter, limit, offset int32) ([]*Order, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.repo.Fetch(ctx, filter, limit, offset)
}

func (s *service) NearbyForDriver(ctx context.Context, driverID int64, at geo.Point) ([]*Candidate, error) {
	d, err := s.drivers.GetByID(ctx, driverID)
	if err != nil {
		return nil, err
	}
	rate := d.Rate(s.defaultRate)

	orders, err := s.repo.FetchCandidates(ctx)
	if err != nil {
		return nil, err
	}

	candidates := make([]*Candidate, 0, len(orders))
	for _, o := range orders {
		c := &Candidate{Order: o}
		if o.RestaurantLocation != nil {
			c.DistanceKm = geo.DistanceKm(at, *o.RestaurantLocation)
		}
		if earnings, ok := driver.EstimateEarnings(o.RestaurantLocation, o.DeliveryLocation, rate); ok {
			c.EstimatedEarnings = &earnings
		}
		candidates = append(candidates, c)
	}
	return candidates, nil
}

func (s *service) Accept(ctx context.Context, orderID, driverID int64) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.Int64("order_id", orderID),
		zap.Int64("driver_id", driverID),
	)

	// The conditional update in the repository is the real guard; losing the
	// race surfaces as ErrAlreadyAssigned, not a double assignment.
	if err := s.repo.Accept(ctx, orderID, driverID); err != nil {
		if errors.Is(err, ErrAlreadyAssigned) {
			log.Info("order accept lost race")
		} else {
			log.Warn("order accept failed", zap.Error(err))
		}
		return nil, err
	}

	log.Info("order accepted")
	return s.repo.GetByID(ctx, orderID)
}

func (s *service) MarkPickedUp(ctx context.Context, orderID, driverID int64) (*Order, error) {
	if err := s.repo.MarkPickedUp(ctx, orderID, driverID); err != nil {
		return nil, err
	}

	logger.FromCtx(ctx).Info("order picked up",
		zap.Int64("order_id", orderID),
		zap.Int64("driver_id", driverID),
	)
	return s.repo.GetByID(ctx, orderID)
}

func (s *service) MarkDelivered(ctx context.Context, orderID, driverID int64) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.Int64("order_id", orderID),
		zap.Int64("driver_id", driverID),
	)

	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.AssignedDriverID == nil || *o.AssignedDriverID != driverID {
		return nil, ErrNotAssignedToDriver
	}
	if _, err := Advance(*o, SignalDelivered); err != nil {
		return nil, err
	}

	d, err := s.drivers.GetByID(ctx, driverID)
	if err != nil {
		return nil, err
	}

	earnings, ok := driver.EstimateEarnings(o.RestaurantLocation, o.DeliveryLocation, d.Rate(s.defaultRate))
	if !ok {
		log.Warn("order missing coordinates, recording zero earnings")
	}

	if err := s.repo.CompleteDelivery(ctx, orderID, driverID, earnings, o.Total); err != nil {
		return nil, err
	}

	log.Info("order delivered", zap.Float64("earnings", earnings))
	return s.repo.GetByID(ctx, orderID)
}

func (s *service) Cancel(ctx context.Context, orderID int64) error {
	if err := s.repo.Cancel(ctx, orderID); err != nil {
		return err
	}

	logger.FromCtx(ctx).Info("order cancelled", zap.Int64("order_id", orderID))
	return nil
}

func (s *service) UpdateStatus(ctx context.Context, orderID int64, to Status) error {
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if !CanTransition(o.Status, to) {
		return ErrInvalidTransition
	}

	// Guarded by the current status so a concurrent change invalidates the
	// write instead of skipping a state.
	return s.repo.UpdateStatus(ctx, orderID, o.Status, to)
}
