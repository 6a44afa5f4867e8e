package dashboard

import (
	"context"

	"wajba-be/internal/logger"

	"go.uber.org/zap"
)

type Service interface {
	Stats(ctx context.Context) (Stats, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// Stats recomputes the dashboard summary from raw collections on every call;
// nothing derived is persisted.
func (s *service) Stats(ctx context.Context) (Stats, error) {
	records, err := s.repo.FetchOrderRecords(ctx)
	if err != nil {
		return Stats{}, err
	}
	restaurants, err := s.repo.CountRestaurants(ctx)
	if err != nil {
		return Stats{}, err
	}
	customers, err := s.repo.CountCustomers(ctx)
	if err != nil {
		return Stats{}, err
	}

	stats := Aggregate(records, restaurants, customers)

	logger.FromCtx(ctx).Debug("dashboard stats computed",
		zap.Int("order_count", stats.OrderCount),
		zap.Float64("revenue_sum", stats.RevenueSum),
	)
	return stats, nil
}
