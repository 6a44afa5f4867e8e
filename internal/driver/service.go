package driver

import (
	"context"
	"time"

	"wajba-be/internal/geo"
	"wajba-be/internal/logger"

	"go.uber.org/zap"
)

type Service interface {
	Get(ctx context.Context, id int64) (*Driver, error)
	SetStatus(ctx context.Context, id int64, status Status) error
	ReportLocation(ctx context.Context, id int64, loc geo.Point) error
	Earnings(ctx context.Context, driverID int64, from, to time.Time) ([]DailyEarning, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Get(ctx context.Context, id int64) (*Driver, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) SetStatus(ctx context.Context, id int64, status Status) error {
	switch status {
	case StatusAvailable, StatusBusy, StatusInactive:
	default:
		return ErrInvalidStatus
	}

	if err := s.repo.SetStatus(ctx, id, status); err != nil {
		return err
	}

	logger.FromCtx(ctx).Info("driver status updated",
		zap.Int64("driver_id", id),
		zap.String("status", string(status)),
	)
	return nil
}

func (s *service) ReportLocation(ctx context.Context, id int64, loc geo.Point) error {
	return s.repo.UpdateLocation(ctx, id, loc)
}

// Earnings returns the per-day aggregates for the window. Sums are stored
// unrounded; rounding to 2dp happens here on the way out so closed days never
// accumulate rounding error.
func (s *service) Earnings(ctx context.Context, driverID int64, from, to time.Time) ([]DailyEarning, error) {
	rows, err := s.repo.FetchDailyEarnings(ctx, driverID, from, to)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].Earnings = round2(rows[i].Earnings)
		rows[i].TotalValue = round2(rows[i].TotalValue)
	}
	return rows, nil
}
