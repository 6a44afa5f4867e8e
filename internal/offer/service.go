package offer

import (
	"context"
	"strings"
	"time"

	"wajba-be/internal/logger"

	"go.uber.org/zap"
)

type Service interface {
	Create(ctx context.Context, o *Offer) (*Offer, error)
	Get(ctx context.Context, code string) (*Offer, error)
	List(ctx context.Context) ([]*Offer, error)
	Update(ctx context.Context, o *Offer) (*Offer, error)
	Redeem(ctx context.Context, code string, total float64) (float64, error)

	CreateCampaign(ctx context.Context, c *Campaign) error
	ListCampaigns(ctx context.Context) ([]*Campaign, error)
}

type service struct {
	repo Repository

	// nowFunc is swapped in tests.
	nowFunc func() time.Time
}

func NewService(repo Repository) Service {
	return &service{repo: repo, nowFunc: time.Now}
}

func (s *service) Create(ctx context.Context, o *Offer) (*Offer, error) {
	o.Code = strings.ToUpper(strings.TrimSpace(o.Code))
	if o.Code == "" {
		return nil, ErrInvalidCode
	}
	if o.ValidTo.Before(o.ValidFrom) {
		return nil, ErrInvalidWindow
	}

	if err := s.repo.Create(ctx, o); err != nil {
		return nil, err
	}

	o.Status = ResolveStatus(o.ValidFrom, o.ValidTo, s.nowFunc())
	logger.FromCtx(ctx).Info("offer created",
		zap.String("code", o.Code),
		zap.String("status", string(o.Status)),
	)
	return o, nil
}

func (s *service) Get(ctx context.Context, code string) (*Offer, error) {
	o, err := s.repo.GetByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return nil, err
	}
	o.Status = ResolveStatus(o.ValidFrom, o.ValidTo, s.nowFunc())
	return o, nil
}

func (s *service) List(ctx context.Context) ([]*Offer, error) {
	offers, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	now := s.nowFunc()
	for _, o := range offers {
		o.Status = ResolveStatus(o.ValidFrom, o.ValidTo, now)
	}
	return offers, nil
}

func (s *service) Update(ctx context.Context, o *Offer) (*Offer, error) {
	o.Code = strings.ToUpper(strings.TrimSpace(o.Code))
	if o.ValidTo.Before(o.ValidFrom) {
		return nil, ErrInvalidWindow
	}

	if err := s.repo.Update(ctx, o); err != nil {
		return nil, err
	}
	o.Status = ResolveStatus(o.ValidFrom, o.ValidTo, s.nowFunc())
	return o, nil
}

// Redeem applies an active offer to a total and bumps its usage counter.
func (s *service) Redeem(ctx context.Context, code string, total float64) (float64, error) {
	o, err := s.Get(ctx, code)
	if err != nil {
		return total, err
	}
	if o.Status != StatusActive {
		return total, ErrInvalidWindow
	}

	if err := s.repo.IncrementUsage(ctx, o.Code); err != nil {
		return total, err
	}

	discounted := o.Discount(total)
	logger.FromCtx(ctx).Info("offer redeemed",
		zap.String("code", o.Code),
		zap.Float64("total", total),
		zap.Float64("discounted", discounted),
	)
	return discounted, nil
}

func (s *service) CreateCampaign(ctx context.Context, c *Campaign) error {
	if c.OfferCode != "" {
		if _, err := s.repo.GetByCode(ctx, strings.ToUpper(c.OfferCode)); err != nil {
			return err
		}
		c.OfferCode = strings.ToUpper(c.OfferCode)
	}
	return s.repo.CreateCampaign(ctx, c)
}

func (s *service) ListCampaigns(ctx context.Context) ([]*Campaign, error) {
	return s.repo.ListCampaigns(ctx)
}
