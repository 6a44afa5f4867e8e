package offer

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Repository interface {
	Create(ctx context.Context, o *Offer) error
	GetByCode(ctx context.Context, code string) (*Offer, error)
	List(ctx context.Context) ([]*Offer, error)
	Update(ctx context.Context, o *Offer) error
	IncrementUsage(ctx context.Context, code string) error

	CreateCampaign(ctx context.Context, c *Campaign) error
	ListCampaigns(ctx context.Context) ([]*Campaign, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const offerColumns = `id, code, title, discount_type, discount_value, valid_from, valid_to, usage_count, created_at, updated_at`

func scanOffer(row interface{ Scan(...any) error }) (*Offer, error) {
	var o Offer
	err := row.Scan(
		&o.ID, &o.Code, &o.Title, &o.DiscountType, &o.DiscountValue,
		&o.ValidFrom, &o.ValidTo, &o.UsageCount, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *repository) Create(ctx context.Context, o *Offer) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO offers (code, title, discount_type, discount_value, valid_from, valid_to, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,now(),now())
		RETURNING id, usage_count, created_at, updated_at`,
		o.Code, o.Title, string(o.DiscountType), o.DiscountValue, o.ValidFrom, o.ValidTo,
	).Scan(&o.ID, &o.UsageCount, &o.CreatedAt, &o.UpdatedAt)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return ErrCodeTaken
	}
	return err
}

func (r *repository) GetByCode(ctx context.Context, code string) (*Offer, error) {
	o, err := scanOffer(r.db.QueryRowContext(ctx,
		`SELECT `+offerColumns+` FROM offers WHERE code = $1`, code,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOfferNotFound
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (r *repository) List(ctx context.Context) ([]*Offer, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+offerColumns+` FROM offers ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var offers []*Offer
	for rows.Next() {
		o, err := scanOffer(rows)
		if err != nil {
			return nil, err
		}
		offers = append(offers, o)
	}
	return offers, rows.Err()
}

func (r *repository) Update(ctx context.Context, o *Offer) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE offers
		SET title = $1, discount_type = $2, discount_value = $3,
			valid_from = $4, valid_to = $5, updated_at = now()
		WHERE code = $6`,
		o.Title, string(o.DiscountType), o.DiscountValue, o.ValidFrom, o.ValidTo, o.Code,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrOfferNotFound
	}
	return nil
}

// IncrementUsage is increment-only SQL, so the counter can never move
// backwards regardless of caller behavior.
func (r *repository) IncrementUsage(ctx context.Context, code string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE offers SET usage_count = usage_count + 1, updated_at = now() WHERE code = $1`,
		code,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrOfferNotFound
	}
	return nil
}

func (r *repository) CreateCampaign(ctx context.Context, c *Campaign) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return r.db.QueryRowContext(ctx, `
		INSERT INTO campaigns (id, title, image_url, offer_code, starts_at, ends_at, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,now())
		RETURNING created_at`,
		c.ID, c.Title, c.ImageURL, c.OfferCode, c.StartsAt, c.EndsAt,
	).Scan(&c.CreatedAt)
}

func (r *repository) ListCampaigns(ctx context.Context) ([]*Campaign, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, image_url, offer_code, starts_at, ends_at, created_at
		FROM campaigns ORDER BY starts_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Campaign
	for rows.Next() {
		var c Campaign
		if err := rows.Scan(&c.ID, &c.Title, &c.ImageURL, &c.OfferCode, &c.StartsAt, &c.EndsAt, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}
