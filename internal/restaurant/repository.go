package restaurant

import (
	"context"
	"database/sql"
	"errors"

	"wajba-be/internal/geo"
)

var ErrRestaurantNotFound = errors.New("restaurant not found")

type Repository interface {
	GetByID(ctx context.Context, id int64) (*Restaurant, error)
	List(ctx context.Context) ([]*Restaurant, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func scanRestaurant(row interface{ Scan(...any) error }) (*Restaurant, error) {
	var r Restaurant
	var lat, lng sql.NullFloat64
	if err := row.Scan(&r.ID, &r.Name, &r.Address, &lat, &lng, &r.IsOpen, &r.CreatedAt); err != nil {
		return nil, err
	}
	if lat.Valid && lng.Valid {
		r.Location = &geo.Point{Lat: lat.Float64, Lng: lng.Float64}
	}
	return &r, nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Restaurant, error) {
	rest, err := scanRestaurant(r.db.QueryRowContext(ctx,
		`SELECT id, name, address, lat, lng, is_open, created_at FROM restaurants WHERE id = $1`, id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRestaurantNotFound
	}
	if err != nil {
		return nil, err
	}
	return rest, nil
}

func (r *repository) List(ctx context.Context) ([]*Restaurant, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, address, lat, lng, is_open, created_at FROM restaurants ORDER BY id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Restaurant
	for rows.Next() {
		rest, err := scanRestaurant(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rest)
	}
	return out, rows.Err()
}
