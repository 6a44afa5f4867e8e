package driver

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"wajba-be/internal/geo"
)

type Repository interface {
	GetByID(ctx context.Context, id int64) (*Driver, error)
	SetStatus(ctx context.Context, id int64, status Status) error
	UpdateLocation(ctx context.Context, id int64, loc geo.Point) error
	ListAvailable(ctx context.Context) ([]*Driver, error)
	FetchDailyEarnings(ctx context.Context, driverID int64, from, to time.Time) ([]DailyEarning, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const driverColumns = `id, name, phone, status, rating, total_deliveries, rate_per_km, lat, lng, created_at, updated_at`

func scanDriver(row interface{ Scan(...any) error }) (*Driver, error) {
	var d Driver
	var rate sql.NullFloat64
	var lat, lng sql.NullFloat64
	err := row.Scan(
		&d.ID, &d.Name, &d.Phone, &d.Status, &d.Rating, &d.TotalDeliveries,
		&rate, &lat, &lng, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	d.RatePerKm = rate.Float64
	if lat.Valid && lng.Valid {
		d.Location = &geo.Point{Lat: lat.Float64, Lng: lng.Float64}
	}
	return &d, nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Driver, error) {
	d, err := scanDriver(r.db.QueryRowContext(ctx,
		`SELECT `+driverColumns+` FROM drivers WHERE id = $1`, id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrDriverNotFound
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (r *repository) SetStatus(ctx context.Context, id int64, status Status) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE drivers SET status = $1, updated_at = now() WHERE id = $2`,
		string(status), id,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrDriverNotFound
	}
	return nil
}

func (r *repository) UpdateLocation(ctx context.Context, id int64, loc geo.Point) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE drivers SET lat = $1, lng = $2, updated_at = now() WHERE id = $3`,
		loc.Lat, loc.Lng, id,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrDriverNotFound
	}
	return nil
}

func (r *repository) ListAvailable(ctx context.Context) ([]*Driver, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+driverColumns+` FROM drivers WHERE status = 'available' ORDER BY id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var drivers []*Driver
	for rows.Next() {
		d, err := scanDriver(rows)
		if err != nil {
			return nil, err
		}
		drivers = append(drivers, d)
	}
	return drivers, rows.Err()
}

func (r *repository) FetchDailyEarnings(ctx context.Context, driverID int64, from, to time.Time) ([]DailyEarning, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT driver_id, day, deliveries, earnings, total_value
		FROM daily_earnings
		WHERE driver_id = $1 AND day >= $2 AND day <= $3
		ORDER BY day DESC`,
		driverID, from, to,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var earnings []DailyEarning
	for rows.Next() {
		var e DailyEarning
		if err := rows.Scan(&e.DriverID, &e.Day, &e.Deliveries, &e.Earnings, &e.TotalValue); err != nil {
			return nil, err
		}
		earnings = append(earnings, e)
	}
	return earnings, rows.Err()
}
