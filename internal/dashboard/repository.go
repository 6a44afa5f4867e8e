package dashboard

import (
	"context"
	"database/sql"

	"wajba-be/internal/order"
)

type Repository interface {
	FetchOrderRecords(ctx context.Context) ([]Record, error)
	CountRestaurants(ctx context.Context) (int64, error)
	CountCustomers(ctx context.Context) (int64, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FetchOrderRecords(ctx context.Context) ([]Record, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT status, total FROM orders`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var status sql.NullString
		var total sql.NullFloat64
		if err := rows.Scan(&status, &total); err != nil {
			return nil, err
		}

		// Missing fields degrade to safe defaults instead of failing the
		// whole aggregate.
		var rec Record
		if status.Valid {
			rec.Status = order.StatusFromBackend(status.String)
		}
		rec.Total = total.Float64
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *repository) CountRestaurants(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM restaurants`).Scan(&n)
	return n, err
}

func (r *repository) CountCustomers(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM customers`).Scan(&n)
	return n, err
}
