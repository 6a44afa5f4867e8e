package order

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"wajba-be/internal/driver"
)

type Filter struct {
	Status     *Status
	CustomerID *int64
	DriverID   *int64
}

type Repository interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id int64) (*Order, error)
	Fetch(ctx context.Context, filter *Filter, limit, offset int32) ([]*Order, error)
	FetchCandidates(ctx context.Context) ([]*Order, error)

	// Accept atomically assigns the order to the driver. The write is
	// conditional on the order still being ready and unassigned, so two
	// concurrent accepts yield exactly one success and one ErrAlreadyAssigned.
	Accept(ctx context.Context, orderID, driverID int64) error

	MarkPickedUp(ctx context.Context, orderID, driverID int64) error

	// CompleteDelivery finishes the order and settles the driver in one
	// transaction: status to delivered, driver freed and delivery counter
	// bumped, daily earnings row upserted.
	CompleteDelivery(ctx context.Context, orderID, driverID int64, earnings, orderTotal float64) error

	UpdateStatus(ctx context.Context, orderID int64, from, to Status) error
	Cancel(ctx context.Context, orderID int64) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const orderColumns = `id, order_number, status, restaurant_id, restaurant_lat, restaurant_lng,
		customer_id, delivery_address, delivery_lat, delivery_lng, items, payment_method,
		total, customer_notes, assigned_driver_id, picked_up,
		created_at, updated_at, accepted_at, picked_up_at, delivered_at, cancelled_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*Order, error) {
	var raw RawOrder
	err := row.Scan(
		&raw.ID, &raw.Number, &raw.Status, &raw.RestaurantID, &raw.RestaurantLat, &raw.RestaurantLng,
		&raw.CustomerID, &raw.DeliveryAddress, &raw.DeliveryLat, &raw.DeliveryLng, &raw.ItemsJSON, &raw.PaymentMethod,
		&raw.Total, &raw.CustomerNotes, &raw.AssignedDriverID, &raw.PickedUp,
		&raw.CreatedAt, &raw.UpdatedAt, &raw.AcceptedAt, &raw.PickedUpAt, &raw.DeliveredAt, &raw.CancelledAt,
	)
	if err != nil {
		return nil, err
	}
	return FromRaw(raw), nil
}

func (r *repository) Create(ctx context.Context, o *Order) error {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("marshal items: %w", err)
	}

	query := `
		INSERT INTO orders (
			order_number, status, restaurant_id, restaurant_lat, restaurant_lng,
			customer_id, delivery_address, delivery_lat, delivery_lng, items,
			payment_method, total, customer_notes, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,now(),now())
		RETURNING id, created_at, updated_at`

	var rLat, rLng, dLat, dLng sql.NullFloat64
	if o.RestaurantLocation != nil {
		rLat = sql.NullFloat64{Float64: o.RestaurantLocation.Lat, Valid: true}
		rLng = sql.NullFloat64{Float64: o.RestaurantLocation.Lng, Valid: true}
	}
	if o.DeliveryLocation != nil {
		dLat = sql.NullFloat64{Float64: o.DeliveryLocation.Lat, Valid: true}
		dLng = sql.NullFloat64{Float64: o.DeliveryLocation.Lng, Valid: true}
	}

	return r.db.QueryRowContext(ctx, query,
		o.Number, BackendFromStatus(o.Status), o.RestaurantID, rLat, rLng,
		o.CustomerID, o.DeliveryAddress, dLat, dLng, string(items),
		string(o.PaymentMethod), o.Total, o.CustomerNotes,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE id = $1`, orderColumns)

	o, err := scanOrder(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (r *repository) Fetch(ctx context.Context, filter *Filter, limit, offset int32) ([]*Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders`, orderColumns)

	var conditions []string
	var args []any

	if filter != nil {
		if filter.Status != nil {
			args = append(args, BackendFromStatus(*filter.Status))
			conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
		}
		if filter.CustomerID != nil {
			args = append(args, *filter.CustomerID)
			conditions = append(conditions, fmt.Sprintf("customer_id = $%d", len(args)))
		}
		if filter.DriverID != nil {
			args = append(args, *filter.DriverID)
			conditions = append(conditions, fmt.Sprintf("assigned_driver_id = $%d", len(args)))
		}
	}

	for i, c := range conditions {
		if i == 0 {
			query += " WHERE " + c
		} else {
			query += " AND " + c
		}
	}

	args = append(args, limit, offset)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *repository) FetchCandidates(ctx context.Context) ([]*Order, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM orders
		WHERE status = 'ready' AND assigned_driver_id IS NULL
		ORDER BY created_at ASC`, orderColumns)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *repository) Accept(ctx context.Context, orderID, driverID int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Compare-and-set: the write only lands if the order is still ready and
	// unassigned. A lost race shows up as zero rows affected, never as a
	// double assignment.
	res, err := tx.ExecContext(ctx, `
		UPDATE orders
		SET status = 'picked_up', assigned_driver_id = $1,
			accepted_at = now(), updated_at = now()
		WHERE id = $2 AND status = 'ready' AND assigned_driver_id IS NULL`,
		driverID, orderID,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return r.classifyAcceptFailure(ctx, orderID)
	}

	res, err = tx.ExecContext(ctx, `
		UPDATE drivers
		SET status = 'busy', updated_at = now()
		WHERE id = $1 AND status = 'available'`,
		driverID,
	)
	if err != nil {
		return err
	}
	affected, err = res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return driver.ErrUnavailable
	}

	return tx.Commit()
}

func (r *repository) classifyAcceptFailure(ctx context.Context, orderID int64) error {
	var assigned sql.NullInt64
	var status string
	err := r.db.QueryRowContext(ctx,
		`SELECT assigned_driver_id, status FROM orders WHERE id = $1`, orderID,
	).Scan(&assigned, &status)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrOrderNotFound
	}
	if err != nil {
		return err
	}
	if assigned.Valid {
		return ErrAlreadyAssigned
	}
	return ErrInvalidTransition
}

func (r *repository) MarkPickedUp(ctx context.Context, orderID, driverID int64) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET picked_up = TRUE, picked_up_at = now(), updated_at = now()
		WHERE id = $1 AND assigned_driver_id = $2
			AND status = 'picked_up' AND picked_up = FALSE`,
		orderID, driverID,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return r.classifyPhaseFailure(ctx, orderID, driverID)
	}
	return nil
}

func (r *repository) CompleteDelivery(ctx context.Context, orderID, driverID int64, earnings, orderTotal float64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE orders
		SET status = 'delivered', delivered_at = now(), updated_at = now()
		WHERE id = $1 AND assigned_driver_id = $2
			AND status = 'picked_up' AND picked_up = TRUE`,
		orderID, driverID,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return r.classifyPhaseFailure(ctx, orderID, driverID)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE drivers
		SET status = 'available', total_deliveries = total_deliveries + 1, updated_at = now()
		WHERE id = $1`,
		driverID,
	)
	if err != nil {
		return err
	}

	// Per-day aggregate is append-only by day: the row for today only ever
	// accumulates, closed days are never touched.
	_, err = tx.ExecContext(ctx, `
		INSERT INTO daily_earnings (driver_id, day, deliveries, earnings, total_value)
		VALUES ($1, CURRENT_DATE, 1, $2, $3)
		ON CONFLICT (driver_id, day) DO UPDATE SET
			deliveries = daily_earnings.deliveries + 1,
			earnings = daily_earnings.earnings + EXCLUDED.earnings,
			total_value = daily_earnings.total_value + EXCLUDED.total_value`,
		driverID, earnings, orderTotal,
	)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (r *repository) classifyPhaseFailure(ctx context.Context, orderID, driverID int64) error {
	var assigned sql.NullInt64
	err := r.db.QueryRowContext(ctx,
		`SELECT assigned_driver_id FROM orders WHERE id = $1`, orderID,
	).Scan(&assigned)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrOrderNotFound
	}
	if err != nil {
		return err
	}
	if !assigned.Valid || assigned.Int64 != driverID {
		return ErrNotAssignedToDriver
	}
	return ErrInvalidTransition
}

func (r *repository) UpdateStatus(ctx context.Context, orderID int64, from, to Status) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET status = $1, updated_at = now()
		WHERE id = $2 AND status = $3`,
		BackendFromStatus(to), orderID, BackendFromStatus(from),
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrInvalidTransition
	}
	return nil
}

func (r *repository) Cancel(ctx context.Context, orderID int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE orders
		SET status = 'cancelled', cancelled_at = now(), updated_at = now()
		WHERE id = $1 AND status NOT IN ('delivered', 'cancelled')`,
		orderID,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		var exists bool
		if err := r.db.QueryRowContext(ctx,
			`SELECT TRUE FROM orders WHERE id = $1`, orderID,
		).Scan(&exists); errors.Is(err, sql.ErrNoRows) {
			return ErrOrderNotFound
		}
		return ErrInvalidTransition
	}

	// Free the driver if one was already on the order.
	_, err = tx.ExecContext(ctx, `
		UPDATE drivers
		SET status = 'available', updated_at = now()
		WHERE status = 'busy'
			AND id = (SELECT assigned_driver_id FROM orders WHERE id = $1)`,
		orderID,
	)
	if err != nil {
		return err
	}

	return tx.Commit()
}
