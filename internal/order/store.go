package order

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when an order record does not exist.
var ErrNotFound = errors.New("order: not found")

// Store persists orders in postgres.
type Store struct {
	Pool *pgxpool.Pool
}

const orderColumns = `id, number, customer_name, customer_email, status, coupon_code, created_at, updated_at`

func scanOrder(row pgx.Row) (Order, error) {
	var o Order
	err := row.Scan(&o.ID, &o.Number, &o.CustomerName, &o.CustomerEmail,
		&o.Status, &o.CouponCode, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, ErrNotFound
	}
	return o, err
}

// List returns a page of product orders, newest first. Lines are not loaded.
func (s *Store) List(ctx context.Context, limit, offset int) ([]Order, error) {
	rows, err := s.Pool.Query(ctx,
		`SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// Count returns the total product order count.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.Pool.QueryRow(ctx, `SELECT count(*) FROM orders`).Scan(&n)
	return n, err
}

// Get fetches a product order with its lines.
func (s *Store) Get(ctx context.Context, id string) (Order, error) {
	o, err := scanOrder(s.Pool.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil {
		return Order{}, err
	}
	rows, err := s.Pool.Query(ctx,
		`SELECT id, order_id, product_id, variation_id, qty
		 FROM order_products WHERE order_id = $1 ORDER BY id`, id)
	if err != nil {
		return Order{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var l Line
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ProductID, &l.VariationID, &l.Qty); err != nil {
			return Order{}, err
		}
		o.Lines = append(o.Lines, l)
	}
	return o, rows.Err()
}

// UpdateStatus moves an order to a new lifecycle state.
func (s *Store) UpdateStatus(ctx context.Context, id string, status Status) (Order, error) {
	return scanOrder(s.Pool.QueryRow(ctx,
		`UPDATE orders SET status = $2, updated_at = now() WHERE id = $1 RETURNING `+orderColumns,
		id, status))
}

// Delete removes an order and its lines.
func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.Pool.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

const mealOrderColumns = `id, user_id, number_of_days, weekly_price, delivery_zip, status, created_at, updated_at`

func scanMealOrder(row pgx.Row) (MealOrder, error) {
	var m MealOrder
	err := row.Scan(&m.ID, &m.UserID, &m.NumberOfDays, &m.WeeklyPrice,
		&m.DeliveryZip, &m.Status, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return MealOrder{}, ErrNotFound
	}
	return m, err
}

// ListMealOrders returns a page of meal-subscription orders, newest first.
func (s *Store) ListMealOrders(ctx context.Context, limit, offset int) ([]MealOrder, error) {
	rows, err := s.Pool.Query(ctx,
		`SELECT `+mealOrderColumns+` FROM meal_orders ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []MealOrder
	for rows.Next() {
		m, err := scanMealOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// CountMealOrders returns the total meal order count.
func (s *Store) CountMealOrders(ctx context.Context) (int64, error) {
	var n int64
	err := s.Pool.QueryRow(ctx, `SELECT count(*) FROM meal_orders`).Scan(&n)
	return n, err
}

// GetMealOrder fetches a single meal-subscription order.
func (s *Store) GetMealOrder(ctx context.Context, id string) (MealOrder, error) {
	return scanMealOrder(s.Pool.QueryRow(ctx,
		`SELECT `+mealOrderColumns+` FROM meal_orders WHERE id = $1`, id))
}

// UpdateMealOrderStatus moves a meal order to a new lifecycle state.
func (s *Store) UpdateMealOrderStatus(ctx context.Context, id string, status Status) (MealOrder, error) {
	return scanMealOrder(s.Pool.QueryRow(ctx,
		`UPDATE meal_orders SET status = $2, updated_at = now() WHERE id = $1 RETURNING `+mealOrderColumns,
		id, status))
}
