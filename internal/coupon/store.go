package coupon

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store persists coupon codes in postgres.
type Store struct {
	Pool *pgxpool.Pool
}

const couponColumns = `id, name, code, type, value, policy, status, redeemed, created_at, updated_at`

func scanCode(row pgx.Row) (Code, error) {
	var c Code
	err := row.Scan(&c.ID, &c.Name, &c.Code, &c.Type, &c.Value, &c.Policy, &c.Status, &c.Redeemed, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Code{}, ErrNotFound
	}
	return c, err
}

// List returns a page of coupons ordered by creation time, newest first.
func (s *Store) List(ctx context.Context, limit, offset int) ([]Code, error) {
	rows, err := s.Pool.Query(ctx,
		`SELECT `+couponColumns+` FROM coupon_codes ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Code
	for rows.Next() {
		c, err := scanCode(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Count returns the total number of coupons.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.Pool.QueryRow(ctx, `SELECT count(*) FROM coupon_codes`).Scan(&n)
	return n, err
}

// GetByID fetches a single coupon.
func (s *Store) GetByID(ctx context.Context, id string) (Code, error) {
	return scanCode(s.Pool.QueryRow(ctx,
		`SELECT `+couponColumns+` FROM coupon_codes WHERE id = $1`, id))
}

// GetByCode fetches a coupon by its redeemable code.
func (s *Store) GetByCode(ctx context.Context, code string) (Code, error) {
	return scanCode(s.Pool.QueryRow(ctx,
		`SELECT `+couponColumns+` FROM coupon_codes WHERE code = $1`, code))
}

// Create inserts a new coupon and returns the stored record.
func (s *Store) Create(ctx context.Context, c Code) (Code, error) {
	row := s.Pool.QueryRow(ctx,
		`INSERT INTO coupon_codes (id, name, code, type, value, policy, status, redeemed)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, 0)
		 RETURNING `+couponColumns,
		uuid.NewString(), c.Name, c.Code, c.Type, c.Value, c.Policy, c.Status)
	created, err := scanCode(row)
	if isUniqueViolation(err) {
		return Code{}, ErrDuplicateCode
	}
	return created, err
}

// Update rewrites the mutable fields of a coupon.
func (s *Store) Update(ctx context.Context, c Code) (Code, error) {
	row := s.Pool.QueryRow(ctx,
		`UPDATE coupon_codes
		 SET name = $2, code = $3, type = $4, value = $5, policy = $6, status = $7, updated_at = now()
		 WHERE id = $1
		 RETURNING `+couponColumns,
		c.ID, c.Name, c.Code, c.Type, c.Value, c.Policy, c.Status)
	updated, err := scanCode(row)
	if isUniqueViolation(err) {
		return Code{}, ErrDuplicateCode
	}
	return updated, err
}

// Delete removes a coupon.
func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.Pool.Exec(ctx, `DELETE FROM coupon_codes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
