package zipcode

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store persists deliverable zip codes in postgres.
type Store struct {
	Pool *pgxpool.Pool
}

const zipColumns = `id, code, city, lockdown_day, created_at, updated_at`

func scanZip(row pgx.Row) (ZipCode, error) {
	var z ZipCode
	err := row.Scan(&z.ID, &z.Code, &z.City, &z.LockdownDay, &z.CreatedAt, &z.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ZipCode{}, ErrNotFound
	}
	return z, err
}

// List returns a page of zip codes ordered by code.
func (s *Store) List(ctx context.Context, limit, offset int) ([]ZipCode, error) {
	rows, err := s.Pool.Query(ctx,
		`SELECT `+zipColumns+` FROM zip_codes ORDER BY code LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ZipCode
	for rows.Next() {
		z, err := scanZip(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, z)
	}
	return out, rows.Err()
}

// Count returns the total zip code count.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.Pool.QueryRow(ctx, `SELECT count(*) FROM zip_codes`).Scan(&n)
	return n, err
}

// GetByCode fetches a zip code by its postal code.
func (s *Store) GetByCode(ctx context.Context, code string) (ZipCode, error) {
	return scanZip(s.Pool.QueryRow(ctx,
		`SELECT `+zipColumns+` FROM zip_codes WHERE code = $1`, code))
}

// Create inserts a zip code.
func (s *Store) Create(ctx context.Context, z ZipCode) (ZipCode, error) {
	return scanZip(s.Pool.QueryRow(ctx,
		`INSERT INTO zip_codes (id, code, city, lockdown_day)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+zipColumns,
		uuid.NewString(), z.Code, z.City, z.LockdownDay))
}

// Update rewrites a zip code's mutable fields.
func (s *Store) Update(ctx context.Context, z ZipCode) (ZipCode, error) {
	return scanZip(s.Pool.QueryRow(ctx,
		`UPDATE zip_codes SET code = $2, city = $3, lockdown_day = $4, updated_at = now()
		 WHERE id = $1
		 RETURNING `+zipColumns,
		z.ID, z.Code, z.City, z.LockdownDay))
}

// Delete removes a zip code.
func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.Pool.Exec(ctx, `DELETE FROM zip_codes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
