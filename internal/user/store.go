package user

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when no user matches the requested id.
var ErrNotFound = errors.New("user: not found")

// Store persists users in postgres.
type Store struct {
	Pool *pgxpool.Pool
}

const userColumns = `id, name, email, phone, status, age, gender, weight_kg, height_cm, activity_level, goal, plan_days, created_at, updated_at`

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.Status,
		&u.Age, &u.Gender, &u.WeightKg, &u.HeightCm, &u.ActivityLevel,
		&u.Goal, &u.PlanDays, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return u, err
}

// List returns a page of users, newest first.
func (s *Store) List(ctx context.Context, limit, offset int) ([]User, error) {
	rows, err := s.Pool.Query(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// Count returns the total user count.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.Pool.QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&n)
	return n, err
}

// Get fetches a single user.
func (s *Store) Get(ctx context.Context, id string) (User, error) {
	return scanUser(s.Pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

// Update rewrites a user's mutable fields.
func (s *Store) Update(ctx context.Context, u User) (User, error) {
	return scanUser(s.Pool.QueryRow(ctx,
		`UPDATE users
		 SET name = $2, email = $3, phone = $4, status = $5, age = $6, gender = $7,
		     weight_kg = $8, height_cm = $9, activity_level = $10, goal = $11,
		     plan_days = $12, updated_at = now()
		 WHERE id = $1
		 RETURNING `+userColumns,
		u.ID, u.Name, u.Email, u.Phone, u.Status, u.Age, u.Gender,
		u.WeightKg, u.HeightCm, u.ActivityLevel, u.Goal, u.PlanDays))
}

// Delete removes a user.
func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.Pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
