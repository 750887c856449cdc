package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when no admin or session matches the lookup.
var ErrNotFound = errors.New("auth: not found")

// Store persists admins and their sessions in postgres.
type Store struct {
	Pool *pgxpool.Pool
}

const adminColumns = `id, name, email, password_hash, created_at, updated_at`

func scanAdmin(row pgx.Row) (Admin, error) {
	var a Admin
	err := row.Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Admin{}, ErrNotFound
	}
	return a, err
}

// GetAdminByEmail fetches an admin account by normalized email.
func (s *Store) GetAdminByEmail(ctx context.Context, email string) (Admin, error) {
	return scanAdmin(s.Pool.QueryRow(ctx,
		`SELECT `+adminColumns+` FROM admins WHERE email = $1`, email))
}

// GetAdminByID fetches an admin account by id.
func (s *Store) GetAdminByID(ctx context.Context, id string) (Admin, error) {
	return scanAdmin(s.Pool.QueryRow(ctx,
		`SELECT `+adminColumns+` FROM admins WHERE id = $1`, id))
}

// CreateSession stores a refresh-token session.
func (s *Store) CreateSession(ctx context.Context, sess Session) (Session, error) {
	sess.ID = uuid.NewString()
	_, err := s.Pool.Exec(ctx,
		`INSERT INTO admin_sessions (id, admin_id, token_hash, user_agent, ip, expires_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		sess.ID, sess.AdminID, sess.TokenHash, sess.UserAgent, sess.IP, sess.ExpiresAt)
	return sess, err
}

// GetSessionByTokenHash fetches a session by the hash of its refresh token.
func (s *Store) GetSessionByTokenHash(ctx context.Context, hash string) (Session, error) {
	var sess Session
	err := s.Pool.QueryRow(ctx,
		`SELECT id, admin_id, token_hash, user_agent, ip, expires_at
		 FROM admin_sessions WHERE token_hash = $1`, hash).
		Scan(&sess.ID, &sess.AdminID, &sess.TokenHash, &sess.UserAgent, &sess.IP, &sess.ExpiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Session{}, ErrNotFound
	}
	return sess, err
}

// RotateSession swaps a session's token hash and extends its expiry.
func (s *Store) RotateSession(ctx context.Context, id, newHash string, expiresAt time.Time) error {
	tag, err := s.Pool.Exec(ctx,
		`UPDATE admin_sessions SET token_hash = $2, expires_at = $3 WHERE id = $1`,
		id, newHash, expiresAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteSessionByTokenHash revokes a session.
func (s *Store) DeleteSessionByTokenHash(ctx context.Context, hash string) error {
	_, err := s.Pool.Exec(ctx, `DELETE FROM admin_sessions WHERE token_hash = $1`, hash)
	return err
}

// DeleteSessionsByAdmin revokes every session the admin holds.
func (s *Store) DeleteSessionsByAdmin(ctx context.Context, adminID string) error {
	_, err := s.Pool.Exec(ctx, `DELETE FROM admin_sessions WHERE admin_id = $1`, adminID)
	return err
}

// UpdateAdminPassword replaces the admin's password hash.
func (s *Store) UpdateAdminPassword(ctx context.Context, adminID, passwordHash string) error {
	tag, err := s.Pool.Exec(ctx,
		`UPDATE admins SET password_hash = $2, updated_at = now() WHERE id = $1`,
		adminID, passwordHash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CreatePasswordReset stores a pending password reset.
func (s *Store) CreatePasswordReset(ctx context.Context, r PasswordReset) error {
	_, err := s.Pool.Exec(ctx,
		`INSERT INTO admin_password_resets (id, admin_id, token_hash, expires_at)
		 VALUES ($1, $2, $3, $4)`,
		uuid.NewString(), r.AdminID, r.TokenHash, r.ExpiresAt)
	return err
}

// GetPasswordResetByTokenHash fetches a pending reset by its token hash.
func (s *Store) GetPasswordResetByTokenHash(ctx context.Context, hash string) (PasswordReset, error) {
	var r PasswordReset
	err := s.Pool.QueryRow(ctx,
		`SELECT id, admin_id, token_hash, expires_at
		 FROM admin_password_resets WHERE token_hash = $1`, hash).
		Scan(&r.ID, &r.AdminID, &r.TokenHash, &r.ExpiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return PasswordReset{}, ErrNotFound
	}
	return r, err
}

// DeletePasswordResetsByAdmin clears all pending resets for the admin.
func (s *Store) DeletePasswordResetsByAdmin(ctx context.Context, adminID string) error {
	_, err := s.Pool.Exec(ctx, `DELETE FROM admin_password_resets WHERE admin_id = $1`, adminID)
	return err
}
