// Package auth authenticates back-office administrators and manages their
// refresh-token sessions.
package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jws"
	"github.com/lestrrat-go/jwx/v2/jwt"

	"github.com/maaltijdbox/admin-api/internal/common"
	"github.com/maaltijdbox/admin-api/internal/obs"
)

const (
	defaultAccessTTL  = 15 * time.Minute
	defaultRefreshTTL = 24 * time.Hour
	defaultResetTTL   = 24 * time.Hour
)

// Admin is a back-office administrator account.
type Admin struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Session is a stored refresh-token session. TokenHash holds the sha256 of
// the refresh token; the raw token never touches the database.
type Session struct {
	ID        string
	AdminID   string
	TokenHash string
	UserAgent string
	IP        string
	ExpiresAt time.Time
}

// PasswordReset is a pending reset request. TokenHash holds the sha256 of
// the emailed token, mirroring how refresh tokens are stored.
type PasswordReset struct {
	ID        string
	AdminID   string
	TokenHash string
	ExpiresAt time.Time
}

// Storage is the persistence surface the auth service needs.
type Storage interface {
	GetAdminByEmail(ctx context.Context, email string) (Admin, error)
	GetAdminByID(ctx context.Context, id string) (Admin, error)
	UpdateAdminPassword(ctx context.Context, adminID, passwordHash string) error
	CreateSession(ctx context.Context, s Session) (Session, error)
	GetSessionByTokenHash(ctx context.Context, hash string) (Session, error)
	RotateSession(ctx context.Context, id, newHash string, expiresAt time.Time) error
	DeleteSessionByTokenHash(ctx context.Context, hash string) error
	DeleteSessionsByAdmin(ctx context.Context, adminID string) error
	CreatePasswordReset(ctx context.Context, r PasswordReset) error
	GetPasswordResetByTokenHash(ctx context.Context, hash string) (PasswordReset, error)
	DeletePasswordResetsByAdmin(ctx context.Context, adminID string) error
}

// Service coordinates admin authentication and session persistence.
type Service struct {
	store      Storage
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	resetTTL   time.Duration
	now        func() time.Time
	signer     jwa.SignatureAlgorithm
	validator  TokenValidator
	issuer     string
	audience   string
	clockSkew  time.Duration

	mailer           common.EmailSender
	resetBaseURL     string
	exposeResetToken bool
}

// Config configures the auth service.
type Config struct {
	Store           Storage
	Secret          string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	ResetTokenTTL   time.Duration
	Issuer          string
	Audience        string
	ClockSkew       time.Duration

	// Mailer delivers password reset links. ResetBaseURL is the admin UI
	// origin the links point at. When ExposeResetToken is set the token is
	// also returned in the API response, for environments without mail.
	Mailer           common.EmailSender
	ResetBaseURL     string
	ExposeResetToken bool
}

// LoginResult bundles the token material returned after a successful login.
type LoginResult struct {
	Admin         Admin     `json:"admin"`
	AccessToken   string    `json:"access_token"`
	RefreshToken  string    `json:"refresh_token"`
	AccessExpiry  time.Time `json:"access_expires_at"`
	RefreshExpiry time.Time `json:"refresh_expires_at"`
}

// RefreshResult represents the outcome of a refresh-token rotation.
type RefreshResult struct {
	AccessToken   string    `json:"access_token"`
	AccessExpiry  time.Time `json:"access_expires_at"`
	RefreshToken  string    `json:"refresh_token"`
	RefreshExpiry time.Time `json:"refresh_expires_at"`
}

// NewService constructs a Service instance with sane defaults.
func NewService(cfg Config) (*Service, error) {
	if cfg.Store == nil {
		return nil, errors.New("auth: store is required")
	}
	secret := strings.TrimSpace(cfg.Secret)
	if secret == "" {
		return nil, errors.New("auth: secret is required")
	}
	accessTTL := cfg.AccessTokenTTL
	if accessTTL <= 0 {
		accessTTL = defaultAccessTTL
	}
	refreshTTL := cfg.RefreshTokenTTL
	if refreshTTL <= 0 {
		refreshTTL = defaultRefreshTTL
	}
	resetTTL := cfg.ResetTokenTTL
	if resetTTL <= 0 {
		resetTTL = defaultResetTTL
	}
	issuer := strings.TrimSpace(cfg.Issuer)
	if issuer == "" {
		issuer = "maaltijdbox-admin"
	}
	audience := strings.TrimSpace(cfg.Audience)
	if audience == "" {
		audience = "maaltijdbox-backoffice"
	}
	clockSkew := cfg.ClockSkew
	if clockSkew < 0 {
		clockSkew = 0
	}

	return &Service{
		store:      cfg.Store,
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		resetTTL:   resetTTL,
		now:        time.Now,
		signer:     jwa.HS256,
		validator: TokenValidator{
			Issuer:    issuer,
			Audience:  audience,
			ClockSkew: clockSkew,
			Algorithm: jwa.HS256,
		},
		issuer:           issuer,
		audience:         audience,
		clockSkew:        clockSkew,
		mailer:           cfg.Mailer,
		resetBaseURL:     strings.TrimRight(strings.TrimSpace(cfg.ResetBaseURL), "/"),
		exposeResetToken: cfg.ExposeResetToken,
	}, nil
}

// WithNow allows tests to override the time provider.
func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

func countLogin(result string) {
	if obs.LoginAttemptTotal != nil {
		obs.LoginAttemptTotal.WithLabelValues(result).Inc()
	}
}

// Login verifies admin credentials and issues a JWT and refresh token pair.
func (s *Service) Login(ctx context.Context, email, password, userAgent, ip string) (LoginResult, error) {
	normalized := strings.TrimSpace(strings.ToLower(email))
	if normalized == "" || password == "" {
		countLogin("invalid_credentials")
		return LoginResult{}, common.Unauthorized("INVALID_CREDENTIALS", "invalid email or password", nil)
	}

	admin, err := s.store.GetAdminByEmail(ctx, normalized)
	if err != nil {
		countLogin("invalid_credentials")
		return LoginResult{}, common.Unauthorized("INVALID_CREDENTIALS", "invalid email or password", nil)
	}

	ok, err := argon2id.ComparePasswordAndHash(password, admin.PasswordHash)
	if err != nil || !ok {
		countLogin("invalid_credentials")
		return LoginResult{}, common.Unauthorized("INVALID_CREDENTIALS", "invalid email or password", nil)
	}

	accessToken, accessExpiry, err := s.signAccessToken(admin.ID)
	if err != nil {
		return LoginResult{}, fmt.Errorf("sign access token: %w", err)
	}

	refreshToken, refreshExpiry, err := s.createSession(ctx, admin.ID, userAgent, ip)
	if err != nil {
		return LoginResult{}, fmt.Errorf("create session: %w", err)
	}

	countLogin("success")
	return LoginResult{
		Admin:         admin,
		AccessToken:   accessToken,
		RefreshToken:  refreshToken,
		AccessExpiry:  accessExpiry,
		RefreshExpiry: refreshExpiry,
	}, nil
}

// Logout revokes the refresh-token session.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	token := strings.TrimSpace(refreshToken)
	if token == "" {
		return nil
	}
	return s.store.DeleteSessionByTokenHash(ctx, hashRefreshToken(token))
}

// Refresh validates and rotates a refresh token, issuing a fresh token pair.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (RefreshResult, error) {
	token := strings.TrimSpace(refreshToken)
	if token == "" {
		return RefreshResult{}, common.Unauthorized("UNAUTHORIZED", "invalid refresh token", nil)
	}

	hashed := hashRefreshToken(token)
	session, err := s.store.GetSessionByTokenHash(ctx, hashed)
	if err != nil {
		return RefreshResult{}, common.Unauthorized("UNAUTHORIZED", "invalid refresh token", nil)
	}
	if s.now().After(session.ExpiresAt) {
		_ = s.store.DeleteSessionByTokenHash(ctx, hashed)
		return RefreshResult{}, common.Unauthorized("UNAUTHORIZED", "invalid refresh token", nil)
	}

	accessToken, accessExpiry, err := s.signAccessToken(session.AdminID)
	if err != nil {
		return RefreshResult{}, fmt.Errorf("sign access token: %w", err)
	}

	newToken, newHash, refreshExpiry, err := s.newRefreshToken()
	if err != nil {
		return RefreshResult{}, fmt.Errorf("generate refresh token: %w", err)
	}
	if err := s.store.RotateSession(ctx, session.ID, newHash, refreshExpiry); err != nil {
		_ = s.store.DeleteSessionByTokenHash(ctx, hashed)
		return RefreshResult{}, fmt.Errorf("rotate session: %w", err)
	}

	return RefreshResult{
		AccessToken:   accessToken,
		AccessExpiry:  accessExpiry,
		RefreshToken:  newToken,
		RefreshExpiry: refreshExpiry,
	}, nil
}

// Me fetches the currently authenticated admin.
func (s *Service) Me(ctx context.Context, adminID string) (Admin, error) {
	if strings.TrimSpace(adminID) == "" {
		return Admin{}, common.Unauthorized("UNAUTHORIZED", "unauthorized", nil)
	}
	admin, err := s.store.GetAdminByID(ctx, adminID)
	if err != nil {
		return Admin{}, common.Unauthorized("UNAUTHORIZED", "unauthorized", nil)
	}
	return admin, nil
}

// ResetInitiation is the outcome of a forgot-password request. Token is only
// populated when the service is configured to expose it.
type ResetInitiation struct {
	Token     string
	ExpiresAt time.Time
}

// ForgotPassword creates a password reset token for the account, if it
// exists, and mails the reset link. The return value never discloses whether
// the email matched an admin.
func (s *Service) ForgotPassword(ctx context.Context, email string) (ResetInitiation, error) {
	normalized := strings.TrimSpace(strings.ToLower(email))
	if normalized == "" {
		return ResetInitiation{}, nil
	}

	admin, err := s.store.GetAdminByEmail(ctx, normalized)
	if err != nil {
		return ResetInitiation{}, nil
	}

	token, err := generateToken(32)
	if err != nil {
		return ResetInitiation{}, fmt.Errorf("generate reset token: %w", err)
	}
	expiresAt := s.now().Add(s.resetTTL)
	if err := s.store.CreatePasswordReset(ctx, PasswordReset{
		AdminID:   admin.ID,
		TokenHash: hashRefreshToken(token),
		ExpiresAt: expiresAt,
	}); err != nil {
		return ResetInitiation{}, fmt.Errorf("create password reset: %w", err)
	}

	if s.mailer != nil {
		link := fmt.Sprintf("%s/reset?token=%s", s.resetBaseURL, token)
		if err := s.mailer.Send(admin.Email, "Wachtwoord resetten",
			"Klik op de link om je wachtwoord te resetten: "+link); err != nil {
			return ResetInitiation{}, fmt.Errorf("send reset email: %w", err)
		}
	}

	out := ResetInitiation{ExpiresAt: expiresAt}
	if s.exposeResetToken {
		out.Token = token
	}
	return out, nil
}

// ResetPassword consumes a reset token and installs the new password. All of
// the admin's sessions and outstanding reset tokens are revoked with it.
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return common.BadRequest("BAD_REQUEST", "token is required")
	}
	if len(newPassword) < 8 {
		return common.BadRequest("WEAK_PASSWORD", "password must be at least 8 characters")
	}

	reset, err := s.store.GetPasswordResetByTokenHash(ctx, hashRefreshToken(trimmed))
	if err != nil {
		return common.Unauthorized("INVALID_RESET_TOKEN", "invalid or expired reset token", nil)
	}
	if s.now().After(reset.ExpiresAt) {
		_ = s.store.DeletePasswordResetsByAdmin(ctx, reset.AdminID)
		return common.Unauthorized("INVALID_RESET_TOKEN", "invalid or expired reset token", nil)
	}

	hash, err := argon2id.CreateHash(newPassword, argon2id.DefaultParams)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.store.UpdateAdminPassword(ctx, reset.AdminID, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if err := s.store.DeletePasswordResetsByAdmin(ctx, reset.AdminID); err != nil {
		return fmt.Errorf("delete password resets: %w", err)
	}
	if err := s.store.DeleteSessionsByAdmin(ctx, reset.AdminID); err != nil {
		return fmt.Errorf("revoke sessions: %w", err)
	}
	return nil
}

// ParseAccessToken validates an access token and returns the subject, the
// admin id.
func (s *Service) ParseAccessToken(token string) (string, error) {
	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return "", common.Unauthorized("UNAUTHORIZED", "missing token", nil)
	}
	algorithm, err := extractTokenAlgorithm(trimmed)
	if err != nil {
		return "", common.Unauthorized("UNAUTHORIZED", "invalid token", err)
	}
	if s.validator.Algorithm != "" && algorithm != s.validator.Algorithm {
		return "", common.Unauthorized("UNAUTHORIZED", "invalid token", fmt.Errorf("unexpected token algorithm %s", algorithm))
	}
	parsed, err := jwt.ParseString(trimmed, jwt.WithKey(algorithm, s.secret))
	if err != nil {
		return "", common.Unauthorized("UNAUTHORIZED", "invalid token", err)
	}
	if err := s.validator.Validate(parsed, algorithm, s.now()); err != nil {
		return "", common.Unauthorized("UNAUTHORIZED", "invalid token", err)
	}
	return parsed.Subject(), nil
}

func extractTokenAlgorithm(token string) (jwa.SignatureAlgorithm, error) {
	message, err := jws.ParseString(token)
	if err != nil {
		return "", err
	}
	signatures := message.Signatures()
	if len(signatures) == 0 {
		return "", errors.New("auth: token contains no signatures")
	}
	var algorithm jwa.SignatureAlgorithm
	for _, sig := range signatures {
		headers := sig.ProtectedHeaders()
		if headers == nil {
			return "", errors.New("auth: token missing protected headers")
		}
		alg := headers.Algorithm()
		if alg == "" {
			return "", errors.New("auth: token missing algorithm")
		}
		if alg == jwa.NoSignature {
			return "", errors.New("auth: token uses none algorithm")
		}
		if algorithm == "" {
			algorithm = alg
		} else if algorithm != alg {
			return "", errors.New("auth: mixed token algorithms detected")
		}
	}
	return algorithm, nil
}

func (s *Service) signAccessToken(adminID string) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.accessTTL)
	builder := jwt.NewBuilder().
		Subject(adminID).
		Issuer(s.issuer).
		Audience([]string{s.audience}).
		IssuedAt(now).
		NotBefore(now.Add(-s.clockSkew)).
		Expiration(expiresAt)
	token, err := builder.Build()
	if err != nil {
		return "", time.Time{}, err
	}
	signed, err := jwt.Sign(token, jwt.WithKey(s.signer, s.secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return string(signed), expiresAt, nil
}

func (s *Service) createSession(ctx context.Context, adminID, userAgent, ip string) (string, time.Time, error) {
	token, hashed, expiresAt, err := s.newRefreshToken()
	if err != nil {
		return "", time.Time{}, err
	}
	if _, err := s.store.CreateSession(ctx, Session{
		AdminID:   adminID,
		TokenHash: hashed,
		UserAgent: strings.TrimSpace(userAgent),
		IP:        strings.TrimSpace(ip),
		ExpiresAt: expiresAt,
	}); err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

func (s *Service) newRefreshToken() (string, string, time.Time, error) {
	token, err := generateToken(48)
	if err != nil {
		return "", "", time.Time{}, err
	}
	expiresAt := s.now().Add(s.refreshTTL)
	return token, hashRefreshToken(token), expiresAt, nil
}

func generateToken(length int) (string, error) {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func hashRefreshToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
