package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/maaltijdbox/admin-api/internal/common"
)

var errNoToken = errors.New("auth: token missing")

// Middleware wires admin authentication into HTTP handlers.
type Middleware struct {
	Service      *Service
	AccessCookie string
}

// RequireAuth enforces that a valid admin token is present before executing
// the next handler.
func (m Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, err := m.authenticateRequest(r)
		if err != nil {
			var appErr *common.AppError
			if errors.As(err, &appErr) && appErr.HTTPStatus != 0 {
				common.JSONError(w, appErr.HTTPStatus, appErr.Code, appErr.Message, appErr.Details)
				return
			}
			common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing or invalid token", nil)
			return
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m Middleware) authenticateRequest(r *http.Request) (context.Context, error) {
	if m.Service == nil {
		return r.Context(), errors.New("auth: service not configured")
	}
	token := m.extractToken(r)
	if token == "" {
		return r.Context(), errNoToken
	}
	adminID, err := m.Service.ParseAccessToken(token)
	if err != nil {
		return r.Context(), err
	}
	return common.WithAdminID(r.Context(), adminID), nil
}

func (m Middleware) extractToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	if m.AccessCookie != "" {
		if cookie, err := r.Cookie(m.AccessCookie); err == nil {
			return strings.TrimSpace(cookie.Value)
		}
	}
	return ""
}
