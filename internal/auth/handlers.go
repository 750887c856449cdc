package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/maaltijdbox/admin-api/internal/common"
)

// Handler exposes the admin authentication endpoints.
type Handler struct {
	Service           *Service
	RefreshCookieName string
	CookieDomain      string
	CookieSecure      bool
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// Routes mounts the auth endpoints on a chi router. RequireAuth is applied by
// the caller for /me only; login and refresh stay public.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/login", h.Login)
	r.Post("/refresh", h.Refresh)
	r.Post("/logout", h.Logout)
	r.Post("/password/forgot", h.ForgotPassword)
	r.Post("/password/reset", h.ResetPassword)
}

// Login handles POST /auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, err)
		return
	}
	result, err := h.Service.Login(r.Context(), req.Email, req.Password, r.UserAgent(), clientIP(r))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.setRefreshCookie(w, result.RefreshToken, result)
	common.JSON(w, http.StatusOK, map[string]any{
		"data": map[string]any{
			"admin":                   result.Admin,
			"access_token":            result.AccessToken,
			"access_token_expires_at": result.AccessExpiry,
		},
	})
}

// Refresh handles POST /auth/refresh.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	token := h.refreshTokenFromRequest(r)
	result, err := h.Service.Refresh(r.Context(), token)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if h.RefreshCookieName != "" {
		http.SetCookie(w, &http.Cookie{
			Name:     h.RefreshCookieName,
			Value:    result.RefreshToken,
			Domain:   h.CookieDomain,
			Path:     "/",
			Expires:  result.RefreshExpiry,
			HttpOnly: true,
			Secure:   h.CookieSecure,
			SameSite: http.SameSiteStrictMode,
		})
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data": map[string]any{
			"access_token":            result.AccessToken,
			"access_token_expires_at": result.AccessExpiry,
		},
	})
}

// Logout handles POST /auth/logout.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if token := h.refreshTokenFromRequest(r); token != "" {
		_ = h.Service.Logout(r.Context(), token)
	}
	h.clearRefreshCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// ForgotPassword handles POST /auth/password/forgot. The response is the same
// whether or not the email matched an admin account.
func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, err)
		return
	}
	initiation, err := h.Service.ForgotPassword(r.Context(), req.Email)
	if err != nil {
		h.writeError(w, err)
		return
	}
	body := map[string]any{
		"data": map[string]any{
			"message": "if the email exists, a reset link has been sent",
		},
	}
	if initiation.Token != "" {
		body["meta"] = map[string]any{
			"reset_token": initiation.Token,
			"expires_at":  initiation.ExpiresAt,
		}
	}
	common.JSON(w, http.StatusAccepted, body)
}

// ResetPassword handles POST /auth/password/reset. A successful reset revokes
// every session, so the refresh cookie is cleared as well.
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, err)
		return
	}
	if err := h.Service.ResetPassword(r.Context(), req.Token, req.Password); err != nil {
		h.writeError(w, err)
		return
	}
	h.clearRefreshCookie(w)
	common.JSON(w, http.StatusOK, map[string]any{
		"data": map[string]any{"message": "password updated"},
	})
}

// Me handles GET /auth/me behind RequireAuth.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	adminID, ok := common.AdminID(r.Context())
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing or invalid token", nil)
		return
	}
	admin, err := h.Service.Me(r.Context(), adminID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": admin})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var appErr *common.AppError
	if errors.As(err, &appErr) {
		status := appErr.HTTPStatus
		if status == 0 {
			status = http.StatusInternalServerError
		}
		common.JSONError(w, status, appErr.Code, appErr.Message, appErr.Details)
		return
	}
	common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "internal error", nil)
}

func (h *Handler) setRefreshCookie(w http.ResponseWriter, token string, result LoginResult) {
	if h.RefreshCookieName == "" {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     h.RefreshCookieName,
		Value:    token,
		Domain:   h.CookieDomain,
		Path:     "/",
		Expires:  result.RefreshExpiry,
		HttpOnly: true,
		Secure:   h.CookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *Handler) clearRefreshCookie(w http.ResponseWriter) {
	if h.RefreshCookieName == "" {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     h.RefreshCookieName,
		Value:    "",
		Domain:   h.CookieDomain,
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.CookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *Handler) refreshTokenFromRequest(r *http.Request) string {
	if h.RefreshCookieName != "" {
		if cookie, err := r.Cookie(h.RefreshCookieName); err == nil {
			if value := strings.TrimSpace(cookie.Value); value != "" {
				return value
			}
		}
	}
	var body struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := common.DecodeJSON(r, &body); err == nil {
		return strings.TrimSpace(body.RefreshToken)
	}
	return ""
}

func clientIP(r *http.Request) string {
	if ip := strings.TrimSpace(r.Header.Get("X-Forwarded-For")); ip != "" {
		if comma := strings.Index(ip, ","); comma >= 0 {
			return strings.TrimSpace(ip[:comma])
		}
		return ip
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	host := strings.TrimSpace(r.RemoteAddr)
	if colon := strings.LastIndex(host, ":"); colon >= 0 {
		return host[:colon]
	}
	return host
}
