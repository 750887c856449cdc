package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

func newAuthRouter(t *testing.T) (*chi.Mux, *fakeStore) {
	t.Helper()
	svc, store, _ := newResetTestService(t)
	h := &Handler{Service: svc, RefreshCookieName: "maaltijdbox_refresh"}
	r := chi.NewRouter()
	r.Route("/auth", h.Routes)
	return r, store
}

func TestForgotPasswordEndpointReturnsGenericMessage(t *testing.T) {
	router, _ := newAuthRouter(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/password/forgot",
		strings.NewReader(`{"email":"admin@example.com"}`))
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusAccepted, rec.Code)
	var body struct {
		Data struct {
			Message string `json:"message"`
		} `json:"data"`
		Meta struct {
			ResetToken string `json:"reset_token"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "if the email exists, a reset link has been sent", body.Data.Message)
	require.NotEmpty(t, body.Meta.ResetToken)
}

func TestForgotPasswordEndpointSameResponseForUnknownEmail(t *testing.T) {
	router, _ := newAuthRouter(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/password/forgot",
		strings.NewReader(`{"email":"nobody@example.com"}`))
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusAccepted, rec.Code)
	require.Contains(t, rec.Body.String(), "if the email exists")
}

func TestResetPasswordEndpointUpdatesPasswordAndClearsCookie(t *testing.T) {
	router, store := newAuthRouter(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/password/forgot",
		strings.NewReader(`{"email":"admin@example.com"}`))
	router.ServeHTTP(rec, req)
	var forgot struct {
		Meta struct {
			ResetToken string `json:"reset_token"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &forgot))

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/auth/password/reset",
		strings.NewReader(`{"token":"`+forgot.Meta.ResetToken+`","password":"nieuw-wachtwoord"}`))
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "password updated")
	require.Empty(t, store.resets)

	cleared := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == "maaltijdbox_refresh" && c.MaxAge < 0 {
			cleared = true
		}
	}
	require.True(t, cleared)
}

func TestResetPasswordEndpointRejectsBadToken(t *testing.T) {
	router, _ := newAuthRouter(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/password/reset",
		strings.NewReader(`{"token":"onzin","password":"nieuw-wachtwoord"}`))
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), "INVALID_RESET_TOKEN")
}
