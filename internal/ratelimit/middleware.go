package ratelimit

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

// LoginKey buckets login attempts per client address so one admin's typos
// cannot lock out the whole office.
func LoginKey(r *http.Request) string {
	if ip := strings.TrimSpace(r.Header.Get("X-Forwarded-For")); ip != "" {
		if comma := strings.Index(ip, ","); comma >= 0 {
			ip = ip[:comma]
		}
		return "login:" + strings.TrimSpace(ip)
	}
	host := r.RemoteAddr
	if colon := strings.LastIndex(host, ":"); colon >= 0 {
		host = host[:colon]
	}
	return "login:" + host
}

// Handler enforces a Limiter's policy before delegating to the next handler.
type Handler struct {
	Limiter Limiter
	Key     func(*http.Request) string
	OnError func(error)
}

// Middleware implements the http.Handler middleware interface. When Redis is
// unreachable the request proceeds: a broken limiter must not take down login.
func (h Handler) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.Key == nil {
			next.ServeHTTP(w, r)
			return
		}
		decision, err := h.Limiter.Allow(r.Context(), h.Key(r))
		if err != nil {
			if h.OnError != nil {
				h.OnError(err)
			}
			next.ServeHTTP(w, r)
			return
		}

		limitValue := h.Limiter.Max
		if limitValue < 0 {
			limitValue = 0
		}
		headers := w.Header()
		headers.Set("X-RateLimit-Limit", strconv.Itoa(limitValue))
		headers.Set("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
		headers.Set("X-RateLimit-Reset", strconv.FormatInt(decision.ResetAt.Unix(), 10))

		if !decision.Allowed {
			retryAfter := int(time.Until(decision.ResetAt).Seconds())
			if retryAfter < 0 {
				retryAfter = 0
			}
			headers.Set("Retry-After", strconv.Itoa(retryAfter))
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}
