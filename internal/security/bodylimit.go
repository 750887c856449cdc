package security

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"github.com/maaltijdbox/admin-api/internal/common"
)

// BodyLimit caps request payload size. Admin writes are small JSON documents,
// so anything beyond Max is either a mistake or abuse.
type BodyLimit struct {
	Max int64
}

// Middleware rejects oversized requests with a 413 in the canonical error
// payload, and re-buffers accepted bodies so downstream decoders see an
// accurate ContentLength.
func (b BodyLimit) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if b.Max <= 0 || r.Body == nil {
			next.ServeHTTP(w, r)
			return
		}

		if r.ContentLength > b.Max && r.ContentLength != -1 {
			b.reject(w)
			return
		}

		body, err := io.ReadAll(io.LimitReader(r.Body, b.Max+1))
		if err != nil && !errors.Is(err, io.EOF) {
			common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body", nil)
			return
		}
		if int64(len(body)) > b.Max {
			b.reject(w)
			return
		}

		_ = r.Body.Close()
		r.Body = io.NopCloser(bytes.NewReader(body))
		r.ContentLength = int64(len(body))
		next.ServeHTTP(w, r)
	})
}

func (b BodyLimit) reject(w http.ResponseWriter) {
	common.JSONError(w, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "request body exceeds the allowed size", nil)
}
