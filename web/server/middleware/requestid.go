package middleware

import (
	"context"
	"net/http"

	"github.com/nrednav/cuid2"
)

// RequestIDHeader is the header the request ID is sent in.
const RequestIDHeader = "X-Request-Id"

type contextKey string

const contextKeyRequestID contextKey = "request_id"

// RequestID assigns a unique ID to every request. A valid ID sent by the
// client is reused, otherwise a new one is generated. The ID is returned to
// the client in the X-Request-Id header.
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(RequestIDHeader)
			if !cuid2.IsCuid(id) {
				id = cuid2.Generate()
			}

			w.Header().Set(RequestIDHeader, id)
			ctx := context.WithValue(r.Context(), contextKeyRequestID, id)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetRequestID returns the request ID assigned by the RequestID middleware, or
// an empty string if there is none.
func GetRequestID(ctx context.Context) string {
	if v := ctx.Value(contextKeyRequestID); v != nil {
		return v.(string) //nolint:errcheck,forcetypeassert // Acceptable risk; only set with constant key.
	}
	return ""
}
