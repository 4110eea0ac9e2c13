// Package middleware provides HTTP middleware for the NHS lookup HTTP server.
package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// RequestIDHeader carries the request ID on both the request and the response
const RequestIDHeader = "X-Request-ID"

// maxRequestIDLen bounds client supplied request IDs
const maxRequestIDLen = 128

type ctxKey int

const requestIDKey ctxKey = iota

// RequestID tags every request with an ID and echoes it in the response
// header. A client supplied X-Request-ID is kept when it is printable ASCII
// and no longer than maxRequestIDLen; anything else is replaced by a UUID
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if !validRequestID(id) {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

// GetRequestID returns the request ID stored by RequestID, or ""
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLen {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 0x21 || id[i] > 0x7e {
			return false
		}
	}
	return true
}
