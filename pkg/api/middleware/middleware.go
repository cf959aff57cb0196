// Package middleware holds the HTTP middleware shared by the API routes.
package middleware

import "net/http"

// Middleware wraps an http.Handler.
type Middleware func(http.Handler) http.Handler

// Use wraps h with mws. The first middleware is the outermost one.
func Use(h http.HandlerFunc, mws ...Middleware) http.Handler {
	var handler http.Handler = h

	for i := len(mws) - 1; i >= 0; i-- {
		handler = mws[i](handler)
	}

	return handler
}
