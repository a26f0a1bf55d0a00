package server

import (
	"log"
	"net/http"
	"runtime/debug"
)

// recoverer converts handler panics into a generic 500 so internal detail
// never reaches the client.
func recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("server: panic serving %s %s: %v\n%s", r.Method, r.URL.Path, rec, debug.Stack())
				respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal Server Error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
