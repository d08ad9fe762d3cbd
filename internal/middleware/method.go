package middleware

import (
	"net/http"
	"strings"
)

// MethodOverride lets HTML forms issue PUT and DELETE by posting a
// "_method" field (or X-HTTP-Method-Override header).
func MethodOverride(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			m := r.Header.Get("X-HTTP-Method-Override")
			if m == "" {
				m = r.FormValue("_method")
			}
			switch m = strings.ToUpper(m); m {
			case http.MethodPut, http.MethodPatch, http.MethodDelete:
				r.Method = m
			}
		}
		next.ServeHTTP(w, r)
	})
}
