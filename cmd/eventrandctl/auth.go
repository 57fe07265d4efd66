package main

import (
	"crypto/subtle"
	"net/http"

	"golang.org/x/crypto/bcrypt"
)

// basicAuth protects the debug HTTP surface with a single bcrypt-hashed
// credential, the same verification call the teacher's auth module uses
// for password checks (modules/auth/service.go's bcrypt.CompareHashAndPassword).
// It is optional: basicAuth returns a pass-through middleware when hash is
// empty, since these endpoints are read-only and often run behind an
// operator's own reverse proxy.
func basicAuth(user, hash string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if hash == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotUser, gotPass, ok := r.BasicAuth()
			if !ok || subtle.ConstantTimeCompare([]byte(gotUser), []byte(user)) != 1 {
				w.Header().Set("WWW-Authenticate", `Basic realm="eventrandctl"`)
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(gotPass)); err != nil {
				w.Header().Set("WWW-Authenticate", `Basic realm="eventrandctl"`)
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
