package auth

import (
	"errors"
	"net/http"
	"strings"

	"farmergiant/pkg/kit"
)

// RequireAdmin guards the dashboard surfaces: a valid bearer token with the
// admin role, or nothing.
func RequireAdmin(jwt *TokenMaker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := parseBearer(jwt, r)
			if err != nil {
				kit.WriteError(w, r, http.StatusUnauthorized, err.Error(), nil)
				return
			}
			if claims.Role != RoleAdmin {
				kit.WriteError(w, r, http.StatusForbidden, "forbidden", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func parseBearer(jwt *TokenMaker, r *http.Request) (Claims, error) {
	authz := r.Header.Get("Authorization")
	if !strings.HasPrefix(authz, "Bearer ") {
		return Claims{}, errors.New("missing token")
	}

	claims, err := jwt.Parse(strings.TrimPrefix(authz, "Bearer "))
	if err != nil {
		return Claims{}, errors.New("invalid token")
	}
	return claims, nil
}
