package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/markdave123-py/Coursely/internal/api/response"
	"github.com/markdave123-py/Coursely/internal/core/apperr"
)

type ctxKey string

const emailKey ctxKey = "user_email"

// JWT validates the identity provider's bearer token (HS256) and attaches
// its email claim to the request context.
func JWT(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") || secret == "" {
				response.Error(w, r, nil, apperr.Unauthorized("auth", "missing or invalid token"))
				return
			}

			tokenStr := strings.TrimPrefix(auth, "Bearer ")
			claims := jwt.MapClaims{}
			token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
				return []byte(secret), nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
			if err != nil || !token.Valid {
				response.Error(w, r, nil, apperr.Unauthorized("auth", "invalid token"))
				return
			}

			email, ok := claims["email"].(string)
			if !ok || email == "" {
				response.Error(w, r, nil, apperr.Unauthorized("auth", "invalid token claims"))
				return
			}

			ctx := context.WithValue(r.Context(), emailKey, email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// EmailFromContext returns the email set by JWT.
func EmailFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(emailKey).(string)
	return email, ok
}
