package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/vmunteanu/cemeteryregistry/models"
)

// ContextKey is a custom type for context keys to avoid collisions.
type ContextKey string

// ClaimsContextKey is the key used to store the verified token claims in the
// request context.
const ClaimsContextKey ContextKey = "claims"

// Claims is the JWT payload: the authenticated identity plus the role used
// for every authorization decision. The role is always taken from here, never
// from request bodies.
type Claims struct {
	UserID   uint        `json:"id"`
	Username string      `json:"username"`
	Role     models.Role `json:"role"`
	jwt.RegisteredClaims
}

// ClaimsFromContext retrieves the verified claims from the request context.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(ClaimsContextKey).(*Claims)
	return claims, ok
}

// AuthMiddleware verifies the bearer token and stores its claims in the
// request context. A missing or malformed Authorization header yields 401;
// a present but invalid or expired token yields 403 — callers rely on the
// distinction.
func AuthMiddleware(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeError(w, http.StatusUnauthorized, "Authorization header required")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				writeError(w, http.StatusUnauthorized, "Authorization header format must be Bearer {token}")
				return
			}
			tokenString := strings.TrimSpace(parts[1])

			claims := &Claims{}
			token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !token.Valid {
				writeError(w, http.StatusForbidden, "Invalid or expired token")
				return
			}
			if !claims.Role.IsValid() {
				writeError(w, http.StatusForbidden, "Invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), ClaimsContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin rejects any request whose verified claims lack the admin role.
// It must run after AuthMiddleware.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusInternalServerError, "Could not retrieve claims from context")
			return
		}
		if claims.Role != models.RoleAdmin {
			writeError(w, http.StatusForbidden, "Forbidden: requires administrator role")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// canActOn is the self-or-admin predicate: a user may act on their own
// resource, an admin on any.
func canActOn(claims *Claims, targetID uint) bool {
	return claims.Role == models.RoleAdmin || claims.UserID == targetID
}
