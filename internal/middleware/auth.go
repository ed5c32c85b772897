package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	model "github.com/JustAdi10/MomentumTracker/internal/models"
	"github.com/JustAdi10/MomentumTracker/internal/store"
	"github.com/JustAdi10/MomentumTracker/internal/utils"
)

type contextKey string

const (
	userContextKey  = contextKey("user")
	tokenContextKey = contextKey("token")
)

// Auth validates the bearer token against the session store and injects
// the user into the request context.
func Auth(s store.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get("Authorization")
			if token == "" {
				utils.Error(w, http.StatusUnauthorized, "missing authorization token")
				return
			}

			user, err := s.GetSessionUser(r.Context(), token, time.Now())
			if err != nil {
				utils.Error(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, user)
			ctx = context.WithValue(ctx, tokenContextKey, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserFromContext returns the authenticated user for the request.
func GetUserFromContext(r *http.Request) (model.User, error) {
	user, ok := r.Context().Value(userContextKey).(model.User)
	if !ok {
		return model.User{}, fmt.Errorf("user not found in context")
	}
	return user, nil
}

// GetTokenFromContext returns the session token for the request.
func GetTokenFromContext(r *http.Request) (string, error) {
	token, ok := r.Context().Value(tokenContextKey).(string)
	if !ok || token == "" {
		return "", fmt.Errorf("token not found in context")
	}
	return token, nil
}
