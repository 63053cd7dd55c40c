package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-storefront/models"
	"go-storefront/storage"
	"go-storefront/utils"
)

// Key type for context
type contextKey string

const userContextKey = contextKey("user")

// Auth verifies tokens and resolves the signed-in user.
type Auth struct {
	Users storage.UserStore
}

func NewAuth(users storage.UserStore) *Auth {
	return &Auth{Users: users}
}

// RequireSignIn verifies the token in the Authorization header and attaches
// the resolved user to the request context. The header carries the raw
// token, no "Bearer " prefix.
func (a *Auth) RequireSignIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenStr := r.Header.Get("Authorization")
		if tokenStr == "" {
			unauthorized(w, "Authorization header missing")
			return
		}

		claims, err := utils.ParseToken(tokenStr)
		if err != nil {
			unauthorized(w, "Invalid or expired token")
			return
		}

		id, err := primitive.ObjectIDFromHex(claims.ID)
		if err != nil {
			unauthorized(w, "Invalid or expired token")
			return
		}

		user, err := a.Users.ByID(r.Context(), id)
		if err != nil {
			unauthorized(w, "User not found")
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin ensures the attached user has the admin role. It must run
// after RequireSignIn.
func (a *Auth) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok || !user.IsAdmin() {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"success": false,
				"message": "Unauthorized: Admin access required",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// UserFromContext returns the user attached by RequireSignIn.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userContextKey).(*models.User)
	return user, ok
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"message": message,
	})
}
