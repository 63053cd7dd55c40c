package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-storefront/models"
	"go-storefront/storage"
	"go-storefront/utils"
)

func signedInUser(t *testing.T, mem *storage.Memory, role models.Role) (*models.User, string) {
	t.Helper()
	u := models.User{Name: "Ada", Email: "ada@example.com", Role: role}
	require.NoError(t, mem.Users().Create(context.Background(), &u))
	token, err := utils.GenerateJWT(u.ID.Hex())
	require.NoError(t, err)
	return &u, token
}

func okHandler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		assert.True(t, ok)
		assert.NotNil(t, user)
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireSignInAcceptsRawToken(t *testing.T) {
	mem := storage.NewMemory()
	_, token := signedInUser(t, mem, models.RoleShopper)
	auth := NewAuth(mem.Users())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	// The header carries the token itself, not "Bearer <token>".
	req.Header.Set("Authorization", token)
	rec := httptest.NewRecorder()

	auth.RequireSignIn(okHandler(t)).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireSignInRejectsBearerPrefix(t *testing.T) {
	mem := storage.NewMemory()
	_, token := signedInUser(t, mem, models.RoleShopper)
	auth := NewAuth(mem.Users())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	auth.RequireSignIn(okHandler(t)).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireSignInMissingHeader(t *testing.T) {
	auth := NewAuth(storage.NewMemory().Users())

	rec := httptest.NewRecorder()
	auth.RequireSignIn(okHandler(t)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Authorization header missing")
}

func TestRequireSignInUnknownUser(t *testing.T) {
	mem := storage.NewMemory()
	_, token := signedInUser(t, mem, models.RoleShopper)
	// Resolve against a store that has no users.
	auth := NewAuth(storage.NewMemory().Users())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", token)
	rec := httptest.NewRecorder()

	auth.RequireSignIn(okHandler(t)).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "User not found")
}

func TestRequireAdminForbidsShopper(t *testing.T) {
	mem := storage.NewMemory()
	user, _ := signedInUser(t, mem, models.RoleShopper)
	auth := NewAuth(mem.Users())

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run for a shopper")
	})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(context.WithValue(req.Context(), userContextKey, user))
	rec := httptest.NewRecorder()

	auth.RequireAdmin(next).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "Admin access required")
}

func TestRequireAdminAllowsAdmin(t *testing.T) {
	mem := storage.NewMemory()
	user, _ := signedInUser(t, mem, models.RoleAdmin)
	auth := NewAuth(mem.Users())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(context.WithValue(req.Context(), userContextKey, user))
	rec := httptest.NewRecorder()

	auth.RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
