package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/config"
)

func newTestRouter(t *testing.T) (*gin.Engine, *auth.JWTService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:          "test-secret-that-is-long-enough-123",
		Issuer:          "storefront-backend",
		TokenExpiration: time.Hour,
	})

	router := gin.New()
	authed := router.Group("/", JWTAuth(jwtService))
	authed.GET("/me", func(c *gin.Context) {
		principal, _ := GetPrincipal(c)
		c.JSON(http.StatusOK, gin.H{"user_id": principal.UserID, "role": principal.Role})
	})
	authed.GET("/admin", AdminOnly(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router, jwtService
}

func doRequest(router *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestJWTAuth_ValidToken(t *testing.T) {
	router, jwtService := newTestRouter(t)
	token, err := jwtService.GenerateToken(uuid.New(), identity.RoleCustomer)
	require.NoError(t, err)

	w := doRequest(router, "/me", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "customer")
}

func TestJWTAuth_MissingHeader(t *testing.T) {
	router, _ := newTestRouter(t)
	w := doRequest(router, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "UNAUTHORIZED")
}

func TestJWTAuth_MalformedHeader(t *testing.T) {
	router, _ := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Token abc")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuth_GarbageToken(t *testing.T) {
	router, _ := newTestRouter(t)
	w := doRequest(router, "/me", "not.a.token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminOnly_CustomerForbidden(t *testing.T) {
	router, jwtService := newTestRouter(t)
	token, err := jwtService.GenerateToken(uuid.New(), identity.RoleCustomer)
	require.NoError(t, err)

	w := doRequest(router, "/admin", token)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "FORBIDDEN")
}

func TestAdminOnly_AdminAllowed(t *testing.T) {
	router, jwtService := newTestRouter(t)
	token, err := jwtService.GenerateToken(uuid.New(), identity.RoleAdmin)
	require.NoError(t, err)

	w := doRequest(router, "/admin", token)
	assert.Equal(t, http.StatusOK, w.Code)
}
