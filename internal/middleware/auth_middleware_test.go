package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lmoreno/schooldesk/internal/app/models"
	"github.com/lmoreno/schooldesk/internal/pkg/auth"
)

func newTestAuthMiddleware() *AuthMiddleware {
	return NewAuthMiddleware(auth.NewJWTService(auth.JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  time.Hour,
		RefreshTokenExp: 24 * time.Hour,
		TokenIssuer:     "test",
	}))
}

func protectedRouter(m *AuthMiddleware) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", m.JWTAuth(), func(c *gin.Context) {
		role, _ := RoleFromContext(c)
		c.JSON(http.StatusOK, gin.H{"role": string(role)})
	})
	return router
}

func TestJWTAuthMissingHeader(t *testing.T) {
	router := protectedRouter(newTestAuthMiddleware())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthMalformedToken(t *testing.T) {
	router := protectedRouter(newTestAuthMiddleware())

	for _, header := range []string{
		"Bearer not.a.token",
		"Bearer ",
		"NotBearer abc",
	} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", header)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)
	}
}

func TestJWTAuthForgedToken(t *testing.T) {
	m := newTestAuthMiddleware()
	router := protectedRouter(m)

	// Token signed with a different secret.
	other := auth.NewJWTService(auth.JWTConfig{
		SecretKey:       "other-secret",
		AccessTokenExp:  time.Hour,
		RefreshTokenExp: 24 * time.Hour,
		TokenIssuer:     "test",
	})
	forged, _, _, _, err := other.GenerateTokenPair(&models.User{
		ID: 1, Email: "admin@school.edu", Role: models.RoleAdmin,
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+forged)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthValidToken(t *testing.T) {
	m := newTestAuthMiddleware()
	router := protectedRouter(m)

	token, _, _, _, err := m.jwtService.GenerateTokenPair(&models.User{
		ID: 1, Email: "admin@school.edu", Role: models.RoleAdmin,
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), string(models.RoleAdmin))
}
