package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modelify-app/modelify-backend/config"
	"github.com/modelify-app/modelify-backend/internal/auth"
	"github.com/modelify-app/modelify-backend/internal/auth/middleware"
)

const testSecret = "super-secret-signing-key"

func setupProtectedRoute(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	resolver := auth.NewResolver(&config.AuthConfig{JWTSecret: testSecret})

	r := gin.New()
	r.Use(middleware.RequireUser(resolver))
	r.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": auth.UserID(c), "email": auth.UserEmail(c)})
	})
	return r
}

func request(r *gin.Engine, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireUser(t *testing.T) {
	r := setupProtectedRoute(t)

	t.Run("a valid bearer token reaches the handler", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub":   "user-1",
			"email": "jo@example.com",
			"exp":   time.Now().Add(time.Hour).Unix(),
		}).SignedString([]byte(testSecret))
		require.NoError(t, err)

		w := request(r, "Bearer "+token)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"id":"user-1"`)
		assert.Contains(t, w.Body.String(), `"email":"jo@example.com"`)
	})

	t.Run("a missing header is a 401", func(t *testing.T) {
		w := request(r, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("a non-bearer scheme is a 401", func(t *testing.T) {
		w := request(r, "Basic dXNlcjpwYXNz")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("a garbage token is a 401", func(t *testing.T) {
		w := request(r, "Bearer not.a.jwt")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
