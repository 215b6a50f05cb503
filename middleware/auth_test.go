package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"conduit-api/helper"
	"conduit-api/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func authRouter(mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/", mw, func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			c.String(http.StatusOK, "anonymous")
			return
		}
		c.String(http.StatusOK, user.Username)
	})
	return router
}

func get(router *gin.Engine, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func token(t *testing.T) string {
	t.Helper()
	tok, err := helper.GenerateToken(&models.User{ID: 1, Username: "alice", Email: "alice@example.com"}, testSecret, time.Hour)
	require.NoError(t, err)
	return tok
}

func TestAuthMiddleware(t *testing.T) {
	router := authRouter(AuthMiddleware(testSecret, helper.NewHTTPHelper(nil)))

	t.Run("missing header", func(t *testing.T) {
		w := get(router, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "MissingJWTToken")
	})
	t.Run("bearer scheme", func(t *testing.T) {
		w := get(router, "Bearer "+token(t))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "alice", w.Body.String())
	})
	t.Run("token scheme", func(t *testing.T) {
		w := get(router, "Token "+token(t))
		assert.Equal(t, http.StatusOK, w.Code)
	})
	t.Run("unknown scheme", func(t *testing.T) {
		w := get(router, "Basic abc")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
	t.Run("invalid token", func(t *testing.T) {
		w := get(router, "Bearer nope")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "IncorrectJWTToken")
	})
}

func TestOptionalAuth(t *testing.T) {
	router := authRouter(OptionalAuth(testSecret, helper.NewHTTPHelper(nil)))

	w := get(router, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "anonymous", w.Body.String())

	w = get(router, "Bearer "+token(t))
	assert.Equal(t, "alice", w.Body.String())

	w = get(router, "Bearer nope")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
