package middleware

import (
	"strings"

	"conduit-api/helper"
	"conduit-api/models"

	"github.com/gin-gonic/gin"
)

const currentUserKey = "current_user"

// AuthMiddleware rejects requests without a valid access token.
func AuthMiddleware(secret []byte, h *helper.HTTPHelper) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			h.SendUnauthorizedError(c, models.ErrMissingJWTToken)
			c.Abort()
			return
		}

		user, err := helper.ParseToken(tokenString, secret)
		if err != nil {
			h.SendUnauthorizedError(c, err)
			c.Abort()
			return
		}

		SetCurrentUser(c, user)
		c.Next()
	}
}

// OptionalAuth identifies the caller when a token is sent and lets anonymous
// requests through. A malformed or expired token is still rejected.
func OptionalAuth(secret []byte, h *helper.HTTPHelper) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			c.Next()
			return
		}

		user, err := helper.ParseToken(tokenString, secret)
		if err != nil {
			h.SendUnauthorizedError(c, err)
			c.Abort()
			return
		}

		SetCurrentUser(c, user)
		c.Next()
	}
}

func SetCurrentUser(c *gin.Context, user *models.UserDTO) {
	c.Set(currentUserKey, user)
}

// CurrentUser returns the authenticated caller, or nil for anonymous requests.
func CurrentUser(c *gin.Context) *models.UserDTO {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.UserDTO)
	return user
}

// bearerToken accepts both "Bearer <jwt>" and "Token <jwt>".
func bearerToken(c *gin.Context) (string, bool) {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header == "" {
		return "", false
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found {
		return "", false
	}
	if !strings.EqualFold(scheme, "Bearer") && !strings.EqualFold(scheme, "Token") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
