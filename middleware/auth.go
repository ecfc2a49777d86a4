package middleware

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"vibemap-backend/models"
	"vibemap-backend/store"
)

const userKey = "user"

// UserFinder resolves a bearer token to a user.
type UserFinder interface {
	FindUserByToken(ctx context.Context, token string) (*models.User, error)
}

// Auth requires "Authorization: Bearer <token>" where the token is the
// user's telegram id or email. It is a lookup, not a verification.
func Auth(users UserFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		token = strings.TrimSpace(token)
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing bearer token"})
			return
		}

		user, err := users.FindUserByToken(c, token)
		if errors.Is(err, store.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unknown user"})
			return
		}
		if err != nil {
			log.Printf("Error resolving bearer token: %v", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		c.Set(userKey, user)
		c.Next()
	}
}

// CurrentUser returns the user stored by Auth.
func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(userKey); ok {
		if u, ok := v.(*models.User); ok {
			return u
		}
	}
	return nil
}

// SetUser stores u as the authenticated user. Used by tests that skip Auth.
func SetUser(c *gin.Context, u *models.User) {
	c.Set(userKey, u)
}
