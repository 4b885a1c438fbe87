package auth

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/jobly/internal/apperr"
	"github.com/justsurfingit/jobly/internal/logging"
)

// userKey is where AuthenticateJWT stores the verified claims.
const userKey = "user"

// CurrentUser returns the claims of the logged-in user, if any.
func CurrentUser(c *gin.Context) (*Claims, bool) {
	v, ok := c.Get(userKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*Claims)
	return claims, ok && claims != nil
}

// SetUser stores claims on the context as AuthenticateJWT would.
func SetUser(c *gin.Context, claims *Claims) {
	c.Set(userKey, claims)
}

// AuthenticateJWT stores the claims of a valid bearer token on the context.
// A missing or bad token is not an error here; the Ensure* guards decide.
func AuthenticateJWT(tm *TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		claims, err := tm.Parse(token)
		if err != nil {
			logging.Ctx(c.Request.Context()).Debug().Err(err).Msg("ignoring invalid token")
			c.Next()
			return
		}

		SetUser(c, claims)
		c.Next()
	}
}

// EnsureLoggedIn requires a user with a username.
func EnsureLoggedIn() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok || user.Username == "" {
			deny(c)
			return
		}
		c.Next()
	}
}

// EnsureAdmin requires an admin user.
func EnsureAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok || !user.IsAdmin {
			deny(c)
			return
		}
		c.Next()
	}
}

// EnsureSameUserOrAdmin requires an admin, or the user named by the
// :username route parameter.
func EnsureSameUserOrAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			deny(c)
			return
		}
		if user.IsAdmin || (user.Username != "" && user.Username == c.Param("username")) {
			c.Next()
			return
		}
		deny(c)
	}
}

func deny(c *gin.Context) {
	_ = c.Error(apperr.Unauthorized())
	c.Abort()
}
