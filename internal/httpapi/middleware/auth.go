package middleware

import (
	"net/http"
	"strings"

	"github.com/bytebuddy/companion/internal/auth"
	"github.com/bytebuddy/companion/internal/common"
	"github.com/gin-gonic/gin"
)

const UserIDKey = "user_id"

// AuthRequired validates the bearer session token on every request. Session
// restore is just presenting the token again; nothing is re-trusted from
// storage.
func AuthRequired(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			common.Fail(c, http.StatusUnauthorized, 40100, "missing bearer token")
			c.Abort()
			return
		}

		uid, err := auth.ParseJWT(token, secret)
		if err != nil {
			common.Fail(c, http.StatusUnauthorized, 40101, "invalid or expired token")
			c.Abort()
			return
		}

		c.Set(UserIDKey, uid)
		c.Next()
	}
}
