package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/util"
)

const (
	tenantKey  = "tenantID"
	subjectKey = "subject"
)

// Auth verifies the JWT and stores its tenant and subject in the context.
// The token is read from the Authorization header, then ?token= (for
// downloads), then the bgt_token cookie.
func Auth(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenStr string

		if authHeader := c.GetHeader("Authorization"); authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
				tokenStr = strings.TrimSpace(parts[1])
			}
		}
		if tokenStr == "" {
			tokenStr = c.Query("token")
		}
		if tokenStr == "" {
			if cookie, err := c.Cookie("bgt_token"); err == nil {
				tokenStr = cookie
			}
		}

		if tokenStr == "" {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "missing token")
			c.Abort()
			return
		}

		claims, err := util.ParseToken(jwtSecret, tokenStr)
		if err != nil {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "invalid or expired token")
			c.Abort()
			return
		}

		c.Set(tenantKey, claims.TenantID)
		c.Set(subjectKey, claims.Subject)
		c.Next()
	}
}

// TenantID returns the tenant set by Auth, or "".
func TenantID(c *gin.Context) string {
	return c.GetString(tenantKey)
}

// Subject returns the token subject set by Auth, or "".
func Subject(c *gin.Context) string {
	return c.GetString(subjectKey)
}
