package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// OperatorKey is the gin context key carrying the authenticated operator
// name for downstream handlers.
const OperatorKey = "operator"

// TokenParser verifies a bearer token and returns the operator name.
type TokenParser interface {
	ParseOperator(token string) (string, error)
}

// Auth rejects requests without a valid Bearer token. The webhook endpoint
// is the only surface mounted without it.
func Auth(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": http.StatusUnauthorized, "msg": "authorization required"})
			return
		}

		operator, err := parser.ParseOperator(authHeader[7:])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": http.StatusUnauthorized, "msg": "invalid token"})
			return
		}

		c.Set(OperatorKey, operator)
		c.Next()
	}
}
