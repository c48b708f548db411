package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"employee-crud-starter/internal/core/auth"
	resp "employee-crud-starter/internal/transport/http/response"
)

const KeyClaims = "claims"

// AuthWrites 对写请求（非 GET/HEAD/OPTIONS）要求 Bearer token；j 未启用时直接放行
func AuthWrites(j *auth.JWTer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !j.Enabled() {
			c.Next()
			return
		}
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}
		ah := c.GetHeader("Authorization")
		if !strings.HasPrefix(ah, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, resp.Error(resp.CodeUnauthorized, "missing token"))
			return
		}
		claims, err := j.Parse(strings.TrimPrefix(ah, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, resp.Error(resp.CodeUnauthorized, "invalid token"))
			return
		}
		c.Set(KeyClaims, claims)
		c.Next()
	}
}
