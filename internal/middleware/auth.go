package middleware

import (
	"strings"

	"github.com/yhubail/graphql/internal/service"
	"github.com/yhubail/graphql/internal/util"

	"github.com/gin-gonic/gin"
)

const tokenContextKey = "upstreamToken"

// AuthMiddleware 解析Bearer令牌放入上下文；请求未携带时回退到
// 凭证存储中的当前会话。两者都没有则拒绝。
func AuthMiddleware(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ""
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			token = strings.TrimPrefix(authHeader, "Bearer ")
		}

		if token == "" {
			stored, err := authService.CurrentToken(c.Request.Context())
			if err != nil {
				util.Unauthorized(c)
				c.Abort()
				return
			}
			token = stored
		}

		c.Set(tokenContextKey, token)
		c.Next()
	}
}

// GetTokenFromContext 中间件之后取令牌，缺失返回空串
func GetTokenFromContext(c *gin.Context) string {
	token, exists := c.Get(tokenContextKey)
	if !exists {
		return ""
	}
	s, ok := token.(string)
	if !ok {
		return ""
	}
	return s
}
