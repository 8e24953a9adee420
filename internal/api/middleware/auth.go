package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/social-graph/pkg/response"
	"github.com/d60-Lab/social-graph/pkg/token"
)

// ViewerKey 已认证用户名在 gin context 里的键
const ViewerKey = "viewer"

// Auth 解析 Authorization: Bearer <jwt>，把 viewer 用户名放进 context。
// 核心服务只收用户名，不感知 token。
func Auth(tm *token.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			response.Unauthorized(c, "missing token")
			c.Abort()
			return
		}
		username, err := tm.Parse(raw)
		if err != nil {
			response.Unauthorized(c, "invalid token")
			c.Abort()
			return
		}
		c.Set(ViewerKey, username)
		c.Next()
	}
}

// Viewer 取出已认证用户名
func Viewer(c *gin.Context) string {
	return c.GetString(ViewerKey)
}
