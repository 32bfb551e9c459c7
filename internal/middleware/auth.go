package middleware

import (
	"net/http"
	"strings"

	"github.com/Cecile-Hirschauer/adaboards-api/internal/pkg"
	redisrepo "github.com/Cecile-Hirschauer/adaboards-api/internal/repository/redis"

	"github.com/gin-gonic/gin"
)

const ContextUserIDKey = "user_id"

// AuthMiddleware 解析 Bearer token 注入 user_id。
// 没带头是 401；带了但无效（格式错/过期/被顶号）是 403。
// sessions 可为 nil，nil 时跳过单会话校验
func AuthMiddleware(sessions *redisrepo.SessionRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "invalid authorization format"})
			return
		}

		tokenStr := parts[1]
		claims, err := pkg.ParseAccess(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "invalid or expired token"})
			return
		}

		if sessions != nil {
			originToken, err := sessions.GetUserToken(claims.UserID)
			if err != nil || originToken != tokenStr {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "invalid or expired token"})
				return
			}
			if err = sessions.ExtendUserToken(claims.UserID); err != nil {
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "session refresh failed"})
				return
			}
		}

		c.Set(ContextUserIDKey, claims.UserID)
		c.Next()
	}
}
