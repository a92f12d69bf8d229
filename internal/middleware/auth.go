package middleware

import (
	"strings"

	"github.com/Rouic/trendguesser-sub002/internal/service"
	"github.com/gin-gonic/gin"
)

// AuthMiddleware JWT认证中间件
type AuthMiddleware struct {
	authService service.AuthService
}

// NewAuthMiddleware 创建认证中间件
func NewAuthMiddleware(authService service.AuthService) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
	}
}

// OptionalAuth 可选认证的中间件（不强制要求登录，游戏接口允许匿名访问）
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := m.extractToken(c)
		if token != "" {
			// 尝试验证令牌
			claims, err := m.authService.ValidateToken(c.Request.Context(), token)
			if err == nil {
				// 令牌有效，设置玩家信息
				c.Set("playerUID", claims.UID)
				c.Set("playerName", claims.Name)
				c.Set("token", token)
			}
		}

		c.Next()
	}
}

// extractToken 从请求中提取令牌
func (m *AuthMiddleware) extractToken(c *gin.Context) string {
	// 1. 从Authorization Header获取 (Bearer Token)
	bearerToken := c.GetHeader("Authorization")
	if bearerToken != "" {
		parts := strings.Split(bearerToken, " ")
		if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
			return parts[1]
		}
	}

	// 2. 从X-Access-Token Header获取
	if token := c.GetHeader("X-Access-Token"); token != "" {
		return token
	}

	// 3. 从Cookie获取
	if token, err := c.Cookie("access_token"); err == nil && token != "" {
		return token
	}

	// 4. 从Query参数获取（不推荐用于生产环境）
	if token := c.Query("token"); token != "" {
		return token
	}

	return ""
}

// GetPlayerUID 从上下文获取玩家UID
func GetPlayerUID(c *gin.Context) (string, bool) {
	if uid, exists := c.Get("playerUID"); exists {
		if id, ok := uid.(string); ok {
			return id, true
		}
	}
	return "", false
}

// GetPlayerName 从上下文获取玩家名称
func GetPlayerName(c *gin.Context) (string, bool) {
	if name, exists := c.Get("playerName"); exists {
		if n, ok := name.(string); ok {
			return n, true
		}
	}
	return "", false
}

// IsAuthenticated 检查是否已认证
func IsAuthenticated(c *gin.Context) bool {
	_, exists := c.Get("playerUID")
	return exists
}
