package api

import (
	"net/http"

	"github.com/Rouic/trendguesser-sub002/internal/service"
	"github.com/gin-gonic/gin"
)

// AuthHandler 认证处理器
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// anonymousRequest 匿名令牌请求
type anonymousRequest struct {
	Name string `json:"name"`
}

// IssueAnonymousToken 为匿名玩家签发令牌
func (h *AuthHandler) IssueAnonymousToken(c *gin.Context) {
	var req anonymousRequest
	// 请求体可为空，名称可选
	_ = c.ShouldBindJSON(&req)

	resp, err := h.authService.IssueAnonymousToken(c.Request.Context(), req.Name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, resp)
}
