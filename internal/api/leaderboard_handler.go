package api

import (
	"net/http"
	"strconv"

	apperrors "github.com/Rouic/trendguesser-sub002/internal/errors"
	"github.com/Rouic/trendguesser-sub002/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// LeaderboardHandler 排行榜处理器
type LeaderboardHandler struct {
	gameService service.GameService
	log         *zap.Logger
}

// NewLeaderboardHandler 创建排行榜处理器
func NewLeaderboardHandler(gameService service.GameService, log *zap.Logger) *LeaderboardHandler {
	return &LeaderboardHandler{
		gameService: gameService,
		log:         log,
	}
}

// HandleLeaderboard 按HTTP方法分发排行榜请求
func (h *LeaderboardHandler) HandleLeaderboard(c *gin.Context) {
	if c.Request.Method != http.MethodGet {
		c.Header("Allow", "GET")
		c.JSON(http.StatusMethodNotAllowed, gin.H{
			"error": "method not allowed",
		})
		return
	}
	h.getLeaderboard(c)
}

// getLeaderboard 获取分类排行榜
func (h *LeaderboardHandler) getLeaderboard(c *gin.Context) {
	category := c.Query("category")
	if category == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "category parameter is required",
		})
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "invalid limit parameter",
			})
			return
		}
		limit = parsed
	}

	entries, err := h.gameService.GetLeaderboard(c.Request.Context(), category, limit)
	if err != nil {
		if appErr, ok := err.(*apperrors.AppError); ok && appErr.HTTPStatus() < http.StatusInternalServerError {
			c.JSON(appErr.HTTPStatus(), gin.H{"error": appErr.Message})
			return
		}
		h.log.Error("排行榜查询失败",
			zap.String("category", category),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, entries)
}
