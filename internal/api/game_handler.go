package api

import (
	"encoding/json"
	"net/http"

	"github.com/Rouic/trendguesser-sub002/internal/adapter"
	apperrors "github.com/Rouic/trendguesser-sub002/internal/errors"
	"github.com/Rouic/trendguesser-sub002/internal/logger"
	"github.com/Rouic/trendguesser-sub002/internal/models"
	"github.com/Rouic/trendguesser-sub002/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GameHandler 游戏文档处理器
type GameHandler struct {
	gameService service.GameService
	log         *zap.Logger
}

// NewGameHandler 创建游戏文档处理器
func NewGameHandler(gameService service.GameService, log *zap.Logger) *GameHandler {
	return &GameHandler{
		gameService: gameService,
		log:         log,
	}
}

// HandleGame 按HTTP方法分发游戏文档请求
//
// GET 返回完整文档，PATCH/PUT 做浅合并更新，其余方法返回405。
func (h *GameHandler) HandleGame(c *gin.Context) {
	switch c.Request.Method {
	case http.MethodGet:
		h.getGame(c)
	case http.MethodPatch, http.MethodPut:
		h.updateGame(c)
	default:
		c.Header("Allow", "GET, PATCH, PUT")
		c.JSON(http.StatusMethodNotAllowed, gin.H{
			"error": "method not allowed",
		})
	}
}

// getGame 获取游戏文档
func (h *GameHandler) getGame(c *gin.Context) {
	id := c.Param("id")

	env, err := h.gameService.GetGame(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	// 旧版客户端通过format=legacy获取旧结构的状态与玩家记录
	if c.Query("format") == "legacy" {
		doc, err := legacyDocument(env)
		if err != nil {
			h.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, doc)
		return
	}

	c.JSON(http.StatusOK, env)
}

// legacyDocument 将文档中的状态与玩家条目转换为旧版结构
func legacyDocument(env *models.GameEnvelope) (map[string]json.RawMessage, error) {
	data, err := json.Marshal(env)
	if err != nil {
		return nil, err
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	if env.State != nil {
		raw, err := json.Marshal(adapter.ToLegacyState(env.State))
		if err != nil {
			return nil, err
		}
		doc[models.StateKey] = raw
	}
	for key, player := range env.Players {
		raw, err := json.Marshal(adapter.ToLegacyPlayer(player))
		if err != nil {
			return nil, err
		}
		doc[key] = raw
	}
	return doc, nil
}

// updateGame 合并更新游戏文档
func (h *GameHandler) updateGame(c *gin.Context) {
	id := c.Param("id")

	var patch map[string]json.RawMessage
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "invalid request body",
		})
		return
	}

	// 旧版客户端提交的状态先转换为当前结构再合并
	if c.Query("format") == "legacy" {
		if raw, ok := patch[models.StateKey]; ok {
			legacy := &models.LegacyGameState{}
			if err := json.Unmarshal(raw, legacy); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{
					"error": "invalid request body",
				})
				return
			}
			converted, err := json.Marshal(adapter.ToCanonicalState(legacy))
			if err != nil {
				h.respondError(c, err)
				return
			}
			patch[models.StateKey] = converted
		}
	}

	updated, err := h.gameService.UpdateGame(c.Request.Context(), id, patch)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"updatedPlayers": updated,
	})
}

// respondError 按错误码映射HTTP状态；服务端错误仅返回通用消息
func (h *GameHandler) respondError(c *gin.Context, err error) {
	if appErr, ok := err.(*apperrors.AppError); ok {
		status := appErr.HTTPStatus()
		if status >= http.StatusInternalServerError {
			logger.LogStoreOperation(storeOperation(c.Request.Method), c.Param("id"), c.Request.Method, err)
			h.log.Error("游戏接口内部错误",
				zap.String("path", c.Request.URL.Path),
				zap.Int("code", int(appErr.Code)),
				zap.Error(err),
			)
			c.JSON(status, gin.H{"error": "internal server error"})
			return
		}
		c.JSON(status, gin.H{"error": appErr.Message})
		return
	}

	h.log.Error("游戏接口未知错误",
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

// storeOperation 由HTTP方法推导存储操作名
func storeOperation(method string) string {
	if method == http.MethodGet {
		return "get"
	}
	return "update"
}
