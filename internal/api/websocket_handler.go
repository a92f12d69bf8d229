package api

import (
	"net/http"

	"github.com/Rouic/trendguesser-sub002/internal/config"
	"github.com/Rouic/trendguesser-sub002/internal/middleware"
	ws "github.com/Rouic/trendguesser-sub002/internal/websocket"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// WebSocketHandler WebSocket处理器
type WebSocketHandler struct {
	hub      *ws.Hub
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

// NewWebSocketHandler 创建WebSocket处理器
func NewWebSocketHandler(hub *ws.Hub, wsConfig *config.WebSocketConfig, logger *zap.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:    wsConfig.ReadBufferSize,
			WriteBufferSize:   wsConfig.WriteBufferSize,
			EnableCompression: wsConfig.EnableCompression,
			CheckOrigin: func(r *http.Request) bool {
				// 在生产环境中应该检查Origin
				return true
			},
		},
		logger: logger,
	}
}

// GameWebSocket 游戏文档订阅连接
func (h *WebSocketHandler) GameWebSocket(c *gin.Context) {
	gameID := c.Param("id")
	if gameID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "game id is required"})
		return
	}

	// 玩家UID可选，匿名连接也允许订阅
	playerUID, _ := middleware.GetPlayerUID(c)

	// 升级为WebSocket连接
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("WebSocket升级失败",
			zap.String("game_id", gameID),
			zap.Error(err))
		return
	}

	// 创建客户端并注册
	client := ws.NewClient(h.hub, conn, playerUID, gameID)
	h.hub.Register(client)

	// 启动读写协程
	go client.WritePump()
	go client.ReadPump()

	h.logger.Info("WebSocket连接建立",
		zap.String("client_id", client.ID),
		zap.String("game_id", gameID),
		zap.String("player_uid", playerUID))
}

// GetOnlineCount 获取在线人数
func (h *WebSocketHandler) GetOnlineCount(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"online_count":     h.hub.GetOnlineCount(),
		"subscribed_games": h.hub.GetSubscribedGames(),
	})
}
