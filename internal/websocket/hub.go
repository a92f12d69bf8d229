package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Hub WebSocket连接管理中心
type Hub struct {
	// 客户端连接池
	clients   map[string]*Client
	clientsMu sync.RWMutex

	// 游戏ID到客户端的映射
	gameClients map[string][]*Client
	gameMu      sync.RWMutex

	// 消息广播通道
	broadcast chan *Message

	// 注册/注销通道
	register   chan *Client
	unregister chan *Client

	// 日志
	logger *zap.Logger
}

// Client WebSocket客户端
type Client struct {
	ID        string          // 客户端ID
	PlayerUID string          // 玩家UID（匿名连接为空）
	GameID    string          // 订阅的游戏ID
	Hub       *Hub            // Hub引用
	Conn      *websocket.Conn // WebSocket连接
	Send      chan []byte     // 发送通道
}

// Message WebSocket消息
type Message struct {
	Type      string          `json:"type"`
	GameID    string          `json:"gameId,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp int64           `json:"timestamp"`
}

// MessageType 消息类型
const (
	// 系统消息
	MessageTypeConnected    = "connected"
	MessageTypeDisconnected = "disconnected"
	MessageTypePing         = "ping"
	MessageTypePong         = "pong"
	MessageTypeError        = "error"

	// 游戏消息
	MessageTypeGameUpdate = "game_update"
)

// NewHub 创建Hub
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:     make(map[string]*Client),
		gameClients: make(map[string][]*Client),
		broadcast:   make(chan *Message, 256),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		logger:      logger,
	}
}

// Run 运行Hub
func (h *Hub) Run() {
	// 启动心跳检测
	go h.runHeartbeat()

	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastMessage(message)
		}
	}
}

// registerClient 注册客户端
func (h *Hub) registerClient(client *Client) {
	h.clientsMu.Lock()
	h.clients[client.ID] = client
	h.clientsMu.Unlock()

	// 添加到游戏客户端映射
	if client.GameID != "" {
		h.gameMu.Lock()
		h.gameClients[client.GameID] = append(h.gameClients[client.GameID], client)
		h.gameMu.Unlock()
	}

	h.logger.Info("WebSocket客户端连接",
		zap.String("client_id", client.ID),
		zap.String("game_id", client.GameID))

	// 发送连接成功消息
	msg := &Message{
		Type:      MessageTypeConnected,
		GameID:    client.GameID,
		Timestamp: time.Now().Unix(),
		Data:      json.RawMessage(`{"message":"连接成功"}`),
	}
	h.SendToClient(client.ID, msg)
}

// unregisterClient 注销客户端
func (h *Hub) unregisterClient(client *Client) {
	h.clientsMu.Lock()
	if _, ok := h.clients[client.ID]; ok {
		delete(h.clients, client.ID)
		close(client.Send)
	}
	h.clientsMu.Unlock()

	// 从游戏客户端映射中移除
	if client.GameID != "" {
		h.gameMu.Lock()
		clients := h.gameClients[client.GameID]
		for i, c := range clients {
			if c.ID == client.ID {
				h.gameClients[client.GameID] = append(clients[:i], clients[i+1:]...)
				break
			}
		}
		if len(h.gameClients[client.GameID]) == 0 {
			delete(h.gameClients, client.GameID)
		}
		h.gameMu.Unlock()
	}

	h.logger.Info("WebSocket客户端断开",
		zap.String("client_id", client.ID),
		zap.String("game_id", client.GameID))
}

// broadcastMessage 广播消息
func (h *Hub) broadcastMessage(message *Message) {
	data, err := json.Marshal(message)
	if err != nil {
		h.logger.Error("序列化消息失败", zap.Error(err))
		return
	}

	h.clientsMu.RLock()
	for _, client := range h.clients {
		select {
		case client.Send <- data:
		default:
			// 发送缓冲区满，记录并跳过
			h.logger.Warn("客户端发送缓冲区满",
				zap.String("client_id", client.ID))
		}
	}
	h.clientsMu.RUnlock()
}

// SendToClient 发送消息给指定客户端
func (h *Hub) SendToClient(clientID string, message *Message) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}

	// 发送期间持有读锁，注销关闭通道前必须先拿到写锁
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()

	client, ok := h.clients[clientID]
	if !ok {
		return ErrClientNotFound
	}

	select {
	case client.Send <- data:
		return nil
	default:
		return ErrSendBufferFull
	}
}

// SendToGame 发送消息给订阅指定游戏的所有客户端
func (h *Hub) SendToGame(gameID string, message *Message) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}

	h.gameMu.RLock()
	clients := h.gameClients[gameID]
	h.gameMu.RUnlock()

	if len(clients) == 0 {
		return ErrGameNotSubscribed
	}

	// 发送期间持有读锁；正在注销的客户端已移出连接池，跳过
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()

	for _, client := range clients {
		if _, ok := h.clients[client.ID]; !ok {
			continue
		}
		select {
		case client.Send <- data:
		default:
			h.logger.Warn("游戏客户端发送缓冲区满",
				zap.String("client_id", client.ID),
				zap.String("game_id", gameID))
		}
	}

	return nil
}

// NotifyGameUpdate 向订阅者推送文档更新事件
func (h *Hub) NotifyGameUpdate(gameID string, updatedPlayers []string) {
	payload, err := json.Marshal(map[string]interface{}{
		"updatedPlayers": updatedPlayers,
	})
	if err != nil {
		h.logger.Error("序列化更新事件失败", zap.Error(err))
		return
	}

	msg := &Message{
		Type:      MessageTypeGameUpdate,
		GameID:    gameID,
		Data:      payload,
		Timestamp: time.Now().Unix(),
	}

	if err := h.SendToGame(gameID, msg); err != nil && err != ErrGameNotSubscribed {
		h.logger.Warn("推送更新事件失败",
			zap.String("game_id", gameID),
			zap.Error(err))
	}
}

// GetSubscribedGames 获取有订阅者的游戏列表
func (h *Hub) GetSubscribedGames() []string {
	h.gameMu.RLock()
	defer h.gameMu.RUnlock()

	games := make([]string, 0, len(h.gameClients))
	for gameID := range h.gameClients {
		games = append(games, gameID)
	}
	return games
}

// GetOnlineCount 获取在线人数
func (h *Hub) GetOnlineCount() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients)
}

// runHeartbeat 运行心跳检测
func (h *Hub) runHeartbeat() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		<-ticker.C
		ping := &Message{
			Type:      MessageTypePing,
			Timestamp: time.Now().Unix(),
		}
		h.broadcast <- ping
	}
}

// Broadcast 广播消息（公开方法）
func (h *Hub) Broadcast(message *Message) {
	h.broadcast <- message
}

// Register 注册客户端（公开方法）
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister 注销客户端（公开方法）
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}
