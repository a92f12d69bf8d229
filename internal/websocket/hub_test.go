package websocket

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newTestClient(hub *Hub, gameID string) *Client {
	return &Client{
		ID:     "client-" + gameID,
		GameID: gameID,
		Hub:    hub,
		Send:   make(chan []byte, 16),
	}
}

// TestHub_RegisterAndSendToGame 测试注册与按游戏推送
func TestHub_RegisterAndSendToGame(t *testing.T) {
	hub := NewHub(zap.NewNop())

	client := newTestClient(hub, "game123")
	hub.registerClient(client)

	assert.Equal(t, 1, hub.GetOnlineCount())
	assert.Contains(t, hub.GetSubscribedGames(), "game123")

	// 注册时会收到connected消息
	var connected Message
	assert.NoError(t, json.Unmarshal(<-client.Send, &connected))
	assert.Equal(t, MessageTypeConnected, connected.Type)

	err := hub.SendToGame("game123", &Message{Type: MessageTypeGameUpdate, GameID: "game123"})
	assert.NoError(t, err)

	var msg Message
	assert.NoError(t, json.Unmarshal(<-client.Send, &msg))
	assert.Equal(t, MessageTypeGameUpdate, msg.Type)
	assert.Equal(t, "game123", msg.GameID)
}

// TestHub_SendToGame_NoSubscribers 测试无订阅者推送
func TestHub_SendToGame_NoSubscribers(t *testing.T) {
	hub := NewHub(zap.NewNop())

	err := hub.SendToGame("empty", &Message{Type: MessageTypeGameUpdate})
	assert.ErrorIs(t, err, ErrGameNotSubscribed)
}

// TestHub_NotifyGameUpdate 测试更新事件负载
func TestHub_NotifyGameUpdate(t *testing.T) {
	hub := NewHub(zap.NewNop())

	client := newTestClient(hub, "game123")
	hub.registerClient(client)
	<-client.Send // 丢弃connected消息

	hub.NotifyGameUpdate("game123", []string{"player1", "player2"})

	var msg Message
	assert.NoError(t, json.Unmarshal(<-client.Send, &msg))
	assert.Equal(t, MessageTypeGameUpdate, msg.Type)

	var payload struct {
		UpdatedPlayers []string `json:"updatedPlayers"`
	}
	assert.NoError(t, json.Unmarshal(msg.Data, &payload))
	assert.Equal(t, []string{"player1", "player2"}, payload.UpdatedPlayers)
}

// TestHub_SendToGame_SkipsClosingClient 测试推送跳过正在注销的客户端
func TestHub_SendToGame_SkipsClosingClient(t *testing.T) {
	hub := NewHub(zap.NewNop())

	closing := newTestClient(hub, "game123")
	closing.ID = "closing"
	active := newTestClient(hub, "game123")
	hub.registerClient(closing)
	hub.registerClient(active)
	<-closing.Send
	<-active.Send

	// 注销进行到一半：已移出连接池并关闭通道，游戏映射尚未清理
	hub.clientsMu.Lock()
	delete(hub.clients, closing.ID)
	close(closing.Send)
	hub.clientsMu.Unlock()

	assert.NotPanics(t, func() {
		err := hub.SendToGame("game123", &Message{Type: MessageTypeGameUpdate, GameID: "game123"})
		assert.NoError(t, err)
	})

	// 在线客户端仍正常收到消息
	var msg Message
	assert.NoError(t, json.Unmarshal(<-active.Send, &msg))
	assert.Equal(t, MessageTypeGameUpdate, msg.Type)
}

// TestHub_Unregister 测试注销后不再推送
func TestHub_Unregister(t *testing.T) {
	hub := NewHub(zap.NewNop())

	client := newTestClient(hub, "game123")
	hub.registerClient(client)
	hub.unregisterClient(client)

	assert.Equal(t, 0, hub.GetOnlineCount())
	assert.Empty(t, hub.GetSubscribedGames())

	err := hub.SendToGame("game123", &Message{Type: MessageTypeGameUpdate})
	assert.ErrorIs(t, err, ErrGameNotSubscribed)
}
