package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Rouic/trendguesser-sub002/internal/models"
	"github.com/Rouic/trendguesser-sub002/internal/utils"
)

// AuthResponse 认证响应
type AuthResponse struct {
	Token     string    `json:"token"`
	UID       string    `json:"uid"`
	Name      string    `json:"name"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// AuthService 认证服务接口
type AuthService interface {
	// IssueAnonymousToken 为匿名玩家签发令牌
	IssueAnonymousToken(ctx context.Context, name string) (*AuthResponse, error)
	// ValidateToken 验证令牌
	ValidateToken(ctx context.Context, token string) (*utils.JWTClaims, error)
}

// GameService 游戏文档服务接口
type GameService interface {
	// GetGame 获取游戏文档
	GetGame(ctx context.Context, id string) (*models.GameEnvelope, error)
	// CreateGame 创建游戏文档
	CreateGame(ctx context.Context, id, createdBy string) (*models.GameEnvelope, error)
	// UpdateGame 合并更新游戏文档，返回本次更新涉及的玩家键
	UpdateGame(ctx context.Context, id string, patch map[string]json.RawMessage) ([]string, error)
	// GetLeaderboard 获取分类排行榜
	GetLeaderboard(ctx context.Context, category string, limit int) ([]*models.LeaderboardEntry, error)
	// SetNotifier 设置更新通知器
	SetNotifier(notifier UpdateNotifier)
}

// UpdateNotifier 文档更新通知接口（由WebSocket层实现）
type UpdateNotifier interface {
	NotifyGameUpdate(gameID string, updatedPlayers []string)
}
