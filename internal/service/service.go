package service

import (
	"time"

	"github.com/Rouic/trendguesser-sub002/internal/repository"
	"github.com/Rouic/trendguesser-sub002/internal/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Config 服务配置
type Config struct {
	JWTSecret        string
	TokenExpiry      time.Duration
	DefaultCategory  string
	LeaderboardLimit int
}

// DefaultConfig 默认配置
func DefaultConfig() *Config {
	return &Config{
		JWTSecret:        "trendguesser-dev-secret",
		TokenExpiry:      30 * 24 * time.Hour,
		DefaultCategory:  "everything",
		LeaderboardLimit: 100,
	}
}

// Services 服务集合
type Services struct {
	Auth AuthService
	Game GameService
}

// NewServices 创建服务集合
func NewServices(db *gorm.DB, config *Config, log *zap.Logger) *Services {
	// 初始化仓储
	gameRepo := repository.NewGameRepository(db)
	leaderboardRepo := repository.NewLeaderboardRepository(db)

	// 初始化JWT管理器
	jwtManager := utils.NewJWTManager(config.JWTSecret, config.TokenExpiry)

	// 初始化服务
	authService := NewAuthService(jwtManager, log)
	gameService := NewGameService(gameRepo, leaderboardRepo, config, log)

	return &Services{
		Auth: authService,
		Game: gameService,
	}
}
