package api

import (
	"github.com/Rouic/trendguesser-sub002/internal/config"
	"github.com/Rouic/trendguesser-sub002/internal/middleware"
	"github.com/Rouic/trendguesser-sub002/internal/service"
	ws "github.com/Rouic/trendguesser-sub002/internal/websocket"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Router API路由器
type Router struct {
	engine             *gin.Engine
	db                 *gorm.DB
	services           *service.Services
	hub                *ws.Hub
	authHandler        *AuthHandler
	gameHandler        *GameHandler
	leaderboardHandler *LeaderboardHandler
	wsHandler          *WebSocketHandler
	authMiddleware     *middleware.AuthMiddleware
	log                *zap.Logger
}

// NewRouter 创建路由器
func NewRouter(db *gorm.DB, cfg *config.Config, log *zap.Logger) *Router {
	// 创建Gin引擎
	engine := gin.New()

	// 全局中间件
	engine.Use(gin.Recovery())
	engine.Use(gin.Logger())

	// 创建服务
	services := service.NewServices(db, &service.Config{
		JWTSecret:        cfg.JWT.Secret,
		TokenExpiry:      cfg.JWT.TokenExpiry,
		DefaultCategory:  cfg.Game.DefaultCategory,
		LeaderboardLimit: cfg.Game.LeaderboardLimit,
	}, log)

	// 创建WebSocket Hub并接入文档更新通知
	hub := ws.NewHub(log)
	services.Game.SetNotifier(hub)

	// 创建处理器
	authHandler := NewAuthHandler(services.Auth)
	gameHandler := NewGameHandler(services.Game, log)
	leaderboardHandler := NewLeaderboardHandler(services.Game, log)
	wsHandler := NewWebSocketHandler(hub, &cfg.WebSocket, log)

	// 创建中间件
	authMiddleware := middleware.NewAuthMiddleware(services.Auth)

	router := &Router{
		engine:             engine,
		db:                 db,
		services:           services,
		hub:                hub,
		authHandler:        authHandler,
		gameHandler:        gameHandler,
		leaderboardHandler: leaderboardHandler,
		wsHandler:          wsHandler,
		authMiddleware:     authMiddleware,
		log:                log,
	}

	// 设置路由
	router.setupRoutes()

	return router
}

// setupRoutes 设置路由
func (r *Router) setupRoutes() {
	// 健康检查
	r.engine.GET("/health", r.healthCheck)

	// API路由（全部允许匿名访问，带可选认证）
	api := r.engine.Group("/api")
	api.Use(r.authMiddleware.OptionalAuth())
	{
		// 认证
		api.POST("/auth/anonymous", r.authHandler.IssueAnonymousToken)

		// 游戏文档（方法分发在处理器内完成，未支持的方法返回405）
		api.Any("/games/:id", r.gameHandler.HandleGame)

		// 排行榜
		api.Any("/leaderboard", r.leaderboardHandler.HandleLeaderboard)
	}

	// WebSocket路由
	wsGroup := r.engine.Group("/ws")
	wsGroup.Use(r.authMiddleware.OptionalAuth())
	{
		wsGroup.GET("/games/:id", r.wsHandler.GameWebSocket)
		wsGroup.GET("/online", r.wsHandler.GetOnlineCount)
	}

	// 文档路由
	registerOpenAPIRoutes(r.engine)
	registerSwaggerRoutes(r.engine)

	// 静态文件服务
	r.engine.Static("/static", "./static")

	// 404处理
	r.engine.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{
			"code":    "NOT_FOUND",
			"message": "接口不存在",
		})
	})
}

// healthCheck 健康检查
func (r *Router) healthCheck(c *gin.Context) {
	// 检查数据库连接
	sqlDB, err := r.db.DB()
	if err != nil {
		c.JSON(500, gin.H{
			"status":  "unhealthy",
			"message": "数据库连接失败",
		})
		return
	}

	if err := sqlDB.Ping(); err != nil {
		c.JSON(500, gin.H{
			"status":  "unhealthy",
			"message": "数据库ping失败",
		})
		return
	}

	c.JSON(200, gin.H{
		"status":  "healthy",
		"message": "服务运行正常",
	})
}

// Hub 获取WebSocket Hub（用于启动消息循环）
func (r *Router) Hub() *ws.Hub {
	return r.hub
}

// Run 运行服务器
func (r *Router) Run(addr string) error {
	r.log.Info("Starting API server", zap.String("address", addr))
	return r.engine.Run(addr)
}

// GetEngine 获取Gin引擎（用于测试）
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
