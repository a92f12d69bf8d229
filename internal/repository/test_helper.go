package repository

import (
	"encoding/json"
	"time"

	"github.com/Rouic/trendguesser-sub002/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB 为测试套件设置测试数据库
func SetupTestDB() *gorm.DB {
	// 使用内存数据库进行测试（更快，不需要文件系统，在所有环境中都能工作）
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		panic(err)
	}

	// 自动迁移所有模型
	err = db.AutoMigrate(
		&models.GameRecord{},
		&models.LeaderboardEntry{},
	)
	if err != nil {
		panic(err)
	}

	return db
}

// CleanupTestDB 清理测试数据库
func CleanupTestDB(db *gorm.DB) {
	sqlDB, _ := db.DB()
	if sqlDB != nil {
		sqlDB.Close()
	}
}

// CreateTestEnvelope 创建测试游戏文档
func CreateTestEnvelope(id, createdBy string) *models.GameEnvelope {
	env := models.NewGameEnvelope(id, createdBy)
	env.Status = models.GameStatusActive
	env.Players[createdBy] = &models.TrendGuesserPlayer{
		UID:   createdBy,
		Name:  "测试玩家",
		Score: 0,
	}
	env.State = &models.TrendGuesserState{
		GameID:   id,
		Score:    0,
		Round:    1,
		Category: models.CategoryEverything,
		KnownTerm: &models.SearchTerm{
			ID:        "term_known",
			Term:      "known term",
			Volume:    1000,
			Category:  models.CategoryEverything,
			ImageURL:  "https://example.com/known.jpg",
			Timestamp: time.Now(),
		},
	}
	return env
}

// RawPatch 构造更新载荷（测试辅助）
func RawPatch(pairs map[string]string) map[string]json.RawMessage {
	patch := make(map[string]json.RawMessage, len(pairs))
	for key, value := range pairs {
		patch[key] = json.RawMessage(value)
	}
	return patch
}
