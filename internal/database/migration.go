package database

import (
	"fmt"

	"github.com/Rouic/trendguesser-sub002/internal/logger"
	"github.com/Rouic/trendguesser-sub002/internal/models"
	"go.uber.org/zap"
)

// AutoMigrate 自动迁移数据库表结构
func AutoMigrate() error {
	if DB == nil {
		return fmt.Errorf("数据库未初始化")
	}

	// 清理过期锁文件
	CleanupStaleLocks()

	// 获取迁移锁，避免多个进程同时迁移
	dbPath := getDBPath()
	if dbPath != "" {
		lockFile, err := acquireMigrationLock(dbPath)
		if err != nil {
			logger.Error("无法获取迁移锁", zap.Error(err))
			return fmt.Errorf("获取迁移锁失败: %w", err)
		}
		defer releaseMigrationLock(lockFile)
	}

	migrationModels := []interface{}{
		// 游戏文档
		&models.GameRecord{},

		// 排行榜
		&models.LeaderboardEntry{},
	}

	logger.Info("开始数据库迁移...")

	if DB.Dialector.Name() == "sqlite" {
		// 避免重建表时的外键问题
		DB.Exec("PRAGMA foreign_keys = OFF")
		defer DB.Exec("PRAGMA foreign_keys = ON")
	}

	for _, model := range migrationModels {
		if err := DB.AutoMigrate(model); err != nil {
			logger.Error("迁移失败",
				zap.String("model", fmt.Sprintf("%T", model)),
				zap.Error(err),
			)
			return err
		}
		logger.Debug("迁移成功", zap.String("model", fmt.Sprintf("%T", model)))
	}

	// 创建索引
	if err := createIndexes(); err != nil {
		return err
	}

	logger.Info("数据库迁移完成")
	return nil
}

// createIndexes 创建数据库索引
func createIndexes() error {
	// 游戏文档索引
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_game_documents_status ON game_documents(status)").Error; err != nil {
		logger.Warn("创建索引失败", zap.String("index", "idx_game_documents_status"), zap.Error(err))
	}

	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_game_documents_created_by ON game_documents(created_by)").Error; err != nil {
		logger.Warn("创建索引失败", zap.String("index", "idx_game_documents_created_by"), zap.Error(err))
	}

	// 排行榜索引
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_leaderboard_category_score ON leaderboard_entries(category, score DESC)").Error; err != nil {
		logger.Warn("创建索引失败", zap.String("index", "idx_leaderboard_category_score"), zap.Error(err))
	}

	logger.Info("数据库索引创建完成")
	return nil
}

// DropAllTables 删除所有表（仅用于测试环境）
func DropAllTables() error {
	if DB == nil {
		return fmt.Errorf("数据库未初始化")
	}

	var tables []string
	if err := DB.Raw("SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%'").Scan(&tables).Error; err != nil {
		return err
	}

	for _, table := range tables {
		if err := DB.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s", table)).Error; err != nil {
			logger.Error("删除表失败", zap.String("table", table), zap.Error(err))
			return err
		}
	}

	logger.Info("所有表已删除")
	return nil
}
