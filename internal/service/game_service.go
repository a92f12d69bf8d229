package service

import (
	"context"
	"encoding/json"

	apperrors "github.com/Rouic/trendguesser-sub002/internal/errors"
	"github.com/Rouic/trendguesser-sub002/internal/logger"
	"github.com/Rouic/trendguesser-sub002/internal/models"
	"github.com/Rouic/trendguesser-sub002/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// gameService 游戏文档服务实现
type gameService struct {
	gameRepo        repository.GameRepository
	leaderboardRepo repository.LeaderboardRepository
	config          *Config
	log             *zap.Logger
	notifier        UpdateNotifier
}

// NewGameService 创建游戏文档服务
func NewGameService(
	gameRepo repository.GameRepository,
	leaderboardRepo repository.LeaderboardRepository,
	config *Config,
	log *zap.Logger,
) GameService {
	return &gameService{
		gameRepo:        gameRepo,
		leaderboardRepo: leaderboardRepo,
		config:          config,
		log:             log,
	}
}

// SetNotifier 设置更新通知器
func (s *gameService) SetNotifier(notifier UpdateNotifier) {
	s.notifier = notifier
}

// GetGame 获取游戏文档
func (s *gameService) GetGame(ctx context.Context, id string) (*models.GameEnvelope, error) {
	if id == "" {
		return nil, apperrors.New(apperrors.ErrInvalidGameID)
	}
	return s.gameRepo.FindByID(ctx, id)
}

// CreateGame 创建游戏文档
func (s *gameService) CreateGame(ctx context.Context, id, createdBy string) (*models.GameEnvelope, error) {
	if id == "" {
		return nil, apperrors.New(apperrors.ErrInvalidGameID)
	}

	exists, err := s.gameRepo.ExistsByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.Newf(apperrors.ErrAlreadyExists, "游戏ID: %s", id)
	}

	env := models.NewGameEnvelope(id, createdBy)
	if err := s.gameRepo.Create(ctx, env); err != nil {
		return nil, err
	}

	s.log.Info("游戏文档已创建",
		zap.String("game_id", id),
		zap.String("created_by", createdBy),
	)
	return env, nil
}

// UpdateGame 合并更新游戏文档，返回本次更新涉及的玩家键
//
// 读取与回写在同一事务内完成并对文档行加锁，并发提交按文档串行合并：
// 触及不同键的两次提交互不覆盖，触及同一键时以后提交的为准。
func (s *gameService) UpdateGame(ctx context.Context, id string, patch map[string]json.RawMessage) ([]string, error) {
	if id == "" {
		return nil, apperrors.New(apperrors.ErrInvalidGameID)
	}
	if len(patch) == 0 {
		return nil, apperrors.New(apperrors.ErrEmptyUpdate)
	}

	var env *models.GameEnvelope
	var updated []string
	err := s.gameRepo.Transaction(ctx, func(tx *gorm.DB) error {
		txRepo := s.gameRepo.WithTx(tx).(repository.GameRepository)

		var err error
		env, err = txRepo.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}

		updated, err = env.ApplyUpdate(patch)
		if err != nil {
			return apperrors.Wrap(err, apperrors.ErrInvalidDocument)
		}

		return txRepo.Update(ctx, env)
	})
	if err != nil {
		return nil, err
	}

	// 刷新触及玩家的排行榜最高分，失败仅记录日志，不影响本次更新
	s.recordHighScores(ctx, env, updated)

	logger.LogGameEvent("document_updated", id, map[string]interface{}{
		"updated_players": updated,
	})

	if s.notifier != nil {
		s.notifier.NotifyGameUpdate(id, updated)
	}

	return updated, nil
}

// recordHighScores 将本次触及玩家的得分同步到排行榜
func (s *gameService) recordHighScores(ctx context.Context, env *models.GameEnvelope, updated []string) {
	category := s.config.DefaultCategory
	if env.State != nil && env.State.Category != "" {
		category = string(env.State.Category)
	}

	for _, key := range updated {
		player, ok := env.Players[key]
		if !ok || player.Score <= 0 {
			continue
		}
		uid := player.UID
		if uid == "" {
			uid = key
		}
		if err := s.leaderboardRepo.UpsertHighScore(ctx, uid, player.Name, category, player.Score); err != nil {
			s.log.Warn("排行榜写入失败",
				zap.String("game_id", env.ID),
				zap.String("player_uid", uid),
				zap.String("category", category),
				zap.Error(err),
			)
		}
	}
}

// GetLeaderboard 获取分类排行榜
func (s *gameService) GetLeaderboard(ctx context.Context, category string, limit int) ([]*models.LeaderboardEntry, error) {
	if category == "" {
		return nil, apperrors.New(apperrors.ErrInvalidCategory)
	}
	if limit <= 0 {
		limit = s.config.LeaderboardLimit
	}

	pagination := repository.NewPagination(1, limit)
	return s.leaderboardRepo.FindByCategory(ctx, category, pagination)
}
