package repository

import (
	"context"
	"errors"

	apperrors "github.com/Rouic/trendguesser-sub002/internal/errors"
	"github.com/Rouic/trendguesser-sub002/internal/models"
	"gorm.io/gorm"
)

// LeaderboardRepository 排行榜仓储接口
type LeaderboardRepository interface {
	BaseRepository
	UpsertHighScore(ctx context.Context, uid, name, category string, score int) error
	FindByCategory(ctx context.Context, category string, pagination *Pagination) ([]*models.LeaderboardEntry, error)
	FindPlayerBest(ctx context.Context, uid, category string) (*models.LeaderboardEntry, error)
}

// leaderboardRepo 排行榜仓储实现
type leaderboardRepo struct {
	*BaseRepo
}

// NewLeaderboardRepository 创建排行榜仓储
func NewLeaderboardRepository(db *gorm.DB) LeaderboardRepository {
	return &leaderboardRepo{
		BaseRepo: &BaseRepo{db: db},
	}
}

// UpsertHighScore 写入玩家分类最高分，仅在新分数更高时更新
func (r *leaderboardRepo) UpsertHighScore(ctx context.Context, uid, name, category string, score int) error {
	return r.Transaction(ctx, func(tx *gorm.DB) error {
		var entry models.LeaderboardEntry
		err := tx.Where("player_uid = ? AND category = ?", uid, category).First(&entry).Error

		if errors.Is(err, gorm.ErrRecordNotFound) {
			entry = models.LeaderboardEntry{
				PlayerUID: uid,
				Name:      name,
				Category:  category,
				Score:     score,
			}
			if err := tx.Create(&entry).Error; err != nil {
				return apperrors.Wrap(err, apperrors.ErrDatabaseInsert)
			}
			return nil
		}
		if err != nil {
			return apperrors.Wrap(err, apperrors.ErrDatabaseQuery)
		}

		// 低于历史最高分时不回写
		if score <= entry.Score {
			return nil
		}

		updates := map[string]interface{}{"score": score}
		if name != "" {
			updates["name"] = name
		}
		if err := tx.Model(&entry).Updates(updates).Error; err != nil {
			return apperrors.Wrap(err, apperrors.ErrDatabaseUpdate)
		}
		return nil
	})
}

// FindByCategory 获取分类排行榜（按分数降序，分页）
func (r *leaderboardRepo) FindByCategory(ctx context.Context, category string, pagination *Pagination) ([]*models.LeaderboardEntry, error) {
	query := r.db.WithContext(ctx).Model(&models.LeaderboardEntry{}).Where("category = ?", category)

	var total int64
	query.Count(&total)
	pagination.Total = total

	var entries []*models.LeaderboardEntry
	err := query.
		Scopes(Paginate(pagination)).
		Order("score DESC").
		Find(&entries).Error
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrDatabaseQuery)
	}
	return entries, nil
}

// FindPlayerBest 获取玩家在指定分类的最高分
func (r *leaderboardRepo) FindPlayerBest(ctx context.Context, uid, category string) (*models.LeaderboardEntry, error) {
	var entry models.LeaderboardEntry
	err := r.db.WithContext(ctx).
		Where("player_uid = ? AND category = ?", uid, category).
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Newf(apperrors.ErrNotFound, "玩家: %s 分类: %s", uid, category)
		}
		return nil, apperrors.Wrap(err, apperrors.ErrDatabaseQuery)
	}
	return &entry, nil
}

// WithTx 使用事务
func (r *leaderboardRepo) WithTx(tx *gorm.DB) BaseRepository {
	return &leaderboardRepo{
		BaseRepo: &BaseRepo{db: tx},
	}
}
