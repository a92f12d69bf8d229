package repository

import (
	"context"
	"errors"

	apperrors "github.com/Rouic/trendguesser-sub002/internal/errors"
	"github.com/Rouic/trendguesser-sub002/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GameRepository 游戏文档仓储接口
type GameRepository interface {
	BaseRepository
	Create(ctx context.Context, env *models.GameEnvelope) error
	FindByID(ctx context.Context, id string) (*models.GameEnvelope, error)
	FindByIDForUpdate(ctx context.Context, id string) (*models.GameEnvelope, error)
	Update(ctx context.Context, env *models.GameEnvelope) error
	Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error
	Delete(ctx context.Context, id string) error
	FindByStatus(ctx context.Context, status models.GameStatus, pagination *Pagination) ([]*models.GameEnvelope, error)
	ExistsByID(ctx context.Context, id string) (bool, error)
}

// gameRepo 游戏文档仓储实现
type gameRepo struct {
	*BaseRepo
}

// NewGameRepository 创建游戏文档仓储
func NewGameRepository(db *gorm.DB) GameRepository {
	return &gameRepo{
		BaseRepo: &BaseRepo{db: db},
	}
}

// Create 创建游戏文档
func (r *gameRepo) Create(ctx context.Context, env *models.GameEnvelope) error {
	record, err := env.ToRecord()
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrInvalidDocument)
	}
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return apperrors.Wrap(err, apperrors.ErrDatabaseInsert)
	}
	return nil
}

// FindByID 根据ID查找游戏文档
func (r *gameRepo) FindByID(ctx context.Context, id string) (*models.GameEnvelope, error) {
	var record models.GameRecord
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Newf(apperrors.ErrGameNotFound, "游戏ID: %s", id)
		}
		return nil, apperrors.Wrap(err, apperrors.ErrDatabaseQuery)
	}

	env, err := record.ToEnvelope()
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInvalidDocument)
	}
	return env, nil
}

// FindByIDForUpdate 在事务内加行锁读取游戏文档
// sqlite写事务本身串行，不支持FOR UPDATE语法，跳过加锁子句
func (r *gameRepo) FindByIDForUpdate(ctx context.Context, id string) (*models.GameEnvelope, error) {
	query := r.db.WithContext(ctx)
	if r.db.Dialector.Name() != "sqlite" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var record models.GameRecord
	err := query.Where("id = ?", id).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Newf(apperrors.ErrGameNotFound, "游戏ID: %s", id)
		}
		return nil, apperrors.Wrap(err, apperrors.ErrDatabaseQuery)
	}

	env, err := record.ToEnvelope()
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInvalidDocument)
	}
	return env, nil
}

// Update 更新游戏文档（不触碰创建时间）
func (r *gameRepo) Update(ctx context.Context, env *models.GameEnvelope) error {
	record, err := env.ToRecord()
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrInvalidDocument)
	}

	updates := map[string]interface{}{
		"created_by": record.CreatedBy,
		"game_type":  record.GameType,
		"status":     record.Status,
		"players":    record.Players,
		"state":      record.State,
		"extra":      record.Extra,
	}

	err = r.db.WithContext(ctx).
		Model(&models.GameRecord{}).
		Where("id = ?", env.ID).
		Updates(updates).Error
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrDatabaseUpdate)
	}
	return nil
}

// Delete 删除游戏文档
func (r *gameRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.GameRecord{}).Error
}

// FindByStatus 根据状态查找游戏文档（分页）
func (r *gameRepo) FindByStatus(ctx context.Context, status models.GameStatus, pagination *Pagination) ([]*models.GameEnvelope, error) {
	query := r.db.WithContext(ctx).Model(&models.GameRecord{}).Where("status = ?", string(status))

	// 获取总数
	var total int64
	query.Count(&total)
	pagination.Total = total

	var records []*models.GameRecord
	err := query.
		Scopes(Paginate(pagination)).
		Order("created_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrDatabaseQuery)
	}

	envelopes := make([]*models.GameEnvelope, 0, len(records))
	for _, record := range records {
		env, err := record.ToEnvelope()
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrInvalidDocument)
		}
		envelopes = append(envelopes, env)
	}
	return envelopes, nil
}

// ExistsByID 检查游戏文档是否存在
func (r *gameRepo) ExistsByID(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.GameRecord{}).
		Where("id = ?", id).
		Count(&count).Error
	if err != nil {
		return false, apperrors.Wrap(err, apperrors.ErrDatabaseQuery)
	}
	return count > 0, nil
}

// WithTx 使用事务
func (r *gameRepo) WithTx(tx *gorm.DB) BaseRepository {
	return &gameRepo{
		BaseRepo: &BaseRepo{db: tx},
	}
}
