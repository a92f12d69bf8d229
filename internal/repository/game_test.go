package repository

import (
	"context"
	"testing"

	apperrors "github.com/Rouic/trendguesser-sub002/internal/errors"
	"github.com/Rouic/trendguesser-sub002/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

// GameRepositoryTestSuite 游戏文档仓储测试套件
type GameRepositoryTestSuite struct {
	suite.Suite
	db       *gorm.DB
	gameRepo GameRepository
}

func (suite *GameRepositoryTestSuite) SetupTest() {
	suite.db = SetupTestDB()
	suite.gameRepo = NewGameRepository(suite.db)
}

func (suite *GameRepositoryTestSuite) TearDownTest() {
	CleanupTestDB(suite.db)
}

// TestGameRepository_Create 测试创建游戏文档
func (suite *GameRepositoryTestSuite) TestGameRepository_Create() {
	ctx := context.Background()

	env := CreateTestEnvelope("game123", "player1")
	err := suite.gameRepo.Create(ctx, env)
	assert.NoError(suite.T(), err)

	// 验证数据
	found, err := suite.gameRepo.FindByID(ctx, "game123")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), env.ID, found.ID)
	assert.Equal(suite.T(), models.GameStatusActive, found.Status)
	assert.Contains(suite.T(), found.Players, "player1")
}

// TestGameRepository_FindByID_NotFound 测试查找不存在的文档
func (suite *GameRepositoryTestSuite) TestGameRepository_FindByID_NotFound() {
	ctx := context.Background()

	_, err := suite.gameRepo.FindByID(ctx, "missing")
	assert.Error(suite.T(), err)
	assert.True(suite.T(), apperrors.Is(err, apperrors.ErrGameNotFound))
}

// TestGameRepository_Update 测试更新游戏文档
func (suite *GameRepositoryTestSuite) TestGameRepository_Update() {
	ctx := context.Background()

	env := CreateTestEnvelope("game123", "player1")
	assert.NoError(suite.T(), suite.gameRepo.Create(ctx, env))

	// 合并新玩家后回写
	patch := map[string]string{
		"player2": `{"name": "Bob", "score": 3}`,
	}
	updated, err := env.ApplyUpdate(RawPatch(patch))
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), []string{"player2"}, updated)

	assert.NoError(suite.T(), suite.gameRepo.Update(ctx, env))

	// 既有数据保留，新数据已写入
	found, err := suite.gameRepo.FindByID(ctx, "game123")
	assert.NoError(suite.T(), err)
	assert.Contains(suite.T(), found.Players, "player1")
	assert.Contains(suite.T(), found.Players, "player2")
	assert.Equal(suite.T(), 3, found.Players["player2"].Score)
	assert.NotNil(suite.T(), found.State)
}

// TestGameRepository_FindByStatus 测试按状态查找
func (suite *GameRepositoryTestSuite) TestGameRepository_FindByStatus() {
	ctx := context.Background()

	active := CreateTestEnvelope("game_active", "player1")
	assert.NoError(suite.T(), suite.gameRepo.Create(ctx, active))

	finished := CreateTestEnvelope("game_finished", "player2")
	finished.Status = models.GameStatusFinished
	assert.NoError(suite.T(), suite.gameRepo.Create(ctx, finished))

	pagination := NewPagination(1, 10)
	envelopes, err := suite.gameRepo.FindByStatus(ctx, models.GameStatusActive, pagination)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), envelopes, 1)
	assert.Equal(suite.T(), "game_active", envelopes[0].ID)
	assert.Equal(suite.T(), int64(1), pagination.Total)
}

// TestGameRepository_ExistsByID 测试存在性检查
func (suite *GameRepositoryTestSuite) TestGameRepository_ExistsByID() {
	ctx := context.Background()

	env := CreateTestEnvelope("game123", "player1")
	assert.NoError(suite.T(), suite.gameRepo.Create(ctx, env))

	exists, err := suite.gameRepo.ExistsByID(ctx, "game123")
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), exists)

	exists, err = suite.gameRepo.ExistsByID(ctx, "missing")
	assert.NoError(suite.T(), err)
	assert.False(suite.T(), exists)
}

// TestGameRepository_Delete 测试删除游戏文档
func (suite *GameRepositoryTestSuite) TestGameRepository_Delete() {
	ctx := context.Background()

	env := CreateTestEnvelope("game123", "player1")
	assert.NoError(suite.T(), suite.gameRepo.Create(ctx, env))

	assert.NoError(suite.T(), suite.gameRepo.Delete(ctx, "game123"))

	_, err := suite.gameRepo.FindByID(ctx, "game123")
	assert.True(suite.T(), apperrors.Is(err, apperrors.ErrGameNotFound))
}

func TestGameRepositorySuite(t *testing.T) {
	suite.Run(t, new(GameRepositoryTestSuite))
}
