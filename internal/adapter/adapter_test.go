package adapter

import (
	"testing"
	"time"

	"github.com/Rouic/trendguesser-sub002/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestValidateCategory 测试分类校验的全域性与幂等性
func TestValidateCategory(t *testing.T) {
	// 合法分类原样返回
	for category := range models.CanonicalCategories {
		assert.Equal(t, category, ValidateCategory(category))
	}

	// 未识别分类回退everything
	assert.Equal(t, models.CategoryEverything, ValidateCategory("bogus"))
	assert.Equal(t, models.CategoryEverything, ValidateCategory(""))

	// 幂等：二次校验结果不变
	once := ValidateCategory("bogus")
	assert.Equal(t, once, ValidateCategory(once))
}

// TestValidateLegacyCategory 测试旧版分类集合的差异
func TestValidateLegacyCategory(t *testing.T) {
	// movies只在旧版集合中
	assert.Equal(t, models.CategoryMovies, ValidateLegacyCategory(models.CategoryMovies))
	assert.Equal(t, models.CategoryEverything, ValidateCategory(models.CategoryMovies))

	// landmarks只在共享集合中
	assert.Equal(t, models.CategoryLandmarks, ValidateCategory(models.CategoryLandmarks))
	assert.Equal(t, models.CategoryEverything, ValidateLegacyCategory(models.CategoryLandmarks))
}

// TestAdaptLegacyTerm_Defaults 测试词条缺省值合成
func TestAdaptLegacyTerm_Defaults(t *testing.T) {
	term := &models.LegacyTerm{
		ID:       "t1",
		Term:     "golden retriever",
		Volume:   42000,
		Category: models.CategoryAnimals,
	}

	out := AdaptLegacyTerm(term)
	require.NotNil(t, out)

	assert.Equal(t, term.ID, out.ID)
	assert.Equal(t, term.Term, out.Term)
	assert.Equal(t, term.Volume, out.Volume)
	assert.Equal(t, term.Category, out.Category)

	// 输出不含空图片与空时间戳
	assert.NotEmpty(t, out.ImageURL)
	assert.False(t, out.Timestamp.IsZero())

	// 占位图由标签确定性生成
	again := AdaptLegacyTerm(term)
	assert.Equal(t, out.ImageURL, again.ImageURL)
}

// TestAdaptLegacyTerm_Preserve 测试已有字段原样保留
func TestAdaptLegacyTerm_Preserve(t *testing.T) {
	image := "https://example.com/cat.jpg"
	created := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	term := &models.LegacyTerm{
		ID:        "t2",
		Term:      "cats",
		Volume:    99,
		Category:  models.CategoryAnimals,
		ImageURL:  &image,
		CreatedAt: &created,
	}

	out := AdaptLegacyTerm(term)
	require.NotNil(t, out)
	assert.Equal(t, image, out.ImageURL)
	assert.Equal(t, created, out.Timestamp)
}

// TestAdaptSearchTerm 测试共享到旧版方向的词条转换
func TestAdaptSearchTerm(t *testing.T) {
	timestamp := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	term := &models.SearchTerm{
		ID:        "t3",
		Term:      "solar eclipse",
		Volume:    500000,
		Category:  models.CategoryLatest,
		ImageURL:  "https://example.com/eclipse.jpg",
		Timestamp: timestamp,
	}

	out := AdaptSearchTerm(term)
	require.NotNil(t, out)
	require.NotNil(t, out.ImageURL)
	require.NotNil(t, out.CreatedAt)
	assert.Equal(t, term.ImageURL, *out.ImageURL)
	assert.Equal(t, timestamp, *out.CreatedAt)

	// 缺省字段同样合成非空值
	bare := AdaptSearchTerm(&models.SearchTerm{ID: "t4", Term: "quiet term"})
	require.NotNil(t, bare.ImageURL)
	require.NotNil(t, bare.CreatedAt)
	assert.NotEmpty(t, *bare.ImageURL)
	assert.False(t, bare.CreatedAt.IsZero())
}

// TestAdaptTerm_Nil 测试空输入返回空输出
func TestAdaptTerm_Nil(t *testing.T) {
	assert.Nil(t, AdaptLegacyTerm(nil))
	assert.Nil(t, AdaptSearchTerm(nil))
	assert.Nil(t, ToCanonicalState(nil))
	assert.Nil(t, ToLegacyState(nil))
	assert.Nil(t, ToCanonicalPlayer(nil))
	assert.Nil(t, ToLegacyPlayer(nil))
}

// TestToCanonicalState_ScoreReconciliation 测试分数与回合的换算
func TestToCanonicalState_ScoreReconciliation(t *testing.T) {
	legacy := &models.LegacyGameState{
		GameID:       "game123",
		CurrentRound: 5,
		Category:     models.CategoryAnimals,
	}

	state := ToCanonicalState(legacy)
	require.NotNil(t, state)
	assert.Equal(t, 4, state.Score)
	assert.Equal(t, 5, state.Round)
	// score == round - 1 不变式
	assert.Equal(t, state.Round-1, state.Score)

	// 回合缺省时score为0、round为1
	state = ToCanonicalState(&models.LegacyGameState{GameID: "game123"})
	assert.Equal(t, 0, state.Score)
	assert.Equal(t, 1, state.Round)
}

// TestToCanonicalState_NoFabrication 测试该方向不臆造highScore
func TestToCanonicalState_NoFabrication(t *testing.T) {
	legacy := &models.LegacyGameState{
		GameID:       "game123",
		CurrentRound: 10,
		Finished:     true,
	}

	state := ToCanonicalState(legacy)
	require.NotNil(t, state)
	assert.False(t, state.HighScore)
	assert.True(t, state.Finished)

	// 词条缺失时保持nil而不合成
	assert.Nil(t, state.KnownTerm)
	assert.Nil(t, state.HiddenTerm)
}

// TestToLegacyState 测试共享到旧版方向的状态转换
func TestToLegacyState(t *testing.T) {
	state := &models.TrendGuesserState{
		GameID:   "game123",
		Score:    2,
		Round:    3,
		Category: models.CategorySnacks,
		Finished: false,
		KnownTerm: &models.SearchTerm{
			ID: "t1", Term: "pretzels", Volume: 100,
			ImageURL: "https://example.com/p.jpg", Timestamp: time.Now(),
		},
	}

	legacy := ToLegacyState(state)
	require.NotNil(t, legacy)
	assert.Equal(t, 3, legacy.CurrentRound)
	assert.True(t, legacy.Started)
	assert.False(t, legacy.Finished)
	assert.Nil(t, legacy.CustomTerm)
	assert.Empty(t, legacy.Winner)

	// 历史在此方向重置为空（非nil）
	require.NotNil(t, legacy.UsedTerms)
	require.NotNil(t, legacy.Terms)
	assert.Len(t, legacy.UsedTerms, 0)
	assert.Len(t, legacy.Terms, 0)

	require.NotNil(t, legacy.KnownTerm)
	assert.Nil(t, legacy.HiddenTerm)
}

// TestRoundTrip 测试旧版→共享→旧版的双向一致性
func TestRoundTrip(t *testing.T) {
	image := "https://example.com/term.jpg"
	created := time.Date(2024, 3, 15, 8, 30, 0, 0, time.UTC)
	legacy := &models.LegacyGameState{
		GameID:       "game123",
		CurrentRound: 7,
		Category:     models.CategoryAnimals,
		Started:      true,
		KnownTerm: &models.LegacyTerm{
			ID: "t1", Term: "red pandas", Volume: 4200,
			Category: models.CategoryAnimals, ImageURL: &image, CreatedAt: &created,
		},
	}

	back := ToLegacyState(ToCanonicalState(legacy))
	require.NotNil(t, back)

	assert.Equal(t, legacy.GameID, back.GameID)
	assert.Equal(t, legacy.CurrentRound, back.CurrentRound)
	assert.Equal(t, legacy.Category, back.Category)
	assert.True(t, back.Started)

	require.NotNil(t, back.KnownTerm)
	assert.Equal(t, "t1", back.KnownTerm.ID)
	assert.Equal(t, "red pandas", back.KnownTerm.Term)
	require.NotNil(t, back.KnownTerm.ImageURL)
	assert.Equal(t, image, *back.KnownTerm.ImageURL)
	require.NotNil(t, back.KnownTerm.CreatedAt)
	assert.Equal(t, created, *back.KnownTerm.CreatedAt)
}

// TestToCanonicalPlayer_IDFallback 测试玩家标识解析顺序
func TestToCanonicalPlayer_IDFallback(t *testing.T) {
	// uid优先
	player := ToCanonicalPlayer(&models.LegacyPlayer{UID: "u1", ID: "i1", Name: "Alice"})
	assert.Equal(t, "u1", player.UID)

	// uid缺省时退回id
	player = ToCanonicalPlayer(&models.LegacyPlayer{ID: "i1", Name: "Bob"})
	assert.Equal(t, "i1", player.UID)

	// 两者都缺省时为空串
	player = ToCanonicalPlayer(&models.LegacyPlayer{Name: "Carol"})
	assert.Equal(t, "", player.UID)

	// highScores默认空映射而非nil
	require.NotNil(t, player.HighScores)
	assert.Len(t, player.HighScores, 0)
}

// TestToLegacyPlayer 测试共享到旧版方向的玩家转换
func TestToLegacyPlayer(t *testing.T) {
	player := ToLegacyPlayer(&models.TrendGuesserPlayer{UID: "u1", Name: "Alice", Score: 9})
	require.NotNil(t, player)
	assert.Equal(t, "u1", player.UID)
	assert.Equal(t, "u1", player.ID)
	assert.Equal(t, "Alice", player.Name)
	assert.Equal(t, 9, player.Score)
}
