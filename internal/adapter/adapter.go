// Package adapter 在共享Schema与旧版客户端Schema之间双向转换游戏状态。
// 所有函数均为纯函数：无I/O、无内部状态、对任意输入不panic。
package adapter

import (
	"fmt"
	"net/url"
	"time"

	"github.com/Rouic/trendguesser-sub002/internal/models"
)

// defaultImageURL 根据词条标签生成确定性的占位图片地址
func defaultImageURL(term string) string {
	return fmt.Sprintf("https://picsum.photos/seed/%s/800/600", url.QueryEscape(term))
}

// ValidateCategory 校验共享Schema分类，未识别时回退everything
// 幂等：合法输入原样返回
func ValidateCategory(category models.SearchCategory) models.SearchCategory {
	if models.CanonicalCategories[category] {
		return category
	}
	return models.CategoryEverything
}

// ValidateLegacyCategory 校验旧版Schema分类，未识别时回退everything
func ValidateLegacyCategory(category models.SearchCategory) models.SearchCategory {
	if models.LegacyCategories[category] {
		return category
	}
	return models.CategoryEverything
}

// AdaptLegacyTerm 将旧版词条转换为共享Schema词条
// 图片缺省时合成占位图，时间戳缺省时取当前时间，输出不含空值
func AdaptLegacyTerm(term *models.LegacyTerm) *models.SearchTerm {
	if term == nil {
		return nil
	}

	out := &models.SearchTerm{
		ID:       term.ID,
		Term:     term.Term,
		Volume:   term.Volume,
		Category: term.Category,
	}

	if term.ImageURL != nil && *term.ImageURL != "" {
		out.ImageURL = *term.ImageURL
	} else {
		out.ImageURL = defaultImageURL(term.Term)
	}

	if term.CreatedAt != nil && !term.CreatedAt.IsZero() {
		out.Timestamp = *term.CreatedAt
	} else {
		out.Timestamp = time.Now()
	}

	return out
}

// AdaptSearchTerm 将共享Schema词条转换为旧版词条
// 已有图片与时间戳原样保留，缺省时同样合成非空值
func AdaptSearchTerm(term *models.SearchTerm) *models.LegacyTerm {
	if term == nil {
		return nil
	}

	out := &models.LegacyTerm{
		ID:       term.ID,
		Term:     term.Term,
		Volume:   term.Volume,
		Category: term.Category,
	}

	image := term.ImageURL
	if image == "" {
		image = defaultImageURL(term.Term)
	}
	out.ImageURL = &image

	timestamp := term.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now()
	}
	out.CreatedAt = &timestamp

	return out
}

// ToCanonicalState 将旧版游戏状态转换为共享Schema状态
// 分数按 score = currentRound - 1 重建；该方向信息不足以
// 判定highScore，固定为false而不臆造
func ToCanonicalState(legacy *models.LegacyGameState) *models.TrendGuesserState {
	if legacy == nil {
		return nil
	}

	round := legacy.CurrentRound
	score := 0
	if round > 0 {
		score = round - 1
	} else {
		round = 1
	}

	return &models.TrendGuesserState{
		GameID:     legacy.GameID,
		Score:      score,
		Round:      round,
		KnownTerm:  AdaptLegacyTerm(legacy.KnownTerm),
		HiddenTerm: AdaptLegacyTerm(legacy.HiddenTerm),
		Category:   ValidateCategory(legacy.Category),
		Finished:   legacy.Finished,
		HighScore:  false,
	}
}

// ToLegacyState 将共享Schema状态转换为旧版游戏状态
// 共享状态的存在即表示会话已开始；usedTerms与terms在此方向
// 重置为空，旧版界面会从本地会话补回历史
func ToLegacyState(state *models.TrendGuesserState) *models.LegacyGameState {
	if state == nil {
		return nil
	}

	round := state.Round
	if round <= 0 {
		round = 1
	}

	return &models.LegacyGameState{
		GameID:       state.GameID,
		CurrentRound: round,
		KnownTerm:    AdaptSearchTerm(state.KnownTerm),
		HiddenTerm:   AdaptSearchTerm(state.HiddenTerm),
		Category:     ValidateLegacyCategory(state.Category),
		Started:      true,
		Finished:     state.Finished,
		CustomTerm:   nil,
		UsedTerms:    []string{},
		Terms:        []models.LegacyTerm{},
	}
}

// ToCanonicalPlayer 将旧版玩家记录转换为共享Schema玩家记录
// 标识解析顺序：uid、id、空串
func ToCanonicalPlayer(player *models.LegacyPlayer) *models.TrendGuesserPlayer {
	if player == nil {
		return nil
	}

	uid := player.UID
	if uid == "" {
		uid = player.ID
	}

	return &models.TrendGuesserPlayer{
		UID:        uid,
		Name:       player.Name,
		Score:      player.Score,
		HighScores: map[models.SearchCategory]int{},
	}
}

// ToLegacyPlayer 将共享Schema玩家记录转换为旧版玩家记录
// uid同时写入两个标识字段，兼容只认其中之一的旧版界面
func ToLegacyPlayer(player *models.TrendGuesserPlayer) *models.LegacyPlayer {
	if player == nil {
		return nil
	}

	return &models.LegacyPlayer{
		UID:   player.UID,
		ID:    player.UID,
		Name:  player.Name,
		Score: player.Score,
	}
}
