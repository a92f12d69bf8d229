package models

import "time"

// LeaderboardEntry 分类排行榜条目（每个玩家每个分类保留最高分）
type LeaderboardEntry struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	PlayerUID string    `gorm:"size:64;not null;uniqueIndex:idx_player_category" json:"id"`
	Name      string    `gorm:"size:100" json:"name"`
	Category  string    `gorm:"size:32;not null;uniqueIndex:idx_player_category;index" json:"category"`
	Score     int       `gorm:"default:0" json:"score"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName 指定表名
func (LeaderboardEntry) TableName() string {
	return "leaderboard_entries"
}
