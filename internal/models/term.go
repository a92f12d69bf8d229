package models

import "time"

// SearchCategory 搜索词分类
type SearchCategory string

// 分类定义
const (
	CategoryAnimals     SearchCategory = "animals"
	CategoryCelebrities SearchCategory = "celebrities"
	CategoryTechnology  SearchCategory = "technology"
	CategorySports      SearchCategory = "sports"
	CategoryLandmarks   SearchCategory = "landmarks"
	CategoryFashion     SearchCategory = "fashion"
	CategoryCars        SearchCategory = "cars"
	CategorySnacks      SearchCategory = "snacks"
	CategoryQuestions   SearchCategory = "questions"
	CategoryMovies      SearchCategory = "movies"
	CategoryMusic       SearchCategory = "music"
	CategoryGames       SearchCategory = "games"
	CategoryLatest      SearchCategory = "latest"
	CategoryEverything  SearchCategory = "everything"
	CategoryCustom      SearchCategory = "custom"
)

// CanonicalCategories 共享Schema识别的分类集合
var CanonicalCategories = map[SearchCategory]bool{
	CategoryAnimals:     true,
	CategoryCelebrities: true,
	CategoryTechnology:  true,
	CategorySports:      true,
	CategoryLandmarks:   true,
	CategoryFashion:     true,
	CategoryCars:        true,
	CategorySnacks:      true,
	CategoryQuestions:   true,
	CategoryLatest:      true,
	CategoryEverything:  true,
	CategoryCustom:      true,
}

// LegacyCategories 旧版客户端识别的分类集合（与共享集合部分重叠）
var LegacyCategories = map[SearchCategory]bool{
	CategoryAnimals:     true,
	CategoryCelebrities: true,
	CategoryTechnology:  true,
	CategorySports:      true,
	CategoryMovies:      true,
	CategoryMusic:       true,
	CategoryGames:       true,
	CategorySnacks:      true,
	CategoryEverything:  true,
	CategoryCustom:      true,
}

// SearchTerm 共享Schema的搜索词条目
// 图片与时间戳在共享Schema中不允许为空，缺省值在转换时合成
type SearchTerm struct {
	ID        string         `json:"id"`
	Term      string         `json:"term"`
	Volume    int64          `json:"volume"`
	Category  SearchCategory `json:"category"`
	ImageURL  string         `json:"imageUrl"`
	Timestamp time.Time      `json:"timestamp"`
}

// LegacyTerm 旧版客户端的搜索词条目（图片与时间戳可缺省）
type LegacyTerm struct {
	ID        string         `json:"id"`
	Term      string         `json:"term"`
	Volume    int64          `json:"volume"`
	Category  SearchCategory `json:"category"`
	ImageURL  *string        `json:"imageUrl,omitempty"`
	CreatedAt *time.Time     `json:"createdAt,omitempty"`
}
