package models

// GameStatus 游戏文档状态
type GameStatus string

// 游戏文档状态定义
const (
	GameStatusWaiting  GameStatus = "waiting"
	GameStatusActive   GameStatus = "active"
	GameStatusFinished GameStatus = "finished"
	GameStatusInactive GameStatus = "inactive"
)

// TrendGuesserState 共享Schema的游戏状态（游戏引擎与各客户端共同约定）
// 不变式：score == round - 1
type TrendGuesserState struct {
	GameID     string         `json:"gameId"`
	Score      int            `json:"score"`
	Round      int            `json:"round"`
	KnownTerm  *SearchTerm    `json:"knownTerm"`
	HiddenTerm *SearchTerm    `json:"hiddenTerm"`
	Category   SearchCategory `json:"category"`
	Finished   bool           `json:"finished"`
	HighScore  bool           `json:"highScore"`
}

// LegacyGameState 旧版客户端的游戏状态（携带会话历史）
type LegacyGameState struct {
	GameID       string         `json:"gameId"`
	CurrentRound int            `json:"currentRound"`
	KnownTerm    *LegacyTerm    `json:"knownTerm"`
	HiddenTerm   *LegacyTerm    `json:"hiddenTerm"`
	Category     SearchCategory `json:"category"`
	Started      bool           `json:"started"`
	Finished     bool           `json:"finished"`
	Winner       string         `json:"winner,omitempty"`
	// CustomTerm 未设置时必须序列化为显式null，不能省略字段
	CustomTerm *string      `json:"customTerm"`
	UsedTerms  []string     `json:"usedTerms"`
	Terms      []LegacyTerm `json:"terms"`
}

// TrendGuesserPlayer 共享Schema的玩家记录
type TrendGuesserPlayer struct {
	UID        string                 `json:"uid"`
	Name       string                 `json:"name"`
	Score      int                    `json:"score"`
	HighScores map[SearchCategory]int `json:"highScores,omitempty"`
}

// LegacyPlayer 旧版Schema的玩家记录（uid为主标识，id为次标识）
type LegacyPlayer struct {
	UID   string `json:"uid,omitempty"`
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Score int    `json:"score,omitempty"`
}
