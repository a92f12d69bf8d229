package models

import (
	"encoding/json"
	"sort"
	"time"
)

// 游戏文档保留键
const (
	// StateKey 共享游戏状态在文档中的保留键
	StateKey = "__trendguesser.state"

	// GameTypeTrendGuesser 固定游戏类型
	GameTypeTrendGuesser = "trendguesser"
)

// reservedKeys 文档顶层固定键集合，玩家键不得与其冲突
var reservedKeys = map[string]bool{
	"id":        true,
	"createdAt": true,
	"createdBy": true,
	"gameType":  true,
	"status":    true,
	StateKey:    true,
}

// IsReservedKey 判断是否为文档保留键
func IsReservedKey(key string) bool {
	return reservedKeys[key]
}

// IsPlayerEntry 判断文档键值是否为玩家得分记录：
// 取值为对象且包含score字段（调用方需先排除保留键）
func IsPlayerEntry(raw json.RawMessage) bool {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return false
	}
	_, ok := obj["score"]
	return ok
}

// GameEnvelope 多租户游戏文档
// 顶层文档由固定元数据、以玩家uid为键的动态得分记录、
// 保留键下的共享游戏状态三部分构成；未识别的键原样透传
type GameEnvelope struct {
	ID        string
	CreatedAt time.Time
	CreatedBy string
	GameType  string
	Status    GameStatus
	Players   map[string]*TrendGuesserPlayer
	State     *TrendGuesserState
	Extra     map[string]json.RawMessage
}

// NewGameEnvelope 创建游戏文档
func NewGameEnvelope(id, createdBy string) *GameEnvelope {
	return &GameEnvelope{
		ID:        id,
		CreatedAt: time.Now(),
		CreatedBy: createdBy,
		GameType:  GameTypeTrendGuesser,
		Status:    GameStatusWaiting,
		Players:   make(map[string]*TrendGuesserPlayer),
	}
}

// MarshalJSON 将文档展平为顶层JSON对象
func (e *GameEnvelope) MarshalJSON() ([]byte, error) {
	doc := make(map[string]interface{}, len(e.Players)+len(e.Extra)+6)
	doc["id"] = e.ID
	doc["createdAt"] = e.CreatedAt
	doc["createdBy"] = e.CreatedBy
	doc["gameType"] = e.GameType
	doc["status"] = e.Status
	if e.State != nil {
		doc[StateKey] = e.State
	}
	for uid, player := range e.Players {
		doc[uid] = player
	}
	for key, raw := range e.Extra {
		if _, exists := doc[key]; !exists {
			doc[key] = raw
		}
	}
	return json.Marshal(doc)
}

// UnmarshalJSON 从展平的顶层JSON对象还原文档
func (e *GameEnvelope) UnmarshalJSON(data []byte) error {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}

	e.Players = make(map[string]*TrendGuesserPlayer)
	e.Extra = nil
	e.State = nil

	for key, raw := range doc {
		switch key {
		case "id":
			if err := json.Unmarshal(raw, &e.ID); err != nil {
				return err
			}
		case "createdAt":
			if err := json.Unmarshal(raw, &e.CreatedAt); err != nil {
				return err
			}
		case "createdBy":
			if err := json.Unmarshal(raw, &e.CreatedBy); err != nil {
				return err
			}
		case "gameType":
			if err := json.Unmarshal(raw, &e.GameType); err != nil {
				return err
			}
		case "status":
			if err := json.Unmarshal(raw, &e.Status); err != nil {
				return err
			}
		case StateKey:
			state := &TrendGuesserState{}
			if err := json.Unmarshal(raw, state); err != nil {
				return err
			}
			e.State = state
		default:
			if IsPlayerEntry(raw) {
				player := &TrendGuesserPlayer{}
				if err := json.Unmarshal(raw, player); err != nil {
					return err
				}
				if player.UID == "" {
					player.UID = key
				}
				e.Players[key] = player
			} else {
				if e.Extra == nil {
					e.Extra = make(map[string]json.RawMessage)
				}
				e.Extra[key] = raw
			}
		}
	}
	return nil
}

// ApplyUpdate 将部分文档浅合并进当前文档，返回本次触及的玩家uid（升序）
// 未出现在载荷中的键一律保留；id不可变，载荷中的id被忽略
func (e *GameEnvelope) ApplyUpdate(patch map[string]json.RawMessage) ([]string, error) {
	updated := make([]string, 0, len(patch))

	for key, raw := range patch {
		switch key {
		case "id":
			// 文档ID不可变
		case "createdAt":
			if err := json.Unmarshal(raw, &e.CreatedAt); err != nil {
				return nil, err
			}
		case "createdBy":
			if err := json.Unmarshal(raw, &e.CreatedBy); err != nil {
				return nil, err
			}
		case "gameType":
			if err := json.Unmarshal(raw, &e.GameType); err != nil {
				return nil, err
			}
		case "status":
			if err := json.Unmarshal(raw, &e.Status); err != nil {
				return nil, err
			}
		case StateKey:
			state := &TrendGuesserState{}
			if err := json.Unmarshal(raw, state); err != nil {
				return nil, err
			}
			e.State = state
		default:
			if IsPlayerEntry(raw) {
				player := &TrendGuesserPlayer{}
				if err := json.Unmarshal(raw, player); err != nil {
					return nil, err
				}
				if player.UID == "" {
					player.UID = key
				}
				if e.Players == nil {
					e.Players = make(map[string]*TrendGuesserPlayer)
				}
				e.Players[key] = player
				updated = append(updated, key)
			} else {
				if e.Extra == nil {
					e.Extra = make(map[string]json.RawMessage)
				}
				e.Extra[key] = raw
			}
		}
	}

	sort.Strings(updated)
	return updated, nil
}

// GameRecord 游戏文档存储行
type GameRecord struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	CreatedBy string    `gorm:"size:64;index" json:"created_by"`
	GameType  string    `gorm:"size:32;default:trendguesser" json:"game_type"`
	Status    string    `gorm:"size:20;index;default:waiting" json:"status"`
	Players   JSONMap   `gorm:"type:text" json:"players"`
	State     JSONMap   `gorm:"type:text" json:"state"`
	Extra     JSONMap   `gorm:"type:text" json:"extra"`
}

// TableName 指定表名
func (GameRecord) TableName() string {
	return "game_documents"
}

// ToRecord 将文档转换为存储行
func (e *GameEnvelope) ToRecord() (*GameRecord, error) {
	record := &GameRecord{
		ID:        e.ID,
		CreatedAt: e.CreatedAt,
		CreatedBy: e.CreatedBy,
		GameType:  e.GameType,
		Status:    string(e.Status),
	}

	var err error
	if len(e.Players) > 0 {
		if record.Players, err = toJSONMap(e.Players); err != nil {
			return nil, err
		}
	}
	if e.State != nil {
		if record.State, err = toJSONMap(e.State); err != nil {
			return nil, err
		}
	}
	if len(e.Extra) > 0 {
		if record.Extra, err = toJSONMap(e.Extra); err != nil {
			return nil, err
		}
	}
	return record, nil
}

// ToEnvelope 将存储行还原为文档
func (r *GameRecord) ToEnvelope() (*GameEnvelope, error) {
	env := &GameEnvelope{
		ID:        r.ID,
		CreatedAt: r.CreatedAt,
		CreatedBy: r.CreatedBy,
		GameType:  r.GameType,
		Status:    GameStatus(r.Status),
		Players:   make(map[string]*TrendGuesserPlayer),
	}

	if len(r.Players) > 0 {
		if err := fromJSONMap(r.Players, &env.Players); err != nil {
			return nil, err
		}
	}
	if len(r.State) > 0 {
		env.State = &TrendGuesserState{}
		if err := fromJSONMap(r.State, env.State); err != nil {
			return nil, err
		}
	}
	if len(r.Extra) > 0 {
		if err := fromJSONMap(r.Extra, &env.Extra); err != nil {
			return nil, err
		}
	}
	return env, nil
}

// toJSONMap 通过JSON编解码转换为JSONMap
func toJSONMap(v interface{}) (JSONMap, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m JSONMap
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// fromJSONMap 通过JSON编解码从JSONMap还原
func fromJSONMap(m JSONMap, out interface{}) error {
	data, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}
