package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLegacyGameState_CustomTermExplicitNull 测试customTerm未设置时输出显式null
func TestLegacyGameState_CustomTermExplicitNull(t *testing.T) {
	state := &LegacyGameState{
		GameID:       "game123",
		CurrentRound: 1,
		Category:     CategoryEverything,
		Started:      true,
		UsedTerms:    []string{},
		Terms:        []LegacyTerm{},
	}

	data, err := json.Marshal(state)
	require.NoError(t, err)

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &doc))

	raw, ok := doc["customTerm"]
	require.True(t, ok, "customTerm字段不能省略")
	assert.Equal(t, "null", string(raw))
}

// TestLegacyGameState_CustomTermValue 测试customTerm有值时正常序列化
func TestLegacyGameState_CustomTermValue(t *testing.T) {
	custom := "pineapple pizza"
	state := &LegacyGameState{
		GameID:     "game123",
		CustomTerm: &custom,
		UsedTerms:  []string{},
		Terms:      []LegacyTerm{},
	}

	data, err := json.Marshal(state)
	require.NoError(t, err)

	var decoded LegacyGameState
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.NotNil(t, decoded.CustomTerm)
	assert.Equal(t, custom, *decoded.CustomTerm)
}

// TestLegacyTerm_OptionalFields 测试旧版词条可缺省字段
func TestLegacyTerm_OptionalFields(t *testing.T) {
	term := LegacyTerm{ID: "t1", Term: "cats", Volume: 1000, Category: CategoryAnimals}

	data, err := json.Marshal(term)
	require.NoError(t, err)

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.NotContains(t, doc, "imageUrl")
	assert.NotContains(t, doc, "createdAt")
}
