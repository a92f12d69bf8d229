package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Rouic/trendguesser-sub002/internal/config"
	"github.com/Rouic/trendguesser-sub002/internal/models"
	"github.com/Rouic/trendguesser-sub002/internal/repository"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Mode: "test"},
		WebSocket: config.WebSocketConfig{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		Game: config.GameConfig{
			DefaultCategory:  "everything",
			LeaderboardLimit: 100,
		},
		JWT: config.JWTConfig{
			Secret:      "test-secret",
			TokenExpiry: time.Hour,
		},
	}
}

// GameHandlerTestSuite 游戏接口测试套件
type GameHandlerTestSuite struct {
	suite.Suite
	db     *gorm.DB
	router *Router
}

func (suite *GameHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.db = repository.SetupTestDB()
	suite.router = NewRouter(suite.db, testConfig(), zap.NewNop())
}

func (suite *GameHandlerTestSuite) TearDownTest() {
	repository.CleanupTestDB(suite.db)
}

func (suite *GameHandlerTestSuite) seedGame(id string) {
	env := repository.CreateTestEnvelope(id, "creator")
	gameRepo := repository.NewGameRepository(suite.db)
	suite.Require().NoError(gameRepo.Create(context.Background(), env))
}

func (suite *GameHandlerTestSuite) request(method, path string, body []byte) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.GetEngine().ServeHTTP(w, req)
	return w
}

// TestGetGame 测试获取游戏文档
func (suite *GameHandlerTestSuite) TestGetGame() {
	suite.seedGame("game123")

	w := suite.request(http.MethodGet, "/api/games/game123", nil)
	suite.Equal(http.StatusOK, w.Code)

	// 文档以扁平结构返回：玩家键在顶层，状态在保留键下
	var doc map[string]json.RawMessage
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &doc))
	suite.Contains(doc, "id")
	suite.Contains(doc, "creator")
	suite.Contains(doc, models.StateKey)
	suite.NotContains(doc, "players")
}

// TestGetGame_NotFound 测试获取不存在的游戏
func (suite *GameHandlerTestSuite) TestGetGame_NotFound() {
	w := suite.request(http.MethodGet, "/api/games/missing", nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

// TestGetGame_StorageFailure 测试存储故障只返回通用错误消息
func (suite *GameHandlerTestSuite) TestGetGame_StorageFailure() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	suite.Require().NoError(sqlDB.Close())

	w := suite.request(http.MethodGet, "/api/games/game123", nil)
	suite.Equal(http.StatusInternalServerError, w.Code)

	// 内部细节不下发给客户端
	var resp map[string]string
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("internal server error", resp["error"])
}

// TestUpdateGame_Patch 测试PATCH合并更新
func (suite *GameHandlerTestSuite) TestUpdateGame_Patch() {
	suite.seedGame("game123")

	body := []byte(`{"player2": {"uid": "player2", "name": "Bob", "score": 3}}`)
	w := suite.request(http.MethodPatch, "/api/games/game123", body)
	suite.Equal(http.StatusOK, w.Code)

	var resp struct {
		Success        bool     `json:"success"`
		UpdatedPlayers []string `json:"updatedPlayers"`
	}
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.True(resp.Success)
	suite.Equal([]string{"player2"}, resp.UpdatedPlayers)

	// 合并后既有玩家仍在
	w = suite.request(http.MethodGet, "/api/games/game123", nil)
	var doc map[string]json.RawMessage
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &doc))
	suite.Contains(doc, "creator")
	suite.Contains(doc, "player2")
}

// TestUpdateGame_Put 测试PUT与PATCH语义一致
func (suite *GameHandlerTestSuite) TestUpdateGame_Put() {
	suite.seedGame("game123")

	body := []byte(`{"status": "finished"}`)
	w := suite.request(http.MethodPut, "/api/games/game123", body)
	suite.Equal(http.StatusOK, w.Code)

	var resp struct {
		Success        bool     `json:"success"`
		UpdatedPlayers []string `json:"updatedPlayers"`
	}
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.True(resp.Success)
	suite.Empty(resp.UpdatedPlayers)
}

// TestUpdateGame_EmptyBody 测试空更新载荷
func (suite *GameHandlerTestSuite) TestUpdateGame_EmptyBody() {
	suite.seedGame("game123")

	w := suite.request(http.MethodPatch, "/api/games/game123", []byte(`{}`))
	suite.Equal(http.StatusBadRequest, w.Code)
}

// TestUpdateGame_InvalidBody 测试非JSON载荷
func (suite *GameHandlerTestSuite) TestUpdateGame_InvalidBody() {
	suite.seedGame("game123")

	w := suite.request(http.MethodPatch, "/api/games/game123", []byte(`not-json`))
	suite.Equal(http.StatusBadRequest, w.Code)
}

// TestUpdateGame_NotFound 测试更新不存在的游戏无副作用
func (suite *GameHandlerTestSuite) TestUpdateGame_NotFound() {
	body := []byte(`{"player1": {"score": 1}}`)
	w := suite.request(http.MethodPatch, "/api/games/missing", body)
	suite.Equal(http.StatusNotFound, w.Code)

	gameRepo := repository.NewGameRepository(suite.db)
	exists, err := gameRepo.ExistsByID(context.Background(), "missing")
	suite.NoError(err)
	suite.False(exists)
}

// TestGetGame_LegacyFormat 测试旧版结构输出
func (suite *GameHandlerTestSuite) TestGetGame_LegacyFormat() {
	suite.seedGame("game123")

	w := suite.request(http.MethodGet, "/api/games/game123?format=legacy", nil)
	suite.Equal(http.StatusOK, w.Code)

	var doc map[string]json.RawMessage
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &doc))

	var state map[string]json.RawMessage
	suite.NoError(json.Unmarshal(doc[models.StateKey], &state))
	suite.Equal("true", string(state["started"]))
	// customTerm以显式null输出
	suite.Contains(state, "customTerm")
	suite.Equal("null", string(state["customTerm"]))
}

// TestUpdateGame_LegacyState 测试旧版状态提交后转换合并
func (suite *GameHandlerTestSuite) TestUpdateGame_LegacyState() {
	suite.seedGame("game123")

	body := []byte(`{"__trendguesser.state": {"gameId": "game123", "currentRound": 4, "category": "technology", "started": true}}`)
	w := suite.request(http.MethodPatch, "/api/games/game123?format=legacy", body)
	suite.Equal(http.StatusOK, w.Code)

	// 转换后 score == round - 1
	w = suite.request(http.MethodGet, "/api/games/game123", nil)
	var doc map[string]json.RawMessage
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &doc))

	var state struct {
		Round int `json:"round"`
		Score int `json:"score"`
	}
	suite.NoError(json.Unmarshal(doc[models.StateKey], &state))
	suite.Equal(4, state.Round)
	suite.Equal(3, state.Score)
}

// TestMethodNotAllowed 测试未支持方法返回405与Allow头
func (suite *GameHandlerTestSuite) TestMethodNotAllowed() {
	suite.seedGame("game123")

	w := suite.request(http.MethodDelete, "/api/games/game123", nil)
	suite.Equal(http.StatusMethodNotAllowed, w.Code)
	suite.Equal("GET, PATCH, PUT", w.Header().Get("Allow"))

	w = suite.request(http.MethodPost, "/api/games/game123", []byte(`{}`))
	suite.Equal(http.StatusMethodNotAllowed, w.Code)
	suite.Equal("GET, PATCH, PUT", w.Header().Get("Allow"))
}

func TestGameHandlerSuite(t *testing.T) {
	suite.Run(t, new(GameHandlerTestSuite))
}
