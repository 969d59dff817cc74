package screens

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"dartserver/darts"
	"dartserver/internal/board"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AddPlayerRequest はプレイヤー追加のボディ
type AddPlayerRequest struct {
	Name string `json:"name" binding:"required"`
}

// StartingScoreRequest は開始スコア変更のボディ
type StartingScoreRequest struct {
	Score int `json:"score" binding:"required"`
}

// ActivePlayerRequest は手番指定のボディ。0番目を指定できるようにポインタで受ける
type ActivePlayerRequest struct {
	Index *int `json:"index" binding:"required"`
}

// PointerHitRequest は盤面上のタップ位置。dx, dy は中心からのオフセット、radius は表示上のボード半径
type PointerHitRequest struct {
	DX     *float64 `json:"dx" binding:"required"`
	DY     *float64 `json:"dy" binding:"required"`
	Radius float64  `json:"radius"`
}

// ManualHitRequest の sector は 1〜20 の数値、"BULL"、"OUTER_BULL" のいずれか
type ManualHitRequest struct {
	Sector     json.RawMessage `json:"sector" binding:"required"`
	Multiplier int             `json:"multiplier"`
}

// 対戦状態の取得
func StateHandler(c *gin.Context, room *darts.Room, logger *zap.Logger) {
	submitCommand(c, room, darts.Query{}, logger)
}

func AddPlayerHandler(c *gin.Context, room *darts.Room, logger *zap.Logger) {
	var request AddPlayerRequest
	if !bindJSON(c, &request, logger) {
		return
	}
	submitCommand(c, room, darts.AddPlayer{Name: request.Name}, logger)
}

func RemovePlayerHandler(c *gin.Context, room *darts.Room, logger *zap.Logger) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	submitCommand(c, room, darts.RemovePlayer{ID: id}, logger)
}

func UndoLastHandler(c *gin.Context, room *darts.Room, logger *zap.Logger) {
	index, ok := intParam(c, "index")
	if !ok {
		return
	}
	submitCommand(c, room, darts.UndoLast{PlayerIndex: index}, logger)
}

func SelectActivePlayerHandler(c *gin.Context, room *darts.Room, logger *zap.Logger) {
	var request ActivePlayerRequest
	if !bindJSON(c, &request, logger) {
		return
	}
	submitCommand(c, room, darts.SelectActivePlayer{Index: *request.Index}, logger)
}

func SetStartingScoreHandler(c *gin.Context, room *darts.Room, logger *zap.Logger) {
	var request StartingScoreRequest
	if !bindJSON(c, &request, logger) {
		return
	}
	submitCommand(c, room, darts.SetStartingScore{Score: request.Score}, logger)
}

func PointerHitHandler(c *gin.Context, room *darts.Room, logger *zap.Logger) {
	var request PointerHitRequest
	if !bindJSON(c, &request, logger) {
		return
	}
	submitCommand(c, room, darts.PointerHit{DX: *request.DX, DY: *request.DY, SurfaceRadius: request.Radius}, logger)
}

func ManualHitHandler(c *gin.Context, room *darts.Room, logger *zap.Logger) {
	var request ManualHitRequest
	if !bindJSON(c, &request, logger) {
		return
	}
	target, err := parseSector(request.Sector)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	multiplier := request.Multiplier
	if multiplier == 0 {
		multiplier = 1
	}
	submitCommand(c, room, darts.ManualHit{Target: target, Multiplier: multiplier}, logger)
}

// submitCommand はコマンドをRoomに渡し、適用後の状態を返す
func submitCommand(c *gin.Context, room *darts.Room, cmd any, logger *zap.Logger) {
	view, err := room.Submit(c.Request.Context(), cmd)
	switch {
	case board.IsInputError(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case err != nil:
		logger.Error("Failed to submit command", zap.Any("command", cmd), zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Room is not available"})
	default:
		c.JSON(http.StatusOK, view)
	}
}

func bindJSON(c *gin.Context, request any, logger *zap.Logger) bool {
	if err := c.ShouldBindJSON(request); err != nil {
		logger.Info("Request binding error", zap.String("path", c.Request.URL.Path), zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return false
	}
	return true
}

func intParam(c *gin.Context, name string) (int, bool) {
	v, err := strconv.Atoi(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid %s", name)})
		return 0, false
	}
	return v, true
}

// セクターは数値でも文字列でも受け付ける
func parseSector(raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return strconv.Itoa(n), nil
	}
	return "", fmt.Errorf("invalid sector %s", string(raw))
}
