package darts

import (
	"encoding/json"

	"dartserver/internal/board"
	"dartserver/internal/game"
	"dartserver/models"

	"go.uber.org/zap"
)

// View は表示側に渡す対戦状態のスナップショット
type View struct {
	StartingScore     int           `json:"startingScore"`
	Players           []game.Player `json:"players"`
	ActivePlayerIndex int           `json:"activePlayerIndex"`
	Running           bool          `json:"running"`
	LastHit           *board.Hit    `json:"lastHit"`
}

type stateMessage struct {
	Type string `json:"type"`
	View
}

// Roomのゴルーチンの外へ渡すので、履歴を含めてコピーする
func (r *Room) view() View {
	v := View{
		StartingScore:     r.state.StartingScore,
		Players:           make([]game.Player, 0, len(r.state.Players)),
		ActivePlayerIndex: r.state.ActivePlayer,
		Running:           r.state.Running,
	}
	for _, p := range r.state.Players {
		cp := *p
		cp.History = append([]game.ScoreEvent{}, p.History...)
		v.Players = append(v.Players, cp)
	}
	if r.lastHit != nil {
		hit := *r.lastHit
		v.LastHit = &hit
	}
	return v
}

// ゲームの状態を全クライアントにブロードキャストする。送信に失敗したクライアントは切断する
func (r *Room) broadcastState(v View) {
	messageJSON, err := json.Marshal(stateMessage{Type: "gameState", View: v})
	if err != nil {
		r.logger.Error("Failed to marshal game state", zap.Error(err))
		return
	}

	var failed []*models.Client
	for c := range r.clients {
		if err := c.Conn.Send(messageJSON); err != nil {
			r.logger.Error("Failed to broadcast game state", zap.String("nickname", c.Nickname), zap.Error(err))
			failed = append(failed, c)
		}
	}
	for _, c := range failed {
		_ = c.Conn.Close()
		delete(r.clients, c)
	}
}

func (r *Room) sendStateTo(c *models.Client, v View) {
	messageJSON, err := json.Marshal(stateMessage{Type: "gameState", View: v})
	if err != nil {
		r.logger.Error("Failed to marshal game state", zap.Error(err))
		return
	}
	if err := c.Conn.Send(messageJSON); err != nil {
		r.logger.Error("Failed to send game state", zap.String("nickname", c.Nickname), zap.Error(err))
	}
}

// SendErrorMessage はクライアントにエラーメッセージを送信する
func SendErrorMessage(conn models.Conn, errorMessage string, logger *zap.Logger) {
	errorJSON, _ := json.Marshal(map[string]string{"type": "error", "error": errorMessage})
	if err := conn.Send(errorJSON); err != nil {
		logger.Error("Failed to send error message", zap.Error(err))
	}
}
