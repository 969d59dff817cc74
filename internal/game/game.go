// Package game はプレイヤーの得点と手番を管理する。
// State は呼び出し側が所有し、同時に1つの操作だけが適用される前提で排他制御は持たない。
package game

import "dartserver/internal/board"

const DefaultStartingScore = 501

// ScoreEvent は1投分のスコア変化
type ScoreEvent struct {
	Description string `json:"description"`
	Delta       int    `json:"delta"`
}

// Player のHistoryは新しい順。Undoは常に先頭を取り除く
type Player struct {
	ID      int          `json:"id"`
	Name    string       `json:"name"`
	Score   int          `json:"score"`
	History []ScoreEvent `json:"history"`
}

// State is the score sheet of one match.
type State struct {
	StartingScore int
	Players       []*Player
	ActivePlayer  int
	Running       bool
	nextID        int
}

// New は開始スコアを指定してStateを作る。正でない値はDefaultStartingScoreになる
func New(startingScore int) *State {
	if startingScore <= 0 {
		startingScore = DefaultStartingScore
	}
	return &State{StartingScore: startingScore, nextID: 1}
}

// AddPlayer appends a player with the current starting score. Names need not be unique.
func (s *State) AddPlayer(name string) *Player {
	if s.nextID == 0 {
		s.nextID = 1
	}
	p := &Player{
		ID:      s.nextID,
		Name:    name,
		Score:   s.StartingScore,
		History: []ScoreEvent{},
	}
	s.nextID++
	s.Players = append(s.Players, p)
	return p
}

// Player returns the player at index i, or nil when i is out of range.
func (s *State) Player(i int) *Player {
	if i < 0 || i >= len(s.Players) {
		return nil
	}
	return s.Players[i]
}

// RecordHit subtracts the hit's score from the player at playerIndex and pushes the throw
// onto the front of its history. Out-of-range indexes are ignored.
func (s *State) RecordHit(playerIndex int, hit board.Hit) bool {
	p := s.Player(playerIndex)
	if p == nil {
		return false
	}
	e := ScoreEvent{Description: hit.Label(), Delta: -hit.Score}
	p.Score += e.Delta
	p.History = append([]ScoreEvent{e}, p.History...)
	return true
}

// UndoLast は直前の1投を取り消す。履歴が空なら何もしない
func (s *State) UndoLast(playerIndex int) bool {
	p := s.Player(playerIndex)
	if p == nil || len(p.History) == 0 {
		return false
	}
	e := p.History[0]
	p.History = p.History[1:]
	p.Score -= e.Delta
	return true
}

// RemovePlayer deletes the player with the given id. The active player always goes back to
// index 0, not to the removed player's neighbour.
func (s *State) RemovePlayer(id int) bool {
	for i, p := range s.Players {
		if p.ID != id {
			continue
		}
		s.Players = append(s.Players[:i], s.Players[i+1:]...)
		s.ActivePlayer = 0
		return true
	}
	return false
}

// NextTurn advances the active player, wrapping around.
func (s *State) NextTurn() bool {
	if len(s.Players) == 0 {
		return false
	}
	s.ActivePlayer = (s.ActivePlayer + 1) % len(s.Players)
	return true
}

// SelectActivePlayer はUIからの手番指定
func (s *State) SelectActivePlayer(i int) bool {
	if s.Player(i) == nil {
		return false
	}
	s.ActivePlayer = i
	return true
}

// Reset restores every player to the starting score with an empty history.
// Players are kept.
func (s *State) Reset() {
	for _, p := range s.Players {
		p.Score = s.StartingScore
		p.History = []ScoreEvent{}
	}
	s.ActivePlayer = 0
	s.Running = false
}

// SetStartingScore only changes the configuration; current scores are not touched.
func (s *State) SetStartingScore(n int) bool {
	if n <= 0 {
		return false
	}
	s.StartingScore = n
	return true
}

// ToggleRunning は表示用のフラグで、得点の記録には影響しない
func (s *State) ToggleRunning() bool {
	s.Running = !s.Running
	return s.Running
}

// Throws は全プレイヤーの記録済み投数
func (s *State) Throws() int {
	n := 0
	for _, p := range s.Players {
		n += len(p.History)
	}
	return n
}
