// Package darts はダーツボード1台分の対戦を管理する。
// Room は1つのゴルーチンでコマンドを1件ずつ適用し、変更のたびに全端末へ状態を配信する。
package darts

import (
	"context"
	"errors"
	"sync"
	"time"

	"dartserver/internal/board"
	"dartserver/internal/game"
	"dartserver/models"

	"go.uber.org/zap"
)

var ErrRoomClosed = errors.New("room is closed")

// 対戦記録の保存にかける時間の上限
const archiveTimeout = 5 * time.Second

// Archiver はリセット直前の最終スコアを保存する
type Archiver interface {
	ArchiveMatch(ctx context.Context, state *game.State) error
}

// コマンド定義
type (
	AddPlayer          struct{ Name string }
	RemovePlayer       struct{ ID int }
	ResetGame          struct{}
	SetStartingScore   struct{ Score int }
	ToggleRunning      struct{}
	NextTurn           struct{}
	UndoLast           struct{ PlayerIndex int }
	SelectActivePlayer struct{ Index int }
	Query              struct{}

	// PointerHit は盤面中心からのオフセット。SurfaceRadius は表示上のボード半径
	PointerHit struct{ DX, DY, SurfaceRadius float64 }
	// ManualHit の Target は "1".."20", "BULL", "OUTER_BULL"
	ManualHit struct {
		Target     string
		Multiplier int
	}

	Join  struct{ Client *models.Client }
	Leave struct{ Client *models.Client }
)

type request struct {
	cmd   any
	reply chan result
}

type result struct {
	view View
	err  error
}

type Room struct {
	Inbox    chan request
	state    *game.State
	lastHit  *board.Hit
	clients  map[*models.Client]bool
	archiver Archiver
	logger   *zap.Logger
	quit     chan struct{}
	stopOnce sync.Once
}

// NewRoom は開始スコアを指定してRoomを作る。archiver は nil でもよい
func NewRoom(startingScore int, archiver Archiver, logger *zap.Logger) *Room {
	return &Room{
		Inbox:    make(chan request, 64),
		state:    game.New(startingScore),
		clients:  make(map[*models.Client]bool),
		archiver: archiver,
		logger:   logger,
		quit:     make(chan struct{}),
	}
}

func (r *Room) Stop() {
	r.stopOnce.Do(func() { close(r.quit) })
}

// Run はStopが呼ばれるまでコマンドを順に処理する
func (r *Room) Run() {
	for {
		select {
		case <-r.quit:
			for c := range r.clients {
				_ = c.Conn.Close()
				delete(r.clients, c)
			}
			return
		case req := <-r.Inbox:
			view, err := r.handleCommand(req.cmd)
			req.reply <- result{view: view, err: err}
		}
	}
}

// Submit enqueues cmd and waits until the room has applied it. The returned View reflects
// the state right after cmd. A non-nil error means cmd was not applied.
func (r *Room) Submit(ctx context.Context, cmd any) (View, error) {
	req := request{cmd: cmd, reply: make(chan result, 1)}
	select {
	case r.Inbox <- req:
	case <-r.quit:
		return View{}, ErrRoomClosed
	case <-ctx.Done():
		return View{}, ctx.Err()
	}

	select {
	case res := <-req.reply:
		return res.view, res.err
	case <-r.quit:
		return View{}, ErrRoomClosed
	case <-ctx.Done():
		return View{}, ctx.Err()
	}
}

func (r *Room) handleCommand(cmd any) (View, error) {
	s := r.state
	switch c := cmd.(type) {
	case Query:
		return r.view(), nil
	case Join:
		r.clients[c.Client] = true
		r.logger.Info("New client added", zap.String("role", c.Client.Role), zap.String("nickname", c.Client.Nickname))
		v := r.view()
		r.sendStateTo(c.Client, v)
		return v, nil
	case Leave:
		if r.clients[c.Client] {
			delete(r.clients, c.Client)
			_ = c.Client.Conn.Close()
			r.logger.Info("Client removed", zap.String("nickname", c.Client.Nickname))
		}
		return r.view(), nil
	case AddPlayer:
		p := s.AddPlayer(c.Name)
		r.logger.Info("Player added", zap.Int("id", p.ID), zap.String("name", p.Name))
	case RemovePlayer:
		if !s.RemovePlayer(c.ID) {
			r.logger.Info("Player not found, ignored", zap.Int("id", c.ID))
		}
	case ResetGame:
		r.archive()
		s.Reset()
		r.lastHit = nil
		r.logger.Info("Game reset", zap.Int("startingScore", s.StartingScore))
	case SetStartingScore:
		if !s.SetStartingScore(c.Score) {
			r.logger.Info("Invalid starting score, ignored", zap.Int("score", c.Score))
		}
	case ToggleRunning:
		s.ToggleRunning()
	case NextTurn:
		s.NextTurn()
	case SelectActivePlayer:
		if !s.SelectActivePlayer(c.Index) {
			r.logger.Info("Player index out of range, ignored", zap.Int("index", c.Index))
		}
	case UndoLast:
		if !s.UndoLast(c.PlayerIndex) {
			r.logger.Info("Nothing to undo", zap.Int("playerIndex", c.PlayerIndex))
		}
	case PointerHit:
		if err := board.CheckPointer(c.DX, c.DY, c.SurfaceRadius); err != nil {
			r.logger.Info("Invalid pointer hit, ignored", zap.Float64("radius", c.SurfaceRadius), zap.Error(err))
			return r.view(), err
		}
		r.recordHit(board.ResolvePointer(c.DX, c.DY, c.SurfaceRadius))
	case ManualHit:
		hit, err := board.ResolveManual(c.Target, c.Multiplier)
		if err != nil {
			r.logger.Info("Invalid manual hit, ignored", zap.String("target", c.Target), zap.Int("multiplier", c.Multiplier), zap.Error(err))
			return r.view(), err
		}
		r.recordHit(hit)
	default:
		r.logger.Warn("Received unknown command", zap.Any("command", cmd))
		return r.view(), nil
	}

	v := r.view()
	r.broadcastState(v)
	return v, nil
}

// 手番のプレイヤーに記録する。プレイヤーがいなければ判定結果だけを残す
func (r *Room) recordHit(hit board.Hit) {
	r.lastHit = &hit
	if !r.state.RecordHit(r.state.ActivePlayer, hit) {
		r.logger.Info("No active player, hit discarded", zap.String("hit", hit.Label()))
		return
	}
	r.logger.Info("Hit recorded",
		zap.Int("playerIndex", r.state.ActivePlayer),
		zap.String("hit", hit.Label()),
		zap.Int("score", hit.Score),
		zap.Bool("offBoard", hit.OffBoard),
	)
}

func (r *Room) archive() {
	if r.archiver == nil || r.state.Throws() == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), archiveTimeout)
	defer cancel()
	if err := r.archiver.ArchiveMatch(ctx, r.state); err != nil {
		r.logger.Error("Failed to archive match", zap.Error(err))
	}
}
