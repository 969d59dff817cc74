package darts

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"dartserver/internal/board"
	"dartserver/internal/game"
	"dartserver/models"
)

type fakeConn struct {
	sendCh chan []byte
	fail   bool
	closed bool
}

func newFakeConn() *fakeConn {
	return &fakeConn{sendCh: make(chan []byte, 64)}
}

func (f *fakeConn) Send(b []byte) error {
	if f.fail {
		return errors.New("broken pipe")
	}
	cp := make([]byte, len(b))
	copy(cp, b)
	f.sendCh <- cp
	return nil
}

func (f *fakeConn) Close() error {
	f.closed = true
	return nil
}

type fakeArchiver struct {
	calls  int
	scores []int
}

func (a *fakeArchiver) ArchiveMatch(_ context.Context, state *game.State) error {
	a.calls++
	a.scores = a.scores[:0]
	for _, p := range state.Players {
		a.scores = append(a.scores, p.Score)
	}
	return nil
}

func startRoom(t *testing.T, archiver Archiver) *Room {
	t.Helper()
	r := NewRoom(501, archiver, zap.NewNop())
	go r.Run()
	t.Cleanup(r.Stop)
	return r
}

func submit(t *testing.T, r *Room, cmd any) View {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	v, err := r.Submit(ctx, cmd)
	require.NoError(t, err)
	return v
}

func nextState(t *testing.T, fc *fakeConn) stateMessage {
	t.Helper()
	select {
	case b := <-fc.sendCh:
		var msg stateMessage
		require.NoError(t, json.Unmarshal(b, &msg))
		require.Equal(t, "gameState", msg.Type)
		return msg
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for state broadcast")
	}
	return stateMessage{}
}

func TestRoomRecordsPointerHitForActivePlayer(t *testing.T) {
	r := startRoom(t, nil)
	submit(t, r, AddPlayer{Name: "Ann"})
	submit(t, r, AddPlayer{Name: "Bob"})
	submit(t, r, NextTurn{})

	v := submit(t, r, PointerHit{DX: 0, DY: -100, SurfaceRadius: 200})

	require.Len(t, v.Players, 2)
	assert.Equal(t, 501, v.Players[0].Score)
	assert.Equal(t, 441, v.Players[1].Score)
	assert.Equal(t, []game.ScoreEvent{{Description: "T20", Delta: -60}}, v.Players[1].History)
	require.NotNil(t, v.LastHit)
	assert.Equal(t, 60, v.LastHit.Score)
	assert.Equal(t, 1, v.ActivePlayerIndex)
}

func TestRoomManualHitAndUndo(t *testing.T) {
	r := startRoom(t, nil)
	submit(t, r, AddPlayer{Name: "Ann"})
	submit(t, r, ManualHit{Target: "BULL", Multiplier: 1})
	v := submit(t, r, ManualHit{Target: "19", Multiplier: 2})
	assert.Equal(t, 501-50-38, v.Players[0].Score)

	v = submit(t, r, UndoLast{PlayerIndex: 0})
	assert.Equal(t, 451, v.Players[0].Score)
	require.Len(t, v.Players[0].History, 1)
	assert.Equal(t, "BULL", v.Players[0].History[0].Description)
}

func TestRoomRejectsInvalidManualHit(t *testing.T) {
	r := startRoom(t, nil)
	submit(t, r, AddPlayer{Name: "Ann"})

	_, err := r.Submit(context.Background(), ManualHit{Target: "25", Multiplier: 1})
	assert.ErrorIs(t, err, board.ErrUnknownSector)

	v := submit(t, r, Query{})
	assert.Equal(t, 501, v.Players[0].Score)
	assert.Nil(t, v.LastHit)
}

func TestRoomRejectsUnplaceablePointer(t *testing.T) {
	r := startRoom(t, nil)
	fc := newFakeConn()
	submit(t, r, Join{Client: &models.Client{Conn: fc, Role: models.RoleViewer}})
	nextState(t, fc)
	submit(t, r, AddPlayer{Name: "Ann"})
	nextState(t, fc)

	_, err := r.Submit(context.Background(), PointerHit{DX: 3, DY: 4, SurfaceRadius: 5e-324})
	assert.ErrorIs(t, err, board.ErrInvalidPosition)
	assert.Len(t, fc.sendCh, 0)

	v := submit(t, r, NextTurn{})
	assert.Equal(t, 501, v.Players[0].Score)
	assert.Nil(t, v.LastHit)
	_, err = json.Marshal(v)
	assert.NoError(t, err)
	nextState(t, fc)
}

func TestRoomDiscardsHitWithoutPlayers(t *testing.T) {
	r := startRoom(t, nil)

	v := submit(t, r, PointerHit{DX: 0, DY: 0, SurfaceRadius: 50})
	assert.Empty(t, v.Players)
	require.NotNil(t, v.LastHit)
	assert.Equal(t, 50, v.LastHit.Score)
	assert.Equal(t, 0, v.ActivePlayerIndex)
}

func TestRoomRemovePlayerResetsActive(t *testing.T) {
	r := startRoom(t, nil)
	for _, name := range []string{"Ann", "Bob", "Cid"} {
		submit(t, r, AddPlayer{Name: name})
	}
	v := submit(t, r, SelectActivePlayer{Index: 2})
	require.Equal(t, 2, v.ActivePlayerIndex)

	v = submit(t, r, RemovePlayer{ID: v.Players[1].ID})
	assert.Equal(t, 0, v.ActivePlayerIndex)
	assert.Len(t, v.Players, 2)
}

func TestRoomJoinBroadcastsState(t *testing.T) {
	r := startRoom(t, nil)
	fc := newFakeConn()
	client := &models.Client{Conn: fc, Role: models.RoleViewer, Nickname: "wall"}

	submit(t, r, Join{Client: client})
	first := nextState(t, fc)
	assert.Empty(t, first.Players)
	assert.Equal(t, 501, first.StartingScore)

	submit(t, r, AddPlayer{Name: "Ann"})
	msg := nextState(t, fc)
	require.Len(t, msg.Players, 1)
	assert.Equal(t, "Ann", msg.Players[0].Name)

	submit(t, r, ToggleRunning{})
	msg = nextState(t, fc)
	assert.True(t, msg.Running)

	submit(t, r, Leave{Client: client})
	assert.True(t, fc.closed)
}

func TestRoomQueryDoesNotBroadcast(t *testing.T) {
	r := startRoom(t, nil)
	fc := newFakeConn()
	submit(t, r, Join{Client: &models.Client{Conn: fc, Role: models.RoleViewer}})
	nextState(t, fc)

	submit(t, r, Query{})
	assert.Len(t, fc.sendCh, 0)
}

func TestRoomDropsFailingClient(t *testing.T) {
	r := startRoom(t, nil)
	good := newFakeConn()
	bad := newFakeConn()
	submit(t, r, Join{Client: &models.Client{Conn: good, Role: models.RoleViewer}})
	submit(t, r, Join{Client: &models.Client{Conn: bad, Role: models.RoleViewer}})
	nextState(t, good)
	nextState(t, bad)

	bad.fail = true
	submit(t, r, AddPlayer{Name: "Ann"})
	nextState(t, good)

	// Roomのゴルーチンで処理が終わった後に確認する
	submit(t, r, Query{})
	assert.True(t, bad.closed)
	assert.False(t, good.closed)
}

func TestRoomResetArchivesFinalScores(t *testing.T) {
	archiver := &fakeArchiver{}
	r := startRoom(t, archiver)

	submit(t, r, ResetGame{})
	assert.Zero(t, archiver.calls, "nothing thrown yet")

	submit(t, r, AddPlayer{Name: "Ann"})
	submit(t, r, ManualHit{Target: "20", Multiplier: 3})
	submit(t, r, SetStartingScore{Score: 301})
	v := submit(t, r, ResetGame{})

	assert.Equal(t, 1, archiver.calls)
	assert.Equal(t, []int{441}, archiver.scores)
	assert.Equal(t, 301, v.Players[0].Score)
	assert.Empty(t, v.Players[0].History)
	assert.Nil(t, v.LastHit)
	assert.False(t, v.Running)
}

func TestRoomSubmitAfterStop(t *testing.T) {
	r := NewRoom(501, nil, zap.NewNop())
	go r.Run()
	r.Stop()

	_, err := r.Submit(context.Background(), Query{})
	assert.ErrorIs(t, err, ErrRoomClosed)
}

func TestRoomSubmitHonoursContext(t *testing.T) {
	// Runを起動していないのでInboxが埋まると待ち続ける
	r := NewRoom(501, nil, zap.NewNop())
	for i := 0; i < cap(r.Inbox); i++ {
		r.Inbox <- request{cmd: Query{}, reply: make(chan result, 1)}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := r.Submit(ctx, Query{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
