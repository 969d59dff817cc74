package darts

import (
	"context"
	"encoding/json"
	"net/http"

	"dartserver/darts/connection"
	"dartserver/darts/session"
	"dartserver/internal/board"
	"dartserver/models"

	"go.uber.org/zap"

	"github.com/gorilla/websocket"
)

// WebSocket接続へのアップグレードを行う関数
func HandleConnections(ctx context.Context, w http.ResponseWriter, r *http.Request, room *Room, key []byte, store *session.Store, upgrader websocket.Upgrader, logger *zap.Logger) {
	client, err := connection.FetchClientContext(ctx, r, key, store, logger)
	if err != nil {
		logger.Error("Error fetching client context", zap.Error(err))
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	// WebSocket接続へのアップグレードと確立
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("Error upgrading WebSocket", zap.Error(err))
		return
	}
	wsConn := connection.NewWSConn(conn)
	client.Conn = wsConn
	if err := connection.PrepareRead(wsConn); err != nil {
		logger.Error("Error setting read deadline", zap.Error(err))
		_ = wsConn.Close()
		return
	}

	// セッションIDをクライアントに送り返す
	if client.SessionID != "" {
		sessionJSON, _ := json.Marshal(map[string]string{"type": "session", "sessionID": client.SessionID, "role": client.Role})
		if err := wsConn.Send(sessionJSON); err != nil {
			logger.Error("Error sending session ID to client", zap.Error(err))
		}
	}

	// リクエストのコンテキストはハンドラーが戻ると終わるので、接続用のコンテキストを使う
	connCtx, cancel := context.WithCancel(context.Background())
	if _, err := room.Submit(connCtx, Join{Client: client}); err != nil {
		cancel()
		logger.Error("Failed to join room", zap.Error(err))
		_ = wsConn.Close()
		return
	}

	go connection.MaintainWebSocketConnection(wsConn, connCtx.Done(), logger)
	go func() {
		defer cancel()
		HandleClient(connCtx, client, wsConn, room, logger)
	}()
}

// クライアントごとにメッセージ読み取りするゴルーチン
func HandleClient(ctx context.Context, client *models.Client, conn *connection.WSConn, room *Room, logger *zap.Logger) {
	defer func() {
		// Roomが止まっている場合でも接続は閉じる
		if _, err := room.Submit(ctx, Leave{Client: client}); err != nil {
			_ = conn.Close()
		}
	}()

	for {
		message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Error("WebSocket error", zap.Error(err))
			}
			return
		}

		cmd, err := DecodeCommand(message)
		if err != nil {
			logger.Info("Invalid message", zap.ByteString("message", message), zap.Error(err))
			SendErrorMessage(conn, err.Error(), logger)
			continue
		}
		if IsCommand(cmd) && !client.CanScore() {
			SendErrorMessage(conn, "Scorer role required", logger)
			continue
		}

		view, err := room.Submit(ctx, cmd)
		switch {
		case board.IsInputError(err):
			SendErrorMessage(conn, err.Error(), logger)
		case err != nil:
			logger.Error("Failed to submit command", zap.Error(err))
			return
		case !IsCommand(cmd):
			// 状態の問い合わせには本人にだけ返す
			stateJSON, _ := json.Marshal(stateMessage{Type: "gameState", View: view})
			if err := conn.Send(stateJSON); err != nil {
				logger.Error("Failed to send game state", zap.Error(err))
				return
			}
		}
	}
}
