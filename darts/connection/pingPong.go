package connection

import (
	"time"

	"go.uber.org/zap"
)

const (
	pingPeriod = 10 * time.Second // 10秒ごとにPingを送信
	pongWait   = 60 * time.Second // 60秒の読み取りデッドライン
)

// PrepareRead は最初の読み取りデッドラインとPongハンドラーを設定する。
// 読み取り側の設定なので、読み取りゴルーチンを起動する前に呼ぶ
func PrepareRead(c *WSConn) error {
	// Pongメッセージを受信したら読み取りデッドラインを更新
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	return c.conn.SetReadDeadline(time.Now().Add(pongWait))
}

// MaintainWebSocketConnection はPingを送り続けて接続を維持する。
// Pingの送信に失敗するか done が閉じられると戻る
func MaintainWebSocketConnection(c *WSConn, done <-chan struct{}, logger *zap.Logger) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := c.Ping(); err != nil {
				logger.Error("Error sending ping", zap.Error(err))
				return
			}
		}
	}
}
