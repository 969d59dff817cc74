package connection

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// 書き込みのタイムアウト
const writeWait = 10 * time.Second

// WSConn はgorilla/websocketの接続をmodels.Connとして使うためのラッパー。
// 同時に書き込めるのは1ゴルーチンだけなのでロックで直列化する
type WSConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func NewWSConn(conn *websocket.Conn) *WSConn {
	return &WSConn{conn: conn}
}

func (w *WSConn) Send(b []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	_ = w.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return w.conn.WriteMessage(websocket.TextMessage, b)
}

func (w *WSConn) Ping() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

func (w *WSConn) Close() error {
	return w.conn.Close()
}

// ReadMessage は読み取り専用のゴルーチンからだけ呼ぶ
func (w *WSConn) ReadMessage() ([]byte, error) {
	_, message, err := w.conn.ReadMessage()
	return message, err
}
