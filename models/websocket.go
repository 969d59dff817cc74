package models

// Websocketクライアントを定義
type Client struct {
	Conn      Conn
	Role      string // "Scorer" または "Viewer"
	Nickname  string
	SessionID string
}

// Conn はクライアントへの送信路。gorilla/websocketの接続をラップして使う
type Conn interface {
	Send(b []byte) error
	Close() error
}

// CanScore は得点操作が許可されているか
func (c *Client) CanScore() bool {
	return c.Role == RoleScorer
}
