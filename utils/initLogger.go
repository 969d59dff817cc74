package utils

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ロガーを初期化。debug が true の場合は開発用の設定を使う
func InitLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// Gin のミドルウェア用関数で、リクエストのログを取得します。
// WebSocketの接続はハンドラーが戻るまでの時間を記録する
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		c.Next()

		status := c.Writer.Status()
		level := zapcore.InfoLevel
		if status >= 500 {
			level = zapcore.ErrorLevel
		} else if status >= 400 {
			level = zapcore.WarnLevel
		}
		if ce := logger.Check(level, "request"); ce != nil {
			ce.Write(
				zap.String("method", c.Request.Method),
				zap.String("path", path),
				zap.Int("status", status),
				zap.Duration("latency", time.Since(start)),
				zap.String("clientIP", c.ClientIP()),
			)
		}
	}
}
