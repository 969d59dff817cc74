package screens

import (
	"net/http"
	"strings"
	"time"

	"dartserver/auth"
	"dartserver/middlewares"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SessionRequest は端末登録リクエストのボディを表す構造体です。
type SessionRequest struct {
	Nickname string `json:"nickname"` // 端末の表示名
	PIN      string `json:"pin"`      // 得点入力用のPIN
}

// SessionHandler は端末にトークンを発行するハンドラです。
// PINが一致すれば得点入力端末、そうでなければ表示専用端末のトークンを返します。
func SessionHandler(c *gin.Context, key []byte, scorerPIN string, logger *zap.Logger) {
	var request SessionRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		logger.Error("Request binding error", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Request binding error"})
		return
	}

	nickname := strings.TrimSpace(request.Nickname)
	if nickname == "" {
		nickname = "guest"
	}
	role := auth.RoleFor(request.PIN, scorerPIN)

	token, err := auth.GenerateToken(role, nickname, key, time.Now())
	if err != nil {
		logger.Error("Token generation error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Token generation failed"})
		return
	}

	logger.Info("Session issued", zap.String("nickname", nickname), zap.String("role", role))
	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"role":  role,
	})
}

// 現在のトークンの役割とニックネームを返す
func WhoAmIHandler(c *gin.Context) {
	claims, ok := middlewares.GetClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"role":     claims.Role,
		"nickname": claims.Nickname,
	})
}
