package middlewares

import (
	"net/http"

	"dartserver/auth"
	"dartserver/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const claimsKey = "claims"

// トークン検証と役割の確認を行うミドルウェア。
// requireScorer が true の場合、得点入力端末のトークン以外は拒否する
func AuthMiddleware(key []byte, requireScorer bool, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := auth.ParseToken(c.GetHeader("Authorization"), key)
		if err != nil {
			logger.Warn("認証失敗", zap.String("path", c.Request.URL.Path), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		if requireScorer && claims.Role != models.RoleScorer {
			logger.Warn("得点入力の権限がありません", zap.String("nickname", claims.Nickname), zap.String("role", claims.Role))
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Scorer role required"})
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}
