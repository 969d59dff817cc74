package middlewares

import (
	"dartserver/models"

	"github.com/gin-gonic/gin"
)

// AuthMiddlewareが検証したクレームをコンテキストから取り出します。
func GetClaims(c *gin.Context) (*models.MyClaims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*models.MyClaims)
	return claims, ok
}
