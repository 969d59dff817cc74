package screens

import (
	"dartserver/darts"
	"dartserver/middlewares"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RegisterRoutes は /api 以下のHTTPリクエストのルーティングを登録する
func RegisterRoutes(router gin.IRouter, room *darts.Room, key []byte, scorerPIN string, logger *zap.Logger) {
	api := router.Group("/api")
	api.POST("/session", func(c *gin.Context) {
		SessionHandler(c, key, scorerPIN, logger)
	})

	viewer := api.Group("", middlewares.AuthMiddleware(key, false, logger))
	viewer.GET("/session", WhoAmIHandler)
	viewer.GET("/state", func(c *gin.Context) {
		StateHandler(c, room, logger)
	})

	// 得点入力端末だけが状態を変更できる
	scorer := api.Group("", middlewares.AuthMiddleware(key, true, logger))
	scorer.POST("/players", func(c *gin.Context) {
		AddPlayerHandler(c, room, logger)
	})
	scorer.DELETE("/players/:id", func(c *gin.Context) {
		RemovePlayerHandler(c, room, logger)
	})
	scorer.POST("/players/:index/undo", func(c *gin.Context) {
		UndoLastHandler(c, room, logger)
	})
	scorer.PUT("/active-player", func(c *gin.Context) {
		SelectActivePlayerHandler(c, room, logger)
	})
	scorer.POST("/turn/next", func(c *gin.Context) {
		submitCommand(c, room, darts.NextTurn{}, logger)
	})
	scorer.POST("/reset", func(c *gin.Context) {
		submitCommand(c, room, darts.ResetGame{}, logger)
	})
	scorer.PUT("/starting-score", func(c *gin.Context) {
		SetStartingScoreHandler(c, room, logger)
	})
	scorer.POST("/running/toggle", func(c *gin.Context) {
		submitCommand(c, room, darts.ToggleRunning{}, logger)
	})
	scorer.POST("/hits/pointer", func(c *gin.Context) {
		PointerHitHandler(c, room, logger)
	})
	scorer.POST("/hits/manual", func(c *gin.Context) {
		ManualHitHandler(c, room, logger)
	})
}
