package main

import (
	"crypto/rand"
	"net/http"
	"time"

	"go.uber.org/zap"

	"dartserver/darts"         //対戦ルームとWebSocketの処理
	"dartserver/darts/session" //Redisによるセッション復旧
	"dartserver/database"      //設定の読み込み、PostgreSQLとRedisの初期化
	"dartserver/screens"       //HTTPリクエストの処理
	"dartserver/utils"         //ロガーの初期化とCronジョブ(対戦記録の定期クリーンナップ)

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/gorilla/websocket"
)

func main() {
	config, err := database.LoadConfig("config.json")
	if err != nil {
		panic(err) // 設定が読めない場合はプログラム停止
	}

	logger, err := utils.InitLogger(config.Debug) // ロガーの初期化
	if err != nil {
		panic(err)
	}
	defer logger.Sync() // ロガーのクリーンアップ

	// JWTの署名鍵。未設定の場合は起動ごとに生成するので、再起動で発行済みトークンは無効になる
	jwtKey := []byte(config.JWTSecret)
	if len(jwtKey) == 0 {
		jwtKey = make([]byte, 32)
		if _, err := rand.Read(jwtKey); err != nil {
			logger.Fatal("署名鍵の生成に失敗しました", zap.Error(err))
		}
		logger.Warn("DARTS_JWT_SECRET が未設定のため、ランダムな署名鍵を使用します")
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}

	// 対戦記録の保存はPostgreSQLが設定されている場合のみ
	var archiver darts.Archiver
	if config.DBHost != "" {
		db, err := database.InitPostgreSQL(config, logger)
		if err != nil {
			logger.Fatal("PostgreSQLの初期化に失敗しました", zap.Error(err))
		}
		archiver = database.NewArchive(db, logger)

		// クーロンスケジューラのセットアップと呼び出し
		cleaner, err := utils.CronCleaner(db, config.ArchiveRetentionDays, logger)
		if err != nil {
			logger.Fatal("Cronジョブの登録に失敗しました", zap.Error(err))
		}
		defer cleaner.Stop()
	} else {
		logger.Info("DB_HOST is not set, match archive disabled")
	}

	// Redisに接続できない場合はセッション復旧なしで起動する
	var rdb *redis.Client
	redisConfig, err := database.LoadRedisConfig()
	if err != nil {
		logger.Fatal("Redis設定の読み込みに失敗しました", zap.Error(err))
	}
	rdb, err = database.InitRedis(redisConfig, logger)
	if err != nil {
		logger.Warn("Failed to initialize Redis, session resume disabled", zap.Error(err))
	} else {
		defer rdb.Close()
	}
	store := session.NewStore(rdb, logger)

	room := darts.NewRoom(config.StartingScore, archiver, logger)
	go room.Run()
	defer room.Stop()

	router := gin.New()
	//リクエストロガーを起動
	router.Use(gin.Recovery(), utils.RequestLogger(logger))

	//CORS（Cross-Origin Resource Sharing）ポリシーを設定
	allowOrigins := config.AllowOrigins
	if len(allowOrigins) == 0 {
		allowOrigins = []string{"http://localhost:8080"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "SessionID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	//各HTTPリクエストのルーティング
	screens.RegisterRoutes(router, room, jwtKey, config.ScorerPIN, logger)
	router.GET("/ws", func(c *gin.Context) {
		darts.HandleConnections(c.Request.Context(), c.Writer, c.Request, room, jwtKey, store, upgrader, logger)
	})

	logger.Info("Starting dart server", zap.String("addr", config.ListenAddr), zap.Int("startingScore", config.StartingScore))
	if err := router.Run(config.ListenAddr); err != nil {
		logger.Fatal("Failed to run HTTP server", zap.Error(err))
	}
}
