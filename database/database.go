package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"dartserver/internal/game"
	"dartserver/models"

	"github.com/caarlos0/env/v11"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// 設定のデフォルト値
const (
	DefaultListenAddr           = ":8080"
	DefaultArchiveRetentionDays = 30
)

// LoadConfig は .env、config.json、環境変数の順に設定を読み込む。
// ファイルが存在しない場合は環境変数とデフォルト値だけを使う
func LoadConfig(filename string) (models.Config, error) {
	var config models.Config

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return config, fmt.Errorf("load .env: %w", err)
	}

	configFile, err := os.Open(filename)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return config, err
	default:
		defer configFile.Close()
		if err := json.NewDecoder(configFile).Decode(&config); err != nil {
			return config, fmt.Errorf("decode %s: %w", filename, err)
		}
	}

	if err := env.Parse(&config); err != nil {
		return config, fmt.Errorf("parse env: %w", err)
	}

	if config.ListenAddr == "" {
		config.ListenAddr = DefaultListenAddr
	}
	if config.StartingScore <= 0 {
		config.StartingScore = game.DefaultStartingScore
	}
	if config.ArchiveRetentionDays <= 0 {
		config.ArchiveRetentionDays = DefaultArchiveRetentionDays
	}
	return config, nil
}

// LoadRedisConfig は環境変数からRedis接続情報を取得する
func LoadRedisConfig() (models.RedisConfig, error) {
	var config models.RedisConfig
	if err := env.Parse(&config); err != nil {
		return config, fmt.Errorf("parse env: %w", err)
	}
	return config, nil
}

// InitPostgreSQL はデータベースに接続し、対戦記録のテーブルを作成する
func InitPostgreSQL(config models.Config, logger *zap.Logger) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s user=%s dbname=%s password=%s sslmode=%s",
		config.DBHost, config.DBUser, config.DBName, config.DBPassword, config.DBSSLMode)

	const maxRetries = 3
	const retryInterval = 5 * time.Second
	var err error
	for i := 0; i <= maxRetries; i++ {
		var db *gorm.DB
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err == nil {
			if err := AutoMigrate(db); err != nil {
				return nil, err
			}
			return db, nil
		}
		logger.Error("データベース接続のリトライ", zap.Int("retry", i), zap.Error(err))
		if i < maxRetries {
			time.Sleep(retryInterval)
		}
	}
	return nil, fmt.Errorf("データベース接続に失敗しました: %w", err)
}

// テーブルの作成
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.MatchRecord{}, &models.PlayerResult{}); err != nil {
		return fmt.Errorf("migrate archive tables: %w", err)
	}
	return nil
}

func InitRedis(config models.RedisConfig, logger *zap.Logger) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})

	// Redisへの接続テスト
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis %s: %w", config.Addr, err)
	}

	logger.Info("Connected to Redis", zap.String("addr", config.Addr))
	return rdb, nil
}
