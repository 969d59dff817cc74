package utils

import (
	"time"

	"dartserver/database"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CronCleaner は保持期間を過ぎた対戦記録を毎日削除するジョブを開始する
func CronCleaner(db *gorm.DB, retentionDays int, logger *zap.Logger) (*cron.Cron, error) {
	c := cron.New()
	retention := time.Duration(retentionDays) * 24 * time.Hour

	_, err := c.AddFunc("@daily", func() {
		logger.Info("古い対戦記録を削除する処理を開始", zap.Int("retentionDays", retentionDays))
		deleted, err := database.PruneArchive(db, retention)
		if err != nil {
			logger.Error("対戦記録の削除に失敗しました", zap.Error(err))
			return
		}
		logger.Info("対戦記録の削除完了", zap.Int64("matches_deleted", deleted))
	})
	if err != nil {
		return nil, err
	}

	c.Start()
	return c, nil
}
