package database

import (
	"context"
	"fmt"
	"time"

	"dartserver/internal/game"
	"dartserver/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Archive は対戦の最終スコアを書き込むだけで、ライブの対戦には読み戻さない
type Archive struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewArchive(db *gorm.DB, logger *zap.Logger) *Archive {
	return &Archive{db: db, logger: logger}
}

// ArchiveMatch stores the standings of state in one transaction.
func (a *Archive) ArchiveMatch(ctx context.Context, state *game.State) error {
	record := models.MatchRecord{
		StartingScore: state.StartingScore,
		Throws:        state.Throws(),
	}

	err := a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Players").Create(&record).Error; err != nil {
			return err
		}
		if len(state.Players) == 0 {
			return nil
		}
		results := make([]models.PlayerResult, 0, len(state.Players))
		for _, p := range state.Players {
			results = append(results, models.PlayerResult{
				MatchRecordID: record.ID,
				PlayerID:      p.ID,
				Name:          p.Name,
				FinalScore:    p.Score,
				Throws:        len(p.History),
			})
		}
		return tx.Create(&results).Error
	})
	if err != nil {
		return fmt.Errorf("archive match: %w", err)
	}

	a.logger.Info("Match archived", zap.Uint("matchID", record.ID), zap.Int("players", len(state.Players)))
	return nil
}

// PruneArchive は olderThan より古い対戦記録を削除し、削除した対戦数を返す
func PruneArchive(db *gorm.DB, olderThan time.Duration) (int64, error) {
	var expiredIDs []uint
	cutoff := time.Now().Add(-olderThan)
	if err := db.Model(&models.MatchRecord{}).Where("created_at <= ?", cutoff).Pluck("id", &expiredIDs).Error; err != nil {
		return 0, fmt.Errorf("find expired matches: %w", err)
	}
	if len(expiredIDs) == 0 {
		return 0, nil
	}

	var deleted int64
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("match_record_id IN ?", expiredIDs).Delete(&models.PlayerResult{}).Error; err != nil {
			return err
		}
		result := tx.Unscoped().Where("id IN ?", expiredIDs).Delete(&models.MatchRecord{})
		deleted = result.RowsAffected
		return result.Error
	})
	if err != nil {
		return 0, fmt.Errorf("prune archive: %w", err)
	}
	return deleted, nil
}
