package models

import (
	"gorm.io/gorm"
)

// MatchRecord はリセット時点の最終スコアの記録。ライブの対戦には読み戻さない
type MatchRecord struct {
	gorm.Model
	StartingScore int            `gorm:"not null"`
	Throws        int            `gorm:"not null;default:0"`
	Players       []PlayerResult `gorm:"foreignKey:MatchRecordID"`
}

// PlayerResult は1プレイヤー分の結果
type PlayerResult struct {
	gorm.Model
	MatchRecordID uint   `gorm:"index"`
	PlayerID      int    `gorm:"not null"`
	Name          string `gorm:"not null"`
	FinalScore    int    `gorm:"not null"`
	Throws        int    `gorm:"not null;default:0"`
}
