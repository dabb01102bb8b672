// models/gorm_models.go
package models

import (
	"gorm.io/gorm"
)

// GormGame persists one game's latest snapshot.
type GormGame struct {
	gorm.Model
	GameID   string `gorm:"uniqueIndex;not null"`
	Status   string `gorm:"not null"`
	Seed     int64  `gorm:"not null"`
	Snapshot []byte `gorm:"type:jsonb;not null"`
}

// GormHandRecord archives one finished hand.
type GormHandRecord struct {
	gorm.Model
	GameID     string `gorm:"index;not null"`
	Status     string `gorm:"not null"`
	WinnerID   int64  `gorm:"index"`
	Scores     []byte `gorm:"type:jsonb;not null"`
	KanCounter int    `gorm:"default:0"`
}

// GormEventLog is one append-only audit entry.
type GormEventLog struct {
	gorm.Model
	GameID  string `gorm:"index;not null"`
	UserID  int64  `gorm:"index"`
	Type    string `gorm:"not null"`
	Message string `gorm:"not null"`
}
