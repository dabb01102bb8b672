// persistence/gorm_postgresql.go
package persistence

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Holk-VB/riichiBackend/models"
)

// GormPostgreSQL is the GORM-backed Database implementation.
type GormPostgreSQL struct {
	db *gorm.DB
}

// NewGormPostgreSQL opens the database, configures the pool and migrates
// the schema.
func NewGormPostgreSQL(host string, port int, user, password, dbname string) (*GormPostgreSQL, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logger.Silent,
			Colorful:      false,
		},
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := autoMigrate(db); err != nil {
		return nil, err
	}

	return &GormPostgreSQL{db: db}, nil
}

func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.GormGame{},
		&models.GormHandRecord{},
		&models.GormEventLog{},
	)
}

// SaveGameState upserts the latest snapshot of the game.
func (p *GormPostgreSQL) SaveGameState(snap *models.GameSnapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return err
	}

	var row models.GormGame
	result := p.db.Where("game_id = ?", snap.ID).First(&row)

	if result.Error == gorm.ErrRecordNotFound {
		row = models.GormGame{
			GameID:   snap.ID,
			Status:   snap.Status,
			Seed:     int64(snap.Seed),
			Snapshot: raw,
		}
		return p.db.Create(&row).Error
	} else if result.Error != nil {
		return result.Error
	}

	row.Status = snap.Status
	row.Snapshot = raw
	return p.db.Save(&row).Error
}

// LoadGameState returns the stored snapshot of the game.
func (p *GormPostgreSQL) LoadGameState(gameID string) (*models.GameSnapshot, error) {
	var row models.GormGame
	if err := p.db.Where("game_id = ?", gameID).First(&row).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}

	var snap models.GameSnapshot
	if err := json.Unmarshal(row.Snapshot, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// DeleteGameState drops the stored snapshot once a game is over.
func (p *GormPostgreSQL) DeleteGameState(gameID string) error {
	return p.db.Where("game_id = ?", gameID).Delete(&models.GormGame{}).Error
}

// SaveHandRecord archives one finished hand.
func (p *GormPostgreSQL) SaveHandRecord(record *models.HandRecord) error {
	scores, err := json.Marshal(record.Scores)
	if err != nil {
		return err
	}

	row := models.GormHandRecord{
		GameID:     record.GameID,
		Status:     record.Status,
		WinnerID:   record.WinnerID,
		Scores:     scores,
		KanCounter: record.KanCounter,
	}
	return p.db.Create(&row).Error
}

// AppendEventLog writes one audit entry.
func (p *GormPostgreSQL) AppendEventLog(event *models.EventLog) error {
	row := models.GormEventLog{
		GameID:  event.GameID,
		UserID:  event.UserID,
		Type:    event.Type,
		Message: event.Message,
	}
	return p.db.Create(&row).Error
}

// GetPlayerStats aggregates the archived hands the user played in.
func (p *GormPostgreSQL) GetPlayerStats(userID int64) (*models.PlayerStats, error) {
	var stats models.PlayerStats

	err := p.db.Raw(
		`
        SELECT
            COUNT(*) as total_games,
            SUM(CASE WHEN winner_id = ? THEN 1 ELSE 0 END) as wins,
            SUM(CASE WHEN status = 'drawn' THEN 1 ELSE 0 END) as draws
        FROM gorm_hand_records
        WHERE deleted_at IS NULL AND jsonb_exists(scores, ?)`,
		userID,
		strconv.FormatInt(userID, 10),
	).Scan(&stats).Error

	return &stats, err
}

// Close closes the underlying connection pool.
func (p *GormPostgreSQL) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
