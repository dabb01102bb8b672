// persistence/interface.go
package persistence

import (
	"fmt"

	"github.com/Holk-VB/riichiBackend/models"
)

// Database stores game snapshots, archived hand results and the audit
// log. Both implementations talk to PostgreSQL; the interface keeps the
// driver choice out of the callers.
type Database interface {
	SaveGameState(snap *models.GameSnapshot) error
	LoadGameState(gameID string) (*models.GameSnapshot, error)
	DeleteGameState(gameID string) error
	SaveHandRecord(record *models.HandRecord) error
	AppendEventLog(event *models.EventLog) error
	GetPlayerStats(userID int64) (*models.PlayerStats, error)
	Close() error
}

var (
	ErrRecordNotFound = fmt.Errorf("record not found")
)
