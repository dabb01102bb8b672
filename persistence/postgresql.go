// persistence/postgresql.go
package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/Holk-VB/riichiBackend/models"
)

// PostgreSQL is the database/sql Database implementation, for deployments
// that prefer hand-written SQL over the ORM.
type PostgreSQL struct {
	db *sql.DB
}

// NewPostgreSQL opens the database, verifies the connection and creates
// the tables.
func NewPostgreSQL(host string, port int, user, password, dbname string) (*PostgreSQL, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := initTables(db); err != nil {
		return nil, err
	}

	return &PostgreSQL{db: db}, nil
}

func initTables(db *sql.DB) error {
	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS games (
            id SERIAL PRIMARY KEY,
            game_id VARCHAR(255) UNIQUE NOT NULL,
            status VARCHAR(50) NOT NULL,
            seed BIGINT NOT NULL,
            snapshot JSONB NOT NULL,
            created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
            updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        )
    `)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
        CREATE TABLE IF NOT EXISTS hand_records (
            id SERIAL PRIMARY KEY,
            game_id VARCHAR(255) NOT NULL,
            status VARCHAR(50) NOT NULL,
            winner_id BIGINT,
            scores JSONB NOT NULL,
            kan_counter INT DEFAULT 0,
            created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        )
    `)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
        CREATE TABLE IF NOT EXISTS event_logs (
            id SERIAL PRIMARY KEY,
            game_id VARCHAR(255) NOT NULL,
            user_id BIGINT,
            type VARCHAR(100) NOT NULL,
            message TEXT NOT NULL,
            created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        )
    `)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
        CREATE INDEX IF NOT EXISTS idx_games_game_id ON games(game_id);
        CREATE INDEX IF NOT EXISTS idx_hand_records_game_id ON hand_records(game_id);
        CREATE INDEX IF NOT EXISTS idx_hand_records_winner_id ON hand_records(winner_id);
        CREATE INDEX IF NOT EXISTS idx_event_logs_game_id ON event_logs(game_id);
    `)

	return err
}

// SaveGameState upserts the latest snapshot of the game.
func (p *PostgreSQL) SaveGameState(snap *models.GameSnapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	query := `
        INSERT INTO games (game_id, status, seed, snapshot)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (game_id)
        DO UPDATE SET status = $2, snapshot = $4, updated_at = CURRENT_TIMESTAMP
    `

	_, err = p.db.ExecContext(ctx, query, snap.ID, snap.Status, int64(snap.Seed), raw)
	return err
}

// LoadGameState returns the stored snapshot of the game.
func (p *PostgreSQL) LoadGameState(gameID string) (*models.GameSnapshot, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var raw []byte
	query := `SELECT snapshot FROM games WHERE game_id = $1`
	err := p.db.QueryRowContext(ctx, query, gameID).Scan(&raw)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}

	var snap models.GameSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// DeleteGameState drops the stored snapshot once a game is over.
func (p *PostgreSQL) DeleteGameState(gameID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := p.db.ExecContext(ctx, `DELETE FROM games WHERE game_id = $1`, gameID)
	return err
}

// SaveHandRecord archives one finished hand.
func (p *PostgreSQL) SaveHandRecord(record *models.HandRecord) error {
	scores, err := json.Marshal(record.Scores)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	query := `
        INSERT INTO hand_records (game_id, status, winner_id, scores, kan_counter)
        VALUES ($1, $2, $3, $4, $5)
    `

	_, err = p.db.ExecContext(ctx, query,
		record.GameID, record.Status, record.WinnerID, scores, record.KanCounter)
	return err
}

// AppendEventLog writes one audit entry.
func (p *PostgreSQL) AppendEventLog(event *models.EventLog) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	query := `
        INSERT INTO event_logs (game_id, user_id, type, message)
        VALUES ($1, $2, $3, $4)
    `

	_, err := p.db.ExecContext(ctx, query,
		event.GameID, event.UserID, event.Type, event.Message)
	return err
}

// GetPlayerStats aggregates the archived hands the user played in.
func (p *PostgreSQL) GetPlayerStats(userID int64) (*models.PlayerStats, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	query := `
        SELECT
            COUNT(*),
            COALESCE(SUM(CASE WHEN winner_id = $1 THEN 1 ELSE 0 END), 0),
            COALESCE(SUM(CASE WHEN status = 'drawn' THEN 1 ELSE 0 END), 0)
        FROM hand_records
        WHERE jsonb_exists(scores, $2)
    `

	var stats models.PlayerStats
	err := p.db.QueryRowContext(ctx, query, userID, strconv.FormatInt(userID, 10)).
		Scan(&stats.TotalGames, &stats.Wins, &stats.Draws)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// Close closes the database connection.
func (p *PostgreSQL) Close() error {
	return p.db.Close()
}
