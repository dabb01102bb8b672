// models/snapshot.go
package models

import (
	"time"

	"github.com/Holk-VB/riichiBackend/tiles"
)

// GameSnapshot is the complete serializable state of one game: everything
// needed to rebuild the game after a restart, including the random stream
// state so later walls stay reproducible.
type GameSnapshot struct {
	ID             string    `json:"id"`
	Seed           uint64    `json:"seed"`
	StreamState    []byte    `json:"stream_state"`
	Status         string    `json:"status"`
	PrevailingWind string    `json:"prevailing_wind"`
	CreatedAt      time.Time `json:"created_at"`

	Players []PlayerSnapshot `json:"players"`
	Hand    *HandSnapshot    `json:"hand,omitempty"`
}

// PlayerSnapshot holds one seat's state including its stacks. Melds ride
// on the player, not the hand: meld names can repeat across seats.
type PlayerSnapshot struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Score    int    `json:"score"`
	Wind     string `json:"wind"`
	IsDealer bool   `json:"is_dealer"`
	CanPlay  bool   `json:"can_play"`
	InTenpai bool   `json:"in_tenpai"`

	PossibleCalls []CallView `json:"possible_calls,omitempty"`
	CallSent      *CallView  `json:"call_sent,omitempty"`

	Concealed StackSnapshot   `json:"concealed"`
	Discard   StackSnapshot   `json:"discard"`
	Melds     []StackSnapshot `json:"melds,omitempty"`
}

// HandSnapshot holds the hand state machine and the shared tile stacks.
type HandSnapshot struct {
	KanCounter     int          `json:"kan_counter"`
	InCallPhase    bool         `json:"in_call_phase"`
	NextWindToPlay string       `json:"next_wind_to_play"`
	Status         string       `json:"status"`
	LastDiscarded  *DiscardView `json:"last_discarded,omitempty"`

	Wall           StackSnapshot `json:"wall"`
	DeadWall       StackSnapshot `json:"dead_wall"`
	DoraIndicators StackSnapshot `json:"dora_indicators"`
}

// StackSnapshot is one stack with its tiles in order.
type StackSnapshot struct {
	Name  string         `json:"name"`
	Role  tiles.Role     `json:"role"`
	Meld  *MeldInfo      `json:"meld,omitempty"`
	Tiles []TileSnapshot `json:"tiles"`
}

// MeldInfo mirrors the meld descriptor of a meld stack.
type MeldInfo struct {
	Type   string     `json:"type"`
	Suit   tiles.Suit `json:"suit"`
	Opened bool       `json:"opened"`
}

// TileSnapshot is one tile with its identity and orientation.
type TileSnapshot struct {
	ID         int        `json:"id"`
	Suit       tiles.Suit `json:"suit"`
	Name       string     `json:"name"`
	Horizontal bool       `json:"horizontal,omitempty"`
}

// HandRecord is the archived result of one finished hand.
type HandRecord struct {
	GameID     string        `json:"game_id"`
	Status     string        `json:"status"`
	WinnerID   int64         `json:"winner_id,omitempty"`
	Scores     map[int64]int `json:"scores"`
	KanCounter int           `json:"kan_counter"`
	CreatedAt  time.Time     `json:"created_at"`
}

// EventLog is one audit entry: a join, a discard, a call, a hand result.
type EventLog struct {
	GameID    string    `json:"game_id"`
	UserID    int64     `json:"user_id,omitempty"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// PlayerStats aggregates a user's archived hand records.
type PlayerStats struct {
	TotalGames int `json:"total_games"`
	Wins       int `json:"wins"`
	Draws      int `json:"draws"`
}
