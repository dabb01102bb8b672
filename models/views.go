// models/views.go
package models

import (
	"time"

	"github.com/Holk-VB/riichiBackend/tiles"
)

// TileView is one tile as shown to a client.
type TileView struct {
	ID         int        `json:"id"`
	Suit       tiles.Suit `json:"suit"`
	Name       string     `json:"name"`
	Horizontal bool       `json:"horizontal,omitempty"`
}

// KindView names a tile kind without a concrete tile, used for doras.
type KindView struct {
	Suit tiles.Suit `json:"suit"`
	Name string     `json:"name"`
}

// MeldView is one exposed meld. Closed kan tiles are still listed; the
// opponent-facing hiding rule applies to concealed hands only.
type MeldView struct {
	Name   string     `json:"name"`
	Type   string     `json:"type"`
	Suit   tiles.Suit `json:"suit"`
	Opened bool       `json:"opened"`
	Tiles  []TileView `json:"tiles"`
}

// CallView mirrors a possible or committed call on the wire.
type CallView struct {
	Type string     `json:"type"`
	Suit tiles.Suit `json:"suit"`
	Name string     `json:"name"`
}

// PlayerView is one seat as shown to a client. Concealed tiles and
// possible calls are only populated for the viewing player; everyone else
// sees ConcealedCount alone.
type PlayerView struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Score    int    `json:"score"`
	Wind     string `json:"wind"`
	IsDealer bool   `json:"is_dealer"`
	CanPlay  bool   `json:"can_play"`
	InTenpai bool   `json:"in_tenpai"`

	ConcealedCount int        `json:"concealed_count"`
	Concealed      []TileView `json:"concealed,omitempty"`
	Discard        []TileView `json:"discard"`
	Melds          []MeldView `json:"melds"`

	PossibleCalls []CallView `json:"possible_calls,omitempty"`
	CallSent      *CallView  `json:"call_sent,omitempty"`
}

// DiscardView is the last discarded tile as shown to a client.
type DiscardView struct {
	TileID int        `json:"id"`
	Suit   tiles.Suit `json:"suit"`
	Name   string     `json:"name"`
}

// HandView is the running hand as shown to one client.
type HandView struct {
	Status         string       `json:"status"`
	NextWindToPlay string       `json:"next_wind_to_play"`
	InCallPhase    bool         `json:"in_call_phase"`
	KanCounter     int          `json:"kan_counter"`
	WallCount      int          `json:"wall_count"`
	Doras          []KindView   `json:"doras"`
	LastDiscarded  *DiscardView `json:"last_discarded,omitempty"`
	Players        []PlayerView `json:"players"`
}

// GameView is the full per-viewer game state pushed on every sync.
type GameView struct {
	ID             string    `json:"id"`
	Status         string    `json:"status"`
	PrevailingWind string    `json:"prevailing_wind"`
	CreatedAt      time.Time `json:"created_at"`
	Hand           *HandView `json:"hand,omitempty"`
}

// GameSummary is the light listing entry for the lobby, with no hand
// content at all.
type GameSummary struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	Seats     int       `json:"seats"`
	CreatedAt time.Time `json:"created_at"`
}
