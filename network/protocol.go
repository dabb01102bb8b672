// network/protocol.go
package network

import (
	"github.com/Holk-VB/riichiBackend/tiles"
)

// Message ids. Requests below 300, server pushes from 300 up.
const (
	MsgTypeHeartbeat = 1
	MsgTypeError     = 2

	MsgTypeAuth = 10

	MsgTypeCreateGame = 101
	MsgTypeJoinGame   = 102
	MsgTypeLeaveGame  = 103
	MsgTypeListGames  = 104
	MsgTypeGetView    = 105

	MsgTypeDiscardTile = 201
	MsgTypeSendCall    = 202
	MsgTypePlayerStats = 203

	MsgTypeGameStart = 301
	MsgTypeGameSync  = 302
	MsgTypeGameEnd   = 303
)

// AuthRequest binds the connection to a user. Identity is taken on trust;
// account management lives outside this server.
type AuthRequest struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
}

// CreateGameRequest opens a new game, optionally with a fixed seed for
// replays. A zero seed means the server picks one.
type CreateGameRequest struct {
	Seed uint64 `json:"seed,omitempty"`
}

// JoinGameRequest joins a specific game, or any waiting game when ID is
// empty.
type JoinGameRequest struct {
	GameID string `json:"game_id,omitempty"`
}

// DiscardRequest discards one concealed tile on the player's turn.
type DiscardRequest struct {
	TileID int `json:"id"`
}

// CallRequest commits a call, in the call phase or on the player's own
// turn depending on the call type.
type CallRequest struct {
	Type string     `json:"type"`
	Suit tiles.Suit `json:"suit,omitempty"`
	Name string     `json:"name,omitempty"`
}

// StatsRequest asks for a user's archived hand statistics.
type StatsRequest struct {
	UserID int64 `json:"user_id"`
}

// ErrorResponse reports a rejected request.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Error codes carried by ErrorResponse.
const (
	CodeBadRequest   = 400
	CodeUnauthorized = 401
	CodeNotFound     = 404
	CodeConflict     = 409
	CodeInternal     = 500
)
