package game

import "errors"

var (
	// ErrInvalidStateTransition is returned for operations attempted in the
	// wrong phase: discarding out of turn, resolving a call phase that is
	// not open, and the like.
	ErrInvalidStateTransition = errors.New("operation not allowed in current hand state")

	// ErrIllegalCall is returned when a committed call is not among the
	// player's computed possible calls.
	ErrIllegalCall = errors.New("call is not possible for this player")

	// ErrNotPlayersTile is returned when a player acts on a tile that is
	// not in the expected stack.
	ErrNotPlayersTile = errors.New("tile is not in the player's hand")

	// ErrWallExhausted signals the draw condition: a pick was requested
	// from an empty live wall.
	ErrWallExhausted = errors.New("live wall is exhausted")

	ErrGameFull      = errors.New("game is already full")
	ErrAlreadyInGame = errors.New("user already joined this game")
	ErrNotInGame     = errors.New("user is not a player of this game")
)
