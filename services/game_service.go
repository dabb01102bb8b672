// services/game_service.go
package services

import (
	"encoding/binary"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Holk-VB/riichiBackend/broadcast"
	"github.com/Holk-VB/riichiBackend/game"
	"github.com/Holk-VB/riichiBackend/logger"
	"github.com/Holk-VB/riichiBackend/models"
	"github.com/Holk-VB/riichiBackend/network"
	"github.com/Holk-VB/riichiBackend/persistence"
	"github.com/Holk-VB/riichiBackend/timer"
)

// GameService orchestrates every game mutation: it takes the per-game
// lock, drives the hand state machine, runs the call-phase window timer,
// persists snapshots and pushes syncs. Handlers never touch a game
// directly.
type GameService struct {
	games       *game.Manager
	db          persistence.Database
	timers      *timer.Manager
	broadcaster broadcast.Broadcaster
	callWait    time.Duration

	// gameID -> pending call-window timer id.
	callTimers sync.Map
}

func NewGameService(games *game.Manager, db persistence.Database, timers *timer.Manager, broadcaster broadcast.Broadcaster, callWait time.Duration) *GameService {
	return &GameService{
		games:       games,
		db:          db,
		timers:      timers,
		broadcaster: broadcaster,
		callWait:    callWait,
	}
}

// CreateGame opens a new game. A zero seed derives one from the game id,
// so a recorded id reproduces the whole game.
func (s *GameService) CreateGame(seed uint64) *game.Game {
	id := uuid.New()
	if seed == 0 {
		seed = binary.BigEndian.Uint64(id[:8])
	}

	g := s.games.CreateGame(id.String(), seed)
	s.logEvent(g.ID, 0, "game_created", fmt.Sprintf("game created with seed %d", seed))
	s.persist(g)
	return g
}

// JoinGame seats the user in the requested game, or in any waiting game
// (creating one if needed) when gameID is empty. The fourth seat starts
// the game.
func (s *GameService) JoinGame(userID int64, username, gameID string) (*game.Game, error) {
	var g *game.Game
	if gameID == "" {
		if g = s.games.FindJoinable(); g == nil {
			g = s.CreateGame(0)
		}
	} else {
		var exists bool
		if g, exists = s.games.Get(gameID); !exists {
			restored, err := s.loadGame(gameID)
			if err != nil {
				return nil, err
			}
			g = restored
		}
	}

	g.Lock()
	defer g.Unlock()

	if _, err := g.AddPlayer(userID, username); err != nil {
		return nil, err
	}
	s.logEvent(g.ID, userID, "player_joined", fmt.Sprintf("%s joined", username))

	if g.Full() {
		if err := g.Start(); err != nil {
			return nil, err
		}
		s.logEvent(g.ID, 0, "game_started", "all seats taken, hand dealt")
		s.persist(g)
		s.broadcaster.BroadcastToGame(g.ID, network.MsgTypeGameStart, broadcast.GameSummary(g))
		s.broadcaster.SyncGame(g)
		return g, nil
	}

	s.persist(g)
	s.broadcaster.SyncGame(g)
	return g, nil
}

// LeaveGame unseats the user from a waiting game.
func (s *GameService) LeaveGame(userID int64, gameID string) error {
	g, exists := s.games.Get(gameID)
	if !exists {
		return broadcast.ErrGameNotFound
	}

	g.Lock()
	defer g.Unlock()

	if err := g.RemovePlayer(userID); err != nil {
		return err
	}
	s.logEvent(g.ID, userID, "player_left", "player left the lobby")

	if len(g.Players) == 0 {
		s.games.Remove(g.ID)
		if err := s.db.DeleteGameState(g.ID); err != nil {
			logger.Log.Warnw("delete game state failed", "game", g.ID, "error", err)
		}
		return nil
	}

	s.persist(g)
	s.broadcaster.SyncGame(g)
	return nil
}

// Discard plays the identified tile for the user and opens the call
// window. When nobody can call, the window is skipped and the turn passes
// immediately.
func (s *GameService) Discard(userID int64, gameID string, tileID int) error {
	g, exists := s.games.Get(gameID)
	if !exists {
		return broadcast.ErrGameNotFound
	}

	g.Lock()
	defer g.Unlock()

	p, h, err := s.seatedPlayer(g, userID)
	if err != nil {
		return err
	}

	if err := h.PlayerDiscard(p, tileID); err != nil {
		return err
	}
	s.logEvent(g.ID, userID, "discard", fmt.Sprintf("%s discarded %s %s", p.Wind, h.LastDiscarded.Suit, h.LastDiscarded.Name))

	if err := h.StartCallPhase(); err != nil {
		return err
	}

	if anyPossibleCalls(h) {
		timerID := s.timers.Schedule(s.callWait, func() {
			s.expireCallWindow(g.ID)
		})
		s.callTimers.Store(g.ID, timerID)
	} else {
		if err := s.resolveCallPhase(g); err != nil {
			return err
		}
	}

	s.persist(g)
	s.broadcaster.SyncGame(g)
	return nil
}

// CommitCall commits a call for the user. Call-phase calls wait for the
// window to resolve, closing it early once every eligible player has
// committed. Turn-phase calls (closed kan, tsumo, riichi) execute at once.
func (s *GameService) CommitCall(userID int64, gameID string, call game.Call) error {
	g, exists := s.games.Get(gameID)
	if !exists {
		return broadcast.ErrGameNotFound
	}

	g.Lock()
	defer g.Unlock()

	p, h, err := s.seatedPlayer(g, userID)
	if err != nil {
		return err
	}

	if err := p.SendCall(call); err != nil {
		return err
	}
	s.logEvent(g.ID, userID, "call", fmt.Sprintf("%s called %s %s", p.Wind, call.Type, call.Name))

	if h.InCallPhase {
		if allEligibleCommitted(h) {
			s.cancelCallTimer(g.ID)
			if err := s.resolveCallPhase(g); err != nil {
				return err
			}
		}
		s.persist(g)
		s.broadcaster.SyncGame(g)
		return nil
	}

	// Turn-phase call: execute immediately and continue the caller's turn
	// with the replacement draw.
	if err := h.PlayerCall(p); err != nil {
		p.CallSent = nil
		return err
	}
	p.ClearCalls()
	if err := h.NextTurn(true); err != nil {
		if err == game.ErrWallExhausted {
			s.finishHand(g)
		} else {
			return err
		}
	}

	s.persist(g)
	s.broadcaster.SyncGame(g)
	return nil
}

// View returns the per-viewer game state.
func (s *GameService) View(userID int64, gameID string) (*models.GameView, error) {
	g, exists := s.games.Get(gameID)
	if !exists {
		return nil, broadcast.ErrGameNotFound
	}

	g.Lock()
	defer g.Unlock()
	return broadcast.GameView(g, userID), nil
}

// ListGames returns the light lobby listing.
func (s *GameService) ListGames() []models.GameSummary {
	var out []models.GameSummary
	for _, g := range s.games.All() {
		g.Lock()
		out = append(out, broadcast.GameSummary(g))
		g.Unlock()
	}
	return out
}

// PlayerStats returns a user's archived hand statistics.
func (s *GameService) PlayerStats(userID int64) (*models.PlayerStats, error) {
	return s.db.GetPlayerStats(userID)
}

// GameCount reports live games, for monitoring.
func (s *GameService) GameCount() int {
	return s.games.Count()
}

// expireCallWindow is the timer callback closing a call window that ran
// its full wait. The check under the lock makes it idempotent: a window
// already resolved early is left alone.
func (s *GameService) expireCallWindow(gameID string) {
	g, exists := s.games.Get(gameID)
	if !exists {
		return
	}

	g.Lock()
	defer g.Unlock()

	if g.CurrentHand == nil || !g.CurrentHand.InCallPhase {
		return
	}
	s.callTimers.Delete(gameID)

	if err := s.resolveCallPhase(g); err != nil {
		logger.Log.Errorw("call window resolution failed", "game", gameID, "error", err)
		return
	}
	s.persist(g)
	s.broadcaster.SyncGame(g)
}

// resolveCallPhase ends the window and advances the turn, ending the hand
// on an exhausted wall.
func (s *GameService) resolveCallPhase(g *game.Game) error {
	if err := g.CurrentHand.EndCallPhase(); err != nil {
		if err == game.ErrWallExhausted {
			s.finishHand(g)
			return nil
		}
		return err
	}
	return nil
}

// finishHand archives the finished hand and closes the game.
func (s *GameService) finishHand(g *game.Game) {
	h := g.CurrentHand
	record := &models.HandRecord{
		GameID:     g.ID,
		Status:     string(h.Status),
		Scores:     make(map[int64]int),
		KanCounter: h.KanCounter,
		CreatedAt:  time.Now(),
	}
	for _, p := range g.Players {
		record.Scores[p.UserID] = p.Score
	}
	if err := s.db.SaveHandRecord(record); err != nil {
		logger.Log.Warnw("hand record save failed", "game", g.ID, "error", err)
	}
	s.logEvent(g.ID, 0, "hand_finished", fmt.Sprintf("hand ended as %s", h.Status))

	g.Status = game.StatusOver
	s.persist(g)
	s.broadcaster.BroadcastToGame(g.ID, network.MsgTypeGameEnd, broadcast.GameSummary(g))
}

func (s *GameService) seatedPlayer(g *game.Game, userID int64) (*game.Player, *game.Hand, error) {
	if g.CurrentHand == nil {
		return nil, nil, game.ErrInvalidStateTransition
	}
	p, ok := g.PlayerByUserID(userID)
	if !ok {
		return nil, nil, game.ErrNotInGame
	}
	return p, g.CurrentHand, nil
}

// loadGame restores a persisted game into the manager, for rejoining
// after a restart.
func (s *GameService) loadGame(gameID string) (*game.Game, error) {
	snap, err := s.db.LoadGameState(gameID)
	if err != nil {
		if err == persistence.ErrRecordNotFound {
			return nil, broadcast.ErrGameNotFound
		}
		return nil, err
	}
	g, err := game.RestoreGame(snap)
	if err != nil {
		return nil, err
	}
	s.games.Add(g)
	return g, nil
}

func (s *GameService) cancelCallTimer(gameID string) {
	if id, ok := s.callTimers.LoadAndDelete(gameID); ok {
		s.timers.Cancel(id.(int64))
	}
}

func (s *GameService) persist(g *game.Game) {
	if err := s.db.SaveGameState(g.Snapshot()); err != nil {
		logger.Log.Warnw("game state save failed", "game", g.ID, "error", err)
	}
}

func (s *GameService) logEvent(gameID string, userID int64, eventType, message string) {
	event := &models.EventLog{
		GameID:    gameID,
		UserID:    userID,
		Type:      eventType,
		Message:   message,
		CreatedAt: time.Now(),
	}
	if err := s.db.AppendEventLog(event); err != nil {
		logger.Log.Warnw("event log append failed", "game", gameID, "error", err)
	}
}

func anyPossibleCalls(h *game.Hand) bool {
	for _, p := range h.Players {
		if len(p.PossibleCalls) > 0 {
			return true
		}
	}
	return false
}

func allEligibleCommitted(h *game.Hand) bool {
	for _, p := range h.Players {
		if len(p.PossibleCalls) > 0 && p.CallSent == nil {
			return false
		}
	}
	return true
}
