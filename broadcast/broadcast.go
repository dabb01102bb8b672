// broadcast/broadcast.go
package broadcast

import (
	"errors"

	"github.com/Holk-VB/riichiBackend/game"
	"github.com/Holk-VB/riichiBackend/logger"
	"github.com/Holk-VB/riichiBackend/models"
	"github.com/Holk-VB/riichiBackend/network"
	"github.com/Holk-VB/riichiBackend/session"
	"github.com/Holk-VB/riichiBackend/tiles"
)

var (
	ErrGameNotFound = errors.New("game not found")
)

// Broadcaster pushes game state to connected clients.
type Broadcaster interface {
	SyncGame(g *game.Game) error
	BroadcastToGame(gameID string, msgID uint16, v interface{}) error
	BroadcastToUsers(userIDs []int64, msgID uint16, v interface{}) error
}

// GameBroadcaster sends over the live sessions bound to each game.
type GameBroadcaster struct {
	games    *game.Manager
	sessions *session.Manager
}

func NewGameBroadcaster(games *game.Manager, sessions *session.Manager) *GameBroadcaster {
	return &GameBroadcaster{
		games:    games,
		sessions: sessions,
	}
}

// SyncGame pushes each player their own view of the game. Views differ per
// receiver: concealed tiles and possible calls only go to their owner.
// Callers hold the game lock.
func (b *GameBroadcaster) SyncGame(g *game.Game) error {
	sessions := b.sessions.GetByGameID(g.ID)
	for _, s := range sessions {
		view := GameView(g, s.UserID)
		if err := s.SendJSON(network.MsgTypeGameSync, view); err != nil {
			logger.Log.Warnw("sync send failed", "game", g.ID, "user", s.UserID, "error", err)
			continue
		}
	}
	return nil
}

// BroadcastToGame sends the same payload to every session in the game.
func (b *GameBroadcaster) BroadcastToGame(gameID string, msgID uint16, v interface{}) error {
	if _, exists := b.games.Get(gameID); !exists {
		return ErrGameNotFound
	}

	for _, s := range b.sessions.GetByGameID(gameID) {
		if err := s.SendJSON(msgID, v); err != nil {
			continue
		}
	}
	return nil
}

// BroadcastToUsers sends the same payload to every session of the users.
func (b *GameBroadcaster) BroadcastToUsers(userIDs []int64, msgID uint16, v interface{}) error {
	for _, userID := range userIDs {
		for _, s := range b.sessions.GetByUserID(userID) {
			if err := s.SendJSON(msgID, v); err != nil {
				continue
			}
		}
	}
	return nil
}

// GameView shapes the game for one viewer. Opponents' concealed hands
// collapse to a count; their computed calls are not exposed at all.
func GameView(g *game.Game, viewerID int64) *models.GameView {
	view := &models.GameView{
		ID:             g.ID,
		Status:         g.StatusName(),
		PrevailingWind: g.PrevailingWind,
		CreatedAt:      g.CreatedAt,
	}
	if h := g.CurrentHand; h != nil {
		view.Hand = handView(h, viewerID)
	}
	return view
}

// GameSummary shapes the light lobby listing entry.
func GameSummary(g *game.Game) models.GameSummary {
	return models.GameSummary{
		ID:        g.ID,
		Status:    g.StatusName(),
		Seats:     len(g.Players),
		CreatedAt: g.CreatedAt,
	}
}

func handView(h *game.Hand, viewerID int64) *models.HandView {
	view := &models.HandView{
		Status:         string(h.Status),
		NextWindToPlay: h.NextWindToPlay,
		InCallPhase:    h.InCallPhase,
		KanCounter:     h.KanCounter,
		WallCount:      h.Wall().Length,
	}

	for _, dora := range h.Doras() {
		view.Doras = append(view.Doras, models.KindView{Suit: dora.Suit, Name: dora.Name})
	}
	if d := h.LastDiscarded; d != nil {
		view.LastDiscarded = &models.DiscardView{TileID: d.TileID, Suit: d.Suit, Name: d.Name}
	}

	for _, p := range h.Players {
		view.Players = append(view.Players, playerView(p, p.UserID == viewerID))
	}
	return view
}

func playerView(p *game.Player, owner bool) models.PlayerView {
	view := models.PlayerView{
		UserID:   p.UserID,
		Username: p.Username,
		Score:    p.Score,
		Wind:     p.Wind,
		IsDealer: p.IsDealer,
		CanPlay:  p.CanPlay,
		InTenpai: p.InTenpai,
	}

	if p.Concealed != nil {
		view.ConcealedCount = p.Concealed.Length
		if owner {
			view.Concealed = tileViews(p.Concealed)
		}
	}
	if p.Discard != nil {
		view.Discard = tileViews(p.Discard)
	}
	for _, meld := range p.Melds {
		view.Melds = append(view.Melds, meldView(meld))
	}

	if owner {
		for _, c := range p.PossibleCalls {
			view.PossibleCalls = append(view.PossibleCalls, models.CallView{
				Type: c.Type, Suit: c.Suit, Name: c.Name,
			})
		}
		if p.CallSent != nil {
			view.CallSent = &models.CallView{
				Type: p.CallSent.Type, Suit: p.CallSent.Suit, Name: p.CallSent.Name,
			}
		}
	}
	return view
}

func meldView(meld *tiles.Stack) models.MeldView {
	view := models.MeldView{
		Name:  meld.Name,
		Tiles: tileViews(meld),
	}
	if meld.Meld != nil {
		view.Type = meld.Meld.Type
		view.Suit = meld.Meld.Suit
		view.Opened = meld.Meld.Opened
	}
	return view
}

func tileViews(s *tiles.Stack) []models.TileView {
	out := make([]models.TileView, 0, s.Length)
	for _, tile := range s.Tiles() {
		out = append(out, models.TileView{
			ID:         tile.ID,
			Suit:       tile.Suit,
			Name:       tile.Name,
			Horizontal: tile.Horizontal,
		})
	}
	return out
}
