package game

import (
	"fmt"

	"github.com/Holk-VB/riichiBackend/models"
	"github.com/Holk-VB/riichiBackend/rng"
	"github.com/Holk-VB/riichiBackend/tiles"
)

var gameStatusNames = map[GameStatus]string{
	StatusWaiting: "waiting",
	StatusPlaying: "playing",
	StatusOver:    "over",
}

var gameStatusValues = map[string]GameStatus{
	"waiting": StatusWaiting,
	"playing": StatusPlaying,
	"over":    StatusOver,
}

// StatusName returns the wire name of the game status.
func (g *Game) StatusName() string {
	return gameStatusNames[g.Status]
}

// Snapshot captures the complete game state, including the random stream,
// so the game survives a server restart. Callers hold the game lock.
func (g *Game) Snapshot() *models.GameSnapshot {
	snap := &models.GameSnapshot{
		ID:             g.ID,
		Seed:           g.Seed,
		StreamState:    g.Stream.State(),
		Status:         g.StatusName(),
		PrevailingWind: g.PrevailingWind,
		CreatedAt:      g.CreatedAt,
	}

	for _, p := range g.Players {
		snap.Players = append(snap.Players, snapshotPlayer(p))
	}

	if h := g.CurrentHand; h != nil {
		snap.Hand = &models.HandSnapshot{
			KanCounter:     h.KanCounter,
			InCallPhase:    h.InCallPhase,
			NextWindToPlay: h.NextWindToPlay,
			Status:         string(h.Status),
			LastDiscarded:  discardView(h.LastDiscarded),
			Wall:           snapshotStack(h.wall),
			DeadWall:       snapshotStack(h.deadWall),
			DoraIndicators: snapshotStack(h.doraIndicators),
		}
	}

	return snap
}

func snapshotPlayer(p *Player) models.PlayerSnapshot {
	ps := models.PlayerSnapshot{
		UserID:        p.UserID,
		Username:      p.Username,
		Score:         p.Score,
		Wind:          p.Wind,
		IsDealer:      p.IsDealer,
		CanPlay:       p.CanPlay,
		InTenpai:      p.InTenpai,
		PossibleCalls: callViews(p.PossibleCalls),
		CallSent:      callView(p.CallSent),
	}
	if p.Concealed != nil {
		ps.Concealed = snapshotStack(p.Concealed)
	}
	if p.Discard != nil {
		ps.Discard = snapshotStack(p.Discard)
	}
	for _, meld := range p.Melds {
		ps.Melds = append(ps.Melds, snapshotStack(meld))
	}
	return ps
}

func snapshotStack(s *tiles.Stack) models.StackSnapshot {
	snap := models.StackSnapshot{Name: s.Name, Role: s.Role}
	if s.Meld != nil {
		snap.Meld = &models.MeldInfo{
			Type:   s.Meld.Type,
			Suit:   s.Meld.Suit,
			Opened: s.Meld.Opened,
		}
	}
	for _, tile := range s.Tiles() {
		snap.Tiles = append(snap.Tiles, models.TileSnapshot{
			ID:         tile.ID,
			Suit:       tile.Suit,
			Name:       tile.Name,
			Horizontal: tile.Horizontal,
		})
	}
	return snap
}

func callViews(calls []Call) []models.CallView {
	var out []models.CallView
	for _, c := range calls {
		out = append(out, models.CallView{Type: c.Type, Suit: c.Suit, Name: c.Name})
	}
	return out
}

func callView(c *Call) *models.CallView {
	if c == nil {
		return nil
	}
	return &models.CallView{Type: c.Type, Suit: c.Suit, Name: c.Name}
}

func discardView(d *Discard) *models.DiscardView {
	if d == nil {
		return nil
	}
	return &models.DiscardView{TileID: d.TileID, Suit: d.Suit, Name: d.Name}
}

// RestoreGame rebuilds a game from its snapshot. The restored game resumes
// exactly where the snapshot left off, tile positions and stream state
// included.
func RestoreGame(snap *models.GameSnapshot) (*Game, error) {
	status, ok := gameStatusValues[snap.Status]
	if !ok {
		return nil, fmt.Errorf("unknown game status %q", snap.Status)
	}
	stream, err := rng.Restore(snap.Seed, snap.StreamState)
	if err != nil {
		return nil, err
	}

	g := &Game{
		ID:             snap.ID,
		Seed:           snap.Seed,
		Stream:         stream,
		Status:         status,
		PrevailingWind: snap.PrevailingWind,
		CreatedAt:      snap.CreatedAt,
	}

	for _, ps := range snap.Players {
		g.Players = append(g.Players, &Player{
			UserID:        ps.UserID,
			Username:      ps.Username,
			Score:         ps.Score,
			Wind:          ps.Wind,
			IsDealer:      ps.IsDealer,
			CanPlay:       ps.CanPlay,
			InTenpai:      ps.InTenpai,
			PossibleCalls: restoreCalls(ps.PossibleCalls),
			CallSent:      restoreCall(ps.CallSent),
		})
	}

	if snap.Hand != nil {
		if err := restoreHand(g, snap); err != nil {
			return nil, err
		}
	}

	return g, nil
}

func restoreHand(g *Game, snap *models.GameSnapshot) error {
	h := NewHand(g.Players)
	h.KanCounter = snap.Hand.KanCounter
	h.InCallPhase = snap.Hand.InCallPhase
	h.NextWindToPlay = snap.Hand.NextWindToPlay
	h.Status = HandStatus(snap.Hand.Status)
	if d := snap.Hand.LastDiscarded; d != nil {
		h.LastDiscarded = &Discard{TileID: d.TileID, Suit: d.Suit, Name: d.Name}
	}

	for i, ps := range snap.Players {
		p := g.Players[i]
		var err error
		if p.Discard, err = restoreStack(h, ps.Discard); err != nil {
			return err
		}
		if p.Concealed, err = restoreStack(h, ps.Concealed); err != nil {
			return err
		}
		for _, ms := range ps.Melds {
			if ms.Meld == nil {
				return fmt.Errorf("meld stack %q has no meld descriptor", ms.Name)
			}
			meld := tiles.NewMeld(ms.Name, ms.Meld.Suit, ms.Meld.Type, ms.Meld.Opened)
			fillStack(h, meld, ms.Tiles)
			p.Melds = append(p.Melds, meld)
		}
	}

	var err error
	if h.doraIndicators, err = restoreStack(h, snap.Hand.DoraIndicators); err != nil {
		return err
	}
	if h.deadWall, err = restoreStack(h, snap.Hand.DeadWall); err != nil {
		return err
	}
	if h.wall, err = restoreStack(h, snap.Hand.Wall); err != nil {
		return err
	}

	g.CurrentHand = h
	return nil
}

func restoreStack(h *Hand, snap models.StackSnapshot) (*tiles.Stack, error) {
	s, err := h.stacks.Create(snap.Name, snap.Role)
	if err != nil {
		return nil, err
	}
	fillStack(h, s, snap.Tiles)
	return s, nil
}

func fillStack(h *Hand, s *tiles.Stack, snapTiles []models.TileSnapshot) {
	for _, ts := range snapTiles {
		tile := s.AddTile(ts.ID, ts.Suit, ts.Name)
		tile.Horizontal = ts.Horizontal
		h.tileByID[ts.ID] = tile
	}
}

func restoreCalls(views []models.CallView) []Call {
	var out []Call
	for _, v := range views {
		out = append(out, Call{Type: v.Type, Suit: v.Suit, Name: v.Name})
	}
	return out
}

func restoreCall(v *models.CallView) *Call {
	if v == nil {
		return nil
	}
	return &Call{Type: v.Type, Suit: v.Suit, Name: v.Name}
}
